// Package definition loads statement and table definitions from YAML
// files and turns them into the statement specifications the dialect
// writers compile. The CLI render and ddl commands are its consumers;
// it knows nothing about flags or output.
package definition

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StatementFile is a YAML document describing exactly one statement.
type StatementFile struct {
	Select *SelectSpec `yaml:"select"`
	Insert *InsertSpec `yaml:"insert"`
	Delete *DeleteSpec `yaml:"delete"`
}

// SelectSpec describes a row query.
type SelectSpec struct {
	From    string          `yaml:"from"`
	Alias   string          `yaml:"alias"`
	Columns []ColumnSpec    `yaml:"columns"`
	Where   []ConditionSpec `yaml:"where"`
	GroupBy []string        `yaml:"group_by"`
	Having  []ConditionSpec `yaml:"having"`
	OrderBy []OrderSpec     `yaml:"order_by"`
	Limit   *uint32         `yaml:"limit"`
	Qualify bool            `yaml:"qualify"`
}

// ColumnSpec is one select column: a plain column reference, a function
// call over a column, or the asterisk.
type ColumnSpec struct {
	Column string `yaml:"column"`
	// Call names a function; Of is its column argument, "*" for the
	// asterisk, empty for a zero-argument call.
	Call  string `yaml:"call"`
	Of    string `yaml:"of"`
	Star  bool   `yaml:"star"`
	Alias string `yaml:"alias"`
}

// ConditionSpec is one conjunct of a row or group filter.
type ConditionSpec struct {
	Column string `yaml:"column"`
	// Op is one of eq, ne, lt, le, gt, ge, like, in, is_null, not_null.
	// Empty means eq.
	Op     string `yaml:"op"`
	Value  any    `yaml:"value"`
	Values []any  `yaml:"values"`
	// Param renders a bind placeholder instead of a literal.
	Param bool `yaml:"param"`
}

// OrderSpec is one ordering key.
type OrderSpec struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
}

// InsertSpec describes row insertion.
type InsertSpec struct {
	Into    string   `yaml:"into"`
	Columns []string `yaml:"columns"`
	Rows    [][]any  `yaml:"rows"`
	// Update turns key conflicts into updates; Keys names the conflict
	// key columns.
	Update bool     `yaml:"update"`
	Keys   []string `yaml:"keys"`
}

// DeleteSpec describes row deletion.
type DeleteSpec struct {
	From  string          `yaml:"from"`
	Where []ConditionSpec `yaml:"where"`
}

// TableFile is a YAML document describing one table.
type TableFile struct {
	Table *TableSpec `yaml:"table"`
}

// TableSpec describes a table for DDL generation.
type TableSpec struct {
	Name        string          `yaml:"name"`
	Schema      string          `yaml:"schema"`
	IfNotExists bool            `yaml:"if_not_exists"`
	Comment     string          `yaml:"comment"`
	Columns     []ColumnDefSpec `yaml:"columns"`
	// Unique lists composite unique constraints as column name sets.
	Unique [][]string `yaml:"unique"`
}

// ColumnDefSpec describes one table column.
type ColumnDefSpec struct {
	Name string `yaml:"name"`
	// Type is a value kind name such as int64, varchar or timestamptz.
	Type string `yaml:"type"`
	// Nullable defaults to true when omitted.
	Nullable   *bool `yaml:"nullable"`
	PrimaryKey bool  `yaml:"primary_key"`
	// Clustering marks a row-ordering key on backends that support it.
	Clustering bool `yaml:"clustering"`
	Unique     bool `yaml:"unique"`
	Default    any  `yaml:"default"`
	// References names the foreign key target as [schema.]table.column.
	References string `yaml:"references"`
	OnDelete   string `yaml:"on_delete"`
	OnUpdate   string `yaml:"on_update"`
	// Passive columns are skipped in insert value lists.
	Passive bool   `yaml:"passive"`
	Comment string `yaml:"comment"`
	// TypeOverride maps a dialect name to an explicit SQL type.
	TypeOverride map[string]string `yaml:"type_override"`
}

// LoadStatementFile reads and decodes a statement definition.
func LoadStatementFile(path string) (*StatementFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return ParseStatementFile(data)
}

// ParseStatementFile decodes a statement definition and checks that it
// describes exactly one statement.
func ParseStatementFile(data []byte) (*StatementFile, error) {
	var f StatementFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}

	count := 0
	for _, set := range []bool{f.Select != nil, f.Insert != nil, f.Delete != nil} {
		if set {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("definition must contain exactly one of select, insert or delete")
	}
	return &f, nil
}

// LoadTableFile reads and decodes a table definition.
func LoadTableFile(path string) (*TableFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	return ParseTableFile(data)
}

// ParseTableFile decodes a table definition and checks its shape.
func ParseTableFile(data []byte) (*TableFile, error) {
	var f TableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	if f.Table == nil {
		return nil, fmt.Errorf("definition must contain a table")
	}
	if f.Table.Name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	if len(f.Table.Columns) == 0 {
		return nil, fmt.Errorf("table %q has no columns", f.Table.Name)
	}
	return &f, nil
}
