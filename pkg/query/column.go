package query

import (
	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/value"
)

// PrimaryKeyType indicates if and how a column participates in the
// primary key.
type PrimaryKeyType int

const (
	// NotPrimaryKey means the column is not part of the primary key.
	NotPrimaryKey PrimaryKeyType = iota
	// PrimaryKey is a single-column primary key.
	PrimaryKey
	// PartOfPrimaryKey marks a member of a composite primary key.
	PartOfPrimaryKey
)

// Action is a referential action for foreign key updates and deletes. The
// zero value leaves the clause unwritten.
type Action int

const (
	ActionUnspecified Action = iota
	ActionNoAction
	ActionRestrict
	ActionCascade
	ActionSetNull
	ActionSetDefault
)

func (a Action) String() string {
	switch a {
	case ActionNoAction:
		return "NO ACTION"
	case ActionRestrict:
		return "RESTRICT"
	case ActionCascade:
		return "CASCADE"
	case ActionSetNull:
		return "SET NULL"
	case ActionSetDefault:
		return "SET DEFAULT"
	}
	return ""
}

// ColumnDef is a column specification for table DDL and insert planning.
type ColumnDef struct {
	// Ref is the column identity.
	Ref expr.ColumnRef
	// Value describes the column type and its parameters; the payload is
	// ignored.
	Value value.Value
	// TypeOverride maps a driver name to an explicit SQL type replacing
	// the one derived from Value.
	TypeOverride map[string]string
	Nullable     bool
	// Default is rendered as the column default expression when non-nil.
	Default expr.Expression
	PrimaryKey PrimaryKeyType
	// ClusteringKey defines row ordering on backends that support it.
	ClusteringKey bool
	Unique        bool
	// References points at the foreign key target column.
	References *expr.ColumnRef
	OnDelete   Action
	OnUpdate   Action
	// Passive columns are skipped in INSERT value lists so the backend
	// applies their default.
	Passive bool
	Comment string
}

// Name returns the declared column name.
func (c *ColumnDef) Name() string { return c.Ref.Name }

// Table returns the owning table name.
func (c *ColumnDef) Table() string { return c.Ref.Table }

// Schema returns the owning schema name, possibly empty.
func (c *ColumnDef) Schema() string { return c.Ref.Schema }

// SQLType returns the override for the given driver name, or empty when
// the type should derive from Value.
func (c *ColumnDef) SQLType(driver string) string {
	return c.TypeOverride[driver]
}

// TableDef is a table specification: identity, columns and table-level
// options.
type TableDef struct {
	Ref     TableRef
	Columns []ColumnDef
	// UniqueSets holds composite unique constraints as lists of column
	// names; single-column uniques live on the ColumnDef.
	UniqueSets [][]string
	Comment    string
}

// PrimaryKeyColumns returns the columns participating in the primary key,
// in declaration order.
func (t *TableDef) PrimaryKeyColumns() []*ColumnDef {
	var out []*ColumnDef
	for i := range t.Columns {
		if t.Columns[i].PrimaryKey != NotPrimaryKey {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// ClusteringColumns returns the columns marked as clustering keys, in
// declaration order.
func (t *TableDef) ClusteringColumns() []*ColumnDef {
	var out []*ColumnDef
	for i := range t.Columns {
		if t.Columns[i].ClusteringKey {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}

// Column returns the named column, or nil.
func (t *TableDef) Column(name string) *ColumnDef {
	for i := range t.Columns {
		if t.Columns[i].Ref.Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
