// Package query models executable statements: table and column
// definitions, the statement specs the writers render, the row results
// drivers produce, and the prepared-statement binding contract.
package query

import "strings"

// TableRef is a schema-qualified table reference with an optional
// rendering alias.
type TableRef struct {
	Name   string
	Schema string
	Alias  string
}

// NewTableRef returns a reference with empty schema and alias.
func NewTableRef(name string) TableRef {
	return TableRef{Name: name}
}

// FullName returns the display name: the alias when present, otherwise
// "schema.name" or just "name".
func (t TableRef) FullName() string {
	if t.Alias != "" {
		return t.Alias
	}
	if t.Schema != "" {
		var sb strings.Builder
		sb.Grow(len(t.Schema) + 1 + len(t.Name))
		sb.WriteString(t.Schema)
		sb.WriteByte('.')
		sb.WriteString(t.Name)
		return sb.String()
	}
	return t.Name
}

// WithAlias returns a copy with the alias set.
func (t TableRef) WithAlias(alias string) TableRef {
	t.Alias = alias
	return t
}

// IsEmpty reports whether the reference names no table.
func (t TableRef) IsEmpty() bool {
	return t.Name == "" && t.Schema == "" && t.Alias == ""
}
