package expr

import "strings"

// ColumnRef names a column, optionally qualified by table and schema.
type ColumnRef struct {
	Name   string
	Table  string
	Schema string
}

// String joins the non-empty parts with dots, for diagnostics and labels.
func (c ColumnRef) String() string {
	parts := make([]string, 0, 3)
	if c.Schema != "" {
		parts = append(parts, c.Schema)
	}
	if c.Table != "" {
		parts = append(parts, c.Table)
	}
	parts = append(parts, c.Name)
	return strings.Join(parts, ".")
}

// Expr converts the reference into an expression operand: a plain
// identifier when unqualified, a field path otherwise.
func (c ColumnRef) Expr() *Operand {
	if c.Table == "" && c.Schema == "" {
		return Ident(c.Name)
	}
	parts := make([]string, 0, 3)
	if c.Schema != "" {
		parts = append(parts, c.Schema)
	}
	if c.Table != "" {
		parts = append(parts, c.Table)
	}
	parts = append(parts, c.Name)
	return Field(parts...)
}
