package query

import (
	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/value"
)

// Statement is a compilable statement specification. Dialect writers
// accept these and produce a Query.
type Statement interface {
	// Metadata returns the statement facts recorded on the compiled query.
	Metadata() QueryMetadata
	statement()
}

// Select specifies a row query. Clauses left at their zero value are
// omitted from the compiled statement.
type Select struct {
	Columns []expr.Expression
	From    TableRef
	Where   expr.Expression
	GroupBy []expr.Expression
	Having  expr.Expression
	OrderBy []expr.Expression
	Limit   *uint32
	// Qualify prefixes column references with the source table name.
	// Single-table queries leave it off.
	Qualify bool
}

// NewSelect starts a select over the given column expressions.
func NewSelect(columns ...expr.Expression) *Select {
	return &Select{Columns: columns}
}

// WithFrom sets the source table.
func (s *Select) WithFrom(from TableRef) *Select {
	s.From = from
	return s
}

// WithWhere sets the row filter.
func (s *Select) WithWhere(condition expr.Expression) *Select {
	s.Where = condition
	return s
}

// WithGroupBy sets the grouping expressions.
func (s *Select) WithGroupBy(groups ...expr.Expression) *Select {
	s.GroupBy = groups
	return s
}

// WithHaving sets the group filter.
func (s *Select) WithHaving(condition expr.Expression) *Select {
	s.Having = condition
	return s
}

// WithOrderBy sets the ordering expressions.
func (s *Select) WithOrderBy(orders ...expr.Expression) *Select {
	s.OrderBy = orders
	return s
}

// WithLimit caps the number of returned rows.
func (s *Select) WithLimit(limit uint32) *Select {
	s.Limit = &limit
	return s
}

// WithQualify turns on table-qualified column references.
func (s *Select) WithQualify() *Select {
	s.Qualify = true
	return s
}

func (s *Select) Metadata() QueryMetadata {
	return QueryMetadata{Table: s.From, Limit: s.Limit, Type: QuerySelect}
}

// Insert specifies row insertion. Rows align position by position with
// Columns; writers skip passive columns and their values.
type Insert struct {
	Table   TableDef
	Columns []ColumnDef
	Rows    [][]value.Value
	// Update turns key conflicts into updates of the non-key columns.
	Update bool
}

// NewInsert starts an insert targeting every column of the table.
func NewInsert(table TableDef) *Insert {
	return &Insert{Table: table, Columns: table.Columns}
}

// WithColumns restricts the insert to the given columns.
func (i *Insert) WithColumns(columns ...ColumnDef) *Insert {
	i.Columns = columns
	return i
}

// WithRow appends one row of values in column order.
func (i *Insert) WithRow(values ...value.Value) *Insert {
	i.Rows = append(i.Rows, values)
	return i
}

// WithUpdate turns key conflicts into updates.
func (i *Insert) WithUpdate() *Insert {
	i.Update = true
	return i
}

func (i *Insert) Metadata() QueryMetadata {
	return QueryMetadata{Table: i.Table.Ref, Type: QueryInsertInto}
}

// Delete specifies row deletion. A nil or trivially true Where deletes
// every row.
type Delete struct {
	From  TableRef
	Where expr.Expression
}

// NewDelete starts a delete over the given table.
func NewDelete(from TableRef) *Delete {
	return &Delete{From: from}
}

// WithWhere sets the row filter.
func (d *Delete) WithWhere(condition expr.Expression) *Delete {
	d.Where = condition
	return d
}

func (d *Delete) Metadata() QueryMetadata {
	return QueryMetadata{Table: d.From, Type: QueryDeleteFrom}
}

// CreateTable specifies table creation from a full table definition.
type CreateTable struct {
	Table       TableDef
	IfNotExists bool
}

func (c *CreateTable) Metadata() QueryMetadata {
	return QueryMetadata{Table: c.Table.Ref, Type: QueryCreateTable}
}

// DropTable specifies table removal.
type DropTable struct {
	Table    TableRef
	IfExists bool
}

func (d *DropTable) Metadata() QueryMetadata {
	return QueryMetadata{Table: d.Table, Type: QueryDropTable}
}

// CreateSchema specifies schema creation.
type CreateSchema struct {
	Schema      string
	IfNotExists bool
}

func (c *CreateSchema) Metadata() QueryMetadata {
	return QueryMetadata{Table: TableRef{Schema: c.Schema}, Type: QueryCreateSchema}
}

// DropSchema specifies schema removal.
type DropSchema struct {
	Schema   string
	IfExists bool
}

func (d *DropSchema) Metadata() QueryMetadata {
	return QueryMetadata{Table: TableRef{Schema: d.Schema}, Type: QueryDropSchema}
}

func (*Select) statement()       {}
func (*Insert) statement()       {}
func (*Delete) statement()       {}
func (*CreateTable) statement()  {}
func (*DropTable) statement()    {}
func (*CreateSchema) statement() {}
func (*DropSchema) statement()   {}
