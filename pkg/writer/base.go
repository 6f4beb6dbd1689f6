package writer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

// Base implements the full Writer contract with portable ANSI SQL. A
// dialect embeds Base, points Dialect back at itself and overrides the
// methods it renders differently; every nested call goes through Dialect
// so overrides take effect wherever their concern appears.
type Base struct {
	// Dialect is the outermost writer. Nested rendering dispatches
	// through it.
	Dialect Writer
	// Logger receives rendering degradations, such as values the dialect
	// has no literal form for.
	Logger *slog.Logger
}

func (b *Base) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

// Generic is the plain ANSI writer with no dialect specialization.
type Generic struct {
	Base
}

func NewGeneric(logger *slog.Logger) *Generic {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Generic{}
	w.Base = Base{Dialect: w, Logger: logger}
	return w
}

var (
	_ Writer = (*Base)(nil)
	_ Writer = (*Generic)(nil)
)

func (b *Base) BinaryOpPrecedence(op expr.BinaryOpType) int {
	switch op {
	case expr.OpAlias:
		return PrecedenceAlias
	case expr.OpOr:
		return PrecedenceOr
	case expr.OpAnd:
		return PrecedenceAnd
	case expr.OpIndexing:
		return PrecedenceIndexing
	case expr.OpCast:
		return PrecedenceCast
	case expr.OpMultiplication, expr.OpDivision, expr.OpRemainder:
		return PrecedenceMultiply
	case expr.OpAddition, expr.OpSubtraction:
		return PrecedenceAddition
	case expr.OpShiftLeft, expr.OpShiftRight:
		return PrecedenceShift
	case expr.OpBitwiseAnd:
		return PrecedenceBitwiseAnd
	case expr.OpBitwiseOr:
		return PrecedenceBitwiseOr
	}
	// Comparisons, IN, IS, LIKE, REGEXP and GLOB share one level.
	return PrecedenceComparison
}

func (b *Base) UnaryOpPrecedence(op expr.UnaryOpType) int {
	if op == expr.OpNot {
		return PrecedenceNot
	}
	return PrecedenceUnary
}

// associativeOp reports whether chaining the operator at equal precedence
// needs no parentheses on the right-hand side.
func associativeOp(op expr.BinaryOpType) bool {
	switch op {
	case expr.OpAnd, expr.OpOr, expr.OpAddition, expr.OpMultiplication,
		expr.OpBitwiseAnd, expr.OpBitwiseOr:
		return true
	}
	return false
}

func (b *Base) childPrecedence(e expr.Expression) int {
	if e == nil {
		return expr.MaxPrecedence
	}
	return e.Precedence(b.Dialect)
}

func (b *Base) WriteSelect(q *query.Query, s *query.Select) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLSelect, s.Qualify)
	out.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		out.WriteByte('*')
	}
	SeparatedBy(out, s.Columns, func(out *strings.Builder, e expr.Expression) {
		b.Dialect.WriteExpression(out, ctx, e)
	}, ", ")
	if !s.From.IsEmpty() {
		out.WriteString("\nFROM ")
		restore := ctx.SwitchFragment(FragmentSQLSelectFrom)
		b.Dialect.WriteTableRef(out, ctx, &s.From)
		restore()
	}
	if s.Where != nil && !s.Where.IsTrue() {
		out.WriteString("\nWHERE ")
		restore := ctx.SwitchFragment(FragmentSQLSelectWhere)
		b.Dialect.WriteExpression(out, ctx, s.Where)
		restore()
	}
	if len(s.GroupBy) > 0 {
		out.WriteString("\nGROUP BY ")
		restore := ctx.SwitchFragment(FragmentSQLSelectGroupBy)
		SeparatedBy(out, s.GroupBy, func(out *strings.Builder, e expr.Expression) {
			b.Dialect.WriteExpression(out, ctx, e)
		}, ", ")
		restore()
	}
	if s.Having != nil && !s.Having.IsTrue() {
		out.WriteString("\nHAVING ")
		restore := ctx.SwitchFragment(FragmentSQLSelectHaving)
		b.Dialect.WriteExpression(out, ctx, s.Having)
		restore()
	}
	if len(s.OrderBy) > 0 {
		out.WriteString("\nORDER BY ")
		restore := ctx.SwitchFragment(FragmentSQLSelectOrderBy)
		SeparatedBy(out, s.OrderBy, func(out *strings.Builder, e expr.Expression) {
			b.Dialect.WriteExpression(out, ctx, e)
		}, ", ")
		restore()
	}
	if s.Limit != nil {
		out.WriteString("\nLIMIT ")
		out.WriteString(strconv.FormatUint(uint64(*s.Limit), 10))
	}
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

func (b *Base) WriteInsert(q *query.Query, s *query.Insert) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLInsertInto, false)
	out.WriteString("INSERT INTO ")
	ref := s.Table.Ref
	b.Dialect.WriteTableRef(out, ctx, &ref)
	cols := insertColumns(s)
	out.WriteString(" (")
	SeparatedBy(out, cols, func(out *strings.Builder, i int) {
		b.Dialect.WriteIdentifier(out, ctx, s.Columns[i].Name(), true)
	}, ", ")
	out.WriteString(") VALUES")
	restore := ctx.SwitchFragment(FragmentSQLInsertIntoValues)
	for ri, row := range s.Rows {
		if ri > 0 {
			out.WriteByte(',')
		}
		out.WriteString("\n(")
		SeparatedBy(out, cols, func(out *strings.Builder, i int) {
			var v value.Value = value.Null{}
			if i < len(row) && row[i] != nil {
				v = row[i]
			}
			b.Dialect.WriteValue(out, ctx, v)
		}, ", ")
		out.WriteByte(')')
	}
	restore()
	if s.Update {
		restore = ctx.SwitchFragment(FragmentSQLInsertIntoOnConflict)
		b.Dialect.WriteInsertUpdateFragment(out, ctx, s)
		restore()
	}
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

// insertColumns returns the indexes of the insert columns to render.
// Passive columns whose values are absent or null in every row are left to
// the database default.
func insertColumns(s *query.Insert) []int {
	kept := make([]int, 0, len(s.Columns))
	for i := range s.Columns {
		if s.Columns[i].Passive && !columnHasValue(s.Rows, i) {
			continue
		}
		kept = append(kept, i)
	}
	return kept
}

func columnHasValue(rows [][]value.Value, i int) bool {
	for _, row := range rows {
		if i < len(row) && row[i] != nil && !row[i].IsNull() {
			return true
		}
	}
	return false
}

func (b *Base) WriteInsertUpdateFragment(out *strings.Builder, ctx *Context, s *query.Insert) {
	pk := s.Table.PrimaryKeyColumns()
	if len(pk) == 0 {
		return
	}
	out.WriteString("\nON CONFLICT (")
	SeparatedBy(out, pk, func(out *strings.Builder, c *query.ColumnDef) {
		b.Dialect.WriteIdentifier(out, ctx, c.Name(), true)
	}, ", ")
	out.WriteByte(')')
	var update []*query.ColumnDef
	for i := range s.Columns {
		if s.Columns[i].PrimaryKey == query.NotPrimaryKey {
			update = append(update, &s.Columns[i])
		}
	}
	if len(update) == 0 {
		out.WriteString(" DO NOTHING")
		return
	}
	out.WriteString(" DO UPDATE SET ")
	SeparatedBy(out, update, func(out *strings.Builder, c *query.ColumnDef) {
		b.Dialect.WriteIdentifier(out, ctx, c.Name(), true)
		out.WriteString(" = EXCLUDED.")
		b.Dialect.WriteIdentifier(out, ctx, c.Name(), true)
	}, ",\n")
}

func (b *Base) WriteDelete(q *query.Query, s *query.Delete) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLDeleteFrom, false)
	out.WriteString("DELETE FROM ")
	from := s.From
	b.Dialect.WriteTableRef(out, ctx, &from)
	if s.Where != nil && !s.Where.IsTrue() {
		out.WriteString("\nWHERE ")
		restore := ctx.SwitchFragment(FragmentSQLDeleteFromWhere)
		b.Dialect.WriteExpression(out, ctx, s.Where)
		restore()
	}
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

func (b *Base) WriteCreateTable(q *query.Query, s *query.CreateTable) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLCreateTable, false)
	out.WriteString("CREATE TABLE ")
	if s.IfNotExists {
		out.WriteString("IF NOT EXISTS ")
	}
	ref := s.Table.Ref
	b.Dialect.WriteTableRef(out, ctx, &ref)
	out.WriteString(" (")
	SeparatedBy(out, s.Table.Columns, func(out *strings.Builder, col query.ColumnDef) {
		out.WriteByte('\n')
		b.Dialect.WriteCreateTableColumnFragment(out, ctx, &col)
	}, ",")
	if compositeKey(&s.Table) {
		b.Dialect.WriteCreateTablePrimaryKeyFragment(out, ctx, s.Table.PrimaryKeyColumns())
	}
	for _, set := range s.Table.UniqueSets {
		b.Dialect.WriteCreateTableUniqueFragment(out, ctx, set)
	}
	out.WriteString("\n);")
	b.Dialect.WriteColumnCommentsStatements(q, &s.Table)
	*q.Metadata() = s.Metadata()
}

// compositeKey reports whether the primary key spans columns and therefore
// needs a table-level constraint instead of an inline one.
func compositeKey(table *query.TableDef) bool {
	for i := range table.Columns {
		if table.Columns[i].PrimaryKey == query.PartOfPrimaryKey {
			return true
		}
	}
	return false
}

func (b *Base) WriteCreateTableColumnFragment(out *strings.Builder, ctx *Context, col *query.ColumnDef) {
	b.Dialect.WriteIdentifier(out, ctx, col.Name(), true)
	out.WriteByte(' ')
	n := out.Len()
	b.Dialect.WriteColumnOverriddenType(out, ctx, col)
	if out.Len() == n {
		b.Dialect.WriteColumnType(out, ctx, col.Value)
	}
	if !col.Nullable {
		out.WriteString(" NOT NULL")
	}
	if col.Default != nil {
		out.WriteString(" DEFAULT ")
		b.Dialect.WriteExpression(out, ctx, col.Default)
	}
	if col.Unique && col.PrimaryKey == query.NotPrimaryKey {
		out.WriteString(" UNIQUE")
	}
	if col.PrimaryKey == query.PrimaryKey {
		out.WriteString(" PRIMARY KEY")
	}
	if col.References != nil {
		out.WriteString(" REFERENCES ")
		if col.References.Schema != "" {
			b.Dialect.WriteIdentifier(out, ctx, col.References.Schema, true)
			out.WriteByte('.')
		}
		b.Dialect.WriteIdentifier(out, ctx, col.References.Table, true)
		out.WriteByte('(')
		b.Dialect.WriteIdentifier(out, ctx, col.References.Name, true)
		out.WriteByte(')')
		if col.OnDelete != query.ActionUnspecified {
			out.WriteString(" ON DELETE ")
			out.WriteString(col.OnDelete.String())
		}
		if col.OnUpdate != query.ActionUnspecified {
			out.WriteString(" ON UPDATE ")
			out.WriteString(col.OnUpdate.String())
		}
	}
	if col.Comment != "" {
		b.Dialect.WriteColumnCommentInline(out, ctx, col)
	}
}

func (b *Base) WriteCreateTablePrimaryKeyFragment(out *strings.Builder, ctx *Context, pk []*query.ColumnDef) {
	out.WriteString(",\nPRIMARY KEY (")
	restore := ctx.SwitchFragment(FragmentSQLCreateTablePrimaryKey)
	SeparatedBy(out, pk, func(out *strings.Builder, c *query.ColumnDef) {
		b.Dialect.WriteIdentifier(out, ctx, c.Name(), true)
	}, ", ")
	restore()
	out.WriteByte(')')
}

func (b *Base) WriteCreateTableUniqueFragment(out *strings.Builder, ctx *Context, columns []string) {
	out.WriteString(",\nUNIQUE (")
	restore := ctx.SwitchFragment(FragmentSQLCreateTableUnique)
	SeparatedBy(out, columns, func(out *strings.Builder, name string) {
		b.Dialect.WriteIdentifier(out, ctx, name, true)
	}, ", ")
	restore()
	out.WriteByte(')')
}

// WriteColumnCommentInline writes nothing; comments are emitted as COMMENT
// ON statements by default.
func (b *Base) WriteColumnCommentInline(out *strings.Builder, ctx *Context, col *query.ColumnDef) {
}

func (b *Base) WriteColumnCommentsStatements(q *query.Query, table *query.TableDef) {
	out := q.Buffer()
	ctx := FragmentContext(FragmentSQLCommentOnColumn)
	if table.Comment != "" {
		out.WriteString("\nCOMMENT ON TABLE ")
		ref := table.Ref
		b.Dialect.WriteTableRef(out, ctx, &ref)
		out.WriteString(" IS ")
		b.Dialect.WriteValueString(out, ctx, table.Comment)
		out.WriteByte(';')
	}
	for i := range table.Columns {
		col := &table.Columns[i]
		if col.Comment == "" {
			continue
		}
		out.WriteString("\nCOMMENT ON COLUMN ")
		ref := table.Ref
		b.Dialect.WriteTableRef(out, ctx, &ref)
		out.WriteByte('.')
		b.Dialect.WriteIdentifier(out, ctx, col.Name(), true)
		out.WriteString(" IS ")
		b.Dialect.WriteValueString(out, ctx, col.Comment)
		out.WriteByte(';')
	}
}

func (b *Base) WriteDropTable(q *query.Query, s *query.DropTable) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLDropTable, false)
	out.WriteString("DROP TABLE ")
	if s.IfExists {
		out.WriteString("IF EXISTS ")
	}
	ref := s.Table
	b.Dialect.WriteTableRef(out, ctx, &ref)
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

func (b *Base) WriteCreateSchema(q *query.Query, s *query.CreateSchema) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLCreateSchema, false)
	out.WriteString("CREATE SCHEMA ")
	if s.IfNotExists {
		out.WriteString("IF NOT EXISTS ")
	}
	b.Dialect.WriteIdentifier(out, ctx, s.Schema, true)
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

func (b *Base) WriteDropSchema(q *query.Query, s *query.DropSchema) {
	out := q.Buffer()
	if out.Len() > 0 {
		out.WriteByte('\n')
	}
	ctx := NewContext(FragmentSQLDropSchema, false)
	out.WriteString("DROP SCHEMA ")
	if s.IfExists {
		out.WriteString("IF EXISTS ")
	}
	b.Dialect.WriteIdentifier(out, ctx, s.Schema, true)
	out.WriteByte(';')
	*q.Metadata() = s.Metadata()
}

func (b *Base) WriteExpression(out *strings.Builder, ctx *Context, e expr.Expression) {
	switch e := e.(type) {
	case nil:
	case *expr.Operand:
		b.Dialect.WriteExpressionOperand(out, ctx, e)
	case *expr.UnaryOp:
		b.Dialect.WriteExpressionUnaryOp(out, ctx, e)
	case *expr.BinaryOp:
		b.Dialect.WriteExpressionBinaryOp(out, ctx, e)
	case *expr.Ordered:
		b.Dialect.WriteExpressionOrdered(out, ctx, e)
	default:
		b.logger().Error("cannot write expression node", slog.String("type", fmt.Sprintf("%T", e)))
	}
}

func (b *Base) WriteExpressionUnaryOp(out *strings.Builder, ctx *Context, e *expr.UnaryOp) {
	prec := b.Dialect.UnaryOpPrecedence(e.Op)
	switch e.Op {
	case expr.OpNegative:
		out.WriteByte('-')
	case expr.OpNot:
		out.WriteString("NOT ")
	}
	// <= keeps a nested unary parenthesized, so two negations do not fuse
	// into a line comment.
	PossiblyParenthesized(out, b.childPrecedence(e.Arg) <= prec, func(out *strings.Builder) {
		b.Dialect.WriteExpression(out, ctx, e.Arg)
	})
}

func (b *Base) WriteExpressionBinaryOp(out *strings.Builder, ctx *Context, e *expr.BinaryOp) {
	prec := b.Dialect.BinaryOpPrecedence(e.Op)
	switch e.Op {
	case expr.OpAlias:
		PossiblyParenthesized(out, b.childPrecedence(e.LHS) < prec, func(out *strings.Builder) {
			b.Dialect.WriteExpression(out, ctx, e.LHS)
		})
		out.WriteString(" AS ")
		restore := ctx.SwitchFragment(FragmentAliasing)
		b.Dialect.WriteExpression(out, ctx, e.RHS)
		restore()
	case expr.OpCast:
		out.WriteString("CAST(")
		b.Dialect.WriteExpression(out, ctx, e.LHS)
		out.WriteString(" AS ")
		restore := ctx.SwitchFragment(FragmentCasting)
		if t, ok := e.RHS.(*expr.Operand); ok && t.Type == expr.OperandTypeLit {
			b.Dialect.WriteColumnType(out, ctx, t.Value)
		} else {
			b.Dialect.WriteExpression(out, ctx, e.RHS)
		}
		restore()
		out.WriteByte(')')
	case expr.OpIndexing:
		PossiblyParenthesized(out, b.childPrecedence(e.LHS) < prec, func(out *strings.Builder) {
			b.Dialect.WriteExpression(out, ctx, e.LHS)
		})
		out.WriteByte('[')
		b.Dialect.WriteExpression(out, ctx, e.RHS)
		out.WriteByte(']')
	default:
		PossiblyParenthesized(out, b.childPrecedence(e.LHS) < prec, func(out *strings.Builder) {
			b.Dialect.WriteExpression(out, ctx, e.LHS)
		})
		out.WriteByte(' ')
		out.WriteString(e.Op.String())
		out.WriteByte(' ')
		rhs := b.childPrecedence(e.RHS)
		PossiblyParenthesized(out, rhs < prec || (rhs == prec && !associativeOp(e.Op)), func(out *strings.Builder) {
			b.Dialect.WriteExpression(out, ctx, e.RHS)
		})
	}
}

func (b *Base) WriteExpressionOrdered(out *strings.Builder, ctx *Context, e *expr.Ordered) {
	b.Dialect.WriteExpression(out, ctx, e.Expr)
	out.WriteByte(' ')
	out.WriteString(e.Order.String())
}

func (b *Base) WriteExpressionOperand(out *strings.Builder, ctx *Context, e *expr.Operand) {
	switch e.Type {
	case expr.OperandNull:
		b.Dialect.WriteValueNull(out, ctx)
	case expr.OperandLitBool:
		out.WriteString(strconv.FormatBool(e.Bool))
	case expr.OperandLitInt:
		out.WriteString(strconv.FormatInt(e.Int, 10))
	case expr.OperandLitFloat:
		WriteFloat(out, e.Float, 64)
	case expr.OperandLitStr:
		b.Dialect.WriteValueString(out, ctx, e.Str)
	case expr.OperandLitIdent:
		b.Dialect.WriteIdentifier(out, ctx, e.Name, true)
	case expr.OperandLitField:
		ref := fieldRef(e.Field)
		b.Dialect.WriteColumnRef(out, ctx, &ref)
	case expr.OperandLitArray:
		out.WriteByte('[')
		SeparatedBy(out, e.Elems, func(out *strings.Builder, el expr.Expression) {
			b.Dialect.WriteExpression(out, ctx, el)
		}, ", ")
		out.WriteByte(']')
	case expr.OperandLitTuple:
		out.WriteByte('(')
		SeparatedBy(out, e.Elems, func(out *strings.Builder, el expr.Expression) {
			b.Dialect.WriteExpression(out, ctx, el)
		}, ", ")
		out.WriteByte(')')
	case expr.OperandTypeLit:
		b.Dialect.WriteColumnType(out, ctx, e.Value)
	case expr.OperandValue:
		b.Dialect.WriteValue(out, ctx, e.Value)
	case expr.OperandCall:
		out.WriteString(e.Name)
		out.WriteByte('(')
		SeparatedBy(out, e.Args, func(out *strings.Builder, arg expr.Expression) {
			b.Dialect.WriteExpression(out, ctx, arg)
		}, ", ")
		out.WriteByte(')')
	case expr.OperandAsterisk:
		out.WriteByte('*')
	case expr.OperandQuestionMark:
		b.Dialect.WritePlaceholder(out, ctx)
	case expr.OperandCurrentTimestampMs:
		b.Dialect.WriteCurrentTimestampMs(out, ctx)
	default:
		b.logger().Error("cannot write operand", slog.Int("type", int(e.Type)))
	}
}

// fieldRef folds a qualified identifier path into a column reference. The
// last part is the column name, the ones before it qualify.
func fieldRef(parts []string) expr.ColumnRef {
	var ref expr.ColumnRef
	switch len(parts) {
	case 0:
	case 1:
		ref.Name = parts[0]
	case 2:
		ref.Table = parts[0]
		ref.Name = parts[1]
	default:
		ref.Schema = parts[0]
		ref.Table = parts[1]
		ref.Name = parts[len(parts)-1]
	}
	return ref
}

func (b *Base) WritePlaceholder(out *strings.Builder, ctx *Context) {
	ctx.Counter++
	out.WriteByte('?')
}

func (b *Base) WriteCurrentTimestampMs(out *strings.Builder, ctx *Context) {
	out.WriteString("(EXTRACT(EPOCH FROM CURRENT_TIMESTAMP) * 1000)")
}

func (b *Base) WriteIdentifier(out *strings.Builder, ctx *Context, name string, quote bool) {
	if quote && ctx.QuoteIdentifiers {
		b.Dialect.WriteIdentifierQuoted(out, ctx, name)
		return
	}
	out.WriteString(name)
}

func (b *Base) WriteIdentifierQuoted(out *strings.Builder, ctx *Context, name string) {
	out.WriteByte('"')
	WriteEscaped(out, name, '"', `""`)
	out.WriteByte('"')
}

// WriteColumnRef writes the column name, qualified when the context asks
// for it. The context table, when set, replaces the column's own table so
// scoped sub-renders can re-qualify against an alias.
func (b *Base) WriteColumnRef(out *strings.Builder, ctx *Context, col *expr.ColumnRef) {
	if ctx.QualifyColumns && col.Table != "" {
		if !ctx.Table.IsEmpty() {
			b.Dialect.WriteIdentifier(out, ctx, ctx.Table.FullName(), true)
			out.WriteByte('.')
		} else {
			if col.Schema != "" {
				b.Dialect.WriteIdentifier(out, ctx, col.Schema, true)
				out.WriteByte('.')
			}
			b.Dialect.WriteIdentifier(out, ctx, col.Table, true)
			out.WriteByte('.')
		}
	}
	b.Dialect.WriteIdentifier(out, ctx, col.Name, true)
}

func (b *Base) WriteTableRef(out *strings.Builder, ctx *Context, table *query.TableRef) {
	if b.Dialect.AliasDeclaration(ctx) || table.Alias == "" {
		if table.Schema != "" {
			b.Dialect.WriteIdentifier(out, ctx, table.Schema, true)
			out.WriteByte('.')
		}
		b.Dialect.WriteIdentifier(out, ctx, table.Name, true)
		if table.Alias != "" {
			out.WriteByte(' ')
			out.WriteString(table.Alias)
		}
		return
	}
	out.WriteString(table.Alias)
}

func (b *Base) AliasDeclaration(ctx *Context) bool {
	switch ctx.Fragment {
	case FragmentNone, FragmentSQLSelectFrom, FragmentSQLJoin, FragmentSQLInsertInto,
		FragmentSQLDeleteFrom, FragmentSQLCreateTable, FragmentSQLDropTable:
		return true
	}
	return false
}

func (b *Base) WriteColumnType(out *strings.Builder, ctx *Context, v value.Value) {
	switch v := v.(type) {
	case value.Boolean:
		out.WriteString("BOOLEAN")
	case value.Int8:
		out.WriteString("TINYINT")
	case value.Int16:
		out.WriteString("SMALLINT")
	case value.Int32:
		out.WriteString("INTEGER")
	case value.Int64:
		out.WriteString("BIGINT")
	case value.Int128:
		out.WriteString("HUGEINT")
	case value.Uint8:
		out.WriteString("UTINYINT")
	case value.Uint16:
		out.WriteString("USMALLINT")
	case value.Uint32:
		out.WriteString("UINTEGER")
	case value.Uint64:
		out.WriteString("UBIGINT")
	case value.Uint128:
		out.WriteString("UHUGEINT")
	case value.Float32:
		out.WriteString("FLOAT")
	case value.Float64:
		out.WriteString("DOUBLE")
	case value.Decimal:
		out.WriteString("DECIMAL")
		if v.Width != 0 || v.Scale != 0 {
			out.WriteByte('(')
			out.WriteString(strconv.Itoa(int(v.Width)))
			out.WriteByte(',')
			out.WriteString(strconv.Itoa(int(v.Scale)))
			out.WriteByte(')')
		}
	case value.Char:
		out.WriteString("CHAR(1)")
	case value.Varchar:
		out.WriteString("VARCHAR")
	case value.Blob:
		out.WriteString("BLOB")
	case value.Date:
		out.WriteString("DATE")
	case value.Time:
		out.WriteString("TIME")
	case value.Timestamp:
		out.WriteString("TIMESTAMP")
	case value.TimestampTZ:
		out.WriteString("TIMESTAMP WITH TIME ZONE")
	case value.Interval:
		out.WriteString("INTERVAL")
	case value.Uuid:
		out.WriteString("UUID")
	case value.Array:
		b.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte('[')
		out.WriteString(strconv.FormatUint(uint64(v.Size), 10))
		out.WriteByte(']')
	case value.List:
		b.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteString("[]")
	case value.Map:
		out.WriteString("MAP(")
		b.Dialect.WriteColumnType(out, ctx, v.Key)
		out.WriteString(", ")
		b.Dialect.WriteColumnType(out, ctx, v.Elem)
		out.WriteByte(')')
	case value.Struct:
		out.WriteString("STRUCT(")
		SeparatedBy(out, v.Fields, func(out *strings.Builder, f value.StructField) {
			b.Dialect.WriteIdentifier(out, ctx, f.Name, true)
			out.WriteByte(' ')
			b.Dialect.WriteColumnType(out, ctx, f.Value)
		}, ", ")
		out.WriteByte(')')
	case value.Json:
		out.WriteString("JSON")
	case nil:
		b.logger().Error("cannot derive a column type from a nil value")
	default:
		b.logger().Error("value kind has no column type", slog.String("kind", v.Kind().String()))
	}
}

// WriteColumnOverriddenType writes nothing; the generic writer has no
// driver name for column type overrides to key on.
func (b *Base) WriteColumnOverriddenType(out *strings.Builder, ctx *Context, col *query.ColumnDef) {
}

func (b *Base) WriteValue(out *strings.Builder, ctx *Context, v value.Value) {
	if v == nil || v.IsNull() {
		b.Dialect.WriteValueNull(out, ctx)
		return
	}
	switch v := v.(type) {
	case value.Boolean:
		b.Dialect.WriteValueBool(out, ctx, v.Bool)
	case value.Int8:
		b.Dialect.WriteValueInt(out, ctx, int64(v.Int8))
	case value.Int16:
		b.Dialect.WriteValueInt(out, ctx, int64(v.Int16))
	case value.Int32:
		b.Dialect.WriteValueInt(out, ctx, int64(v.Int32))
	case value.Int64:
		b.Dialect.WriteValueInt(out, ctx, v.Int64)
	case value.Int128:
		b.Dialect.WriteValueBigInt(out, ctx, v.Big)
	case value.Uint8:
		b.Dialect.WriteValueUint(out, ctx, uint64(v.Uint8))
	case value.Uint16:
		b.Dialect.WriteValueUint(out, ctx, uint64(v.Uint16))
	case value.Uint32:
		b.Dialect.WriteValueUint(out, ctx, uint64(v.Uint32))
	case value.Uint64:
		b.Dialect.WriteValueUint(out, ctx, v.Uint64)
	case value.Uint128:
		b.Dialect.WriteValueBigInt(out, ctx, v.Big)
	case value.Float32:
		b.Dialect.WriteValueFloat32(out, ctx, v.Float32)
	case value.Float64:
		b.Dialect.WriteValueFloat64(out, ctx, v.Float64)
	case value.Decimal:
		b.Dialect.WriteValueDecimal(out, ctx, v.Decimal)
	case value.Char:
		b.Dialect.WriteValueString(out, ctx, string(v.Char))
	case value.Varchar:
		b.Dialect.WriteValueString(out, ctx, v.String)
	case value.Blob:
		b.Dialect.WriteValueBlob(out, ctx, v.Bytes)
	case value.Date:
		b.Dialect.WriteValueDate(out, ctx, v, false)
	case value.Time:
		b.Dialect.WriteValueTime(out, ctx, v, false)
	case value.Timestamp:
		b.Dialect.WriteValueTimestamp(out, ctx, v.Time)
	case value.TimestampTZ:
		b.Dialect.WriteValueTimestampTZ(out, ctx, v.Time)
	case value.Interval:
		b.Dialect.WriteValueInterval(out, ctx, v)
	case value.Uuid:
		b.Dialect.WriteValueUUID(out, ctx, v.UUID)
	case value.Array:
		b.Dialect.WriteValueList(out, ctx, v.Values, v, v.Elem)
	case value.List:
		b.Dialect.WriteValueList(out, ctx, v.Values, v, v.Elem)
	case value.Map:
		b.Dialect.WriteValueMap(out, ctx, v)
	case value.Struct, value.Json:
		b.writeValueJSONDoc(out, ctx, v)
	case value.Unknown:
		out.WriteString(v.String)
	default:
		b.logger().Error("value kind has no literal form", slog.String("kind", v.Kind().String()))
		b.Dialect.WriteValueNull(out, ctx)
	}
}

// writeValueJSONDoc serializes v to a JSON document and writes it as a
// string literal.
func (b *Base) writeValueJSONDoc(out *strings.Builder, ctx *Context, v value.Value) {
	doc, err := value.ToJSON(v)
	if err != nil {
		b.logger().Error("cannot write value as JSON", slog.Any("error", err))
		b.Dialect.WriteValueNull(out, ctx)
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		b.logger().Error("cannot write value as JSON", slog.Any("error", err))
		b.Dialect.WriteValueNull(out, ctx)
		return
	}
	b.Dialect.WriteValueString(out, ctx, string(raw))
}

func (b *Base) WriteValueBool(out *strings.Builder, ctx *Context, v bool) {
	out.WriteString(strconv.FormatBool(v))
}

func (b *Base) WriteValueInt(out *strings.Builder, ctx *Context, v int64) {
	out.WriteString(strconv.FormatInt(v, 10))
}

func (b *Base) WriteValueUint(out *strings.Builder, ctx *Context, v uint64) {
	out.WriteString(strconv.FormatUint(v, 10))
}

func (b *Base) WriteValueBigInt(out *strings.Builder, ctx *Context, v *big.Int) {
	if v == nil {
		b.Dialect.WriteValueNull(out, ctx)
		return
	}
	out.WriteString(v.String())
}

func (b *Base) WriteValueFloat32(out *strings.Builder, ctx *Context, v float32) {
	f := float64(v)
	switch {
	case math.IsInf(f, 0):
		b.Dialect.WriteValueInfinity(out, ctx, f < 0)
	case math.IsNaN(f):
		b.Dialect.WriteValueNaN(out, ctx)
	default:
		WriteFloat(out, f, 32)
	}
}

func (b *Base) WriteValueFloat64(out *strings.Builder, ctx *Context, v float64) {
	switch {
	case math.IsInf(v, 0):
		b.Dialect.WriteValueInfinity(out, ctx, v < 0)
	case math.IsNaN(v):
		b.Dialect.WriteValueNaN(out, ctx)
	default:
		WriteFloat(out, v, 64)
	}
}

func (b *Base) WriteValueDecimal(out *strings.Builder, ctx *Context, v decimal.Decimal) {
	out.WriteString(v.String())
}

func (b *Base) WriteValueString(out *strings.Builder, ctx *Context, v string) {
	if ctx.InsideJSON() {
		out.WriteByte('"')
		WriteEscaped(out, v, '"', `\"`)
		out.WriteByte('"')
		return
	}
	out.WriteByte('\'')
	WriteEscaped(out, v, '\'', "''")
	out.WriteByte('\'')
}

func (b *Base) WriteValueBlob(out *strings.Builder, ctx *Context, v []byte) {
	out.WriteString("X'")
	WriteHex(out, v)
	out.WriteByte('\'')
}

func (b *Base) WriteValueDate(out *strings.Builder, ctx *Context, v value.Date, timestamp bool) {
	quote := ""
	if !timestamp {
		quote = textQuote(ctx)
	}
	PrintDate(out, quote, v.Year, v.Month, v.Day)
}

func (b *Base) WriteValueTime(out *strings.Builder, ctx *Context, v value.Time, timestamp bool) {
	quote := ""
	if !timestamp {
		quote = textQuote(ctx)
	}
	h, m, s, ns := v.Clock()
	PrintTimer(out, quote, h, m, s, ns)
}

func (b *Base) WriteValueTimestamp(out *strings.Builder, ctx *Context, v time.Time) {
	quote := textQuote(ctx)
	out.WriteString(quote)
	b.Dialect.WriteValueDate(out, ctx, value.DateOf(v), true)
	out.WriteByte(' ')
	b.Dialect.WriteValueTime(out, ctx, value.TimeOfDay(v), true)
	out.WriteString(quote)
}

func (b *Base) WriteValueTimestampTZ(out *strings.Builder, ctx *Context, v time.Time) {
	quote := textQuote(ctx)
	out.WriteString(quote)
	b.Dialect.WriteValueDate(out, ctx, value.DateOf(v), true)
	out.WriteByte(' ')
	b.Dialect.WriteValueTime(out, ctx, value.TimeOfDay(v), true)
	WriteZoneOffset(out, v)
	out.WriteString(quote)
}

func (b *Base) WriteValueInterval(out *strings.Builder, ctx *Context, v value.Interval) {
	out.WriteString("INTERVAL '")
	if v.IsZero() {
		out.WriteString("0 SECOND'")
		return
	}
	wrote := false
	if v.Months != 0 {
		out.WriteString(strconv.FormatInt(int64(v.Months), 10))
		out.WriteString(" MONTH")
		wrote = true
	}
	nanos := v.Nanos + int64(v.Days)*value.NanosInDay
	for _, unit := range b.Dialect.IntervalUnits() {
		if nanos == 0 {
			break
		}
		rem := nanos % unit.Nanos
		// A remainder a million times smaller than the unit is noise
		// from float conversions; the unit absorbs it.
		if rem != 0 && unit.Nanos/rem <= 1_000_000 {
			continue
		}
		n := nanos / unit.Nanos
		if n == 0 {
			continue
		}
		if wrote {
			out.WriteByte(' ')
		}
		out.WriteString(strconv.FormatInt(n, 10))
		out.WriteByte(' ')
		out.WriteString(unit.Name)
		wrote = true
		nanos = rem
	}
	out.WriteByte('\'')
}

func (b *Base) IntervalUnits() []IntervalUnit {
	return genericIntervalUnits
}

var genericIntervalUnits = []IntervalUnit{
	{Name: "DAY", Nanos: value.NanosInDay},
	{Name: "HOUR", Nanos: 3_600_000_000_000},
	{Name: "MINUTE", Nanos: 60_000_000_000},
	{Name: "SECOND", Nanos: 1_000_000_000},
	{Name: "MILLISECOND", Nanos: 1_000_000},
	{Name: "MICROSECOND", Nanos: 1_000},
	{Name: "NANOSECOND", Nanos: 1},
}

func (b *Base) WriteValueUUID(out *strings.Builder, ctx *Context, v uuid.UUID) {
	quote := textQuote(ctx)
	out.WriteString(quote)
	out.WriteString(v.String())
	out.WriteString(quote)
}

func (b *Base) WriteValueList(out *strings.Builder, ctx *Context, values []value.Value, _, _ value.Value) {
	out.WriteByte('[')
	SeparatedBy(out, values, func(out *strings.Builder, v value.Value) {
		b.Dialect.WriteValue(out, ctx, v)
	}, ",")
	out.WriteByte(']')
}

func (b *Base) WriteValueMap(out *strings.Builder, ctx *Context, v value.Map) {
	out.WriteByte('{')
	SeparatedBy(out, v.Entries, func(out *strings.Builder, e value.MapEntry) {
		b.Dialect.WriteValue(out, ctx, e.Key)
		out.WriteByte(':')
		b.Dialect.WriteValue(out, ctx, e.Value)
	}, ",")
	out.WriteByte('}')
}

func (b *Base) WriteValueNull(out *strings.Builder, ctx *Context) {
	if ctx.InsideJSON() {
		out.WriteString("null")
		return
	}
	out.WriteString("NULL")
}

func (b *Base) WriteValueInfinity(out *strings.Builder, ctx *Context, negative bool) {
	if negative {
		out.WriteString("'-Infinity'")
		return
	}
	out.WriteString("'Infinity'")
}

func (b *Base) WriteValueNaN(out *strings.Builder, ctx *Context) {
	out.WriteString("'NaN'")
}

// textQuote is the delimiter for quoted scalar literals, a double quote
// inside JSON documents and a single quote in SQL.
func textQuote(ctx *Context) string {
	if ctx.InsideJSON() {
		return `"`
	}
	return "'"
}
