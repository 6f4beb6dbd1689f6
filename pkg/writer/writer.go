// Package writer defines the rendering contract shared by the SQL dialect
// backends: a wide Writer interface with one method per statement kind,
// expression node and value variant, a render Context that tracks position
// and placeholder numbering, and a Base implementation producing portable
// ANSI SQL. Dialects embed Base and override only the methods whose output
// differs; nested rendering dispatches through the embedded back reference
// so an override applies wherever its concern appears.
package writer

import (
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/query"
	"github.com/TankHQ/tank/pkg/value"
)

// Binding strengths assigned by the Base precedence tables. Higher binds
// tighter; operands sit at expr.MaxPrecedence.
const (
	PrecedenceAlias      = 5
	PrecedenceOr         = 10
	PrecedenceAnd        = 20
	PrecedenceNot        = 25
	PrecedenceComparison = 30
	PrecedenceBitwiseOr  = 40
	PrecedenceBitwiseAnd = 50
	PrecedenceShift      = 60
	PrecedenceAddition   = 70
	PrecedenceMultiply   = 80
	PrecedenceUnary      = 90
	PrecedenceCast       = 100
	PrecedenceIndexing   = 110
)

// IntervalUnit names a unit the dialect accepts in interval literals and
// its length in nanoseconds.
type IntervalUnit struct {
	Name  string
	Nanos int64
}

// Writer renders statements, expressions and values for one SQL dialect.
//
// Statement methods append to the query buffer, separating statements with
// a newline, and leave the statement facts on the query metadata. All
// other methods write into the supplied builder under the supplied
// context; they never touch metadata.
type Writer interface {
	expr.Precedencer

	WriteSelect(q *query.Query, s *query.Select)
	WriteInsert(q *query.Query, s *query.Insert)
	WriteDelete(q *query.Query, s *query.Delete)
	WriteCreateTable(q *query.Query, s *query.CreateTable)
	WriteDropTable(q *query.Query, s *query.DropTable)
	WriteCreateSchema(q *query.Query, s *query.CreateSchema)
	WriteDropSchema(q *query.Query, s *query.DropSchema)

	// WriteExpression dispatches e to the node methods below.
	WriteExpression(out *strings.Builder, ctx *Context, e expr.Expression)
	WriteExpressionOperand(out *strings.Builder, ctx *Context, e *expr.Operand)
	WriteExpressionUnaryOp(out *strings.Builder, ctx *Context, e *expr.UnaryOp)
	WriteExpressionBinaryOp(out *strings.Builder, ctx *Context, e *expr.BinaryOp)
	WriteExpressionOrdered(out *strings.Builder, ctx *Context, e *expr.Ordered)
	// WritePlaceholder writes the next parameter placeholder, advancing
	// ctx.Counter.
	WritePlaceholder(out *strings.Builder, ctx *Context)
	// WriteCurrentTimestampMs writes the expression yielding the current
	// time as milliseconds since the Unix epoch.
	WriteCurrentTimestampMs(out *strings.Builder, ctx *Context)

	// WriteIdentifier writes name, quoted when both quote and
	// ctx.QuoteIdentifiers hold.
	WriteIdentifier(out *strings.Builder, ctx *Context, name string, quote bool)
	WriteIdentifierQuoted(out *strings.Builder, ctx *Context, name string)
	WriteColumnRef(out *strings.Builder, ctx *Context, col *expr.ColumnRef)
	WriteTableRef(out *strings.Builder, ctx *Context, table *query.TableRef)
	// AliasDeclaration reports whether the fragment is a position that
	// declares a table alias rather than referring to one.
	AliasDeclaration(ctx *Context) bool

	// WriteColumnType writes the SQL type of the variant v describes.
	WriteColumnType(out *strings.Builder, ctx *Context, v value.Value)
	// WriteColumnOverriddenType writes the column's declared type override
	// for this dialect, if any; it writes nothing otherwise.
	WriteColumnOverriddenType(out *strings.Builder, ctx *Context, col *query.ColumnDef)
	WriteCreateTableColumnFragment(out *strings.Builder, ctx *Context, col *query.ColumnDef)
	WriteCreateTablePrimaryKeyFragment(out *strings.Builder, ctx *Context, pk []*query.ColumnDef)
	WriteCreateTableUniqueFragment(out *strings.Builder, ctx *Context, columns []string)
	WriteColumnCommentInline(out *strings.Builder, ctx *Context, col *query.ColumnDef)
	WriteColumnCommentsStatements(q *query.Query, table *query.TableDef)
	// WriteInsertUpdateFragment writes the dialect's upsert clause after
	// the VALUES rows.
	WriteInsertUpdateFragment(out *strings.Builder, ctx *Context, s *query.Insert)

	// WriteValue dispatches v to the variant methods below.
	WriteValue(out *strings.Builder, ctx *Context, v value.Value)
	WriteValueBool(out *strings.Builder, ctx *Context, v bool)
	WriteValueInt(out *strings.Builder, ctx *Context, v int64)
	WriteValueUint(out *strings.Builder, ctx *Context, v uint64)
	WriteValueBigInt(out *strings.Builder, ctx *Context, v *big.Int)
	WriteValueFloat32(out *strings.Builder, ctx *Context, v float32)
	WriteValueFloat64(out *strings.Builder, ctx *Context, v float64)
	WriteValueDecimal(out *strings.Builder, ctx *Context, v decimal.Decimal)
	WriteValueString(out *strings.Builder, ctx *Context, v string)
	WriteValueBlob(out *strings.Builder, ctx *Context, v []byte)
	// WriteValueDate and WriteValueTime leave out their own quoting and
	// casts when timestamp is set; the composing timestamp writer quotes.
	WriteValueDate(out *strings.Builder, ctx *Context, v value.Date, timestamp bool)
	WriteValueTime(out *strings.Builder, ctx *Context, v value.Time, timestamp bool)
	WriteValueTimestamp(out *strings.Builder, ctx *Context, v time.Time)
	WriteValueTimestampTZ(out *strings.Builder, ctx *Context, v time.Time)
	WriteValueInterval(out *strings.Builder, ctx *Context, v value.Interval)
	WriteValueUUID(out *strings.Builder, ctx *Context, v uuid.UUID)
	// WriteValueList renders array and list payloads; ty is the container
	// value and elem the element type representative.
	WriteValueList(out *strings.Builder, ctx *Context, values []value.Value, ty, elem value.Value)
	WriteValueMap(out *strings.Builder, ctx *Context, v value.Map)
	WriteValueNull(out *strings.Builder, ctx *Context)
	// WriteValueInfinity and WriteValueNaN receive the float edge cases
	// routed out of WriteValueFloat32 and WriteValueFloat64.
	WriteValueInfinity(out *strings.Builder, ctx *Context, negative bool)
	WriteValueNaN(out *strings.Builder, ctx *Context)
	// IntervalUnits lists the units interval rendering may decompose into,
	// largest first.
	IntervalUnits() []IntervalUnit
}

// WriteStatement renders s into q using w.
func WriteStatement(w Writer, q *query.Query, s query.Statement) {
	switch s := s.(type) {
	case *query.Select:
		w.WriteSelect(q, s)
	case *query.Insert:
		w.WriteInsert(q, s)
	case *query.Delete:
		w.WriteDelete(q, s)
	case *query.CreateTable:
		w.WriteCreateTable(q, s)
	case *query.DropTable:
		w.WriteDropTable(q, s)
	case *query.CreateSchema:
		w.WriteCreateSchema(q, s)
	case *query.DropSchema:
		w.WriteDropSchema(q, s)
	}
}
