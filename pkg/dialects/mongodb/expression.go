package mongodb

import (
	"log/slog"
	"math/big"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/value"
	"github.com/TankHQ/tank/pkg/writer"
)

// ComparisonKey returns the operator keyword shared by query filters and
// aggregation expressions, or "" when op is not a comparison.
func ComparisonKey(op expr.BinaryOpType) string {
	switch op {
	case expr.OpEqual, expr.OpIs:
		return "$eq"
	case expr.OpNotEqual, expr.OpIsNot:
		return "$ne"
	case expr.OpLess:
		return "$lt"
	case expr.OpGreater:
		return "$gt"
	case expr.OpLessEqual:
		return "$lte"
	case expr.OpGreaterEqual:
		return "$gte"
	case expr.OpIn:
		return "$in"
	case expr.OpNotIn:
		return "$nin"
	}
	return ""
}

// swapComparison mirrors a comparison so its field side can move to the
// left.
func swapComparison(op expr.BinaryOpType) expr.BinaryOpType {
	switch op {
	case expr.OpLess:
		return expr.OpGreater
	case expr.OpGreater:
		return expr.OpLess
	case expr.OpLessEqual:
		return expr.OpGreaterEqual
	case expr.OpGreaterEqual:
		return expr.OpLessEqual
	}
	return op
}

// aggregationKey returns the aggregation operator rendering op inside
// $expr, or "" when the backend cannot express it.
func aggregationKey(op expr.BinaryOpType) string {
	switch op {
	case expr.OpAnd:
		return "$and"
	case expr.OpOr:
		return "$or"
	case expr.OpAddition:
		return "$add"
	case expr.OpSubtraction:
		return "$subtract"
	case expr.OpMultiplication:
		return "$multiply"
	case expr.OpDivision:
		return "$divide"
	case expr.OpRemainder:
		return "$mod"
	case expr.OpIn:
		return "$in"
	case expr.OpIndexing:
		return "$arrayElemAt"
	}
	return ComparisonKey(op)
}

// fieldPath returns the document path of a column reference. Under a
// qualifying context the path is prefixed with the context table when one
// is set, falling back to the column's own table; otherwise it is the
// bare name.
func fieldPath(ctx *writer.Context, col expr.ColumnRef) string {
	if ctx.QualifyColumns {
		if !ctx.Table.IsEmpty() {
			return ctx.Table.FullName() + "." + col.Name
		}
		if col.Table != "" {
			return col.Table + "." + col.Name
		}
	}
	return col.Name
}

// Expression renders e as an aggregation expression: column references
// become "$path" strings, placeholders become "$$param_N" variable
// references resolved from the bound parameters at execution, and
// operators take their aggregation form. Rendering is total; nodes the
// backend cannot express degrade to null with an error log.
func (w *Writer) Expression(ctx *writer.Context, e expr.Expression) any {
	switch e := e.(type) {
	case *expr.Operand:
		return w.operandExpression(ctx, e)
	case *expr.UnaryOp:
		return w.unaryExpression(ctx, e)
	case *expr.BinaryOp:
		return w.binaryExpression(ctx, e)
	case *expr.Ordered:
		return w.Expression(ctx, e.Expr)
	}
	w.Logger.Error("expression node has no aggregation form")
	return nil
}

func (w *Writer) operandExpression(ctx *writer.Context, op *expr.Operand) any {
	switch op.Type {
	case expr.OperandNull:
		return nil
	case expr.OperandLitBool:
		return op.Bool
	case expr.OperandLitInt:
		return op.Int
	case expr.OperandLitFloat:
		return op.Float
	case expr.OperandLitStr:
		return op.Str
	case expr.OperandLitIdent:
		return "$" + op.Name
	case expr.OperandLitField:
		col := expr.IsColumn{}
		op.Match(&col)
		return "$" + fieldPath(ctx, col.Column)
	case expr.OperandLitArray, expr.OperandLitTuple:
		out := make(bson.A, 0, len(op.Elems))
		for _, elem := range op.Elems {
			out = append(out, w.Expression(ctx, elem))
		}
		return out
	case expr.OperandValue:
		b, err := ValueToBSON(op.Value)
		if err != nil {
			w.Logger.Error("value has no BSON form, writing null instead", slog.Any("error", err))
			return nil
		}
		return b
	case expr.OperandCall:
		return w.callExpression(ctx, op)
	case expr.OperandAsterisk:
		return "$$ROOT"
	case expr.OperandQuestionMark:
		name := "param_" + strconv.FormatUint(uint64(ctx.Counter), 10)
		ctx.Counter++
		return "$$" + name
	case expr.OperandCurrentTimestampMs:
		return "$$NOW"
	case expr.OperandTypeLit:
		w.Logger.Error("type mentions have no aggregation form, writing null instead")
		return nil
	}
	w.Logger.Error("operand has no aggregation form, writing null instead")
	return nil
}

// callExpression maps a function call onto the aggregation operator of
// the same name. A single argument stays bare, several become an array.
func (w *Writer) callExpression(ctx *writer.Context, op *expr.Operand) any {
	key := "$" + strings.ToLower(op.Name)
	if len(op.Args) == 1 {
		return bson.D{{Key: key, Value: w.Expression(ctx, op.Args[0])}}
	}
	args := make(bson.A, 0, len(op.Args))
	for _, arg := range op.Args {
		args = append(args, w.Expression(ctx, arg))
	}
	return bson.D{{Key: key, Value: args}}
}

func (w *Writer) unaryExpression(ctx *writer.Context, e *expr.UnaryOp) any {
	switch e.Op {
	case expr.OpNot:
		return bson.D{{Key: "$not", Value: bson.A{w.Expression(ctx, e.Arg)}}}
	case expr.OpNegative:
		neg := negateNumber{}
		if e.Arg.Match(&neg) {
			b, err := ValueToBSON(neg.value)
			if err == nil {
				return b
			}
		}
		return bson.D{{Key: "$multiply", Value: bson.A{int32(-1), w.Expression(ctx, e.Arg)}}}
	}
	w.Logger.Error("unary operator has no aggregation form, writing null instead",
		slog.String("op", e.Op.String()))
	return nil
}

func (w *Writer) binaryExpression(ctx *writer.Context, e *expr.BinaryOp) any {
	switch e.Op {
	case expr.OpAlias, expr.OpCast:
		// Aliases name pipeline outputs and casts carry no runtime
		// conversion; both reduce to their operand.
		return w.Expression(ctx, e.LHS)
	case expr.OpNotIn:
		inner := bson.D{{Key: "$in", Value: bson.A{w.Expression(ctx, e.LHS), w.Expression(ctx, e.RHS)}}}
		return bson.D{{Key: "$not", Value: bson.A{inner}}}
	}
	if key := aggregationKey(e.Op); key != "" {
		return bson.D{{Key: key, Value: bson.A{w.Expression(ctx, e.LHS), w.Expression(ctx, e.RHS)}}}
	}
	w.Logger.Error("binary operator has no aggregation form, writing null instead",
		slog.String("op", e.Op.String()))
	return nil
}

// negateNumber captures the negated payload of a numeric operand, folding
// a unary negate into a literal.
type negateNumber struct {
	expr.NoMatch
	value value.Value
}

func (m *negateNumber) MatchOperand(op *expr.Operand) bool {
	switch op.Type {
	case expr.OperandLitInt:
		m.value = value.Int64{Int64: -op.Int, Valid: true}
		return true
	case expr.OperandLitFloat:
		m.value = value.Float64{Float64: -op.Float, Valid: true}
		return true
	case expr.OperandValue:
		return m.negateValue(op.Value)
	}
	return false
}

func (m *negateNumber) negateValue(v value.Value) bool {
	switch v := v.(type) {
	case value.Int8:
		m.value = value.Int8{Int8: -v.Int8, Valid: v.Valid}
	case value.Int16:
		m.value = value.Int16{Int16: -v.Int16, Valid: v.Valid}
	case value.Int32:
		m.value = value.Int32{Int32: -v.Int32, Valid: v.Valid}
	case value.Int64:
		m.value = value.Int64{Int64: -v.Int64, Valid: v.Valid}
	case value.Int128:
		neg := v.Big
		if neg != nil {
			neg = new(big.Int).Neg(neg)
		}
		m.value = value.Int128{Big: neg, Valid: v.Valid}
	case value.Float32:
		m.value = value.Float32{Float32: -v.Float32, Valid: v.Valid}
	case value.Float64:
		m.value = value.Float64{Float64: -v.Float64, Valid: v.Valid}
	case value.Decimal:
		m.value = value.Decimal{Decimal: v.Decimal.Neg(), Width: v.Width, Scale: v.Scale, Valid: v.Valid}
	default:
		return false
	}
	return true
}
