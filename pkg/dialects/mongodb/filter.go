package mongodb

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/TankHQ/tank/pkg/expr"
	"github.com/TankHQ/tank/pkg/writer"
)

// Unmatchable returns the filter no document satisfies. It is the
// rendering of a trivially false condition.
func Unmatchable() bson.D {
	return bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}
}

// Filter translates condition into a find filter document. Comparisons
// between a document field and a constant become native criteria,
// conjunctions and disjunctions become flattened $and/$or arrays, and
// everything else escapes into a $expr aggregation expression. A nil or
// trivially true condition matches every document, a trivially false one
// matches none.
func (w *Writer) Filter(ctx *writer.Context, condition expr.Expression) bson.D {
	return w.FilterColumns(ctx, condition, nil)
}

// FilterColumns is Filter restricted to a known-column list: a bare
// identifier counts as a document field only when listed. Field
// references always count. A nil list accepts every identifier.
func (w *Writer) FilterColumns(ctx *writer.Context, condition expr.Expression, columns []string) bson.D {
	if condition == nil || condition.Match(expr.IsTrue{}) {
		return bson.D{}
	}
	if condition.Match(expr.IsFalse{}) {
		return Unmatchable()
	}
	m := &matchCriteria{w: w, ctx: ctx}
	if columns != nil {
		m.columns = make(map[string]struct{}, len(columns))
		for _, name := range columns {
			m.columns[name] = struct{}{}
		}
	}
	restore := ctx.SwitchFragment(writer.FragmentDocMatchCriteria)
	defer restore()
	frag, isExpr := m.translate(condition)
	if isExpr {
		return bson.D{{Key: "$expr", Value: frag}}
	}
	if doc, ok := frag.(bson.D); ok {
		return doc
	}
	w.Logger.Error("condition did not reduce to a filter document, matching nothing instead")
	return Unmatchable()
}

// matchCriteria carries the state of one filter translation.
type matchCriteria struct {
	w   *Writer
	ctx *writer.Context
	// columns restricts which identifiers count as document fields; nil
	// accepts all of them.
	columns map[string]struct{}
}

// translate renders e and reports whether the result is an aggregation
// expression that needs a $expr wrapper rather than a filter document.
func (m *matchCriteria) translate(e expr.Expression) (any, bool) {
	switch e := e.(type) {
	case *expr.Operand:
		return m.w.operandExpression(m.ctx, e), operandIsExpr(e)
	case *expr.UnaryOp:
		return m.w.unaryExpression(m.ctx, e), true
	case *expr.BinaryOp:
		return m.translateBinary(e)
	case *expr.Ordered:
		return m.translate(e.Expr)
	}
	m.w.Logger.Error("expression node has no filter form, writing null instead")
	return nil, false
}

// operandIsExpr reports whether the operand's rendering refers to the
// document or the execution environment, which only $expr can resolve.
func operandIsExpr(op *expr.Operand) bool {
	switch op.Type {
	case expr.OperandLitIdent, expr.OperandLitField, expr.OperandCall,
		expr.OperandAsterisk, expr.OperandQuestionMark, expr.OperandCurrentTimestampMs:
		return true
	}
	return false
}

func (m *matchCriteria) translateBinary(e *expr.BinaryOp) (any, bool) {
	switch e.Op {
	case expr.OpAnd, expr.OpOr:
		return m.translateLogical(e)
	}
	if key := ComparisonKey(e.Op); key != "" {
		if doc, ok := m.translateComparison(e); ok {
			return doc, false
		}
	}
	return m.w.binaryExpression(m.ctx, e), true
}

// translateLogical combines both sides under $and or $or. A side that
// rendered as an expression is wrapped in its own $expr; a side that is
// itself the same connective is spliced in place so chains stay flat.
// When every side was an expression the wrappers come back off and the
// whole connective reports as one expression, to be wrapped once by the
// caller.
func (m *matchCriteria) translateLogical(e *expr.BinaryOp) (any, bool) {
	root := "$and"
	if e.Op == expr.OpOr {
		root = "$or"
	}
	args := make(bson.A, 0, 2)
	allExpr := true
	for _, side := range [2]expr.Expression{e.LHS, e.RHS} {
		frag, isExpr := m.translate(side)
		if isExpr {
			frag = bson.D{{Key: "$expr", Value: frag}}
		} else {
			allExpr = false
		}
		if doc, ok := frag.(bson.D); ok && len(doc) == 1 && doc[0].Key == root {
			if nested, ok := doc[0].Value.(bson.A); ok {
				args = append(args, nested...)
				continue
			}
		}
		args = append(args, frag)
	}
	if allExpr {
		for i := range args {
			if doc, ok := args[i].(bson.D); ok && len(doc) == 1 && doc[0].Key == "$expr" {
				args[i] = doc[0].Value
			}
		}
		return bson.D{{Key: root, Value: args}}, true
	}
	return bson.D{{Key: root, Value: args}}, false
}

// translateComparison renders a field-against-constant comparison as a
// native criterion. It applies only when exactly one side is a document
// field and the other a constant; a field on the right mirrors the
// operator so the field can move left. Equality renders as the bare
// {field: value} form, every other operator nests under its keyword.
func (m *matchCriteria) translateComparison(e *expr.BinaryOp) (bson.D, bool) {
	lCol, lOk := m.fieldOf(e.LHS)
	rCol, rOk := m.fieldOf(e.RHS)
	lConst := e.LHS.Match(IsConstant{})
	rConst := e.RHS.Match(IsConstant{})

	var field expr.ColumnRef
	var val expr.Expression
	op := e.Op
	switch {
	case lOk && rConst && !(rOk && lConst):
		field, val = lCol, e.RHS
	case rOk && lConst && !(lOk && rConst):
		field, val = rCol, e.LHS
		op = swapComparison(op)
	default:
		return nil, false
	}

	restore := m.ctx.SwitchFragment(writer.FragmentDocMatchCriteriaKey)
	path := fieldPath(m.ctx, field)
	restore()
	rendered := m.w.Expression(m.ctx, val)
	if op == expr.OpEqual {
		return bson.D{{Key: path, Value: rendered}}, true
	}
	return bson.D{{Key: path, Value: bson.D{{Key: ComparisonKey(op), Value: rendered}}}}, true
}

// fieldOf captures e as a document field reference, honoring the
// known-column restriction for bare identifiers.
func (m *matchCriteria) fieldOf(e expr.Expression) (expr.ColumnRef, bool) {
	col := expr.IsColumn{}
	if !e.Match(&col) {
		return expr.ColumnRef{}, false
	}
	if m.columns != nil && col.Column.Table == "" {
		if _, ok := m.columns[col.Column.Name]; !ok {
			return expr.ColumnRef{}, false
		}
	}
	return col.Column, true
}
