package expr

import (
	"strings"

	"github.com/TankHQ/tank/pkg/value"
)

// Matcher inspects expression structure. Each method receives one node
// shape and reports whether the matcher accepts it; accepted data is
// typically captured on the matcher itself.
type Matcher interface {
	MatchOperand(op *Operand) bool
	MatchUnary(op UnaryOpType, arg Expression) bool
	MatchBinary(op BinaryOpType, lhs, rhs Expression) bool
	MatchOrdered(ord *Ordered) bool
}

// NoMatch declines every node. Embed it to implement only the shapes a
// matcher cares about.
type NoMatch struct{}

func (NoMatch) MatchOperand(*Operand) bool                            { return false }
func (NoMatch) MatchUnary(UnaryOpType, Expression) bool               { return false }
func (NoMatch) MatchBinary(BinaryOpType, Expression, Expression) bool { return false }
func (NoMatch) MatchOrdered(*Ordered) bool                            { return false }

// IsColumn matches identifier and field operands and captures them as a
// ColumnRef. Field paths fill name, table and schema from innermost part
// outwards.
type IsColumn struct {
	NoMatch
	Column ColumnRef
}

func (m *IsColumn) MatchOperand(op *Operand) bool {
	switch op.Type {
	case OperandLitIdent:
		m.Column = ColumnRef{Name: op.Name}
		return true
	case OperandLitField:
		var c ColumnRef
		n := len(op.Field)
		if n > 0 {
			c.Name = op.Field[n-1]
		}
		if n > 1 {
			c.Table = op.Field[n-2]
		}
		if n > 2 {
			c.Schema = op.Field[n-3]
		}
		m.Column = c
		return true
	}
	return false
}

// FindOrder accepts every node and captures the sort direction of ordered
// wrappers; everything else reports the default ascending order.
type FindOrder struct {
	Order Order
}

func (m *FindOrder) MatchOperand(*Operand) bool                            { return true }
func (m *FindOrder) MatchUnary(UnaryOpType, Expression) bool               { return true }
func (m *FindOrder) MatchBinary(BinaryOpType, Expression, Expression) bool { return true }

func (m *FindOrder) MatchOrdered(ord *Ordered) bool {
	m.Order = ord.Order
	return true
}

// IsTrue matches the boolean literal true and true-valued boolean values,
// aliased or not.
type IsTrue struct {
	NoMatch
}

func (IsTrue) MatchOperand(op *Operand) bool { return op.IsTrue() }

func (m IsTrue) MatchBinary(op BinaryOpType, lhs, _ Expression) bool {
	if op == OpAlias {
		return lhs.Match(m)
	}
	return false
}

// IsFalse matches the boolean literal false and false-valued boolean
// values, aliased or not.
type IsFalse struct {
	NoMatch
}

func (IsFalse) MatchOperand(op *Operand) bool {
	switch op.Type {
	case OperandLitBool:
		return !op.Bool
	case OperandValue:
		b, ok := op.Value.(value.Boolean)
		return ok && b.Valid && !b.Bool
	}
	return false
}

func (m IsFalse) MatchBinary(op BinaryOpType, lhs, _ Expression) bool {
	if op == OpAlias {
		return lhs.Match(m)
	}
	return false
}

// IsAggregateFunction matches calls to the aggregate functions understood
// by the pipeline compiler.
type IsAggregateFunction struct {
	NoMatch
}

func (IsAggregateFunction) MatchOperand(op *Operand) bool {
	if op.Type != OperandCall {
		return false
	}
	switch strings.ToLower(op.Name) {
	case "abs", "avg", "count", "max", "min", "sum":
		return true
	}
	return false
}

// Aliasing an aggregate keeps it an aggregate.
func (m IsAggregateFunction) MatchBinary(op BinaryOpType, lhs, _ Expression) bool {
	if op == OpAlias {
		return lhs.Match(m)
	}
	return false
}

// IsAlias matches alias nodes and captures the alias name.
type IsAlias struct {
	NoMatch
	Name string
}

func (m *IsAlias) MatchBinary(op BinaryOpType, _, rhs Expression) bool {
	if op != OpAlias {
		return false
	}
	if o, ok := rhs.(*Operand); ok {
		switch o.Type {
		case OperandLitIdent:
			m.Name = o.Name
		case OperandLitStr:
			m.Name = o.Str
		}
	}
	return true
}

// IsAsterisk matches the * operand.
type IsAsterisk struct {
	NoMatch
}

func (IsAsterisk) MatchOperand(op *Operand) bool { return op.Type == OperandAsterisk }

// IsQuestionMark matches the positional placeholder operand.
type IsQuestionMark struct {
	NoMatch
}

func (IsQuestionMark) MatchOperand(op *Operand) bool { return op.Type == OperandQuestionMark }
