// Package expr models query expressions as a small closed AST: operands,
// unary and binary operations and ordered (ORDER BY) wrappers. Nodes carry
// no rendering logic; backends render them and assign operator precedence
// through the Precedencer they implement. Structural inspection goes
// through the Matcher protocol.
package expr

// Precedencer assigns numeric binding strength to operators. Higher binds
// tighter. Writers implement this so precedence follows the dialect that
// renders the expression rather than the node that stores it.
type Precedencer interface {
	UnaryOpPrecedence(UnaryOpType) int
	BinaryOpPrecedence(BinaryOpType) int
}

// MaxPrecedence is the binding strength of atoms; nothing parenthesizes
// them.
const MaxPrecedence = 1_000_000

// Expression is one node of the closed expression union.
type Expression interface {
	// Match offers the node to m and reports whether m accepted it.
	Match(m Matcher) bool
	// Precedence returns the node's binding strength under p.
	Precedence(p Precedencer) int
	// IsOrdered reports whether the node carries an explicit sort direction.
	IsOrdered() bool
	// IsTrue reports whether the node is a literal or value boolean true.
	IsTrue() bool

	exprNode()
}

// UnaryOp applies Op to Arg.
type UnaryOp struct {
	Op  UnaryOpType
	Arg Expression
}

func (e *UnaryOp) Match(m Matcher) bool         { return m.MatchUnary(e.Op, e.Arg) }
func (e *UnaryOp) Precedence(p Precedencer) int { return p.UnaryOpPrecedence(e.Op) }
func (e *UnaryOp) IsOrdered() bool              { return false }
func (e *UnaryOp) IsTrue() bool                 { return false }
func (e *UnaryOp) exprNode()                    {}

// BinaryOp applies Op to LHS and RHS.
type BinaryOp struct {
	Op  BinaryOpType
	LHS Expression
	RHS Expression
}

func (e *BinaryOp) Match(m Matcher) bool         { return m.MatchBinary(e.Op, e.LHS, e.RHS) }
func (e *BinaryOp) Precedence(p Precedencer) int { return p.BinaryOpPrecedence(e.Op) }
func (e *BinaryOp) IsOrdered() bool              { return false }
func (e *BinaryOp) IsTrue() bool                 { return false }
func (e *BinaryOp) exprNode()                    {}

// Ordered attaches a sort direction to an expression.
type Ordered struct {
	Expr  Expression
	Order Order
}

func (e *Ordered) Match(m Matcher) bool         { return m.MatchOrdered(e) }
func (e *Ordered) Precedence(p Precedencer) int { return e.Expr.Precedence(p) }
func (e *Ordered) IsOrdered() bool              { return true }
func (e *Ordered) IsTrue() bool                 { return false }
func (e *Ordered) exprNode()                    {}

func Ascending(e Expression) *Ordered  { return &Ordered{Expr: e, Order: Asc} }
func Descending(e Expression) *Ordered { return &Ordered{Expr: e, Order: Desc} }

func unary(op UnaryOpType, arg Expression) *UnaryOp {
	return &UnaryOp{Op: op, Arg: arg}
}

func binary(op BinaryOpType, lhs, rhs Expression) *BinaryOp {
	return &BinaryOp{Op: op, LHS: lhs, RHS: rhs}
}

func Not(e Expression) *UnaryOp { return unary(OpNot, e) }
func Neg(e Expression) *UnaryOp { return unary(OpNegative, e) }

func Eq(lhs, rhs Expression) *BinaryOp     { return binary(OpEqual, lhs, rhs) }
func Ne(lhs, rhs Expression) *BinaryOp     { return binary(OpNotEqual, lhs, rhs) }
func Lt(lhs, rhs Expression) *BinaryOp     { return binary(OpLess, lhs, rhs) }
func Gt(lhs, rhs Expression) *BinaryOp     { return binary(OpGreater, lhs, rhs) }
func Le(lhs, rhs Expression) *BinaryOp     { return binary(OpLessEqual, lhs, rhs) }
func Ge(lhs, rhs Expression) *BinaryOp     { return binary(OpGreaterEqual, lhs, rhs) }
func And(lhs, rhs Expression) *BinaryOp    { return binary(OpAnd, lhs, rhs) }
func Or(lhs, rhs Expression) *BinaryOp     { return binary(OpOr, lhs, rhs) }
func Add(lhs, rhs Expression) *BinaryOp    { return binary(OpAddition, lhs, rhs) }
func Sub(lhs, rhs Expression) *BinaryOp    { return binary(OpSubtraction, lhs, rhs) }
func Mul(lhs, rhs Expression) *BinaryOp    { return binary(OpMultiplication, lhs, rhs) }
func Div(lhs, rhs Expression) *BinaryOp    { return binary(OpDivision, lhs, rhs) }
func Rem(lhs, rhs Expression) *BinaryOp    { return binary(OpRemainder, lhs, rhs) }
func Shl(lhs, rhs Expression) *BinaryOp    { return binary(OpShiftLeft, lhs, rhs) }
func Shr(lhs, rhs Expression) *BinaryOp    { return binary(OpShiftRight, lhs, rhs) }
func BitAnd(lhs, rhs Expression) *BinaryOp { return binary(OpBitwiseAnd, lhs, rhs) }
func BitOr(lhs, rhs Expression) *BinaryOp  { return binary(OpBitwiseOr, lhs, rhs) }
func In(lhs, rhs Expression) *BinaryOp     { return binary(OpIn, lhs, rhs) }
func NotIn(lhs, rhs Expression) *BinaryOp  { return binary(OpNotIn, lhs, rhs) }
func Is(lhs, rhs Expression) *BinaryOp     { return binary(OpIs, lhs, rhs) }
func IsNot(lhs, rhs Expression) *BinaryOp  { return binary(OpIsNot, lhs, rhs) }
func Like(lhs, rhs Expression) *BinaryOp   { return binary(OpLike, lhs, rhs) }
func Glob(lhs, rhs Expression) *BinaryOp   { return binary(OpGlob, lhs, rhs) }
func Regexp(lhs, rhs Expression) *BinaryOp { return binary(OpRegexp, lhs, rhs) }
func Index(lhs, rhs Expression) *BinaryOp  { return binary(OpIndexing, lhs, rhs) }

// Alias names an expression; the label side is an identifier operand.
func Alias(e Expression, name string) *BinaryOp {
	return binary(OpAlias, e, Ident(name))
}

// AndAll folds the given expressions into a left-leaning AND chain. With no
// arguments it returns the literal true, with one it returns that argument.
func AndAll(exprs ...Expression) Expression {
	if len(exprs) == 0 {
		return Bool(true)
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = And(out, e)
	}
	return out
}
