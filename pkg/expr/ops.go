package expr

// BinaryOpType enumerates the binary operators of the expression model.
// Operator precedence is not fixed here: writers assign precedence so each
// dialect can parenthesize by its own rules.
type BinaryOpType int

const (
	OpIndexing BinaryOpType = iota
	OpCast
	OpMultiplication
	OpDivision
	OpRemainder
	OpAddition
	OpSubtraction
	OpShiftLeft
	OpShiftRight
	OpBitwiseAnd
	OpBitwiseOr
	OpIn
	OpNotIn
	OpIs
	OpIsNot
	OpLike
	OpNotLike
	OpRegexp
	OpNotRegexp
	OpGlob
	OpNotGlob
	OpEqual
	OpNotEqual
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpAnd
	OpOr
	OpAlias
)

// String returns the default SQL token of the operator. Indexing, Cast and
// Alias do not render as plain infix operators; their tokens here are for
// diagnostics only.
func (op BinaryOpType) String() string {
	switch op {
	case OpIndexing:
		return "[]"
	case OpCast:
		return "CAST"
	case OpMultiplication:
		return "*"
	case OpDivision:
		return "/"
	case OpRemainder:
		return "%"
	case OpAddition:
		return "+"
	case OpSubtraction:
		return "-"
	case OpShiftLeft:
		return "<<"
	case OpShiftRight:
		return ">>"
	case OpBitwiseAnd:
		return "&"
	case OpBitwiseOr:
		return "|"
	case OpIn:
		return "IN"
	case OpNotIn:
		return "NOT IN"
	case OpIs:
		return "IS"
	case OpIsNot:
		return "IS NOT"
	case OpLike:
		return "LIKE"
	case OpNotLike:
		return "NOT LIKE"
	case OpRegexp:
		return "REGEXP"
	case OpNotRegexp:
		return "NOT REGEXP"
	case OpGlob:
		return "GLOB"
	case OpNotGlob:
		return "NOT GLOB"
	case OpEqual:
		return "="
	case OpNotEqual:
		return "<>"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEqual:
		return "<="
	case OpGreaterEqual:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpAlias:
		return "AS"
	}
	return "?op?"
}

// UnaryOpType enumerates the unary operators.
type UnaryOpType int

const (
	OpNegative UnaryOpType = iota
	OpNot
)

func (op UnaryOpType) String() string {
	switch op {
	case OpNegative:
		return "-"
	case OpNot:
		return "NOT"
	}
	return "?op?"
}

// Order is a sort direction.
type Order int

const (
	Asc Order = iota
	Desc
)

func (o Order) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}
