package expr

import "github.com/TankHQ/tank/pkg/value"

// OperandType discriminates the atom variants.
type OperandType int

const (
	OperandNull OperandType = iota
	OperandLitBool
	OperandLitInt
	OperandLitFloat
	OperandLitStr
	OperandLitIdent
	OperandLitField
	OperandLitArray
	OperandLitTuple
	// OperandTypeLit is a type mention, such as the target of a CAST.
	OperandTypeLit
	// OperandValue carries a dynamic value to render or bind.
	OperandValue
	OperandCall
	OperandAsterisk
	OperandQuestionMark
	OperandCurrentTimestampMs
)

// Operand is an expression atom. Type selects the variant; only the fields
// belonging to that variant are meaningful.
type Operand struct {
	Type OperandType

	Bool  bool
	Int   int64
	Float float64
	// Str is the payload of string literals.
	Str string
	// Name is the identifier of OperandLitIdent and the function name of
	// OperandCall.
	Name string
	// Field holds a qualified column path, outermost qualifier first.
	Field []string
	// Elems holds array and tuple elements.
	Elems []Expression
	// Args holds call arguments.
	Args []Expression
	// Value is the payload of OperandTypeLit and OperandValue.
	Value value.Value
}

func (e *Operand) Match(m Matcher) bool { return m.MatchOperand(e) }

func (e *Operand) Precedence(Precedencer) int { return MaxPrecedence }

func (e *Operand) IsOrdered() bool { return false }

func (e *Operand) IsTrue() bool {
	switch e.Type {
	case OperandLitBool:
		return e.Bool
	case OperandValue:
		b, ok := e.Value.(value.Boolean)
		return ok && b.Valid && b.Bool
	}
	return false
}

func (e *Operand) exprNode() {}

func Null() *Operand           { return &Operand{Type: OperandNull} }
func Bool(b bool) *Operand     { return &Operand{Type: OperandLitBool, Bool: b} }
func Int(i int64) *Operand     { return &Operand{Type: OperandLitInt, Int: i} }
func Float(f float64) *Operand { return &Operand{Type: OperandLitFloat, Float: f} }
func Str(s string) *Operand    { return &Operand{Type: OperandLitStr, Str: s} }

// Ident references an unqualified identifier.
func Ident(name string) *Operand { return &Operand{Type: OperandLitIdent, Name: name} }

// Field references a qualified identifier path, outermost qualifier first,
// for example Field("schema", "table", "column").
func Field(parts ...string) *Operand { return &Operand{Type: OperandLitField, Field: parts} }

func ArrayOf(elems ...Expression) *Operand {
	return &Operand{Type: OperandLitArray, Elems: elems}
}

func Tuple(elems ...Expression) *Operand {
	return &Operand{Type: OperandLitTuple, Elems: elems}
}

// TypeOf mentions the type of v, typically as a CAST target. The value's
// payload is ignored.
func TypeOf(v value.Value) *Operand { return &Operand{Type: OperandTypeLit, Value: v} }

// Val embeds a dynamic value.
func Val(v value.Value) *Operand { return &Operand{Type: OperandValue, Value: v} }

func Call(name string, args ...Expression) *Operand {
	return &Operand{Type: OperandCall, Name: name, Args: args}
}

func Asterisk() *Operand { return &Operand{Type: OperandAsterisk} }

// QuestionMark is a positional bind placeholder.
func QuestionMark() *Operand { return &Operand{Type: OperandQuestionMark} }

// CurrentTimestampMs is the current timestamp with millisecond precision,
// rendered with whatever construct the backend provides.
func CurrentTimestampMs() *Operand { return &Operand{Type: OperandCurrentTimestampMs} }

// Cast wraps e in a cast to the type of v.
func Cast(e Expression, v value.Value) *BinaryOp {
	return binary(OpCast, e, TypeOf(v))
}
