package ast

// BinaryOperator enumerates the infix operators an expression may carry.
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Sub
	Mul
	Div
	And
	Or
	Lt
	Gt
	Lte
	Gte
	Eq
	Neq
	Like
	NotLike
	In
	NotIn
	Is
	IsNot
)

// Precedence returns the binding power of op. Mul/Div bind tighter than
// every other binary operator.
func (op BinaryOperator) Precedence() int {
	switch op {
	case Mul, Div:
		return 40
	default:
		return 10
	}
}

func (op BinaryOperator) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case And:
		return "AND"
	case Or:
		return "OR"
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Lte:
		return "<="
	case Gte:
		return ">="
	case Eq:
		return "="
	case Neq:
		return "!="
	case Like:
		return "LIKE"
	case NotLike:
		return "NOT LIKE"
	case In:
		return "IN"
	case NotIn:
		return "NOT IN"
	case Is:
		return "IS"
	case IsNot:
		return "IS NOT"
	default:
		return "?"
	}
}

// UnaryOperator enumerates the prefix operators an expression may carry.
type UnaryOperator int

const (
	Pos UnaryOperator = iota
	Neg
	Not
)

func (op UnaryOperator) String() string {
	switch op {
	case Pos:
		return "+"
	case Neg:
		return "-"
	case Not:
		return "NOT"
	default:
		return "?"
	}
}
