package eval

import "github.com/rrdb/rrdb/ast"

// Type is the small closed set of SQL types reduce_type distinguishes,
// used to synthesize ExecuteResult.columns data-types (spec.md §4.4).
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeInteger
	TypeFloat
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	default:
		return "Null"
	}
}

// ReduceType reduces expr against ctx and classifies the resulting value's
// dynamic type. Because this engine carries no static column types, a
// column's type can only be known by evaluating a representative row.
func ReduceType(expr ast.Expression, ctx *Context) (Type, error) {
	v, err := Reduce(expr, ctx)
	if err != nil {
		return TypeNull, err
	}
	return valueType(v), nil
}

func valueType(v ast.Value) Type {
	switch v.(type) {
	case ast.BooleanValue:
		return TypeBool
	case ast.IntegerValue:
		return TypeInteger
	case ast.FloatValue:
		return TypeFloat
	case ast.StringValue:
		return TypeString
	default:
		return TypeNull
	}
}
