package eval

import (
	"github.com/rrdb/rrdb/ast"
)

// Reduce evaluates expr against ctx down to a concrete ast.Value, applying
// SQL three-valued logic throughout (spec.md §4.4).
func Reduce(expr ast.Expression, ctx *Context) (ast.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return ast.IntegerValue(e.Value), nil
	case *ast.FloatLiteral:
		return ast.FloatValue(e.Value), nil
	case *ast.BooleanLiteral:
		return ast.BooleanValue(e.Value), nil
	case *ast.StringLiteral:
		return ast.StringValue(e.Value), nil
	case *ast.Null:
		return ast.NullValue{}, nil
	case *ast.SelectColumn:
		return reduceColumn(e, ctx)
	case *ast.Unary:
		return reduceUnary(e, ctx)
	case *ast.Binary:
		return reduceBinary(e, ctx)
	case *ast.Between:
		return reduceBetween(e, ctx)
	case *ast.NotBetween:
		v, err := reduceBetween(&ast.Between{A: e.A, X: e.X, Y: e.Y}, ctx)
		if err != nil {
			return nil, err
		}
		return applyNot(v), nil
	case *ast.Parentheses:
		return Reduce(e.Inner, ctx)
	case *ast.FunctionCall:
		return reduceFunctionCall(e, ctx)
	case *ast.List:
		values := make(ast.ArrayValue, len(e.Values))
		for i, v := range e.Values {
			reduced, err := Reduce(v, ctx)
			if err != nil {
				return nil, err
			}
			values[i] = reduced
		}
		return values, nil
	case *ast.Subquery:
		return nil, typeErrorf("subqueries are not implemented")
	default:
		return nil, typeErrorf("unsupported expression type %T", expr)
	}
}

func reduceColumn(e *ast.SelectColumn, ctx *Context) (ast.Value, error) {
	if ctx == nil || ctx.Row == nil {
		return nil, typeErrorf("column %q referenced with no row in scope", e.Column)
	}
	field, ok := ctx.Row.Find(e.Table, e.Column, ctx.TableAliasMap, ctx.ReverseAliasMap)
	if !ok {
		return nil, typeErrorf("column %q not found", e.Column)
	}
	return field.Data, nil
}

func reduceUnary(e *ast.Unary, ctx *Context) (ast.Value, error) {
	v, err := Reduce(e.Operand, ctx)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.Pos:
		switch n := v.(type) {
		case ast.IntegerValue, ast.FloatValue:
			return n, nil
		case ast.NullValue:
			return n, nil
		default:
			return nil, typeErrorf("unary + requires a numeric operand, got %T", v)
		}
	case ast.Neg:
		switch n := v.(type) {
		case ast.IntegerValue:
			return -n, nil
		case ast.FloatValue:
			return -n, nil
		case ast.NullValue:
			return n, nil
		default:
			return nil, typeErrorf("unary - requires a numeric operand, got %T", v)
		}
	case ast.Not:
		return applyNot(v), nil
	default:
		return nil, typeErrorf("unsupported unary operator %s", e.Op)
	}
}

func applyNot(v ast.Value) ast.Value {
	if b, ok := v.(ast.BooleanValue); ok {
		return !b
	}
	return ast.NullValue{}
}

func reduceBetween(e *ast.Between, ctx *Context) (ast.Value, error) {
	lower := &ast.Binary{Op: ast.Gte, LHS: e.A, RHS: e.X}
	upper := &ast.Binary{Op: ast.Lte, LHS: e.A, RHS: e.Y}
	return reduceBinary(&ast.Binary{Op: ast.And, LHS: lower, RHS: upper}, ctx)
}

func reduceFunctionCall(e *ast.FunctionCall, ctx *Context) (ast.Value, error) {
	switch fn := e.Function.(type) {
	case ast.BuiltinConditional:
		return reduceConditional(fn.Kind, e.Arguments, ctx)
	case ast.BuiltinAggregate:
		return reduceAggregate(fn.Kind, e.Arguments, ctx)
	default:
		return nil, typeErrorf("user-defined functions are not implemented")
	}
}
