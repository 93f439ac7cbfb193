package eval

import "github.com/rrdb/rrdb/ast"

func isNull(v ast.Value) bool {
	_, ok := v.(ast.NullValue)
	return ok
}

func reduceBinary(e *ast.Binary, ctx *Context) (ast.Value, error) {
	switch e.Op {
	case ast.And:
		return reduceAnd(e.LHS, e.RHS, ctx)
	case ast.Or:
		return reduceOr(e.LHS, e.RHS, ctx)
	}

	lhs, err := Reduce(e.LHS, ctx)
	if err != nil {
		return nil, err
	}
	rhs, err := Reduce(e.RHS, ctx)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		return reduceArithmetic(e.Op, lhs, rhs)
	case ast.Eq, ast.Neq, ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		return reduceComparison(e.Op, lhs, rhs)
	case ast.Like, ast.NotLike:
		return reduceLike(e.Op, lhs, rhs)
	case ast.In, ast.NotIn:
		return reduceIn(e.Op, lhs, rhs)
	case ast.Is, ast.IsNot:
		return reduceIs(e.Op, lhs, rhs), nil
	default:
		return nil, typeErrorf("unsupported binary operator %s", e.Op)
	}
}

func reduceAnd(lexpr, rexpr ast.Expression, ctx *Context) (ast.Value, error) {
	lhs, err := Reduce(lexpr, ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := lhs.(ast.BooleanValue); ok && !bool(b) {
		return ast.BooleanValue(false), nil
	}
	rhs, err := Reduce(rexpr, ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := rhs.(ast.BooleanValue); ok && !bool(b) {
		return ast.BooleanValue(false), nil
	}
	if isNull(lhs) || isNull(rhs) {
		return ast.NullValue{}, nil
	}
	lb, lok := lhs.(ast.BooleanValue)
	rb, rok := rhs.(ast.BooleanValue)
	if !lok || !rok {
		return nil, typeErrorf("AND requires boolean operands")
	}
	return ast.BooleanValue(bool(lb) && bool(rb)), nil
}

func reduceOr(lexpr, rexpr ast.Expression, ctx *Context) (ast.Value, error) {
	lhs, err := Reduce(lexpr, ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := lhs.(ast.BooleanValue); ok && bool(b) {
		return ast.BooleanValue(true), nil
	}
	rhs, err := Reduce(rexpr, ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := rhs.(ast.BooleanValue); ok && bool(b) {
		return ast.BooleanValue(true), nil
	}
	if isNull(lhs) || isNull(rhs) {
		return ast.NullValue{}, nil
	}
	lb, lok := lhs.(ast.BooleanValue)
	rb, rok := rhs.(ast.BooleanValue)
	if !lok || !rok {
		return nil, typeErrorf("OR requires boolean operands")
	}
	return ast.BooleanValue(bool(lb) || bool(rb)), nil
}

// asFloat converts an Integer or Float value to float64, reporting whether
// the value was numeric at all.
func asFloat(v ast.Value) (float64, bool) {
	switch n := v.(type) {
	case ast.IntegerValue:
		return float64(n), true
	case ast.FloatValue:
		return float64(n), true
	default:
		return 0, false
	}
}

func reduceArithmetic(op ast.BinaryOperator, lhs, rhs ast.Value) (ast.Value, error) {
	if isNull(lhs) || isNull(rhs) {
		return ast.NullValue{}, nil
	}
	li, liok := lhs.(ast.IntegerValue)
	ri, riok := rhs.(ast.IntegerValue)
	if liok && riok {
		return integerArithmetic(op, int64(li), int64(ri))
	}
	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, typeErrorf("arithmetic requires numeric operands, got %T and %T", lhs, rhs)
	}
	return floatArithmetic(op, lf, rf)
}

func integerArithmetic(op ast.BinaryOperator, l, r int64) (ast.Value, error) {
	switch op {
	case ast.Add:
		return ast.IntegerValue(l + r), nil
	case ast.Sub:
		return ast.IntegerValue(l - r), nil
	case ast.Mul:
		return ast.IntegerValue(l * r), nil
	case ast.Div:
		if r == 0 {
			return nil, typeErrorf("division by zero")
		}
		return ast.IntegerValue(l / r), nil
	default:
		return nil, typeErrorf("unsupported arithmetic operator %s", op)
	}
}

func floatArithmetic(op ast.BinaryOperator, l, r float64) (ast.Value, error) {
	switch op {
	case ast.Add:
		return ast.FloatValue(l + r), nil
	case ast.Sub:
		return ast.FloatValue(l - r), nil
	case ast.Mul:
		return ast.FloatValue(l * r), nil
	case ast.Div:
		if r == 0 {
			return nil, typeErrorf("division by zero")
		}
		return ast.FloatValue(l / r), nil
	default:
		return nil, typeErrorf("unsupported arithmetic operator %s", op)
	}
}

// compareValues orders two non-null values of the same comparability class,
// returning -1/0/1. Mixed integer/float promotes to float, as spec.md §4.4
// requires for arithmetic; the same promotion is the natural choice for
// ordering comparisons.
func compareValues(lhs, rhs ast.Value) (int, error) {
	switch l := lhs.(type) {
	case ast.IntegerValue:
		if r, ok := rhs.(ast.IntegerValue); ok {
			return cmpInt64(int64(l), int64(r)), nil
		}
		if rf, ok := asFloat(rhs); ok {
			return cmpFloat64(float64(l), rf), nil
		}
	case ast.FloatValue:
		if rf, ok := asFloat(rhs); ok {
			return cmpFloat64(float64(l), rf), nil
		}
	case ast.StringValue:
		if r, ok := rhs.(ast.StringValue); ok {
			return cmpString(string(l), string(r)), nil
		}
	case ast.BooleanValue:
		if r, ok := rhs.(ast.BooleanValue); ok {
			return cmpBool(bool(l), bool(r)), nil
		}
	}
	return 0, typeErrorf("cannot compare %T with %T", lhs, rhs)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func reduceComparison(op ast.BinaryOperator, lhs, rhs ast.Value) (ast.Value, error) {
	if isNull(lhs) || isNull(rhs) {
		return ast.NullValue{}, nil
	}
	if op == ast.Eq || op == ast.Neq {
		c, err := compareValues(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if op == ast.Eq {
			return ast.BooleanValue(c == 0), nil
		}
		return ast.BooleanValue(c != 0), nil
	}
	c, err := compareValues(lhs, rhs)
	if err != nil {
		return nil, err
	}
	switch op {
	case ast.Lt:
		return ast.BooleanValue(c < 0), nil
	case ast.Gt:
		return ast.BooleanValue(c > 0), nil
	case ast.Lte:
		return ast.BooleanValue(c <= 0), nil
	case ast.Gte:
		return ast.BooleanValue(c >= 0), nil
	default:
		return nil, typeErrorf("unsupported comparison operator %s", op)
	}
}

func reduceIs(op ast.BinaryOperator, lhs, rhs ast.Value) ast.Value {
	var equal bool
	if isNull(lhs) && isNull(rhs) {
		equal = true
	} else if isNull(lhs) || isNull(rhs) {
		equal = false
	} else if c, err := compareValues(lhs, rhs); err == nil {
		equal = c == 0
	}
	if op == ast.Is {
		return ast.BooleanValue(equal)
	}
	return ast.BooleanValue(!equal)
}

func reduceIn(op ast.BinaryOperator, lhs, rhs ast.Value) (ast.Value, error) {
	if isNull(lhs) {
		return ast.NullValue{}, nil
	}
	list, ok := rhs.(ast.ArrayValue)
	if !ok {
		return nil, typeErrorf("IN requires a parenthesized list, got %T", rhs)
	}
	found := false
	sawNull := false
	for _, item := range list {
		if isNull(item) {
			sawNull = true
			continue
		}
		c, err := compareValues(lhs, item)
		if err != nil {
			return nil, err
		}
		if c == 0 {
			found = true
			break
		}
	}
	switch {
	case found:
		return ast.BooleanValue(op == ast.In), nil
	case sawNull:
		return ast.NullValue{}, nil
	default:
		return ast.BooleanValue(op == ast.NotIn), nil
	}
}
