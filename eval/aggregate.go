package eval

import (
	"strings"

	"github.com/rrdb/rrdb/ast"
)

// isCountStar recognizes the COUNT(*) sentinel the parser produces: a
// single SelectColumn argument named "*".
func isCountStar(args []ast.Expression) bool {
	if len(args) != 1 {
		return false
	}
	col, ok := args[0].(*ast.SelectColumn)
	return ok && col.Table == nil && col.Column == "*"
}

// reduceAggregate folds an aggregate function call over the "stacked"
// array representation spec.md §4.4 describes: Group/GroupAll pack
// multiple per-row values into Array(...) fields, and aggregates fold over
// that array. Outside a grouped row the argument reduces to a scalar,
// which is treated as a singleton array of one.
func reduceAggregate(kind ast.AggregateKind, args []ast.Expression, ctx *Context) (ast.Value, error) {
	if kind == ast.Count && isCountStar(args) {
		return ast.IntegerValue(ctx.TotalCount), nil
	}

	if kind == ast.StringAgg {
		if len(args) != 2 {
			return nil, typeErrorf("STRING_AGG requires exactly 2 arguments (value, separator), got %d", len(args))
		}
		return reduceStringAgg(args[0], args[1], ctx)
	}

	if len(args) != 1 {
		return nil, typeErrorf("aggregate function requires exactly 1 argument, got %d", len(args))
	}

	reduced, err := Reduce(args[0], ctx)
	if err != nil {
		return nil, err
	}
	values, ok := reduced.(ast.ArrayValue)
	if !ok {
		values = ast.ArrayValue{reduced}
	}

	switch kind {
	case ast.Count:
		return ast.IntegerValue(len(values)), nil
	case ast.ArrayAgg:
		return values, nil
	case ast.Sum:
		return reduceSum(values)
	case ast.Avg:
		return reduceAvg(values)
	case ast.Max:
		return reduceExtreme(values, 1)
	case ast.Min:
		return reduceExtreme(values, -1)
	case ast.Every:
		return reduceEvery(values)
	default:
		return nil, typeErrorf("unsupported aggregate function")
	}
}

func nonNull(values ast.ArrayValue) []ast.Value {
	out := make([]ast.Value, 0, len(values))
	for _, v := range values {
		if !isNull(v) {
			out = append(out, v)
		}
	}
	return out
}

func reduceSum(values ast.ArrayValue) (ast.Value, error) {
	present := nonNull(values)
	if len(present) == 0 {
		return ast.NullValue{}, nil
	}
	allInt := true
	var isum int64
	var fsum float64
	for _, v := range present {
		switch n := v.(type) {
		case ast.IntegerValue:
			isum += int64(n)
			fsum += float64(n)
		case ast.FloatValue:
			allInt = false
			fsum += float64(n)
		default:
			return nil, typeErrorf("SUM requires numeric values, got %T", v)
		}
	}
	if allInt {
		return ast.IntegerValue(isum), nil
	}
	return ast.FloatValue(fsum), nil
}

func reduceAvg(values ast.ArrayValue) (ast.Value, error) {
	present := nonNull(values)
	if len(present) == 0 {
		return ast.NullValue{}, nil
	}
	var sum float64
	for _, v := range present {
		f, ok := asFloat(v)
		if !ok {
			return nil, typeErrorf("AVG requires numeric values, got %T", v)
		}
		sum += f
	}
	return ast.FloatValue(sum / float64(len(present))), nil
}

// reduceExtreme returns the maximum (direction=1) or minimum (direction=-1)
// non-null value, comparing lexicographically for strings and numerically
// for numbers, per spec.md §4.4.
func reduceExtreme(values ast.ArrayValue, direction int) (ast.Value, error) {
	present := nonNull(values)
	if len(present) == 0 {
		return ast.NullValue{}, nil
	}
	best := present[0]
	for _, v := range present[1:] {
		c, err := compareValues(v, best)
		if err != nil {
			return nil, err
		}
		if c*direction > 0 {
			best = v
		}
	}
	return best, nil
}

func reduceEvery(values ast.ArrayValue) (ast.Value, error) {
	present := nonNull(values)
	if len(present) == 0 {
		return ast.NullValue{}, nil
	}
	for _, v := range present {
		b, ok := v.(ast.BooleanValue)
		if !ok {
			return nil, typeErrorf("EVERY requires boolean values, got %T", v)
		}
		if !bool(b) {
			return ast.BooleanValue(false), nil
		}
	}
	return ast.BooleanValue(true), nil
}

func reduceStringAgg(valueExpr, sepExpr ast.Expression, ctx *Context) (ast.Value, error) {
	reducedValue, err := Reduce(valueExpr, ctx)
	if err != nil {
		return nil, err
	}
	sepValue, err := Reduce(sepExpr, ctx)
	if err != nil {
		return nil, err
	}
	sep, ok := sepValue.(ast.StringValue)
	if !ok {
		return nil, typeErrorf("STRING_AGG separator must be a string, got %T", sepValue)
	}

	values, ok := reducedValue.(ast.ArrayValue)
	if !ok {
		values = ast.ArrayValue{reducedValue}
	}
	parts := make([]string, 0, len(values))
	for _, v := range nonNull(values) {
		s, ok := v.(ast.StringValue)
		if !ok {
			return nil, typeErrorf("STRING_AGG requires string values, got %T", v)
		}
		parts = append(parts, string(s))
	}
	return ast.StringValue(strings.Join(parts, string(sep))), nil
}
