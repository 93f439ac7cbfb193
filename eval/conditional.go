package eval

import "github.com/rrdb/rrdb/ast"

func reduceConditional(kind ast.ConditionalKind, args []ast.Expression, ctx *Context) (ast.Value, error) {
	switch kind {
	case ast.NullIf:
		if len(args) != 2 {
			return nil, typeErrorf("NULLIF takes exactly 2 arguments, got %d", len(args))
		}
		a, err := Reduce(args[0], ctx)
		if err != nil {
			return nil, err
		}
		b, err := Reduce(args[1], ctx)
		if err != nil {
			return nil, err
		}
		if !isNull(a) && !isNull(b) {
			if c, err := compareValues(a, b); err == nil && c == 0 {
				return ast.NullValue{}, nil
			}
		}
		return a, nil

	case ast.Coalesce:
		for _, arg := range args {
			v, err := Reduce(arg, ctx)
			if err != nil {
				return nil, err
			}
			if !isNull(v) {
				return v, nil
			}
		}
		return ast.NullValue{}, nil

	case ast.Greatest, ast.Least:
		var best ast.Value = ast.NullValue{}
		for _, arg := range args {
			v, err := Reduce(arg, ctx)
			if err != nil {
				return nil, err
			}
			if isNull(v) {
				continue
			}
			if isNull(best) {
				best = v
				continue
			}
			c, err := compareValues(v, best)
			if err != nil {
				return nil, err
			}
			if (kind == ast.Greatest && c > 0) || (kind == ast.Least && c < 0) {
				best = v
			}
		}
		return best, nil

	default:
		return nil, typeErrorf("unsupported conditional function")
	}
}
