package eval

import (
	"regexp"
	"strings"

	"github.com/rrdb/rrdb/ast"
)

func reduceLike(op ast.BinaryOperator, lhs, rhs ast.Value) (ast.Value, error) {
	if isNull(lhs) || isNull(rhs) {
		return ast.NullValue{}, nil
	}
	l, lok := lhs.(ast.StringValue)
	r, rok := rhs.(ast.StringValue)
	if !lok || !rok {
		return nil, typeErrorf("LIKE requires string operands, got %T and %T", lhs, rhs)
	}
	matched := likeMatch(string(l), string(r))
	if op == ast.Like {
		return ast.BooleanValue(matched), nil
	}
	return ast.BooleanValue(!matched), nil
}

// likeMatch implements the SQL LIKE pattern language: '%' matches any run
// of characters, '_' matches exactly one.
func likeMatch(value, pattern string) bool {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	re, err := regexp.Compile(sb.String())
	if err != nil {
		return false
	}
	return re.MatchString(value)
}
