package parser

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// ParseExpression parses one SQLExpression from q, consuming tokens as it
// goes. It is exported for the select/insert/update parsers that embed
// expressions in clauses.
func ParseExpression(q *tokenQueue, ctx *Context) (ast.Expression, error) {
	lhs, err := parsePrimary(q, ctx)
	if err != nil {
		return nil, err
	}
	return extendExpression(q, ctx, lhs)
}

func parsePrimary(q *tokenQueue, ctx *Context) (ast.Expression, error) {
	t := q.peek()
	switch t.Kind {
	case token.Integer:
		q.pop()
		return &ast.IntegerLiteral{Value: t.Int}, nil
	case token.Float:
		q.pop()
		return &ast.FloatLiteral{Value: t.Float}, nil
	case token.Boolean:
		q.pop()
		return &ast.BooleanLiteral{Value: t.Bool}, nil
	case token.String:
		q.pop()
		return &ast.StringLiteral{Value: t.Text}, nil
	case token.Null:
		q.pop()
		return &ast.Null{}, nil
	case token.Identifier:
		return parseIdentifierOrCall(q, ctx)
	case token.Plus:
		q.pop()
		return parseUnary(q, ctx, ast.Pos)
	case token.Minus:
		q.pop()
		return parseUnary(q, ctx, ast.Neg)
	case token.NOT:
		q.pop()
		return parseUnary(q, ctx, ast.Not)
	case token.LParen:
		return parseParenOrSubqueryOrList(q, ctx)
	default:
		return nil, errf(errUnexpectedToken, "unexpected token %s while parsing expression", t)
	}
}

// parseUnary recursively parses the operand, then hoists the unary wrapper
// down into the operand's leftmost slot so that unary binds tighter than
// any binary operator that follows.
func parseUnary(q *tokenQueue, ctx *Context, op ast.UnaryOperator) (ast.Expression, error) {
	operand, err := ParseExpression(q, ctx)
	if err != nil {
		return nil, err
	}
	switch o := operand.(type) {
	case *ast.Binary:
		o.LHS = &ast.Unary{Op: op, Operand: o.LHS}
		return o, nil
	case *ast.Between:
		o.A = &ast.Unary{Op: op, Operand: o.A}
		return o, nil
	case *ast.NotBetween:
		o.A = &ast.Unary{Op: op, Operand: o.A}
		return o, nil
	default:
		return &ast.Unary{Op: op, Operand: operand}, nil
	}
}

func parseIdentifierOrCall(q *tokenQueue, ctx *Context) (ast.Expression, error) {
	first := q.pop() // Identifier
	name := first.Text
	var table *string

	if q.peek().Kind == token.Dot {
		q.pop()
		second := q.pop()
		if second.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected identifier after '.', got %s", second)
		}
		table = &name
		name = second.Text
	}

	if q.peek().Kind == token.LParen {
		q.pop()
		var args []ast.Expression
		if q.peek().Kind == token.Star && q.peekAt(1).Kind == token.RParen {
			q.pop()
			args = append(args, &ast.SelectColumn{Column: "*"})
		} else if q.peek().Kind != token.RParen {
			for {
				arg, err := ParseExpression(q, ctx)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if q.peek().Kind == token.Comma {
					q.pop()
					continue
				}
				break
			}
		}
		if q.peek().Kind != token.RParen {
			return nil, errf(errExpectedToken, "expected ')' to close function call, got %s", q.peek())
		}
		q.pop()
		fn := ast.LookupFunction(table, name)
		return &ast.FunctionCall{Function: fn, Arguments: args}, nil
	}

	return &ast.SelectColumn{Table: table, Column: name}, nil
}

func parseParenOrSubqueryOrList(q *tokenQueue, ctx *Context) (ast.Expression, error) {
	q.pop() // (
	inner := *ctx
	inner.InParentheses = true

	if q.peek().Kind == token.SELECT {
		sq, err := ParseSelectQuery(q, &inner)
		if err != nil {
			return nil, err
		}
		if q.peek().Kind != token.RParen {
			return nil, errf(errExpectedToken, "expected ')' to close subquery, got %s", q.peek())
		}
		q.pop()
		return &ast.Subquery{Query: sq}, nil
	}

	first, err := ParseExpression(q, &inner)
	if err != nil {
		return nil, err
	}

	if q.peek().Kind == token.Comma {
		values := []ast.Expression{first}
		for q.peek().Kind == token.Comma {
			q.pop()
			v, err := ParseExpression(q, &inner)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if q.peek().Kind != token.RParen {
			return nil, errf(errExpectedToken, "expected ')' to close list, got %s", q.peek())
		}
		q.pop()
		return &ast.List{Values: values}, nil
	}

	if q.peek().Kind != token.RParen {
		return nil, errf(errExpectedToken, "expected ')' to close parenthesized expression, got %s", q.peek())
	}
	q.pop()
	return &ast.Parentheses{Inner: first}, nil
}

// extendExpression implements the binary/BETWEEN extension and precedence
// rebalancing described in spec.md §4.2.
func extendExpression(q *tokenQueue, ctx *Context, lhs ast.Expression) (ast.Expression, error) {
	for {
		kind, op, ok, err := tryOperator(q, ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return lhs, nil
		}

		switch kind {
		case "between", "notbetween":
			betweenCtx := *ctx
			betweenCtx.InBetweenClause = true

			x, err := ParseExpression(q, &betweenCtx)
			if err != nil {
				return nil, err
			}
			if q.peek().Kind != token.AND {
				return nil, errf(errExpectedToken, "expected AND in BETWEEN clause, got %s", q.peek())
			}
			q.pop()
			y, err := ParseExpression(q, &betweenCtx)
			if err != nil {
				return nil, err
			}
			if kind == "between" {
				lhs = &ast.Between{A: lhs, X: x, Y: y}
			} else {
				lhs = &ast.NotBetween{A: lhs, X: x, Y: y}
			}
		default:
			rhs, err := ParseExpression(q, ctx)
			if err != nil {
				return nil, err
			}
			lhs = combineBinary(op, lhs, rhs)
		}
	}
}

// combineBinary implements precedence rebalancing: a right-leaning parse of
// a lower-or-equal precedence, non-parenthesized RHS is rotated into a
// left-leaning tree.
func combineBinary(op ast.BinaryOperator, lhs, rhs ast.Expression) ast.Expression {
	if rhsBin, ok := rhs.(*ast.Binary); ok {
		if rhsBin.Op.Precedence() > op.Precedence() {
			return &ast.Binary{Op: op, LHS: lhs, RHS: rhs}
		}
		newLHS := &ast.Binary{Op: op, LHS: lhs, RHS: rhsBin.LHS}
		return &ast.Binary{Op: rhsBin.Op, LHS: newLHS, RHS: rhsBin.RHS}
	}
	return &ast.Binary{Op: op, LHS: lhs, RHS: rhs}
}

// tryOperator recognizes the next binary/BETWEEN operator (including
// multi-token forms) without consuming anything on a non-match.
func tryOperator(q *tokenQueue, ctx *Context) (kind string, op ast.BinaryOperator, ok bool, err error) {
	stopAtAnd := ctx.InBetweenClause && !ctx.InParentheses
	t := q.peek()

	switch t.Kind {
	case token.BETWEEN:
		q.pop()
		return "between", 0, true, nil
	case token.NOT:
		switch q.peekAt(1).Kind {
		case token.BETWEEN:
			q.pop()
			q.pop()
			return "notbetween", 0, true, nil
		case token.IN:
			q.pop()
			q.pop()
			return "binary", ast.NotIn, true, nil
		case token.LIKE:
			q.pop()
			q.pop()
			return "binary", ast.NotLike, true, nil
		default:
			return "", 0, false, nil
		}
	case token.IS:
		if q.peekAt(1).Kind == token.NOT {
			q.pop()
			q.pop()
			return "binary", ast.IsNot, true, nil
		}
		q.pop()
		return "binary", ast.Is, true, nil
	case token.AND:
		if stopAtAnd {
			return "", 0, false, nil
		}
		q.pop()
		return "binary", ast.And, true, nil
	case token.OR:
		q.pop()
		return "binary", ast.Or, true, nil
	case token.Plus:
		q.pop()
		return "binary", ast.Add, true, nil
	case token.Minus:
		q.pop()
		return "binary", ast.Sub, true, nil
	case token.Star:
		q.pop()
		return "binary", ast.Mul, true, nil
	case token.Slash:
		q.pop()
		return "binary", ast.Div, true, nil
	case token.LIKE:
		q.pop()
		return "binary", ast.Like, true, nil
	case token.IN:
		q.pop()
		return "binary", ast.In, true, nil
	case token.Lt:
		switch q.peekAt(1).Kind {
		case token.Eq:
			q.pop()
			q.pop()
			return "binary", ast.Lte, true, nil
		case token.Gt:
			q.pop()
			q.pop()
			return "binary", ast.Neq, true, nil
		default:
			q.pop()
			return "binary", ast.Lt, true, nil
		}
	case token.Gt:
		if q.peekAt(1).Kind == token.Eq {
			q.pop()
			q.pop()
			return "binary", ast.Gte, true, nil
		}
		q.pop()
		return "binary", ast.Gt, true, nil
	case token.Eq:
		q.pop()
		return "binary", ast.Eq, true, nil
	case token.Bang:
		if q.peekAt(1).Kind == token.Eq {
			q.pop()
			q.pop()
			return "binary", ast.Neq, true, nil
		}
		return "", 0, false, nil
	default:
		return "", 0, false, nil
	}
}
