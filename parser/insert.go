package parser

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// ParseInsertStatement parses `INSERT INTO table (cols...) VALUES (...), ...`
// or `INSERT INTO table (cols...) SELECT ...`.
func ParseInsertStatement(q *tokenQueue, ctx *Context) (*ast.InsertStatement, error) {
	if q.peek().Kind != token.INSERT {
		return nil, errf(errExpectedToken, "expected INSERT, got %s", q.peek())
	}
	q.pop()
	if q.peek().Kind != token.INTO {
		return nil, errf(errExpectedToken, "expected INTO after INSERT, got %s", q.peek())
	}
	q.pop()

	table, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}

	if q.peek().Kind != token.LParen {
		return nil, errf(errExpectedToken, "expected '(' to start column list, got %s", q.peek())
	}
	q.pop()
	var columns []string
	for {
		t := q.pop()
		if t.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected column name, got %s", t)
		}
		columns = append(columns, t.Text)
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	if q.peek().Kind != token.RParen {
		return nil, errf(errExpectedToken, "expected ')' to close column list, got %s", q.peek())
	}
	q.pop()

	stmt := &ast.InsertStatement{Table: table, Columns: columns}

	if q.peek().Kind == token.SELECT {
		sq, err := ParseSelectQuery(q, ctx)
		if err != nil {
			return nil, err
		}
		stmt.Select = sq
		return stmt, nil
	}

	if q.peek().Kind != token.VALUES {
		return nil, errf(errExpectedToken, "expected VALUES or SELECT, got %s", q.peek())
	}
	q.pop()

	for {
		row, err := parseInsertValueRow(q, ctx, len(columns))
		if err != nil {
			return nil, err
		}
		stmt.Rows = append(stmt.Rows, row)
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}

	return stmt, nil
}

func parseInsertValueRow(q *tokenQueue, ctx *Context, wantCols int) ([]ast.InsertValue, error) {
	if q.peek().Kind != token.LParen {
		return nil, errf(errExpectedToken, "expected '(' to start a VALUES row, got %s", q.peek())
	}
	q.pop()

	var values []ast.InsertValue
	for {
		if q.peek().Kind == token.DEFAULT {
			q.pop()
			values = append(values, &ast.InsertDefault{})
		} else {
			expr, err := ParseExpression(q, ctx)
			if err != nil {
				return nil, err
			}
			values = append(values, &ast.InsertExpr{Expr: expr})
		}
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	if q.peek().Kind != token.RParen {
		return nil, errf(errExpectedToken, "expected ')' to close a VALUES row, got %s", q.peek())
	}
	q.pop()

	if len(values) != wantCols {
		return nil, errf(errColumnValueArity, "expected %d values to match the column list, got %d", wantCols, len(values))
	}
	return values, nil
}
