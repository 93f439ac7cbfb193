package parser

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// ParseUpdateStatement parses `UPDATE table SET col = expr, ... [WHERE ...]`.
func ParseUpdateStatement(q *tokenQueue, ctx *Context) (*ast.UpdateStatement, error) {
	if q.peek().Kind != token.UPDATE {
		return nil, errf(errExpectedToken, "expected UPDATE, got %s", q.peek())
	}
	q.pop()

	table, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}
	alias := parseOptionalAlias(q)

	if q.peek().Kind != token.SET {
		return nil, errf(errExpectedToken, "expected SET, got %s", q.peek())
	}
	q.pop()

	var items []ast.UpdateItem
	for {
		col := q.pop()
		if col.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected column name in SET clause, got %s", col)
		}
		if q.peek().Kind != token.Eq {
			return nil, errf(errExpectedToken, "expected '=' in SET clause, got %s", q.peek())
		}
		q.pop()
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, ast.UpdateItem{Column: col.Text, Value: expr})
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}

	stmt := &ast.UpdateStatement{Table: table, Alias: alias, Items: items}
	if q.peek().Kind == token.WHERE {
		q.pop()
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		stmt.Where = &ast.WhereClause{Expr: expr}
	}
	return stmt, nil
}

// ParseDeleteStatement parses `DELETE FROM table [WHERE ...]`.
func ParseDeleteStatement(q *tokenQueue, ctx *Context) (*ast.DeleteStatement, error) {
	if q.peek().Kind != token.DELETE {
		return nil, errf(errExpectedToken, "expected DELETE, got %s", q.peek())
	}
	q.pop()
	if q.peek().Kind != token.FROM {
		return nil, errf(errExpectedToken, "expected FROM after DELETE, got %s", q.peek())
	}
	q.pop()

	table, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}
	alias := parseOptionalAlias(q)

	stmt := &ast.DeleteStatement{Table: table, Alias: alias}
	if q.peek().Kind == token.WHERE {
		q.pop()
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		stmt.Where = &ast.WhereClause{Expr: expr}
	}
	return stmt, nil
}
