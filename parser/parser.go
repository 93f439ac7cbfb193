package parser

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// Parse turns a flat token stream into the statement list it encodes,
// dispatching each statement by its leading token per spec.md §4.2:
// CREATE/ALTER/DROP to DDL, INSERT/UPDATE/DELETE/SELECT to DML, SHOW/USE/DESC
// to the remaining statement kinds, and a leading backslash to the psql-style
// meta-command shortcuts. A trailing ';' between statements is accepted, and
// consecutive ';'s at top level are tolerated.
func Parse(toks []token.Token, ctx *Context) ([]ast.Statement, error) {
	if ctx == nil {
		ctx = &Context{}
	}
	q := newTokenQueue(toks)

	var statements []ast.Statement
	for {
		for q.peek().Kind == token.Semicolon {
			q.pop()
		}
		if q.atEOF() {
			break
		}

		stmt, err := parseStatement(q, ctx)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)

		if q.peek().Kind == token.Semicolon {
			q.pop()
			continue
		}
		if q.atEOF() {
			break
		}
		return nil, errf(errUnexpectedToken, "expected ';' or end of input after statement, got %s", q.peek())
	}
	return statements, nil
}

func parseStatement(q *tokenQueue, ctx *Context) (ast.Statement, error) {
	switch q.peek().Kind {
	case token.CREATE:
		return ParseCreateStatement(q, ctx)
	case token.ALTER:
		return ParseAlterStatement(q, ctx)
	case token.DROP:
		return ParseDropStatement(q, ctx)
	case token.INSERT:
		return ParseInsertStatement(q, ctx)
	case token.UPDATE:
		return ParseUpdateStatement(q, ctx)
	case token.DELETE:
		return ParseDeleteStatement(q, ctx)
	case token.SELECT:
		return ParseSelectQuery(q, ctx)
	case token.SHOW:
		return ParseShowStatement(q, ctx)
	case token.USE:
		return ParseUseStatement(q, ctx)
	case token.DESC:
		return ParseDescStatement(q, ctx)
	case token.Backslash:
		return ParseBackslashShortcut(q, ctx)
	default:
		return nil, errf(errUnsupportedTopLvl, "unexpected token %s at start of statement", q.peek())
	}
}
