package parser

import (
	"strings"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// ParseShowStatement parses `SHOW DATABASES` or `SHOW TABLES [FROM database]`.
func ParseShowStatement(q *tokenQueue, ctx *Context) (*ast.ShowStatement, error) {
	q.pop() // SHOW
	t := q.pop()
	if t.Kind != token.Identifier {
		return nil, errf(errExpectedToken, "expected DATABASES or TABLES after SHOW, got %s", t)
	}
	switch {
	case strings.EqualFold(t.Text, "DATABASES"):
		return &ast.ShowStatement{Target: "DATABASES"}, nil
	case strings.EqualFold(t.Text, "TABLES"):
		stmt := &ast.ShowStatement{Target: "TABLES"}
		if q.peek().Kind == token.FROM {
			q.pop()
			db := q.pop()
			if db.Kind != token.Identifier {
				return nil, errf(errExpectedToken, "expected database name after FROM, got %s", db)
			}
			stmt.Database = &db.Text
		} else if ctx.DefaultDatabase != nil {
			db := *ctx.DefaultDatabase
			stmt.Database = &db
		}
		return stmt, nil
	default:
		return nil, errf(errUnexpectedToken, "expected DATABASES or TABLES after SHOW, got %q", t.Text)
	}
}

// ParseUseStatement parses `USE database`.
func ParseUseStatement(q *tokenQueue, ctx *Context) (*ast.UseStatement, error) {
	q.pop() // USE
	name := q.pop()
	if name.Kind != token.Identifier {
		return nil, errf(errExpectedToken, "expected database name after USE, got %s", name)
	}
	return &ast.UseStatement{Database: name.Text}, nil
}

// ParseDescStatement parses `DESC table` / `DESC database.table`.
func ParseDescStatement(q *tokenQueue, ctx *Context) (*ast.DescStatement, error) {
	q.pop() // DESC
	table, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}
	return &ast.DescStatement{Table: table}, nil
}

// ParseBackslashShortcut parses a psql-style meta command such as `\l` or
// `\d table`, expanding it into the statement it aliases.
func ParseBackslashShortcut(q *tokenQueue, ctx *Context) (ast.Statement, error) {
	q.pop() // Backslash
	t := q.pop()
	if t.Kind != token.Identifier {
		return nil, errf(errUnexpectedToken, "expected a meta-command name after '\\', got %s", t)
	}
	switch strings.ToLower(t.Text) {
	case "l", "list":
		return &ast.ShowStatement{Target: "DATABASES"}, nil
	case "dt":
		stmt := &ast.ShowStatement{Target: "TABLES"}
		if ctx.DefaultDatabase != nil {
			db := *ctx.DefaultDatabase
			stmt.Database = &db
		}
		return stmt, nil
	case "d":
		if q.atEOF() || q.peek().Kind == token.Semicolon {
			stmt := &ast.ShowStatement{Target: "TABLES"}
			if ctx.DefaultDatabase != nil {
				db := *ctx.DefaultDatabase
				stmt.Database = &db
			}
			return stmt, nil
		}
		table, err := parseTableName(q, ctx)
		if err != nil {
			return nil, err
		}
		return &ast.DescStatement{Table: table}, nil
	default:
		return nil, errf(errUnsupportedTopLvl, "unrecognized meta-command \\%s", t.Text)
	}
}
