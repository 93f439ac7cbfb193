package parser

import (
	"strings"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

func parseIfNotExists(q *tokenQueue) bool {
	if q.peek().Kind == token.IF {
		q.pop()
		if q.peek().Kind != token.NOT {
			return false
		}
		q.pop()
		if q.peek().Kind == token.EXISTS {
			q.pop()
		}
		return true
	}
	return false
}

func parseIfExists(q *tokenQueue) bool {
	if q.peek().Kind == token.IF {
		q.pop()
		if q.peek().Kind == token.EXISTS {
			q.pop()
			return true
		}
	}
	return false
}

func parseDataType(q *tokenQueue) (ast.DataType, error) {
	t := q.pop()
	if t.Kind != token.Identifier {
		return ast.DataType{}, errf(errExpectedToken, "expected a data type name, got %s", t)
	}
	dt := ast.DataType{Name: t.Text}
	if q.peek().Kind == token.LParen {
		q.pop()
		size := q.pop()
		if size.Kind != token.Integer {
			return ast.DataType{}, errf(errExpectedToken, "expected integer size in data type, got %s", size)
		}
		n := uint32(size.Int)
		dt.Size = &n
		if q.peek().Kind != token.RParen {
			return ast.DataType{}, errf(errExpectedToken, "expected ')' to close data type size, got %s", q.peek())
		}
		q.pop()
	}
	return dt, nil
}

// ParseCreateStatement dispatches CREATE DATABASE | CREATE TABLE.
func ParseCreateStatement(q *tokenQueue, ctx *Context) (ast.Statement, error) {
	q.pop() // CREATE
	switch q.peek().Kind {
	case token.DATABASE:
		q.pop()
		ifNotExists := parseIfNotExists(q)
		name := q.pop()
		if name.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected database name, got %s", name)
		}
		return &ast.CreateDatabaseStatement{Database: name.Text, IfNotExists: ifNotExists}, nil
	case token.TABLE:
		q.pop()
		ifNotExists := parseIfNotExists(q)
		table, err := parseTableName(q, ctx)
		if err != nil {
			return nil, err
		}
		if q.peek().Kind != token.LParen {
			return nil, errf(errExpectedToken, "expected '(' to start column list, got %s", q.peek())
		}
		q.pop()

		stmt := &ast.CreateTableStatement{Table: table, IfNotExists: ifNotExists}
		for {
			switch {
			case q.peek().Kind == token.PRIMARY:
				q.pop()
				if q.peek().Kind == token.KEY {
					q.pop()
				}
				cols, err := parseColumnNameList(q)
				if err != nil {
					return nil, err
				}
				stmt.PrimaryKey = cols
			case q.peek().Kind == token.FOREIGN:
				q.pop()
				if q.peek().Kind == token.KEY {
					q.pop()
				}
				cols, err := parseColumnNameList(q)
				if err != nil {
					return nil, err
				}
				if q.peek().Kind != token.Identifier || !strings.EqualFold(q.peek().Text, "REFERENCES") {
					return nil, errf(errExpectedToken, "expected REFERENCES after FOREIGN KEY column list, got %s", q.peek())
				}
				q.pop()
				refTable, err := parseTableName(q, ctx)
				if err != nil {
					return nil, err
				}
				refCols, err := parseColumnNameList(q)
				if err != nil {
					return nil, err
				}
				stmt.ForeignKeys = append(stmt.ForeignKeys, ast.ForeignKey{Columns: cols, RefTable: refTable, RefColumns: refCols})
			case q.peek().Kind == token.Identifier && strings.EqualFold(q.peek().Text, "UNIQUE"):
				q.pop()
				if q.peek().Kind == token.KEY {
					q.pop()
				}
				cols, err := parseColumnNameList(q)
				if err != nil {
					return nil, err
				}
				stmt.UniqueKeys = append(stmt.UniqueKeys, ast.UniqueKey{Columns: cols})
			default:
				col, err := parseColumnDef(q, ctx)
				if err != nil {
					return nil, err
				}
				stmt.Columns = append(stmt.Columns, col)
			}
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
		return stmt, nil
	default:
		return nil, errf(errUnexpectedToken, "expected DATABASE or TABLE after CREATE, got %s", q.peek())
	}
}

func parseColumnNameList(q *tokenQueue) ([]string, error) {
	if q.peek().Kind != token.LParen {
		return nil, errf(errExpectedToken, "expected '(' to start column name list, got %s", q.peek())
	}
	q.pop()
	var names []string
	for {
		t := q.pop()
		if t.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected column name, got %s", t)
		}
		names = append(names, t.Text)
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	if q.peek().Kind != token.RParen {
		return nil, errf(errExpectedToken, "expected ')' to close column name list, got %s", q.peek())
	}
	q.pop()
	return names, nil
}

func parseColumnDef(q *tokenQueue, ctx *Context) (ast.Column, error) {
	name := q.pop()
	if name.Kind != token.Identifier {
		return ast.Column{}, errf(errExpectedToken, "expected column name, got %s", name)
	}
	dt, err := parseDataType(q)
	if err != nil {
		return ast.Column{}, err
	}
	col := ast.Column{Name: name.Text, DataType: dt}
	for {
		switch q.peek().Kind {
		case token.NOT:
			q.pop()
			if q.peek().Kind != token.Null {
				return ast.Column{}, errf(errExpectedToken, "expected NULL after NOT, got %s", q.peek())
			}
			q.pop()
			col.NotNull = true
			continue
		case token.DEFAULT:
			q.pop()
			expr, err := ParseExpression(q, ctx)
			if err != nil {
				return ast.Column{}, err
			}
			col.Default = expr
			continue
		}
		break
	}
	return col, nil
}

// ParseAlterStatement dispatches ALTER DATABASE | ALTER TABLE.
func ParseAlterStatement(q *tokenQueue, ctx *Context) (ast.Statement, error) {
	q.pop() // ALTER
	switch q.peek().Kind {
	case token.DATABASE:
		q.pop()
		name := q.pop()
		if name.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected database name, got %s", name)
		}
		if q.peek().Kind != token.RENAME {
			return nil, errf(errExpectedToken, "expected RENAME, got %s", q.peek())
		}
		q.pop()
		if q.peek().Kind != token.TO {
			return nil, errf(errExpectedToken, "expected TO after RENAME, got %s", q.peek())
		}
		q.pop()
		newName := q.pop()
		if newName.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected new database name, got %s", newName)
		}
		return &ast.AlterDatabaseStatement{Database: name.Text, RenameTo: newName.Text}, nil
	case token.TABLE:
		q.pop()
		table, err := parseTableName(q, ctx)
		if err != nil {
			return nil, err
		}
		stmt := &ast.AlterTableStatement{Table: table}
		for {
			action, err := parseAlterTableAction(q, ctx)
			if err != nil {
				return nil, err
			}
			stmt.Actions = append(stmt.Actions, action)
			if q.peek().Kind == token.Comma {
				q.pop()
				continue
			}
			break
		}
		return stmt, nil
	default:
		return nil, errf(errUnexpectedToken, "expected DATABASE or TABLE after ALTER, got %s", q.peek())
	}
}

func parseAlterTableAction(q *tokenQueue, ctx *Context) (ast.AlterTableAction, error) {
	t := q.pop()
	switch {
	case t.Kind == token.Identifier && strings.EqualFold(t.Text, "ADD"):
		if q.peek().Kind == token.COLUMN {
			q.pop()
		}
		col, err := parseColumnDef(q, ctx)
		if err != nil {
			return nil, err
		}
		return &ast.AddColumn{Column: col}, nil
	case t.Kind == token.DROP:
		if q.peek().Kind == token.COLUMN {
			q.pop()
		}
		name := q.pop()
		return &ast.DropColumn{Name: name.Text}, nil
	case t.Kind == token.RENAME:
		if q.peek().Kind == token.COLUMN {
			q.pop()
		}
		from := q.pop()
		if q.peek().Kind != token.TO {
			return nil, errf(errExpectedToken, "expected TO in RENAME COLUMN, got %s", q.peek())
		}
		q.pop()
		to := q.pop()
		return &ast.RenameColumn{From: from.Text, To: to.Text}, nil
	case t.Kind == token.ALTER:
		if q.peek().Kind == token.COLUMN {
			q.pop()
		}
		name := q.pop()
		if name.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected column name in ALTER COLUMN, got %s", name)
		}
		if q.peek().Kind == token.TYPE {
			q.pop()
		}
		dt, err := parseDataType(q)
		if err != nil {
			return nil, err
		}
		return &ast.AlterColumnType{Name: name.Text, DataType: dt}, nil
	default:
		return nil, errf(errUnexpectedToken, "unsupported ALTER TABLE action starting at %s", t)
	}
}

// ParseDropStatement dispatches DROP DATABASE | DROP TABLE.
func ParseDropStatement(q *tokenQueue, ctx *Context) (ast.Statement, error) {
	q.pop() // DROP
	switch q.peek().Kind {
	case token.DATABASE:
		q.pop()
		ifExists := parseIfExists(q)
		name := q.pop()
		if name.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected database name, got %s", name)
		}
		return &ast.DropDatabaseStatement{Database: name.Text, IfExists: ifExists}, nil
	case token.TABLE:
		q.pop()
		ifExists := parseIfExists(q)
		table, err := parseTableName(q, ctx)
		if err != nil {
			return nil, err
		}
		return &ast.DropTableStatement{Table: table, IfExists: ifExists}, nil
	default:
		return nil, errf(errUnexpectedToken, "expected DATABASE or TABLE after DROP, got %s", q.peek())
	}
}
