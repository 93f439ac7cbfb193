package parser

import (
	"testing"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/lexer"
)

func parseSQL(t *testing.T, sql string) []ast.Statement {
	t.Helper()
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", sql, err)
	}
	stmts, err := Parse(toks, &Context{})
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", sql, err)
	}
	return stmts
}

func parseSQLErr(t *testing.T, sql string) error {
	t.Helper()
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		t.Fatalf("Tokenize(%q) returned error: %v", sql, err)
	}
	_, err = Parse(toks, &Context{})
	if err == nil {
		t.Fatalf("Parse(%q) expected error, got none", sql)
	}
	return err
}

func TestParseDispatchesByLeadingToken(t *testing.T) {
	cases := map[string]any{
		"SELECT 1":                     &ast.SelectQuery{},
		"INSERT INTO t (a) VALUES (1)": &ast.InsertStatement{},
		"UPDATE t SET a = 1":           &ast.UpdateStatement{},
		"DELETE FROM t":                &ast.DeleteStatement{},
		"CREATE DATABASE d":            &ast.CreateDatabaseStatement{},
		"CREATE TABLE t (a INT)":       &ast.CreateTableStatement{},
		"ALTER DATABASE d RENAME TO e": &ast.AlterDatabaseStatement{},
		"ALTER TABLE t ADD b INT":      &ast.AlterTableStatement{},
		"DROP DATABASE d":              &ast.DropDatabaseStatement{},
		"DROP TABLE t":                 &ast.DropTableStatement{},
		"SHOW DATABASES":               &ast.ShowStatement{},
		"USE d":                        &ast.UseStatement{},
		"DESC t":                       &ast.DescStatement{},
	}
	for sql, want := range cases {
		stmts := parseSQL(t, sql)
		if len(stmts) != 1 {
			t.Fatalf("Parse(%q) produced %d statements, want 1", sql, len(stmts))
		}
		gotType := typeName(stmts[0])
		wantType := typeName(want)
		if gotType != wantType {
			t.Fatalf("Parse(%q) produced %s, want %s", sql, gotType, wantType)
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ast.SelectQuery:
		return "SelectQuery"
	case *ast.InsertStatement:
		return "InsertStatement"
	case *ast.UpdateStatement:
		return "UpdateStatement"
	case *ast.DeleteStatement:
		return "DeleteStatement"
	case *ast.CreateDatabaseStatement:
		return "CreateDatabaseStatement"
	case *ast.CreateTableStatement:
		return "CreateTableStatement"
	case *ast.AlterDatabaseStatement:
		return "AlterDatabaseStatement"
	case *ast.AlterTableStatement:
		return "AlterTableStatement"
	case *ast.DropDatabaseStatement:
		return "DropDatabaseStatement"
	case *ast.DropTableStatement:
		return "DropTableStatement"
	case *ast.ShowStatement:
		return "ShowStatement"
	case *ast.UseStatement:
		return "UseStatement"
	case *ast.DescStatement:
		return "DescStatement"
	default:
		return "unknown"
	}
}

func TestParseTrailingSemicolonOptional(t *testing.T) {
	stmts := parseSQL(t, "SELECT 1;")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
}

func TestParseMultipleStatements(t *testing.T) {
	stmts := parseSQL(t, "SELECT 1; SELECT 2;;; SELECT 3")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
}

func TestParseMissingSemicolonBetweenStatementsErrors(t *testing.T) {
	parseSQLErr(t, "SELECT 1 SELECT 2")
}

func TestParseBackslashListShortcut(t *testing.T) {
	stmts := parseSQL(t, `\l`)
	show, ok := stmts[0].(*ast.ShowStatement)
	if !ok {
		t.Fatalf("expected *ast.ShowStatement, got %T", stmts[0])
	}
	if show.Target != "DATABASES" {
		t.Fatalf("expected Target=DATABASES, got %q", show.Target)
	}
}

func TestParseBackslashDescShortcut(t *testing.T) {
	stmts := parseSQL(t, `\d users`)
	desc, ok := stmts[0].(*ast.DescStatement)
	if !ok {
		t.Fatalf("expected *ast.DescStatement, got %T", stmts[0])
	}
	if desc.Table.Table != "users" {
		t.Fatalf("expected table users, got %q", desc.Table.Table)
	}
}

func TestParseCreateTableWithConstraints(t *testing.T) {
	stmts := parseSQL(t, `CREATE TABLE IF NOT EXISTS orders (
		id INT NOT NULL,
		customer_id INT,
		PRIMARY KEY (id),
		FOREIGN KEY (customer_id) REFERENCES customers (id),
		UNIQUE (customer_id)
	)`)
	create, ok := stmts[0].(*ast.CreateTableStatement)
	if !ok {
		t.Fatalf("expected *ast.CreateTableStatement, got %T", stmts[0])
	}
	if !create.IfNotExists {
		t.Fatalf("expected IfNotExists=true")
	}
	if len(create.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(create.Columns))
	}
	if len(create.PrimaryKey) != 1 || create.PrimaryKey[0] != "id" {
		t.Fatalf("expected primary key [id], got %v", create.PrimaryKey)
	}
	if len(create.ForeignKeys) != 1 || create.ForeignKeys[0].RefTable.Table != "customers" {
		t.Fatalf("expected one foreign key referencing customers, got %v", create.ForeignKeys)
	}
	if len(create.UniqueKeys) != 1 {
		t.Fatalf("expected one unique key, got %v", create.UniqueKeys)
	}
}

func TestParseAlterTableActions(t *testing.T) {
	stmts := parseSQL(t, `ALTER TABLE t ADD COLUMN a INT, DROP COLUMN b, RENAME COLUMN c TO d, ALTER COLUMN e TYPE VARCHAR(10)`)
	alter, ok := stmts[0].(*ast.AlterTableStatement)
	if !ok {
		t.Fatalf("expected *ast.AlterTableStatement, got %T", stmts[0])
	}
	if len(alter.Actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(alter.Actions))
	}
	if _, ok := alter.Actions[0].(*ast.AddColumn); !ok {
		t.Fatalf("action 0 should be AddColumn, got %T", alter.Actions[0])
	}
	if _, ok := alter.Actions[1].(*ast.DropColumn); !ok {
		t.Fatalf("action 1 should be DropColumn, got %T", alter.Actions[1])
	}
	if _, ok := alter.Actions[2].(*ast.RenameColumn); !ok {
		t.Fatalf("action 2 should be RenameColumn, got %T", alter.Actions[2])
	}
	if _, ok := alter.Actions[3].(*ast.AlterColumnType); !ok {
		t.Fatalf("action 3 should be AlterColumnType, got %T", alter.Actions[3])
	}
}

func TestParseDropTableIfExists(t *testing.T) {
	stmts := parseSQL(t, "DROP TABLE IF EXISTS t")
	drop, ok := stmts[0].(*ast.DropTableStatement)
	if !ok {
		t.Fatalf("expected *ast.DropTableStatement, got %T", stmts[0])
	}
	if !drop.IfExists {
		t.Fatalf("expected IfExists=true")
	}
}

func TestParseShowTablesFrom(t *testing.T) {
	stmts := parseSQL(t, "SHOW TABLES FROM mydb")
	show, ok := stmts[0].(*ast.ShowStatement)
	if !ok {
		t.Fatalf("expected *ast.ShowStatement, got %T", stmts[0])
	}
	if show.Database == nil || *show.Database != "mydb" {
		t.Fatalf("expected database mydb, got %v", show.Database)
	}
}

func TestParseGroupByColumnWithAggregateSucceeds(t *testing.T) {
	stmts := parseSQL(t, "SELECT a, sum(b) FROM t GROUP BY a") // a is grouped, b is aggregated
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
}

func TestParseNonAggregateColumnNotInGroupByErrors(t *testing.T) {
	err := parseSQLErr(t, "SELECT a, b, sum(c) FROM t GROUP BY a")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T: %v", err, err)
	}
	if perr.Code != errGroupByMissing {
		t.Fatalf("expected code %s, got %s", errGroupByMissing, perr.Code)
	}
}

func TestParseHavingWithoutGroupByErrors(t *testing.T) {
	err := parseSQLErr(t, "SELECT a FROM t HAVING a > 1")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T: %v", err, err)
	}
	if perr.Code != errHavingNoGroupBy {
		t.Fatalf("expected code %s, got %s", errHavingNoGroupBy, perr.Code)
	}
}

func TestParseInsertDefaultValue(t *testing.T) {
	stmts := parseSQL(t, "INSERT INTO t (a, b) VALUES (1, DEFAULT)")
	ins, ok := stmts[0].(*ast.InsertStatement)
	if !ok {
		t.Fatalf("expected *ast.InsertStatement, got %T", stmts[0])
	}
	if len(ins.Rows) != 1 || len(ins.Rows[0]) != 2 {
		t.Fatalf("expected 1 row of 2 values, got %v", ins.Rows)
	}
	if _, ok := ins.Rows[0][1].(*ast.InsertDefault); !ok {
		t.Fatalf("expected second value to be InsertDefault, got %T", ins.Rows[0][1])
	}
}

func TestParseInsertColumnValueArityMismatchErrors(t *testing.T) {
	err := parseSQLErr(t, "INSERT INTO t (a, b) VALUES (1)")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T: %v", err, err)
	}
	if perr.Code != errColumnValueArity {
		t.Fatalf("expected code %s, got %s", errColumnValueArity, perr.Code)
	}
}
