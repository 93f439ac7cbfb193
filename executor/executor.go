package executor

import (
	"fmt"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
)

// Execute routes a parsed statement to its pipeline. DDL and the
// meta-commands (SHOW/USE/DESC) are handled directly against the catalog;
// DML is handled by Select/Insert/Update/Delete.
func Execute(cat catalog.Catalog, stmt ast.Statement, currentDatabase string) (*Result, error) {
	switch s := stmt.(type) {
	case *ast.SelectQuery:
		return Select(cat, s, currentDatabase)
	case *ast.InsertStatement:
		return Insert(cat, s, currentDatabase)
	case *ast.UpdateStatement:
		return Update(cat, s, currentDatabase)
	case *ast.DeleteStatement:
		return Delete(cat, s, currentDatabase)
	case *ast.CreateDatabaseStatement:
		return execCreateDatabase(cat, s)
	case *ast.CreateTableStatement:
		return execCreateTable(cat, s, currentDatabase)
	case *ast.DropDatabaseStatement:
		return execDropDatabase(cat, s)
	case *ast.DropTableStatement:
		return execDropTable(cat, s, currentDatabase)
	case *ast.ShowStatement:
		return execShow(cat, s, currentDatabase)
	case *ast.UseStatement:
		return execUse(cat, s)
	case *ast.DescStatement:
		return execDesc(cat, s, currentDatabase)
	default:
		return nil, errf("unsupported statement type %T", stmt)
	}
}

// execShow implements `SHOW DATABASES` and `SHOW TABLES`, materializing
// the catalog listing as a single-column result the same shape a SELECT
// produces (spec.md §6 routes SHOW/USE/DESC as the DML/DDL/"Other"
// statement category the wire front-end dispatches on).
func execShow(cat catalog.Catalog, s *ast.ShowStatement, currentDatabase string) (*Result, error) {
	switch s.Target {
	case "DATABASES":
		names := cat.ListDatabases()
		rows := make([][]ast.Value, len(names))
		for i, n := range names {
			rows[i] = []ast.Value{ast.StringValue(n)}
		}
		return &Result{Columns: []ColumnDescriptor{{Name: "database name", Type: "STRING"}}, Rows: rows}, nil

	case "TABLES":
		db := currentDatabase
		if s.Database != nil {
			db = *s.Database
		}
		names, ok := cat.ListTables(db)
		if !ok {
			return nil, errf("database %q does not exist", db)
		}
		rows := make([][]ast.Value, len(names))
		for i, n := range names {
			rows[i] = []ast.Value{ast.StringValue(n)}
		}
		return &Result{Columns: []ColumnDescriptor{{Name: "table", Type: "STRING"}}, Rows: rows}, nil

	default:
		return nil, errf("unsupported SHOW target %q", s.Target)
	}
}

// execUse validates the target database exists and reports it back via
// Result.Database; the connection-scoped default_database itself is owned
// by the wire seam, not the executor (spec.md §6).
func execUse(cat catalog.Catalog, s *ast.UseStatement) (*Result, error) {
	if _, ok := cat.GetDatabaseConfig(s.Database); !ok {
		return nil, errf("database %q does not exist", s.Database)
	}
	db := s.Database
	return &Result{Database: &db}, nil
}

// execDesc implements `DESC table_name`, one row per column with its name,
// type, nullability, default, and comment — matching the column set
// original_source/src/lib/executor/implements/other/desc_table.rs reports.
func execDesc(cat catalog.Catalog, s *ast.DescStatement, currentDatabase string) (*Result, error) {
	db := currentDatabase
	if s.Table.Database != nil {
		db = *s.Table.Database
	}
	tbl, ok := cat.GetTableConfig(db, s.Table.Table)
	if !ok {
		return nil, errf("table %q does not exist", s.Table.Table)
	}
	rows := make([][]ast.Value, len(tbl.Columns))
	for i, col := range tbl.Columns {
		nullable := "YES"
		if col.NotNull {
			nullable = "NO"
		}
		def := ""
		if col.Default != nil {
			def = fmt.Sprintf("%v", col.Default)
		}
		rows[i] = []ast.Value{
			ast.StringValue(col.Name),
			ast.StringValue(col.DataType.Name),
			ast.StringValue(nullable),
			ast.StringValue(def),
			ast.StringValue(col.Comment),
		}
	}
	columns := []ColumnDescriptor{
		{Name: "Field", Type: "STRING"},
		{Name: "Type", Type: "STRING"},
		{Name: "Null", Type: "STRING"},
		{Name: "Default", Type: "STRING"},
		{Name: "Comment", Type: "STRING"},
	}
	return &Result{Columns: columns, Rows: rows}, nil
}

func execCreateDatabase(cat catalog.Catalog, s *ast.CreateDatabaseStatement) (*Result, error) {
	if err := cat.CreateDatabase(s.Database); err != nil {
		if s.IfNotExists {
			return &Result{}, nil
		}
		return nil, errf("%v", err)
	}
	return &Result{}, nil
}

func execCreateTable(cat catalog.Catalog, s *ast.CreateTableStatement, currentDatabase string) (*Result, error) {
	db := currentDatabase
	if s.Table.Database != nil {
		db = *s.Table.Database
	}
	err := cat.CreateTable(db, &catalog.TableConfig{Name: s.Table, Columns: s.Columns})
	if err != nil {
		if s.IfNotExists {
			return &Result{}, nil
		}
		return nil, errf("%v", err)
	}
	return &Result{}, nil
}

func execDropDatabase(cat catalog.Catalog, s *ast.DropDatabaseStatement) (*Result, error) {
	if err := cat.DropDatabase(s.Database); err != nil {
		if s.IfExists {
			return &Result{}, nil
		}
		return nil, errf("%v", err)
	}
	return &Result{}, nil
}

func execDropTable(cat catalog.Catalog, s *ast.DropTableStatement, currentDatabase string) (*Result, error) {
	db := currentDatabase
	if s.Table.Database != nil {
		db = *s.Table.Database
	}
	if err := cat.DropTable(db, s.Table.Table); err != nil {
		if s.IfExists {
			return &Result{}, nil
		}
		return nil, errf("%v", err)
	}
	return &Result{}, nil
}
