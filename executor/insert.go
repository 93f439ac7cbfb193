package executor

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/eval"
)

// Insert implements spec.md §4.5's INSERT pipeline: every value row is
// checked for required (not-null, no default) columns, evaluated,
// defaulted, and type-checked against the column's declared type before
// being serialized into the table's heap. A failure on any row aborts the
// whole statement — nothing already inserted for this statement is rolled
// back automatically, since storage has no transaction log yet, so the
// caller must not have committed any row before the loop completes.
func Insert(cat catalog.Catalog, stmt *ast.InsertStatement, currentDatabase string) (*Result, error) {
	tbl, err := resolveTable(cat, stmt.Table, currentDatabase)
	if err != nil {
		return nil, err
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = make([]string, len(tbl.Columns))
		for i, c := range tbl.Columns {
			columns[i] = c.Name
		}
	}

	for _, col := range tbl.Columns {
		if col.NotNull && col.Default == nil && !containsColumn(columns, col.Name) {
			return nil, errf("column %q is NOT NULL and has no default, but was omitted", col.Name)
		}
	}

	rows := make([][]ast.Field, 0, len(stmt.Rows))
	for _, valueRow := range stmt.Rows {
		if len(valueRow) != len(columns) {
			return nil, errf("INSERT has %d values for %d columns", len(valueRow), len(columns))
		}
		fields := make([]ast.Field, len(tbl.Columns))
		for ci, col := range tbl.Columns {
			idx := indexOf(columns, col.Name)
			var value ast.Value
			switch {
			case idx < 0:
				v, err := defaultValue(col)
				if err != nil {
					return nil, err
				}
				value = v
			default:
				v, err := resolveInsertValue(valueRow[idx], col)
				if err != nil {
					return nil, err
				}
				value = v
			}
			if err := checkColumnType(col, value); err != nil {
				return nil, err
			}
			fields[ci] = ast.Field{Table: tbl.Name.Table, Column: col.Name, Data: value}
		}
		rows = append(rows, fields)
	}

	for _, fields := range rows {
		payload, err := encodeRow(tbl.Name.Table, fields)
		if err != nil {
			return nil, errf("encoding row for table %q: %v", tbl.Name.Table, err)
		}
		if _, err := tbl.Heap.Insert(payload); err != nil {
			return nil, errf("inserting into table %q: %v", tbl.Name.Table, err)
		}
	}

	return &Result{RowsAffected: len(rows)}, nil
}

func containsColumn(columns []string, name string) bool {
	return indexOf(columns, name) >= 0
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func defaultValue(col ast.Column) (ast.Value, error) {
	if col.Default != nil {
		return eval.Reduce(col.Default, &eval.Context{})
	}
	if col.NotNull {
		return nil, errf("column %q is NOT NULL and has no default", col.Name)
	}
	return ast.NullValue{}, nil
}

func resolveInsertValue(iv ast.InsertValue, col ast.Column) (ast.Value, error) {
	switch v := iv.(type) {
	case *ast.InsertDefault:
		return defaultValue(col)
	case *ast.InsertExpr:
		return eval.Reduce(v.Expr, &eval.Context{})
	default:
		return nil, errf("unsupported insert value shape %T", iv)
	}
}

func checkColumnType(col ast.Column, v ast.Value) error {
	if v.TypeCode() == ast.TypeCodeNull {
		if col.NotNull {
			return errf("column %q is NOT NULL but got NULL", col.Name)
		}
		return nil
	}
	want := dataTypeCode(col.DataType.Name)
	if want != 0 && v.TypeCode() != want {
		return errf("column %q expects type code %d, got %d", col.Name, want, v.TypeCode())
	}
	return nil
}

// dataTypeCode maps a declared DDL type name to the runtime TypeCode it
// must match, mirroring the coarse type system spec.md's evaluator uses
// (no DDL type-checking beyond this coarse classification is implemented).
func dataTypeCode(name string) int {
	switch name {
	case "INT", "INTEGER", "BIGINT", "SMALLINT":
		return ast.TypeCodeInteger
	case "FLOAT", "DOUBLE", "REAL", "NUMERIC", "DECIMAL":
		return ast.TypeCodeFloat
	case "BOOL", "BOOLEAN":
		return ast.TypeCodeBoolean
	case "TEXT", "VARCHAR", "CHAR", "STRING":
		return ast.TypeCodeString
	default:
		return 0
	}
}
