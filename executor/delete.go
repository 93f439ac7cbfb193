package executor

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/optimizer"
)

// Delete implements spec.md §4.5's DELETE pipeline: the same From/Filter
// front half as UPDATE, then the underlying storage entry is removed for
// each surviving row.
func Delete(cat catalog.Catalog, stmt *ast.DeleteStatement, currentDatabase string) (*Result, error) {
	plan := optimizer.OptimizeDelete(stmt)
	rows, tbl, _, err := runFromFilter(cat, plan.Items, currentDatabase)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, errf("DELETE target table not found")
	}

	for _, r := range rows {
		if err := tbl.Heap.Delete(r.Handle); err != nil {
			return nil, errf("deleting from table %q: %v", tbl.Name.Table, err)
		}
	}

	return &Result{RowsAffected: len(rows)}, nil
}
