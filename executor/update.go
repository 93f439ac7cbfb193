package executor

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/eval"
	"github.com/rrdb/rrdb/optimizer"
)

// Update implements spec.md §4.5's UPDATE pipeline: run the shared
// From/Filter front half, then for each surviving row compute the new
// field values and overwrite the row in place by column name.
func Update(cat catalog.Catalog, stmt *ast.UpdateStatement, currentDatabase string) (*Result, error) {
	plan := optimizer.OptimizeUpdate(stmt)
	rows, tbl, binding, err := runFromFilter(cat, plan.Items, currentDatabase)
	if err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, errf("UPDATE target table not found")
	}

	// Every row is evaluated and encoded before the first write, so a
	// per-row error leaves the table untouched.
	payloads := make([][]byte, len(rows))
	for ri, r := range rows {
		ctx := &eval.Context{Row: r.Row, TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap}
		newFields := make([]ast.Field, len(r.Row.Fields))
		copy(newFields, r.Row.Fields)
		for _, item := range stmt.Items {
			v, err := eval.Reduce(item.Value, ctx)
			if err != nil {
				return nil, err
			}
			found := false
			for i, f := range newFields {
				if f.Column == item.Column {
					newFields[i].Data = v
					found = true
					break
				}
			}
			if !found {
				return nil, errf("column %q not found in table %q", item.Column, tbl.Name.Table)
			}
		}
		payload, err := encodeRow(tbl.Name.Table, newFields)
		if err != nil {
			return nil, errf("encoding updated row for table %q: %v", tbl.Name.Table, err)
		}
		payloads[ri] = payload
	}

	for ri, r := range rows {
		if err := tbl.Heap.Update(r.Handle, payloads[ri]); err != nil {
			return nil, errf("updating table %q: %v", tbl.Name.Table, err)
		}
	}

	return &Result{RowsAffected: len(rows)}, nil
}
