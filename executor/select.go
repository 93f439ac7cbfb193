package executor

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/eval"
	"github.com/rrdb/rrdb/internal/util"
	"github.com/rrdb/rrdb/optimizer"
)

// Select runs the optimized plan for a SELECT query: From/Join/Filter,
// then Group or GroupAll, then the post-aggregation Filter (HAVING), then
// Order, then LimitOffset, then materializes the select items (spec.md
// §4.5).
func Select(cat catalog.Catalog, query *ast.SelectQuery, currentDatabase string) (*Result, error) {
	plan := optimizer.OptimizeSelect(query)
	binding := newAliasBinding()

	var rows []*ast.Row
	var tbl *catalog.TableConfig
	totalCount := 0
	hasFrom := false

	for _, item := range plan.Items {
		switch it := item.(type) {
		case *optimizer.From:
			hasFrom = true
			t, err := resolveTable(cat, it.Table, currentDatabase)
			if err != nil {
				return nil, err
			}
			tbl = t
			binding.bind(t.Name.Table, it.Alias)
			scanned, err := fullScan(t)
			if err != nil {
				return nil, err
			}
			rows = make([]*ast.Row, len(scanned))
			for i, s := range scanned {
				rows[i] = s.Row
			}
			totalCount = len(rows)

		case *optimizer.Join:
			return nil, errf("joins are not implemented")

		case *optimizer.Filter:
			filtered, err := filterRows(rows, it.Expr, binding, totalCount)
			if err != nil {
				return nil, err
			}
			rows = filtered

		case *optimizer.Group:
			grouped, err := groupRows(rows, it.Items, binding)
			if err != nil {
				return nil, err
			}
			rows = grouped

		case *optimizer.GroupAll:
			grouped, err := groupAllRows(rows, binding)
			if err != nil {
				return nil, err
			}
			rows = grouped

		case *optimizer.Order:
			ordered, err := orderRows(rows, it.Items, binding)
			if err != nil {
				return nil, err
			}
			rows = ordered

		case *optimizer.LimitOffset:
			rows = applyLimitOffset(rows, it.Offset, it.Limit)

		default:
			return nil, errf("unsupported plan item in SELECT: %T", item)
		}
	}

	// A query with no FROM clause (original_source's no_from plan node) has
	// no plan item to populate rows: its select list is evaluated against a
	// single synthetic empty row, e.g. SELECT 1 or SELECT 3 + 5 AS foo.
	if !hasFrom {
		rows = []*ast.Row{{}}
	}

	return materialize(plan.SelectItems, rows, tbl, binding, totalCount)
}

func filterRows(rows []*ast.Row, expr ast.Expression, binding *aliasBinding, totalCount int) ([]*ast.Row, error) {
	type kept struct {
		row *ast.Row
		ok  bool
	}
	results, err := util.ConcurrentMapFuncWithError(rows, -1, func(row *ast.Row) (kept, error) {
		ctx := &eval.Context{Row: row, TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap, TotalCount: totalCount}
		v, err := eval.Reduce(expr, ctx)
		if err != nil {
			return kept{}, err
		}
		if eval.IsNull(v) {
			return kept{row: row, ok: false}, nil
		}
		b, ok := v.(ast.BooleanValue)
		if !ok {
			return kept{}, errf("WHERE/HAVING must evaluate to a boolean, got %T", v)
		}
		return kept{row: row, ok: bool(b)}, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]*ast.Row, 0, len(results))
	for _, k := range results {
		if k.ok {
			out = append(out, k.row)
		}
	}
	return out, nil
}

func applyLimitOffset(rows []*ast.Row, offset, limit *uint32) []*ast.Row {
	if offset != nil {
		o := int(*offset)
		if o >= len(rows) {
			return nil
		}
		rows = rows[o:]
	}
	if limit != nil {
		l := int(*limit)
		if l < len(rows) {
			rows = rows[:l]
		}
	}
	return rows
}

// expandSelectItems turns `*`/`alias.*` wildcards into the concrete column
// list known from the scanned table, leaving SelectItem entries untouched.
func expandSelectItems(items []ast.SelectKind, tbl *catalog.TableConfig, binding *aliasBinding) []ast.SelectKind {
	if tbl == nil {
		return items
	}
	var out []ast.SelectKind
	for _, item := range items {
		wc, ok := item.(*ast.WildCard)
		if !ok {
			out = append(out, item)
			continue
		}
		if wc.Alias != nil {
			resolved, ok := binding.tableAliasMap[*wc.Alias]
			if ok && resolved != tbl.Name.Table {
				continue
			}
		}
		for _, col := range tbl.Columns {
			colName := col.Name
			out = append(out, &ast.SelectItem{Expr: &ast.SelectColumn{Column: colName}})
		}
	}
	return out
}

func materialize(items []ast.SelectKind, rows []*ast.Row, tbl *catalog.TableConfig, binding *aliasBinding, totalCount int) (*Result, error) {
	items = expandSelectItems(items, tbl, binding)

	names := make([]string, len(items))
	for i, item := range items {
		si, ok := item.(*ast.SelectItem)
		if !ok {
			return nil, errf("unexpanded wildcard in select list")
		}
		switch {
		case si.Alias != nil:
			names[i] = *si.Alias
		default:
			if col, ok := si.Expr.(*ast.SelectColumn); ok {
				names[i] = col.Column
			} else {
				names[i] = "?column?"
			}
		}
	}

	type projected struct {
		vals  []ast.Value
		types []eval.Type
	}
	results, err := util.ConcurrentMapFuncWithError(rows, -1, func(row *ast.Row) (projected, error) {
		ctx := &eval.Context{Row: row, TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap, TotalCount: totalCount}
		vals := make([]ast.Value, len(items))
		types := make([]eval.Type, len(items))
		for ci, item := range items {
			si := item.(*ast.SelectItem)
			v, err := eval.Reduce(si.Expr, ctx)
			if err != nil {
				return projected{}, err
			}
			vals[ci] = v
			types[ci], _ = eval.ReduceType(si.Expr, ctx)
		}
		return projected{vals: vals, types: types}, nil
	})
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnDescriptor, len(items))
	for i := range columns {
		columns[i] = ColumnDescriptor{Name: names[i], Type: eval.TypeNull.String()}
	}
	out := make([][]ast.Value, len(results))
	for ri, p := range results {
		out[ri] = p.vals
		for ci := range items {
			if columns[ci].Type == eval.TypeNull.String() && p.types[ci] != eval.TypeNull {
				columns[ci].Type = p.types[ci].String()
			}
		}
	}

	return &Result{Columns: columns, Rows: out}, nil
}
