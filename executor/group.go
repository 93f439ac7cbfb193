package executor

import (
	"fmt"
	"sort"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/eval"
	"github.com/rrdb/rrdb/internal/util"
)

// keyIdentity names the (table, column) pair a GROUP BY item resolves to,
// when the item is a bare column reference — used to decide which of a
// row's fields are "non-key" and get stacked into arrays.
type keyIdentity struct {
	table  string
	column string
}

func columnIdentity(expr ast.Expression) (keyIdentity, bool) {
	col, ok := expr.(*ast.SelectColumn)
	if !ok {
		return keyIdentity{}, false
	}
	table := ""
	if col.Table != nil {
		table = *col.Table
	}
	return keyIdentity{table: table, column: col.Column}, true
}

func groupKeyName(expr ast.Expression) string {
	if col, ok := expr.(*ast.SelectColumn); ok {
		return col.Column
	}
	return "?column?"
}

// keyString builds a comparable bucket key from a row's GROUP BY values.
// Values are rendered with %#v, which is stable across Go's built-in
// value kinds and sufficient since bucket identity only needs equality,
// never ordering.
func keyString(values []ast.Value) string {
	s := ""
	for _, v := range values {
		s += fmt.Sprintf("%#v|", v)
	}
	return s
}

type bucket struct {
	keyValues  []ast.Value
	arrayCols  []keyIdentity
	arrayVals  []ast.ArrayValue
	firstIndex int
}

// groupRows implements Group: bucket rows by the projected key items,
// stacking every field that isn't itself a key column into a parallel
// Array(...) field, preserving column order from the first row seen.
func groupRows(rows []*ast.Row, items []ast.GroupByItem, binding *aliasBinding) ([]*ast.Row, error) {
	return foldBuckets(rows, items, binding, false)
}

// groupAllRows implements GroupAll: the entire input folds into one row,
// with every field stacked and no key fields at all.
func groupAllRows(rows []*ast.Row, binding *aliasBinding) ([]*ast.Row, error) {
	return foldBuckets(rows, nil, binding, true)
}

func foldBuckets(rows []*ast.Row, items []ast.GroupByItem, binding *aliasBinding, all bool) ([]*ast.Row, error) {
	order := []string{}
	buckets := map[string]*bucket{}

	keyIdentities := make([]keyIdentity, 0, len(items))
	for _, item := range items {
		if id, ok := columnIdentity(item.Expr); ok {
			keyIdentities = append(keyIdentities, id)
		}
	}
	isKeyField := func(f ast.Field) bool {
		for _, id := range keyIdentities {
			if id.column == f.Column && (id.table == "" || id.table == f.Table) {
				return true
			}
		}
		return false
	}

	for _, row := range rows {
		var keyValues []ast.Value
		if !all {
			ctx := &eval.Context{Row: row, TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap}
			keyValues = make([]ast.Value, len(items))
			for i, item := range items {
				v, err := eval.Reduce(item.Expr, ctx)
				if err != nil {
					return nil, err
				}
				keyValues[i] = v
			}
		}

		ks := keyString(keyValues)
		b, ok := buckets[ks]
		if !ok {
			var cols []keyIdentity
			for _, f := range row.Fields {
				if all || !isKeyField(f) {
					cols = append(cols, keyIdentity{table: f.Table, column: f.Column})
				}
			}
			b = &bucket{
				keyValues: keyValues,
				arrayCols: cols,
				arrayVals: make([]ast.ArrayValue, len(cols)),
			}
			buckets[ks] = b
			order = append(order, ks)
		}

		for i, col := range b.arrayCols {
			var data ast.Value = ast.NullValue{}
			for _, f := range row.Fields {
				if f.Column == col.column && f.Table == col.table {
					data = f.Data
					break
				}
			}
			b.arrayVals[i] = append(b.arrayVals[i], data)
		}
	}

	if all && len(order) == 0 {
		// GroupAll over zero input rows still folds to exactly one output
		// row with no fields (e.g. COUNT(*) on an empty table is 0, not
		// "no rows").
		buckets[""] = &bucket{}
		order = append(order, "")
	}

	out := make([]*ast.Row, 0, len(order))
	for _, ks := range order {
		b := buckets[ks]
		var fields []ast.Field
		if !all {
			for i, item := range items {
				fields = append(fields, ast.Field{Column: groupKeyName(item.Expr), Data: b.keyValues[i]})
			}
		}
		for i, col := range b.arrayCols {
			fields = append(fields, ast.Field{Table: col.table, Column: col.column, Data: b.arrayVals[i]})
		}
		out = append(out, &ast.Row{Fields: fields})
	}
	return out, nil
}

// orderKey is one row's precomputed ORDER BY projection, paired with its
// original row for the final sort.
type orderKey struct {
	row    *ast.Row
	values []ast.Value
}

// orderRows implements Order: precompute each row's ordering values
// concurrently, then run a single stable sort applying each item in turn
// with its own NULLS FIRST/LAST and ASC/DESC rule (spec.md §4.5 step 5).
func orderRows(rows []*ast.Row, items []ast.OrderByItem, binding *aliasBinding) ([]*ast.Row, error) {
	keys, err := util.ConcurrentMapFuncWithError(rows, -1, func(row *ast.Row) (orderKey, error) {
		ctx := &eval.Context{Row: row, TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap}
		values := make([]ast.Value, len(items))
		for j, item := range items {
			v, err := eval.Reduce(item.Expr, ctx)
			if err != nil {
				return orderKey{}, err
			}
			values[j] = v
		}
		return orderKey{row: row, values: values}, nil
	})
	if err != nil {
		return nil, err
	}

	var sortErr error
	sort.SliceStable(keys, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for k, item := range items {
			a, b := keys[i].values[k], keys[j].values[k]
			aNull, bNull := eval.IsNull(a), eval.IsNull(b)
			if aNull && bNull {
				continue
			}
			if aNull || bNull {
				if item.Nulls == ast.NullsFirst {
					return aNull
				}
				return bNull
			}
			c, err := eval.Compare(a, b)
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if item.Direction == ast.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]*ast.Row, len(keys))
	for i, k := range keys {
		out[i] = k.row
	}
	return out, nil
}
