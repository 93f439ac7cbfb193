package executor

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/eval"
	"github.com/rrdb/rrdb/internal/util"
	"github.com/rrdb/rrdb/optimizer"
	"github.com/rrdb/rrdb/storage"
)

// scanRow pairs a decoded row with the storage handle it came from, so
// UPDATE/DELETE can write back to the exact slot a surviving row occupied.
type scanRow struct {
	Row    *ast.Row
	Handle storage.Handle
}

// aliasBinding is the table-alias bookkeeping a query's From item produces,
// consulted by every Reduce call across the rest of the plan.
type aliasBinding struct {
	tableAliasMap   map[string]string
	reverseAliasMap map[string]string
}

func newAliasBinding() *aliasBinding {
	return &aliasBinding{tableAliasMap: map[string]string{}, reverseAliasMap: map[string]string{}}
}

func (b *aliasBinding) bind(table string, alias *string) {
	if alias == nil {
		return
	}
	b.tableAliasMap[*alias] = table
	b.reverseAliasMap[table] = *alias
}

// resolveTable looks up a table by its optional database qualifier,
// defaulting to currentDatabase.
func resolveTable(cat catalog.Catalog, name ast.TableName, currentDatabase string) (*catalog.TableConfig, error) {
	db := currentDatabase
	if name.Database != nil {
		db = *name.Database
	}
	tbl, ok := cat.GetTableConfig(db, name.Table)
	if !ok {
		return nil, errf("table %q not found in database %q", name.Table, db)
	}
	return tbl, nil
}

func fullScan(tbl *catalog.TableConfig) ([]scanRow, error) {
	handles, payloads, err := tbl.Heap.FullScan()
	if err != nil {
		return nil, errf("scanning table %q: %v", tbl.Name.Table, err)
	}
	rows := make([]scanRow, len(payloads))
	for i, payload := range payloads {
		row, err := decodeRow(payload)
		if err != nil {
			return nil, errf("decoding row in table %q: %v", tbl.Name.Table, err)
		}
		rows[i] = scanRow{Row: row, Handle: handles[i]}
	}
	return rows, nil
}

// runFromFilter walks the From/Join/Filter front half that UPDATE and
// DELETE share (spec.md §4.5); SELECT walks its own plan items in
// select.go. It returns the surviving rows
// alongside the table they came from and the alias bindings later stages
// need for column resolution.
func runFromFilter(cat catalog.Catalog, items []optimizer.PlanItem, currentDatabase string) ([]scanRow, *catalog.TableConfig, *aliasBinding, error) {
	binding := newAliasBinding()
	var rows []scanRow
	var tbl *catalog.TableConfig

	for _, item := range items {
		switch it := item.(type) {
		case *optimizer.From:
			t, err := resolveTable(cat, it.Table, currentDatabase)
			if err != nil {
				return nil, nil, nil, err
			}
			tbl = t
			binding.bind(t.Name.Table, it.Alias)
			scanned, err := fullScan(t)
			if err != nil {
				return nil, nil, nil, err
			}
			rows = scanned

		case *optimizer.Join:
			return nil, nil, nil, errf("joins are not implemented")

		case *optimizer.Filter:
			ctx := &eval.Context{TableAliasMap: binding.tableAliasMap, ReverseAliasMap: binding.reverseAliasMap}
			kept, err := util.ConcurrentMapFuncWithError(rows, -1, func(r scanRow) (*scanRow, error) {
				rowCtx := *ctx
				rowCtx.Row = r.Row
				v, err := eval.Reduce(it.Expr, &rowCtx)
				if err != nil {
					return nil, err
				}
				b, ok := v.(ast.BooleanValue)
				if !ok {
					if eval.IsNull(v) {
						return nil, nil
					}
					return nil, errf("WHERE/HAVING must evaluate to a boolean, got %T", v)
				}
				if !bool(b) {
					return nil, nil
				}
				return &r, nil
			})
			if err != nil {
				return nil, nil, nil, err
			}
			rows = rows[:0]
			for _, r := range kept {
				if r != nil {
					rows = append(rows, *r)
				}
			}

		default:
			return nil, nil, nil, errf("unsupported plan item in From/Filter stage: %T", item)
		}
	}

	return rows, tbl, binding, nil
}
