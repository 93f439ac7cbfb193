// Package optimizer turns a parsed ast query into an ordered physical
// plan: a flat list of plan items the executor walks in sequence
// (spec.md §4.3). There is no statistics-driven cost model; the
// transformation is deterministic and single-pass.
package optimizer

import "github.com/rrdb/rrdb/ast"

// ScanType names how a From plan item reads its table. Index scans are
// never produced today — the storage engine only supports full scans —
// but the type exists so a future index path has somewhere to plug in.
type ScanType int

const (
	FullScan ScanType = iota
	IndexScan
)

// PlanItem is the closed sum type over one step of a physical plan.
type PlanItem interface {
	planItemNode()
}

// From scans a table (or its subquery) in full, binding alias for later
// column resolution.
type From struct {
	Table ast.TableName
	Alias *string
	Scan  ScanType
}

func (*From) planItemNode() {}

// Filter keeps rows for which expr reduces to Boolean(true).
type Filter struct {
	Expr ast.Expression
}

func (*Filter) planItemNode() {}

// Group buckets rows by items, stacking the remaining fields into arrays.
type Group struct {
	Items []ast.GroupByItem
}

func (*Group) planItemNode() {}

// GroupAll stacks the entire input into a single output row; produced
// when the query has an aggregate but no GROUP BY clause.
type GroupAll struct{}

func (*GroupAll) planItemNode() {}

// Order sorts the accumulated rows by the given items, in order.
type Order struct {
	Items []ast.OrderByItem
}

func (*Order) planItemNode() {}

// LimitOffset trims the row set; always the last plan item when present.
type LimitOffset struct {
	Limit  *uint32
	Offset *uint32
}

func (*LimitOffset) planItemNode() {}

// Join is passed through unchanged; the executor rejects it as
// unimplemented (spec.md §4.3 transformation 7).
type Join struct {
	Clause ast.JoinClause
}

func (*Join) planItemNode() {}

// SelectPlan is the ordered plan for a SELECT statement, plus the
// materialization step (select items) the executor runs after walking
// Items.
type SelectPlan struct {
	Items       []PlanItem
	SelectItems []ast.SelectKind
}

// UpdatePlan is the From/Filter front half shared with SELECT, plus the
// per-row column assignments to apply.
type UpdatePlan struct {
	Items []PlanItem
	Table ast.TableName
	Set   []ast.UpdateItem
}

// DeletePlan is the From/Filter front half shared with SELECT.
type DeletePlan struct {
	Items []PlanItem
	Table ast.TableName
}
