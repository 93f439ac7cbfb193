package optimizer

import "github.com/rrdb/rrdb/ast"

// OptimizeSelect lowers a parsed SELECT into a SelectPlan: a FullScan From,
// an optional Filter, Group or GroupAll, Filter (HAVING), Order, and a
// trailing LimitOffset, each present only when the query needs it
// (spec.md §4.3, transformations 1-7).
func OptimizeSelect(q *ast.SelectQuery) *SelectPlan {
	plan := &SelectPlan{SelectItems: q.SelectItems}

	if q.From != nil {
		if table, ok := q.From.From.(*ast.FromTable); ok {
			plan.Items = append(plan.Items, &From{Table: table.Name, Alias: q.From.Alias, Scan: FullScan})
		}
	}

	for _, j := range q.Joins {
		plan.Items = append(plan.Items, &Join{Clause: j})
	}

	if q.Where != nil {
		plan.Items = append(plan.Items, &Filter{Expr: q.Where.Expr})
	}

	switch {
	case len(q.GroupBy) > 0:
		plan.Items = append(plan.Items, &Group{Items: q.GroupBy})
	case q.HasAggregate:
		plan.Items = append(plan.Items, &GroupAll{})
	}

	if q.Having != nil {
		plan.Items = append(plan.Items, &Filter{Expr: q.Having.Expr})
	}

	if len(q.OrderBy) > 0 {
		plan.Items = append(plan.Items, &Order{Items: q.OrderBy})
	}

	if q.Limit != nil || q.Offset != nil {
		plan.Items = append(plan.Items, &LimitOffset{Limit: q.Limit, Offset: q.Offset})
	}

	return plan
}

// OptimizeUpdate builds the From/Filter front half shared with SELECT,
// then carries the column assignments through untouched.
func OptimizeUpdate(u *ast.UpdateStatement) *UpdatePlan {
	plan := &UpdatePlan{Table: u.Table, Set: u.Items}
	plan.Items = append(plan.Items, &From{Table: u.Table, Alias: u.Alias, Scan: FullScan})
	if u.Where != nil {
		plan.Items = append(plan.Items, &Filter{Expr: u.Where.Expr})
	}
	return plan
}

// OptimizeDelete builds the From/Filter front half shared with SELECT.
func OptimizeDelete(d *ast.DeleteStatement) *DeletePlan {
	plan := &DeletePlan{Table: d.Table}
	plan.Items = append(plan.Items, &From{Table: d.Table, Alias: d.Alias, Scan: FullScan})
	if d.Where != nil {
		plan.Items = append(plan.Items, &Filter{Expr: d.Where.Expr})
	}
	return plan
}
