package optimizer

import (
	"testing"

	"github.com/rrdb/rrdb/ast"
)

func TestOptimizeSelectFromFilterOrderLimit(t *testing.T) {
	limit := uint32(10)
	q := &ast.SelectQuery{
		SelectItems: []ast.SelectKind{&ast.WildCard{}},
		From:        &ast.FromClause{From: &ast.FromTable{Name: ast.TableName{Table: "users"}}},
		Where:       &ast.WhereClause{Expr: &ast.BooleanLiteral{Value: true}},
		OrderBy:     []ast.OrderByItem{{Expr: &ast.SelectColumn{Column: "id"}}},
		Limit:       &limit,
	}
	plan := OptimizeSelect(q)
	if len(plan.Items) != 4 {
		t.Fatalf("expected 4 plan items, got %d: %#v", len(plan.Items), plan.Items)
	}
	if _, ok := plan.Items[0].(*From); !ok {
		t.Fatalf("item 0 should be From, got %T", plan.Items[0])
	}
	if _, ok := plan.Items[1].(*Filter); !ok {
		t.Fatalf("item 1 should be Filter, got %T", plan.Items[1])
	}
	if _, ok := plan.Items[2].(*Order); !ok {
		t.Fatalf("item 2 should be Order, got %T", plan.Items[2])
	}
	if _, ok := plan.Items[3].(*LimitOffset); !ok {
		t.Fatalf("item 3 should be LimitOffset, got %T", plan.Items[3])
	}
}

func TestOptimizeSelectAggregateWithoutGroupByEmitsGroupAll(t *testing.T) {
	q := &ast.SelectQuery{
		SelectItems:  []ast.SelectKind{},
		HasAggregate: true,
	}
	plan := OptimizeSelect(q)
	if len(plan.Items) != 1 {
		t.Fatalf("expected 1 plan item, got %d", len(plan.Items))
	}
	if _, ok := plan.Items[0].(*GroupAll); !ok {
		t.Fatalf("expected GroupAll, got %T", plan.Items[0])
	}
}

func TestOptimizeSelectGroupByTakesPrecedenceOverGroupAll(t *testing.T) {
	q := &ast.SelectQuery{
		GroupBy:      []ast.GroupByItem{{Expr: &ast.SelectColumn{Column: "a"}}},
		HasAggregate: true,
	}
	plan := OptimizeSelect(q)
	if len(plan.Items) != 1 {
		t.Fatalf("expected 1 plan item, got %d", len(plan.Items))
	}
	if _, ok := plan.Items[0].(*Group); !ok {
		t.Fatalf("expected Group, got %T", plan.Items[0])
	}
}

func TestOptimizeSelectHavingAfterGroup(t *testing.T) {
	q := &ast.SelectQuery{
		GroupBy: []ast.GroupByItem{{Expr: &ast.SelectColumn{Column: "a"}}},
		Having:  &ast.HavingClause{Expr: &ast.BooleanLiteral{Value: true}},
	}
	plan := OptimizeSelect(q)
	if len(plan.Items) != 2 {
		t.Fatalf("expected 2 plan items, got %d", len(plan.Items))
	}
	if _, ok := plan.Items[0].(*Group); !ok {
		t.Fatalf("item 0 should be Group, got %T", plan.Items[0])
	}
	if _, ok := plan.Items[1].(*Filter); !ok {
		t.Fatalf("item 1 should be Filter (HAVING), got %T", plan.Items[1])
	}
}

func TestOptimizeSelectJoinsPassedThrough(t *testing.T) {
	q := &ast.SelectQuery{
		From: &ast.FromClause{From: &ast.FromTable{Name: ast.TableName{Table: "a"}}},
		Joins: []ast.JoinClause{
			{JoinType: ast.InnerJoin, Right: ast.TableName{Table: "b"}, On: &ast.BooleanLiteral{Value: true}},
		},
	}
	plan := OptimizeSelect(q)
	found := false
	for _, item := range plan.Items {
		if _, ok := item.(*Join); ok {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Join plan item, got %#v", plan.Items)
	}
}

func TestOptimizeSelectConstantQueryHasNoFromItem(t *testing.T) {
	q := &ast.SelectQuery{
		SelectItems: []ast.SelectKind{&ast.SelectItem{Expr: &ast.IntegerLiteral{Value: 1}}},
	}
	plan := OptimizeSelect(q)
	if len(plan.Items) != 0 {
		t.Fatalf("expected no plan items for a constant SELECT, got %#v", plan.Items)
	}
}

func TestOptimizeUpdateBuildsFromAndFilter(t *testing.T) {
	u := &ast.UpdateStatement{
		Table: ast.TableName{Table: "users"},
		Items: []ast.UpdateItem{{Column: "name", Value: &ast.StringLiteral{Value: "x"}}},
		Where: &ast.WhereClause{Expr: &ast.BooleanLiteral{Value: true}},
	}
	plan := OptimizeUpdate(u)
	if len(plan.Items) != 2 {
		t.Fatalf("expected 2 plan items, got %d", len(plan.Items))
	}
	if len(plan.Set) != 1 || plan.Set[0].Column != "name" {
		t.Fatalf("expected Set to carry update items through, got %#v", plan.Set)
	}
}

func TestOptimizeDeleteBuildsFromAndFilter(t *testing.T) {
	d := &ast.DeleteStatement{
		Table: ast.TableName{Table: "users"},
		Where: &ast.WhereClause{Expr: &ast.BooleanLiteral{Value: true}},
	}
	plan := OptimizeDelete(d)
	if len(plan.Items) != 2 {
		t.Fatalf("expected 2 plan items, got %d", len(plan.Items))
	}
}
