package parser

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/token"
)

// ParseSelectQuery parses a full SELECT statement (without a trailing
// semicolon).
func ParseSelectQuery(q *tokenQueue, ctx *Context) (*ast.SelectQuery, error) {
	if q.peek().Kind != token.SELECT {
		return nil, errf(errExpectedToken, "expected SELECT, got %s", q.peek())
	}
	q.pop()

	items, err := parseSelectItems(q, ctx)
	if err != nil {
		return nil, err
	}

	sq := &ast.SelectQuery{SelectItems: items}

	if q.peek().Kind == token.FROM {
		q.pop()
		from, err := parseFromClause(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.From = from
	}

	for isJoinStart(q) {
		j, err := parseJoinClause(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.Joins = append(sq.Joins, *j)
	}

	if q.peek().Kind == token.WHERE {
		q.pop()
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.Where = &ast.WhereClause{Expr: expr}
	}

	if q.peek().Kind == token.GROUP {
		q.pop()
		if q.peek().Kind != token.BY {
			return nil, errf(errExpectedToken, "expected BY after GROUP, got %s", q.peek())
		}
		q.pop()
		items, err := parseGroupByItems(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.GroupBy = items
	}

	if q.peek().Kind == token.HAVING {
		if sq.GroupBy == nil {
			return nil, errf(errHavingNoGroupBy, "HAVING requires a GROUP BY clause")
		}
		q.pop()
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.Having = &ast.HavingClause{Expr: expr}
	}

	if q.peek().Kind == token.ORDER {
		q.pop()
		if q.peek().Kind != token.BY {
			return nil, errf(errExpectedToken, "expected BY after ORDER, got %s", q.peek())
		}
		q.pop()
		items, err := parseOrderByItems(q, ctx)
		if err != nil {
			return nil, err
		}
		sq.OrderBy = items
	}

	// LIMIT and OFFSET may appear in either order.
	for i := 0; i < 2; i++ {
		switch q.peek().Kind {
		case token.LIMIT:
			q.pop()
			n, err := parseUint32Literal(q)
			if err != nil {
				return nil, err
			}
			sq.Limit = &n
		case token.OFFSET:
			q.pop()
			n, err := parseUint32Literal(q)
			if err != nil {
				return nil, err
			}
			sq.Offset = &n
		}
	}

	sq.HasAggregate = computeHasAggregate(sq)
	if sq.HasAggregate {
		if err := validateAggregateQuery(sq); err != nil {
			return nil, err
		}
	}

	return sq, nil
}

func parseUint32Literal(q *tokenQueue) (uint32, error) {
	t := q.pop()
	if t.Kind != token.Integer || t.Int < 0 {
		return 0, errf(errExpectedToken, "expected a non-negative integer literal, got %s", t)
	}
	return uint32(t.Int), nil
}

func parseSelectItems(q *tokenQueue, ctx *Context) ([]ast.SelectKind, error) {
	var items []ast.SelectKind
	for {
		item, err := parseSelectItem(q, ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	return items, nil
}

func parseSelectItem(q *tokenQueue, ctx *Context) (ast.SelectKind, error) {
	if q.peek().Kind == token.Star {
		q.pop()
		return &ast.WildCard{}, nil
	}
	// alias.* lookahead
	if q.peek().Kind == token.Identifier && q.peekAt(1).Kind == token.Dot && q.peekAt(2).Kind == token.Star {
		alias := q.pop().Text
		q.pop() // dot
		q.pop() // star
		return &ast.WildCard{Alias: &alias}, nil
	}

	expr, err := ParseExpression(q, ctx)
	if err != nil {
		return nil, err
	}
	item := &ast.SelectItem{Expr: expr}
	if q.peek().Kind == token.AS {
		q.pop()
		alias := q.pop()
		if alias.Kind != token.Identifier {
			return nil, errf(errExpectedToken, "expected identifier after AS, got %s", alias)
		}
		item.Alias = &alias.Text
	} else if q.peek().Kind == token.Identifier {
		alias := q.pop()
		item.Alias = &alias.Text
	}
	return item, nil
}

func parseTableName(q *tokenQueue, ctx *Context) (ast.TableName, error) {
	first := q.pop()
	if first.Kind != token.Identifier {
		return ast.TableName{}, errf(errExpectedToken, "expected table name, got %s", first)
	}
	if q.peek().Kind == token.Dot {
		q.pop()
		second := q.pop()
		if second.Kind != token.Identifier {
			return ast.TableName{}, errf(errExpectedToken, "expected table name after '.', got %s", second)
		}
		return ast.TableName{Database: &first.Text, Table: second.Text}, nil
	}
	if ctx.DefaultDatabase != nil {
		return ast.TableName{Database: ctx.DefaultDatabase, Table: first.Text}, nil
	}
	return ast.TableName{Table: first.Text}, nil
}

func parseOptionalAlias(q *tokenQueue) *string {
	if q.peek().Kind == token.AS {
		q.pop()
		alias := q.pop()
		return &alias.Text
	}
	if q.peek().Kind == token.Identifier {
		alias := q.pop()
		return &alias.Text
	}
	return nil
}

func parseFromClause(q *tokenQueue, ctx *Context) (*ast.FromClause, error) {
	if q.peek().Kind == token.LParen {
		q.pop()
		inner := *ctx
		inner.InParentheses = true
		sub, err := ParseSelectQuery(q, &inner)
		if err != nil {
			return nil, err
		}
		if q.peek().Kind != token.RParen {
			return nil, errf(errExpectedToken, "expected ')' to close FROM subquery, got %s", q.peek())
		}
		q.pop()
		return &ast.FromClause{From: &ast.FromSubquery{Query: sub}, Alias: parseOptionalAlias(q)}, nil
	}
	name, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}
	return &ast.FromClause{From: &ast.FromTable{Name: name}, Alias: parseOptionalAlias(q)}, nil
}

func isJoinStart(q *tokenQueue) bool {
	switch q.peek().Kind {
	case token.JOIN, token.INNER, token.LEFT, token.RIGHT, token.FULL:
		return true
	}
	return false
}

func parseJoinClause(q *tokenQueue, ctx *Context) (*ast.JoinClause, error) {
	var joinType ast.JoinType
	switch q.peek().Kind {
	case token.JOIN:
		q.pop()
		joinType = ast.InnerJoin
	case token.INNER:
		q.pop()
		if q.peek().Kind != token.JOIN {
			return nil, errf(errExpectedToken, "expected JOIN after INNER, got %s", q.peek())
		}
		q.pop()
		joinType = ast.InnerJoin
	case token.LEFT:
		q.pop()
		if q.peek().Kind == token.OUTER {
			q.pop()
		}
		if q.peek().Kind != token.JOIN {
			return nil, errf(errExpectedToken, "expected JOIN after LEFT [OUTER], got %s", q.peek())
		}
		q.pop()
		joinType = ast.LeftOuterJoin
	case token.RIGHT:
		q.pop()
		if q.peek().Kind == token.OUTER {
			q.pop()
		}
		if q.peek().Kind != token.JOIN {
			return nil, errf(errExpectedToken, "expected JOIN after RIGHT [OUTER], got %s", q.peek())
		}
		q.pop()
		joinType = ast.RightOuterJoin
	case token.FULL:
		q.pop()
		if q.peek().Kind == token.OUTER {
			q.pop()
		}
		if q.peek().Kind != token.JOIN {
			return nil, errf(errExpectedToken, "expected JOIN after FULL [OUTER], got %s", q.peek())
		}
		q.pop()
		joinType = ast.FullOuterJoin
	default:
		return nil, errf(errUnexpectedToken, "expected a JOIN clause, got %s", q.peek())
	}

	right, err := parseTableName(q, ctx)
	if err != nil {
		return nil, err
	}
	alias := parseOptionalAlias(q)

	jc := &ast.JoinClause{JoinType: joinType, Right: right, RightAlias: alias}
	if q.peek().Kind == token.ON {
		q.pop()
		on, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		jc.On = on
	}
	return jc, nil
}

func parseGroupByItems(q *tokenQueue, ctx *Context) ([]ast.GroupByItem, error) {
	var items []ast.GroupByItem
	for {
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, ast.GroupByItem{Expr: expr})
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	return items, nil
}

func parseOrderByItems(q *tokenQueue, ctx *Context) ([]ast.OrderByItem, error) {
	var items []ast.OrderByItem
	for {
		expr, err := ParseExpression(q, ctx)
		if err != nil {
			return nil, err
		}
		item := ast.OrderByItem{Expr: expr, Direction: ast.Asc}
		switch q.peek().Kind {
		case token.ASC:
			q.pop()
		case token.DESC:
			q.pop()
			item.Direction = ast.Desc
		}
		// Default NULLS ordering follows the ASC/DESC direction: NULLS FIRST
		// for ASC, NULLS LAST for DESC, per spec.md §9's open-question decision.
		if item.Direction == ast.Desc {
			item.Nulls = ast.NullsLast
		} else {
			item.Nulls = ast.NullsFirst
		}
		if q.peek().Kind == token.NULLS {
			q.pop()
			switch q.peek().Kind {
			case token.FIRST:
				q.pop()
				item.Nulls = ast.NullsFirst
			case token.LAST:
				q.pop()
				item.Nulls = ast.NullsLast
			default:
				return nil, errf(errExpectedToken, "expected FIRST or LAST after NULLS, got %s", q.peek())
			}
		}
		items = append(items, item)
		if q.peek().Kind == token.Comma {
			q.pop()
			continue
		}
		break
	}
	return items, nil
}

// computeHasAggregate reports whether any select item contains an aggregate
// function call.
func computeHasAggregate(sq *ast.SelectQuery) bool {
	for _, item := range sq.SelectItems {
		si, ok := item.(*ast.SelectItem)
		if !ok {
			continue
		}
		if exprHasAggregate(si.Expr) {
			return true
		}
	}
	return false
}

func exprHasAggregate(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.FunctionCall:
		if v.Function.IsAggregate() {
			return true
		}
		for _, a := range v.Arguments {
			if exprHasAggregate(a) {
				return true
			}
		}
		return false
	case *ast.Unary:
		return exprHasAggregate(v.Operand)
	case *ast.Binary:
		return exprHasAggregate(v.LHS) || exprHasAggregate(v.RHS)
	case *ast.Between:
		return exprHasAggregate(v.A) || exprHasAggregate(v.X) || exprHasAggregate(v.Y)
	case *ast.NotBetween:
		return exprHasAggregate(v.A) || exprHasAggregate(v.X) || exprHasAggregate(v.Y)
	case *ast.Parentheses:
		return exprHasAggregate(v.Inner)
	case *ast.List:
		for _, e2 := range v.Values {
			if exprHasAggregate(e2) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// collectColumns gathers every SelectColumn referenced inside e, stopping
// descent at aggregate function calls (those columns are "inside an
// aggregate", collected separately by collectAggregateColumns).
func collectColumns(e ast.Expression, into *[]*ast.SelectColumn) {
	switch v := e.(type) {
	case *ast.SelectColumn:
		*into = append(*into, v)
	case *ast.FunctionCall:
		if v.Function.IsAggregate() {
			return
		}
		for _, a := range v.Arguments {
			collectColumns(a, into)
		}
	case *ast.Unary:
		collectColumns(v.Operand, into)
	case *ast.Binary:
		collectColumns(v.LHS, into)
		collectColumns(v.RHS, into)
	case *ast.Between:
		collectColumns(v.A, into)
		collectColumns(v.X, into)
		collectColumns(v.Y, into)
	case *ast.NotBetween:
		collectColumns(v.A, into)
		collectColumns(v.X, into)
		collectColumns(v.Y, into)
	case *ast.Parentheses:
		collectColumns(v.Inner, into)
	case *ast.List:
		for _, e2 := range v.Values {
			collectColumns(e2, into)
		}
	}
}

func collectAggregateColumns(e ast.Expression, into *[]*ast.SelectColumn) {
	switch v := e.(type) {
	case *ast.FunctionCall:
		if v.Function.IsAggregate() {
			for _, a := range v.Arguments {
				collectColumns(a, into)
			}
			return
		}
		for _, a := range v.Arguments {
			collectAggregateColumns(a, into)
		}
	case *ast.Unary:
		collectAggregateColumns(v.Operand, into)
	case *ast.Binary:
		collectAggregateColumns(v.LHS, into)
		collectAggregateColumns(v.RHS, into)
	case *ast.Between:
		collectAggregateColumns(v.A, into)
		collectAggregateColumns(v.X, into)
		collectAggregateColumns(v.Y, into)
	case *ast.NotBetween:
		collectAggregateColumns(v.A, into)
		collectAggregateColumns(v.X, into)
		collectAggregateColumns(v.Y, into)
	case *ast.Parentheses:
		collectAggregateColumns(v.Inner, into)
	case *ast.List:
		for _, e2 := range v.Values {
			collectAggregateColumns(e2, into)
		}
	}
}

func columnKey(c *ast.SelectColumn) string {
	if c.Table == nil {
		return c.Column
	}
	return *c.Table + "." + c.Column
}

func groupByKeys(sq *ast.SelectQuery) map[string]bool {
	keys := map[string]bool{}
	for _, g := range sq.GroupBy {
		if sc, ok := g.Expr.(*ast.SelectColumn); ok {
			keys[columnKey(sc)] = true
		}
	}
	return keys
}

// validateAggregateQuery enforces spec.md §4.2's GROUP BY validation rules
// E0331 and E0332 once has_aggregate is known true; E0315 (HAVING without
// GROUP BY) is raised earlier, where ParseSelectQuery meets HAVING.
func validateAggregateQuery(sq *ast.SelectQuery) error {
	groupKeys := groupByKeys(sq)

	for _, item := range sq.SelectItems {
		si, ok := item.(*ast.SelectItem)
		if !ok {
			continue
		}
		var nonAggCols []*ast.SelectColumn
		collectColumns(si.Expr, &nonAggCols)
		for _, c := range nonAggCols {
			if !groupKeys[columnKey(c)] {
				return errf(errGroupByMissing, "column %q must appear in GROUP BY or be used in an aggregate function", columnKey(c))
			}
		}

		var aggCols []*ast.SelectColumn
		collectAggregateColumns(si.Expr, &aggCols)
		for _, c := range aggCols {
			if groupKeys[columnKey(c)] {
				return errf(errAggregateInGroup, "column %q is both aggregated and grouped", columnKey(c))
			}
		}
	}
	return nil
}
