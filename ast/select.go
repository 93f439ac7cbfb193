package ast

// TableName is a possibly database-qualified table reference.
type TableName struct {
	Database *string
	Table    string
}

// SelectKind is either a projected expression or a wildcard (`SelectItem`
// or `WildCard` in the spec).
type SelectKind interface {
	selectKindNode()
}

// SelectItem projects a single expression, with an optional alias.
type SelectItem struct {
	Expr  Expression
	Alias *string
}

func (*SelectItem) selectKindNode() {}

// WildCard projects `*` or `alias.*`.
type WildCard struct {
	Alias *string
}

func (*WildCard) selectKindNode() {}

// FromSource is either a bare table or a derived subquery.
type FromSource interface {
	fromSourceNode()
}

type FromTable struct {
	Name TableName
}

func (*FromTable) fromSourceNode() {}

type FromSubquery struct {
	Query *SelectQuery
}

func (*FromSubquery) fromSourceNode() {}

// FromClause names the query's row source, with an optional alias.
type FromClause struct {
	From  FromSource
	Alias *string
}

// JoinType enumerates the supported join kinds.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
)

// JoinClause describes a single JOIN against the current row source.
type JoinClause struct {
	JoinType   JoinType
	Right      TableName
	RightAlias *string
	On         Expression
}

// WhereClause wraps the filter predicate.
type WhereClause struct {
	Expr Expression
}

// GroupByItem is one GROUP BY key expression.
type GroupByItem struct {
	Expr Expression
}

// HavingClause wraps the post-aggregation filter predicate.
type HavingClause struct {
	Expr Expression
}

// OrderDirection is ASC or DESC.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// NullsOrder is NULLS FIRST or NULLS LAST.
type NullsOrder int

const (
	NullsFirst NullsOrder = iota
	NullsLast
)

// OrderByItem is one ORDER BY key.
type OrderByItem struct {
	Expr      Expression
	Direction OrderDirection
	Nulls     NullsOrder
}

// SelectQuery is the full parsed shape of a SELECT statement.
type SelectQuery struct {
	SelectItems  []SelectKind
	From         *FromClause
	Joins        []JoinClause
	Where        *WhereClause
	GroupBy      []GroupByItem
	Having       *HavingClause
	OrderBy      []OrderByItem
	Limit        *uint32
	Offset       *uint32
	HasAggregate bool
}
