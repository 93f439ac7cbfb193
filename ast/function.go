package ast

import "strings"

// AggregateKind enumerates the built-in aggregate functions.
type AggregateKind int

const (
	Sum AggregateKind = iota
	Count
	Max
	Min
	Avg
	Every
	ArrayAgg
	StringAgg
)

var aggregateNames = map[string]AggregateKind{
	"SUM":       Sum,
	"COUNT":     Count,
	"MAX":       Max,
	"MIN":       Min,
	"AVG":       Avg,
	"EVERY":     Every,
	"ARRAYAGG":  ArrayAgg,
	"STRINGAGG": StringAgg,
}

// ConditionalKind enumerates the built-in conditional functions.
type ConditionalKind int

const (
	NullIf ConditionalKind = iota
	Coalesce
	Greatest
	Least
)

var conditionalNames = map[string]ConditionalKind{
	"NULLIF":   NullIf,
	"COALESCE": Coalesce,
	"GREATEST": Greatest,
	"LEAST":    Least,
}

// Function is the closed sum type `BuiltIn(Aggregate|Conditional) |
// UserDefined`.
type Function interface {
	// IsAggregate is true iff the function is a built-in aggregate.
	IsAggregate() bool
	functionNode()
}

// BuiltinAggregate is a built-in aggregate function (SUM, COUNT, ...).
type BuiltinAggregate struct {
	Kind AggregateKind
}

func (BuiltinAggregate) IsAggregate() bool { return true }
func (BuiltinAggregate) functionNode()     {}

// BuiltinConditional is a built-in conditional function (COALESCE, ...).
type BuiltinConditional struct {
	Kind ConditionalKind
}

func (BuiltinConditional) IsAggregate() bool { return false }
func (BuiltinConditional) functionNode()     {}

// UserDefined is any function name that does not match a built-in.
type UserDefined struct {
	Database *string
	Name     string
}

func (UserDefined) IsAggregate() bool { return false }
func (UserDefined) functionNode()     {}

// LookupFunction classifies name (case-insensitively) as a built-in
// aggregate, a built-in conditional, or (with database qualifying it,
// possibly nil) a user-defined function.
func LookupFunction(database *string, name string) Function {
	upper := strings.ToUpper(name)
	if kind, ok := aggregateNames[upper]; ok {
		return BuiltinAggregate{Kind: kind}
	}
	if kind, ok := conditionalNames[upper]; ok {
		return BuiltinConditional{Kind: kind}
	}
	return UserDefined{Database: database, Name: name}
}
