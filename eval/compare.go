package eval

import "github.com/rrdb/rrdb/ast"

// Compare orders two non-null values of the same comparability class,
// exported for the executor's Order stage (spec.md §4.5 step 5), which
// needs the same promotion/ordering rules reduceComparison uses internally.
func Compare(lhs, rhs ast.Value) (int, error) {
	return compareValues(lhs, rhs)
}

// IsNull reports whether v is the SQL NULL value.
func IsNull(v ast.Value) bool {
	return isNull(v)
}
