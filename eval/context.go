// Package eval implements the expression evaluator: reducing a parsed
// ast.Expression, against a row of already-typed data, down to a runtime
// ast.Value. This is the "reduce" stage of spec.md §4.4 — three-valued SQL
// logic, column resolution through join aliases, and aggregate folding over
// the stacked-array rows the executor's Group/GroupAll stages produce.
package eval

import (
	"fmt"

	"github.com/rrdb/rrdb/ast"
)

// Context carries everything Reduce needs besides the expression itself.
// A SELECT with no FROM clause reduces against an empty, non-nil Row; Row
// is nil only where the caller supplies no row at all (INSERT VALUES).
type Context struct {
	Row *ast.Row
	// TableAliasMap maps an alias to the table name it stands for.
	TableAliasMap map[string]string
	// ReverseAliasMap maps a table name back to the alias that refers to it.
	ReverseAliasMap map[string]string
	// TotalCount is the row count of the whole input before grouping, used
	// to answer COUNT(*) the way spec.md §4.4 describes.
	TotalCount int
}

// Error is a reduce-time failure: a type mismatch, an unsupported
// expression shape (Subquery), or a malformed aggregate call.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func typeErrorf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
