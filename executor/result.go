// Package executor runs an optimized plan against a catalog: the
// SELECT/INSERT/UPDATE/DELETE pipelines of spec.md §4.5, fanning out
// per-row work concurrently within each stage the way the teacher's
// database/concurrent.go fans out per-table work.
package executor

import (
	"fmt"

	"github.com/rrdb/rrdb/ast"
)

// ColumnDescriptor names one output column of a SELECT result: its
// resolved name (explicit alias > column name > "?column?") and the
// evaluator type derived for it via eval.ReduceType.
type ColumnDescriptor struct {
	Name string
	Type string
}

// Result is what executing one statement produces: either a SELECT row set,
// an affected-row count for INSERT/UPDATE/DELETE, or (for USE) the database
// the caller's connection state should switch to.
type Result struct {
	Columns      []ColumnDescriptor
	Rows         [][]ast.Value
	RowsAffected int
	Database     *string
}

// Error is an executor-time failure: a type mismatch, a missing table, an
// unsupported plan shape (e.g. a Join). Every per-row evaluation, type or
// encoding error aborts the whole statement per spec.md §4.5's failure
// semantics, and is raised before the statement writes its first row, so
// no partial writes land in storage.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func errf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
