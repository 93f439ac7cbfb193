package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/wire"
)

// newOutput opens the process's stdout through go-colorable (so ANSI
// escapes work on Windows too) and reports whether color should actually
// be emitted — only when the caller wants color and stdout is a real TTY,
// following cmd/psqldef's term.IsTerminal gate on its password prompt,
// applied here to output instead of input.
func newOutput(wantColor bool) (io.Writer, bool) {
	out := colorable.NewColorableStdout()
	color := wantColor && isatty.IsTerminal(os.Stdout.Fd())
	return out, color
}

const (
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

func bold(s string, color bool) string {
	if !color {
		return s
	}
	return ansiBold + s + ansiReset
}

// formatValue renders one evaluated field the way a REPL table cell should
// look: SQL NULL rather than a Go zero value, unquoted otherwise.
func formatValue(v ast.Value) string {
	switch val := v.(type) {
	case ast.NullValue:
		return "NULL"
	case ast.StringValue:
		return string(val)
	case ast.BooleanValue:
		if bool(val) {
			return "t"
		}
		return "f"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// printFields prints a header row for a prepared statement's field
// descriptions.
func printFields(w io.Writer, fields []wire.FieldDescription, color bool) {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	fmt.Fprintln(w, bold(strings.Join(names, " | "), color))
}

// printRows renders a fetched batch as a simple pipe-delimited table,
// mirroring what a psql-style REPL shows for a SELECT result.
func printRows(w io.Writer, batch *wire.DataRowBatch) {
	for _, row := range batch.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
	fmt.Fprintf(w, "(%d row(s))\n", len(batch.Rows))
}
