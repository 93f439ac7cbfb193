package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kballard/go-shellquote"
	"golang.org/x/term"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/lexer"
	"github.com/rrdb/rrdb/optimizer"
	"github.com/rrdb/rrdb/parser"
	"github.com/rrdb/rrdb/rrdblog"
	"github.com/rrdb/rrdb/wire"
)

// runFile tokenizes, parses, and executes every statement in path in
// order, stopping at the first error — there is no partial-file recovery,
// matching spec.md §4.5's "the whole statement fails" semantics extended
// to a whole-file batch.
func runFile(ctx context.Context, engine *wire.Engine, path string, logger rrdblog.Logger) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("rrdbcore: reading %q: %w", path, err)
	}

	stmts, err := parseAll(string(content), engine.CurrentDatabase)
	if err != nil {
		return err
	}

	out, color := newOutput(false)
	for _, stmt := range stmts {
		if err := runStatement(ctx, engine, stmt, out, color); err != nil {
			return err
		}
	}
	logger.Printf("rrdbcore: ran %d statement(s) from %s\n", len(stmts), path)
	return nil
}

func parseAll(sql, defaultDatabase string) ([]ast.Statement, error) {
	toks, err := lexer.Tokenize(sql)
	if err != nil {
		return nil, fmt.Errorf("rrdbcore: %w", err)
	}
	stmts, err := parser.Parse(toks, &parser.Context{DefaultDatabase: &defaultDatabase})
	if err != nil {
		return nil, fmt.Errorf("rrdbcore: %w", err)
	}
	return stmts, nil
}

// runStatement prepares, fetches, and prints one statement's result.
func runStatement(ctx context.Context, engine *wire.Engine, stmt ast.Statement, out io.Writer, color bool) error {
	fields, err := engine.Prepare(ctx, stmt)
	if err != nil {
		return err
	}

	portal, err := engine.CreatePortal(ctx, stmt)
	if err != nil {
		return err
	}

	var batch wire.DataRowBatch
	if err := portal.Fetch(&batch); err != nil {
		return err
	}

	if len(fields) > 0 {
		printFields(out, fields, color)
		printRows(out, &batch)
	}
	return nil
}

// runREPL drives an interactive prompt off stdin until \q, EOF, or ctx
// cancellation, recognizing backslash meta-commands
// (tokenized with go-shellquote the way a shell would split a command
// line) alongside ordinary semicolon-terminated SQL and an EXPLAIN
// pretty-printer built on pp.
func runREPL(ctx context.Context, engine *wire.Engine, wantColor bool, logger rrdblog.Logger) {
	out, color := newOutput(wantColor)
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	scanner := bufio.NewScanner(os.Stdin)
	var pending strings.Builder

	prompt := func() {
		if interactive {
			fmt.Fprintf(out, "%s> ", bold(engine.CurrentDatabase, color))
		}
	}

	prompt()
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if pending.Len() == 0 && strings.HasPrefix(trimmed, "\\") {
			if !runMetaCommand(ctx, engine, trimmed, out, color) {
				return
			}
			prompt()
			continue
		}

		if pending.Len() == 0 && strings.HasPrefix(strings.ToUpper(trimmed), "EXPLAIN ") {
			explainStatement(trimmed[len("EXPLAIN "):], engine.CurrentDatabase, out, color)
			prompt()
			continue
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		if !strings.HasSuffix(trimmed, ";") {
			continue
		}

		stmts, err := parseAll(pending.String(), engine.CurrentDatabase)
		pending.Reset()
		if err != nil {
			fmt.Fprintln(out, err)
			prompt()
			continue
		}
		for _, stmt := range stmts {
			if err := runStatement(ctx, engine, stmt, out, color); err != nil {
				fmt.Fprintln(out, err)
			}
		}
		prompt()
	}
}

// runMetaCommand handles a single backslash command and reports whether
// the REPL should keep running.
func runMetaCommand(ctx context.Context, engine *wire.Engine, line string, out io.Writer, color bool) bool {
	fields, err := shellquote.Split(line)
	if err != nil || len(fields) == 0 {
		fmt.Fprintln(out, "rrdbcore: unrecognized meta-command")
		return true
	}

	switch fields[0] {
	case `\q`:
		return false
	case `\l`:
		runSQL(ctx, engine, "SHOW DATABASES", out, color)
	case `\d`:
		if len(fields) < 2 {
			fmt.Fprintln(out, "rrdbcore: \\d requires a table name")
			return true
		}
		runSQL(ctx, engine, "DESC "+fields[1], out, color)
	case `\dt`:
		runSQL(ctx, engine, "SHOW TABLES", out, color)
	default:
		fmt.Fprintf(out, "rrdbcore: unknown meta-command %q\n", fields[0])
	}
	return true
}

func runSQL(ctx context.Context, engine *wire.Engine, sql string, out io.Writer, color bool) {
	stmts, err := parseAll(sql, engine.CurrentDatabase)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	for _, stmt := range stmts {
		if err := runStatement(ctx, engine, stmt, out, color); err != nil {
			fmt.Fprintln(out, err)
		}
	}
}

// explainStatement pretty-prints the optimized physical plan for a SELECT
// without executing it, grounded on database/mysql/parser.go's
// pp.Println(root) debug dump.
func explainStatement(sql, defaultDatabase string, out io.Writer, color bool) {
	stmts, err := parseAll(sql, defaultDatabase)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	if len(stmts) != 1 {
		fmt.Fprintln(out, "rrdbcore: EXPLAIN takes exactly one statement")
		return
	}
	query, ok := stmts[0].(*ast.SelectQuery)
	if !ok {
		fmt.Fprintln(out, "rrdbcore: EXPLAIN only supports SELECT")
		return
	}
	plan := optimizer.OptimizeSelect(query)
	printer := pp.New()
	printer.SetOutput(out)
	printer.SetColoringEnabled(color)
	printer.Println(plan)
}
