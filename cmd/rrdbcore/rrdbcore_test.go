package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/wal"
	"github.com/rrdb/rrdb/wire"
)

func newTestEngine(t *testing.T) *wire.Engine {
	t.Helper()
	cat := catalog.NewMemoryCatalog()
	require.NoError(t, cat.CreateDatabase("app"))
	require.NoError(t, cat.CreateTable("app", &catalog.TableConfig{
		Name:    ast.TableName{Table: "widgets"},
		Columns: []ast.Column{{Name: "id", DataType: ast.DataType{Name: "INT"}, NotNull: true}},
	}))

	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)

	queue := wire.NewRequestQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go wire.RunLoop(ctx, cat, queue, mgr, 0)

	return wire.NewEngine(queue, "app")
}

func TestParseAllSplitsMultipleStatements(t *testing.T) {
	stmts, err := parseAll("SELECT id FROM widgets; SELECT id FROM widgets;", "app")
	require.NoError(t, err)
	assert.Len(t, stmts, 2)
}

func TestParseAllSyntaxErrorIsWrapped(t *testing.T) {
	_, err := parseAll("SELEC 1", "app")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rrdbcore: ")
}

func TestRunStatementPrintsInsertedRowsBackOut(t *testing.T) {
	engine := newTestEngine(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stmts, err := parseAll("INSERT INTO widgets (id) VALUES (1)", "app")
	require.NoError(t, err)
	require.NoError(t, runStatement(ctx, engine, stmts[0], &bytes.Buffer{}, false))

	var out bytes.Buffer
	stmts, err = parseAll("SELECT id FROM widgets", "app")
	require.NoError(t, err)
	require.NoError(t, runStatement(ctx, engine, stmts[0], &out, false))

	assert.Contains(t, out.String(), "id")
	assert.Contains(t, out.String(), "1")
	assert.Contains(t, out.String(), "(1 row(s))")
}

func TestFormatValueRendersNullAndBooleanSqlStyle(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(ast.NullValue{}))
	assert.Equal(t, "t", formatValue(ast.BooleanValue(true)))
	assert.Equal(t, "f", formatValue(ast.BooleanValue(false)))
	assert.Equal(t, "hi", formatValue(ast.StringValue("hi")))
}

func TestRunMetaCommandQuitStopsTheLoop(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	var out bytes.Buffer
	assert.False(t, runMetaCommand(ctx, engine, `\q`, &out, false))
}

func TestRunMetaCommandListDatabasesRunsShow(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()
	var out bytes.Buffer
	assert.True(t, runMetaCommand(ctx, engine, `\l`, &out, false))
	assert.Contains(t, out.String(), "app")
}
