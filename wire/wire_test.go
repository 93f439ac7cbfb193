package wire

import (
	"context"
	"testing"
	"time"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/lexer"
	"github.com/rrdb/rrdb/parser"
	"github.com/rrdb/rrdb/wal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseOne(t *testing.T, sql string) ast.Statement {
	t.Helper()
	toks, err := lexer.Tokenize(sql)
	require.NoError(t, err)
	stmts, err := parser.Parse(toks, &parser.Context{})
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0]
}

func newRunningLoop(t *testing.T) (catalog.Catalog, RequestQueue) {
	t.Helper()
	cat := catalog.NewMemoryCatalog()
	require.NoError(t, cat.CreateDatabase("app"))
	require.NoError(t, cat.CreateTable("app", &catalog.TableConfig{
		Name:    ast.TableName{Table: "widgets"},
		Columns: []ast.Column{{Name: "id", DataType: ast.DataType{Name: "INT"}, NotNull: true}},
	}))

	queue := NewRequestQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go RunLoop(ctx, cat, queue, nil, 0)
	return cat, queue
}

func TestEnginePrepareReturnsFieldDescriptions(t *testing.T) {
	_, queue := newRunningLoop(t)
	e := NewEngine(queue, "app")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	stmt := mustParseOne(t, "SELECT id FROM widgets")
	fields, err := e.Prepare(ctx, stmt)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "id", fields[0].Name)
}

func TestEngineCreatePortalFetchesRows(t *testing.T) {
	_, queue := newRunningLoop(t)
	e := NewEngine(queue, "app")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := e.Prepare(ctx, mustParseOne(t, "INSERT INTO widgets (id) VALUES (1)"))
	require.NoError(t, err)

	portal, err := e.CreatePortal(ctx, mustParseOne(t, "SELECT id FROM widgets"))
	require.NoError(t, err)

	var batch DataRowBatch
	require.NoError(t, portal.Fetch(&batch))
	require.Len(t, batch.Rows, 1)
	assert.Equal(t, ast.IntegerValue(1), batch.Rows[0][0])
}

func TestEngineUseUpdatesCurrentDatabase(t *testing.T) {
	cat, queue := newRunningLoop(t)
	require.NoError(t, cat.CreateDatabase("other"))
	e := NewEngine(queue, "app")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := e.Prepare(ctx, mustParseOne(t, "USE other"))
	require.NoError(t, err)
	assert.Equal(t, "other", e.CurrentDatabase)
}

func TestEnginePrepareMapsSyntaxFailureToErrorResponse(t *testing.T) {
	_, queue := newRunningLoop(t)
	e := NewEngine(queue, "app")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := e.Prepare(ctx, mustParseOne(t, "SELECT id FROM missing_table"))
	require.Error(t, err)
	var resp *ErrorResponse
	require.ErrorAs(t, err, &resp)
	assert.Equal(t, SqlStateSyntaxError, resp.Code)
}

func TestOidForTypeNameDefaultsToUnspecified(t *testing.T) {
	assert.Equal(t, Int8, OidForTypeName("INTEGER"))
	assert.Equal(t, Unspecified, OidForTypeName("SOMETHING_UNKNOWN"))
}

func TestRunLoopAppendsToWALWhenManagerProvided(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	require.NoError(t, cat.CreateDatabase("app"))
	require.NoError(t, cat.CreateTable("app", &catalog.TableConfig{
		Name:    ast.TableName{Table: "widgets"},
		Columns: []ast.Column{{Name: "id", DataType: ast.DataType{Name: "INT"}, NotNull: true}},
	}))

	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)

	queue := NewRequestQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go RunLoop(ctx, cat, queue, mgr, 0)

	e := NewEngine(queue, "app")
	reqCtx, reqCancel := context.WithTimeout(context.Background(), time.Second)
	defer reqCancel()
	_, err = e.Prepare(reqCtx, mustParseOne(t, "INSERT INTO widgets (id) VALUES (1)"))
	require.NoError(t, err)

	require.Len(t, mgr.Buffered(), 1)
	assert.Equal(t, wal.Insert, mgr.Buffered()[0].Kind)
}

func TestRunLoopChecksPointsOnTheConfiguredInterval(t *testing.T) {
	cat := catalog.NewMemoryCatalog()
	require.NoError(t, cat.CreateDatabase("app"))
	require.NoError(t, cat.CreateTable("app", &catalog.TableConfig{
		Name:    ast.TableName{Table: "widgets"},
		Columns: []ast.Column{{Name: "id", DataType: ast.DataType{Name: "INT"}, NotNull: true}},
	}))

	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)
	startSequence := mgr.Sequence()

	queue := NewRequestQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go RunLoop(ctx, cat, queue, mgr, 10*time.Millisecond)

	e := NewEngine(queue, "app")
	reqCtx, reqCancel := context.WithTimeout(context.Background(), time.Second)
	defer reqCancel()
	_, err = e.Prepare(reqCtx, mustParseOne(t, "INSERT INTO widgets (id) VALUES (1)"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return mgr.Sequence() > startSequence && len(mgr.Buffered()) == 0
	}, time.Second, 5*time.Millisecond)
}
