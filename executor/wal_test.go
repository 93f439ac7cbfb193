package executor

import (
	"testing"

	"github.com/rrdb/rrdb/wal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteLoggedAppendsWALEntryForInsert(t *testing.T) {
	cat := newTestCatalog(t)
	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)

	_, err = ExecuteLogged(cat, mustParseOne(t, "INSERT INTO employees (id, dept, salary) VALUES (1, 'eng', 100)"), "app", mgr)
	require.NoError(t, err)

	buffered := mgr.Buffered()
	require.Len(t, buffered, 1)
	assert.Equal(t, wal.Insert, buffered[0].Kind)
}

func TestExecuteLoggedSkipsWALEntryForSelect(t *testing.T) {
	cat := newTestCatalog(t)
	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)

	_, err = ExecuteLogged(cat, mustParseOne(t, "SELECT * FROM employees"), "app", mgr)
	require.NoError(t, err)
	assert.Empty(t, mgr.Buffered())
}

func TestExecuteLoggedSkipsWALOnFailedStatement(t *testing.T) {
	cat := newTestCatalog(t)
	mgr, err := wal.Open(t.TempDir(), "wal", 8192, wal.GobCodec{})
	require.NoError(t, err)

	_, err = ExecuteLogged(cat, mustParseOne(t, "INSERT INTO employees (id, dept) VALUES (1, 'eng')"), "app", mgr)
	assert.Error(t, err)
	assert.Empty(t, mgr.Buffered())
}

func TestExecuteLoggedWithNilManagerIsANoop(t *testing.T) {
	cat := newTestCatalog(t)
	_, err := ExecuteLogged(cat, mustParseOne(t, "INSERT INTO employees (id, dept, salary) VALUES (1, 'eng', 100)"), "app", nil)
	assert.NoError(t, err)
}
