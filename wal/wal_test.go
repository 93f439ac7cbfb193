package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, pageSize int) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m, err := Open(dir, "wal", pageSize, GobCodec{})
	require.NoError(t, err)
	return m, dir
}

func TestOpenFreshDirectoryStartsAtSequenceOne(t *testing.T) {
	m, _ := newTestManager(t, 4096)
	assert.Equal(t, uint32(1), m.Sequence())
	assert.Empty(t, m.Buffered())
}

func TestAppendThenCheckpointWritesSegmentAndRotates(t *testing.T) {
	m, dir := newTestManager(t, 4096)

	require.NoError(t, m.Append(NewEntry(Insert, []byte("row one"), nil)))
	require.NoError(t, m.Append(NewEntry(Insert, []byte("row two"), nil)))
	assert.Len(t, m.Buffered(), 2)

	require.NoError(t, m.Checkpoint())
	assert.Equal(t, uint32(2), m.Sequence())
	assert.Empty(t, m.Buffered())

	path := filepath.Join(dir, "00000001.wal")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestOpenAfterCleanCheckpointStartsNextSegment(t *testing.T) {
	m, dir := newTestManager(t, 4096)
	require.NoError(t, m.Append(NewEntry(Insert, []byte("row"), nil)))
	require.NoError(t, m.Checkpoint())

	reopened, err := Open(dir, "wal", 4096, GobCodec{})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), reopened.Sequence())
	assert.Empty(t, reopened.Buffered())
}

func TestOpenAfterAbruptShutdownReusesSequenceAndRecoversBuffer(t *testing.T) {
	m, dir := newTestManager(t, 4096)
	require.NoError(t, m.Append(NewEntry(Insert, []byte("row a"), nil)))
	require.NoError(t, m.Append(NewEntry(Update, []byte("row b"), nil)))

	// Simulate an abrupt shutdown: the segment is written to disk but
	// never gets its closing Checkpoint entry.
	encoded, err := GobCodec{}.Encode(m.Buffered())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000001.wal"), encoded, 0o644))

	reopened, err := Open(dir, "wal", 4096, GobCodec{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), reopened.Sequence())
	require.Len(t, reopened.Buffered(), 2)
	assert.Equal(t, []byte("row a"), reopened.Buffered()[0].Data)
	assert.Equal(t, []byte("row b"), reopened.Buffered()[1].Data)
}

func TestOpenWithEmptySegmentFileStartsNextSequence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000005.wal"), nil, 0o644))

	m, err := Open(dir, "wal", 4096, GobCodec{})
	require.NoError(t, err)
	assert.Equal(t, uint32(6), m.Sequence())
	assert.Empty(t, m.Buffered())
}

func TestAppendSplitsLargePayloadAcrossSegmentBoundary(t *testing.T) {
	m, _ := newTestManager(t, 20)

	big := make([]byte, 64)
	for i := range big {
		big[i] = byte('a' + i%26)
	}
	require.NoError(t, m.Append(NewEntry(Insert, big, nil)))

	buffered := m.Buffered()
	require.Greater(t, len(buffered), 1, "expected the payload to split across multiple entries")
	assert.False(t, buffered[0].IsContinuation)
	for _, e := range buffered[1:] {
		assert.True(t, e.IsContinuation)
	}

	var reassembled []byte
	for _, e := range buffered {
		reassembled = append(reassembled, e.Data...)
	}
	assert.Equal(t, big, reassembled)
}

func TestAppendSmallEntriesFitSameSegmentWithoutSplitting(t *testing.T) {
	m, _ := newTestManager(t, 4096)
	require.NoError(t, m.Append(NewEntry(Insert, []byte("small"), nil)))
	require.Len(t, m.Buffered(), 1)
	assert.False(t, m.Buffered()[0].IsContinuation)
}

func TestIgnoresFilesWithMismatchedExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000009.other"), []byte("junk"), 0o644))

	m, err := Open(dir, "wal", 4096, GobCodec{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), m.Sequence())
}

func TestGobCodecRoundtrip(t *testing.T) {
	entries := []Entry{
		NewEntry(Insert, []byte("payload"), nil),
		checkpointEntry(),
	}
	codec := GobCodec{}
	encoded, err := codec.Encode(entries)
	require.NoError(t, err)
	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, Insert, decoded[0].Kind)
	assert.Equal(t, []byte("payload"), decoded[0].Data)
	assert.Equal(t, Checkpoint, decoded[1].Kind)
}
