package wal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Manager owns one table's WAL segment: a buffer of entries not yet
// durable, and the sequence number of the segment file they'll land in at
// the next checkpoint. Append is not safe for concurrent callers — the
// executor serializes writes to a table through a single owner, same as
// original_source/src/engine/wal/manager/mod.rs.
type Manager struct {
	sequence  uint32
	buffers   []Entry
	pageSize  int
	directory string
	extension string
	codec     Codec
}

// Open recovers a Manager from directory, scanning for the
// highest-sequence segment file and deciding the next sequence to use:
//   - no segment files at all: start fresh at sequence 1.
//   - highest segment is empty, decodes to no entries, or its last entry
//     is a Checkpoint: that segment is complete, start the next one at
//     maxSequence+1 with an empty buffer.
//   - highest segment's last entry is anything else: the process died
//     before checkpointing, so reuse maxSequence and recover its entries
//     into the live buffer rather than losing them.
//   - highest segment cannot be read or decoded: Open returns an error.
func Open(directory, extension string, pageSize int, codec Codec) (*Manager, error) {
	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("wal: reading %s: %w", directory, err)
	}

	var maxSeq uint32
	found := false
	var lastPath string

	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		if ext != extension {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		seq, err := strconv.ParseUint(stem, 16, 32)
		if err != nil {
			continue
		}
		if !found || uint32(seq) > maxSeq {
			maxSeq = uint32(seq)
			found = true
			lastPath = filepath.Join(directory, name)
		}
	}

	base := &Manager{pageSize: pageSize, directory: directory, extension: extension, codec: codec}

	if !found {
		base.sequence = 1
		return base, nil
	}

	content, err := os.ReadFile(lastPath)
	if err != nil {
		return nil, fmt.Errorf("wal: reading segment %s: %w", lastPath, err)
	}
	if len(content) == 0 {
		base.sequence = maxSeq + 1
		return base, nil
	}

	decoded, err := codec.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("wal: decoding segment %s: %w", lastPath, err)
	}
	if len(decoded) == 0 {
		base.sequence = maxSeq + 1
		return base, nil
	}

	if decoded[len(decoded)-1].Kind == Checkpoint {
		base.sequence = maxSeq + 1
		return base, nil
	}

	// Last entry isn't a checkpoint: the previous process died mid-segment.
	// Reuse its sequence number so the next checkpoint finishes the same
	// file, and recover its entries into the live buffer.
	base.sequence = maxSeq
	base.buffers = decoded
	return base, nil
}

// Sequence reports the segment number Append/Checkpoint are currently
// targeting.
func (m *Manager) Sequence() uint32 { return m.sequence }

// Buffered reports the entries accumulated since the last checkpoint,
// including any recovered from an abrupt shutdown at Open.
func (m *Manager) Buffered() []Entry {
	out := make([]Entry, len(m.buffers))
	copy(out, m.buffers)
	return out
}

func (m *Manager) bufferedSize() int {
	total := 0
	for _, e := range m.buffers {
		total += e.Size()
	}
	return total
}

// Append buffers entry, splitting its payload across page_size-sized
// chunks if the segment would otherwise overflow. Only the first chunk of
// a split entry has IsContinuation false; the rest are marked as
// continuations of it. Buffered entries don't reach disk until Checkpoint.
func (m *Manager) Append(entry Entry) error {
	entireSize := m.bufferedSize()

	if entireSize+entry.Size() <= m.pageSize || entry.Data == nil {
		// Fits as-is, or there's no payload to split (e.g. Checkpoint).
		entry.IsContinuation = false
		m.buffers = append(m.buffers, entry)
		return nil
	}

	remaining := entry.Data
	firstChunk := true
	for len(remaining) > 0 {
		// Only the first chunk is constrained by room left in the segment
		// already accumulating; every later chunk gets a fresh page_size.
		room := m.pageSize
		if firstChunk {
			room = m.pageSize - entireSize
		}
		if room <= 0 {
			room = m.pageSize
		}
		chunkSize := len(remaining)
		if room < chunkSize {
			chunkSize = room
		}
		chunk := remaining[:chunkSize]
		remaining = remaining[chunkSize:]

		m.buffers = append(m.buffers, Entry{
			Kind:           entry.Kind,
			Data:           chunk,
			Timestamp:      entry.Timestamp,
			TransactionID:  entry.TransactionID,
			IsContinuation: !firstChunk,
		})
		firstChunk = false
	}
	return nil
}

func (m *Manager) segmentPath() string {
	return filepath.Join(m.directory, fmt.Sprintf("%08X.%s", m.sequence, m.extension))
}

func (m *Manager) saveToFile() error {
	encoded, err := m.codec.Encode(m.buffers)
	if err != nil {
		return fmt.Errorf("wal: encoding segment: %w", err)
	}
	path := m.segmentPath()
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("wal: writing segment %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("wal: reopening segment %s for sync: %w", path, err)
	}
	defer f.Close()
	if err := f.Sync(); err != nil {
		return fmt.Errorf("wal: syncing segment %s: %w", path, err)
	}
	return nil
}

// Checkpoint appends a synthetic Checkpoint entry, writes the segment
// durably to disk, and rotates to a fresh sequence with an empty buffer —
// closing out this segment so a future Open resumes at sequence+1 instead
// of reusing it.
func (m *Manager) Checkpoint() error {
	m.buffers = append(m.buffers, checkpointEntry())
	if err := m.saveToFile(); err != nil {
		return err
	}
	m.buffers = nil
	m.sequence++
	return nil
}

// Flush is an alias for Checkpoint.
func (m *Manager) Flush() error {
	return m.Checkpoint()
}
