// Package wal implements the write-ahead log a table's executor appends to
// before a DML statement's effects become visible: entries buffer in memory
// and only reach disk at a checkpoint, following
// original_source/src/engine/wal/manager/mod.rs.
package wal

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the DML operations the log records from the synthetic
// Checkpoint marker that closes out a segment.
type Kind uint8

const (
	Insert Kind = iota
	Update
	Delete
	Checkpoint
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Checkpoint:
		return "CHECKPOINT"
	default:
		return "UNKNOWN"
	}
}

// entryOverhead approximates the fixed cost of an Entry's non-Data fields
// when deciding whether a buffered segment has outgrown PageSize.
const entryOverhead = 32

// Entry is one record in the log: a row mutation's encoded payload, or a
// Checkpoint marker with no payload. TransactionID is nil for entries (like
// Checkpoint) that don't belong to any one transaction.
type Entry struct {
	Kind           Kind
	Data           []byte
	Timestamp      int64
	TransactionID  *uuid.UUID
	IsContinuation bool
}

// Size is the space Append accounts for when deciding whether this entry
// would overflow the current segment.
func (e Entry) Size() int {
	return entryOverhead + len(e.Data)
}

// NewEntry builds a non-continuation entry for txnID (nil for untransacted
// writes) stamped with the current time.
func NewEntry(kind Kind, data []byte, txnID *uuid.UUID) Entry {
	return Entry{
		Kind:          kind,
		Data:          data,
		Timestamp:     time.Now().UnixMilli(),
		TransactionID: txnID,
	}
}

func checkpointEntry() Entry {
	return Entry{Kind: Checkpoint, Timestamp: time.Now().UnixMilli()}
}
