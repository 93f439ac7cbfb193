package executor

import (
	"bytes"
	"encoding/gob"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/wal"
)

// walRecord is the compact WAL payload logged for a DML statement: enough
// to identify what table and database a durable write touched. It is not
// a redo log of the statement's full effects — spec.md never specifies a
// replay-from-WAL operation, only append/checkpoint/recovery-on-open
// (spec.md §4.7) — so this stays a marker, not a row-level journal.
type walRecord struct {
	Database string
	Table    string
}

func encodeWALRecord(r walRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// walEntryFor reports the WAL entry a statement should produce once it
// executes successfully: DML that mutates a heap gets one, everything
// else (SELECT, DDL, SHOW/USE/DESC) does not.
func walEntryFor(stmt ast.Statement, currentDatabase string) (wal.Kind, []byte, bool) {
	db := func(tableDB *string) string {
		if tableDB != nil {
			return *tableDB
		}
		return currentDatabase
	}

	var kind wal.Kind
	var table, database string
	switch s := stmt.(type) {
	case *ast.InsertStatement:
		kind, table, database = wal.Insert, s.Table.Table, db(s.Table.Database)
	case *ast.UpdateStatement:
		kind, table, database = wal.Update, s.Table.Table, db(s.Table.Database)
	case *ast.DeleteStatement:
		kind, table, database = wal.Delete, s.Table.Table, db(s.Table.Database)
	default:
		return 0, nil, false
	}

	data, err := encodeWALRecord(walRecord{Database: database, Table: table})
	if err != nil {
		return 0, nil, false
	}
	return kind, data, true
}

// ExecuteLogged runs stmt through Execute and, if it was a successful
// write, appends a corresponding entry to log — the single point through
// which all writes flow, satisfying spec.md §4.7's "Append is not safe
// for concurrent callers; the executor serializes writes through a single
// owner". log may be nil, in which case no WAL entry is recorded (used by
// tests that don't care about durability).
func ExecuteLogged(cat catalog.Catalog, stmt ast.Statement, currentDatabase string, log *wal.Manager) (*Result, error) {
	result, err := Execute(cat, stmt, currentDatabase)
	if err != nil || log == nil {
		return result, err
	}

	kind, data, ok := walEntryFor(stmt, currentDatabase)
	if !ok {
		return result, nil
	}
	if err := log.Append(wal.NewEntry(kind, data, nil)); err != nil {
		return nil, errf("WAL append for %s on table: %v", kind, err)
	}
	return result, nil
}
