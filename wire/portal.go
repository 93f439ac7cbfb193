package wire

import "github.com/rrdb/rrdb/ast"

// DataRow is one row of a Portal's fetched result, laid out positionally
// to match the FieldDescriptions returned by Prepare.
type DataRow []ast.Value

// DataRowBatch accumulates the rows a Portal fetch delivers. It is a seam
// type only: encoding rows onto the wire (original_source's DataRowWriter,
// which branches on text vs. binary FormatCode) belongs to the external
// wire-protocol front-end, out of scope here (spec.md §1).
type DataRowBatch struct {
	Rows []DataRow
}

// AppendRow adds one row to the batch, mirroring
// original_source/src/pgwire/protocol/extension/data_row_batch.rs's
// `create_row` + DataRowWriter pairing, minus the actual byte encoding.
func (b *DataRowBatch) AppendRow(values []ast.Value) {
	row := make(DataRow, len(values))
	copy(row, values)
	b.Rows = append(b.Rows, row)
}

// Portal is an opened cursor over a prepared statement's rows (spec.md
// §6, GLOSSARY), grounded on
// original_source/src/lib/pgwire/engine/rrdb.rs's RRDBPortal.
type Portal struct {
	responses chan ChannelResponse
}

// Fetch drains the portal's single buffered response into batch. RRDB has
// no cursor/streaming storage layer (spec.md §1's Non-goals), so the whole
// result set is delivered on the first Fetch; a second Fetch observes an
// already-drained channel and returns nil without adding any rows.
func (p *Portal) Fetch(batch *DataRowBatch) error {
	resp, ok := <-p.responses
	if !ok {
		return nil
	}
	if resp.Err != nil {
		return NewFatalError(SqlStateConnectionException, resp.Err.Error())
	}
	for _, row := range resp.Result.Rows {
		batch.AppendRow(row)
	}
	return nil
}
