package wire

import (
	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/executor"
)

// ChannelRequest is one query handed from a connection task to the
// background executor loop, paired with the channel its result is
// delivered back on — grounded on
// original_source/src/lib/server/channel.rs and the oneshot-per-request
// pattern in original_source/src/lib/pgwire/engine/rrdb.rs's `prepare`.
type ChannelRequest struct {
	Statement       ast.Statement
	CurrentDatabase string
	Response        chan ChannelResponse
}

// ChannelResponse carries an executed statement's result (or error) back
// to the connection task that requested it.
type ChannelResponse struct {
	Result *executor.Result
	Err    error
}

// RequestQueue is the bounded channel connecting connection tasks to the
// executor loop (spec.md §5's "back pressure" paragraph): a full queue
// makes Engine.submit block rather than drop work, and a request that is
// not accepted or answered before its context is done surfaces as a
// CONNECTION_EXCEPTION.
type RequestQueue chan ChannelRequest

// NewRequestQueue allocates a bounded request queue; original_source's
// server.rs sizes its mpsc channel at 1000.
func NewRequestQueue(capacity int) RequestQueue {
	return make(RequestQueue, capacity)
}
