package wire

import (
	"context"
	"time"

	"github.com/rrdb/rrdb/ast"
	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/executor"
	"github.com/rrdb/rrdb/wal"
)

// RunLoop is the background executor task (original_source/src/lib/server/server.rs's
// `background_task`): it drains the request queue and runs each statement
// against cat, delivering the result on the request's own response
// channel. It returns when ctx is cancelled or the queue is closed.
//
// Every request is handled by this one goroutine, so it is also the single
// owner WAL append requires (spec.md §4.7's "Append is not safe for
// concurrent callers"): log may be nil to skip WAL logging entirely. For
// the same reason, the periodic checkpoint this loop runs when
// checkpointInterval is positive ticks from inside this same goroutine
// rather than a separate timer goroutine — Append and Checkpoint both
// mutate log's unexported buffer, so a second goroutine calling Checkpoint
// concurrently with this one's Append would race. checkpointInterval <= 0
// (or log == nil) disables the tick entirely. On the way out (ctx
// cancelled or queue closed), RunLoop checkpoints once more so a caller
// that cancels ctx and waits for this goroutine to return observes
// everything buffered up to that point made durable, without needing its
// own unsynchronized call to log.Checkpoint.
func RunLoop(ctx context.Context, cat catalog.Catalog, queue RequestQueue, log *wal.Manager, checkpointInterval time.Duration) {
	var tick <-chan time.Time
	if log != nil && checkpointInterval > 0 {
		ticker := time.NewTicker(checkpointInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	finalCheckpoint := func() {
		if log != nil && len(log.Buffered()) > 0 {
			_ = log.Checkpoint()
		}
	}

	for {
		select {
		case <-ctx.Done():
			finalCheckpoint()
			return
		case <-tick:
			if len(log.Buffered()) > 0 {
				_ = log.Checkpoint()
			}
		case req, ok := <-queue:
			if !ok {
				finalCheckpoint()
				return
			}
			result, err := executor.ExecuteLogged(cat, req.Statement, req.CurrentDatabase, log)
			req.Response <- ChannelResponse{Result: result, Err: err}
		}
	}
}

// Engine is a per-connection handle onto the shared request queue,
// grounded on original_source/src/lib/pgwire/engine/rrdb.rs's RRDBEngine —
// one instance per connection, sharing the process-wide queue.
type Engine struct {
	Queue           RequestQueue
	CurrentDatabase string
}

// NewEngine binds an Engine to a connection's default database, per
// spec.md §6's "USE database_name updates the connection's
// default_database in ParserContext".
func NewEngine(queue RequestQueue, currentDatabase string) *Engine {
	return &Engine{Queue: queue, CurrentDatabase: currentDatabase}
}

// Prepare submits statement to the executor loop and maps its result
// columns to wire FieldDescriptions, or maps the failure to an
// ErrorResponse per spec.md §6's error surface.
func (e *Engine) Prepare(ctx context.Context, statement ast.Statement) ([]FieldDescription, error) {
	resp, err := e.submit(ctx, statement)
	if err != nil {
		return nil, err
	}
	if resp.Err != nil {
		return nil, NewError(SqlStateSyntaxError, resp.Err.Error())
	}
	if resp.Result.Database != nil {
		e.CurrentDatabase = *resp.Result.Database
	}

	fields := make([]FieldDescription, len(resp.Result.Columns))
	for i, col := range resp.Result.Columns {
		fields[i] = FieldDescription{Name: col.Name, DataType: OidForTypeName(col.Type)}
	}
	return fields, nil
}

// CreatePortal re-executes statement and returns a Portal whose single
// Fetch call delivers the already-computed result — original_source's
// create_portal instead opens a fresh response channel that `prepare`'s
// background execution feeds; this seam executes eagerly since there is
// no cursor/streaming storage layer to pull further batches from
// (spec.md §1 scopes that out).
func (e *Engine) CreatePortal(ctx context.Context, statement ast.Statement) (*Portal, error) {
	resp, err := e.submit(ctx, statement)
	if err != nil {
		return nil, err
	}
	ch := make(chan ChannelResponse, 1)
	ch <- resp
	close(ch)
	return &Portal{responses: ch}, nil
}

func (e *Engine) submit(ctx context.Context, statement ast.Statement) (ChannelResponse, error) {
	respCh := make(chan ChannelResponse, 1)
	req := ChannelRequest{Statement: statement, CurrentDatabase: e.CurrentDatabase, Response: respCh}

	select {
	case e.Queue <- req:
	case <-ctx.Done():
		return ChannelResponse{}, NewFatalError(SqlStateConnectionException, ctx.Err().Error())
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return ChannelResponse{}, NewFatalError(SqlStateConnectionException, ctx.Err().Error())
	}
}
