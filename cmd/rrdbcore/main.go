// Command rrdbcore is the standalone entry point for the query-processing
// core: it loads a config, opens a catalog and WAL, and drives either a
// single SQL file or an interactive REPL against them — grounded on
// cmd/psqldef/psqldef.go's option-struct-plus-signal-context shape.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/rrdb/rrdb/catalog"
	"github.com/rrdb/rrdb/config"
	"github.com/rrdb/rrdb/rrdblog"
	"github.com/rrdb/rrdb/wal"
	"github.com/rrdb/rrdb/wire"
)

var version string

// checkpointInterval is how often the background loop flushes the WAL to
// disk. spec.md §4.7 specifies what a checkpoint does, never how often one
// runs, so this cadence is entirely a cmd/rrdbcore decision (see DESIGN.md).
const checkpointInterval = 5 * time.Second

// requestQueueCapacity mirrors original_source/src/lib/server/server.rs's
// mpsc channel, sized at 1000.
const requestQueueCapacity = 1000

type options struct {
	Config   string `short:"c" long:"config" description:"Path to a YAML config file (defaults built in if omitted)" value-name:"filename"`
	File     string `short:"f" long:"file" description:"Run SQL statements from file instead of starting a REPL" value-name:"filename"`
	Database string `short:"d" long:"database" description:"Default database for the session" value-name:"name" default:"app"`
	NoColor  bool   `long:"no-color" description:"Disable colorized REPL/EXPLAIN output"`
	Quiet    bool   `long:"quiet" description:"Suppress startup/checkpoint diagnostic logging"`
	Help     bool   `long:"help" description:"Show this help"`
	Version  bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (*options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[option...]"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		log.Fatal(err)
	}

	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	return &opts, rest
}

func main() {
	opts, _ := parseOptions(os.Args[1:])

	var logger rrdblog.Logger = rrdblog.StdoutLogger{}
	if opts.Quiet {
		logger = rrdblog.NullLogger{}
	}

	paths, err := config.Load(opts.Config)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(paths.WALDirectory, 0o755); err != nil {
		log.Fatalf("rrdbcore: creating wal directory %q: %v", paths.WALDirectory, err)
	}

	walMgr, err := wal.Open(paths.WALDirectory, paths.WALExtension, paths.WALPageSize, wal.GobCodec{})
	if err != nil {
		log.Fatalf("rrdbcore: opening WAL at %q: %v", paths.WALDirectory, err)
	}
	logger.Printf("wal: recovered at segment %08X with %d buffered entries\n", walMgr.Sequence(), len(walMgr.Buffered()))

	cat := catalog.NewMemoryCatalog()
	if err := cat.CreateDatabase(opts.Database); err != nil {
		log.Fatalf("rrdbcore: creating default database %q: %v", opts.Database, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	queue := wire.NewRequestQueue(requestQueueCapacity)
	var loopDone sync.WaitGroup
	loopDone.Add(1)
	go func() {
		defer loopDone.Done()
		wire.RunLoop(ctx, cat, queue, walMgr, checkpointInterval)
	}()
	// RunLoop is the sole owner of walMgr (spec.md §4.7): shutdown cancels
	// ctx and waits for that goroutine to return its own final checkpoint
	// rather than calling walMgr.Checkpoint() from here, which would race
	// with RunLoop's in-flight Append calls.
	stop := func() {
		cancel()
		loopDone.Wait()
	}

	engine := wire.NewEngine(queue, opts.Database)

	if opts.File != "" {
		err := runFile(ctx, engine, opts.File, logger)
		stop()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	runREPL(ctx, engine, !opts.NoColor, logger)
	stop()
	logger.Println("rrdbcore: shut down cleanly")
}
