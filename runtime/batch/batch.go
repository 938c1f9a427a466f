// Package batch tokenizes many files on a fixed pool of goroutines.
//
// A Tokenizer is not safe for concurrent use, so each worker owns one and
// rebinds it with Reset for every file it picks up. Results come back in the
// order the files were given regardless of which worker finished first.
package batch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/helix-lang/helix/core/invariant"
	"github.com/helix-lang/helix/runtime/lexer"
	"github.com/helix-lang/helix/runtime/source"
)

// Options configures a batch run.
type Options struct {
	// Jobs is the number of workers; 0 means runtime.NumCPU().
	Jobs int

	// StartRow is handed to the tokenizer for every file. Most callers
	// want 1.
	StartRow int

	// LexerOpts are applied to every worker's tokenizer. A tracer passed
	// here is shared by all workers and must be safe for concurrent use
	// (SlogTracer is, EventRecorder is not).
	LexerOpts []lexer.LexerOpt

	// Cache, when set, skips files whose content was tokenized before.
	Cache *Cache

	Logger *slog.Logger
}

// Result is the outcome for one file.
type Result struct {
	File *source.File

	// Tokens borrow File.Content, or the content of the identical file
	// that populated the cache.
	Tokens []lexer.Token

	// Telemetry is nil unless telemetry was enabled through LexerOpts.
	Telemetry map[lexer.TokenType]*lexer.TokenTelemetry

	Cached   bool
	Scanned  bool // false when the run was cancelled before this file
	Duration time.Duration
}

// Run tokenizes files. Cancelling ctx stops workers from picking up new
// files; files already being scanned finish. On cancellation Run returns the
// partial results together with ctx.Err().
func Run(ctx context.Context, files []*source.File, opts Options) ([]Result, error) {
	results := make([]Result, len(files))
	for i, f := range files {
		invariant.NotNil(f, "batch file")
		results[i].File = f
	}
	if len(files) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	startRow := opts.StartRow
	invariant.Precondition(startRow >= 0, "start row must not be negative, got %d", startRow)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("batch start", "files", len(files), "jobs", jobs)

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(jobs)

	for w := 0; w < jobs; w++ {
		go func() {
			defer wg.Done()

			tok := lexer.New(nil, startRow, opts.LexerOpts...)
			for i := range indices {
				if ctx.Err() != nil {
					continue
				}
				results[i] = scanFile(tok, files[i], startRow, opts.Cache)
				logger.Debug("tokenized",
					"path", files[i].Path,
					"tokens", len(results[i].Tokens),
					"cached", results[i].Cached,
					"duration", results[i].Duration)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Debug("batch cancelled", "error", err)
		return results, err
	}
	return results, nil
}

func scanFile(tok *lexer.Tokenizer, f *source.File, startRow int, cache *Cache) Result {
	start := time.Now()

	if cache != nil {
		if tokens, ok := cache.Get(f.Digest, startRow); ok {
			return Result{
				File:     f,
				Tokens:   tokens,
				Cached:   true,
				Scanned:  true,
				Duration: time.Since(start),
			}
		}
	}

	tok.Reset(f.Content, startRow)
	tokens := tok.All()

	if cache != nil {
		cache.Put(f.Digest, startRow, tokens)
	}

	return Result{
		File:      f,
		Tokens:    tokens,
		Telemetry: tok.Telemetry(),
		Scanned:   true,
		Duration:  time.Since(start),
	}
}
