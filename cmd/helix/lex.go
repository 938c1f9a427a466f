package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/helix-lang/helix/runtime/batch"
	"github.com/helix-lang/helix/runtime/lexer"
	"github.com/helix-lang/helix/runtime/source"
	"github.com/helix-lang/helix/runtime/tokendump"
	"github.com/helix-lang/helix/runtime/watch"
)

type lexFlags struct {
	format   string
	startRow int
	stats    bool
	trace    bool
	jobs     int
	watch    bool
}

func newLexCmd(a *app) *cobra.Command {
	var flags lexFlags

	cmd := &cobra.Command{
		Use:   "lex [files...]",
		Short: "Print the token stream of Helix source files",
		Long: `lex scans each file and prints its tokens.

Use - to read from stdin; with no arguments piped stdin is read.
Formats: text (default), json, yaml, cbor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLex(cmd, a, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text, json, yaml or cbor")
	cmd.Flags().IntVar(&flags.startRow, "start-row", 0, "Row number of the first line")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Print per token type statistics to stderr")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "Log scanner trace events at debug level")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Number of files scanned in parallel (0 = one per CPU)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Re-scan files when they change")

	return cmd
}

// scanSettings merges configuration and flags. Flags win when set.
type scanSettings struct {
	format    tokendump.Format
	startRow  int
	jobs      int
	telemetry lexer.TelemetryMode
	trace     bool
}

func resolveSettings(cmd *cobra.Command, a *app, flags lexFlags) (scanSettings, error) {
	s := scanSettings{
		startRow: a.cfg.Lexer.StartRow,
		jobs:     a.cfg.Batch.Jobs,
		trace:    a.cfg.Lexer.Trace,
	}

	formatName := a.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		formatName = flags.format
	}
	format, err := tokendump.ParseFormat(formatName)
	if err != nil {
		return s, err
	}
	s.format = format

	mode, err := lexer.ParseTelemetryMode(a.cfg.Lexer.Telemetry)
	if err != nil {
		return s, err
	}
	s.telemetry = mode

	if cmd.Flags().Changed("start-row") {
		if flags.startRow < 0 {
			return s, &CLIError{Message: fmt.Sprintf("--start-row must not be negative, got %d", flags.startRow)}
		}
		s.startRow = flags.startRow
	}
	if cmd.Flags().Changed("jobs") {
		s.jobs = flags.jobs
	}
	if flags.stats && s.telemetry == lexer.TelemetryOff {
		s.telemetry = lexer.TelemetryTiming
	}
	if cmd.Flags().Changed("trace") {
		s.trace = flags.trace
	}
	return s, nil
}

func (s scanSettings) batchOptions(logger *slog.Logger, cache *batch.Cache) batch.Options {
	var opts []lexer.LexerOpt
	if s.telemetry != lexer.TelemetryOff {
		opts = append(opts, lexer.WithTelemetry(s.telemetry))
	}
	if s.trace {
		opts = append(opts, lexer.WithTracer(lexer.SlogTracer{Logger: logger}))
	}

	return batch.Options{
		Jobs:      s.jobs,
		StartRow:  s.startRow,
		LexerOpts: opts,
		Cache:     cache,
		Logger:    logger,
	}
}

func runLex(cmd *cobra.Command, a *app, args []string, flags lexFlags) error {
	settings, err := resolveSettings(cmd, a, flags)
	if err != nil {
		return err
	}

	files, err := loadSources(args, a.stdin)
	if err != nil {
		return err
	}

	if flags.watch {
		for _, f := range files {
			if f.Path == stdinName {
				return &CLIError{Message: "--watch cannot be combined with stdin input"}
			}
		}
	}

	ctx := cmd.Context()
	cache := batch.NewCache()

	if err := lexOnce(ctx, a, settings, files, cache); err != nil {
		return err
	}
	if !flags.watch {
		return nil
	}

	paths := make([]string, len(files))
	current := make(map[string]source.Digest, len(files))
	for i, f := range files {
		paths[i] = f.Path
		// The watcher reports absolute paths
		if abs, err := filepath.Abs(f.Path); err == nil {
			current[abs] = f.Digest
		}
	}
	return watchFiles(ctx, a, paths, func(ctx context.Context, changed []*source.File) error {
		if err := lexOnce(ctx, a, settings, changed, cache); err != nil {
			return err
		}
		// Drop tokens of content that no watched file has anymore
		for _, f := range changed {
			current[f.Path] = f.Digest
		}
		cache.Retain(slices.Collect(maps.Values(current)))
		return nil
	})
}

func lexOnce(ctx context.Context, a *app, s scanSettings, files []*source.File, cache *batch.Cache) error {
	results, err := batch.Run(ctx, files, s.batchOptions(a.logger, cache))
	if err != nil {
		return err
	}

	for _, r := range results {
		dump := tokendump.File{
			Path:   r.File.Path,
			Digest: r.File.Digest.String(),
			Tokens: tokendump.Records(r.Tokens),
		}
		if err := tokendump.EncodeFile(a.stdout, s.format, dump); err != nil {
			return fmt.Errorf("write tokens for %s: %w", r.File.Path, err)
		}
	}

	if s.telemetry != lexer.TelemetryOff {
		return writeStats(a.stderr, results)
	}
	return nil
}

// writeStats prints telemetry summed over all results.
func writeStats(w io.Writer, results []batch.Result) error {
	type total struct {
		count, bytes int
		elapsed      time.Duration
	}
	sums := map[lexer.TokenType]*total{}
	for _, r := range results {
		for tt, stats := range r.Telemetry {
			sum, ok := sums[tt]
			if !ok {
				sum = &total{}
				sums[tt] = sum
			}
			sum.count += stats.Count
			sum.bytes += stats.Bytes
			sum.elapsed += stats.TotalTime
		}
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TYPE\tCOUNT\tBYTES\tAVG\t")
	for tt := lexer.Unknown; tt <= lexer.Comment; tt++ {
		sum, ok := sums[tt]
		if !ok {
			continue
		}
		avg := time.Duration(0)
		if sum.count > 0 {
			avg = sum.elapsed / time.Duration(sum.count)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t\n", tt, sum.count, sum.bytes, avg)
	}
	return tw.Flush()
}

// watchFiles reloads changed paths and hands them to rescan until ctx ends.
func watchFiles(ctx context.Context, a *app, paths []string, rescan func(context.Context, []*source.File) error) error {
	w, err := watch.New(paths, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer w.Close()

	a.logger.Info("watching for changes", "files", len(paths))
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		files := make([]*source.File, 0, len(changed))
		for _, p := range changed {
			f, err := source.Load(p)
			if err != nil {
				// A file mid-save may be briefly missing or truncated
				a.logger.Warn("skipping file", "path", p, "error", err)
				continue
			}
			files = append(files, f)
		}
		if len(files) == 0 {
			return nil
		}
		return rescan(ctx, files)
	})
}
