package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helix-lang/helix/runtime/batch"
	"github.com/helix-lang/helix/runtime/diagnostics"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		flags lexFlags
		hints bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Report malformed tokens in Helix source files",
		Long: `check scans each file and reports unterminated literals and comments,
malformed numbers and unrecognized characters.

The exit status is 1 when any error was found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, a, flags)
			if err != nil {
				return err
			}

			files, err := loadSources(args, a.stdin)
			if err != nil {
				return err
			}

			results, err := batch.Run(cmd.Context(), files, settings.batchOptions(a.logger, nil))
			if err != nil {
				return err
			}

			bag := diagnostics.NewBag()
			emitter := diagnostics.NewEmitter(a.stdout)
			for _, r := range results {
				emitter.SetSource(r.File.Path, r.File.Content, settings.startRow)
				bag.Add(diagnostics.Collect(r.File.Path, r.File.Content, r.Tokens)...)
				if hints {
					bag.Add(diagnostics.KeywordHints(r.File.Path, r.Tokens)...)
				}
			}

			a.logger.Debug("check finished",
				"files", len(files),
				"errors", bag.ErrorCount(),
				"diagnostics", bag.Len())

			emitter.EmitAll(bag)
			if bag.HasErrors() {
				return &exitError{code: 1}
			}
			if bag.Len() == 0 {
				fmt.Fprintf(a.stdout, "%d file(s) ok\n", len(files))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&flags.startRow, "start-row", 0, "Row number of the first line")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Number of files scanned in parallel (0 = one per CPU)")
	cmd.Flags().BoolVar(&hints, "hints", false, "Also suggest keywords for likely typos")

	return cmd
}
