package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediascan/internal/ingest"
	"mediascan/internal/scanrun"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		noProgress bool
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "scan [folder...]",
		Short: "Scan library folders once and catalog new media",
		Long: "Walk every configured library folder (or the folders given as arguments)\n" +
			"and add newly discovered media files to the catalog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			showProgress := !noProgress && !jsonOut && isTerminal(cmd.ErrOrStderr())
			level := ""
			if showProgress && !ctx.logLevelOverridden() {
				level = "warn"
			}
			logger, err := ctx.newLogger(level)
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := scanrun.Options{Logger: logger, Folders: args}
			finish := func() {}
			if showProgress {
				bar := newScanSpinner(cmd.ErrOrStderr())
				opts.Progress = func(string, ingest.Outcome) { _ = bar.Add(1) }
				finish = func() { _ = bar.Finish() }
			}

			summaries, runErr := scanrun.Run(runCtx, cfg, opts)
			finish()

			if jsonOut {
				if err := writeJSON(cmd, summaries); err != nil {
					return err
				}
			} else if len(summaries) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummaries(summaries))
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress spinner")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print per-folder summaries as JSON")
	return cmd
}

func renderSummaries(summaries []ingest.Summary) string {
	headers := []string{"Folder", "Dirs", "Files", "Inserted", "Skipped", "Rejected", "Failed", "Errors", "Duration"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, summaryRow(s.Root, s))
	}
	if len(summaries) == 1 {
		return renderTable(headers, rows, aligns)
	}
	return renderTable(headers, rows, aligns, summaryRow("Total", scanrun.Totals(summaries))...)
}

func summaryRow(label string, s ingest.Summary) []string {
	return []string{
		label,
		strconv.Itoa(s.Directories),
		strconv.Itoa(s.Files),
		strconv.Itoa(s.Inserted),
		strconv.Itoa(s.Skipped),
		strconv.Itoa(s.Rejected),
		strconv.Itoa(s.Failed),
		strconv.Itoa(s.WalkErrors),
		s.Duration.Round(time.Millisecond).String(),
	}
}
