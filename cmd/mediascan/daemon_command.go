package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mediascan/internal/scanrun"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Scan now and re-scan on the configured schedule",
		Long: "Run a scan immediately, then repeat it according to scan.schedule until\n" +
			"interrupted with SIGINT or SIGTERM.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger("")
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return scanrun.Daemon(runCtx, cfg, scanrun.Options{Logger: logger})
		},
	}
}
