package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediascan/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check folders, state directory and catalog readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, yesNo(r.Passed), r.Detail})
			}
			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			fmt.Fprintln(out, renderTable([]string{"Check", "OK", "Detail"}, rows, nil))

			if !preflight.Passed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
