package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mediascan/internal/mediainfo"
)

type parsedFile struct {
	mediainfo.Metadata
	Valid bool `json:"valid"`
}

func newParseCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "parse <path>...",
		Short:       "Show the metadata extracted from file paths",
		Long:        "Run metadata extraction on each path without touching the filesystem or the catalog.",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]parsedFile, 0, len(args))
			for _, path := range args {
				meta := mediainfo.Parse(path)
				results = append(results, parsedFile{Metadata: meta, Valid: mediainfo.Valid(meta)})
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					r.Filename + dotExt(r.Ext),
					r.Type.String(),
					r.Title,
					formatAttributes(r.Attributes()),
					yesNo(r.Valid),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Type", "Title", "Attributes", "Valid"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	return cmd
}

func dotExt(ext string) string {
	if ext == "" {
		return ""
	}
	return "." + ext
}

// formatAttributes renders attributes as sorted key=value pairs.
func formatAttributes(attrs map[string]string) string {
	if len(attrs) == 0 {
		return "-"
	}
	keys := slices.Sorted(maps.Keys(attrs))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+attrs[key])
	}
	return strings.Join(parts, " ")
}
