package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mediascan/internal/catalog"
	"mediascan/internal/mediainfo"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		typeFlag string
		series   string
		limit    int
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued media",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := catalog.Filter{Series: series, Limit: limit}
			if typeFlag != "" {
				typ, err := parseTypeFlag(typeFlag)
				if err != nil {
					return err
				}
				filter.Type = typ
			}

			return ctx.withStore(func(store *catalog.Store) error {
				records, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOut {
					if records == nil {
						records = []*catalog.Record{}
					}
					return writeJSON(cmd, records)
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No media catalogued")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						strconv.FormatInt(rec.ID, 10),
						rec.Type.String(),
						rec.Title,
						valueOrDash(rec.Year),
						humanize.IBytes(uint64(max(rec.Size, 0))),
						humanize.Time(rec.AddedAt),
						rec.Filepath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Type", "Title", "Year", "Size", "Added", "Path"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "", "Only list records of this type (video, audio, image)")
	cmd.Flags().StringVar(&series, "series", "", "Only list episodes of this series (case-insensitive)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print records as JSON")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalogued record counts by media type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				counts, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				types := make([]string, 0, len(counts))
				total := 0
				for typ, n := range counts {
					types = append(types, string(typ))
					total += n
				}
				slices.Sort(types)

				rows := make([][]string, 0, len(types))
				for _, typ := range types {
					rows = append(rows, []string{typ, humanize.Comma(int64(counts[mediainfo.Type(typ)]))})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Type", "Records"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
					"Total", humanize.Comma(int64(total)),
				))
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every record from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("refusing to clear the catalog without --yes")
			}
			return ctx.withStore(func(store *catalog.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s records\n", humanize.Comma(removed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm removal of all records")
	return cmd
}

func parseTypeFlag(value string) (mediainfo.Type, error) {
	switch typ := mediainfo.Type(strings.ToLower(strings.TrimSpace(value))); typ {
	case mediainfo.TypeVideo, mediainfo.TypeAudio, mediainfo.TypeImage:
		return typ, nil
	default:
		return "", fmt.Errorf("invalid --type %q (want video, audio or image)", value)
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
