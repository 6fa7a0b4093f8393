package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nbexport/internal/history"
	"github.com/pdiddy/nbexport/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions",
	Long: `History prints the most recent entries of the conversion ledger kept when
--history-db (or history_db in the config file) is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("history_db")
		if path == "" {
			return fmt.Errorf("no history database configured: set --history-db or history_db")
		}
		limit, _ := cmd.Flags().GetInt("limit")
		format, _ := cmd.Flags().GetString("format")

		store, err := history.Open(path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		return writeHistory(cmd.OutOrStdout(), entries, format)
	},
}

// writeHistory prints entries as a table, JSON, or YAML.
func writeHistory(w io.Writer, entries []types.Conversion, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tSTATUS\tNOTEBOOK\tOUTPUT\tBYTES")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
				e.ConvertedAt.Local().Format(time.DateTime), e.Status, e.Notebook, e.Output, e.Bytes)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q: want table, json, or yaml", format)
	}
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum number of entries to show")
	historyCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(historyCmd)
}
