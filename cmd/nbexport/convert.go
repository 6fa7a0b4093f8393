package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbexport/internal/container"
	"github.com/pdiddy/nbexport/internal/convert"
	"github.com/pdiddy/nbexport/internal/export"
	"github.com/pdiddy/nbexport/internal/history"
	"github.com/pdiddy/nbexport/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [notebooks...]",
	Short: "Convert notebooks to HTML files",
	Long: `Convert renders each notebook to HTML and writes it beside the source with
.ipynb replaced by .html, overwriting any existing file. Notebooks are processed
one at a time in the order given, then the index notebook if one is set.

The first failure stops the run unless --continue-on-error is set. Files already
written are left in place either way.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(viper.GetViper(), args)
		if err != nil {
			return err
		}

		exp, err := newExporter(cfg)
		if err != nil {
			return err
		}

		opts := convert.Options{ContinueOnError: cfg.ContinueOnError}
		if cfg.HistoryDB != "" {
			store, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return fmt.Errorf("opening history: %w", err)
			}
			defer store.Close()
			opts.Recorder = store
		}

		result, err := convert.RunPlan(cmd.Context(), exp, convert.PlanFromConfig(cfg), opts, cmd.OutOrStdout())
		slog.Info("conversion run finished",
			"converted", result.Converted, "failed", result.Failed, "backend", cfg.Backend)
		return err
	},
}

// newExporter builds the export backend selected by cfg.
func newExporter(cfg types.ExportConfig) (convert.Exporter, error) {
	switch cfg.Backend {
	case types.BackendNbconvert:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return convert.NewNbconvertExporter(rt, cfg.Image, cfg.ExcludeInput)
	default:
		return export.NewHTMLExporter(export.Options{ExcludeInput: cfg.ExcludeInput}), nil
	}
}

func init() {
	convertCmd.Flags().String("index", "", "notebook converted after all others")
	convertCmd.Flags().String("backend", string(types.BackendNative), "export backend: native or nbconvert")
	convertCmd.Flags().String("image", types.DefaultNbconvertImage, "container image for the nbconvert backend")
	convertCmd.Flags().Bool("continue-on-error", false, "keep converting after a failure and report all failures at the end")
	convertCmd.Flags().Bool("no-input", false, "hide code cell inputs in the output")

	_ = viper.BindPFlag("index", convertCmd.Flags().Lookup("index"))
	_ = viper.BindPFlag("backend", convertCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("image", convertCmd.Flags().Lookup("image"))
	_ = viper.BindPFlag("continue_on_error", convertCmd.Flags().Lookup("continue-on-error"))
	_ = viper.BindPFlag("exclude_input", convertCmd.Flags().Lookup("no-input"))

	rootCmd.AddCommand(convertCmd)
}
