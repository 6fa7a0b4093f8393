// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nbexport CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nbexport/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the nbexport CLI.
var rootCmd = &cobra.Command{
	Use:   "nbexport",
	Short: "Export Jupyter notebooks to static HTML",
	Long: `nbexport renders Jupyter notebooks (.ipynb) as standalone HTML pages written
next to their sources, with the .ipynb extension swapped for .html.

Notebooks are given as arguments or listed in nbexport.yaml under "notebooks",
with an optional "index" notebook converted last.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(os.Stderr, logger.ParseLevel(viper.GetString("log_level")))
		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nbexport.yaml or ~/.config/nbexport/nbexport.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite conversion ledger (empty disables it)")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("history_db", rootCmd.PersistentFlags().Lookup("history-db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nbexport")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nbexport"))
		}
	}

	viper.SetEnvPrefix("NBEXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
