//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for martctl.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openmart/martctl/internal/config"
	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
	"github.com/openmart/martctl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	source   string
	target   string
	mart     string
	locale   string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "martctl",
		Short: "Dimensional warehouse builder for operational PostgreSQL databases",
		Long: `martctl extracts operational data from a source PostgreSQL database,
reshapes it into a star schema, and loads it into an analytical target
database. Each supported business domain is packaged as a data mart with
its own dimensions and fact tables.

Dimensions are rebuilt in full on every refresh; fact rows are appended
so repeated runs accumulate history in the target.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./martctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&source, "source", "",
		"operational (source) PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&target, "target", "",
		"analytical (target) PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&mart, "mart", "",
		"data mart (courier, clinical)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "",
		"weekday/month naming for calendar dimensions (english, spanish)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(martsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if source != "" {
		cfg.Source = source
	}
	if target != "" {
		cfg.Target = target
	}
	if mart != "" {
		cfg.Mart = mart
	}
	if locale != "" {
		cfg.Locale = locale
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var martsCmd = &cobra.Command{
	Use:   "marts",
	Short: "List available data marts",
	Long: `List all registered data marts. Each mart defines its own source
tables, star schema, and demo data seeder.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available data marts:")
		cmd.Println()
		for _, name := range marts.List() {
			m, err := marts.Get(name)
			if err != nil {
				continue
			}
			cmd.Println(fmt.Sprintf("  %-10s - %s", m.Name(), m.Description()))
		}
		cmd.Println()
		cmd.Println("Use 'martctl refresh --mart <name>' to build a mart.")
	},
}
