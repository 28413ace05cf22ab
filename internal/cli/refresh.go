package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
	"github.com/openmart/martctl/internal/pipeline"
)

var (
	refreshSkipDimensions bool
	refreshNoCleaning     bool
	refreshChurnMonths    int
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the analytical target from the operational source",
	Long: `Refresh a data mart: extract the mart's source tables, rebuild its
dimensions, derive its fact tables, and load everything into the target.
An empty target is provisioned with the star schema first. When the
source holds no rows newer than the target's watermark, the run exits
without loading anything.

Example:
  martctl refresh --mart courier --source "postgres://..." --target "postgres://..."
  martctl refresh --mart clinical --churn-months 3
  martctl refresh --mart courier --skip-dimensions`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshSkipDimensions, "skip-dimensions", false,
		"refresh facts against dimensions already loaded in the target")
	refreshCmd.Flags().BoolVar(&refreshNoCleaning, "no-cleaning", false,
		"load fact rows without dropping null keys or null measures")
	refreshCmd.Flags().IntVar(&refreshChurnMonths, "churn-months", 0,
		"months without a payment before a member counts as churned")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if refreshSkipDimensions {
		cfg.Refresh.LoadDimensions = false
	}
	if refreshNoCleaning {
		cfg.Refresh.ApplyCleaning = false
	}
	if refreshChurnMonths > 0 {
		cfg.Refresh.ChurnMonths = refreshChurnMonths
	}

	// Validate configuration
	if err := cfg.ValidateRefresh(); err != nil {
		return err
	}

	// Get the mart
	m, err := marts.Get(cfg.Mart)
	if err != nil {
		return err
	}

	loc, err := calendar.ByName(cfg.Locale)
	if err != nil {
		return err
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	}()

	// Connect to both databases
	sourcePool, err := db.Connect(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source: %w", err)
	}
	defer sourcePool.Close()

	targetPool, err := db.Connect(ctx, cfg.Target)
	if err != nil {
		return fmt.Errorf("failed to connect to target: %w", err)
	}
	defer targetPool.Close()

	logging.Info().
		Str("mart", cfg.Mart).
		Bool("load_dimensions", cfg.Refresh.LoadDimensions).
		Bool("apply_cleaning", cfg.Refresh.ApplyCleaning).
		Msg("Starting warehouse refresh")

	p := &pipeline.Pipeline{
		Source:    &pipeline.PgSource{Pool: sourcePool},
		Target:    &pipeline.PgWarehouse{Pool: targetPool},
		Watermark: &pipeline.PgWatermark{Source: sourcePool, Target: targetPool},
		Mart:      m,
		Options: pipeline.Options{
			LoadDimensions: cfg.Refresh.LoadDimensions,
			ApplyCleaning:  cfg.Refresh.ApplyCleaning,
			ChurnMonths:    cfg.Refresh.ChurnMonths,
			Locale:         loc,
		},
	}

	if err := p.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Refresh interrupted")
			return nil
		}
		return fmt.Errorf("refresh error: %w", err)
	}

	return nil
}
