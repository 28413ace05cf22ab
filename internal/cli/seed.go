package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
)

var (
	seedServices     int
	seedMembers      int
	seedSeed         uint64
	seedDropExisting bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the operational source with demo data",
	Long: `Create the mart's operational schema in the source database and
populate it with generated demo data. Useful for trying out a mart
without an existing operational system.

Example:
  martctl seed --mart courier --services 10000 --source "postgres://..."
  martctl seed --mart clinical --members 5000 --seed 42 --drop-existing`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedServices, "services", 0,
		"number of courier service events to generate")
	seedCmd.Flags().IntVar(&seedMembers, "members", 0,
		"number of insured members to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible data (0 = random)")
	seedCmd.Flags().BoolVar(&seedDropExisting, "drop-existing", false,
		"drop the demo schema before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedServices > 0 {
		cfg.Seed.Services = seedServices
	}
	if seedMembers > 0 {
		cfg.Seed.Members = seedMembers
	}
	if seedSeed > 0 {
		cfg.Seed.Seed = seedSeed
	}
	if seedDropExisting {
		cfg.Seed.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	// Get the mart
	m, err := marts.Get(cfg.Mart)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source: %w", err)
	}
	defer pool.Close()

	logging.Info().
		Str("mart", cfg.Mart).
		Int("services", cfg.Seed.Services).
		Int("members", cfg.Seed.Members).
		Msg("Seeding demo data")

	opts := marts.SeedOptions{
		Services:     cfg.Seed.Services,
		Members:      cfg.Seed.Members,
		Seed:         cfg.Seed.Seed,
		DropExisting: cfg.Seed.DropExisting,
	}
	if err := m.Seed(ctx, pool, opts); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}

	logging.Info().
		Str("mart", cfg.Mart).
		Msg("Demo data ready")

	return nil
}
