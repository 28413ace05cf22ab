// Package marts defines the data-mart interface and registry. A mart owns
// one star schema: its target DDL, its dimension and fact builders, its
// watermark queries, and a demo-source seeder.
package marts

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/frame"
)

// BuildOptions carries cross-cutting build parameters into fact builders.
type BuildOptions struct {
	// Locale names weekdays and months in calendar dimensions.
	Locale *calendar.Locale

	// ChurnMonths is the number of 30-day months without a payment after
	// which a member counts as churned.
	ChurnMonths int

	// Now is the reference instant for churn inference.
	Now time.Time
}

// DimensionSpec describes one dimension table and how to build it. The
// builder is a pure function: source frames in, one new frame out.
// Dimension tables are loaded with replace semantics; surrogate keys are
// assigned by the target store, never by the builder.
type DimensionSpec struct {
	// Table is the target table name.
	Table string

	// Sources lists the operational tables the builder consumes, in the
	// order the builder expects them.
	Sources []string

	// Build produces the dimension frame.
	Build func(sources []*frame.Frame, loc *calendar.Locale) (*frame.Frame, error)
}

// FactResult is the output of a fact builder: the fact frame plus any
// side outputs keyed by target table (loaded with replace semantics).
type FactResult struct {
	Fact *frame.Frame
	Side map[string]*frame.Frame
}

// FactSpec describes one fact table and how to build it.
type FactSpec struct {
	// Table is the target fact table name. Facts are loaded with append
	// semantics.
	Table string

	// Sources lists the operational tables the builder consumes.
	Sources []string

	// Dimensions lists the warehouse dimension tables re-extracted from
	// the target so the builder can resolve surrogate keys.
	Dimensions []string

	// KeyColumns are the surrogate-key columns the cleaning filter
	// requires to be non-null.
	KeyColumns []string

	// MeasureColumns are the measure columns the cleaning filter requires
	// to be non-null.
	MeasureColumns []string

	// Build produces the fact frame. sources and dims arrive in the
	// order declared above.
	Build func(sources, dims []*frame.Frame, opts BuildOptions) (*FactResult, error)
}

// SeedOptions configures demo-source seeding.
type SeedOptions struct {
	// Services is the number of courier service events to generate.
	Services int

	// Members is the number of insured members to generate.
	Members int

	// Seed fixes the random seed (0 = random).
	Seed uint64

	// DropExisting drops the demo schema before seeding.
	DropExisting bool
}

// Mart is the interface every data mart implements.
type Mart interface {
	// Name returns the mart name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// WatermarkQueries returns the source and target max-id queries used
	// to decide whether a refresh has new data to process.
	WatermarkQueries() (sourceMax, targetMax string)

	// Provision returns the target DDL, executed once on an empty target.
	Provision() []db.Statement

	// Dimensions returns the dimension specs in load order.
	Dimensions() []DimensionSpec

	// Facts returns the fact specs in load order.
	Facts() []FactSpec

	// Seed populates a demo operational source database.
	Seed(ctx context.Context, pool *pgxpool.Pool, opts SeedOptions) error
}
