//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline drives one mart refresh: provision, watermark gate,
// dimension pass, fact pass. Storage access goes through small interfaces
// so the whole flow runs against in-memory fakes in tests.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/cleanse"
	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
)

// Extractor reads a whole table as a frame.
type Extractor interface {
	Extract(ctx context.Context, table string) (*frame.Frame, error)
}

// Loader writes a frame into a table. replace truncates first; otherwise
// rows are appended.
type Loader interface {
	Load(ctx context.Context, f *frame.Frame, table string, replace bool) error
}

// Provisioner manages the warehouse schema.
type Provisioner interface {
	HasTables(ctx context.Context) (bool, error)
	Provision(ctx context.Context, statements []db.Statement) error
}

// Warehouse is the refresh target: dimensions are read back from it after
// loading so fact builders see store-assigned surrogate keys.
type Warehouse interface {
	Extractor
	Loader
	Provisioner
}

// WatermarkChecker reports whether the source holds rows the target has
// not seen.
type WatermarkChecker interface {
	HasNewData(ctx context.Context, sourceMaxQuery, targetMaxQuery string) (bool, error)
}

// Options tunes a refresh run.
type Options struct {
	// LoadDimensions controls the dimension pass. Skipping it refreshes
	// facts against previously loaded dimensions.
	LoadDimensions bool

	// ApplyCleaning drops fact rows with null surrogate keys or null
	// measures before loading.
	ApplyCleaning bool

	// ChurnMonths is forwarded to fact builders.
	ChurnMonths int

	// Locale names weekdays and months in calendar dimensions.
	Locale *calendar.Locale

	// Now overrides the reference instant (zero = wall clock).
	Now time.Time

	// ReportWriter receives cleaning reports (default os.Stdout).
	ReportWriter io.Writer
}

// Pipeline refreshes one mart.
type Pipeline struct {
	Source    Extractor
	Target    Warehouse
	Watermark WatermarkChecker
	Mart      marts.Mart
	Options   Options
}

// Run executes the refresh. A source without new data is a normal early
// exit. Any stage error propagates unchanged; there is no partial-commit
// recovery.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	logging.Info().
		Str("run_id", runID).
		Str("mart", p.Mart.Name()).
		Msg("Starting refresh")

	provisioned, err := p.Target.HasTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect target: %w", err)
	}
	if !provisioned {
		logging.Info().Str("run_id", runID).Msg("Empty target, provisioning star schema")
		if err := p.Target.Provision(ctx, p.Mart.Provision()); err != nil {
			return fmt.Errorf("failed to provision target: %w", err)
		}
	}

	sourceMax, targetMax := p.Mart.WatermarkQueries()
	fresh, err := p.Watermark.HasNewData(ctx, sourceMax, targetMax)
	if err != nil {
		return fmt.Errorf("failed to check watermark: %w", err)
	}
	if !fresh {
		logging.Info().Str("run_id", runID).Msg("No new data, nothing to refresh")
		return nil
	}

	if p.Options.LoadDimensions {
		for _, spec := range p.Mart.Dimensions() {
			if err := p.runDimension(ctx, runID, spec); err != nil {
				return err
			}
		}
	}

	opts := marts.BuildOptions{
		Locale:      p.Options.Locale,
		ChurnMonths: p.Options.ChurnMonths,
		Now:         p.Options.Now,
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	for _, spec := range p.Mart.Facts() {
		if err := p.runFact(ctx, runID, spec, opts); err != nil {
			return err
		}
	}

	logging.Info().Str("run_id", runID).Msg("Refresh complete")
	return nil
}

func (p *Pipeline) runDimension(ctx context.Context, runID string, spec marts.DimensionSpec) error {
	sources, err := p.extractAll(ctx, p.Source, spec.Sources)
	if err != nil {
		return err
	}
	dim, err := spec.Build(sources, p.Options.Locale)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", spec.Table, err)
	}
	if err := p.Target.Load(ctx, dim, spec.Table, true); err != nil {
		return fmt.Errorf("failed to load %s: %w", spec.Table, err)
	}
	logging.Info().
		Str("run_id", runID).
		Str("table", spec.Table).
		Int("rows", dim.Len()).
		Msg("Loaded dimension")
	return nil
}

func (p *Pipeline) runFact(ctx context.Context, runID string, spec marts.FactSpec, opts marts.BuildOptions) error {
	sources, err := p.extractAll(ctx, p.Source, spec.Sources)
	if err != nil {
		return err
	}
	dims, err := p.extractAll(ctx, p.Target, spec.Dimensions)
	if err != nil {
		return err
	}

	result, err := spec.Build(sources, dims, opts)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", spec.Table, err)
	}

	fact := result.Fact
	if p.Options.ApplyCleaning {
		clean, report, err := cleanse.Apply(fact, spec.Table, spec.KeyColumns, spec.MeasureColumns)
		if err != nil {
			return fmt.Errorf("failed to clean %s: %w", spec.Table, err)
		}
		report.Render(p.reportWriter())
		fact = clean
	}

	if err := p.Target.Load(ctx, fact, spec.Table, false); err != nil {
		return fmt.Errorf("failed to load %s: %w", spec.Table, err)
	}
	logging.Info().
		Str("run_id", runID).
		Str("table", spec.Table).
		Int("rows", fact.Len()).
		Msg("Loaded fact")

	sideTables := make([]string, 0, len(result.Side))
	for table := range result.Side {
		sideTables = append(sideTables, table)
	}
	sort.Strings(sideTables)
	for _, table := range sideTables {
		side := result.Side[table]
		if err := p.Target.Load(ctx, side, table, true); err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}
		logging.Info().
			Str("run_id", runID).
			Str("table", table).
			Int("rows", side.Len()).
			Msg("Loaded side output")
	}
	return nil
}

func (p *Pipeline) extractAll(ctx context.Context, from Extractor, tables []string) ([]*frame.Frame, error) {
	out := make([]*frame.Frame, len(tables))
	for i, table := range tables {
		f, err := from.Extract(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", table, err)
		}
		out[i] = f
	}
	return out, nil
}

func (p *Pipeline) reportWriter() io.Writer {
	if p.Options.ReportWriter != nil {
		return p.Options.ReportWriter
	}
	return os.Stdout
}
