//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"

	"github.com/openmart/martctl/internal/logging"
)

// HasNewData compares the high-water-mark ids of the source event table
// and the target fact table. It returns true when the target is behind
// the source. An empty source means nothing to do; an empty target means
// the pipeline must run.
//
// Both queries must yield a single nullable bigint (max id).
func HasNewData(ctx context.Context, source, target Querier, sourceMaxQuery, targetMaxQuery string) (bool, error) {
	var sourceMax *int64
	if err := source.QueryRow(ctx, sourceMaxQuery).Scan(&sourceMax); err != nil {
		return false, fmt.Errorf("failed to read source watermark: %w", err)
	}
	if sourceMax == nil {
		logging.Info().Msg("Source has no rows; nothing to refresh")
		return false, nil
	}

	var targetMax *int64
	if err := target.QueryRow(ctx, targetMaxQuery).Scan(&targetMax); err != nil {
		return false, fmt.Errorf("failed to read target watermark: %w", err)
	}
	if targetMax == nil {
		logging.Info().Int64("source_max", *sourceMax).Msg("Target fact table is empty")
		return true, nil
	}

	logging.Debug().
		Int64("source_max", *sourceMax).
		Int64("target_max", *targetMax).
		Msg("Watermark comparison")

	return *sourceMax > *targetMax, nil
}
