//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package load writes frames into warehouse tables. It never creates or
// alters the target schema; provisioning owns DDL.
package load

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/logging"
)

// Table loads a frame into the named target table. With replace=true all
// existing rows are deleted first; otherwise rows are appended. Frame
// column names must match the table's column names.
func Table(ctx context.Context, pool *pgxpool.Pool, f *frame.Frame, table string, replace bool) error {
	if replace {
		logging.Debug().Str("table", table).Msg("Deleting existing rows")
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	columns := f.Columns()
	copied, err := pool.CopyFrom(
		ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromSlice(f.Len(), func(i int) ([]any, error) {
			row := f.Row(i)
			for c, v := range row {
				row[c] = encode(v)
			}
			return row, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", table, err)
	}

	logging.Info().
		Str("table", table).
		Int64("rows", copied).
		Bool("replace", replace).
		Msg("Loaded table")
	return nil
}

// encode maps frame cell types onto values pgx can write.
func encode(v any) any {
	switch x := v.(type) {
	case time.Duration:
		// time-of-day cells target TIME columns
		return pgtype.Time{Microseconds: x.Microseconds(), Valid: true}
	default:
		return v
	}
}
