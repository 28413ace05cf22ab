//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract pulls whole operational or warehouse tables into frames.
// Column names and types observed here are part of the contract with the
// transform layer; the builders reference them by name.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/logging"
)

// Table extracts a single table as a frame.
func Table(ctx context.Context, q db.Querier, name string) (*frame.Frame, error) {
	rows, err := q.Query(ctx, "SELECT * FROM "+name)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]frame.Column, len(fields))
	for i, fd := range fields {
		columns[i].Name = fd.Name
	}

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", name, err)
		}
		for i, v := range values {
			columns[i].Values = append(columns[i].Values, normalize(v))
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", name, err)
	}

	f, err := frame.FromColumns(columns)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}

	logging.Debug().Str("table", name).Int("rows", count).Msg("Extracted table")
	return f, nil
}

// normalize maps pgx-scanned values onto the frame cell types.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case []byte:
		return string(x)
	case time.Time:
		return x
	case pgtype.Time:
		if !x.Valid {
			return nil
		}
		return time.Duration(x.Microseconds) * time.Microsecond
	case pgtype.Numeric:
		if !x.Valid || x.NaN {
			return nil
		}
		return decimal.NewFromBigInt(x.Int, x.Exp)
	case decimal.Decimal:
		return x
	default:
		return v
	}
}
