//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/extract"
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/load"
)

// PgSource adapts a pgx pool to the Extractor interface.
type PgSource struct {
	Pool *pgxpool.Pool
}

func (s *PgSource) Extract(ctx context.Context, table string) (*frame.Frame, error) {
	return extract.Table(ctx, s.Pool, table)
}

// PgWarehouse adapts a pgx pool to the Warehouse interface.
type PgWarehouse struct {
	Pool *pgxpool.Pool
}

func (w *PgWarehouse) Extract(ctx context.Context, table string) (*frame.Frame, error) {
	return extract.Table(ctx, w.Pool, table)
}

func (w *PgWarehouse) Load(ctx context.Context, f *frame.Frame, table string, replace bool) error {
	return load.Table(ctx, w.Pool, f, table, replace)
}

func (w *PgWarehouse) HasTables(ctx context.Context) (bool, error) {
	return db.HasTables(ctx, w.Pool)
}

func (w *PgWarehouse) Provision(ctx context.Context, statements []db.Statement) error {
	return db.Provision(ctx, w.Pool, statements)
}

// PgWatermark checks the refresh watermark across the two databases.
type PgWatermark struct {
	Source *pgxpool.Pool
	Target *pgxpool.Pool
}

func (c *PgWatermark) HasNewData(ctx context.Context, sourceMaxQuery, targetMaxQuery string) (bool, error) {
	return db.HasNewData(ctx, c.Source, c.Target, sourceMaxQuery, targetMaxQuery)
}
