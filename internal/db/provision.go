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

// Statement is one named DDL statement in a mart's provisioning set.
type Statement struct {
	Name string
	SQL  string
}

// HasTables reports whether the connected database's public schema
// contains any tables.
func HasTables(ctx context.Context, q Querier) (bool, error) {
	var count int
	err := q.QueryRow(ctx, `
        SELECT count(*) FROM information_schema.tables
        WHERE table_schema = 'public'
    `).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect target schema: %w", err)
	}
	return count > 0, nil
}

// Provision executes the given DDL statements in order when the target has
// no tables yet. It never alters an already-provisioned target.
func Provision(ctx context.Context, q Querier, statements []Statement) error {
	exists, err := HasTables(ctx, q)
	if err != nil {
		return err
	}
	if exists {
		logging.Debug().Msg("Target already provisioned")
		return nil
	}

	logging.Info().Int("statements", len(statements)).Msg("Provisioning target schema")
	for _, stmt := range statements {
		logging.Debug().Str("table", stmt.Name).Msg("Creating table")
		if _, err := q.Exec(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.Name, err)
		}
	}
	return nil
}
