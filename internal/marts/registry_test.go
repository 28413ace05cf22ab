//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package marts_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/marts"
)

type stubMart struct {
	name string
}

func (m *stubMart) Name() string        { return m.name }
func (m *stubMart) Description() string { return "stub mart" }

func (m *stubMart) WatermarkQueries() (string, string) {
	return "SELECT max(id) FROM src", "SELECT max(id) FROM dst"
}

func (m *stubMart) Provision() []db.Statement         { return nil }
func (m *stubMart) Dimensions() []marts.DimensionSpec { return nil }
func (m *stubMart) Facts() []marts.FactSpec           { return nil }

func (m *stubMart) Seed(context.Context, *pgxpool.Pool, marts.SeedOptions) error {
	return nil
}

func TestRegisterAndGet(t *testing.T) {
	marts.Register(&stubMart{name: "stub-a"})

	m, err := marts.Get("stub-a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Name() != "stub-a" {
		t.Errorf("Got mart %q, want stub-a", m.Name())
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := marts.Get("no-such-mart"); err == nil {
		t.Error("Expected error for unknown mart")
	}
}

func TestListSorted(t *testing.T) {
	marts.Register(&stubMart{name: "stub-z"})
	marts.Register(&stubMart{name: "stub-b"})

	names := marts.List()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("List not sorted: %v", names)
		}
	}
	found := 0
	for _, n := range names {
		if n == "stub-b" || n == "stub-z" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("List missing registered marts: %v", names)
	}
}
