//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package courier

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
)

// Seeder generates a demo courier operational database. A slice of the
// generated services carries reassigned couriers, missing request times,
// or truncated status chains so the refresh's cleaning pass has work to do.
type Seeder struct {
	faker *gofakeit.Faker
}

// NewSeeder creates a seeder. A zero seed means non-deterministic output.
func NewSeeder(seed uint64) *Seeder {
	return &Seeder{faker: gofakeit.New(seed)}
}

const (
	seedCities          = 5
	seedBranchesPerCity = 2
	seedUsersPerClient  = 3
)

// Seed creates the demo schema and fills it with opts.Services service
// events plus their supporting rows.
func (s *Seeder) Seed(ctx context.Context, pool *pgxpool.Pool, opts marts.SeedOptions) error {
	if opts.DropExisting {
		logging.Info().Msg("Dropping existing demo schema")
		if _, err := pool.Exec(ctx, dropSeedSchemaSQL); err != nil {
			return fmt.Errorf("failed to drop demo schema: %w", err)
		}
	}
	if _, err := pool.Exec(ctx, createSeedSchemaSQL); err != nil {
		return fmt.Errorf("failed to create demo schema: %w", err)
	}

	nClients := max(5, opts.Services/100)
	nCouriers := max(8, opts.Services/40)

	if err := s.seedGeography(ctx, pool); err != nil {
		return err
	}
	if err := s.seedClients(ctx, pool, nClients); err != nil {
		return err
	}
	if err := s.seedCouriers(ctx, pool, nCouriers); err != nil {
		return err
	}
	if err := s.seedServices(ctx, pool, opts.Services, nClients, nCouriers); err != nil {
		return err
	}

	logging.Info().
		Int("services", opts.Services).
		Int("clients", nClients).
		Int("couriers", nCouriers).
		Msg("Seeded courier demo source")
	return nil
}

func (s *Seeder) seedGeography(ctx context.Context, pool *pgxpool.Pool) error {
	branchID := 0
	for cityID := 1; cityID <= seedCities; cityID++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO ciudad (ciudad_id, nombre) VALUES ($1, $2)",
			cityID, s.faker.City())
		if err != nil {
			return fmt.Errorf("failed to insert ciudad: %w", err)
		}
		for b := 0; b < seedBranchesPerCity; b++ {
			branchID++
			_, err := pool.Exec(ctx,
				"INSERT INTO sede (sede_id, nombre, ciudad_id) VALUES ($1, $2, $3)",
				branchID, "Sede "+s.faker.Street(), cityID)
			if err != nil {
				return fmt.Errorf("failed to insert sede: %w", err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedClients(ctx context.Context, pool *pgxpool.Pool, nClients int) error {
	userID := 0
	nBranches := seedCities * seedBranchesPerCity
	for clientID := 1; clientID <= nClients; clientID++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO cliente (cliente_id, nombre) VALUES ($1, $2)",
			clientID, s.faker.Company())
		if err != nil {
			return fmt.Errorf("failed to insert cliente: %w", err)
		}
		for u := 0; u < seedUsersPerClient; u++ {
			userID++
			_, err := pool.Exec(ctx,
				"INSERT INTO clientes_usuarioaquitoy (id, cliente_id, sede_id) VALUES ($1, $2, $3)",
				userID, clientID, s.faker.IntRange(1, nBranches))
			if err != nil {
				return fmt.Errorf("failed to insert usuario: %w", err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedCouriers(ctx context.Context, pool *pgxpool.Pool, nCouriers int) error {
	for id := 1; id <= nCouriers; id++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO auth_user (id, first_name, last_name, username) VALUES ($1, $2, $3, $4)",
			id, s.faker.FirstName(), s.faker.LastName(), s.faker.Username())
		if err != nil {
			return fmt.Errorf("failed to insert auth_user: %w", err)
		}
		_, err = pool.Exec(ctx,
			"INSERT INTO clientes_mensajeroaquitoy (id, user_id) VALUES ($1, $2)",
			id, id)
		if err != nil {
			return fmt.Errorf("failed to insert mensajero: %w", err)
		}
	}
	return nil
}

// Status chain probabilities. Each stage only happens if the previous one
// did, so a fraction of services end the window mid-flight.
const (
	pStarted   = 0.95
	pAssigned  = 0.92
	pPickedUp  = 0.88
	pDelivered = 0.82
)

func (s *Seeder) seedServices(ctx context.Context, pool *pgxpool.Pool, nServices, nClients, nCouriers int) error {
	start := time.Now().AddDate(0, -3, 0).Truncate(24 * time.Hour)

	serviceRows := make([][]any, 0, nServices)
	statusRows := make([][]any, 0, nServices*3)
	incidentRows := make([][]any, 0, nServices/3)

	for id := 1; id <= nServices; id++ {
		clientID := s.faker.IntRange(1, nClients)
		userID := (clientID-1)*seedUsersPerClient + s.faker.IntRange(1, seedUsersPerClient)

		var courier1, courier2, courier3 any
		if s.faker.Float64Range(0, 1) > 0.02 {
			courier1 = s.faker.IntRange(1, nCouriers)
		}
		if s.faker.Float64Range(0, 1) < 0.20 {
			courier2 = s.faker.IntRange(1, nCouriers)
			if s.faker.Float64Range(0, 1) < 0.40 {
				courier3 = s.faker.IntRange(1, nCouriers)
			}
		}

		requested := start.AddDate(0, 0, s.faker.IntRange(0, 84)).
			Add(time.Duration(s.faker.IntRange(6, 19)) * time.Hour).
			Add(time.Duration(s.faker.IntRange(0, 3599)) * time.Second)

		var fecha, hora any
		fecha = dateOf(requested)
		hora = timeOfDay(requested)
		if s.faker.Float64Range(0, 1) < 0.04 {
			hora = nil
		} else if s.faker.Float64Range(0, 1) < 0.01 {
			fecha = nil
		}

		serviceRows = append(serviceRows, []any{
			id, clientID, userID, courier1, courier2, courier3, fecha, hora,
		})

		ts := requested
		for _, stage := range []struct {
			code int64
			p    float64
		}{
			{1, pStarted}, {2, pAssigned}, {4, pPickedUp}, {5, pDelivered},
		} {
			if s.faker.Float64Range(0, 1) > stage.p {
				break
			}
			ts = ts.Add(time.Duration(s.faker.IntRange(5, 59)) * time.Minute)
			statusRows = append(statusRows, []any{
				id, stage.code, dateOf(ts), timeOfDay(ts),
			})
		}

		if s.faker.Float64Range(0, 1) < 0.25 {
			for n := s.faker.IntRange(1, 3); n > 0; n-- {
				incidentRows = append(incidentRows, []any{id, s.faker.IntRange(1, 2)})
			}
		}
	}

	if err := copyRows(ctx, pool, "mensajeria_servicio",
		[]string{"id", "cliente_id", "usuario_id", "mensajero_id",
			"mensajero2_id", "mensajero3_id", "fecha_solicitud", "hora_solicitud"},
		serviceRows); err != nil {
		return err
	}
	if err := copyRows(ctx, pool, "mensajeria_estadosservicio",
		[]string{"servicio_id", "estado_id", "fecha", "hora"},
		statusRows); err != nil {
		return err
	}
	return copyRows(ctx, pool, "mensajeria_novedadesservicio",
		[]string{"servicio_id", "tipo_novedad_id"}, incidentRows)
}

// timeOfDay extracts the wall-clock part of a timestamp as a TIME value.
func timeOfDay(t time.Time) pgtype.Time {
	return pgtype.Time{
		Microseconds: t.Sub(dateOf(t)).Microseconds(),
		Valid:        true,
	}
}

func copyRows(ctx context.Context, pool *pgxpool.Pool, table string, columns []string, rows [][]any) error {
	_, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return nil
}
