package courier

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/marts"
)

// Mart implements the courier service delivery mart.
type Mart struct{}

// New creates a new courier mart.
func New() *Mart {
	return &Mart{}
}

// Name returns the mart name.
func (m *Mart) Name() string {
	return "courier"
}

// Description returns a human-readable description.
func (m *Mart) Description() string {
	return "Courier service delivery mart - request-to-closure wait times, " +
		"courier reassignments, and per-service incident counts"
}

// WatermarkQueries returns the max-id queries that gate incremental refresh.
func (m *Mart) WatermarkQueries() (string, string) {
	return "SELECT max(id) FROM mensajeria_servicio",
		"SELECT max(id_servicio) FROM hecho_servicios"
}

// Provision returns the star-schema DDL, applied when the target is empty.
func (m *Mart) Provision() []db.Statement {
	return provisionStatements()
}

// Dimensions returns the dimension specs in load order.
func (m *Mart) Dimensions() []marts.DimensionSpec {
	return []marts.DimensionSpec{
		{
			Table:   "dim_tiempo",
			Sources: []string{"mensajeria_servicio"},
			Build:   BuildTimeDimension,
		},
		{
			Table:   "dim_sede",
			Sources: []string{"sede", "ciudad"},
			Build:   BuildBranchDimension,
		},
		{
			Table:   "dim_cliente",
			Sources: []string{"cliente"},
			Build:   BuildClientDimension,
		},
		{
			Table:   "dim_mensajero",
			Sources: []string{"clientes_mensajeroaquitoy", "auth_user"},
			Build:   BuildCourierDimension,
		},
	}
}

// Facts returns the fact specs in load order.
func (m *Mart) Facts() []marts.FactSpec {
	return []marts.FactSpec{
		{
			Table: "hecho_servicios",
			Sources: []string{
				"mensajeria_servicio",
				"clientes_usuarioaquitoy",
				"mensajeria_estadosservicio",
				"mensajeria_novedadesservicio",
			},
			Dimensions: []string{
				"dim_tiempo", "dim_sede", "dim_cliente", "dim_mensajero",
			},
			KeyColumns: []string{
				"key_dim_cliente", "key_dim_mensajero",
				"key_dim_tiempo", "key_dim_sede",
			},
			MeasureColumns: []string{
				"tiempo_total_espera", "tiempo_espera_inicial",
				"tiempo_espera_asignado", "tiempo_espera_recogido",
				"tiempo_espera_en_destino",
			},
			Build: buildServiceFactSpec,
		},
	}
}

// Seed populates a demo operational source database.
func (m *Mart) Seed(ctx context.Context, pool *pgxpool.Pool, opts marts.SeedOptions) error {
	gen := NewSeeder(opts.Seed)
	return gen.Seed(ctx, pool, opts)
}

func init() {
	marts.Register(New())
}
