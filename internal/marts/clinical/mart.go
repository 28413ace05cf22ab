package clinical

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/marts"
)

// Mart implements the health-insurance mart.
type Mart struct{}

// New creates a new clinical mart.
func New() *Mart {
	return &Mart{}
}

// Name returns the mart name.
func (m *Mart) Name() string {
	return "clinical"
}

// Description returns a human-readable description.
func (m *Mart) Description() string {
	return "Health insurance (EPS) mart - attention events, medication " +
		"deliveries with co-prescription mining, and member withdrawals"
}

// WatermarkQueries returns the max-id queries that gate incremental refresh.
func (m *Mart) WatermarkQueries() (string, string) {
	return "SELECT max(consulta_id) FROM consulta",
		"SELECT max(id_atencion) FROM hecho_atenciones"
}

// Provision returns the star-schema DDL, applied when the target is empty.
func (m *Mart) Provision() []db.Statement {
	return provisionStatements()
}

// Dimensions returns the dimension specs in load order.
func (m *Mart) Dimensions() []marts.DimensionSpec {
	return []marts.DimensionSpec{
		{
			Table:   "dim_ips",
			Sources: []string{"ips"},
			Build:   BuildProviderDimension,
		},
		{
			Table:   "dim_persona",
			Sources: []string{"cotizante", "beneficiario"},
			Build:   BuildPersonDimension,
		},
		{
			Table:   "dim_medico",
			Sources: []string{"medico"},
			Build:   BuildPhysicianDimension,
		},
		{
			Table:   "dim_servicio",
			Sources: []string{"tipo_servicio"},
			Build:   BuildServiceTypeDimension,
		},
		{
			Table:   "dim_diagnostico",
			Sources: []string{"enfermedad"},
			Build:   BuildDiagnosisDimension,
		},
		{
			Table:   "dim_demografia",
			Sources: []string{"demografia"},
			Build:   BuildDemographicsDimension,
		},
		{
			Table:   "dim_medicamento",
			Sources: []string{"medicamento"},
			Build:   BuildMedicationDimension,
		},
		{
			Table:   "dim_fecha",
			Sources: []string{"urgencia", "hospitalizacion", "consulta"},
			Build:   BuildDateDimension,
		},
	}
}

// Facts returns the fact specs in load order.
func (m *Mart) Facts() []marts.FactSpec {
	return []marts.FactSpec{
		{
			Table:   "hecho_atenciones",
			Sources: []string{"urgencia", "hospitalizacion", "consulta"},
			Dimensions: []string{
				"dim_persona", "dim_ips", "dim_medico", "dim_servicio",
				"dim_diagnostico", "dim_demografia", "dim_fecha",
			},
			KeyColumns: []string{
				"key_dim_persona", "key_dim_ips", "key_dim_medico",
				"key_dim_servicio", "key_dim_diagnostico", "key_dim_fecha",
			},
			MeasureColumns: []string{"costo"},
			Build:          buildAttentionFactSpec,
		},
		{
			Table:      "hecho_entregas",
			Sources:    []string{"entrega_medicamento"},
			Dimensions: []string{"dim_persona", "dim_ips", "dim_fecha", "dim_medicamento"},
			KeyColumns: []string{
				"key_dim_persona", "key_dim_ips", "key_dim_fecha",
			},
			MeasureColumns: []string{"cantidad_medicamentos", "costo"},
			Build:          buildDeliveryFactSpec,
		},
		{
			Table:      "hecho_retiros",
			Sources:    []string{"pago", "cancelacion"},
			Dimensions: []string{"dim_persona", "dim_fecha"},
			KeyColumns: []string{"key_dim_persona", "key_dim_fecha"},
			Build:      buildWithdrawalFactSpec,
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
