//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package clinical

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openmart/martctl/internal/logging"
	"github.com/openmart/martctl/internal/marts"
)

// Seeder generates a demo EPS operational database. Prescriptions draw
// from a handful of fixed medication bundles so the co-prescription miner
// has patterns to find, and a slice of members lapse on payments or cancel
// outright so the withdrawal fact is non-trivial.
type Seeder struct {
	faker *gofakeit.Faker
}

// NewSeeder creates a seeder. A zero seed means non-deterministic output.
func NewSeeder(seed uint64) *Seeder {
	return &Seeder{faker: gofakeit.New(seed)}
}

const (
	seedProviders  = 8
	seedPhysicians = 30
	seedDiagnoses  = 25
)

var serviceTypes = map[int64]string{
	serviceTypeUrgent:       "urgencia",
	serviceTypeHospital:     "hospitalizacion",
	serviceTypeConsultation: "consulta",
}

// medicationCatalog is the fixed demo formulary. Bundles below reference
// these codes.
var medicationCatalog = []struct {
	code      string
	name      string
	categoria string
}{
	{"MED001", "Acetaminofen 500mg", "analgesico"},
	{"MED002", "Ibuprofeno 400mg", "antiinflamatorio"},
	{"MED003", "Amoxicilina 500mg", "antibiotico"},
	{"MED004", "Loratadina 10mg", "antihistaminico"},
	{"MED005", "Omeprazol 20mg", "gastrico"},
	{"MED006", "Metformina 850mg", "antidiabetico"},
	{"MED007", "Losartan 50mg", "antihipertensivo"},
	{"MED008", "Hidroclorotiazida 25mg", "diuretico"},
	{"MED009", "Atorvastatina 20mg", "hipolipemiante"},
	{"MED010", "Salbutamol inhalador", "broncodilatador"},
	{"MED011", "Beclometasona inhalador", "corticoide"},
	{"MED012", "Enalapril 10mg", "antihipertensivo"},
	{"MED013", "Aspirina 100mg", "antiagregante"},
	{"MED014", "Levotiroxina 50mcg", "hormonal"},
	{"MED015", "Diclofenaco 50mg", "antiinflamatorio"},
}

// medicationBundles are co-prescribed combinations injected with high
// frequency.
var medicationBundles = [][]string{
	{"MED006", "MED007", "MED009"}, // metabolic syndrome
	{"MED007", "MED008"},           // hypertension pair
	{"MED010", "MED011"},           // asthma pair
	{"MED001", "MED003"},           // infection pair
}

// Seed creates the demo schema and fills it with opts.Members contributing
// members plus their beneficiaries, attentions, deliveries and payments.
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

	if err := s.seedCatalogs(ctx, pool); err != nil {
		return err
	}
	members, err := s.seedMembers(ctx, pool, opts.Members)
	if err != nil {
		return err
	}
	if err := s.seedAttentions(ctx, pool, members); err != nil {
		return err
	}
	if err := s.seedDeliveries(ctx, pool, members); err != nil {
		return err
	}
	if err := s.seedPayments(ctx, pool, members); err != nil {
		return err
	}

	logging.Info().
		Int("members", opts.Members).
		Msg("Seeded clinical demo source")
	return nil
}

func (s *Seeder) seedCatalogs(ctx context.Context, pool *pgxpool.Pool) error {
	for id := 1; id <= seedProviders; id++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO ips (ips_id, nombre, ciudad, nivel) VALUES ($1, $2, $3, $4)",
			id, "IPS "+s.faker.Company(), s.faker.City(), s.faker.IntRange(1, 3))
		if err != nil {
			return fmt.Errorf("failed to insert ips: %w", err)
		}
	}

	specialties := []string{
		"medicina general", "pediatria", "cardiologia",
		"ortopedia", "dermatologia", "medicina interna",
	}
	for i := 1; i <= seedPhysicians; i++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO medico (cedula, nombre, especialidad) VALUES ($1, $2, $3)",
			fmt.Sprintf("MD%05d", i), s.faker.Name(),
			specialties[s.faker.IntRange(0, len(specialties)-1)])
		if err != nil {
			return fmt.Errorf("failed to insert medico: %w", err)
		}
	}

	for id, name := range serviceTypes {
		_, err := pool.Exec(ctx,
			"INSERT INTO tipo_servicio (tipo_servicio_id, nombre) VALUES ($1, $2)",
			id, name)
		if err != nil {
			return fmt.Errorf("failed to insert tipo_servicio: %w", err)
		}
	}

	categories := []string{"respiratoria", "digestiva", "circulatoria", "osea", "infecciosa"}
	for i := 1; i <= seedDiagnoses; i++ {
		_, err := pool.Exec(ctx,
			"INSERT INTO enfermedad (codigo_cie, nombre, categoria) VALUES ($1, $2, $3)",
			fmt.Sprintf("CIE%03d", i), s.faker.LoremIpsumSentence(3),
			categories[s.faker.IntRange(0, len(categories)-1)])
		if err != nil {
			return fmt.Errorf("failed to insert enfermedad: %w", err)
		}
	}

	for _, med := range medicationCatalog {
		_, err := pool.Exec(ctx,
			"INSERT INTO medicamento (codigo, nombre, categoria) VALUES ($1, $2, $3)",
			med.code, med.name, med.categoria)
		if err != nil {
			return fmt.Errorf("failed to insert medicamento: %w", err)
		}
	}
	return nil
}

// seedMembers inserts contributors, their beneficiaries and demographics,
// and returns every generated cedula (contributors first).
func (s *Seeder) seedMembers(ctx context.Context, pool *pgxpool.Pool, nMembers int) ([]string, error) {
	education := []string{"primaria", "secundaria", "tecnico", "universitario", "posgrado"}
	civil := []string{"soltero", "casado", "union libre", "divorciado", "viudo"}
	kinship := []string{"conyuge", "hijo", "hija", "padre", "madre"}

	all := make([]string, 0, nMembers*2)
	benID := 0
	for i := 1; i <= nMembers; i++ {
		cedula := fmt.Sprintf("CC%07d", i)
		birth := time.Now().AddDate(-18-s.faker.IntRange(0, 49), 0, -s.faker.IntRange(0, 364))
		_, err := pool.Exec(ctx,
			"INSERT INTO cotizante (cedula, nombre, fecha_nacimiento, sexo) VALUES ($1, $2, $3, $4)",
			cedula, s.faker.Name(), birth, s.faker.RandomString([]string{"M", "F"}))
		if err != nil {
			return nil, fmt.Errorf("failed to insert cotizante: %w", err)
		}
		all = append(all, cedula)

		for b := s.faker.IntRange(0, 2); b > 0; b-- {
			benID++
			bCedula := fmt.Sprintf("BN%07d", benID)
			_, err := pool.Exec(ctx,
				"INSERT INTO beneficiario (cedula, nombre, cotizante_cedula, parentesco) VALUES ($1, $2, $3, $4)",
				bCedula, s.faker.Name(), cedula,
				kinship[s.faker.IntRange(0, len(kinship)-1)])
			if err != nil {
				return nil, fmt.Errorf("failed to insert beneficiario: %w", err)
			}
			all = append(all, bCedula)
		}
	}

	for _, cedula := range all {
		if s.faker.Float64Range(0, 1) < 0.10 {
			continue // a slice of members has no demographics row
		}
		_, err := pool.Exec(ctx,
			"INSERT INTO demografia (cedula, estrato, nivel_educativo, estado_civil) VALUES ($1, $2, $3, $4)",
			cedula, s.faker.IntRange(1, 6),
			education[s.faker.IntRange(0, len(education)-1)],
			civil[s.faker.IntRange(0, len(civil)-1)])
		if err != nil {
			return nil, fmt.Errorf("failed to insert demografia: %w", err)
		}
	}
	return all, nil
}

func (s *Seeder) seedAttentions(ctx context.Context, pool *pgxpool.Pool, members []string) error {
	start := time.Now().AddDate(0, -10, 0).Truncate(24 * time.Hour)

	tables := []struct {
		table string
		id    string
		costs [2]float64
	}{
		{"urgencia", "urgencia_id", [2]float64{80, 900}},
		{"hospitalizacion", "hospitalizacion_id", [2]float64{500, 9000}},
		{"consulta", "consulta_id", [2]float64{20, 150}},
	}
	counts := []int{len(members) / 2, len(members) / 4, len(members) * 2}

	for t, spec := range tables {
		rows := make([][]any, 0, counts[t])
		for id := 1; id <= counts[t]; id++ {
			var cedula any = members[s.faker.IntRange(0, len(members)-1)]
			if s.faker.Float64Range(0, 1) < 0.02 {
				cedula = nil // orphaned attention, dropped by cleaning
			}
			rows = append(rows, []any{
				id, cedula,
				s.faker.IntRange(1, seedProviders),
				fmt.Sprintf("MD%05d", s.faker.IntRange(1, seedPhysicians)),
				start.AddDate(0, 0, s.faker.IntRange(0, 279)),
				fmt.Sprintf("CIE%03d", s.faker.IntRange(1, seedDiagnoses)),
				decimal.NewFromFloat(s.faker.Float64Range(spec.costs[0], spec.costs[1])).Round(2),
			})
		}
		if err := copyRows(ctx, pool, spec.table,
			[]string{spec.id, "cedula", "ips_id", "medico_cedula", "fecha", "codigo_cie", "costo"},
			rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedDeliveries(ctx context.Context, pool *pgxpool.Pool, members []string) error {
	start := time.Now().AddDate(0, -10, 0).Truncate(24 * time.Hour)
	nDeliveries := len(members)

	rows := make([][]any, 0, nDeliveries)
	for id := 1; id <= nDeliveries; id++ {
		var codes []string
		if s.faker.Float64Range(0, 1) < 0.55 {
			codes = append(codes, medicationBundles[s.faker.IntRange(0, len(medicationBundles)-1)]...)
		}
		for n := s.faker.IntRange(0, 2); n > 0; n-- {
			codes = append(codes, medicationCatalog[s.faker.IntRange(0, len(medicationCatalog)-1)].code)
		}
		if len(codes) == 0 {
			codes = append(codes, medicationCatalog[s.faker.IntRange(0, len(medicationCatalog)-1)].code)
		}

		rows = append(rows, []any{
			id,
			members[s.faker.IntRange(0, len(members)-1)],
			s.faker.IntRange(1, seedProviders),
			start.AddDate(0, 0, s.faker.IntRange(0, 279)),
			fmt.Sprintf("RX%07d", id),
			strings.Join(codes, ";"),
			decimal.NewFromFloat(s.faker.Float64Range(5, 300)).Round(2),
		})
	}
	return copyRows(ctx, pool, "entrega_medicamento",
		[]string{"entrega_id", "cedula", "ips_id", "fecha", "receta_codigo", "medicamentos", "costo"},
		rows)
}

// seedPayments writes a monthly payment history per contributor. Roughly
// 15% stop paying partway through and 5% cancel outright.
func (s *Seeder) seedPayments(ctx context.Context, pool *pgxpool.Pool, members []string) error {
	start := time.Now().AddDate(0, -10, 0).Truncate(24 * time.Hour)

	payments := make([][]any, 0, len(members)*10)
	cancellations := make([][]any, 0, len(members)/20)
	payID, cancelID := 0, 0
	reasons := []string{"traslado de EPS", "desempleo", "viaje al exterior", "inconformidad"}

	for _, cedula := range members {
		if !strings.HasPrefix(cedula, "CC") {
			continue // only contributors pay
		}
		months := 10
		if s.faker.Float64Range(0, 1) < 0.15 {
			months = s.faker.IntRange(1, 5) // lapsed payer
		}
		for m := 0; m < months; m++ {
			payID++
			payments = append(payments, []any{
				payID, cedula,
				start.AddDate(0, m, s.faker.IntRange(0, 4)),
				decimal.NewFromFloat(s.faker.Float64Range(50, 400)).Round(2),
			})
		}
		if s.faker.Float64Range(0, 1) < 0.05 {
			cancelID++
			cancellations = append(cancellations, []any{
				cancelID, cedula,
				start.AddDate(0, months, s.faker.IntRange(0, 19)),
				reasons[s.faker.IntRange(0, len(reasons)-1)],
			})
		}
	}

	if err := copyRows(ctx, pool, "pago",
		[]string{"pago_id", "cedula", "fecha_pago", "valor"}, payments); err != nil {
		return err
	}
	return copyRows(ctx, pool, "cancelacion",
		[]string{"cancelacion_id", "cedula", "fecha", "motivo"}, cancellations)
}

func copyRows(ctx context.Context, pool *pgxpool.Pool, table string, columns []string, rows [][]any) error {
	_, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	return nil
}
