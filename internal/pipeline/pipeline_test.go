package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/db"
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/marts"
	_ "github.com/openmart/martctl/internal/marts/courier"
)

// memSource serves fixture tables.
type memSource map[string]*frame.Frame

func (m memSource) Extract(_ context.Context, table string) (*frame.Frame, error) {
	f, ok := m[table]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return f, nil
}

// memWarehouse stores loaded frames and mimics the store's surrogate-key
// assignment: replace-loading a dim_* table prepends a serial key column.
type memWarehouse struct {
	tables      map[string]*frame.Frame
	provisioned []string
}

func newMemWarehouse() *memWarehouse {
	return &memWarehouse{tables: make(map[string]*frame.Frame)}
}

func (w *memWarehouse) Extract(_ context.Context, table string) (*frame.Frame, error) {
	f, ok := w.tables[table]
	if !ok {
		return nil, fmt.Errorf("no such table: %s", table)
	}
	return f, nil
}

func (w *memWarehouse) Load(_ context.Context, f *frame.Frame, table string, replace bool) error {
	if replace || w.tables[table] == nil {
		if strings.HasPrefix(table, "dim_") {
			keys := make([]any, f.Len())
			for i := range keys {
				keys[i] = int64(i + 1)
			}
			withKeys, err := f.WithColumn("key_"+table, keys)
			if err != nil {
				return err
			}
			f = withKeys
		}
		w.tables[table] = f
		return nil
	}
	merged, err := w.tables[table].Append(f)
	if err != nil {
		return err
	}
	w.tables[table] = merged
	return nil
}

func (w *memWarehouse) HasTables(context.Context) (bool, error) {
	return len(w.provisioned) > 0, nil
}

func (w *memWarehouse) Provision(_ context.Context, statements []db.Statement) error {
	for _, s := range statements {
		w.provisioned = append(w.provisioned, s.Name)
	}
	return nil
}

// memWatermark reports a fixed answer.
type memWatermark struct {
	fresh bool
	calls int
}

func (c *memWatermark) HasNewData(context.Context, string, string) (bool, error) {
	c.calls++
	return c.fresh, nil
}

func courierSource(t *testing.T) memSource {
	t.Helper()
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	col := func(name string, values ...any) frame.Column {
		return frame.Column{Name: name, Values: values}
	}
	must := func(cols ...frame.Column) *frame.Frame {
		f, err := frame.FromColumns(cols)
		if err != nil {
			t.Fatalf("fixture: %v", err)
		}
		return f
	}

	return memSource{
		"ciudad": must(
			col("ciudad_id", int64(1)),
			col("nombre", "Cali"),
		),
		"sede": must(
			col("sede_id", int64(1)),
			col("nombre", "Sede Norte"),
			col("ciudad_id", int64(1)),
		),
		"cliente": must(
			col("cliente_id", int64(1), int64(2)),
			col("nombre", "Acme", "Globex"),
		),
		"auth_user": must(
			col("id", int64(10), int64(11)),
			col("first_name", "Ana", "Mario"),
			col("last_name", "Diaz", "Rojas"),
			col("username", "adiaz", "mrojas"),
		),
		"clientes_mensajeroaquitoy": must(
			col("id", int64(7), int64(9)),
			col("user_id", int64(10), int64(11)),
		),
		"clientes_usuarioaquitoy": must(
			col("id", int64(50)),
			col("cliente_id", int64(1)),
			col("sede_id", int64(1)),
		),
		// Service 3 has no requesting user, so its branch key cannot
		// resolve and cleaning drops it.
		"mensajeria_servicio": must(
			col("id", int64(1), int64(2), int64(3)),
			col("cliente_id", int64(1), int64(2), int64(1)),
			col("usuario_id", int64(50), int64(50), nil),
			col("mensajero_id", int64(7), int64(7), int64(7)),
			col("mensajero2_id", nil, int64(9), nil),
			col("mensajero3_id", nil, nil, nil),
			col("fecha_solicitud", day, day, day),
			col("hora_solicitud",
				8*time.Hour+30*time.Minute,
				9*time.Hour+15*time.Minute,
				10*time.Hour),
		),
		"mensajeria_estadosservicio": must(
			col("servicio_id",
				int64(1), int64(1), int64(1), int64(1),
				int64(2), int64(2), int64(2), int64(2),
				int64(3), int64(3), int64(3), int64(3)),
			col("estado_id",
				int64(1), int64(2), int64(4), int64(5),
				int64(1), int64(2), int64(4), int64(5),
				int64(1), int64(2), int64(4), int64(5)),
			col("fecha",
				day, day, day, day, day, day, day, day, day, day, day, day),
			col("hora",
				8*time.Hour+40*time.Minute, 9*time.Hour,
				9*time.Hour+30*time.Minute, 10*time.Hour,
				9*time.Hour+30*time.Minute, 9*time.Hour+45*time.Minute,
				10*time.Hour+15*time.Minute, 10*time.Hour+45*time.Minute,
				10*time.Hour+10*time.Minute, 10*time.Hour+20*time.Minute,
				10*time.Hour+40*time.Minute, 11*time.Hour),
		),
		"mensajeria_novedadesservicio": must(
			col("servicio_id", int64(1)),
			col("tipo_novedad_id", int64(1)),
		),
	}
}

func courierPipeline(t *testing.T, warehouse *memWarehouse, watermark *memWatermark) *Pipeline {
	t.Helper()
	m, err := marts.Get("courier")
	if err != nil {
		t.Fatalf("courier mart not registered: %v", err)
	}
	return &Pipeline{
		Source:    courierSource(t),
		Target:    warehouse,
		Watermark: watermark,
		Mart:      m,
		Options: Options{
			LoadDimensions: true,
			ApplyCleaning:  true,
			Locale:         calendar.Spanish(),
			ReportWriter:   io.Discard,
		},
	}
}

func TestRunProvisionsEmptyTarget(t *testing.T) {
	warehouse := newMemWarehouse()
	p := courierPipeline(t, warehouse, &memWatermark{fresh: true})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	found := false
	for _, name := range warehouse.provisioned {
		if name == "hecho_servicios" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected hecho_servicios in provisioned tables, got %v", warehouse.provisioned)
	}
}

func TestRunEndToEnd(t *testing.T) {
	warehouse := newMemWarehouse()
	p := courierPipeline(t, warehouse, &memWatermark{fresh: true})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Mar 1 through Dec 31 2024 is 306 days of 24 hourly rows.
	dimTiempo := warehouse.tables["dim_tiempo"]
	if dimTiempo == nil {
		t.Fatal("dim_tiempo not loaded")
	}
	if dimTiempo.Len() != 306*24 {
		t.Errorf("dim_tiempo rows = %d, want %d", dimTiempo.Len(), 306*24)
	}
	if !dimTiempo.HasColumn("key_dim_tiempo") {
		t.Error("dim_tiempo should carry store-assigned keys")
	}

	fact := warehouse.tables["hecho_servicios"]
	if fact == nil {
		t.Fatal("hecho_servicios not loaded")
	}
	// Service 3 lost its branch key and was cleaned away.
	if fact.Len() != 2 {
		t.Fatalf("Expected 2 fact rows after cleaning, got %d", fact.Len())
	}
	ids, _ := fact.Column("id_servicio")
	if ids[0] != int64(1) || ids[1] != int64(2) {
		t.Errorf("Surviving services = %v, want [1 2]", ids)
	}

	totals, _ := fact.Column("tiempo_total_espera")
	if totals[0] != "0 days 01:30:00" {
		t.Errorf("Service 1 total wait = %v, want 0 days 01:30:00", totals[0])
	}
	tipo1, _ := fact.Column("cantidad_novedades_tipo_1")
	if tipo1[0] != int64(1) || tipo1[1] != int64(0) {
		t.Errorf("Incident counts = %v, want [1 0]", tipo1)
	}
}

func TestRunNoNewData(t *testing.T) {
	warehouse := newMemWarehouse()
	watermark := &memWatermark{fresh: false}
	p := courierPipeline(t, warehouse, watermark)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run should treat stale data as success, got: %v", err)
	}
	if watermark.calls != 1 {
		t.Errorf("Watermark checked %d times, want 1", watermark.calls)
	}
	if warehouse.tables["hecho_servicios"] != nil {
		t.Error("No tables should load when there is no new data")
	}
}

func TestRunAppendsFactsOnRepeat(t *testing.T) {
	warehouse := newMemWarehouse()
	p := courierPipeline(t, warehouse, &memWatermark{fresh: true})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	p.Options.LoadDimensions = false
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	fact := warehouse.tables["hecho_servicios"]
	if fact.Len() != 4 {
		t.Errorf("Facts should append across runs: got %d rows, want 4", fact.Len())
	}
}

func TestRunWithoutCleaning(t *testing.T) {
	warehouse := newMemWarehouse()
	p := courierPipeline(t, warehouse, &memWatermark{fresh: true})
	p.Options.ApplyCleaning = false

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	fact := warehouse.tables["hecho_servicios"]
	if fact.Len() != 3 {
		t.Errorf("Without cleaning all 3 events load, got %d", fact.Len())
	}
}
