package clinical

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openmart/martctl/internal/frame"
)

func attentionSource(t *testing.T, idColumn string, id int64, cedula any, costo float64) *frame.Frame {
	t.Helper()
	return mustFrame(t, []frame.Column{
		{Name: idColumn, Values: []any{id}},
		{Name: "cedula", Values: []any{cedula}},
		{Name: "ips_id", Values: []any{int64(1)}},
		{Name: "medico_cedula", Values: []any{"MD1"}},
		{Name: "fecha", Values: []any{date(2024, time.June, 10)}},
		{Name: "codigo_cie", Values: []any{"CIE001"}},
		{Name: "costo", Values: []any{decimal.NewFromFloat(costo)}},
	})
}

func attentionDims(t *testing.T) []*frame.Frame {
	t.Helper()
	dimPersona := mustFrame(t, []frame.Column{
		{Name: "key_dim_persona", Values: []any{int64(10), int64(11)}},
		{Name: "id_persona", Values: []any{"CC1", "CC2"}},
	})
	dimIps := mustFrame(t, []frame.Column{
		{Name: "key_dim_ips", Values: []any{int64(20)}},
		{Name: "id_ips", Values: []any{int64(1)}},
	})
	dimMedico := mustFrame(t, []frame.Column{
		{Name: "key_dim_medico", Values: []any{int64(30)}},
		{Name: "id_medico", Values: []any{"MD1"}},
	})
	dimServicio := mustFrame(t, []frame.Column{
		{Name: "key_dim_servicio", Values: []any{int64(41), int64(42), int64(43)}},
		{Name: "id_tipo_servicio", Values: []any{int64(1), int64(2), int64(3)}},
	})
	dimDiagnostico := mustFrame(t, []frame.Column{
		{Name: "key_dim_diagnostico", Values: []any{int64(50)}},
		{Name: "codigo_cie", Values: []any{"CIE001"}},
	})
	dimDemografia := mustFrame(t, []frame.Column{
		{Name: "key_dim_demografia", Values: []any{int64(60)}},
		{Name: "id_persona", Values: []any{"CC1"}},
	})
	dimFecha := mustFrame(t, []frame.Column{
		{Name: "key_dim_fecha", Values: []any{int64(70)}},
		{Name: "fecha", Values: []any{date(2024, time.June, 10)}},
	})
	return []*frame.Frame{
		dimPersona, dimIps, dimMedico, dimServicio,
		dimDiagnostico, dimDemografia, dimFecha,
	}
}

func TestBuildAttentionFact(t *testing.T) {
	urgencia := attentionSource(t, "urgencia_id", 1, "CC1", 500)
	hospitalizacion := attentionSource(t, "hospitalizacion_id", 2, "CC2", 3000)
	consulta := attentionSource(t, "consulta_id", 3, "CC1", 45.50)
	dims := attentionDims(t)

	fact, err := BuildAttentionFact(urgencia, hospitalizacion, consulta,
		dims[0], dims[1], dims[2], dims[3], dims[4], dims[5], dims[6])
	if err != nil {
		t.Fatalf("BuildAttentionFact failed: %v", err)
	}

	if fact.Len() != 3 {
		t.Fatalf("Expected 3 unioned rows, got %d", fact.Len())
	}

	// Union order is urgencia, hospitalizacion, consulta; the service
	// dimension key must reflect the originating table.
	servKeys, _ := fact.Column("key_dim_servicio")
	if servKeys[0] != int64(41) || servKeys[1] != int64(42) || servKeys[2] != int64(43) {
		t.Errorf("Service keys = %v, want [41 42 43]", servKeys)
	}

	personKeys, _ := fact.Column("key_dim_persona")
	if personKeys[0] != int64(10) || personKeys[1] != int64(11) || personKeys[2] != int64(10) {
		t.Errorf("Person keys = %v, want [10 11 10]", personKeys)
	}

	// CC2 has no demographics row: null key, fact row kept.
	demoKeys, _ := fact.Column("key_dim_demografia")
	if demoKeys[0] != int64(60) || demoKeys[1] != nil {
		t.Errorf("Demographics keys = %v, want [60 <nil> 60]", demoKeys)
	}

	costos, _ := fact.Column("costo")
	if !costos[2].(decimal.Decimal).Equal(decimal.NewFromFloat(45.50)) {
		t.Errorf("Consultation cost = %v, want 45.5", costos[2])
	}

	ids, _ := fact.Column("id_atencion")
	if ids[0] != int64(1) || ids[1] != int64(2) || ids[2] != int64(3) {
		t.Errorf("Attention ids = %v, want [1 2 3]", ids)
	}
}

func TestBuildAttentionFactUnresolvedKeys(t *testing.T) {
	urgencia := attentionSource(t, "urgencia_id", 1, nil, 100)
	hospitalizacion := attentionSource(t, "hospitalizacion_id", 2, "GHOST", 100)
	consulta := attentionSource(t, "consulta_id", 3, "CC1", 100)
	dims := attentionDims(t)

	fact, err := BuildAttentionFact(urgencia, hospitalizacion, consulta,
		dims[0], dims[1], dims[2], dims[3], dims[4], dims[5], dims[6])
	if err != nil {
		t.Fatalf("BuildAttentionFact failed: %v", err)
	}

	personKeys, _ := fact.Column("key_dim_persona")
	if personKeys[0] != nil {
		t.Errorf("Null cedula should yield null person key, got %v", personKeys[0])
	}
	if personKeys[1] != nil {
		t.Errorf("Unknown cedula should yield null person key, got %v", personKeys[1])
	}
	if fact.Len() != 3 {
		t.Errorf("Unresolved rows must be kept for cleaning, got %d rows", fact.Len())
	}
}
