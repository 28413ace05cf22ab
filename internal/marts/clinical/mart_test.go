package clinical

import "testing"

// The cleaning column lists are the contract between the fact builders and
// the null-drop pass; a fact column missing here silently survives cleaning.
func TestFactCleaningColumns(t *testing.T) {
	facts := New().Facts()

	want := map[string]struct {
		keys     []string
		measures []string
	}{
		"hecho_atenciones": {
			// key_dim_demografia stays out: demographics are optional and
			// must not drop attention rows.
			keys: []string{
				"key_dim_persona", "key_dim_ips", "key_dim_medico",
				"key_dim_servicio", "key_dim_diagnostico", "key_dim_fecha",
			},
			measures: []string{"costo"},
		},
		"hecho_entregas": {
			keys:     []string{"key_dim_persona", "key_dim_ips", "key_dim_fecha"},
			measures: []string{"cantidad_medicamentos", "costo"},
		},
		"hecho_retiros": {
			keys:     []string{"key_dim_persona", "key_dim_fecha"},
			measures: nil,
		},
	}

	if len(facts) != len(want) {
		t.Fatalf("Got %d fact specs, want %d", len(facts), len(want))
	}
	for _, spec := range facts {
		w, ok := want[spec.Table]
		if !ok {
			t.Errorf("Unexpected fact table %q", spec.Table)
			continue
		}
		if !equalStrings(spec.KeyColumns, w.keys) {
			t.Errorf("%s key columns = %v, want %v", spec.Table, spec.KeyColumns, w.keys)
		}
		if !equalStrings(spec.MeasureColumns, w.measures) {
			t.Errorf("%s measure columns = %v, want %v",
				spec.Table, spec.MeasureColumns, w.measures)
		}
	}
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
