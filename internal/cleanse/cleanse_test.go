package cleanse

import (
	"strings"
	"testing"

	"github.com/openmart/martctl/internal/frame"
)

func factFixture(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromColumns([]frame.Column{
		{Name: "id", Values: []any{int64(1), int64(2), int64(3), int64(4)}},
		{Name: "key_a", Values: []any{int64(10), nil, int64(30), int64(40)}},
		{Name: "key_b", Values: []any{int64(1), int64(2), int64(3), int64(4)}},
		{Name: "measure", Values: []any{"0 days 01:00:00", "0 days 02:00:00", nil, "0 days 03:00:00"}},
	})
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return f
}

func TestApplyDropsInOrder(t *testing.T) {
	f := factFixture(t)

	clean, report, err := Apply(f, "fact", []string{"key_a", "key_b"}, []string{"measure"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// row 2 lost to null key, row 3 lost to null measure
	if clean.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", clean.Len())
	}
	ids, _ := clean.Column("id")
	if ids[0] != int64(1) || ids[1] != int64(4) {
		t.Errorf("Wrong surviving rows: %v", ids)
	}

	if report.Initial != 4 || report.AfterKeys != 3 || report.Final != 2 {
		t.Errorf("Report counts wrong: %+v", report)
	}
	if report.RemovedKeys != 1 || report.RemovedMeasures != 1 {
		t.Errorf("Removed counts wrong: %+v", report)
	}
	if report.Coverage() != 50 {
		t.Errorf("Expected 50%% coverage, got %.2f", report.Coverage())
	}
}

func TestApplyIdempotent(t *testing.T) {
	f := factFixture(t)

	once, _, err := Apply(f, "fact", []string{"key_a", "key_b"}, []string{"measure"})
	if err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	twice, report, err := Apply(once, "fact", []string{"key_a", "key_b"}, []string{"measure"})
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}

	if twice.Len() != once.Len() {
		t.Errorf("Second pass changed row count: %d != %d", twice.Len(), once.Len())
	}
	if report.RemovedKeys != 0 || report.RemovedMeasures != 0 {
		t.Errorf("Second pass removed rows: %+v", report)
	}
}

func TestApplyInputUntouched(t *testing.T) {
	f := factFixture(t)
	if _, _, err := Apply(f, "fact", []string{"key_a"}, []string{"measure"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if f.Len() != 4 {
		t.Errorf("Apply modified its input: %d rows", f.Len())
	}
}

func TestApplyMissingColumn(t *testing.T) {
	f := factFixture(t)
	if _, _, err := Apply(f, "fact", []string{"ghost"}, nil); err == nil {
		t.Error("Expected error for missing key column")
	}
	if _, _, err := Apply(f, "fact", nil, []string{"ghost"}); err == nil {
		t.Error("Expected error for missing measure column")
	}
}

func TestApplyEmptyFrame(t *testing.T) {
	f, err := frame.FromColumns([]frame.Column{
		{Name: "key_a", Values: nil},
		{Name: "m", Values: nil},
	})
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	clean, report, err := Apply(f, "fact", []string{"key_a"}, []string{"m"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if clean.Len() != 0 {
		t.Errorf("Expected empty result, got %d rows", clean.Len())
	}
	if report.Coverage() != 100 {
		t.Errorf("Empty input coverage should be 100, got %.2f", report.Coverage())
	}
}

func TestRender(t *testing.T) {
	f := factFixture(t)
	_, report, err := Apply(f, "hecho_servicios", []string{"key_a", "key_b"}, []string{"measure"})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	var sb strings.Builder
	report.Render(&sb)
	out := sb.String()

	for _, want := range []string{"hecho_servicios", "key_a", "measure", "coverage 50.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered report missing %q:\n%s", want, out)
		}
	}
}
