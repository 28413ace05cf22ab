package frame

import (
	"errors"
	"testing"
	"time"
)

func TestLeftJoinBasic(t *testing.T) {
	left := mustFrame(t, []Column{
		{Name: "id", Values: []any{int64(1), int64(2), int64(3)}},
		{Name: "ref", Values: []any{int64(10), int64(20), int64(99)}},
	})
	right := mustFrame(t, []Column{
		{Name: "rid", Values: []any{int64(10), int64(20)}},
		{Name: "label", Values: []any{"ten", "twenty"}},
	})

	out, err := left.LeftJoin(right, On("ref", "rid"), []string{"id", "label"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", out.Len())
	}
	labels, _ := out.Column("label")
	if labels[0] != "ten" || labels[1] != "twenty" || labels[2] != nil {
		t.Errorf("Label mismatch: %v", labels)
	}
}

func TestLeftJoinNeverDropsRows(t *testing.T) {
	left := mustFrame(t, []Column{
		{Name: "k", Values: []any{int64(1), nil, int64(3)}},
	})
	right := mustFrame(t, []Column{
		{Name: "k2", Values: []any{int64(99)}},
		{Name: "v", Values: []any{"x"}},
	})

	out, err := left.LeftJoin(right, On("k", "k2"), []string{"k", "v"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	if out.Len() < left.Len() {
		t.Errorf("Left join dropped rows: %d < %d", out.Len(), left.Len())
	}
}

func TestLeftJoinNullKeyNeverMatches(t *testing.T) {
	left := mustFrame(t, []Column{
		{Name: "k", Values: []any{nil}},
	})
	right := mustFrame(t, []Column{
		{Name: "k2", Values: []any{nil}},
		{Name: "v", Values: []any{"should not match"}},
	})

	out, err := left.LeftJoin(right, On("k", "k2"), []string{"k", "v"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	v, _ := out.Column("v")
	if v[0] != nil {
		t.Errorf("Null keys must not match, got %v", v[0])
	}
}

func TestLeftJoinFanOut(t *testing.T) {
	left := mustFrame(t, []Column{
		{Name: "k", Values: []any{int64(1)}},
	})
	right := mustFrame(t, []Column{
		{Name: "k2", Values: []any{int64(1), int64(1)}},
		{Name: "v", Values: []any{"a", "b"}},
	})

	out, err := left.LeftJoin(right, On("k", "k2"), []string{"k", "v"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	if out.Len() != 2 {
		t.Errorf("Expected fan-out to 2 rows, got %d", out.Len())
	}
}

func TestLeftJoinCompositeKey(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	left := mustFrame(t, []Column{
		{Name: "fecha", Values: []any{d1, d1, d2}},
		{Name: "hora", Values: []any{int64(8), int64(9), int64(8)}},
	})
	right := mustFrame(t, []Column{
		{Name: "fecha_d", Values: []any{d1, d2}},
		{Name: "hora_d", Values: []any{int64(8), int64(8)}},
		{Name: "key", Values: []any{int64(100), int64(200)}},
	})

	out, err := left.LeftJoin(right,
		[]JoinKey{{Left: "fecha", Right: "fecha_d"}, {Left: "hora", Right: "hora_d"}},
		[]string{"fecha", "hora", "key"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	keys, _ := out.Column("key")
	if keys[0] != int64(100) || keys[1] != nil || keys[2] != int64(200) {
		t.Errorf("Composite key join mismatch: %v", keys)
	}
}

func TestLeftJoinProjectionShadowing(t *testing.T) {
	// When both sides carry a projected name, the left values win.
	left := mustFrame(t, []Column{
		{Name: "k", Values: []any{int64(1)}},
		{Name: "name", Values: []any{"left"}},
	})
	right := mustFrame(t, []Column{
		{Name: "k2", Values: []any{int64(1)}},
		{Name: "name", Values: []any{"right"}},
	})

	out, err := left.LeftJoin(right, On("k", "k2"), []string{"k", "name"})
	if err != nil {
		t.Fatalf("LeftJoin failed: %v", err)
	}
	names, _ := out.Column("name")
	if names[0] != "left" {
		t.Errorf("Expected left side to shadow, got %v", names[0])
	}
}

func TestLeftJoinMissingProjection(t *testing.T) {
	left := mustFrame(t, []Column{{Name: "k", Values: []any{int64(1)}}})
	right := mustFrame(t, []Column{{Name: "k2", Values: []any{int64(1)}}})

	_, err := left.LeftJoin(right, On("k", "k2"), []string{"k", "ghost"})
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingColumnError, got %v", err)
	}
}

func TestInnerJoinDropsUnmatched(t *testing.T) {
	left := mustFrame(t, []Column{
		{Name: "k", Values: []any{int64(1), int64(2)}},
	})
	right := mustFrame(t, []Column{
		{Name: "k2", Values: []any{int64(1)}},
		{Name: "v", Values: []any{"a"}},
	})

	out, err := left.InnerJoin(right, On("k", "k2"), []string{"k", "v"})
	if err != nil {
		t.Fatalf("InnerJoin failed: %v", err)
	}
	if out.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", out.Len())
	}
}

func TestRequireSameRows(t *testing.T) {
	if err := RequireSameRows("stage", 5, 5); err != nil {
		t.Errorf("Expected nil for equal counts, got %v", err)
	}
	err := RequireSameRows("stage", 5, 7)
	var card *JoinCardinalityError
	if !errors.As(err, &card) {
		t.Fatalf("Expected JoinCardinalityError, got %v", err)
	}
	if card.Before != 5 || card.After != 7 || card.Stage != "stage" {
		t.Errorf("Error fields mismatch: %+v", card)
	}
}
