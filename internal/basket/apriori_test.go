package basket

import (
	"math"
	"testing"
)

func supportOf(t *testing.T, sets []Itemset, key string) (float64, bool) {
	t.Helper()
	for _, s := range sets {
		if s.Key() == key {
			return s.Support, true
		}
	}
	return 0, false
}

func TestMineSingleItems(t *testing.T) {
	baskets := [][]string{
		{"A", "B"},
		{"A"},
		{"A", "C"},
		{"B"},
	}

	sets := Mine(baskets, 0.25)

	sup, ok := supportOf(t, sets, "A")
	if !ok || math.Abs(sup-0.75) > 1e-9 {
		t.Errorf("A support = %v (found=%v), want 0.75", sup, ok)
	}
	sup, ok = supportOf(t, sets, "B")
	if !ok || math.Abs(sup-0.5) > 1e-9 {
		t.Errorf("B support = %v (found=%v), want 0.5", sup, ok)
	}
	if _, ok := supportOf(t, sets, "C"); !ok {
		t.Error("C (support 0.25) should meet the threshold")
	}
}

func TestMinePairsAndTriples(t *testing.T) {
	// A,B together in 3/4; A,B,C in 2/4
	baskets := [][]string{
		{"A", "B", "C"},
		{"A", "B", "C"},
		{"A", "B"},
		{"D"},
	}

	sets := Mine(baskets, 0.5)

	sup, ok := supportOf(t, sets, "A,B")
	if !ok || math.Abs(sup-0.75) > 1e-9 {
		t.Errorf("A,B support = %v (found=%v), want 0.75", sup, ok)
	}
	sup, ok = supportOf(t, sets, "A,B,C")
	if !ok || math.Abs(sup-0.5) > 1e-9 {
		t.Errorf("A,B,C support = %v (found=%v), want 0.5", sup, ok)
	}
	if _, ok := supportOf(t, sets, "D"); ok {
		t.Error("D (support 0.25) should be below the threshold")
	}
}

func TestMineDuplicateItemsCountOnce(t *testing.T) {
	baskets := [][]string{
		{"A", "A", "A"},
		{"B"},
	}
	sets := Mine(baskets, 0.4)
	sup, ok := supportOf(t, sets, "A")
	if !ok || math.Abs(sup-0.5) > 1e-9 {
		t.Errorf("A support = %v, want 0.5 (duplicates count once)", sup)
	}
}

func TestMineEmpty(t *testing.T) {
	if sets := Mine(nil, 0.1); sets != nil {
		t.Errorf("Expected nil for no baskets, got %v", sets)
	}
	if sets := Mine([][]string{{"A"}}, 0); sets != nil {
		t.Errorf("Expected nil for zero support, got %v", sets)
	}
}

func TestMineDeterministicOrder(t *testing.T) {
	baskets := [][]string{
		{"B", "A"},
		{"A", "B"},
	}
	sets := Mine(baskets, 0.5)
	if len(sets) != 3 {
		t.Fatalf("Expected 3 itemsets, got %d", len(sets))
	}
	if sets[0].Key() != "A" || sets[1].Key() != "B" || sets[2].Key() != "A,B" {
		t.Errorf("Order mismatch: %v, %v, %v", sets[0].Key(), sets[1].Key(), sets[2].Key())
	}
}

func TestFilterPatterns(t *testing.T) {
	sets := []Itemset{
		{Items: []string{"A"}, Support: 0.9},
		{Items: []string{"A", "B"}, Support: 0.06},
		{Items: []string{"A", "C"}, Support: 0.04},
		{Items: []string{"A", "B", "C"}, Support: 0.03},
	}

	out := FilterPatterns(sets, 2, 0.05)

	if len(out) != 1 {
		t.Fatalf("Expected exactly 1 surviving itemset, got %d", len(out))
	}
	if out[0].Key() != "A,B" {
		t.Errorf("Expected A,B to survive, got %v", out[0].Key())
	}
}

func TestFilterPatternsSingletonsAlwaysDropped(t *testing.T) {
	sets := []Itemset{{Items: []string{"A"}, Support: 1.0}}
	if out := FilterPatterns(sets, 2, 0.05); len(out) != 0 {
		t.Errorf("Singletons must never survive, got %v", out)
	}
}
