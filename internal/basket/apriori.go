//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package basket mines frequently co-occurring item sets from transaction
// baskets with the classic levelwise apriori algorithm. In the clinical
// mart a basket is the set of medications on one prescription.
package basket

import (
	"sort"
	"strings"
)

// Itemset is a frequently co-occurring set of items. Items are sorted.
type Itemset struct {
	Items   []string
	Support float64
}

// Key returns the canonical comma-joined form of the itemset.
func (s Itemset) Key() string {
	return strings.Join(s.Items, ",")
}

// Mine discovers all itemsets whose support (fraction of baskets
// containing every item of the set) is at least minSupport. Duplicate
// items within a basket count once. Results are ordered by size, then
// lexicographically.
func Mine(baskets [][]string, minSupport float64) []Itemset {
	if len(baskets) == 0 || minSupport <= 0 {
		return nil
	}

	sets := make([]map[string]struct{}, len(baskets))
	for i, b := range baskets {
		set := make(map[string]struct{}, len(b))
		for _, item := range b {
			set[item] = struct{}{}
		}
		sets[i] = set
	}
	total := float64(len(baskets))

	// Level 1: single items.
	counts := make(map[string]int)
	for _, set := range sets {
		for item := range set {
			counts[item]++
		}
	}
	var frequent []Itemset
	var level [][]string
	for item, n := range counts {
		if sup := float64(n) / total; sup >= minSupport {
			frequent = append(frequent, Itemset{Items: []string{item}, Support: sup})
			level = append(level, []string{item})
		}
	}

	// Level k: join (k-1)-itemsets sharing a prefix, count, prune.
	for len(level) > 1 {
		sortLevel(level)
		var next [][]string
		for i := 0; i < len(level); i++ {
			for j := i + 1; j < len(level); j++ {
				cand, ok := joinPrefix(level[i], level[j])
				if !ok {
					break
				}
				n := 0
				for _, set := range sets {
					if containsAll(set, cand) {
						n++
					}
				}
				if sup := float64(n) / total; sup >= minSupport {
					frequent = append(frequent, Itemset{Items: cand, Support: sup})
					next = append(next, cand)
				}
			}
		}
		level = next
	}

	sort.Slice(frequent, func(i, j int) bool {
		if len(frequent[i].Items) != len(frequent[j].Items) {
			return len(frequent[i].Items) < len(frequent[j].Items)
		}
		return frequent[i].Key() < frequent[j].Key()
	})
	return frequent
}

// FilterPatterns keeps the itemsets of at least minSize items and at least
// minSupport support.
func FilterPatterns(sets []Itemset, minSize int, minSupport float64) []Itemset {
	var out []Itemset
	for _, s := range sets {
		if len(s.Items) >= minSize && s.Support >= minSupport {
			out = append(out, s)
		}
	}
	return out
}

// joinPrefix merges two sorted k-itemsets sharing their first k-1 items
// into a (k+1)-candidate.
func joinPrefix(a, b []string) ([]string, bool) {
	k := len(a)
	for i := 0; i < k-1; i++ {
		if a[i] != b[i] {
			return nil, false
		}
	}
	if a[k-1] >= b[k-1] {
		return nil, false
	}
	cand := make([]string, k+1)
	copy(cand, a)
	cand[k] = b[k-1]
	return cand, true
}

func containsAll(set map[string]struct{}, items []string) bool {
	for _, item := range items {
		if _, ok := set[item]; !ok {
			return false
		}
	}
	return true
}

func sortLevel(level [][]string) {
	sort.Slice(level, func(i, j int) bool {
		return strings.Join(level[i], ",") < strings.Join(level[j], ",")
	})
}
