//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package frame

import "strings"

// JoinKey pairs a left-frame column with the right-frame column it joins on.
type JoinKey struct {
	Left  string
	Right string
}

// On is shorthand for a single equi-join key.
func On(left, right string) []JoinKey {
	return []JoinKey{{Left: left, Right: right}}
}

// LeftJoin hash-joins f against right on the given keys and returns a new
// frame holding the named projection columns. Each projection name is
// resolved against the left frame first, then the right. Left rows without
// a match are kept with null right-side cells; rows are never dropped. A
// null join key never matches. Matching right rows fan out; output
// preserves left row order.
func (f *Frame) LeftJoin(right *Frame, on []JoinKey, project []string) (*Frame, error) {
	return f.join(right, on, project, true)
}

// InnerJoin is LeftJoin without the null-padded rows: left rows with no
// match are dropped.
func (f *Frame) InnerJoin(right *Frame, on []JoinKey, project []string) (*Frame, error) {
	return f.join(right, on, project, false)
}

func (f *Frame) join(right *Frame, on []JoinKey, project []string, outer bool) (*Frame, error) {
	leftKeys := make([][]any, len(on))
	rightKeys := make([][]any, len(on))
	for k, jk := range on {
		col, err := f.Column(jk.Left)
		if err != nil {
			return nil, err
		}
		leftKeys[k] = col
		col, err = right.Column(jk.Right)
		if err != nil {
			return nil, err
		}
		rightKeys[k] = col
	}

	// Output column sources, left frame shadowing the right.
	type source struct {
		fromLeft bool
		values   []any
	}
	sources := make([]source, len(project))
	for c, name := range project {
		if col, ok := f.cols[name]; ok {
			sources[c] = source{fromLeft: true, values: col}
		} else if col, ok := right.cols[name]; ok {
			sources[c] = source{values: col}
		} else {
			return nil, &MissingColumnError{Column: name}
		}
	}

	index := make(map[string][]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		key, ok := joinKey(rightKeys, i)
		if !ok {
			continue
		}
		index[key] = append(index[key], i)
	}

	out := make([][]any, len(project))
	for c := range out {
		out[c] = make([]any, 0, f.Len())
	}
	emit := func(li, ri int) {
		for c, src := range sources {
			if src.fromLeft {
				out[c] = append(out[c], src.values[li])
			} else if ri < 0 {
				out[c] = append(out[c], nil)
			} else {
				out[c] = append(out[c], src.values[ri])
			}
		}
	}

	for i := 0; i < f.Len(); i++ {
		key, ok := joinKey(leftKeys, i)
		var matches []int
		if ok {
			matches = index[key]
		}
		if len(matches) == 0 {
			if outer {
				emit(i, -1)
			}
			continue
		}
		for _, ri := range matches {
			emit(i, ri)
		}
	}

	result := New()
	for c, name := range project {
		if err := result.addColumn(name, out[c]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// joinKey builds the composite key for row i; ok is false when any key
// cell is null.
func joinKey(keys [][]any, i int) (string, bool) {
	var b strings.Builder
	for _, col := range keys {
		if col[i] == nil {
			return "", false
		}
		b.WriteString(cellKey(col[i]))
		b.WriteByte(0x1f)
	}
	return b.String(), true
}

// RequireSameRows returns a JoinCardinalityError when a join intended to be
// row-preserving changed the row count.
func RequireSameRows(stage string, before, after int) error {
	if before != after {
		return &JoinCardinalityError{Stage: stage, Before: before, After: after}
	}
	return nil
}
