//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package frame implements the row-oriented tabular value passed between
// every pipeline stage: named columns of equal length, rows aligned by
// position. Frames are treated as immutable; every operation returns a new
// frame and never modifies its receiver or arguments.
//
// Cell values are restricted to nil (null), int64, float64, string, bool,
// time.Time, time.Duration (time of day) and decimal.Decimal.
package frame

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column is a named sequence of cells, used to construct frames.
type Column struct {
	Name   string
	Values []any
}

// Frame is a set of uniquely named, equal-length columns.
type Frame struct {
	names []string
	cols  map[string][]any
}

// New returns an empty frame with no columns and no rows.
func New() *Frame {
	return &Frame{cols: make(map[string][]any)}
}

// FromColumns builds a frame from the given columns in order.
func FromColumns(cols []Column) (*Frame, error) {
	f := New()
	for _, c := range cols {
		if err := f.addColumn(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.names) == 0 {
		return 0
	}
	return len(f.cols[f.names[0]])
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the cells of the named column. The returned slice is a
// view into the frame and must not be modified.
func (f *Frame) Column(name string) ([]any, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	return col, nil
}

// Row returns the cells of row i in column order.
func (f *Frame) Row(i int) []any {
	out := make([]any, len(f.names))
	for c, name := range f.names {
		out[c] = f.cols[name][i]
	}
	return out
}

// addColumn appends a column in place. Internal: construction only.
func (f *Frame) addColumn(name string, values []any) error {
	if _, ok := f.cols[name]; ok {
		return fmt.Errorf("duplicate column %q", name)
	}
	if len(f.names) > 0 && len(values) != f.Len() {
		return fmt.Errorf("column %q has %d values, frame has %d rows",
			name, len(values), f.Len())
	}
	f.names = append(f.names, name)
	f.cols[name] = values
	return nil
}

// WithColumn returns a new frame with the named column appended.
func (f *Frame) WithColumn(name string, values []any) (*Frame, error) {
	out := f.shallowCopy()
	if err := out.addColumn(name, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Project returns a new frame containing exactly the named columns, in the
// given order. Every name must exist.
func (f *Frame) Project(names ...string) (*Frame, error) {
	out := New()
	for _, name := range names {
		col, ok := f.cols[name]
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		if err := out.addColumn(name, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Rename returns a new frame with column old renamed to new.
func (f *Frame) Rename(old, new string) (*Frame, error) {
	col, ok := f.cols[old]
	if !ok {
		return nil, &MissingColumnError{Column: old}
	}
	if _, ok := f.cols[new]; ok && new != old {
		return nil, fmt.Errorf("rename %q: column %q already exists", old, new)
	}
	out := New()
	for _, name := range f.names {
		target := name
		if name == old {
			target = new
		}
		values := col
		if name != old {
			values = f.cols[name]
		}
		if err := out.addColumn(target, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Filter returns a new frame containing the rows for which keep returns
// true, in their original order.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	idx := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// Distinct returns a new frame with exact-duplicate rows removed, keeping
// the first occurrence of each row.
func (f *Frame) Distinct() *Frame {
	seen := make(map[string]struct{}, f.Len())
	idx := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		key := f.rowKey(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		idx = append(idx, i)
	}
	return f.take(idx)
}

// Append returns a new frame with the rows of other appended. Both frames
// must have the same column set; the receiver's column order wins.
func (f *Frame) Append(other *Frame) (*Frame, error) {
	if len(f.names) != len(other.names) {
		return nil, fmt.Errorf("append: column count mismatch (%d vs %d)",
			len(f.names), len(other.names))
	}
	out := New()
	for _, name := range f.names {
		right, ok := other.cols[name]
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		merged := make([]any, 0, f.Len()+other.Len())
		merged = append(merged, f.cols[name]...)
		merged = append(merged, right...)
		if err := out.addColumn(name, merged); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (f *Frame) shallowCopy() *Frame {
	out := New()
	for _, name := range f.names {
		// column slices are shared; frames never mutate them
		out.names = append(out.names, name)
		out.cols[name] = f.cols[name]
	}
	return out
}

func (f *Frame) take(idx []int) *Frame {
	out := New()
	for _, name := range f.names {
		src := f.cols[name]
		col := make([]any, len(idx))
		for n, i := range idx {
			col[n] = src[i]
		}
		out.names = append(out.names, name)
		out.cols[name] = col
	}
	return out
}

// rowKey builds a canonical string for the full row, used for Distinct.
func (f *Frame) rowKey(i int) string {
	var b strings.Builder
	for _, name := range f.names {
		b.WriteString(cellKey(f.cols[name][i]))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// cellKey builds a canonical string for one cell. Values of different
// dynamic types never collide.
func cellKey(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00"
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return "d:" + x.String()
	case decimal.Decimal:
		return "n:" + x.String()
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}
