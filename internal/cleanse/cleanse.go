//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cleanse drops fact rows that cannot be analyzed: first rows
// missing any dimension surrogate key, then rows missing any measure.
// The order matters; a row without a dimension key is unusable no matter
// how complete its measures are. The per-column diagnostics are reporting
// only and are never persisted.
package cleanse

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/openmart/martctl/internal/frame"
)

// ColumnReport holds null diagnostics for one checked column.
type ColumnReport struct {
	Column  string
	Nulls   int
	Percent float64
}

// Report summarizes both cleaning passes over one fact table.
type Report struct {
	Table           string
	Initial         int
	KeyColumns      []ColumnReport
	AfterKeys       int
	MeasureColumns  []ColumnReport
	Final           int
	RemovedKeys     int
	RemovedMeasures int
}

// Coverage returns the fraction of initial rows that survived, in percent.
func (r *Report) Coverage() float64 {
	if r.Initial == 0 {
		return 100
	}
	return float64(r.Final) / float64(r.Initial) * 100
}

// Apply runs the two drop passes and returns the cleaned frame plus the
// diagnostics. The input frame is not modified. Applying the result again
// removes nothing.
func Apply(f *frame.Frame, table string, keyColumns, measureColumns []string) (*frame.Frame, *Report, error) {
	report := &Report{Table: table, Initial: f.Len()}

	keep, keyStats, err := nullScan(f, keyColumns)
	if err != nil {
		return nil, nil, err
	}
	report.KeyColumns = keyStats
	afterKeys := f.Filter(keep)
	report.AfterKeys = afterKeys.Len()
	report.RemovedKeys = report.Initial - report.AfterKeys

	keep, measureStats, err := nullScan(afterKeys, measureColumns)
	if err != nil {
		return nil, nil, err
	}
	report.MeasureColumns = measureStats
	final := afterKeys.Filter(keep)
	report.Final = final.Len()
	report.RemovedMeasures = report.AfterKeys - report.Final

	return final, report, nil
}

// nullScan counts nulls per column and builds a keep predicate that
// rejects rows with a null in any of the columns.
func nullScan(f *frame.Frame, columns []string) (func(int) bool, []ColumnReport, error) {
	cols := make([][]any, len(columns))
	stats := make([]ColumnReport, len(columns))
	total := f.Len()
	for c, name := range columns {
		col, err := f.Column(name)
		if err != nil {
			return nil, nil, err
		}
		cols[c] = col

		nulls := 0
		for _, v := range col {
			if v == nil {
				nulls++
			}
		}
		pct := 0.0
		if total > 0 {
			pct = float64(nulls) / float64(total) * 100
		}
		stats[c] = ColumnReport{Column: name, Nulls: nulls, Percent: pct}
	}

	keep := func(i int) bool {
		for _, col := range cols {
			if col[i] == nil {
				return false
			}
		}
		return true
	}
	return keep, stats, nil
}

// Render writes the diagnostics as a human-readable table.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Cleaning analysis for %s (%d rows)\n", r.Table, r.Initial)

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Pass", "Column", "Null Rows", "% of Pass Input"})
	for _, c := range r.KeyColumns {
		t.Append([]string{"dimension keys", c.Column,
			fmt.Sprintf("%d", c.Nulls), fmt.Sprintf("%.2f%%", c.Percent)})
	}
	for _, c := range r.MeasureColumns {
		t.Append([]string{"measures", c.Column,
			fmt.Sprintf("%d", c.Nulls), fmt.Sprintf("%.2f%%", c.Percent)})
	}
	t.Render()

	fmt.Fprintf(w, "Removed %d rows with missing dimension keys, %d with missing measures\n",
		r.RemovedKeys, r.RemovedMeasures)
	fmt.Fprintf(w, "Final rows: %d (coverage %.2f%%)\n", r.Final, r.Coverage())
}
