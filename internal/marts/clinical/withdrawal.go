//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package clinical

import (
	"sort"
	"time"

	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/marts"
)

const (
	originCancellation = "cancelacion"
	originInferred     = "inferido"
)

func buildWithdrawalFactSpec(sources, dims []*frame.Frame, opts marts.BuildOptions) (*marts.FactResult, error) {
	fact, err := BuildWithdrawalFact(sources[0], sources[1], dims[0], dims[1],
		opts.ChurnMonths, opts.Now)
	if err != nil {
		return nil, err
	}
	return &marts.FactResult{Fact: fact}, nil
}

// BuildWithdrawalFact assembles hecho_retiros: members with an explicit
// cancellation, plus members whose last payment is older than churnMonths
// 30-day months at the reference instant. An explicit cancellation
// supersedes the inferred row for the same member; inferred rows carry the
// last payment date.
func BuildWithdrawalFact(pago, cancelacion, dimPersona, dimFecha *frame.Frame,
	churnMonths int, now time.Time) (*frame.Frame, error) {

	lastPaid, err := lastPayments(pago)
	if err != nil {
		return nil, err
	}

	cCedulas, err := cancelacion.Column("cedula")
	if err != nil {
		return nil, err
	}
	cFechas, err := cancelacion.Column("fecha")
	if err != nil {
		return nil, err
	}

	var cedulas, fechas, origenes []any
	cancelled := make(map[string]struct{}, len(cCedulas))
	for i := range cCedulas {
		if cCedulas[i] == nil {
			continue
		}
		cedula, err := frame.StringCell("cedula", cCedulas[i])
		if err != nil {
			return nil, err
		}
		cancelled[cedula] = struct{}{}
		cedulas = append(cedulas, cedula)
		fechas = append(fechas, cFechas[i])
		origenes = append(origenes, originCancellation)
	}

	threshold := time.Duration(churnMonths) * 30 * 24 * time.Hour
	churned := make([]string, 0)
	for cedula, last := range lastPaid {
		if _, ok := cancelled[cedula]; ok {
			continue
		}
		if now.Sub(last) > threshold {
			churned = append(churned, cedula)
		}
	}
	sort.Strings(churned)
	for _, cedula := range churned {
		cedulas = append(cedulas, cedula)
		fechas = append(fechas, lastPaid[cedula])
		origenes = append(origenes, originInferred)
	}

	work, err := frame.FromColumns([]frame.Column{
		{Name: "cedula", Values: cedulas},
		{Name: "fecha", Values: fechas},
		{Name: "retirado", Values: repeat(true, len(cedulas))},
		{Name: "origen", Values: origenes},
	})
	if err != nil {
		return nil, err
	}
	n := work.Len()

	joined, err := work.LeftJoin(dimPersona, frame.On("cedula", "id_persona"),
		[]string{"cedula", "fecha", "retirado", "origen", "key_dim_persona"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_persona", n, joined.Len()); err != nil {
		return nil, err
	}

	joined, err = joined.LeftJoin(dimFecha, frame.On("fecha", "fecha"),
		[]string{"retirado", "origen", "key_dim_persona", "key_dim_fecha"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_fecha", n, joined.Len()); err != nil {
		return nil, err
	}

	return joined.Project("key_dim_persona", "key_dim_fecha", "retirado", "origen")
}

// lastPayments reduces the payment log to the most recent payment date per
// member. Rows with a null cedula or date are ignored.
func lastPayments(pago *frame.Frame) (map[string]time.Time, error) {
	cedulas, err := pago.Column("cedula")
	if err != nil {
		return nil, err
	}
	fechas, err := pago.Column("fecha_pago")
	if err != nil {
		return nil, err
	}

	last := make(map[string]time.Time)
	for i := range cedulas {
		if cedulas[i] == nil || fechas[i] == nil {
			continue
		}
		cedula, err := frame.StringCell("cedula", cedulas[i])
		if err != nil {
			return nil, err
		}
		t, err := frame.TimeCell("fecha_pago", fechas[i])
		if err != nil {
			return nil, err
		}
		if cur, ok := last[cedula]; !ok || t.After(cur) {
			last[cedula] = t
		}
	}
	return last, nil
}
