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
	"fmt"
	"time"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/frame"
)

// BuildProviderDimension produces dim_ips.
func BuildProviderDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("ips_id", "nombre", "ciudad", "nivel")
	if err != nil {
		return nil, err
	}
	dim, err = dim.Rename("ips_id", "id_ips")
	if err != nil {
		return nil, err
	}
	return dim.Rename("nombre", "nombre_ips")
}

// BuildPersonDimension produces dim_persona: the union of contributing
// members and their beneficiaries. A contributor's family group is their
// own cedula; a beneficiary's is their contributor's.
func BuildPersonDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	cotizante, beneficiario := sources[0], sources[1]

	cedulas, err := cotizante.Column("cedula")
	if err != nil {
		return nil, err
	}
	nombres, err := cotizante.Column("nombre")
	if err != nil {
		return nil, err
	}
	contributors, err := frame.FromColumns([]frame.Column{
		{Name: "id_persona", Values: cedulas},
		{Name: "nombre", Values: nombres},
		{Name: "tipo_afiliado", Values: repeat("cotizante", len(cedulas))},
		{Name: "grupo_familiar", Values: cedulas},
	})
	if err != nil {
		return nil, err
	}

	bCedulas, err := beneficiario.Column("cedula")
	if err != nil {
		return nil, err
	}
	bNombres, err := beneficiario.Column("nombre")
	if err != nil {
		return nil, err
	}
	groups, err := beneficiario.Column("cotizante_cedula")
	if err != nil {
		return nil, err
	}
	beneficiaries, err := frame.FromColumns([]frame.Column{
		{Name: "id_persona", Values: bCedulas},
		{Name: "nombre", Values: bNombres},
		{Name: "tipo_afiliado", Values: repeat("beneficiario", len(bCedulas))},
		{Name: "grupo_familiar", Values: groups},
	})
	if err != nil {
		return nil, err
	}

	return contributors.Append(beneficiaries)
}

// BuildPhysicianDimension produces dim_medico.
func BuildPhysicianDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("cedula", "nombre", "especialidad")
	if err != nil {
		return nil, err
	}
	dim, err = dim.Rename("cedula", "id_medico")
	if err != nil {
		return nil, err
	}
	return dim.Rename("nombre", "nombre_medico")
}

// BuildServiceTypeDimension produces dim_servicio.
func BuildServiceTypeDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("tipo_servicio_id", "nombre")
	if err != nil {
		return nil, err
	}
	dim, err = dim.Rename("tipo_servicio_id", "id_tipo_servicio")
	if err != nil {
		return nil, err
	}
	return dim.Rename("nombre", "nombre_servicio")
}

// BuildDiagnosisDimension produces dim_diagnostico.
func BuildDiagnosisDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("codigo_cie", "nombre", "categoria")
	if err != nil {
		return nil, err
	}
	return dim.Rename("nombre", "nombre_diagnostico")
}

// BuildDemographicsDimension produces dim_demografia.
func BuildDemographicsDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("cedula", "estrato", "nivel_educativo", "estado_civil")
	if err != nil {
		return nil, err
	}
	return dim.Rename("cedula", "id_persona")
}

// BuildMedicationDimension produces dim_medicamento.
func BuildMedicationDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	dim, err := sources[0].Project("codigo", "nombre", "categoria")
	if err != nil {
		return nil, err
	}
	dim, err = dim.Rename("codigo", "codigo_medicamento")
	if err != nil {
		return nil, err
	}
	return dim.Rename("nombre", "nombre_medicamento")
}

// BuildDateDimension produces dim_fecha: one row per calendar day from the
// earliest attention date through December 31 of the latest attention year.
func BuildDateDimension(sources []*frame.Frame, loc *calendar.Locale) (*frame.Frame, error) {
	var min, max time.Time
	seen := false
	for _, src := range sources {
		fechas, err := src.Column("fecha")
		if err != nil {
			return nil, err
		}
		for _, v := range fechas {
			if v == nil {
				continue
			}
			t, err := frame.TimeCell("fecha", v)
			if err != nil {
				return nil, err
			}
			d := dateOf(t)
			if !seen || d.Before(min) {
				min = d
			}
			if !seen || d.After(max) {
				max = d
			}
			seen = true
		}
	}
	if !seen {
		return nil, fmt.Errorf("dim_fecha: no non-null attention dates")
	}

	end := time.Date(max.Year(), time.December, 31, 0, 0, 0, 0, min.Location())
	var fecha, dia, mes, anio []any
	for d := min; !d.After(end); d = d.AddDate(0, 0, 1) {
		fecha = append(fecha, d)
		dia = append(dia, loc.WeekdayName(d.Weekday()))
		mes = append(mes, loc.MonthName(d.Month()))
		anio = append(anio, int64(d.Year()))
	}
	return frame.FromColumns([]frame.Column{
		{Name: "fecha", Values: fecha},
		{Name: "dia_semana", Values: dia},
		{Name: "mes", Values: mes},
		{Name: "anio", Values: anio},
	})
}

func repeat(v any, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// dateOf truncates a timestamp to midnight, keeping its location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
