//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package courier

import (
	"fmt"
	"time"

	"github.com/openmart/martctl/internal/calendar"
	"github.com/openmart/martctl/internal/frame"
)

// BuildTimeDimension produces dim_tiempo: one row per (date, hour 0-23)
// from the earliest request date through December 31 of the latest request
// year. Weekday and month names come from the injected locale.
func BuildTimeDimension(sources []*frame.Frame, loc *calendar.Locale) (*frame.Frame, error) {
	servicio := sources[0]
	fechas, err := servicio.Column("fecha_solicitud")
	if err != nil {
		return nil, err
	}

	var min, max time.Time
	seen := false
	for _, v := range fechas {
		if v == nil {
			continue
		}
		t, err := frame.TimeCell("fecha_solicitud", v)
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
	if !seen {
		return nil, fmt.Errorf("dim_tiempo: no non-null request dates in mensajeria_servicio")
	}

	end := time.Date(max.Year(), time.December, 31, 0, 0, 0, 0, min.Location())
	var fecha, hora, dia, mes []any
	for d := min; !d.After(end); d = d.AddDate(0, 0, 1) {
		for h := 0; h < 24; h++ {
			fecha = append(fecha, d)
			hora = append(hora, int64(h))
			dia = append(dia, loc.WeekdayName(d.Weekday()))
			mes = append(mes, loc.MonthName(d.Month()))
		}
	}
	return frame.FromColumns([]frame.Column{
		{Name: "fecha", Values: fecha},
		{Name: "hora_dia", Values: hora},
		{Name: "dia_semana", Values: dia},
		{Name: "mes", Values: mes},
	})
}

// BuildBranchDimension produces dim_sede: sede left-joined with ciudad so
// branches of unknown cities keep a null city name.
func BuildBranchDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	sede, ciudad := sources[0], sources[1]

	cities, err := ciudad.Project("ciudad_id", "nombre")
	if err != nil {
		return nil, err
	}
	cities, err = cities.Rename("nombre", "ciudad")
	if err != nil {
		return nil, err
	}

	branches, err := sede.Project("sede_id", "nombre", "ciudad_id")
	if err != nil {
		return nil, err
	}
	branches, err = branches.Rename("sede_id", "id_sede")
	if err != nil {
		return nil, err
	}
	branches, err = branches.Rename("nombre", "nombre_sede")
	if err != nil {
		return nil, err
	}

	return branches.LeftJoin(cities, frame.On("ciudad_id", "ciudad_id"),
		[]string{"id_sede", "nombre_sede", "ciudad"})
}

// BuildClientDimension produces dim_cliente.
func BuildClientDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	clients, err := sources[0].Project("cliente_id", "nombre")
	if err != nil {
		return nil, err
	}
	clients, err = clients.Rename("cliente_id", "id_cliente")
	if err != nil {
		return nil, err
	}
	return clients.Rename("nombre", "nombre_cliente")
}

// BuildCourierDimension produces dim_mensajero: couriers joined with their
// auth_user account, displayed as "first last (username)".
func BuildCourierDimension(sources []*frame.Frame, _ *calendar.Locale) (*frame.Frame, error) {
	mensajero, user := sources[0], sources[1]

	couriers, err := mensajero.Project("id", "user_id")
	if err != nil {
		return nil, err
	}
	// Left "id" (the courier id) shadows auth_user's "id" in the projection.
	joined, err := couriers.InnerJoin(user, frame.On("user_id", "id"),
		[]string{"id", "first_name", "last_name", "username"})
	if err != nil {
		return nil, err
	}

	ids, _ := joined.Column("id")
	firsts, _ := joined.Column("first_name")
	lasts, _ := joined.Column("last_name")
	usernames, _ := joined.Column("username")

	names := make([]any, joined.Len())
	for i := range names {
		if firsts[i] == nil || lasts[i] == nil || usernames[i] == nil {
			continue
		}
		first, err := frame.StringCell("first_name", firsts[i])
		if err != nil {
			return nil, err
		}
		last, err := frame.StringCell("last_name", lasts[i])
		if err != nil {
			return nil, err
		}
		username, err := frame.StringCell("username", usernames[i])
		if err != nil {
			return nil, err
		}
		names[i] = fmt.Sprintf("%s %s (%s)", first, last, username)
	}

	dim, err := frame.FromColumns([]frame.Column{
		{Name: "id_mensajero", Values: ids},
		{Name: "nombre_mensajero", Values: names},
	})
	if err != nil {
		return nil, err
	}
	return dim.Distinct(), nil
}

// dateOf truncates a timestamp to midnight, keeping its location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
