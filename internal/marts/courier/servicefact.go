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

	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/marts"
)

// statusTimestamps maps the fixed service status codes to their fact
// columns. Codes are part of the source contract: 1 = iniciado,
// 2 = con mensajero asignado, 4 = recogido, 5 = entregado en destino.
var statusTimestamps = []struct {
	code   int64
	column string
}{
	{1, "estado_1_fecha_hora"},
	{2, "estado_2_fecha_hora"},
	{4, "estado_4_fecha_hora"},
	{5, "estado_5_fecha_hora"},
}

// durationMeasures defines the five wait-time measures as differences
// between status timestamps (and the request timestamp).
var durationMeasures = []struct {
	name  string
	end   string
	start string
}{
	{"tiempo_total_espera", "estado_5_fecha_hora", "fecha_hora_solicitud"},
	{"tiempo_espera_inicial", "estado_1_fecha_hora", "fecha_hora_solicitud"},
	{"tiempo_espera_asignado", "estado_2_fecha_hora", "estado_1_fecha_hora"},
	{"tiempo_espera_recogido", "estado_4_fecha_hora", "estado_2_fecha_hora"},
	{"tiempo_espera_en_destino", "estado_5_fecha_hora", "estado_4_fecha_hora"},
}

// incidentTypes are the tipo_novedad_id values counted per service.
var incidentTypes = []int64{1, 2}

func buildServiceFactSpec(sources, dims []*frame.Frame, _ marts.BuildOptions) (*marts.FactResult, error) {
	fact, err := BuildServiceFact(
		sources[0], sources[1], sources[2], sources[3],
		dims[0], dims[1], dims[2], dims[3],
	)
	if err != nil {
		return nil, err
	}
	return &marts.FactResult{Fact: fact}, nil
}

// BuildServiceFact assembles hecho_servicios from the operational tables
// and the four dimensions. One output row per service event; dimension
// lookups that miss leave null surrogate keys for the cleaning pass.
func BuildServiceFact(servicio, usuarios, estados, novedades,
	dimTiempo, dimSede, dimCliente, dimMensajero *frame.Frame) (*frame.Frame, error) {

	work, err := prepareServices(servicio)
	if err != nil {
		return nil, err
	}

	joined, err := resolveKeys(work, usuarios, dimTiempo, dimSede, dimCliente, dimMensajero)
	if err != nil {
		return nil, err
	}
	joined = joined.Distinct()

	ids, err := joined.Column("id")
	if err != nil {
		return nil, err
	}
	requested, err := joined.Column("fecha_hora_solicitud")
	if err != nil {
		return nil, err
	}

	statusCols, err := pivotStatuses(estados, ids)
	if err != nil {
		return nil, err
	}

	timestamps := map[string][]any{"fecha_hora_solicitud": requested}
	for _, st := range statusTimestamps {
		timestamps[st.column] = statusCols[st.column]
	}

	cols := []frame.Column{{Name: "id_servicio", Values: ids}}
	for _, key := range []string{
		"key_dim_cliente", "key_dim_mensajero", "key_dim_tiempo", "key_dim_sede",
	} {
		col, err := joined.Column(key)
		if err != nil {
			return nil, err
		}
		cols = append(cols, frame.Column{Name: key, Values: col})
	}

	for _, d := range durationMeasures {
		ends := timestamps[d.end]
		starts := timestamps[d.start]
		values := make([]any, len(ids))
		for i := range values {
			if ends[i] == nil || starts[i] == nil {
				continue
			}
			end := ends[i].(time.Time)
			start := starts[i].(time.Time)
			values[i] = formatElapsed(end.Sub(start))
		}
		cols = append(cols, frame.Column{Name: d.name, Values: values})
	}

	incidentCols, err := countIncidents(novedades, ids)
	if err != nil {
		return nil, err
	}
	cols = append(cols, incidentCols...)

	return frame.FromColumns(cols)
}

// prepareServices derives the per-event working columns: the effective
// courier, the combined request timestamp, and the hour-of-day join key.
func prepareServices(servicio *frame.Frame) (*frame.Frame, error) {
	n := servicio.Len()

	var src [7][]any
	for c, name := range []string{
		"id", "cliente_id", "usuario_id",
		"mensajero_id", "mensajero2_id", "mensajero3_id",
		"fecha_solicitud",
	} {
		col, err := servicio.Column(name)
		if err != nil {
			return nil, err
		}
		src[c] = col
	}
	ids, clientes, usuarios := src[0], src[1], src[2]
	m1, m2, m3, fechas := src[3], src[4], src[5], src[6]
	horas, err := servicio.Column("hora_solicitud")
	if err != nil {
		return nil, err
	}

	couriers := make([]any, n)
	hours := make([]any, n)
	requested := make([]any, n)
	for i := 0; i < n; i++ {
		// Last reassignment wins: mensajero3, then mensajero2, then mensajero.
		v := m3[i]
		if v == nil {
			v = m2[i]
		}
		if v == nil {
			v = m1[i]
		}
		couriers[i] = v

		if horas[i] != nil {
			d, err := frame.DurationCell("hora_solicitud", horas[i])
			if err != nil {
				return nil, err
			}
			hours[i] = int64(d / time.Hour)
			if fechas[i] != nil {
				t, err := frame.TimeCell("fecha_solicitud", fechas[i])
				if err != nil {
					return nil, err
				}
				requested[i] = dateOf(t).Add(d)
			}
		}
	}

	return frame.FromColumns([]frame.Column{
		{Name: "id", Values: ids},
		{Name: "cliente_id", Values: clientes},
		{Name: "usuario_id", Values: usuarios},
		{Name: "mensajero_id", Values: couriers},
		{Name: "fecha_solicitud", Values: fechas},
		{Name: "hora_solicitud", Values: hours},
		{Name: "fecha_hora_solicitud", Values: requested},
	})
}

// resolveKeys runs the left-join chain that swaps natural keys for
// surrogate keys. Every join must preserve the row count.
func resolveKeys(work, usuarios, dimTiempo, dimSede, dimCliente, dimMensajero *frame.Frame) (*frame.Frame, error) {
	n := work.Len()

	joined, err := work.LeftJoin(usuarios, frame.On("usuario_id", "id"),
		[]string{"id", "cliente_id", "mensajero_id", "fecha_solicitud",
			"hora_solicitud", "fecha_hora_solicitud", "sede_id"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("clientes_usuarioaquitoy", n, joined.Len()); err != nil {
		return nil, err
	}

	joined, err = joined.LeftJoin(dimTiempo,
		[]frame.JoinKey{
			{Left: "fecha_solicitud", Right: "fecha"},
			{Left: "hora_solicitud", Right: "hora_dia"},
		},
		[]string{"id", "cliente_id", "mensajero_id", "sede_id",
			"fecha_hora_solicitud", "key_dim_tiempo"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_tiempo", n, joined.Len()); err != nil {
		return nil, err
	}

	joined, err = joined.LeftJoin(dimSede, frame.On("sede_id", "id_sede"),
		[]string{"id", "cliente_id", "mensajero_id",
			"fecha_hora_solicitud", "key_dim_tiempo", "key_dim_sede"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_sede", n, joined.Len()); err != nil {
		return nil, err
	}

	joined, err = joined.LeftJoin(dimCliente, frame.On("cliente_id", "id_cliente"),
		[]string{"id", "mensajero_id", "fecha_hora_solicitud",
			"key_dim_tiempo", "key_dim_sede", "key_dim_cliente"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_cliente", n, joined.Len()); err != nil {
		return nil, err
	}

	joined, err = joined.LeftJoin(dimMensajero, frame.On("mensajero_id", "id_mensajero"),
		[]string{"id", "fecha_hora_solicitud", "key_dim_tiempo",
			"key_dim_sede", "key_dim_cliente", "key_dim_mensajero"})
	if err != nil {
		return nil, err
	}
	if err := frame.RequireSameRows("dim_mensajero", n, joined.Len()); err != nil {
		return nil, err
	}
	return joined, nil
}

// pivotStatuses reduces the status log to one timestamp column per status
// code: the latest (fecha + hora) per service. Log rows with a null date
// or time are ignored.
func pivotStatuses(estados *frame.Frame, ids []any) (map[string][]any, error) {
	sids, err := estados.Column("servicio_id")
	if err != nil {
		return nil, err
	}
	codes, err := estados.Column("estado_id")
	if err != nil {
		return nil, err
	}
	fechas, err := estados.Column("fecha")
	if err != nil {
		return nil, err
	}
	horas, err := estados.Column("hora")
	if err != nil {
		return nil, err
	}

	latest := make(map[int64]map[int64]time.Time)
	for i := 0; i < estados.Len(); i++ {
		if sids[i] == nil || codes[i] == nil || fechas[i] == nil || horas[i] == nil {
			continue
		}
		sid, err := frame.Int64Cell("servicio_id", sids[i])
		if err != nil {
			return nil, err
		}
		code, err := frame.Int64Cell("estado_id", codes[i])
		if err != nil {
			return nil, err
		}
		t, err := frame.TimeCell("fecha", fechas[i])
		if err != nil {
			return nil, err
		}
		d, err := frame.DurationCell("hora", horas[i])
		if err != nil {
			return nil, err
		}
		ts := dateOf(t).Add(d)
		if latest[code] == nil {
			latest[code] = make(map[int64]time.Time)
		}
		if cur, ok := latest[code][sid]; !ok || ts.After(cur) {
			latest[code][sid] = ts
		}
	}

	out := make(map[string][]any, len(statusTimestamps))
	for _, st := range statusTimestamps {
		col := make([]any, len(ids))
		for i, id := range ids {
			if id == nil {
				continue
			}
			sid, err := frame.Int64Cell("id_servicio", id)
			if err != nil {
				return nil, err
			}
			if ts, ok := latest[st.code][sid]; ok {
				col[i] = ts
			}
		}
		out[st.column] = col
	}
	return out, nil
}

// countIncidents builds one count column per incident type, zero-filled.
func countIncidents(novedades *frame.Frame, ids []any) ([]frame.Column, error) {
	sids, err := novedades.Column("servicio_id")
	if err != nil {
		return nil, err
	}
	tipos, err := novedades.Column("tipo_novedad_id")
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]map[int64]int64)
	for i := 0; i < novedades.Len(); i++ {
		if sids[i] == nil || tipos[i] == nil {
			continue
		}
		sid, err := frame.Int64Cell("servicio_id", sids[i])
		if err != nil {
			return nil, err
		}
		tipo, err := frame.Int64Cell("tipo_novedad_id", tipos[i])
		if err != nil {
			return nil, err
		}
		if counts[tipo] == nil {
			counts[tipo] = make(map[int64]int64)
		}
		counts[tipo][sid]++
	}

	out := make([]frame.Column, 0, len(incidentTypes))
	for _, tipo := range incidentTypes {
		col := make([]any, len(ids))
		for i, id := range ids {
			col[i] = int64(0)
			if id == nil {
				continue
			}
			sid, err := frame.Int64Cell("id_servicio", id)
			if err != nil {
				return nil, err
			}
			col[i] = counts[tipo][sid]
		}
		out = append(out, frame.Column{
			Name:   fmt.Sprintf("cantidad_novedades_tipo_%d", tipo),
			Values: col,
		})
	}
	return out, nil
}

// formatElapsed renders a duration the way analysts downstream expect:
// "0 days 01:30:00", with negatives floored toward minus infinity as
// "-1 days +22:30:00".
func formatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	if rem < 0 {
		days--
		rem += 86400
	}
	h, m, s := rem/3600, rem%3600/60, rem%60
	if days < 0 {
		return fmt.Sprintf("%d days +%02d:%02d:%02d", days, h, m, s)
	}
	return fmt.Sprintf("%d days %02d:%02d:%02d", days, h, m, s)
}
