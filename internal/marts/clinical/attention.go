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
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/marts"
)

// Service type codes, part of the tipo_servicio source contract.
const (
	serviceTypeUrgent       = 1
	serviceTypeHospital     = 2
	serviceTypeConsultation = 3
)

func buildAttentionFactSpec(sources, dims []*frame.Frame, _ marts.BuildOptions) (*marts.FactResult, error) {
	fact, err := BuildAttentionFact(sources[0], sources[1], sources[2],
		dims[0], dims[1], dims[2], dims[3], dims[4], dims[5], dims[6])
	if err != nil {
		return nil, err
	}
	return &marts.FactResult{Fact: fact}, nil
}

// BuildAttentionFact unions urgent care, hospitalization and consultation
// events under one schema and swaps their natural keys for surrogate keys.
// One output row per attention; unmatched lookups leave null keys.
func BuildAttentionFact(urgencia, hospitalizacion, consulta,
	dimPersona, dimIps, dimMedico, dimServicio,
	dimDiagnostico, dimDemografia, dimFecha *frame.Frame) (*frame.Frame, error) {

	urgent, err := commonAttentionFrame(urgencia, "urgencia_id", serviceTypeUrgent)
	if err != nil {
		return nil, err
	}
	hospital, err := commonAttentionFrame(hospitalizacion, "hospitalizacion_id", serviceTypeHospital)
	if err != nil {
		return nil, err
	}
	consultations, err := commonAttentionFrame(consulta, "consulta_id", serviceTypeConsultation)
	if err != nil {
		return nil, err
	}

	unified, err := urgent.Append(hospital)
	if err != nil {
		return nil, err
	}
	unified, err = unified.Append(consultations)
	if err != nil {
		return nil, err
	}
	n := unified.Len()

	type lookup struct {
		dim     *frame.Frame
		stage   string
		left    string
		right   string
		keyName string
	}
	lookups := []lookup{
		{dimPersona, "dim_persona", "cedula", "id_persona", "key_dim_persona"},
		{dimDemografia, "dim_demografia", "cedula", "id_persona", "key_dim_demografia"},
		{dimIps, "dim_ips", "ips_id", "id_ips", "key_dim_ips"},
		{dimMedico, "dim_medico", "medico_cedula", "id_medico", "key_dim_medico"},
		{dimServicio, "dim_servicio", "tipo_servicio_id", "id_tipo_servicio", "key_dim_servicio"},
		{dimDiagnostico, "dim_diagnostico", "codigo_cie", "codigo_cie", "key_dim_diagnostico"},
		{dimFecha, "dim_fecha", "fecha", "fecha", "key_dim_fecha"},
	}

	project := unified.Columns()
	joined := unified
	for _, l := range lookups {
		project = append(project, l.keyName)
		joined, err = joined.LeftJoin(l.dim, frame.On(l.left, l.right), project)
		if err != nil {
			return nil, err
		}
		if err := frame.RequireSameRows(l.stage, n, joined.Len()); err != nil {
			return nil, err
		}
	}

	joined, err = joined.Rename("atencion_id", "id_atencion")
	if err != nil {
		return nil, err
	}
	return joined.Project(
		"id_atencion",
		"key_dim_persona", "key_dim_ips", "key_dim_medico", "key_dim_servicio",
		"key_dim_diagnostico", "key_dim_demografia", "key_dim_fecha",
		"costo",
	)
}

// commonAttentionFrame reshapes one attention source onto the shared
// schema, tagging rows with their service type.
func commonAttentionFrame(src *frame.Frame, idColumn string, serviceType int64) (*frame.Frame, error) {
	f, err := src.Project(idColumn, "cedula", "ips_id", "medico_cedula",
		"fecha", "codigo_cie", "costo")
	if err != nil {
		return nil, err
	}
	f, err = f.Rename(idColumn, "atencion_id")
	if err != nil {
		return nil, err
	}
	return f.WithColumn("tipo_servicio_id", repeat(serviceType, f.Len()))
}
