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
	"strings"

	"github.com/openmart/martctl/internal/basket"
	"github.com/openmart/martctl/internal/frame"
	"github.com/openmart/martctl/internal/marts"
)

// Co-prescription mining thresholds: candidate itemsets need 2% support,
// reported patterns need at least two medications and 5% support.
const (
	mineSupport    = 0.02
	patternSize    = 2
	patternSupport = 0.05
)

func buildDeliveryFactSpec(sources, dims []*frame.Frame, _ marts.BuildOptions) (*marts.FactResult, error) {
	fact, patterns, err := BuildDeliveryFact(sources[0], dims[0], dims[1], dims[2], dims[3])
	if err != nil {
		return nil, err
	}
	return &marts.FactResult{
		Fact: fact,
		Side: map[string]*frame.Frame{"patron_coprescripcion": patterns},
	}, nil
}

// BuildDeliveryFact assembles hecho_entregas and, as a side output, the
// co-prescription patterns mined from per-prescription medication baskets.
func BuildDeliveryFact(entregas, dimPersona, dimIps, dimFecha, dimMedicamento *frame.Frame) (*frame.Frame, *frame.Frame, error) {
	n := entregas.Len()

	meds, err := entregas.Column("medicamentos")
	if err != nil {
		return nil, nil, err
	}
	counts := make([]any, n)
	codesPerRow := make([][]string, n)
	for i := 0; i < n; i++ {
		if meds[i] == nil {
			counts[i] = int64(0)
			continue
		}
		s, err := frame.StringCell("medicamentos", meds[i])
		if err != nil {
			return nil, nil, err
		}
		codes := splitCodes(s)
		codesPerRow[i] = codes
		counts[i] = int64(len(codes))
	}

	work, err := entregas.Project("entrega_id", "cedula", "ips_id", "fecha",
		"receta_codigo", "costo")
	if err != nil {
		return nil, nil, err
	}
	work, err = work.WithColumn("cantidad_medicamentos", counts)
	if err != nil {
		return nil, nil, err
	}

	type lookup struct {
		dim     *frame.Frame
		stage   string
		left    string
		right   string
		keyName string
	}
	project := work.Columns()
	joined := work
	for _, l := range []lookup{
		{dimPersona, "dim_persona", "cedula", "id_persona", "key_dim_persona"},
		{dimIps, "dim_ips", "ips_id", "id_ips", "key_dim_ips"},
		{dimFecha, "dim_fecha", "fecha", "fecha", "key_dim_fecha"},
	} {
		project = append(project, l.keyName)
		joined, err = joined.LeftJoin(l.dim, frame.On(l.left, l.right), project)
		if err != nil {
			return nil, nil, err
		}
		if err := frame.RequireSameRows(l.stage, n, joined.Len()); err != nil {
			return nil, nil, err
		}
	}

	joined, err = joined.Rename("entrega_id", "id_entrega")
	if err != nil {
		return nil, nil, err
	}
	fact, err := joined.Project("id_entrega", "key_dim_persona", "key_dim_ips",
		"key_dim_fecha", "cantidad_medicamentos", "costo")
	if err != nil {
		return nil, nil, err
	}

	patterns, err := minePatterns(entregas, codesPerRow, dimMedicamento)
	if err != nil {
		return nil, nil, err
	}
	return fact, patterns, nil
}

// minePatterns regroups the exploded medication codes by prescription,
// resolves them to display names, and mines frequent co-prescriptions.
// Codes missing from dim_medicamento stay out of the baskets; deliveries
// without a prescription code contribute no basket.
func minePatterns(entregas *frame.Frame, codesPerRow [][]string, dimMedicamento *frame.Frame) (*frame.Frame, error) {
	codigos, err := dimMedicamento.Column("codigo_medicamento")
	if err != nil {
		return nil, err
	}
	nombres, err := dimMedicamento.Column("nombre_medicamento")
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(codigos))
	for i := range codigos {
		if codigos[i] == nil || nombres[i] == nil {
			continue
		}
		code, err := frame.StringCell("codigo_medicamento", codigos[i])
		if err != nil {
			return nil, err
		}
		name, err := frame.StringCell("nombre_medicamento", nombres[i])
		if err != nil {
			return nil, err
		}
		names[code] = name
	}

	recetas, err := entregas.Column("receta_codigo")
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]string)
	for i, codes := range codesPerRow {
		if recetas[i] == nil || len(codes) == 0 {
			continue
		}
		receta, err := frame.StringCell("receta_codigo", recetas[i])
		if err != nil {
			return nil, err
		}
		for _, code := range codes {
			if name, ok := names[code]; ok {
				grouped[receta] = append(grouped[receta], name)
			}
		}
	}

	recetaKeys := make([]string, 0, len(grouped))
	for receta := range grouped {
		recetaKeys = append(recetaKeys, receta)
	}
	sort.Strings(recetaKeys)
	baskets := make([][]string, 0, len(recetaKeys))
	for _, receta := range recetaKeys {
		baskets = append(baskets, grouped[receta])
	}

	sets := basket.Mine(baskets, mineSupport)
	patterns := basket.FilterPatterns(sets, patternSize, patternSupport)

	meds := make([]any, len(patterns))
	soportes := make([]any, len(patterns))
	for i, p := range patterns {
		meds[i] = p.Key()
		soportes[i] = p.Support
	}
	return frame.FromColumns([]frame.Column{
		{Name: "medicamentos", Values: meds},
		{Name: "soporte", Values: soportes},
	})
}

// splitCodes splits a ';'-joined medication list, dropping blanks.
func splitCodes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if code := strings.TrimSpace(part); code != "" {
			out = append(out, code)
		}
	}
	return out
}
