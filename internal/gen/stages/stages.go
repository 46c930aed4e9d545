// Package stages holds the concrete generation modules, in pipeline order:
// ocean borders, forest seed+spread, opposite-side jungle and snow, the
// spacing-constrained desert and special-region scatters, mineral clusters,
// gap diffusion, and the residual background fill.
package stages

import (
	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/pipeline"
)

// All constructs every stage in canonical order. A missing region key or
// layer is reported here, before anything touches a grid.
func All(cat *catalogs.Catalog) ([]pipeline.Stage, error) {
	ctors := []func(*catalogs.Catalog) (pipeline.Stage, error){
		NewOceans,
		NewForests,
		NewJungle,
		NewSnow,
		NewDeserts,
		NewSpecials,
		NewMinerals,
		NewDiffusion,
		NewResidual,
	}
	out := make([]pipeline.Stage, 0, len(ctors))
	for _, ctor := range ctors {
		st, err := ctor(cat)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
