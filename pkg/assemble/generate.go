// Package assemble turns a validated parameter set into finished,
// named module solids. It owns the build pipeline: layout, ornament
// staging, damage, connectors and print-bed splitting, in that order.
package assemble

import (
	"fmt"
	"math/rand"

	"github.com/calthrop/bastion/pkg/csg"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/layout"
	"github.com/calthrop/bastion/pkg/params"
	"github.com/calthrop/bastion/pkg/splitter"
)

// NamedSolid pairs a finished solid with its export name.
type NamedSolid struct {
	Name  string
	Solid kernel.Solid
}

// Result is the outcome of one generation run. Warnings carry the
// non-fatal boolean failures that were skipped over.
type Result struct {
	Solids   []NamedSolid
	Warnings []csg.Warning
	Ops      int
}

type builder struct {
	c   *csg.Compositor
	p   params.ModuleParameters
	rng *rand.Rand
}

// Generate builds the module described by p on the given kernel,
// splitting against the default print bed.
func Generate(k kernel.Kernel, p params.ModuleParameters) (*Result, error) {
	return GenerateForBed(k, p, splitter.DefaultBed())
}

// GenerateForBed builds the module described by p on the given
// kernel. Parameters are validated first; an invalid set produces no
// geometry. The same parameters always produce the same solids.
func GenerateForBed(k kernel.Kernel, p params.ModuleParameters, bed splitter.Bed) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		c:   csg.New(k),
		p:   p,
		rng: rand.New(rand.NewSource(p.Seed)),
	}

	var (
		body kernel.Solid
		base string
		err  error
	)
	switch p.Type {
	case params.Wall:
		body, err = b.wall()
		base = "wall_segment"
	case params.Corner:
		body, err = b.corner()
		base = "corner_ruin"
	case params.PillarCluster:
		body, err = b.pillarCluster()
		base = "pillar_cluster"
	default:
		return nil, fmt.Errorf("%w: unknown module type %d", kernel.ErrInvalidGeometry, p.Type)
	}
	if err != nil {
		return nil, err
	}

	body = b.c.Cleanup(body)

	pieces := []kernel.Solid{body}
	if p.Split == params.SplitAuto {
		pieces, err = splitter.Split(b.c, body, bed)
		if err != nil {
			return nil, err
		}
	}

	res := &Result{
		Warnings: b.c.Warnings(),
		Ops:      b.c.Ops(),
	}
	for i, s := range pieces {
		name := base
		if len(pieces) > 1 {
			name = fmt.Sprintf("%s_part_%02d", base, i+1)
		}
		res.Solids = append(res.Solids, NamedSolid{Name: name, Solid: s})
	}
	return res, nil
}

// plan recomputes the facade layout for the current parameters.
func (b *builder) plan() layout.Plan {
	return layout.Compute(b.p)
}

// uniform draws from [lo, hi) on the builder's seeded stream.
func (b *builder) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}
