package assemble

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/connector"
	"github.com/calthrop/bastion/pkg/damage"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/layout"
	"github.com/calthrop/bastion/pkg/params"
)

// corner builds an L-shaped ruin: two perpendicular wall wings joined
// by a corner post, each wing carrying its own openings and end
// buttress. Wing length comes from Depth, so a 80x80 corner covers
// the same ground as a pillar cluster of the same footprint.
func (b *builder) corner() (kernel.Solid, error) {
	p := b.p
	k := b.c.Kernel()
	d, h, t := p.Depth, p.Height, p.WallThickness

	post, err := k.Box(t, h, t)
	if err != nil {
		return nil, err
	}
	body := post

	wingA, err := k.Box(d, h, t)
	if err != nil {
		b.c.Destroy(body)
		return nil, err
	}
	wingA = k.Translate(wingA, d/2, 0, 0)
	body = b.c.Union(body, wingA, "wing_x")

	wingB, err := k.Box(t, h, d)
	if err != nil {
		b.c.Destroy(body)
		return nil, err
	}
	wingB = k.Translate(wingB, 0, d/2, 0)
	body = b.c.Union(body, wingB, "wing_y")

	// Openings per wing, spaced evenly along the wing length.
	if p.WindowDensity > 0 {
		nw := p.WindowDensity / 2
		if nw < 1 {
			nw = 1
		}
		winH := math.Min(h*0.5, 40)
		winW := math.Min(d/float64(nw+1)*0.5, 22)
		if winW >= 5 {
			z0 := h * 0.25
			segs := p.Style.Spec().ArchSegments
			for i := 0; i < nw; i++ {
				along := d * float64(i+1) / float64(nw+1)

				cut, err := b.archCutter(winW, winH, t+2, segs)
				if err != nil {
					b.c.Destroy(body)
					return nil, err
				}
				cut = k.Translate(cut, along, 0, z0)
				body = b.c.Difference(body, cut, fmt.Sprintf("window_x_%d", i))

				cut, err = b.archCutter(winW, winH, t+2, segs)
				if err != nil {
					b.c.Destroy(body)
					return nil, err
				}
				cut = k.Rotate(cut, 0, 0, 90)
				cut = k.Translate(cut, 0, along, z0)
				body = b.c.Difference(body, cut, fmt.Sprintf("window_y_%d", i))
			}
		}
	}

	sp, _, _ := layout.Protrusions(t)

	// Plinth runs along both wings.
	if p.DetailLevel >= detailBands {
		plan := b.plan()
		for i := 0; i < 2; i++ {
			band, err := k.Box(d, plan.PlinthHeight, t+sp)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			if i == 0 {
				band = k.Translate(band, d/2, -sp/2, 0)
			} else {
				band = k.Rotate(band, 0, 0, 90)
				band = k.Translate(band, -sp/2, d/2, 0)
			}
			body = b.c.Union(body, band, fmt.Sprintf("plinth_%d", i))
		}
	}

	// One buttress at each free wing end.
	if p.GothicStyle >= 1 && p.DetailLevel >= detailBands {
		bw := math.Max(t*2, 8)
		for i := 0; i < 2; i++ {
			butt, err := b.buttress(bw, h*0.92, t+sp, 0.6)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			if i == 0 {
				butt = k.Translate(butt, d-bw/2, -sp/2, 0)
			} else {
				butt = k.Rotate(butt, 0, 0, 90)
				butt = k.Translate(butt, -sp/2, d-bw/2, 0)
			}
			body = b.c.Union(body, butt, fmt.Sprintf("buttress_%d", i))
		}
	}

	if p.Damage != params.Clean {
		body, err = damage.Apply(b.c, body, p.Damage, p.DamageIntensity, b.rng)
		if err != nil {
			return nil, err
		}
	}

	if p.Connector != params.NoConnectors {
		body, err = connector.Apply(b.c, body, connector.FromParams(p))
		if err != nil {
			return nil, err
		}
	}

	return body, nil
}
