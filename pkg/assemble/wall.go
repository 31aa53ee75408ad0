package assemble

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/connector"
	"github.com/calthrop/bastion/pkg/damage"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/params"
)

// Detail gates. Each level is additive: raising the level never
// removes a feature category introduced below it.
const (
	detailBands    = 1 // plinth, cornice, face engraving
	detailFixtures = 2 // pilasters, sills, frames, reliefs
	detailFull     = 3 // stone coursing, rivets
)

const minRivetThickness = 2.5

// wall builds one straight wall segment. Openings are cut into the
// pristine slab before any ornament is attached, so a failed ornament
// union can never leave a window half-formed.
func (b *builder) wall() (kernel.Solid, error) {
	p := b.p
	plan := b.plan()
	k := b.c.Kernel()

	body, err := k.Box(p.Width, p.Height, p.WallThickness)
	if err != nil {
		return nil, err
	}

	// Window openings first.
	if plan.HasWindows {
		for i, win := range plan.Windows {
			cutter, err := b.archCutter(win.ArchWidth, win.ArchHeight, p.WallThickness+2, plan.ArchSegments)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			cutter = k.Translate(cutter, win.CenterX, 0, win.BottomZ)
			body = b.c.Difference(body, cutter, fmt.Sprintf("window_%d", i))
		}
	}

	sp := plan.StructuralProtrusion

	// Plinth and cornice bands.
	if p.DetailLevel >= detailBands {
		plinth, err := k.Box(p.Width, plan.PlinthHeight, p.WallThickness+sp)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
		}
		plinth = k.Translate(plinth, 0, -sp/2, 0)
		body = b.c.Union(body, plinth, "plinth")

		cornice, err := k.Box(p.Width, plan.CorniceHeight, p.WallThickness+sp)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
		}
		cornice = k.Translate(cornice, 0, -sp/2, p.Height-plan.CorniceHeight)
		body = b.c.Union(body, cornice, "cornice")
	}

	// End buttresses.
	if p.GothicStyle >= 1 && p.DetailLevel >= detailBands {
		for i, bx := range plan.ButtressXs {
			butt, err := b.buttress(plan.ButtressWidth, p.Height*0.92, p.WallThickness+sp, 0.6)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			butt = k.Translate(butt, bx, -sp/2, 0)
			body = b.c.Union(body, butt, fmt.Sprintf("buttress_%d", i))
		}
	}

	// Bay pilasters between windows.
	if p.DetailLevel >= detailFixtures {
		for i, px := range plan.PilasterXs {
			pil, err := b.pilaster(plan.PilasterWidth, plan.WindowZoneHeight, p.WallThickness+sp)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			pil = k.Translate(pil, px, -sp/2, plan.WindowBottom)
			body = b.c.Union(body, pil, fmt.Sprintf("pilaster_%d", i))
		}
	}

	// Window dressing: sills always, raised frames on gothic walls.
	if p.DetailLevel >= detailFixtures && plan.HasWindows {
		for i, win := range plan.Windows {
			sill, err := k.Box(win.ArchWidth+4, 3, p.WallThickness+plan.SillProtrusion)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			sill = k.Translate(sill, win.CenterX, -plan.SillProtrusion/2, win.BottomZ-3)
			body = b.c.Union(body, sill, fmt.Sprintf("sill_%d", i))

			if p.GothicStyle >= 2 {
				fd := plan.FrameProtrusion + 0.5
				band := math.Max(2, win.ArchWidth*0.12)
				ring, err := b.archFrameRing(win.ArchWidth, win.ArchHeight, band, fd, plan.ArchSegments)
				if err != nil {
					b.c.Destroy(body)
					return nil, err
				}
				ring = k.Translate(ring, win.CenterX, -p.WallThickness/2+0.5-fd/2, win.BottomZ)
				body = b.c.Union(body, ring, fmt.Sprintf("arch_frame_%d", i))
			}
		}
	}

	// Reliefs: skulls over each arch, the aquila on blank walls.
	if p.GothicStyle >= 3 && p.DetailLevel >= detailFixtures {
		if plan.HasWindows {
			for i, win := range plan.Windows {
				sw := math.Min(win.ArchWidth*0.6, 10)
				sh := sw * 1.2
				sd := plan.FrameProtrusion + 0.3
				skull, err := b.skullRelief(sw, sh, sd)
				if err != nil {
					b.c.Destroy(body)
					return nil, err
				}
				zc := win.BottomZ + win.ArchHeight + (plan.WindowZoneHeight-win.ArchHeight)/2
				skull = k.Translate(skull, win.CenterX, -p.WallThickness/2+0.3-sd/2, zc-sh/2)
				body = b.c.Union(body, skull, fmt.Sprintf("skull_%d", i))
			}
		} else {
			aw := math.Min(p.Width*0.5, 40)
			ah := math.Min(plan.WindowZoneHeight*0.6, aw*0.7)
			ad := plan.FrameProtrusion + 0.3
			aquila, err := b.aquilaRelief(aw, ah, ad)
			if err != nil {
				b.c.Destroy(body)
				return nil, err
			}
			zc := plan.WindowBottom + plan.WindowZoneHeight/2
			aquila = k.Translate(aquila, 0, -p.WallThickness/2+0.3-ad/2, zc-ah*0.3)
			body = b.c.Union(body, aquila, "aquila")
		}
	}

	// Face engraving: stone coursing at full detail, plain panel
	// lines below it.
	if p.DetailLevel >= detailFull {
		style := p.Style.Spec()
		body, err = b.stoneCourseGrid(body, style.BlockHeight, style.BlockWidth, style.MortarWidth, 0.4)
	} else if p.DetailLevel >= detailBands {
		body, err = b.panelLines(body, 3, 0.6, 0.4)
	}
	if err != nil {
		b.c.Destroy(body)
		return nil, err
	}

	// Rivet studs along the bands. Skipped on walls too thin to
	// carry them.
	if p.DetailLevel >= detailFull && p.WallThickness >= minRivetThickness {
		body, err = b.rivetRows(body, plan.PlinthHeight/2, p.Height-plan.CorniceHeight/2, sp)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
		}
	}

	if p.BevelWidth > 0 {
		body, err = b.bevelEdges(body, p.BevelWidth)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
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

// rivetRows studs the plinth and cornice fronts at the two given
// heights, spaced on a fixed 12 mm pitch.
func (b *builder) rivetRows(body kernel.Solid, lowZ, highZ, protrusion float64) (kernel.Solid, error) {
	const pitch = 12.0
	k := b.c.Kernel()
	w := b.p.Width
	front := -b.p.WallThickness/2 - protrusion

	n := int(w/pitch) - 1
	if n < 1 {
		n = 1
	}
	start := -pitch * float64(n-1) / 2
	for _, z := range []float64{lowZ, highZ} {
		for i := 0; i < n; i++ {
			stud, err := b.rivet(0.8, 0.8)
			if err != nil {
				return body, err
			}
			stud = k.Translate(stud, start+float64(i)*pitch, front+0.1, z)
			body = b.c.Union(body, stud, fmt.Sprintf("rivet_%.0f_%d", z, i))
		}
	}
	return body, nil
}
