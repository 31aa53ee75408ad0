// Package layout computes the parametric zone and bay rhythm of a
// terrain module. Compute is a pure function of the parameters: it
// emits no geometry, and it runs before any boolean operation so the
// openings cut into the pristine slab are guaranteed consistent with
// every later additive detail.
package layout

import (
	"math"

	"github.com/calthrop/bastion/pkg/params"
)

// Vertical zoning and bay constants. All in mm unless a fraction.
const (
	plinthFactor = 0.07
	minPlinth    = 5.0
	maxPlinth    = 8.0

	corniceFactor = 0.05
	minCornice    = 4.0
	maxCornice    = 6.0

	// spandrelFactor reserves solid wall above each arch for relief
	// work; the reserve is clamped to [minSpandrel, maxSpandrel].
	spandrelFactor = 0.15
	minSpandrel    = 5.0
	maxSpandrel    = 12.0

	// minWindowZone disables windows entirely on very short walls.
	minWindowZone = 10.0

	// windowMargin is clearance between an opening and its pilaster.
	windowMargin = 2.0

	// minArchWidth is the FDM printability floor for an opening.
	minArchWidth = 5.0
)

// Window is the computed placement of one opening.
type Window struct {
	CenterX    float64 // bay center
	BottomZ    float64 // bottom of the opening
	ArchHeight float64
	ArchWidth  float64
}

// Plan is the derived, read-only layout of one module.
type Plan struct {
	PlinthHeight     float64
	CorniceHeight    float64
	WindowZoneHeight float64
	WindowBottom     float64 // Z where the window zone starts

	BayWidth      float64
	PilasterWidth float64
	ButtressWidth float64

	Windows     []Window  // empty when density is 0 or the zone is too short
	PilasterXs  []float64 // internal bay boundaries
	ButtressXs  [2]float64
	HasWindows  bool
	ArchSegments int

	// Protrusion depths beyond the wall front face, derived from the
	// wall thickness so thin and thick walls stay structurally
	// plausible.
	StructuralProtrusion float64 // pilasters, buttresses, plinth, cornice
	SillProtrusion       float64 // window sills, past the structural layer
	FrameProtrusion      float64 // raised arch frames
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Protrusions derives ornament depths from the wall thickness. Each
// depth is a fraction of the thickness with an absolute printability
// floor.
func Protrusions(thickness float64) (structural, sill, frame float64) {
	structural = math.Max(0.8*thickness, 1.5)
	sill = structural * 1.2
	frame = math.Max(0.4*thickness, 0.8)
	return structural, sill, frame
}

// Compute derives the full layout plan from the parameters.
func Compute(p params.ModuleParameters) Plan {
	w, h, t := p.Width, p.Height, p.WallThickness
	style := p.Style.Spec()

	plan := Plan{
		PlinthHeight:  clamp(h*plinthFactor, minPlinth, maxPlinth),
		CorniceHeight: clamp(h*corniceFactor, minCornice, maxCornice),
		PilasterWidth: math.Max(t*1.2, 6.0),
		ButtressWidth: math.Max(t*2.0, 8.0),
		ArchSegments:  style.ArchSegments,
	}
	plan.WindowZoneHeight = h - plan.PlinthHeight - plan.CorniceHeight
	plan.WindowBottom = plan.PlinthHeight
	plan.StructuralProtrusion, plan.SillProtrusion, plan.FrameProtrusion = Protrusions(t)

	// End buttresses sit flush with the wall ends regardless of the
	// window rhythm.
	plan.ButtressXs = [2]float64{
		-w/2 + plan.ButtressWidth/2,
		w/2 - plan.ButtressWidth/2,
	}

	n := p.WindowDensity
	if n <= 0 || plan.WindowZoneHeight <= minWindowZone {
		return plan
	}
	plan.HasWindows = true
	plan.BayWidth = w / float64(n)

	spandrel := clamp(plan.WindowZoneHeight*spandrelFactor, minSpandrel, maxSpandrel)
	archH := plan.WindowZoneHeight - spandrel
	archW := math.Min(plan.BayWidth-plan.PilasterWidth-2*windowMargin, archH*style.WindowAspect)
	archW = math.Max(archW, minArchWidth)

	plan.Windows = make([]Window, 0, n)
	for k := 0; k < n; k++ {
		plan.Windows = append(plan.Windows, Window{
			CenterX:    -w/2 + (float64(k)+0.5)*plan.BayWidth,
			BottomZ:    plan.WindowBottom,
			ArchHeight: archH,
			ArchWidth:  archW,
		})
	}
	for k := 1; k < n; k++ {
		plan.PilasterXs = append(plan.PilasterXs, -w/2+float64(k)*plan.BayWidth)
	}
	return plan
}
