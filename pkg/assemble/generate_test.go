package assemble

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/kernel/meshkern"
	"github.com/calthrop/bastion/pkg/layout"
	"github.com/calthrop/bastion/pkg/params"
	"github.com/calthrop/bastion/pkg/splitter"
)

// baseParams is a small, fast configuration used across the suite.
func baseParams() params.ModuleParameters {
	p := params.Defaults()
	p.Width = 60
	p.Height = 40
	p.Depth = 40
	p.WallThickness = 3
	p.WindowDensity = 2
	p.DetailLevel = 1
	p.GothicStyle = 1
	p.Split = params.SplitOff
	return p
}

func generate(t *testing.T, p params.ModuleParameters) *Result {
	t.Helper()
	res, err := Generate(meshkern.New(), p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Solids) == 0 {
		t.Fatal("no solids produced")
	}
	return res
}

func bboxOf(t *testing.T, s kernel.Solid) (min, max [3]float64) {
	t.Helper()
	return s.BoundingBox()
}

func TestGenerateRejectsInvalid(t *testing.T) {
	p := baseParams()
	p.Width = 5
	if _, err := Generate(meshkern.New(), p); err == nil {
		t.Fatal("invalid parameters accepted")
	}
}

// A clean standard wall: correct footprint, standing on the ground
// plane, manifold output.
func TestWallCleanStandard(t *testing.T) {
	p := baseParams()
	res := generate(t, p)

	if len(res.Warnings) != 0 {
		t.Fatalf("clean wall skipped operations: %v", res.Warnings)
	}
	if res.Solids[0].Name != "wall_segment" {
		t.Errorf("name = %q, want wall_segment", res.Solids[0].Name)
	}
	min, max := bboxOf(t, res.Solids[0].Solid)

	// Ornament protrudes in Y but never stretches width or height.
	if math.Abs((max[0]-min[0])-p.Width) > 1.0 {
		t.Errorf("width %g, want ~%g", max[0]-min[0], p.Width)
	}
	if max[2]-min[2] > p.Height+0.5 {
		t.Errorf("height %g exceeds %g", max[2]-min[2], p.Height)
	}
	if min[2] < -0.01 {
		t.Errorf("solid extends below the ground plane: %g", min[2])
	}
	if max[1]-min[1] <= p.WallThickness {
		t.Error("no ornament protrusion in Y")
	}

	if err := meshkern.Validate(res.Solids[0].Solid.(*meshkern.Solid)); err != nil {
		t.Errorf("wall not manifold: %v", err)
	}
}

// Same seed, same parameters: byte-identical meshes.
func TestDeterminism(t *testing.T) {
	p := baseParams()
	p.Damage = params.Damaged
	p.DamageIntensity = 0.5
	p.Seed = 1234

	k := meshkern.New()
	meshJSON := func() []byte {
		res := generate(t, p)
		m, err := k.ToMesh(res.Solids[0].Solid)
		if err != nil {
			t.Fatalf("ToMesh: %v", err)
		}
		buf, err := json.Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		return buf
	}

	first := meshJSON()
	second := meshJSON()
	if !bytes.Equal(first, second) {
		t.Error("same seed produced different meshes")
	}
}

func TestSeedChangesDamage(t *testing.T) {
	p := baseParams()
	p.Damage = params.Ruined
	p.DamageIntensity = 0.6

	k := meshkern.New()
	res1 := generate(t, p)
	m1, err := k.ToMesh(res1.Solids[0].Solid)
	if err != nil {
		t.Fatal(err)
	}

	p.Seed = p.Seed + 7
	res2 := generate(t, p)
	m2, err := k.ToMesh(res2.Solids[0].Solid)
	if err != nil {
		t.Fatal(err)
	}

	if m1.TriangleCount() == m2.TriangleCount() {
		b1, _ := json.Marshal(m1)
		b2, _ := json.Marshal(m2)
		if bytes.Equal(b1, b2) {
			t.Error("different seeds produced identical damage")
		}
	}
}

// Raising the detail level only adds features, it never removes them.
func TestDetailMonotonic(t *testing.T) {
	p := baseParams()
	prevOps := -1
	for detail := 0; detail <= 3; detail++ {
		p.DetailLevel = detail
		res := generate(t, p)
		if len(res.Warnings) != 0 {
			t.Fatalf("detail %d skipped operations: %v", detail, res.Warnings)
		}
		if res.Ops <= prevOps {
			t.Errorf("detail %d attempted %d ops, not more than %d at detail %d",
				detail, res.Ops, prevOps, detail-1)
		}
		prevOps = res.Ops
	}
}

func TestGothicLevels(t *testing.T) {
	p := baseParams()
	p.DetailLevel = 2
	prevOps := -1
	for gothic := 0; gothic <= 3; gothic++ {
		p.GothicStyle = gothic
		res := generate(t, p)
		if len(res.Warnings) != 0 {
			t.Fatalf("gothic %d skipped operations: %v", gothic, res.Warnings)
		}
		if res.Ops < prevOps {
			t.Errorf("gothic %d attempted %d ops, fewer than %d at gothic %d",
				gothic, res.Ops, prevOps, gothic-1)
		}
		prevOps = res.Ops
	}
}

// A half-destroyed wall loses 55-65% of its footprint along the break
// axis at full intensity.
func TestWallHalfDestroyed(t *testing.T) {
	p := baseParams()
	p.Width = 100
	p.WindowDensity = 0
	p.DetailLevel = 0
	p.GothicStyle = 0
	p.Damage = params.Half
	p.DamageIntensity = 1.0

	res := generate(t, p)
	if len(res.Warnings) != 0 {
		t.Fatalf("half break skipped operations: %v", res.Warnings)
	}
	min, max := bboxOf(t, res.Solids[0].Solid)
	width := max[0] - min[0]
	reduction := 1 - width/p.Width
	if reduction < 0.55 || reduction > 0.65 {
		t.Errorf("width reduction %.2f outside [0.55, 0.65]", reduction)
	}
	if err := meshkern.Validate(res.Solids[0].Solid.(*meshkern.Solid)); err != nil {
		t.Errorf("half-destroyed wall not manifold: %v", err)
	}
}

func TestCornerRuin(t *testing.T) {
	p := baseParams()
	p.Type = params.Corner
	p.Depth = 50
	res := generate(t, p)

	if res.Solids[0].Name != "corner_ruin" {
		t.Errorf("name = %q, want corner_ruin", res.Solids[0].Name)
	}
	min, max := bboxOf(t, res.Solids[0].Solid)
	// Both wings present: the footprint spans close to Depth on X and Y.
	if max[0]-min[0] < p.Depth*0.9 {
		t.Errorf("X span %g too small for wing length %g", max[0]-min[0], p.Depth)
	}
	if max[1]-min[1] < p.Depth*0.9 {
		t.Errorf("Y span %g too small for wing length %g", max[1]-min[1], p.Depth)
	}
	if err := meshkern.Validate(res.Solids[0].Solid.(*meshkern.Solid)); err != nil {
		t.Errorf("corner not manifold: %v", err)
	}
}

func TestPillarCluster(t *testing.T) {
	p := baseParams()
	p.Type = params.PillarCluster
	p.Width = 80
	p.Depth = 80
	p.WindowDensity = 3 // column count lever
	res := generate(t, p)

	if res.Solids[0].Name != "pillar_cluster" {
		t.Errorf("name = %q, want pillar_cluster", res.Solids[0].Name)
	}
	min, max := bboxOf(t, res.Solids[0].Solid)
	if min[2] < -0.01 {
		t.Errorf("cluster extends below ground: %g", min[2])
	}
	// Columns rise above the base slab.
	if max[2]-min[2] < p.Height*0.3 {
		t.Errorf("cluster height %g suspiciously low", max[2]-min[2])
	}
	if err := meshkern.Validate(res.Solids[0].Solid.(*meshkern.Solid)); err != nil {
		t.Errorf("cluster not manifold: %v", err)
	}
}

// An oversized module in auto mode splits into bed-sized parts with
// part-numbered names.
func TestAutoSplitOversized(t *testing.T) {
	p := baseParams()
	p.Width = 400
	p.WindowDensity = 0
	p.DetailLevel = 0
	p.Split = params.SplitAuto

	res := generate(t, p)
	if len(res.Solids) < 2 {
		t.Fatalf("got %d parts, want at least 2", len(res.Solids))
	}
	for i, ns := range res.Solids {
		min, max := ns.Solid.BoundingBox()
		for axis := 0; axis < 3; axis++ {
			if max[axis]-min[axis] > 254.01 {
				t.Errorf("part %d axis %d extent %g exceeds the bed", i, axis, max[axis]-min[axis])
			}
		}
		want := "wall_segment_part_"
		if len(ns.Name) <= len(want) || ns.Name[:len(want)] != want {
			t.Errorf("part %d name %q lacks part numbering", i, ns.Name)
		}
	}
}

func TestSplitOffKeepsOnePiece(t *testing.T) {
	p := baseParams()
	p.Width = 400
	p.WindowDensity = 0
	p.DetailLevel = 0
	p.Split = params.SplitOff

	res := generate(t, p)
	if len(res.Solids) != 1 {
		t.Fatalf("got %d parts with splitting off, want 1", len(res.Solids))
	}
	if res.Solids[0].Name != "wall_segment" {
		t.Errorf("name = %q, want wall_segment", res.Solids[0].Name)
	}
}

// Pins protrude past the +X face; combined connectors keep pin and
// magnet geometry apart.
func TestConnectorsExtendFootprint(t *testing.T) {
	p := baseParams()
	p.WindowDensity = 0
	p.DetailLevel = 0

	plain := generate(t, p)
	_, plainMax := bboxOf(t, plain.Solids[0].Solid)

	p.Connector = params.Pins
	pinned := generate(t, p)
	_, pinnedMax := bboxOf(t, pinned.Solids[0].Solid)

	if pinnedMax[0] <= plainMax[0]+1 {
		t.Errorf("pins did not extend +X face: %g vs %g", pinnedMax[0], plainMax[0])
	}

	p.Connector = params.PinsAndMagnets
	both := generate(t, p)
	if err := meshkern.Validate(both.Solids[0].Solid.(*meshkern.Solid)); err != nil {
		t.Errorf("combined connectors not manifold: %v", err)
	}
}

// A bed narrower than the wall forces a split even though the module
// would fit the default printer.
func TestGenerateForBedNarrowBed(t *testing.T) {
	p := baseParams()
	p.Width = 120
	p.WindowDensity = 0
	p.DetailLevel = 0
	p.GothicStyle = 0
	p.Split = params.SplitAuto

	bed := splitter.Bed{Size: [3]float64{80, 200, 200}, Margin: 2}
	res, err := GenerateForBed(meshkern.New(), p, bed)
	if err != nil {
		t.Fatalf("GenerateForBed: %v", err)
	}
	if len(res.Solids) < 2 {
		t.Fatalf("got %d solid(s), want a split", len(res.Solids))
	}
	for _, ns := range res.Solids {
		min, max := bboxOf(t, ns.Solid)
		if w := max[0] - min[0]; w > bed.Limit(0)+0.01 {
			t.Errorf("%s: width %.2f exceeds the bed", ns.Name, w)
		}
	}
}

// materialAt reports whether the solid has material inside a small box
// of extent (w, h, d) centered at (x, y, z).
func materialAt(t *testing.T, k kernel.Kernel, s kernel.Solid, x, y, z, w, h, d float64) bool {
	t.Helper()
	sample, err := k.Box(w, h, d)
	if err != nil {
		t.Fatal(err)
	}
	sample = k.Translate(sample, x, y, z-h/2)
	out, err := k.Intersection(s, sample, kernel.Exact)
	if errors.Is(err, kernel.ErrEmptyResult) {
		return false
	}
	if err != nil {
		t.Fatalf("sample at (%g, %g, %g): %v", x, y, z, err)
	}
	k.Destroy(out)
	return true
}

// The shipping defaults must realize every feature: two lancet
// openings cut clear through, plinth and cornice bands proud of the
// face, nothing skipped.
func TestWallDefaultFeatures(t *testing.T) {
	k := meshkern.New()
	p := params.Defaults()
	res, err := Generate(k, p)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("default wall skipped operations: %v", res.Warnings)
	}
	if len(res.Solids) != 1 {
		t.Fatalf("got %d solids, want 1", len(res.Solids))
	}
	body := res.Solids[0].Solid

	plan := layout.Compute(p)
	if len(plan.Windows) != 2 {
		t.Fatalf("layout placed %d windows, want 2", len(plan.Windows))
	}
	for i, win := range plan.Windows {
		if materialAt(t, k, body, win.CenterX, 0, win.BottomZ+win.ArchHeight*0.3, 2, 4, 2) {
			t.Errorf("window %d is not cut through", i)
		}
	}

	// The bands protrude past the wall face; between them the face
	// is flat at this width and detail level.
	front := -p.WallThickness/2 - plan.StructuralProtrusion/2
	if !materialAt(t, k, body, 0, front, plan.PlinthHeight/2, 2, 2, 1) {
		t.Error("plinth band missing")
	}
	if !materialAt(t, k, body, 0, front, p.Height-plan.CorniceHeight/2, 2, 2, 1) {
		t.Error("cornice band missing")
	}
	if materialAt(t, k, body, 0, front, p.Height/2, 2, 2, 1) {
		t.Error("unexpected material proud of the face between the bands")
	}

	if err := meshkern.Validate(body.(*meshkern.Solid)); err != nil {
		t.Errorf("default wall not manifold: %v", err)
	}
}
