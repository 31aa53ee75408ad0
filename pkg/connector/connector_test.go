package connector

import (
	"errors"
	"math"
	"testing"

	"github.com/calthrop/bastion/pkg/csg"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/kernel/meshkern"
	"github.com/calthrop/bastion/pkg/params"
)

func wallBody(t *testing.T, c *csg.Compositor) kernel.Solid {
	t.Helper()
	s, err := c.Kernel().Box(100, 50, 8)
	if err != nil {
		t.Fatalf("Box: %v", err)
	}
	return s
}

func spec(ct params.ConnectorType) Spec {
	p := params.Defaults()
	p.Connector = ct
	return FromParams(p)
}

func TestNoConnectorsUntouched(t *testing.T) {
	c := csg.New(meshkern.New())
	s := wallBody(t, c)
	out, err := Apply(c, s, spec(params.NoConnectors))
	if err != nil {
		t.Fatal(err)
	}
	if out != s || c.Ops() != 0 {
		t.Error("no-connector spec touched the solid")
	}
}

func TestPinsProtrudeAndSocketsBore(t *testing.T) {
	k := meshkern.New()
	c := csg.New(k)
	s := wallBody(t, c)
	plainMesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Apply(c, k.Clone(s), spec(params.Pins))
	if err != nil {
		t.Fatal(err)
	}
	_, max := out.BoundingBox()
	// Pins reach past the +X face by their height less the embed.
	if max[0] < 50+DefaultPinHeight-0.5 {
		t.Errorf("+X extent %g, want at least %g", max[0], 50+DefaultPinHeight-0.5)
	}

	outMesh, err := k.ToMesh(out)
	if err != nil {
		t.Fatal(err)
	}
	if outMesh.TriangleCount() <= plainMesh.TriangleCount() {
		t.Error("pins and sockets added no geometry")
	}
	if err := meshkern.Validate(out.(*meshkern.Solid)); err != nil {
		t.Errorf("pinned wall not manifold: %v", err)
	}
}

func TestSocketsClearPins(t *testing.T) {
	s := spec(params.Pins)
	socketR := s.PinRadius + s.PinTolerance
	if socketR <= s.PinRadius {
		t.Error("socket radius does not clear the pin")
	}
	if s.PinTolerance < params.MinPinTolerance {
		t.Errorf("tolerance %g below printable minimum", s.PinTolerance)
	}
}

func TestMagnetPockets(t *testing.T) {
	k := meshkern.New()
	c := csg.New(k)
	s := wallBody(t, c)

	out, err := Apply(c, s, spec(params.Magnets))
	if err != nil {
		t.Fatal(err)
	}
	// Pockets bore up from the base; the footprint is unchanged.
	min, max := out.BoundingBox()
	if math.Abs(max[0]-50) > 0.01 || math.Abs(min[0]+50) > 0.01 {
		t.Errorf("magnet pockets changed the X footprint: [%g, %g]", min[0], max[0])
	}
	if min[2] < -0.01 {
		t.Errorf("pocket cut below the base plane: %g", min[2])
	}
	if err := meshkern.Validate(out.(*meshkern.Solid)); err != nil {
		t.Errorf("magnet base not manifold: %v", err)
	}
}

func TestGroundClusters(t *testing.T) {
	k := meshkern.New()
	c := csg.New(k)
	s := wallBody(t, c)

	out, err := Apply(c, s, spec(params.PinsAndMagnets))
	if err != nil {
		t.Fatal(err)
	}
	// Combined mode carries the pins and the full ground clusters.
	_, max := out.BoundingBox()
	if max[0] < 50+DefaultPinHeight-0.5 {
		t.Errorf("combined mode lost the pins: +X extent %g", max[0])
	}
	// Two pin pairs plus three clusters of three holes each.
	if c.Ops() != 13 {
		t.Errorf("combined mode attempted %d ops, want 13", c.Ops())
	}
	if w := c.Warnings(); len(w) != 0 {
		t.Errorf("combined mode skipped cuts: %v", w)
	}
	if err := meshkern.Validate(out.(*meshkern.Solid)); err != nil {
		t.Errorf("clustered wall not manifold: %v", err)
	}
}

// The ground clusters sit on three edges of the base: both ends and
// the front. The front socket must be a real void, not just an
// attempted cut.
func TestGroundClusterFrontEdge(t *testing.T) {
	k := meshkern.New()
	c := csg.New(k)
	s := wallBody(t, c)

	sp := spec(params.PinsAndMagnets)
	out, err := Apply(c, s, sp)
	if err != nil {
		t.Fatal(err)
	}
	if w := c.Warnings(); len(w) != 0 {
		t.Fatalf("cluster cuts skipped: %v", w)
	}

	pocketR := sp.MagnetDiameter/2 + MagnetTolerance
	frontY := math.Min(-4+pocketR+minBossWall, 0)

	sample, err := k.Box(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	sample = k.Translate(sample, 0, frontY, 0.5)
	if _, err := k.Intersection(k.Clone(out), sample, kernel.Exact); !errors.Is(err, kernel.ErrEmptyResult) {
		t.Errorf("front-edge socket: got %v, want empty intersection", err)
	}
}

func TestEdgeStations(t *testing.T) {
	tests := []struct {
		lo, hi float64
		count  int
		want   []float64
	}{
		{0, 30, 2, []float64{10, 20}},
		{0, 40, 3, []float64{10, 20, 30}},
		{10, 20, 1, []float64{15}},
		{0, 10, 0, []float64{}},
	}
	for _, tt := range tests {
		got := edgeStations(tt.lo, tt.hi, tt.count)
		if len(got) != len(tt.want) {
			t.Errorf("edgeStations(%g, %g, %d) = %v, want %v", tt.lo, tt.hi, tt.count, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("station %d = %g, want %g", i, got[i], tt.want[i])
			}
		}
	}
}

func TestPocketFitsMagnet(t *testing.T) {
	s := spec(params.Magnets)
	pocketR := s.MagnetDiameter/2 + MagnetTolerance
	if pocketR*2 <= s.MagnetDiameter {
		t.Error("pocket does not clear the magnet diameter")
	}
}
