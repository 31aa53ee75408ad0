package profile

import (
	"math"
	"strings"
	"testing"
)

func TestLancetArchShape(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		segments      int
	}{
		{"narrow window", 12, 40, 8},
		{"wide opening", 30, 50, 16},
		{"segment floor", 10, 30, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LancetArch(tt.width, tt.height, tt.segments)
			if err != nil {
				t.Fatalf("LancetArch: %v", err)
			}
			if err := p.Validate(); err != nil {
				t.Fatalf("invalid profile: %v", err)
			}

			min, max := p.Bounds()
			if math.Abs(min.X+tt.width/2) > 1e-9 || math.Abs(max.X-tt.width/2) > 1e-9 {
				t.Errorf("X bounds [%g, %g], want [%g, %g]", min.X, max.X, -tt.width/2, tt.width/2)
			}
			if math.Abs(min.Z) > 1e-9 {
				t.Errorf("base at Z=%g, want 0", min.Z)
			}
			if math.Abs(max.Z-tt.height) > 1e-9 {
				t.Errorf("apex at Z=%g, want %g", max.Z, tt.height)
			}

			// Single apex point at exactly (0, height).
			apexes := 0
			for _, pt := range p {
				if pt.Z == tt.height {
					apexes++
					if pt.X != 0 {
						t.Errorf("apex at X=%g, want 0", pt.X)
					}
				}
			}
			if apexes != 1 {
				t.Errorf("found %d apex points, want 1", apexes)
			}
		})
	}
}

func TestLancetArchErrors(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 30},
		{"negative height", 10, -5},
		{"too squat", 20, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LancetArch(tt.width, tt.height, 8); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLancetArchSymmetry(t *testing.T) {
	p, err := LancetArch(16, 40, 12)
	if err != nil {
		t.Fatal(err)
	}
	// Every point has a mirror partner across X=0.
	for _, pt := range p {
		found := false
		for _, q := range p {
			if math.Abs(q.X+pt.X) < 1e-9 && math.Abs(q.Z-pt.Z) < 1e-9 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("point (%g, %g) has no mirror partner", pt.X, pt.Z)
		}
	}
}

func TestArchFrame(t *testing.T) {
	outer, inner, err := ArchFrame(12, 36, 3, 8)
	if err != nil {
		t.Fatalf("ArchFrame: %v", err)
	}
	imin, imax := inner.Bounds()
	omin, omax := outer.Bounds()
	if omax.X-omin.X <= imax.X-imin.X {
		t.Error("outer profile not wider than inner")
	}
	if math.Abs((omax.X-omin.X)-(imax.X-imin.X)-6) > 1e-9 {
		t.Errorf("width difference %g, want 6", (omax.X-omin.X)-(imax.X-imin.X))
	}
	if math.Abs(omax.Z-imax.Z-3) > 1e-9 {
		t.Errorf("apex rise %g, want 3", omax.Z-imax.Z)
	}
}

func TestArchFrameBadThickness(t *testing.T) {
	if _, _, err := ArchFrame(12, 36, 0, 8); err == nil {
		t.Fatal("expected error for zero thickness")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Profile
		wantErr string
	}{
		{"triangle", Profile{{0, 0}, {10, 0}, {5, 8}}, ""},
		{"too few points", Profile{{0, 0}, {1, 1}}, "at least 3"},
		{"nan coordinate", Profile{{0, 0}, {math.NaN(), 0}, {5, 8}}, "not finite"},
		{"collinear", Profile{{0, 0}, {5, 0}, {10, 0}}, "zero area"},
		{"bowtie", Profile{{0, 0}, {10, 10}, {10, 0}, {0, 10}}, "intersect"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestWinding(t *testing.T) {
	ccw := Profile{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !ccw.CounterClockwise() {
		t.Error("CCW square reported as CW")
	}
	cw := ccw.Reversed()
	if cw.CounterClockwise() {
		t.Error("reversed square still reported CCW")
	}
	if math.Abs(ccw.Area()+cw.Area()) > 1e-12 {
		t.Error("reversal did not negate area")
	}
}
