// Package connector adds mating geometry so finished modules lock
// together on the table: alignment pins along the vertical end faces
// and magnet pockets in the base. Positions are derived from the
// solid's bounding box, never from the layout, so damaged and split
// pieces still get usable connectors.
package connector

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/csg"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/params"
)

// Default connector dimensions, mm.
const (
	DefaultPinRadius    = 2.0
	DefaultPinHeight    = 4.0
	MagnetTolerance     = 0.15
	pinSegments         = 12
	pocketSegments      = 16
	edgeCount           = 2

	// minBossWall is the thinnest material allowed around any pocket;
	// a reinforcement boss is added wherever the body is thinner.
	minBossWall = 1.2
)

// Spec collects the connector dimensions for one module.
type Spec struct {
	Type         params.ConnectorType
	PinRadius    float64
	PinHeight    float64
	PinTolerance float64 // socket clearance per side

	MagnetDiameter float64
	MagnetHeight   float64
}

// FromParams builds a Spec from the user-facing parameters.
func FromParams(p params.ModuleParameters) Spec {
	return Spec{
		Type:           p.Connector,
		PinRadius:      DefaultPinRadius,
		PinHeight:      DefaultPinHeight,
		PinTolerance:   p.PinTolerance,
		MagnetDiameter: p.MagnetDiameter,
		MagnetHeight:   p.MagnetHeight,
	}
}

// Apply attaches the requested connector set. Male pins grow from the
// +X face and sockets are bored into the -X face, so a row of modules
// chains left to right. Magnet pockets are bored up into the base.
// With both systems enabled the base gets the full ground cluster:
// socket flanked by two magnets at each station.
func Apply(c *csg.Compositor, s kernel.Solid, spec Spec) (kernel.Solid, error) {
	if spec.Type == params.NoConnectors {
		return s, nil
	}
	min, max := s.BoundingBox()

	wantPins := spec.Type == params.Pins || spec.Type == params.PinsAndMagnets
	wantMagnets := spec.Type == params.Magnets || spec.Type == params.PinsAndMagnets

	var err error
	if wantPins {
		s, err = applyEdgePins(c, s, spec, min, max)
		if err != nil {
			return s, err
		}
	}
	if spec.Type == params.PinsAndMagnets {
		s, err = applyGroundClusters(c, s, spec, min, max)
		return s, err
	}
	if wantMagnets {
		s, err = applyBaseMagnets(c, s, spec, min, max)
	}
	return s, err
}

// edgeStations returns the fractional stations along one edge,
// following the (i+1)/(count+1) spacing rule.
func edgeStations(lo, hi float64, count int) []float64 {
	out := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		t := float64(i+1) / float64(count+1)
		out = append(out, lo+(hi-lo)*t)
	}
	return out
}

// applyEdgePins grows male pins on the +X face and bores matching
// sockets into the -X face at the same heights.
func applyEdgePins(c *csg.Compositor, s kernel.Solid, spec Spec, min, max [3]float64) (kernel.Solid, error) {
	k := c.Kernel()
	sy := max[1] - min[1]
	midY := (min[1] + max[1]) / 2

	// A pin thicker than the wall cannot print; shrink to fit.
	r := math.Min(spec.PinRadius, sy*0.35)
	if r < 0.8 {
		return s, nil
	}

	for i, z := range edgeStations(min[2], max[2], edgeCount) {
		pin, err := xCylinder(k, r, spec.PinHeight, pinSegments)
		if err != nil {
			return s, err
		}
		pin = k.Translate(pin, max[0]-0.1, midY, z)
		s = c.Union(s, pin, fmt.Sprintf("pin_male_%d", i))

		socket, err := xCylinder(k, r+spec.PinTolerance, spec.PinHeight+0.5, pinSegments)
		if err != nil {
			return s, err
		}
		socket = k.Translate(socket, min[0]-0.3, midY, z)
		s = c.Difference(s, socket, fmt.Sprintf("pin_socket_%d", i))
	}
	return s, nil
}

// applyBaseMagnets bores magnet pockets up into the bottom face.
func applyBaseMagnets(c *csg.Compositor, s kernel.Solid, spec Spec, min, max [3]float64) (kernel.Solid, error) {
	midY := (min[1] + max[1]) / 2
	for i, x := range edgeStations(min[0], max[0], edgeCount) {
		var err error
		s, err = boreBasePocket(c, s, spec, x, midY, min, max, fmt.Sprintf("magnet_%d", i))
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

// applyGroundClusters bores a magnet-socket-magnet cluster into the
// base at three of its edges: both ends and the front. The center
// socket accepts a neighbor's dowel pin for shear, the magnets carry
// the pull. Cluster holes run along X so they stay inside thin wall
// footprints; the reinforcement bosses come from boreBasePocket.
func applyGroundClusters(c *csg.Compositor, s kernel.Solid, spec Spec, min, max [3]float64) (kernel.Solid, error) {
	k := c.Kernel()
	midX := (min[0] + max[0]) / 2
	midY := (min[1] + max[1]) / 2
	pocketR := spec.MagnetDiameter/2 + MagnetTolerance
	inset := pocketR + minBossWall
	spacing := spec.MagnetDiameter + 2*minBossWall + 2

	// Keep the front cluster inside shallow footprints.
	frontY := math.Min(min[1]+inset, midY)

	sites := []struct {
		name string
		x, y float64
	}{
		{"left", min[0] + inset + spacing, midY},
		{"right", max[0] - inset - spacing, midY},
		{"front", midX, frontY},
	}
	for _, site := range sites {
		var err error
		for j, mx := range []float64{site.x - spacing, site.x + spacing} {
			s, err = boreBasePocket(c, s, spec, mx, site.y, min, max, fmt.Sprintf("cluster_%s_magnet_%d", site.name, j))
			if err != nil {
				return s, err
			}
		}

		socket, err := k.Cylinder(spec.PinRadius+spec.PinTolerance, spec.PinHeight+0.5, pinSegments)
		if err != nil {
			return s, err
		}
		socket = k.Translate(socket, site.x, site.y, min[2]-0.3)
		s = c.Difference(s, socket, fmt.Sprintf("cluster_%s_socket", site.name))
	}
	return s, nil
}

// boreBasePocket cuts one vertical magnet pocket, adding a
// reinforcement boss first when the body is too thin to hold the
// minimum wall around the cut.
func boreBasePocket(c *csg.Compositor, s kernel.Solid, spec Spec, x, y float64, min, max [3]float64, label string) (kernel.Solid, error) {
	k := c.Kernel()
	sy := max[1] - min[1]
	pocketR := spec.MagnetDiameter/2 + MagnetTolerance
	depth := spec.MagnetHeight + 0.3

	if sy < 2*(pocketR+minBossWall) {
		boss, err := k.Cylinder(pocketR+minBossWall, depth+minBossWall, pocketSegments)
		if err != nil {
			return s, err
		}
		boss = k.Translate(boss, x, y, min[2])
		s = c.Union(s, boss, label+"_boss")
	}

	pocket, err := k.Cylinder(pocketR, depth, pocketSegments)
	if err != nil {
		return s, err
	}
	pocket = k.Translate(pocket, x, y, min[2]-0.1)
	return c.Difference(s, pocket, label), nil
}

// xCylinder builds a cylinder lying along +X with its base at X=0.
func xCylinder(k kernel.Kernel, r, length float64, segments int) (kernel.Solid, error) {
	cyl, err := k.Cylinder(r, length, segments)
	if err != nil {
		return nil, err
	}
	// Ry(90°) maps the +Z axis onto +X.
	return k.Rotate(cyl, 0, 90, 0), nil
}
