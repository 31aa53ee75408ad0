package assemble

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/profile"
)

// Ornament construction. Every helper returns a freshly owned solid
// positioned at the origin unless noted; the caller translates it
// into place and feeds it to the compositor. Primitive failures are
// fatal (the layout cannot be realized without the piece).

// archCutter builds the solid that cuts one window opening. Gothic
// walls get the lancet silhouette; plain walls a rectangle. The
// cutter is deeper than the wall so both faces open cleanly.
func (b *builder) archCutter(w, h, depth float64, segments int) (kernel.Solid, error) {
	if b.p.GothicStyle >= 1 {
		prof, err := profile.LancetArch(w, h, segments)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
		}
		return b.c.Kernel().Extrude(prof, depth)
	}
	return b.c.Kernel().Box(w, h, depth)
}

// archFrameRing builds the raised surround for one window: the outer
// arch solid minus the opening-sized inner solid.
func (b *builder) archFrameRing(w, h, thickness, depth float64, segments int) (kernel.Solid, error) {
	outerProf, innerProf, err := profile.ArchFrame(w, h, thickness, segments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kernel.ErrInvalidGeometry, err)
	}
	outer, err := b.c.Kernel().Extrude(outerProf, depth)
	if err != nil {
		return nil, err
	}
	inner, err := b.c.Kernel().Extrude(innerProf, depth+2)
	if err != nil {
		b.c.Destroy(outer)
		return nil, err
	}
	inner = b.c.Kernel().Translate(inner, 0, 0, -1)
	ring := b.c.Difference(outer, inner, "arch_frame_ring")
	return ring, nil
}

// buttress builds a frustum tapering from full footprint at the base
// to taper·footprint at the top. The kernel has no frustum primitive,
// so it is the intersection of two perpendicular trapezoid
// extrusions.
func (b *builder) buttress(w, h, d, taper float64) (kernel.Solid, error) {
	k := b.c.Kernel()

	xProf := trapezoid(w, h, taper)
	ex, err := k.Extrude(xProf, d)
	if err != nil {
		return nil, err
	}
	yProf := trapezoid(d, h, taper)
	ey, err := k.Extrude(yProf, w)
	if err != nil {
		b.c.Destroy(ex)
		return nil, err
	}
	// Second extrusion runs along Y; turn it so its taper crosses the
	// first one.
	ey = k.Rotate(ey, 0, 0, 90)
	return b.c.Intersection(ex, ey, "buttress_taper"), nil
}

// trapezoid is a symmetric profile of the given base width and
// height, narrowing to taper·width at the top.
func trapezoid(width, height, taper float64) profile.Profile {
	hw := width / 2
	tw := hw * taper
	return profile.Profile{
		{X: -hw, Z: 0},
		{X: hw, Z: 0},
		{X: tw, Z: height},
		{X: -tw, Z: height},
	}
}

// pilaster is a plain rectangular shaft; visual continuity with the
// plinth and cornice comes from sharing their protrusion depth.
func (b *builder) pilaster(w, h, d float64) (kernel.Solid, error) {
	return b.c.Kernel().Box(w, h, d)
}

// skullRelief builds a simplified imperial skull: a rounded panel
// with eye sockets and a tapered jaw, sized to print on FDM without
// supports. Built at the origin facing -Y.
func (b *builder) skullRelief(w, h, depth float64) (kernel.Solid, error) {
	k := b.c.Kernel()
	dome, err := k.Box(w, h, depth)
	if err != nil {
		return nil, err
	}

	// Jaw taper: two angled cuts at the lower corners.
	for i, sign := range []float64{-1, 1} {
		chamfer, err := k.Box(w*0.6, h*0.6, depth+2)
		if err != nil {
			b.c.Destroy(dome)
			return nil, err
		}
		// The panel faces -Y, so the corner cut slopes in the front
		// view by tilting about Y.
		chamfer = k.Rotate(chamfer, 0, sign*30, 0)
		chamfer = k.Translate(chamfer, sign*w*0.55, 0, -h*0.25)
		dome = b.c.Difference(dome, chamfer, fmt.Sprintf("skull_jaw_%d", i))
	}

	// Eye sockets: shallow cylinders into the front face.
	eyeR := w * 0.16
	for i, sign := range []float64{-1, 1} {
		eye, err := k.Cylinder(eyeR, depth, 10)
		if err != nil {
			b.c.Destroy(dome)
			return nil, err
		}
		// Z-aligned cylinder turned onto the Y axis.
		eye = k.Rotate(eye, 90, 0, 0)
		eye = k.Translate(eye, sign*w*0.22, depth*0.4, h*0.55)
		dome = b.c.Difference(dome, eye, fmt.Sprintf("skull_eye_%d", i))
	}
	return dome, nil
}

// aquilaRelief builds the simplified double-eagle panel: a raised
// plate with a V cut by two angled boxes.
func (b *builder) aquilaRelief(w, h, depth float64) (kernel.Solid, error) {
	k := b.c.Kernel()
	panel, err := k.Box(w*0.8, h*0.6, depth)
	if err != nil {
		return nil, err
	}
	for i, sign := range []float64{-1, 1} {
		cutter, err := k.Box(w*0.5, h*0.3, depth+2)
		if err != nil {
			b.c.Destroy(panel)
			return nil, err
		}
		cutter = k.Rotate(cutter, 0, sign*25, 0)
		cutter = k.Translate(cutter, sign*w*0.25, 0, -h*0.2)
		panel = b.c.Difference(panel, cutter, fmt.Sprintf("aquila_wing_%d", i))
	}
	return panel, nil
}

// rivet builds one rivet stud pointing along -Y from the origin.
func (b *builder) rivet(radius, depth float64) (kernel.Solid, error) {
	k := b.c.Kernel()
	r, err := k.Cylinder(radius, depth, 8)
	if err != nil {
		return nil, err
	}
	// After the X rotation the stud spans y ∈ [-depth, 0].
	return k.Rotate(r, 90, 0, 0), nil
}

// panelLines cuts count shallow horizontal grooves across the front
// face of target, evenly spaced over its height.
func (b *builder) panelLines(target kernel.Solid, count int, lineW, lineD float64) (kernel.Solid, error) {
	min, max := target.BoundingBox()
	sx := max[0] - min[0]
	sz := max[2] - min[2]
	k := b.c.Kernel()

	for i := 0; i < count; i++ {
		t := float64(i+1) / float64(count+1)
		z := min[2] + sz*t
		cutter, err := k.Box(sx+2, lineW, lineD)
		if err != nil {
			return target, err
		}
		cutter = k.Translate(cutter, (min[0]+max[0])/2, min[1]+lineD/2-0.01, z-lineW/2)
		target = b.c.Difference(target, cutter, fmt.Sprintf("panel_line_%d", i))
	}
	return target, nil
}

// stoneCourseGrid cuts the masonry block grid: horizontal course
// lines plus vertical joints, mortar width from the style preset.
func (b *builder) stoneCourseGrid(target kernel.Solid, blockH, blockW, mortarW, lineD float64) (kernel.Solid, error) {
	min, max := target.BoundingBox()
	sx := max[0] - min[0]
	sz := max[2] - min[2]
	k := b.c.Kernel()
	midX := (min[0] + max[0]) / 2

	rows := int(sz / blockH)
	for i := 1; i < rows; i++ {
		z := min[2] + float64(i)*blockH
		cutter, err := k.Box(sx+2, mortarW, lineD)
		if err != nil {
			return target, err
		}
		cutter = k.Translate(cutter, midX, min[1]+lineD/2-0.01, z-mortarW/2)
		target = b.c.Difference(target, cutter, fmt.Sprintf("course_%d", i))
	}

	cols := int(sx / blockW)
	for j := 1; j < cols; j++ {
		x := min[0] + float64(j)*blockW
		cutter, err := k.Box(mortarW, sz+2, lineD)
		if err != nil {
			return target, err
		}
		cutter = k.Translate(cutter, x, min[1]+lineD/2-0.01, min[2]-1)
		target = b.c.Difference(target, cutter, fmt.Sprintf("joint_%d", j))
	}
	return target, nil
}

// bevelEdges chamfers the four vertical outer edges with 45° corner
// cuts. Skipped when width is zero.
func (b *builder) bevelEdges(target kernel.Solid, width float64) (kernel.Solid, error) {
	if width <= 0 {
		return target, nil
	}
	min, max := target.BoundingBox()
	h := max[2] - min[2]
	k := b.c.Kernel()

	// A square prism rotated 45° about Z clips exactly the corner
	// wedge when centered on the edge.
	side := width * math.Sqrt2
	corners := [][2]float64{
		{min[0], min[1]}, {min[0], max[1]},
		{max[0], min[1]}, {max[0], max[1]},
	}
	for i, corner := range corners {
		cutter, err := k.Box(side, h+2, side)
		if err != nil {
			return target, err
		}
		cutter = k.Rotate(cutter, 0, 0, 45)
		cutter = k.Translate(cutter, corner[0], corner[1], min[2]-1)
		target = b.c.Difference(target, cutter, fmt.Sprintf("bevel_%d", i))
	}
	return target, nil
}
