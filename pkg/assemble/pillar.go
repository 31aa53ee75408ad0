package assemble

import (
	"fmt"
	"math"

	"github.com/calthrop/bastion/pkg/connector"
	"github.com/calthrop/bastion/pkg/damage"
	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/params"
)

const (
	clusterSlabHeight = 3.0
	shaftSegments     = 16

	// placementAttempts bounds the rejection sampling per pillar so
	// a crowded footprint degrades to fewer pillars instead of
	// looping forever.
	placementAttempts = 20
)

// pillarCluster builds a shared ground slab with a seeded scatter of
// ruined columns. Column count follows the density lever; the damage
// levers decide how many stand at full height.
func (b *builder) pillarCluster() (kernel.Solid, error) {
	p := b.p
	k := b.c.Kernel()
	w, d := p.Width, p.Depth

	body, err := k.Box(w, clusterSlabHeight, d)
	if err != nil {
		return nil, err
	}

	count := p.WindowDensity
	if count < 1 {
		count = 1
	}
	if count > 5 {
		count = 5
	}

	r := clamp(math.Min(w, d)*0.08, 3, 8)
	margin := r * 2.2
	minDist := r * 5

	var placed [][2]float64
	for i := 0; i < count; i++ {
		x, y, ok := b.placePillar(w, d, margin, minDist, placed)
		if !ok {
			continue
		}
		placed = append(placed, [2]float64{x, y})

		height := p.Height
		broken := false
		if p.Damage != params.Clean && b.rng.Float64() < p.DamageIntensity*0.7 {
			height *= b.uniform(0.3, 0.7)
			broken = true
		}

		col, err := b.column(r, height, broken)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
		}
		col = k.Translate(col, x, y, clusterSlabHeight-0.1)
		body = b.c.Union(body, col, fmt.Sprintf("pillar_%d", i))
	}

	// Rubble scattered between the columns.
	if p.DetailLevel >= detailBands && p.Damage != params.Clean && p.DamageIntensity > 0.1 {
		body, err = b.debris(body, w, d, placed)
		if err != nil {
			b.c.Destroy(body)
			return nil, err
		}
	}

	if p.Damage != params.Clean && p.DamageIntensity > 0.2 {
		body, err = damage.Apply(b.c, body, p.Damage, p.DamageIntensity*0.5, b.rng)
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

// placePillar rejection-samples a slab position keeping minDist to
// every prior column. The draw order is fixed so a seed always yields
// the same scatter.
func (b *builder) placePillar(w, d, margin, minDist float64, placed [][2]float64) (x, y float64, ok bool) {
	for attempt := 0; attempt < placementAttempts; attempt++ {
		x = b.uniform(-w/2+margin, w/2-margin)
		y = b.uniform(-d/2+margin, d/2-margin)
		clear := true
		for _, q := range placed {
			if math.Hypot(x-q[0], y-q[1]) < minDist {
				clear = false
				break
			}
		}
		if clear {
			return x, y, true
		}
	}
	return 0, 0, false
}

// column builds one pillar at the origin: square base, round shaft,
// square capital. Broken columns lose the capital and end in a rough
// angled top.
func (b *builder) column(r, height float64, broken bool) (kernel.Solid, error) {
	p := b.p
	k := b.c.Kernel()

	baseH := math.Max(3, r*0.9)
	capH := math.Max(2.5, r*0.7)
	shaftH := height - baseH
	if !broken {
		shaftH -= capH
	}
	if shaftH < r {
		shaftH = r
	}

	base, err := k.Box(r*2.8, baseH, r*2.8)
	if err != nil {
		return nil, err
	}
	col := base

	shaft, err := k.Cylinder(r, shaftH, shaftSegments)
	if err != nil {
		b.c.Destroy(col)
		return nil, err
	}
	shaft = k.Translate(shaft, 0, 0, baseH-0.1)
	col = b.c.Union(col, shaft, "shaft")

	// Fluting on intact gothic shafts.
	if !broken && p.GothicStyle >= 2 && p.DetailLevel >= detailFixtures {
		fluteR := r * 0.18
		for i := 0; i < 8; i++ {
			angle := 2 * math.Pi * float64(i) / 8
			flute, err := k.Cylinder(fluteR, shaftH+2, 8)
			if err != nil {
				b.c.Destroy(col)
				return nil, err
			}
			flute = k.Translate(flute, r*math.Cos(angle), r*math.Sin(angle), baseH-1)
			col = b.c.Difference(col, flute, fmt.Sprintf("flute_%d", i))
		}
	}

	if broken {
		// Rough top: one angled shear through the stump.
		shear, err := k.Box(r*6, r*4, r*6)
		if err != nil {
			b.c.Destroy(col)
			return nil, err
		}
		shear = k.Rotate(shear, b.uniform(-20, 20), b.uniform(-20, 20), 0)
		shear = k.Translate(shear, 0, 0, baseH+shaftH-r*0.6)
		col = b.c.Difference(col, shear, "broken_top")
		return col, nil
	}

	capital, err := k.Box(r*2.6, capH, r*2.6)
	if err != nil {
		b.c.Destroy(col)
		return nil, err
	}
	capital = k.Translate(capital, 0, 0, baseH+shaftH-0.1)
	col = b.c.Union(col, capital, "capital")

	// Skull on the capital face.
	if p.GothicStyle >= 3 && p.DetailLevel >= detailFixtures {
		sw := r * 1.1
		skull, err := b.skullRelief(sw, sw*1.2, 1.2)
		if err != nil {
			b.c.Destroy(col)
			return nil, err
		}
		skull = k.Translate(skull, 0, -r*1.3-0.3, baseH+shaftH+capH/2-sw*0.6)
		col = b.c.Union(col, skull, "capital_skull")
	}

	return col, nil
}

// debris drops small tumbled blocks on the slab, clear of the column
// footprints.
func (b *builder) debris(body kernel.Solid, w, d float64, placed [][2]float64) (kernel.Solid, error) {
	p := b.p
	k := b.c.Kernel()

	n := 2 + int(math.Round(p.DamageIntensity*4))
	for i := 0; i < n; i++ {
		bx := b.uniform(1.5, 4)
		bz := b.uniform(1.5, 3)
		block, err := k.Box(bx, bz, bx*b.uniform(0.6, 1.1))
		if err != nil {
			return body, err
		}
		block = k.Rotate(block, 0, 0, b.uniform(0, 90))

		x := b.uniform(-w/2+4, w/2-4)
		y := b.uniform(-d/2+4, d/2-4)
		// Do not bury a block inside a column.
		clear := true
		for _, q := range placed {
			if math.Hypot(x-q[0], y-q[1]) < 6 {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		block = k.Translate(block, x, y, clusterSlabHeight-0.5)
		body = b.c.Union(body, block, fmt.Sprintf("debris_%d", i))
	}
	return body, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
