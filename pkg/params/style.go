package params

import "fmt"

// WallStyle selects a reference architecture preset. Presets are
// configuration data, not code paths: they only tune ratios consumed
// by the layout engine and detail assemblers.
type WallStyle int

const (
	// StyleVontragg: fine cathedral stonework, very slender lancets.
	StyleVontragg WallStyle = iota
	// StyleVoy: grimdark ruins, medium blockwork, wider lancets.
	StyleVoy
	// StyleSimple: coarse modular blocks, plain profile.
	StyleSimple
)

var wallStyleNames = map[WallStyle]string{
	StyleVontragg: "vontragg",
	StyleVoy:      "voy",
	StyleSimple:   "simple",
}

func (s WallStyle) String() string {
	if n, ok := wallStyleNames[s]; ok {
		return n
	}
	return fmt.Sprintf("WallStyle(%d)", int(s))
}

// ParseWallStyle maps a config string to a WallStyle.
func ParseWallStyle(s string) (WallStyle, error) {
	for style, name := range wallStyleNames {
		if name == s {
			return style, nil
		}
	}
	return 0, fmt.Errorf("unknown wall style %q (want vontragg, voy or simple)", s)
}

// StyleSpec is the numeric shape of one preset.
type StyleSpec struct {
	// WindowAspect is the maximum window width as a fraction of arch
	// height (lancet slenderness; smaller is narrower).
	WindowAspect float64
	// ArchSegments is the tessellation budget for arch profiles.
	ArchSegments int
	// BlockHeight and BlockWidth size the stone coursing grid, mm.
	BlockHeight float64
	BlockWidth  float64
	// MortarWidth is the coursing groove width, mm.
	MortarWidth float64
}

var styleSpecs = map[WallStyle]StyleSpec{
	StyleVontragg: {
		WindowAspect: 0.28,
		ArchSegments: 16,
		BlockHeight:  6,
		BlockWidth:   9,
		MortarWidth:  0.5,
	},
	StyleVoy: {
		WindowAspect: 0.33,
		ArchSegments: 12,
		BlockHeight:  8,
		BlockWidth:   12,
		MortarWidth:  0.6,
	},
	StyleSimple: {
		WindowAspect: 0.40,
		ArchSegments: 8,
		BlockHeight:  10,
		BlockWidth:   16,
		MortarWidth:  0.8,
	},
}

// Spec returns the numeric preset for s. Unknown styles fall back to
// the VOY preset.
func (s WallStyle) Spec() StyleSpec {
	if spec, ok := styleSpecs[s]; ok {
		return spec
	}
	return styleSpecs[StyleVoy]
}

// Styles lists all presets in display order.
func Styles() []WallStyle {
	return []WallStyle{StyleVontragg, StyleVoy, StyleSimple}
}
