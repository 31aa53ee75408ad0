// Package params defines the immutable configuration record for one
// generation request, its validation gate and the named style
// presets. A ModuleParameters value is created once per request and
// never mutated mid-pipeline; everything derived from it (zone
// heights, bay positions) is a pure function of the record.
package params

import "fmt"

// ModuleType selects which terrain module to generate.
type ModuleType int

const (
	Wall ModuleType = iota
	Corner
	PillarCluster
)

var moduleTypeNames = map[ModuleType]string{
	Wall:          "wall",
	Corner:        "corner",
	PillarCluster: "pillars",
}

func (t ModuleType) String() string {
	if s, ok := moduleTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ModuleType(%d)", int(t))
}

// ParseModuleType maps a config string to a ModuleType.
func ParseModuleType(s string) (ModuleType, error) {
	for t, name := range moduleTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown module type %q (want wall, corner or pillars)", s)
}

// DamageState selects one of the mutually exclusive damage variants.
type DamageState int

const (
	Clean DamageState = iota
	Damaged
	Ruined
	Half
)

var damageStateNames = map[DamageState]string{
	Clean:   "clean",
	Damaged: "damaged",
	Ruined:  "ruined",
	Half:    "half",
}

func (d DamageState) String() string {
	if s, ok := damageStateNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DamageState(%d)", int(d))
}

// ParseDamageState maps a config string to a DamageState.
func ParseDamageState(s string) (DamageState, error) {
	for d, name := range damageStateNames {
		if name == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown damage state %q (want clean, damaged, ruined or half)", s)
}

// ConnectorType selects which mating geometry is added.
type ConnectorType int

const (
	NoConnectors ConnectorType = iota
	Pins
	Magnets
	PinsAndMagnets
)

var connectorTypeNames = map[ConnectorType]string{
	NoConnectors:   "none",
	Pins:           "pins",
	Magnets:        "magnets",
	PinsAndMagnets: "both",
}

func (c ConnectorType) String() string {
	if s, ok := connectorTypeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ConnectorType(%d)", int(c))
}

// ParseConnectorType maps a config string to a ConnectorType.
func ParseConnectorType(s string) (ConnectorType, error) {
	for c, name := range connectorTypeNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown connector type %q (want none, pins, magnets or both)", s)
}

// SplitMode controls print-bed splitting of oversized output.
type SplitMode int

const (
	SplitAuto SplitMode = iota
	SplitOff
)

func (m SplitMode) String() string {
	if m == SplitOff {
		return "off"
	}
	return "auto"
}

// ParseSplitMode maps a config string to a SplitMode.
func ParseSplitMode(s string) (SplitMode, error) {
	switch s {
	case "auto":
		return SplitAuto, nil
	case "off":
		return SplitOff, nil
	}
	return 0, fmt.Errorf("unknown split mode %q (want auto or off)", s)
}

// ModuleParameters is the full configuration of one generation
// request. TOML tags allow loading defaults from a bastion.toml
// profile; zero-configured fields are filled by Defaults.
type ModuleParameters struct {
	Type ModuleType `toml:"-"`

	// Geometry, mm.
	Width         float64 `toml:"width"`
	Height        float64 `toml:"height"`
	Depth         float64 `toml:"depth"`
	WallThickness float64 `toml:"wall_thickness"`

	// Discrete style levers.
	WindowDensity int       `toml:"window_density"` // 0–6 windows per wall
	DetailLevel   int       `toml:"detail_level"`   // 0–3
	GothicStyle   int       `toml:"gothic_style"`   // 0–3
	Style         WallStyle `toml:"-"`

	// Damage.
	Damage          DamageState `toml:"-"`
	DamageIntensity float64     `toml:"damage_intensity"` // 0–1

	// Determinism.
	Seed int64 `toml:"seed"`

	// Connectors.
	Connector      ConnectorType `toml:"-"`
	PinTolerance   float64       `toml:"pin_tolerance"`   // clearance per side, mm
	MagnetDiameter float64       `toml:"magnet_diameter"` // mm
	MagnetHeight   float64       `toml:"magnet_height"`   // mm

	// Output handling.
	Split      SplitMode `toml:"-"`
	BevelWidth float64   `toml:"bevel_width"` // mm, 0 disables
}

// Defaults returns the shipping parameter set: a clean standard-detail
// VOY-style wall.
func Defaults() ModuleParameters {
	return ModuleParameters{
		Type:            Wall,
		Width:           100,
		Height:          80,
		Depth:           80,
		WallThickness:   3,
		WindowDensity:   2,
		DetailLevel:     1,
		GothicStyle:     1,
		Style:           StyleVoy,
		Damage:          Clean,
		DamageIntensity: 0.3,
		Seed:            42,
		Connector:       NoConnectors,
		PinTolerance:    0.25,
		MagnetDiameter:  3,
		MagnetHeight:    2,
		Split:           SplitAuto,
	}
}
