package params

import "fmt"

// RangeError reports a parameter outside its allowed range. It is
// raised by the single up-front validation gate, before any geometry
// is built.
type RangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("parameter %s = %g out of range [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// Allowed parameter ranges. Geometry bounds come from FDM
// printability (1.6 mm minimum wall) and the largest supported bed.
const (
	MinDimension = 15.0
	MaxDimension = 500.0

	MinWallThickness = 1.6
	MaxWallThickness = 10.0

	MaxWindowDensity = 6
	MaxDetailLevel   = 3
	MaxGothicStyle   = 3

	MaxSeed = 99999

	MinPinTolerance   = 0.1
	MaxPinTolerance   = 0.5
	MinMagnetDiameter = 2.0
	MaxMagnetDiameter = 6.0
	MinMagnetHeight   = 1.0
	MaxMagnetHeight   = 5.0

	MaxBevelWidth = 3.0
)

// Validate checks every field against its range. It returns the first
// violation as a *RangeError; a nil result means generation may
// proceed. Validation happens exactly once per request.
func (p ModuleParameters) Validate() error {
	checks := []struct {
		field    string
		value    float64
		min, max float64
	}{
		{"width", p.Width, MinDimension, MaxDimension},
		{"height", p.Height, MinDimension, MaxDimension},
		{"depth", p.Depth, MinDimension, MaxDimension},
		{"wall_thickness", p.WallThickness, MinWallThickness, MaxWallThickness},
		{"window_density", float64(p.WindowDensity), 0, MaxWindowDensity},
		{"detail_level", float64(p.DetailLevel), 0, MaxDetailLevel},
		{"gothic_style", float64(p.GothicStyle), 0, MaxGothicStyle},
		{"damage_intensity", p.DamageIntensity, 0, 1},
		{"seed", float64(p.Seed), 0, MaxSeed},
		{"pin_tolerance", p.PinTolerance, MinPinTolerance, MaxPinTolerance},
		{"magnet_diameter", p.MagnetDiameter, MinMagnetDiameter, MaxMagnetDiameter},
		{"magnet_height", p.MagnetHeight, MinMagnetHeight, MaxMagnetHeight},
		{"bevel_width", p.BevelWidth, 0, MaxBevelWidth},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return &RangeError{Field: c.field, Value: c.value, Min: c.min, Max: c.max}
		}
	}

	if _, ok := moduleTypeNames[p.Type]; !ok {
		return fmt.Errorf("invalid module type %d", int(p.Type))
	}
	if _, ok := damageStateNames[p.Damage]; !ok {
		return fmt.Errorf("invalid damage state %d", int(p.Damage))
	}
	if _, ok := connectorTypeNames[p.Connector]; !ok {
		return fmt.Errorf("invalid connector type %d", int(p.Connector))
	}
	if _, ok := wallStyleNames[p.Style]; !ok {
		return fmt.Errorf("invalid wall style %d", int(p.Style))
	}
	if p.Split != SplitAuto && p.Split != SplitOff {
		return fmt.Errorf("invalid split mode %d", int(p.Split))
	}
	return nil
}
