package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/calthrop/bastion/pkg/params"
	"github.com/calthrop/bastion/pkg/splitter"
)

// bastionConfig mirrors bastion.toml. Numeric defaults overlay the
// shipping defaults; enums come in as names and are parsed.
type bastionConfig struct {
	Defaults defaultsConfig `toml:"defaults"`
	Output   outputConfig   `toml:"output"`
	Bed      bedConfig      `toml:"bed"`
}

type defaultsConfig struct {
	Width           *float64 `toml:"width"`
	Height          *float64 `toml:"height"`
	Depth           *float64 `toml:"depth"`
	WallThickness   *float64 `toml:"wall_thickness"`
	WindowDensity   *int     `toml:"window_density"`
	DetailLevel     *int     `toml:"detail_level"`
	GothicStyle     *int     `toml:"gothic_style"`
	DamageIntensity *float64 `toml:"damage_intensity"`
	Seed            *int64   `toml:"seed"`
	PinTolerance    *float64 `toml:"pin_tolerance"`
	MagnetDiameter  *float64 `toml:"magnet_diameter"`
	MagnetHeight    *float64 `toml:"magnet_height"`
	BevelWidth      *float64 `toml:"bevel_width"`

	Style      string `toml:"style"`
	Damage     string `toml:"damage"`
	Connectors string `toml:"connectors"`
	Split      string `toml:"split"`
}

// outputConfig is the fallback for the --out, --format and --kernel
// flags. A flag set on the command line always wins.
type outputConfig struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	Kernel string `toml:"kernel"`
}

// bedConfig overrides the default printer volume. Size takes either
// one value (a cube) or three (x, y, z), in mm.
type bedConfig struct {
	Size   []float64 `toml:"size"`
	Margin *float64  `toml:"margin"`
}

// findBastionToml walks up from startDir looking for bastion.toml.
func findBastionToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "bastion.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig decodes the nearest bastion.toml. Missing config is not
// an error; the zero value stands in for an absent file.
func loadConfig(startDir string) (bastionConfig, string, error) {
	var cfg bastionConfig

	path, found, err := findBastionToml(startDir)
	if err != nil || !found {
		return cfg, "", err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// loadDefaults returns the shipping defaults overlaid with whatever
// bastion.toml defines.
func loadDefaults(startDir string) (params.ModuleParameters, error) {
	cfg, path, err := loadConfig(startDir)
	if err != nil {
		return params.Defaults(), err
	}
	return cfg.parameters(path)
}

// parameters overlays the [defaults] section onto the shipping
// defaults.
func (c bastionConfig) parameters(path string) (params.ModuleParameters, error) {
	p := params.Defaults()
	var err error

	d := c.Defaults
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&p.Width, d.Width)
	setF(&p.Height, d.Height)
	setF(&p.Depth, d.Depth)
	setF(&p.WallThickness, d.WallThickness)
	setF(&p.DamageIntensity, d.DamageIntensity)
	setF(&p.PinTolerance, d.PinTolerance)
	setF(&p.MagnetDiameter, d.MagnetDiameter)
	setF(&p.MagnetHeight, d.MagnetHeight)
	setF(&p.BevelWidth, d.BevelWidth)
	if d.WindowDensity != nil {
		p.WindowDensity = *d.WindowDensity
	}
	if d.DetailLevel != nil {
		p.DetailLevel = *d.DetailLevel
	}
	if d.GothicStyle != nil {
		p.GothicStyle = *d.GothicStyle
	}
	if d.Seed != nil {
		p.Seed = *d.Seed
	}

	if d.Style != "" {
		if p.Style, err = params.ParseWallStyle(d.Style); err != nil {
			return p, fmt.Errorf("%s: %w", path, err)
		}
	}
	if d.Damage != "" {
		if p.Damage, err = params.ParseDamageState(d.Damage); err != nil {
			return p, fmt.Errorf("%s: %w", path, err)
		}
	}
	if d.Connectors != "" {
		if p.Connector, err = params.ParseConnectorType(d.Connectors); err != nil {
			return p, fmt.Errorf("%s: %w", path, err)
		}
	}
	if d.Split != "" {
		if p.Split, err = params.ParseSplitMode(d.Split); err != nil {
			return p, fmt.Errorf("%s: %w", path, err)
		}
	}
	return p, nil
}

// bed returns the configured print bed, falling back to the default
// 256 mm cube.
func (c bastionConfig) bed() (splitter.Bed, error) {
	bed := splitter.DefaultBed()
	switch len(c.Bed.Size) {
	case 0:
	case 1:
		bed.Size = [3]float64{c.Bed.Size[0], c.Bed.Size[0], c.Bed.Size[0]}
	case 3:
		copy(bed.Size[:], c.Bed.Size)
	default:
		return bed, fmt.Errorf("bed size wants 1 or 3 values, got %d", len(c.Bed.Size))
	}
	if c.Bed.Margin != nil {
		bed.Margin = *c.Bed.Margin
	}
	for axis := 0; axis < 3; axis++ {
		if bed.Limit(axis) <= 0 {
			return bed, fmt.Errorf("bed axis %d has no printable extent", axis)
		}
	}
	return bed, nil
}
