package recipe

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/calthrop/bastion/pkg/params"
)

// kwPrefix is the marker prepended to keyword names by
// preprocessSource.
const kwPrefix = "__kw_"

// collector accumulates the modules a recipe defines, in definition
// order, plus the style preset in effect.
type collector struct {
	modules []params.ModuleParameters
	style   params.WallStyle
}

// sexpModule is the value returned from a module builtin so a recipe
// can see what it just defined.
type sexpModule struct {
	index int
	p     params.ModuleParameters
}

func (m *sexpModule) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s #%d %gx%g)", m.p.Type, m.index, m.p.Width, m.p.Height)
}
func (m *sexpModule) Type() *zygo.RegisteredType { return nil }

// isKW checks whether a Sexp is a preprocessed keyword string and
// returns its bare name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toName extracts a bare name from either a plain string or a
// preprocessed keyword, so both (wall :damage "ruined") and
// (wall :damage :ruined) read naturally.
func toName(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected name, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// applyCommon overlays the recognized keyword arguments onto p.
func applyCommon(pa kwArgs, p *params.ModuleParameters) error {
	floats := map[string]*float64{
		"width":           &p.Width,
		"height":          &p.Height,
		"depth":           &p.Depth,
		"thickness":       &p.WallThickness,
		"intensity":       &p.DamageIntensity,
		"pin_tolerance":   &p.PinTolerance,
		"magnet_diameter": &p.MagnetDiameter,
		"magnet_height":   &p.MagnetHeight,
		"bevel":           &p.BevelWidth,
	}
	for key, dst := range floats {
		if v, ok := pa.kw[key]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"windows": &p.WindowDensity,
		"detail":  &p.DetailLevel,
		"gothic":  &p.GothicStyle,
	}
	for key, dst := range ints {
		if v, ok := pa.kw[key]; ok {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := pa.kw["seed"]; ok {
		n, err := toInt(v)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		p.Seed = int64(n)
	}
	if v, ok := pa.kw["style"]; ok {
		name, err := toName(v)
		if err != nil {
			return fmt.Errorf("style: %w", err)
		}
		style, err := params.ParseWallStyle(name)
		if err != nil {
			return err
		}
		p.Style = style
	}
	if v, ok := pa.kw["damage"]; ok {
		name, err := toName(v)
		if err != nil {
			return fmt.Errorf("damage: %w", err)
		}
		state, err := params.ParseDamageState(name)
		if err != nil {
			return err
		}
		p.Damage = state
	}
	if v, ok := pa.kw["connectors"]; ok {
		name, err := toName(v)
		if err != nil {
			return fmt.Errorf("connectors: %w", err)
		}
		ct, err := params.ParseConnectorType(name)
		if err != nil {
			return err
		}
		p.Connector = ct
	}
	if v, ok := pa.kw["split"]; ok {
		name, err := toName(v)
		if err != nil {
			return fmt.Errorf("split: %w", err)
		}
		mode, err := params.ParseSplitMode(name)
		if err != nil {
			return err
		}
		p.Split = mode
	}
	return nil
}

// registerBuiltins installs the recipe DSL into a zygomys
// environment. The builtins append validated parameter sets to the
// collector as they run.
//
// Source must be preprocessed with preprocessSource first so keyword
// tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, col *collector) {

	// (preset :voy) or (preset "vontragg") — style for all modules
	// defined after it.
	env.AddFunction("preset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("preset: want 1 argument, got %d", len(args))
		}
		styleName, err := toName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("preset: %w", err)
		}
		style, err := params.ParseWallStyle(styleName)
		if err != nil {
			return zygo.SexpNull, err
		}
		col.style = style
		return &zygo.SexpStr{S: styleName}, nil
	})

	defineModule := func(builtin string, typ params.ModuleType) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			p := params.Defaults()
			p.Type = typ
			p.Style = col.style

			if typ == params.PillarCluster {
				// Column count rides the density lever.
				if v, ok := pa.kw["count"]; ok {
					n, err := toInt(v)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("%s: count: %w", builtin, err)
					}
					p.WindowDensity = n
				}
			}
			if err := applyCommon(pa, &p); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}
			if err := p.Validate(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
			}

			col.modules = append(col.modules, p)
			return &sexpModule{index: len(col.modules) - 1, p: p}, nil
		})
	}

	// (wall :width 100 :height 80 :thickness 3 :windows 2 :detail 2
	//       :gothic 2 :damage :damaged :intensity 0.4 :seed 7)
	defineModule("wall", params.Wall)

	// (corner :depth 80 :height 80 :thickness 3 :windows 2)
	defineModule("corner", params.Corner)

	// (pillars :width 120 :depth 120 :count 4 :damage :ruined)
	defineModule("pillars", params.PillarCluster)

	// (pillar-cluster ...) — preprocessing turns the hyphen into an
	// underscore.
	defineModule("pillar_cluster", params.PillarCluster)
}
