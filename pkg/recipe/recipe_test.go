package recipe

import (
	"strings"
	"testing"

	"github.com/calthrop/bastion/pkg/params"
)

func evalOK(t *testing.T, source string) []params.ModuleParameters {
	t.Helper()
	mods, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return mods
}

func TestEmptySource(t *testing.T) {
	mods := evalOK(t, "")
	if len(mods) != 0 {
		t.Errorf("empty source defined %d modules", len(mods))
	}
}

func TestWallWithKeywords(t *testing.T) {
	mods := evalOK(t, `(wall :width 120 :height 90 :thickness 4
		:windows 3 :detail 2 :gothic 2
		:damage :damaged :intensity 0.4 :seed 7)`)
	if len(mods) != 1 {
		t.Fatalf("got %d modules, want 1", len(mods))
	}
	p := mods[0]
	if p.Type != params.Wall {
		t.Errorf("type = %v, want wall", p.Type)
	}
	if p.Width != 120 || p.Height != 90 || p.WallThickness != 4 {
		t.Errorf("geometry = %gx%g t%g", p.Width, p.Height, p.WallThickness)
	}
	if p.WindowDensity != 3 || p.DetailLevel != 2 || p.GothicStyle != 2 {
		t.Errorf("levers = %d/%d/%d", p.WindowDensity, p.DetailLevel, p.GothicStyle)
	}
	if p.Damage != params.Damaged || p.DamageIntensity != 0.4 {
		t.Errorf("damage = %v at %g", p.Damage, p.DamageIntensity)
	}
	if p.Seed != 7 {
		t.Errorf("seed = %d, want 7", p.Seed)
	}
}

func TestDefaultsFillUnsetKeywords(t *testing.T) {
	mods := evalOK(t, `(wall :width 60)`)
	def := params.Defaults()
	p := mods[0]
	if p.Width != 60 {
		t.Errorf("width = %g, want 60", p.Width)
	}
	if p.Height != def.Height || p.WallThickness != def.WallThickness {
		t.Error("unset keywords did not keep defaults")
	}
}

func TestCornerAndPillars(t *testing.T) {
	mods := evalOK(t, `
		; a corner and a ruined colonnade
		(corner :depth 70 :height 60)
		(pillars :width 120 :depth 120 :count 4 :damage :ruined :intensity 0.6)
	`)
	if len(mods) != 2 {
		t.Fatalf("got %d modules, want 2", len(mods))
	}
	if mods[0].Type != params.Corner || mods[0].Depth != 70 {
		t.Errorf("corner = %+v", mods[0])
	}
	p := mods[1]
	if p.Type != params.PillarCluster {
		t.Errorf("type = %v, want pillars", p.Type)
	}
	if p.WindowDensity != 4 {
		t.Errorf("count lever = %d, want 4", p.WindowDensity)
	}
	if p.Damage != params.Ruined {
		t.Errorf("damage = %v, want ruined", p.Damage)
	}
}

func TestPillarClusterAlias(t *testing.T) {
	mods := evalOK(t, `(pillar-cluster :width 100 :depth 100 :count 2)`)
	if len(mods) != 1 || mods[0].Type != params.PillarCluster {
		t.Fatalf("alias did not define a pillar cluster: %+v", mods)
	}
}

func TestPresetAppliesToLaterModules(t *testing.T) {
	mods := evalOK(t, `
		(wall :width 60)
		(preset :vontragg)
		(wall :width 60)
	`)
	if len(mods) != 2 {
		t.Fatalf("got %d modules, want 2", len(mods))
	}
	if mods[0].Style != params.StyleVoy {
		t.Errorf("first wall style = %v, want voy default", mods[0].Style)
	}
	if mods[1].Style != params.StyleVontragg {
		t.Errorf("second wall style = %v, want vontragg", mods[1].Style)
	}
}

func TestStyleKeywordOverridesPreset(t *testing.T) {
	mods := evalOK(t, `
		(preset :vontragg)
		(wall :width 60 :style :simple)
	`)
	if mods[0].Style != params.StyleSimple {
		t.Errorf("style = %v, want simple", mods[0].Style)
	}
}

func TestConnectorAndSplitKeywords(t *testing.T) {
	mods := evalOK(t, `(wall :connectors :both :split :off :bevel 1.5)`)
	p := mods[0]
	if p.Connector != params.PinsAndMagnets {
		t.Errorf("connector = %v, want both", p.Connector)
	}
	if p.Split != params.SplitOff {
		t.Errorf("split = %v, want off", p.Split)
	}
	if p.BevelWidth != 1.5 {
		t.Errorf("bevel = %g, want 1.5", p.BevelWidth)
	}
}

func TestOutOfRangeParameterFails(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(wall :width 9000)`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("out-of-range width produced no eval error")
	}
	if !strings.Contains(evalErrs[0].Message, "width") {
		t.Errorf("error %q does not name the parameter", evalErrs[0].Message)
	}
}

func TestUnknownStyleFails(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(wall :style :brutalist)`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("unknown style produced no eval error")
	}
}

func TestSyntaxErrorReported(t *testing.T) {
	_, evalErrs, err := NewEngine().Evaluate(`(wall :width`)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("unbalanced form produced no eval error")
	}
}

func TestLispExpressionsAsArguments(t *testing.T) {
	// The DSL is a full lisp: definitions and arithmetic feed the
	// module keywords.
	mods := evalOK(t, `
		(def bay 30)
		(wall :width (* bay 2) :seed (+ 1 2))
		(wall :width (* bay 3))
	`)
	if len(mods) != 2 {
		t.Fatalf("got %d modules, want 2", len(mods))
	}
	if mods[0].Width != 60 || mods[0].Seed != 3 {
		t.Errorf("first wall = %gmm seed %d, want 60mm seed 3", mods[0].Width, mods[0].Seed)
	}
	if mods[1].Width != 90 {
		t.Errorf("second wall = %gmm, want 90mm", mods[1].Width)
	}
}
