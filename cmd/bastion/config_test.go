package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/calthrop/bastion/pkg/params"
	"github.com/calthrop/bastion/pkg/splitter"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "bastion.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsNoConfig(t *testing.T) {
	dir := t.TempDir()
	p, err := loadDefaults(dir)
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if p != params.Defaults() {
		t.Error("missing config changed the defaults")
	}
}

func TestLoadDefaultsOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[defaults]
width = 150
wall_thickness = 4.5
detail_level = 3
style = "vontragg"
damage = "ruined"
connectors = "both"
split = "off"
`)
	p, err := loadDefaults(dir)
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if p.Width != 150 || p.WallThickness != 4.5 || p.DetailLevel != 3 {
		t.Errorf("numeric overlay = %g/%g/%d", p.Width, p.WallThickness, p.DetailLevel)
	}
	if p.Style != params.StyleVontragg || p.Damage != params.Ruined {
		t.Errorf("enum overlay = %v/%v", p.Style, p.Damage)
	}
	if p.Connector != params.PinsAndMagnets || p.Split != params.SplitOff {
		t.Errorf("connector/split overlay = %v/%v", p.Connector, p.Split)
	}

	// Unset keys keep the shipping defaults.
	def := params.Defaults()
	if p.Height != def.Height || p.Seed != def.Seed {
		t.Error("unset keys did not keep defaults")
	}
}

func TestLoadDefaultsBadEnum(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[defaults]
style = "brutalist"
`)
	if _, err := loadDefaults(dir); err == nil {
		t.Fatal("unknown style accepted")
	}
}

func TestFindBastionTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[defaults]\nwidth = 99\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, found, err := findBastionToml(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("config not found from nested directory")
	}
	if path != filepath.Join(root, "bastion.toml") {
		t.Errorf("found %q, want the root config", path)
	}

	p, err := loadDefaults(nested)
	if err != nil {
		t.Fatal(err)
	}
	if p.Width != 99 {
		t.Errorf("width = %g, want 99", p.Width)
	}
}

func TestBedConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[bed]\nsize = [220, 220, 250]\nmargin = 5.0\n")

	cfg, _, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	bed, err := cfg.bed()
	if err != nil {
		t.Fatal(err)
	}
	if bed.Size != [3]float64{220, 220, 250} {
		t.Errorf("bed size = %v", bed.Size)
	}
	if bed.Limit(2) != 245 {
		t.Errorf("z limit = %g, want 245", bed.Limit(2))
	}
}

func TestBedConfigCube(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[bed]\nsize = [180.0]\n")

	cfg, _, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	bed, err := cfg.bed()
	if err != nil {
		t.Fatal(err)
	}
	if bed.Size != [3]float64{180, 180, 180} {
		t.Errorf("bed size = %v", bed.Size)
	}
	if bed.Margin != splitter.DefaultBed().Margin {
		t.Errorf("margin = %g, want the default", bed.Margin)
	}
}

func TestBedConfigRejectsBadShape(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[bed]\nsize = [220, 220]\n")

	cfg, _, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.bed(); err == nil {
		t.Error("two-value bed size accepted")
	}
}

func TestBedConfigRejectsMarginOverrun(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[bed]\nsize = [100.0]\nmargin = 100.0\n")

	cfg, _, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cfg.bed(); err == nil {
		t.Error("margin swallowing the whole bed accepted")
	}
}

func TestBedDefaultsWithoutConfig(t *testing.T) {
	cfg, _, err := loadConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	bed, err := cfg.bed()
	if err != nil {
		t.Fatal(err)
	}
	if bed != splitter.DefaultBed() {
		t.Errorf("bed = %+v, want the default", bed)
	}
}

func TestOutputConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[output]\ndir = \"prints\"\nformat = \"3mf\"\nkernel = \"sdfx\"\n")

	cfg, _, err := loadConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Dir != "prints" || cfg.Output.Format != "3mf" || cfg.Output.Kernel != "sdfx" {
		t.Errorf("output section = %+v", cfg.Output)
	}
}

func TestOutputSettingsFlagWins(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("kernel", "mesh", "")
	cmd.Flags().String("out", ".", "")
	cmd.Flags().String("format", "stl", "")
	if err := cmd.Flags().Set("format", "3mf"); err != nil {
		t.Fatal(err)
	}

	cfg := bastionConfig{Output: outputConfig{Dir: "prints", Format: "stl", Kernel: "sdfx"}}
	kernelName, outDir, format, err := outputSettings(cmd, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if kernelName != "sdfx" {
		t.Errorf("kernel = %q, want the configured sdfx", kernelName)
	}
	if outDir != "prints" {
		t.Errorf("out = %q, want the configured prints", outDir)
	}
	if format != "3mf" {
		t.Errorf("format = %q, the explicit flag should win", format)
	}
}
