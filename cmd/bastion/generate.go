package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calthrop/bastion/pkg/assemble"
	"github.com/calthrop/bastion/pkg/params"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags]",
	Short: "Generate one terrain module",
	Long: `Generate a single module and write it to the output directory.
Unset flags fall back to bastion.toml, then to the shipping defaults.`,
	Args: cobra.NoArgs,
	RunE: generateExecution,
}

func init() {
	f := generateCmd.Flags()
	f.String("type", "wall", "module type (wall|corner|pillar_cluster)")
	f.Float64("width", 0, "module width, mm")
	f.Float64("height", 0, "module height, mm")
	f.Float64("depth", 0, "module depth, mm")
	f.Float64("thickness", 0, "wall thickness, mm")
	f.Int("windows", -1, "windows per wall (0-6)")
	f.Int("detail", -1, "detail level (0-3)")
	f.Int("gothic", -1, "gothic style level (0-3)")
	f.String("style", "", "wall style preset (vontragg|voy|simple)")
	f.String("damage", "", "damage state (clean|damaged|ruined|half)")
	f.Float64("intensity", -1, "damage intensity (0-1)")
	f.Int64("seed", -1, "random seed (0-99999)")
	f.String("connectors", "", "connector type (none|pins|magnets|both)")
	f.String("split", "", "print-bed split mode (auto|off)")
	f.Float64("bevel", -1, "edge bevel width, mm (0 disables)")
}

func generateExecution(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}

	cfg, cfgPath, err := loadConfig(".")
	if err != nil {
		return err
	}
	p, err := cfg.parameters(cfgPath)
	if err != nil {
		return err
	}
	if err := overlayFlags(cmd, &p); err != nil {
		return err
	}
	bed, err := cfg.bed()
	if err != nil {
		return err
	}

	kernelName, outDir, format, err := outputSettings(cmd, cfg)
	if err != nil {
		return err
	}
	k, err := newKernel(kernelName)
	if err != nil {
		return err
	}

	res, err := assemble.GenerateForBed(k, p, bed)
	if err != nil {
		return err
	}

	paths, err := writeResult(k, res, outDir, format)
	if err != nil {
		return err
	}

	reportResult(res, paths)
	return nil
}

// overlayFlags applies every flag the user actually set on top of p.
func overlayFlags(cmd *cobra.Command, p *params.ModuleParameters) error {
	f := cmd.Flags()
	var err error

	if f.Changed("type") {
		name, _ := f.GetString("type")
		if p.Type, err = params.ParseModuleType(name); err != nil {
			return err
		}
	}
	for flag, dst := range map[string]*float64{
		"width":     &p.Width,
		"height":    &p.Height,
		"depth":     &p.Depth,
		"thickness": &p.WallThickness,
		"intensity": &p.DamageIntensity,
		"bevel":     &p.BevelWidth,
	} {
		if f.Changed(flag) {
			*dst, _ = f.GetFloat64(flag)
		}
	}
	for flag, dst := range map[string]*int{
		"windows": &p.WindowDensity,
		"detail":  &p.DetailLevel,
		"gothic":  &p.GothicStyle,
	} {
		if f.Changed(flag) {
			*dst, _ = f.GetInt(flag)
		}
	}
	if f.Changed("seed") {
		p.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("style") {
		name, _ := f.GetString("style")
		if p.Style, err = params.ParseWallStyle(name); err != nil {
			return err
		}
	}
	if f.Changed("damage") {
		name, _ := f.GetString("damage")
		if p.Damage, err = params.ParseDamageState(name); err != nil {
			return err
		}
	}
	if f.Changed("connectors") {
		name, _ := f.GetString("connectors")
		if p.Connector, err = params.ParseConnectorType(name); err != nil {
			return err
		}
	}
	if f.Changed("split") {
		name, _ := f.GetString("split")
		if p.Split, err = params.ParseSplitMode(name); err != nil {
			return err
		}
	}
	return nil
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func reportResult(res *assemble.Result, paths []string) {
	for _, w := range res.Warnings {
		warnColor.Fprintf(color.Error, "warning: %s\n", w)
	}
	for _, path := range paths {
		okColor.Printf("wrote %s\n", path)
	}
	fmt.Printf("%d solid(s), %d boolean op(s), %d warning(s)\n",
		len(res.Solids), res.Ops, len(res.Warnings))
}
