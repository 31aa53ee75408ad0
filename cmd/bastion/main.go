// Package main implements the bastion CLI: procedural gothic terrain
// generation for 3D printing.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calthrop/bastion/pkg/kernel"
	"github.com/calthrop/bastion/pkg/kernel/meshkern"
	"github.com/calthrop/bastion/pkg/kernel/sdfx"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "bastion",
	Short: "Gothic terrain generator for tabletop 3D printing",
	Long: `Bastion generates watertight gothic ruin modules (walls, corners,
pillar clusters) as STL or 3MF, ready to slice.`,
}

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(presetsCmd)

	rootCmd.PersistentFlags().String("kernel", "mesh", "geometry backend (mesh|sdfx)")
	rootCmd.PersistentFlags().String("out", ".", "output directory")
	rootCmd.PersistentFlags().String("format", "stl", "output format (stl|3mf)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newKernel builds the backend selected by the --kernel flag.
func newKernel(name string) (kernel.Kernel, error) {
	switch name {
	case "mesh":
		return meshkern.New(), nil
	case "sdfx":
		return sdfx.New(), nil
	}
	return nil, fmt.Errorf("unknown kernel %q (want mesh or sdfx)", name)
}

// applyColorMode wires the --color flag into fatih/color's global
// switch before any output is printed.
func applyColorMode(cmd *cobra.Command) error {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		// fatih/color already detects terminals.
	default:
		return fmt.Errorf("invalid --color value %q (want auto, on or off)", mode)
	}
	return nil
}
