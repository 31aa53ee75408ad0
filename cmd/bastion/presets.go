package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/calthrop/bastion/pkg/params"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the wall style presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorMode(cmd); err != nil {
			return err
		}
		nameColor := color.New(color.FgCyan, color.Bold)
		for _, style := range params.Styles() {
			spec := style.Spec()
			nameColor.Println(style.String())
			fmt.Printf("  window aspect %.2f, arch segments %d\n", spec.WindowAspect, spec.ArchSegments)
			fmt.Printf("  stone courses %.0fx%.0f mm, mortar %.1f mm\n",
				spec.BlockWidth, spec.BlockHeight, spec.MortarWidth)
		}
		return nil
	},
}
