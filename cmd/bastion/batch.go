package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/calthrop/bastion/pkg/assemble"
	"github.com/calthrop/bastion/pkg/recipe"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] recipe.lisp",
	Short: "Generate every module defined by a recipe script",
	Long: `Evaluate a Lisp recipe and generate its modules in parallel.

A recipe defines modules with (wall ...), (corner ...) and
(pillars ...); (preset "voy") switches the style for everything
defined after it:

    (preset :voy)
    (wall :width 100 :height 80 :windows 2 :detail 2 :seed 7)
    (corner :depth 80 :gothic 2)
    (pillars :count 4 :damage :ruined :intensity 0.6)`,
	Args: cobra.ExactArgs(1),
	RunE: batchExecution,
}

func batchExecution(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	modules, evalErrs, err := recipe.NewEngine().Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			warnColor.Fprintf(color.Error, "%s: %s\n", args[0], e)
		}
		return fmt.Errorf("recipe evaluation failed")
	}
	if len(modules) == 0 {
		return fmt.Errorf("%s defines no modules", args[0])
	}

	cfg, _, err := loadConfig(".")
	if err != nil {
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

	// Modules are independent; each worker owns its kernel and its
	// seeded stream, so the batch is embarrassingly parallel.
	results := make([]*assemble.Result, len(modules))
	paths := make([][]string, len(modules))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, p := range modules {
		g.Go(func() error {
			k, err := newKernel(kernelName)
			if err != nil {
				return err
			}
			res, err := assemble.GenerateForBed(k, p, bed)
			if err != nil {
				return fmt.Errorf("module %d (%s): %w", i+1, p.Type, err)
			}
			prefixResult(res, i+1)
			out, err := writeResult(k, res, outDir, format)
			if err != nil {
				return err
			}
			results[i] = res
			paths[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range modules {
		reportResult(results[i], paths[i])
	}
	return nil
}

// prefixResult gives every solid a batch-unique name so modules of
// the same type do not overwrite each other's files.
func prefixResult(res *assemble.Result, index int) {
	for i := range res.Solids {
		res.Solids[i].Name = fmt.Sprintf("%02d_%s", index, res.Solids[i].Name)
	}
}
