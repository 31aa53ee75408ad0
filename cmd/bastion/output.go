package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calthrop/bastion/pkg/assemble"
	"github.com/calthrop/bastion/pkg/export"
	"github.com/calthrop/bastion/pkg/kernel"
)

// outputSettings resolves the backend, output directory and format
// from the flags and the [output] section of bastion.toml. A flag
// the user set always wins over config.
func outputSettings(cmd *cobra.Command, cfg bastionConfig) (kernelName, outDir, format string, err error) {
	f := cmd.Flags()
	pick := func(flag, fromConfig string) (string, error) {
		v, err := f.GetString(flag)
		if err != nil {
			return "", err
		}
		if !f.Changed(flag) && fromConfig != "" {
			return fromConfig, nil
		}
		return v, nil
	}
	if kernelName, err = pick("kernel", cfg.Output.Kernel); err != nil {
		return
	}
	if outDir, err = pick("out", cfg.Output.Dir); err != nil {
		return
	}
	format, err = pick("format", cfg.Output.Format)
	return
}

// writeResult meshes every solid in res and writes it to outDir in
// the chosen format. STL gets one file per solid; 3MF packs all parts
// into a single model file.
func writeResult(k kernel.Kernel, res *assemble.Result, outDir, format string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	switch format {
	case "stl":
		var paths []string
		for _, ns := range res.Solids {
			mesh, err := k.ToMesh(ns.Solid)
			if err != nil {
				return paths, fmt.Errorf("%s: %w", ns.Name, err)
			}
			mesh.Name = ns.Name
			path := filepath.Join(outDir, ns.Name+".stl")
			if err := writeFile(path, func(f *os.File) error {
				return export.WriteSTL(f, mesh)
			}); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
		return paths, nil

	case "3mf":
		parts := make([]export.Named, 0, len(res.Solids))
		for _, ns := range res.Solids {
			mesh, err := k.ToMesh(ns.Solid)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ns.Name, err)
			}
			mesh.Name = ns.Name
			parts = append(parts, export.Named{Name: ns.Name, Mesh: mesh})
		}
		path := filepath.Join(outDir, res.Solids[0].Name+".3mf")
		if err := writeFile(path, func(f *os.File) error {
			return export.Write3MF(f, parts)
		}); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want stl or 3mf)", format)
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
