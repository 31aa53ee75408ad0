// Package csg drives boolean composition against a geometry kernel.
// The Compositor owns the retry policy (exact solve, one fallback
// retry, then a recorded no-op), cutter lifecycle (cutters are always
// destroyed) and post-operation cleanup. A single missed detail must
// never abort generation of an otherwise valid piece, so boolean
// failures degrade to warnings instead of errors.
package csg

import (
	"fmt"
	"log"

	"github.com/calthrop/bastion/pkg/kernel"
)

// Warning records one boolean step that failed both solvers and was
// skipped. The affected detail is simply missing from the output.
type Warning struct {
	Op     string // "union" or "difference"
	Detail string // semantic label of the skipped feature
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %q skipped: %v", w.Op, w.Detail, w.Err)
}

// Compositor accumulates a solid through boolean operations.
// It is not safe for concurrent use; each generation request owns its
// own Compositor.
type Compositor struct {
	k        kernel.Kernel
	warnings []Warning
	ops      int
}

// New returns a Compositor over the given kernel.
func New(k kernel.Kernel) *Compositor {
	return &Compositor{k: k}
}

// Kernel exposes the underlying kernel for primitive construction.
func (c *Compositor) Kernel() kernel.Kernel { return c.k }

// Warnings returns the boolean failures recorded so far, in order.
func (c *Compositor) Warnings() []Warning { return c.warnings }

// Ops returns the number of boolean operations attempted.
func (c *Compositor) Ops() int { return c.ops }

type boolFn func(a, b kernel.Solid, mode kernel.BoolMode) (kernel.Solid, error)

// apply runs op with the exact solver, retries once with the fallback
// solver, and otherwise records a warning and returns the unchanged
// target. The tool is destroyed in every case; the old target is
// destroyed only when a new result replaces it.
func (c *Compositor) apply(opName, detail string, op boolFn, target, tool kernel.Solid) kernel.Solid {
	c.ops++
	defer c.k.Destroy(tool)

	out, err := op(target, tool, kernel.Exact)
	if err != nil {
		out, err = op(target, tool, kernel.Fallback)
	}
	if err != nil {
		w := Warning{Op: opName, Detail: detail, Err: err}
		c.warnings = append(c.warnings, w)
		log.Printf("csg: %s", w)
		return target
	}
	c.k.Destroy(target)
	return c.k.Cleanup(out)
}

// Union adds tool to target. detail labels the feature for warnings.
func (c *Compositor) Union(target, tool kernel.Solid, detail string) kernel.Solid {
	return c.apply("union", detail, c.k.Union, target, tool)
}

// Difference subtracts tool from target.
func (c *Compositor) Difference(target, tool kernel.Solid, detail string) kernel.Solid {
	return c.apply("difference", detail, c.k.Difference, target, tool)
}

// Intersection intersects target with tool.
func (c *Compositor) Intersection(target, tool kernel.Solid, detail string) kernel.Solid {
	return c.apply("intersection", detail, c.k.Intersection, target, tool)
}

// Cleanup runs the kernel mesh cleanup pass on s.
func (c *Compositor) Cleanup(s kernel.Solid) kernel.Solid {
	return c.k.Cleanup(s)
}

// Destroy releases a solid that is no longer needed.
func (c *Compositor) Destroy(s kernel.Solid) {
	c.k.Destroy(s)
}
