package meshkern

import "fmt"

// Validate checks the 2-manifold invariant on a cleaned solid: every
// undirected edge is shared by exactly two faces with opposite
// winding. Returns nil for watertight geometry.
func Validate(s *Solid) error {
	if s.IsEmpty() {
		return fmt.Errorf("solid is empty")
	}
	_, faces := weld(s, weldTolerance)

	type edge struct{ a, b int }
	directed := make(map[edge]int)
	for _, loop := range faces {
		n := len(loop)
		if n < 3 {
			return fmt.Errorf("face with %d vertices", n)
		}
		for i := 0; i < n; i++ {
			e := edge{loop[i], loop[(i+1)%n]}
			if e.a == e.b {
				return fmt.Errorf("zero-length edge at vertex %d", e.a)
			}
			directed[e]++
		}
	}
	for e, count := range directed {
		if count != 1 {
			return fmt.Errorf("edge %d-%d used %d times in the same direction", e.a, e.b, count)
		}
		if directed[edge{e.b, e.a}] != 1 {
			return fmt.Errorf("edge %d-%d has no opposing face", e.a, e.b)
		}
	}
	return nil
}

// IsManifold reports whether Validate passes.
func IsManifold(s *Solid) bool {
	return Validate(s) == nil
}
