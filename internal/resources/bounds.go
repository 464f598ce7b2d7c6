// Package resources performs the worst-case resource (time, memory,
// network, storage) bound analysis: a single static traversal
// attributing a fixed cost to every primitive operation.
package resources

import "github.com/Hyperpolymath/boinc-boinc/internal/ast"

// Bounds is the four-axis worst-case resource estimate spec.md's
// ResourceBounds names: accumulated time in milliseconds, memory in
// bytes, network traffic in bytes, and storage in bytes.
type Bounds struct {
	TimeMs       uint64 `json:"time_ms"`
	MemoryBytes  uint64 `json:"memory_bytes"`
	NetworkBytes uint64 `json:"network_bytes"`
	StorageBytes uint64 `json:"storage_bytes"`
}

// Add returns the componentwise sum of b and o, the composition rule
// used for sequential statements.
func (b Bounds) Add(o Bounds) Bounds {
	return Bounds{
		TimeMs:       b.TimeMs + o.TimeMs,
		MemoryBytes:  b.MemoryBytes + o.MemoryBytes,
		NetworkBytes: b.NetworkBytes + o.NetworkBytes,
		StorageBytes: b.StorageBytes + o.StorageBytes,
	}
}

// Max returns the componentwise maximum of b and o, the composition
// rule used for the two branches of an if.
func (b Bounds) Max(o Bounds) Bounds {
	return Bounds{
		TimeMs:       maxU64(b.TimeMs, o.TimeMs),
		MemoryBytes:  maxU64(b.MemoryBytes, o.MemoryBytes),
		NetworkBytes: maxU64(b.NetworkBytes, o.NetworkBytes),
		StorageBytes: maxU64(b.StorageBytes, o.StorageBytes),
	}
}

// Multiply returns b scaled by n, the composition rule used for a
// bounded-for loop body run n times.
func (b Bounds) Multiply(n uint64) Bounds {
	return Bounds{
		TimeMs:       b.TimeMs * n,
		MemoryBytes:  b.MemoryBytes * n,
		NetworkBytes: b.NetworkBytes * n,
		StorageBytes: b.StorageBytes * n,
	}
}

// FitsWithin reports whether b does not exceed budget on any axis.
func (b Bounds) FitsWithin(budget Bounds) bool {
	return b.TimeMs <= budget.TimeMs &&
		b.MemoryBytes <= budget.MemoryBytes &&
		b.NetworkBytes <= budget.NetworkBytes &&
		b.StorageBytes <= budget.StorageBytes
}

// Headroom returns the componentwise amount of budget remaining after
// b, saturating at zero on any axis b already exceeds. This is a
// supplemented operation (SPEC_FULL.md §3): the Rust `resources`
// subcommand only ever reported raw bounds, never how much slack a
// program had against its budget.
func (b Bounds) Headroom(budget Bounds) Bounds {
	return Bounds{
		TimeMs:       satSub(budget.TimeMs, b.TimeMs),
		MemoryBytes:  satSub(budget.MemoryBytes, b.MemoryBytes),
		NetworkBytes: satSub(budget.NetworkBytes, b.NetworkBytes),
		StorageBytes: satSub(budget.StorageBytes, b.StorageBytes),
	}
}

func satSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// SpecsToBounds converts a ResourceBudget's declared (kind limit)
// specs into a Bounds value with the named axes set and every other
// axis left at zero.
func SpecsToBounds(specs []ast.ResourceSpec) Bounds {
	var b Bounds
	for _, s := range specs {
		switch s.Kind {
		case ast.ResourceTime:
			b.TimeMs = s.Limit
		case ast.ResourceMemory:
			b.MemoryBytes = s.Limit
		case ast.ResourceNetwork:
			b.NetworkBytes = s.Limit
		case ast.ResourceStorage:
			b.StorageBytes = s.Limit
		}
	}
	return b
}

// ExtractBudget finds the program's declared ResourceBudget, checking
// both a bare top-level ResourceBudget form and one carried by a
// Program envelope, matching the Rust extract_budget's two call sites.
func ExtractBudget(forms []ast.Expr) (Bounds, bool) {
	for _, f := range forms {
		switch n := f.(type) {
		case *ast.ResourceBudget:
			return SpecsToBounds(n.Specs), true
		case *ast.Program:
			if rb, ok := n.Budget.(*ast.ResourceBudget); ok {
				return SpecsToBounds(rb.Specs), true
			}
			if b, ok := ExtractBudget(n.Forms); ok {
				return b, ok
			}
		}
	}
	return Bounds{}, false
}
