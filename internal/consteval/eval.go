// Package consteval evaluates the compile-time-constant expressions
// that bound a bounded-for loop, unifying what the Rust source kept as
// two separate, near-duplicate functions
// (ResourceAnalyzer::eval_const_diff and
// TerminationChecker::are_bounds_finite) into the one shared function
// spec.md §4.4 specifies both the termination checker and the resource
// analyzer should use.
package consteval

import "github.com/Hyperpolymath/boinc-boinc/internal/ast"

// BoundEvaluable reports whether e is a constant this package can
// evaluate. The baseline, matching the Rust source exactly, only
// recognizes integer literals: `start` and `end` must both be
// *ast.Int. This is deliberately not generalized to arbitrary constant
// folding (SPEC_FULL.md §0) -- a bound built from, say, `(+ 1 2)` is
// reported as UnknownBounds rather than evaluated.
func BoundEvaluable(e ast.Expr) bool {
	_, ok := e.(*ast.Int)
	return ok
}

// Iterations returns the number of times a bounded-for loop from start
// to end executes, and whether both bounds were evaluable constants.
// When end < start the loop body never runs, so Iterations reports 0
// rather than treating it as an error -- matching the Rust
// loop_ranking_function's `if e >= s { e - s } else { 0 }` rule.
func Iterations(start, end ast.Expr) (n uint64, ok bool) {
	s, sOK := start.(*ast.Int)
	e, eOK := end.(*ast.Int)
	if !sOK || !eOK {
		return 0, false
	}
	if e.Value < s.Value {
		return 0, true
	}
	return uint64(e.Value - s.Value), true
}

// EvalConst evaluates e as a constant integer. It supports only the
// same literal-only baseline as Iterations, which is what the resource
// analyzer calls to size bounded-for loop costs.
func EvalConst(e ast.Expr) (int64, bool) {
	i, ok := e.(*ast.Int)
	if !ok {
		return 0, false
	}
	return i.Value, true
}
