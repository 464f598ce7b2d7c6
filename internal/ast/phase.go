package ast

// Phase classifies which stage of a program's lifecycle an expression
// kind belongs to: code that only ever runs during compilation, code
// that only ever runs once deployed, or code usable in either.
type Phase string

const (
	PhaseCompile Phase = "compile"
	PhaseDeploy  Phase = "deploy"
	PhaseMixed   Phase = "mixed"
)

// deployOnlyKinds lists kinds that only make sense as deploy-phase
// entry points or deploy-phase-only control constructs.
var deployOnlyKinds = map[Kind]bool{
	KindDefunDeploy:    true,
	KindBoundedFor:     true,
	KindWithCapability: true,
}

// NodePhase reports the phase intrinsic to e's own kind, ignoring
// whatever its children contain. Invariant I1 (no compile-only
// construct reachable from a deploy body) is a property of a whole
// subtree, not a single node, and is checked by internal/phaseseparator's
// own recursive walk rather than here.
func NodePhase(e Expr) Phase {
	switch {
	case compileOnlyKinds[e.Kind()]:
		return PhaseCompile
	case deployOnlyKinds[e.Kind()]:
		return PhaseDeploy
	default:
		return PhaseMixed
	}
}

// IsDeploySafe reports whether e's own kind is permitted to appear
// inside a deploy-phase body. It does not recurse; a Mixed-phase node
// whose children are compile-only is still flagged by the separator's
// tree walk, not by this function.
func IsDeploySafe(e Expr) bool {
	return NodePhase(e) != PhaseCompile
}
