// Package termination checks that every deploy-phase function
// terminates: no call-graph recursion, and every loop's iteration count
// is bounded by a compile-time constant.
package termination

import (
	"fmt"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/callgraph"
	"github.com/Hyperpolymath/boinc-boinc/internal/consteval"
)

// ErrorKind distinguishes the termination failure modes spec.md §7
// names, mirroring the Rust crate's `TerminationError` enum.
type ErrorKind string

const (
	ErrRecursion      ErrorKind = "recursion"
	ErrUnboundedLoop  ErrorKind = "unbounded-loop"
	ErrUnknownBounds  ErrorKind = "unknown-bounds"
)

// TerminationError reports one reason a program might not terminate.
type TerminationError struct {
	Kind     ErrorKind `json:"kind"`
	Function string    `json:"function,omitempty"`
	Detail   string    `json:"detail"`
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("termination: %s in %q: %s", e.Kind, e.Function, e.Detail)
}

// Result is the outcome of checking one program's termination.
type Result struct {
	Errors []*TerminationError
}

// OK reports whether the program is proven to terminate.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Checker checks termination against a call graph built once up front
// (so cycle detection is not repeated per function), mirroring the
// Rust TerminationChecker wrapping a shared CallGraph.
type Checker struct {
	graph *callgraph.Graph
}

// NewChecker builds a Checker over forms' call graph.
func NewChecker(forms []ast.Expr) *Checker {
	return &Checker{graph: callgraph.Build(forms)}
}

// CheckTerminates validates every top-level defun-deploy in forms
// (recursing into Program envelopes): first that the call graph has no
// cycles, then that every loop inside each deploy body is bounded.
func (c *Checker) CheckTerminates(forms []ast.Expr) Result {
	var res Result
	if c.graph.HasCycles() {
		res.Errors = append(res.Errors, &TerminationError{
			Kind:   ErrRecursion,
			Detail: "call graph contains a cycle; recursive deploy functions cannot be proven to terminate",
		})
	}

	for _, f := range forms {
		checkForm(f, &res)
	}
	return res
}

func checkForm(e ast.Expr, res *Result) {
	switch n := e.(type) {
	case *ast.DefunDeploy:
		checkLoops(n.Name, n.Body, res)
	case *ast.Program:
		for _, inner := range n.Forms {
			checkForm(inner, res)
		}
	}
}

// checkLoops recurses through a deploy body checking every
// bounded-for's bounds are compile-time-constant, and flagging any
// while/for (compile-only looping constructs, already illegal inside a
// deploy body per I1, but termination still names them explicitly so
// the error points at the actual unbounded construct) as unbounded.
func checkLoops(fnName string, body []ast.Expr, res *Result) {
	for _, e := range body {
		checkLoopExpr(fnName, e, res)
	}
}

func checkLoopExpr(fnName string, e ast.Expr, res *Result) {
	switch n := e.(type) {
	case *ast.While:
		res.Errors = append(res.Errors, &TerminationError{
			Kind: ErrUnboundedLoop, Function: fnName,
			Detail: "while loops have no statically bounded iteration count",
		})
	case *ast.For:
		res.Errors = append(res.Errors, &TerminationError{
			Kind: ErrUnboundedLoop, Function: fnName,
			Detail: "for loops over a runtime iterable have no statically bounded iteration count",
		})
	case *ast.BoundedFor:
		if !consteval.BoundEvaluable(n.Start) || !consteval.BoundEvaluable(n.End) {
			res.Errors = append(res.Errors, &TerminationError{
				Kind: ErrUnknownBounds, Function: fnName,
				Detail: fmt.Sprintf("bounded-for %s bounds are not compile-time constants", n.Var),
			})
		}
		checkLoops(fnName, n.Body, res)
	case *ast.DefunDeploy:
		checkLoops(fnName, n.Body, res)
	case *ast.Let:
		for _, b := range n.Bindings {
			checkLoopExpr(fnName, b.Value, res)
		}
		checkLoops(fnName, n.Body, res)
	case *ast.If:
		checkLoopExpr(fnName, n.Cond, res)
		if n.Then != nil {
			checkLoopExpr(fnName, n.Then, res)
		}
		if n.Else != nil {
			checkLoopExpr(fnName, n.Else, res)
		}
	case *ast.WithCapability:
		checkLoops(fnName, n.Body, res)
	case *ast.FunctionCall:
		checkLoopExpr(fnName, n.Func, res)
		for _, a := range n.Args {
			checkLoopExpr(fnName, a, res)
		}
	}
}

// LoopRankingFunction returns a ranking value bounding the number of
// remaining iterations of a bounded-for loop -- the classical
// termination-proof device of a decreasing, non-negative measure. It
// returns false when the bounds are not compile-time constants,
// matching the Rust baseline's literal-only evaluation
// (internal/consteval.Iterations).
func LoopRankingFunction(loop *ast.BoundedFor) (rank uint64, ok bool) {
	return consteval.Iterations(loop.Start, loop.End)
}

// FunctionOrder returns the program's functions in call-graph
// topological order, deterministic regardless of declaration order.
// CheckTerminates does not use it; it checks forms in declaration order.
func (c *Checker) FunctionOrder() ([]string, error) {
	return c.graph.TopologicalOrder()
}
