// Package phaseseparator enforces invariant I1: no compile-only
// construct (defun-compile, macro, eval-compile, include, for, while)
// may be reachable, transitively, from a deploy-phase function body.
package phaseseparator

import (
	"fmt"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
)

// ErrorKind distinguishes the phase-separation failure modes spec.md
// §7 names, mirroring the Rust crate's `PhaseError` enum.
type ErrorKind string

const (
	ErrCompileInDeploy ErrorKind = "compile-in-deploy"
	ErrMixedPhase      ErrorKind = "mixed-phase"
	ErrRecursionInDeploy ErrorKind = "recursion-in-deploy"
)

// PhaseError reports one phase-separation violation.
type PhaseError struct {
	Kind     ErrorKind `json:"kind"`
	Function string    `json:"function,omitempty"`
	Detail   string    `json:"detail"`
}

func (e *PhaseError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("phase separation: %s in %q: %s", e.Kind, e.Function, e.Detail)
	}
	return fmt.Sprintf("phase separation: %s: %s", e.Kind, e.Detail)
}

// Result is the outcome of validating one program's phase separation.
type Result struct {
	DeployFunctions  []string      `json:"deploy_functions"`
	CompileFunctions []string      `json:"compile_functions"`
	Errors           []*PhaseError `json:"errors,omitempty"`
}

// OK reports whether the program has no phase-separation violations.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate walks every top-level form, classifying defun-deploy and
// defun-compile functions and checking every deploy body for
// compile-only constructs. Unlike the narrower traversal
// internal/callgraph and internal/termination use, this walk descends
// into every Expr child of the deploy-permissible forms (bounded-for
// bounds and body, with-capability, let, set, if, function calls, and
// the array and I/O forms), since a compile-only form can be reachable
// by simple nesting rather than a call.
func Validate(forms []ast.Expr) Result {
	var res Result
	for _, f := range forms {
		validateForm(f, &res)
	}
	return res
}

func validateForm(e ast.Expr, res *Result) {
	switch n := e.(type) {
	case *ast.DefunDeploy:
		res.DeployFunctions = append(res.DeployFunctions, n.Name)
		checkDeployBody(n.Name, n.Body, res)
	case *ast.DefunCompile:
		res.CompileFunctions = append(res.CompileFunctions, n.Name)
	case *ast.Program:
		for _, inner := range n.Forms {
			validateForm(inner, res)
		}
	}
}

// checkDeployBody recurses through a deploy function's body, recording
// a PhaseError for every compile-only node it reaches.
func checkDeployBody(fnName string, body []ast.Expr, res *Result) {
	for _, e := range body {
		checkDeployExpr(fnName, e, res)
	}
}

func checkDeployExpr(fnName string, e ast.Expr, res *Result) {
	if e == nil {
		return
	}
	if ast.IsCompileOnly(e) {
		res.Errors = append(res.Errors, &PhaseError{
			Kind:     ErrCompileInDeploy,
			Function: fnName,
			Detail:   fmt.Sprintf("%s is a compile-only construct and cannot run on deployed hardware", e.Kind()),
		})
		return
	}

	switch n := e.(type) {
	case *ast.BoundedFor:
		checkDeployExpr(fnName, n.Start, res)
		checkDeployExpr(fnName, n.End, res)
		checkDeployBody(fnName, n.Body, res)
	case *ast.WithCapability:
		checkDeployExpr(fnName, n.Capability, res)
		checkDeployBody(fnName, n.Body, res)
	case *ast.Let:
		for _, b := range n.Bindings {
			checkDeployExpr(fnName, b.Value, res)
		}
		checkDeployBody(fnName, n.Body, res)
	case *ast.Set:
		checkDeployExpr(fnName, n.Value, res)
	case *ast.If:
		checkDeployExpr(fnName, n.Cond, res)
		checkDeployExpr(fnName, n.Then, res)
		if n.Else != nil {
			checkDeployExpr(fnName, n.Else, res)
		}
	case *ast.FunctionCall:
		checkDeployExpr(fnName, n.Func, res)
		for _, a := range n.Args {
			checkDeployExpr(fnName, a, res)
		}
	case *ast.ArrayGet:
		checkDeployExpr(fnName, n.Array, res)
		checkDeployExpr(fnName, n.Index, res)
	case *ast.ArraySet:
		checkDeployExpr(fnName, n.Array, res)
		checkDeployExpr(fnName, n.Index, res)
		checkDeployExpr(fnName, n.Value, res)
	case *ast.ArrayLength:
		checkDeployExpr(fnName, n.Array, res)
	case *ast.GpioSet:
		checkDeployExpr(fnName, n.Device, res)
		checkDeployExpr(fnName, n.Value, res)
	case *ast.GpioGet:
		checkDeployExpr(fnName, n.Device, res)
	case *ast.UartSend:
		checkDeployExpr(fnName, n.Device, res)
		checkDeployExpr(fnName, n.Data, res)
	case *ast.UartRecv:
		checkDeployExpr(fnName, n.Device, res)
	case *ast.SensorRead:
		checkDeployExpr(fnName, n.Device, res)
	case *ast.NetworkSend:
		checkDeployExpr(fnName, n.Device, res)
		checkDeployExpr(fnName, n.Data, res)
	case *ast.NetworkRecv:
		checkDeployExpr(fnName, n.Device, res)
	case *ast.SleepMs:
		checkDeployExpr(fnName, n.Duration, res)
	}
}

// ExtractDeployFunctions returns the names of every top-level
// defun-deploy form (including those nested inside a Program envelope).
func ExtractDeployFunctions(forms []ast.Expr) []string {
	return Validate(forms).DeployFunctions
}

// ExtractCompileFunctions returns the names of every top-level
// defun-compile form.
func ExtractCompileFunctions(forms []ast.Expr) []string {
	return Validate(forms).CompileFunctions
}
