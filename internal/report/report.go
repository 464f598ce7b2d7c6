// Package report composes the four core analyses into a single
// ProgramReport, optionally running independent per-function analyses
// concurrently.
package report

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/callgraph"
	"github.com/Hyperpolymath/boinc-boinc/internal/phaseseparator"
	"github.com/Hyperpolymath/boinc-boinc/internal/resources"
	"github.com/Hyperpolymath/boinc-boinc/internal/termination"
)

// ProgramReport is the complete analysis result for one program,
// mirroring the Rust crate's ProgramAnalysis. ReportID is an ambient
// concern (SPEC_FULL.md §1.7): it lets downstream tooling correlate
// repeated `analyze --json` runs and plays no part in whether the
// report's content is deterministic.
type ProgramReport struct {
	ReportID      string                     `json:"report_id"`
	PhaseCheck    phaseseparator.Result      `json:"phase_check"`
	Termination   termination.Result        `json:"termination_check"`
	ResourceBounds resources.Bounds          `json:"resource_bounds"`
	PerFunction   map[string]resources.Bounds `json:"per_function_bounds"`
	Budget        *resources.Bounds          `json:"budget,omitempty"`
	CallOrder     []string                   `json:"call_order,omitempty"`
	HasCycles     bool                       `json:"has_cycles"`
}

// IsValid reports whether the program passed every check: clean phase
// separation, proven termination, and (when a budget is declared)
// resource usage within that budget.
func (r *ProgramReport) IsValid() bool {
	if !r.PhaseCheck.OK() || !r.Termination.OK() {
		return false
	}
	if r.Budget != nil && !r.ResourceBounds.FitsWithin(*r.Budget) {
		return false
	}
	return true
}

// funcBody pairs a deploy function's name with its body, the unit of
// work the concurrent per-function pass below operates over.
type funcBody struct {
	name string
	body []ast.Expr
}

// collectDeployFunctions gathers every top-level defun-deploy
// (recursing into Program envelopes) in source order.
func collectDeployFunctions(forms []ast.Expr) []funcBody {
	var out []funcBody
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.DefunDeploy:
			out = append(out, funcBody{name: n.Name, body: n.Body})
		case *ast.Program:
			for _, inner := range n.Forms {
				walk(inner)
			}
		}
	}
	for _, f := range forms {
		walk(f)
	}
	return out
}

// Build runs all four analyses over forms. Per-function resource
// analysis runs concurrently across independent defun-deploy bodies
// via errgroup (spec.md §5's "MAY parallelize independent per-function
// analyses... MUST produce results identical to sequential" allowance)
// -- results are collected into a slice indexed by source position and
// only merged into the map/aggregate after every goroutine completes,
// so the final report never depends on completion order.
func Build(forms []ast.Expr) (*ProgramReport, error) {
	phaseResult := phaseseparator.Validate(forms)

	checker := termination.NewChecker(forms)
	termResult := checker.CheckTerminates(forms)

	graph := callgraph.Build(forms)
	var callOrder []string
	if !graph.HasCycles() {
		callOrder, _ = graph.TopologicalOrder()
	}

	fns := collectDeployFunctions(forms)
	boundsByIndex := make([]resources.Bounds, len(fns))

	g, _ := errgroup.WithContext(context.Background())
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			a := resources.NewAnalyzer()
			b, err := a.Analyze(fn.name, fn.body)
			if err != nil {
				return err
			}
			boundsByIndex[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	perFn := make(map[string]resources.Bounds, len(fns))
	var total resources.Bounds
	for i, fn := range fns {
		perFn[fn.name] = boundsByIndex[i]
		total = total.Add(boundsByIndex[i])
	}

	var budget *resources.Bounds
	if b, ok := resources.ExtractBudget(forms); ok {
		budget = &b
	}

	return &ProgramReport{
		ReportID:       newReportID(),
		PhaseCheck:     phaseResult,
		Termination:    termResult,
		ResourceBounds: total,
		PerFunction:    perFn,
		Budget:         budget,
		CallOrder:      callOrder,
		HasCycles:      graph.HasCycles(),
	}, nil
}

func newReportID() string { return uuid.NewString() }

// sortedFunctionNames is a small helper the CLI renderer uses to print
// per-function bounds in a stable order.
func sortedFunctionNames(perFn map[string]resources.Bounds) []string {
	names := make([]string, 0, len(perFn))
	for n := range perFn {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedFunctionNames exposes sortedFunctionNames to other packages
// (the CLI) without exporting report internals beyond this one helper.
func SortedFunctionNames(r *ProgramReport) []string {
	return sortedFunctionNames(r.PerFunction)
}
