// Package callgraph builds and analyzes the static call graph between
// a program's deploy-phase functions.
package callgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
)

// Graph is a simple adjacency-list directed graph over function names.
// spec.md §9 prescribes exactly this representation ("a simple
// adjacency list... suffices" -- no weighted-graph library is needed).
type Graph struct {
	nodes map[string]bool
	edges map[string]map[string]bool // caller -> set of callees
}

func newGraph() *Graph {
	return &Graph{nodes: make(map[string]bool), edges: make(map[string]map[string]bool)}
}

func (g *Graph) addFunction(name string) {
	g.nodes[name] = true
	if g.edges[name] == nil {
		g.edges[name] = make(map[string]bool)
	}
}

func (g *Graph) addCall(from, to string) {
	g.addFunction(from)
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]bool)
	}
	g.edges[from][to] = true
}

// FunctionCount reports how many distinct functions the graph knows
// about (defined, called, or both).
func (g *Graph) FunctionCount() int {
	names := make(map[string]bool, len(g.nodes))
	for n := range g.nodes {
		names[n] = true
	}
	for from, callees := range g.edges {
		names[from] = true
		for to := range callees {
			names[to] = true
		}
	}
	return len(names)
}

// Callees returns the sorted list of functions n calls directly.
func (g *Graph) Callees(n string) []string {
	callees := g.edges[n]
	out := make([]string, 0, len(callees))
	for c := range callees {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// allNames returns every node mentioned anywhere in the graph, sorted,
// for reproducible iteration (spec.md §4.2's tie-break rule).
func (g *Graph) allNames() []string {
	set := make(map[string]bool)
	for n := range g.nodes {
		set[n] = true
	}
	for from, callees := range g.edges {
		set[from] = true
		for to := range callees {
			set[to] = true
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs the call graph for every defun-deploy form in forms
// (recursing into Program envelopes), grounded on the Rust
// CallGraph::build/extract_function_calls traversal: it only follows
// FunctionCall.args, BoundedFor.body, Let.bindings+body, If condition
// and branches, and WithCapability.body -- the same restricted subset
// internal/termination uses, except that termination also descends
// into FunctionCall.func (spec.md §4.2/§4.3, SPEC_FULL.md §0).
func Build(forms []ast.Expr) *Graph {
	g := newGraph()
	for _, f := range forms {
		collectDefuns(f, g)
	}
	return g
}

func collectDefuns(e ast.Expr, g *Graph) {
	switch n := e.(type) {
	case *ast.DefunDeploy:
		g.addFunction(n.Name)
		calls := make(map[string]bool)
		collectCalls(n.Body, calls)
		for callee := range calls {
			g.addCall(n.Name, callee)
		}
	case *ast.Program:
		for _, inner := range n.Forms {
			collectDefuns(inner, g)
		}
	}
}

// collectCalls gathers every function name directly called, reachable
// through the restricted child-position subset documented above.
func collectCalls(body []ast.Expr, out map[string]bool) {
	for _, e := range body {
		collectCallsExpr(e, out)
	}
}

func collectCallsExpr(e ast.Expr, out map[string]bool) {
	switch n := e.(type) {
	case *ast.FunctionCall:
		if id, ok := n.Func.(*ast.Ident); ok {
			out[id.Name] = true
		}
		for _, a := range n.Args {
			collectCallsExpr(a, out)
		}
	case *ast.BoundedFor:
		collectCalls(n.Body, out)
	case *ast.Let:
		for _, b := range n.Bindings {
			collectCallsExpr(b.Value, out)
		}
		collectCalls(n.Body, out)
	case *ast.If:
		collectCallsExpr(n.Cond, out)
		collectCallsExpr(n.Then, out)
		if n.Else != nil {
			collectCallsExpr(n.Else, out)
		}
	case *ast.WithCapability:
		collectCalls(n.Body, out)
	}
}

// HasCycles reports whether the call graph contains a cycle, via a
// standard recursive gray/black DFS.
func (g *Graph) HasCycles() bool {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)

	var visit func(n string) bool
	visit = func(n string) bool {
		color[n] = gray
		callees := g.edges[n]
		names := make([]string, 0, len(callees))
		for c := range callees {
			names = append(names, c)
		}
		sort.Strings(names)
		for _, c := range names {
			switch color[c] {
			case gray:
				return true
			case white:
				if visit(c) {
					return true
				}
			}
		}
		color[n] = black
		return false
	}

	for _, n := range g.allNames() {
		if color[n] == white {
			if visit(n) {
				return true
			}
		}
	}
	return false
}

// TopologicalOrder returns function names in an order where every
// function appears before every function it calls (a "callers before
// callees" topological sort), deterministic via sorted-name tie
// breaking at every DFS branch. Returns an error if the graph has a
// cycle -- callers should check HasCycles first when a cycle is
// expected and should be reported as data rather than an error.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if g.HasCycles() {
		return nil, fmt.Errorf("callgraph: cannot topologically order a cyclic graph")
	}

	visited := make(map[string]bool)
	var order []string

	var visit func(n string)
	visit = func(n string) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, c := range g.Callees(n) {
			visit(c)
		}
		order = append(order, n)
	}

	for _, n := range g.allNames() {
		visit(n)
	}

	// order is currently callees-before-callers (post-order); reverse
	// it so callers precede callees, matching spec.md §4.2's contract.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// WriteDOT renders the call graph in Graphviz DOT format, completing
// the stub the Rust CLI's `call-graph --format dot` branch left behind
// (SPEC_FULL.md §3).
func (g *Graph) WriteDOT(programName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quoteDotID(programName))
	for _, n := range g.allNames() {
		fmt.Fprintf(&b, "  %s;\n", strconv(n))
	}
	for _, from := range g.allNames() {
		for _, to := range g.Callees(from) {
			fmt.Fprintf(&b, "  %s -> %s;\n", strconv(from), strconv(to))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func strconv(s string) string { return fmt.Sprintf("%q", s) }

func quoteDotID(s string) string {
	if s == "" {
		return "program"
	}
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
