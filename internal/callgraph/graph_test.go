package callgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/callgraph"
)

func call(name string) *ast.FunctionCall {
	return &ast.FunctionCall{Func: &ast.Ident{Name: name}}
}

func TestBuildAcyclicGraphTopologicalOrder(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{Name: "main", Body: []ast.Expr{call("helper")}},
		&ast.DefunDeploy{Name: "helper", Body: []ast.Expr{call("leaf")}},
		&ast.DefunDeploy{Name: "leaf"},
	}

	g := callgraph.Build(forms)
	assert.False(t, g.HasCycles())

	order, err := g.TopologicalOrder()
	require.NoError(t, err)

	pos := make(map[string]int)
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["main"], pos["helper"])
	assert.Less(t, pos["helper"], pos["leaf"])
}

func TestDetectsCycle(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{Name: "a", Body: []ast.Expr{call("b")}},
		&ast.DefunDeploy{Name: "b", Body: []ast.Expr{call("a")}},
	}

	g := callgraph.Build(forms)
	assert.True(t, g.HasCycles())

	_, err := g.TopologicalOrder()
	assert.Error(t, err)
}

func TestCollectsCallsThroughRestrictedPositions(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "main",
			Body: []ast.Expr{
				&ast.BoundedFor{
					Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Int{Value: 3},
					Body: []ast.Expr{call("loop_body")},
				},
				&ast.If{Cond: &ast.Bool{Value: true}, Then: call("then_fn"), Else: call("else_fn")},
				&ast.Let{Bindings: []ast.Binding{{Name: "x", Value: call("bound_fn")}}},
				&ast.WithCapability{Capability: &ast.Ident{Name: "cap"}, Body: []ast.Expr{call("capped_fn")}},
			},
		},
	}

	g := callgraph.Build(forms)
	callees := g.Callees("main")
	assert.ElementsMatch(t, []string{"loop_body", "then_fn", "else_fn", "bound_fn", "capped_fn"}, callees)
}

func TestWriteDOTIncludesEdges(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{Name: "main", Body: []ast.Expr{call("helper")}},
		&ast.DefunDeploy{Name: "helper"},
	}
	g := callgraph.Build(forms)
	dot := g.WriteDOT("demo")
	assert.Contains(t, dot, "digraph demo")
	assert.Contains(t, dot, `"main" -> "helper"`)
}
