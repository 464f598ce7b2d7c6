package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
)

func TestNodePhase(t *testing.T) {
	assert.Equal(t, ast.PhaseDeploy, ast.NodePhase(&ast.DefunDeploy{Name: "blink"}))
	assert.Equal(t, ast.PhaseCompile, ast.NodePhase(&ast.DefunCompile{Name: "gen"}))
	assert.Equal(t, ast.PhaseCompile, ast.NodePhase(&ast.While{Cond: &ast.Bool{Value: true}}))
	assert.Equal(t, ast.PhaseMixed, ast.NodePhase(&ast.Ident{Name: "x"}))
}

func TestIsCompileOnly(t *testing.T) {
	assert.True(t, ast.IsCompileOnly(&ast.Macro{Name: "m"}))
	assert.True(t, ast.IsCompileOnly(&ast.For{Var: "i"}))
	assert.False(t, ast.IsCompileOnly(&ast.BoundedFor{Var: "i"}))
	assert.False(t, ast.IsCompileOnly(&ast.Int{Value: 1}))
}

func TestCollectIdents(t *testing.T) {
	call := &ast.FunctionCall{
		Func: &ast.Ident{Name: "add"},
		Args: []ast.Expr{&ast.Ident{Name: "x"}, &ast.Ident{Name: "y"}, &ast.Ident{Name: "x"}},
	}
	names := ast.CollectIdents(call)
	assert.Equal(t, []string{"add", "x", "y"}, names)
}

func TestPrettyRendersStructure(t *testing.T) {
	fn := &ast.DefunDeploy{
		Name: "blink",
		Body: []ast.Expr{
			&ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Bool{Value: true}},
			&ast.SleepMs{Duration: &ast.Int{Value: 100}},
		},
	}
	out := ast.Pretty(fn)
	assert.Contains(t, out, "defun-deploy blink")
	assert.Contains(t, out, "gpio-set")
	assert.Contains(t, out, "sleep-ms")
}

func TestToJSONIsDeterministic(t *testing.T) {
	prog := &ast.Program{
		Name: "demo",
		Budget: &ast.ResourceBudget{Specs: []ast.ResourceSpec{
			{Kind: ast.ResourceTime, Limit: 1000},
		}},
		Forms: []ast.Expr{
			&ast.DefunDeploy{Name: "blink", Body: []ast.Expr{&ast.SleepMs{Duration: &ast.Int{Value: 5}}}},
		},
	}

	first, err := ast.ToJSON(prog)
	require.NoError(t, err)
	second, err := ast.ToJSON(prog)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), `"kind":"program"`)
	assert.Contains(t, string(first), `"kind":"defun-deploy"`)
}
