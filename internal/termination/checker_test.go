package termination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/termination"
)

func TestCheckTerminatesBoundedLoop(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "loop",
			Body: []ast.Expr{
				&ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Int{Value: 10}},
			},
		},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.True(t, res.OK())
}

func TestCheckTerminatesRejectsUnknownBounds(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "loop",
			Body: []ast.Expr{
				&ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Ident{Name: "n"}},
			},
		},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.False(t, res.OK())
	assert.Equal(t, termination.ErrUnknownBounds, res.Errors[0].Kind)
}

func TestCheckTerminatesRejectsRecursion(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{Name: "a", Body: []ast.Expr{&ast.FunctionCall{Func: &ast.Ident{Name: "b"}}}},
		&ast.DefunDeploy{Name: "b", Body: []ast.Expr{&ast.FunctionCall{Func: &ast.Ident{Name: "a"}}}},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.False(t, res.OK())
	assert.Equal(t, termination.ErrRecursion, res.Errors[0].Kind)
}

func TestCheckTerminatesFindsUnknownBoundsInIfCond(t *testing.T) {
	badLoop := &ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Ident{Name: "n"}}
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "f",
			Body: []ast.Expr{
				&ast.If{Cond: badLoop, Then: &ast.Int{Value: 1}},
			},
		},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.False(t, res.OK())
	assert.Equal(t, termination.ErrUnknownBounds, res.Errors[0].Kind)
}

func TestCheckTerminatesFindsUnknownBoundsInLetBindingValue(t *testing.T) {
	badLoop := &ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Ident{Name: "n"}}
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "f",
			Body: []ast.Expr{
				&ast.Let{Bindings: []ast.Binding{{Name: "x", Value: badLoop}}},
			},
		},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.False(t, res.OK())
	assert.Equal(t, termination.ErrUnknownBounds, res.Errors[0].Kind)
}

func TestCheckTerminatesFindsUnknownBoundsInCallFuncPosition(t *testing.T) {
	badLoop := &ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Ident{Name: "n"}}
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "f",
			Body: []ast.Expr{
				&ast.FunctionCall{Func: badLoop},
			},
		},
	}

	c := termination.NewChecker(forms)
	res := c.CheckTerminates(forms)
	assert.False(t, res.OK())
	assert.Equal(t, termination.ErrUnknownBounds, res.Errors[0].Kind)
}

func TestLoopRankingFunctionIsEndMinusStart(t *testing.T) {
	loop := &ast.BoundedFor{Start: &ast.Int{Value: 3}, End: &ast.Int{Value: 8}}
	rank, ok := termination.LoopRankingFunction(loop)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), rank)
}
