package phaseseparator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/phaseseparator"
)

func TestValidateCleanProgram(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "blink",
			Body: []ast.Expr{
				&ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Bool{Value: true}},
				&ast.SleepMs{Duration: &ast.Int{Value: 100}},
			},
		},
		&ast.DefunCompile{Name: "codegen"},
	}

	res := phaseseparator.Validate(forms)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"blink"}, res.DeployFunctions)
	assert.Equal(t, []string{"codegen"}, res.CompileFunctions)
}

func TestValidateRejectsWhileInDeployBody(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "bad",
			Body: []ast.Expr{
				&ast.While{Cond: &ast.Bool{Value: true}, Body: []ast.Expr{&ast.SleepMs{Duration: &ast.Int{Value: 1}}}},
			},
		},
	}

	res := phaseseparator.Validate(forms)
	assert.False(t, res.OK())
	assert.Equal(t, phaseseparator.ErrCompileInDeploy, res.Errors[0].Kind)
	assert.Equal(t, "bad", res.Errors[0].Function)
}

func TestValidateRejectsNestedEvalCompileInsideBoundedFor(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "bad",
			Body: []ast.Expr{
				&ast.BoundedFor{
					Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Int{Value: 5},
					Body: []ast.Expr{&ast.EvalCompile{Value: &ast.Int{Value: 1}}},
				},
			},
		},
	}

	res := phaseseparator.Validate(forms)
	assert.False(t, res.OK())
	assert.Equal(t, phaseseparator.ErrCompileInDeploy, res.Errors[0].Kind)
}

func TestValidateRecursesIntoProgramEnvelope(t *testing.T) {
	forms := []ast.Expr{
		&ast.Program{
			Name: "demo",
			Forms: []ast.Expr{
				&ast.DefunDeploy{Name: "ok", Body: []ast.Expr{&ast.SleepMs{Duration: &ast.Int{Value: 1}}}},
			},
		},
	}

	res := phaseseparator.Validate(forms)
	assert.True(t, res.OK())
	assert.Equal(t, []string{"ok"}, res.DeployFunctions)
}
