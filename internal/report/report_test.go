package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/report"
)

func TestBuildValidProgram(t *testing.T) {
	forms := []ast.Expr{
		&ast.Program{
			Name:   "demo",
			Budget: &ast.ResourceBudget{Specs: []ast.ResourceSpec{{Kind: ast.ResourceTime, Limit: 1000}}},
			Forms: []ast.Expr{
				&ast.DefunDeploy{
					Name: "blink",
					Body: []ast.Expr{
						&ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Bool{Value: true}},
						&ast.SleepMs{Duration: &ast.Int{Value: 100}},
					},
				},
			},
		},
	}

	r, err := report.Build(forms)
	require.NoError(t, err)
	assert.True(t, r.IsValid())
	assert.NotEmpty(t, r.ReportID)
	assert.Equal(t, uint64(100), r.ResourceBounds.TimeMs)
	assert.Contains(t, r.PerFunction, "blink")
}

func TestBuildCatchesUnboundedLoop(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{
			Name: "bad",
			Body: []ast.Expr{
				&ast.While{Cond: &ast.Bool{Value: true}},
			},
		},
	}

	r, err := report.Build(forms)
	require.NoError(t, err)
	assert.False(t, r.IsValid())
	assert.False(t, r.PhaseCheck.OK())
}

func TestBuildReportsCycles(t *testing.T) {
	forms := []ast.Expr{
		&ast.DefunDeploy{Name: "a", Body: []ast.Expr{&ast.FunctionCall{Func: &ast.Ident{Name: "b"}}}},
		&ast.DefunDeploy{Name: "b", Body: []ast.Expr{&ast.FunctionCall{Func: &ast.Ident{Name: "a"}}}},
	}

	r, err := report.Build(forms)
	require.NoError(t, err)
	assert.True(t, r.HasCycles)
	assert.False(t, r.IsValid())
}
