package resources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/resources"
)

func TestBoundsComposition(t *testing.T) {
	a := resources.Bounds{TimeMs: 10, MemoryBytes: 4}
	b := resources.Bounds{TimeMs: 20, MemoryBytes: 8}

	assert.Equal(t, resources.Bounds{TimeMs: 30, MemoryBytes: 12}, a.Add(b))
	assert.Equal(t, resources.Bounds{TimeMs: 20, MemoryBytes: 8}, a.Max(b))
	assert.Equal(t, resources.Bounds{TimeMs: 30, MemoryBytes: 12}, a.Multiply(3))
}

func TestFitsWithinAndHeadroom(t *testing.T) {
	budget := resources.Bounds{TimeMs: 100, MemoryBytes: 100}
	usage := resources.Bounds{TimeMs: 40, MemoryBytes: 120}

	assert.False(t, usage.FitsWithin(budget))
	headroom := usage.Headroom(budget)
	assert.Equal(t, uint64(60), headroom.TimeMs)
	assert.Equal(t, uint64(0), headroom.MemoryBytes)
}

func TestAnalyzeSimpleBody(t *testing.T) {
	body := []ast.Expr{
		&ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Bool{Value: true}},
		&ast.SleepMs{Duration: &ast.Int{Value: 100}},
	}

	a := resources.NewAnalyzer()
	bounds, err := a.Analyze("blink", body)
	require.Nil(t, err)
	assert.Equal(t, uint64(100), bounds.TimeMs) // gpio=100, sleep=0
}

func TestAnalyzeBoundedForMultipliesBody(t *testing.T) {
	body := []ast.Expr{
		&ast.BoundedFor{
			Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Int{Value: 5},
			Body: []ast.Expr{&ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Bool{Value: true}}},
		},
	}

	a := resources.NewAnalyzer()
	bounds, err := a.Analyze("loop", body)
	require.Nil(t, err)
	assert.Equal(t, uint64(500), bounds.TimeMs) // 5 iterations * 100
}

func TestAnalyzeUnknownBoundsErrors(t *testing.T) {
	body := []ast.Expr{
		&ast.BoundedFor{Var: "i", Start: &ast.Int{Value: 0}, End: &ast.Ident{Name: "n"}},
	}

	a := resources.NewAnalyzer()
	_, err := a.Analyze("loop", body)
	require.NotNil(t, err)
	assert.Equal(t, resources.ErrUnknownBounds, err.Kind)
}

func TestAnalyzeIfTakesMaxOfBranchesPlusCond(t *testing.T) {
	// spec.md S6: (if true (gpio-set 1 0) (sensor-read 2))
	body := []ast.Expr{
		&ast.If{
			Cond: &ast.Bool{Value: true},
			Then: &ast.GpioSet{Device: &ast.Int{Value: 1}, Value: &ast.Int{Value: 0}},
			Else: &ast.SensorRead{Device: &ast.Int{Value: 2}},
		},
	}

	a := resources.NewAnalyzer()
	bounds, err := a.Analyze("f", body)
	require.Nil(t, err)
	assert.Equal(t, uint64(501), bounds.TimeMs) // analyze(true)=1 + max(100,500)
}

func TestAnalyzeNetworkSendUsesFixed256ByteEstimate(t *testing.T) {
	body := []ast.Expr{
		&ast.NetworkSend{Device: &ast.Int{Value: 1}, Data: &ast.Int{Value: 2}},
	}

	a := resources.NewAnalyzer()
	bounds, err := a.Analyze("f", body)
	require.Nil(t, err)
	assert.Equal(t, uint64(256), bounds.NetworkBytes)
}

func TestExtractBudgetFromProgramEnvelope(t *testing.T) {
	forms := []ast.Expr{
		&ast.Program{
			Name:   "demo",
			Budget: &ast.ResourceBudget{Specs: []ast.ResourceSpec{{Kind: ast.ResourceTime, Limit: 1000}}},
		},
	}
	b, ok := resources.ExtractBudget(forms)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), b.TimeMs)
}
