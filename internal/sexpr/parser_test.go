package sexpr_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/sexpr"
)

func TestParseSimpleDefunDeploy(t *testing.T) {
	src := `(defun-deploy blink ((pin int))
  (gpio-set pin true)
  (sleep-ms 100))`

	exprs, err := sexpr.Parse("test.obl", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, exprs, 1)

	fn, ok := exprs[0].(*ast.DefunDeploy)
	require.True(t, ok)
	assert.Equal(t, "blink", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "pin", fn.Params[0].Name)
	require.Len(t, fn.Body, 2)
	assert.Equal(t, ast.KindGpioSet, fn.Body[0].Kind())
	assert.Equal(t, ast.KindSleepMs, fn.Body[1].Kind())
}

func TestParseBoundedForAndCall(t *testing.T) {
	src := `(defun-deploy loop ()
  (bounded-for i 0 10
    (helper i)))`

	exprs, err := sexpr.Parse("test.obl", strings.NewReader(src))
	require.NoError(t, err)
	fn := exprs[0].(*ast.DefunDeploy)
	bf := fn.Body[0].(*ast.BoundedFor)
	assert.Equal(t, "i", bf.Var)
	assert.Equal(t, &ast.Int{Value: 0}, bf.Start)
	assert.Equal(t, &ast.Int{Value: 10}, bf.End)

	call := bf.Body[0].(*ast.FunctionCall)
	assert.Equal(t, "helper", call.Func.(*ast.Ident).Name)
}

func TestParseProgramWithBudget(t *testing.T) {
	src := `(program "demo"
  (resource-budget (time 1000) (memory 4096))
  (defun-deploy main () (sleep-ms 1)))`

	exprs, err := sexpr.Parse("test.obl", strings.NewReader(src))
	require.NoError(t, err)
	prog := exprs[0].(*ast.Program)
	assert.Equal(t, "demo", prog.Name)
	require.NotNil(t, prog.Budget)
	budget := prog.Budget.(*ast.ResourceBudget)
	require.Len(t, budget.Specs, 2)
	assert.Equal(t, ast.ResourceTime, budget.Specs[0].Kind)
	assert.Equal(t, uint64(1000), budget.Specs[0].Limit)
	require.Len(t, prog.Forms, 1)
}

func TestParseRejectsCompileOnlyInsideDeploy(t *testing.T) {
	// The parser itself does not enforce phase separation -- that is
	// internal/phaseseparator's job -- but it must still successfully
	// parse the construct so the separator can reject it.
	src := `(defun-deploy bad () (while true (sleep-ms 1)))`
	exprs, err := sexpr.Parse("test.obl", strings.NewReader(src))
	require.NoError(t, err)
	fn := exprs[0].(*ast.DefunDeploy)
	assert.Equal(t, ast.KindWhile, fn.Body[0].Kind())
}
