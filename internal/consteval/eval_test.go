package consteval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Hyperpolymath/boinc-boinc/internal/ast"
	"github.com/Hyperpolymath/boinc-boinc/internal/consteval"
)

func TestIterationsLiteralBounds(t *testing.T) {
	n, ok := consteval.Iterations(&ast.Int{Value: 0}, &ast.Int{Value: 10})
	assert.True(t, ok)
	assert.Equal(t, uint64(10), n)
}

func TestIterationsEndBeforeStartIsZero(t *testing.T) {
	n, ok := consteval.Iterations(&ast.Int{Value: 5}, &ast.Int{Value: 2})
	assert.True(t, ok)
	assert.Equal(t, uint64(0), n)
}

func TestIterationsUnknownForNonLiteral(t *testing.T) {
	_, ok := consteval.Iterations(&ast.Ident{Name: "n"}, &ast.Int{Value: 10})
	assert.False(t, ok)
}

func TestBoundEvaluable(t *testing.T) {
	assert.True(t, consteval.BoundEvaluable(&ast.Int{Value: 1}))
	assert.False(t, consteval.BoundEvaluable(&ast.Ident{Name: "n"}))
}
