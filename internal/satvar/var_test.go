package satvar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_InternsOnce(t *testing.T) {
	r := NewRegistry()
	v := Var{Kind: Vertex, A: 1, B: 2, C: 3}

	id := r.ID(v)
	assert.Equal(t, 0, id)
	assert.Equal(t, id, r.ID(v), "same key must keep its ID")
	assert.Equal(t, 1, r.Len())

	// Distinct kinds with identical ints are distinct variables.
	other := r.ID(Var{Kind: Edge, A: 1, B: 2, C: 3})
	assert.NotEqual(t, id, other)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_DenseIDs(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, r.ID(Var{Kind: Vertex, A: i}))
	}
	assert.Equal(t, 5, r.Len())
}

func TestRegistry_NewAux(t *testing.T) {
	r := NewRegistry()
	r.ID(Var{Kind: Vertex, A: 7})

	a := r.NewAux()
	b := r.NewAux()
	require.NotEqual(t, a, b)
	assert.Equal(t, Auxiliary, a.Kind)
	assert.Equal(t, Auxiliary, b.Kind)

	// A fresh auxiliary is already interned at its own ID.
	assert.Equal(t, a.A, r.ID(a))
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_Each(t *testing.T) {
	r := NewRegistry()
	want := map[Var]int{
		{Kind: Vertex, A: 0, B: 1, C: 2}: 0,
		{Kind: Assignment, A: 0, B: 1}:   1,
	}
	for v := range want {
		r.ID(v)
	}

	got := map[Var]int{}
	r.Each(func(v Var, id int) { got[v] = id })
	// Iteration order is unspecified; membership is not.
	assert.Len(t, got, 2)
	for v := range want {
		_, ok := got[v]
		assert.True(t, ok)
	}
}
