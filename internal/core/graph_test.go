package core

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(v int) string { return strconv.Itoa(v) }

func TestNewGrid_OpenGrid(t *testing.T) {
	g := NewGrid(3, 3, nil)
	require.Equal(t, 9, g.Size)

	// 4-neighbour grid: 2*k*(k-1) edges for an open k x k grid.
	assert.Len(t, g.Edges(), 12)

	// Corner, edge, and centre degrees.
	assert.Len(t, g.Neighbors(0), 2)
	assert.Len(t, g.Neighbors(1), 3)
	assert.Len(t, g.Neighbors(4), 4)
}

func TestNewGrid_BlockadesAreIsolated(t *testing.T) {
	g := NewGrid(3, 3, []VertexID{4})
	assert.Empty(t, g.Neighbors(4))
	for v := 0; v < g.Size; v++ {
		for _, w := range g.Neighbors(VertexID(v)) {
			assert.NotEqual(t, VertexID(4), w)
		}
	}
	// Centre removed: the 4 incident edges are gone.
	assert.Len(t, g.Edges(), 8)
}

func TestGraph_XYEncodeRoundTrip(t *testing.T) {
	g := NewGrid(4, 4, nil)
	for v := 0; v < g.Size; v++ {
		x, y := g.XY(VertexID(v))
		assert.Equal(t, VertexID(v), g.Encode(x, y))
	}
	x, y := g.XY(13)
	assert.Equal(t, 1, x)
	assert.Equal(t, 3, y)
}

func TestGraph_InBounds(t *testing.T) {
	g := NewGrid(3, 3, []VertexID{4})
	assert.True(t, g.InBounds(0, 0))
	assert.False(t, g.InBounds(-1, 0))
	assert.False(t, g.InBounds(3, 0))
	assert.False(t, g.InBounds(0, 3))
	assert.False(t, g.InBounds(1, 1)) // blockaded centre
}

func TestGraph_ToLvlathGraph(t *testing.T) {
	g := NewGrid(3, 3, []VertexID{4})
	lg := g.ToLvlathGraph()
	for v := 0; v < g.Size; v++ {
		require.True(t, lg.HasVertex(itoa(v)))
	}
	assert.False(t, lg.Directed())
}
