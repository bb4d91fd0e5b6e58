package cbsta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
)

func TestFindFirstConflict_None(t *testing.T) {
	paths := map[core.EntityID]core.Path{
		2: {0, 1, 2},
		3: {10, 11, 12},
	}
	assert.Nil(t, FindFirstConflict(paths))
}

func TestFindFirstConflict_Vertex(t *testing.T) {
	paths := map[core.EntityID]core.Path{
		2: {0, 1, 2},
		3: {5, 1, 6},
	}
	c := FindFirstConflict(paths)
	require.NotNil(t, c)
	assert.False(t, c.IsEdge)
	assert.Equal(t, 1, c.Time)
	assert.Equal(t, core.VertexID(1), c.V)
	assert.Equal(t, core.EntityID(2), c.AgentI)
	assert.Equal(t, core.EntityID(3), c.AgentJ)
}

func TestFindFirstConflict_EdgeSwap(t *testing.T) {
	paths := map[core.EntityID]core.Path{
		2: {0, 1},
		3: {1, 0},
	}
	c := FindFirstConflict(paths)
	require.NotNil(t, c)
	assert.True(t, c.IsEdge)
	assert.Equal(t, 0, c.Time)
	assert.Equal(t, core.VertexID(0), c.From1)
	assert.Equal(t, core.VertexID(1), c.To1)
	assert.Equal(t, core.VertexID(1), c.From2)
	assert.Equal(t, core.VertexID(0), c.To2)
}

func TestFindFirstConflict_VertexBeforeEdgeAtSameTime(t *testing.T) {
	// At t=1 agents 2 and 3 collide on vertex 7 while agents 4 and 5 swap
	// between t=1 and t=2. The vertex conflict at t=1 must win.
	paths := map[core.EntityID]core.Path{
		2: {0, 7, 0},
		3: {9, 7, 9},
		4: {20, 21, 22},
		5: {30, 22, 21},
	}
	c := FindFirstConflict(paths)
	require.NotNil(t, c)
	assert.False(t, c.IsEdge)
	assert.Equal(t, 1, c.Time)
	assert.Equal(t, core.VertexID(7), c.V)
}

func TestFindFirstConflict_ShortPathRests(t *testing.T) {
	// Agent 3 finishes early and rests on vertex 2; agent 2 arrives there at
	// t=3, after 3's path has run out.
	paths := map[core.EntityID]core.Path{
		2: {0, 1, 5, 2},
		3: {2},
	}
	c := FindFirstConflict(paths)
	require.NotNil(t, c)
	assert.False(t, c.IsEdge)
	assert.Equal(t, 3, c.Time)
	assert.Equal(t, core.VertexID(2), c.V)
}
