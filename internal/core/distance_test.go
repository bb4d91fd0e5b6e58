package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_PureMAPFBound(t *testing.T) {
	// Two entities swapping opposite corners of an open 4x4 grid: the lower
	// bound is the Manhattan distance 6.
	g := NewGrid(4, 4, nil)
	p := NewProblem(g, []VertexID{0, 15}, []VertexID{15, 0}, nil)

	table, lower, ok := Preprocess(p, false)
	require.True(t, ok)
	assert.Equal(t, 6, lower)

	d, reachable := table.Dist(0, 15)
	require.True(t, reachable)
	assert.Equal(t, 6, d)
	d, reachable = table.Dist(0, 0)
	require.True(t, reachable)
	assert.Equal(t, 0, d)
}

func TestPreprocess_TransportBoundAndRebias(t *testing.T) {
	// Figure 1: containers at 4 and 9 (goals 12 and 1), agents at 7 and 13,
	// blockades at 6 and 11. The binding container is 0: nearest agent is 3
	// away, goal another 2, so L = 5.
	g := NewGrid(4, 4, []VertexID{6, 11})
	p := NewProblem(g, []VertexID{4, 9}, []VertexID{12, 1}, []VertexID{7, 13})

	table, lower, ok := Preprocess(p, true)
	require.True(t, ok)
	assert.Equal(t, 5, lower)

	// Container rows are rebiased by to_agent everywhere except the start.
	d, reachable := table.Dist(0, 4)
	require.True(t, reachable)
	assert.Equal(t, 0, d, "start vertex keeps distance 0")
	d, reachable = table.Dist(0, 12)
	require.True(t, reachable)
	assert.Equal(t, 2+3, d, "goal distance carries the pickup leg")

	// Agent rows are untouched.
	d, reachable = table.Dist(2, 4)
	require.True(t, reachable)
	assert.Equal(t, 5, d)
}

func TestPreprocess_UnreachableGoal(t *testing.T) {
	// Vertex 8 is walled off from the container at 0.
	g := NewGrid(3, 3, []VertexID{1, 2, 3, 4, 5, 6, 7})
	p := NewProblem(g, []VertexID{0}, []VertexID{8}, nil)

	_, _, ok := Preprocess(p, false)
	assert.False(t, ok)
}

func TestPreprocess_NoAgentsInTransportMode(t *testing.T) {
	g := NewGrid(3, 3, nil)
	p := NewProblem(g, []VertexID{0}, []VertexID{8}, nil)

	_, _, ok := Preprocess(p, true)
	assert.False(t, ok, "a container with no agent to reach it is unsolvable")

	// The same instance as pure MAPF is fine.
	_, lower, ok := Preprocess(p, false)
	require.True(t, ok)
	assert.Equal(t, 4, lower)
}

func TestPreprocess_ContainerAlreadyAtGoal(t *testing.T) {
	// A container whose start equals its goal contributes nothing to the
	// bound and never fails, even with no agents in transport mode.
	g := NewGrid(3, 3, nil)
	p := NewProblem(g, []VertexID{4}, []VertexID{4}, nil)

	_, lower, ok := Preprocess(p, true)
	require.True(t, ok)
	assert.Equal(t, 0, lower)
}
