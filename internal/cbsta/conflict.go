// Package cbsta implements the CBS-TA solver core: a high-level
// Conflict-Based Search tree over task-assignment alternatives, and a
// low-level time-indexed A* per agent.
package cbsta

import (
	"sort"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
)

// Status tags an agent's progress on its assigned task within the low-level
// search state (t,x,y,status).
type Status int

const (
	// Approach means the agent has no container yet and is heading for its
	// assigned container's start vertex.
	Approach Status = iota
	// Delivery means the agent has picked up its container and is heading
	// for the container's goal.
	Delivery
	// Done means the agent has delivered (or never had) a container and is
	// free to idle or keep moving without further task obligations.
	Done
)

// Task is the container an agent is assigned to pick up and deliver. A nil
// *Task means the agent has no assignment this round (more agents than
// containers, or explicitly unmatched by the bottleneck matcher).
type Task struct {
	Container core.EntityID
	Start     core.VertexID
	Goal      core.VertexID
}

// VertexConstraint forbids an agent from occupying V at Time.
type VertexConstraint struct {
	Time int
	V    core.VertexID
}

// EdgeConstraint forbids an agent from traversing From->To between Time and
// Time+1.
type EdgeConstraint struct {
	Time     int
	From, To core.VertexID
}

// AgentConstraints is the constraint set a single agent's low-level replan
// must respect.
type AgentConstraints struct {
	Vertex []VertexConstraint
	Edge   []EdgeConstraint
}

func (c AgentConstraints) clone() AgentConstraints {
	return AgentConstraints{
		Vertex: append([]VertexConstraint(nil), c.Vertex...),
		Edge:   append([]EdgeConstraint(nil), c.Edge...),
	}
}

// Conflict is the earliest collision found between two agents' paths.
type Conflict struct {
	AgentI, AgentJ core.EntityID
	Time           int
	IsEdge         bool
	V              core.VertexID // vertex conflict location
	From1, To1     core.VertexID // agent i's move, for an edge conflict
	From2, To2     core.VertexID // agent j's move, for an edge conflict
}

// positionAt returns path's vertex at time t, clamping to the last vertex
// once t runs past the path's length (an agent that finished early simply
// rests there).
func positionAt(path core.Path, t int) core.VertexID {
	if t < len(path) {
		return path[t]
	}
	return path[len(path)-1]
}

func sortedAgents(paths map[core.EntityID]core.Path) []core.EntityID {
	out := make([]core.EntityID, 0, len(paths))
	for id := range paths {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func maxPathLen(paths map[core.EntityID]core.Path) int {
	m := 0
	for _, p := range paths {
		if len(p) > m {
			m = len(p)
		}
	}
	return m
}

// FindFirstConflict scans t = 0..maxLen, and at each t checks every vertex
// conflict before any edge (swap) conflict; the earliest (t, i<j) pair wins.
func FindFirstConflict(paths map[core.EntityID]core.Path) *Conflict {
	agents := sortedAgents(paths)
	maxLen := maxPathLen(paths)

	for t := 0; t < maxLen; t++ {
		for i := 0; i < len(agents); i++ {
			for j := i + 1; j < len(agents); j++ {
				a, b := agents[i], agents[j]
				va := positionAt(paths[a], t)
				vb := positionAt(paths[b], t)
				if va == vb {
					return &Conflict{AgentI: a, AgentJ: b, Time: t, V: va}
				}
			}
		}
		if t+1 >= maxLen {
			continue
		}
		for i := 0; i < len(agents); i++ {
			for j := i + 1; j < len(agents); j++ {
				a, b := agents[i], agents[j]
				aFrom, aTo := positionAt(paths[a], t), positionAt(paths[a], t+1)
				bFrom, bTo := positionAt(paths[b], t), positionAt(paths[b], t+1)
				if aFrom == bTo && aTo == bFrom && aFrom != aTo {
					return &Conflict{
						AgentI: a, AgentJ: b, Time: t, IsEdge: true,
						From1: aFrom, To1: aTo, From2: bFrom, To2: bTo,
					}
				}
			}
		}
	}
	return nil
}
