package cbsta

import (
	"container/heap"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
)

// searchState is the space-time-status state A* searches over.
type searchState struct {
	T      int
	V      core.VertexID
	Status Status
}

type astarNode struct {
	state  searchState
	g      int
	f      int
	parent *astarNode
	index  int
}

type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g > h[j].g // tie-break: prefer the deeper (higher g) node
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// initialStatus is Done for a taskless agent, Delivery if the agent already
// starts on its container's start vertex, Approach otherwise.
func initialStatus(task *Task, start core.VertexID) Status {
	if task == nil {
		return Done
	}
	if start == task.Start {
		return Delivery
	}
	return Approach
}

// nextStatus advances status given the vertex the agent just arrived at.
func nextStatus(status Status, task *Task, v core.VertexID) Status {
	if task == nil {
		return Done
	}
	switch status {
	case Approach:
		if v == task.Start {
			return Delivery
		}
	case Delivery:
		if v == task.Goal {
			return Done
		}
	}
	return status
}

// heuristic is admissible: 0 once Done or taskless, distance-to-goal during
// Delivery, distance-to-pickup plus pickup-to-goal during Approach. ok is
// false if some leg is unreachable, signalling the caller to discard this
// node.
func heuristic(dc *DistanceCache, v core.VertexID, status Status, task *Task) (h int, ok bool) {
	if task == nil || status == Done {
		return 0, true
	}
	if status == Delivery {
		return dc.Dist(v, task.Goal)
	}
	toStart, ok1 := dc.Dist(v, task.Start)
	startToGoal, ok2 := dc.Dist(task.Start, task.Goal)
	if !ok1 || !ok2 {
		return 0, false
	}
	return toStart + startToGoal, true
}

func vertexBlocked(cs AgentConstraints, t int, v core.VertexID) bool {
	for _, vc := range cs.Vertex {
		if vc.Time == t && vc.V == v {
			return true
		}
	}
	return false
}

func edgeBlocked(cs AgentConstraints, t int, from, to core.VertexID) bool {
	for _, ec := range cs.Edge {
		if ec.Time == t && ec.From == from && ec.To == to {
			return true
		}
	}
	return false
}

// restingForever reports whether no future vertex constraint forces the
// agent away from v after time t (required for the goal test: otherwise a
// constraint scheduled later on the resting cell would make staying there
// illegal down the line).
func restingForever(cs AgentConstraints, t int, v core.VertexID) bool {
	for _, vc := range cs.Vertex {
		if vc.V == v && vc.Time > t {
			return false
		}
	}
	return true
}

// SpaceTimeAStar finds agent's minimum-time path from start under task and
// constraints, never exceeding maxTime. Returns nil if no such path exists.
func SpaceTimeAStar(g *core.Graph, dc *DistanceCache, start core.VertexID, task *Task, constraints AgentConstraints, maxTime int) core.Path {
	startStatus := initialStatus(task, start)
	h0, ok := heuristic(dc, start, startStatus, task)
	if !ok {
		return nil
	}

	open := &astarHeap{}
	heap.Init(open)
	heap.Push(open, &astarNode{state: searchState{T: 0, V: start, Status: startStatus}, g: 0, f: h0})

	closed := make(map[searchState]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*astarNode)
		if closed[cur.state] {
			continue
		}
		closed[cur.state] = true

		if cur.state.Status == Done && restingForever(constraints, cur.state.T, cur.state.V) {
			return reconstruct(cur)
		}
		if cur.state.T >= maxTime {
			continue
		}

		candidates := append([]core.VertexID{cur.state.V}, g.Neighbors(cur.state.V)...)
		nextT := cur.state.T + 1
		for _, w := range candidates {
			if vertexBlocked(constraints, nextT, w) {
				continue
			}
			if edgeBlocked(constraints, cur.state.T, cur.state.V, w) {
				continue
			}
			status := nextStatus(cur.state.Status, task, w)
			next := searchState{T: nextT, V: w, Status: status}
			if closed[next] {
				continue
			}
			hv, ok := heuristic(dc, w, status, task)
			if !ok {
				continue
			}
			heap.Push(open, &astarNode{state: next, g: cur.g + 1, f: cur.g + 1 + hv, parent: cur})
		}
	}
	return nil
}

func reconstruct(n *astarNode) core.Path {
	var path core.Path
	for cur := n; cur != nil; cur = cur.parent {
		path = append(core.Path{cur.state.V}, path...)
	}
	return path
}
