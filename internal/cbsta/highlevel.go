package cbsta

import (
	"container/heap"
	"context"
	"time"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
	"github.com/elektrokombinacija/mapd-solver/internal/matching"
)

// cbsNode is one node of the high-level constraint tree: a per-agent
// constraint set, the task assignment it was planned under, the resulting
// paths, and whether it is a task-assignment root (siblings of which are
// explored lazily, the characteristic CBS-TA move).
type cbsNode struct {
	constraints map[core.EntityID]AgentConstraints
	tasks       map[core.EntityID]*Task
	paths       map[core.EntityID]core.Path
	cost        int
	isRoot      bool
	index       int
}

type cbsHeap []*cbsNode

func (h cbsHeap) Len() int           { return len(h) }
func (h cbsHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h cbsHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *cbsHeap) Push(x any) {
	n := x.(*cbsNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *cbsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Solver is the CBS-TA high-level search: a min-heap of cbsNodes, the
// bottleneck task-assignment enumerator feeding sibling roots, and the
// distance cache shared by every low-level replan.
type Solver struct {
	problem *core.Problem
	dc      *DistanceCache
	matcher *matching.Solver
	config  core.Config
	logger  *core.Logger
	maxTime int
}

// New builds a Solver over p. The task-assignment enumerator is seeded with
// a bottleneck cost matrix of pickup+delivery distance; every container is
// a priority (must-match) row since MAPD requires every container served.
func New(p *core.Problem, cfg core.Config, logger *core.Logger) *Solver {
	if logger == nil {
		logger = core.NewLogger(false)
	}
	dc := NewDistanceCache(p.Graph)

	cost := make([][]int, p.NumContainers)
	for ci, c := range p.Containers() {
		row := make([]int, p.NumAgents)
		for ai, a := range p.Agents() {
			toStart, ok1 := dc.Dist(p.Start[a], p.Start[c])
			legCost, ok2 := dc.Dist(p.Start[c], p.Goal[c])
			if !ok1 || !ok2 {
				row[ai] = -1
				continue
			}
			row[ai] = toStart + legCost
		}
		cost[ci] = row
	}
	priority := make([]int, p.NumContainers)
	for i := range priority {
		priority[i] = i
	}

	matcher := matching.NewSolver(&matching.Problem{
		NumAgents: p.NumContainers,
		NumTasks:  p.NumAgents,
		Cost:      cost,
	}, priority)

	maxTime := cfg.MaxT
	if maxTime <= 0 {
		maxTime = 256
	}
	return &Solver{problem: p, dc: dc, matcher: matcher, config: cfg, logger: logger, maxTime: maxTime}
}

// tasksFromAssignment turns a matching.Assignment (container-index ->
// agent-worker-index) into per-agent-EntityID Tasks.
func (s *Solver) tasksFromAssignment(asg matching.Assignment) map[core.EntityID]*Task {
	tasks := make(map[core.EntityID]*Task, s.problem.NumAgents)
	for _, a := range s.problem.Agents() {
		tasks[a] = nil
	}
	agents := s.problem.Agents()
	for containerIdx, agentIdx := range asg.Pairs {
		c := core.EntityID(containerIdx)
		a := agents[agentIdx]
		tasks[a] = &Task{Container: c, Start: s.problem.Start[c], Goal: s.problem.Goal[c]}
	}
	return tasks
}

// planAll runs the low-level search for every agent under tasks and
// constraints. Returns (paths, false) if any agent has no feasible path.
func (s *Solver) planAll(tasks map[core.EntityID]*Task, constraints map[core.EntityID]AgentConstraints) (map[core.EntityID]core.Path, bool) {
	paths := make(map[core.EntityID]core.Path, s.problem.NumAgents)
	for _, a := range s.problem.Agents() {
		cs := constraints[a]
		path := SpaceTimeAStar(s.problem.Graph, s.dc, s.problem.Start[a], tasks[a], cs, s.maxTime)
		if path == nil {
			return nil, false
		}
		paths[a] = path
	}
	return paths, true
}

func makespan(paths map[core.EntityID]core.Path) int {
	m := 0
	for _, p := range paths {
		if moves := len(p) - 1; moves > m {
			m = moves
		}
	}
	return m
}

// Solve runs the CBS-TA main loop: pop the cheapest node, find its first
// conflict, lazily add the next task-assignment sibling root if the popped
// node was a root, then branch the conflicting agents into two children.
func (s *Solver) Solve(ctx context.Context) (core.Outcome, error) {
	start := time.Now()
	deadline := start.Add(time.Duration(s.config.TimeoutS) * time.Second)

	asg, ok := s.matcher.Solve()
	if !ok {
		return core.Outcome{Kind: core.Unsolvable}, nil
	}
	rootTasks := s.tasksFromAssignment(asg)
	rootPaths, feasible := s.planAll(rootTasks, nil)
	for !feasible {
		asg, ok = s.matcher.NextSolution()
		if !ok {
			return core.Outcome{Kind: core.Unsolvable}, nil
		}
		rootTasks = s.tasksFromAssignment(asg)
		rootPaths, feasible = s.planAll(rootTasks, nil)
	}

	open := &cbsHeap{}
	heap.Init(open)
	heap.Push(open, &cbsNode{
		constraints: map[core.EntityID]AgentConstraints{},
		tasks:       rootTasks,
		paths:       rootPaths,
		cost:        makespan(rootPaths),
		isRoot:      true,
	})

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			return core.Outcome{Kind: core.Partial, Reason: "timeout"}, nil
		default:
		}
		if !time.Now().Before(deadline) {
			return core.Outcome{Kind: core.Partial, Reason: "timeout"}, nil
		}

		node := heap.Pop(open).(*cbsNode)
		conflict := FindFirstConflict(node.paths)
		if conflict == nil {
			sol := s.buildSolution(node)
			return core.Outcome{Kind: core.Solved, Solution: sol, Stats: core.Stats{TTotal: time.Since(start), UpperBound: sol.Makespan}}, nil
		}

		if node.isRoot {
			if nextAsg, ok := s.matcher.NextSolution(); ok {
				siblingTasks := s.tasksFromAssignment(nextAsg)
				if siblingPaths, feasible := s.planAll(siblingTasks, nil); feasible {
					heap.Push(open, &cbsNode{
						constraints: map[core.EntityID]AgentConstraints{},
						tasks:       siblingTasks,
						paths:       siblingPaths,
						cost:        makespan(siblingPaths),
						isRoot:      true,
					})
				}
			}
		}

		for _, agent := range []core.EntityID{conflict.AgentI, conflict.AgentJ} {
			child := cloneNode(node)
			child.isRoot = false
			cs := child.constraints[agent]
			if conflict.IsEdge {
				from, to := conflict.From1, conflict.To1
				if agent == conflict.AgentJ {
					from, to = conflict.From2, conflict.To2
				}
				cs.Edge = append(cs.Edge, EdgeConstraint{Time: conflict.Time, From: from, To: to})
			} else {
				cs.Vertex = append(cs.Vertex, VertexConstraint{Time: conflict.Time, V: conflict.V})
			}
			child.constraints[agent] = cs

			newPath := SpaceTimeAStar(s.problem.Graph, s.dc, s.problem.Start[agent], child.tasks[agent], cs, s.maxTime)
			if newPath == nil {
				continue
			}
			child.paths[agent] = newPath
			child.cost = makespan(child.paths)
			heap.Push(open, child)
		}
	}

	return core.Outcome{Kind: core.Unsolvable}, nil
}

func cloneNode(n *cbsNode) *cbsNode {
	constraints := make(map[core.EntityID]AgentConstraints, len(n.constraints))
	for a, cs := range n.constraints {
		constraints[a] = cs.clone()
	}
	paths := make(map[core.EntityID]core.Path, len(n.paths))
	for a, p := range n.paths {
		paths[a] = append(core.Path(nil), p...)
	}
	return &cbsNode{constraints: constraints, tasks: n.tasks, paths: paths, cost: n.cost, isRoot: n.isRoot}
}

// buildSolution assembles the common Solution shape: agent paths as found,
// container paths derived by mirroring their assigned agent between pickup
// and delivery and resting at start/goal outside that window.
func (s *Solver) buildSolution(n *cbsNode) *core.Solution {
	sol := core.NewSolution()
	ms := makespan(n.paths)
	for a, p := range n.paths {
		sol.Paths[a] = p
	}
	for _, c := range s.problem.Containers() {
		var task *Task
		var agent core.EntityID
		for a, t := range n.tasks {
			if t != nil && t.Container == c {
				task = t
				agent = a
				break
			}
		}
		if task == nil {
			cp := make(core.Path, ms+1)
			for i := range cp {
				cp[i] = s.problem.Start[c]
			}
			sol.Paths[c] = cp
			continue
		}
		sol.Assignment[c] = agent
		sol.Paths[c] = containerPath(n.paths[agent], task, ms)
	}
	sol.ComputeMakespan()
	return sol
}

func containerPath(agentPath core.Path, task *Task, makespan int) core.Path {
	cp := make(core.Path, makespan+1)
	pickupT, deliverT := -1, -1
	for t, v := range agentPath {
		if v == task.Start && pickupT == -1 {
			pickupT = t
		}
		if pickupT != -1 && v == task.Goal && deliverT == -1 {
			deliverT = t
		}
	}
	for t := 0; t <= makespan; t++ {
		switch {
		case pickupT == -1 || t < pickupT:
			cp[t] = task.Start
		case deliverT != -1 && t >= deliverT:
			cp[t] = task.Goal
		default:
			idx := t
			if idx >= len(agentPath) {
				idx = len(agentPath) - 1
			}
			cp[t] = agentPath[idx]
		}
	}
	return cp
}
