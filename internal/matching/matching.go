// Package matching provides a ranked bipartite matcher over agents and
// tasks: Solve returns the bottleneck-optimal (minimise the maximum matched
// cost) maximum-cardinality assignment, and NextSolution enumerates
// alternatives in non-decreasing cost order via Murty's partitioning, the
// way CBS-TA's root-sibling mechanism asks for the next task assignment
// once the current one is exhausted by conflicts.
package matching

import "container/heap"

// noEdge marks an infeasible (agent,task) pair in Problem.Cost.
const noEdge = -1

// Problem is a weighted bipartite graph between [0,NumAgents) and
// [0,NumTasks). Cost[a][t] == noEdge means the pair cannot be matched.
type Problem struct {
	NumAgents int
	NumTasks  int
	Cost      [][]int
}

// Pair names a candidate (agent,task) match.
type Pair struct {
	Agent, Task int
}

// Assignment is one feasible matching: agent -> task for every matched
// agent (unmatched agents are simply absent), plus its bottleneck cost (the
// maximum cost among matched pairs, 0 if nothing is matched).
type Assignment struct {
	Pairs map[int]int
	Cost  int
}

// constraint narrows the matching space a Solver node must respect: the
// I/O/Iagents/Oagents quadruple of Murty's partitioning.
type constraint struct {
	required    map[Pair]bool
	forbidden   map[Pair]bool
	mustMatch   map[int]bool // agents that must appear in Pairs
	mustUnmatch map[int]bool // agents that must NOT appear in Pairs
}

func newConstraint() constraint {
	return constraint{
		required:    map[Pair]bool{},
		forbidden:   map[Pair]bool{},
		mustMatch:   map[int]bool{},
		mustUnmatch: map[int]bool{},
	}
}

func (c constraint) clone() constraint {
	out := newConstraint()
	for k := range c.required {
		out.required[k] = true
	}
	for k := range c.forbidden {
		out.forbidden[k] = true
	}
	for k := range c.mustMatch {
		out.mustMatch[k] = true
	}
	for k := range c.mustUnmatch {
		out.mustUnmatch[k] = true
	}
	return out
}

type node struct {
	constraint constraint
	assignment Assignment
	index      int
}

type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].assignment.Cost < h[j].assignment.Cost }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Solver runs Hopcroft-Karp bottleneck matching against Problem and
// enumerates successive solutions via Murty's method. Every yielded
// assignment has the same cardinality as the first (best) one; constrained
// sub-problems whose maximum matching falls short are pruned as infeasible.
type Solver struct {
	prob        *Problem
	priority    []int
	open        nodeHeap
	target      int // cardinality of the root solution; all others must match it
	initialized bool
}

// NewSolver returns a Solver over prob. priorityAgents must appear matched
// in the root (and hence every subsequent) solution; if they cannot all be
// matched simultaneously, Solve fails.
func NewSolver(prob *Problem, priorityAgents []int) *Solver {
	return &Solver{prob: prob, priority: priorityAgents}
}

// Solve returns the bottleneck-optimal assignment, or false if no feasible
// matching respects the priority agents.
func (s *Solver) Solve() (Assignment, bool) {
	if !s.initialized {
		s.initialized = true
		root := newConstraint()
		for _, a := range s.priority {
			root.mustMatch[a] = true
		}
		asg, ok := s.solveConstrained(root)
		if !ok {
			return Assignment{}, false
		}
		s.target = len(asg.Pairs)
		heap.Init(&s.open)
		heap.Push(&s.open, &node{constraint: root, assignment: asg})
	}
	return s.NextSolution()
}

// NextSolution pops the next-best assignment off the open heap, expanding
// it into Murty's-partition children for subsequent calls. Returns false
// once the enumeration is exhausted (or if Solve was never feasible).
func (s *Solver) NextSolution() (Assignment, bool) {
	if !s.initialized {
		return s.Solve()
	}
	if s.open.Len() == 0 {
		return Assignment{}, false
	}
	n := heap.Pop(&s.open).(*node)
	s.expand(n)
	return n.assignment, true
}

// expand partitions n's solution space into children, one per non-fixed
// agent in canonical order: earlier agents are pinned to recur exactly as
// they did in n (a matched pair becomes required, an unmatched agent is
// forced to stay unmatched), and the i-th agent is excluded from recurring
// (its pair forbidden, or the agent forced to be matched). Agents already
// fixed by n's required set are skipped, as in the source enumeration:
// their branch would contradict the inherited requirement.
func (s *Solver) expand(n *node) {
	prefix := n.constraint.clone()
	for agent := 0; agent < s.prob.NumAgents; agent++ {
		if hasRequiredPair(n.constraint, agent) {
			continue
		}
		child := prefix.clone()
		task, matched := n.assignment.Pairs[agent]
		if matched {
			child.forbidden[Pair{agent, task}] = true
		} else {
			child.mustMatch[agent] = true
		}
		if asg, ok := s.solveConstrained(child); ok && len(asg.Pairs) == s.target {
			heap.Push(&s.open, &node{constraint: child, assignment: asg})
		}

		if matched {
			prefix.required[Pair{agent, task}] = true
		} else {
			prefix.mustUnmatch[agent] = true
		}
	}
}

func hasRequiredPair(c constraint, agent int) bool {
	for pair := range c.required {
		if pair.Agent == agent {
			return true
		}
	}
	return false
}

// solveConstrained finds the bottleneck-optimal maximum-cardinality matching
// consistent with c: required pairs are pre-fixed, forbidden pairs excluded,
// mustMatch agents must appear matched (failing if impossible), mustUnmatch
// agents excluded from the candidate pool entirely.
func (s *Solver) solveConstrained(c constraint) (Assignment, bool) {
	fixed := make(map[int]int, len(c.required))
	usedTasks := make(map[int]bool, len(c.required))
	forcedCost := 0
	for pair := range c.required {
		if c.forbidden[pair] || c.mustUnmatch[pair.Agent] || s.prob.Cost[pair.Agent][pair.Task] == noEdge {
			return Assignment{}, false
		}
		fixed[pair.Agent] = pair.Task
		usedTasks[pair.Task] = true
		if cost := s.prob.Cost[pair.Agent][pair.Task]; cost > forcedCost {
			forcedCost = cost
		}
	}

	var required, others []int
	for a := 0; a < s.prob.NumAgents; a++ {
		if _, ok := fixed[a]; ok {
			continue
		}
		if c.mustUnmatch[a] {
			if c.mustMatch[a] {
				return Assignment{}, false
			}
			continue
		}
		if c.mustMatch[a] {
			required = append(required, a)
		} else {
			others = append(others, a)
		}
	}

	edgeAllowed := func(a, t int) bool {
		return !usedTasks[t] && !c.forbidden[Pair{a, t}] && s.prob.Cost[a][t] != noEdge
	}

	// Cardinality ceiling for this sub-problem, with the priority agents
	// guaranteed a slot.
	best, ok := s.matchPrioritized(required, others, edgeAllowed)
	if !ok {
		return Assignment{}, false
	}

	for _, ms := range s.candidateCosts(required, others, edgeAllowed, forcedCost) {
		capped := func(a, t int) bool { return edgeAllowed(a, t) && s.prob.Cost[a][t] <= ms }
		m, ok := s.matchPrioritized(required, others, capped)
		if !ok || len(m) != len(best) {
			continue
		}
		asg := Assignment{Pairs: make(map[int]int, len(fixed)+len(m)), Cost: forcedCost}
		for a, t := range fixed {
			asg.Pairs[a] = t
		}
		for a, t := range m {
			asg.Pairs[a] = t
			if cost := s.prob.Cost[a][t]; cost > asg.Cost {
				asg.Cost = cost
			}
		}
		return asg, true
	}

	if len(best) == 0 && len(required) == 0 {
		return Assignment{Pairs: fixed, Cost: forcedCost}, true
	}
	return Assignment{}, false
}

// candidateCosts returns the distinct allowed edge costs >= floor in
// ascending order, with floor itself prepended so a fully-fixed node (whose
// free edges are all cheaper than the forced bottleneck) is still probed.
func (s *Solver) candidateCosts(required, others []int, allowed func(a, t int) bool, floor int) []int {
	seen := map[int]bool{floor: true}
	out := []int{floor}
	for _, a := range append(append([]int(nil), required...), others...) {
		for t := 0; t < s.prob.NumTasks; t++ {
			if !allowed(a, t) {
				continue
			}
			c := s.prob.Cost[a][t]
			if c < floor || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	// insertion sort; the list is bounded by the distinct edge costs of one
	// grid instance
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// matchPrioritized computes a maximum matching that covers every required
// agent: required agents are matched first among themselves, then the full
// agent set is augmented. Hopcroft-Karp augmentation never unmatches an
// already-matched agent, so the required agents keep (possibly re-routed)
// assignments throughout. Returns false if the required agents cannot all
// be matched.
func (s *Solver) matchPrioritized(required, others []int, allowed func(a, t int) bool) (map[int]int, bool) {
	adj := make(map[int][]int, len(required)+len(others))
	all := make([]int, 0, len(required)+len(others))
	all = append(all, required...)
	all = append(all, others...)
	for _, a := range all {
		for t := 0; t < s.prob.NumTasks; t++ {
			if allowed(a, t) {
				adj[a] = append(adj[a], t)
			}
		}
	}

	matchAgent := make(map[int]int)
	matchTask := make(map[int]int)
	hopcroftKarp(required, adj, matchAgent, matchTask)
	if len(matchAgent) < len(required) {
		return nil, false
	}
	hopcroftKarp(all, adj, matchAgent, matchTask)
	return matchAgent, true
}

// hopcroftKarp augments matchAgent/matchTask in place to a maximum matching
// over the given agent set: repeated BFS layering from unmatched agents,
// then DFS augmentation along layer-respecting alternating paths.
func hopcroftKarp(agents []int, adj map[int][]int, matchAgent, matchTask map[int]int) {
	const inf = int(^uint(0) >> 1)
	dist := make(map[int]int, len(agents))

	bfs := func() bool {
		queue := make([]int, 0, len(agents))
		for _, a := range agents {
			if _, ok := matchAgent[a]; !ok {
				dist[a] = 0
				queue = append(queue, a)
			} else {
				dist[a] = inf
			}
		}
		found := false
		for len(queue) > 0 {
			a := queue[0]
			queue = queue[1:]
			for _, t := range adj[a] {
				b, matched := matchTask[t]
				if !matched {
					found = true
					continue
				}
				if d, ok := dist[b]; ok && d == inf {
					dist[b] = dist[a] + 1
					queue = append(queue, b)
				}
			}
		}
		return found
	}

	var dfs func(a int) bool
	dfs = func(a int) bool {
		for _, t := range adj[a] {
			b, matched := matchTask[t]
			if matched {
				if d, ok := dist[b]; !ok || d != dist[a]+1 || !dfs(b) {
					continue
				}
			}
			matchTask[t] = a
			matchAgent[a] = t
			return true
		}
		dist[a] = inf
		return false
	}

	for bfs() {
		for _, a := range agents {
			if _, ok := matchAgent[a]; !ok {
				dfs(a)
			}
		}
	}
}
