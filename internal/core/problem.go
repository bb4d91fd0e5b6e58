package core

// EntityID indexes into the unified C_u_A range: containers first
// ([0, NumContainers)), then agents ([NumContainers, NumContainers+NumAgents)).
type EntityID int

// Problem is an immutable MAPD (or, with Transport disabled, MAPF) instance:
// a graph plus starts for every entity and goals for containers only.
type Problem struct {
	Graph         *Graph
	NumContainers int
	NumAgents     int
	Start         []VertexID // len == NumContainers+NumAgents, indexed by EntityID
	Goal          []VertexID // len == NumContainers; container c's goal
}

// NewProblem constructs a Problem from explicit starts/goals. The inputs are
// copied as given; vertex IDs and slice lengths are not checked.
func NewProblem(g *Graph, containerStart, containerGoal, agentStart []VertexID) *Problem {
	p := &Problem{
		Graph:         g,
		NumContainers: len(containerStart),
		NumAgents:     len(agentStart),
		Start:         make([]VertexID, len(containerStart)+len(agentStart)),
		Goal:          make([]VertexID, len(containerStart)),
	}
	copy(p.Start, containerStart)
	copy(p.Start[len(containerStart):], agentStart)
	copy(p.Goal, containerGoal)
	return p
}

// IsContainer reports whether e names a container.
func (p *Problem) IsContainer(e EntityID) bool {
	return int(e) < p.NumContainers
}

// NumEntities is |C ∪ A|.
func (p *Problem) NumEntities() int {
	return p.NumContainers + p.NumAgents
}

// Containers returns the container EntityID range [0, NumContainers).
func (p *Problem) Containers() []EntityID {
	return entityRange(0, p.NumContainers)
}

// Agents returns the agent EntityID range [NumContainers, NumContainers+NumAgents).
func (p *Problem) Agents() []EntityID {
	return entityRange(p.NumContainers, p.NumEntities())
}

// AllEntities returns C ∪ A in unified (containers-first) order.
func (p *Problem) AllEntities() []EntityID {
	return entityRange(0, p.NumEntities())
}

func entityRange(lo, hi int) []EntityID {
	out := make([]EntityID, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, EntityID(i))
	}
	return out
}

// GoalOf returns container c's goal vertex. Panics if e names an agent;
// callers should guard with IsContainer first (this mirrors Go's convention
// of panicking on programmer error rather than returning an error for an
// invariant violation internal to the solver).
func (p *Problem) GoalOf(c EntityID) VertexID {
	if !p.IsContainer(c) {
		panic("core: GoalOf called on an agent")
	}
	return p.Goal[c]
}
