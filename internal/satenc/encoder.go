package satenc

import (
	"github.com/elektrokombinacija/mapd-solver/internal/core"
	"github.com/elektrokombinacija/mapd-solver/internal/satvar"
)

// Encoder accumulates the CNF clauses for a growing horizon T. It never
// retracts a clause: Extend(T) only ever appends the clauses needed for
// layers beyond whatever horizon was last built. The SAT driver re-parses a
// fresh solver.Problem from the accumulated Clauses slice on every call (see
// internal/satdriver), since the one demonstrated gophersat usage in the
// reference pack builds from a complete constraint list rather than an
// incremental assumption API.
type Encoder struct {
	Problem *core.Problem
	Dist    *core.DistanceTable // nil when Config.Prep is false
	Config  core.Config

	reg     *satvar.Registry
	Clauses []Clause

	NLiterals int

	started bool
	builtT  int // highest layer t for which layer-t clauses exist; -1 before any layer
}

// NewEncoder returns an Encoder for p under cfg. dist may be nil if
// cfg.Prep is false.
func NewEncoder(p *core.Problem, dist *core.DistanceTable, cfg core.Config) *Encoder {
	return &Encoder{
		Problem: p,
		Dist:    dist,
		Config:  cfg,
		reg:     satvar.NewRegistry(),
		builtT:  -1,
	}
}

// NumVars is the number of distinct SAT variables interned so far.
func (e *Encoder) NumVars() int { return e.reg.Len() }

// NumClauses is the number of clauses accumulated so far.
func (e *Encoder) NumClauses() int { return len(e.Clauses) }

// Horizon is the highest layer currently built (-1 if Extend was never
// called).
func (e *Encoder) Horizon() int { return e.builtT }

// Extend grows the formula so that every clause group through horizon T
// exists, building only the layers beyond whatever was built before.
func (e *Encoder) Extend(T int) {
	if !e.started {
		e.origin()
		if e.Config.FixedAgent || e.Config.FixedContainer {
			e.assignmentAMO()
		}
		e.started = true
	}
	for t := e.builtT + 1; t <= T; t++ {
		e.uniqueness(t)
		e.vertexReservation(t)
		if e.Config.Prep {
			e.preprocessed(t)
		}
		if t > 0 {
			prev := t - 1
			e.whereabouts(prev)
			if e.Config.EdgeVars {
				e.edgeVarImplications(prev)
			}
			if e.Config.EdgeReservation {
				e.edgeReservation(prev)
			}
			if e.Config.Transport {
				e.transport(prev)
			}
		}
		e.builtT = t
	}
}

// Destination returns the per-container goal-vertex literal at horizon T,
// to be passed as assumptions (not asserted) on the SAT call for T.
func (e *Encoder) Destination(T int) []Lit {
	lits := make([]Lit, 0, e.Problem.NumContainers)
	for _, c := range e.Problem.Containers() {
		lits = append(lits, e.posVar(vertexVar(c, e.Problem.Goal[c], T)))
	}
	return lits
}

// Reconstruct reads every true Vertex(e,v,t) variable with t<=T out of a
// satisfying model and assembles the per-entity path. model is indexed by
// the dense variable ID gophersat returns alongside the model.
func (e *Encoder) Reconstruct(model []bool, T int) map[core.EntityID]core.Path {
	paths := make(map[core.EntityID]core.Path, e.Problem.NumEntities())
	for _, ent := range e.Problem.AllEntities() {
		paths[ent] = make(core.Path, T+1)
	}
	e.reg.Each(func(v satvar.Var, id int) {
		if v.Kind != satvar.Vertex || v.C > T {
			return
		}
		if id >= len(model) || !model[id] {
			return
		}
		paths[core.EntityID(v.A)][v.C] = core.VertexID(v.B)
	})
	return paths
}

func vertexVar(e core.EntityID, v core.VertexID, t int) satvar.Var {
	return satvar.Var{Kind: satvar.Vertex, A: int(e), B: int(v), C: t}
}

func edgeVar(a core.EntityID, u, w core.VertexID, t int) satvar.Var {
	return satvar.Var{Kind: satvar.Edge, A: int(a), B: int(u), C: int(w), D: t}
}

func assignVar(c, a core.EntityID) satvar.Var {
	return satvar.Var{Kind: satvar.Assignment, A: int(c), B: int(a)}
}

// origin emits Vertex(e, s[e], 0) for every entity.
func (e *Encoder) origin() {
	for _, ent := range e.Problem.AllEntities() {
		e.unit(e.posVar(vertexVar(ent, e.Problem.Start[ent], 0)))
	}
}

// uniqueness emits, per entity, at-most-one of Vertex(e,v,t) over all v.
func (e *Encoder) uniqueness(t int) {
	for _, ent := range e.Problem.AllEntities() {
		vars := make([]satvar.Var, e.Problem.Graph.Size)
		for v := 0; v < e.Problem.Graph.Size; v++ {
			vars[v] = vertexVar(ent, core.VertexID(v), t)
		}
		e.amo(vars)
	}
}

// whereabouts emits, per entity e and vertex v, the stay-or-move implication
// from layer t to t+1.
func (e *Encoder) whereabouts(t int) {
	for _, ent := range e.Problem.AllEntities() {
		for v := 0; v < e.Problem.Graph.Size; v++ {
			vv := core.VertexID(v)
			clause := Clause{e.negVar(vertexVar(ent, vv, t)), e.posVar(vertexVar(ent, vv, t+1))}
			for _, w := range e.Problem.Graph.Neighbors(vv) {
				clause = append(clause, e.posVar(vertexVar(ent, w, t+1)))
			}
			e.emit(clause)
		}
	}
}

// vertexReservation emits, per vertex, at-most-one agent and at-most-one
// container present at time t.
func (e *Encoder) vertexReservation(t int) {
	for v := 0; v < e.Problem.Graph.Size; v++ {
		vv := core.VertexID(v)
		agentVars := make([]satvar.Var, 0, e.Problem.NumAgents)
		for _, a := range e.Problem.Agents() {
			agentVars = append(agentVars, vertexVar(a, vv, t))
		}
		e.amo(agentVars)

		containerVars := make([]satvar.Var, 0, e.Problem.NumContainers)
		for _, c := range e.Problem.Containers() {
			containerVars = append(containerVars, vertexVar(c, vv, t))
		}
		e.amo(containerVars)
	}
}

// reservingSet returns the agents (transport mode) or all entities (pure
// MAPF) that participate in swap prevention.
func (e *Encoder) reservingSet() []core.EntityID {
	if e.Config.Transport {
		return e.Problem.Agents()
	}
	return e.Problem.AllEntities()
}

// edgeReservation forbids two reserving-set entities from swapping across
// edge {u,w} between t and t+1.
func (e *Encoder) edgeReservation(t int) {
	set := e.reservingSet()
	for _, edge := range e.Problem.Graph.Edges() {
		u, w := edge[0], edge[1]
		if e.Config.EdgeVars {
			vars := make([]satvar.Var, 0, 2*len(set))
			for _, a := range set {
				vars = append(vars, edgeVar(a, u, w, t), edgeVar(a, w, u, t))
			}
			e.amo(vars)
			continue
		}
		for _, a := range set {
			for _, b := range set {
				if a == b {
					continue
				}
				e.emit(Clause{
					e.negVar(vertexVar(a, u, t)), e.negVar(vertexVar(a, w, t+1)),
					e.negVar(vertexVar(b, w, t)), e.negVar(vertexVar(b, u, t+1)),
				})
			}
		}
	}
}

// edgeVarImplications emits, for every reserving-set entity and both
// directions of every edge, Edge(a,u,w,t) -> Vertex(a,u,t) ∧ Vertex(a,w,t+1)
// and, only when EdgeReservation is on, the converse
// Vertex(a,u,t) ∧ Vertex(a,w,t+1) -> Edge(a,u,w,t). The converse is what
// makes the edge-variable AMO actually forbid swaps: without it a model could
// traverse the edge with the Edge variable left false.
func (e *Encoder) edgeVarImplications(t int) {
	set := e.reservingSet()
	for _, edge := range e.Problem.Graph.Edges() {
		u, w := edge[0], edge[1]
		for _, a := range set {
			e.emitEdgeImplication(a, u, w, t)
			e.emitEdgeImplication(a, w, u, t)
		}
	}
}

func (e *Encoder) emitEdgeImplication(a core.EntityID, from, to core.VertexID, t int) {
	ev := e.posVar(edgeVar(a, from, to, t))
	atFrom := e.posVar(vertexVar(a, from, t))
	atTo := e.posVar(vertexVar(a, to, t+1))
	e.emit(Clause{Not(ev), atFrom})
	e.emit(Clause{Not(ev), atTo})
	if e.Config.EdgeReservation {
		e.emit(Clause{Not(atFrom), Not(atTo), ev})
	}
}

// transport emits, per container and per directed edge traversal, the
// requirement that some agent co-moves, under the configured variant.
func (e *Encoder) transport(t int) {
	if e.Config.MoveVars {
		e.transportMoveVars(t)
		return
	}
	for _, c := range e.Problem.Containers() {
		for _, edge := range e.Problem.Graph.Edges() {
			e.transportDirection(c, edge[0], edge[1], t)
			e.transportDirection(c, edge[1], edge[0], t)
		}
	}
}

func (e *Encoder) transportDirection(c core.EntityID, from, to core.VertexID, t int) {
	notMoving := Clause{e.negVar(vertexVar(c, from, t)), e.negVar(vertexVar(c, to, t+1))}

	if e.Config.EdgeVars {
		disj := append(Clause{}, notMoving...)
		for _, a := range e.Problem.Agents() {
			disj = append(disj, e.posVar(edgeVar(a, from, to, t)))
		}
		e.emit(disj)
		return
	}

	disj := append(Clause{}, notMoving...)
	for _, a := range e.Problem.Agents() {
		disj = append(disj, e.posVar(vertexVar(a, from, t)))
	}
	e.emit(disj)
	for _, a := range e.Problem.Agents() {
		if e.Config.FixedAgent || e.Config.FixedContainer {
			assigned := append(Clause{}, notMoving...)
			assigned = append(assigned, e.negVar(vertexVar(a, from, t)), e.negVar(assignVar(c, a)))
			e.emit(assigned)
		}
		pair := append(Clause{}, notMoving...)
		pair = append(pair, e.negVar(vertexVar(a, from, t)), e.posVar(vertexVar(a, to, t+1)))
		e.emit(pair)
	}
}

// transportMoveVars implements the move-variable encoding: exactly two
// auxiliaries per edge direction per timestep, shared by every container.
// Any container's move over the edge implies moving, moved implies some
// agent edge traversal, and moving implies moved.
func (e *Encoder) transportMoveVars(t int) {
	for _, edge := range e.Problem.Graph.Edges() {
		e.transportMoveVarsDirection(edge[0], edge[1], t)
		e.transportMoveVarsDirection(edge[1], edge[0], t)
	}
}

func (e *Encoder) transportMoveVarsDirection(from, to core.VertexID, t int) {
	moving := e.posVar(e.reg.NewAux())
	moved := e.posVar(e.reg.NewAux())

	for _, c := range e.Problem.Containers() {
		e.emit(Clause{
			e.negVar(vertexVar(c, from, t)), e.negVar(vertexVar(c, to, t+1)), moving,
		})
	}

	movedDisj := Clause{Not(moved)}
	for _, a := range e.Problem.Agents() {
		movedDisj = append(movedDisj, e.posVar(edgeVar(a, from, to, t)))
	}
	e.emit(movedDisj)

	e.emit(Clause{Not(moving), moved})
}

// assignmentAMO emits the optional fixed_agent/fixed_container at-most-one
// constraints over Assignment(c,a) variables.
func (e *Encoder) assignmentAMO() {
	if e.Config.FixedAgent {
		for _, c := range e.Problem.Containers() {
			vars := make([]satvar.Var, 0, e.Problem.NumAgents)
			for _, a := range e.Problem.Agents() {
				vars = append(vars, assignVar(c, a))
			}
			e.amo(vars)
		}
	}
	if e.Config.FixedContainer {
		for _, a := range e.Problem.Agents() {
			vars := make([]satvar.Var, 0, e.Problem.NumContainers)
			for _, c := range e.Problem.Containers() {
				vars = append(vars, assignVar(c, a))
			}
			e.amo(vars)
		}
	}
}

// preprocessed emits the forward-reachability pruning unit clause
// ¬Vertex(e,v,t) whenever dist[e][v] > t.
func (e *Encoder) preprocessed(t int) {
	for _, ent := range e.Problem.AllEntities() {
		for v := 0; v < e.Problem.Graph.Size; v++ {
			d, ok := e.Dist.Dist(ent, core.VertexID(v))
			if !ok || d > t {
				e.unit(e.negVar(vertexVar(ent, core.VertexID(v), t)))
			}
		}
	}
}

// amo emits an at-most-one constraint over vars, sequential (default) or
// binomial per Config.AMO.
func (e *Encoder) amo(vars []satvar.Var) {
	if len(vars) < 2 {
		return
	}
	lits := make([]Lit, len(vars))
	for i, v := range vars {
		lits[i] = e.posVar(v)
	}
	if e.Config.AMO {
		e.sequentialAMO(lits)
	} else {
		e.binomialAMO(lits)
	}
}

func (e *Encoder) binomialAMO(lits []Lit) {
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			e.emit(Clause{Not(lits[i]), Not(lits[j])})
		}
	}
}

// sequentialAMO is the O(n) sequential (ladder) at-most-one: n-1 fresh
// auxiliaries r0..r(n-2), with ri forced true whenever some xj (j<=i) is
// true.
func (e *Encoder) sequentialAMO(lits []Lit) {
	n := len(lits)
	aux := make([]Lit, n-1)
	for i := range aux {
		aux[i] = e.posVar(e.reg.NewAux())
	}
	for i := 0; i < n-1; i++ {
		e.emit(Clause{Not(lits[i]), aux[i]})
		if i > 0 {
			e.emit(Clause{Not(aux[i-1]), aux[i]})
		}
		e.emit(Clause{Not(lits[i+1]), Not(aux[i])})
	}
}
