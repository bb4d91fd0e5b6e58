package core

import (
	"strconv"
	"time"
)

// Path is entity e's time-indexed vertex sequence: Path[t] is e's vertex at
// time t. Path[0] == Problem.Start[e]; for a container c, Path[len(Path)-1]
// == Problem.Goal[c].
type Path []VertexID

// Assignment maps a container to the agent that transports it (populated
// only when the CBS-TA core produced a task assignment; the SAT core's
// transport clauses do not name a single transporter per container, so it
// leaves the map empty).
type Assignment map[EntityID]EntityID

// Solution is the common output shape of both solver cores: a time-indexed
// vertex sequence per entity, plus the makespan and optionally which agent
// transported which container.
type Solution struct {
	Paths      map[EntityID]Path
	Assignment Assignment
	Makespan   int
}

// NewSolution creates an empty solution with initialised maps.
func NewSolution() *Solution {
	return &Solution{
		Paths:      make(map[EntityID]Path),
		Assignment: make(Assignment),
	}
}

// ComputeMakespan sets and returns the makespan: the longest path length
// (in moves) across all entities.
func (s *Solution) ComputeMakespan() int {
	m := 0
	for _, path := range s.Paths {
		if moves := len(path) - 1; moves > m {
			m = moves
		}
	}
	s.Makespan = m
	return m
}

// Stats carries timing and SAT-formula-size metrics alongside a Solution,
// mirroring the source's Stats struct (t_bound/t_extend/t_solver/t_total,
// n_clauses/n_variables/n_literals, initial_bound/lower_bound/upper_bound).
// CBS-TA fills only TTotal and UpperBound;
// the SAT-specific formula-size fields stay zero.
type Stats struct {
	TBound  time.Duration
	TExtend time.Duration
	TSolver time.Duration
	TTotal  time.Duration

	NClauses   int
	NVariables int
	NLiterals  int

	InitialBound int
	LowerBound   int
	UpperBound   int
}

// Fields returns the Stats in the fixed column order used by the benchmark
// CSV harness: t_bound,t_extend,t_solver,t_total,n_clauses,n_variables,
// n_literals,initial_bound,lower_bound,upper_bound.
func (s Stats) Fields() []string {
	return []string{
		s.TBound.String(), s.TExtend.String(), s.TSolver.String(), s.TTotal.String(),
		strconv.Itoa(s.NClauses), strconv.Itoa(s.NVariables), strconv.Itoa(s.NLiterals),
		strconv.Itoa(s.InitialBound), strconv.Itoa(s.LowerBound), strconv.Itoa(s.UpperBound),
	}
}
