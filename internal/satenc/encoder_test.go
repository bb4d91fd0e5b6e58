package satenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
	"github.com/elektrokombinacija/mapd-solver/internal/satvar"
)

func smallProblem(t *testing.T, transport bool) (*core.Problem, *core.DistanceTable) {
	t.Helper()
	g := core.NewGrid(2, 2, nil)
	var p *core.Problem
	if transport {
		p = core.NewProblem(g, []core.VertexID{0}, []core.VertexID{3}, []core.VertexID{1})
	} else {
		p = core.NewProblem(g, []core.VertexID{0}, []core.VertexID{3}, nil)
	}
	dist, _, ok := core.Preprocess(p, transport)
	require.True(t, ok)
	return p, dist
}

// evaluate reports whether assignment (indexed by variable ID) satisfies
// every clause.
func evaluate(clauses []Clause, assignment []bool) bool {
	for _, c := range clauses {
		sat := false
		for _, l := range c {
			id := int(l) - 1
			if l < 0 {
				id = int(-l) - 1
			}
			if id >= len(assignment) {
				return false
			}
			if (l > 0) == assignment[id] {
				sat = true
				break
			}
		}
		if !sat {
			return false
		}
	}
	return true
}

// amoModels counts, by brute force over every assignment of the encoder's
// variable pool, how many models set exactly k of the first n variables
// true. Auxiliary variables are existentially quantified: an (x..) pattern
// counts if any auxiliary completion satisfies the clauses.
func amoModels(e *Encoder, n int) map[int]int {
	total := e.NumVars()
	counts := map[int]int{}
	seen := map[int]bool{}
	for bits := 0; bits < 1<<total; bits++ {
		assignment := make([]bool, total)
		for i := range assignment {
			assignment[i] = bits&(1<<i) != 0
		}
		if !evaluate(e.Clauses, assignment) {
			continue
		}
		pattern, k := 0, 0
		for i := 0; i < n; i++ {
			if assignment[i] {
				pattern |= 1 << i
				k++
			}
		}
		if !seen[pattern] {
			seen[pattern] = true
			counts[k]++
		}
	}
	return counts
}

func amoFixture(t *testing.T, sequential bool, n int) *Encoder {
	t.Helper()
	p, dist := smallProblem(t, false)
	cfg := core.DefaultConfig()
	cfg.AMO = sequential
	e := NewEncoder(p, dist, cfg)
	vars := make([]satvar.Var, n)
	for i := range vars {
		vars[i] = satvar.Var{Kind: satvar.Assignment, A: 0, B: i}
		e.reg.ID(vars[i]) // force x0..x(n-1) onto IDs 0..n-1
	}
	e.amo(vars)
	return e
}

func TestAMO_SequentialSemantics(t *testing.T) {
	e := amoFixture(t, true, 4)
	counts := amoModels(e, 4)
	assert.Equal(t, 1, counts[0], "the all-false pattern is allowed")
	assert.Equal(t, 4, counts[1], "every single-true pattern is allowed")
	assert.Zero(t, counts[2])
	assert.Zero(t, counts[3])
	assert.Zero(t, counts[4])
}

func TestAMO_BinomialSemantics(t *testing.T) {
	e := amoFixture(t, false, 4)
	counts := amoModels(e, 4)
	assert.Equal(t, 1, counts[0])
	assert.Equal(t, 4, counts[1])
	assert.Zero(t, counts[2])
	// Binomial introduces no auxiliaries.
	assert.Equal(t, 4, e.NumVars())
	assert.Equal(t, 6, e.NumClauses())
}

func TestEncoder_OriginUnits(t *testing.T) {
	p, dist := smallProblem(t, true)
	e := NewEncoder(p, dist, core.DefaultConfig())
	e.Extend(0)

	// The first clauses are the per-entity origin units.
	require.GreaterOrEqual(t, e.NumClauses(), p.NumEntities())
	for i := 0; i < p.NumEntities(); i++ {
		require.Len(t, e.Clauses[i], 1)
		assert.Greater(t, int(e.Clauses[i][0]), 0, "origin clause must be a positive unit")
	}
}

func TestEncoder_ExtendIsIncremental(t *testing.T) {
	p, dist := smallProblem(t, true)
	cfg := core.DefaultConfig()

	e := NewEncoder(p, dist, cfg)
	e.Extend(2)
	require.Equal(t, 2, e.Horizon())
	clausesAt2 := e.NumClauses()
	litsAt2 := e.NLiterals

	e.Extend(2) // no-op
	assert.Equal(t, clausesAt2, e.NumClauses())

	e.Extend(4)
	assert.Equal(t, 4, e.Horizon())
	assert.Greater(t, e.NumClauses(), clausesAt2)
	assert.Greater(t, e.NLiterals, litsAt2)

	// An encoder built directly to horizon 4 emits the identical formula.
	direct := NewEncoder(p, dist, cfg)
	direct.Extend(4)
	assert.Equal(t, direct.NumClauses(), e.NumClauses())
	assert.Equal(t, direct.NumVars(), e.NumVars())
	assert.Equal(t, direct.Clauses, e.Clauses)
}

func TestEncoder_DestinationAssumptions(t *testing.T) {
	p, dist := smallProblem(t, true)
	e := NewEncoder(p, dist, core.DefaultConfig())
	e.Extend(3)

	lits := e.Destination(3)
	require.Len(t, lits, p.NumContainers)
	for _, l := range lits {
		assert.Greater(t, int(l), 0)
	}
	// Assumptions are not asserted into the formula.
	before := e.NumClauses()
	_ = e.Destination(2)
	assert.Equal(t, before, e.NumClauses())
}

func TestEncoder_PreprocessedPruning(t *testing.T) {
	p, dist := smallProblem(t, true)
	e := NewEncoder(p, dist, core.DefaultConfig())
	e.Extend(0)

	// At t=0 every vertex away from an entity's start is pruned with a
	// negative unit clause.
	negUnits := 0
	for _, c := range e.Clauses {
		if len(c) == 1 && c[0] < 0 {
			negUnits++
		}
	}
	assert.Greater(t, negUnits, 0)
}

func TestEncoder_Reconstruct(t *testing.T) {
	p, dist := smallProblem(t, true)
	e := NewEncoder(p, dist, core.DefaultConfig())
	e.Extend(1)

	// Hand-build a model: container stays at 0, agent moves 1 -> 3... the
	// model only needs the Vertex variables to be set consistently for
	// reconstruction; clause satisfaction is not re-checked here.
	model := make([]bool, e.NumVars())
	set := func(ent core.EntityID, v core.VertexID, tm int) {
		model[e.reg.ID(satvar.Var{Kind: satvar.Vertex, A: int(ent), B: int(v), C: tm})] = true
	}
	set(0, 0, 0)
	set(0, 0, 1)
	set(1, 1, 0)
	set(1, 3, 1)

	paths := e.Reconstruct(model, 1)
	assert.Equal(t, core.Path{0, 0}, paths[0])
	assert.Equal(t, core.Path{1, 3}, paths[1])
}

func TestEncoder_EdgeVarsEmitImplications(t *testing.T) {
	p, dist := smallProblem(t, true)
	cfg := core.DefaultConfig()
	cfg.EdgeVars = true

	plain := NewEncoder(p, dist, core.DefaultConfig())
	plain.Extend(2)
	withEdges := NewEncoder(p, dist, cfg)
	withEdges.Extend(2)

	assert.Greater(t, withEdges.NumVars(), plain.NumVars(),
		"edge variables enlarge the variable pool")
}

func TestEncoder_MoveVarsAllocateAuxiliaries(t *testing.T) {
	p, dist := smallProblem(t, true)
	edgeOnly := core.DefaultConfig()
	edgeOnly.EdgeVars = true
	moveCfg := core.DefaultConfig()
	moveCfg.EdgeVars = true
	moveCfg.MoveVars = true

	a := NewEncoder(p, dist, edgeOnly)
	a.Extend(2)
	b := NewEncoder(p, dist, moveCfg)
	b.Extend(2)

	// Two auxiliaries per container-relevant edge direction per timestep.
	assert.Greater(t, b.NumVars(), a.NumVars())
}
