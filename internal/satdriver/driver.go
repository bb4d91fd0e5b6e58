// Package satdriver runs the exponential-then-binary horizon search that
// turns internal/satenc's growing clause list into a solved makespan: at
// each candidate horizon T it rebuilds a gophersat solver.Problem from the
// accumulated clauses plus T's destination assumptions (see the Encoder type's
// doc comment for why it is rebuilt, not incrementally asserted) and asks
// for a model.
package satdriver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/crillab/gophersat/solver"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
	"github.com/elektrokombinacija/mapd-solver/internal/satenc"
)

// Driver owns one Encoder and drives it through the exponential/binary
// horizon search described by the SAT-based solver core.
type Driver struct {
	problem *core.Problem
	config  core.Config
	logger  *core.Logger
	enc     *satenc.Encoder
}

// New returns a Driver for p under cfg. logger may be nil, in which case a
// disabled Logger is used.
func New(p *core.Problem, cfg core.Config, logger *core.Logger) *Driver {
	if logger == nil {
		logger = core.NewLogger(false)
	}
	return &Driver{problem: p, config: cfg, logger: logger}
}

// Solve runs the full state machine and returns the non-exceptional result.
// The only error return is for a malformed Config; everything else (no
// solution, timeout, ceiling hit) is reported through Outcome.
func (d *Driver) Solve(ctx context.Context) (core.Outcome, error) {
	if err := d.config.Validate(); err != nil {
		return core.Outcome{}, err
	}

	start := time.Now()
	deadline := start.Add(time.Duration(d.config.TimeoutS) * time.Second)
	d.logger.StartSequence("solve")
	defer d.logger.EndSequence()

	d.logger.StartSequence("preprocess")
	tBoundStart := time.Now()
	dist, lower, ok := core.Preprocess(d.problem, d.config.Transport)
	tBound := time.Since(tBoundStart)
	if !d.config.Prep {
		// Reachability is still checked (an unreachable instance fails
		// regardless), but the admissible lower bound itself is only used to
		// seed the exponential search when preprocessing is enabled.
		dist = nil
		lower = 0
	}
	d.logger.EndSequence()
	if !ok {
		return core.Outcome{Kind: core.Unsolvable, Stats: core.Stats{TBound: tBound, LowerBound: lower}}, nil
	}

	d.enc = satenc.NewEncoder(d.problem, dist, d.config)

	stats := core.Stats{TBound: tBound, InitialBound: lower, LowerBound: lower}

	L := lower
	T := lower
	var model []bool
	var R int

	for {
		if partial, reached := d.ceilingHit(T, deadline, &stats); reached {
			return partial, nil
		}

		extendStart := time.Now()
		d.enc.Extend(T)
		stats.TExtend += time.Since(extendStart)
		stats.NClauses = d.enc.NumClauses()
		stats.NVariables = d.enc.NumVars()
		stats.NLiterals = d.enc.NLiterals

		solveStart := time.Now()
		sat, m, solveErr := d.solveAt(ctx, T, deadline)
		stats.TSolver += time.Since(solveStart)
		if solveErr != nil {
			return core.Outcome{Kind: core.Partial, Reason: "timeout", Stats: stats}, nil
		}
		if sat {
			model = m
			R = T
			break
		}

		L = T
		stats.LowerBound = T + 1
		next := int(math.Ceil(float64(T) * d.config.F))
		if next <= T {
			next = T + 1
		}
		T = next
	}

	lo, hi := L+1, R
	for lo < hi {
		mid := (lo + hi) / 2

		if partial, reached := d.ceilingHit(mid, deadline, &stats); reached {
			return partial, nil
		}
		extendStart := time.Now()
		d.enc.Extend(mid)
		stats.TExtend += time.Since(extendStart)
		stats.NClauses = d.enc.NumClauses()
		stats.NVariables = d.enc.NumVars()
		stats.NLiterals = d.enc.NLiterals

		solveStart := time.Now()
		sat, m, solveErr := d.solveAt(ctx, mid, deadline)
		stats.TSolver += time.Since(solveStart)
		if solveErr != nil {
			return core.Outcome{Kind: core.Partial, Reason: "timeout", Stats: stats}, nil
		}
		if sat {
			hi = mid
			model = m
			R = mid
		} else {
			lo = mid + 1
			stats.LowerBound = mid + 1
		}
	}

	stats.UpperBound = R
	stats.TTotal = time.Since(start)

	sol := core.NewSolution()
	sol.Paths = d.enc.Reconstruct(model, R)
	sol.ComputeMakespan()

	return core.Outcome{Kind: core.Solved, Solution: sol, Stats: stats}, nil
}

func (d *Driver) ceilingHit(T int, deadline time.Time, stats *core.Stats) (core.Outcome, bool) {
	if T > d.config.MaxT {
		return core.Outcome{Kind: core.Partial, Reason: "max_makespan", Stats: *stats}, true
	}
	if d.enc.NLiterals > d.config.MaxLiterals {
		return core.Outcome{Kind: core.Partial, Reason: "max_literals", Stats: *stats}, true
	}
	if !time.Now().Before(deadline) {
		return core.Outcome{Kind: core.Partial, Reason: "timeout", Stats: *stats}, true
	}
	return core.Outcome{}, false
}

// solveAt builds a fresh solver.Problem from the encoder's full clause list
// plus T's destination assumptions and runs gophersat, bounding the call by
// whatever remains of the wall-clock deadline.
func (d *Driver) solveAt(ctx context.Context, T int, deadline time.Time) (sat bool, model []bool, err error) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false, nil, fmt.Errorf("satdriver: timeout before solving T=%d", T)
	}

	solveStart := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, remaining)
	defer cancel()

	constrs := make([]solver.PBConstr, 0, len(d.enc.Clauses)+d.problem.NumContainers)
	for _, c := range d.enc.Clauses {
		constrs = append(constrs, solver.PropClause(litsToInts(c)...))
	}
	for _, lit := range d.enc.Destination(T) {
		constrs = append(constrs, solver.PropClause(int(lit)))
	}

	prob := solver.ParsePBConstrs(constrs)
	s := solver.New(prob)

	type result struct {
		status solver.Status
		model  []bool
	}
	done := make(chan result, 1)
	go func() {
		done <- result{status: s.Solve(), model: s.Model()}
	}()

	select {
	case r := <-done:
		d.logger.Put("solveAt T=%d: %v in %s", T, r.status, time.Since(solveStart))
		return r.status == solver.Sat, r.model, nil
	case <-callCtx.Done():
		return false, nil, fmt.Errorf("satdriver: %w", callCtx.Err())
	}
}

func litsToInts(c satenc.Clause) []int {
	out := make([]int, len(c))
	for i, l := range c {
		out[i] = int(l)
	}
	return out
}
