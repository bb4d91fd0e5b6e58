// Package satenc emits the time-expanded CNF encoding of a MAPD instance:
// the Origin/Uniqueness/Whereabouts/VertexReservation/EdgeReservation/
// Transport/Assignment/Preprocessed clause groups described by the
// component design, plus the horizon-incremental Extend driving them.
package satenc

import "github.com/elektrokombinacija/mapd-solver/internal/satvar"

// Lit is a signed reference to a Var: positive means the var must be true,
// negative means it must be false. Encoded as (id+1) or -(id+1) so that
// Var 0 is still representable with an unambiguous sign bit, matching the
// 1-based literal convention the SAT driver forwards to gophersat.
type Lit int

// Pos returns the positive literal for id.
func Pos(id int) Lit { return Lit(id + 1) }

// Neg returns the negative literal for id.
func Neg(id int) Lit { return Lit(-(id + 1)) }

// Not flips a literal's polarity.
func Not(l Lit) Lit { return -l }

// Clause is a disjunction of literals.
type Clause []Lit

func (e *Encoder) posVar(v satvar.Var) Lit { return Pos(e.reg.ID(v)) }
func (e *Encoder) negVar(v satvar.Var) Lit { return Neg(e.reg.ID(v)) }

func (e *Encoder) unit(l Lit) {
	e.emit(Clause{l})
}

func (e *Encoder) emit(c Clause) {
	e.Clauses = append(e.Clauses, c)
	e.NLiterals += len(c)
}
