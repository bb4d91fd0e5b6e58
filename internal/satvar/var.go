// Package satvar interns the typed SAT variable universe — Vertex, Edge,
// Assignment and Auxiliary variables — as a dense, monotonically growing
// set of integer IDs, one per distinct variable key.
package satvar

// Kind tags which of the four variable shapes a Var names.
type Kind int

const (
	// Vertex(e,v,t): entity e occupies vertex v at time t.
	Vertex Kind = iota
	// Edge(a,u,w,t): agent a traverses u->w between t and t+1.
	Edge
	// Assignment(c,a): agent a transports container c.
	Assignment
	// Auxiliary(k): a fresh variable with no structural meaning beyond its
	// own identity, used by the sequential AMO and move-event encodings.
	Auxiliary
)

// Var is the canonical key for a SAT variable: a Kind tag plus up to four
// identifying ints, interpreted per Kind:
//
//	Vertex:     A=entity, B=vertex, C=time
//	Edge:       A=agent,  B=from,   C=to, D=time
//	Assignment: A=container, B=agent
//	Auxiliary:  A=counter value (unique by construction, see Registry.NewAux)
//
// Var is comparable and so usable directly as a map key — no stringification
// pass is needed to canonicalise it.
type Var struct {
	Kind Kind
	A, B, C, D int
}

// Registry interns Vars to dense 0-based integer IDs, growing monotonically
// as new keys are first seen. The auxiliary counter is explicit state on the
// Registry (not a package-level global): callers that need a private block
// of fresh auxiliary IDs call NewAux repeatedly, or snapshot Len() before a
// clause group and allocate Auxiliary Vars tagged with IDs relative to that
// snapshot so two independently-built clause groups never collide.
type Registry struct {
	ids  map[Var]int
	next int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[Var]int)}
}

// ID returns v's dense integer ID, allocating a new one on first sight.
func (r *Registry) ID(v Var) int {
	if id, ok := r.ids[v]; ok {
		return id
	}
	id := r.next
	r.ids[v] = id
	r.next++
	return id
}

// Len is the number of distinct variables interned so far (and hence the
// next ID that will be allocated).
func (r *Registry) Len() int {
	return r.next
}

// NewAux allocates and returns a fresh Auxiliary Var, guaranteed distinct
// from every previously allocated Var (the counter underlying it is the
// Registry's own monotone `next`, not a separate process-wide global).
func (r *Registry) NewAux() Var {
	v := Var{Kind: Auxiliary, A: r.next}
	r.ids[v] = r.next
	r.next++
	return v
}

// Each calls f once per interned Var, in no particular order. Used by model
// reconstruction to walk every Vertex variable without needing a reverse
// id->Var index maintained alongside the forward one.
func (r *Registry) Each(f func(v Var, id int)) {
	for v, id := range r.ids {
		f(v, id)
	}
}
