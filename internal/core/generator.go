package core

import "gonum.org/v1/gonum/mathext/prng"

// NewRandomProblem deterministically builds a k x k grid instance with b
// blockades, a agents, and c containers, per §6's generation recipe: hash
// "k,b,a,c,seed" with the Java String.hashCode algorithm, seed a
// Mersenne-Twister with it, then apply three Fisher-Yates shuffles over
// nodes = [0, k*k) using the variant that indexes the swap partner modulo
// the *full* array size (not i+1). The first shuffle's leading c entries are
// container starts; between shuffles, the second and third shuffle operate
// only on nodes[0 : len(nodes)-b] (excluding the trailing b blockade
// vertices); the second shuffle's leading a entries are agent starts; the
// third shuffle's leading c entries are container goals. The final b
// entries (fixed after the first shuffle) are the blockade set.
//
// Any change here must keep bit-exact agreement with existing benchmarks:
// see SPEC_FULL.md §6 and §8 scenario 5.
func NewRandomProblem(k, b, a, c int, seed string) *Problem {
	size := k * k
	nodes := make([]int, size)
	for i := range nodes {
		nodes[i] = i
	}

	rng := prng.NewMT19937()
	rng.Seed(uint64(uint32(generatorSeed(k, b, a, c, seed))))

	fisherYatesShuffle(nodes, rng)
	blockades := append([]int(nil), nodes[size-b:]...)
	containerStarts := append([]int(nil), nodes[:c]...)

	free := nodes[:size-b]
	fisherYatesShuffle(free, rng)
	agentStarts := append([]int(nil), free[:a]...)

	fisherYatesShuffle(free, rng)
	containerGoals := append([]int(nil), free[:c]...)

	toVertices := func(ints []int) []VertexID {
		out := make([]VertexID, len(ints))
		for i, v := range ints {
			out[i] = VertexID(v)
		}
		return out
	}

	g := NewGrid(k, k, toVertices(blockades))
	return NewProblem(g, toVertices(containerStarts), toVertices(containerGoals), toVertices(agentStarts))
}

// fisherYatesShuffle permutes nodes in place: for i from len(nodes)-1 down to
// 1, swap nodes[i] with nodes[rng()%len(nodes)]. The modulus is the full
// slice length on every iteration, not i+1 — this is the specific variant
// the source uses (util.hpp's shuffle_), not the textbook Fisher-Yates.
func fisherYatesShuffle(nodes []int, rng *prng.MT19937) {
	n := len(nodes)
	for i := n - 1; i >= 1; i-- {
		j := int(rng.Uint32() % uint32(n))
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
}
