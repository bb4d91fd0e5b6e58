package cbsta

import (
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	lvlathcore "github.com/katalvlaran/lvlath/core"

	"github.com/elektrokombinacija/mapd-solver/internal/core"
)

// DistanceCache answers repeated arbitrary-vertex-to-target shortest-path
// queries, the way the low-level A* heuristic needs them (target is a
// task's start or goal vertex, source is whatever vertex the search node
// currently sits on — the opposite direction from core.Preprocess, which
// only ever needs distance-from-entity-start). It reuses one lvlath graph
// view and runs a fresh bfs.BFS per distinct target, caching each target's
// row so a target queried by many agents/nodes only costs one BFS.
type DistanceCache struct {
	g    *core.Graph
	lg   *lvlathcore.Graph
	rows map[core.VertexID][]int
}

// NewDistanceCache returns a cache over g.
func NewDistanceCache(g *core.Graph) *DistanceCache {
	return &DistanceCache{g: g, lg: g.ToLvlathGraph(), rows: make(map[core.VertexID][]int)}
}

// Dist returns the shortest-path distance from `from` to `to`, or
// (0, false) if unreachable.
func (c *DistanceCache) Dist(from, to core.VertexID) (int, bool) {
	row := c.from(to)
	d := row[from]
	if d < 0 {
		return 0, false
	}
	return d, true
}

func (c *DistanceCache) from(target core.VertexID) []int {
	if row, ok := c.rows[target]; ok {
		return row
	}
	row := make([]int, c.g.Size)
	for i := range row {
		row[i] = -1
	}
	res, err := bfs.BFS(c.lg, strconv.Itoa(int(target)))
	if err == nil {
		for vs, depth := range res.Depth {
			v, convErr := strconv.Atoi(vs)
			if convErr == nil {
				row[v] = depth
			}
		}
	}
	c.rows[target] = row
	return row
}
