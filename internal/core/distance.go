package core

import (
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
)

// unreachable marks a missing distance-table entry, distinguished from the
// zero distance of an entity's own start vertex.
const unreachable = -1

// DistanceTable holds dist[e][v] for every entity e, computed by BFS from
// s[e]. In transport mode, container rows are rebiased in place (see
// Preprocess) so dist[c][v] already accounts for pickup time.
type DistanceTable struct {
	byEntity [][]int // byEntity[e][v], unreachable if no path
}

// Dist returns the shortest-path distance from e's start to v, or
// (0, false) if v is unreachable from e.
func (d *DistanceTable) Dist(e EntityID, v VertexID) (int, bool) {
	dist := d.byEntity[e][v]
	if dist == unreachable {
		return 0, false
	}
	return dist, true
}

// Preprocess runs one BFS per entity and computes the admissible lower bound
// L on makespan. When transport is true, container distance rows are
// rebiased: dist[c][v] += to_agent[c] for every v != s[c], so horizon
// pruning and the SAT encoding's destination assumptions account for the
// pickup leg. Returns (table, L, ok); ok is false if the instance is
// unsolvable (some container cannot reach its goal, or, in transport mode,
// cannot reach any agent start).
func Preprocess(p *Problem, transport bool) (*DistanceTable, int, bool) {
	lg := p.Graph.ToLvlathGraph()
	table := &DistanceTable{byEntity: make([][]int, p.NumEntities())}

	for _, e := range p.AllEntities() {
		row := make([]int, p.Graph.Size)
		for v := range row {
			row[v] = unreachable
		}
		res, err := bfs.BFS(lg, strconv.Itoa(int(p.Start[e])))
		if err == nil {
			for vs, depth := range res.Depth {
				v, convErr := strconv.Atoi(vs)
				if convErr != nil {
					continue
				}
				row[v] = depth
			}
		}
		table.byEntity[e] = row
	}

	L := 0
	agentStarts := p.Agents()
	for _, c := range p.Containers() {
		if p.Start[c] == p.Goal[c] {
			continue
		}
		toGoal, ok := table.Dist(c, p.Goal[c])
		if !ok {
			return nil, 0, false
		}
		if !transport {
			if toGoal > L {
				L = toGoal
			}
			continue
		}

		toAgent := -1
		for _, a := range agentStarts {
			d, ok := table.Dist(c, p.Start[a])
			if ok && (toAgent == -1 || d < toAgent) {
				toAgent = d
			}
		}
		if toAgent == -1 {
			return nil, 0, false
		}
		if bound := toAgent + toGoal; bound > L {
			L = bound
		}
		rebiasContainerRow(table.byEntity[c], p.Start[c], toAgent)
	}

	return table, L, true
}

func rebiasContainerRow(row []int, start VertexID, toAgent int) {
	for v := range row {
		if VertexID(v) == start || row[v] == unreachable {
			continue
		}
		row[v] += toAgent
	}
}
