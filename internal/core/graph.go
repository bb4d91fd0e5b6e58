// Package core defines the graph/problem data model shared by both solver
// cores: the contiguous vertex-ID graph, the container/agent entity ranges,
// the distance preprocessor, solver configuration, and the Solution/Stats
// shapes both cores emit.
package core

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/lvlath/core"
)

// VertexID indexes a vertex in the contiguous range [0, Graph.Size).
type VertexID int

// Graph is an undirected simple graph over a contiguous vertex-ID range.
// Grid construction encodes vertex (x,y) as y*Width+x and connects
// 4-neighbours, skipping any edge incident to a blockaded vertex.
type Graph struct {
	Width, Height int
	Size          int
	Blockaded     []bool // len == Size
	adj           [][]VertexID
}

// NewGrid builds a Width x Height grid graph with the given blockaded
// vertices. Edges incident to a blockaded vertex are omitted entirely (the
// blockaded vertex itself still exists as an isolated vertex in the ID
// space, matching the source's make_grid behaviour).
func NewGrid(width, height int, blockades []VertexID) *Graph {
	size := width * height
	g := &Graph{
		Width:     width,
		Height:    height,
		Size:      size,
		Blockaded: make([]bool, size),
		adj:       make([][]VertexID, size),
	}
	for _, b := range blockades {
		if int(b) >= 0 && int(b) < size {
			g.Blockaded[b] = true
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := VertexID(y*width + x)
			if g.Blockaded[v] {
				continue
			}
			if x+1 < width {
				g.maybeAddEdge(v, VertexID(y*width+x+1))
			}
			if y+1 < height {
				g.maybeAddEdge(v, VertexID((y+1)*width+x))
			}
		}
	}
	return g
}

func (g *Graph) maybeAddEdge(u, w VertexID) {
	if g.Blockaded[u] || g.Blockaded[w] {
		return
	}
	g.adj[u] = append(g.adj[u], w)
	g.adj[w] = append(g.adj[w], u)
}

// Neighbors returns v's adjacent vertices. The returned slice must not be
// mutated by callers.
func (g *Graph) Neighbors(v VertexID) []VertexID {
	return g.adj[v]
}

// Edges returns every undirected edge exactly once, as (u,w) with u<w.
func (g *Graph) Edges() [][2]VertexID {
	var out [][2]VertexID
	for v := 0; v < g.Size; v++ {
		for _, w := range g.adj[v] {
			if w > VertexID(v) {
				out = append(out, [2]VertexID{VertexID(v), w})
			}
		}
	}
	return out
}

// XY decodes a grid-encoded vertex back to (x,y). Valid only for graphs built
// by NewGrid.
func (g *Graph) XY(v VertexID) (x, y int) {
	return int(v) % g.Width, int(v) / g.Width
}

// Encode re-encodes (x,y) as a VertexID, the inverse of XY.
func (g *Graph) Encode(x, y int) VertexID {
	return VertexID(y*g.Width + x)
}

// InBounds reports whether (x,y) names a vertex in the grid and is not
// blockaded.
func (g *Graph) InBounds(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return !g.Blockaded[g.Encode(x, y)]
}

// ToLvlathGraph materialises an unweighted, undirected core.Graph view of g,
// vertex IDs stringified via strconv.Itoa. Used exclusively to hand the
// traversal off to the bfs package; the dense adjacency-list representation
// above remains the hot-path representation for every other component.
func (g *Graph) ToLvlathGraph() *core.Graph {
	lg := core.NewGraph(core.WithDirected(false))
	for v := 0; v < g.Size; v++ {
		if err := lg.AddVertex(strconv.Itoa(v)); err != nil {
			panic(fmt.Sprintf("core: building lvlath view: %v", err))
		}
	}
	seen := make(map[[2]int]bool)
	for v := 0; v < g.Size; v++ {
		for _, w := range g.adj[v] {
			if w <= VertexID(v) {
				continue
			}
			key := [2]int{v, int(w)}
			if seen[key] {
				continue
			}
			seen[key] = true
			if _, err := lg.AddEdge(strconv.Itoa(v), strconv.Itoa(int(w)), 0); err != nil {
				panic(fmt.Sprintf("core: building lvlath view: %v", err))
			}
		}
	}
	return lg
}
