package voronoi

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// NoNeighbor marks a triangle edge lying on the border of the mesh.
const NoNeighbor = -1

// Neighbors holds, for edge i of a triangle, the index of the triangle across it.
type Neighbors [3]int

// Count returns the number of adjacent triangles.
func (n Neighbors) Count() int {
	c := 0
	for _, j := range n {
		if j != NoNeighbor {
			c++
		}
	}
	return c
}

// edgeIndex maps every edge to the indexes of the triangles owning it.
func edgeIndex(tris []Triangle) (map[Edge][]int, error) {
	index := make(map[Edge][]int, len(tris)*3/2+1)
	for i, t := range tris {
		for _, e := range t.Edges() {
			owners := append(index[e], i)
			if len(owners) > 2 {
				return nil, errors.Wrapf(ErrEdgeOverflow, "edge (%g, %g)-(%g, %g)", e.A.X, e.A.Y, e.B.X, e.B.Y)
			}
			index[e] = owners
		}
	}
	return index, nil
}

// ResolveNeighbors computes the adjacency of the final triangles. The edge index
// is built once, then the lookups are spread over workers since the index is
// not modified anymore. The resulting links are symmetric.
func ResolveNeighbors(tris []Triangle, workers int) ([]Neighbors, error) {
	index, err := edgeIndex(tris)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	nbrs := make([]Neighbors, len(tris))

	chunk := Max((len(tris)+workers-1)/workers, 1)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(tris); lo += chunk {
		lo, hi := lo, Min(lo+chunk, len(tris))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				for k, e := range tris[i].Edges() {
					nbrs[i][k] = NoNeighbor
					for _, j := range index[e] {
						if j != i {
							nbrs[i][k] = j
						}
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return nbrs, nil
}

// SharedEdges returns the number of edges owned by two triangles.
func SharedEdges(tris []Triangle) int {
	owners := make(map[Edge]int, len(tris)*3/2+1)
	for _, t := range tris {
		for _, e := range t.Edges() {
			owners[e]++
		}
	}
	shared := 0
	for _, n := range owners {
		if n == 2 {
			shared++
		}
	}
	return shared
}
