package voronoi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNeighborsSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	tri, err := Triangulate(100, 80, randomSites(r, 150, 100, 80))
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 3} {
		nbrs, err := ResolveNeighbors(tri.Triangles, workers)
		require.NoError(t, err)
		require.Len(t, nbrs, len(tri.Triangles))

		for i, n := range nbrs {
			for k, j := range n {
				if j == NoNeighbor {
					continue
				}
				// The edge is shared, and the link points back.
				assert.Contains(t, tri.Triangles[j].Edges(), tri.Triangles[i].Edges()[k])
				assert.Contains(t, nbrs[j], i)
			}
		}
	}
}

func TestResolveNeighborsSquare(t *testing.T) {
	tri, err := Triangulate(10, 10, []Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}})
	require.NoError(t, err)

	pure := tri.Delaunay()
	nbrs, err := ResolveNeighbors(pure, 2)
	require.NoError(t, err)
	require.Len(t, nbrs, 2)

	assert.Equal(t, 1, nbrs[0].Count())
	assert.Equal(t, 1, nbrs[1].Count())
	assert.Contains(t, nbrs[0], 1)
	assert.Contains(t, nbrs[1], 0)
	assert.Equal(t, 1, SharedEdges(pure))
}

func TestResolveNeighborsOverflow(t *testing.T) {
	a, b := Point{0, 0}, Point{10, 0}
	tris := []Triangle{
		NewTriangle(a, b, Point{5, 5}),
		NewTriangle(a, b, Point{5, -5}),
		NewTriangle(a, b, Point{5, 9}),
	}
	_, err := ResolveNeighbors(tris, 1)
	assert.ErrorIs(t, err, ErrEdgeOverflow)
}

func TestResolveNeighborsEmpty(t *testing.T) {
	nbrs, err := ResolveNeighbors(nil, 4)
	require.NoError(t, err)
	assert.Empty(t, nbrs)
	assert.Zero(t, SharedEdges(nil))
}
