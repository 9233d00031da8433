package voronoi

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSites(r *rand.Rand, n int, width, height float64) []Point {
	seen := make(map[Point]bool, n)
	sites := make([]Point, 0, n)
	for len(sites) < n {
		p := Point{X: r.Float64() * width, Y: r.Float64() * height}
		if seen[p] {
			continue
		}
		seen[p] = true
		sites = append(sites, p)
	}
	return sites
}

func TestTriangulateSquare(t *testing.T) {
	sites := []Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	tri, err := Triangulate(10, 10, sites)
	require.NoError(t, err)

	pure := tri.Delaunay()
	require.Len(t, pure, 2)
	for _, p := range pure {
		assert.InDelta(t, 5, p.Circle.X, 1e-9)
		assert.InDelta(t, 5, p.Circle.Y, 1e-9)
		for _, s := range sites {
			assert.InDelta(t, math.Sqrt(50), s.Dist(p.Circle.Center()), 1e-9)
		}
	}

	// The two triangles split the square along a diagonal.
	shared := 0
	for _, e := range pure[0].Edges() {
		for _, f := range pure[1].Edges() {
			if e == f {
				shared++
				assert.InDelta(t, math.Sqrt(200), e.A.Dist(e.B), 1e-9)
			}
		}
	}
	assert.Equal(t, 1, shared)
}

func TestTriangulateIsDelaunay(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	sites := randomSites(r, 300, 200, 150)

	tri, err := Triangulate(200, 150, sites)
	require.NoError(t, err)
	assert.Len(t, tri.Triangles, 2*len(sites)+1)
	assert.Equal(t, sites, tri.Sites)

	for _, p := range tri.Delaunay() {
		for _, s := range sites {
			if p.HasVertex(s) {
				continue
			}
			dx, dy := s.X-p.Circle.X, s.Y-p.Circle.Y
			assert.GreaterOrEqual(t, dx*dx+dy*dy, p.Circle.Radius2*(1-1e-9))
		}
	}
}

func TestTriangulateEdgeOwners(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	sites := randomSites(r, 200, 100, 100)

	tri, err := Triangulate(100, 100, sites)
	require.NoError(t, err)

	owners := make(map[Edge]int)
	for _, p := range tri.Triangles {
		for _, e := range p.Edges() {
			owners[e]++
		}
	}
	border := 0
	for _, n := range owners {
		require.True(t, n == 1 || n == 2)
		if n == 1 {
			border++
		}
	}
	// Only the super-triangle sides lie on the border of the mesh.
	assert.Equal(t, 3, border)
}

func TestTriangulateLattice(t *testing.T) {
	var sites []Point
	for y := 0; y <= 40; y += 10 {
		for x := 0; x <= 40; x += 10 {
			sites = append(sites, Point{X: float64(x), Y: float64(y)})
		}
	}
	tri, err := Triangulate(40, 40, sites)
	require.NoError(t, err)

	pure := tri.Delaunay()
	assert.Len(t, pure, 2*4*4)
	for _, p := range pure {
		assert.False(t, p.Degenerate)
		assert.InDelta(t, 50, p.Circle.Radius2, 1e-9)
	}
}

func TestTriangulateOrderIndependence(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	sites := randomSites(r, 120, 300, 300)

	reversed := make([]Point, len(sites))
	for i, s := range sites {
		reversed[len(sites)-1-i] = s
	}

	a, err := Triangulate(300, 300, sites)
	require.NoError(t, err)
	b, err := Triangulate(300, 300, reversed)
	require.NoError(t, err)

	ca, cb := a.Delaunay(), b.Delaunay()
	require.Equal(t, len(ca), len(cb))

	used := make([]bool, len(cb))
	for _, p := range ca {
		found := false
		for j, q := range cb {
			if used[j] {
				continue
			}
			if math.Abs(p.Circle.X-q.Circle.X) < 1e-6 && math.Abs(p.Circle.Y-q.Circle.Y) < 1e-6 {
				used[j] = true
				found = true
				break
			}
		}
		assert.True(t, found, "circumcenter (%g, %g) missing", p.Circle.X, p.Circle.Y)
	}
}

func TestTriangulateParallelScan(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	sites := randomSites(r, 2500, 500, 500)

	serial := NewDelaunay(500, 500)
	serial.Workers = 1
	require.NoError(t, serial.Insert(sites))

	parallel := NewDelaunay(500, 500)
	parallel.Workers = 4
	require.NoError(t, parallel.Insert(sites))

	// The scan keeps arena order, so both runs build the same arena.
	assert.Equal(t, serial.Triangulation().Triangles, parallel.Triangulation().Triangles)
}

func TestInsertErrors(t *testing.T) {
	d := NewDelaunay(10, 10)
	require.Equal(t, 1, d.Len())

	assert.ErrorIs(t, d.Insert(nil), ErrNoSites)
	assert.ErrorIs(t, d.Insert([]Point{{1, 1}, {11, 5}}), ErrOutOfBounds)
	assert.ErrorIs(t, d.Insert([]Point{{-0.5, 5}}), ErrOutOfBounds)
	assert.ErrorIs(t, d.Insert([]Point{{math.NaN(), 5}}), ErrOutOfBounds)
	assert.ErrorIs(t, d.Insert([]Point{{1, 1}, {2, 2}, {1, 1}}), ErrDuplicateSite)

	// Rejected batches leave the triangulation untouched.
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.Triangulation().Sites)

	require.NoError(t, d.Insert([]Point{{1, 1}}))
	assert.ErrorIs(t, d.Insert([]Point{{1, 1}}), ErrDuplicateSite)
	assert.Equal(t, 3, d.Len())
}

func TestTriangulateCornerSites(t *testing.T) {
	sites := []Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}, {5, 5}, {10, 5}}
	tri, err := Triangulate(10, 10, sites)
	require.NoError(t, err)
	assert.Len(t, tri.Triangles, 2*len(sites)+1)

	for _, s := range tri.Super {
		assert.False(t, tri.Bounds().Contains(s))
	}
	for i := range tri.Triangles {
		if !tri.TouchesSuper(i) {
			assert.False(t, tri.Triangles[i].Degenerate)
		}
	}
}

func TestSuperTriangleEnclosesCanvas(t *testing.T) {
	s := superTriangle(30, 20)
	super := NewTriangle(s[0], s[1], s[2])
	for _, p := range []Point{{0, 0}, {30, 0}, {0, 20}, {30, 20}} {
		assert.True(t, super.contains(p))
		for _, v := range s {
			// Every canvas point is closer to any other canvas point than to a super vertex.
			assert.Greater(t, p.Dist(v), math.Hypot(30, 20))
		}
	}
}

func TestGetTriangles(t *testing.T) {
	d := NewDelaunay(10, 10)
	require.NoError(t, d.Insert([]Point{{1, 1}, {9, 1}, {5, 8}}))

	tris := d.GetTriangles()
	require.Len(t, tris, 1)
	assert.True(t, tris[0].HasVertex(Point{5, 8}))

	d.Init(10, 10)
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.GetTriangles())
}
