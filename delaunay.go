package voronoi

import (
	"math"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SuperTriangleScale is the safety factor applied to the canvas size
// when building the super-triangle enclosing every site.
const SuperTriangleScale = 2.5

// parallelScanThreshold is the number of arena slots above which
// the circumcircle scan of an insertion is split between workers.
const parallelScanThreshold = 4096

// maxCavityRepairs bounds the passes spent fixing a cavity whose
// boundary is not visible from the inserted site because of rounding.
const maxCavityRepairs = 64

// Delaunay defines the main components for the incremental triangulation.
// Triangles are kept in an arena and addressed by index. An index stays valid
// for as long as the triangle is part of the triangulation; freed slots are reused.
type Delaunay struct {
	// Workers limits the goroutines used by the circumcircle scan.
	// Zero means runtime.GOMAXPROCS.
	Workers int
	Logger  *zap.Logger

	width  int
	height int
	super  [3]Point
	sites  []Point

	triangles []Triangle
	alive     []bool
	stamp     []int
	free      []int
	edges     map[Edge][]int

	gen        int
	degenerate int
	repairs    int
}

// boundaryEdge is an edge of the cavity polygon, owned by the removed triangle owner.
type boundaryEdge struct {
	edge   Edge
	owner  int
	across int
	apex   Point
}

// NewDelaunay returns a triangulation seeded with the super-triangle of a width x height canvas.
func NewDelaunay(width, height int) *Delaunay {
	return new(Delaunay).Init(width, height)
}

// Init initialize the delaunay structure, dropping every inserted site.
func (d *Delaunay) Init(width, height int) *Delaunay {
	d.width = width
	d.height = height
	d.sites = nil
	d.triangles = nil
	d.alive = nil
	d.stamp = nil
	d.free = nil
	d.edges = make(map[Edge][]int)
	d.gen = 0
	d.degenerate = 0
	d.repairs = 0

	// Create the supertriangle, an artificial triangle which encompasses all the points.
	d.super = superTriangle(width, height)
	_ = d.add(NewTriangle(d.super[0], d.super[1], d.super[2]))

	return d
}

// superTriangle returns a triangle strictly containing [0,width]x[0,height].
// Its vertices are far enough for every canvas pixel to be closer to any site than to them.
func superTriangle(width, height int) [3]Point {
	cx, cy := float64(width)/2, float64(height)/2
	m := float64(Max(width, height, 1)) * SuperTriangleScale

	return [3]Point{
		{X: cx - 2*m, Y: cy - m},
		{X: cx + 2*m, Y: cy - m},
		{X: cx, Y: cy + 2*m},
	}
}

// Insert adds the sites to the triangulation in the given order.
// The sites are validated before any of them is inserted: an empty list, a site
// outside of the canvas or a site inserted twice is rejected and leaves the
// triangulation untouched.
func (d *Delaunay) Insert(sites []Point) error {
	if err := d.validate(sites); err != nil {
		return err
	}
	log := d.logger()

	for i, p := range sites {
		if err := d.insert(p); err != nil {
			return errors.Wrapf(err, "inserting site %d at (%g, %g)", i, p.X, p.Y)
		}
		d.sites = append(d.sites, p)
	}

	log.Debug("sites inserted",
		zap.Int("sites", len(d.sites)),
		zap.Int("triangles", d.Len()),
		zap.Int("repairs", d.repairs),
	)
	if d.degenerate > 0 {
		log.Warn("degenerate triangles approximated", zap.Int("count", d.degenerate))
	}
	return nil
}

func (d *Delaunay) validate(sites []Point) error {
	if len(sites) == 0 {
		return ErrNoSites
	}
	w, h := float64(d.width), float64(d.height)

	seen := make(map[Point]struct{}, len(d.sites)+len(sites))
	for _, p := range d.sites {
		seen[p] = struct{}{}
	}
	for i, p := range sites {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || p.X < 0 || p.Y < 0 || p.X > w || p.Y > h {
			return errors.Wrapf(ErrOutOfBounds, "site %d at (%g, %g) on a %dx%d canvas", i, p.X, p.Y, d.width, d.height)
		}
		if _, ok := seen[p]; ok {
			return errors.Wrapf(ErrDuplicateSite, "site %d at (%g, %g)", i, p.X, p.Y)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// insert runs one Bowyer-Watson step: remove the triangles whose circumcircle
// contains p and fill the hole with triangles joining p to the hole boundary.
func (d *Delaunay) insert(p Point) error {
	d.gen++
	cavity := d.findBad(p)
	for _, i := range cavity {
		d.stamp[i] = d.gen
	}

	// The seed is the triangle holding p. It never leaves the cavity.
	seed := -1
	for _, i := range cavity {
		if d.triangles[i].contains(p) {
			seed = i
			break
		}
	}
	if seed < 0 {
		// Rounding kept the holding triangle out of the scan.
		for i, t := range d.triangles {
			if d.alive[i] && t.contains(p) {
				seed = i
				d.stamp[i] = d.gen
				cavity = append(cavity, i)
				break
			}
		}
	}
	pinned := map[int]bool{seed: true}

	var polygon []boundaryEdge
	for pass := 0; ; pass++ {
		var broken []boundaryEdge
		polygon, broken = d.boundary(cavity, p)
		if len(broken) == 0 || pass == maxCavityRepairs {
			break
		}

		changed := false
		for _, b := range broken {
			if d.stamp[b.owner] != d.gen {
				continue
			}
			if orient(b.edge.A, b.edge.B, p) == 0 && b.across >= 0 && d.stamp[b.across] != d.gen {
				// p sits on the edge line: grow the cavity across the edge.
				d.stamp[b.across] = d.gen
				cavity = append(cavity, b.across)
				pinned[b.across] = true
				changed = true
			} else if !pinned[b.owner] {
				d.stamp[b.owner] = 0
				changed = true
			}
		}
		if !changed {
			break
		}
		d.repairs++
		cavity = d.keep(cavity)
	}

	for _, i := range cavity {
		d.remove(i)
	}
	for _, b := range polygon {
		t := NewTriangle(b.edge.A, b.edge.B, p)
		if t.Degenerate {
			d.degenerate++
		}
		if err := d.add(t); err != nil {
			return err
		}
	}
	return nil
}

// findBad returns, in arena order, the live triangles whose circumcircle contains p.
// The arena is only read while scanning, so large arenas are split between workers.
func (d *Delaunay) findBad(p Point) []int {
	n := len(d.triangles)
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < parallelScanThreshold || workers == 1 {
		return d.scan(p, 0, n, nil)
	}

	chunk := (n + workers - 1) / workers
	parts := make([][]int, workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*chunk, Min((w+1)*chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			parts[w] = d.scan(p, lo, hi, nil)
			return nil
		})
	}
	_ = g.Wait()

	var bad []int
	for _, part := range parts {
		bad = append(bad, part...)
	}
	return bad
}

func (d *Delaunay) scan(p Point, lo, hi int, bad []int) []int {
	for i := lo; i < hi; i++ {
		if d.alive[i] && d.triangles[i].InCircumcircle(p) {
			bad = append(bad, i)
		}
	}
	return bad
}

// boundary returns the cavity edges owned by exactly one cavity triangle, and
// among them the ones from which p cannot see the inside of the cavity.
func (d *Delaunay) boundary(cavity []int, p Point) (polygon, broken []boundaryEdge) {
	for _, i := range cavity {
		t := d.triangles[i]
		for k, e := range t.Edges() {
			across := -1
			for _, j := range d.edges[e] {
				if j != i {
					across = j
				}
			}
			if across >= 0 && d.stamp[across] == d.gen {
				continue
			}
			b := boundaryEdge{edge: e, owner: i, across: across, apex: t.Nodes[(k+2)%3]}
			polygon = append(polygon, b)

			if orient(e.A, e.B, p)*orient(e.A, e.B, b.apex) <= 0 {
				broken = append(broken, b)
			}
		}
	}
	return polygon, broken
}

// keep drops the triangles no longer stamped with the current generation.
func (d *Delaunay) keep(cavity []int) []int {
	out := cavity[:0]
	for _, i := range cavity {
		if d.stamp[i] == d.gen {
			out = append(out, i)
		}
	}
	return out
}

// add stores t in the arena and registers its edges in the edge index.
func (d *Delaunay) add(t Triangle) error {
	var idx int
	if n := len(d.free); n > 0 {
		idx = d.free[n-1]
		d.free = d.free[:n-1]
		d.triangles[idx] = t
		d.alive[idx] = true
		d.stamp[idx] = 0
	} else {
		idx = len(d.triangles)
		d.triangles = append(d.triangles, t)
		d.alive = append(d.alive, true)
		d.stamp = append(d.stamp, 0)
	}

	for _, e := range t.Edges() {
		owners := append(d.edges[e], idx)
		if len(owners) > 2 {
			return errors.Wrapf(ErrEdgeOverflow, "edge (%g, %g)-(%g, %g)", e.A.X, e.A.Y, e.B.X, e.B.Y)
		}
		d.edges[e] = owners
	}
	return nil
}

// remove evicts the triangle at idx from the arena and the edge index.
func (d *Delaunay) remove(idx int) {
	for _, e := range d.triangles[idx].Edges() {
		owners := d.edges[e]
		for k, j := range owners {
			if j == idx {
				owners = append(owners[:k], owners[k+1:]...)
				break
			}
		}
		if len(owners) == 0 {
			delete(d.edges, e)
		} else {
			d.edges[e] = owners
		}
	}
	d.alive[idx] = false
	d.stamp[idx] = 0
	d.free = append(d.free, idx)
}

// Len returns the number of live triangles, super-triangle ones included.
func (d *Delaunay) Len() int {
	return len(d.triangles) - len(d.free)
}

// Triangulation returns a snapshot of the current triangulation.
func (d *Delaunay) Triangulation() *Triangulation {
	tris := make([]Triangle, 0, d.Len())
	for i, t := range d.triangles {
		if d.alive[i] {
			tris = append(tris, t)
		}
	}
	sites := make([]Point, len(d.sites))
	copy(sites, d.sites)

	return &Triangulation{
		Width:      d.width,
		Height:     d.height,
		Triangles:  tris,
		Super:      d.super,
		Sites:      sites,
		Degenerate: d.degenerate,
	}
}

// GetTriangles return the generated triangles, without the ones touching the super-triangle.
func (d *Delaunay) GetTriangles() []Triangle {
	return d.Triangulation().Delaunay()
}

func (d *Delaunay) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Triangulation is the result of the incremental triangulation.
// Triangles holds every final triangle, the ones sharing a vertex with the
// super-triangle included: they anchor the Voronoi cells of the hull sites.
type Triangulation struct {
	Width, Height int
	Triangles     []Triangle
	Super         [3]Point
	Sites         []Point
	Degenerate    int
}

// Triangulate builds the Delaunay triangulation of the sites on a width x height canvas.
func Triangulate(width, height int, sites []Point) (*Triangulation, error) {
	d := NewDelaunay(width, height)
	if err := d.Insert(sites); err != nil {
		return nil, err
	}
	return d.Triangulation(), nil
}

// TouchesSuper reports whether the i-th triangle shares a vertex with the super-triangle.
func (t *Triangulation) TouchesSuper(i int) bool {
	tri := t.Triangles[i]
	for _, s := range t.Super {
		if tri.HasVertex(s) {
			return true
		}
	}
	return false
}

// Delaunay returns the triangles made only of sites.
func (t *Triangulation) Delaunay() []Triangle {
	var tris []Triangle
	for i, tri := range t.Triangles {
		if !t.TouchesSuper(i) {
			tris = append(tris, tri)
		}
	}
	return tris
}

// Bounds returns the canvas rectangle.
func (t *Triangulation) Bounds() Rect {
	return Rect{MaxX: float64(t.Width), MaxY: float64(t.Height)}
}

// orient returns twice the signed area of the triangle abc:
// positive when c lies to the left of ab, negative to the right, zero when colinear.
func orient(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// contains reports whether p lies inside or on the border of the triangle.
func (t Triangle) contains(p Point) bool {
	d0 := orient(t.Nodes[0], t.Nodes[1], p)
	d1 := orient(t.Nodes[1], t.Nodes[2], p)
	d2 := orient(t.Nodes[2], t.Nodes[0], p)

	neg := d0 < 0 || d1 < 0 || d2 < 0
	pos := d0 > 0 || d1 > 0 || d2 > 0
	return !(neg && pos)
}
