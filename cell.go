package voronoi

import (
	"math"
	"sort"
)

// Cell is the Voronoi region of a site, as a convex polygon clipped to the canvas.
type Cell struct {
	Site    Point
	Polygon []Point
}

// BuildCells returns the cells of every site of the triangulation, in site order.
// The circumcenters of the triangles sharing a site, sorted by angle around it,
// are the vertices of the site's cell. The super-triangle closes the fan of
// the hull sites, so every cell is bounded before being clipped to r.
func BuildCells(tri *Triangulation, r Rect) []Cell {
	incident := make(map[Point][]int, len(tri.Sites))
	for i, t := range tri.Triangles {
		for _, p := range t.Nodes {
			incident[p] = append(incident[p], i)
		}
	}

	cells := make([]Cell, len(tri.Sites))
	for i, site := range tri.Sites {
		fan := incident[site]
		poly := make([]Point, 0, len(fan))
		for _, j := range fan {
			poly = append(poly, tri.Triangles[j].Circle.Center())
		}
		sortByAngle(poly, site)

		cells[i] = Cell{
			Site:    site,
			Polygon: clipPolygon(poly, r),
		}
	}
	return cells
}

// sortByAngle orders the points counterclockwise around the center.
func sortByAngle(pts []Point, center Point) {
	angles := make(map[Point]float64, len(pts))
	for _, p := range pts {
		angles[p] = math.Atan2(p.Y-center.Y, p.X-center.X)
	}
	sort.SliceStable(pts, func(i, j int) bool {
		return angles[pts[i]] < angles[pts[j]]
	})
}

// clipPolygon clips a convex polygon to the rectangle with the
// Sutherland-Hodgman algorithm, one rectangle side at a time.
func clipPolygon(poly []Point, r Rect) []Point {
	type side struct {
		inside    func(p Point) bool
		intersect func(a, b Point) Point
	}
	atX := func(x float64) func(a, b Point) Point {
		return func(a, b Point) Point {
			t := (x - a.X) / (b.X - a.X)
			return Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
		}
	}
	atY := func(y float64) func(a, b Point) Point {
		return func(a, b Point) Point {
			t := (y - a.Y) / (b.Y - a.Y)
			return Point{X: a.X + t*(b.X-a.X), Y: y}
		}
	}
	sides := []side{
		{func(p Point) bool { return p.X >= r.MinX }, atX(r.MinX)},
		{func(p Point) bool { return p.X <= r.MaxX }, atX(r.MaxX)},
		{func(p Point) bool { return p.Y >= r.MinY }, atY(r.MinY)},
		{func(p Point) bool { return p.Y <= r.MaxY }, atY(r.MaxY)},
	}

	out := poly
	for _, s := range sides {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]Point, 0, len(in)+1)
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case s.inside(cur) && s.inside(prev):
				out = append(out, cur)
			case s.inside(cur):
				out = append(out, s.intersect(prev, cur), cur)
			case s.inside(prev):
				out = append(out, s.intersect(prev, cur))
			}
			prev = cur
		}
	}
	return out
}

// Contains reports whether the point lies inside the cell, using the even-odd rule.
// Points on an edge shared by two cells belong to exactly one of them.
func (c Cell) Contains(x, y float64) bool {
	inside := false
	poly := c.Polygon
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > y) != (pj.Y > y) {
			xint := (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if x < xint {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the bounding box of the cell polygon.
func (c Cell) Bounds() Rect {
	if len(c.Polygon) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range c.Polygon {
		r.MinX = math.Min(r.MinX, p.X)
		r.MinY = math.Min(r.MinY, p.Y)
		r.MaxX = math.Max(r.MaxX, p.X)
		r.MaxY = math.Max(r.MaxY, p.Y)
	}
	return r
}
