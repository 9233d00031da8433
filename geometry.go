package voronoi

import "math"

// DegenerateEpsilon replaces the circumcenter denominator of three colinear points.
// The resulting circumcircle is huge and is evicted by the next insertion touching it.
const DegenerateEpsilon = 1e-9

// Point defines a struct having as components the point X and Y coordinate position.
// Two points with the same coordinates are the same site.
type Point struct {
	X, Y float64
}

// Dist returns the euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// less orders points lexicographically, first by X then by Y.
func (p Point) less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Edge is an unordered pair of points. Use NewEdge to build it,
// so that NewEdge(a, b) == NewEdge(b, a) and the edge can be used as a map key.
type Edge struct {
	A, B Point
}

// NewEdge creates a new edge with its endpoints in canonical order.
func NewEdge(p0, p1 Point) Edge {
	if p1.less(p0) {
		p0, p1 = p1, p0
	}
	return Edge{A: p0, B: p1}
}

// Circle describes the circumscribed circle of a triangle.
// Radius2 is the squared radius, used by the circumcircle test.
type Circle struct {
	X, Y    float64
	Radius  float64
	Radius2 float64
}

// Center returns the circle center as a point.
func (c Circle) Center() Point {
	return Point{X: c.X, Y: c.Y}
}

// Triangle struct defines the basic components of a triangle.
// The circumcircle is computed once on construction and never changes afterwards.
type Triangle struct {
	Nodes  [3]Point
	Circle Circle
	// Degenerate is set when the nodes are colinear and the circumcenter
	// was approximated with DegenerateEpsilon.
	Degenerate bool
}

// NewTriangle creates a new triangle together with its circumscribed circle.
func NewTriangle(p0, p1, p2 Point) Triangle {
	t := Triangle{Nodes: [3]Point{p0, p1, p2}}

	d := (p0.X-p2.X)*(p1.Y-p2.Y) - (p1.X-p2.X)*(p0.Y-p2.Y)
	if d == 0 {
		d = DegenerateEpsilon
		t.Degenerate = true
	}

	m := ((p0.X-p2.X)*(p0.X+p2.X) + (p0.Y-p2.Y)*(p0.Y+p2.Y)) / 2
	u := ((p1.X-p2.X)*(p1.X+p2.X) + (p1.Y-p2.Y)*(p1.Y+p2.Y)) / 2

	cx := (m*(p1.Y-p2.Y) - u*(p0.Y-p2.Y)) / d
	cy := (u*(p0.X-p2.X) - m*(p1.X-p2.X)) / d

	dx, dy := p2.X-cx, p2.Y-cy
	t.Circle = Circle{
		X:       cx,
		Y:       cy,
		Radius2: dx*dx + dy*dy,
	}
	t.Circle.Radius = math.Sqrt(t.Circle.Radius2)

	return t
}

// Edges returns the triangle edges. Edge i joins node i with node (i+1)%3.
func (t Triangle) Edges() [3]Edge {
	return [3]Edge{
		NewEdge(t.Nodes[0], t.Nodes[1]),
		NewEdge(t.Nodes[1], t.Nodes[2]),
		NewEdge(t.Nodes[2], t.Nodes[0]),
	}
}

// InCircumcircle reports whether p lies inside or on the triangle circumcircle.
func (t Triangle) InCircumcircle(p Point) bool {
	dx := t.Circle.X - p.X
	dy := t.Circle.Y - p.Y
	return dx*dx+dy*dy <= t.Circle.Radius2
}

// HasVertex reports whether p is one of the triangle nodes.
func (t Triangle) HasVertex(p Point) bool {
	return t.Nodes[0] == p || t.Nodes[1] == p || t.Nodes[2] == p
}

// Centroid returns the triangle center of mass.
func (t Triangle) Centroid() Point {
	return Point{
		X: (t.Nodes[0].X + t.Nodes[1].X + t.Nodes[2].X) / 3,
		Y: (t.Nodes[0].Y + t.Nodes[1].Y + t.Nodes[2].Y) / 3,
	}
}
