package voronoi

import "math"

// Segment is a Voronoi edge joining the circumcenters of two adjacent triangles.
// Left and Right are the indexes of these triangles, Left < Right.
type Segment struct {
	A, B        Point
	Left, Right int
}

// Len returns the segment length.
func (s Segment) Len() float64 {
	return s.A.Dist(s.B)
}

// Rect is an axis aligned rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside or on the border of the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// BuildDual returns the Voronoi edges of a triangulation: one segment for
// every edge shared by two triangles, each pair emitted once.
func BuildDual(tris []Triangle, nbrs []Neighbors) []Segment {
	var segs []Segment
	for i, t := range tris {
		for _, j := range nbrs[i] {
			if j == NoNeighbor || j < i {
				continue
			}
			segs = append(segs, Segment{
				A:     t.Circle.Center(),
				B:     tris[j].Circle.Center(),
				Left:  i,
				Right: j,
			})
		}
	}
	return segs
}

// ClipDual clips the segments to the rectangle, dropping the ones lying outside
// of it and the ones collapsed to a single point.
func ClipDual(segs []Segment, r Rect) []Segment {
	clipped := make([]Segment, 0, len(segs))
	for _, s := range segs {
		c, ok := ClipSegment(s, r)
		if !ok {
			continue
		}
		if math.Abs(c.A.X-c.B.X) < 1e-9 && math.Abs(c.A.Y-c.B.Y) < 1e-9 {
			continue
		}
		clipped = append(clipped, c)
	}
	return clipped
}

// ClipSegment clips s to the rectangle using the Liang-Barsky parametric
// line clipping. It returns false when the segment lies outside the rectangle.
func ClipSegment(s Segment, r Rect) (Segment, bool) {
	ax, ay := s.A.X, s.A.Y
	dx, dy := s.B.X-ax, s.B.Y-ay
	t0, t1 := 0.0, 1.0

	// Each pair is (p, q) for the left, right, top and bottom borders.
	borders := [4][2]float64{
		{-dx, ax - r.MinX},
		{dx, r.MaxX - ax},
		{-dy, ay - r.MinY},
		{dy, r.MaxY - ay},
	}
	for _, b := range borders {
		p, q := b[0], b[1]
		if p == 0 {
			if q < 0 {
				return s, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return s, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return s, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	c := s
	if t0 > 0 {
		c.A = Point{X: ax + t0*dx, Y: ay + t0*dy}
	}
	if t1 < 1 {
		c.B = Point{X: ax + t1*dx, Y: ay + t1*dy}
	}
	return c, true
}
