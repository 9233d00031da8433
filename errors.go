package voronoi

import "github.com/pkg/errors"

// Input contract violations. Numeric degeneracy inside the triangulation is
// not reported as an error: it is approximated and the insertion continues.
var (
	ErrNoSites          = errors.New("no sites to triangulate")
	ErrDuplicateSite    = errors.New("duplicate site")
	ErrOutOfBounds      = errors.New("site outside of the canvas bounds")
	ErrInvalidSiteCount = errors.New("site count must be positive")
	ErrEmptyImage       = errors.New("image has no pixels")
	ErrEdgeOverflow     = errors.New("edge shared by more than two triangles")
)
