package voronoi

import (
	"image"
	"image/color"
	"math"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ColorSource provides the color of the backing raster at integer coordinates.
// Implementations must be safe for concurrent reads.
type ColorSource interface {
	ColorAt(x, y int) color.NRGBA
}

// ColorSourceFunc adapts a function to the ColorSource interface.
type ColorSourceFunc func(x, y int) color.NRGBA

// ColorAt calls f(x, y).
func (f ColorSourceFunc) ColorAt(x, y int) color.NRGBA {
	return f(x, y)
}

// ImageSource is a ColorSource reading an NRGBA image.
type ImageSource struct {
	Img *image.NRGBA
}

// ColorAt returns the image color, or the transparent color outside of its bounds.
func (s ImageSource) ColorAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(s.Img.Rect)) {
		return color.NRGBA{}
	}
	i := s.Img.PixOffset(x, y)
	p := s.Img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// ColorPolicy defines how the color of a cell is derived from its pixels.
type ColorPolicy int

const (
	// PolicyMean averages the channels, rounding down.
	PolicyMean ColorPolicy = iota
	// PolicyMode picks the most frequent color. Ties go to the smallest RGBA value.
	PolicyMode
	// PolicyMeanLab averages the colors in the CIE L*a*b* space.
	PolicyMeanLab
)

func (p ColorPolicy) String() string {
	switch p {
	case PolicyMean:
		return "mean"
	case PolicyMode:
		return "mode"
	case PolicyMeanLab:
		return "lab"
	}
	return "unknown"
}

// ParseColorPolicy returns the policy named by s.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	for _, p := range []ColorPolicy{PolicyMean, PolicyMode, PolicyMeanLab} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown color policy %q", s)
}

// ResolveColor returns the representative color of a set of pixels.
// It only reads src, so calling it twice gives the same color.
func ResolveColor(policy ColorPolicy, src ColorSource, pixels []image.Point) color.NRGBA {
	if len(pixels) == 0 {
		return color.NRGBA{}
	}
	switch policy {
	case PolicyMode:
		return modeColor(src, pixels)
	case PolicyMeanLab:
		return meanLabColor(src, pixels)
	default:
		return meanColor(src, pixels)
	}
}

func meanColor(src ColorSource, pixels []image.Point) color.NRGBA {
	var r, g, b, a uint64
	for _, p := range pixels {
		c := src.ColorAt(p.X, p.Y)
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
		a += uint64(c.A)
	}
	n := uint64(len(pixels))
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: uint8(a / n)}
}

func modeColor(src ColorSource, pixels []image.Point) color.NRGBA {
	hist := make(map[uint32]int)
	for _, p := range pixels {
		hist[pack(src.ColorAt(p.X, p.Y))]++
	}
	var best uint32
	count := -1
	for c, n := range hist {
		if n > count || (n == count && c < best) {
			best, count = c, n
		}
	}
	return unpack(best)
}

func meanLabColor(src ColorSource, pixels []image.Point) color.NRGBA {
	var l, a, b float64
	var alpha uint64
	for _, p := range pixels {
		c := src.ColorAt(p.X, p.Y)
		cl, ca, cb := colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		}.Lab()
		l += cl
		a += ca
		b += cb
		alpha += uint64(c.A)
	}
	n := float64(len(pixels))
	r, g, bl := colorful.Lab(l/n, a/n, b/n).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(alpha / uint64(len(pixels)))}
}

func pack(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func unpack(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

// Mosaic is the assignment of every pixel of the canvas to a cell.
type Mosaic struct {
	Width, Height int
	// Labels holds the cell index of every pixel, row by row.
	Labels []int
	// Colors holds the resolved color of every cell.
	Colors []color.NRGBA
	// Boundary marks the pixels whose right or bottom neighbor belongs to another cell.
	Boundary []bool
}

// Colorizer assigns a color to every cell by sampling a color source
// over the pixels the cell covers.
type Colorizer struct {
	Policy  ColorPolicy
	Workers int
	Logger  *zap.Logger
}

// Resolve computes the cell of every pixel and the color of every cell.
// Membership is geometric: a pixel belongs to the cell polygon containing
// its coordinates. Cells are independent, so they are processed in parallel.
func (cz *Colorizer) Resolve(cells []Cell, src ColorSource, width, height int) (*Mosaic, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(cells) == 0 {
		return nil, ErrNoSites
	}
	log := cz.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := cz.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	members := make([][]int, len(cells))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range cells {
		i := i
		g.Go(func() error {
			members[i] = cellPixels(cells[i], width, height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Mosaic{
		Width:    width,
		Height:   height,
		Labels:   make([]int, width*height),
		Colors:   make([]color.NRGBA, len(cells)),
		Boundary: make([]bool, width*height),
	}
	for i := range m.Labels {
		m.Labels[i] = -1
	}
	// Pixels claimed twice, on a shared edge, go to the lowest cell index.
	for c, px := range members {
		for _, i := range px {
			if m.Labels[i] < 0 {
				m.Labels[i] = c
			}
		}
	}

	orphans := 0
	for i, c := range m.Labels {
		if c < 0 {
			m.Labels[i] = nearestCell(cells, float64(i%width), float64(i/width))
			orphans++
		}
	}
	if orphans > 0 {
		log.Warn("pixels assigned to the nearest site", zap.Int("pixels", orphans))
	}

	pixels := make([][]image.Point, len(cells))
	for i, c := range m.Labels {
		pixels[c] = append(pixels[c], image.Point{X: i % width, Y: i / width})
	}

	var cg errgroup.Group
	cg.SetLimit(workers)
	for c := range cells {
		c := c
		cg.Go(func() error {
			if len(pixels[c]) == 0 {
				// The cell falls between pixel coordinates.
				site := cells[c].Site
				m.Colors[c] = src.ColorAt(Clamp(int(site.X), 0, width-1), Clamp(int(site.Y), 0, height-1))
				return nil
			}
			m.Colors[c] = ResolveColor(cz.Policy, src, pixels[c])
			return nil
		})
	}
	if err := cg.Wait(); err != nil {
		return nil, err
	}

	m.markBoundary()
	log.Debug("cells colorized",
		zap.Int("cells", len(cells)),
		zap.Stringer("policy", cz.Policy),
	)
	return m, nil
}

// cellPixels returns the row major index of the pixels inside the cell.
func cellPixels(c Cell, width, height int) []int {
	if len(c.Polygon) < 3 {
		return nil
	}
	b := c.Bounds()
	x0 := Clamp(int(math.Floor(b.MinX)), 0, width-1)
	x1 := Clamp(int(math.Ceil(b.MaxX)), 0, width-1)
	y0 := Clamp(int(math.Floor(b.MinY)), 0, height-1)
	y1 := Clamp(int(math.Ceil(b.MaxY)), 0, height-1)

	var px []int
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if c.Contains(float64(x), float64(y)) {
				px = append(px, y*width+x)
			}
		}
	}
	return px
}

// nearestCell returns the index of the cell whose site is the closest to (x, y).
func nearestCell(cells []Cell, x, y float64) int {
	best, dist := 0, math.Inf(1)
	for i, c := range cells {
		dx, dy := c.Site.X-x, c.Site.Y-y
		if d := dx*dx + dy*dy; d < dist {
			best, dist = i, d
		}
	}
	return best
}

func (m *Mosaic) markBoundary() {
	w, h := m.Width, m.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if x+1 < w && m.Labels[i+1] != m.Labels[i] {
				m.Boundary[i] = true
			}
			if y+1 < h && m.Labels[i+w] != m.Labels[i] {
				m.Boundary[i] = true
			}
		}
	}
}

// Cell returns the cell index of the pixel at (x, y).
func (m *Mosaic) Cell(x, y int) int {
	return m.Labels[y*m.Width+x]
}

// Fill paints every pixel with the color of its cell, except the boundary
// pixels which are left with the line color until they get smoothed.
func (m *Mosaic) Fill(line color.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for i, c := range m.Labels {
		col := m.Colors[c]
		if m.Boundary[i] {
			col = line
		}
		j := i * 4
		dst.Pix[j+0] = col.R
		dst.Pix[j+1] = col.G
		dst.Pix[j+2] = col.B
		dst.Pix[j+3] = col.A
	}
	return dst
}
