package voronoi

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// BoundaryMode selects the treatment of the pixels lying on cell boundaries.
type BoundaryMode int

const (
	// BoundaryMedian replaces boundary pixels with the median of their
	// neighborhood in the filled raster.
	BoundaryMedian BoundaryMode = iota
	// BoundaryErode gives boundary pixels the color of their own cell.
	BoundaryErode
	// BoundaryRecolor paints boundary pixels with the inverted dominant gray
	// intensity of the source: dark images get light lines and vice versa.
	BoundaryRecolor
	// BoundaryNone keeps the diagram lines.
	BoundaryNone
)

// DefaultSmoothRadius gives an 11x11 median window.
const DefaultSmoothRadius = 5

func (b BoundaryMode) String() string {
	switch b {
	case BoundaryMedian:
		return "median"
	case BoundaryErode:
		return "erode"
	case BoundaryRecolor:
		return "recolor"
	case BoundaryNone:
		return "none"
	}
	return "unknown"
}

// ParseBoundaryMode returns the boundary mode named by s.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	for _, b := range []BoundaryMode{BoundaryMedian, BoundaryErode, BoundaryRecolor, BoundaryNone} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, errors.Errorf("unknown boundary mode %q", s)
}

// Smooth returns a copy of the filled raster with the boundary pixels treated
// according to mode. Neighborhood statistics are always read from filled,
// never from the source nor from pixels already smoothed.
func Smooth(m *Mosaic, filled *image.NRGBA, src ColorSource, mode BoundaryMode, radius int) *image.NRGBA {
	dst := image.NewNRGBA(filled.Bounds())
	copy(dst.Pix, filled.Pix)

	switch mode {
	case BoundaryErode:
		for i, b := range m.Boundary {
			if b {
				setPix(dst, i, m.Colors[m.Labels[i]])
			}
		}
	case BoundaryRecolor:
		v := 255 - dominantGray(src, m.Width, m.Height)
		line := color.NRGBA{R: v, G: v, B: v, A: 0xff}
		for i, b := range m.Boundary {
			if b {
				setPix(dst, i, line)
			}
		}
	case BoundaryMedian:
		if radius <= 0 {
			radius = DefaultSmoothRadius
		}
		for i, b := range m.Boundary {
			if b {
				setPix(dst, i, medianAt(filled, i%m.Width, i/m.Width, radius))
			}
		}
	}
	return dst
}

func setPix(img *image.NRGBA, i int, c color.NRGBA) {
	j := i * 4
	img.Pix[j+0] = c.R
	img.Pix[j+1] = c.G
	img.Pix[j+2] = c.B
	img.Pix[j+3] = c.A
}

// medianAt returns the per channel median of the window centered on (x, y).
// The window is cut at the image borders.
func medianAt(img *image.NRGBA, x, y, radius int) color.NRGBA {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	var hist [4][256]int
	n := 0
	for sy := Max(y-radius, 0); sy <= Min(y+radius, height-1); sy++ {
		for sx := Max(x-radius, 0); sx <= Min(x+radius, width-1); sx++ {
			j := (sy*width + sx) * 4
			for c := 0; c < 4; c++ {
				hist[c][img.Pix[j+c]]++
			}
			n++
		}
	}

	var out [4]uint8
	half := n / 2
	for c := 0; c < 4; c++ {
		acc := 0
		for v := 0; v < 256; v++ {
			acc += hist[c][v]
			if acc > half {
				out[c] = uint8(v)
				break
			}
		}
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}
}

// dominantGray returns the most frequent gray intensity of the source.
func dominantGray(src ColorSource, width, height int) uint8 {
	var hist [256]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.ColorAt(x, y)
			hist[luminance(c.R, c.G, c.B)]++
		}
	}
	best := 0
	for v := 1; v < 256; v++ {
		if hist[v] > hist[best] {
			best = v
		}
	}
	return uint8(best)
}
