package voronoi

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripMosaic returns a 4x1 mosaic split in a red and a blue cell.
func stripMosaic() *Mosaic {
	m := &Mosaic{
		Width:    4,
		Height:   1,
		Labels:   []int{0, 0, 1, 1},
		Colors:   []color.NRGBA{red, blue},
		Boundary: make([]bool, 4),
	}
	m.markBoundary()
	return m
}

func TestSmoothModes(t *testing.T) {
	m := stripMosaic()
	require.Equal(t, []bool{false, true, false, false}, m.Boundary)

	filled := m.Fill(lineColor)
	black := ColorSourceFunc(func(x, y int) color.NRGBA { return color.NRGBA{A: 255} })

	erode := Smooth(m, filled, black, BoundaryErode, 0)
	assert.Equal(t, red, erode.NRGBAAt(1, 0))

	none := Smooth(m, filled, black, BoundaryNone, 0)
	assert.Equal(t, lineColor, none.NRGBAAt(1, 0))

	// A dark source gets light lines.
	recolor := Smooth(m, filled, black, BoundaryRecolor, 0)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, recolor.NRGBAAt(1, 0))

	median := Smooth(m, filled, black, BoundaryMedian, 1)
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 255, A: 255}, median.NRGBAAt(1, 0))

	for _, out := range []*image.NRGBA{erode, none, recolor, median} {
		assert.Equal(t, red, out.NRGBAAt(0, 0))
		assert.Equal(t, blue, out.NRGBAAt(2, 0))
		assert.Equal(t, blue, out.NRGBAAt(3, 0))
	}
	// The filled raster is only read.
	assert.Equal(t, lineColor, filled.NRGBAAt(1, 0))
}

func TestMedianAt(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = 10
	}
	img.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 200, B: 200, A: 200})

	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 10}, medianAt(img, 1, 1, 1))
	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 10}, medianAt(img, 0, 0, DefaultSmoothRadius))
}

func TestDominantGray(t *testing.T) {
	src := ImageSource{Img: halfImage(4, 2)}
	src.Img.SetNRGBA(3, 0, red)
	assert.Equal(t, luminance(255, 0, 0), dominantGray(src, 4, 2))
}

func TestParseBoundaryMode(t *testing.T) {
	for _, b := range []BoundaryMode{BoundaryMedian, BoundaryErode, BoundaryRecolor, BoundaryNone} {
		got, err := ParseBoundaryMode(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err := ParseBoundaryMode("blur")
	assert.Error(t, err)
	assert.Equal(t, BoundaryMedian, BoundaryMode(0))
}
