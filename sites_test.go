package voronoi

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientImage returns an image with a horizontal red ramp and a vertical green ramp.
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / Max(width-1, 1)),
				G: uint8(y * 255 / Max(height-1, 1)),
				B: 80,
				A: 255,
			})
		}
	}
	return img
}

// squareImage returns a black image with a white square in its center.
func squareImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{A: 255}
			if x >= size/4 && x < 3*size/4 && y >= size/4 && y < 3*size/4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func assertValidSites(t *testing.T, sites []Point, chosen Chosen, width, height int) {
	t.Helper()
	seen := make(map[Point]bool)
	for _, p := range sites {
		assert.False(t, seen[p], "duplicate site %v", p)
		seen[p] = true
		assert.True(t, p.X >= 0 && p.X < float64(width) && p.Y >= 0 && p.Y < float64(height), "site %v out of bounds", p)
		assert.Contains(t, chosen, p)
	}
}

func TestUniformSites(t *testing.T) {
	img := gradientImage(4, 4)
	src := UniformSites{Rand: rand.New(rand.NewSource(1))}

	first, chosen, err := src.Sites(img, 10, nil)
	require.NoError(t, err)
	assert.Len(t, first, 10)
	assertValidSites(t, first, chosen, 4, 4)

	// Only 6 pixels are left to pick from.
	second, chosen, err := src.Sites(img, 10, chosen)
	require.NoError(t, err)
	assert.Len(t, second, 6)
	assertValidSites(t, second, chosen, 4, 4)
	assert.Len(t, chosen, 16)
	for _, p := range second {
		assert.NotContains(t, first, p)
	}

	third, _, err := src.Sites(img, 1, chosen)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestDetailSites(t *testing.T) {
	img := squareImage(32)
	src := DetailSites{Rand: rand.New(rand.NewSource(2))}

	sites, chosen, err := src.Sites(img, 40, nil)
	require.NoError(t, err)
	assert.Len(t, sites, 40)
	assertValidSites(t, sites, chosen, 32, 32)

	flat := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	sites, chosen, err = src.Sites(flat, 20, nil)
	require.NoError(t, err)
	assert.Len(t, sites, 20)
	assertValidSites(t, sites, chosen, 8, 8)
}

func TestEdgeSites(t *testing.T) {
	img := squareImage(32)
	src := EdgeSites{Rand: rand.New(rand.NewSource(3)), SobelThreshold: 10, PointsThreshold: 20}

	sites, chosen, err := src.Sites(img, 50, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sites)
	assert.LessOrEqual(t, len(sites), 50)
	assertValidSites(t, sites, chosen, 32, 32)

	// Sites are picked along the square outline.
	for _, p := range sites {
		assert.True(t, p.X >= 5 && p.X <= 26 && p.Y >= 5 && p.Y <= 26, "site %v far from the edges", p)
	}

	flat := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	sites, _, err = src.Sites(flat, 20, nil)
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestSitesInvalidRequest(t *testing.T) {
	img := gradientImage(4, 4)
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))

	for _, src := range []SiteSource{UniformSites{}, DetailSites{}, EdgeSites{}} {
		_, _, err := src.Sites(img, 0, nil)
		assert.ErrorIs(t, err, ErrInvalidSiteCount)
		_, _, err = src.Sites(img, -3, nil)
		assert.ErrorIs(t, err, ErrInvalidSiteCount)
		_, _, err = src.Sites(empty, 3, nil)
		assert.ErrorIs(t, err, ErrEmptyImage)
	}
}

func TestParseSiteSource(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for name, want := range map[string]SiteSource{
		"uniform": UniformSites{Rand: r},
		"detail":  DetailSites{Rand: r},
		"edge":    EdgeSites{Rand: r, SobelThreshold: 10, PointsThreshold: 20},
	} {
		got, err := ParseSiteSource(name, r)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSiteSource("poisson", r)
	assert.Error(t, err)
}

func TestPick(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	candidates := []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	chosen := Chosen{{1, 0}: {}}

	got := pick(r, candidates, 10, chosen)
	assert.Len(t, got, 3)
	assert.NotContains(t, got, Point{1, 0})
	assert.Len(t, chosen, 4)
}
