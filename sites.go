package voronoi

import (
	"image"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// Chosen is the set of sites already picked. It is passed to and returned by
// the site sources, so successive calls never pick the same point twice.
type Chosen map[Point]struct{}

// SiteSource picks up to n new sites on the image. The returned sites are
// distinct, not part of chosen, and lie inside [0,width)x[0,height).
// The returned set holds chosen plus the new sites.
type SiteSource interface {
	Sites(img *image.NRGBA, n int, chosen Chosen) ([]Point, Chosen, error)
}

// UniformSites picks the sites uniformly at random.
type UniformSites struct {
	Rand *rand.Rand
}

// Sites implements SiteSource.
func (s UniformSites) Sites(img *image.NRGBA, n int, chosen Chosen) ([]Point, Chosen, error) {
	width, height, err := checkSiteRequest(img, n)
	if err != nil {
		return nil, chosen, err
	}
	r := orRand(s.Rand)
	chosen = orChosen(chosen)
	n = Min(n, width*height-len(chosen))

	sites := make([]Point, 0, Max(n, 0))
	for len(sites) < n {
		p := Point{X: float64(r.Intn(width)), Y: float64(r.Intn(height))}
		if _, ok := chosen[p]; ok {
			continue
		}
		chosen[p] = struct{}{}
		sites = append(sites, p)
	}
	return sites, chosen, nil
}

// DetailSites picks most of the sites among the detailed areas of the image:
// the pixels where the image differs from its blurred version, grown by a
// maximum filter. The remaining sites go to the flat background.
type DetailSites struct {
	Rand *rand.Rand
	// Threshold is the normalized detail level above which a pixel is a detail.
	Threshold uint8
	// Ratio is the share of the sites picked among the details.
	Ratio float64
}

// Sites implements SiteSource.
func (s DetailSites) Sites(img *image.NRGBA, n int, chosen Chosen) ([]Point, Chosen, error) {
	width, height, err := checkSiteRequest(img, n)
	if err != nil {
		return nil, chosen, err
	}
	threshold, ratio := s.Threshold, s.Ratio
	if threshold == 0 {
		threshold = 75
	}
	if ratio <= 0 || ratio > 1 {
		ratio = 0.7
	}

	gray := Blur(Grayscale(img), 2)
	blur := Blur(gray, 7)
	details := image.NewNRGBA(img.Bounds())
	for i := 0; i < len(gray.Pix); i += 4 {
		details.Pix[i] = uint8(Max(int(gray.Pix[i])-int(blur.Pix[i]), 0))
	}
	details = normalize(Dilate(details, 15))

	var good, ok []Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Point{X: float64(x), Y: float64(y)}
			if details.Pix[(y*width+x)*4] > threshold {
				good = append(good, p)
			} else {
				ok = append(ok, p)
			}
		}
	}

	r := orRand(s.Rand)
	chosen = orChosen(chosen)
	sites := pick(r, good, int(float64(n)*ratio), chosen)
	sites = append(sites, pick(r, ok, n-len(sites), chosen)...)
	if len(sites) < n {
		sites = append(sites, pick(r, good, n-len(sites), chosen)...)
	}
	return sites, chosen, nil
}

// EdgeSites picks the sites among the edges found by the Sobel operator.
type EdgeSites struct {
	Rand            *rand.Rand
	SobelThreshold  int
	PointsThreshold int
}

// pointRate caps the share of the edge pixels turned into sites.
const pointRate = 0.875

// Sites implements SiteSource.
func (s EdgeSites) Sites(img *image.NRGBA, n int, chosen Chosen) ([]Point, Chosen, error) {
	width, height, err := checkSiteRequest(img, n)
	if err != nil {
		return nil, chosen, err
	}
	sobel := SobelFilter(Grayscale(img), float64(s.SobelThreshold))

	var candidates []Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum, total := 0, 0
			for sy := Max(y-1, 0); sy <= Min(y+1, height-1); sy++ {
				for sx := Max(x-1, 0); sx <= Min(x+1, width-1); sx++ {
					sum += int(sobel.Pix[(sy*width+sx)*4])
					total++
				}
			}
			if sum/total > s.PointsThreshold {
				candidates = append(candidates, Point{X: float64(x), Y: float64(y)})
			}
		}
	}

	limit := Min(int(float64(len(candidates))*pointRate), n)
	r := orRand(s.Rand)
	chosen = orChosen(chosen)
	return pick(r, candidates, limit, chosen), chosen, nil
}

// ParseSiteSource returns the site source named by s.
func ParseSiteSource(s string, r *rand.Rand) (SiteSource, error) {
	switch s {
	case "uniform":
		return UniformSites{Rand: r}, nil
	case "detail":
		return DetailSites{Rand: r}, nil
	case "edge":
		return EdgeSites{Rand: r, SobelThreshold: 10, PointsThreshold: 20}, nil
	}
	return nil, errors.Errorf("unknown site source %q", s)
}

func checkSiteRequest(img *image.NRGBA, n int) (int, int, error) {
	if n <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidSiteCount, "requested %d sites", n)
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width*height == 0 {
		return 0, 0, ErrEmptyImage
	}
	return width, height, nil
}

// pick draws up to k candidates not yet chosen, without replacement.
// The candidates slice gets shuffled in place.
func pick(r *rand.Rand, candidates []Point, k int, chosen Chosen) []Point {
	var sites []Point
	for i := 0; i < len(candidates) && len(sites) < k; i++ {
		j := i + r.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		p := candidates[i]
		if _, ok := chosen[p]; ok {
			continue
		}
		chosen[p] = struct{}{}
		sites = append(sites, p)
	}
	return sites
}

// normalize stretches the first channel of the image to the [0, 255] range.
func normalize(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		lo = Min(lo, img.Pix[i])
		hi = Max(hi, img.Pix[i])
	}
	if hi == lo {
		return img
	}
	scale := 255 / float64(hi-lo)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i]-lo) * scale)
	}
	return img
}

func orRand(r *rand.Rand) *rand.Rand {
	if r == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r
}

func orChosen(c Chosen) Chosen {
	if c == nil {
		return make(Chosen)
	}
	return c
}
