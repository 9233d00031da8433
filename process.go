package voronoi

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/vector"
)

// lineColor is the color of the diagram lines and of the unresolved boundary pixels.
var lineColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Processor : type with processing options
type Processor struct {
	// Sites picks the sites on the (blurred) source image. Nil means UniformSites.
	Sites SiteSource
	// Count is the number of sites requested from Sites.
	Count int
	// BlurRadius is the radius of the box blur applied before anything else.
	BlurRadius int
	// Grayscale colorizes the cells from the grayscale version of the source.
	Grayscale    bool
	Policy       ColorPolicy
	Boundary     BoundaryMode
	SmoothRadius int
	// Noise is the amount of grain added to the mosaic.
	Noise     int
	LineWidth float64
	Workers   int
	Logger    *zap.Logger
}

// Result holds the rasters produced by the processor together with the
// geometry they were drawn from. Every raster has the size of the source.
type Result struct {
	Sites    *image.NRGBA
	Delaunay *image.NRGBA
	Voronoi  *image.NRGBA
	Mosaic   *image.NRGBA

	Points        []Point
	Triangulation *Triangulation
	Neighbors     []Neighbors
	// Segments are the Voronoi edges clipped to the canvas.
	Segments []Segment
	Cells    []Cell
}

// Validate checks the processor configuration.
func (p *Processor) Validate() error {
	if p.Count <= 0 {
		return errors.Wrapf(ErrInvalidSiteCount, "got %d", p.Count)
	}
	if p.BlurRadius < 0 || p.SmoothRadius < 0 || p.Noise < 0 {
		return errors.New("blur radius, smooth radius and noise must not be negative")
	}
	return nil
}

// Process picks the sites on the source image and builds the mosaic.
func (p *Processor) Process(img image.Image) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	src := ImgToNRGBA(img)
	if src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if p.BlurRadius > 0 {
		src = Blur(src, p.BlurRadius)
	}

	start := time.Now()
	sources := p.Sites
	if sources == nil {
		sources = UniformSites{}
	}
	sites, _, err := sources.Sites(src, p.Count, nil)
	if err != nil {
		return nil, errors.Wrap(err, "picking sites")
	}
	p.logger().Debug("sites picked", zap.Int("sites", len(sites)), zap.Duration("took", time.Since(start)))

	return p.ProcessSites(src, sites)
}

// ProcessSites builds the mosaic of the image from the given sites.
// Either every output is produced or an error is returned.
func (p *Processor) ProcessSites(img image.Image, sites []Point) (*Result, error) {
	log := p.logger()
	src := ImgToNRGBA(img)
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	if width == 0 || height == 0 {
		return nil, ErrEmptyImage
	}
	if p.Grayscale {
		src = Grayscale(src)
	}
	colors := ImageSource{Img: src}

	start := time.Now()
	d := NewDelaunay(width, height)
	d.Workers = p.Workers
	d.Logger = log
	if err := d.Insert(sites); err != nil {
		return nil, errors.Wrap(err, "triangulation")
	}
	tri := d.Triangulation()
	log.Debug("triangulation done", zap.Int("triangles", len(tri.Triangles)), zap.Duration("took", time.Since(start)))

	start = time.Now()
	nbrs, err := ResolveNeighbors(tri.Triangles, p.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "neighbor resolution")
	}
	bounds := tri.Bounds()
	segs := ClipDual(BuildDual(tri.Triangles, nbrs), bounds)
	cells := BuildCells(tri, bounds)
	log.Debug("voronoi diagram done", zap.Int("segments", len(segs)), zap.Duration("took", time.Since(start)))

	start = time.Now()
	cz := &Colorizer{Policy: p.Policy, Workers: p.Workers, Logger: log}
	m, err := cz.Resolve(cells, colors, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "colorization")
	}
	mosaic := Smooth(m, m.Fill(lineColor), colors, p.Boundary, p.SmoothRadius)
	mosaic = Noise(p.Noise, mosaic)
	log.Debug("mosaic done", zap.Stringer("boundary", p.Boundary), zap.Duration("took", time.Since(start)))

	return &Result{
		Sites:         drawSites(width, height, sites),
		Delaunay:      p.drawLines(width, height, tri.Delaunay()),
		Voronoi:       p.drawSegments(width, height, segs),
		Mosaic:        mosaic,
		Points:        sites,
		Triangulation: tri,
		Neighbors:     nbrs,
		Segments:      segs,
		Cells:         cells,
	}, nil
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func (p *Processor) lineWidth() float64 {
	if p.LineWidth <= 0 {
		return 1
	}
	return p.LineWidth
}

// newCanvas returns a black drawing context set up for stroking white lines.
func (p *Processor) newCanvas(width, height int) *gg.Context {
	ctx := gg.NewContext(width, height)
	ctx.SetRGB(0, 0, 0)
	ctx.Clear()
	ctx.SetColor(lineColor)
	ctx.SetLineWidth(p.lineWidth())
	return ctx
}

// drawLines strokes the edges of the triangles.
func (p *Processor) drawLines(width, height int, tris []Triangle) *image.NRGBA {
	ctx := p.newCanvas(width, height)
	for _, t := range tris {
		p0, p1, p2 := t.Nodes[0], t.Nodes[1], t.Nodes[2]
		ctx.MoveTo(p0.X, p0.Y)
		ctx.LineTo(p1.X, p1.Y)
		ctx.LineTo(p2.X, p2.Y)
		ctx.ClosePath()
	}
	ctx.Stroke()
	return ImgToNRGBA(ctx.Image())
}

// drawSegments strokes the Voronoi edges.
func (p *Processor) drawSegments(width, height int, segs []Segment) *image.NRGBA {
	ctx := p.newCanvas(width, height)
	for _, s := range segs {
		ctx.MoveTo(s.A.X, s.A.Y)
		ctx.LineTo(s.B.X, s.B.Y)
	}
	ctx.Stroke()
	return ImgToNRGBA(ctx.Image())
}

// drawSites fills the pixel of every site.
func drawSites(width, height int, sites []Point) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	z := vector.NewRasterizer(width, height)
	for _, s := range sites {
		x, y := float32(s.X), float32(s.Y)
		z.MoveTo(x, y)
		z.LineTo(x+1, y)
		z.LineTo(x+1, y+1)
		z.LineTo(x, y+1)
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(lineColor), image.Point{})
	return dst
}

// Save encodes the four rasters as PNG files named after the prefix:
// prefix-1points.png, prefix-2delaunay.png, prefix-3voronoi.png and prefix-4out.png.
func (r *Result) Save(prefix string) error {
	outputs := []struct {
		suffix string
		img    image.Image
	}{
		{"-1points.png", r.Sites},
		{"-2delaunay.png", r.Delaunay},
		{"-3voronoi.png", r.Voronoi},
		{"-4out.png", r.Mosaic},
	}
	for _, o := range outputs {
		if err := savePNG(prefix+o.suffix, o.img); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	fq, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer fq.Close()

	if err := png.Encode(fq, img); err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	return fq.Close()
}
