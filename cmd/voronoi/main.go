package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/voronoi"
	"github.com/esimov/voronoi/internal/logger"
	"github.com/esimov/voronoi/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/term"
)

var (
	// Flags
	source       = flag.String("in", "", "Source image, directory or URL")
	destination  = flag.String("out", "", "Destination file prefix or directory")
	numSites     = flag.Int("n", 2000, "Number of sites")
	siteSource   = flag.String("sites", "detail", "Site picking: uniform, detail or edge")
	colorPolicy  = flag.String("color", "mean", "Cell color: mean, mode or lab")
	boundaryMode = flag.String("boundary", "median", "Boundary treatment: median, erode, recolor or none")
	smoothRadius = flag.Int("radius", voronoi.DefaultSmoothRadius, "Boundary smoothing radius")
	blurRadius   = flag.Int("blur", 0, "Blur radius")
	grayscale    = flag.Bool("gray", false, "Convert to grayscale")
	noise        = flag.Int("noise", 0, "Noise factor")
	lineWidth    = flag.Float64("width", 1, "Diagram line width")
	seed         = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	workers      = flag.Int("workers", 0, "Number of parallel workers (0 means the number of CPUs)")
	chartOut     = flag.String("chart", "", "Write an HTML chart of the diagram to this file")
	verbose      = flag.Bool("v", false, "Verbose (debug) logging")
)

// Supported image files.
var extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

func main() {
	flag.Parse()
	os.Exit(execute())
}

// execute processes the images and returns the exit code.
func execute() int {
	isTerm := term.IsTerminal(int(os.Stderr.Fd()))
	log := logger.New(os.Stderr, *verbose, isTerm)
	defer log.Sync()

	if len(*source) == 0 || len(*destination) == 0 {
		log.Error("Usage: voronoi -in input.jpg -out output")
		return 1
	}

	p, err := newProcessor(log)
	if err != nil {
		log.Error("invalid options", zap.Error(err))
		return 1
	}

	toProcess, cleanup, err := collect(*source, *destination)
	defer cleanup()
	if err != nil {
		log.Error("unable to read the source", zap.Error(err))
		return 1
	}

	failed := false
	for _, j := range toProcess {
		var spinner *utils.Spinner
		if isTerm {
			spinner = utils.NewSpinner(os.Stderr)
			spinner.Start("Generating the Voronoi mosaic...")
		}
		start := time.Now()
		res, err := run(p, j.in, j.out)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			log.Error("error converting image", zap.String("file", j.in), zap.Error(err))
			failed = true
			continue
		}

		log.Info(utils.Decorate("Generated in "+utils.FormatTime(time.Since(start)), utils.SuccessColor, isTerm),
			zap.Int("sites", len(res.Points)),
			zap.Int("triangles", len(res.Triangulation.Triangles)),
			zap.Int("cells", len(res.Cells)),
			zap.String("saved", j.out+"-4out.png"),
		)

		if *chartOut != "" {
			if err := writeChart(*chartOut, res); err != nil {
				log.Error("unable to write the chart", zap.Error(err))
				failed = true
			}
		}
	}
	if failed {
		return 1
	}
	return 0
}

// newProcessor builds the processor from the command line flags.
func newProcessor(log *zap.Logger) (*voronoi.Processor, error) {
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(s))

	sites, err := voronoi.ParseSiteSource(*siteSource, r)
	if err != nil {
		return nil, err
	}
	policy, err := voronoi.ParseColorPolicy(*colorPolicy)
	if err != nil {
		return nil, err
	}
	boundary, err := voronoi.ParseBoundaryMode(*boundaryMode)
	if err != nil {
		return nil, err
	}

	p := &voronoi.Processor{
		Sites:        sites,
		Count:        *numSites,
		BlurRadius:   *blurRadius,
		Grayscale:    *grayscale,
		Policy:       policy,
		Boundary:     boundary,
		SmoothRadius: *smoothRadius,
		Noise:        *noise,
		LineWidth:    *lineWidth,
		Workers:      *workers,
		Logger:       log,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type job struct {
	in, out string
}

// collect resolves the source into the list of images to process. URLs are
// downloaded into temporary files removed by the returned cleanup function.
func collect(src, dst string) ([]job, func(), error) {
	var tmp []string
	cleanup := func() {
		for _, f := range tmp {
			os.Remove(f)
		}
	}

	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return nil, cleanup, err
		}
		f.Close()
		tmp = append(tmp, f.Name())
		return []job{{in: f.Name(), out: dst}}, cleanup, nil
	}

	fs, err := os.Stat(src)
	if err != nil {
		return nil, cleanup, errors.Wrap(err, "unable to open source")
	}

	switch mode := fs.Mode(); {
	case mode.IsDir():
		files, err := os.ReadDir(src)
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "unable to read dir")
		}

		// Check if the image destination is a directory or a file.
		dfs, err := os.Stat(dst)
		if err != nil {
			return nil, cleanup, errors.Wrap(err, "unable to get dir stats")
		}
		if !dfs.IsDir() {
			return nil, cleanup, errors.New("please specify a directory as destination")
		}

		var jobs []job
		for _, f := range files {
			if f.IsDir() || !isImage(f.Name()) {
				continue
			}
			name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
			jobs = append(jobs, job{
				in:  filepath.Join(src, f.Name()),
				out: filepath.Join(dst, name),
			})
		}
		return jobs, cleanup, nil
	case mode.IsRegular():
		return []job{{in: src, out: strings.TrimSuffix(dst, filepath.Ext(dst))}}, cleanup, nil
	}
	return nil, cleanup, errors.Errorf("unsupported source %s", src)
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// run decodes the image found at in, builds its mosaic and saves the rasters
// under the out prefix.
func run(p *voronoi.Processor, in, out string) (*voronoi.Result, error) {
	file, err := os.Open(in)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open source file")
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode image")
	}
	res, err := p.Process(img)
	if err != nil {
		return nil, err
	}
	if err := res.Save(out); err != nil {
		return nil, err
	}
	return res, nil
}

func writeChart(path string, res *voronoi.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	if err := renderChart(f, res); err != nil {
		return errors.Wrap(err, "rendering chart")
	}
	return f.Close()
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: voronoi -in <file|dir|url> -out <prefix|dir> [options]\n\n")
		flag.PrintDefaults()
	}
}
