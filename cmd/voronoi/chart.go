package main

import (
	"io"

	"github.com/esimov/voronoi"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func prepareScatter(scatter *charts.Scatter, width, height int) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Height: "720px",
			Width:  "1080px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Voronoi diagram",
			Left:  "5%",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Width",
			Min:  0,
			Max:  width,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Height",
			Min:  0,
			Max:  height,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

// diagramChart plots the sites and the clipped Voronoi edges of the result.
// The y axis of the chart points up, so image rows get flipped.
func diagramChart(res *voronoi.Result) *charts.Scatter {
	width, height := res.Mosaic.Bounds().Dx(), res.Mosaic.Bounds().Dy()
	flip := func(y float64) float64 { return float64(height) - y }

	scatter := charts.NewScatter()
	prepareScatter(scatter, width, height)

	points := make([]opts.ScatterData, 0, len(res.Points))
	for _, p := range res.Points {
		points = append(points, opts.ScatterData{
			Value: []float64{p.X, flip(p.Y)},
		})
	}
	scatter.AddSeries("Sites", points).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "crimson",
			}),
		)

	for _, s := range res.Segments {
		line := charts.NewLine()
		line.AddSeries("Edges", []opts.LineData{
			{Value: []float64{s.A.X, flip(s.A.Y)}},
			{Value: []float64{s.B.X, flip(s.B.Y)}},
		}).SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Width: 1,
				Color: "steelblue",
			}),
		)
		scatter.Overlap(line)
	}
	return scatter
}

// renderChart writes the diagram chart of the result as an HTML page.
func renderChart(w io.Writer, res *voronoi.Result) error {
	return diagramChart(res).Render(w)
}
