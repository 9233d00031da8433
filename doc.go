/*
Package voronoi is an image processing library which converts images to flat-color
mosaics using the Voronoi diagram of a set of sites.

The sites are triangulated with the Bowyer-Watson algorithm, the Voronoi diagram is
derived as the dual of the Delaunay triangulation, then every Voronoi cell is painted
with a single color sampled from the source image.

The package provides a command line utility supporting various customization options.
Check the supported commands by typing:

	$ voronoi --help

Example to generate the mosaic of an image and save the four rasters
(sites, triangulation, diagram and mosaic) as PNG files:

	package main

	import (
		"log"

		"github.com/esimov/voronoi"
	)

	func main() {
		p := &voronoi.Processor{
			Count:    2000,
			Sites:    voronoi.DetailSites{},
			Policy:   voronoi.PolicyMean,
			Boundary: voronoi.BoundaryMedian,
		}

		res, err := p.Process(srcImg)
		if err != nil {
			log.Fatalf("Error on processing the image: %v", err)
		}
		if err := res.Save("output"); err != nil {
			log.Fatal(err)
		}
	}

The building blocks are exported as well: Triangulate, ResolveNeighbors,
BuildDual, BuildCells and Colorizer can be used on their own.
*/
package voronoi
