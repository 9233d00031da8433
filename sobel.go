package voronoi

import (
	"image"
	"math"
)

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelFilter detects the edges of a grayscale image. Gradient magnitudes
// not exceeding the threshold are zeroed. Only the first channel of the
// source is read, since every channel of a grayscale image is the same.
func SobelFilter(src *image.NRGBA, threshold float64) *image.NRGBA {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(src.Bounds())

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumX, sumY int32
			for ky := 0; ky < 3; ky++ {
				sy := Clamp(y+ky-1, 0, height-1)
				for kx := 0; kx < 3; kx++ {
					sx := Clamp(x+kx-1, 0, width-1)
					v := int32(src.Pix[(sy*width+sx)*4])
					sumX += v * kernelX[ky][kx]
					sumY += v * kernelY[ky][kx]
				}
			}
			magnitude := math.Sqrt(float64(sumX*sumX) + float64(sumY*sumY))
			if magnitude <= threshold {
				magnitude = 0
			}
			m := uint8(Min(magnitude, 255))

			i := (y*width + x) * 4
			dst.Pix[i+0] = m
			dst.Pix[i+1] = m
			dst.Pix[i+2] = m
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}
