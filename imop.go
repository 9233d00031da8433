package voronoi

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/exp/constraints"
)

// Grayscale converts the image to grayscale mode, keeping the NRGBA layout.
func Grayscale(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		lum := luminance(src.Pix[i], src.Pix[i+1], src.Pix[i+2])
		dst.Pix[i+0] = lum
		dst.Pix[i+1] = lum
		dst.Pix[i+2] = lum
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// luminance returns the ITU-R 601 luma of an RGB triple.
func luminance(r, g, b uint8) uint8 {
	return uint8(float32(r)*0.299 + float32(g)*0.587 + float32(b)*0.114)
}

// ImgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func ImgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	dstBounds := srcBounds.Sub(srcBounds.Min)
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.YCbCr:
		for y := 0; y < dstBounds.Dy(); y++ {
			di := dst.PixOffset(0, y)
			for x := 0; x < dstBounds.Dx(); x++ {
				sx, sy := srcBounds.Min.X+x, srcBounds.Min.Y+y
				siy := src.YOffset(sx, sy)
				sic := src.COffset(sx, sy)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		draw.Draw(dst, dstBounds, img, srcBounds.Min, draw.Src)
	}
	return dst
}

// Blur applies a box blur of the given radius on every color channel.
// The alpha channel is left untouched.
func Blur(src *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		dst := image.NewNRGBA(src.Bounds())
		copy(dst.Pix, src.Pix)
		return dst
	}
	return convolutionFilter(setBlurMatrix(radius), src, 3)
}

// convolutionFilter convolves the square matrix over the first channels of the image
// and returns the result in a new image. The matrix is normalized by the sum of
// the weights falling inside the image, so the borders keep their brightness.
func convolutionFilter(matrix []float64, img *image.NRGBA, channels int) *image.NRGBA {
	var (
		width  = img.Bounds().Dx()
		height = img.Bounds().Dy()
		side   = isqrt(len(matrix))
		dim    = side / 2
		dst    = image.NewNRGBA(img.Bounds())
	)
	copy(dst.Pix, img.Pix)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc [4]float64
			var weight float64

			for row := -dim; row <= dim; row++ {
				sy := y + row
				if sy < 0 || sy >= height {
					continue
				}
				kstep := (row + dim) * side
				for col := -dim; col <= dim; col++ {
					sx := x + col
					if sx < 0 || sx >= width {
						continue
					}
					v := matrix[(col+dim)+kstep]
					si := (sy*width + sx) * 4
					for c := 0; c < channels; c++ {
						acc[c] += float64(img.Pix[si+c]) * v
					}
					weight += v
				}
			}
			if weight == 0 {
				continue
			}
			di := (y*width + x) * 4
			for c := 0; c < channels; c++ {
				dst.Pix[di+c] = uint8(Clamp(acc[c]/weight, 0, 255))
			}
		}
	}
	return dst
}

// Dilate replaces every pixel of the first channel by the maximum of its
// (2*radius+1)^2 neighborhood. The other channels mirror the first one.
func Dilate(src *image.NRGBA, radius int) *image.NRGBA {
	width, height := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewNRGBA(src.Bounds())
	// Separable maximum filter: rows first, then columns.
	tmp := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var m uint8
			for sx := Max(x-radius, 0); sx <= Min(x+radius, width-1); sx++ {
				m = Max(m, src.Pix[(y*width+sx)*4])
			}
			tmp[y*width+x] = m
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var m uint8
			for sy := Max(y-radius, 0); sy <= Min(y+radius, height-1); sy++ {
				m = Max(m, tmp[sy*width+x])
			}
			i := (y*width + x) * 4
			dst.Pix[i+0] = m
			dst.Pix[i+1] = m
			dst.Pix[i+2] = m
			dst.Pix[i+3] = 0xff
		}
	}
	return dst
}

// Min returns the smallest value between two numbers.
func Min[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest value between two numbers.
func Max[T constraints.Ordered](values ...T) T {
	var acc T = values[0]

	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// Clamp limits v to the [lo, hi] range.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}

// setBlurMatrix populates a matrix table with values used in conjunction with the convolution filter operator.
func setBlurMatrix(size int) []float64 {
	var (
		side   = size*2 + 1
		length = side * side
		matrix = make([]float64, length)
	)

	for i := 0; i < length; i++ {
		matrix[i] = 1
	}

	return matrix
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
