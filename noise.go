package voronoi

import "image"

// prng is a Park-Miller minimal standard generator. It is seeded with a
// constant, so the same image always gets the same grain.
type prng struct {
	a         int
	m         int
	randomNum int
	div       float64
}

func newPrng() *prng {
	return &prng{
		a:         16807,
		m:         0x7fffffff,
		randomNum: 1,
		div:       1.0 / 0x7fffffff,
	}
}

// Noise applies a noise factor on the image, like adobe's grain filter.
func Noise(amount int, src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	if amount <= 0 {
		return dst
	}

	rnd := newPrng()
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		noise := (rnd.randomSeed() - 0.1) * float64(amount)
		r := float64(dst.Pix[i+0]) + noise
		g := float64(dst.Pix[i+1]) + noise
		b := float64(dst.Pix[i+2]) + noise
		// Skip the pixel when the noise would overflow one of the channels.
		if Max(r, g, b) > 255 || Min(r, g, b) < 0 {
			continue
		}
		dst.Pix[i+0] = uint8(r)
		dst.Pix[i+1] = uint8(g)
		dst.Pix[i+2] = uint8(b)
	}
	return dst
}

func (p *prng) nextLongRand(seed int) int {
	lo := p.a * (seed & 0xffff)
	hi := p.a * (seed >> 16)
	lo += (hi & 0x7fff) << 16

	if lo > p.m {
		lo &= p.m
		lo++
	}
	lo += hi >> 15
	if lo > p.m {
		lo &= p.m
		lo++
	}
	return lo
}

func (p *prng) randomSeed() float64 {
	p.randomNum = p.nextLongRand(p.randomNum)
	return float64(p.randomNum) * p.div
}
