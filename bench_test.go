package voronoi

import (
	"math/rand"
	"testing"
)

func BenchmarkProcess(b *testing.B) {
	img := gradientImage(320, 240)
	proc := Processor{
		Count:      1500,
		BlurRadius: 2,
		Policy:     PolicyMean,
		Boundary:   BoundaryMedian,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proc.Sites = DetailSites{Rand: rand.New(rand.NewSource(int64(i)))}
		if _, err := proc.Process(img); err != nil {
			b.Fatalf("Failed processing the benchmark image: %v", err)
		}
	}
}

func BenchmarkTriangulate(b *testing.B) {
	sites := randomSites(rand.New(rand.NewSource(1)), 5000, 1000, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Triangulate(1000, 1000, sites); err != nil {
			b.Fatalf("Failed triangulating: %v", err)
		}
	}
}
