// Package matrix_test provides benchmarks for the Dense helpers used on the
// hot path of a run: cloning, comparison and rendering.
package matrix_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/katalvlaran/rowmul/matrix"
)

// benchSizes are the matrix sizes to benchmark.
var benchSizes = []int{64, 256}

// sinks to defeat dead-code elimination
var (
	sinkM *matrix.Dense
	sinkB bool
)

func BenchmarkClone(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m, _ := matrix.NewSequential(n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sinkM = m.Clone()
			}
		})
	}
}

func BenchmarkEqual(b *testing.B) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m, _ := matrix.NewSequential(n)
			o := m.Clone()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				sinkB = m.Equal(o)
			}
		})
	}
}

func BenchmarkRender(b *testing.B) {
	b.ReportAllocs()
	for _, n := range benchSizes {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			m, _ := matrix.NewSequential(n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := matrix.Render(io.Discard, "C", m); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
