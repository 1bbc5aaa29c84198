package fabric_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/workerpool"
)

var benchSink *matrix.Dense

func BenchmarkSharedMemory(b *testing.B) {
	a := randDense(b, 128, 128, 1, 100)
	x := randDense(b, 128, 128, 2, 100)
	pool := workerpool.New(0)
	defer pool.Close()

	for _, p := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("p=%d", p), func(b *testing.B) {
			f, err := fabric.NewSharedMemory(fabric.WithWorkers(p), fabric.WithPool(pool))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				benchSink, _ = f.Multiply(context.Background(), a, x)
			}
		})
	}
}
