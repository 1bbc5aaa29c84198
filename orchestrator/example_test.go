package orchestrator_test

import (
	"context"
	"os"

	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/orchestrator"
)

func ExampleRun() {
	f, _ := fabric.NewSharedMemory(fabric.WithWorkers(2))
	_ = orchestrator.Run(context.Background(), f,
		orchestrator.Sequential{N: 2}, orchestrator.TextSink{W: os.Stdout})
	// Prints "Matrix A:", "Matrix B:" and "Result Matrix C:" blocks; the
	// product rows are "7 10 " and "15 22 ".
}
