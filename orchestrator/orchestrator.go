// SPDX-License-Identifier: MIT

package orchestrator

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/matrix"
)

// replicator is implemented by fabrics whose every worker supplies its own A.
type replicator interface {
	ReplicatesA() bool
}

// Run executes one multiplication on this worker.
//
// Implementation:
//   - Stage 1: the designated worker calls init.Init(); so does every worker
//     of a fabric that replicates A. Others pass nil operands.
//   - Stage 2: f.Multiply distributes, partitions, computes and collects.
//   - Stage 3: on success the designated worker renders A, B and the
//     product, in that order and exactly once each.
//
// Nothing is rendered when any stage fails.
func Run(ctx context.Context, f fabric.Fabric, init Initializer, sink Sink) error {
	if f == nil {
		return ErrNilFabric
	}
	designated := f.Designated()
	if designated && sink == nil {
		return ErrNilSink
	}

	var a, b *matrix.Dense
	if designated || replicatesA(f) {
		if init == nil {
			return ErrNilInitializer
		}
		var err error
		if a, b, err = init.Init(); err != nil {
			return err
		}
	}
	if !designated {
		b = nil // only rank 0's B is ever read
	}

	start := time.Now()
	klog.V(1).InfoS("run started", "fabric", f.Name(), "designated", designated)
	c, err := f.Multiply(ctx, a, b)
	if err != nil {
		klog.V(1).InfoS("run failed", "fabric", f.Name(), "err", err)
		return err
	}
	klog.V(1).InfoS("run finished", "fabric", f.Name(), "elapsed", time.Since(start))
	if !designated {
		return nil
	}
	if c == nil {
		return ErrNoResult
	}

	for _, out := range []struct {
		label string
		m     *matrix.Dense
	}{{LabelA, a}, {LabelB, b}, {LabelResult, c}} {
		if err := sink.Render(out.label, out.m); err != nil {
			return fmt.Errorf("orchestrator: render %q: %w", out.label, err)
		}
	}

	return nil
}

func replicatesA(f fabric.Fabric) bool {
	r, ok := f.(replicator)
	return ok && r.ReplicatesA()
}
