// SPDX-License-Identifier: MIT

package fabric

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/rowmul/kernel"
	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/partition"
	"github.com/katalvlaran/rowmul/workerpool"
)

// SharedMemory runs P logical tasks over one address space.
type SharedMemory struct {
	workers  int
	pool     *workerpool.Pool
	poolSize int
}

var _ Fabric = (*SharedMemory)(nil)

// NewSharedMemory builds the shared-memory fabric.
//
// Errors:
//   - ErrConfiguration wrapping partition.ErrInvalidWorkers for Workers < 0
//     or PoolSize < 0.
func NewSharedMemory(opts ...Option) (*SharedMemory, error) {
	o := gatherOptions(opts...)
	if o.Workers < 0 {
		return nil, configErrorf("NewSharedMemory", fmt.Errorf("workers=%d: %w", o.Workers, partition.ErrInvalidWorkers))
	}
	if o.PoolSize < 0 {
		return nil, configErrorf("NewSharedMemory", fmt.Errorf("pool=%d: %w", o.PoolSize, partition.ErrInvalidWorkers))
	}
	workers := o.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &SharedMemory{workers: workers, pool: o.Pool, poolSize: o.PoolSize}, nil
}

// Name implements Fabric.
func (s *SharedMemory) Name() string { return BackendSharedMemory.String() }

// Designated implements Fabric. The caller is the only observer of C.
func (s *SharedMemory) Designated() bool { return true }

// Workers returns the task count P.
func (s *SharedMemory) Workers() int { return s.workers }

// Multiply implements Fabric.
//
// Implementation:
//   - Stage 1: validate shapes and compute the RowRange table once.
//   - Stage 2: allocate a zero-filled C shared by every task.
//   - Stage 3: run task rank ∈ [0,P) with its rank as argument; it writes
//     only table[rank] rows of C.
//   - Stage 4: the pool's wait-all returns; only then is C read or returned.
func (s *SharedMemory) Multiply(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, configErrorf("SharedMemory.Multiply", err)
	}
	table, err := partition.Table(a.Rows(), s.workers)
	if err != nil {
		return nil, configErrorf("SharedMemory.Multiply", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, configErrorf("SharedMemory.Multiply", err)
	}

	pool := s.pool
	if pool == nil {
		pool = workerpool.New(s.poolSize)
		defer pool.Close()
	}
	klog.V(2).InfoS("shared-memory compute", "rows", a.Rows(), "cols", b.Cols(), "tasks", s.workers, "threads", pool.NumWorkers())

	errs := make([]error, s.workers) // errs[rank] written only by task rank
	pool.Run(s.workers, func(rank int) {
		errs[rank] = kernel.MulRange(a, b, c, table[rank])
	})
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, nil
}
