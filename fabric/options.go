// SPDX-License-Identifier: MIT

package fabric

import "github.com/katalvlaran/rowmul/workerpool"

// Option mutates Options. Options are applied in order; later ones win.
type Option func(*Options)

// Options configures both fabrics. Fields that do not apply to a backend
// are ignored by it.
type Options struct {
	// Workers is the shared-memory task count P. 0 selects GOMAXPROCS.
	// It is independent of the pool's goroutine count.
	Workers int

	// Pool runs shared-memory tasks. When nil, each Multiply creates a pool
	// of PoolSize goroutines and closes it afterwards.
	Pool *workerpool.Pool

	// PoolSize sizes the per-call pool. 0 selects GOMAXPROCS.
	PoolSize int

	// ReplicatedA makes message-passing ranks use their own copy of A instead
	// of receiving it from rank 0. Every rank must then hold an identical A.
	ReplicatedA bool
}

// WithWorkers sets the shared-memory task count.
func WithWorkers(p int) Option {
	return func(o *Options) { o.Workers = p }
}

// WithPool runs shared-memory tasks on an existing pool. The caller keeps
// ownership and closes it.
func WithPool(p *workerpool.Pool) Option {
	return func(o *Options) { o.Pool = p }
}

// WithPoolSize sizes the per-call pool.
func WithPoolSize(n int) Option {
	return func(o *Options) { o.PoolSize = n }
}

// WithReplicatedA switches message-passing to the replicated-A mode: only B
// is broadcast and each rank multiplies with the A it was given.
func WithReplicatedA() Option {
	return func(o *Options) { o.ReplicatedA = true }
}

func gatherOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
