// SPDX-License-Identifier: MIT

// Package fabric is the distribution layer of the engine: it makes the inputs
// visible to every worker, runs the local multiplier on each worker's
// RowRange and assembles the partial rows into one product.
//
// Two interchangeable implementations satisfy Fabric:
//
//   - MessagePassing: ranks with disjoint memory joined by a
//     comm.Communicator. Rank 0 broadcasts a shape header, B and (by default)
//     A; every rank computes its rows; rank 0 gathers and places them by
//     rank-derived RowRange.
//   - SharedMemory: P logical tasks over a workerpool.Pool in one address
//     space. A and B are shared read-only; each task writes only its rows of
//     C; the pool's wait-all is the join point before C is returned.
//
// Both produce bit-identical results for the same inputs and worker count.
//
// Errors:
//
//	ErrConfiguration  wraps bad inputs (nil, shape mismatch, bad worker count);
//	                  detected before any data moves.
//	comm.ErrTransport a collective failed; the run is void on every rank.
package fabric
