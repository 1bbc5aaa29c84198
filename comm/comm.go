// SPDX-License-Identifier: MIT

package comm

import "context"

// Communicator is one rank's handle on a world.
//
// A Communicator is driven by a single goroutine: collectives on the same
// handle must not be called concurrently.
type Communicator interface {
	// Rank returns this worker's ordinal in [0, Size()).
	Rank() int

	// Size returns the number of ranks in the world.
	Size() int

	// Broadcast replicates root's buf to every rank. Non-root ranks pass nil.
	// Every rank, root included, receives a copy it owns.
	Broadcast(ctx context.Context, root int, buf []int32) ([]int32, error)

	// Gather collects local from every rank onto root. Root receives a slice
	// of Size() buffers indexed by sender rank; other ranks receive nil.
	Gather(ctx context.Context, root int, local []int32) ([][]int32, error)

	// Close releases the handle. Peers still inside a collective with this
	// rank may see it as a failure.
	Close() error
}

// Op names used in error wrapping and logs.
const (
	OpBroadcast = "Broadcast"
	OpGather    = "Gather"
)

// CheckRoot validates root against size.
func CheckRoot(root, size int) error {
	if root < 0 || root >= size {
		return ErrRootOutOfRange
	}

	return nil
}
