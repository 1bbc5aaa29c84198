// SPDX-License-Identifier: MIT

// Package comm defines the collective transport used by the message-passing
// fabric and ships an in-process implementation of it.
//
// A world is a fixed set of Size() ranks. Every rank must call the same
// collectives in the same order; a collective completes only when all ranks
// have reached it:
//
//	Broadcast(ctx, root, buf)  every rank ends with a private copy of root's buf
//	Gather(ctx, root, local)   root ends with every rank's local, indexed by rank
//
// Placement in Gather is keyed by the sender's rank, never by arrival order.
//
// Failure is uniform: once any rank's collective fails (context cancelled,
// peer gone, mismatched call), the world is aborted and every other rank's
// pending or future collective fails with ErrTransport too. There is no
// partial-result recovery.
//
// NewLocalWorld builds a world of goroutine ranks that share no buffers: each
// payload is copied on send, so ranks behave as if they had disjoint memory.
// Package comm/tcp provides the multi-process variant.
package comm
