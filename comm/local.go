// SPDX-License-Identifier: MIT

package comm

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

type opKind uint8

const (
	kindBroadcast opKind = iota + 1
	kindGather
)

func (k opKind) String() string {
	switch k {
	case kindBroadcast:
		return OpBroadcast
	case kindGather:
		return OpGather
	default:
		return fmt.Sprintf("opKind(%d)", uint8(k))
	}
}

// envelope is one point-to-point message inside a collective.
type envelope struct {
	seq     uint64 // collective sequence number, identical on all ranks
	kind    opKind
	from    int
	payload []int32 // owned by the receiver
}

type pendingKey struct {
	seq  uint64
	from int
}

// world is the shared state of an in-process world.
type world struct {
	size  int
	inbox []chan envelope // inbox[r] is drained only by rank r
	done  chan struct{}   // closed on abort
	once  sync.Once
	cause error // set before done is closed
}

func (w *world) abort(err error) {
	w.once.Do(func() {
		w.cause = err
		close(w.done)
		klog.V(3).InfoS("local world aborted", "err", err)
	})
}

// aborted returns the abort cause wrapped as ErrAborted. Call only after done is closed.
func (w *world) aborted() error {
	return fmt.Errorf("%w: %w", ErrAborted, w.cause)
}

// Local is one rank of an in-process world.
type Local struct {
	w       *world
	rank    int
	seq     uint64
	pending map[pendingKey]envelope // early arrivals from later collectives or other senders
	closed  bool
}

var _ Communicator = (*Local)(nil)

// NewLocalWorld creates size in-process ranks, returned indexed by rank.
// Payloads are copied on every send, so no two ranks alias a buffer.
func NewLocalWorld(size int) ([]*Local, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	w := &world{
		size:  size,
		inbox: make([]chan envelope, size),
		done:  make(chan struct{}),
	}
	ranks := make([]*Local, size)
	for r := range size {
		w.inbox[r] = make(chan envelope, 2*size)
		ranks[r] = &Local{w: w, rank: r, pending: make(map[pendingKey]envelope)}
	}

	return ranks, nil
}

// RunLocal runs fn once per rank of a fresh in-process world, each on its own
// goroutine, and waits for all of them. The first error aborts the world so
// that ranks blocked in a collective fail instead of hanging; it is returned.
func RunLocal(ctx context.Context, size int, fn func(ctx context.Context, c Communicator) error) error {
	ranks, err := NewLocalWorld(size)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range ranks {
		g.Go(func() error {
			defer c.Close()
			if err := fn(gctx, c); err != nil {
				c.w.abort(fmt.Errorf("rank %d: %w", c.rank, err))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// Rank implements Communicator.
func (c *Local) Rank() int { return c.rank }

// Size implements Communicator.
func (c *Local) Size() int { return c.w.size }

// Close implements Communicator.
func (c *Local) Close() error {
	c.closed = true
	return nil
}

// Broadcast implements Communicator.
func (c *Local) Broadcast(ctx context.Context, root int, buf []int32) ([]int32, error) {
	seq, err := c.begin(OpBroadcast, root)
	if err != nil {
		return nil, err
	}
	if c.rank != root {
		env, err := c.recv(ctx, seq, kindBroadcast, root)
		if err != nil {
			return nil, TransportErrorf(OpBroadcast, c.rank, err)
		}
		return env.payload, nil
	}

	for r := range c.w.size {
		if r == root {
			continue
		}
		env := envelope{seq: seq, kind: kindBroadcast, from: root, payload: slices.Clone(buf)}
		if err := c.send(ctx, r, env); err != nil {
			return nil, TransportErrorf(OpBroadcast, c.rank, err)
		}
	}

	return slices.Clone(buf), nil
}

// Gather implements Communicator.
func (c *Local) Gather(ctx context.Context, root int, local []int32) ([][]int32, error) {
	seq, err := c.begin(OpGather, root)
	if err != nil {
		return nil, err
	}
	if c.rank != root {
		env := envelope{seq: seq, kind: kindGather, from: c.rank, payload: slices.Clone(local)}
		if err := c.send(ctx, root, env); err != nil {
			return nil, TransportErrorf(OpGather, c.rank, err)
		}
		return nil, nil
	}

	out := make([][]int32, c.w.size)
	out[root] = slices.Clone(local)
	for r := range c.w.size {
		if r == root {
			continue
		}
		env, err := c.recv(ctx, seq, kindGather, r)
		if err != nil {
			return nil, TransportErrorf(OpGather, c.rank, err)
		}
		out[r] = env.payload // placed by sender rank
	}

	return out, nil
}

// begin validates the call and reserves the next collective sequence number.
func (c *Local) begin(op string, root int) (uint64, error) {
	if c.closed {
		return 0, TransportErrorf(op, c.rank, ErrClosed)
	}
	if err := CheckRoot(root, c.w.size); err != nil {
		return 0, fmt.Errorf("%s(root=%d, size=%d): %w", op, root, c.w.size, err)
	}
	c.seq++

	return c.seq, nil
}

func (c *Local) send(ctx context.Context, to int, env envelope) error {
	select {
	case <-c.w.done:
		return c.w.aborted() // do not enqueue into a dead world
	default:
	}
	select {
	case c.w.inbox[to] <- env:
		return nil
	case <-c.w.done:
		return c.w.aborted()
	case <-ctx.Done():
		c.w.abort(ctx.Err())
		return ctx.Err()
	}
}

// recv returns the envelope of collective seq sent by from, parking any other
// arrivals in pending.
func (c *Local) recv(ctx context.Context, seq uint64, kind opKind, from int) (envelope, error) {
	key := pendingKey{seq: seq, from: from}
	if env, ok := c.pending[key]; ok {
		delete(c.pending, key)
		return c.check(env, kind)
	}
	for {
		select {
		case env := <-c.w.inbox[c.rank]:
			if env.seq == seq && env.from == from {
				return c.check(env, kind)
			}
			c.pending[pendingKey{seq: env.seq, from: env.from}] = env
		case <-c.w.done:
			return envelope{}, c.w.aborted()
		case <-ctx.Done():
			c.w.abort(ctx.Err())
			return envelope{}, ctx.Err()
		}
	}
}

func (c *Local) check(env envelope, want opKind) (envelope, error) {
	if env.kind != want {
		err := fmt.Errorf("rank %d expected %v #%d, rank %d sent %v: %w",
			c.rank, want, env.seq, env.from, env.kind, ErrMismatch)
		c.w.abort(err)
		return envelope{}, err
	}

	return env, nil
}
