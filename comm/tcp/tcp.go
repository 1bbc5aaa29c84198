// SPDX-License-Identifier: MIT

// Package tcp is a multi-process collective transport over TCP.
//
// Topology is a star: rank 0 (the hub) listens, ranks 1..size-1 (spokes)
// dial it. Every collective is rooted at the hub: Broadcast fans the hub's
// buffer out to all spokes, Gather fans spoke buffers in to the hub, which
// places each by the rank the spoke announced during the handshake.
//
// Any I/O error, protocol violation or context cancellation closes every
// connection of the failing rank. Its peers then see their own reads and
// writes fail, so a failure spreads to the whole world as ErrTransport.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/katalvlaran/rowmul/comm"
)

const hubRank = 0

var (
	// ErrRootNotHub reports a collective rooted anywhere but rank 0.
	ErrRootNotHub = errors.New("tcp: collectives must be rooted at rank 0")

	// ErrHandshake reports a rejected or malformed join.
	ErrHandshake = errors.New("tcp: handshake failed")

	// ErrProtocol reports a frame that does not match the running collective.
	ErrProtocol = errors.New("tcp: unexpected frame")
)

// handshakeTimeout bounds a single join exchange.
const handshakeTimeout = 10 * time.Second

// Comm is one rank of a TCP world. Like every comm.Communicator it is
// driven by a single goroutine; the hub's internal fan-out goroutines only
// touch distinct links and the once-guarded failure state.
type Comm struct {
	rank, size int
	seq        uint64
	links      []*link // hub: indexed by spoke rank, nil at 0; spoke: [0] is the hub

	failOnce sync.Once
	failed   error
}

var _ comm.Communicator = (*Comm)(nil)

// Hub accepts spokes for rank 0.
type Hub struct {
	ln   net.Listener
	size int
}

// Listen opens the hub endpoint for a world of size ranks.
func Listen(addr string, size int) (*Hub, error) {
	if size <= 0 {
		return nil, comm.ErrInvalidSize
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tcp.Listen(%s): %w", addr, err)
	}

	return &Hub{ln: ln, size: size}, nil
}

// Addr returns the bound listen address (useful with port 0).
func (h *Hub) Addr() string { return h.ln.Addr().String() }

// Close stops listening. Accept closes the listener itself once the world is complete.
func (h *Hub) Close() error { return h.ln.Close() }

// Accept blocks until every spoke rank 1..size-1 has joined, then returns
// the hub's communicator. Joins with a bad size, an out-of-range or
// duplicate rank are refused and do not count.
func (h *Hub) Accept(ctx context.Context) (*Comm, error) {
	c := &Comm{rank: hubRank, size: h.size, links: make([]*link, h.size)}
	stop := context.AfterFunc(ctx, func() { h.ln.Close() })
	defer stop()

	for joined := 1; joined < h.size; {
		conn, err := h.ln.Accept()
		if err != nil {
			c.closeLinks()
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return nil, fmt.Errorf("tcp.Accept: %w", err)
		}
		l, err := h.handshake(conn, c.links)
		if err != nil {
			klog.V(3).InfoS("refused spoke", "remote", conn.RemoteAddr(), "err", err)
			conn.Close()
			continue
		}
		c.links[l.rank] = l
		joined++
		klog.V(3).InfoS("spoke joined", "rank", l.rank, "remote", conn.RemoteAddr(), "joined", joined, "size", h.size)
	}
	h.ln.Close()

	return c, nil
}

func (h *Hub) handshake(conn net.Conn, links []*link) (*link, error) {
	conn.SetDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetDeadline(time.Time{})

	l := newLink(0, conn)
	hello, err := l.read()
	if err != nil {
		return nil, fmt.Errorf("%w: read hello: %w", ErrHandshake, err)
	}
	switch {
	case hello.Kind != kindHello:
		return nil, fmt.Errorf("%w: first frame kind %d", ErrHandshake, hello.Kind)
	case len(hello.Payload) != 1 || int(hello.Payload[0]) != h.size:
		return nil, fmt.Errorf("%w: spoke world size %v, hub %d", ErrHandshake, hello.Payload, h.size)
	case hello.From <= hubRank || hello.From >= h.size:
		return nil, fmt.Errorf("%w: rank %d: %w", ErrHandshake, hello.From, comm.ErrRootOutOfRange)
	case links[hello.From] != nil:
		return nil, fmt.Errorf("%w: rank %d already joined", ErrHandshake, hello.From)
	}
	l.rank = hello.From
	if err := l.write(frame{Kind: kindWelcome}); err != nil {
		return nil, fmt.Errorf("%w: write welcome: %w", ErrHandshake, err)
	}

	return l, nil
}

// Dial joins the world at addr as rank (1 <= rank < size). It retries the
// connection until the hub is reachable or ctx ends.
func Dial(ctx context.Context, addr string, rank, size int) (*Comm, error) {
	if size <= 0 {
		return nil, comm.ErrInvalidSize
	}
	if rank <= hubRank || rank >= size {
		return nil, fmt.Errorf("tcp.Dial(rank=%d, size=%d): %w", rank, size, comm.ErrRootOutOfRange)
	}

	var d net.Dialer
	backoff := 20 * time.Millisecond
	for {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			l := newLink(hubRank, conn)
			if err = join(l, rank, size); err != nil {
				conn.Close()
				return nil, err
			}
			klog.V(3).InfoS("joined hub", "rank", rank, "hub", addr)
			return &Comm{rank: rank, size: size, links: []*link{l}}, nil
		}
		klog.V(4).InfoS("hub not reachable yet", "hub", addr, "err", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("tcp.Dial(%s): %w", addr, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, time.Second)
	}
}

func join(l *link, rank, size int) error {
	l.conn.SetDeadline(time.Now().Add(handshakeTimeout))
	defer l.conn.SetDeadline(time.Time{})

	if err := l.write(frame{Kind: kindHello, From: rank, Payload: []int32{int32(size)}}); err != nil {
		return fmt.Errorf("%w: write hello: %w", ErrHandshake, err)
	}
	welcome, err := l.read()
	if err != nil {
		return fmt.Errorf("%w: read welcome: %w", ErrHandshake, err) // hub refused and hung up
	}
	if welcome.Kind != kindWelcome {
		return fmt.Errorf("%w: got kind %d", ErrHandshake, welcome.Kind)
	}

	return nil
}

// Rank implements comm.Communicator.
func (c *Comm) Rank() int { return c.rank }

// Size implements comm.Communicator.
func (c *Comm) Size() int { return c.size }

// Close implements comm.Communicator.
func (c *Comm) Close() error {
	c.fail(comm.ErrClosed)
	return nil
}

// Broadcast implements comm.Communicator. root must be 0.
func (c *Comm) Broadcast(ctx context.Context, root int, buf []int32) ([]int32, error) {
	seq, done, err := c.begin(ctx, comm.OpBroadcast, root)
	if err != nil {
		return nil, err
	}
	defer done()

	if c.rank != hubRank {
		f, err := c.expect(c.links[0], seq, kindBroadcast, hubRank)
		if err != nil {
			return nil, c.abort(ctx, comm.OpBroadcast, err)
		}
		return f.Payload, nil
	}

	var g errgroup.Group
	for _, l := range c.spokes() {
		g.Go(func() error {
			if err := l.write(frame{Seq: seq, Kind: kindBroadcast, From: hubRank, Payload: buf}); err != nil {
				c.fail(err) // unblock the other spokes' writes
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, c.abort(ctx, comm.OpBroadcast, err)
	}

	return append([]int32(nil), buf...), nil
}

// Gather implements comm.Communicator. root must be 0.
func (c *Comm) Gather(ctx context.Context, root int, local []int32) ([][]int32, error) {
	seq, done, err := c.begin(ctx, comm.OpGather, root)
	if err != nil {
		return nil, err
	}
	defer done()

	if c.rank != hubRank {
		if err := c.links[0].write(frame{Seq: seq, Kind: kindGather, From: c.rank, Payload: local}); err != nil {
			return nil, c.abort(ctx, comm.OpGather, err)
		}
		return nil, nil
	}

	out := make([][]int32, c.size)
	out[hubRank] = append([]int32(nil), local...)
	var g errgroup.Group
	for _, l := range c.spokes() {
		g.Go(func() error {
			f, err := c.expect(l, seq, kindGather, l.rank)
			if err != nil {
				c.fail(err) // unblock the other spokes' reads
				return err
			}
			out[l.rank] = f.Payload // keyed by handshake rank, not arrival
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, c.abort(ctx, comm.OpGather, err)
	}

	return out, nil
}

// begin validates the call, reserves a sequence number and arms ctx on all
// links: once ctx is done, pending I/O is unblocked through an expired
// deadline. The returned func disarms it.
func (c *Comm) begin(ctx context.Context, op string, root int) (uint64, func(), error) {
	if c.failed != nil {
		return 0, nil, comm.TransportErrorf(op, c.rank, c.failed)
	}
	if err := comm.CheckRoot(root, c.size); err != nil {
		return 0, nil, fmt.Errorf("%s(root=%d): %w", op, root, err)
	}
	if root != hubRank {
		return 0, nil, fmt.Errorf("%s(root=%d): %w", op, root, ErrRootNotHub)
	}
	c.seq++

	for _, l := range c.live() {
		l.conn.SetDeadline(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		for _, l := range c.live() {
			l.conn.SetDeadline(time.Unix(1, 0)) // unblock pending I/O
		}
	})

	return c.seq, func() { stop() }, nil
}

func (c *Comm) expect(l *link, seq uint64, kind frameKind, from int) (frame, error) {
	f, err := l.read()
	if err != nil {
		return frame{}, err
	}
	if f.Seq != seq || f.Kind != kind || f.From != from {
		return frame{}, fmt.Errorf("%w: got seq=%d kind=%d from=%d, want seq=%d kind=%d from=%d: %w",
			ErrProtocol, f.Seq, f.Kind, f.From, seq, kind, from, comm.ErrMismatch)
	}

	return f, nil
}

// abort tears the rank down and returns the classified error.
func (c *Comm) abort(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w (%w)", ctxErr, err)
	}
	c.fail(err)
	klog.V(2).InfoS("collective failed", "op", op, "rank", c.rank, "err", err)

	return comm.TransportErrorf(op, c.rank, err)
}

func (c *Comm) fail(err error) {
	c.failOnce.Do(func() {
		c.failed = err
		c.closeLinks()
	})
}

func (c *Comm) closeLinks() {
	for _, l := range c.live() {
		l.conn.Close()
	}
}

func (c *Comm) spokes() []*link {
	if c.rank != hubRank {
		return nil
	}
	return c.live()
}

func (c *Comm) live() []*link {
	out := make([]*link, 0, len(c.links))
	for _, l := range c.links {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}
