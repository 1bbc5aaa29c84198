// SPDX-License-Identifier: MIT

package fabric

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/rowmul/comm"
	"github.com/katalvlaran/rowmul/kernel"
	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/partition"
)

// root is the rank that initializes inputs and assembles the result.
const root = 0

// shape header layout broadcast ahead of any matrix data.
const (
	hdrStatus = iota
	hdrARows
	hdrACols
	hdrBRows
	hdrBCols
	hdrLen
)

const (
	statusOK       int32 = 0
	statusRejected int32 = 1
)

// header is the decoded shape header.
type header struct {
	status                     int32
	aRows, aCols, bRows, bCols int
}

// MessagePassing runs one rank of a message-passing multiplication.
// Every rank of the world must call Multiply for the same run.
type MessagePassing struct {
	c           comm.Communicator
	replicatedA bool
}

var _ Fabric = (*MessagePassing)(nil)

// NewMessagePassing binds the fabric to this rank's communicator.
func NewMessagePassing(c comm.Communicator, opts ...Option) (*MessagePassing, error) {
	if c == nil {
		return nil, configErrorf("NewMessagePassing", comm.ErrClosed)
	}
	if c.Size() <= 0 {
		return nil, configErrorf("NewMessagePassing", partition.ErrInvalidWorkers)
	}
	o := gatherOptions(opts...)

	return &MessagePassing{c: c, replicatedA: o.ReplicatedA}, nil
}

// Name implements Fabric.
func (m *MessagePassing) Name() string { return BackendMessagePassing.String() }

// Designated implements Fabric.
func (m *MessagePassing) Designated() bool { return m.c.Rank() == root }

// ReplicatesA reports whether every rank must supply its own A.
func (m *MessagePassing) ReplicatesA() bool { return m.replicatedA }

// Multiply implements Fabric.
//
// Sequence (identical on every rank):
//  1. Broadcast header: rank 0 validates and publishes [status, shapes].
//     A rejected status fails every rank with ErrConfiguration.
//  2. Broadcast B, then A (skipped when A is replicated).
//  3. Compute rows partition.Assign(aRows, size, rank) with kernel.Rows.
//  4. Gather onto rank 0, which places block r at rank r's RowRange.
//  5. Broadcast rank 0's outcome. A failed assembly fails every rank.
//
// Every gathered block starts with the sender's status word. A rank whose
// local A is unusable still joins the gather with a failed status, so rank 0
// fails with ErrContribution instead of waiting forever, and the outcome
// broadcast then fails the remaining ranks.
func (m *MessagePassing) Multiply(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	rank, size := m.c.Rank(), m.c.Size()

	// 1) header
	var hdr []int32
	var rootErr error
	if rank == root {
		rootErr = m.validateRoot(a, b)
		hdr = encodeHeader(rootErr, a, b)
	}
	hdr, err := m.c.Broadcast(ctx, root, hdr)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(hdr)
	if err != nil {
		return nil, comm.TransportErrorf(comm.OpBroadcast, rank, err)
	}
	if h.status != statusOK {
		if rank == root {
			return nil, rootErr
		}
		return nil, configErrorf("MessagePassing.Multiply", ErrRootRejected)
	}
	klog.V(2).InfoS("header received", "rank", rank, "size", size,
		"a", fmt.Sprintf("%dx%d", h.aRows, h.aCols), "b", fmt.Sprintf("%dx%d", h.bRows, h.bCols))

	// 2) inputs
	bm, err := m.receive(ctx, b, h.bRows, h.bCols)
	if err != nil {
		return nil, err
	}
	var am *matrix.Dense
	var localErr error
	if m.replicatedA {
		am, localErr = a, checkReplica(a, h)
	} else if am, err = m.receive(ctx, a, h.aRows, h.aCols); err != nil {
		return nil, err
	}

	// 3) compute
	r, err := partition.Assign(h.aRows, size, rank)
	if err != nil {
		return nil, configErrorf("MessagePassing.Multiply", err) // unreachable after header validation
	}
	var rows []int32
	if localErr == nil {
		rows, localErr = kernel.Rows(am, bm, r)
	}
	klog.V(2).InfoS("rows computed", "rank", rank, "range", r, "err", localErr)

	// 4) gather: [status, rows...]
	parts, err := m.c.Gather(ctx, root, append(encodeStatus(localErr), rows...))
	if err != nil {
		return nil, err
	}
	var c *matrix.Dense
	var asmErr error
	if rank == root {
		c, asmErr = assemble(parts, h, size)
	}

	// 5) outcome: every rank learns whether rank 0 produced C
	status, err := m.c.Broadcast(ctx, root, encodeStatus(asmErr))
	if err != nil {
		return nil, err
	}
	switch {
	case localErr != nil:
		return nil, configErrorf("MessagePassing.Multiply", localErr)
	case asmErr != nil:
		return nil, asmErr
	case len(status) != 1:
		return nil, comm.TransportErrorf(comm.OpBroadcast, rank, fmt.Errorf("status has %d fields: %w", len(status), ErrHeader))
	case status[0] != statusOK:
		return nil, comm.TransportErrorf(comm.OpGather, rank, ErrRootFailed)
	}

	return c, nil
}

func encodeStatus(err error) []int32 {
	if err != nil {
		return []int32{statusRejected}
	}
	return []int32{statusOK}
}

// validateRoot runs every check that must pass before data moves.
func (m *MessagePassing) validateRoot(a, b *matrix.Dense) error {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return configErrorf("MessagePassing.Multiply", err)
	}
	if _, err := partition.Table(a.Rows(), m.c.Size()); err != nil {
		return configErrorf("MessagePassing.Multiply", err)
	}
	return nil
}

// receive broadcasts src from rank 0 and wraps the received copy as rows×cols.
func (m *MessagePassing) receive(ctx context.Context, src *matrix.Dense, rows, cols int) (*matrix.Dense, error) {
	var buf []int32
	if m.c.Rank() == root {
		buf = src.Data()
	}
	buf, err := m.c.Broadcast(ctx, root, buf)
	if err != nil {
		return nil, err
	}
	out, err := matrix.NewDenseFrom(rows, cols, buf)
	if err != nil {
		return nil, comm.TransportErrorf(comm.OpBroadcast, m.c.Rank(), err)
	}
	return out, nil
}

func checkReplica(a *matrix.Dense, h header) error {
	if err := matrix.ValidateNotNil(a); err != nil {
		return err
	}
	if a.Rows() != h.aRows || a.Cols() != h.aCols {
		return fmt.Errorf("replicated A is %dx%d, root has %dx%d: %w",
			a.Rows(), a.Cols(), h.aRows, h.aCols, matrix.ErrDimensionMismatch)
	}
	return nil
}

// assemble checks every rank's status word and places its rows at the
// rank's RowRange offset.
func assemble(parts [][]int32, h header, size int) (*matrix.Dense, error) {
	c, err := matrix.NewDense(h.aRows, h.bCols)
	if err != nil {
		return nil, err
	}
	for rank, part := range parts {
		r, err := partition.Assign(h.aRows, size, rank)
		if err != nil {
			return nil, err
		}
		if len(part) == 0 {
			return nil, comm.TransportErrorf(comm.OpGather, root,
				fmt.Errorf("rank %d sent no status: %w", rank, ErrContribution))
		}
		if part[0] != statusOK {
			return nil, comm.TransportErrorf(comm.OpGather, root,
				fmt.Errorf("rank %d could not compute rows %v: %w", rank, r, ErrContribution))
		}
		part = part[1:]
		if want := r.Len() * h.bCols; len(part) != want {
			return nil, comm.TransportErrorf(comm.OpGather, root,
				fmt.Errorf("rank %d sent %d values for rows %v, want %d: %w", rank, len(part), r, want, ErrContribution))
		}
		dst, _ := c.RowBlock(r.Start, r.End)
		copy(dst, part)
	}
	return c, nil
}

func encodeHeader(err error, a, b *matrix.Dense) []int32 {
	hdr := make([]int32, hdrLen)
	if err != nil {
		hdr[hdrStatus] = statusRejected
		return hdr
	}
	hdr[hdrARows], hdr[hdrACols] = int32(a.Rows()), int32(a.Cols())
	hdr[hdrBRows], hdr[hdrBCols] = int32(b.Rows()), int32(b.Cols())
	return hdr
}

func decodeHeader(hdr []int32) (header, error) {
	if len(hdr) != hdrLen {
		return header{}, fmt.Errorf("%d fields, want %d: %w", len(hdr), hdrLen, ErrHeader)
	}
	h := header{
		status: hdr[hdrStatus],
		aRows:  int(hdr[hdrARows]),
		aCols:  int(hdr[hdrACols]),
		bRows:  int(hdr[hdrBRows]),
		bCols:  int(hdr[hdrBCols]),
	}
	if h.status == statusOK && (h.aRows <= 0 || h.aCols <= 0 || h.bRows != h.aCols || h.bCols <= 0) {
		return header{}, fmt.Errorf("shapes %dx%d · %dx%d: %w", h.aRows, h.aCols, h.bRows, h.bCols, ErrHeader)
	}
	return h, nil
}
