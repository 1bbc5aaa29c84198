package fabric_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/rowmul/comm"
	"github.com/katalvlaran/rowmul/comm/tcp"
	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/matrix"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// randDense builds an r×c matrix of deterministic values in [-span, span].
func randDense(t testing.TB, r, c int, seed int64, span int32) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Data() {
		m.Data()[i] = rng.Int31n(2*span+1) - span
	}
	return m
}

// mpResult holds the outcome of one message-passing run, indexed by rank.
type mpResult struct {
	product *matrix.Dense // rank 0's output
	errs    []error
	others  []*matrix.Dense // outputs of ranks > 0, expected nil
}

// inputsFor decides what a rank passes to Multiply.
type inputsFor func(rank int) (a, b *matrix.Dense)

// rootOnly gives a and b to rank 0 and nil to everyone else.
func rootOnly(a, b *matrix.Dense) inputsFor {
	return func(rank int) (*matrix.Dense, *matrix.Dense) {
		if rank == 0 {
			return a, b
		}
		return nil, nil
	}
}

// runMessagePassing runs every rank over the given communicators and records
// each rank's result. Unlike comm.RunLocal it does not stop at the first error.
func runMessagePassing(t *testing.T, ctx context.Context, ranks []comm.Communicator, in inputsFor, opts ...fabric.Option) mpResult {
	t.Helper()
	res := mpResult{errs: make([]error, len(ranks)), others: make([]*matrix.Dense, len(ranks))}
	var wg sync.WaitGroup
	for _, c := range ranks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := fabric.NewMessagePassing(c, opts...)
			if err != nil {
				res.errs[c.Rank()] = err
				return
			}
			a, b := in(c.Rank())
			out, err := f.Multiply(ctx, a, b)
			res.errs[c.Rank()] = err
			if c.Rank() == 0 {
				res.product = out
			} else {
				res.others[c.Rank()] = out
			}
		}()
	}
	wg.Wait()
	return res
}

func localWorld(t *testing.T, size int) []comm.Communicator {
	t.Helper()
	ranks, err := comm.NewLocalWorld(size)
	require.NoError(t, err)
	out := make([]comm.Communicator, size)
	for i, r := range ranks {
		out[i] = r
	}
	return out
}

func tcpWorld(t *testing.T, ctx context.Context, size int) []comm.Communicator {
	t.Helper()
	hub, err := tcp.Listen("127.0.0.1:0", size)
	require.NoError(t, err)
	t.Cleanup(func() { hub.Close() })

	out := make([]comm.Communicator, size)
	var g errgroup.Group
	g.Go(func() error {
		c, err := hub.Accept(ctx)
		if err == nil {
			out[0] = c
		}
		return err
	})
	for r := 1; r < size; r++ {
		g.Go(func() error {
			c, err := tcp.Dial(ctx, hub.Addr(), r, size)
			if err == nil {
				out[r] = c
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	t.Cleanup(func() {
		for _, c := range out {
			c.Close()
		}
	})
	return out
}
