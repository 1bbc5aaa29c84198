package orchestrator_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rowmul/comm"
	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/orchestrator"
)

// recorder captures rendered matrices in order.
type recorder struct {
	labels []string
	mats   []*matrix.Dense
}

func (r *recorder) Render(label string, m *matrix.Dense) error {
	r.labels = append(r.labels, label)
	r.mats = append(r.mats, m)
	return nil
}

// stubFabric returns canned results.
type stubFabric struct {
	designated bool
	out        *matrix.Dense
	err        error
	gotA, gotB *matrix.Dense
}

func (s *stubFabric) Name() string     { return "stub" }
func (s *stubFabric) Designated() bool { return s.designated }
func (s *stubFabric) Multiply(_ context.Context, a, b *matrix.Dense) (*matrix.Dense, error) {
	s.gotA, s.gotB = a, b
	return s.out, s.err
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunSharedRendersInOrder(t *testing.T) {
	f, err := fabric.NewSharedMemory(fabric.WithWorkers(3))
	require.NoError(t, err)
	rec := &recorder{}

	require.NoError(t, orchestrator.Run(testCtx(t), f, orchestrator.Sequential{N: 4}, rec))
	require.Equal(t, []string{orchestrator.LabelA, orchestrator.LabelB, orchestrator.LabelResult}, rec.labels)

	row, err := rec.mats[2].RowSlice(0)
	require.NoError(t, err)
	require.Equal(t, []int32{90, 100, 110, 120}, row) // scenario: N=4 sequential
}

func TestRunTextSinkOutput(t *testing.T) {
	f, err := fabric.NewSharedMemory(fabric.WithWorkers(2))
	require.NoError(t, err)
	var buf bytes.Buffer

	init := orchestrator.Constant{Rows: 2, Cols: 2, A: 1, B: 2}
	require.NoError(t, orchestrator.Run(testCtx(t), f, init, orchestrator.TextSink{W: &buf}))
	want := "Matrix A:\n1 1 \n1 1 \n" +
		"Matrix B:\n2 2 \n2 2 \n" +
		"Result Matrix C:\n4 4 \n4 4 \n"
	require.Equal(t, want, buf.String())
}

func TestRunConstantThreeByThree(t *testing.T) {
	f, err := fabric.NewSharedMemory(fabric.WithWorkers(3))
	require.NoError(t, err)
	rec := &recorder{}

	require.NoError(t, orchestrator.Run(testCtx(t), f, orchestrator.Constant{Rows: 3, Cols: 3, A: 1, B: 2}, rec))
	for _, v := range rec.mats[2].Data() {
		require.Equal(t, int32(6), v)
	}
}

// TestRunMessagePassingRendersOnce: only rank 0 renders, and only once.
func TestRunMessagePassingRendersOnce(t *testing.T) {
	const size = 4
	sinks := make([]*recorder, size)
	err := comm.RunLocal(testCtx(t), size, func(ctx context.Context, c comm.Communicator) error {
		f, err := fabric.NewMessagePassing(c)
		if err != nil {
			return err
		}
		sinks[c.Rank()] = &recorder{}
		return orchestrator.Run(ctx, f, orchestrator.Sequential{N: 5}, sinks[c.Rank()])
	})
	require.NoError(t, err)

	require.Len(t, sinks[0].labels, 3)
	for rank := 1; rank < size; rank++ {
		require.Empty(t, sinks[rank].labels, "rank %d", rank)
	}
}

func TestRunReplicatedInitializesEveryRank(t *testing.T) {
	const size = 3
	calls := make([]int, size)
	err := comm.RunLocal(testCtx(t), size, func(ctx context.Context, c comm.Communicator) error {
		f, err := fabric.NewMessagePassing(c, fabric.WithReplicatedA())
		if err != nil {
			return err
		}
		init := orchestrator.InitFunc(func() (*matrix.Dense, *matrix.Dense, error) {
			calls[c.Rank()]++
			return orchestrator.Sequential{N: 3}.Init()
		})
		return orchestrator.Run(ctx, f, init, &recorder{})
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 1}, calls)
}

func TestRunNonDesignatedSkipsInit(t *testing.T) {
	f := &stubFabric{}
	init := orchestrator.InitFunc(func() (*matrix.Dense, *matrix.Dense, error) {
		t.Fatal("init called on a non-designated worker")
		return nil, nil, nil
	})
	require.NoError(t, orchestrator.Run(testCtx(t), f, init, nil))
	require.Nil(t, f.gotA)
	require.Nil(t, f.gotB)
}

func TestRunFailureRendersNothing(t *testing.T) {
	boom := errors.New("boom")
	f := &stubFabric{designated: true, err: boom}
	rec := &recorder{}

	err := orchestrator.Run(testCtx(t), f, orchestrator.Sequential{N: 2}, rec)
	require.ErrorIs(t, err, boom)
	require.Empty(t, rec.labels)
}

func TestRunConfigurationFailureRendersNothing(t *testing.T) {
	f, err := fabric.NewSharedMemory()
	require.NoError(t, err)
	bad := orchestrator.InitFunc(func() (*matrix.Dense, *matrix.Dense, error) {
		a, _ := matrix.NewDense(2, 3)
		b, _ := matrix.NewDense(2, 3)
		return a, b, nil
	})
	rec := &recorder{}

	err = orchestrator.Run(testCtx(t), f, bad, rec)
	require.ErrorIs(t, err, fabric.ErrConfiguration)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	require.Empty(t, rec.labels)
}

func TestRunArgumentErrors(t *testing.T) {
	ctx := testCtx(t)
	require.ErrorIs(t, orchestrator.Run(ctx, nil, orchestrator.Sequential{N: 2}, &recorder{}), orchestrator.ErrNilFabric)

	f := &stubFabric{designated: true}
	require.ErrorIs(t, orchestrator.Run(ctx, f, nil, &recorder{}), orchestrator.ErrNilInitializer)
	require.ErrorIs(t, orchestrator.Run(ctx, f, orchestrator.Sequential{N: 2}, nil), orchestrator.ErrNilSink)
	require.ErrorIs(t, orchestrator.Run(ctx, f, orchestrator.Sequential{N: 2}, &recorder{}), orchestrator.ErrNoResult)

	_, _, err := orchestrator.Sequential{N: 0}.Init()
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, _, err = orchestrator.Constant{Rows: 2, Cols: 0}.Init()
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}
