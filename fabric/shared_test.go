package fabric_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rowmul/fabric"
	"github.com/katalvlaran/rowmul/kernel"
	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/partition"
	"github.com/katalvlaran/rowmul/workerpool"
)

// TestSharedSequential4x4 checks the first row of the classic 4×4 product across worker counts.
func TestSharedSequential4x4(t *testing.T) {
	a, err := matrix.NewSequential(4)
	require.NoError(t, err)

	for _, p := range []int{1, 2, 3, 4, 7} {
		f, err := fabric.NewSharedMemory(fabric.WithWorkers(p), fabric.WithPoolSize(2))
		require.NoError(t, err)
		require.True(t, f.Designated())
		require.Equal(t, p, f.Workers())

		c, err := f.Multiply(testCtx(t), a, a)
		require.NoError(t, err)
		row, _ := c.RowSlice(0)
		require.Equal(t, []int32{90, 100, 110, 120}, row, "p=%d", p)
	}
}

func TestSharedOnesTimesTwos(t *testing.T) {
	a, _ := matrix.NewFilled(3, 3, 1)
	b, _ := matrix.NewFilled(3, 3, 2)

	f, err := fabric.NewSharedMemory(fabric.WithWorkers(3))
	require.NoError(t, err)
	c, err := f.Multiply(testCtx(t), a, b)
	require.NoError(t, err)
	for _, v := range c.Data() {
		require.Equal(t, int32(6), v)
	}
}

// TestSharedReusesPool runs many products on one caller-owned pool.
func TestSharedReusesPool(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Close()

	f, err := fabric.NewSharedMemory(fabric.WithWorkers(5), fabric.WithPool(pool))
	require.NoError(t, err)
	for seed := int64(0); seed < 8; seed++ {
		a := randDense(t, 11, 11, seed, 40)
		b := randDense(t, 11, 11, seed+100, 40)
		want, err := kernel.Product(a, b)
		require.NoError(t, err)

		got, err := f.Multiply(testCtx(t), a, b)
		require.NoError(t, err)
		require.True(t, want.Equal(got), "seed=%d", seed)
	}
}

func TestSharedDefaultWorkers(t *testing.T) {
	f, err := fabric.NewSharedMemory()
	require.NoError(t, err)
	require.Positive(t, f.Workers())
	require.Equal(t, "shared", f.Name())
}

func TestSharedConfigurationErrors(t *testing.T) {
	_, err := fabric.NewSharedMemory(fabric.WithWorkers(-1))
	require.ErrorIs(t, err, fabric.ErrConfiguration)
	require.ErrorIs(t, err, partition.ErrInvalidWorkers)

	f, err := fabric.NewSharedMemory(fabric.WithWorkers(2))
	require.NoError(t, err)

	a, _ := matrix.NewDense(2, 3)
	b, _ := matrix.NewDense(2, 3)
	_, err = f.Multiply(testCtx(t), a, b)
	require.ErrorIs(t, err, fabric.ErrConfiguration)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = f.Multiply(testCtx(t), nil, b)
	require.ErrorIs(t, err, fabric.ErrConfiguration)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSharedCancelledBeforeStart(t *testing.T) {
	f, err := fabric.NewSharedMemory(fabric.WithWorkers(2))
	require.NoError(t, err)
	a, _ := matrix.NewSequential(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Multiply(ctx, a, a)
	require.ErrorIs(t, err, context.Canceled)
}
