package kernel_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rowmul/matrix"
)

// mustDense allocates an r×c matrix or fails the test.
func mustDense(tb testing.TB, r, c int) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(tb, err)

	return m
}

// fillRand fills m with small deterministic values in [-span, span].
func fillRand(m *matrix.Dense, seed int64, span int32) {
	rng := rand.New(rand.NewSource(seed))
	data := m.Data()
	for i := range data {
		data[i] = rng.Int31n(2*span+1) - span
	}
}
