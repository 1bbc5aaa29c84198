// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"

	"github.com/katalvlaran/rowmul/matrix"
	"github.com/katalvlaran/rowmul/partition"
)

// op tags for error wrapping.
const (
	opMulRange = "MulRange"
	opRows     = "Rows"
	opProduct  = "Product"
)

func kernelErrorf(op string, err error) error {
	return fmt.Errorf("kernel.%s: %w", op, err)
}

// MulRange computes rows r of a·b in place into c.
// Only rows inside r are written; an empty r is a no-op.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (shapes).
//   - matrix.ErrOutOfRange when r is not within [0, a.Rows()].
//
// Complexity:
//   - Time O(len(r)·a.Cols·b.Cols), Space O(1).
func MulRange(a, b, c *matrix.Dense, r partition.RowRange) error {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return kernelErrorf(opMulRange, err)
	}
	if err := matrix.ValidateProductShape(a, b, c); err != nil {
		return kernelErrorf(opMulRange, err)
	}
	dst, err := c.RowBlock(r.Start, r.End)
	if err != nil {
		return kernelErrorf(opMulRange, err)
	}
	src, _ := a.RowBlock(r.Start, r.End) // same row bounds as c, already checked
	mulInto(dst, src, b.Data(), a.Cols(), b.Cols())

	return nil
}

// Rows returns rows r of a·b as a fresh row-major buffer of r.Len()·b.Cols()
// values. It is a pure function of its inputs.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch, matrix.ErrOutOfRange.
func Rows(a, b *matrix.Dense, r partition.RowRange) ([]int32, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, kernelErrorf(opRows, err)
	}
	src, err := a.RowBlock(r.Start, r.End)
	if err != nil {
		return nil, kernelErrorf(opRows, err)
	}
	dst := make([]int32, r.Len()*b.Cols())
	mulInto(dst, src, b.Data(), a.Cols(), b.Cols())

	return dst, nil
}

// Product computes a·b in a single pass over all rows.
func Product(a, b *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, kernelErrorf(opProduct, err)
	}
	c, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, kernelErrorf(opProduct, err)
	}
	mulInto(c.Data(), a.Data(), b.Data(), a.Cols(), b.Cols())

	return c, nil
}

// mulInto computes dst = aRows · b where aRows holds len(dst)/m rows of
// width k and b is k×m, all row-major.
//
// Loop order i→k→j: the inner loop streams one row of b and one row of dst.
func mulInto(dst, aRows, b []int32, k, m int) {
	var i, kk, j int
	var av int32
	rows := len(dst) / m
	for i = 0; i < rows; i++ {
		out := dst[i*m : (i+1)*m]
		for j = range out {
			out[j] = 0 // reset before accumulation
		}
		aRow := aRows[i*k : (i+1)*k]
		for kk = 0; kk < k; kk++ {
			av = aRow[kk]
			if av == 0 {
				continue // zero contributes nothing
			}
			bRow := b[kk*m : (kk+1)*m]
			for j = 0; j < m; j++ {
				out[j] += av * bRow[j]
			}
		}
	}
}
