// SPDX-License-Identifier: MIT

// Package kernel is the local multiplier: it computes the rows of C = A·B
// that belong to one worker's RowRange.
//
// Contract:
//
//	for i in range, for j in [0, B.Cols), C[i][j] = Σ_k A[i][k]·B[k][j]
//
// with C[i][j] reset to 0 before accumulation. Arithmetic is int32 and wraps
// on overflow. Because modular addition is associative and commutative, the
// loop order (i→k→j here, for a unit-stride inner loop over B's row) yields
// bit-identical results to the textbook i→j→k nest.
//
// The kernel holds no state. Concurrent calls on disjoint row ranges of the
// same C never touch the same memory and need no synchronization.
package kernel
