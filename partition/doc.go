// SPDX-License-Identifier: MIT

// Package partition assigns contiguous, half-open row ranges to workers.
//
// Rule (P workers, N rows):
//
//	P <= N: rows := N / P, rem := N % P
//	        rank r gets [r*rows, r*rows+rows); rank P-1 also absorbs rem.
//	P >  N: rank r < N gets exactly [r, r+1); rank r >= N gets the empty [N, N).
//
// The last-worker remainder concentrates imbalance on rank P-1. That is the
// documented trade-off of the scheme: the split is deterministic, computed
// from (N, P, rank) alone, and needs no communication.
//
// Example (N=4, P=3):
//
//	rank 0 → [0,1)   rank 1 → [1,2)   rank 2 → [2,4)
package partition
