// SPDX-License-Identifier: MIT

package partition

import (
	"fmt"

	"github.com/samber/lo"
)

// Assign returns the RowRange that worker rank owns when n rows are split
// across p workers.
//
// Implementation:
//   - Stage 1: validate n>0, p>0, 0<=rank<p.
//   - Stage 2: p>n gives one row per low rank and empty ranges above n.
//   - Stage 3: otherwise equal blocks of n/p rows; rank p-1 takes n%p extra.
//
// Errors:
//   - ErrInvalidSize, ErrInvalidWorkers, ErrRankOutOfRange.
//
// Complexity:
//   - Time O(1), Space O(1).
func Assign(n, p, rank int) (RowRange, error) {
	if err := validate(n, p); err != nil {
		return RowRange{}, err
	}
	if rank < 0 || rank >= p {
		return RowRange{}, fmt.Errorf("Assign(rank=%d, workers=%d): %w", rank, p, ErrRankOutOfRange)
	}

	return assign(n, p, rank), nil
}

// Table returns the ranges of every rank in [0, p), indexed by rank.
// Complexity: O(p).
func Table(n, p int) ([]RowRange, error) {
	if err := validate(n, p); err != nil {
		return nil, err
	}

	return lo.Times(p, func(rank int) RowRange { return assign(n, p, rank) }), nil
}

// Verify checks that ranges, taken in rank order, tile [0, n) exactly.
// Every range, empty or not, must start where the previous one ended, and
// the last row covered must be n-1.
func Verify(n int, ranges []RowRange) error {
	if n <= 0 {
		return ErrInvalidSize
	}
	next := 0 // first row not yet covered
	for rank, r := range ranges {
		if r.Start < 0 || r.End > n || r.End < r.Start {
			return fmt.Errorf("Verify: rank %d range %v outside [0,%d): %w", rank, r, n, ErrCoverage)
		}
		if r.Start != next {
			return fmt.Errorf("Verify: rank %d starts at %d, want %d: %w", rank, r.Start, next, ErrCoverage)
		}
		next = r.End
	}
	if next != n {
		return fmt.Errorf("Verify: rows [%d,%d) uncovered: %w", next, n, ErrCoverage)
	}

	return nil
}

func validate(n, p int) error {
	if n <= 0 {
		return fmt.Errorf("rows=%d: %w", n, ErrInvalidSize)
	}
	if p <= 0 {
		return fmt.Errorf("workers=%d: %w", p, ErrInvalidWorkers)
	}

	return nil
}

// assign is Assign without validation.
func assign(n, p, rank int) RowRange {
	if p > n {
		if rank < n {
			return RowRange{Start: rank, End: rank + 1}
		}
		return RowRange{Start: n, End: n} // degenerate: no rows, no error
	}

	rows := n / p
	start := rank * rows
	end := start + rows
	if rank == p-1 {
		end += n % p // last worker absorbs the remainder
	}

	return RowRange{Start: start, End: end}
}
