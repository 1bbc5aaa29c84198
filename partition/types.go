// SPDX-License-Identifier: MIT

package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize is returned when the row count N is not positive.
	ErrInvalidSize = errors.New("partition: row count must be > 0")

	// ErrInvalidWorkers is returned when the worker count P is not positive.
	ErrInvalidWorkers = errors.New("partition: worker count must be > 0")

	// ErrRankOutOfRange is returned when rank is outside [0, P).
	ErrRankOutOfRange = errors.New("partition: rank out of range")

	// ErrCoverage is returned by Verify when ranges leave a gap or overlap.
	ErrCoverage = errors.New("partition: ranges do not cover rows exactly")
)

// RowRange is the half-open interval [Start, End) of row indices owned by
// one worker for writing. Start == End denotes an empty range.
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.End - r.Start }

// Empty reports whether the range holds no rows.
func (r RowRange) Empty() bool { return r.End <= r.Start }

// Contains reports whether row i lies in [Start, End).
func (r RowRange) Contains(i int) bool { return i >= r.Start && i < r.End }

// String renders the range as "[start,end)".
func (r RowRange) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }
