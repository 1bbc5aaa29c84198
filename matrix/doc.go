// SPDX-License-Identifier: MIT

// Package matrix provides the dense integer matrix used by the rowmul engine.
//
// What & Why:
//
//	Dense is a row-major rows×cols container of int32 values stored in one
//	flat slice (offset = i*cols + j). Every row has the same length by
//	construction, so a contiguous run of rows is also a contiguous run of the
//	backing slice. The fabrics rely on this: a RowRange [start, end) maps to
//	data[start*cols : end*cols] with no copying or pointer arithmetic.
//
// Numeric policy:
//
//	Elements are 32-bit signed integers. Products and sums wrap on overflow
//	(two's complement), exactly as Go defines int32 arithmetic. Results are
//	therefore bit-identical regardless of how rows are split across workers.
//
// Errors:
//
//	Public accessors never panic on user input; they return the sentinels in
//	errors.go wrapped with call-site context. Match them with errors.Is.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); RowSlice: O(1).
package matrix
