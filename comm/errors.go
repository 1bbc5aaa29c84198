// SPDX-License-Identifier: MIT

package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks every failed collective. Callers match it with
	// errors.Is to classify a run-level transport failure.
	ErrTransport = errors.New("comm: collective failed")

	// ErrAborted reports that another rank failed and the world was torn down.
	ErrAborted = errors.New("comm: world aborted")

	// ErrClosed reports use of a communicator after Close.
	ErrClosed = errors.New("comm: communicator closed")

	// ErrRootOutOfRange reports a root rank outside [0, Size()).
	ErrRootOutOfRange = errors.New("comm: root out of range")

	// ErrInvalidSize reports a world size that is not positive.
	ErrInvalidSize = errors.New("comm: world size must be > 0")

	// ErrMismatch reports ranks that disagree on which collective is running.
	ErrMismatch = errors.New("comm: collective mismatch")
)

// TransportErrorf wraps cause as a transport failure of op on rank.
// Both ErrTransport and cause remain matchable with errors.Is.
func TransportErrorf(op string, rank int, cause error) error {
	return fmt.Errorf("%w: %s on rank %d: %w", ErrTransport, op, rank, cause)
}
