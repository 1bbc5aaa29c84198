// SPDX-License-Identifier: MIT

package fabric

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration classifies invalid inputs or settings. The precise
	// cause (matrix.ErrDimensionMismatch, partition.ErrInvalidWorkers, ...)
	// stays matchable with errors.Is.
	ErrConfiguration = errors.New("fabric: invalid configuration")

	// ErrRootRejected is what non-root ranks see when rank 0 refused the inputs.
	ErrRootRejected = errors.New("fabric: root rejected the inputs")

	// ErrContribution reports a gathered row block of the wrong length.
	ErrContribution = errors.New("fabric: contribution has wrong length")

	// ErrRootFailed is what non-root ranks see when rank 0 could not
	// assemble the product after the gather.
	ErrRootFailed = errors.New("fabric: root failed to assemble the result")

	// ErrHeader reports a malformed shape header.
	ErrHeader = errors.New("fabric: malformed shape header")

	// ErrUnknownBackend reports an unrecognised backend name.
	ErrUnknownBackend = errors.New("fabric: unknown backend")
)

func configErrorf(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfiguration, op, err)
}
