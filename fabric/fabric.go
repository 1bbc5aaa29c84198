// SPDX-License-Identifier: MIT

package fabric

import (
	"context"
	"fmt"

	"github.com/katalvlaran/rowmul/matrix"
)

// Fabric multiplies two matrices across a set of workers.
type Fabric interface {
	// Name identifies the backend in logs.
	Name() string

	// Designated reports whether this worker initializes the inputs and
	// receives the result (rank 0, or the single shared-memory caller).
	Designated() bool

	// Multiply returns a·b on the designated worker. Non-designated
	// message-passing ranks pass nil inputs (unless A is replicated) and
	// receive (nil, nil) on success.
	Multiply(ctx context.Context, a, b *matrix.Dense) (*matrix.Dense, error)
}

// Backend names a Fabric implementation.
type Backend string

const (
	BackendSharedMemory   Backend = "shared"
	BackendMessagePassing Backend = "message-passing"
)

// ParseBackend maps a name to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendSharedMemory, BackendMessagePassing:
		return b, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownBackend)
	}
}

// String implements fmt.Stringer.
func (b Backend) String() string { return string(b) }
