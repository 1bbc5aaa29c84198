// SPDX-License-Identifier: MIT

package orchestrator

import (
	"fmt"

	"github.com/katalvlaran/rowmul/matrix"
)

// Initializer produces the operands of a run.
type Initializer interface {
	Init() (a, b *matrix.Dense, err error)
}

// InitFunc adapts a plain function to Initializer.
type InitFunc func() (a, b *matrix.Dense, err error)

// Init implements Initializer.
func (f InitFunc) Init() (*matrix.Dense, *matrix.Dense, error) { return f() }

// Sequential fills A and B with 1..N*N in row-major order.
type Sequential struct {
	N int
}

// Init implements Initializer.
func (s Sequential) Init() (*matrix.Dense, *matrix.Dense, error) {
	a, err := matrix.NewSequential(s.N)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator.Sequential(%d): %w", s.N, err)
	}

	return a, a.Clone(), nil
}

// Constant fills A (Rows×Cols) with the value A and B (Cols×Rows) with the
// value B, so every element of C equals Cols*A*B (mod 2^32).
type Constant struct {
	Rows, Cols int
	A, B       int32
}

// Init implements Initializer.
func (c Constant) Init() (*matrix.Dense, *matrix.Dense, error) {
	a, err := matrix.NewFilled(c.Rows, c.Cols, c.A)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator.Constant(A): %w", err)
	}
	b, err := matrix.NewFilled(c.Cols, c.Rows, c.B)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrator.Constant(B): %w", err)
	}

	return a, b, nil
}
