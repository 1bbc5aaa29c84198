// SPDX-License-Identifier: MIT

package orchestrator

import (
	"io"

	"github.com/katalvlaran/rowmul/matrix"
)

// Labels rendered by Run, in order.
const (
	LabelA      = "Matrix A"
	LabelB      = "Matrix B"
	LabelResult = "Result Matrix C"
)

// Sink receives the matrices the designated worker renders.
type Sink interface {
	Render(label string, m *matrix.Dense) error
}

// TextSink writes each matrix as a labelled block of space-terminated rows.
type TextSink struct {
	W io.Writer
}

// Render implements Sink.
func (s TextSink) Render(label string, m *matrix.Dense) error {
	return matrix.Render(s.W, label, m)
}

// Discard drops everything. Useful for benchmarks and for large N.
type Discard struct{}

// Render implements Sink.
func (Discard) Render(string, *matrix.Dense) error { return nil }
