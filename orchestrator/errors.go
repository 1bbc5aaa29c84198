// SPDX-License-Identifier: MIT

package orchestrator

import "errors"

var (
	// ErrNilFabric is returned when Run is called without a fabric.
	ErrNilFabric = errors.New("orchestrator: nil fabric")

	// ErrNilInitializer is returned when a worker that must initialize has no Initializer.
	ErrNilInitializer = errors.New("orchestrator: nil initializer")

	// ErrNilSink is returned when the designated worker has no Sink.
	ErrNilSink = errors.New("orchestrator: nil sink")

	// ErrNoResult is returned when the fabric reports success on the
	// designated worker without a product.
	ErrNoResult = errors.New("orchestrator: fabric returned no result")
)
