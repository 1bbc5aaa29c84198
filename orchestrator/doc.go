// SPDX-License-Identifier: MIT

// Package orchestrator drives one multiplication run on a worker:
// initialize the inputs, hand them to a fabric.Fabric, and render the
// operands and the product on the designated worker.
//
// The same Run call is made on every worker of a run. Only the designated
// worker (rank 0, or the shared-memory caller) initializes and renders;
// the others just take part in the fabric's collectives.
//
// TextSink writes "Matrix A:" on its own line followed by one line per row,
// each value followed by a single space.
package orchestrator
