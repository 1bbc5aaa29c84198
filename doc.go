// Package rowmul multiplies dense int32 matrices by splitting the rows of
// the product across a set of workers.
//
// What is rowmul?
//
//	A small engine that computes C = A·B in parallel:
//		• Partitioner: contiguous row ranges, one per worker
//		• Local multiplier: the classic triple loop over a row range
//		• Fabrics: message-passing ranks or shared-memory tasks
//		• Orchestrator: initialize, distribute, compute, collect, render
//
// Both fabrics produce bit-identical results for the same inputs, and any
// worker count (even more workers than rows) yields the same C.
//
// Packages, leaf first:
//
//	matrix/       int32 Dense, validators, console rendering
//	partition/    RowRange assignment and coverage checks
//	kernel/       row-range multiplication
//	workerpool/   persistent goroutine pool with a wait-all barrier
//	comm/         Communicator (Broadcast, Gather) and the in-process world
//	comm/tcp/     Communicator over TCP, rank 0 is the hub
//	fabric/       SharedMemory and MessagePassing
//	orchestrator/ one run on one worker
//	config/       YAML run configuration
//	cmd/rowmul/   command line
//
// Quick example, 4×4 matrices of 1..16 on three workers:
//
//	rowmul run --backend message-passing --size 4 --workers 3
//
// prints A, B and the product, whose first row is 90 100 110 120.
package rowmul
