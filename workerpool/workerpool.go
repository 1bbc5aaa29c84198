// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool is the parallel task runner of the shared-memory
// fabric: a persistent set of goroutines that executes indexed tasks and
// blocks the caller until every task has finished.
//
// The join point is a sync.WaitGroup per Run call. WaitGroup.Wait returns
// only after every Done, and each Done happens after its task body, so all
// writes a task makes are visible to the caller once Run returns.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.Run(tasks, func(task int) {
//	    computeRows(task)
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool that can be reused across many runs.
// Workers are spawned once at creation and live until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem is one task of one Run call.
type workItem struct {
	fn      func(task int)
	task    int
	barrier *sync.WaitGroup
}

// New creates a pool with numWorkers goroutines.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn(item.task)
		item.barrier.Done()
	}
}

// NumWorkers returns the number of goroutines in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the pool down after pending work drains.
// Calling Close multiple times is safe. Run must not be called concurrently
// with Close.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run executes fn(task) for every task in [0, tasks) and returns once all
// of them have completed. The number of tasks is independent of the number
// of workers: surplus tasks queue behind busy workers.
//
// A closed pool runs the tasks sequentially on the caller's goroutine.
func (p *Pool) Run(tasks int, fn func(task int)) {
	if tasks <= 0 {
		return
	}
	if p.closed.Load() {
		for task := range tasks {
			fn(task)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(tasks)
	for task := range tasks {
		p.workC <- workItem{fn: fn, task: task, barrier: &wg}
	}
	wg.Wait() // join point
}
