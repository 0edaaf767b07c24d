// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package workerpool runs a fixed set of worker goroutines driven by a
// counting semaphore.
//
// The pool owns no queue. Callers keep their own queue (a channel, a list
// under a mutex) and post the pool's work semaphore once per enqueued unit;
// each post wakes one worker, which calls the Worker's DoWork method to pull
// and execute one unit. This keeps the pool reusable for any queue shape and
// makes suspension cheap: the pool gates execution with a second, internal
// semaphore of active slots rather than touching the queue.
//
// A pool starts suspended with zero workers:
//
//	pool := workerpool.New(worker)
//	pool.Resize(4)
//	pool.Resume()
//	for _, job := range jobs {
//	    queue <- job
//	    pool.WorkSemaphore().Post()
//	}
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/forge"
	"github.com/gogpu/forge/sema"
)

// Worker supplies the pool with its unit of execution.
//
// DoWork runs on a worker goroutine once per work-semaphore post. It may
// also be called spuriously: a shrink or Close consumes work posts without
// doing the work, and the surviving posts wake workers later with nothing
// to do. DoWork must therefore tolerate finding its queue empty.
type Worker interface {
	// DoWork executes one unit of work, or nothing if none is pending.
	DoWork()

	// Name labels the pool in logs and diagnostics.
	Name() string
}

// Pool manages a set of worker goroutines that execute a Worker's DoWork.
//
// A new pool is suspended and has zero workers; call Resize and Resume to
// start it. All methods are safe for concurrent use, but must not be called
// from inside DoWork: Suspend, Resize and Close wait for in-flight DoWork
// calls to finish and would deadlock on their caller's own slot.
type Pool struct {
	worker Worker

	// work is posted by callers once per unit of pending work; workers
	// consume one post per DoWork call. Never drained by the pool.
	work *sema.Semaphore

	// active holds one slot per worker allowed to execute. Suspension
	// reclaims every slot; resumption hands them back.
	active *sema.Semaphore

	mu        sync.Mutex // guards threads, suspended, and all reconfiguration
	threads   int
	suspended bool
	wg        sync.WaitGroup

	// killing and transitioning are read by the worker hot loop without
	// the mutex, so they are atomics. transitioning is set while Suspend
	// or a kill is in progress; killing only during a kill.
	killing       atomic.Bool
	transitioning atomic.Bool
}

// New returns a pool that will run the given worker. It panics if worker is
// nil. The pool starts suspended with zero workers.
func New(worker Worker) *Pool {
	if worker == nil {
		panic("workerpool: nil worker")
	}
	return &Pool{
		worker:    worker,
		work:      sema.New(),
		active:    sema.New(),
		suspended: true,
	}
}

// Name returns the worker's name.
func (p *Pool) Name() string { return p.worker.Name() }

// WorkSemaphore returns the semaphore callers post to signal pending work,
// one post per unit. The pool never drains it, so posts made while the pool
// is suspended or empty are consumed once workers are available.
func (p *Pool) WorkSemaphore() *sema.Semaphore { return p.work }

// Resize sets the number of worker goroutines. Growing spawns workers one
// at a time; while the pool is suspended they stay parked until Resume.
// Shrinking is coarse: there is no way to single out one goroutine to stop,
// so the pool kills all of them and respawns the requested count. A
// negative count is treated as zero.
func (p *Pool) Resize(count int) {
	if count < 0 {
		count = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if count < p.threads {
		p.killAllLocked()
	}
	for p.threads < count {
		p.wg.Add(1)
		go p.run()
		p.threads++
		if !p.suspended {
			p.active.Post()
		}
	}
	forge.Logger().Debug("workerpool: resized", "name", p.worker.Name(), "workers", p.threads)
}

// Suspend stops workers from starting new work and waits for in-flight
// DoWork calls to finish. It is a no-op if the pool is already suspended.
//
// Workers that have already consumed a work post but not yet begun may each
// complete one DoWork before the suspension settles; Suspend does not
// return until they have.
func (p *Pool) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspended {
		return
	}
	p.suspended = true

	// Reclaim every active slot so no worker can enter DoWork once this
	// completes. Workers spin past the wait chain while this is set.
	p.transitioning.Store(true)
	for range p.threads {
		p.active.Wait()
	}
	p.transitioning.Store(false)
}

// Resume lets workers execute again, handing one active slot to each. It is
// a no-op if the pool is not suspended.
func (p *Pool) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.suspended {
		return
	}
	p.suspended = false
	for range p.threads {
		p.active.Post()
	}
}

// IsSuspended reports whether the pool is suspended.
func (p *Pool) IsSuspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspended
}

// Close stops all worker goroutines and waits for them to exit, regardless
// of suspension state. The pool may be resized back up afterward.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killAllLocked()
}

// run is the worker goroutine body.
func (p *Pool) run() {
	defer p.wg.Done()
	for {
		for p.transitioning.Load() {
			if p.killing.Load() {
				// A kill is in progress on another goroutine; exit so
				// it can join.
				return
			}
			// A Suspend is draining slots; stay out of the wait chain
			// until it settles.
			runtime.Gosched()
		}

		// Wake on posted work, then claim the right to execute.
		p.work.Wait()
		p.active.Wait()
		p.worker.DoWork()
		p.active.Post()
	}
}

// killAllLocked stops every worker goroutine and waits for them to exit.
// The caller must hold p.mu.
func (p *Pool) killAllLocked() {
	p.killing.Store(true)
	p.transitioning.Store(true)

	// Unblock every goroutine from whichever semaphore it is parked on.
	for range p.threads {
		p.work.Post()
		p.active.Post()
	}
	p.wg.Wait()

	killed := p.threads
	p.threads = 0
	p.transitioning.Store(false)
	p.killing.Store(false)

	// Drain leftover active slots. The work semaphore is deliberately left
	// alone: exiting workers may have consumed posts without doing the
	// work, and posts that survive here wake a future worker with nothing
	// to do — the reason DoWork must tolerate spurious calls.
	for p.active.TryWait() {
	}

	if killed > 0 {
		forge.Logger().Debug("workerpool: stopped all workers", "name", p.worker.Name(), "workers", killed)
	}
}
