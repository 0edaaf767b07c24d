// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sema provides a counting semaphore with blocking, non-blocking,
// and timed acquisition.
//
// It is the signalling primitive behind workerpool: producers Post once per
// unit of work, consumers Wait. The count is not bounded above; any number
// of posts may accumulate before a waiter arrives.
package sema

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/semaphore"
)

// capacity is the fixed weight pool backing every Semaphore. The observable
// count is capacity minus the weight currently held, so posting releases
// weight and waiting acquires it.
const capacity = math.MaxInt64

// Semaphore is a counting semaphore. Post increments the count; Wait,
// TryWait and WaitTimeout decrement it, blocking or failing while it is
// zero. All methods are safe for concurrent use.
//
// The zero value is not usable; call New or NewCount.
type Semaphore struct {
	w *semaphore.Weighted
}

// New returns a semaphore with a count of zero.
func New() *Semaphore { return NewCount(0) }

// NewCount returns a semaphore whose count starts at n.
// It panics if n is negative.
func NewCount(n int64) *Semaphore {
	if n < 0 {
		panic("sema: negative initial count")
	}
	w := semaphore.NewWeighted(capacity)
	// Hold back everything except the initial count.
	if !w.TryAcquire(capacity - n) {
		panic("sema: failed to reserve capacity")
	}
	return &Semaphore{w: w}
}

// Post increments the count, waking one waiter if any are blocked.
func (s *Semaphore) Post() {
	s.w.Release(1)
}

// Wait blocks until the count is positive, then decrements it.
func (s *Semaphore) Wait() {
	if err := s.w.Acquire(context.Background(), 1); err != nil {
		// Acquire cannot fail without a cancelable context.
		panic("sema: wait failed: " + err.Error())
	}
}

// TryWait decrements the count without blocking. It reports whether the
// count was positive.
func (s *Semaphore) TryWait() bool {
	return s.w.TryAcquire(1)
}

// WaitTimeout is Wait bounded by d; it reports whether the semaphore was
// acquired. A negative d waits forever.
func (s *Semaphore) WaitTimeout(d time.Duration) bool {
	if d < 0 {
		s.Wait()
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.w.Acquire(ctx, 1) == nil
}
