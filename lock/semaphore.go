// Package lock provides the synchronization primitives built on top of
// package thread's scheduler: a counting semaphore, a priority-donating
// mutex, and a condition variable. Grounded on the teacher's own
// synchronization code (sync/lock.go, dlock/dlock.go) adapted from a
// distributed file lock to an in-process, donation-aware one — the
// shape (Acquire/Release under a held-by-current-thread invariant) is
// the same; the mechanism underneath is this module's scheduler
// instead of a remote lock service.
package lock

import (
	"kernsched/intr"
	"kernsched/klog"
	"kernsched/olist"
	"kernsched/thread"
)

// Semaphore is a classic counting semaphore: Down blocks while the
// count is zero, Up increments it and wakes the highest-priority
// waiter, if any.
type Semaphore struct {
	value   int
	waiters *olist.List[*thread.Tcb]
}

// NewSemaphore returns a semaphore initialized to value.
func NewSemaphore(value int) *Semaphore {
	klog.Assert(value >= 0, "NewSemaphore: initial value %d must be non-negative", value)
	return &Semaphore{value: value, waiters: olist.New[*thread.Tcb]()}
}

func byPriorityDesc(a, b *thread.Tcb, _ any) bool { return a.Priority() > b.Priority() }

// Down waits for the semaphore's value to become positive, then
// consumes one unit of it.
func (s *Semaphore) Down() {
	klog.Assert(!intr.Context(), "Semaphore.Down: may not be called from interrupt context")
	old := intr.Disable()
	for s.value == 0 {
		cur := thread.Current()
		s.waiters.InsertOrdered(cur.WaitElem(), byPriorityDesc, nil)
		thread.Block()
	}
	s.value--
	intr.SetLevel(old)
}

// TryDown consumes one unit of the semaphore's value without blocking,
// reporting whether it succeeded.
func (s *Semaphore) TryDown() bool {
	old := intr.Disable()
	defer intr.SetLevel(old)
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Up increments the semaphore's value and wakes the highest-priority
// waiter, if any, then checks whether the calling thread should yield
// to it immediately.
func (s *Semaphore) Up() {
	old := intr.Disable()
	if w := s.waiters.PopFront(); w != nil {
		thread.Unblock(w.Value)
	}
	s.value++
	intr.SetLevel(old)
	thread.MaxYield()
}
