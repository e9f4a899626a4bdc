package lock

import (
	"kernsched/intr"
	"kernsched/klog"
	"kernsched/thread"
)

// Lock is a mutual-exclusion lock that participates in priority
// donation: a thread blocked trying to Acquire a held Lock donates its
// priority up through whatever chain of locks the holder is itself
// waiting on (spec.md §4.E, §6's required_lock/holder hand-off
// contract). Under the MLFQ policy donation is skipped entirely, since
// priority there is derived automatically from recent_cpu and nice.
type Lock struct {
	sema   *Semaphore
	holder *thread.Tcb
}

// NewLock returns an unheld lock.
func NewLock() *Lock {
	return &Lock{sema: NewSemaphore(1)}
}

// Holder satisfies thread.Lock: it reports who currently holds l, or
// nil. Used by DonatePriority to walk the donation chain.
func (l *Lock) Holder() *thread.Tcb {
	return l.holder
}

// HeldByCurrent reports whether the calling thread currently holds l.
func (l *Lock) HeldByCurrent() bool {
	return l.holder == thread.Current()
}

// Acquire blocks until l is free, then takes it. If l is already held
// and the MLFQ policy is off, the calling thread donates its priority
// to the chain of threads blocking progress before waiting.
func (l *Lock) Acquire() {
	klog.Assert(!intr.Context(), "Lock.Acquire: may not be called from interrupt context")
	klog.Assert(!l.HeldByCurrent(), "Lock.Acquire: already held by the calling thread")

	cur := thread.Current()
	if !thread.EnableMLFQS {
		old := intr.Disable()
		if l.holder != nil {
			cur.SetRequiredLock(l)
			thread.DonatePriority(cur)
		}
		intr.SetLevel(old)
	}

	l.sema.Down()

	old := intr.Disable()
	cur.SetRequiredLock(nil)
	l.holder = cur
	intr.SetLevel(old)
}

// TryAcquire takes l without blocking, reporting whether it succeeded.
// It never donates, since a non-blocking caller was never queued.
func (l *Lock) TryAcquire() bool {
	klog.Assert(!l.HeldByCurrent(), "Lock.TryAcquire: already held by the calling thread")
	if !l.sema.TryDown() {
		return false
	}
	old := intr.Disable()
	l.holder = thread.Current()
	intr.SetLevel(old)
	return true
}

// Release gives up l. Any donations owed specifically on l's account
// are stripped from the releasing thread's donation list before its
// own priority is recomputed, so a thread holding several locks keeps
// the donations it still owes on the others.
func (l *Lock) Release() {
	klog.Assert(l.HeldByCurrent(), "Lock.Release: not held by the calling thread")

	old := intr.Disable()
	cur := l.holder
	l.holder = nil
	if !thread.EnableMLFQS {
		thread.RemoveDonationsFor(cur, l)
		thread.ResetPriority(cur)
	}
	intr.SetLevel(old)

	l.sema.Up()
}
