package lock

import (
	"kernsched/intr"
	"kernsched/klog"
	"kernsched/olist"
	"kernsched/thread"
)

// waiter is one thread's private rendezvous point while parked on a
// Cond: each call to Wait gets its own one-shot semaphore rather than
// sharing the Lock's, so Signal can wake exactly one waiter regardless
// of how many are queued.
type waiter struct {
	sema     *Semaphore
	priority int
	elem     olist.Elem[*waiter]
}

// Cond is a condition variable used together with a Lock, in the usual
// Mesa-style discipline: Wait atomically releases the lock and blocks,
// re-acquiring it before returning.
type Cond struct {
	waiters *olist.List[*waiter]
}

// NewCond returns a new, empty condition variable.
func NewCond() *Cond {
	return &Cond{waiters: olist.New[*waiter]()}
}

func waiterPriorityDesc(a, b *waiter, _ any) bool { return a.priority > b.priority }

// Wait releases l, blocks until signaled, then re-acquires l before
// returning. The caller must hold l.
func (c *Cond) Wait(l *Lock) {
	klog.Assert(l.HeldByCurrent(), "Cond.Wait: lock not held by the calling thread")

	w := &waiter{sema: NewSemaphore(0), priority: thread.GetPriority()}
	w.elem.Value = w
	c.waiters.InsertOrdered(&w.elem, waiterPriorityDesc, nil)

	l.Release()
	w.sema.Down()
	l.Acquire()
}

// Signal wakes the highest-priority thread waiting on c, if any. The
// caller must hold l.
func (c *Cond) Signal(l *Lock) {
	klog.Assert(l.HeldByCurrent(), "Cond.Signal: lock not held by the calling thread")

	old := intr.Disable()
	e := c.waiters.PopFront()
	intr.SetLevel(old)

	if e != nil {
		e.Value.sema.Up()
	}
}

// Broadcast wakes every thread currently waiting on c. The caller must
// hold l.
func (c *Cond) Broadcast(l *Lock) {
	for !c.waiters.Empty() {
		c.Signal(l)
	}
}
