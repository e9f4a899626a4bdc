package thread

import (
	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/klog"
	"kernsched/olist"
)

// DonatePriority walks the chain of locks t is waiting on, raising each
// holder's effective priority to match, so that a high-priority thread
// is never stuck behind a lower-priority one that merely got there
// first (spec.md §4.E). The chain is assumed acyclic (invariant: a
// thread's required_lock is always set before the thread blocks, and
// its holder is always someone else) — donation is always initiated
// with t equal to the currently running thread. Must run with
// interrupts already disabled.
func DonatePriority(t *Tcb) {
	klog.Assert(intr.GetLevel() == intr.Off, "DonatePriority: interrupts must be disabled")
	assertThread(t, "DonatePriority")

	for t.requiredLock != nil {
		ResetPriority(t)

		holder := t.requiredLock.Holder()
		klog.Assert(holder != t, "DonatePriority: thread required_lock resolves to itself")
		klog.Assert(holder != nil, "DonatePriority: required_lock set but has no holder")
		assertThread(holder, "DonatePriority")

		if current != t {
			RemoveDonation(t)
		}

		holder.donations.InsertOrdered(&t.donaElem, donationDesc, nil)
		t = holder
	}
	ResetPriority(t)
}

// RemoveDonation detaches t's donation-list link from whichever holder
// it is currently threaded into, if any. Must run with interrupts
// already disabled.
func RemoveDonation(t *Tcb) {
	klog.Assert(intr.GetLevel() == intr.Off, "RemoveDonation: interrupts must be disabled")
	assertThread(t, "RemoveDonation")
	olist.Detach(&t.donaElem)
}

// ResetPriority recomputes t's effective priority from its base
// priority and the highest-priority donation it currently holds (if
// any), then re-sorts t's position in the ready queue if it is READY.
// Exported because lock implementations call it directly on release,
// per the hand-off contract in spec.md §6.
func ResetPriority(t *Tcb) {
	assertThread(t, "ResetPriority")
	old := intr.Disable()
	defer intr.SetLevel(old)

	effective := t.basePriority
	if !t.donations.Empty() {
		if donated := t.donations.Front().Value.priority; donated > effective {
			effective = donated
		}
	}
	t.priority = effective
	reinsertReady(t)
}

func reinsertReady(t *Tcb) {
	if t.status != StatusReady {
		return
	}
	klog.Assert(intr.GetLevel() == intr.Off, "reinsertReady: interrupts must be disabled")
	readyList.Remove(&t.elem)
	readyList.InsertOrdered(&t.elem, priorityDesc, nil)
}

func donationDesc(a, b *Tcb, _ any) bool { return a.priority > b.priority }

// RemoveDonationsFor strips every entry in t's donation list whose
// donor is currently queued on lock specifically, leaving donations
// owed on account of any other lock t simultaneously holds untouched.
// Used by a lock implementation when releasing, since a thread's
// single donations list aggregates donors across every lock it holds
// at once. Must run with interrupts already disabled.
func RemoveDonationsFor(t *Tcb, l Lock) {
	klog.Assert(intr.GetLevel() == intr.Off, "RemoveDonationsFor: interrupts must be disabled")
	assertThread(t, "RemoveDonationsFor")
	t.donations.RemoveIf(func(donor *Tcb) bool {
		return donor.requiredLock == l
	})
}

// SetPriority sets the calling thread's base priority directly. Under
// the MLFQ policy priority is derived automatically and this call is a
// no-op (spec.md §4.F, "incompatible with strict-priority donation").
func SetPriority(p int) {
	klog.Assert(p >= kconf.PriMin && p <= kconf.PriMax, "SetPriority: %d out of range [%d, %d]", p, kconf.PriMin, kconf.PriMax)
	if EnableMLFQS {
		return
	}
	current.basePriority = p
	ResetPriority(current)
	MaxYield()
}

// GetPriority returns the calling thread's current effective priority.
func GetPriority() int {
	return current.priority
}

// MaxYield reschedules the calling thread if some ready thread now
// outranks it — immediately if not already in a tick handler, or by
// latching a yield-on-return if called from one (spec.md §5's ordering
// guarantee: a handler never yields mid-handler). Exported so
// synchronization primitives can request the same preemption check
// after unblocking a higher-priority waiter.
func MaxYield() {
	if maxReadyPriority() <= GetPriority() {
		return
	}
	if intr.Context() {
		intr.RequestYieldOnReturn()
		return
	}
	Yield()
}

func maxReadyPriority() int {
	old := intr.Disable()
	defer intr.SetLevel(old)
	if readyList.Empty() {
		return kconf.PriMin - 1
	}
	return readyList.Front().Value.priority
}
