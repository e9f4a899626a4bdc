// Package thread is the scheduling core: the thread control block, the
// ready queue and context-switch driver, priority donation, the MLFQ
// policy, and the tick handler. It is a process-wide singleton — there
// is exactly one scheduler, matching spec.md's no-SMP, uniprocessor
// design; every exported function operates on that one scheduler's
// state, the same way the original kernel's thread.c exposes a flat set
// of functions over static file-scope state rather than a struct.
package thread

import (
	"kernsched/fixed"
	"kernsched/kconf"
	"kernsched/klog"
	"kernsched/kpage"
	"kernsched/olist"
	"kernsched/process"
)

// Status is one of the four run states a thread can be in (spec.md §3).
type Status int

const (
	StatusBlocked Status = iota
	StatusReady
	StatusRunning
	StatusDying
)

func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "BLOCKED"
	case StatusReady:
		return "READY"
	case StatusRunning:
		return "RUNNING"
	case StatusDying:
		return "DYING"
	default:
		return "UNKNOWN"
	}
}

// Tid is a unique, monotonically allocated thread identifier. There is
// no reuse (spec.md §4.D, "TID allocation").
type Tid uint64

// Lock is the hand-off contract the scheduler needs from a lock
// implementation: nothing more than "who holds you right now". Defined
// here (rather than imported from a lock package) so package thread has
// no dependency on any particular lock implementation — package lock
// depends on thread, not the other way around.
type Lock interface {
	Holder() *Tcb
}

const threadMagic uint32 = 0xc0ffee42

// Tcb is one kernel thread's control block. One Tcb is conceptually one
// page: the zeroed Page backs it, and in a bare-metal kernel the TCB
// would sit at the page's base with the stack growing down from the
// top. Here the "stack" is the thread's own goroutine plus the closure
// state captured when it is spawned (see spawn in sched.go) — the
// Go-idiomatic reading of spec.md §9's note that a managed target may
// emulate context switching with a cooperative fiber primitive.
type Tcb struct {
	tid    Tid
	name   string
	status Status

	basePriority int
	priority     int

	nice      int
	recentCpu fixed.T

	requiredLock Lock
	donations    *olist.List[*Tcb]

	donaElem olist.Elem[*Tcb]
	elem     olist.Elem[*Tcb]
	allElem  olist.Elem[*Tcb]

	addrSpace *process.AddrSpace

	page   *kpage.Page
	resume chan struct{}

	fn  func(any)
	aux any

	magic uint32
}

// isThread reports whether t appears to be a live, uncorrupted TCB —
// the Go analogue of is_thread's magic-number stack-overflow check
// (spec.md §3 invariant 6, §7).
func isThread(t *Tcb) bool {
	return t != nil && t.magic == threadMagic
}

func assertThread(t *Tcb, who string) {
	klog.Assert(isThread(t), "%s: not a valid thread (stack overflow or foreign pointer?)", who)
}

// newTcb allocates a page-backed, BLOCKED TCB named name at the given
// base priority, and registers it on the all-threads list. Mirrors
// init_thread: every thread, including the one later adopted as
// "main", starts life this way.
func newTcb(page *kpage.Page, name string, priority int) *Tcb {
	klog.Assert(priority >= kconf.PriMin && priority <= kconf.PriMax,
		"newTcb: priority %d out of range [%d, %d]", priority, kconf.PriMin, kconf.PriMax)
	klog.Assert(name != "", "newTcb: name must not be empty")

	t := &Tcb{
		name:         name,
		status:       StatusBlocked,
		basePriority: priority,
		priority:     priority,
		donations:    olist.New[*Tcb](),
		page:         page,
		resume:       make(chan struct{}),
		magic:        threadMagic,
	}
	t.donaElem.Value = t
	t.elem.Value = t
	t.allElem.Value = t

	allList.PushBack(&t.allElem)
	return t
}

// Tid returns t's unique identifier.
func (t *Tcb) Tid() Tid { return t.tid }

// Name returns t's short human-readable label.
func (t *Tcb) Name() string { return t.name }

// Status returns t's current run state.
func (t *Tcb) Status() Status { return t.status }

// Priority returns t's effective (donated) priority.
func (t *Tcb) Priority() int { return t.priority }

// BasePriority returns t's last explicitly set priority, ignoring
// donations.
func (t *Tcb) BasePriority() int { return t.basePriority }

// Nice returns t's MLFQ niceness.
func (t *Tcb) Nice() int { return t.nice }

// RecentCpu returns t's MLFQ recent_cpu value, as a raw fixed-point
// number (see GetRecentCpu for the *100-rounded public accessor).
func (t *Tcb) RecentCpu() fixed.T { return t.recentCpu }

// SetAddrSpace attaches an optional user address space to t, used only
// to distinguish user ticks from kernel ticks and to call
// process.Activate on switch-in (spec.md §6).
func (t *Tcb) SetAddrSpace(as *process.AddrSpace) { t.addrSpace = as }

// AddrSpace returns t's attached address space, or nil for a pure
// kernel thread.
func (t *Tcb) AddrSpace() *process.AddrSpace { return t.addrSpace }

// SetRequiredLock records the lock t is about to block on. External
// synchronization primitives must call this before DonatePriority, and
// clear it (SetRequiredLock(nil)) once t acquires the lock, per the
// hand-off contract in spec.md §6.
func (t *Tcb) SetRequiredLock(l Lock) { t.requiredLock = l }

// RequiredLock returns the lock t is currently waiting to acquire, or
// nil.
func (t *Tcb) RequiredLock() Lock { return t.requiredLock }

// DonaElem exposes t's donation-list link element for lock
// implementations that need to inspect donation state directly (tests,
// debugging); scheduler-internal code uses the unexported field.
func (t *Tcb) DonaElem() *olist.Elem[*Tcb] { return &t.donaElem }

// WaitElem exposes t's general-purpose list link for use by whatever
// single wait queue t is blocked on (a semaphore's or condvar's waiter
// list). It is the same link the ready queue uses internally — a
// thread is never on the ready list and a synchronization wait list at
// the same time, so the two uses never collide, exactly as the
// original kernel's struct thread reuses one elem field for both.
func (t *Tcb) WaitElem() *olist.Elem[*Tcb] { return &t.elem }
