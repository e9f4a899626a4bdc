package thread

import (
	"runtime"
	"sync"

	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/klog"
	"kernsched/kpage"
	"kernsched/olist"
	"kernsched/process"
)

// EnableMLFQS selects the BSD MLFQ scheduling policy in place of strict
// priority scheduling. Set it before calling Init; mirrors the -o mlfqs
// boot option.
var EnableMLFQS bool

var (
	readyList = olist.New[*Tcb]()
	allList   = olist.New[*Tcb]()

	idleThread    *Tcb
	initialThread *Tcb
	current       *Tcb
	switchedFrom  *Tcb

	tidMu   sync.Mutex
	nextTid Tid = 1

	threadTicks                        uint
	idleTicks, kernelTicks, userTicks uint64
)

func allocateTid() Tid {
	tidMu.Lock()
	defer tidMu.Unlock()
	t := nextTid
	nextTid++
	return t
}

func priorityDesc(a, b *Tcb, _ any) bool { return a.priority > b.priority }

// Init adopts the calling goroutine as the initial ("main") kernel
// thread, named name, and brings up the scheduler's bookkeeping.
// Mirrors thread_init: it must run before any other thread API call,
// and does not itself start preemption (see Start).
func Init(name string) *Tcb {
	klog.Assert(intr.GetLevel() == intr.Off, "Init: interrupts must be disabled during scheduler bring-up")
	klog.Assert(initialThread == nil, "Init: already initialized")

	t := newTcb(kpage.Alloc(), name, kconf.PriDefault)
	t.tid = allocateTid()
	t.status = StatusRunning
	initialThread = t
	current = t
	return t
}

// Start creates the idle thread and enables interrupts, handing control
// to the scheduler. Mirrors thread_start: it blocks (conceptually)
// until the idle thread has run at least once, so that a subsequent
// Tick call always has a valid idle thread to pick when nothing else is
// ready.
func Start() {
	klog.Assert(current != nil, "Start: Init must run first")

	starter := current
	started := make(chan struct{})
	idle, err := spawn("idle", kconf.PriMin, func(aux any) {
		Unblock(starter)
		idleBody(aux.(chan struct{}))
	}, started)
	klog.Assert(err == nil, "Start: failed to create idle thread: %v", err)
	idleThread = idle

	intr.Enable()
	old := intr.Disable()
	Block()
	intr.SetLevel(old)
	<-started
}

func idleBody(started chan struct{}) {
	close(started)
	for {
		old := intr.Disable()
		Block()
		intr.SetLevel(old)
		intr.Enable()
		runtime.Gosched()
	}
}

// Create spawns a new thread named name at the given initial priority,
// running fn(aux) on its own goroutine once scheduled in. It returns
// ErrNoPages if the simulated page pool is exhausted.
func Create(name string, priority int, fn func(any), aux any) (*Tcb, error) {
	return spawn(name, priority, fn, aux)
}

func spawn(name string, priority int, fn func(any), aux any) (*Tcb, error) {
	page := kpage.Alloc()
	if page == nil {
		return nil, ErrNoPages
	}

	t := newTcb(page, name, priority)
	t.tid = allocateTid()
	t.fn = fn
	t.aux = aux
	// nice and recent_cpu start at zero regardless of policy; under MLFQS
	// the next call to schedule recomputes every thread's priority from
	// them, so t's requested priority only sticks until then.

	go func(t *Tcb) {
		waitToBeResumed(t)
		intr.Enable()
		t.fn(t.aux)
		Exit()
	}(t)

	old := intr.Disable()
	Unblock(t)
	intr.SetLevel(old)
	MaxYield()

	return t, nil
}

// Current returns the thread currently running on the simulated CPU.
func Current() *Tcb {
	assertThread(current, "Current")
	return current
}

// ThreadName returns the calling thread's name. Mirrors thread_name.
func ThreadName() string { return Current().Name() }

// ThreadTid returns the calling thread's unique identifier. Mirrors
// thread_tid.
func ThreadTid() Tid { return Current().Tid() }

// Block transitions the calling thread to BLOCKED and yields the CPU to
// another thread. The caller is responsible for arranging that
// something will eventually Unblock it; Block never returns until that
// happens. Interrupts must already be disabled.
func Block() {
	klog.Assert(intr.GetLevel() == intr.Off, "Block: interrupts must be disabled")
	klog.Assert(!intr.Context(), "Block: may not be called from interrupt context")
	current.status = StatusBlocked
	schedule()
}

// Unblock moves t from BLOCKED to READY and places it on the ready
// queue in priority order. t does not start running immediately, even
// if its priority exceeds the current thread's — the caller decides
// whether to yield (spec.md §4.D).
func Unblock(t *Tcb) {
	assertThread(t, "Unblock")
	old := intr.Disable()
	klog.Assert(t.status == StatusBlocked, "Unblock: thread must be BLOCKED, got %s", t.status)
	t.status = StatusReady
	readyList.InsertOrdered(&t.elem, priorityDesc, nil)
	intr.SetLevel(old)
}

// Yield returns the calling thread to the ready queue and reschedules,
// without blocking on anything. The idle thread never calls Yield; it
// calls Block in its own loop instead, matching the original kernel's
// asymmetric treatment of the two.
func Yield() {
	klog.Assert(!intr.Context(), "Yield: may not be called from interrupt context")
	old := intr.Disable()
	klog.Assert(current != idleThread, "Yield: idle thread must Block, not Yield")
	if current.status != StatusDying {
		current.status = StatusReady
		readyList.InsertOrdered(&current.elem, priorityDesc, nil)
	}
	schedule()
	intr.SetLevel(old)
}

// Exit finalizes the calling thread: status becomes DYING, its address
// space (if any) is torn down, and the scheduler switches away for the
// last time. Exit never returns — its goroutine parks permanently the
// instant the next thread has been signaled, so it never again touches
// scheduler-global state concurrently with whatever runs after it.
func Exit() {
	klog.Assert(!intr.Context(), "Exit: may not be called from interrupt context")
	intr.Disable()
	if current.addrSpace != nil {
		process.Exit(current.addrSpace)
	}
	allList.Remove(&current.allElem)
	current.status = StatusDying
	schedule()
	panic("thread: Exit: a DYING thread was resumed")
}

// ForEach invokes fn(t, aux) once for every thread known to the
// scheduler, in all-threads-list order. Interrupts are disabled for the
// duration, matching thread_foreach's contract that the callback must
// not block or manipulate thread state that requires rescheduling.
func ForEach(fn func(t *Tcb, aux any), aux any) {
	old := intr.Disable()
	defer intr.SetLevel(old)
	allList.Each(func(t *Tcb) { fn(t, aux) })
}

// Stats returns the cumulative idle/kernel/user tick counters
// maintained by the tick handler.
func Stats() (idle, kernel, user uint64) {
	return idleTicks, kernelTicks, userTicks
}

// ThreadPrintStats traces the cumulative tick counters under the
// always-on label. Mirrors thread_print_stats, normally called once at
// shutdown.
func ThreadPrintStats() {
	klog.DPrintf(klog.ALWAYS, "thread stats: idle=%d kernel=%d user=%d", idleTicks, kernelTicks, userTicks)
}

func pickNext() *Tcb {
	if readyList.Empty() {
		klog.Assert(idleThread != nil, "pickNext: ready queue empty but idle thread not started")
		return idleThread
	}
	return readyList.PopFront().Value
}

// schedule picks the next thread to run and, if it differs from the
// calling thread, hands the CPU to it. It must be called with
// interrupts disabled and with current's status already updated to
// whatever non-RUNNING state applies (spec.md §4.D).
func schedule() {
	klog.Assert(intr.GetLevel() == intr.Off, "schedule: interrupts must be disabled")
	cur := current
	klog.Assert(cur == nil || cur.status != StatusRunning, "schedule: calling thread must not still be RUNNING")

	if EnableMLFQS {
		allList.Each(recomputeBSDPriority)
		readyList.Sort(priorityDesc, nil)
	}

	next := pickNext()
	assertThread(next, "schedule")

	if cur != next {
		switchedFrom = cur
		current = next
		next.resume <- struct{}{}
		switch {
		case cur == nil:
			// no prior thread (only possible before Init has run; never in
			// practice, since Init installs current synchronously).
		case cur.status == StatusDying:
			// This goroutine's thread will never run again; park it for
			// good rather than touch any shared state past this point.
			<-make(chan struct{})
		default:
			waitToBeResumed(cur)
		}
		return
	}

	switchedFrom = nil
	scheduleTail()
}

// waitToBeResumed parks t's goroutine until some future schedule() call
// hands the CPU back to it, then runs the switch-tail bookkeeping for
// that hand-off. Used both for a thread's very first dispatch (from its
// trampoline) and every subsequent resumption after schedule blocked it.
func waitToBeResumed(t *Tcb) {
	<-t.resume
	scheduleTail()
}

// scheduleTail runs once per completed switch, on the goroutine of the
// thread that just became current: it finalizes the new thread's
// RUNNING status, resets the per-quantum tick counter, activates the
// new thread's address space if it has one, and reclaims the previous
// thread's page if that thread was exiting. Mirrors thread_schedule_tail.
func scheduleTail() {
	cur := current
	prev := switchedFrom

	klog.Assert(cur.status != StatusRunning || prev == nil, "scheduleTail: inconsistent switch state")
	cur.status = StatusRunning
	threadTicks = 0

	if cur.addrSpace != nil {
		process.Activate(cur.addrSpace)
	}

	if prev != nil && prev.status == StatusDying && prev != initialThread {
		kpage.Free(prev.page)
	}
}
