package thread_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/kpage"
	"kernsched/lock"
	"kernsched/thread"
	"kernsched/timer"
)

func setup(t *testing.T) {
	t.Helper()
	thread.ResetForTesting()
	intr.ResetForTesting()
	timer.ResetForTesting()
	kpage.ResetForTesting()
	intr.Disable()
	thread.Init("main")
	thread.Start()
}

func TestCompile(t *testing.T) {
}

// Three threads of distinct strict priorities run to completion in
// priority order, regardless of creation order, once the thread that
// created them steps out of the way.
func TestStrictPriorityOrdering(t *testing.T) {
	setup(t)

	var order []string
	spawn := func(name string, pri int) {
		_, err := thread.Create(name, pri, func(any) {
			order = append(order, name)
		}, nil)
		require.NoError(t, err)
	}

	spawn("low", kconf.PriDefault-10)
	spawn("high", kconf.PriDefault+10)
	spawn("med", kconf.PriDefault)

	thread.SetPriority(kconf.PriMin)

	assert.Equal(t, []string{"high", "med", "low"}, order)
}

// A lock held by a low-priority thread, contended by a chain of two
// increasingly higher-priority waiters, must lift the holder's
// effective priority to the top of the chain, and unwind it correctly
// as each lock is released (spec.md's nested-donation scenario).
func TestNestedDonationChain(t *testing.T) {
	setup(t)

	var (
		lowPri  = kconf.PriDefault - 10
		medPri  = kconf.PriDefault - 5
		highPri = kconf.PriDefault + 10
	)

	l1 := lock.NewLock()
	l2 := lock.NewLock()
	releaseGate := lock.NewSemaphore(0)

	var order []string

	thread.SetPriority(kconf.PriMin)

	lowTcb, err := thread.Create("low", lowPri, func(any) {
		l1.Acquire()
		releaseGate.Down()
		l1.Release()
		order = append(order, "low")
	}, nil)
	require.NoError(t, err)

	medTcb, err := thread.Create("med", medPri, func(any) {
		l2.Acquire()
		l1.Acquire()
		l1.Release()
		l2.Release()
		order = append(order, "med")
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, medPri, lowTcb.Priority(), "low should have medium's priority donated to it")

	_, err = thread.Create("high", highPri, func(any) {
		l2.Acquire()
		l2.Release()
		order = append(order, "high")
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, highPri, lowTcb.Priority(), "low should have high's priority donated through the chain")
	assert.Equal(t, highPri, medTcb.Priority(), "med should have high's priority donated to it")

	releaseGate.Up()

	// Each release immediately hands the CPU to the next, still-boosted
	// link in the chain, so completion unwinds highest-priority first:
	// high finishes as soon as it acquires L2, then med (which was still
	// holding high's donation right up to its own release of L2), then
	// low last of all.
	assert.Equal(t, []string{"high", "med", "low"}, order)
	assert.Equal(t, lowPri, lowTcb.BasePriority(), "low's base priority is unaffected by donation")
}

// Two threads waiting on the same lock both donate to the holder; the
// holder's effective priority tracks the highest of the two, and
// releasing drops it back to the holder's own base priority, not to
// the remaining donor's (Release strips every donation owed on the
// lock, including the one from the donor still waiting).
func TestMultiDonorDonation(t *testing.T) {
	setup(t)

	var holderPri = kconf.PriDefault - 15
	var donorLowPri = kconf.PriDefault
	var donorHighPri = kconf.PriDefault + 15

	l := lock.NewLock()
	releaseGate := lock.NewSemaphore(0)

	thread.SetPriority(kconf.PriMin)

	holder, err := thread.Create("holder", holderPri, func(any) {
		l.Acquire()
		releaseGate.Down()
		l.Release()
	}, nil)
	require.NoError(t, err)

	_, err = thread.Create("donor-low", donorLowPri, func(any) {
		l.Acquire()
		l.Release()
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, donorLowPri, holder.Priority())

	_, err = thread.Create("donor-high", donorHighPri, func(any) {
		l.Acquire()
		l.Release()
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, donorHighPri, holder.Priority())

	releaseGate.Up()

	assert.Equal(t, holderPri, holder.Priority())
}

// With a single thread as the only contender for the CPU, recent_cpu
// climbs by one per tick and the MLFQ formula pulls priority down from
// PRI_MAX only slightly while recent_cpu stays small.
func TestMLFQSingleThreadBaseline(t *testing.T) {
	setup(t)
	thread.EnableMLFQS = true

	for i := 0; i < 4; i++ {
		thread.Tick()
	}
	thread.Yield()

	recentCpu := thread.GetRecentCpu()
	assert.InDelta(t, 400, recentCpu, 10)

	pri := thread.Current().Priority()
	assert.LessOrEqual(t, pri, kconf.PriMax)
	assert.Greater(t, pri, kconf.PriDefault)
}

// Once a thread exits and some other thread switches away from it, its
// backing page is reclaimed.
func TestExitFreesPage(t *testing.T) {
	setup(t)

	before := kpage.Outstanding()

	_, err := thread.Create("transient", kconf.PriDefault+1, func(any) {}, nil)
	require.NoError(t, err)

	assert.Equal(t, before, kpage.Outstanding())
}

func allThreadsCount() int {
	n := 0
	thread.ForEach(func(*thread.Tcb, any) { n++ }, nil)
	return n
}

// Creating then immediately exiting N threads leaves the all-threads
// list size unchanged from its pre-test value (spec.md's all-threads
// law): each exited thread removes itself from the all-threads list on
// the way to DYING, rather than lingering forever.
func TestExitRemovesFromAllThreadsList(t *testing.T) {
	setup(t)

	before := allThreadsCount()

	for i := 0; i < 5; i++ {
		_, err := thread.Create("transient", kconf.PriDefault+1, func(any) {}, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, before, allThreadsCount())
}
