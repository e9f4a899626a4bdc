package lock_test

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

// A semaphore wakes its waiters in priority order, not FIFO order, even
// when the lower-priority waiter blocked first.
func TestSemaphoreWakesHighestPriorityFirst(t *testing.T) {
	setup(t)

	sema := lock.NewSemaphore(0)
	var order []string

	thread.SetPriority(kconf.PriMin)

	_, err := thread.Create("low", kconf.PriDefault-5, func(any) {
		sema.Down()
		order = append(order, "low")
	}, nil)
	require.NoError(t, err)

	_, err = thread.Create("high", kconf.PriDefault+5, func(any) {
		sema.Down()
		order = append(order, "high")
	}, nil)
	require.NoError(t, err)

	sema.Up()
	sema.Up()

	assert.Equal(t, []string{"high", "low"}, order)
}

// TryAcquire succeeds on a free lock without blocking the caller, and
// Release gives the lock up again.
func TestLockTryAcquire(t *testing.T) {
	setup(t)

	l := lock.NewLock()
	require.True(t, l.TryAcquire())
	assert.True(t, l.HeldByCurrent())

	l.Release()
	assert.False(t, l.HeldByCurrent())
}

// A Cond wakes a Wait-ing thread on Signal, and the waiter reacquires
// the lock before Wait returns.
func TestCondSignalWakesWaiter(t *testing.T) {
	setup(t)

	l := lock.NewLock()
	c := lock.NewCond()
	var woke bool

	thread.SetPriority(kconf.PriMin)

	_, err := thread.Create("waiter", kconf.PriDefault, func(any) {
		l.Acquire()
		c.Wait(l)
		woke = true
		l.Release()
	}, nil)
	require.NoError(t, err)

	l.Acquire()
	c.Signal(l)
	l.Release()

	assert.True(t, woke)
}

// Broadcast wakes every waiter currently queued on the condition
// variable, not just the highest-priority one.
func TestCondBroadcastWakesAll(t *testing.T) {
	setup(t)

	l := lock.NewLock()
	c := lock.NewCond()
	woke := map[string]bool{}

	thread.SetPriority(kconf.PriMin)

	for _, name := range []string{"a", "b", "c"} {
		name := name
		_, err := thread.Create(name, kconf.PriDefault, func(any) {
			l.Acquire()
			c.Wait(l)
			woke[name] = true
			l.Release()
		}, nil)
		require.NoError(t, err)
	}

	l.Acquire()
	c.Broadcast(l)
	l.Release()

	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, woke)
}
