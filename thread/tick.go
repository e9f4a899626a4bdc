package thread

import (
	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/timer"
)

// Tick drives one simulated timer interrupt: it advances the clock,
// classifies the elapsed tick against the currently running thread
// (idle, user, or kernel), runs the MLFQ recurrences if enabled, and
// preempts the current thread once it has held the CPU for
// kconf.TimeSlice ticks. Mirrors thread_tick plus the interrupt-return
// path that actually performs the requested yield, since this
// simulation has no separate return-from-interrupt step of its own.
func Tick() {
	var yield bool
	intr.RunInContext(func() {
		n := timer.Tick()

		switch {
		case current == idleThread:
			idleTicks++
		case current.AddrSpace() != nil:
			userTicks++
		default:
			kernelTicks++
		}

		if EnableMLFQS {
			tickBSDVariables(n)
		}

		threadTicks++
		if threadTicks >= kconf.TimeSlice {
			intr.RequestYieldOnReturn()
		}

		yield = intr.TakeYieldOnReturn()
	})

	if yield {
		Yield()
	}
}
