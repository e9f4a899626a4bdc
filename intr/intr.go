// Package intr models the three-level interrupt abstraction spec.md §6
// requires toward the interrupt subsystem: a query level, disable,
// restore, plus an interrupt-context query and a yield-on-return latch.
//
// There is exactly one logical CPU (spec.md's no-SMP non-goal) and the
// scheduler's baton-passing discipline (see package thread) guarantees
// only one goroutine is ever actually running at a time — the others
// are parked receiving on their own resume channel. That is the
// Go-idiomatic stand-in for "disabling interrupts obtains mutual
// exclusion on a uniprocessor" (spec.md §5): these package-level
// variables are never touched concurrently in practice, so they need no
// additional synchronization of their own.
package intr

// Level mirrors enum intr_level: interrupts are either fully enabled or
// fully disabled. There is no notion of nested levels beyond on/off.
type Level int

const (
	On Level = iota
	Off
)

var (
	level       = On
	inContext   bool
	yieldOnExit bool
)

// GetLevel returns the current interrupt level.
func GetLevel() Level { return level }

// Disable turns interrupts off and returns the previous level, so the
// caller can restore it with SetLevel.
func Disable() Level {
	old := level
	level = Off
	return old
}

// SetLevel restores a previously saved level.
func SetLevel(l Level) Level {
	old := level
	level = l
	return old
}

// Enable turns interrupts on unconditionally.
func Enable() { level = On }

// Context reports whether the calling code is running inside an
// (simulated) interrupt handler, e.g. the timer tick handler.
func Context() bool { return inContext }

// RunInContext executes fn as if inside an interrupt handler: Context()
// reports true for its duration. Used by the timer tick handler.
func RunInContext(fn func()) {
	prev := inContext
	inContext = true
	defer func() { inContext = prev }()
	fn()
}

// RequestYieldOnReturn sets the yield-on-return latch. Multiple sets
// during a single (simulated) interrupt handler coalesce into one
// pending reschedule, per spec.md §5's ordering guarantees.
func RequestYieldOnReturn() { yieldOnExit = true }

// TakeYieldOnReturn reports and clears the latch.
func TakeYieldOnReturn() bool {
	v := yieldOnExit
	yieldOnExit = false
	return v
}

// ResetForTesting restores the package to its initial state.
func ResetForTesting() {
	level = On
	inContext = false
	yieldOnExit = false
}
