// Package timer stands in for the hardware timer device (spec.md §6
// names it an out-of-scope external collaborator): a monotonically
// increasing tick counter and a fixed tick frequency, nothing more. The
// in-scope tick handler lives in package thread; callers drive it by
// calling thread.Tick, which advances this clock itself.
package timer

import "kernsched/kconf"

var ticks uint64

// Tick advances the simulated clock by one tick and returns the new
// tick count.
func Tick() uint64 {
	ticks++
	return ticks
}

// Ticks returns the current tick count without advancing it.
func Ticks() uint64 {
	return ticks
}

// ResetForTesting zeroes the simulated clock.
func ResetForTesting() {
	ticks = 0
}

// Freq returns the timer's tick frequency in Hz.
func Freq() uint {
	return kconf.TimerFreqHz
}
