package thread

import "kernsched/olist"

// ResetForTesting discards all scheduler state, returning the package
// to its condition before Init was ever called. The scheduler is a
// process-wide singleton by design (spec.md's no-SMP model), which
// means tests that want independent scenarios need a way to start
// over; production code has no reason to call this.
func ResetForTesting() {
	readyList = olist.New[*Tcb]()
	allList = olist.New[*Tcb]()
	idleThread = nil
	initialThread = nil
	current = nil
	switchedFrom = nil
	nextTid = 1
	threadTicks = 0
	idleTicks, kernelTicks, userTicks = 0, 0, 0
	loadAvg = 0
	EnableMLFQS = false
}
