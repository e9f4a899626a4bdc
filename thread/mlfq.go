package thread

import (
	"kernsched/fixed"
	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/klog"
)

var loadAvg fixed.T

// SetNice sets the calling thread's niceness and immediately
// recomputes its MLFQ priority, yielding if some other thread now
// outranks it (spec.md §4.F).
func SetNice(n int) {
	klog.Assert(n >= kconf.NiceMin && n <= kconf.NiceMax, "SetNice: %d out of range [%d, %d]", n, kconf.NiceMin, kconf.NiceMax)
	old := intr.Disable()
	current.nice = n
	recomputeBSDPriority(current)
	intr.SetLevel(old)
	MaxYield()
}

// GetNice returns the calling thread's niceness.
func GetNice() int {
	return current.nice
}

// GetLoadAvg returns the system load average, scaled by 100 and
// rounded to the nearest integer (the conventional BSD load-average
// display convention spec.md §8 tests against).
func GetLoadAvg() int {
	old := intr.Disable()
	defer intr.SetLevel(old)
	return loadAvg.MulInt(100).RoundInt()
}

// GetRecentCpu returns the calling thread's recent_cpu, scaled by 100
// and rounded to the nearest integer.
func GetRecentCpu() int {
	old := intr.Disable()
	defer intr.SetLevel(old)
	return current.recentCpu.MulInt(100).RoundInt()
}

// recomputeBSDPriority assigns t's MLFQ priority from its recent_cpu
// and nice:
//
//	priority = PRI_MAX - recent_cpu/4 - 2*nice
//
// clamped to [PRI_MIN, PRI_MAX], then re-sorts t's position in the
// ready queue if applicable.
func recomputeBSDPriority(t *Tcb) {
	p := fixed.FromInt(kconf.PriMax).
		Sub(t.recentCpu.DivInt(4)).
		SubInt(2 * t.nice).
		TruncInt()

	if p < kconf.PriMin {
		p = kconf.PriMin
	}
	if p > kconf.PriMax {
		p = kconf.PriMax
	}
	t.basePriority = p
	t.priority = p
	reinsertReady(t)
}

// tickBSDVariables runs the MLFQ recurrences the tick handler drives:
// every tick, the running thread's recent_cpu increments by one
// (unless it is the idle thread); once per second (when ticks is a
// multiple of the timer frequency), load_avg and every thread's
// recent_cpu are recomputed from the just-finished second's load.
func tickBSDVariables(ticks uint64) {
	if current != idleThread {
		current.recentCpu = current.recentCpu.AddInt(1)
	}

	if ticks%uint64(kconf.TimerFreqHz) != 0 {
		return
	}

	loadAvg = recalculateLoadAvg()
	allList.Each(recalculateRecentCpu)
}

func recalculateLoadAvg() fixed.T {
	ready := readyThreadsCount()
	c59 := fixed.FromInt(59).DivInt(60)
	c1 := fixed.FromInt(1).DivInt(60)
	return c59.Mul(loadAvg).Add(c1.MulInt(ready))
}

func readyThreadsCount() int {
	n := readyList.Len()
	if current != idleThread {
		n++
	}
	return n
}

// recalculateRecentCpu applies the recent_cpu decay formula:
//
//	recent_cpu = (2*load_avg)/(2*load_avg+1) * recent_cpu + nice
func recalculateRecentCpu(t *Tcb) {
	twoLoad := loadAvg.MulInt(2)
	coeff := twoLoad.Div(twoLoad.AddInt(1))
	t.recentCpu = coeff.Mul(t.recentCpu).AddInt(t.nice)
}
