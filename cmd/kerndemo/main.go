// Command kerndemo exercises the scheduling core end to end: strict
// priority donation under one boot configuration, the BSD MLFQ policy
// under another, driven by a simulated timer. It is a thin runnable
// main wiring the public thread/lock API, the way the teacher's own
// cmd/ binaries wire a single package's public surface and nothing
// more.
package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"kernsched/intr"
	"kernsched/kconf"
	"kernsched/klog"
	"kernsched/lock"
	"kernsched/thread"
)

func main() {
	mlfqs := flag.Bool("mlfqs", false, "use the BSD MLFQ scheduler instead of strict priority donation")
	ticks := flag.Uint("ticks", uint(kconf.TimerFreqHz), "number of simulated timer ticks to run")
	flag.Parse()

	thread.EnableMLFQS = *mlfqs

	intr.Disable()
	thread.Init("main")
	thread.Start()

	if *mlfqs {
		runMLFQDemo(int(*ticks))
	} else {
		runDonationDemo()
	}
}

func runDonationDemo() {
	klog.DPrintf(klog.ALWAYS, "donation demo: low holds a lock, high contends for it")

	l := lock.NewLock()
	done := lock.NewSemaphore(0)

	thread.SetPriority(kconf.PriMin)

	low, err := thread.Create("low", kconf.PriDefault-10, func(any) {
		l.Acquire()
		fmt.Println("low: acquired the lock")
		done.Down()
		l.Release()
		fmt.Println("low: released the lock")
	}, nil)
	if err != nil {
		klog.DFatalf("runDonationDemo: failed to create low: %v", err)
	}

	fmt.Printf("low priority before contention: %d\n", low.Priority())

	_, err = thread.Create("high", kconf.PriDefault+10, func(any) {
		l.Acquire()
		fmt.Println("high: acquired the lock")
		l.Release()
	}, nil)
	if err != nil {
		klog.DFatalf("runDonationDemo: failed to create high: %v", err)
	}

	fmt.Printf("low priority after contention: %d (donated)\n", low.Priority())
	done.Up()
}

func runMLFQDemo(ticks int) {
	klog.DPrintf(klog.ALWAYS, "mlfq demo: running %d simulated ticks under BSD scheduling", ticks)

	for name, nice := range map[string]int{"background": 10, "interactive": -10} {
		name, nice := name, nice
		_, err := thread.Create(name, kconf.PriDefault, func(any) {
			thread.SetNice(nice)
			for i := 0; i < ticks; i++ {
				thread.Tick()
			}
		}, nil)
		if err != nil {
			klog.DFatalf("runMLFQDemo: failed to create %s: %v", name, err)
		}
	}

	for i := 0; i < ticks; i++ {
		thread.Tick()
	}

	idle, kernel, user := thread.Stats()
	fmt.Printf("load_avg=%d idle_ticks=%d kernel_ticks=%d user_ticks=%d\n",
		thread.GetLoadAvg(), idle, kernel, user)

	zap.L().Sync()
}
