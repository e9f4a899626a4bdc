// Package klog provides labeled kernel tracing. Tracing is gated by the
// KERNDEBUG environment variable, a semicolon-separated list of labels
// (e.g. "SCHED;DONATE"), mirroring the teacher's SIGMADEBUG convention.
package klog

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ALWAYS is the label that is traced regardless of KERNDEBUG's contents.
const ALWAYS = "STATUS"

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

func sugared() *zap.SugaredLogger {
	once.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			// Fall back to a no-op logger rather than crash tracing itself.
			l = zap.NewNop()
		}
		logger = l.Sugar()
	})
	return logger
}

func labels() map[string]bool {
	m := make(map[string]bool)
	s := os.Getenv("KERNDEBUG")
	if s == "" {
		return m
	}
	for _, l := range strings.Split(s, ";") {
		m[l] = true
	}
	return m
}

// DPrintf traces a formatted message under label, if label is enabled.
func DPrintf(label string, format string, v ...interface{}) {
	m := labels()
	if _, ok := m[label]; ok || label == ALWAYS {
		sugared().Infow(fmt.Sprintf(format, v...), "label", label)
	}
}

// DFatalf traces a fatal precondition violation with caller info and
// terminates the process. The scheduler has no way to recover its own
// invariants once one of these fires.
func DFatalf(format string, v ...interface{}) {
	pc, file, line, ok := runtime.Caller(1)
	msg := fmt.Sprintf(format, v...)
	if ok {
		fn := runtime.FuncForPC(pc)
		name := "unknown"
		if fn != nil {
			name = fn.Name()
		}
		sugared().Fatalw(msg, "fn", name, "file", file, "line", line)
	} else {
		sugared().Fatalw(msg)
	}
}

// Assert terminates the process via DFatalf if cond is false. Used at every precondition
// spec.md §7 designates as fatal rather than recoverable.
func Assert(cond bool, format string, v ...interface{}) {
	if !cond {
		DFatalf(format, v...)
	}
}
