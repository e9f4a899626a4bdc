package thread

import "errors"

// ErrNoPages is returned by Create when the simulated page allocator
// has no pages left to back a new TCB — the one recoverable failure
// path spec.md §7 names (TID_ERROR in the original kernel); every other
// precondition violation in this package is fatal via klog.Assert.
var ErrNoPages = errors.New("thread: no pages available for new thread")
