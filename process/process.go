// Package process stands in for the user-process layer, an optional
// collaborator per spec.md §6: Activate is invoked inside the switch
// tail, Exit before thread_exit tears down self. Neither does anything
// beyond what a kernel thread with no address space needs, since
// address-space activation is explicitly out of this module's scope.
package process

// AddrSpace is an opaque handle; a nil AddrSpace means "kernel thread",
// matching pagedir == NULL in the original kernel and distinguishing
// kernel ticks from user ticks (spec.md §3, §6).
type AddrSpace struct {
	Name string
}

// Activate would install AddrSpace's page tables. Called from the
// scheduler's switch tail whenever the newly running thread carries a
// non-nil AddrSpace.
func Activate(as *AddrSpace) {
	_ = as
}

// Exit tears down per-process state before the owning thread is marked
// DYING. Called from thread.Exit when the thread carries a non-nil
// AddrSpace.
func Exit(as *AddrSpace) {
	_ = as
}
