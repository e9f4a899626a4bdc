// Package kpage stands in for the real page allocator (spec.md names it
// an out-of-scope external collaborator): fixed-size zeroed page grant
// and free, nothing more. The scheduler's TCB allocation treats a Page
// as the backing arena whose base doubles as the thread's simulated
// kernel stack bottom (spec.md §4.C).
package kpage

// Size is the simulated page size in bytes; large enough to host a TCB
// plus headroom before the stack-overflow magic check would trip,
// mirroring PGSIZE in the original kernel.
const Size = 4096

// Page is one zeroed page.
type Page struct {
	bytes [Size]byte
}

// Alloc returns a freshly zeroed page, or nil if none are available. The
// simulated pool is unbounded (this is a teaching kernel, not a real
// allocator), so Alloc only ever returns nil if the caller asks via
// FailNextAlloc in a test.
func Alloc() *Page {
	if failNext {
		failNext = false
		return nil
	}
	outstanding++
	return &Page{}
}

// Free releases a page. A real allocator would return it to a free
// list; this stand-in only tracks how many pages are currently live,
// so tests can confirm a page was actually reclaimed.
func Free(p *Page) {
	if p == nil {
		return
	}
	outstanding--
}

var (
	failNext    bool
	outstanding int
)

// FailNextAlloc makes the next call to Alloc return nil, simulating
// page-allocator exhaustion for thread_create's ERROR path (spec.md §7).
func FailNextAlloc() { failNext = true }

// Outstanding returns the number of pages currently allocated and not
// yet freed.
func Outstanding() int { return outstanding }

// ResetForTesting clears the outstanding-page counter.
func ResetForTesting() {
	outstanding = 0
	failNext = false
}
