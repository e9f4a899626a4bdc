// Package olist implements the intrusive, ordered doubly linked list
// threaded through a known link field, used for the ready queue and
// every donation queue. Grounded on the list semantics described by
// original_source/src/threads/thread.c's use of struct list
// (list_insert_ordered, list_remove, list_sort, list_pop_front): a link
// is "detached" when its next pointer is nil, so Remove is idempotent
// and safe to call on an element that may or may not be queued.
package olist

// Elem is the intrusive link embedded in a list element. T is the owner
// type so List[T] can walk the list without an extra allocation per node.
type Elem[T any] struct {
	next, prev *Elem[T]
	Value      T
}

// Attached reports whether e is currently linked into some list.
func (e *Elem[T]) Attached() bool {
	return e.next != nil
}

// Less is the ordered-insert comparator. aux is the opaque context the
// caller may thread through (spec.md §4.B); most comparators ignore it.
type Less[T any] func(a, b T, aux any) bool

// List is a sentinel-rooted intrusive doubly linked list.
type List[T any] struct {
	root Elem[T]
	size int
}

// New returns an initialized empty list.
func New[T any]() *List[T] {
	l := &List[T]{}
	l.root.next = &l.root
	l.root.prev = &l.root
	return l
}

func (l *List[T]) insertBetween(e, prev, next *Elem[T]) {
	e.prev, e.next = prev, next
	prev.next, next.prev = e, e
	l.size++
}

// PushBack appends e to the end of the list.
func (l *List[T]) PushBack(e *Elem[T]) {
	l.insertBetween(e, l.root.prev, &l.root)
}

// InsertOrdered inserts e at the position preceding the first existing
// element for which less(e.Value, cur.Value, aux) is true, or at the
// back if none. Stable: among elements the comparator ranks equal, e
// lands after all of them — this is what gives FIFO tie-break when the
// comparator is a strict "greater than" on priority (spec.md §4.E).
func (l *List[T]) InsertOrdered(e *Elem[T], less Less[T], aux any) {
	for cur := l.root.next; cur != &l.root; cur = cur.next {
		if less(e.Value, cur.Value, aux) {
			l.insertBetween(e, cur.prev, cur)
			return
		}
	}
	l.PushBack(e)
}

// Detach unlinks e from whatever list it currently belongs to, without
// needing a reference to that list. Safe to call on an already-detached
// or never-inserted element. This is the primitive donation queues use
// (see package thread's RemoveDonation): a donor's link may belong to
// different holders' donation lists at different times, so the holder
// the code happens to have at hand isn't necessarily the one whose list
// e is actually threaded into.
func Detach[T any](e *Elem[T]) {
	if !e.Attached() {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next, e.prev = nil, nil
}

// Remove detaches e if it is attached to any list; safe to call more
// than once or on a never-inserted element. Unlike the package-level
// Detach, this keeps l's cached Len() accurate, so prefer it whenever
// the owning list is known.
func (l *List[T]) Remove(e *Elem[T]) {
	if !e.Attached() {
		return
	}
	Detach(e)
	l.size--
}

// RemoveIf detaches every element whose value satisfies pred, walking
// the list once. Safe to remove the current element mid-walk.
func (l *List[T]) RemoveIf(pred func(T) bool) {
	for cur := l.root.next; cur != &l.root; {
		next := cur.next
		if pred(cur.Value) {
			l.Remove(cur)
		}
		cur = next
	}
}

// Front returns the first element, or nil if the list is empty.
func (l *List[T]) Front() *Elem[T] {
	if l.Empty() {
		return nil
	}
	return l.root.next
}

// PopFront removes and returns the first element, or nil if empty.
func (l *List[T]) PopFront() *Elem[T] {
	e := l.Front()
	if e == nil {
		return nil
	}
	l.Remove(e)
	return e
}

// Len returns the number of elements inserted and removed through this
// List's own methods. If an element was detached via the package-level
// Detach instead (bypassing this list's bookkeeping), Len may
// overcount; Empty, Front, PopFront and Each remain correct regardless,
// since they walk the sentinel-rooted chain directly.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list has no elements, checked against the
// actual chain rather than the cached size counter (see Len).
func (l *List[T]) Empty() bool { return l.root.next == &l.root }

// Each invokes fn on every element's value in list order.
func (l *List[T]) Each(fn func(T)) {
	for cur := l.root.next; cur != &l.root; cur = cur.next {
		fn(cur.Value)
	}
}

// Sort re-sorts the list in place using less, stably.
func (l *List[T]) Sort(less Less[T], aux any) {
	if l.size < 2 {
		return
	}
	elems := make([]*Elem[T], 0, l.size)
	for cur := l.root.next; cur != &l.root; cur = cur.next {
		elems = append(elems, cur)
	}
	for _, e := range elems {
		e.next, e.prev = nil, nil
	}
	l.root.next, l.root.prev = &l.root, &l.root
	l.size = 0
	for _, e := range elems {
		l.InsertOrdered(e, less, aux)
	}
}
