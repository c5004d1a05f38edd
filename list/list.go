package list

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"iter"

	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/registry"
)

// Node is the storage unit of a list. Its fields are private to the engine;
// the type is exported so that clients can supply an arena for it.
type Node[T any] struct {
	value T
	next  arena.Handle
	prev  arena.Handle
}

// Config configures a list.
type Config[T any] struct {
	// Arena supplies node storage. If nil, the list gets a private slab.
	Arena arena.Arena[Node[T]]
}

func (cfg Config[T]) normalized() Config[T] {
	if cfg.Arena == nil {
		cfg.Arena = arena.NewSlab[Node[T]]()
	}
	return cfg
}

// List is a circular doubly linked list with one sentinel node.
//
//	Operation        |  Cost
//	-----------------+-----------
//	Insert k values  |  O(k)
//	Erase            |  O(1) + O(live iterators)
//	Extract range    |  O(1)
//	Sort             |  O(n log n), no allocation
//	Swap             |  O(1)
type List[T any] struct {
	arena arena.Arena[Node[T]]
	head  arena.Handle // sentinel; None after Close
	size  int
	proxy *registry.Proxy[*List[T]]
}

// New creates an empty list.
func New[T any](cfg Config[T]) (*List[T], error) {
	cfg = cfg.normalized()
	l := &List[T]{arena: cfg.Arena}
	h, err := l.arena.Alloc()
	if err != nil {
		return nil, fmt.Errorf("list: cannot allocate sentinel: %w", err)
	}
	s := l.node(h)
	s.next, s.prev = h, h
	l.head = h
	l.proxy = registry.NewProxy(l)
	return l, nil
}

// Arena returns the arena the list allocates its nodes from.
func (l *List[T]) Arena() arena.Arena[Node[T]] {
	return l.arena
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.size
}

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool {
	return l.size == 0
}

// Begin returns an iterator to the first element, or End for an empty list.
func (l *List[T]) Begin() *Iterator[T] {
	l.checkOpen()
	return l.IteratorAt(l.node(l.head).next)
}

// End returns the past-the-end iterator.
func (l *List[T]) End() *Iterator[T] {
	l.checkOpen()
	return l.IteratorAt(l.head)
}

// Front returns the first element.
func (l *List[T]) Front() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}
	return l.node(l.node(l.head).next).value, true
}

// Back returns the last element.
func (l *List[T]) Back() (T, bool) {
	if l.size == 0 {
		var zero T
		return zero, false
	}
	return l.node(l.node(l.head).prev).value, true
}

// Insert inserts values before pos as one block and returns an iterator to
// the first inserted element (or a copy of pos if values is empty).
// Either all values are inserted or, on allocation failure, none.
func (l *List[T]) Insert(pos *Iterator[T], values ...T) (*Iterator[T], error) {
	where := l.own(pos)
	run, err := l.BuildRun(values...)
	if err != nil {
		return nil, err
	}
	return l.SpliceInsert(l.IteratorAt(where), run), nil
}

// PushBack appends v.
func (l *List[T]) PushBack(v T) error {
	if err := l.open(); err != nil {
		return err
	}
	h, err := l.NewNode(v)
	if err != nil {
		return err
	}
	l.LinkBefore(l.head, h)
	return nil
}

// PushFront prepends v.
func (l *List[T]) PushFront(v T) error {
	if err := l.open(); err != nil {
		return err
	}
	h, err := l.NewNode(v)
	if err != nil {
		return err
	}
	l.LinkBefore(l.node(l.head).next, h)
	return nil
}

// PopBack removes the last element. The list must not be empty.
func (l *List[T]) PopBack() {
	assert(l.size > 0, "list: PopBack on empty list")
	l.EraseNode(l.node(l.head).prev)
}

// PopFront removes the first element. The list must not be empty.
func (l *List[T]) PopFront() {
	assert(l.size > 0, "list: PopFront on empty list")
	l.EraseNode(l.node(l.head).next)
}

// Erase removes the element at pos and returns an iterator to its successor.
// Iterators denoting the erased element, pos included, are orphaned.
func (l *List[T]) Erase(pos *Iterator[T]) *Iterator[T] {
	h := l.own(pos)
	assert(h != l.head, "list: cannot erase end")
	return l.IteratorAt(l.EraseNode(h))
}

// EraseRange removes the elements in [first, last) and returns an iterator
// to last.
func (l *List[T]) EraseRange(first, last *Iterator[T]) *Iterator[T] {
	f, t := l.own(first), l.own(last)
	return l.IteratorAt(l.EraseNodes(f, t))
}

// Clear removes all elements. Iterators at End stay valid.
func (l *List[T]) Clear() {
	l.checkOpen()
	if l.size == 0 {
		return
	}
	head := l.head
	n := l.proxy.OrphanMatching(func(h arena.Handle) bool { return h != head })
	tracer().Debugf("list: clearing %d elements, %d iterators orphaned", l.size, n)
	l.freeRing()
}

// Close orphans all iterators, including those at End, and releases every
// node and the sentinel. The list must not be used afterwards.
func (l *List[T]) Close() {
	if l.head == arena.None {
		return
	}
	l.proxy.OrphanAll()
	l.freeRing()
	l.arena.Free(l.head)
	l.head = arena.None
}

// Swap exchanges the complete state of two lists in O(1). Iterators follow
// their elements into the other list.
func (l *List[T]) Swap(other *List[T]) {
	if l == other {
		return
	}
	l.arena, other.arena = other.arena, l.arena
	l.head, other.head = other.head, l.head
	l.size, other.size = other.size, l.size
	l.proxy, other.proxy = other.proxy, l.proxy
	l.proxy.SetOwner(l)
	other.proxy.SetOwner(other)
}

// Assign makes l an element-wise copy of other. Existing nodes are reused by
// overwriting their values positionally; surplus nodes are erased and missing
// ones appended.
func (l *List[T]) Assign(other *List[T]) error {
	if l == other {
		return nil
	}
	return l.assignFrom(other, false)
}

// MoveFrom transfers all elements of other to l, leaving other empty.
// If both lists share an arena no element is copied and iterators into other
// follow their elements; otherwise elements are migrated one by one.
// Every iterator into l, End included, is orphaned. Iterators at other's End
// stay with other.
func (l *List[T]) MoveFrom(other *List[T]) error {
	if l == other {
		return nil
	}
	if arena.Interchangeable(l.arena, other.arena) {
		if err := l.open(); err != nil {
			return err
		}
		l.Clear()
		l.proxy.OrphanAll()
		l.head, other.head = other.head, l.head
		l.size, other.size = other.size, l.size
		l.proxy, other.proxy = other.proxy, l.proxy
		l.proxy.SetOwner(l)
		other.proxy.SetOwner(other)
		// other's End records came along with its proxy
		registry.Reparent(l.head, l.proxy, other.proxy)
		other.proxy.Retarget(l.head, other.head)
		return nil
	}
	if err := l.assignFrom(other, true); err != nil {
		return err
	}
	l.proxy.OrphanAll()
	other.Clear()
	return nil
}

func (l *List[T]) assignFrom(other *List[T], move bool) error {
	if err := l.open(); err != nil {
		return err
	}
	src := other.node(other.head).next
	dst := l.node(l.head).next
	for src != other.head && dst != l.head {
		n := other.node(src)
		l.node(dst).value = n.value
		if move {
			var zero T
			n.value = zero
		}
		src, dst = n.next, l.node(dst).next
	}
	if dst != l.head {
		l.EraseNodes(dst, l.head)
		return nil
	}
	var rest []T
	for ; src != other.head; src = other.node(src).next {
		rest = append(rest, other.node(src).value)
	}
	run, err := l.BuildRun(rest...)
	if err != nil {
		return err
	}
	l.spliceRun(l.head, run)
	return nil
}

// All returns an iterator over the elements, front to back.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := l.node(l.head).next; h != l.head; {
			n := l.node(h)
			next := n.next
			if !yield(n.value) {
				return
			}
			h = next
		}
	}
}

// Backward returns an iterator over the elements, back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := l.node(l.head).prev; h != l.head; {
			n := l.node(h)
			prev := n.prev
			if !yield(n.value) {
				return
			}
			h = prev
		}
	}
}

// Values returns the elements as a slice.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for v := range l.All() {
		out = append(out, v)
	}
	return out
}

// --- Runs ------------------------------------------------------------------

// Run is a chain of allocated nodes which is not yet part of the ring.
// Runs are built with BuildRun and linked with SpliceInsert; a run that is
// not going to be linked must be returned with DiscardRun.
type Run struct {
	first, last arena.Handle
	count       int
}

// Len returns the number of nodes in the run.
func (r Run) Len() int {
	return r.count
}

// BuildRun allocates one detached node per value and chains them.
// On allocation failure every node allocated so far is released again.
func (l *List[T]) BuildRun(values ...T) (Run, error) {
	if err := l.open(); err != nil {
		return Run{}, err
	}
	var run Run
	for _, v := range values {
		h, err := l.NewNode(v)
		if err != nil {
			l.DiscardRun(run)
			return Run{}, err
		}
		if run.count == 0 {
			run.first = h
		} else {
			l.node(run.last).next = h
			l.node(h).prev = run.last
		}
		run.last = h
		run.count++
	}
	return run, nil
}

// DiscardRun releases the nodes of a run which has not been linked.
func (l *List[T]) DiscardRun(run Run) {
	h := run.first
	for i := 0; i < run.count; i++ {
		next := l.node(h).next
		l.arena.Free(h)
		h = next
	}
}

// SpliceInsert links a run before pos in O(1) and returns an iterator to the
// first node of the run (or a copy of pos for an empty run).
func (l *List[T]) SpliceInsert(pos *Iterator[T], run Run) *Iterator[T] {
	where := l.own(pos)
	if run.count == 0 {
		return l.IteratorAt(where)
	}
	l.spliceRun(where, run)
	return l.IteratorAt(run.first)
}

func (l *List[T]) spliceRun(where arena.Handle, run Run) {
	if run.count == 0 {
		return
	}
	w := l.node(where)
	p := w.prev
	l.node(run.first).prev = p
	l.node(p).next = run.first
	l.node(run.last).next = where
	w.prev = run.last
	l.size += run.count
}

// --- Engine primitives -----------------------------------------------------

// Sentinel returns the handle of the sentinel node.
func (l *List[T]) Sentinel() arena.Handle {
	return l.head
}

// NextOf returns the successor of node h.
func (l *List[T]) NextOf(h arena.Handle) arena.Handle {
	return l.node(h).next
}

// PrevOf returns the predecessor of node h.
func (l *List[T]) PrevOf(h arena.Handle) arena.Handle {
	return l.node(h).prev
}

// ValueAt returns the value stored at node h, which must not be the sentinel.
func (l *List[T]) ValueAt(h arena.Handle) T {
	assert(h != l.head, "list: dereferencing end")
	return l.node(h).value
}

// NewNode allocates a detached node holding v.
func (l *List[T]) NewNode(v T) (arena.Handle, error) {
	h, err := l.arena.Alloc()
	if err != nil {
		return arena.None, err
	}
	l.node(h).value = v
	return h, nil
}

// FreeNode releases a detached node.
func (l *List[T]) FreeNode(h arena.Handle) {
	l.arena.Free(h)
}

// LinkBefore links the detached node h before where.
func (l *List[T]) LinkBefore(where, h arena.Handle) {
	l.spliceRun(where, Run{first: h, last: h, count: 1})
}

// MoveBefore relinks the linked node h before where. Size and iterators are
// not affected.
func (l *List[T]) MoveBefore(where, h arena.Handle) {
	if h == where || l.node(h).next == where {
		return
	}
	l.detach(h)
	l.attachBefore(where, h)
}

// Unlink takes node h out of the ring without freeing it and returns the
// handle of its former successor. Iterators denoting h are left alone; the
// caller either links h again or erases it.
func (l *List[T]) Unlink(h arena.Handle) arena.Handle {
	assert(h != l.head, "list: cannot unlink the sentinel")
	next := l.node(h).next
	l.detach(h)
	l.size--
	return next
}

// EraseNode unlinks node h, orphans its iterators, frees it and returns the
// handle of its former successor.
func (l *List[T]) EraseNode(h arena.Handle) arena.Handle {
	next := l.Unlink(h)
	l.proxy.OrphanMatching(func(x arena.Handle) bool { return x == h })
	l.arena.Free(h)
	return next
}

// EraseNodes erases the nodes in [first, last) and returns last. Erasing the
// complete list degenerates to Clear.
func (l *List[T]) EraseNodes(first, last arena.Handle) arena.Handle {
	if first == last {
		return last
	}
	if first == l.node(l.head).next && last == l.head {
		l.Clear()
		return last
	}
	before := l.node(first).prev
	l.node(before).next = last
	l.node(last).prev = before
	// mark detached nodes; linked nodes never have prev == None
	cnt := 0
	for h := first; h != last; h = l.node(h).next {
		l.node(h).prev = arena.None
		cnt++
	}
	l.size -= cnt
	l.proxy.OrphanMatching(func(x arena.Handle) bool {
		return l.node(x).prev == arena.None
	})
	for h := first; h != last; {
		next := l.node(h).next
		l.arena.Free(h)
		h = next
	}
	return last
}

// IteratorAt creates an iterator for node h of this list.
func (l *List[T]) IteratorAt(h arena.Handle) *Iterator[T] {
	return &Iterator[T]{rec: registry.NewRecord(l.proxy, h)}
}

// NodeOf returns the node an iterator of this list denotes. It panics if the
// iterator is orphaned or belongs to another list.
func (l *List[T]) NodeOf(it *Iterator[T]) arena.Handle {
	return l.own(it)
}

// --- Helpers ---------------------------------------------------------------

func (l *List[T]) node(h arena.Handle) *Node[T] {
	return l.arena.At(h)
}

func (l *List[T]) own(it *Iterator[T]) arena.Handle {
	assert(it != nil && !it.rec.Orphaned(), "list: invalid iterator")
	assert(it.rec.Proxy() == l.proxy, "list: iterator from another container")
	return it.rec.Node()
}

func (l *List[T]) open() error {
	if l.head == arena.None {
		return ErrClosed
	}
	return nil
}

func (l *List[T]) checkOpen() {
	assert(l.head != arena.None, "list: use of closed list")
}

func (l *List[T]) detach(h arena.Handle) {
	n := l.node(h)
	l.node(n.prev).next = n.next
	l.node(n.next).prev = n.prev
}

func (l *List[T]) attachBefore(where, h arena.Handle) {
	w := l.node(where)
	n := l.node(h)
	n.prev = w.prev
	n.next = where
	l.node(w.prev).next = h
	w.prev = h
}

// freeRing releases all element nodes without touching iterators.
func (l *List[T]) freeRing() {
	s := l.node(l.head)
	for h := s.next; h != l.head; {
		next := l.node(h).next
		l.arena.Free(h)
		h = next
	}
	s.next, s.prev = l.head, l.head
	l.size = 0
}
