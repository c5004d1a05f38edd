package avl

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

// Node is the storage unit of a tree. Its fields are private to the engine;
// the type is exported so that clients can supply an arena for it.
type Node[T any] struct {
	value  T
	parent arena.Handle
	left   arena.Handle
	right  arena.Handle
	height int32
	isNil  bool
}

// Stats counts rebalancing work done by a tree.
type Stats struct {
	SingleRotations int
	DoubleRotations int
}

// Tree is an AVL tree of values with unique keys.
//
//	Operation        |  Cost
//	-----------------+-----------
//	Find, Insert     |  O(log n)
//	Erase            |  O(log n) + O(live iterators)
//	Begin, Min, Max  |  O(1)
//	Next, Prev       |  O(1) amortized
//	Merge            |  O(m log(n+m))
type Tree[K, T any] struct {
	compare func(a, b K) int
	keyOf   func(T) K
	arena   arena.Arena[Node[T]]
	head    arena.Handle // sentinel; None after Close
	size    int
	proxy   *registry.Proxy[*Tree[K, T]]
	stats   Stats
}

// New creates an empty tree.
func New[K, T any](cfg Config[K, T]) (*Tree[K, T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	t := &Tree[K, T]{
		compare: cfg.Compare,
		keyOf:   cfg.KeyOf,
		arena:   cfg.Arena,
	}
	h, err := t.arena.Alloc()
	if err != nil {
		return nil, fmt.Errorf("avl: cannot allocate sentinel: %w", err)
	}
	head := t.n(h)
	head.isNil = true
	head.parent, head.left, head.right = h, h, h
	t.head = h
	t.proxy = registry.NewProxy(t)
	return t, nil
}

// Config returns the configuration of t.
func (t *Tree[K, T]) Config() Config[K, T] {
	return Config[K, T]{Compare: t.compare, KeyOf: t.keyOf, Arena: t.arena}
}

// Len returns the number of values in the tree.
func (t *Tree[K, T]) Len() int {
	return t.size
}

// IsEmpty reports whether the tree holds no values.
func (t *Tree[K, T]) IsEmpty() bool {
	return t.size == 0
}

// Height returns the height of the tree, 0 for an empty tree.
func (t *Tree[K, T]) Height() int {
	if t.head == arena.None {
		return 0
	}
	return int(t.n(t.root()).height)
}

// Stats returns the rotation counters of t.
func (t *Tree[K, T]) Stats() Stats {
	return t.stats
}

// Begin returns an iterator to the minimum, or End for an empty tree.
func (t *Tree[K, T]) Begin() *Iterator[K, T] {
	t.checkOpen()
	return t.iteratorAt(t.n(t.head).left)
}

// End returns the past-the-end iterator.
func (t *Tree[K, T]) End() *Iterator[K, T] {
	t.checkOpen()
	return t.iteratorAt(t.head)
}

// Min returns the value with the smallest key.
func (t *Tree[K, T]) Min() (T, bool) {
	return t.valueOrZero(t.n(t.head).left)
}

// Max returns the value with the largest key.
func (t *Tree[K, T]) Max() (T, bool) {
	return t.valueOrZero(t.n(t.head).right)
}

// Find returns an iterator to the value with key k, or End.
func (t *Tree[K, T]) Find(k K) *Iterator[K, T] {
	t.checkOpen()
	_, _, found := t.findPlace(k)
	if found == arena.None {
		return t.iteratorAt(t.head)
	}
	return t.iteratorAt(found)
}

// Get returns the value with key k.
func (t *Tree[K, T]) Get(k K) (T, bool) {
	_, _, found := t.findPlace(k)
	if found == arena.None {
		var zero T
		return zero, false
	}
	return t.n(found).value, true
}

// Contains reports whether a value with key k is present.
func (t *Tree[K, T]) Contains(k K) bool {
	_, _, found := t.findPlace(k)
	return found != arena.None
}

// Count returns the number of values with key k, which is 0 or 1.
func (t *Tree[K, T]) Count(k K) int {
	if t.Contains(k) {
		return 1
	}
	return 0
}

// LowerBound returns an iterator to the first value whose key is not less
// than k, or End.
func (t *Tree[K, T]) LowerBound(k K) *Iterator[K, T] {
	t.checkOpen()
	result := t.head
	for x := t.root(); x != t.head; {
		if t.compare(t.keyAt(x), k) < 0 {
			x = t.n(x).right
		} else {
			result = x
			x = t.n(x).left
		}
	}
	return t.iteratorAt(result)
}

// Insert inserts v unless a value with the same key is present. It returns an
// iterator to the value stored under v's key and whether v was inserted.
// If allocation fails the tree is unchanged.
func (t *Tree[K, T]) Insert(v T) (*Iterator[K, T], bool, error) {
	return t.InsertKey(t.keyOf(v), func() T { return v })
}

// InsertKey locates the slot for key k and calls mk to construct the value
// only if k is absent. mk must return a value whose key is k.
func (t *Tree[K, T]) InsertKey(k K, mk func() T) (*Iterator[K, T], bool, error) {
	if err := t.open(); err != nil {
		return nil, false, err
	}
	parent, less, found := t.findPlace(k)
	if found != arena.None {
		return t.iteratorAt(found), false, nil
	}
	h, err := t.arena.Alloc()
	if err != nil {
		return nil, false, err
	}
	t.n(h).value = mk()
	t.attach(parent, less, h)
	return t.iteratorAt(h), true, nil
}

// InsertWithHint inserts v, using hint as a guess for the position: if v
// belongs directly before hint, it is linked without searching from the
// root. A wrong hint costs one search.
func (t *Tree[K, T]) InsertWithHint(hint *Iterator[K, T], v T) (*Iterator[K, T], bool, error) {
	if err := t.open(); err != nil {
		return nil, false, err
	}
	at := t.own(hint)
	k := t.keyOf(v)
	parent, less, ok := t.hintPlace(at, k)
	if !ok {
		return t.Insert(v)
	}
	if parent == arena.None { // key equals hint
		return t.iteratorAt(at), false, nil
	}
	h, err := t.arena.Alloc()
	if err != nil {
		return nil, false, err
	}
	t.n(h).value = v
	t.attach(parent, less, h)
	return t.iteratorAt(h), true, nil
}

// hintPlace checks whether k belongs between hint's predecessor and hint.
// If so, it returns the attachment point. A None parent signals that k
// equals the key at hint.
func (t *Tree[K, T]) hintPlace(hint arena.Handle, k K) (arena.Handle, bool, bool) {
	head := t.n(t.head)
	if hint == t.head {
		if t.size == 0 {
			return t.head, false, true
		}
		if t.compare(t.keyAt(head.right), k) < 0 {
			return head.right, false, true
		}
		return arena.None, false, false
	}
	c := t.compare(k, t.keyAt(hint))
	if c == 0 {
		return arena.None, false, true
	}
	if c > 0 {
		return arena.None, false, false
	}
	if hint == head.left {
		return hint, true, true
	}
	prev := t.prev(hint)
	if t.compare(t.keyAt(prev), k) >= 0 {
		return arena.None, false, false
	}
	if t.n(hint).left == t.head {
		return hint, true, true
	}
	return prev, false, true // prev is the maximum of hint's left subtree
}

// EraseKey removes the value with key k and returns the number of values
// removed, 0 or 1.
func (t *Tree[K, T]) EraseKey(k K) int {
	_, _, found := t.findPlace(k)
	if found == arena.None {
		return 0
	}
	t.eraseNode(found)
	return 1
}

// Erase removes the value at pos and returns an iterator to its successor.
// Iterators denoting the erased value are orphaned.
func (t *Tree[K, T]) Erase(pos *Iterator[K, T]) *Iterator[K, T] {
	h := t.own(pos)
	assert(h != t.head, "avl: cannot erase end")
	return t.iteratorAt(t.eraseNode(h))
}

// EraseRange removes the values in [first, last) and returns an iterator to
// last. Erasing from Begin to End clears the tree.
func (t *Tree[K, T]) EraseRange(first, last *Iterator[K, T]) *Iterator[K, T] {
	f, l := t.own(first), t.own(last)
	if f == t.n(t.head).left && l == t.head {
		t.Clear()
		return t.iteratorAt(t.head)
	}
	for f != l {
		f = t.eraseNode(f)
	}
	return t.iteratorAt(l)
}

// Clear removes all values. Iterators at End stay valid.
func (t *Tree[K, T]) Clear() {
	t.checkOpen()
	if t.size == 0 {
		return
	}
	head := t.head
	t.proxy.OrphanMatching(func(h arena.Handle) bool { return h != head })
	t.freeSubtree(t.root())
	t.resetHead()
}

// Close orphans all iterators, including those at End, and releases every
// node and the sentinel. The tree must not be used afterwards.
func (t *Tree[K, T]) Close() {
	if t.head == arena.None {
		return
	}
	t.proxy.OrphanAll()
	t.freeSubtree(t.root())
	t.arena.Free(t.head)
	t.head = arena.None
	t.size = 0
}

// All returns an iterator over the values in ascending key order.
func (t *Tree[K, T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := t.n(t.head).left; h != t.head; {
			n := t.n(h)
			next := t.next(h)
			if !yield(n.value) {
				return
			}
			h = next
		}
	}
}

// Backward returns an iterator over the values in descending key order.
func (t *Tree[K, T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := t.n(t.head).right; h != t.head; {
			n := t.n(h)
			prev := t.prevOrHead(h)
			if !yield(n.value) {
				return
			}
			h = prev
		}
	}
}

// --- Structure -------------------------------------------------------------

func (t *Tree[K, T]) n(h arena.Handle) *Node[T] {
	return t.arena.At(h)
}

func (t *Tree[K, T]) root() arena.Handle {
	return t.n(t.head).parent
}

func (t *Tree[K, T]) keyAt(h arena.Handle) K {
	return t.keyOf(t.n(h).value)
}

func (t *Tree[K, T]) height(h arena.Handle) int32 {
	return t.n(h).height // head has height 0
}

func (t *Tree[K, T]) valueOrZero(h arena.Handle) (T, bool) {
	if t.size == 0 {
		var zero T
		return zero, false
	}
	return t.n(h).value, true
}

// findPlace descends from the root. If k is present, found is its node.
// Otherwise parent is the node to attach a new leaf to, as left child if less
// is set.
func (t *Tree[K, T]) findPlace(k K) (parent arena.Handle, less bool, found arena.Handle) {
	parent = t.head
	for x := t.root(); x != t.head; {
		parent = x
		c := t.compare(k, t.keyAt(x))
		if c == 0 {
			return x, false, x
		}
		less = c < 0
		if less {
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	return parent, less, arena.None
}

// attach links the detached node h as a new leaf below parent and rebalances.
func (t *Tree[K, T]) attach(parent arena.Handle, less bool, h arena.Handle) {
	x := t.n(h)
	x.parent, x.left, x.right = parent, t.head, t.head
	x.height = 1
	x.isNil = false
	head := t.n(t.head)
	switch {
	case parent == t.head:
		head.parent, head.left, head.right = h, h, h
	case less:
		t.n(parent).left = h
		if parent == head.left {
			head.left = h
		}
	default:
		t.n(parent).right = h
		if parent == head.right {
			head.right = h
		}
	}
	t.size++
	t.insertFixup(parent)
}

// detach unlinks the real node h from the tree structure, keeping the tree
// balanced and the head caches current. It returns the in-order successor
// of h. Iterators and storage are not touched.
func (t *Tree[K, T]) detach(z arena.Handle) arena.Handle {
	head := t.n(t.head)
	succ := t.next(z)
	if z == head.left {
		head.left = succ
	}
	if z == head.right {
		head.right = t.prevOrHead(z)
	}
	zn := t.n(z)
	zp := zn.parent
	var fixFrom arena.Handle
	switch {
	case zn.left == t.head && zn.right == t.head:
		t.replaceChild(zp, z, t.head)
		fixFrom = zp
	case t.balance(z) >= 0: // not left-heavy: successor from right subtree
		y := t.minOf(zn.right)
		yn := t.n(y)
		if yn.parent == z {
			fixFrom = y
		} else {
			yp := yn.parent
			t.n(yp).left = yn.right
			t.setParent(yn.right, yp)
			yn.right = zn.right
			t.setParent(zn.right, y)
			fixFrom = yp
		}
		yn.left = zn.left
		t.setParent(zn.left, y)
		t.graft(z, y)
	default: // left-heavy: predecessor from left subtree
		y := t.maxOf(zn.left)
		yn := t.n(y)
		if yn.parent == z {
			fixFrom = y
		} else {
			yp := yn.parent
			t.n(yp).right = yn.left
			t.setParent(yn.left, yp)
			yn.left = zn.left
			t.setParent(zn.left, y)
			fixFrom = yp
		}
		yn.right = zn.right
		t.setParent(zn.right, y)
		t.graft(z, y)
	}
	t.size--
	t.eraseFixup(fixFrom)
	return succ
}

// graft puts y into z's place, inheriting z's parent and height. Children
// must already be linked.
func (t *Tree[K, T]) graft(z, y arena.Handle) {
	zn, yn := t.n(z), t.n(y)
	yn.parent = zn.parent
	yn.height = zn.height
	t.replaceChild(zn.parent, z, y)
}

func (t *Tree[K, T]) eraseNode(h arena.Handle) arena.Handle {
	succ := t.detach(h)
	t.proxy.OrphanMatching(func(x arena.Handle) bool { return x == h })
	t.arena.Free(h)
	return succ
}

func (t *Tree[K, T]) replaceChild(p, old, nu arena.Handle) {
	if p == t.head {
		t.n(t.head).parent = nu
		return
	}
	pn := t.n(p)
	if pn.left == old {
		pn.left = nu
	} else {
		pn.right = nu
	}
}

func (t *Tree[K, T]) setParent(child, p arena.Handle) {
	if child != t.head {
		t.n(child).parent = p
	}
}

func (t *Tree[K, T]) minOf(x arena.Handle) arena.Handle {
	for l := t.n(x).left; l != t.head; l = t.n(x).left {
		x = l
	}
	return x
}

func (t *Tree[K, T]) maxOf(x arena.Handle) arena.Handle {
	for r := t.n(x).right; r != t.head; r = t.n(x).right {
		x = r
	}
	return x
}

// next returns the in-order successor of the real node x, or head.
func (t *Tree[K, T]) next(x arena.Handle) arena.Handle {
	if r := t.n(x).right; r != t.head {
		return t.minOf(r)
	}
	p := t.n(x).parent
	for p != t.head && x == t.n(p).right {
		x, p = p, t.n(p).parent
	}
	return p
}

// prevOrHead returns the in-order predecessor of the real node x, or head
// if x is the minimum.
func (t *Tree[K, T]) prevOrHead(x arena.Handle) arena.Handle {
	if l := t.n(x).left; l != t.head {
		return t.maxOf(l)
	}
	p := t.n(x).parent
	for p != t.head && x == t.n(p).left {
		x, p = p, t.n(p).parent
	}
	return p
}

// prev returns the predecessor of x; the predecessor of head is the maximum.
func (t *Tree[K, T]) prev(x arena.Handle) arena.Handle {
	if x == t.head {
		return t.n(t.head).right
	}
	return t.prevOrHead(x)
}

func (t *Tree[K, T]) freeSubtree(x arena.Handle) {
	if x == t.head {
		return
	}
	n := t.n(x)
	l, r := n.left, n.right
	t.freeSubtree(l)
	t.freeSubtree(r)
	t.arena.Free(x)
}

func (t *Tree[K, T]) resetHead() {
	head := t.n(t.head)
	head.parent, head.left, head.right = t.head, t.head, t.head
	t.size = 0
}

func (t *Tree[K, T]) iteratorAt(h arena.Handle) *Iterator[K, T] {
	return &Iterator[K, T]{rec: registry.NewRecord(t.proxy, h)}
}

func (t *Tree[K, T]) own(it *Iterator[K, T]) arena.Handle {
	assert(it != nil && !it.rec.Orphaned(), "avl: invalid iterator")
	assert(it.rec.Proxy() == t.proxy, "avl: iterator from another container")
	return it.rec.Node()
}

func (t *Tree[K, T]) open() error {
	if t.head == arena.None {
		return ErrClosed
	}
	return nil
}

func (t *Tree[K, T]) checkOpen() {
	assert(t.head != arena.None, "avl: use of closed tree")
}
