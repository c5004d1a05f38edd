package hashtable

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"iter"
	"math"

	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/list"
)

// Iterator denotes a position in a table. It is an iterator of the shared
// ring, so stepping it visits buckets one after the other.
//
// Set and Ref give write access to the value in place. They must not change
// the key KeyOf extracts from it: the node stays in the bucket of its old
// hash, and lookups for either key will miss it. To change a key, erase the
// value and insert the changed one.
type Iterator[T any] = list.Iterator[T]

// bucket delimits the run [first..last] of ring nodes with the same bucket
// index. Both are the ring's sentinel if the bucket is empty.
type bucket struct {
	first, last arena.Handle
}

// Stats counts structural work done by a table.
type Stats struct {
	Rehashes int // redistributions of all nodes
	Grows    int // rehashes triggered by insertion
}

// Table is a hash table of values with unique keys.
//
//	Operation        |  Cost
//	-----------------+-----------
//	Find, Insert     |  O(1) expected
//	Erase            |  O(1) expected + O(live iterators)
//	Rehash           |  O(n)
type Table[K comparable, T any] struct {
	keyOf      func(T) K
	hash       func(K) uint64
	equal      func(a, b K) bool
	maxLoad    float64
	initial    int
	maxBuckets int
	elems      *list.List[T]
	buckets    []bucket
	stats      Stats
}

// New creates an empty table.
func New[K comparable, T any](cfg Config[K, T]) (*Table[K, T], error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	elems, err := list.New(list.Config[T]{Arena: cfg.Arena})
	if err != nil {
		return nil, err
	}
	t := &Table[K, T]{
		keyOf:      cfg.KeyOf,
		hash:       cfg.Hash,
		equal:      cfg.Equal,
		maxLoad:    cfg.MaxLoadFactor,
		initial:    cfg.Buckets,
		maxBuckets: cfg.MaxBuckets,
		elems:      elems,
	}
	t.buckets = t.emptyBuckets(cfg.Buckets)
	return t, nil
}

// Len returns the number of values in the table.
func (t *Table[K, T]) Len() int {
	return t.elems.Len()
}

// IsEmpty reports whether the table holds no values.
func (t *Table[K, T]) IsEmpty() bool {
	return t.elems.IsEmpty()
}

// BucketCount returns the current number of buckets, always a power of two.
func (t *Table[K, T]) BucketCount() int {
	return len(t.buckets)
}

// MaxLoadFactor returns the configured maximum load factor.
func (t *Table[K, T]) MaxLoadFactor() float64 {
	return t.maxLoad
}

// LoadFactor returns size divided by bucket count.
func (t *Table[K, T]) LoadFactor() float64 {
	return float64(t.Len()) / float64(len(t.buckets))
}

// SetMaxLoadFactor changes the maximum load factor and rehashes if the
// current load exceeds it.
func (t *Table[K, T]) SetMaxLoadFactor(f float64) error {
	if !(f > 0) || math.IsInf(f, 1) {
		return fmt.Errorf("%w: max load factor must be positive and finite, is %v", ErrInvalidConfig, f)
	}
	old := t.maxLoad
	t.maxLoad = f
	if t.LoadFactor() > f {
		if err := t.Rehash(0); err != nil {
			t.maxLoad = old
			return err
		}
	}
	return nil
}

// Stats returns the rehash counters of t.
func (t *Table[K, T]) Stats() Stats {
	return t.stats
}

// Begin returns an iterator to the first value in ring order, or End.
func (t *Table[K, T]) Begin() *Iterator[T] {
	return t.elems.Begin()
}

// End returns the past-the-end iterator.
func (t *Table[K, T]) End() *Iterator[T] {
	return t.elems.End()
}

// All returns an iterator over the values in ring order.
func (t *Table[K, T]) All() iter.Seq[T] {
	return t.elems.All()
}

// Find returns an iterator to the value with key k, or End.
func (t *Table[K, T]) Find(k K) *Iterator[T] {
	h := t.lookup(t.index(k), k)
	if h == arena.None {
		return t.elems.End()
	}
	return t.elems.IteratorAt(h)
}

// Get returns the value with key k.
func (t *Table[K, T]) Get(k K) (T, bool) {
	h := t.lookup(t.index(k), k)
	if h == arena.None {
		var zero T
		return zero, false
	}
	return t.elems.ValueAt(h), true
}

// Contains reports whether a value with key k is present.
func (t *Table[K, T]) Contains(k K) bool {
	return t.lookup(t.index(k), k) != arena.None
}

// Insert inserts v unless a value with the same key is present. It returns an
// iterator to the value stored under v's key and whether v was inserted.
// If allocation or growth fails the table is unchanged.
func (t *Table[K, T]) Insert(v T) (*Iterator[T], bool, error) {
	return t.InsertKey(t.keyOf(v), func() T { return v })
}

// InsertKey looks up key k and calls mk to construct the value only if k is
// absent. mk must return a value whose key is k.
func (t *Table[K, T]) InsertKey(k K, mk func() T) (*Iterator[T], bool, error) {
	if t.buckets == nil {
		return nil, false, list.ErrClosed
	}
	i := t.index(k)
	if h := t.lookup(i, k); h != arena.None {
		return t.elems.IteratorAt(h), false, nil
	}
	h, err := t.elems.NewNode(mk())
	if err != nil {
		return nil, false, err
	}
	if size := t.Len() + 1; float64(size) > t.maxLoad*float64(len(t.buckets)) {
		if err := t.grow(size); err != nil {
			t.elems.FreeNode(h)
			return nil, false, err
		}
		t.stats.Grows++
		i = t.index(k)
	}
	b := &t.buckets[i]
	t.elems.LinkBefore(b.first, h)
	if b.last == t.elems.Sentinel() {
		b.last = h
	}
	b.first = h
	return t.elems.IteratorAt(h), true, nil
}

// EraseKey removes the value with key k and returns the number of values
// removed, 0 or 1.
func (t *Table[K, T]) EraseKey(k K) int {
	h := t.lookup(t.index(k), k)
	if h == arena.None {
		return 0
	}
	t.eraseNode(h)
	return 1
}

// Erase removes the value at pos and returns an iterator to its successor in
// ring order. Iterators denoting the erased value are orphaned.
func (t *Table[K, T]) Erase(pos *Iterator[T]) *Iterator[T] {
	h := t.elems.NodeOf(pos)
	assert(h != t.elems.Sentinel(), "hashtable: cannot erase end")
	return t.elems.IteratorAt(t.eraseNode(h))
}

// EraseRange removes the values in [first, last) in ring order and returns
// an iterator to last. The range may span several buckets.
func (t *Table[K, T]) EraseRange(first, last *Iterator[T]) *Iterator[T] {
	f, l := t.elems.NodeOf(first), t.elems.NodeOf(last)
	if f == l {
		return t.elems.IteratorAt(l)
	}
	sentinel := t.elems.Sentinel()
	for ptr := f; ptr != l; {
		b := &t.buckets[t.indexOf(ptr)]
		x := ptr
		for x != l && x != b.last {
			x = t.elems.NextOf(x)
		}
		if x == l { // range ends inside this bucket
			if b.first == ptr {
				b.first = l
			}
			break
		}
		end := b.last
		if b.first == ptr {
			b.first, b.last = sentinel, sentinel
		} else {
			b.last = t.elems.PrevOf(ptr)
		}
		ptr = t.elems.NextOf(end)
	}
	t.elems.EraseNodes(f, l)
	return t.elems.IteratorAt(l)
}

// Rehash sets the bucket count to the smallest power of two that is at least
// n, keeps the load at or below the maximum load factor, and is not below
// MinBuckets. Rehash may shrink the table.
func (t *Table[K, T]) Rehash(n int) error {
	need := t.minBucketsFor(t.Len())
	target := ceilPow2(max(n, need, MinBuckets))
	if t.maxBuckets > 0 && target > t.maxBuckets {
		if need > t.maxBuckets {
			return fmt.Errorf("%w: %d values need %d buckets", ErrCapacity, t.Len(), need)
		}
		target = t.maxBuckets
	}
	if target != len(t.buckets) {
		t.rehash(target)
	}
	return nil
}

// Clear removes all values and returns to the initial bucket count.
// Iterators at End stay valid.
func (t *Table[K, T]) Clear() {
	t.elems.Clear()
	t.buckets = t.emptyBuckets(t.initial)
}

// Close orphans all iterators and releases every node. The table must not be
// used afterwards.
func (t *Table[K, T]) Close() {
	t.elems.Close()
	t.buckets = nil
}

// Assign replaces the content of t by the values of other. On allocation
// failure t keeps the values inserted so far.
func (t *Table[K, T]) Assign(other *Table[K, T]) error {
	if t == other {
		return nil
	}
	t.Clear()
	t.maxLoad = other.maxLoad
	if err := t.Rehash(len(other.buckets)); err != nil {
		return err
	}
	for v := range other.All() {
		if _, _, err := t.Insert(v); err != nil {
			return err
		}
	}
	return nil
}

// Swap exchanges the complete state of two tables in O(1). Iterators follow
// their values into the other table.
func (t *Table[K, T]) Swap(other *Table[K, T]) {
	*t, *other = *other, *t
}

// BucketOf returns the index of the bucket key k maps to.
func (t *Table[K, T]) BucketOf(k K) int {
	return t.index(k)
}

// BucketLen returns the number of values in bucket i.
func (t *Table[K, T]) BucketLen(i int) int {
	b := t.buckets[i]
	if b.first == t.elems.Sentinel() {
		return 0
	}
	n := 1
	for h := b.first; h != b.last; h = t.elems.NextOf(h) {
		n++
	}
	return n
}

// --- Internals -------------------------------------------------------------

func (t *Table[K, T]) index(k K) int {
	assert(t.buckets != nil, "hashtable: use of closed table")
	return int(t.hash(k) & uint64(len(t.buckets)-1))
}

func (t *Table[K, T]) indexOf(h arena.Handle) int {
	return t.index(t.keyOf(t.elems.ValueAt(h)))
}

// lookup scans bucket i for key k.
func (t *Table[K, T]) lookup(i int, k K) arena.Handle {
	b := t.buckets[i]
	if b.first == t.elems.Sentinel() {
		return arena.None
	}
	for h := b.first; ; h = t.elems.NextOf(h) {
		if t.equal(t.keyOf(t.elems.ValueAt(h)), k) {
			return h
		}
		if h == b.last {
			return arena.None
		}
	}
}

func (t *Table[K, T]) eraseNode(h arena.Handle) arena.Handle {
	b := &t.buckets[t.indexOf(h)]
	switch {
	case b.first == h && b.last == h:
		b.first, b.last = t.elems.Sentinel(), t.elems.Sentinel()
	case b.first == h:
		b.first = t.elems.NextOf(h)
	case b.last == h:
		b.last = t.elems.PrevOf(h)
	}
	return t.elems.EraseNode(h)
}

// minBucketsFor returns the least bucket count holding size values within
// the maximum load factor.
func (t *Table[K, T]) minBucketsFor(size int) int {
	return int(math.Ceil(float64(size) / t.maxLoad))
}

// grow picks the bucket count for holding size values: ×8 while the table is
// small and that suffices, doubling otherwise.
func (t *Table[K, T]) grow(size int) error {
	req := max(t.minBucketsFor(size), MinBuckets)
	cur := len(t.buckets)
	n := cur
	if cur < smallTable && cur*8 >= req {
		n = cur * 8
	} else {
		for n < req {
			n <<= 1
		}
	}
	if t.maxBuckets > 0 && n > t.maxBuckets {
		if req > t.maxBuckets {
			tracer().Infof("hashtable: cannot grow to %d buckets, limit is %d", req, t.maxBuckets)
			return fmt.Errorf("%w: %d values need %d buckets", ErrCapacity, size, req)
		}
		n = t.maxBuckets
	}
	tracer().Debugf("hashtable: growing from %d to %d buckets for %d values", cur, n, size)
	t.rehash(n)
	return nil
}

// rehash redistributes all nodes into n buckets in one pass over the ring.
// The first node seen for a bucket stays where it is; later nodes of the
// same bucket are moved in front of the bucket's current first node.
func (t *Table[K, T]) rehash(n int) {
	sentinel := t.elems.Sentinel()
	t.buckets = t.emptyBuckets(n)
	for x := t.elems.NextOf(sentinel); x != sentinel; {
		next := t.elems.NextOf(x)
		b := &t.buckets[t.indexOf(x)]
		if b.first == sentinel {
			b.first, b.last = x, x
		} else {
			t.elems.MoveBefore(b.first, x)
			b.first = x
		}
		x = next
	}
	t.stats.Rehashes++
}

func (t *Table[K, T]) emptyBuckets(n int) []bucket {
	s := t.elems.Sentinel()
	bs := make([]bucket, n)
	for i := range bs {
		bs[i] = bucket{first: s, last: s}
	}
	return bs
}
