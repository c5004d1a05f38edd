package avl

import (
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/registry"
)

// Iterator denotes a position in a tree: a value or End.
//
// Iterators are registered with their tree and follow their node through
// rebalancing, Swap and Merge. Erasing the node orphans the iterator; using an
// orphaned iterator other than with Valid, Equal or Release panics.
type Iterator[K, T any] struct {
	rec *registry.Record[*Tree[K, T]]
}

func (it *Iterator[K, T]) tree() *Tree[K, T] {
	assert(it != nil && !it.rec.Orphaned(), "avl: use of orphaned iterator")
	return it.rec.Proxy().Owner()
}

// Valid reports whether the iterator is still registered with a tree.
func (it *Iterator[K, T]) Valid() bool {
	return it != nil && !it.rec.Orphaned()
}

// Owner returns the tree the iterator belongs to, or nil if orphaned.
func (it *Iterator[K, T]) Owner() *Tree[K, T] {
	if !it.Valid() {
		return nil
	}
	return it.rec.Proxy().Owner()
}

// Node returns the handle of the node the iterator denotes.
func (it *Iterator[K, T]) Node() arena.Handle {
	return it.rec.Node()
}

// IsEnd reports whether the iterator is the past-the-end position.
func (it *Iterator[K, T]) IsEnd() bool {
	return it.rec.Node() == it.tree().head
}

// Value returns the value. It panics at End.
func (it *Iterator[K, T]) Value() T {
	return *it.Ref()
}

// Key returns the key of the value. It panics at End.
func (it *Iterator[K, T]) Key() K {
	return it.tree().keyOf(*it.Ref())
}

// Ref returns a pointer to the stored value. Clients may modify the value
// but must not change its key. It panics at End.
func (it *Iterator[K, T]) Ref() *T {
	t := it.tree()
	h := it.rec.Node()
	assert(h != t.head, "avl: dereferencing end")
	return &t.n(h).value
}

// Next advances to the in-order successor. Incrementing End panics.
func (it *Iterator[K, T]) Next() *Iterator[K, T] {
	t := it.tree()
	h := it.rec.Node()
	assert(h != t.head, "avl: incrementing end")
	it.rec.SetNode(t.next(h))
	return it
}

// Prev moves to the in-order predecessor. Decrementing Begin panics.
func (it *Iterator[K, T]) Prev() *Iterator[K, T] {
	t := it.tree()
	p := t.prev(it.rec.Node())
	assert(p != t.head, "avl: decrementing begin")
	it.rec.SetNode(p)
	return it
}

// Equal reports whether two iterators denote the same position of the same
// tree. Orphaned iterators are never equal to anything.
func (it *Iterator[K, T]) Equal(other *Iterator[K, T]) bool {
	if !it.Valid() || !other.Valid() {
		return false
	}
	return it.rec.Proxy() == other.rec.Proxy() && it.rec.Node() == other.rec.Node()
}

// Clone returns an independent iterator at the same position.
func (it *Iterator[K, T]) Clone() *Iterator[K, T] {
	return &Iterator[K, T]{rec: it.rec.Clone()}
}

// Release unregisters the iterator.
func (it *Iterator[K, T]) Release() {
	if it != nil {
		it.rec.Orphan()
	}
}
