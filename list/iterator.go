package list

import (
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/registry"
)

// Iterator denotes a position in a list: an element or End.
//
// Iterators are registered with their list. Erasing the element an iterator
// denotes orphans the iterator; using an orphaned iterator other than with
// Valid, Equal or Release panics. Iterators are not safe for concurrent use.
type Iterator[T any] struct {
	rec *registry.Record[*List[T]]
}

func (it *Iterator[T]) list() *List[T] {
	assert(it != nil && !it.rec.Orphaned(), "list: use of orphaned iterator")
	return it.rec.Proxy().Owner()
}

// Valid reports whether the iterator is still registered with a list.
func (it *Iterator[T]) Valid() bool {
	return it != nil && !it.rec.Orphaned()
}

// Owner returns the list the iterator belongs to, or nil if orphaned.
func (it *Iterator[T]) Owner() *List[T] {
	if !it.Valid() {
		return nil
	}
	return it.rec.Proxy().Owner()
}

// Node returns the handle of the node the iterator denotes.
func (it *Iterator[T]) Node() arena.Handle {
	return it.rec.Node()
}

// IsEnd reports whether the iterator is the past-the-end position.
func (it *Iterator[T]) IsEnd() bool {
	l := it.list()
	return it.rec.Node() == l.head
}

// Value returns the element. It panics at End.
func (it *Iterator[T]) Value() T {
	l := it.list()
	return l.ValueAt(it.rec.Node())
}

// Ref returns a pointer to the element, valid until the element is erased.
// It panics at End.
func (it *Iterator[T]) Ref() *T {
	l := it.list()
	h := it.rec.Node()
	assert(h != l.head, "list: dereferencing end")
	return &l.node(h).value
}

// Set replaces the element. It panics at End.
func (it *Iterator[T]) Set(v T) {
	*it.Ref() = v
}

// Next advances to the successor. Incrementing End panics.
func (it *Iterator[T]) Next() *Iterator[T] {
	l := it.list()
	h := it.rec.Node()
	assert(h != l.head, "list: incrementing end")
	it.rec.SetNode(l.node(h).next)
	return it
}

// Prev moves to the predecessor. Decrementing Begin panics.
func (it *Iterator[T]) Prev() *Iterator[T] {
	l := it.list()
	p := l.node(it.rec.Node()).prev
	assert(p != l.head, "list: decrementing begin")
	it.rec.SetNode(p)
	return it
}

// Equal reports whether two iterators denote the same position of the same
// list. Orphaned iterators are never equal to anything.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	if !it.Valid() || !other.Valid() {
		return false
	}
	return it.rec.Proxy() == other.rec.Proxy() && it.rec.Node() == other.rec.Node()
}

// Clone returns an independent iterator at the same position.
func (it *Iterator[T]) Clone() *Iterator[T] {
	return &Iterator[T]{rec: it.rec.Clone()}
}

// Release unregisters the iterator. Released iterators behave like orphaned
// ones. Releasing is optional; unreachable iterators are dropped from their
// list's registry eventually.
func (it *Iterator[T]) Release() {
	if it != nil {
		it.rec.Orphan()
	}
}
