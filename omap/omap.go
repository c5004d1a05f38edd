/*
Package omap provides an ordered map, a thin adapter over an AVL tree of
key/value entries.

Lookups, insertions and deletions cost O(log n); iteration yields entries in
ascending key order. Maps sharing an arena merge without copying.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package omap

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/npillmayer/containers"
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/avl"
)

// ErrKeyNotFound is returned by At for absent keys.
const ErrKeyNotFound = containers.ErrKeyNotFound

// Entry is the stored unit of a map.
type Entry[K, V any] = containers.Entry[K, V]

// Config configures a map.
type Config[K, V any] struct {
	// Compare orders keys. Required.
	Compare func(a, b K) int
	// Arena supplies node storage. Maps sharing an arena merge by relinking.
	Arena arena.Arena[avl.Node[Entry[K, V]]]
}

// Map is an ordered map from K to V.
type Map[K, V any] struct {
	tree *avl.Tree[K, Entry[K, V]]
}

// New creates an empty map.
func New[K, V any](cfg Config[K, V]) (*Map[K, V], error) {
	tree, err := avl.New(avl.Config[K, Entry[K, V]]{
		Compare: cfg.Compare,
		KeyOf:   containers.KeyOf[K, V],
		Arena:   cfg.Arena,
	})
	if err != nil {
		return nil, fmt.Errorf("omap: %w", err)
	}
	return &Map[K, V]{tree: tree}, nil
}

// NewOrdered creates an empty map for a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any]() *Map[K, V] {
	m, err := New(Config[K, V]{Compare: cmp.Compare[K]})
	if err != nil {
		panic(err) // a private slab cannot fail to supply the sentinel
	}
	return m
}

// Tree exposes the underlying engine, e.g. for iterator based access.
func (m *Map[K, V]) Tree() *avl.Tree[K, Entry[K, V]] {
	return m.tree
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.tree.IsEmpty()
}

// Insert adds k → v if k is absent and reports whether it did.
func (m *Map[K, V]) Insert(k K, v V) (bool, error) {
	_, ok, err := m.tree.Insert(Entry[K, V]{Key: k, Value: v})
	return ok, err
}

// TryInsert adds k → mk() if k is absent. mk is not called for a present key.
func (m *Map[K, V]) TryInsert(k K, mk func() V) (bool, error) {
	_, ok, err := m.tree.InsertKey(k, func() Entry[K, V] {
		return Entry[K, V]{Key: k, Value: mk()}
	})
	return ok, err
}

// Set maps k to v, inserting or overwriting.
func (m *Map[K, V]) Set(k K, v V) error {
	it, ok, err := m.tree.Insert(Entry[K, V]{Key: k, Value: v})
	if err != nil {
		return err
	}
	if !ok {
		it.Ref().Value = v
	}
	it.Release()
	return nil
}

// Get returns the value mapped to k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	e, ok := m.tree.Get(k)
	return e.Value, ok
}

// At returns the value mapped to k or ErrKeyNotFound.
func (m *Map[K, V]) At(k K) (V, error) {
	e, ok := m.tree.Get(k)
	if !ok {
		return e.Value, fmt.Errorf("omap: %w: %v", ErrKeyNotFound, k)
	}
	return e.Value, nil
}

// Contains reports whether k is mapped.
func (m *Map[K, V]) Contains(k K) bool {
	return m.tree.Contains(k)
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	return m.tree.EraseKey(k) == 1
}

// Min returns the entry with the smallest key.
func (m *Map[K, V]) Min() (K, V, bool) {
	e, ok := m.tree.Min()
	return e.Key, e.Value, ok
}

// Max returns the entry with the largest key.
func (m *Map[K, V]) Max() (K, V, bool) {
	e, ok := m.tree.Max()
	return e.Key, e.Value, ok
}

// Merge moves every entry of other whose key is absent from m into m.
// Entries with keys present in both maps stay in other.
func (m *Map[K, V]) Merge(other *Map[K, V]) error {
	return m.tree.Merge(other.tree)
}

// All returns an iterator over the entries in ascending key order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := range m.tree.All() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys in ascending order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := range m.tree.All() {
			if !yield(e.Key) {
				return
			}
		}
	}
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.tree.Clear()
}

// Close releases all storage. The map must not be used afterwards.
func (m *Map[K, V]) Close() {
	m.tree.Close()
}
