/*
Package umap provides an unordered map, a thin adapter over a hash table of
key/value entries.

Lookups, insertions and deletions cost O(1) expected. Iteration order is the
ring order of the underlying table and changes when the table rehashes.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package umap

import (
	"fmt"
	"iter"

	"github.com/npillmayer/containers"
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/hashtable"
	"github.com/npillmayer/containers/list"
)

// ErrKeyNotFound is returned by At for absent keys.
const ErrKeyNotFound = containers.ErrKeyNotFound

// Entry is the stored unit of a map.
type Entry[K, V any] = containers.Entry[K, V]

// Config configures a map. The zero value is a valid configuration.
type Config[K comparable, V any] struct {
	Hash          func(K) uint64    // defaults to hash/maphash
	Equal         func(a, b K) bool // defaults to ==
	Buckets       int               // initial bucket count
	MaxLoadFactor float64           // defaults to 1.0
	Arena         arena.Arena[list.Node[Entry[K, V]]]
}

// Map is an unordered map from K to V.
type Map[K comparable, V any] struct {
	table *hashtable.Table[K, Entry[K, V]]
}

// New creates an empty map.
func New[K comparable, V any](cfg Config[K, V]) (*Map[K, V], error) {
	table, err := hashtable.New(hashtable.Config[K, Entry[K, V]]{
		KeyOf:         containers.KeyOf[K, V],
		Hash:          cfg.Hash,
		Equal:         cfg.Equal,
		Buckets:       cfg.Buckets,
		MaxLoadFactor: cfg.MaxLoadFactor,
		Arena:         cfg.Arena,
	})
	if err != nil {
		return nil, fmt.Errorf("umap: %w", err)
	}
	return &Map[K, V]{table: table}, nil
}

// Table exposes the underlying engine, e.g. for iterator based access.
func (m *Map[K, V]) Table() *hashtable.Table[K, Entry[K, V]] {
	return m.table
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.table.Len()
}

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.table.IsEmpty()
}

// Insert adds k → v if k is absent and reports whether it did.
func (m *Map[K, V]) Insert(k K, v V) (bool, error) {
	_, ok, err := m.table.Insert(Entry[K, V]{Key: k, Value: v})
	return ok, err
}

// TryInsert adds k → mk() if k is absent. mk is not called for a present key.
func (m *Map[K, V]) TryInsert(k K, mk func() V) (bool, error) {
	_, ok, err := m.table.InsertKey(k, func() Entry[K, V] {
		return Entry[K, V]{Key: k, Value: mk()}
	})
	return ok, err
}

// Set maps k to v, inserting or overwriting.
func (m *Map[K, V]) Set(k K, v V) error {
	it, ok, err := m.table.Insert(Entry[K, V]{Key: k, Value: v})
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
	e, ok := m.table.Get(k)
	return e.Value, ok
}

// At returns the value mapped to k or ErrKeyNotFound.
func (m *Map[K, V]) At(k K) (V, error) {
	e, ok := m.table.Get(k)
	if !ok {
		return e.Value, fmt.Errorf("umap: %w: %v", ErrKeyNotFound, k)
	}
	return e.Value, nil
}

// Contains reports whether k is mapped.
func (m *Map[K, V]) Contains(k K) bool {
	return m.table.Contains(k)
}

// Delete removes k and reports whether it was present.
func (m *Map[K, V]) Delete(k K) bool {
	return m.table.EraseKey(k) == 1
}

// Rehash sets the bucket count, see hashtable.Table.Rehash.
func (m *Map[K, V]) Rehash(n int) error {
	return m.table.Rehash(n)
}

// BucketCount returns the current number of buckets.
func (m *Map[K, V]) BucketCount() int {
	return m.table.BucketCount()
}

// SetMaxLoadFactor changes the maximum load factor, rehashing if needed.
func (m *Map[K, V]) SetMaxLoadFactor(f float64) error {
	return m.table.SetMaxLoadFactor(f)
}

// All returns an iterator over the entries.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := range m.table.All() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys returns an iterator over the keys.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for e := range m.table.All() {
			if !yield(e.Key) {
				return
			}
		}
	}
}

// Clear removes all entries.
func (m *Map[K, V]) Clear() {
	m.table.Clear()
}

// Close releases all storage. The map must not be used afterwards.
func (m *Map[K, V]) Close() {
	m.table.Close()
}
