package containers

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

// Container is the lifecycle protocol shared by all engines and adapters.
//
// Clear removes all values and orphans the iterators denoting them, while
// iterators at the past-the-end position stay valid. Close orphans every
// iterator and returns all storage, including the sentinel, to the arena; a
// closed container must not be used any more.
type Container interface {
	Len() int
	IsEmpty() bool
	Clear()
	Close()
}

// Entry is the value type the map adapters store: a key and its mapped value.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// KeyOf extracts the key of an entry. It serves as key extractor for engines
// storing entries.
func KeyOf[K, V any](e Entry[K, V]) K {
	return e.Key
}
