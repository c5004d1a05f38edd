package hashtable

import (
	"hash/maphash"

	"github.com/spaolacci/murmur3"
)

// StringHash hashes string keys with MurmurHash3. Unlike the default hash it
// is stable across processes, which makes bucket layouts reproducible.
func StringHash[S ~string](s S) uint64 {
	return murmur3.Sum64([]byte(s))
}

// BytesHash hashes a byte slice with MurmurHash3. It is a building block for
// hash functions of composite keys.
func BytesHash(b []byte) uint64 {
	return murmur3.Sum64(b)
}

// defaultHash hashes comparable keys with a per-table random seed.
func defaultHash[K comparable]() func(K) uint64 {
	seed := maphash.MakeSeed()
	return func(k K) uint64 {
		return maphash.Comparable(seed, k)
	}
}

func defaultEqual[K comparable](a, b K) bool {
	return a == b
}
