package hashtable

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/list"
)

const (
	// MinBuckets is the smallest bucket count a table ever uses.
	MinBuckets = 8
	// DefaultMaxLoadFactor is the load factor a table grows beyond.
	DefaultMaxLoadFactor = 1.0
	// smallTable is the bucket count below which growth multiplies by 8.
	smallTable = 512
)

// Config configures a table storing values of type T with keys of type K.
type Config[K comparable, T any] struct {
	// KeyOf extracts the key of a stored value. Required.
	KeyOf func(T) K
	// Hash hashes keys. Defaults to hash/maphash with a per-table seed.
	Hash func(K) uint64
	// Equal compares keys. Defaults to ==.
	Equal func(a, b K) bool
	// Buckets is the initial bucket count, rounded up to a power of two and
	// to at least MinBuckets. Clear returns to this count.
	Buckets int
	// MaxLoadFactor bounds size/buckets after every insert. Defaults to 1.0.
	MaxLoadFactor float64
	// MaxBuckets limits growth of the bucket array; 0 means unlimited.
	// Inserts which would need more buckets fail with ErrCapacity.
	MaxBuckets int
	// Arena supplies node storage for the shared ring. If nil, the table
	// gets a private slab.
	Arena arena.Arena[list.Node[T]]
}

func (cfg Config[K, T]) normalized() Config[K, T] {
	if cfg.Hash == nil {
		cfg.Hash = defaultHash[K]()
	}
	if cfg.Equal == nil {
		cfg.Equal = defaultEqual[K]
	}
	cfg.Buckets = ceilPow2(max(cfg.Buckets, MinBuckets))
	if cfg.MaxLoadFactor == 0 {
		cfg.MaxLoadFactor = DefaultMaxLoadFactor
	}
	if cfg.MaxBuckets > 0 {
		cfg.MaxBuckets = 1 << (bits.Len(uint(cfg.MaxBuckets)) - 1) // round down
	}
	return cfg
}

func (cfg Config[K, T]) validate() error {
	if cfg.KeyOf == nil {
		return fmt.Errorf("%w: key extractor is required", ErrInvalidConfig)
	}
	if cfg.MaxLoadFactor < 0 {
		return fmt.Errorf("%w: negative max load factor", ErrInvalidConfig)
	}
	if math.IsNaN(cfg.MaxLoadFactor) || math.IsInf(cfg.MaxLoadFactor, 0) {
		return fmt.Errorf("%w: max load factor %v is not a finite number",
			ErrInvalidConfig, cfg.MaxLoadFactor)
	}
	if cfg.MaxBuckets > 0 && cfg.MaxBuckets < cfg.Buckets {
		return fmt.Errorf("%w: max buckets %d below initial bucket count %d",
			ErrInvalidConfig, cfg.MaxBuckets, cfg.Buckets)
	}
	return nil
}

// ceilPow2 returns the smallest power of two ≥ n, for n ≥ 1.
func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
