package avl

import (
	"fmt"

	"github.com/npillmayer/containers/arena"
)

// Config configures a tree storing values of type T ordered by keys of
// type K.
type Config[K, T any] struct {
	// Compare orders keys. It returns a negative number if a < b, zero if
	// a and b are equivalent, and a positive number if a > b. Required.
	Compare func(a, b K) int
	// KeyOf extracts the key of a stored value. Required.
	KeyOf func(T) K
	// Arena supplies node storage. If nil, the tree gets a private slab.
	Arena arena.Arena[Node[T]]
}

func (cfg Config[K, T]) normalized() Config[K, T] {
	if cfg.Arena == nil {
		cfg.Arena = arena.NewSlab[Node[T]]()
	}
	return cfg
}

func (cfg Config[K, T]) validate() error {
	if cfg.Compare == nil {
		return fmt.Errorf("%w: key comparison is required", ErrInvalidConfig)
	}
	if cfg.KeyOf == nil {
		return fmt.Errorf("%w: key extractor is required", ErrInvalidConfig)
	}
	return nil
}

// Identity is a key extractor for trees whose values are their own keys.
func Identity[T any](v T) T {
	return v
}
