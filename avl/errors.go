package avl

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("avl: invalid configuration")
	// ErrInvariant signals a violated structural invariant, as reported by Check.
	ErrInvariant = errors.New("avl: invariant violated")
	// ErrClosed signals that a tree has been closed and can no longer allocate.
	ErrClosed = errors.New("avl: tree has been closed")
)
