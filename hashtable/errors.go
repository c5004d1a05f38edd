package hashtable

import "errors"

var (
	// ErrInvalidConfig signals an invalid table configuration.
	ErrInvalidConfig = errors.New("hashtable: invalid configuration")
	// ErrCapacity signals that the bucket array would have to grow beyond
	// Config.MaxBuckets.
	ErrCapacity = errors.New("hashtable: bucket capacity exceeded")
	// ErrInvariant signals a violated structural invariant, as reported by Check.
	ErrInvariant = errors.New("hashtable: invariant violated")
)
