/*
Package hashtable implements an unordered set of values with unique keys.

All values live in one shared list ring (package list). A power-of-two array
of bucket descriptors maps a key's hash to the run of ring nodes belonging to
that bucket; every run is contiguous, so iteration simply walks the ring and
visits the buckets one after the other.

Inserting a value that would push the load factor above the configured
maximum grows the bucket array and redistributes all nodes in one pass over
the ring. Nodes are relinked, never copied, and iterators stay attached to
their values.

Iterators are list iterators of the underlying ring.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package hashtable

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'containers'
func tracer() tracing.Trace {
	return tracing.Select("containers")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
