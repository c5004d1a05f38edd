/*
Package list implements a circular doubly linked list with a single sentinel.

The sentinel anchors the ring and doubles as the past-the-end position:
Begin is the sentinel's successor, End is the sentinel itself. Insertion
splices a block of freshly allocated nodes in one step; extraction is pure
relinking. Sort is an iterative bottom-up merge sort which relinks nodes and
never allocates.

Nodes are stored in an arena.Arena and linked through handles. Besides the
user-facing operations, List exposes a small set of node-level primitives
(NextOf, LinkBefore, EraseNodes, …). The hashtable package builds its buckets
out of runs of list nodes with them.

Iterators are registered with the list they point into. Erasing a node
orphans exactly the iterators denoting it; all other iterators stay valid.
Using an orphaned iterator panics.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package list

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
