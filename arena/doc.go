/*
Package arena supplies node storage for the container engines.

Containers never hold Go pointers between nodes. Every link is a Handle into
an Arena, and the arena hands out and reclaims slots. This keeps cyclic
parent/child/sibling graphs free of pointer bookkeeping and makes the storage
policy pluggable: a container can be given its own arena, share one with
other containers of the same node type (which is what allows nodes to move
between trees without copying), or run on an arena with a hard capacity.

Handle 0 is never handed out, so the zero value of a link field always means
"not linked".

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package arena

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
