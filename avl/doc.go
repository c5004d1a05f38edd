/*
Package avl implements an ordered set of values as an AVL tree.

Every node stores its subtree height; rebalancing keeps the heights of sibling
subtrees within one of each other, so the tree height stays below about
1.44·log2(n). All absent links point to one per-tree sentinel node, the head,
which also acts as the past-the-end position and caches the root (head.parent)
as well as the minimum (head.left) and maximum (head.right) nodes.

Values are ordered by a key, extracted from a value with Config.KeyOf and
compared with Config.Compare. Keys are unique: inserting a value whose key is
already present leaves the tree unchanged and returns the existing entry.

Traversal is threaded through parent links and needs no auxiliary stack.
Merge moves nodes between trees without copying values, and iterators
follow the nodes they denote.

Status:
  - insertion fixes at most one unbalanced ancestor,
  - erasure rebalances every ancestor up to the root,
  - Check validates heights, balance, ordering and the head caches,
  - Tree2Dot prints a tree in Graphviz DOT format.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package avl

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
