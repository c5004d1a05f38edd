package avl

import (
	"fmt"

	"github.com/npillmayer/containers/arena"
)

// Check validates structural tree invariants: parent links, stored heights,
// AVL balance, strict key order, the size and the min/max caches of the head.
//
// Check walks the whole tree and is meant for tests and debugging.
func (t *Tree[K, T]) Check() error {
	if t == nil || t.head == arena.None {
		return fmt.Errorf("%w: tree is nil or closed", ErrInvariant)
	}
	head := t.n(t.head)
	if !head.isNil || head.height != 0 {
		return fmt.Errorf("%w: sentinel must be nil with height 0", ErrInvariant)
	}
	root := head.parent
	if root == t.head {
		if t.size != 0 || head.left != t.head || head.right != t.head {
			return fmt.Errorf("%w: empty tree with size %d or stale min/max", ErrInvariant, t.size)
		}
		return nil
	}
	if t.n(root).parent != t.head {
		return fmt.Errorf("%w: root does not point back to the sentinel", ErrInvariant)
	}
	cnt, _, err := t.checkNode(root)
	if err != nil {
		return err
	}
	if cnt != t.size {
		return fmt.Errorf("%w: counted %d nodes, size is %d", ErrInvariant, cnt, t.size)
	}
	if head.left != t.minOf(root) || head.right != t.maxOf(root) {
		return fmt.Errorf("%w: stale min/max cache", ErrInvariant)
	}
	var prev arena.Handle
	for x := head.left; x != t.head; x = t.next(x) {
		if prev != arena.None && t.compare(t.keyAt(prev), t.keyAt(x)) >= 0 {
			return fmt.Errorf("%w: keys not strictly increasing at node %d", ErrInvariant, x)
		}
		prev = x
	}
	return nil
}

func (t *Tree[K, T]) checkNode(x arena.Handle) (cnt int, height int32, err error) {
	if x == t.head {
		return 0, 0, nil
	}
	n := t.n(x)
	if n.isNil {
		return 0, 0, fmt.Errorf("%w: nil flag on real node %d", ErrInvariant, x)
	}
	for _, c := range [2]arena.Handle{n.left, n.right} {
		if c != t.head && t.n(c).parent != x {
			return 0, 0, fmt.Errorf("%w: child %d of node %d has parent %d",
				ErrInvariant, c, x, t.n(c).parent)
		}
	}
	lc, lh, err := t.checkNode(n.left)
	if err != nil {
		return 0, 0, err
	}
	rc, rh, err := t.checkNode(n.right)
	if err != nil {
		return 0, 0, err
	}
	if d := rh - lh; d < -1 || d > 1 {
		return 0, 0, fmt.Errorf("%w: node %d has balance %d", ErrInvariant, x, d)
	}
	height = 1 + max(lh, rh)
	if n.height != height {
		return 0, 0, fmt.Errorf("%w: node %d stores height %d, has %d",
			ErrInvariant, x, n.height, height)
	}
	return lc + rc + 1, height, nil
}
