package avl

import "github.com/npillmayer/containers/arena"

// balance is height(right) − height(left).
func (t *Tree[K, T]) balance(h arena.Handle) int32 {
	n := t.n(h)
	return t.height(n.right) - t.height(n.left)
}

func (t *Tree[K, T]) updateHeight(h arena.Handle) {
	n := t.n(h)
	n.height = 1 + max(t.height(n.left), t.height(n.right))
}

// insertFixup walks up from the parent of a new leaf. Heights are propagated
// until one does not change; the first unbalanced ancestor is repaired, which
// restores the subtree height it had before the insertion.
func (t *Tree[K, T]) insertFixup(x arena.Handle) {
	for x != t.head {
		if b := t.balance(x); b > 1 || b < -1 {
			t.rebalance(x)
			return
		}
		n := t.n(x)
		h := 1 + max(t.height(n.left), t.height(n.right))
		if h == n.height {
			return
		}
		n.height = h
		x = n.parent
	}
}

// eraseFixup walks up from x to the root, updating heights and repairing
// every unbalanced ancestor on the way.
func (t *Tree[K, T]) eraseFixup(x arena.Handle) {
	for x != t.head {
		t.updateHeight(x)
		if b := t.balance(x); b > 1 || b < -1 {
			x = t.rebalance(x)
		}
		x = t.n(x).parent
	}
}

// rebalance repairs the node x with |balance| = 2 by a single or a double
// rotation and returns the new root of the subtree.
func (t *Tree[K, T]) rebalance(x arena.Handle) arena.Handle {
	var r arena.Handle
	if t.balance(x) > 0 {
		c := t.n(x).right
		if t.balance(c) >= 0 {
			t.stats.SingleRotations++
			r = t.rotateLeft(x)
		} else {
			t.stats.DoubleRotations++
			t.rotateRight(c)
			r = t.rotateLeft(x)
		}
	} else {
		c := t.n(x).left
		if t.balance(c) <= 0 {
			t.stats.SingleRotations++
			r = t.rotateRight(x)
		} else {
			t.stats.DoubleRotations++
			t.rotateLeft(c)
			r = t.rotateRight(x)
		}
	}
	t.propagateHeight(t.n(r).parent)
	return r
}

// propagateHeight recomputes heights from x upwards until one does not
// change.
func (t *Tree[K, T]) propagateHeight(x arena.Handle) {
	for x != t.head {
		n := t.n(x)
		h := 1 + max(t.height(n.left), t.height(n.right))
		if h == n.height {
			return
		}
		n.height = h
		x = n.parent
	}
}

//	  x              y
//	 / \            / \
//	a   y    =>    x   c
//	   / \        / \
//	  b   c      a   b
func (t *Tree[K, T]) rotateLeft(x arena.Handle) arena.Handle {
	xn := t.n(x)
	y := xn.right
	yn := t.n(y)
	p := xn.parent
	xn.right = yn.left
	t.setParent(yn.left, x)
	yn.left = x
	xn.parent = y
	yn.parent = p
	t.replaceChild(p, x, y)
	t.updateHeight(x)
	t.updateHeight(y)
	return y
}

//	    x          y
//	   / \        / \
//	  y   c  =>  a   x
//	 / \            / \
//	a   b          b   c
func (t *Tree[K, T]) rotateRight(x arena.Handle) arena.Handle {
	xn := t.n(x)
	y := xn.left
	yn := t.n(y)
	p := xn.parent
	xn.left = yn.right
	t.setParent(yn.right, x)
	yn.right = x
	xn.parent = y
	yn.parent = p
	t.replaceChild(p, x, y)
	t.updateHeight(x)
	t.updateHeight(y)
	return y
}
