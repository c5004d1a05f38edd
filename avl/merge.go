package avl

import (
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/containers/registry"
)

// Merge moves every value of other whose key is not present in t into t.
// Values with keys already present in t stay in other, untouched.
//
// If both trees allocate from the same arena, nodes are relinked without
// copying and iterators into other follow their nodes into t. Otherwise
// values are copied and the source nodes erased, orphaning their iterators.
// Both trees must order keys the same way.
func (t *Tree[K, T]) Merge(other *Tree[K, T]) error {
	if t == other || other.size == 0 {
		return nil
	}
	if err := t.open(); err != nil {
		return err
	}
	relink := arena.Interchangeable(t.arena, other.arena)
	moved := 0
	for x := other.n(other.head).left; x != other.head; {
		next := other.next(x)
		parent, less, found := t.findPlace(other.keyAt(x))
		if found != arena.None {
			x = next
			continue
		}
		if relink {
			other.detach(x)
			t.attach(parent, less, x)
			registry.Reparent(x, other.proxy, t.proxy)
		} else {
			h, err := t.arena.Alloc()
			if err != nil {
				tracer().Infof("avl: merge stopped after %d values: %v", moved, err)
				return err
			}
			t.n(h).value = other.n(x).value
			t.attach(parent, less, h)
			other.eraseNode(x)
		}
		moved++
		x = next
	}
	tracer().Debugf("avl: merged %d values, %d left in source", moved, other.size)
	return nil
}

// Clone returns a copy of t with the same shape, allocating from the same
// arena.
func (t *Tree[K, T]) Clone() (*Tree[K, T], error) {
	c, err := New(t.Config())
	if err != nil {
		return nil, err
	}
	if err := c.Assign(t); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Assign replaces the content of t by a copy of other, preserving other's
// shape. If allocation fails, t is left unchanged.
func (t *Tree[K, T]) Assign(other *Tree[K, T]) error {
	if t == other {
		return nil
	}
	if err := t.open(); err != nil {
		return err
	}
	root, err := t.copySubtree(other, other.root(), t.head)
	if err != nil {
		return err
	}
	t.Clear()
	head := t.n(t.head)
	head.parent = root
	if root != t.head {
		head.left, head.right = t.minOf(root), t.maxOf(root)
	}
	t.size = other.size
	return nil
}

// copySubtree copies the subtree of other rooted at x below parent. On
// failure every node copied so far is freed again.
func (t *Tree[K, T]) copySubtree(other *Tree[K, T], x, parent arena.Handle) (arena.Handle, error) {
	if x == other.head {
		return t.head, nil
	}
	h, err := t.arena.Alloc()
	if err != nil {
		return arena.None, err
	}
	src := other.n(x)
	n := t.n(h)
	n.value, n.height, n.parent = src.value, src.height, parent
	n.left, n.right = t.head, t.head
	left, err := t.copySubtree(other, src.left, h)
	if err != nil {
		t.arena.Free(h)
		return arena.None, err
	}
	t.n(h).left = left
	right, err := t.copySubtree(other, src.right, h)
	if err != nil {
		t.freeSubtree(left)
		t.arena.Free(h)
		return arena.None, err
	}
	t.n(h).right = right
	return h, nil
}

// MoveFrom transfers all values of other to t, leaving other empty. If both
// trees share an arena no value is copied and iterators into other follow
// their values; otherwise values are copied and other is cleared.
// Every iterator into t, End included, is orphaned. Iterators at other's End
// stay with other.
func (t *Tree[K, T]) MoveFrom(other *Tree[K, T]) error {
	if t == other {
		return nil
	}
	if !arena.Interchangeable(t.arena, other.arena) {
		if err := t.Assign(other); err != nil {
			return err
		}
		t.proxy.OrphanAll()
		other.Clear()
		return nil
	}
	if err := t.open(); err != nil {
		return err
	}
	t.Clear()
	t.proxy.OrphanAll()
	t.head, other.head = other.head, t.head
	t.size, other.size = other.size, t.size
	t.proxy, other.proxy = other.proxy, t.proxy
	t.proxy.SetOwner(t)
	other.proxy.SetOwner(other)
	registry.Reparent(t.head, t.proxy, other.proxy)
	other.proxy.Retarget(t.head, other.head)
	return nil
}

// Swap exchanges the complete state of two trees in O(1). Iterators follow
// their values into the other tree.
func (t *Tree[K, T]) Swap(other *Tree[K, T]) {
	if t == other {
		return
	}
	*t, *other = *other, *t
	t.proxy.SetOwner(t)
	other.proxy.SetOwner(other)
}
