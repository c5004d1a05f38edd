package list

import "github.com/npillmayer/containers/arena"

// Sort orders the list by cmp, which returns a negative number if a sorts
// before b, zero if they are equivalent and a positive number otherwise.
//
// Sort is a bottom-up merge sort: runs of length 1, 2, 4, … are merged
// pairwise by relinking nodes. It never allocates and is stable, i.e.
// equivalent elements keep their relative order. Iterators stay attached to
// their elements.
func (l *List[T]) Sort(cmp func(a, b T) int) {
	l.checkOpen()
	head := l.head
	for step := 1; step < l.size; step <<= 1 {
		left := l.node(head).next
		for left != head {
			right := l.skip(left, step)
			if right == head {
				break
			}
			lc, rc := 0, 0
			for lc < step && rc < step && right != head {
				if cmp(l.node(right).value, l.node(left).value) < 0 {
					nr := l.node(right).next
					l.MoveBefore(left, right)
					right = nr
					rc++
				} else {
					left = l.node(left).next
					lc++
				}
			}
			for rc < step && right != head {
				right = l.node(right).next
				rc++
			}
			left = right
		}
	}
}

// IsSorted reports whether the list is ordered by cmp.
func (l *List[T]) IsSorted(cmp func(a, b T) int) bool {
	head := l.head
	h := l.node(head).next
	if h == head {
		return true
	}
	for next := l.node(h).next; next != head; h, next = next, l.node(next).next {
		if cmp(l.node(next).value, l.node(h).value) < 0 {
			return false
		}
	}
	return true
}

// skip advances n steps from h, stopping at the sentinel.
func (l *List[T]) skip(h arena.Handle, n int) arena.Handle {
	for i := 0; i < n && h != l.head; i++ {
		h = l.node(h).next
	}
	return h
}
