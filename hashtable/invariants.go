package hashtable

import (
	"fmt"

	"github.com/npillmayer/containers/arena"
)

// Check validates the bucket structure: the bucket count is a power of two
// not below MinBuckets, every bucket run is contiguous and holds only nodes of
// its hash class, runs are followed by the sentinel or the first node of
// another bucket, the runs cover the whole ring, and the load factor is
// within bounds.
func (t *Table[K, T]) Check() error {
	n := len(t.buckets)
	if n < MinBuckets || n&(n-1) != 0 {
		return fmt.Errorf("%w: bucket count %d", ErrInvariant, n)
	}
	if lf := t.LoadFactor(); !(lf <= t.maxLoad) {
		return fmt.Errorf("%w: load factor %.3f not within maximum %.3f",
			ErrInvariant, lf, t.maxLoad)
	}
	sentinel := t.elems.Sentinel()
	firsts := make(map[arena.Handle]int, n)
	for i, b := range t.buckets {
		if (b.first == sentinel) != (b.last == sentinel) {
			return fmt.Errorf("%w: bucket %d half empty", ErrInvariant, i)
		}
		if b.first != sentinel {
			firsts[b.first] = i
		}
	}
	total := 0
	for i, b := range t.buckets {
		if b.first == sentinel {
			continue
		}
		for h := b.first; ; h = t.elems.NextOf(h) {
			if h == sentinel {
				return fmt.Errorf("%w: run of bucket %d wraps around", ErrInvariant, i)
			}
			if j := t.indexOf(h); j != i {
				return fmt.Errorf("%w: node %d of hash class %d in bucket %d", ErrInvariant, h, j, i)
			}
			total++
			if total > t.Len() {
				return fmt.Errorf("%w: bucket runs overlap", ErrInvariant)
			}
			if h == b.last {
				break
			}
		}
		if next := t.elems.NextOf(b.last); next != sentinel {
			if j, ok := firsts[next]; !ok || j == i {
				return fmt.Errorf("%w: bucket %d is not followed by a bucket start", ErrInvariant, i)
			}
		}
	}
	if total != t.Len() {
		return fmt.Errorf("%w: runs cover %d of %d nodes", ErrInvariant, total, t.Len())
	}
	return nil
}
