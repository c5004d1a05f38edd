/*
Package registry tracks which iterators refer into a container instance.

Every container owns one Proxy. Every iterator owns one Record, and a live
Record is registered in exactly one Proxy chain. When a container removes a
node it orphans the records denoting that node, and those iterators learn
about it the next time they are used, without polling and without the
container keeping them alive: the chain refers to records through weak
pointers only.

Membership is not indexed by node. Orphaning and reparenting walk the chain,
so they cost O(live iterators). Node counts dominate iterator counts in
practice, and nodes stay cheap.

Using an orphaned record for dereferencing or stepping is a contract
violation; engines check this with an assertion.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package registry

import (
	"weak"

	"github.com/npillmayer/containers/arena"
)

// Proxy is the head of a container's iterator chain. C is the type of the
// owning container.
type Proxy[C any] struct {
	owner   C
	first   *entry[C]
	entries int // chain length, including stale entries
	stale   int // entries known to be stale
	live    int // live records found by the last walk
}

// entry links one record into a chain. A zero rec marks a stale entry.
type entry[C any] struct {
	rec  weak.Pointer[Record[C]]
	next *entry[C]
}

// Record is the registry part of an iterator: the proxy it belongs to and the
// node it denotes.
type Record[C any] struct {
	proxy *Proxy[C]
	link  *entry[C]
	node  arena.Handle
}

// NewProxy creates an empty iterator chain for a container.
func NewProxy[C any](owner C) *Proxy[C] {
	return &Proxy[C]{owner: owner}
}

// Owner returns the container this proxy currently belongs to.
func (p *Proxy[C]) Owner() C {
	return p.owner
}

// SetOwner re-targets a proxy. Containers call this when they exchange their
// complete state, so that iterators follow their nodes.
func (p *Proxy[C]) SetOwner(owner C) {
	p.owner = owner
}

// NewRecord creates a record for node and registers it with p.
// If p is nil, the record is created orphaned.
func NewRecord[C any](p *Proxy[C], node arena.Handle) *Record[C] {
	r := &Record[C]{node: node}
	r.Adopt(p)
	return r
}

// Adopt detaches r from any chain it is registered in and makes it the new
// head of p's chain. Adopting into the proxy r already belongs to is a no-op.
// A nil proxy orphans r.
func (r *Record[C]) Adopt(p *Proxy[C]) {
	if p == nil {
		r.Orphan()
		return
	}
	if r.proxy == p {
		return
	}
	r.Orphan()
	p.push(r)
	p.compact()
}

// Orphan detaches r from its chain. Orphaning an orphaned record is a no-op.
func (r *Record[C]) Orphan() {
	if r.proxy == nil {
		return
	}
	r.link.rec = weak.Pointer[Record[C]]{}
	r.proxy.stale++
	r.proxy = nil
	r.link = nil
}

// Orphaned reports whether r is not registered with any container.
func (r *Record[C]) Orphaned() bool {
	return r == nil || r.proxy == nil
}

// Proxy returns the proxy r is registered with, or nil if orphaned.
func (r *Record[C]) Proxy() *Proxy[C] {
	return r.proxy
}

// Node returns the node r denotes.
func (r *Record[C]) Node() arena.Handle {
	return r.node
}

// SetNode moves r to another node of the same container.
func (r *Record[C]) SetNode(h arena.Handle) {
	r.node = h
}

// Clone creates a second record for the same node, registered in the same
// chain as r. Cloning an orphaned record yields an orphaned record.
func (r *Record[C]) Clone() *Record[C] {
	return NewRecord(r.proxy, r.node)
}

// OrphanAll detaches every record of the chain and resets it to empty.
func (p *Proxy[C]) OrphanAll() {
	for e := p.first; e != nil; e = e.next {
		if r := e.rec.Value(); r != nil && r.link == e {
			r.proxy = nil
			r.link = nil
		}
	}
	p.first = nil
	p.entries, p.stale, p.live = 0, 0, 0
}

// OrphanMatching detaches every record whose node satisfies pred and
// returns the number of records orphaned.
func (p *Proxy[C]) OrphanMatching(pred func(arena.Handle) bool) int {
	cnt := 0
	p.walk(func(r *Record[C]) bool {
		if pred(r.node) {
			r.proxy = nil
			r.link = nil
			cnt++
			return false
		}
		return true
	})
	return cnt
}

// Reparent moves every record denoting node from chain from into chain to.
// It is used when a node changes its owning container without being copied.
// It returns the number of records moved.
func Reparent[C any](node arena.Handle, from, to *Proxy[C]) int {
	if from == to {
		return 0
	}
	var moved []*Record[C]
	from.walk(func(r *Record[C]) bool {
		if r.node == node {
			moved = append(moved, r)
			return false
		}
		return true
	})
	for _, r := range moved {
		r.proxy = nil
		r.link = nil
		to.push(r)
	}
	to.compact()
	return len(moved)
}

// Retarget moves every record of p denoting node from to node to and
// returns the number of records moved.
func (p *Proxy[C]) Retarget(from, to arena.Handle) int {
	cnt := 0
	p.walk(func(r *Record[C]) bool {
		if r.node == from {
			r.node = to
			cnt++
		}
		return true
	})
	return cnt
}

// Len returns the number of live records in the chain.
func (p *Proxy[C]) Len() int {
	n := 0
	p.walk(func(*Record[C]) bool {
		n++
		return true
	})
	return n
}

func (p *Proxy[C]) push(r *Record[C]) {
	e := &entry[C]{rec: weak.Make(r), next: p.first}
	p.first = e
	p.entries++
	r.proxy = p
	r.link = e
}

// walk visits every live record once. Records for which visit returns false
// are unlinked. Stale entries are dropped on the way.
func (p *Proxy[C]) walk(visit func(*Record[C]) bool) {
	link := &p.first
	live := 0
	for *link != nil {
		e := *link
		r := e.rec.Value()
		if r == nil || r.link != e || !visit(r) {
			*link = e.next
			p.entries--
			continue
		}
		live++
		link = &e.next
	}
	p.stale = 0
	p.live = live
}

// compact prunes the chain once more than half of its entries are known to
// be stale, or once the chain has grown to twice the number of live records
// found by the previous walk. The second rule catches records dropped
// without being released: the GC clears them silently, so they never show
// up as stale. Both rules keep the chain within O(live records) at
// amortized constant cost per push.
func (p *Proxy[C]) compact() {
	if p.stale > 16 && 2*p.stale > p.entries || p.entries > 2*max(p.live, 16) {
		p.walk(func(*Record[C]) bool { return true })
	}
}
