package registry

import (
	"runtime"
	"testing"

	"github.com/npillmayer/containers/arena"
)

type container struct {
	name string
}

func TestAdoptPushesToFront(t *testing.T) {
	p := NewProxy(&container{"a"})
	r1 := NewRecord(p, 1)
	r2 := NewRecord(p, 2)
	if r1.Orphaned() || r2.Orphaned() {
		t.Fatalf("expected records to be registered")
	}
	if p.first.rec.Value() != r2 {
		t.Fatalf("expected most recent record at head of chain")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 live records, have %d", p.Len())
	}
}

func TestAdoptMovesBetweenChains(t *testing.T) {
	a := NewProxy(&container{"a"})
	b := NewProxy(&container{"b"})
	r := NewRecord(a, 7)
	r.Adopt(b)
	if r.Proxy() != b {
		t.Fatalf("expected record to belong to b")
	}
	if a.Len() != 0 || b.Len() != 1 {
		t.Fatalf("unexpected chain lengths a=%d b=%d", a.Len(), b.Len())
	}
	r.Adopt(b) // no-op
	if b.Len() != 1 {
		t.Fatalf("re-adopting into the same chain must not duplicate, len=%d", b.Len())
	}
	r.Adopt(nil)
	if !r.Orphaned() || b.Len() != 0 {
		t.Fatalf("adopting nil must orphan")
	}
}

func TestOrphanAll(t *testing.T) {
	p := NewProxy(&container{"a"})
	recs := []*Record[*container]{NewRecord(p, 1), NewRecord(p, 2), NewRecord(p, 3)}
	p.OrphanAll()
	for i, r := range recs {
		if !r.Orphaned() {
			t.Errorf("record %d still registered", i)
		}
	}
	if p.Len() != 0 {
		t.Errorf("chain not empty after OrphanAll")
	}
}

func TestOrphanMatching(t *testing.T) {
	p := NewProxy(&container{"a"})
	r1 := NewRecord(p, 1)
	r2 := NewRecord(p, 2)
	r3 := NewRecord(p, 2)
	n := p.OrphanMatching(func(h arena.Handle) bool { return h == 2 })
	if n != 2 {
		t.Fatalf("expected 2 records orphaned, got %d", n)
	}
	if r1.Orphaned() || !r2.Orphaned() || !r3.Orphaned() {
		t.Fatalf("wrong records orphaned")
	}
	if p.Len() != 1 {
		t.Fatalf("expected one survivor, have %d", p.Len())
	}
}

func TestReparent(t *testing.T) {
	a := NewProxy(&container{"a"})
	b := NewProxy(&container{"b"})
	r1 := NewRecord(a, 5)
	r2 := NewRecord(a, 6)
	r3 := r1.Clone()
	if n := Reparent(5, a, b); n != 2 {
		t.Fatalf("expected 2 records moved, got %d", n)
	}
	if r1.Proxy() != b || r3.Proxy() != b || r2.Proxy() != a {
		t.Fatalf("records not moved as expected")
	}
	if r1.Proxy().Owner().name != "b" {
		t.Fatalf("expected owner b")
	}
}

func TestRetarget(t *testing.T) {
	p := NewProxy(&container{"a"})
	r1, r2, r3 := NewRecord(p, 1), NewRecord(p, 2), NewRecord(p, 1)
	if n := p.Retarget(1, 5); n != 2 {
		t.Fatalf("expected 2 records retargeted, have %d", n)
	}
	if r1.Node() != 5 || r3.Node() != 5 || r2.Node() != 2 {
		t.Fatalf("unexpected nodes %d, %d, %d", r1.Node(), r2.Node(), r3.Node())
	}
	if r1.Proxy() != p || p.Len() != 3 {
		t.Fatalf("retargeting must not change chain membership")
	}
}

func TestSwapOwners(t *testing.T) {
	c1, c2 := &container{"one"}, &container{"two"}
	p1, p2 := NewProxy(c1), NewProxy(c2)
	r := NewRecord(p1, 1)
	p1, p2 = p2, p1
	p1.SetOwner(c1)
	p2.SetOwner(c2)
	if r.Proxy().Owner() != c2 {
		t.Fatalf("record must follow its proxy to the other container")
	}
}

func TestReleasedRecordsArePruned(t *testing.T) {
	p := NewProxy(&container{"a"})
	keep := NewRecord(p, 1)
	for i := 0; i < 100; i++ {
		r := NewRecord(p, arena.Handle(i+2))
		r.Orphan()
	}
	if p.entries > 40 {
		t.Errorf("expected chain to be compacted, has %d entries", p.entries)
	}
	if p.Len() != 1 || keep.Orphaned() {
		t.Errorf("survivor lost during compaction")
	}
}

func makeGarbage(p *Proxy[*container]) {
	for i := 0; i < 10; i++ {
		_ = NewRecord(p, arena.Handle(i+1))
	}
}

func TestCollectedRecordsArePruned(t *testing.T) {
	p := NewProxy(&container{"a"})
	makeGarbage(p)
	runtime.GC()
	n := p.Len()
	if n != 0 {
		t.Logf("%d records not yet collected", n)
	}
	if p.entries != n {
		t.Errorf("stale entries survived a walk: %d entries, %d live", p.entries, n)
	}
}

func dropRecords(p *Proxy[*container], n int) (peak int) {
	for i := 0; i < n; i++ {
		_ = NewRecord(p, arena.Handle(i+1))
		peak = max(peak, p.entries)
	}
	return peak
}

// 100000 records are dropped without being released, 10000 between
// collections. The chain must stay proportional to what a single round
// can keep alive.
func TestDroppedRecordsKeepChainBounded(t *testing.T) {
	const rounds, perRound = 10, 10000
	p := NewProxy(&container{"a"})
	kept := NewRecord(p, 4711)
	peak := 0
	for i := 0; i < rounds; i++ {
		peak = max(peak, dropRecords(p, perRound))
		runtime.GC()
	}
	if limit := 3*perRound + 16; peak > limit {
		t.Fatalf("chain grew to %d entries, expected at most %d", peak, limit)
	}
	if kept.Orphaned() || kept.Proxy() != p {
		t.Fatalf("kept record lost its chain")
	}
	found := false
	p.walk(func(r *Record[*container]) bool {
		found = found || r == kept
		return true
	})
	if !found {
		t.Fatalf("kept record pruned from chain")
	}
	runtime.KeepAlive(kept)
}
