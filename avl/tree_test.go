package avl

import (
	"bytes"
	"cmp"
	"errors"
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"

	omap "github.com/akalinux/orderedmap"
	"github.com/npillmayer/containers/arena"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func intConfig() Config[int, int] {
	return Config[int, int]{Compare: cmp.Compare[int], KeyOf: Identity[int]}
}

func newTree(t *testing.T, keys ...int) *Tree[int, int] {
	t.Helper()
	tree, err := New(intConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insertAll(t, tree, keys...)
	return tree
}

func insertAll(t *testing.T, tree *Tree[int, int], keys ...int) {
	t.Helper()
	for _, k := range keys {
		if _, _, err := tree.Insert(k); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}
}

func check(t *testing.T, tree *Tree[int, int]) {
	t.Helper()
	if err := tree.Check(); err != nil {
		t.Fatalf("invariant check failed: %v", err)
	}
}

func collect(tree *Tree[int, int]) []int {
	return slices.Collect(tree.All())
}

func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for %s", what)
		}
	}()
	f()
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Config[int, int]{Compare: cmp.Compare[int]})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing key extractor, got %v", err)
	}
}

func TestCheckEmptyTree(t *testing.T) {
	tree := newTree(t)
	check(t, tree)
	if tree.Len() != 0 || tree.Height() != 0 {
		t.Fatalf("unexpected empty tree state len=%d height=%d", tree.Len(), tree.Height())
	}
	if !tree.Begin().IsEnd() {
		t.Fatalf("expected begin == end on empty tree")
	}
	mustPanic(t, "decrementing begin", func() { tree.End().Prev() })
	mustPanic(t, "dereferencing end", func() { _ = tree.End().Value() })
}

func TestInsertSequenceStaysBalanced(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	tree := newTree(t)
	for _, k := range []int{5, 3, 8, 1, 4, 7, 9, 2, 6} {
		if _, ok, err := tree.Insert(k); !ok || err != nil {
			t.Fatalf("insert %d: inserted=%v err=%v", k, ok, err)
		}
		check(t, tree)
	}
	if got := collect(tree); !slices.Equal(got, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Fatalf("unexpected in-order traversal %v", got)
	}
	if lo, _ := tree.Min(); lo != 1 {
		t.Errorf("expected min 1, have %d", lo)
	}
	if hi, _ := tree.Max(); hi != 9 {
		t.Errorf("expected max 9, have %d", hi)
	}
}

func TestEraseFromLeftHeavyRootDoubleRotates(t *testing.T) {
	//	    2
	//	   / \
	//	  0   3
	//	   \
	//	    1
	tree := newTree(t, 2, 0, 3, 1)
	check(t, tree)
	before := tree.Stats()
	if before.SingleRotations != 0 || before.DoubleRotations != 0 {
		t.Fatalf("setup must not rotate, stats=%+v", before)
	}
	if n := tree.EraseKey(3); n != 1 {
		t.Fatalf("expected one value erased, got %d", n)
	}
	after := tree.Stats()
	if after.DoubleRotations != 1 || after.SingleRotations != 0 {
		t.Fatalf("expected exactly one double rotation, stats=%+v", after)
	}
	check(t, tree)
	if root := tree.n(tree.root()); root.value != 1 || tree.balance(tree.root()) != 0 {
		t.Fatalf("expected balanced root 1, have %d", root.value)
	}
}

func TestDuplicateInsertReturnsExisting(t *testing.T) {
	tree := newTree(t, 1, 2, 3)
	it, ok, err := tree.Insert(2)
	if ok || err != nil {
		t.Fatalf("duplicate must not be inserted")
	}
	if it.Value() != 2 || !it.Equal(tree.Find(2)) {
		t.Fatalf("expected iterator to existing entry")
	}
	made := false
	_, ok, _ = tree.InsertKey(3, func() int { made = true; return 3 })
	if ok || made {
		t.Fatalf("InsertKey must not construct a value for a present key")
	}
	if tree.Len() != 3 {
		t.Fatalf("duplicate changed size to %d", tree.Len())
	}
}

func TestInsertIsAllOrNothing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "containers")
	defer teardown()
	//
	cfg := intConfig()
	cfg.Arena = arena.NewSlab[Node[int]](arena.WithCapacity(3))
	tree, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	insertAll(t, tree, 1, 2)
	if _, _, err := tree.Insert(3); !errors.Is(err, arena.ErrExhausted) {
		t.Fatalf("expected ErrExhausted, have %v", err)
	}
	check(t, tree)
	if tree.Len() != 2 {
		t.Fatalf("failed insert changed the tree")
	}
}

func TestIterationBothWays(t *testing.T) {
	tree := newTree(t, 4, 2, 6, 1, 3, 5, 7)
	var fwd []int
	for it := tree.Begin(); !it.IsEnd(); it.Next() {
		fwd = append(fwd, it.Key())
	}
	var bwd []int
	it := tree.End()
	for !it.Equal(tree.Begin()) {
		bwd = append(bwd, it.Prev().Value())
	}
	slices.Reverse(bwd)
	if !slices.Equal(fwd, bwd) || !slices.Equal(fwd, slices.Collect(tree.All())) {
		t.Fatalf("forward %v and backward %v traversals differ", fwd, bwd)
	}
	back := slices.Collect(tree.Backward())
	slices.Reverse(back)
	if !slices.Equal(back, fwd) {
		t.Fatalf("Backward yields %v", back)
	}
}

func TestLowerBound(t *testing.T) {
	tree := newTree(t, 10, 20, 30)
	if v := tree.LowerBound(15).Value(); v != 20 {
		t.Errorf("expected 20, have %d", v)
	}
	if v := tree.LowerBound(20).Value(); v != 20 {
		t.Errorf("expected 20, have %d", v)
	}
	if !tree.LowerBound(31).IsEnd() {
		t.Errorf("expected end")
	}
}

func TestInsertWithHint(t *testing.T) {
	tree := newTree(t)
	end := tree.End()
	for k := 0; k < 100; k++ {
		if _, ok, err := tree.InsertWithHint(end, k); !ok || err != nil {
			t.Fatalf("hinted append of %d failed", k)
		}
	}
	check(t, tree)
	hint := tree.Find(50)
	if _, ok, _ := tree.InsertWithHint(hint, 50); ok {
		t.Fatalf("hinted duplicate was inserted")
	}
	// wrong hints fall back to a regular insert
	for _, k := range []int{-5, 200, 75} {
		_ = tree.EraseKey(k)
		if _, ok, _ := tree.InsertWithHint(hint, k); !ok {
			t.Fatalf("insert of %d with wrong hint failed", k)
		}
	}
	tree.EraseKey(60)
	if _, ok, _ := tree.InsertWithHint(tree.Find(61), 60); !ok {
		t.Fatalf("insert before hint failed")
	}
	check(t, tree)
	if tree.Len() != 102 {
		t.Fatalf("expected 102 values, have %d", tree.Len())
	}
}

func TestIteratorSurvivesRebalancing(t *testing.T) {
	tree := newTree(t)
	insertAll(t, tree, 1)
	it := tree.Find(1)
	for k := 2; k < 200; k++ {
		insertAll(t, tree, k)
	}
	for k := 100; k < 150; k++ {
		tree.EraseKey(k)
	}
	if !it.Valid() || it.Value() != 1 {
		t.Fatalf("iterator lost its node during rotations")
	}
	doomed := tree.Find(42)
	tree.EraseKey(42)
	if doomed.Valid() {
		t.Fatalf("iterator of erased node must be orphaned")
	}
	mustPanic(t, "stepping orphaned iterator", func() { doomed.Next() })
}

func TestEraseRange(t *testing.T) {
	tree := newTree(t, 1, 2, 3, 4, 5, 6, 7, 8)
	end := tree.End()
	last := tree.EraseRange(tree.Find(3), tree.Find(7))
	if last.Value() != 7 {
		t.Fatalf("expected range erase to return 7")
	}
	check(t, tree)
	if got := collect(tree); !slices.Equal(got, []int{1, 2, 7, 8}) {
		t.Fatalf("unexpected content %v", got)
	}
	tree.EraseRange(tree.Begin(), tree.End())
	if !tree.IsEmpty() || last.Valid() || !end.Valid() {
		t.Fatalf("full range erase must clear and keep end iterators")
	}
	check(t, tree)
}

func TestMergeRelinksNodes(t *testing.T) {
	slab := arena.NewSlab[Node[int]]()
	cfg := intConfig()
	cfg.Arena = slab
	a, _ := New(cfg)
	b, _ := New(cfg)
	insertAll(t, a, 1, 3, 5)
	insertAll(t, b, 2, 3, 4)
	a3, b3, a5 := a.Find(3), b.Find(3), a.Find(5)
	a3node, b3node := a3.Node(), b3.Node()
	inUse := slab.InUse()
	if err := b.Merge(a); err != nil {
		t.Fatal(err)
	}
	check(t, a)
	check(t, b)
	if got := collect(b); !slices.Equal(got, []int{1, 2, 3, 4, 5}) || b.Len() != 5 {
		t.Fatalf("unexpected merge result %v", got)
	}
	if got := collect(a); !slices.Equal(got, []int{3}) {
		t.Fatalf("duplicate must stay in source, have %v", got)
	}
	if b.Find(3).Node() != b3node || a.Find(3).Node() != a3node {
		t.Fatalf("nodes for key 3 must not be exchanged")
	}
	if a3.Owner() != a || b3.Owner() != b {
		t.Fatalf("iterators of duplicates must stay where they are")
	}
	if a5.Owner() != b || a5.Value() != 5 {
		t.Fatalf("iterator must follow its node into the target tree")
	}
	if slab.InUse() != inUse {
		t.Fatalf("relinking merge must not allocate")
	}
}

func TestMergeAcrossArenas(t *testing.T) {
	a := newTree(t, 1, 3, 5)
	b := newTree(t, 2, 3, 4)
	a1 := a.Find(1)
	if err := b.Merge(a); err != nil {
		t.Fatal(err)
	}
	check(t, a)
	check(t, b)
	if got := collect(b); !slices.Equal(got, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected merge result %v", got)
	}
	if a.Len() != 1 || a1.Valid() {
		t.Fatalf("migrated source nodes must be erased")
	}
}

func TestCloneAssignSwap(t *testing.T) {
	tree := newTree(t, 8, 4, 12, 2, 6, 10, 14, 1)
	c, err := tree.Clone()
	if err != nil {
		t.Fatal(err)
	}
	check(t, c)
	if !slices.Equal(collect(c), collect(tree)) || c.Height() != tree.Height() {
		t.Fatalf("clone differs from original")
	}
	c.EraseKey(8)
	if !tree.Contains(8) {
		t.Fatalf("clone shares state with original")
	}
	other := newTree(t, 100)
	it := other.Begin()
	tree.Swap(other)
	if !slices.Equal(collect(tree), []int{100}) || other.Len() != 8 {
		t.Fatalf("swap did not exchange content")
	}
	if it.Owner() != tree {
		t.Fatalf("iterator must follow its node on swap")
	}
	if err := tree.Assign(other); err != nil {
		t.Fatal(err)
	}
	check(t, tree)
	if it.Valid() || !slices.Equal(collect(tree), collect(other)) {
		t.Fatalf("assign must replace content")
	}
}

func TestMoveFrom(t *testing.T) {
	cfg := intConfig()
	cfg.Arena = arena.NewSlab[Node[int]]()
	a, _ := New(cfg)
	b, _ := New(cfg)
	insertAll(t, b, 1, 2, 3)
	it := b.Find(2)
	if err := a.MoveFrom(b); err != nil {
		t.Fatal(err)
	}
	check(t, a)
	check(t, b)
	if a.Len() != 3 || !b.IsEmpty() || it.Owner() != a {
		t.Fatalf("unexpected state after move")
	}
	c := newTree(t, 9)
	if err := c.MoveFrom(a); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(collect(c), []int{1, 2, 3}) || !a.IsEmpty() || it.Valid() {
		t.Fatalf("unexpected state after cross-arena move")
	}
}

func TestMoveFromKeepsEndIterators(t *testing.T) {
	cfg := intConfig()
	cfg.Arena = arena.NewSlab[Node[int]]()
	a, _ := New(cfg)
	b, _ := New(cfg)
	insertAll(t, a, 9)
	insertAll(t, b, 1, 2, 3)
	aEnd, aMin, bEnd := a.End(), a.Begin(), b.End()
	if err := a.MoveFrom(b); err != nil {
		t.Fatal(err)
	}
	if aEnd.Valid() || aMin.Valid() {
		t.Fatalf("iterators into the target must be orphaned")
	}
	if bEnd.Owner() != b || !bEnd.IsEnd() {
		t.Fatalf("source End iterator must stay at the source's end")
	}
	insertAll(t, b, 7)
	if k := bEnd.Prev().Key(); k != 7 {
		t.Fatalf("expected 7 before source End, have %d", k)
	}
	check(t, a)
	check(t, b)
	c := newTree(t, 4, 5)
	cEnd := c.End()
	if err := c.MoveFrom(a); err != nil {
		t.Fatal(err)
	}
	if cEnd.Valid() || !slices.Equal(collect(c), []int{1, 2, 3}) {
		t.Fatalf("cross-arena move must orphan the target's iterators")
	}
}

func TestCloseReleasesNodes(t *testing.T) {
	cfg := intConfig()
	slab := arena.NewSlab[Node[int]]()
	cfg.Arena = slab
	tree, _ := New(cfg)
	insertAll(t, tree, 3, 1, 2)
	e := tree.End()
	tree.Close()
	if slab.InUse() != 0 || e.Valid() {
		t.Fatalf("close must free all nodes and orphan all iterators")
	}
	if _, _, err := tree.Insert(1); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, have %v", err)
	}
}

// Randomized insert/erase against an ordered map model.
func TestRandomOperationsAgainstModel(t *testing.T) {
	rnd := rand.New(rand.NewSource(4711))
	tree := newTree(t)
	model := omap.NewSliceTree[int, bool](64, cmp.Compare)
	live := map[int]bool{}
	for op := 0; op < 5000; op++ {
		k := rnd.Intn(500)
		if rnd.Intn(3) == 0 {
			_, inModel := model.Get(k)
			if n := tree.EraseKey(k); (n == 1) != inModel {
				t.Fatalf("op %d: erase %d disagrees with model", op, k)
			}
			model.Remove(k)
			delete(live, k)
		} else {
			_, inModel := model.Get(k)
			_, ok, err := tree.Insert(k)
			if err != nil || ok == inModel {
				t.Fatalf("op %d: insert %d disagrees with model", op, k)
			}
			model.Put(k, true)
			live[k] = true
		}
		if op%250 == 0 {
			check(t, tree)
		}
	}
	check(t, tree)
	want := make([]int, 0, len(live))
	for k := range live {
		want = append(want, k)
	}
	slices.Sort(want)
	if got := collect(tree); !slices.Equal(got, want) {
		t.Fatalf("tree content differs from model")
	}
	for _, k := range want {
		if _, ok := model.Get(k); !ok || !tree.Contains(k) {
			t.Fatalf("key %d missing", k)
		}
	}
}

func TestHeightBound(t *testing.T) {
	tree := newTree(t)
	for n := 1; n <= 4096; n++ {
		insertAll(t, tree, n) // ascending keys are the worst case for plain BSTs
		bound := int(math.Ceil(1.44 * math.Log2(float64(n+2))))
		if tree.Height() > bound {
			t.Fatalf("height %d exceeds bound %d for n=%d", tree.Height(), bound, n)
		}
	}
	check(t, tree)
}

func TestTree2Dot(t *testing.T) {
	tree := newTree(t, 2, 1, 3)
	var buf bytes.Buffer
	Tree2Dot(tree, &buf)
	out := buf.String()
	if !strings.HasPrefix(out, "strict digraph {") || !strings.Contains(out, "->") {
		t.Fatalf("unexpected DOT output:\n%s", out)
	}
	if strings.Count(out, "->") != 6 {
		t.Fatalf("expected 6 edges (2 inner, 4 nil), have:\n%s", out)
	}
}

func FuzzInsertErase(f *testing.F) {
	f.Add([]byte{5, 3, 8, 1, 4, 7, 9, 2, 6})
	f.Add([]byte{2, 0, 3, 1, 131})
	f.Fuzz(func(t *testing.T, ops []byte) {
		tree, _ := New(intConfig())
		for _, op := range ops {
			k := int(op & 0x3f)
			if op&0x80 != 0 {
				tree.EraseKey(k)
			} else {
				_, _, _ = tree.Insert(k)
			}
		}
		if err := tree.Check(); err != nil {
			t.Fatalf("ops %v: %v", ops, err)
		}
	})
}
