package avl

import (
	"cmp"
	"math/rand"
	"testing"
)

func benchTree(b *testing.B) *Tree[int, int] {
	tree, err := New(Config[int, int]{Compare: cmp.Compare[int], KeyOf: Identity[int]})
	if err != nil {
		b.Fatalf("setup failed: %v", err)
	}
	return tree
}

func BenchmarkInsertRandom(b *testing.B) {
	keys := rand.New(rand.NewSource(1)).Perm(b.N)
	tree := benchTree(b)
	b.ResetTimer()
	for _, k := range keys {
		it, _, err := tree.Insert(k)
		if err != nil {
			b.Fatal(err)
		}
		it.Release()
	}
}

func BenchmarkFind(b *testing.B) {
	const n = 1 << 14
	tree := benchTree(b)
	for k := 0; k < n; k++ {
		_, _, _ = tree.Insert(k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !tree.Contains(i % n) {
			b.Fatalf("key %d missing", i%n)
		}
	}
}
