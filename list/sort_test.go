package list

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"
)

type keyed struct {
	key, seq int
}

func byKey(a, b keyed) int {
	return cmp.Compare(a.key, b.key)
}

func TestSortSmall(t *testing.T) {
	for n := 0; n <= 9; n++ {
		values := make([]int, n)
		for i := range values {
			values[i] = n - i
		}
		l := newList(t, values...)
		l.Sort(cmp.Compare[int])
		slices.Sort(values)
		if got := l.Values(); !slices.Equal(got, values) {
			t.Fatalf("n=%d: expected %v, have %v", n, values, got)
		}
		checkRing(t, l)
	}
}

func TestSortIsStable(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	for round := 0; round < 50; round++ {
		n := rnd.Intn(200)
		l, _ := New(Config[keyed]{})
		input := make([]keyed, n)
		for i := range input {
			input[i] = keyed{key: rnd.Intn(10), seq: i}
			_ = l.PushBack(input[i])
		}
		l.Sort(byKey)
		want := slices.Clone(input)
		slices.SortStableFunc(want, byKey)
		if got := l.Values(); !slices.Equal(got, want) {
			t.Fatalf("round %d: sort is not a stable permutation of its input", round)
		}
		if !l.IsSorted(byKey) {
			t.Fatalf("round %d: IsSorted disagrees with Sort", round)
		}
		checkRing(t, l)
	}
}

func TestSortKeepsIterators(t *testing.T) {
	l := newList(t, 3, 1, 2)
	it := l.Begin() // at 3
	l.Sort(cmp.Compare[int])
	if !it.Valid() || it.Value() != 3 || !it.Next().IsEnd() {
		t.Fatalf("iterator must stay attached to its element")
	}
}

func FuzzSort(f *testing.F) {
	f.Add([]byte{5, 3, 8, 1, 4, 7, 9, 2, 6})
	f.Add([]byte{})
	f.Add([]byte{1, 1, 1, 0})
	f.Fuzz(func(t *testing.T, data []byte) {
		l, _ := New(Config[keyed]{})
		input := make([]keyed, len(data))
		for i, b := range data {
			input[i] = keyed{key: int(b % 16), seq: i}
			_ = l.PushBack(input[i])
		}
		l.Sort(byKey)
		slices.SortStableFunc(input, byKey)
		if got := l.Values(); !slices.Equal(got, input) {
			t.Fatalf("sort mismatch for input %v", data)
		}
	})
}
