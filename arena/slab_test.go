package arena

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/testconfig"
)

type testNode struct {
	value int
	next  Handle
}

func TestSlabNeverHandsOutNone(t *testing.T) {
	s := NewSlab[testNode]()
	h, err := s.Alloc()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h == None {
		t.Fatalf("expected first handle to be different from None")
	}
	if s.Live(None) {
		t.Fatalf("None must never be live")
	}
}

func TestSlabPointersStayStableAcrossPages(t *testing.T) {
	s := NewSlab[testNode](WithPageSize(4))
	first, _ := s.Alloc()
	p := s.At(first)
	p.value = 42
	for i := 0; i < 100; i++ {
		if _, err := s.Alloc(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if p != s.At(first) || s.At(first).value != 42 {
		t.Fatalf("node moved after page growth")
	}
	if s.InUse() != 101 {
		t.Fatalf("expected 101 live slots, have %d", s.InUse())
	}
}

func TestSlabFreeZeroesAndRecycles(t *testing.T) {
	s := NewSlab[testNode]()
	h, _ := s.Alloc()
	s.At(h).value = 7
	s.At(h).next = 3
	s.Free(h)
	if s.Live(h) {
		t.Fatalf("freed slot still live")
	}
	h2, _ := s.Alloc()
	if h2 != h {
		t.Fatalf("expected freed slot %d to be recycled, got %d", h, h2)
	}
	if n := s.At(h2); n.value != 0 || n.next != None {
		t.Fatalf("recycled slot not zeroed: %+v", *n)
	}
}

func TestSlabCapacity(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	s := NewSlab[testNode](WithCapacity(2))
	if _, err := s.Alloc(); err != nil {
		t.Fatal(err)
	}
	h, err := s.Alloc()
	if err != nil {
		t.Fatal(err)
	}
	if _, err = s.Alloc(); !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	s.Free(h)
	if _, err = s.Alloc(); err != nil {
		t.Fatalf("expected a slot after free, got %v", err)
	}
}

func TestSlabAccessOfDeadHandlePanics(t *testing.T) {
	s := NewSlab[testNode]()
	h, _ := s.Alloc()
	s.Free(h)
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic when accessing freed slot")
		}
	}()
	_ = s.At(h)
}

func TestInterchangeable(t *testing.T) {
	a := NewSlab[testNode]()
	b := NewSlab[testNode]()
	if !Interchangeable[testNode](a, a) {
		t.Errorf("arena must be interchangeable with itself")
	}
	if Interchangeable[testNode](a, b) {
		t.Errorf("distinct slabs must not be interchangeable")
	}
}
