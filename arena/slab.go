package arena

/*
BSD 3-Clause License

Copyright (c) 2020–26, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "math"

// Handle addresses a node slot inside an arena.
type Handle uint32

// None is the zero handle. It is never handed out by an arena.
const None Handle = 0

// Arena is the storage interface the container engines allocate nodes from.
//
// Pointers returned by At must stay valid until the slot is freed; engines
// rely on this while rewiring several nodes in one operation.
// Implementations are expected to be pointer types, as arenas are compared
// by identity (see Interchangeable).
type Arena[N any] interface {
	Alloc() (Handle, error) // Alloc reserves a zeroed slot
	Free(h Handle)          // Free zeroes and releases a live slot
	At(h Handle) *N         // At returns the node stored at a live slot
	Live(h Handle) bool     // Live reports whether h denotes an allocated slot
	InUse() int             // InUse returns the number of allocated slots
}

// Interchangeable reports whether nodes allocated from a may be linked into a
// container whose storage is b. Only then may containers exchange nodes or
// their complete state without copying elements.
func Interchangeable[N any](a, b Arena[N]) bool {
	return a == b
}

// --- Slab ------------------------------------------------------------------

const defaultPageSize = 256

type options struct {
	capacity int
	pageSize int
}

// Option configures a Slab.
type Option func(*options)

// WithCapacity limits the number of live nodes a slab will hand out.
// A value ≤ 0 means unlimited.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithPageSize sets the number of slots allocated per page. It is rounded up
// to a power of two.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

type slot[N any] struct {
	node N
	live bool
}

// Slab is the default Arena. Slots are organized in fixed-size pages, so a
// node never moves once allocated; freed slots are recycled LIFO.
//
// A Slab created by
//
//	&Slab[N]{}
//
// is not valid; use NewSlab.
type Slab[N any] struct {
	pages     [][]slot[N]
	free      []Handle
	next      Handle // next never-used handle
	inUse     int
	capacity  int
	pageShift uint
	pageMask  Handle
}

// NewSlab creates an empty slab.
func NewSlab[N any](opts ...Option) *Slab[N] {
	o := options{pageSize: defaultPageSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	shift := uint(0)
	for 1<<shift < o.pageSize {
		shift++
	}
	return &Slab[N]{
		next:      1, // handle 0 is reserved for None
		capacity:  o.capacity,
		pageShift: shift,
		pageMask:  Handle(1)<<shift - 1,
	}
}

// Alloc reserves a zeroed node slot.
func (s *Slab[N]) Alloc() (Handle, error) {
	if s.capacity > 0 && s.inUse >= s.capacity {
		tracer().Errorf("arena: capacity of %d nodes exhausted", s.capacity)
		return None, ErrExhausted
	}
	var h Handle
	if n := len(s.free); n > 0 {
		h = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if s.next == math.MaxUint32 {
			return None, ErrExhausted
		}
		h = s.next
		if int(h>>s.pageShift) >= len(s.pages) {
			s.pages = append(s.pages, make([]slot[N], 1<<s.pageShift))
		}
		s.next++
	}
	sl := s.slot(h)
	sl.live = true
	s.inUse++
	return h, nil
}

// Free releases a live slot. The node is zeroed so that it no longer keeps
// user values reachable.
func (s *Slab[N]) Free(h Handle) {
	assert(s.Live(h), "arena: free of a handle which is not live")
	sl := s.slot(h)
	var zero N
	sl.node = zero
	sl.live = false
	s.free = append(s.free, h)
	s.inUse--
}

// At returns the node stored at h. h must be live.
func (s *Slab[N]) At(h Handle) *N {
	assert(s.Live(h), "arena: access through a handle which is not live")
	return &s.slot(h).node
}

// Live reports whether h denotes an allocated slot.
func (s *Slab[N]) Live(h Handle) bool {
	if h == None || h >= s.next {
		return false
	}
	return s.slot(h).live
}

// InUse returns the number of allocated slots.
func (s *Slab[N]) InUse() int {
	return s.inUse
}

// Capacity returns the configured node limit, or 0 if unlimited.
func (s *Slab[N]) Capacity() int {
	return s.capacity
}

func (s *Slab[N]) slot(h Handle) *slot[N] {
	return &s.pages[h>>s.pageShift][h&s.pageMask]
}
