package compiler

// RegisterAllocator hands out register indices within nested scopes. Each
// call frame gets its own contiguous range; ranges pushed inside a call are
// popped once that call is fully compiled, so registers used only for a
// nested call's arguments can be reused by the next sibling call. The
// watermark — the highest index ever handed out — becomes the register
// count for the whole compiled program, since registers are never
// reclaimed at runtime, only at compile time.
type RegisterAllocator struct {
	start, end int
	stack      []int // pairs of (start, end), flattened
	watermark  int
}

// NewRegisterAllocator returns an allocator with an empty initial range.
func NewRegisterAllocator() *RegisterAllocator {
	return &RegisterAllocator{watermark: -1}
}

// Alloc reserves the next register in the current range and returns it.
func (a *RegisterAllocator) Alloc() int {
	r := a.end
	a.end++
	if r > a.watermark {
		a.watermark = r
	}
	return r
}

// Current returns the next register Alloc would hand out, without
// reserving it.
func (a *RegisterAllocator) Current() int {
	return a.end
}

// PushRange saves the current range and starts a new, empty range beginning
// where the old one left off.
func (a *RegisterAllocator) PushRange() {
	a.stack = append(a.stack, a.start, a.end)
	a.start = a.end
}

// PopRange restores the range saved by the matching PushRange.
func (a *RegisterAllocator) PopRange() {
	n := len(a.stack)
	a.end = a.stack[n-1]
	a.start = a.stack[n-2]
	a.stack = a.stack[:n-2]
}

// ExtendTo forces the current range's end to cover r, asserting that r
// falls at or beyond the range's current end. A call's result lands in its
// base register, which ExtendTo reclaims for the enclosing range after the
// call's own argument registers are popped.
func (a *RegisterAllocator) ExtendTo(r int) {
	if r < a.end {
		panic("compiler: ExtendTo given a register behind the current range")
	}
	a.end = r + 1
	if r > a.watermark {
		a.watermark = r
	}
}

// RegisterCount returns the number of registers the compiled program needs,
// i.e. one past the highest register index ever allocated.
func (a *RegisterAllocator) RegisterCount() int {
	return a.watermark + 1
}
