package ring

// Iterator is a random-access, contiguous view over a masked circular
// buffer (spec.md §4.3). It holds a base pointer and a logical index;
// the physical position is base+(index&mask). Logical indices keep
// iterators strictly ordered across wrap-around, which is what lets
// Range be handed to a sequential or parallel for-each the way
// std::ranges::subrange is in the original.
//
// Go has no iterator-category concepts to satisfy (unlike the C++
// original, which static_asserts std::contiguous_iterator), so Iterator
// is expressed as a small value type with the handful of operations
// RingBuffer and Range actually need: indexing, slicing, and logical
// distance.
type Iterator struct {
	slots []Slot
	mask  uint64
	index uint64
}

func newIterator(slots []Slot, mask, index uint64) Iterator {
	return Iterator{slots: slots, mask: mask, index: index}
}

// At returns the slot this iterator currently denotes.
func (it Iterator) At() *Slot {
	return &it.slots[it.index&it.mask]
}

// Index returns the logical (unmasked) index, monotonically increasing
// across wrap-around.
func (it Iterator) Index() uint64 {
	return it.index
}

// Add returns an iterator advanced by n logical positions (n may be
// negative via two's complement wraparound, matching pointer arithmetic
// on the logical index in the original `ring_iterator`).
func (it Iterator) Add(n int64) Iterator {
	return Iterator{slots: it.slots, mask: it.mask, index: uint64(int64(it.index) + n)}
}

// Sub returns the signed logical distance between two iterators over the
// same buffer.
func (it Iterator) Sub(other Iterator) int64 {
	return int64(it.index) - int64(other.index)
}

// Equal compares physical position: two iterators a full cycle apart
// compare equal here even though their logical Index differs, matching
// spec.md §4.3's note on physical-vs-logical equality.
func (it Iterator) Equal(other Iterator) bool {
	return it.index&it.mask == other.index&it.mask
}

// Range is a half-open [Begin, End) view produced by Consume or the
// non-consuming Begin/End accessors.
type Range struct {
	begin, end Iterator
}

// Len returns the number of logical slots spanned by the range.
func (r Range) Len() int {
	return int(r.end.Sub(r.begin))
}

// At returns the slot at logical offset i within the range.
func (r Range) At(i int) *Slot {
	return r.begin.Add(int64(i)).At()
}

// Begin returns the range's starting iterator.
func (r Range) Begin() Iterator { return r.begin }

// End returns the range's (exclusive) ending iterator.
func (r Range) End() Iterator { return r.end }
