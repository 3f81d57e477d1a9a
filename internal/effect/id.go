package effect

import (
	"fmt"
	"math/bits"
)

// ID tags a saved value slot or a bonus effect instance.
// IDs are opaque keys, never indexes.
type ID uint8

const (
	// NoID marks an unset id.
	NoID ID = 0
	// MinValidID is the smallest id handed out by an IDSet.
	MinValidID ID = 1

	// PartialEffectPlaceholderID is used by partial effect templates to read the
	// tapped value. It is swapped for a real id when the partial effect is spliced in.
	PartialEffectPlaceholderID ID = 253
	// ConditionalEffectValueID holds the triggering value of a reactive effect
	// (damage taken, amount healed).
	ConditionalEffectValueID ID = 254
	// StackID holds the stack count of the enclosing bonus effect or status effect.
	StackID ID = 255

	maxAllocatableID = PartialEffectPlaceholderID - 1
)

// reservedIDs are never allocated and never swapped.
var reservedIDs = func() IDSet {
	var s IDSet
	s.Add(PartialEffectPlaceholderID)
	s.Add(ConditionalEffectValueID)
	s.Add(StackID)
	return s
}()

// IsReserved reports whether id is one of the reserved slots.
func (id ID) IsReserved() bool {
	return reservedIDs.Contains(id)
}

func (id ID) String() string {
	switch id {
	case NoID:
		return "none"
	case PartialEffectPlaceholderID:
		return "partial-placeholder"
	case ConditionalEffectValueID:
		return "conditional-value"
	case StackID:
		return "stack"
	default:
		return fmt.Sprintf("%d", uint8(id))
	}
}

// IDSet is a set of IDs with a cached lowest free value.
//
// IDSet is a value type: assigning it copies the set. The zero value is an
// empty set ready to use.
type IDSet struct {
	bits [4]uint64
	// minFree is the smallest id >= MinValidID not in the set. Zero means
	// MinValidID.
	minFree ID
}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...ID) IDSet {
	var s IDSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id ID) bool {
	return s.bits[id>>6]&(1<<(id&63)) != 0
}

// Add inserts id. Adding NoID is a no-op.
func (s *IDSet) Add(id ID) {
	if id == NoID {
		return
	}
	s.bits[id>>6] |= 1 << (id & 63)
	if id == s.cachedMin() {
		s.advanceMin()
	}
}

// Remove deletes id.
func (s *IDSet) Remove(id ID) {
	if id == NoID {
		return
	}
	s.bits[id>>6] &^= 1 << (id & 63)
	if id < s.cachedMin() {
		s.minFree = id
	}
}

// NextValidID returns the smallest allocatable id not in the set.
// Panics if every allocatable id is taken.
func (s IDSet) NextValidID() ID {
	id := s.cachedMin()
	for s.Contains(id) {
		id++
	}
	if id > maxAllocatableID || id < MinValidID {
		panic("effect: id space exhausted")
	}
	return id
}

// Allocate reserves and returns the next valid id.
func (s *IDSet) Allocate() ID {
	id := s.NextValidID()
	s.Add(id)
	return id
}

func (s IDSet) cachedMin() ID {
	if s.minFree < MinValidID {
		return MinValidID
	}
	return s.minFree
}

func (s *IDSet) advanceMin() {
	id := s.cachedMin()
	for id != 0 && s.Contains(id) {
		id++ // wraps to 0 past 255
	}
	s.minFree = id
}

// Len returns the number of ids in the set.
func (s IDSet) Len() int {
	n := 0
	for _, w := range s.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the set holds no ids.
func (s IDSet) IsEmpty() bool {
	return s.bits == [4]uint64{}
}

// IDs returns the ids in ascending order.
func (s IDSet) IDs() []ID {
	out := make([]ID, 0, s.Len())
	for i, w := range s.bits {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, ID(i*64+b))
			w &^= 1 << b
		}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s IDSet) Equal(other IDSet) bool {
	return s.bits == other.bits
}

// Intersect returns the ids present in both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	var out IDSet
	for i := range s.bits {
		out.bits[i] = s.bits[i] & other.bits[i]
	}
	out.recomputeMin()
	return out
}

// Union returns the ids present in either set.
func (s IDSet) Union(other IDSet) IDSet {
	var out IDSet
	for i := range s.bits {
		out.bits[i] = s.bits[i] | other.bits[i]
	}
	out.recomputeMin()
	return out
}

// Append adds every id of other to the set.
func (s *IDSet) Append(other IDSet) {
	*s = s.Union(other)
}

// Difference returns the ids of s that are not in other.
func (s IDSet) Difference(other IDSet) IDSet {
	var out IDSet
	for i := range s.bits {
		out.bits[i] = s.bits[i] &^ other.bits[i]
	}
	out.recomputeMin()
	return out
}

func (s *IDSet) recomputeMin() {
	s.minFree = MinValidID
	s.advanceMin()
}

// SwapMap allocates a fresh id for every id in colliding, avoiding every id
// already in s. The receiver is the set of occupied ids (both graphs plus
// reserved ids). Returns old -> new.
func (s IDSet) SwapMap(colliding IDSet) map[ID]ID {
	if colliding.IsEmpty() {
		return nil
	}
	occupied := s.Union(colliding)
	swap := make(map[ID]ID, colliding.Len())
	for _, id := range colliding.IDs() {
		swap[id] = occupied.Allocate()
	}
	return swap
}

func (s IDSet) String() string {
	return fmt.Sprint(s.IDs())
}

// swapID returns the replacement of id in m, or id itself.
func swapID(id ID, m map[ID]ID) ID {
	if n, ok := m[id]; ok {
		return n
	}
	return id
}

// swapSet returns s with every id remapped through m.
func swapSet(s IDSet, m map[ID]ID) IDSet {
	if len(m) == 0 {
		return s
	}
	var out IDSet
	for _, id := range s.IDs() {
		out.Add(swapID(id, m))
	}
	return out
}
