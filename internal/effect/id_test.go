package effect

import (
	"math/rand/v2"
	"testing"
)

func TestIDSet_NextValidID_Empty(t *testing.T) {
	var s IDSet
	if got := s.NextValidID(); got != MinValidID {
		t.Fatalf("NextValidID() = %d; want %d", got, MinValidID)
	}
}

func TestIDSet_AddAdvancesCache(t *testing.T) {
	s := NewIDSet(1, 2, 3, 5)
	if got := s.NextValidID(); got != 4 {
		t.Fatalf("NextValidID() = %d; want 4", got)
	}
	s.Add(4)
	if got := s.NextValidID(); got != 6 {
		t.Fatalf("NextValidID() = %d; want 6", got)
	}
}

func TestIDSet_RemoveRollsBack(t *testing.T) {
	s := NewIDSet(1, 2, 3, 4)
	s.Remove(2)
	if got := s.NextValidID(); got != 2 {
		t.Fatalf("NextValidID() = %d; want 2", got)
	}
	s.Remove(4)
	if got := s.NextValidID(); got != 2 {
		t.Fatalf("NextValidID() after removing a higher id = %d; want 2", got)
	}
}

func TestIDSet_NoIDIgnored(t *testing.T) {
	var s IDSet
	s.Add(NoID)
	if !s.IsEmpty() {
		t.Fatal("adding NoID should leave the set empty")
	}
}

// Random Add/Remove sequences never hand out an occupied id and always hand
// out the smallest free one.
func TestIDSet_NextValidID_Random(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	var s IDSet
	present := make(map[ID]bool)

	for range 5000 {
		id := ID(1 + r.IntN(40))
		if r.IntN(3) == 0 {
			s.Remove(id)
			delete(present, id)
		} else {
			s.Add(id)
			present[id] = true
		}

		want := MinValidID
		for present[want] {
			want++
		}
		got := s.NextValidID()
		if got != want {
			t.Fatalf("NextValidID() = %d; want %d (set %s)", got, want, s)
		}
		if s.Contains(got) {
			t.Fatalf("NextValidID() returned occupied id %d", got)
		}
	}
}

func TestIDSet_AllocateSkipsReserved(t *testing.T) {
	var s IDSet
	for range int(maxAllocatableID) {
		id := s.Allocate()
		if id.IsReserved() {
			t.Fatalf("allocated reserved id %s", id)
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on exhausted id space")
		}
	}()
	s.Allocate()
}

func TestIDSet_SetOperations(t *testing.T) {
	a := NewIDSet(1, 2, 3)
	b := NewIDSet(2, 3, 4)

	if got := a.Intersect(b).IDs(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("Intersect = %v; want [2 3]", got)
	}
	if got := a.Union(b).Len(); got != 4 {
		t.Errorf("Union len = %d; want 4", got)
	}
	if got := a.Difference(b).IDs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Difference = %v; want [1]", got)
	}
	if !a.Union(b).Equal(NewIDSet(4, 3, 2, 1)) {
		t.Error("Equal should ignore insertion order")
	}
}

func TestIDSet_SwapMap(t *testing.T) {
	existing := NewIDSet(1, 2, 3)
	incoming := NewIDSet(2, 3, 7)
	occupied := existing.Union(incoming).Union(reservedIDs)

	swap := occupied.SwapMap(existing.Intersect(incoming))
	if len(swap) != 2 {
		t.Fatalf("swap map has %d entries; want 2", len(swap))
	}
	if swap[2] != 4 || swap[3] != 5 {
		t.Fatalf("swap map = %v; want 2->4 3->5", swap)
	}

	remapped := swapSet(incoming, swap)
	if !remapped.Intersect(existing).IsEmpty() {
		t.Fatalf("remapped set %s still collides with %s", remapped, existing)
	}
}

func TestIDSet_SwapMapEmpty(t *testing.T) {
	if m := NewIDSet(1).SwapMap(IDSet{}); m != nil {
		t.Fatalf("SwapMap of nothing = %v; want nil", m)
	}
}
