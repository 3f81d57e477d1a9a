package effect

import (
	"errors"
	"fmt"
)

// ErrMissingSavedValue is returned when an effect reads a slot nobody wrote.
var ErrMissingSavedValue = errors.New("missing saved value")

// SavedValues is the scratch store of one stage application: id -> accumulated
// value. A fresh store is created for every stage application.
type SavedValues struct {
	values       map[ID]float64
	fromMultiHit bool
}

// NewSavedValues creates an empty store. fromMultiHit marks values produced by
// a repeated application (multi-hit ability, status tick) which are already
// scaled by the per-hit multiplier.
func NewSavedValues(fromMultiHit bool) *SavedValues {
	return &SavedValues{
		values:       make(map[ID]float64, 4),
		fromMultiHit: fromMultiHit,
	}
}

// Save adds v to the slot id. Writes to NoID are dropped.
func (s *SavedValues) Save(id ID, v float64) {
	if id == NoID {
		return
	}
	s.values[id] += v
}

// Set overwrites the slot id with v.
func (s *SavedValues) Set(id ID, v float64) {
	if id == NoID {
		return
	}
	s.values[id] = v
}

// Value returns the value saved under id, or ErrMissingSavedValue.
func (s *SavedValues) Value(id ID) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("reading id %s from absent store: %w", id, ErrMissingSavedValue)
	}
	v, ok := s.values[id]
	if !ok {
		return 0, fmt.Errorf("reading id %s: %w", id, ErrMissingSavedValue)
	}
	return v, nil
}

// Has reports whether id was written.
func (s *SavedValues) Has(id ID) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[id]
	return ok
}

// FromMultiHit reports whether the values come from a repeated application.
func (s *SavedValues) FromMultiHit() bool {
	return s != nil && s.fromMultiHit
}

// Len returns the number of written slots.
func (s *SavedValues) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}
