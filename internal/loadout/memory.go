package loadout

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryRepository keeps loadouts in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	loadouts map[string]*Loadout
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{loadouts: make(map[string]*Loadout)}
}

func (r *MemoryRepository) Load(_ context.Context, name string) (*Loadout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.loadouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return l.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, l *Loadout) error {
	if err := l.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadouts[l.Name] = l.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loadouts[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(r.loadouts, name)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.loadouts)), nil
}
