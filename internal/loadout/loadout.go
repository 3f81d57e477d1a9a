// Package loadout persists which archetype, extra abilities and items a
// named character has, and rebuilds characters from the catalog.
package loadout

//go:generate mockgen -destination=mock/mock_repository.go -package=loadoutmock github.com/udisondev/idkfx/internal/loadout Repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrNotFound    = errors.New("loadout not found")
	ErrExists      = errors.New("loadout already exists")
	ErrInvalid     = errors.New("invalid loadout")
	ErrNotEquipped = errors.New("item not equipped")
	ErrNotLearned  = errors.New("ability not learned")
)

// ItemStack is a number of copies of a catalog item.
type ItemStack struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Loadout is the persisted state of a character. Abilities and Items are
// on top of what the archetype grants.
type Loadout struct {
	Name           string      `json:"name"`
	Archetype      string      `json:"archetype"`
	Abilities      []string    `json:"abilities,omitempty"`
	Items          []ItemStack `json:"items,omitempty"`
	CatalogVersion string      `json:"catalog_version"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Repository stores loadouts by name.
//
// Load and Delete return ErrNotFound for unknown names. Save creates or
// replaces. List returns names in ascending order.
type Repository interface {
	Load(ctx context.Context, name string) (*Loadout, error)
	Save(ctx context.Context, l *Loadout) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Validate checks the fields every backend relies on.
func (l *Loadout) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil", ErrInvalid)
	}
	if l.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if l.Archetype == "" {
		return fmt.Errorf("%w: %s has no archetype", ErrInvalid, l.Name)
	}
	for _, it := range l.Items {
		if it.Name == "" || it.Count <= 0 {
			return fmt.Errorf("%w: %s has item %+v", ErrInvalid, l.Name, it)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (l *Loadout) Clone() *Loadout {
	cp := *l
	cp.Abilities = slices.Clone(l.Abilities)
	cp.Items = slices.Clone(l.Items)
	return &cp
}

func (l *Loadout) HasAbility(name string) bool {
	return slices.Contains(l.Abilities, name)
}

func (l *Loadout) addAbility(name string) {
	if !l.HasAbility(name) {
		l.Abilities = append(l.Abilities, name)
	}
}

func (l *Loadout) removeAbility(name string) bool {
	i := slices.Index(l.Abilities, name)
	if i < 0 {
		return false
	}
	l.Abilities = slices.Delete(l.Abilities, i, i+1)
	return true
}

// ItemCount returns the copies of the named item.
func (l *Loadout) ItemCount(name string) int {
	for _, it := range l.Items {
		if it.Name == name {
			return it.Count
		}
	}
	return 0
}

func (l *Loadout) addItem(name string, count int) {
	for i := range l.Items {
		if l.Items[i].Name == name {
			l.Items[i].Count += count
			return
		}
	}
	l.Items = append(l.Items, ItemStack{Name: name, Count: count})
}

func (l *Loadout) removeItem(name string) int {
	i := slices.IndexFunc(l.Items, func(it ItemStack) bool { return it.Name == name })
	if i < 0 {
		return 0
	}
	n := l.Items[i].Count
	l.Items = slices.Delete(l.Items, i, i+1)
	return n
}
