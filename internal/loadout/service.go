package loadout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/idkfx/internal/character"
)

// Catalog builds characters from templates. Implemented by
// *catalog.Catalog.
type Catalog interface {
	Version() string
	NewCharacter(name, archetype string) (*character.Character, error)
	Learn(ch *character.Character, ability string) error
	Equip(ch *character.Character, item string, count int) error
}

// Service mutates loadouts and keeps them buildable: every change is
// checked by building the character before it is saved.
type Service struct {
	repo    Repository
	catalog Catalog
	now     func() time.Time
}

func NewService(repo Repository, catalog Catalog) *Service {
	return &Service{repo: repo, catalog: catalog, now: time.Now}
}

// Create stores a new loadout for archetype.
func (s *Service) Create(ctx context.Context, name, archetype string) (*Loadout, error) {
	_, err := s.repo.Load(ctx, name)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("checking loadout %s: %w", name, err)
	}

	l := &Loadout{Name: name, Archetype: archetype}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("loadout created", "name", name, "archetype", archetype)
	return l, nil
}

// Restore loads a loadout and builds its character.
func (s *Service) Restore(ctx context.Context, name string) (*character.Character, *Loadout, error) {
	l, err := s.repo.Load(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("loading loadout %s: %w", name, err)
	}
	if l.CatalogVersion != s.catalog.Version() {
		slog.Warn("loadout saved with a different catalog",
			"name", name,
			"saved", short(l.CatalogVersion),
			"current", short(s.catalog.Version()))
	}
	ch, err := s.build(l)
	if err != nil {
		return nil, nil, err
	}
	return ch, l, nil
}

// Equip adds count copies of item.
func (s *Service) Equip(ctx context.Context, name, item string, count int) (*Loadout, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalid, count)
	}
	return s.update(ctx, name, func(l *Loadout) error {
		l.addItem(item, count)
		return nil
	})
}

// Unequip removes every copy of item added to the loadout.
func (s *Service) Unequip(ctx context.Context, name, item string) (*Loadout, error) {
	return s.update(ctx, name, func(l *Loadout) error {
		if l.removeItem(item) == 0 {
			return fmt.Errorf("%w: %s", ErrNotEquipped, item)
		}
		return nil
	})
}

// Learn adds an ability.
func (s *Service) Learn(ctx context.Context, name, ability string) (*Loadout, error) {
	return s.update(ctx, name, func(l *Loadout) error {
		l.addAbility(ability)
		return nil
	})
}

// Forget removes an ability added to the loadout. Archetype abilities
// cannot be forgotten.
func (s *Service) Forget(ctx context.Context, name, ability string) (*Loadout, error) {
	return s.update(ctx, name, func(l *Loadout) error {
		if !l.removeAbility(ability) {
			return fmt.Errorf("%w: %s", ErrNotLearned, ability)
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("deleting loadout %s: %w", name, err)
	}
	slog.Info("loadout deleted", "name", name)
	return nil
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	names, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing loadouts: %w", err)
	}
	return names, nil
}

func (s *Service) update(ctx context.Context, name string, fn func(*Loadout) error) (*Loadout, error) {
	l, err := s.repo.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading loadout %s: %w", name, err)
	}
	if err := fn(l); err != nil {
		return nil, err
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// save builds the character to prove l is consistent with the catalog,
// then stores it.
func (s *Service) save(ctx context.Context, l *Loadout) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if _, err := s.build(l); err != nil {
		return err
	}
	l.CatalogVersion = s.catalog.Version()
	l.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, l); err != nil {
		return fmt.Errorf("saving loadout %s: %w", l.Name, err)
	}
	return nil
}

func (s *Service) build(l *Loadout) (*character.Character, error) {
	ch, err := s.catalog.NewCharacter(l.Name, l.Archetype)
	if err != nil {
		return nil, fmt.Errorf("loadout %s: %w", l.Name, err)
	}
	for _, ability := range l.Abilities {
		if err := s.catalog.Learn(ch, ability); err != nil {
			return nil, fmt.Errorf("loadout %s: %w", l.Name, err)
		}
	}
	for _, it := range l.Items {
		if err := s.catalog.Equip(ch, it.Name, it.Count); err != nil {
			return nil, fmt.Errorf("loadout %s: %w", l.Name, err)
		}
	}
	return ch, nil
}

func short(version string) string {
	if len(version) > 12 {
		return version[:12]
	}
	return version
}
