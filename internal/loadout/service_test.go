package loadout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/udisondev/idkfx/internal/attribute"
	"github.com/udisondev/idkfx/internal/catalog"
	"github.com/udisondev/idkfx/internal/loadout"
	loadoutmock "github.com/udisondev/idkfx/internal/loadout/mock"
)

const testCatalog = `
basic_attacks:
  fist:
    target:
      - {type: damage, value: 5}
abilities:
  jab:
    target:
      - {type: damage, value: 3}
  bolt:
    target:
      - {type: damage, value: 10}
items:
  ring:
    effects:
      - attribute: {type: damage, bonus: 2}
archetypes:
  brawler:
    health: 100
    movement_speed: 5
    basic_attack: fist
    abilities: [jab]
`

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	repo     *loadoutmock.MockRepository
	catalog  *catalog.Catalog
	service  *loadout.Service
	ctx      context.Context
	existing *loadout.Loadout
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = loadoutmock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	c, err := catalog.Parse([]byte(testCatalog))
	s.Require().NoError(err)
	s.catalog = c
	s.service = loadout.NewService(s.repo, c)

	s.existing = &loadout.Loadout{
		Name:           "bob",
		Archetype:      "brawler",
		CatalogVersion: c.Version(),
	}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceTestSuite) expectLoad() {
	s.repo.EXPECT().Load(s.ctx, "bob").Return(s.existing.Clone(), nil)
}

func (s *ServiceTestSuite) TestCreate() {
	s.repo.EXPECT().Load(s.ctx, "bob").Return(nil, loadout.ErrNotFound)
	s.repo.EXPECT().Save(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, l *loadout.Loadout) error {
		s.Equal("bob", l.Name)
		s.Equal("brawler", l.Archetype)
		s.Equal(s.catalog.Version(), l.CatalogVersion)
		s.False(l.UpdatedAt.IsZero())
		return nil
	})

	l, err := s.service.Create(s.ctx, "bob", "brawler")
	s.Require().NoError(err)
	s.Equal("bob", l.Name)
}

func (s *ServiceTestSuite) TestCreate_Exists() {
	s.expectLoad()

	_, err := s.service.Create(s.ctx, "bob", "brawler")
	s.ErrorIs(err, loadout.ErrExists)
}

func (s *ServiceTestSuite) TestCreate_UnknownArchetype() {
	s.repo.EXPECT().Load(s.ctx, "bob").Return(nil, loadout.ErrNotFound)

	_, err := s.service.Create(s.ctx, "bob", "wizard")
	s.ErrorIs(err, catalog.ErrUnknownArchetype)
}

func (s *ServiceTestSuite) TestCreate_RepositoryFailure() {
	boom := errors.New("connection refused")
	s.repo.EXPECT().Load(s.ctx, "bob").Return(nil, boom)

	_, err := s.service.Create(s.ctx, "bob", "brawler")
	s.ErrorIs(err, boom)
}

func (s *ServiceTestSuite) TestEquip() {
	s.existing.Items = []loadout.ItemStack{{Name: "ring", Count: 1}}
	s.expectLoad()
	s.repo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	l, err := s.service.Equip(s.ctx, "bob", "ring", 2)
	s.Require().NoError(err)
	s.Equal([]loadout.ItemStack{{Name: "ring", Count: 3}}, l.Items)
}

func (s *ServiceTestSuite) TestEquip_UnknownItem() {
	s.expectLoad()

	_, err := s.service.Equip(s.ctx, "bob", "crown", 1)
	s.ErrorIs(err, catalog.ErrUnknownItem)
}

func (s *ServiceTestSuite) TestEquip_InvalidCount() {
	_, err := s.service.Equip(s.ctx, "bob", "ring", 0)
	s.ErrorIs(err, loadout.ErrInvalid)
}

func (s *ServiceTestSuite) TestUnequip() {
	s.existing.Items = []loadout.ItemStack{{Name: "ring", Count: 2}}
	s.expectLoad()
	s.repo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	l, err := s.service.Unequip(s.ctx, "bob", "ring")
	s.Require().NoError(err)
	s.Empty(l.Items)
}

func (s *ServiceTestSuite) TestUnequip_NotEquipped() {
	s.expectLoad()

	_, err := s.service.Unequip(s.ctx, "bob", "ring")
	s.ErrorIs(err, loadout.ErrNotEquipped)
}

func (s *ServiceTestSuite) TestLearnAndForget() {
	s.expectLoad()
	s.repo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	l, err := s.service.Learn(s.ctx, "bob", "bolt")
	s.Require().NoError(err)
	s.Equal([]string{"bolt"}, l.Abilities)

	s.existing = l
	s.expectLoad()
	s.repo.EXPECT().Save(s.ctx, gomock.Any()).Return(nil)

	l, err = s.service.Forget(s.ctx, "bob", "bolt")
	s.Require().NoError(err)
	s.Empty(l.Abilities)
}

func (s *ServiceTestSuite) TestLearn_UnknownAbility() {
	s.expectLoad()

	_, err := s.service.Learn(s.ctx, "bob", "meteor")
	s.ErrorIs(err, catalog.ErrUnknownAbility)
}

func (s *ServiceTestSuite) TestForget_ArchetypeAbility() {
	s.expectLoad()

	_, err := s.service.Forget(s.ctx, "bob", "jab")
	s.ErrorIs(err, loadout.ErrNotLearned)
}

func (s *ServiceTestSuite) TestRestore() {
	s.existing.Abilities = []string{"bolt"}
	s.existing.Items = []loadout.ItemStack{{Name: "ring", Count: 2}}
	s.existing.CatalogVersion = "stale"
	s.expectLoad()

	ch, l, err := s.service.Restore(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal("bob", l.Name)
	s.Equal("bob", ch.Name())
	s.Equal([]string{"bolt", "jab"}, ch.Abilities())
	s.Equal(4.0, ch.ModifierBonus(attribute.Damage))
	s.NotNil(ch.BasicAttackEffect())
}

func (s *ServiceTestSuite) TestRestore_NotFound() {
	s.repo.EXPECT().Load(s.ctx, "ghost").Return(nil, loadout.ErrNotFound)

	_, _, err := s.service.Restore(s.ctx, "ghost")
	s.ErrorIs(err, loadout.ErrNotFound)
}

func (s *ServiceTestSuite) TestDeleteAndList() {
	s.repo.EXPECT().Delete(s.ctx, "bob").Return(nil)
	s.repo.EXPECT().List(s.ctx).Return([]string{"alice"}, nil)

	s.Require().NoError(s.service.Delete(s.ctx, "bob"))
	names, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, names)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := loadout.NewMemoryRepository()

	if _, err := repo.Load(ctx, "bob"); !errors.Is(err, loadout.ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}

	l := &loadout.Loadout{
		Name:      "bob",
		Archetype: "brawler",
		Items:     []loadout.ItemStack{{Name: "ring", Count: 1}},
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Stored copies are isolated from the caller.
	l.Items[0].Count = 99

	got, err := repo.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ItemCount("ring") != 1 {
		t.Errorf("ItemCount(ring) = %d, want 1", got.ItemCount("ring"))
	}

	if err := repo.Save(ctx, &loadout.Loadout{Name: "alice"}); !errors.Is(err, loadout.ErrInvalid) {
		t.Errorf("Save(no archetype) error = %v, want ErrInvalid", err)
	}

	names, err := repo.List(ctx)
	if err != nil || len(names) != 1 || names[0] != "bob" {
		t.Errorf("List() = %v, %v", names, err)
	}

	if err := repo.Delete(ctx, "bob"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "bob"); !errors.Is(err, loadout.ErrNotFound) {
		t.Errorf("Delete() again error = %v, want ErrNotFound", err)
	}
}
