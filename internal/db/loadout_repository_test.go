package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/idkfx/internal/loadout"
)

func sampleLoadout() *loadout.Loadout {
	return &loadout.Loadout{
		Name:           "bob",
		Archetype:      "rogue",
		Abilities:      []string{"fireball", "drain"},
		Items:          []loadout.ItemStack{{Name: "troll_blood", Count: 2}, {Name: "iron_plate", Count: 1}},
		CatalogVersion: "abc123",
		UpdatedAt:      time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestLoadoutRepository_SaveLoad(t *testing.T) {
	repo := NewLoadoutRepository(setupTestDB(t))
	ctx := context.Background()

	want := sampleLoadout()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadoutRepository_SaveReplaces(t *testing.T) {
	repo := NewLoadoutRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleLoadout()))

	updated := sampleLoadout()
	updated.Archetype = "mage"
	updated.Abilities = nil
	updated.Items = []loadout.ItemStack{{Name: "spell_focus", Count: 3}}
	require.NoError(t, repo.Save(ctx, updated))

	got, err := repo.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "mage", got.Archetype)
	assert.Nil(t, got.Abilities)
	assert.Equal(t, []loadout.ItemStack{{Name: "spell_focus", Count: 3}}, got.Items)
}

func TestLoadoutRepository_NotFound(t *testing.T) {
	repo := NewLoadoutRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Load(ctx, "ghost")
	assert.True(t, errors.Is(err, loadout.ErrNotFound), "Load() error = %v", err)

	err = repo.Delete(ctx, "ghost")
	assert.True(t, errors.Is(err, loadout.ErrNotFound), "Delete() error = %v", err)
}

func TestLoadoutRepository_RejectsInvalid(t *testing.T) {
	repo := NewLoadoutRepository(setupTestDB(t))

	err := repo.Save(context.Background(), &loadout.Loadout{Name: "bob"})
	assert.ErrorIs(t, err, loadout.ErrInvalid)
}

func TestLoadoutRepository_DeleteAndList(t *testing.T) {
	repo := NewLoadoutRepository(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"zed", "Bob", "alice"} {
		l := sampleLoadout()
		l.Name = name
		require.NoError(t, repo.Save(ctx, l))
	}

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "alice", "zed"}, names)

	require.NoError(t, repo.Delete(ctx, "alice"))

	names, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "zed"}, names)

	var children int
	err = testPool.QueryRow(ctx,
		`SELECT count(*) FROM loadout_items WHERE loadout_name = 'alice'`,
	).Scan(&children)
	require.NoError(t, err)
	assert.Zero(t, children)
}
