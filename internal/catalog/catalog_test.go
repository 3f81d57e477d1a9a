package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/idkfx/internal/catalog"
	"github.com/udisondev/idkfx/internal/character"
	"github.com/udisondev/idkfx/internal/effect"
)

func loadShipped(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(context.Background(), filepath.Join("..", "..", "catalog"))
	require.NoError(t, err)
	return c
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600))
	}
	return dir
}

func TestLoad_ShippedCatalogIsValid(t *testing.T) {
	c := loadShipped(t)

	ps := c.Validate()
	assert.False(t, ps.HasErrors(), "%s", ps)

	assert.Equal(t, []string{"mage", "rogue", "warrior"}, c.ArchetypeNames())
	assert.Contains(t, c.AbilityNames(), "fireball")
	assert.Contains(t, c.StatusEffectNames(), "poison")
	assert.Len(t, c.Version(), 64)
}

func TestCatalog_NewCharacter(t *testing.T) {
	c := loadShipped(t)

	rogue, err := c.NewCharacter("rin", "rogue")
	require.NoError(t, err)
	assert.Equal(t, 110.0, rogue.MaxHealth())
	assert.Equal(t, []string{"drain", "second_wind"}, rogue.Abilities())
	assert.Equal(t, []character.ItemStack{{Name: "vampiric_blade", Count: 1}}, rogue.Items())

	dummy := character.New("dummy", 100, 5)
	require.NoError(t, rogue.BasicAttack(dummy))
	assert.Equal(t, 93.0, dummy.CurrentHealth())
	assert.True(t, dummy.HasStatusEffect("poison"))

	// 8 damage spread over four ticks.
	dummy.Tick(time.Second)
	assert.InDelta(t, 91.0, dummy.CurrentHealth(), 1e-9)

	_, err = c.NewCharacter("x", "paladin")
	assert.ErrorIs(t, err, catalog.ErrUnknownArchetype)
}

func TestCatalog_ConditionalAbility(t *testing.T) {
	c := loadShipped(t)
	warrior, err := c.NewCharacter("wulf", "warrior")
	require.NoError(t, err)

	dummy := character.New("dummy", 100, 5)
	require.NoError(t, warrior.CastAbility("execute", []effect.Combatant{dummy}, 1))
	assert.Equal(t, 100.0, dummy.CurrentHealth())

	dummy.ApplyDamage(75, nil, effect.ReactionNone)
	require.NoError(t, warrior.CastAbility("execute", []effect.Combatant{dummy}, 1))
	assert.True(t, dummy.IsDead())
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := loadShipped(t)

	a, err := c.NewItem("vampiric_blade")
	require.NoError(t, err)
	b, err := c.NewItem("vampiric_blade")
	require.NoError(t, err)
	assert.NotSame(t, a.Effect, b.Effect)

	f1, err := c.Ability("fireball")
	require.NoError(t, err)
	f1.AddEffects(effect.StageSelf, effect.NewSimple(effect.Healing, 1).Build())
	f2, err := c.Ability("fireball")
	require.NoError(t, err)
	assert.Empty(t, f2.Effects(effect.StageSelf))

	arch, err := c.Archetype("mage")
	require.NoError(t, err)
	arch.Abilities[0] = "changed"
	again, err := c.Archetype("mage")
	require.NoError(t, err)
	assert.Equal(t, "fireball", again.Abilities[0])

	_, err = c.NewItem("nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownItem)
	_, err = c.StatusEffect("nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownStatusEffect)
	_, err = c.BasicAttack("nope")
	assert.ErrorIs(t, err, catalog.ErrUnknownBasicAttack)
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yaml": "abilities:\n  bolt:\n    target:\n      - {type: damage, value: 1}\n",
		"b.yaml": "abilities:\n  bolt:\n    target:\n      - {type: damage, value: 2}\n",
	})
	_, err := catalog.Load(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrDuplicate))
	assert.Contains(t, err.Error(), "a.yaml and b.yaml")
}

func TestLoad_EmptyDir(t *testing.T) {
	_, err := catalog.Load(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown status reference",
			data:    "abilities:\n  a:\n    target:\n      - status: frost\n",
			wantErr: catalog.ErrUnknownStatusEffect,
		},
		{
			name:    "status inside status",
			data:    "status_effects:\n  a:\n    duration: 1s\n    repeat:\n      - status: b\n  b:\n    duration: 1s\n    repeat:\n      - {type: damage, value: 1}\n",
			wantMsg: "cannot apply status effects",
		},
		{
			name:    "ambiguous effect",
			data:    "abilities:\n  a:\n    target:\n      - {type: damage, status: x}\n",
			wantMsg: "exactly one of",
		},
		{
			name:    "unknown effect type",
			data:    "abilities:\n  a:\n    target:\n      - {type: explode}\n",
			wantMsg: "unknown effect type",
		},
		{
			name:    "reserved id number",
			data:    "abilities:\n  a:\n    target:\n      - {type: damage, save: 255}\n",
			wantMsg: "out of range",
		},
		{
			name:    "unknown field",
			data:    "abilities:\n  a:\n    targets: []\n",
			wantMsg: "not found",
		},
		{
			name:    "archetype with unknown item",
			data:    "archetypes:\n  a:\n    health: 10\n    items:\n      - {name: ghost}\n",
			wantErr: catalog.ErrUnknownItem,
		},
		{
			name:    "archetype without health",
			data:    "archetypes:\n  a: {}\n",
			wantMsg: "health must be positive",
		},
		{
			name:    "item without effects",
			data:    "items:\n  a: {}\n",
			wantMsg: "no effects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_ReservedIDNames(t *testing.T) {
	c, err := catalog.Parse([]byte(`
items:
  thorns:
    effects:
      - add_effect:
          location: on_take_damage
          self:
            - type: healing
              uses:
                - {id: conditional_value, weight: 0.5}
`))
	require.NoError(t, err)
	assert.False(t, c.Validate().HasErrors(), "%s", c.Validate())

	tank := character.New("tank", 100, 5)
	require.NoError(t, c.Equip(tank, "thorns", 1))
	tank.ApplyDamage(40, nil, effect.ReactionHostile)
	assert.Equal(t, 80.0, tank.CurrentHealth())
}

func TestParse_ValidationIsSeparate(t *testing.T) {
	// Reads an id nothing saves: builds fine, fails validation.
	c, err := catalog.Parse([]byte(`
abilities:
  broken:
    target:
      - type: damage
        uses:
          - {id: 7, weight: 1}
`))
	require.NoError(t, err)
	assert.True(t, c.Validate().HasErrors())
}

func TestVersion_TracksContent(t *testing.T) {
	data := "abilities:\n  bolt:\n    target:\n      - {type: damage, value: 1}\n"
	a, err := catalog.Parse([]byte(data))
	require.NoError(t, err)
	b, err := catalog.Parse([]byte(data))
	require.NoError(t, err)
	c, err := catalog.Parse([]byte(data + "\n# changed\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Version(), b.Version())
	assert.NotEqual(t, a.Version(), c.Version())
}
