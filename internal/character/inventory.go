package character

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/idkfx/internal/effect"
)

var (
	ErrInvalidItem = errors.New("invalid item")
	ErrNoSuchItem  = errors.New("item not owned")
)

// Item is an equippable item template.
type Item struct {
	Name   string
	Effect effect.ItemEffect
}

// ItemStack describes an owned item.
type ItemStack struct {
	Name        string
	Count       int
	DisabledFor time.Duration
}

// ownedItem is one inventory slot. Every copy of the item adds a stack of
// its effect.
type ownedItem struct {
	name        string
	effect      effect.ItemEffect
	count       int
	disabledFor time.Duration
}

func (o *ownedItem) disabled() bool {
	return o.disabledFor > 0
}

type inventory struct {
	owner *Character
	items []*ownedItem
}

func newInventory(owner *Character) *inventory {
	return &inventory{owner: owner}
}

func (inv *inventory) find(name string) (int, *ownedItem) {
	for i, it := range inv.items {
		if it.name == name {
			return i, it
		}
	}
	return -1, nil
}

// apply applies n copies of it and returns how many took effect before the
// first failure.
func (inv *inventory) apply(it *ownedItem, n int) (int, error) {
	for i := range n {
		if err := it.effect.Apply(inv.owner); err != nil {
			return i, fmt.Errorf("item %s: %w", it.name, err)
		}
	}
	return n, nil
}

func (inv *inventory) tick(dt time.Duration) {
	for _, it := range inv.items {
		if !it.disabled() {
			continue
		}
		it.disabledFor -= dt
		if it.disabled() {
			continue
		}
		it.disabledFor = 0
		if _, err := inv.apply(it, it.count); err != nil {
			slog.Warn("re-enabling item failed",
				"character", inv.owner.name,
				"item", it.name,
				"error", err)
			continue
		}
		slog.Debug("item re-enabled", "character", inv.owner.name, "item", it.name)
	}
}

// AddItem adds count copies of item. The item effect is cloned on the first
// copy; further copies stack it.
func (c *Character) AddItem(item *Item, count int) error {
	if item == nil || item.Name == "" || item.Effect == nil {
		return ErrInvalidItem
	}
	if count <= 0 {
		return fmt.Errorf("%w: count %d", ErrInvalidItem, count)
	}

	inv := c.inventory
	_, it := inv.find(item.Name)
	if it != nil && it.disabled() {
		it.count += count
		return nil
	}
	fresh := it == nil
	if fresh {
		it = &ownedItem{name: item.Name, effect: item.Effect.Clone()}
	}

	// Only copies that took effect are owned.
	applied, err := inv.apply(it, count)
	it.count += applied
	if fresh && applied > 0 {
		inv.items = append(inv.items, it)
	}
	if err != nil {
		return err
	}

	slog.Debug("item added",
		"character", c.name,
		"item", item.Name,
		"count", it.count)
	return nil
}

// RemoveItem drops every copy of the named item and returns how many were
// owned.
func (c *Character) RemoveItem(name string) (int, bool) {
	inv := c.inventory
	i, it := inv.find(name)
	if it == nil {
		return 0, false
	}
	if !it.disabled() {
		it.effect.Remove(c, it.count)
	}
	inv.items = append(inv.items[:i], inv.items[i+1:]...)

	slog.Debug("item removed", "character", c.name, "item", name, "count", it.count)
	return it.count, true
}

// DisableItemByName removes the effects of an owned item for d. They come
// back on the tick that ends the disable.
func (c *Character) DisableItemByName(name string, d time.Duration) bool {
	if d <= 0 {
		return false
	}
	_, it := c.inventory.find(name)
	if it == nil || it.disabled() {
		return false
	}
	it.effect.Remove(c, it.count)
	it.disabledFor = d

	slog.Debug("item disabled", "character", c.name, "item", name, "duration", d)
	return true
}

// ItemCount returns how many copies of the named item are owned.
func (c *Character) ItemCount(name string) int {
	if _, it := c.inventory.find(name); it != nil {
		return it.count
	}
	return 0
}

// Items returns the owned items in acquisition order.
func (c *Character) Items() []ItemStack {
	out := make([]ItemStack, len(c.inventory.items))
	for i, it := range c.inventory.items {
		out[i] = ItemStack{Name: it.name, Count: it.count, DisabledFor: it.disabledFor}
	}
	return out
}
