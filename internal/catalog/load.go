package catalog

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/udisondev/idkfx/internal/effect"
)

// maxParallelReads bounds concurrent file reads while loading a directory.
const maxParallelReads = 4

type source struct {
	name string
	data []byte
	doc  document
}

// Load reads every *.yaml and *.yml file in dir.
func Load(ctx context.Context, dir string) (*Catalog, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("listing catalog %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("catalog %s: no yaml files", dir)
	}
	return LoadFiles(ctx, paths...)
}

// LoadFiles reads and parses the given files concurrently, then merges
// them. A name defined in two files is an error.
func LoadFiles(ctx context.Context, paths ...string) (*Catalog, error) {
	paths = slices.Sorted(slices.Values(paths))
	sources := make([]source, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading catalog file: %w", err)
			}
			doc, err := parse(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", path, err)
			}
			sources[i] = source{name: filepath.Base(path), data: data, doc: doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c, err := build(sources)
	if err != nil {
		return nil, err
	}
	slog.Info("catalog loaded",
		"files", len(sources),
		"status_effects", len(c.statuses),
		"abilities", len(c.abilities),
		"items", len(c.items),
		"archetypes", len(c.archetypes),
		"version", c.version[:12])
	return c, nil
}

// Parse builds a catalog from a single YAML document.
func Parse(data []byte) (*Catalog, error) {
	doc, err := parse(data)
	if err != nil {
		return nil, err
	}
	return build([]source{{name: "catalog.yaml", data: data, doc: doc}})
}

func parse(data []byte) (document, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return document{}, err
	}
	return doc, nil
}

func digest(sources []source) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only fails for oversized keys.
		panic(err)
	}
	for _, s := range sources {
		h.Write([]byte(s.name))
		h.Write([]byte{0})
		h.Write(s.data)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// merge combines the sources into one document. Sources are in file name
// order so the first definition of a duplicate is deterministic.
func merge(sources []source) (document, error) {
	merged := document{
		StatusEffects: make(map[string]statusDoc),
		Abilities:     make(map[string]multiDoc),
		BasicAttacks:  make(map[string]multiDoc),
		Items:         make(map[string]itemDoc),
		Archetypes:    make(map[string]archetypeDoc),
	}
	origin := make(map[string]string)
	var errs []error

	claim := func(kind, name, file string) bool {
		key := kind + "/" + name
		if first, ok := origin[key]; ok {
			errs = append(errs, fmt.Errorf("%w: %s %q in %s and %s", ErrDuplicate, kind, name, first, file))
			return false
		}
		origin[key] = file
		return true
	}

	for _, s := range sources {
		for name, d := range s.doc.StatusEffects {
			if claim("status effect", name, s.name) {
				merged.StatusEffects[name] = d
			}
		}
		for name, d := range s.doc.Abilities {
			if claim("ability", name, s.name) {
				merged.Abilities[name] = d
			}
		}
		for name, d := range s.doc.BasicAttacks {
			if claim("basic attack", name, s.name) {
				merged.BasicAttacks[name] = d
			}
		}
		for name, d := range s.doc.Items {
			if claim("item", name, s.name) {
				merged.Items[name] = d
			}
		}
		for name, d := range s.doc.Archetypes {
			if claim("archetype", name, s.name) {
				merged.Archetypes[name] = d
			}
		}
	}
	return merged, errors.Join(errs...)
}

// build turns the merged documents into templates. Status effects are built
// first so abilities and items can reference them.
func build(sources []source) (*Catalog, error) {
	doc, err := merge(sources)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		version:      digest(sources),
		statuses:     make(map[string]*effect.StatusEffect, len(doc.StatusEffects)),
		abilities:    make(map[string]*effect.MultiStageEffect, len(doc.Abilities)),
		basicAttacks: make(map[string]*effect.MultiStageEffect, len(doc.BasicAttacks)),
		items:        make(map[string]effect.ItemEffect, len(doc.Items)),
		archetypes:   make(map[string]Archetype, len(doc.Archetypes)),
	}
	var errs []error

	statusBuilder := &builder{}
	for _, name := range sortedKeys(doc.StatusEffects) {
		s, err := statusBuilder.status(name, doc.StatusEffects[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("status effect %s: %w", name, err))
			continue
		}
		c.statuses[name] = s
	}

	b := &builder{statuses: c.statuses}
	for _, name := range sortedKeys(doc.BasicAttacks) {
		m, err := b.multi(name, doc.BasicAttacks[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("basic attack %s: %w", name, err))
			continue
		}
		c.basicAttacks[name] = m
	}
	for _, name := range sortedKeys(doc.Abilities) {
		m, err := b.multi(name, doc.Abilities[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("ability %s: %w", name, err))
			continue
		}
		c.abilities[name] = m
	}
	for _, name := range sortedKeys(doc.Items) {
		e, err := b.item(doc.Items[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", name, err))
			continue
		}
		c.items[name] = e
	}
	for _, name := range sortedKeys(doc.Archetypes) {
		a, err := c.archetype(name, doc.Archetypes[name])
		if err != nil {
			errs = append(errs, fmt.Errorf("archetype %s: %w", name, err))
			continue
		}
		c.archetypes[name] = a
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) archetype(name string, d archetypeDoc) (Archetype, error) {
	if d.Health <= 0 {
		return Archetype{}, fmt.Errorf("health must be positive, got %v", d.Health)
	}
	a := Archetype{
		Name:          name,
		Health:        d.Health,
		MovementSpeed: d.MovementSpeed,
		BasicAttack:   d.BasicAttack,
		Abilities:     d.Abilities,
	}
	if d.BasicAttack != "" {
		if _, ok := c.basicAttacks[d.BasicAttack]; !ok {
			return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownBasicAttack, d.BasicAttack)
		}
	}
	for _, ability := range d.Abilities {
		if _, ok := c.abilities[ability]; !ok {
			return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownAbility, ability)
		}
	}
	for _, st := range d.Items {
		if _, ok := c.items[st.Name]; !ok {
			return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownItem, st.Name)
		}
		count := st.Count
		if count == 0 {
			count = 1
		}
		a.Items = append(a.Items, ItemStack{Name: st.Name, Count: count})
	}
	return a, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
