package character

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/udisondev/idkfx/internal/effect"
)

// basicAttackKey is the member key of the basic attack.
const basicAttackKey = "basic_attack"

// attachment is a bonus bundle attached at a location. members maps each
// multi-stage effect of the location to the bonus id it got there.
type attachment struct {
	bundle  *effect.MultiStageBonusEffect
	stacks  int
	order   uint64
	members map[string]effect.ID
}

type partialAttachment struct {
	info    effect.PartialEffectInfo
	bonus   *effect.BonusEffect
	stacks  int
	order   uint64
	members map[string]effect.PartialIDs
}

// locationStore holds the multi-stage effects of one location and the
// bonus effects attached to it. Attachments outlive the members: an ability
// registered later receives every attachment already present.
type locationStore struct {
	loc         effect.Location
	members     map[string]*effect.MultiStageEffect
	ids         effect.IDSet
	attachments map[effect.ID]*attachment
	partials    map[effect.ID]*partialAttachment

	// seq orders attachments and partials together. Ids are recycled and
	// cannot stand in for it.
	seq uint64
}

func newLocationStore(loc effect.Location) *locationStore {
	s := &locationStore{
		loc:         loc,
		members:     make(map[string]*effect.MultiStageEffect),
		attachments: make(map[effect.ID]*attachment),
		partials:    make(map[effect.ID]*partialAttachment),
	}
	if loc.IsReactive() {
		s.members[loc.String()] = effect.NewMultiStageEffect(loc.String())
	}
	return s
}

func (s *locationStore) memberNames() []string {
	return slices.Sorted(maps.Keys(s.members))
}

func (s *locationStore) attach(bundle *effect.MultiStageBonusEffect) effect.ID {
	id := s.ids.Allocate()
	s.seq++
	a := &attachment{bundle: bundle, stacks: 1, order: s.seq, members: make(map[string]effect.ID)}
	for _, name := range s.memberNames() {
		a.members[name] = attachTo(s.members[name], bundle, 1)
	}
	s.attachments[id] = a
	return id
}

func (s *locationStore) stack(id effect.ID) {
	a, ok := s.attachments[id]
	if !ok {
		slog.Warn("stacking unknown attachment", "location", s.loc, "id", id)
		return
	}
	a.stacks++
	for name, bid := range a.members {
		s.members[name].AddBonusEffects(a.bundle, &bid, false)
	}
}

func (s *locationStore) detach(id effect.ID) {
	a, ok := s.attachments[id]
	if !ok {
		return
	}
	for name, bid := range a.members {
		s.members[name].RemoveBonusEffects(bid)
	}
	delete(s.attachments, id)
	s.ids.Remove(id)
}

func (s *locationStore) attachPartial(info effect.PartialEffectInfo, bonus *effect.BonusEffect) effect.ID {
	id := s.ids.Allocate()
	s.seq++
	p := &partialAttachment{info: info, bonus: bonus, stacks: 1, order: s.seq, members: make(map[string]effect.PartialIDs)}
	for _, name := range s.memberNames() {
		if ids, ok := partialTo(s.members[name], info, bonus, 1); ok {
			p.members[name] = ids
		}
	}
	s.partials[id] = p
	return id
}

func (s *locationStore) stackPartial(id effect.ID) {
	p, ok := s.partials[id]
	if !ok {
		slog.Warn("stacking unknown partial effect", "location", s.loc, "id", id)
		return
	}
	p.stacks++
	for name, ids := range p.members {
		s.members[name].AddPartialEffectStack(ids)
	}
}

func (s *locationStore) detachPartial(id effect.ID) {
	p, ok := s.partials[id]
	if !ok {
		return
	}
	for name, ids := range p.members {
		s.members[name].RemovePartialEffect(ids)
	}
	delete(s.partials, id)
	s.ids.Remove(id)
}

// register installs e under name, replacing a previous member, and replays
// the location's bonus and partial effects in the order they were attached.
// A partial effect taps only what was present when it was attached, so the
// replay must interleave both kinds.
func (s *locationStore) register(name string, e *effect.MultiStageEffect) {
	s.unregister(name)

	m := e.Clone()
	for _, r := range s.replayOrder() {
		if r.a != nil {
			r.a.members[name] = attachTo(m, r.a.bundle, r.a.stacks)
			continue
		}
		if ids, ok := partialTo(m, r.p.info, r.p.bonus, r.p.stacks); ok {
			r.p.members[name] = ids
		}
	}
	s.members[name] = m
}

// replayEntry is either an attachment or a partial attachment.
type replayEntry struct {
	order uint64
	a     *attachment
	p     *partialAttachment
}

func (s *locationStore) replayOrder() []replayEntry {
	out := make([]replayEntry, 0, len(s.attachments)+len(s.partials))
	for _, a := range s.attachments {
		out = append(out, replayEntry{order: a.order, a: a})
	}
	for _, p := range s.partials {
		out = append(out, replayEntry{order: p.order, p: p})
	}
	slices.SortFunc(out, func(x, y replayEntry) int {
		return cmp.Compare(x.order, y.order)
	})
	return out
}

func (s *locationStore) unregister(name string) bool {
	if _, ok := s.members[name]; !ok {
		return false
	}
	delete(s.members, name)
	for _, a := range s.attachments {
		delete(a.members, name)
	}
	for _, p := range s.partials {
		delete(p.members, name)
	}
	return true
}

func attachTo(m *effect.MultiStageEffect, bundle *effect.MultiStageBonusEffect, stacks int) effect.ID {
	var bid effect.ID
	m.AddBonusEffects(bundle, &bid, true)
	for range stacks - 1 {
		m.AddBonusEffects(bundle, &bid, false)
	}
	return bid
}

// partialTo attaches a partial effect to m. Members without tappable effects
// are skipped.
func partialTo(m *effect.MultiStageEffect, info effect.PartialEffectInfo, bonus *effect.BonusEffect, stacks int) (effect.PartialIDs, bool) {
	ids, err := m.AddPartialEffect(info, bonus)
	if err != nil {
		slog.Debug("partial effect skipped", "effect", m.Name, "error", err)
		return effect.PartialIDs{}, false
	}
	for range stacks - 1 {
		m.AddPartialEffectStack(ids)
	}
	return ids, true
}

// AddEffectToLocation implements effect.Host.
func (c *Character) AddEffectToLocation(loc effect.Location, bonus *effect.MultiStageBonusEffect, id *effect.ID) {
	if loc >= effect.LocationCount || bonus == nil {
		return
	}
	s := c.locations[loc]
	if *id != effect.NoID {
		s.stack(*id)
		return
	}
	*id = s.attach(bonus)

	slog.Debug("effect attached to location",
		"character", c.name,
		"location", loc,
		"bundle", bonus.Name,
		"id", *id)
}

// RemoveEffectFromLocation implements effect.Host.
func (c *Character) RemoveEffectFromLocation(loc effect.Location, id effect.ID) {
	if loc >= effect.LocationCount {
		return
	}
	c.locations[loc].detach(id)
}

// AddPartialEffect implements effect.Host. The partial effect is kept for
// every current and future member of the location; members without effects
// of the tapped type are skipped.
func (c *Character) AddPartialEffect(info effect.PartialEffectInfo, bonus *effect.BonusEffect) (effect.ID, error) {
	if err := effect.ValidatePartial(info, bonus).Err(); err != nil {
		return effect.NoID, fmt.Errorf("%s: %w", c.name, err)
	}
	id := c.locations[info.Location].attachPartial(info, bonus)

	slog.Debug("partial effect attached to location",
		"character", c.name,
		"location", info.Location,
		"id", id)
	return id, nil
}

// AddPartialEffectStack implements effect.Host.
func (c *Character) AddPartialEffectStack(loc effect.Location, id effect.ID) {
	if loc >= effect.LocationCount {
		return
	}
	c.locations[loc].stackPartial(id)
}

// RemovePartialEffect implements effect.Host.
func (c *Character) RemovePartialEffect(loc effect.Location, id effect.ID) {
	if loc >= effect.LocationCount {
		return
	}
	c.locations[loc].detachPartial(id)
}

// RegisterAbilityEffect implements effect.AbilityRegistry. A copy of e is
// stored; attachments present at the abilities location are applied to it.
func (c *Character) RegisterAbilityEffect(name string, e *effect.MultiStageEffect) {
	c.locations[effect.LocationAbilities].register(name, e)
	slog.Debug("ability registered", "character", c.name, "ability", name)
}

// UnregisterAbilityEffect implements effect.AbilityRegistry.
func (c *Character) UnregisterAbilityEffect(name string) {
	if c.locations[effect.LocationAbilities].unregister(name) {
		slog.Debug("ability unregistered", "character", c.name, "ability", name)
	}
}

// RegisterBasicAttackEffect implements effect.AbilityRegistry.
func (c *Character) RegisterBasicAttackEffect(e *effect.MultiStageEffect) {
	c.locations[effect.LocationBasicAttack].register(basicAttackKey, e)
}

// Abilities returns the registered ability names in order.
func (c *Character) Abilities() []string {
	return c.locations[effect.LocationAbilities].memberNames()
}

// Ability returns the registered ability, bonus effects included. The
// result must not be modified.
func (c *Character) Ability(name string) (*effect.MultiStageEffect, bool) {
	m, ok := c.locations[effect.LocationAbilities].members[name]
	return m, ok
}

// BasicAttackEffect returns the registered basic attack, or nil.
func (c *Character) BasicAttackEffect() *effect.MultiStageEffect {
	return c.locations[effect.LocationBasicAttack].members[basicAttackKey]
}

// ReactiveEffect returns the effect fired at a reactive location, or nil.
func (c *Character) ReactiveEffect(loc effect.Location) *effect.MultiStageEffect {
	if !loc.IsReactive() {
		return nil
	}
	return c.locations[loc].members[loc.String()]
}
