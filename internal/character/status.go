package character

import (
	"log/slog"
	"time"

	"github.com/udisondev/idkfx/internal/effect"
)

// maxStatuses bounds the active status effects; the oldest one is dropped
// when a new one would exceed it.
const maxStatuses = 32

// activeStatus is a running instance of a status effect template.
type activeStatus struct {
	template *effect.StatusEffect
	applier  effect.Combatant
	stacks   int

	elapsed   time.Duration
	nextTick  time.Duration
	expiresAt time.Duration

	// persistent is this instance's copy of the template's persistent
	// effects. It carries the attachment ids.
	persistent *effect.CompositeItemEffect
	removed    bool
}

// StatusInfo describes an active status effect.
type StatusInfo struct {
	Name      string
	Stacks    int
	Remaining time.Duration // negative for permanent statuses
}

// statusManager tracks the status effects active on one character.
type statusManager struct {
	owner    *Character
	statuses []*activeStatus
}

func newStatusManager(owner *Character) *statusManager {
	return &statusManager{
		owner:    owner,
		statuses: make([]*activeStatus, 0, 8),
	}
}

// apply starts a status, adds a stack (up to MaxStacks) or refreshes it.
//
// Stacking rules (same name):
//   - below MaxStacks: one more stack, persistent effects applied once more
//   - Refreshable: duration restarts
//   - otherwise: no change
func (m *statusManager) apply(s *effect.StatusEffect, applier effect.Combatant) {
	if st := m.find(s.Name); st != nil {
		st.applier = applier
		if st.stacks < s.MaxStackCount() {
			st.stacks++
			m.applyPersistent(st)
		}
		if s.Refreshable {
			st.expiresAt = st.elapsed + s.Duration
		}
		slog.Debug("status effect stacked",
			"character", m.owner.name,
			"status", s.Name,
			"stacks", st.stacks)
		return
	}

	if len(m.statuses) >= maxStatuses {
		oldest := m.statuses[0]
		m.exit(oldest)
		m.statuses = m.statuses[1:]

		slog.Debug("status limit reached, removed oldest",
			"character", m.owner.name,
			"removed", oldest.template.Name)
	}

	st := &activeStatus{
		template:  s,
		applier:   applier,
		stacks:    1,
		nextTick:  s.Interval(),
		expiresAt: s.Duration,
	}
	if s.Persistent != nil {
		st.persistent = s.Persistent.Clone().(*effect.CompositeItemEffect)
	}
	m.statuses = append(m.statuses, st)
	m.applyPersistent(st)

	slog.Debug("status effect applied",
		"character", m.owner.name,
		"status", s.Name,
		"duration", s.Duration)
}

func (m *statusManager) applyPersistent(st *activeStatus) {
	if st.persistent == nil {
		return
	}
	if err := st.persistent.Apply(m.owner); err != nil {
		slog.Warn("persistent status effect failed",
			"character", m.owner.name,
			"status", st.template.Name,
			"error", err)
	}
}

// exit removes the persistent effects of st.
func (m *statusManager) exit(st *activeStatus) {
	st.removed = true
	if st.persistent != nil {
		st.persistent.Remove(m.owner, st.stacks)
	}
	slog.Debug("status effect ended",
		"character", m.owner.name,
		"status", st.template.Name)
}

func (m *statusManager) find(name string) *activeStatus {
	for _, st := range m.statuses {
		if st.template.Name == name {
			return st
		}
	}
	return nil
}

func (m *statusManager) has(name string) bool {
	return m.find(name) != nil
}

func (m *statusManager) stacks(name string) int {
	if st := m.find(name); st != nil {
		return st.stacks
	}
	return 0
}

// remove ends the named status and returns the stacks it had.
func (m *statusManager) remove(name string) int {
	n := 0
	for i, st := range m.statuses {
		if st.template.Name != name {
			continue
		}
		n = st.stacks
		m.statuses = append(m.statuses[:i], m.statuses[i+1:]...)
		m.exit(st)
		break
	}
	return n
}

func (m *statusManager) clear() {
	statuses := m.statuses
	m.statuses = m.statuses[:0:0]
	for _, st := range statuses {
		m.exit(st)
	}
}

// tick advances every status by dt: repeated effects fire for every tick
// interval that elapsed within the duration, expired statuses end.
func (m *statusManager) tick(dt time.Duration) {
	// Repeated effects may add or remove statuses.
	snapshot := append([]*activeStatus(nil), m.statuses...)
	for _, st := range snapshot {
		if st.removed {
			continue
		}
		st.elapsed += dt
		m.fireRepeated(st)
	}

	n := 0
	for _, st := range m.statuses {
		if !st.template.IsPermanent() && st.elapsed >= st.expiresAt {
			m.exit(st)
			continue
		}
		m.statuses[n] = st
		n++
	}
	clear(m.statuses[n:])
	m.statuses = m.statuses[:n]
}

func (m *statusManager) fireRepeated(st *activeStatus) {
	s := st.template
	if s.Repeated == nil {
		return
	}
	for st.nextTick <= st.elapsed && (s.IsPermanent() || st.nextTick <= st.expiresAt) {
		if st.removed || m.owner.dead {
			return
		}
		if err := s.ApplyRepeated(st.applier, m.owner, st.stacks); err != nil {
			slog.Warn("repeated status effect failed",
				"character", m.owner.name,
				"status", s.Name,
				"error", err)
		}
		st.nextTick += s.Interval()
	}
}

func (m *statusManager) active() []StatusInfo {
	out := make([]StatusInfo, len(m.statuses))
	for i, st := range m.statuses {
		remaining := time.Duration(-1)
		if !st.template.IsPermanent() {
			remaining = max(st.expiresAt-st.elapsed, 0)
		}
		out[i] = StatusInfo{Name: st.template.Name, Stacks: st.stacks, Remaining: remaining}
	}
	return out
}
