// Package sim runs the game thread: one goroutine that ticks characters
// and executes commands posted from elsewhere.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Tickable advances by dt of simulated time. Implemented by
// *character.Character and *Duel.
type Tickable interface {
	Tick(dt time.Duration)
}

type entry struct {
	name string
	t    Tickable
}

// TickManager ticks registered Tickables in registration order on a single
// goroutine. Tickables are only touched from that goroutine; other
// goroutines hand work to it with Post.
type TickManager struct {
	interval time.Duration

	mu      sync.Mutex
	entries []entry

	commands chan func()
	stopCh   chan struct{}
	stopOnce sync.Once
	ticks    int
}

// NewTickManager creates a manager that advances simulated time by
// interval on every tick.
func NewTickManager(interval time.Duration) *TickManager {
	return &TickManager{
		interval: interval,
		commands: make(chan func(), 64),
		stopCh:   make(chan struct{}),
	}
}

// Register adds t under name, replacing a previous registration.
func (m *TickManager) Register(name string, t Tickable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].name == name {
			m.entries[i].t = t
			return
		}
	}
	m.entries = append(m.entries, entry{name: name, t: t})

	slog.Debug("tickable registered", "name", name)
}

// Unregister removes the named tickable.
func (m *TickManager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].name == name {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			slog.Debug("tickable unregistered", "name", name)
			return
		}
	}
}

// Count returns the number of registered tickables.
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Get returns the named tickable.
func (m *TickManager) Get(name string) (Tickable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.name == name {
			return e.t, nil
		}
	}
	return nil, fmt.Errorf("tickable %q not registered", name)
}

// Ticks returns how many ticks have run.
func (m *TickManager) Ticks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// Post queues fn to run on the game goroutine before the next tick. It
// blocks when the queue is full and gives up when ctx is done.
func (m *TickManager) Post(ctx context.Context, fn func()) error {
	select {
	case m.commands <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start runs the tick loop, waiting pace of wall-clock time between ticks.
// A zero pace ticks as fast as possible. Blocks until ctx is canceled or
// Stop is called.
func (m *TickManager) Start(ctx context.Context, pace time.Duration) error {
	slog.Info("tick manager started", "interval", m.interval, "pace", pace)

	var tickC <-chan time.Time
	if pace > 0 {
		ticker := time.NewTicker(pace)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		if tickC == nil {
			// Commands are still drained in unpaced mode.
			select {
			case <-ctx.Done():
				slog.Info("tick manager stopping")
				return ctx.Err()
			case <-m.stopCh:
				slog.Info("tick manager stopped", "ticks", m.Ticks())
				return nil
			case fn := <-m.commands:
				fn()
			default:
				m.tick()
			}
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping")
			return ctx.Err()
		case <-m.stopCh:
			slog.Info("tick manager stopped", "ticks", m.Ticks())
			return nil
		case fn := <-m.commands:
			fn()
		case <-tickC:
			m.tick()
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Step runs queued commands and one tick of dt on the calling goroutine.
// It must not be used while Start is running.
func (m *TickManager) Step(dt time.Duration) {
	for {
		select {
		case fn := <-m.commands:
			fn()
			continue
		default:
		}
		break
	}
	m.tickBy(dt)
}

func (m *TickManager) tick() {
	m.tickBy(m.interval)
}

func (m *TickManager) tickBy(dt time.Duration) {
	m.mu.Lock()
	entries := make([]entry, len(m.entries))
	copy(entries, m.entries)
	m.ticks++
	n := m.ticks
	m.mu.Unlock()

	for _, e := range entries {
		e.t.Tick(dt)
	}

	if IsDebugEnabled() {
		slog.Debug("tick completed", "tick", n, "tickables", len(entries))
	}
}
