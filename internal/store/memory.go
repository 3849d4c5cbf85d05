package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/game"
)

// Memory keeps encoded sessions in process. Sessions idle for longer than
// the TTL are treated as gone and removed by Sweep.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   quartz.Clock
	ttl     time.Duration
	logger  *log.Logger
}

type memoryEntry struct {
	data    []byte
	touched time.Time
}

// NewMemory creates a memory store. A zero ttl disables eviction.
func NewMemory(clock quartz.Clock, ttl time.Duration, logger *log.Logger) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		clock:   clock,
		ttl:     ttl,
		logger:  logger,
	}
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.touched) > m.ttl
}

func (m *Memory) Get(_ context.Context, id string) (*game.Session, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	now := m.clock.Now()
	if ok && m.expired(e, now) {
		delete(m.entries, id)
		ok = false
	}
	if ok {
		e.touched = now
		m.entries[id] = e
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNotFound
	}
	return Decode(e.data)
}

func (m *Memory) Put(_ context.Context, id string, s *game.Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[id] = memoryEntry{data: data, touched: m.clock.Now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of stored sessions, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	removed := 0
	for id, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("Evicted idle sessions", "count", removed, "remaining", len(m.entries))
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) error {
	if m.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := m.clock.NewTicker(interval, "memory", "sweep")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
