// Package memory disponibiliza storages em memória, válidos apenas para uma instância do processo.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/gurulost/FitnessForge/internal/core/domain"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

type CounterConfig struct {
	// MaxKeys bounds the number of tracked identifiers. Zero means unbounded.
	MaxKeys int
	Clock   func() time.Time
}

// CounterStore guarda contadores de janela fixa protegidos por mutex.
type CounterStore struct {
	mu       sync.Mutex
	counters map[string]domain.Counter
	maxKeys  int
	now      func() time.Time
}

var _ ports.CounterStorage = (*CounterStore)(nil)

func NewCounterStore(cfg CounterConfig) *CounterStore {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &CounterStore{
		counters: make(map[string]domain.Counter),
		maxKeys:  cfg.MaxKeys,
		now:      cfg.Clock,
	}
}

func (s *CounterStore) Increment(_ context.Context, key string, window time.Duration) (domain.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	counter, ok := s.counters[key]
	if ok && !now.After(counter.ResetTime) {
		counter.Count++
		s.counters[key] = counter
		return counter, nil
	}

	if !ok && s.maxKeys > 0 && len(s.counters) >= s.maxKeys {
		s.evictLocked(now)
	}

	counter = domain.Counter{Count: 1, ResetTime: now.Add(window)}
	s.counters[key] = counter
	return counter, nil
}

func (s *CounterStore) SweepExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(s.now()), nil
}

func (s *CounterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.counters)
}

func (s *CounterStore) sweepLocked(now time.Time) int {
	removed := 0
	for key, counter := range s.counters {
		if now.After(counter.ResetTime) {
			delete(s.counters, key)
			removed++
		}
	}
	return removed
}

// evictLocked drops stale windows first and, if the map is still full,
// the counter whose window ends soonest.
func (s *CounterStore) evictLocked(now time.Time) {
	if s.sweepLocked(now) > 0 && len(s.counters) < s.maxKeys {
		return
	}

	var (
		oldestKey   string
		oldestReset time.Time
	)
	for key, counter := range s.counters {
		if oldestKey == "" || counter.ResetTime.Before(oldestReset) {
			oldestKey = key
			oldestReset = counter.ResetTime
		}
	}
	if oldestKey != "" {
		delete(s.counters, oldestKey)
	}
}
