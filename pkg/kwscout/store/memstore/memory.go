package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/kwscout/pkg/kwscout/store"
)

// Store is an in-memory implementation of store.SignalStore for tests and dry runs.
type Store struct {
	mu      sync.RWMutex
	trends  map[string]store.Trend
	metrics map[string]store.Metrics
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		trends:  make(map[string]store.Trend),
		metrics: make(map[string]store.Metrics),
	}
}

// Close implements store.SignalStore.
func (s *Store) Close() error { return nil }

// UpsertTrend stores the trend score of a phrase, replacing any previous one.
func (s *Store) UpsertTrend(ctx context.Context, phrase string, score int, observedAt time.Time) error {
	key := store.NormalizePhrase(phrase)
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends[key] = store.Trend{Phrase: key, Score: score, ObservedAt: observedAt}
	return nil
}

// GetTrend returns the stored trend of a phrase.
func (s *Store) GetTrend(ctx context.Context, phrase string) (store.Trend, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trends[store.NormalizePhrase(phrase)]
	return t, ok, nil
}

// UpsertMetrics stores volume and competition of a phrase.
func (s *Store) UpsertMetrics(ctx context.Context, phrase string, volume int, competition float64, observedAt time.Time) error {
	key := store.NormalizePhrase(phrase)
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[key] = store.Metrics{Phrase: key, Volume: volume, Competition: competition, ObservedAt: observedAt}
	return nil
}

// GetMetrics returns the stored metrics of a phrase.
func (s *Store) GetMetrics(ctx context.Context, phrase string) (store.Metrics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metrics[store.NormalizePhrase(phrase)]
	return m, ok, nil
}

// Phrases implements store.SignalStore.
func (s *Store) Phrases(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.trends)+len(s.metrics))
	for p := range s.trends {
		seen[p] = struct{}{}
	}
	for p := range s.metrics {
		seen[p] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}
