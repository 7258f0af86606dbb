package store

import (
	"context"
	"time"

	"github.com/cognicore/kwscout/pkg/kwscout/source"
)

// SignalStore persists the latest known signals per phrase, keyed by
// NormalizePhrase, so trend and metrics exports can be imported once and
// looked up offline.
type SignalStore interface {
	Close() error

	UpsertTrend(ctx context.Context, phrase string, score int, observedAt time.Time) error
	GetTrend(ctx context.Context, phrase string) (Trend, bool, error)

	UpsertMetrics(ctx context.Context, phrase string, volume int, competition float64, observedAt time.Time) error
	GetMetrics(ctx context.Context, phrase string) (Metrics, bool, error)

	// Phrases lists every phrase with at least one signal, sorted.
	Phrases(ctx context.Context) ([]string, error)
}

// Trend is a stored trend snapshot
type Trend struct {
	Phrase     string
	Score      int
	ObservedAt time.Time
}

// Metrics is a stored commercial metrics snapshot
type Metrics struct {
	Phrase      string
	Volume      int
	Competition float64
	ObservedAt  time.Time
}

// TrendSource adapts a SignalStore to source.TrendSource. Lookup errors
// and missing rows are reported as unavailable.
type TrendSource struct {
	Store SignalStore
}

func (s TrendSource) Trend(ctx context.Context, phrase string) source.TrendResult {
	t, ok, err := s.Store.GetTrend(ctx, phrase)
	if err != nil || !ok {
		return source.TrendResult{}
	}
	return source.TrendAvailable(t.Score)
}

// MetricsSource adapts a SignalStore to source.MetricsSource.
type MetricsSource struct {
	Store SignalStore
}

func (s MetricsSource) Metrics(ctx context.Context, phrase string) source.MetricsResult {
	m, ok, err := s.Store.GetMetrics(ctx, phrase)
	if err != nil || !ok {
		return source.MetricsResult{}
	}
	return source.MetricsAvailable(m.Volume, m.Competition)
}
