// Package source defines the collaborators that feed the pipeline with
// suggestions and signals. Implementations translate their own failures
// into an Unavailable status instead of returning errors.
package source

import (
	"context"

	"github.com/cognicore/kwscout/pkg/kwscout/signal"
)

// Status tells whether a lookup produced data.
type Status int

const (
	Unavailable Status = iota
	Available
)

func (s Status) String() string {
	if s == Available {
		return "available"
	}
	return "unavailable"
}

// SuggestionSource proposes phrases for a seed. It may return an empty or
// seed-only list when the upstream service fails.
type SuggestionSource interface {
	Suggest(ctx context.Context, seed string) ([]string, error)
}

// TrendResult is the outcome of a trend lookup.
type TrendResult struct {
	Score  int
	Status Status
}

// TrendSource returns the interest score of a phrase.
type TrendSource interface {
	Trend(ctx context.Context, phrase string) TrendResult
}

// MetricsResult is the outcome of a commercial metrics lookup.
type MetricsResult struct {
	Volume      int
	Competition float64
	Status      Status
}

// MetricsSource returns search volume and competition for a phrase.
type MetricsSource interface {
	Metrics(ctx context.Context, phrase string) MetricsResult
}

// TrendAvailable wraps a known score.
func TrendAvailable(score int) TrendResult {
	return TrendResult{Score: score, Status: Available}
}

// MetricsAvailable wraps known metrics.
func MetricsAvailable(volume int, competition float64) MetricsResult {
	return MetricsResult{Volume: volume, Competition: competition, Status: Available}
}

// Resolve merges trend and metrics results into a signal bundle, using the
// conservative defaults for whatever is unavailable. Intent is left unset.
func Resolve(tr TrendResult, mr MetricsResult) signal.Bundle {
	b := signal.DefaultBundle()
	if tr.Status == Available {
		b.Trend = tr.Score
	}
	if mr.Status == Available {
		b.Volume = mr.Volume
		b.Competition = mr.Competition
	}
	return b
}

// NopTrend never has data.
type NopTrend struct{}

func (NopTrend) Trend(context.Context, string) TrendResult { return TrendResult{} }

// NopMetrics never has data.
type NopMetrics struct{}

func (NopMetrics) Metrics(context.Context, string) MetricsResult { return MetricsResult{} }

// StaticSuggestions returns fixed suggestions per seed; unknown seeds yield nothing.
type StaticSuggestions map[string][]string

func (s StaticSuggestions) Suggest(_ context.Context, seed string) ([]string, error) {
	return append([]string(nil), s[seed]...), nil
}
