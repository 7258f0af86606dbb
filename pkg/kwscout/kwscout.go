// Package kwscout ties suggestion, signal and clustering collaborators into
// a keyword research run.
package kwscout

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/kwscout/pkg/kwscout/cluster"
	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
	"github.com/cognicore/kwscout/pkg/kwscout/signal"
	"github.com/cognicore/kwscout/pkg/kwscout/source"
)

const (
	// DefaultMaxSuggestions caps the candidates kept per seed.
	DefaultMaxSuggestions = 20
	// DefaultConcurrency bounds parallel signal lookups.
	DefaultConcurrency = 4
)

// Engine is the keyword research facade
type Engine struct {
	suggestions source.SuggestionSource
	trends      source.TrendSource
	metrics     source.MetricsSource
	policy      signal.Policy
	intent      *signal.IntentMatcher
	clusterer   *cluster.Clusterer
	threshold   float64
	maxSugg     int
	concurrency int
	log         zerolog.Logger

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Options configures an Engine. Nil trend and metrics sources behave as if
// nothing is known about any phrase; a nil Clusterer uses the English
// stop-word list.
type Options struct {
	Suggestions       source.SuggestionSource
	Trends            source.TrendSource
	Metrics           source.MetricsSource
	Policy            signal.Policy
	Intent            *signal.IntentMatcher
	Clusterer         *cluster.Clusterer
	DistanceThreshold float64
	MaxSuggestions    int
	Concurrency       int
	Logger            zerolog.Logger
}

// New validates opts and creates an Engine
func New(opts Options) (*Engine, error) {
	if opts.Suggestions == nil {
		return nil, fmt.Errorf("%w: suggestion source required", internalerr.ErrInvalidInput)
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(opts.DistanceThreshold) || opts.DistanceThreshold < 0 {
		return nil, fmt.Errorf("%w: distance threshold %v", internalerr.ErrInvalidInput, opts.DistanceThreshold)
	}

	e := &Engine{
		suggestions: opts.Suggestions,
		trends:      opts.Trends,
		metrics:     opts.Metrics,
		policy:      opts.Policy,
		intent:      opts.Intent,
		clusterer:   opts.Clusterer,
		threshold:   opts.DistanceThreshold,
		maxSugg:     opts.MaxSuggestions,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	if e.trends == nil {
		e.trends = source.NopTrend{}
	}
	if e.metrics == nil {
		e.metrics = source.NopMetrics{}
	}
	if e.intent == nil {
		e.intent = signal.NewIntentMatcher(nil)
	}
	if e.clusterer == nil {
		e.clusterer = cluster.Default()
	}
	if e.maxSugg <= 0 {
		e.maxSugg = DefaultMaxSuggestions
	}
	if e.concurrency <= 0 {
		e.concurrency = DefaultConcurrency
	}
	return e, nil
}

// Close closes every collaborator implementing io.Closer
func (e *Engine) Close() error {
	var errs []error
	for _, c := range []any{e.suggestions, e.trends, e.metrics} {
		closer, ok := c.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Report is the outcome of one research run
type Report struct {
	RunID       string          `json:"run_id"`
	Seeds       []string        `json:"seeds"`
	Scored      []signal.Scored `json:"scored"`
	Accepted    []string        `json:"accepted"`
	Clusters    []cluster.Group `json:"clusters"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Research expands seeds into candidates, scores and filters them, and
// clusters the accepted phrases.
func (e *Engine) Research(ctx context.Context, seeds ...string) (Report, error) {
	runID := e.newRunID()
	log := e.log.With().Str("run_id", runID).Logger()

	var kept []string
	for _, s := range seeds {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return Report{}, fmt.Errorf("%w: no seeds", internalerr.ErrInvalidInput)
	}

	var candidates []signal.Candidate
	for _, seed := range kept {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		for _, phrase := range e.expand(ctx, log, seed) {
			candidates = append(candidates, signal.Candidate{Phrase: phrase, Seed: seed})
		}
	}

	scored, err := e.score(ctx, candidates)
	if err != nil {
		return Report{}, err
	}

	accepted := signal.FilterAll(scored, e.policy)
	phrases := make([]string, len(accepted))
	for i, c := range accepted {
		phrases[i] = c.Phrase
	}

	clusters, err := e.clusterer.Cluster(phrases, e.threshold)
	if err != nil {
		return Report{}, err
	}

	log.Info().
		Int("seeds", len(kept)).
		Int("candidates", len(candidates)).
		Int("accepted", len(accepted)).
		Int("clusters", len(clusters)).
		Msg("research complete")

	return Report{
		RunID:       runID,
		Seeds:       kept,
		Scored:      scored,
		Accepted:    phrases,
		Clusters:    clusters.Sorted(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// expand fetches suggestions for seed, falling back to the seed itself.
func (e *Engine) expand(ctx context.Context, log zerolog.Logger, seed string) []string {
	raw, err := e.suggestions.Suggest(ctx, seed)
	if err != nil {
		log.Warn().Err(err).Str("seed", seed).Msg("suggestions unavailable, using seed")
		raw = nil
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, e.maxSugg)
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) == e.maxSugg {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, seed)
	}
	return out
}

// score looks up signals concurrently; results keep candidate order.
func (e *Engine) score(ctx context.Context, candidates []signal.Candidate) ([]signal.Scored, error) {
	scored := make([]signal.Scored, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b := source.Resolve(e.trends.Trend(gctx, c.Phrase), e.metrics.Metrics(gctx, c.Phrase))
			scored[i] = signal.Scored{Candidate: c, Signals: signal.Annotate(c, b, e.intent)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

func (e *Engine) newRunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Now(), e.entropy).String()
}
