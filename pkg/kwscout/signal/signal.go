// Package signal decides which keyword candidates are worth keeping, based
// on their trend, volume, competition and intent signals.
package signal

import (
	"fmt"
	"math"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
)

// Candidate is a keyword phrase proposed by a suggestion source.
type Candidate struct {
	Phrase string `json:"phrase"`
	Seed   string `json:"seed,omitempty"`
}

// Bundle carries the signals attached to a candidate.
type Bundle struct {
	Trend       int     `json:"trend"`       // interest score, 0 = unknown/low
	Volume      int     `json:"volume"`      // monthly searches, 0 = unknown
	Competition float64 `json:"competition"` // [0,1], 1 = maximally competitive
	Intent      bool    `json:"intent"`
}

// DefaultBundle returns the conservative signals used when nothing is known.
func DefaultBundle() Bundle {
	return Bundle{Trend: 0, Volume: 0, Competition: 1.0}
}

// Scored pairs a candidate with its signals.
type Scored struct {
	Candidate Candidate `json:"candidate"`
	Signals   Bundle    `json:"signals"`
}

// Policy holds the acceptance thresholds. Build it with NewPolicy.
type Policy struct {
	TrendMin      int     `json:"trend_min" yaml:"trend_min"`
	VolumeMin     int     `json:"volume_min" yaml:"volume_min"`
	CompMax       float64 `json:"comp_max" yaml:"comp_max"`
	RequireIntent bool    `json:"require_intent" yaml:"require_intent"`
}

// NewPolicy validates the thresholds and returns the policy.
// Out-of-range values are rejected, never clamped.
func NewPolicy(trendMin, volumeMin int, compMax float64, requireIntent bool) (Policy, error) {
	p := Policy{
		TrendMin:      trendMin,
		VolumeMin:     volumeMin,
		CompMax:       compMax,
		RequireIntent: requireIntent,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// PermissivePolicy accepts every candidate with in-range signals.
func PermissivePolicy() Policy {
	return Policy{CompMax: 1.0}
}

// Validate reports whether the thresholds are within their domains.
func (p Policy) Validate() error {
	if p.TrendMin < 0 {
		return fmt.Errorf("%w: trend_min %d is negative", internalerr.ErrInvalidPolicy, p.TrendMin)
	}
	if p.VolumeMin < 0 {
		return fmt.Errorf("%w: volume_min %d is negative", internalerr.ErrInvalidPolicy, p.VolumeMin)
	}
	if math.IsNaN(p.CompMax) || p.CompMax < 0 || p.CompMax > 1 {
		return fmt.Errorf("%w: comp_max %v outside [0,1]", internalerr.ErrInvalidPolicy, p.CompMax)
	}
	return nil
}

// Passes reports whether a candidate with the given signals satisfies the policy.
// Intent comes from the bundle; use Annotate to derive it from the phrase.
// A NaN or above-threshold competition never passes.
func Passes(_ Candidate, s Bundle, p Policy) bool {
	if s.Trend < p.TrendMin || s.Volume < p.VolumeMin {
		return false
	}
	if !(s.Competition <= p.CompMax) {
		return false
	}
	return !p.RequireIntent || s.Intent
}

// FilterAll keeps the candidates that pass the policy, in input order.
func FilterAll(scored []Scored, p Policy) []Candidate {
	accepted := make([]Candidate, 0, len(scored))
	for _, sc := range scored {
		if Passes(sc.Candidate, sc.Signals, p) {
			accepted = append(accepted, sc.Candidate)
		}
	}
	return accepted
}

// Annotate sets the intent flag of s from the candidate phrase.
func Annotate(c Candidate, s Bundle, m *IntentMatcher) Bundle {
	s.Intent = m.IsHighIntent(c.Phrase)
	return s
}
