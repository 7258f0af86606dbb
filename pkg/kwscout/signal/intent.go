package signal

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/cognicore/kwscout/pkg/kwscout/ingest"
)

// DefaultIntentTerms are the purchase-intent words recognized out of the box.
var DefaultIntentTerms = []string{"buy", "best", "top", "cheap", "affordable", "review", "discount"}

// IntentMatcher detects purchase-ready phrases by whole-word matching
// against a term set. "buyer guide" does not match "buy".
type IntentMatcher struct {
	single map[string]struct{}
	multi  [][]string
}

// NewIntentMatcher builds a matcher for terms. Terms may span several words
// ("on sale"); they then match as a contiguous word sequence. An empty term
// list falls back to DefaultIntentTerms.
func NewIntentMatcher(terms []string) *IntentMatcher {
	if len(terms) == 0 {
		terms = DefaultIntentTerms
	}
	m := &IntentMatcher{single: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		words := foldWords(term)
		switch len(words) {
		case 0:
			continue
		case 1:
			m.single[words[0]] = struct{}{}
		default:
			m.multi = append(m.multi, words)
		}
	}
	return m
}

// IsHighIntent reports whether phrase contains any intent term as whole words.
func (m *IntentMatcher) IsHighIntent(phrase string) bool {
	words := foldWords(phrase)
	for _, w := range words {
		if _, ok := m.single[w]; ok {
			return true
		}
	}
	for _, seq := range m.multi {
		if containsSeq(words, seq) {
			return true
		}
	}
	return false
}

// Terms returns the single- and multi-word terms of the matcher.
func (m *IntentMatcher) Terms() []string {
	out := make([]string, 0, len(m.single)+len(m.multi))
	for t := range m.single {
		out = append(out, t)
	}
	for _, seq := range m.multi {
		out = append(out, strings.Join(seq, " "))
	}
	return out
}

func foldWords(text string) []string {
	folder := cases.Fold()
	words := ingest.Words(text)
	for i, w := range words {
		words[i] = folder.String(w)
	}
	return words
}

func containsSeq(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		match := true
		for j := range seq {
			if words[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
