package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/kwscout/pkg/kwscout/lexicon"
)

// Tokenizer splits keyword phrases into normalized terms
type Tokenizer struct {
	stopwords map[string]struct{}
	lexicon   *lexicon.Lexicon // Optional: for synonym normalization
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// SetLexicon assigns a lexicon for synonym normalization.
// When set, terms are mapped to their canonical forms before the
// stopword check. Example: "earbuds" → "earbud"
func (t *Tokenizer) SetLexicon(lex *lexicon.Lexicon) {
	t.lexicon = lex
}

// Tokenize splits text into lowercase terms, removing stopwords.
// A term is a run of letters, digits or underscores; everything else,
// hyphens included, separates terms. Terms shorter than two runes are dropped.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, word := range Words(text) {
		if tok := t.processToken(word); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Words returns the lowercase word runs of text after NFKC normalization,
// without stopword or length filtering.
func Words(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range norm.NFKC.String(text) {
		if IsWordRune(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	// Don't forget the last word
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// IsWordRune reports whether r belongs to a word (letter, digit or underscore).
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) || r == '_'
}

// processToken applies length filtering, lexicon normalization and stopword filtering.
func (t *Tokenizer) processToken(word string) string {
	if len([]rune(word)) < 2 {
		return ""
	}

	if t.lexicon != nil {
		word = t.lexicon.Normalize(word)
	}

	if t.isStopword(word) {
		return ""
	}

	return word
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
