package lexicon

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps product-term variants onto a canonical term so that
// "earbuds", "earphones" and "earbud" weigh as one term when phrases
// are vectorized.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	synonyms map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: earbud
//	    variants: [earbuds, earphone, earphones]
//	  - canonical: stove
//	    variants: [stoves, burner]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a lexicon from YAML bytes in the LoadFromYAML format.
func Parse(data []byte) (*Lexicon, error) {
	var config struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			continue
		}
		lex.AddSynonymGroup(entry.Canonical, entry.Variants)
	}
	return lex, nil
}

// AddSynonymGroup adds a synonym group with a canonical form and its variants.
// The canonical form is always the first entry of the group.
// If the group already exists, old reverse index entries are cleaned up first.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))

	if oldVariants, exists := l.synonyms[canonical]; exists {
		for _, oldV := range oldVariants {
			delete(l.reverseIndex, oldV)
		}
	}

	normalized := make([]string, 0, len(variants)+1)
	seen := map[string]bool{canonical: true}
	normalized = append(normalized, canonical)

	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		normalized = append(normalized, v)
		seen[v] = true
	}

	l.synonyms[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form of a term, or the lowercased term
// itself when it is unknown.
func (l *Lexicon) Normalize(term string) string {
	term = strings.ToLower(term)
	if canonical, ok := l.reverseIndex[term]; ok {
		return canonical
	}
	return term
}

// Variants returns every known form of a term, canonical first.
func (l *Lexicon) Variants(term string) []string {
	canonical := l.Normalize(term)
	if variants, ok := l.synonyms[canonical]; ok {
		return variants
	}
	return []string{canonical}
}

// HasSynonyms returns true if the term belongs to a synonym group.
func (l *Lexicon) HasSynonyms(term string) bool {
	_, exists := l.reverseIndex[strings.ToLower(term)]
	return exists
}

// Groups returns the number of synonym groups.
func (l *Lexicon) Groups() int {
	return len(l.synonyms)
}
