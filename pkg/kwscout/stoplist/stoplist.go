// Package stoplist holds the function words dropped from keyword phrases
// before they are weighted.
package stoplist

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// Manager holds a stop-word set
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	m := &Manager{stops: make(map[string]struct{}, len(initialStops))}
	for _, s := range initialStops {
		m.Add(s)
	}
	return m
}

// English returns a manager seeded with the embedded English function words.
// Shopping words such as "best", "top" or "cheap" are deliberately absent so
// intent terms still carry weight in clustering.
func English() *Manager {
	terms, err := Parse(englishYAML)
	if err != nil {
		// the embedded list is part of the binary
		panic(fmt.Sprintf("stoplist: parse embedded list: %v", err))
	}
	return NewManager(terms)
}

// Parse reads a YAML document of the form `terms: [...]`.
func Parse(data []byte) ([]string, error) {
	var doc struct {
		Terms []string `yaml:"terms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Terms, nil
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[strings.ToLower(token)]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}
	m.stops[token] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// All returns all stopwords, sorted
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	return len(m.stops)
}
