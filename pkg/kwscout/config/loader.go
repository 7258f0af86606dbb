package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cognicore/kwscout/pkg/kwscout/cluster"
	"github.com/cognicore/kwscout/pkg/kwscout/ingest"
	"github.com/cognicore/kwscout/pkg/kwscout/lexicon"
	"github.com/cognicore/kwscout/pkg/kwscout/signal"
	"github.com/cognicore/kwscout/pkg/kwscout/stoplist"
)

// Components holds the pipeline parts built from a Config
type Components struct {
	Tokenizer *ingest.Tokenizer
	Intent    *signal.IntentMatcher
	Clusterer *cluster.Clusterer
}

// Build loads the optional stoplist and lexicon files and constructs components
func (c Config) Build() (*Components, error) {
	stops := stoplist.English()
	if c.Stoplist != "" {
		sl, err := LoadStoplist(c.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stops = stoplist.NewManager(sl.Terms)
	}

	tokenizer := ingest.NewTokenizer(stops.All())

	if c.Lexicon != "" {
		lex, err := lexicon.LoadFromYAML(c.Lexicon)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		tokenizer.SetLexicon(lex)
	}

	return &Components{
		Tokenizer: tokenizer,
		Intent:    signal.NewIntentMatcher(c.IntentTerms),
		Clusterer: cluster.New(tokenizer),
	}, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	terms, err := stoplist.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Stoplist{Terms: terms}, nil
}

// LoadEnv seeds the process environment from .env files. Missing files are
// ignored; variables already set win.
func LoadEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}
