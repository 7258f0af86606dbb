package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
	"github.com/cognicore/kwscout/pkg/kwscout/signal"
)

// Config is the YAML configuration of a research run
type Config struct {
	Policy      signal.Policy `yaml:"policy"`
	IntentTerms []string      `yaml:"intent_terms"`
	Stoplist    string        `yaml:"stoplist"`
	Lexicon     string        `yaml:"lexicon"`
	Cluster     Cluster       `yaml:"cluster"`
	Suggest     Suggest       `yaml:"suggest"`
	Store       Store         `yaml:"store"`
	LLM         LLM           `yaml:"llm"`
	Concurrency int           `yaml:"concurrency"`
}

// Cluster configures the similarity clusterer
type Cluster struct {
	DistanceThreshold float64 `yaml:"distance_threshold"`
}

// Suggest configures the autocomplete client and its pacing
type Suggest struct {
	BaseURL    string        `yaml:"base_url"`
	Client     string        `yaml:"client"`
	MaxResults int           `yaml:"max_results"`
	RatePerSec float64       `yaml:"rate_per_sec"`
	Burst      int           `yaml:"burst"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	Jitter     time.Duration `yaml:"jitter"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Store configures the offline signal database
type Store struct {
	DBPath string `yaml:"db_path"`
}

// LLM configures the listing generator. The key is read from the
// environment variable named by APIKeyEnv, never from the file.
type LLM struct {
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature *float64 `yaml:"temperature"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	temperature := 0.7
	return Config{
		Policy:      signal.Policy{TrendMin: 10, CompMax: 1.0, RequireIntent: true},
		IntentTerms: append([]string(nil), signal.DefaultIntentTerms...),
		Cluster:     Cluster{DistanceThreshold: 0.7},
		Suggest: Suggest{
			BaseURL:    "https://suggestqueries.google.com/complete/search",
			Client:     "firefox",
			MaxResults: 20,
			RatePerSec: 1,
			Burst:      1,
			BaseDelay:  time.Second,
			Jitter:     time.Second,
			MaxRetries: 3,
			Timeout:    10 * time.Second,
		},
		LLM: LLM{
			BaseURL:     "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4",
			APIKeyEnv:   "KWSCOUT_API_KEY",
			Temperature: &temperature,
		},
		Concurrency: 4,
	}
}

// Load reads a YAML file on top of Default and validates the result
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range settings instead of clamping them
func (c Config) Validate() error {
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	th := c.Cluster.DistanceThreshold
	if math.IsNaN(th) || th < 0 {
		return fmt.Errorf("%w: cluster.distance_threshold %v is negative", internalerr.ErrInvalidConfig, th)
	}
	if c.Suggest.MaxResults < 0 {
		return fmt.Errorf("%w: suggest.max_results %d is negative", internalerr.ErrInvalidConfig, c.Suggest.MaxResults)
	}
	if c.Suggest.RatePerSec < 0 || c.Suggest.Burst < 0 || c.Suggest.MaxRetries < 0 {
		return fmt.Errorf("%w: suggest pacing values must be non-negative", internalerr.ErrInvalidConfig)
	}
	if c.Suggest.BaseDelay < 0 || c.Suggest.Jitter < 0 {
		return fmt.Errorf("%w: suggest delays must be non-negative", internalerr.ErrInvalidConfig)
	}
	if t := c.LLM.Temperature; t != nil && (math.IsNaN(*t) || *t < 0 || *t > 2) {
		return fmt.Errorf("%w: llm.temperature %v outside [0,2]", internalerr.ErrInvalidConfig, *t)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency %d is negative", internalerr.ErrInvalidConfig, c.Concurrency)
	}
	return nil
}
