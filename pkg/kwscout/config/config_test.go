package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Policy.TrendMin)
	assert.True(t, cfg.Policy.RequireIntent)
	assert.Equal(t, 0.7, cfg.Cluster.DistanceThreshold)
	assert.Equal(t, 20, cfg.Suggest.MaxResults)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "kwscout.yaml", `
policy:
  trend_min: 0
  volume_min: 500
  comp_max: 0.6
intent_terms: [deal, "on sale"]
cluster:
  distance_threshold: 0.5
suggest:
  base_delay: 250ms
  max_retries: 1
store:
  db_path: /tmp/signals.db
llm:
  model: gpt-test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Policy.TrendMin)
	assert.Equal(t, 500, cfg.Policy.VolumeMin)
	assert.Equal(t, 0.6, cfg.Policy.CompMax)
	assert.True(t, cfg.Policy.RequireIntent, "unset keys keep their default")
	assert.Equal(t, []string{"deal", "on sale"}, cfg.IntentTerms)
	assert.Equal(t, 0.5, cfg.Cluster.DistanceThreshold)
	assert.Equal(t, 250*time.Millisecond, cfg.Suggest.BaseDelay)
	assert.Equal(t, time.Second, cfg.Suggest.Jitter)
	assert.Equal(t, 1, cfg.Suggest.MaxRetries)
	assert.Equal(t, "/tmp/signals.db", cfg.Store.DBPath)
	assert.Equal(t, "gpt-test", cfg.LLM.Model)
	assert.Equal(t, "KWSCOUT_API_KEY", cfg.LLM.APIKeyEnv)
	require.NotNil(t, cfg.LLM.Temperature)
	assert.Equal(t, 0.7, *cfg.LLM.Temperature)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"comp_max above one", "policy: {comp_max: 1.5}", internalerr.ErrInvalidPolicy},
		{"negative trend", "policy: {trend_min: -1}", internalerr.ErrInvalidPolicy},
		{"negative threshold", "cluster: {distance_threshold: -0.2}", internalerr.ErrInvalidConfig},
		{"negative retries", "suggest: {max_retries: -1}", internalerr.ErrInvalidConfig},
		{"negative concurrency", "concurrency: -2", internalerr.ErrInvalidConfig},
		{"temperature too high", "llm: {temperature: 3}", internalerr.ErrInvalidConfig},
		{"malformed yaml", "policy: [", internalerr.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
