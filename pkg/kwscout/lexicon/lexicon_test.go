package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	lex := New()
	lex.AddSynonymGroup("earbud", []string{"Earbuds", "earphones"})

	tests := []struct {
		in   string
		want string
	}{
		{"earbuds", "earbud"},
		{"EARPHONES", "earbud"},
		{"earbud", "earbud"},
		{"stove", "stove"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, lex.Normalize(tt.in))
		})
	}
}

func TestVariantsCanonicalFirst(t *testing.T) {
	lex := New()
	lex.AddSynonymGroup("stove", []string{"stoves", "stove", "burner"})

	assert.Equal(t, []string{"stove", "stoves", "burner"}, lex.Variants("burner"))
	assert.Equal(t, []string{"tent"}, lex.Variants("tent"))
	assert.True(t, lex.HasSynonyms("Stoves"))
	assert.False(t, lex.HasSynonyms("tent"))
}

func TestAddSynonymGroupReplacesOldVariants(t *testing.T) {
	lex := New()
	lex.AddSynonymGroup("stove", []string{"burner"})
	lex.AddSynonymGroup("stove", []string{"stoves"})

	assert.Equal(t, "burner", lex.Normalize("burner"))
	assert.Equal(t, "stove", lex.Normalize("stoves"))
	assert.Equal(t, 1, lex.Groups())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `synonyms:
  - canonical: earbud
    variants: [earbuds, earphone]
  - canonical: ""
    variants: [ignored]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadFromYAML(path)
	require.NoError(t, err)

	assert.Equal(t, 1, lex.Groups())
	assert.Equal(t, "earbud", lex.Normalize("earphone"))
	assert.Equal(t, "ignored", lex.Normalize("ignored"))
}

func TestLoadFromYAMLErrors(t *testing.T) {
	_, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("synonyms: [unclosed"))
	assert.Error(t, err)
}
