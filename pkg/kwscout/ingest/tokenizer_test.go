package ingest

import (
	"strings"
	"testing"

	"github.com/cognicore/kwscout/pkg/kwscout/lexicon"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the", "for", "with"})

	tokens := tokenizer.Tokenize("The best case for wireless earbuds")

	want := []string{"best", "case", "wireless", "earbuds"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerHyphenSplits(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("best-selling noise-cancelling headphones")

	want := []string{"best", "selling", "noise", "cancelling", "headphones"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	for _, tok := range tokenizer.Tokenize("USB-C Charger IPHONE") {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestTokenizerKeepsNumbers(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	tokens := tokenizer.Tokenize("iphone 15 case 2 pack")

	// Single-rune terms are dropped, multi-digit numbers kept.
	want := []string{"iphone", "15", "case", "pack"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerFullWidthNormalized(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	// NFKC folds full-width letters into ASCII.
	tokens := tokenizer.Tokenize("ＵＳＢ cable")

	want := []string{"usb", "cable"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestAddRemoveStopword(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the"})

	tokens := tokenizer.Tokenize("the stove")
	if len(tokens) != 1 || tokens[0] != "stove" {
		t.Error("Should filter 'the'")
	}

	tokenizer.RemoveStopword("the")
	tokens = tokenizer.Tokenize("the stove")
	if len(tokens) != 2 {
		t.Error("'the' should not be filtered after removal")
	}

	tokenizer.AddStopword("THE")
	tokens = tokenizer.Tokenize("the stove")
	if len(tokens) != 1 || tokens[0] != "stove" {
		t.Error("Should filter 'the' after re-adding")
	}
}

func TestTokenizerEmptyAndWhitespace(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	for _, text := range []string{"", "   \t\n  ", "!!! ??? ..."} {
		if tokens := tokenizer.Tokenize(text); len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %v, want none", text, tokens)
		}
	}
}

func TestTokenizerStopwordCaseInsensitive(t *testing.T) {
	tokenizer := NewTokenizer([]string{"THE", "AND"})

	for _, tok := range tokenizer.Tokenize("The tent and the stove") {
		if tok == "the" || tok == "and" {
			t.Errorf("Stopword should be filtered regardless of case: %s", tok)
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("Buyer's guide: top_rated")
	want := []string{"buyer", "s", "guide", "top_rated"}
	if !equalTokens(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}

func TestTokenizerLexiconNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	lex := lexicon.New()
	lex.AddSynonymGroup("earbud", []string{"earbuds", "earphones"})
	tokenizer.SetLexicon(lex)

	tokens := tokenizer.Tokenize("Wireless Earbuds vs earphones")

	want := []string{"wireless", "earbud", "vs", "earbud"}
	if !equalTokens(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerLexiconWithStopwords(t *testing.T) {
	tokenizer := NewTokenizer([]string{"for"})

	lex := lexicon.New()
	lex.AddSynonymGroup("for", []string{"4"})
	tokenizer.SetLexicon(lex)

	// "4" is dropped for length before normalization; "for" is a stopword.
	if tokens := tokenizer.Tokenize("case for 4"); !equalTokens(tokens, []string{"case"}) {
		t.Errorf("Tokenize = %v, want [case]", tokens)
	}
}

// Helper function for comparing token lists
func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
