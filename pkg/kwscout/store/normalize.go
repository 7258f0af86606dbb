package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePhrase is the storage key of a phrase: NFKC, lowercase,
// whitespace collapsed.
func NormalizePhrase(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(phrase))), " ")
}
