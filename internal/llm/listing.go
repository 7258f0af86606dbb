package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
)

// Listing is a generated product listing.
type Listing struct {
	Title           string   `json:"title"`
	Bullets         []string `json:"bullets"`
	Description     string   `json:"description"`
	BackendKeywords string   `json:"backend_keywords"`
}

const (
	// MaxTitleRunes is the longest accepted title, in characters.
	MaxTitleRunes = 200
	// BulletCount is the exact number of bullets a listing carries.
	BulletCount = 5
)

const listingSystem = "You are an e-commerce listing expert. Reply with a single JSON object and nothing else."

// GenerateListing asks the model for an SEO listing targeting keyword.
// The reply is decoded as data only; anything that is not a well formed
// listing yields ErrMalformedListing.
func (c *Client) GenerateListing(ctx context.Context, keyword string) (Listing, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return Listing{}, fmt.Errorf("listing: %w: empty keyword", internalerr.ErrInvalidInput)
	}
	out, err := c.Chat(ctx, listingSystem, listingPrompt(keyword))
	if err != nil {
		return Listing{}, fmt.Errorf("listing %q: %w", keyword, err)
	}
	return ParseListing(out)
}

func listingPrompt(keyword string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Write an SEO-optimized product listing for: %q\n\n", keyword)
	fmt.Fprintf(&buf, "Include:\n")
	fmt.Fprintf(&buf, "- A title (under %d characters)\n", MaxTitleRunes)
	fmt.Fprintf(&buf, "- %d benefit-focused bullet points\n", BulletCount)
	fmt.Fprintf(&buf, "- A compelling product description\n")
	fmt.Fprintf(&buf, "- Backend search terms (not visible to buyers)\n\n")
	fmt.Fprintf(&buf, "Format your response as JSON:\n")
	fmt.Fprintf(&buf, "{\"title\": \"...\", \"bullets\": [\"...\", \"...\", \"...\", \"...\", \"...\"], \"description\": \"...\", \"backend_keywords\": \"...\"}\n")
	return buf.String()
}

// ParseListing strictly decodes a model reply. A surrounding markdown code
// fence is tolerated; unknown fields and trailing data are not.
func ParseListing(reply string) (Listing, error) {
	body := stripFence(reply)
	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var l Listing
	if err := dec.Decode(&l); err != nil {
		return Listing{}, fmt.Errorf("%w: %v", internalerr.ErrMalformedListing, err)
	}
	if dec.More() {
		return Listing{}, fmt.Errorf("%w: trailing data after object", internalerr.ErrMalformedListing)
	}
	if err := l.Validate(); err != nil {
		return Listing{}, err
	}
	return l, nil
}

// Validate checks the listing shape.
func (l Listing) Validate() error {
	switch {
	case strings.TrimSpace(l.Title) == "":
		return fmt.Errorf("%w: empty title", internalerr.ErrMalformedListing)
	case utf8.RuneCountInString(l.Title) > MaxTitleRunes:
		return fmt.Errorf("%w: title longer than %d characters", internalerr.ErrMalformedListing, MaxTitleRunes)
	case len(l.Bullets) != BulletCount:
		return fmt.Errorf("%w: %d bullets, want %d", internalerr.ErrMalformedListing, len(l.Bullets), BulletCount)
	case strings.TrimSpace(l.Description) == "":
		return fmt.Errorf("%w: empty description", internalerr.ErrMalformedListing)
	case strings.TrimSpace(l.BackendKeywords) == "":
		return fmt.Errorf("%w: empty backend keywords", internalerr.ErrMalformedListing)
	}
	for i, b := range l.Bullets {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("%w: bullet %d empty", internalerr.ErrMalformedListing, i+1)
		}
	}
	return nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop language tag
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
