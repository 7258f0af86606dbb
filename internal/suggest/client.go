// Package suggest fetches autocomplete suggestions from a search-suggestion
// endpoint speaking the Firefox format: ["query", ["s1", "s2", ...]].
package suggest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"

	"github.com/cognicore/kwscout/internal/pacing"
)

// DefaultBaseURL is the public Google suggestion endpoint.
const DefaultBaseURL = "https://suggestqueries.google.com/complete/search"

// Client calls a suggestion endpoint through a pacer.
type Client struct {
	BaseURL    string
	ClientName string // value of the "client" query parameter
	MaxResults int    // 0 = no limit

	HTTPClient *http.Client
	Pacer      *pacing.Pacer
}

// Suggest returns the suggestions for seed, cleaned of markup, empty
// entries and duplicates, in upstream order.
func (c *Client) Suggest(ctx context.Context, seed string) ([]string, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, nil
	}

	var raw []string
	err := c.pacer().Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.fetch(ctx, seed)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("suggest %q: %w", seed, err)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = StripMarkup(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if c.MaxResults > 0 && len(out) == c.MaxResults {
			break
		}
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, seed string) ([]string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client", c.clientName())
	q.Set("q", seed)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, pacing.Retryable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, pacing.Retryable(statusErr)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pacing.Retryable(err)
	}
	return ParseResponse(body)
}

// ParseResponse decodes a Firefox-format suggestion payload.
func ParseResponse(body []byte) ([]string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if len(payload) < 2 {
		return nil, fmt.Errorf("decode suggestions: expected [query, suggestions], got %d elements", len(payload))
	}
	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return suggestions, nil
}

// StripMarkup removes HTML tags and entities some endpoints use to
// highlight the completed part, and collapses whitespace.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func (c *Client) clientName() string {
	if c.ClientName != "" {
		return c.ClientName
	}
	return "firefox"
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) pacer() *pacing.Pacer {
	if c.Pacer != nil {
		return c.Pacer
	}
	return pacing.New(pacing.Policy{})
}
