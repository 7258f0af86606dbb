package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func reply(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func testClient(rt roundTrip) *Client {
	return &Client{
		BaseURL:    "https://api.test/v1/chat/completions",
		Model:      "gpt-test",
		APIKey:     "secret",
		HTTPClient: &http.Client{Transport: rt},
	}
}

func TestChat(t *testing.T) {
	client := testClient(func(req *http.Request) *http.Response {
		if got := req.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected auth header %q", got)
		}
		return reply(200, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	})
	out, err := client.Chat(context.Background(), "system", "user prompt")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "hi" {
		t.Fatalf("unexpected chat output %s", out)
	}
}

func TestChatError(t *testing.T) {
	client := testClient(func(req *http.Request) *http.Response {
		return reply(200, `{"error":{"message":"bad"}}`)
	})
	if _, err := client.Chat(context.Background(), "s", "q"); err == nil {
		t.Fatal("expected error")
	}
}

func TestChatStatus(t *testing.T) {
	client := testClient(func(req *http.Request) *http.Response {
		return reply(503, `upstream down`)
	})
	_, err := client.Chat(context.Background(), "s", "q")
	if !errors.Is(err, internalerr.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestChatRequiresConfig(t *testing.T) {
	if _, err := (&Client{}).Chat(context.Background(), "s", "q"); err == nil {
		t.Fatal("expected error for missing base URL and model")
	}
}

const goodListing = `{
  "title": "Portable Camping Stove",
  "bullets": ["Light", "Fast boil", "Stable", "Wind shield", "Carry case"],
  "description": "A compact stove for trips.",
  "backend_keywords": "camping stove backpacking burner"
}`

func TestGenerateListing(t *testing.T) {
	client := testClient(func(req *http.Request) *http.Response {
		body, _ := io.ReadAll(req.Body)
		if !strings.Contains(string(body), `camping stove`) {
			t.Fatalf("expected keyword in payload: %s", body)
		}
		return reply(200, chatReply("```json\n"+goodListing+"\n```"))
	})
	l, err := client.GenerateListing(context.Background(), "camping stove")
	if err != nil {
		t.Fatalf("GenerateListing: %v", err)
	}
	if l.Title != "Portable Camping Stove" || len(l.Bullets) != 5 {
		t.Fatalf("unexpected listing %+v", l)
	}
}

func TestGenerateListingEmptyKeyword(t *testing.T) {
	client := testClient(func(req *http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})
	_, err := client.GenerateListing(context.Background(), "  ")
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseListingMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      `Here is your listing!`,
		"code":          `__import__("os").system("rm -rf /")`,
		"unknown field": `{"title":"t","bullets":["a","b","c","d","e"],"description":"d","backend_keywords":"k","price":3}`,
		"four bullets":  `{"title":"t","bullets":["a","b","c","d"],"description":"d","backend_keywords":"k"}`,
		"empty bullet":  `{"title":"t","bullets":["a","b","","d","e"],"description":"d","backend_keywords":"k"}`,
		"long title":    `{"title":"` + strings.Repeat("x", MaxTitleRunes+1) + `","bullets":["a","b","c","d","e"],"description":"d","backend_keywords":"k"}`,
		"no desc":       `{"title":"t","bullets":["a","b","c","d","e"],"backend_keywords":"k"}`,
		"no keywords":   `{"title":"t","bullets":["a","b","c","d","e"],"description":"d"}`,
		"trailing":      goodListing + ` {"title":"again"}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListing(in)
			if !errors.Is(err, internalerr.ErrMalformedListing) {
				t.Fatalf("expected ErrMalformedListing, got %v", err)
			}
		})
	}
}

func TestParseListingTitleBoundary(t *testing.T) {
	in := `{"title":"` + strings.Repeat("é", MaxTitleRunes) + `","bullets":["a","b","c","d","e"],"description":"d","backend_keywords":"k"}`
	if _, err := ParseListing(in); err != nil {
		t.Fatalf("title of exactly %d characters should pass: %v", MaxTitleRunes, err)
	}
}
