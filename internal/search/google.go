// Package search answers queries through the Google Custom Search API when
// the assistant cannot answer locally.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sohayok/sohayok/internal/core"
)

const (
	defaultBaseURL = "https://www.googleapis.com/customsearch/v1"
	maxResults     = 5
	snippetLimit   = 200
)

// Client queries the Google Custom Search API.
type Client struct {
	apiKey   string
	engineID string
	baseURL  string
	http     *http.Client
}

// Config for the search client.
type Config struct {
	APIKey   string
	EngineID string
	BaseURL  string // override for tests
	Timeout  time.Duration
}

// NewClient creates a search client. Missing credentials leave the client in
// an unavailable state rather than failing construction.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// IsAvailable reports whether API credentials are configured.
func (c *Client) IsAvailable() bool {
	return c.apiKey != "" && c.engineID != ""
}

type apiResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search runs the query and returns a localized, formatted result block.
func (c *Client) Search(ctx context.Context, query string, lang core.Language) (string, error) {
	return c.search(ctx, query, lang, maxResults)
}

// SearchNews runs a news-slanted query.
func (c *Client) SearchNews(ctx context.Context, topic string, lang core.Language) (string, error) {
	if lang == core.LangBangla {
		return c.search(ctx, topic+" খবর", lang, 3)
	}
	return c.search(ctx, topic+" news", lang, 3)
}

// SearchEducational runs a query slanted toward explanations.
func (c *Client) SearchEducational(ctx context.Context, topic string, lang core.Language) (string, error) {
	if lang == core.LangBangla {
		return c.search(ctx, topic+" শিক্ষা ব্যাখ্যা", lang, 3)
	}
	return c.search(ctx, topic+" education explanation", lang, 3)
}

func (c *Client) search(ctx context.Context, query string, lang core.Language, num int) (string, error) {
	if !c.IsAvailable() {
		return "", core.ErrSearchUnavailable
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))
	params.Set("safe", "medium")
	if lang == core.LangBangla {
		params.Set("lr", "lang_bn")
	} else {
		params.Set("lr", "lang_en")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search API error: status %d", resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	return formatResults(data, lang), nil
}

// formatResults renders the top results as numbered title, snippet, and
// source lines.
func formatResults(data apiResponse, lang core.Language) string {
	if len(data.Items) == 0 {
		if lang == core.LangBangla {
			return "দুঃখিত, এই বিষয়ে কোনো তথ্য পাইনি।"
		}
		return "Sorry, no information found on this topic."
	}

	var b strings.Builder
	if lang == core.LangBangla {
		b.WriteString("খুঁজে পাওয়া তথ্য:\n\n")
	} else {
		b.WriteString("Search results:\n\n")
	}

	items := data.Items
	if len(items) > 3 {
		items = items[:3]
	}

	for i, item := range items {
		snippet := strings.TrimSpace(strings.ReplaceAll(item.Snippet, "\n", " "))
		if r := []rune(snippet); len(r) > snippetLimit {
			snippet = string(r[:snippetLimit]) + "..."
		}

		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, item.Title, snippet)
		if item.Link != "" {
			if lang == core.LangBangla {
				fmt.Fprintf(&b, "   সূত্র: %s\n", item.Link)
			} else {
				fmt.Fprintf(&b, "   Source: %s\n", item.Link)
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
