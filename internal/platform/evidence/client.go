// Package evidence queries an external similarity-search service for
// supporting clinical text. The service is best-effort: zero results, a
// timeout or an unreachable host all degrade to the built-in fallback set
// rather than failing the caller.
package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Result is one ranked piece of supporting text.
type Result struct {
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"` // [0, 1]
	Source    string  `json:"source"`
}

// Searcher is the evidence lookup surface the report layer depends on.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Client calls the similarity-search service over JSON/HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a client for the service at baseURL. An empty baseURL
// yields a client that always serves the static fallback.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search returns up to limit results ranked by relevance. Results with a
// relevance outside [0, 1] are clamped; a transport or decode failure is
// logged and answered with the static fallback set.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 3
	}
	if c.baseURL == "" {
		return fallbackResults(query, limit), nil
	}

	body, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return fallbackResults(query, limit), nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return fallbackResults(query, limit), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("evidence service unreachable, serving fallback")
		return fallbackResults(query, limit), nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("evidence service error, serving fallback")
		return fallbackResults(query, limit), nil
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.log.Warn().Err(err).Msg("evidence service returned malformed payload, serving fallback")
		return fallbackResults(query, limit), nil
	}

	results := decoded.Results
	for i := range results {
		if results[i].Relevance < 0 {
			results[i].Relevance = 0
		}
		if results[i].Relevance > 1 {
			results[i].Relevance = 1
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

