// Package tool provides the web backends the conversation loop
// dispatches to: search, page fetching, and instant answers.
package tool

import (
	"context"
	"encoding/json"
)

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher performs a web search and returns ranked results.
type Searcher interface {
	Search(ctx context.Context, query, engine string) ([]SearchResult, error)
}

// Fetcher retrieves the textual content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// InstantAnswerer returns a structured instant answer for a query.
type InstantAnswerer interface {
	InstantAnswer(ctx context.Context, query string) (json.RawMessage, error)
}
