package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindlehq/spindle"
)

const searchPage = `<html><body>
<div class="result">
<a rel="noopener" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&amp;rut=abc">The Go Programming <b>Language</b></a>
<a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F">Go is an <b>open source</b> language.</a>
</div>
<div class="result">
<a rel="noopener" class="result__a" href="https://pkg.go.dev/std">Standard library</a>
<a class="result__snippet" href="https://pkg.go.dev/std">Package documentation.</a>
</div>
</body></html>`

func TestDuckDuckGoSearcher_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	s := NewDuckDuckGoSearcher(WithSearchBaseURL(srv.URL+"/html/", srv.URL+"/lite/"))
	results, err := s.Search(context.Background(), "golang", "duckduckgo")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, "https://go.dev/", results[0].URL)
	assert.Equal(t, "Go is an open source language.", results[0].Snippet)

	assert.Equal(t, "Standard library", results[1].Title)
	assert.Equal(t, "https://pkg.go.dev/std", results[1].URL)
}

func TestDuckDuckGoSearcher_EmptyQuery(t *testing.T) {
	s := NewDuckDuckGoSearcher()
	_, err := s.Search(context.Background(), "   ", "duckduckgo")
	assert.True(t, ai.IsUserInput(err))
}

func TestDuckDuckGoSearcher_MaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	s := NewDuckDuckGoSearcher(
		WithSearchBaseURL(srv.URL+"/html/", srv.URL+"/lite/"),
		WithSearchMaxResults(1),
	)
	results, err := s.Search(context.Background(), "golang", "duckduckgo")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDuckDuckGoSearcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewDuckDuckGoSearcher(WithSearchBaseURL(srv.URL+"/html/", srv.URL+"/lite/"))
	_, err := s.Search(context.Background(), "golang", "duckduckgo")
	assert.True(t, ai.IsTransient(err))
}

func TestDuckDuckGoSearcher_LiteEngine(t *testing.T) {
	page := `<a class="result-link" href="https://go.dev/doc/">Go docs</a>`
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewDuckDuckGoSearcher(WithSearchBaseURL(srv.URL+"/html/", srv.URL+"/lite/"))
	results, err := s.Search(context.Background(), "go docs", "lite")
	require.NoError(t, err)
	assert.Equal(t, "/lite/", gotPath)
	require.Len(t, results, 1)
	assert.Equal(t, "Go docs", results[0].Title)
}

func TestDecodeRedirect(t *testing.T) {
	assert.Equal(t, "https://go.dev/",
		decodeRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=abc"))
	assert.Equal(t, "https://direct.example.com/page",
		decodeRedirect("https://direct.example.com/page"))
}
