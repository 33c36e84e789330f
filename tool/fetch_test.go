package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindlehq/spindle"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><h1>Hello</h1><p>World</p></body></html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher()
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "Hello")
	assert.Contains(t, body, "World")
	assert.NotContains(t, body, "<h1>")
}

func TestHTTPFetcher_NoStrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>raw</p>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithStripHTML(false))
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>raw</p>", body)
}

func TestHTTPFetcher_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithFetchAttempts(3))
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPFetcher_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithFetchAttempts(3))
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, ai.IsPermanent(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPFetcher_BlockedHost(t *testing.T) {
	f := NewHTTPFetcher(WithBlockedHosts("evil.example.com"))
	_, err := f.Fetch(context.Background(), "https://evil.example.com/page")
	require.Error(t, err)
	assert.True(t, ai.IsUserInput(err))

	// subdomains of a blocked host are blocked too
	_, err = f.Fetch(context.Background(), "https://sub.evil.example.com/page")
	assert.True(t, ai.IsUserInput(err))
}

func TestHTTPFetcher_AllowedHosts(t *testing.T) {
	f := NewHTTPFetcher(WithAllowedHosts("good.example.com"))
	_, err := f.Fetch(context.Background(), "https://other.example.com/page")
	require.Error(t, err)
	assert.True(t, ai.IsUserInput(err))
}

func TestHTTPFetcher_MaxResponseSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			_, _ = w.Write([]byte("0123456789"))
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(WithMaxResponseSize(100), WithStripHTML(false))
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 100)
}

func TestStripHTML(t *testing.T) {
	in := `<html><head><style>body { color: red; }</style>
<script>alert("hi")</script></head>
<body><h1>Title</h1>


<p>Some   text</p></body></html>`
	out := StripHTML(in)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Some text")
	assert.NotContains(t, out, "alert")
	assert.NotContains(t, out, "color: red")
}
