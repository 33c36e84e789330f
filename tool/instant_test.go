package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spindlehq/spindle"
)

func TestDuckDuckGoInstant_InstantAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "golang", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("no_html"))
		assert.Equal(t, "1", q.Get("skip_disambig"))
		_, _ = w.Write([]byte(`{"AbstractText":"Go is a programming language.","AbstractURL":"https://go.dev"}`))
	}))
	defer srv.Close()

	c := NewDuckDuckGoInstant(WithInstantBaseURL(srv.URL + "/"))
	raw, err := c.InstantAnswer(context.Background(), "golang")
	require.NoError(t, err)

	var parsed struct {
		AbstractText string
		AbstractURL  string
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "Go is a programming language.", parsed.AbstractText)
}

func TestDuckDuckGoInstant_EmptyQuery(t *testing.T) {
	c := NewDuckDuckGoInstant()
	_, err := c.InstantAnswer(context.Background(), "")
	assert.True(t, ai.IsUserInput(err))
}

func TestDuckDuckGoInstant_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewDuckDuckGoInstant(WithInstantBaseURL(srv.URL + "/"))
	_, err := c.InstantAnswer(context.Background(), "golang")
	assert.True(t, ai.IsPermanent(err))
}

func TestDuckDuckGoInstant_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewDuckDuckGoInstant(WithInstantBaseURL(srv.URL + "/"))
	_, err := c.InstantAnswer(context.Background(), "golang")
	assert.True(t, ai.IsTransient(err))
}
