package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_NoJSON(t *testing.T) {
	_, ok := Extract("no json here")
	assert.False(t, ok)
}

func TestExtract_FencedBlock(t *testing.T) {
	text := "```json\n{\"tool\":\"web_search\",\"arguments\":{\"query\":\"x\"}}\n```"
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "web_search", call.Tool)
	assert.Equal(t, "x", call.Arguments["query"])
}

func TestExtract_FencedBlockWithProse(t *testing.T) {
	text := "I will search for that.\n\n```json\n{\"tool\":\"web_search\",\"arguments\":{\"query\":\"go generics\"}}\n```\n\nLet me know."
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "web_search", call.Tool)
	assert.Equal(t, "go generics", call.Arguments["query"])
}

func TestExtract_InlineJSON(t *testing.T) {
	text := `prefix {"tool":"instant_answer","arguments":{"query":"y"}} suffix`
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "instant_answer", call.Tool)
	assert.Equal(t, "y", call.Arguments["query"])
}

func TestExtract_MissingArguments(t *testing.T) {
	_, ok := Extract(`{"tool":"x"}`)
	assert.False(t, ok)
}

func TestExtract_NullArguments(t *testing.T) {
	_, ok := Extract(`{"tool":"web_search","arguments":null}`)
	assert.False(t, ok)
}

func TestExtract_EmptyArgumentsObject(t *testing.T) {
	// An empty arguments object is present, so the payload is accepted;
	// argument validation is the dispatcher's concern.
	call, ok := Extract(`{"tool":"web_search","arguments":{}}`)
	require.True(t, ok)
	assert.Equal(t, "web_search", call.Tool)
	assert.Empty(t, call.Arguments)
}

func TestExtract_FencedWinsOverInline(t *testing.T) {
	text := `{"tool":"instant_answer","arguments":{"query":"inline"}}` +
		"\n```json\n{\"tool\":\"web_search\",\"arguments\":{\"query\":\"fenced\"}}\n```"
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "web_search", call.Tool)
	assert.Equal(t, "fenced", call.Arguments["query"])
}

func TestExtract_SkipsMalformedCandidates(t *testing.T) {
	// The first balanced-brace candidate fails to parse; the scan moves
	// on and finds the valid object.
	text := `{broken json} then {"tool":"read_url","arguments":{"url":"https://example.com"}}`
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "read_url", call.Tool)
	assert.Equal(t, "https://example.com", call.Arguments["url"])
}

func TestExtract_NestedObjectArguments(t *testing.T) {
	text := `{"tool":"read_url","arguments":{"url":"https://example.com","start":0,"length":500}}`
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "read_url", call.Tool)
	assert.Equal(t, float64(500), call.Arguments["length"])
}

func TestExtract_IncidentalJSONWithoutTool(t *testing.T) {
	_, ok := Extract(`the config is {"debug": true, "level": 3} by default`)
	assert.False(t, ok)
}

func TestExtract_UnclosedFenceFallsThrough(t *testing.T) {
	// An unterminated fence cannot yield a call, but the brace scan
	// still finds the payload inside it.
	text := "```json\n{\"tool\":\"web_search\",\"arguments\":{\"query\":\"x\"}}"
	call, ok := Extract(text)
	require.True(t, ok)
	assert.Equal(t, "web_search", call.Tool)
}
