package convo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/tool"
)

// scriptedGen returns canned responses in order, recording every
// request it receives.
type scriptedGen struct {
	responses []string
	requests  [][]ai.Message
	err       error
}

func (g *scriptedGen) next(msgs []ai.Message) (*ai.Response, error) {
	g.requests = append(g.requests, msgs)
	if g.err != nil {
		return nil, g.err
	}
	if len(g.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	r := g.responses[0]
	g.responses = g.responses[1:]
	return &ai.Response{Content: r}, nil
}

func (g *scriptedGen) Generate(_ context.Context, msgs []ai.Message, _ ...ai.Option) (*ai.Response, error) {
	return g.next(msgs)
}

func (g *scriptedGen) GenerateStream(_ context.Context, msgs []ai.Message, _ ...ai.Option) (<-chan ai.StreamEvent, error) {
	resp, err := g.next(msgs)
	if err != nil {
		return nil, err
	}
	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		// stream in two deltas to exercise incremental segmentation
		mid := len(resp.Content) / 2
		ch <- ai.StreamEvent{Delta: resp.Content[:mid]}
		ch <- ai.StreamEvent{Delta: resp.Content[mid:]}
		ch <- ai.StreamEvent{Done: true, Response: resp}
	}()
	return ch, nil
}

type fakeSearcher struct {
	results []tool.SearchResult
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, query, engine string) ([]tool.SearchResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeFetcher struct {
	pages map[string]string
	err   error
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

type fakeInstant struct {
	answer json.RawMessage
	err    error
	calls  int
}

func (f *fakeInstant) InstantAnswer(_ context.Context, query string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

// recordingRenderer captures everything the loop surfaces.
type recordingRenderer struct {
	messages      []ai.Message
	errors        []string
	searchQueries []string
	streamStarts  int
	streamUpdates []string
	streamEnds    []string
	streamDrops   int
}

func (r *recordingRenderer) Message(msg ai.Message) {
	r.messages = append(r.messages, msg)
}

func (r *recordingRenderer) Error(msg string) {
	r.errors = append(r.errors, msg)
}

func (r *recordingRenderer) SearchResults(query string, _ []tool.SearchResult) {
	r.searchQueries = append(r.searchQueries, query)
}

func (r *recordingRenderer) StreamStart() string {
	r.streamStarts++
	return ai.GenerateMessageID()
}

func (r *recordingRenderer) StreamUpdate(_, content string) {
	r.streamUpdates = append(r.streamUpdates, content)
}

func (r *recordingRenderer) StreamEnd(_, content string) {
	r.streamEnds = append(r.streamEnds, content)
}

func (r *recordingRenderer) StreamDiscard(string) {
	r.streamDrops++
}

func (r *recordingRenderer) Status(string) {}
func (r *recordingRenderer) ClearStatus()  {}

func toolCallJSON(tool string, args map[string]any) string {
	raw, _ := json.Marshal(map[string]any{"tool": tool, "arguments": args})
	return string(raw)
}

func countTurns(turns []ai.Message, role ai.Role, substr string) int {
	n := 0
	for _, t := range turns {
		if t.Role == role && strings.Contains(t.Content, substr) {
			n++
		}
	}
	return n
}
