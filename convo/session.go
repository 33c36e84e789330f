// Package convo implements the tool-call orchestration engine: a
// conversation loop that detects tool invocations embedded in model
// output, dispatches each exactly once, paginates long fetched content
// under model-driven continuation decisions, and resumes generation
// until a turn yields no tool call.
package convo

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/segment"
	"github.com/spindlehq/spindle/store"
	"github.com/spindlehq/spindle/tool"
)

// DefaultWindow is the number of recent turns sent to the model in
// addition to the system turn.
const DefaultWindow = 20

// DefaultSystemPrompt instructs the model on the tool-call wire format.
const DefaultSystemPrompt = `You are a helpful assistant with access to external tools.

To use a tool, respond with a single JSON object and nothing else:
{"tool": "<name>", "arguments": {...}}

Available tools:
- web_search: search the web. Arguments: {"query": "...", "engine": "..." (optional)}
- read_url: read the content of a web page. Arguments: {"url": "...", "start": 0 (optional), "length": 1122 (optional)}
- instant_answer: look up a quick factual answer. Arguments: {"query": "..."}

Tool results will be added to the conversation. When you have enough
information, answer the user in plain text without any tool call.`

// ErrBusy is returned by Send while a previous Send is still running.
var ErrBusy = ai.NewUserInputError("a conversation turn is already in progress", 0, nil)

// Session owns one conversation: the ordered turn history, the set of
// executed tool-call fingerprints, and the settings. All mutation
// happens on the goroutine driving Send; the executed set and turn
// order are never touched concurrently.
type Session struct {
	gen      ai.Generator
	renderer Renderer
	searcher tool.Searcher
	fetcher  tool.Fetcher
	instant  tool.InstantAnswerer
	logger   zerolog.Logger

	turns        *store.TurnStore
	window       int
	chunkSize    int
	grammar      segment.Grammar
	systemPrompt string

	mu       sync.Mutex
	settings ai.Settings
	busy     bool

	executed map[string]struct{}

	// trampoline state, touched only while busy
	pending      int
	dupContinued bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRenderer sets the output renderer.
func WithRenderer(r Renderer) SessionOption {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithSearcher sets the web search backend.
func WithSearcher(b tool.Searcher) SessionOption {
	return func(s *Session) {
		s.searcher = b
	}
}

// WithFetcher sets the URL reading backend.
func WithFetcher(b tool.Fetcher) SessionOption {
	return func(s *Session) {
		s.fetcher = b
	}
}

// WithInstantAnswerer sets the instant answer backend.
func WithInstantAnswerer(b tool.InstantAnswerer) SessionOption {
	return func(s *Session) {
		s.instant = b
	}
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithTurnStore sets the turn history store, e.g. one backed by a
// persistence adapter.
func WithTurnStore(ts *store.TurnStore) SessionOption {
	return func(s *Session) {
		s.turns = ts
	}
}

// WithWindow sets how many recent turns accompany the system turn in
// each model request. Default is DefaultWindow.
func WithWindow(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.window = n
		}
	}
}

// WithChunkSize sets the pagination chunk size in characters.
// Default is ai.DefaultReadChunkSize.
func WithChunkSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithGrammar sets the reasoning/answer marker grammar.
func WithGrammar(g segment.Grammar) SessionOption {
	return func(s *Session) {
		s.grammar = g
	}
}

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) SessionOption {
	return func(s *Session) {
		s.systemPrompt = prompt
	}
}

// WithSettings sets the initial settings.
func WithSettings(settings ai.Settings) SessionOption {
	return func(s *Session) {
		s.settings = settings
	}
}

// NewSession creates a conversation session on the given generator.
func NewSession(gen ai.Generator, opts ...SessionOption) *Session {
	s := &Session{
		gen:          gen,
		renderer:     NopRenderer{},
		logger:       zerolog.Nop(),
		window:       DefaultWindow,
		chunkSize:    ai.DefaultReadChunkSize,
		grammar:      segment.DefaultGrammar,
		systemPrompt: DefaultSystemPrompt,
		executed:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.turns == nil {
		s.turns = store.NewTurnStore(nil)
	}
	return s
}

// UpdateSettings replaces the settings wholesale.
func (s *Session) UpdateSettings(settings ai.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// Settings returns the current settings.
func (s *Session) Settings() ai.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Turns returns a copy of the conversation history.
func (s *Session) Turns() []ai.Message {
	return s.turns.Turns()
}

// Fingerprints returns the executed tool-call fingerprints, sorted.
func (s *Session) Fingerprints() []string {
	fps := make([]string, 0, len(s.executed))
	for fp := range s.executed {
		fps = append(fps, fp)
	}
	sort.Strings(fps)
	return fps
}

// Clear resets the conversation: turn history and the executed
// fingerprint set.
func (s *Session) Clear() {
	s.turns.Clear()
	s.executed = make(map[string]struct{})
}

// systemTurn builds the system message, augmented with the
// reasoning-eliciting instruction when CoT is enabled.
func (s *Session) systemTurn(settings ai.Settings) ai.Message {
	prompt := s.systemPrompt
	if settings.EnableCoT {
		prompt += fmt.Sprintf(
			"\n\nWhen answering in plain text, first write your reasoning prefixed with %q, then your final answer prefixed with %q.",
			s.grammar.ReasoningMarker, s.grammar.AnswerMarker)
	}
	return ai.Message{Role: ai.RoleSystem, Content: prompt}
}
