package spindle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultReadChunkSize is the number of characters of fetched page
// content delivered to the model per pagination chunk when a read_url
// call does not specify a length.
const DefaultReadChunkSize = 1122

// DefaultSearchEngine is used when a web_search call omits the engine.
const DefaultSearchEngine = "duckduckgo"

// ToolKind identifies one of the closed set of tools.
type ToolKind string

const (
	ToolWebSearch     ToolKind = "web_search"
	ToolReadURL       ToolKind = "read_url"
	ToolInstantAnswer ToolKind = "instant_answer"
)

// WebSearchArgs are the arguments for a web_search call.
type WebSearchArgs struct {
	Query  string `json:"query"`
	Engine string `json:"engine,omitempty"`
}

// ReadURLArgs are the arguments for a read_url call.
type ReadURLArgs struct {
	URL    string `json:"url"`
	Start  int    `json:"start,omitempty"`
	Length int    `json:"length,omitempty"`
}

// InstantAnswerArgs are the arguments for an instant_answer call.
type InstantAnswerArgs struct {
	Query string `json:"query"`
}

// RawToolCall is the wire form of a tool invocation as emitted by the
// model: a JSON object with exactly two interpreted top-level fields.
type RawToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCall is a parsed tool invocation. It is a closed tagged variant:
// exactly one of the argument records is non-nil, matching Kind.
// ToolCalls are never persisted as their own entity; they are converted
// into conversation turns by the dispatcher.
type ToolCall struct {
	Kind ToolKind

	WebSearch     *WebSearchArgs
	ReadURL       *ReadURLArgs
	InstantAnswer *InstantAnswerArgs

	// SkipContinue suppresses the conversation continuation that
	// normally follows dispatch. It is set internally on nested
	// prefetch calls and never expected from the model. It is
	// bookkeeping, not part of the call identity, and is excluded
	// from the fingerprint.
	SkipContinue bool
}

// UnknownToolError reports a tool name outside the closed set.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// ParseToolCall converts a raw wire-format call into a typed ToolCall,
// filling default argument values. Returns an UnknownToolError for a
// tool name outside the closed set.
func ParseToolCall(raw RawToolCall) (ToolCall, error) {
	data, err := json.Marshal(raw.Arguments)
	if err != nil {
		return ToolCall{}, NewUserInputError("invalid tool arguments", 0, err)
	}

	switch ToolKind(raw.Tool) {
	case ToolWebSearch:
		var args WebSearchArgs
		if err := json.Unmarshal(data, &args); err != nil {
			return ToolCall{}, NewUserInputError("invalid web_search arguments", 0, err)
		}
		return NewWebSearchCall(args.Query, args.Engine), nil

	case ToolReadURL:
		var args ReadURLArgs
		if err := json.Unmarshal(data, &args); err != nil {
			return ToolCall{}, NewUserInputError("invalid read_url arguments", 0, err)
		}
		return NewReadURLCall(args.URL, args.Start, args.Length), nil

	case ToolInstantAnswer:
		var args InstantAnswerArgs
		if err := json.Unmarshal(data, &args); err != nil {
			return ToolCall{}, NewUserInputError("invalid instant_answer arguments", 0, err)
		}
		return NewInstantAnswerCall(args.Query), nil

	default:
		return ToolCall{}, &UnknownToolError{Name: raw.Tool}
	}
}

// NewWebSearchCall creates a web_search call with defaults filled.
func NewWebSearchCall(query, engine string) ToolCall {
	if engine == "" {
		engine = DefaultSearchEngine
	}
	return ToolCall{
		Kind:      ToolWebSearch,
		WebSearch: &WebSearchArgs{Query: strings.TrimSpace(query), Engine: engine},
	}
}

// NewReadURLCall creates a read_url call with defaults filled.
func NewReadURLCall(url string, start, length int) ToolCall {
	if start < 0 {
		start = 0
	}
	if length <= 0 {
		length = DefaultReadChunkSize
	}
	return ToolCall{
		Kind:    ToolReadURL,
		ReadURL: &ReadURLArgs{URL: strings.TrimSpace(url), Start: start, Length: length},
	}
}

// NewInstantAnswerCall creates an instant_answer call.
func NewInstantAnswerCall(query string) ToolCall {
	return ToolCall{
		Kind:          ToolInstantAnswer,
		InstantAnswer: &InstantAnswerArgs{Query: strings.TrimSpace(query)},
	}
}

// Name returns the wire-format tool name.
func (c ToolCall) Name() string {
	return string(c.Kind)
}

// Fingerprint returns a canonical serialization of the call used as a
// deduplication key. Two calls with the same tool and the same argument
// values, including default-filled values, share a fingerprint
// regardless of the argument order the model emitted them in. The
// arguments are serialized as JSON of the typed record, so field order
// is the struct's, never map iteration, and a delimiter embedded in a
// model-supplied value cannot collide with a different call.
func (c ToolCall) Fingerprint() string {
	var args any
	switch c.Kind {
	case ToolWebSearch:
		args = c.WebSearch
	case ToolReadURL:
		args = c.ReadURL
	case ToolInstantAnswer:
		args = c.InstantAnswer
	default:
		return string(c.Kind)
	}
	data, _ := json.Marshal(args)
	return string(c.Kind) + "|" + string(data)
}
