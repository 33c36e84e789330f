package convo

import (
	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/tool"
)

// Renderer receives user-visible output from the conversation loop.
// Implementations display chat messages, streaming placeholders, rich
// search results, and transient status text. All methods are called
// from the goroutine driving Send; implementations need not be safe
// for concurrent use.
type Renderer interface {
	// Message displays a finalized conversational message.
	Message(msg ai.Message)

	// Error displays an error message outside the conversation flow.
	Error(msg string)

	// SearchResults displays richly-formatted search results. The loop
	// separately appends a plain-text summary turn for the model.
	SearchResults(query string, results []tool.SearchResult)

	// StreamStart creates a placeholder for a streaming message and
	// returns its identifier.
	StreamStart() string

	// StreamUpdate replaces the placeholder's content.
	StreamUpdate(id, content string)

	// StreamEnd finalizes the placeholder with its final content.
	StreamEnd(id, content string)

	// StreamDiscard removes the placeholder without finalizing it.
	// Used when a streamed turn resolves to a tool call rather than a
	// displayable message.
	StreamDiscard(id string)

	// Status shows a transient status indicator.
	Status(text string)

	// ClearStatus removes the status indicator.
	ClearStatus()
}

// NopRenderer discards all output. It is the default renderer.
type NopRenderer struct{}

func (NopRenderer) Message(ai.Message)                      {}
func (NopRenderer) Error(string)                            {}
func (NopRenderer) SearchResults(string, []tool.SearchResult) {}
func (NopRenderer) StreamStart() string                     { return ai.GenerateMessageID() }
func (NopRenderer) StreamUpdate(string, string)             {}
func (NopRenderer) StreamEnd(string, string)                {}
func (NopRenderer) StreamDiscard(string)                    {}
func (NopRenderer) Status(string)                           {}
func (NopRenderer) ClearStatus()                            {}

var _ Renderer = NopRenderer{}
