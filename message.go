package spindle

import "github.com/google/uuid"

// Role identifies the sender of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. The ordered sequence of
// messages forms the prompt context; insertion order is semantically
// significant. The system turn is singular and always first.
type Message struct {
	// ID is an optional unique identifier, used for correlating
	// streaming placeholders with finalized messages.
	ID      string `json:"id,omitempty"`
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      GenerateMessageID(),
		Role:    role,
		Content: content,
	}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// Response is a complete response from a model transport.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// StreamEvent is a single event in a streaming generation. Incremental
// Delta events arrive strictly before the terminal Done event.
type StreamEvent struct {
	// Delta contains the incremental content for this event.
	Delta string
	// Done indicates this is the final event in the stream.
	Done bool
	// Response contains the complete response when Done is true.
	Response *Response
	// Err contains any error that occurred during streaming.
	Err error
}
