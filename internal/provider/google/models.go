package google

// ChatModel represents a Google Gemini chat model.
type ChatModel string

const (
	Gemini25Flash ChatModel = "gemini-2.5-flash"
	Gemini25Pro   ChatModel = "gemini-2.5-pro"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = Gemini25Flash
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
