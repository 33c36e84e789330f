package openai

// ChatModel represents an OpenAI chat model.
type ChatModel string

const (
	GPT52     ChatModel = "gpt-5.2"
	GPT52Mini ChatModel = "gpt-5.2-mini"
	GPT51     ChatModel = "gpt-5.1"

	// DefaultChatModel is the recommended default model.
	DefaultChatModel ChatModel = GPT52
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }
