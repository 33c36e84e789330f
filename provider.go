package spindle

import "context"

// Provider identifies a model transport backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
)

// Generator is the model transport capability consumed by the
// conversation loop. Implementations wrap a provider SDK; the loop does
// not know which calling convention is in use. Both methods resolve to
// the complete response text: Generate in a single call, GenerateStream
// after delivering an ordered sequence of incremental deltas followed
// by a terminal Done event.
type Generator interface {
	Generate(ctx context.Context, messages []Message, opts ...Option) (*Response, error)
	GenerateStream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}
