// Package client provides a unified Generator over all supported model
// providers. Provider SDK clients are lazily initialized when first
// needed based on the configured provider.
package client

import (
	"context"
	"fmt"
	"sync"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/internal/provider/anthropic"
	"github.com/spindlehq/spindle/internal/provider/google"
	"github.com/spindlehq/spindle/internal/provider/openai"
)

// APIKeys holds API keys for the supported providers. Only configure
// keys for providers you intend to use.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds configuration for creating a unified client.
type Config struct {
	// APIKeys contains authentication keys for each provider.
	APIKeys APIKeys

	// Provider selects the backend used for generation.
	Provider ai.Provider

	// Model overrides the provider's default model. Per-request
	// options override this.
	Model string
}

// ErrMissingAPIKey is returned when the selected provider has no API
// key configured.
type ErrMissingAPIKey struct {
	Provider string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// Client is a unified Generator. The underlying provider client is
// lazily initialized on first use.
type Client struct {
	apiKeys  APIKeys
	provider ai.Provider
	model    string

	mu              sync.Mutex
	anthropicClient *anthropic.Client
	openaiClient    *openai.Client
	googleClient    *google.Client
	googleInitErr   error
}

// New creates a unified client with the given configuration.
func New(cfg Config) *Client {
	return &Client{
		apiKeys:  cfg.APIKeys,
		provider: cfg.Provider,
		model:    cfg.Model,
	}
}

func (c *Client) generator(ctx context.Context) (ai.Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.provider {
	case ai.ProviderAnthropic:
		if c.anthropicClient == nil {
			if c.apiKeys.Anthropic == "" {
				return nil, &ErrMissingAPIKey{Provider: "anthropic"}
			}
			c.anthropicClient = anthropic.New(c.apiKeys.Anthropic)
		}
		return c.anthropicClient, nil

	case ai.ProviderOpenAI:
		if c.openaiClient == nil {
			if c.apiKeys.OpenAI == "" {
				return nil, &ErrMissingAPIKey{Provider: "openai"}
			}
			c.openaiClient = openai.New(c.apiKeys.OpenAI)
		}
		return c.openaiClient, nil

	case ai.ProviderGoogle:
		if c.googleInitErr != nil {
			return nil, c.googleInitErr
		}
		if c.googleClient == nil {
			if c.apiKeys.Google == "" {
				return nil, &ErrMissingAPIKey{Provider: "google"}
			}
			client, err := google.New(ctx, c.apiKeys.Google)
			if err != nil {
				c.googleInitErr = fmt.Errorf("failed to initialize Google client: %w", err)
				return nil, c.googleInitErr
			}
			c.googleClient = client
		}
		return c.googleClient, nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.provider)
	}
}

func (c *Client) withDefaults(opts []ai.Option) []ai.Option {
	if c.model == "" {
		return opts
	}
	// prepend so per-request options win
	return append([]ai.Option{ai.WithModel(c.model)}, opts...)
}

// Generate sends a conversation and returns a complete response.
func (c *Client) Generate(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	gen, err := c.generator(ctx)
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, messages, c.withDefaults(opts)...)
}

// GenerateStream sends a conversation and returns a channel of
// streaming events.
func (c *Client) GenerateStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	gen, err := c.generator(ctx)
	if err != nil {
		return nil, err
	}
	return gen.GenerateStream(ctx, messages, c.withDefaults(opts)...)
}

var _ ai.Generator = (*Client)(nil)
