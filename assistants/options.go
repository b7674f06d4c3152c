package assistants

import (
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/tools"
	"github.com/tmc/langchaingo/llms"
)

// Option is a function that can be used to modify the Assistant Config.
type Option func(*Config)

type Config struct {
	// UserID attributed to every turn until authentication is wired in.
	UserID string

	// Tools bound to the role pipeline when the assistant builds its own.
	Tools []tools.ITool

	// CallbackHandler is notified around invocations and tool calls.
	CallbackHandler Callback

	// CallOptions are applied to every model generation.
	CallOptions []llms.CallOption

	// MaxToolRounds bounds the generate/tool-call loop; zero keeps the
	// pipeline default.
	MaxToolRounds int

	// PromptInput supplies extra system prompt inputs.
	PromptInput map[string]any
}

func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		UserID: chatmodel.DefaultUserID,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithUserID overrides the default user id recorded in the thread context.
func WithUserID(userID string) Option {
	return func(o *Config) {
		o.UserID = userID
	}
}

// WithTools binds tools to the assistant's pipeline.
func WithTools(list ...tools.ITool) Option {
	return func(o *Config) {
		o.Tools = append(o.Tools, list...)
	}
}

// WithCallback allows setting a custom Callback Handler.
func WithCallback(callbackHandler Callback) Option {
	return func(o *Config) {
		o.CallbackHandler = callbackHandler
	}
}

// WithCallOptions sets model call options for every generation.
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(o *Config) {
		o.CallOptions = append(o.CallOptions, opts...)
	}
}

// WithMaxToolRounds bounds the tool-calling loop.
func WithMaxToolRounds(n int) Option {
	return func(o *Config) {
		o.MaxToolRounds = n
	}
}

// WithPromptInput supplies extra system prompt inputs.
func WithPromptInput(input map[string]any) Option {
	return func(o *Config) {
		o.PromptInput = input
	}
}
