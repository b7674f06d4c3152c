package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	"github.com/salesdesk-ai/salesdesk/pkg/metricskey"
	"github.com/salesdesk-ai/salesdesk/schema"
	"github.com/salesdesk-ai/salesdesk/tools"
)

var logger = xlog.NewPackageLogger("github.com/salesdesk-ai/salesdesk", "websearch")

// EnvAPIKey is the environment variable holding the Brave Search credential.
const EnvAPIKey = "BRAVE_API_KEY"

const (
	unavailableToolName = "brave_web_search_unavailable"
	webSearchToolName   = "brave_web_search"
	newsSearchToolName  = "brave_news_search"

	unavailableMessage = "Web search is unavailable: missing BRAVE_API_KEY."

	// only discovered tools carrying the provider name are wrapped
	providerNameMark = "brave"
)

// SearchInput is the input contract shared by every search tool variant.
type SearchInput struct {
	Query string `json:"query" jsonschema:"description=The search query."`
}

var searchParameters = schema.MustParameters(SearchInput{})

// Loader selects and builds the search toolset for the current environment.
type Loader struct {
	apiKey string
	dialer Dialer
}

// Option configures a Loader.
type Option func(*Loader)

// WithAPIKey overrides the credential read from the environment.
func WithAPIKey(key string) Option {
	return func(l *Loader) {
		l.apiKey = strings.TrimSpace(key)
	}
}

// WithDialer overrides how the live session is established.
func WithDialer(d Dialer) Option {
	return func(l *Loader) {
		l.dialer = d
	}
}

// NewLoader reads the credential from the environment unless overridden.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		apiKey: strings.TrimSpace(os.Getenv(EnvAPIKey)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.dialer == nil {
		l.dialer = func(ctx context.Context) (Session, error) {
			return DialStdio(ctx, l.apiKey)
		}
	}
	return l
}

// Load returns the search toolset for the current environment. It never
// returns an error and never returns an empty list: integration failures
// degrade to placeholder tools instead of propagating.
func (l *Loader) Load(ctx context.Context) []tools.ITool {
	credentialPresent := l.apiKey != ""

	var session Session
	var discovered []ToolInfo
	var dialErr error
	if credentialPresent {
		session, dialErr = l.dialer(ctx)
		if dialErr == nil {
			discovered, dialErr = session.ListTools(ctx)
		}
		if dialErr != nil && session != nil {
			_ = session.Close()
			session = nil
		}
	}

	var relevant []ToolInfo
	for _, info := range discovered {
		if strings.Contains(strings.ToLower(info.Name), providerNameMark) {
			relevant = append(relevant, info)
		}
	}

	state := SelectState(credentialPresent, dialErr == nil, len(relevant) > 0)
	switch state {
	case StateUnavailable:
		return []tools.ITool{newFixedTool(
			unavailableToolName,
			"Placeholder returned when the web search credential is not configured.",
			unavailableMessage,
		)}

	case StateFallback:
		metricskey.StatsSearchFallbacks.IncrCounter(1, state.String())
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "search_fallback",
			"err", dialErr.Error(),
		)
		return []tools.ITool{
			newStaticTool(
				webSearchToolName,
				"Perform a general web search using Brave Search.",
				func(query string) string {
					return fmt.Sprintf("[brave] (fallback) search results for: %s", query)
				},
			),
			newStaticTool(
				newsSearchToolName,
				"Perform a news-focused search using Brave Search.",
				func(query string) string {
					return fmt.Sprintf("[brave-news] (fallback) search results for: %s", query)
				},
			),
		}

	case StateStub:
		metricskey.StatsSearchFallbacks.IncrCounter(1, state.String())
		if session != nil {
			_ = session.Close()
		}
		return []tools.ITool{newStaticTool(
			webSearchToolName,
			"Perform a general web search using Brave Search.",
			func(query string) string {
				return fmt.Sprintf("[brave] (stub) search results for: %s", query)
			},
		)}

	default: // StateLive
		list := make([]tools.ITool, 0, len(relevant))
		for _, info := range relevant {
			list = append(list, &liveTool{
				session:     session,
				name:        info.Name,
				description: info.Description,
			})
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "search_live",
			"tools", len(list),
		)
		return list
	}
}

// LoadSync returns the two-named-tool set without attempting live
// integration. Each tool checks credential presence per call, so the set is
// safe to build in environments where spawning the server is not possible.
func (l *Loader) LoadSync() []tools.ITool {
	apiKey := l.apiKey
	return []tools.ITool{
		newStaticTool(
			webSearchToolName,
			"Perform a general web search using Brave Search.",
			func(query string) string {
				if apiKey == "" {
					return unavailableMessage
				}
				return fmt.Sprintf("[brave] search results for: %s", query)
			},
		),
		newStaticTool(
			newsSearchToolName,
			"Perform a news-focused search using Brave Search.",
			func(query string) string {
				if apiKey == "" {
					return unavailableMessage
				}
				return fmt.Sprintf("[brave-news] search results for: %s", query)
			},
		),
	}
}

// staticTool synthesizes its result locally, without contacting a provider.
type staticTool struct {
	name        string
	description string
	respond     func(query string) string
	// fixed tools answer the same regardless of input and skip parsing
	fixed bool
}

var _ tools.ITool = (*staticTool)(nil)

func newStaticTool(name, description string, respond func(string) string) *staticTool {
	return &staticTool{
		name:        name,
		description: description,
		respond:     respond,
	}
}

func newFixedTool(name, description, message string) *staticTool {
	return &staticTool{
		name:        name,
		description: description,
		respond:     func(string) string { return message },
		fixed:       true,
	}
}

func (t *staticTool) Name() string        { return t.name }
func (t *staticTool) Description() string { return t.description }
func (t *staticTool) Parameters() any     { return searchParameters }

func (t *staticTool) Call(_ context.Context, input string) (string, error) {
	if t.fixed {
		return t.respond(""), nil
	}
	query, err := parseQuery(input)
	if err != nil {
		return "", err
	}
	return t.respond(query), nil
}

// liveTool forwards the query to a discovered server tool. Per-call remote
// failures are returned as result text so the model can react to them.
type liveTool struct {
	session     Session
	name        string
	description string
}

var _ tools.ITool = (*liveTool)(nil)

func (t *liveTool) Name() string        { return t.name }
func (t *liveTool) Description() string { return t.description }
func (t *liveTool) Parameters() any     { return searchParameters }

func (t *liveTool) Call(ctx context.Context, input string) (string, error) {
	query, err := parseQuery(input)
	if err != nil {
		return "", err
	}
	res, err := t.session.CallTool(ctx, t.name, map[string]any{"query": query})
	if err != nil {
		return fmt.Sprintf("[brave:%s] error: %v", t.name, err), nil
	}
	return res, nil
}

func parseQuery(input string) (string, error) {
	var in SearchInput
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &in); err != nil {
		// tolerate a bare query string
		var s string
		if err2 := json.Unmarshal([]byte(input), &s); err2 == nil {
			return s, nil
		}
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	return in.Query, nil
}
