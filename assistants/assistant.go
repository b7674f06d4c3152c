package assistants

import (
	"context"
	"time"

	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/pipeline"
	"github.com/salesdesk-ai/salesdesk/pkg/metricskey"
)

// Assistant runs one conversational turn through a role pipeline and
// normalizes its output. The thread/user context is resolved from the
// invocation config and carried in ctx, so tools executed during the turn
// see exactly this invocation's identity.
type Assistant struct {
	role        Role
	name        string
	description string
	pipeline    pipeline.Pipeline
	cfg         *Config
}

var _ IAssistant = (*Assistant)(nil)

// New creates an assistant around a custom pipeline. Most callers use
// NewSales or NewSupport, which bind the role prompt and default toolset.
func New(role Role, p pipeline.Pipeline, opts ...Option) *Assistant {
	return newAssistant(role, p, NewConfig(opts...))
}

func newAssistant(role Role, p pipeline.Pipeline, cfg *Config) *Assistant {
	a := &Assistant{
		role:     role,
		pipeline: p,
		cfg:      cfg,
	}
	switch role {
	case RoleSupport:
		a.name = "Support Assistant"
		a.description = "Handles order issues, returns, and escalation to a human agent."
	default:
		a.name = "Sales Assistant"
		a.description = "Helps shoppers find products, manage their cart, and answers product questions."
	}
	return a
}

// Name returns the name of the Assistant.
func (a *Assistant) Name() string {
	return a.name
}

// Description returns the description of the Assistant.
func (a *Assistant) Description() string {
	return a.description
}

// Role returns the conversational role this assistant serves.
func (a *Assistant) Role() Role {
	return a.role
}

// WithName sets the name of the Assistant, when referenced by the router.
func (a *Assistant) WithName(name string) *Assistant {
	a.name = name
	return a
}

// WithDescription sets the description of the Assistant.
func (a *Assistant) WithDescription(description string) *Assistant {
	a.description = description
	return a
}

// Invoke runs one turn. A missing or malformed configurable.thread_id never
// fails the call: the default thread id is used instead. Pipeline errors
// propagate to the routing graph untouched.
func (a *Assistant) Invoke(ctx context.Context, state *chatmodel.State, cfg chatmodel.Config) (*Turn, error) {
	started := time.Now()
	defer metricskey.PerfAssistantCall.MeasureSince(started, a.name)

	threadID, ok := cfg.ThreadID()
	if !ok {
		threadID = chatmodel.DefaultThreadID
		logger.ContextKV(ctx, xlog.DEBUG,
			"assistant", a.name,
			"status", "thread_id_defaulted",
		)
	}
	ctx = chatmodel.WithThreadContext(ctx, chatmodel.NewThreadContext(threadID, a.cfg.UserID))

	input := state.LastHumanInput()
	callback := a.cfg.CallbackHandler
	if callback != nil {
		callback.OnAssistantStart(ctx, a, input)
	}

	res, err := a.pipeline.Invoke(ctx, state, cfg)
	if err != nil {
		metricskey.StatsAssistantCallsFailed.IncrCounter(1, a.name)
		logger.ContextKV(ctx, xlog.WARNING,
			"assistant", a.name,
			"thread_id", threadID,
			"status", "pipeline_failed",
			"input", slices.StringUpto(input, 64),
			"err", err.Error(),
		)
		if callback != nil {
			callback.OnAssistantError(ctx, a, input, err)
		}
		return nil, err
	}

	turn := &Turn{Messages: res.Messages()}
	metricskey.StatsAssistantCallsSucceeded.IncrCounter(1, a.name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"assistant", a.name,
		"thread_id", threadID,
		"status", "turn_completed",
		"messages", len(turn.Messages),
	)
	if callback != nil {
		callback.OnAssistantEnd(ctx, a, input, turn)
	}
	return turn, nil
}
