// Package handoff provides the routing tools: the sales assistant hands the
// conversation to customer support, and the support assistant escalates to a
// human agent. Invoking a tool records the requested target in the thread
// context metadata, where the routing graph picks it up after the turn.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/llmutils"
	"github.com/salesdesk-ai/salesdesk/schema"
	"github.com/salesdesk-ai/salesdesk/tools"
)

const (
	// RouteToolName is the sales-to-support routing tool name.
	RouteToolName = "RouteToCustomerSupport"
	// EscalateToolName is the support-to-human escalation tool name.
	EscalateToolName = "EscalateToHuman"

	// MetadataKeyTarget is the thread metadata key the routing graph reads
	// after the turn to decide the next node.
	MetadataKeyTarget = "handoff_target"

	// TargetSupport and TargetHuman are the recorded handoff targets.
	TargetSupport = "support"
	TargetHuman   = "human"
)

// Request is the input shared by both handoff tools.
type Request struct {
	Reason string `json:"Reason,omitempty" jsonschema:"title=Reason,description=Why the conversation is being handed off."`
}

// Result is the response of both handoff tools.
type Result struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Tool hands the conversation off to the given target.
type Tool struct {
	name        string
	description string
	target      string
	funcParams  any
}

var _ tools.Tool[Request, Result] = (*Tool)(nil)

// NewRouteToSupport creates the tool the sales assistant uses to route the
// conversation to customer support.
func NewRouteToSupport() *Tool {
	return &Tool{
		name:        RouteToolName,
		description: "Route the conversation to a customer support assistant for order issues, returns, or refunds.",
		target:      TargetSupport,
		funcParams:  schema.MustParameters(Request{}),
	}
}

// NewEscalateToHuman creates the tool the support assistant uses to escalate
// the conversation to a human agent.
func NewEscalateToHuman() *Tool {
	return &Tool{
		name:        EscalateToolName,
		description: "Escalate the conversation to a human agent when it cannot be resolved with the available tools.",
		target:      TargetHuman,
		funcParams:  schema.MustParameters(Request{}),
	}
}

func (t *Tool) Name() string        { return t.name }
func (t *Tool) Description() string { return t.description }
func (t *Tool) Parameters() any     { return t.funcParams }

func (t *Tool) Run(ctx context.Context, req *Request) (*Result, error) {
	if tc := chatmodel.GetThreadContext(ctx); tc != nil {
		tc.SetMetadata(MetadataKeyTarget, t.target)
	}
	return &Result{
		Target:  t.target,
		Message: fmt.Sprintf("The conversation is being handed off to %s.", t.target),
	}, nil
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return llmutils.ToJSON(out), nil
}
