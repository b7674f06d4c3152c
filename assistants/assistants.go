package assistants

import (
	"context"
	"fmt"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/salesdesk-ai/salesdesk/chatmodel"
	"github.com/salesdesk-ai/salesdesk/tools"
	"github.com/tmc/langchaingo/llms"
)

var logger = xlog.NewPackageLogger("github.com/salesdesk-ai/salesdesk", "assistants")

// Role identifies which conversational node an assistant serves.
type Role string

const (
	RoleSales   Role = "sales"
	RoleSupport Role = "support"
)

// Turn is the canonical result of one assistant invocation: the ordered,
// never-empty list of messages produced during the turn.
type Turn struct {
	Messages []llms.MessageContent `json:"messages"`
}

// IAssistant is a conversational node function for the routing graph.
type IAssistant interface {
	// Name returns the name of the Assistant.
	Name() string
	// Description returns the description of the Assistant, to be used in the prompt of other Assistants or LLMs.
	// Should not exceed LLM model limit.
	Description() string
	// Role returns the conversational role this assistant serves.
	Role() Role

	// Invoke runs one conversational turn.
	Invoke(ctx context.Context, state *chatmodel.State, cfg chatmodel.Config) (*Turn, error)
}

type Callback interface {
	tools.Callback
	OnAssistantStart(ctx context.Context, assistant IAssistant, input string)
	OnAssistantEnd(ctx context.Context, assistant IAssistant, input string, turn *Turn)
	OnAssistantError(ctx context.Context, assistant IAssistant, input string, err error)
}

// GetDescriptions renders assistant names and descriptions for embedding in
// a router prompt.
func GetDescriptions(list ...IAssistant) string {
	var ts strings.Builder
	for _, item := range list {
		ts.WriteString(fmt.Sprintf("- `%s`: %s\n", item.Name(), item.Description()))
	}
	return ts.String()
}

// MapAssistants indexes assistants by name.
func MapAssistants(list ...IAssistant) map[string]IAssistant {
	if len(list) == 0 {
		return nil
	}
	m := make(map[string]IAssistant, len(list))
	for _, a := range list {
		m[a.Name()] = a
	}
	return m
}
