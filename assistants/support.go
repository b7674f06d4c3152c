package assistants

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

const supportPromptTemplate = `You are a customer support assistant for an online store.

Help the customer with order issues, shipping questions, returns, and
refunds. Use the provided tools to look up information. If the customer is
upset, the issue is sensitive, or you cannot resolve it with the available
tools, escalate to a human agent rather than improvising an answer.

Be empathetic and clear. Confirm what you understood before taking an
action on the customer's behalf.

Current time: {{.time}}.`

// SupportPrompt returns the system prompt template for the support role.
func SupportPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(supportPromptTemplate, []string{"time"})
}

// NewSupport creates the support assistant node around the given chat model.
func NewSupport(model llms.Model, opts ...Option) *Assistant {
	cfg := NewConfig(opts...)
	return newAssistant(RoleSupport, newRolePipeline(model, SupportPrompt(), cfg), cfg)
}
