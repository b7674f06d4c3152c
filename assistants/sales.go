package assistants

import (
	"github.com/salesdesk-ai/salesdesk/pipeline"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
)

const salesPromptTemplate = `You are a helpful sales assistant for an online store.

Help the customer find products, answer questions about the catalog, and
manage their shopping cart. Use the provided tools to search the catalog,
add items to the cart, and show the cart contents. When a question is about
an existing order, a return, or anything the sales tools cannot answer,
route the conversation to customer support instead of guessing.

Be concise and friendly. Never invent products or prices: if the catalog
search returns nothing, say so.

Current time: {{.time}}.`

// SalesPrompt returns the system prompt template for the sales role.
func SalesPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(salesPromptTemplate, []string{"time"})
}

// NewSales creates the sales assistant node around the given chat model.
func NewSales(model llms.Model, opts ...Option) *Assistant {
	cfg := NewConfig(opts...)
	return newAssistant(RoleSales, newRolePipeline(model, SalesPrompt(), cfg), cfg)
}

func newRolePipeline(model llms.Model, prompt prompts.PromptTemplate, cfg *Config) *pipeline.Runnable {
	r := pipeline.NewRunnable(model, prompt).
		WithTools(cfg.Tools...).
		WithCallOptions(cfg.CallOptions...).
		WithMaxToolRounds(cfg.MaxToolRounds).
		WithPromptInput(cfg.PromptInput)
	if cfg.CallbackHandler != nil {
		r = r.WithToolCallback(cfg.CallbackHandler)
	}
	return r
}
