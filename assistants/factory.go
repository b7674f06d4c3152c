package assistants

import (
	"github.com/salesdesk-ai/salesdesk/llmfactory"
	"github.com/tmc/langchaingo/llms"
)

// NewSalesFromConfig builds the sales assistant from the LLM provider
// configuration at location, using the default provider's model.
func NewSalesFromConfig(location string, opts ...Option) (*Assistant, error) {
	model, err := defaultModel(location)
	if err != nil {
		return nil, err
	}
	return NewSales(model, opts...), nil
}

// NewSupportFromConfig builds the support assistant from the LLM provider
// configuration at location, using the default provider's model.
func NewSupportFromConfig(location string, opts ...Option) (*Assistant, error) {
	model, err := defaultModel(location)
	if err != nil {
		return nil, err
	}
	return NewSupport(model, opts...), nil
}

func defaultModel(location string) (llms.Model, error) {
	f, err := llmfactory.Load(location)
	if err != nil {
		return nil, err
	}
	return f.DefaultModel()
}
