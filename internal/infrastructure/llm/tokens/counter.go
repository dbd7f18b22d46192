package tokens

import (
	"onboarding-audit/internal/application/port/output"

	"github.com/tmc/langchaingo/llms"
)

var _ output.TokenCounter = (*Counter)(nil)

// Counter counts tokens with the tiktoken encoding of the configured model,
// falling back to langchaingo's approximation for models tiktoken does not know.
type Counter struct {
	model string
}

func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return llms.CountTokens(c.model, text)
}

// ContextSize is the model's context window as langchaingo knows it.
func (c *Counter) ContextSize() int {
	return llms.GetModelContextSize(c.model)
}

// Budget returns requested, or the model context window when no budget was
// configured. langchaingo reports 2048 for models it does not know, so an
// explicit budget always wins.
func (c *Counter) Budget(requested int) int {
	if requested > 0 {
		return requested
	}
	return c.ContextSize()
}
