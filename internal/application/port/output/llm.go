package output

import (
	"context"

	"onboarding-audit/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}

// TokenCounter estimates how many input tokens a piece of text costs.
type TokenCounter interface {
	Count(text string) int
}
