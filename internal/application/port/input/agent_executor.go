package input

import (
	"context"

	"onboarding-audit/internal/domain/entity"
)

// AgentExecutor runs one agent to completion. Failures inside the run are
// recorded in the returned history; the error is reserved for requests the
// agent cannot start at all.
type AgentExecutor interface {
	Execute(ctx context.Context, task string) (*entity.RunHistory, error)
}
