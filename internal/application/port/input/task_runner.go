package input

import (
	"context"

	"onboarding-audit/internal/domain/entity"
)

type RunResult struct {
	History    *entity.RunHistory
	ReportPath string
}

type TaskRunner interface {
	Run(ctx context.Context, plan *entity.TestPlan) (*RunResult, error)
}
