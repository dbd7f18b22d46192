package taskrunner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"onboarding-audit/internal/application/port/input"
	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"
)

var _ input.TaskRunner = (*UseCase)(nil)

var ErrInvalidPlan = errors.New("invalid test plan")

// UseCase runs the agent once for a plan and then writes the report. Whatever
// happened inside the run is reported as history; only a report that cannot be
// written is an error.
type UseCase struct {
	agent  input.AgentExecutor
	report output.ReportWriter
	logger output.LoggerPort
}

func New(agent input.AgentExecutor, report output.ReportWriter, logger output.LoggerPort) *UseCase {
	return &UseCase{
		agent:  agent,
		report: report,
		logger: logger,
	}
}

func (uc *UseCase) Run(ctx context.Context, plan *entity.TestPlan) (*input.RunResult, error) {
	if plan == nil || strings.TrimSpace(plan.Prompt) == "" {
		return nil, fmt.Errorf("%w: empty task", ErrInvalidPlan)
	}
	if !plan.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidPlan, plan.Kind)
	}

	log := uc.logger.WithFields(map[string]any{
		"kind":   plan.Kind.String(),
		"target": plan.TargetURL,
	})
	log.Info("Starting agent run", "scenario", plan.Scenario)

	history, err := uc.agent.Execute(ctx, plan.Prompt)
	if err != nil {
		// the agent could not start; the report still records that it ran
		log.Error("Agent run failed to start", "error", err)
		history = entity.NewRunHistory("", plan.Prompt)
		history.FinishedAt = history.StartedAt
		history.RunErrors = append(history.RunErrors, fmt.Sprintf("agent run failed: %v", err))
	}

	log.Info("Agent run finished",
		"steps", len(history.Steps),
		"done", history.Done,
		"success", history.Success,
		"errors", len(history.Errors()),
		"duration", history.Duration().String(),
	)

	path, err := uc.report.Write(plan, history)
	if err != nil {
		return &input.RunResult{History: history}, fmt.Errorf("write report: %w", err)
	}
	log.Info("Report written", "path", path)

	return &input.RunResult{History: history, ReportPath: path}, nil
}
