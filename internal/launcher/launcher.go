// Package launcher is the shared entry point of the cmd binaries: it loads
// configuration, builds the test plan, wires the container and runs it once.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboarding-audit/internal/application/port/input"
	"onboarding-audit/internal/di"
	"onboarding-audit/internal/domain/entity"
	"onboarding-audit/internal/infrastructure/env"
	"onboarding-audit/internal/infrastructure/profile"
	"onboarding-audit/internal/infrastructure/prompts"

	"github.com/fatih/color"
)

func Run(kind entity.TestKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", prompts.ErrUnknownKind, kind)
	}

	cfg, err := env.LoadConfig(env.NewEnvService())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	p, err := profile.Load(cfg.ProfileFile)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	plan, err := prompts.BuildPlan(kind, cfg.TargetURL, p)
	if err != nil {
		return fmt.Errorf("build plan: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, di.Config{App: cfg, Kind: kind})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer container.Close()

	printHeader(os.Stdout, plan, container.RunID, cfg.Model)

	res, err := container.TaskRunner.Run(ctx, plan)
	if err != nil {
		container.Logger.Error("Run failed", "error", err)
		return err
	}

	printSummary(os.Stdout, res)
	return nil
}

func printHeader(w io.Writer, plan *entity.TestPlan, runID, model string) {
	bold := color.New(color.FgCyan, color.Bold)
	bold.Fprintf(w, "\n%s\n", plan.Title)

	dim := color.New(color.Faint)
	dim.Fprintf(w, "target:   %s\n", plan.TargetURL)
	if plan.Scenario != "" {
		dim.Fprintf(w, "scenario: %s\n", plan.Scenario)
	}
	dim.Fprintf(w, "model:    %s\n", model)
	dim.Fprintf(w, "run:      %s\n", runID)
}

func printSummary(w io.Writer, res *input.RunResult) {
	h := res.History

	status := color.New(color.FgGreen, color.Bold)
	label := "COMPLETED"
	switch {
	case !h.Done:
		status = color.New(color.FgRed, color.Bold)
		label = "NOT COMPLETED"
	case !h.Success:
		status = color.New(color.FgYellow, color.Bold)
		label = "COMPLETED WITH ISSUES"
	}

	fmt.Fprintln(w)
	status.Fprintf(w, "%s", label)
	fmt.Fprintf(w, " after %d steps in %s\n", len(h.Steps), h.Duration().Round(time.Second))

	if errs := h.Errors(); len(errs) > 0 {
		color.New(color.FgRed).Fprintf(w, "%d errors recorded\n", len(errs))
	}
	fmt.Fprintf(w, "Report: %s\n", res.ReportPath)
}
