package di

import (
	"context"
	"fmt"
	"path/filepath"

	"onboarding-audit/internal/adapter/tool"
	"onboarding-audit/internal/application/port/input"
	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/application/service"
	"onboarding-audit/internal/domain/entity"
	"onboarding-audit/internal/infrastructure/browser/rod"
	"onboarding-audit/internal/infrastructure/conversation"
	"onboarding-audit/internal/infrastructure/env"
	"onboarding-audit/internal/infrastructure/llm/openaicompat"
	"onboarding-audit/internal/infrastructure/llm/tokens"
	"onboarding-audit/internal/infrastructure/logger"
	"onboarding-audit/internal/infrastructure/progress"
	"onboarding-audit/internal/infrastructure/prompts"
	"onboarding-audit/internal/infrastructure/report"
	"onboarding-audit/internal/infrastructure/screenshot"
	"onboarding-audit/internal/usecase/executor"
	"onboarding-audit/internal/usecase/taskrunner"

	"github.com/google/uuid"
)

type Container struct {
	RunID      string
	Browser    output.BrowserPort
	LLM        output.LLMPort
	Logger     output.LoggerPort
	Tools      output.ToolRegistry
	Agent      input.AgentExecutor
	TaskRunner input.TaskRunner
}

type Config struct {
	App          env.Config
	Kind         entity.TestKind
	RunID        string
	SystemPrompt string
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.App.LogLevel
	logCfg.Dir = cfg.App.LogDir
	base, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := base.WithFields(map[string]any{
		"run_id": runID,
		"kind":   cfg.Kind.String(),
	})

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.App.BrowserHeadless
	browser, err := rod.NewBrowserAdapter(ctx, browserCfg)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	llmCfg := openaicompat.DefaultConfig(cfg.App.APIKey, cfg.App.Model)
	llmCfg.BaseURL = cfg.App.BaseURL
	llmCfg.Logger = log
	llm := openaicompat.NewAdapter(llmCfg)

	counter := tokens.NewCounter(cfg.App.Model)
	shots := screenshot.NewFileStore(filepath.Join(cfg.App.LogDir, "screenshots"))

	tools := service.NewToolRegistry()
	tool.RegisterBrowserTools(tools, browser, shots, runID, log)

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = prompts.DefaultSystemPrompt
	}

	agent := executor.New(llm, tools, browser, log, systemPrompt,
		executor.Config{
			MaxSteps:       cfg.App.MaxSteps,
			MaxFailures:    cfg.App.MaxFailures,
			MaxInputTokens: counter.Budget(cfg.App.MaxInputTokens),
			RunID:          runID,
			Screenshots:    cfg.App.Screenshots,
		},
		executor.WithConversationSink(conversation.NewFileSink(cfg.App.ConversationPath)),
		executor.WithScreenshotStore(shots),
		executor.WithTokenCounter(counter),
		executor.WithProgress(progress.NewConsole()),
	)

	runner := taskrunner.New(agent, report.NewFileWriter(cfg.App.LogDir), log)

	return &Container{
		RunID:      runID,
		Browser:    browser,
		LLM:        llm,
		Logger:     log,
		Tools:      tools,
		Agent:      agent,
		TaskRunner: runner,
	}, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
