package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"onboarding-audit/internal/application/port/input"
	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"

	"github.com/kaptinlin/jsonrepair"
)

var _ input.AgentExecutor = (*UseCase)(nil)

var ErrEmptyTask = errors.New("task is empty")

const (
	maxObservationLen  = 20000
	omittedObservation = "[observation omitted]"
)

// messageOverhead approximates the tokens the chat format adds per message.
const messageOverhead = 4

type Config struct {
	MaxSteps       int
	MaxFailures    int
	MaxInputTokens int
	RunID          string
	Screenshots    bool
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:    100,
		MaxFailures: 3,
		Screenshots: true,
	}
}

type Option func(*UseCase)

func WithConversationSink(sink output.ConversationSink) Option {
	return func(uc *UseCase) { uc.conversation = sink }
}

func WithScreenshotStore(store output.ScreenshotStore) Option {
	return func(uc *UseCase) { uc.screenshots = store }
}

func WithTokenCounter(counter output.TokenCounter) Option {
	return func(uc *UseCase) { uc.counter = counter }
}

func WithProgress(progress output.ProgressPort) Option {
	return func(uc *UseCase) { uc.progress = progress }
}

// UseCase is a tool-calling agent loop. Every outcome of a run, failures
// included, ends up in the returned RunHistory.
type UseCase struct {
	llm          output.LLMPort
	tools        output.ToolRegistry
	browser      output.BrowserPort
	logger       output.LoggerPort
	systemPrompt string
	cfg          Config

	conversation output.ConversationSink
	screenshots  output.ScreenshotStore
	counter      output.TokenCounter
	progress     output.ProgressPort

	now func() time.Time
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	browser output.BrowserPort,
	logger output.LoggerPort,
	systemPrompt string,
	cfg Config,
	opts ...Option,
) *UseCase {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultConfig().MaxSteps
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}
	uc := &UseCase{
		llm:          llm,
		tools:        tools,
		browser:      browser,
		logger:       logger,
		systemPrompt: systemPrompt,
		cfg:          cfg,
		progress:     nopProgress{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) Execute(ctx context.Context, task string) (*entity.RunHistory, error) {
	if strings.TrimSpace(task) == "" {
		return nil, ErrEmptyTask
	}

	history := entity.NewRunHistory(uc.cfg.RunID, task)
	history.StartedAt = uc.now()
	defer func() { history.FinishedAt = uc.now() }()

	conv := &transcript{}
	uc.push(conv, entity.Message{Role: entity.RoleSystem, Content: uc.systemPrompt})
	uc.push(conv, entity.Message{Role: entity.RoleUser, Content: task})
	toolDefs := uc.tools.Definitions()
	failures := 0

	for step := 1; step <= uc.cfg.MaxSteps; step++ {
		if ctx.Err() != nil {
			uc.interrupted(ctx, history)
			return history, nil
		}

		uc.logger.Debug("Starting step", "step", step)
		uc.progress.ShowStep(ctx, step, uc.cfg.MaxSteps)

		rec := entity.StepRecord{Number: step, StartedAt: uc.now()}
		uc.trim(conv)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    conv.messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			if ctx.Err() != nil {
				uc.interrupted(ctx, history)
				return history, nil
			}
			uc.logger.Error("LLM request failed", "step", step, "error", err)
			rec.Error = fmt.Sprintf("llm request failed: %v", err)
			rec.URL, rec.Title = uc.browser.CurrentURL(), uc.browser.CurrentTitle()
			rec.FinishedAt = uc.now()
			history.Steps = append(history.Steps, rec)

			failures++
			if uc.tooManyFailures(history, failures) {
				return history, nil
			}
			continue
		}

		reply := resp.Message
		uc.saveConversation(step, conv.messages, reply)
		uc.push(conv, reply)

		rec.Thought = reply.Content
		if reply.Content != "" {
			uc.progress.ShowThinking(ctx, reply.Content)
		}

		if len(reply.ToolCalls) == 0 {
			history.Done = true
			history.Success = true
			history.FinalResult = reply.Content
			uc.finishStep(ctx, history, &rec)
			return history, nil
		}

		failed := 0
		for _, tc := range reply.ToolCalls {
			tc.Arguments = uc.repairArguments(tc)
			action, seen := uc.executeTool(ctx, tc)
			rec.Actions = append(rec.Actions, action)
			if action.Error != "" {
				failed++
			}

			uc.push(conv, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    seen,
			})

			if tc.Name == entity.ToolDone && action.Error == "" {
				var args entity.DoneArgs
				_ = json.Unmarshal([]byte(tc.Arguments), &args)
				history.Done = true
				history.Success = args.Success
				history.FinalResult = args.Text
				break
			}
		}

		uc.finishStep(ctx, history, &rec)
		if history.Done {
			return history, nil
		}

		if failed == len(rec.Actions) {
			failures++
			if uc.tooManyFailures(history, failures) {
				return history, nil
			}
		} else {
			failures = 0
		}
	}

	msg := fmt.Sprintf("max steps (%d) reached without completion", uc.cfg.MaxSteps)
	uc.logger.Warn(msg)
	history.RunErrors = append(history.RunErrors, msg)
	return history, nil
}

func (uc *UseCase) tooManyFailures(history *entity.RunHistory, failures int) bool {
	if failures < uc.cfg.MaxFailures {
		return false
	}
	msg := fmt.Sprintf("stopped after %d consecutive failures", failures)
	uc.logger.Error(msg)
	history.RunErrors = append(history.RunErrors, msg)
	return true
}

func (uc *UseCase) interrupted(ctx context.Context, history *entity.RunHistory) {
	cause := context.Cause(ctx)
	uc.logger.Warn("Run interrupted", "cause", cause)
	history.RunErrors = append(history.RunErrors, fmt.Sprintf("run interrupted: %v", cause))
}

// finishStep records where the browser ended up and appends rec to history.
func (uc *UseCase) finishStep(ctx context.Context, history *entity.RunHistory, rec *entity.StepRecord) {
	rec.URL = uc.browser.CurrentURL()
	rec.Title = uc.browser.CurrentTitle()

	if uc.cfg.Screenshots && uc.screenshots != nil && ctx.Err() == nil {
		shot, err := uc.browser.Screenshot(ctx)
		if err != nil {
			uc.logger.Warn("Step screenshot failed", "step", rec.Number, "error", err)
		} else if path, err := uc.screenshots.Save(uc.cfg.RunID, fmt.Sprintf("step_%03d", rec.Number), shot); err != nil {
			uc.logger.Warn("Saving step screenshot failed", "step", rec.Number, "error", err)
		} else {
			rec.ScreenshotPath = path
		}
	}

	rec.FinishedAt = uc.now()
	history.Steps = append(history.Steps, *rec)
}

func (uc *UseCase) saveConversation(step int, messages []entity.Message, reply entity.Message) {
	if uc.conversation == nil {
		return
	}
	if _, err := uc.conversation.Save(step, messages, reply); err != nil {
		uc.logger.Warn("Saving conversation failed", "step", step, "error", err)
	}
}

func (uc *UseCase) executeTool(ctx context.Context, tc entity.ToolCall) (entity.ActionRecord, string) {
	action := entity.ActionRecord{
		Name:      tc.Name,
		Arguments: parseArguments(tc.Arguments),
	}

	t, ok := uc.tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		action.Error = fmt.Sprintf("unknown tool '%s'", tc.Name)
		uc.progress.ShowToolResult(ctx, tc.Name, action.Error, true)
		return action, "Error: " + action.Error
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)
	uc.progress.ShowToolStart(ctx, tc.Name, tc.Arguments)

	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		action.Error = err.Error()
		uc.progress.ShowToolResult(ctx, tc.Name, action.Error, true)
		return action, "Error: " + action.Error
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	uc.progress.ShowToolResult(ctx, tc.Name, result, false)
	action.Result = result
	return action, observation(result)
}

// repairArguments returns the call's arguments, fixed up with jsonrepair when
// the model produced almost-valid JSON. Anything it cannot turn into a JSON
// object is passed through so the tool reports the error.
func (uc *UseCase) repairArguments(tc entity.ToolCall) string {
	raw := tc.Arguments
	if strings.TrimSpace(raw) == "" || json.Valid([]byte(raw)) {
		return raw
	}
	fixed, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return raw
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(fixed), &obj); err != nil || obj == nil {
		return raw
	}
	uc.logger.Warn("Repaired tool arguments", "name", tc.Name, "raw", raw, "repaired", fixed)
	return fixed
}

// parseArguments decodes tool arguments for the history. Arguments that are
// not a JSON object are kept verbatim under "raw".
func parseArguments(raw string) map[string]any {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{"raw": raw}
	}
	return args
}

type nopProgress struct{}

func (nopProgress) ShowStep(context.Context, int, int)                   {}
func (nopProgress) ShowThinking(context.Context, string)                 {}
func (nopProgress) ShowToolStart(context.Context, string, string)        {}
func (nopProgress) ShowToolResult(context.Context, string, string, bool) {}
