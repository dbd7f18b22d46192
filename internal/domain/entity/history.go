package entity

import (
	"fmt"
	"time"
)

// ActionRecord is one tool call issued by the model and what came of it.
type ActionRecord struct {
	Name      ToolName
	Arguments map[string]any
	Result    string
	Error     string
}

// StepRecord is one model response together with the actions it issued and
// the browser state observed once those actions ran.
type StepRecord struct {
	Number         int
	URL            string
	Title          string
	ScreenshotPath string
	Thought        string
	Actions        []ActionRecord
	Error          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// ModelAction is an action as the model requested it: name mapped to arguments.
type ModelAction map[string]map[string]any

// RunHistory summarizes one agent execution. The agent owns it while running;
// once returned it is treated as read-only.
type RunHistory struct {
	RunID       string
	Task        string
	Steps       []StepRecord
	FinalResult string
	Done        bool
	Success     bool
	StartedAt   time.Time
	FinishedAt  time.Time
	// RunErrors holds failures that belong to no single step, such as
	// cancellation or exhausting the step budget.
	RunErrors []string
}

func NewRunHistory(runID, task string) *RunHistory {
	return &RunHistory{
		RunID:     runID,
		Task:      task,
		StartedAt: time.Now(),
	}
}

func (h *RunHistory) URLs() []string {
	urls := make([]string, 0, len(h.Steps))
	for _, s := range h.Steps {
		urls = append(urls, s.URL)
	}
	return urls
}

func (h *RunHistory) Screenshots() []string {
	var paths []string
	for _, s := range h.Steps {
		if s.ScreenshotPath != "" {
			paths = append(paths, s.ScreenshotPath)
		}
	}
	return paths
}

func (h *RunHistory) ActionNames() []string {
	var names []string
	for _, s := range h.Steps {
		for _, a := range s.Actions {
			names = append(names, a.Name)
		}
	}
	return names
}

func (h *RunHistory) ExtractedContent() []string {
	var content []string
	for _, s := range h.Steps {
		for _, a := range s.Actions {
			if a.Result != "" {
				content = append(content, a.Result)
			}
		}
	}
	if h.FinalResult != "" && !h.finalResultRecorded() {
		content = append(content, h.FinalResult)
	}
	return content
}

// finalResultRecorded reports whether the final result already came in as the
// result of a done action.
func (h *RunHistory) finalResultRecorded() bool {
	if len(h.Steps) == 0 {
		return false
	}
	last := h.Steps[len(h.Steps)-1]
	for _, a := range last.Actions {
		if a.Name == ToolDone && a.Result == h.FinalResult {
			return true
		}
	}
	return false
}

func (h *RunHistory) Errors() []string {
	var errs []string
	for _, s := range h.Steps {
		if s.Error != "" {
			errs = append(errs, fmt.Sprintf("step %d: %s", s.Number, s.Error))
		}
		for _, a := range s.Actions {
			if a.Error != "" {
				errs = append(errs, fmt.Sprintf("step %d: %s: %s", s.Number, a.Name, a.Error))
			}
		}
	}
	errs = append(errs, h.RunErrors...)
	return errs
}

func (h *RunHistory) ModelActions() []ModelAction {
	var actions []ModelAction
	for _, s := range h.Steps {
		for _, a := range s.Actions {
			args := a.Arguments
			if args == nil {
				args = map[string]any{}
			}
			actions = append(actions, ModelAction{a.Name: args})
		}
	}
	return actions
}

func (h *RunHistory) Duration() time.Duration {
	if h.FinishedAt.IsZero() {
		return 0
	}
	return h.FinishedAt.Sub(h.StartedAt)
}
