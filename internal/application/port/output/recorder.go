package output

import "onboarding-audit/internal/domain/entity"

// ConversationSink persists the messages sent to the model at one step and
// the reply it produced.
type ConversationSink interface {
	Save(step int, messages []entity.Message, reply entity.Message) (string, error)
}

// ScreenshotStore persists a screenshot under the run's directory and returns
// the path it was written to. name carries no extension.
type ScreenshotStore interface {
	Save(runID, name string, shot *entity.Screenshot) (string, error)
}

// ReportWriter persists the run history of one plan as a report file.
type ReportWriter interface {
	Write(plan *entity.TestPlan, history *entity.RunHistory) (string, error)
}
