package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"
)

var _ output.ReportWriter = (*FileWriter)(nil)

const (
	TimestampLayout = "20060102150405"
	maxNameAttempts = 60
)

var ErrNoFreeName = errors.New("no free report file name")

// Section labels, in the order they appear in every report.
const (
	SectionURLs        = "Visited URLs:"
	SectionScreenshots = "Screenshot Paths:"
	SectionActions     = "Executed Actions:"
	SectionContent     = "Extracted Content:"
	SectionErrors      = "Errors:"
	SectionModel       = "Model Actions:"

	// SectionRun trails the six sections with the run summary line.
	SectionRun = "Run Summary:"
)

// FileWriter writes <dir>/<kind>_history_<YYYYMMDDHHMMSS>.txt. It never
// replaces an existing report: if the name for the current second is taken
// it moves on to the next second.
type FileWriter struct {
	dir string
	now func() time.Time
}

func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{dir: dir, now: time.Now}
}

func FileName(kind entity.TestKind, t time.Time) string {
	return fmt.Sprintf("%s_history_%s.txt", kind, t.Format(TimestampLayout))
}

func (w *FileWriter) Write(plan *entity.TestPlan, history *entity.RunHistory) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	body := Render(plan, history)
	ts := w.now()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		path := filepath.Join(w.dir, FileName(plan.Kind, ts))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			ts = ts.Add(time.Second)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report: %w", err)
		}
		if _, err := f.WriteString(body); err != nil {
			f.Close()
			return "", fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("%w in %s", ErrNoFreeName, w.dir)
}

// Render produces the report text. A nil history renders every section empty.
func Render(plan *entity.TestPlan, history *entity.RunHistory) string {
	if history == nil {
		history = &entity.RunHistory{}
	}

	var sb strings.Builder
	sb.WriteString(Describe(plan))
	sb.WriteString("\n")

	writeSection(&sb, SectionURLs, history.URLs())
	writeSection(&sb, SectionScreenshots, history.Screenshots())
	writeSection(&sb, SectionActions, history.ActionNames())
	writeSection(&sb, SectionContent, history.ExtractedContent())
	writeSection(&sb, SectionErrors, history.Errors())
	writeSection(&sb, SectionModel, modelActions(history.ModelActions()))

	fmt.Fprintf(&sb, "\n%s\nRun %s: %d steps, done: %t, success: %t, duration: %s\n",
		SectionRun, orNone(history.RunID), len(history.Steps), history.Done, history.Success,
		history.Duration().Round(time.Second))
	return sb.String()
}

// Describe is the one-line description of what was tested and where.
func Describe(plan *entity.TestPlan) string {
	desc := fmt.Sprintf("%s of %s", plan.Title, plan.TargetURL)
	if plan.Scenario != "" {
		desc += fmt.Sprintf(" (scenario: %s)", plan.Scenario)
	}
	return desc
}

func writeSection(sb *strings.Builder, label string, items []string) {
	sb.WriteString("\n")
	sb.WriteString(label)
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString("(none)\n")
		return
	}
	for _, item := range items {
		sb.WriteString("- ")
		// continuation lines are indented under the bullet
		sb.WriteString(strings.ReplaceAll(strings.TrimRight(item, "\n"), "\n", "\n  "))
		sb.WriteString("\n")
	}
}

func modelActions(actions []entity.ModelAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(a); err != nil {
			out = append(out, fmt.Sprintf("%v", a))
			continue
		}
		out = append(out, strings.TrimSuffix(buf.String(), "\n"))
	}
	return out
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
