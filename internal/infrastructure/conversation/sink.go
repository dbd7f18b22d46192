package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"
)

var _ output.ConversationSink = (*FileSink)(nil)

// FileSink writes one text file per agent step, named <prefix>_<step>.txt.
type FileSink struct {
	prefix string
}

func NewFileSink(prefix string) *FileSink {
	return &FileSink{prefix: prefix}
}

func (s *FileSink) Path(step int) string {
	return fmt.Sprintf("%s_%d.txt", s.prefix, step)
}

func (s *FileSink) Save(step int, messages []entity.Message, reply entity.Message) (string, error) {
	path := s.Path(step)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create conversation dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Format(messages, reply)), 0o644); err != nil {
		return "", fmt.Errorf("write conversation: %w", err)
	}
	return path, nil
}

// Format renders the prompt messages followed by the model reply.
func Format(messages []entity.Message, reply entity.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		writeMessage(&sb, header(m), m)
	}
	writeMessage(&sb, "RESPONSE", reply)
	return sb.String()
}

func header(m entity.Message) string {
	if m.Role == entity.RoleTool {
		return fmt.Sprintf("%s (%s, %s)", m.Role, m.Name, m.ToolCallID)
	}
	return string(m.Role)
}

func writeMessage(sb *strings.Builder, title string, m entity.Message) {
	fmt.Fprintf(sb, " %s \n", title)
	if m.Content != "" {
		sb.WriteString(m.Content)
		sb.WriteString("\n")
	}
	for _, tc := range m.ToolCalls {
		call, _ := json.Marshal(map[string]string{
			"id":        tc.ID,
			"name":      tc.Name,
			"arguments": tc.Arguments,
		})
		sb.Write(call)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
