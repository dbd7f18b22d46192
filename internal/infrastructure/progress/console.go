package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*Console)(nil)

// Console prints live agent progress for whoever is watching the run.
type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

func NewConsoleWriter(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) ShowStep(ctx context.Context, step, maxSteps int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(c.out, "\n━━━ Step %d/%d ━━━\n", step, maxSteps)
}

func (c *Console) ShowThinking(ctx context.Context, content string) {
	if content == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(c.out, "\n💭 Thinking: ")

	dim := color.New(color.Faint)
	dim.Fprintln(c.out, truncate(content, 500))
}

func (c *Console) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := toolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(c.out, "\n%s %s\n", icon, name)

	if summary := formatArguments(toolName, arguments); summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(c.out, "   %s\n", summary)
	}
}

func (c *Console) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(c.out, "❌ Error: ")

		dim := color.New(color.Faint)
		dim.Fprintln(c.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ %s\n", formatResult(toolName, result))
}

func toolDisplay(toolName string) (string, string) {
	displays := map[string][2]string{
		entity.ToolNavigate:          {"🌐", "Navigate"},
		entity.ToolClick:             {"🖱️", "Click"},
		entity.ToolFill:              {"✏️", "Fill"},
		entity.ToolPressEnter:        {"⏎", "Enter"},
		entity.ToolScroll:            {"📜", "Scroll"},
		entity.ToolExtractText:       {"📄", "Read text"},
		entity.ToolExtractHTML:       {"🧾", "Read markup"},
		entity.ToolUISummary:         {"🔍", "UI summary"},
		entity.ToolAccessibilityTree: {"♿", "Accessibility tree"},
		entity.ToolSetViewport:       {"📱", "Viewport"},
		entity.ToolScreenshot:        {"📸", "Screenshot"},
		entity.ToolDone:              {"🏁", "Done"},
	}

	if display, ok := displays[toolName]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch toolName {
	case entity.ToolNavigate:
		if url, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", url)
		}

	case entity.ToolClick:
		if selector, ok := args["selector"].(string); ok {
			return fmt.Sprintf("Selector: %s", truncate(selector, 60))
		}

	case entity.ToolFill:
		selector, _ := args["selector"].(string)
		text, _ := args["text"].(string)
		if selector != "" {
			return fmt.Sprintf("Field: %s → %s", truncate(selector, 40), truncate(text, 30))
		}

	case entity.ToolScroll:
		if direction, ok := args["direction"].(string); ok {
			directions := map[string]string{
				"up":     "⬆️ Up",
				"down":   "⬇️ Down",
				"top":    "⬆️ To top",
				"bottom": "⬇️ To bottom",
			}
			if display, ok := directions[direction]; ok {
				return display
			}
			return direction
		}

	case entity.ToolSetViewport:
		width, _ := args["width"].(float64)
		height, _ := args["height"].(float64)
		return fmt.Sprintf("%dx%d", int(width), int(height))

	case entity.ToolDone:
		if success, ok := args["success"].(bool); ok && !success {
			return "finished without success"
		}
	}

	return ""
}

func formatResult(toolName, result string) string {
	switch toolName {
	case entity.ToolNavigate, entity.ToolScroll, entity.ToolSetViewport, entity.ToolScreenshot:
		return result

	case entity.ToolExtractText, entity.ToolExtractHTML, entity.ToolAccessibilityTree:
		return fmt.Sprintf("%d characters read", len(result))

	case entity.ToolUISummary:
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(result), &elements); err == nil {
			return fmt.Sprintf("%d interactive elements", len(elements))
		}
		return result

	case entity.ToolDone:
		return "Report submitted"
	}

	return truncate(strings.TrimSpace(result), 100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	for maxLen > 0 && !utf8.RuneStart(s[maxLen]) {
		maxLen--
	}
	return s[:maxLen] + "..."
}
