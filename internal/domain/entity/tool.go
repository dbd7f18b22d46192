package entity

type ToolName = string

const (
	ToolNavigate          ToolName = "navigate"
	ToolClick             ToolName = "click"
	ToolFill              ToolName = "fill"
	ToolPressEnter        ToolName = "press_enter"
	ToolScroll            ToolName = "scroll"
	ToolExtractText       ToolName = "extract_text"
	ToolExtractHTML       ToolName = "extract_html"
	ToolUISummary         ToolName = "ui_summary"
	ToolAccessibilityTree ToolName = "accessibility_tree"
	ToolSetViewport       ToolName = "set_viewport"
	ToolScreenshot        ToolName = "screenshot"
	ToolDone              ToolName = "done"
)

// DoneArgs are the arguments the model passes to the done tool.
type DoneArgs struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
}
