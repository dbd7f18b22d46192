package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"
)

var ErrMissingArgument = errors.New("missing required argument")

// decodeArgs unmarshals the model's JSON arguments. Models sometimes send an
// empty string for tools without parameters.
func decodeArgs(args string, v any) error {
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func noParams() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

type NavigateTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewNavigateTool(browser output.BrowserPort, logger output.LoggerPort) *NavigateTool {
	return &NavigateTool{browser: browser, logger: logger}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolNavigate }
func (t *NavigateTool) Description() string {
	return "Navigate the browser to a URL. Only http and https URLs are allowed. Returns the final URL and page title after navigation (may differ from the requested URL due to redirects). Use this first when starting the test."
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL to open",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.URL == "" {
		return "", fmt.Errorf("%w: url", ErrMissingArgument)
	}
	if err := t.browser.Navigate(ctx, input.URL); err != nil {
		return "", err
	}
	t.logger.Debug("navigated", "url", t.browser.CurrentURL())
	return fmt.Sprintf("Navigated to %s (title: %q)", t.browser.CurrentURL(), t.browser.CurrentTitle()), nil
}

type ClickTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewClickTool(browser output.BrowserPort, logger output.LoggerPort) *ClickTool {
	return &ClickTool{browser: browser, logger: logger}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolClick }
func (t *ClickTool) Description() string {
	return "Click a page element. Accepts a CSS or XPath selector; prefer the selectors returned by ui_summary. The element is scrolled into view before clicking."
}
func (t *ClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS or XPath selector of the element to click",
			},
		},
		"required": []string{"selector"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Selector string `json:"selector"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.Selector == "" {
		return "", fmt.Errorf("%w: selector", ErrMissingArgument)
	}
	if err := t.browser.Click(ctx, input.Selector); err != nil {
		return "", err
	}
	return fmt.Sprintf("Clicked %s; now at %s", input.Selector, t.browser.CurrentURL()), nil
}

type FillTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewFillTool(browser output.BrowserPort, logger output.LoggerPort) *FillTool {
	return &FillTool{browser: browser, logger: logger}
}

func (t *FillTool) Name() entity.ToolName { return entity.ToolFill }
func (t *FillTool) Description() string {
	return "Replace the value of an input or textarea with the given text. Use the selectors returned by ui_summary."
}
func (t *FillTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS or XPath selector of the field",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type into the field",
			},
		},
		"required": []string{"selector", "text"},
	}
}

func (t *FillTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Selector string `json:"selector"`
		Text     string `json:"text"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.Selector == "" {
		return "", fmt.Errorf("%w: selector", ErrMissingArgument)
	}
	if err := t.browser.Fill(ctx, input.Selector, input.Text); err != nil {
		return "", err
	}
	return fmt.Sprintf("Filled '%s' with text", input.Selector), nil
}

type PressEnterTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewPressEnterTool(browser output.BrowserPort, logger output.LoggerPort) *PressEnterTool {
	return &PressEnterTool{browser: browser, logger: logger}
}

func (t *PressEnterTool) Name() entity.ToolName { return entity.ToolPressEnter }
func (t *PressEnterTool) Description() string {
	return "Press the Enter key in the focused element"
}
func (t *PressEnterTool) Parameters() map[string]interface{} { return noParams() }

func (t *PressEnterTool) Execute(ctx context.Context, args string) (string, error) {
	if err := t.browser.PressEnter(ctx); err != nil {
		return "", err
	}
	return "Enter pressed", nil
}

type ScrollTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewScrollTool(browser output.BrowserPort, logger output.LoggerPort) *ScrollTool {
	return &ScrollTool{browser: browser, logger: logger}
}

func (t *ScrollTool) Name() entity.ToolName { return entity.ToolScroll }
func (t *ScrollTool) Description() string   { return "Scroll the page by one screen or to its top or bottom" }
func (t *ScrollTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"up", "down", "top", "bottom"},
				"description": "Scroll direction",
			},
		},
		"required": []string{"direction"},
	}
}

func (t *ScrollTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Direction string `json:"direction"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	if input.Direction == "" {
		return "", fmt.Errorf("%w: direction", ErrMissingArgument)
	}
	if err := t.browser.Scroll(ctx, input.Direction); err != nil {
		return "", err
	}
	return fmt.Sprintf("Scrolled %s", input.Direction), nil
}

type ExtractTextTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewExtractTextTool(browser output.BrowserPort, logger output.LoggerPort) *ExtractTextTool {
	return &ExtractTextTool{browser: browser, logger: logger}
}

func (t *ExtractTextTool) Name() entity.ToolName { return entity.ToolExtractText }
func (t *ExtractTextTool) Description() string {
	return "Return the visible text of the current page. Use it to read headings, labels, help text and error messages."
}
func (t *ExtractTextTool) Parameters() map[string]interface{} { return noParams() }

func (t *ExtractTextTool) Execute(ctx context.Context, args string) (string, error) {
	text, err := t.browser.GetPageText(ctx)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "(page has no visible text)", nil
	}
	return text, nil
}

type ExtractHTMLTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewExtractHTMLTool(browser output.BrowserPort, logger output.LoggerPort) *ExtractHTMLTool {
	return &ExtractHTMLTool{browser: browser, logger: logger}
}

func (t *ExtractHTMLTool) Name() entity.ToolName { return entity.ToolExtractHTML }
func (t *ExtractHTMLTool) Description() string {
	return "Return the cleaned HTML of the page body (scripts, styles and presentational attributes removed, ARIA attributes kept). Use it to inspect labels, form structure and markup semantics."
}
func (t *ExtractHTMLTool) Parameters() map[string]interface{} { return noParams() }

func (t *ExtractHTMLTool) Execute(ctx context.Context, args string) (string, error) {
	content, err := t.browser.GetPageContent(ctx)
	if err != nil {
		return "", err
	}
	return content.HTML, nil
}

type UISummaryTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewUISummaryTool(browser output.BrowserPort, logger output.LoggerPort) *UISummaryTool {
	return &UISummaryTool{browser: browser, logger: logger}
}

func (t *UISummaryTool) Name() entity.ToolName { return entity.ToolUISummary }
func (t *UISummaryTool) Description() string {
	return "List the visible interactive elements (links, buttons, inputs, selects) with a stable selector for each. Call it after every navigation before clicking or filling."
}
func (t *UISummaryTool) Parameters() map[string]interface{} { return noParams() }

func (t *UISummaryTool) Execute(ctx context.Context, args string) (string, error) {
	elements, err := t.browser.GetUIElements(ctx)
	if err != nil {
		return "", err
	}
	if len(elements) == 0 {
		return "No interactive elements found", nil
	}
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type AccessibilityTreeTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewAccessibilityTreeTool(browser output.BrowserPort, logger output.LoggerPort) *AccessibilityTreeTool {
	return &AccessibilityTreeTool{browser: browser, logger: logger}
}

func (t *AccessibilityTreeTool) Name() entity.ToolName { return entity.ToolAccessibilityTree }
func (t *AccessibilityTreeTool) Description() string {
	return "Return the browser's accessibility tree for the page as a flat list of nodes with role, accessible name, description, value and depth. Ignored nodes are omitted."
}
func (t *AccessibilityTreeTool) Parameters() map[string]interface{} { return noParams() }

func (t *AccessibilityTreeTool) Execute(ctx context.Context, args string) (string, error) {
	nodes, err := t.browser.GetAccessibilityTree(ctx)
	if err != nil {
		return "", err
	}
	visible := make([]entity.AXNode, 0, len(nodes))
	for _, n := range nodes {
		if !n.Ignored {
			visible = append(visible, n)
		}
	}
	data, err := json.Marshal(visible)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type SetViewportTool struct {
	browser output.BrowserPort
	logger  output.LoggerPort
}

func NewSetViewportTool(browser output.BrowserPort, logger output.LoggerPort) *SetViewportTool {
	return &SetViewportTool{browser: browser, logger: logger}
}

func (t *SetViewportTool) Name() entity.ToolName { return entity.ToolSetViewport }
func (t *SetViewportTool) Description() string {
	return "Emulate a device viewport. Use it to check layouts at mobile, tablet and desktop widths."
}
func (t *SetViewportTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"width": map[string]interface{}{
				"type":        "integer",
				"description": "Viewport width in CSS pixels",
			},
			"height": map[string]interface{}{
				"type":        "integer",
				"description": "Viewport height in CSS pixels",
			},
			"mobile": map[string]interface{}{
				"type":        "boolean",
				"description": "Emulate a mobile device (touch, meta viewport)",
				"default":     false,
			},
		},
		"required": []string{"width", "height"},
	}
}

func (t *SetViewportTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Width  int  `json:"width"`
		Height int  `json:"height"`
		Mobile bool `json:"mobile"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	vp := entity.Viewport{Width: input.Width, Height: input.Height, Mobile: input.Mobile}
	if err := t.browser.SetViewport(ctx, vp); err != nil {
		return "", err
	}
	kind := "desktop"
	if vp.Mobile {
		kind = "mobile"
	}
	return fmt.Sprintf("Viewport set to %dx%d (%s)", vp.Width, vp.Height, kind), nil
}

// ScreenshotTool saves an on-demand screenshot next to the per-step ones and
// hands the model the file path rather than the image.
type ScreenshotTool struct {
	browser output.BrowserPort
	store   output.ScreenshotStore
	runID   string
	logger  output.LoggerPort

	mu    sync.Mutex
	count int
}

func NewScreenshotTool(browser output.BrowserPort, store output.ScreenshotStore, runID string, logger output.LoggerPort) *ScreenshotTool {
	return &ScreenshotTool{browser: browser, store: store, runID: runID, logger: logger}
}

func (t *ScreenshotTool) Name() entity.ToolName { return entity.ToolScreenshot }
func (t *ScreenshotTool) Description() string {
	return "Save a screenshot of the current viewport as evidence for a finding. Returns the file path; cite it in your report."
}
func (t *ScreenshotTool) Parameters() map[string]interface{} { return noParams() }

func (t *ScreenshotTool) Execute(ctx context.Context, args string) (string, error) {
	shot, err := t.browser.Screenshot(ctx)
	if err != nil {
		return "", err
	}

	t.mu.Lock()
	t.count++
	name := fmt.Sprintf("manual_%03d", t.count)
	t.mu.Unlock()

	path, err := t.store.Save(t.runID, name, shot)
	if err != nil {
		return "", err
	}
	t.logger.Debug("screenshot saved", "path", path, "bytes", len(shot.Data))
	return fmt.Sprintf("Screenshot saved to %s (%dx%d, %d KB)", path, shot.Width, shot.Height, len(shot.Data)/1024), nil
}

// DoneTool is how the model ends the run. The executor recognises it by name
// and takes its text as the final result; Execute only validates arguments.
type DoneTool struct{}

func NewDoneTool() *DoneTool { return &DoneTool{} }

func (t *DoneTool) Name() entity.ToolName { return entity.ToolDone }
func (t *DoneTool) Description() string {
	return "Finish the test. Put the complete final report in text. Set success to false if the test could not be completed."
}
func (t *DoneTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Final report",
			},
			"success": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the test plan was carried out",
			},
		},
		"required": []string{"text", "success"},
	}
}

func (t *DoneTool) Execute(ctx context.Context, args string) (string, error) {
	var input entity.DoneArgs
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	return input.Text, nil
}

// RegisterBrowserTools adds every tool the agent may call to registry, in the
// order the model sees them.
func RegisterBrowserTools(registry output.ToolRegistry, browser output.BrowserPort, store output.ScreenshotStore, runID string, logger output.LoggerPort) {
	registry.Register(NewNavigateTool(browser, logger))
	registry.Register(NewUISummaryTool(browser, logger))
	registry.Register(NewClickTool(browser, logger))
	registry.Register(NewFillTool(browser, logger))
	registry.Register(NewPressEnterTool(browser, logger))
	registry.Register(NewScrollTool(browser, logger))
	registry.Register(NewExtractTextTool(browser, logger))
	registry.Register(NewExtractHTMLTool(browser, logger))
	registry.Register(NewAccessibilityTreeTool(browser, logger))
	registry.Register(NewSetViewportTool(browser, logger))
	registry.Register(NewScreenshotTool(browser, store, runID, logger))
	registry.Register(NewDoneTool())
}
