package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"onboarding-audit/internal/application/service"
	"onboarding-audit/internal/domain/entity"
	"onboarding-audit/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrowser struct {
	url   string
	title string
	err   error

	navigated []string
	clicked   []string
	filled    map[string]string
	scrolled  []string
	viewport  entity.Viewport
	enters    int

	text     string
	content  *entity.PageContent
	elements []entity.UIElement
	axNodes  []entity.AXNode
	shot     *entity.Screenshot
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{url: "about:blank", filled: map[string]string{}}
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	if b.err != nil {
		return b.err
	}
	b.navigated = append(b.navigated, url)
	b.url = url
	b.title = "Onboarding"
	return nil
}

func (b *fakeBrowser) Click(ctx context.Context, selector string) error {
	if b.err != nil {
		return b.err
	}
	b.clicked = append(b.clicked, selector)
	return nil
}

func (b *fakeBrowser) Fill(ctx context.Context, selector, text string) error {
	if b.err != nil {
		return b.err
	}
	b.filled[selector] = text
	return nil
}

func (b *fakeBrowser) PressEnter(ctx context.Context) error {
	b.enters++
	return b.err
}

func (b *fakeBrowser) Scroll(ctx context.Context, direction string) error {
	if b.err != nil {
		return b.err
	}
	b.scrolled = append(b.scrolled, direction)
	return nil
}

func (b *fakeBrowser) SetViewport(ctx context.Context, vp entity.Viewport) error {
	if b.err != nil {
		return b.err
	}
	b.viewport = vp
	return nil
}

func (b *fakeBrowser) GetPageContent(ctx context.Context) (*entity.PageContent, error) {
	return b.content, b.err
}

func (b *fakeBrowser) GetPageText(ctx context.Context) (string, error) {
	return b.text, b.err
}

func (b *fakeBrowser) GetUIElements(ctx context.Context) ([]entity.UIElement, error) {
	return b.elements, b.err
}

func (b *fakeBrowser) GetAccessibilityTree(ctx context.Context) ([]entity.AXNode, error) {
	return b.axNodes, b.err
}

func (b *fakeBrowser) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return b.shot, b.err
}

func (b *fakeBrowser) CurrentURL() string   { return b.url }
func (b *fakeBrowser) CurrentTitle() string { return b.title }
func (b *fakeBrowser) Close()               {}

type fakeStore struct {
	saved []string
	err   error
}

func (s *fakeStore) Save(runID, name string, shot *entity.Screenshot) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	path := "logs/screenshots/" + runID + "/" + name + ".jpg"
	s.saved = append(s.saved, path)
	return path, nil
}

func TestNavigateTool(t *testing.T) {
	b := newFakeBrowser()
	tool := NewNavigateTool(b, logger.NewNop())

	out, err := tool.Execute(context.Background(), `{"url":"https://example.com/onboarding"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/onboarding"}, b.navigated)
	assert.Contains(t, out, "https://example.com/onboarding")
	assert.Contains(t, out, "Onboarding")
}

func TestNavigateTool_MissingURL(t *testing.T) {
	tool := NewNavigateTool(newFakeBrowser(), logger.NewNop())

	_, err := tool.Execute(context.Background(), `{}`)
	assert.ErrorIs(t, err, ErrMissingArgument)
}

func TestTools_MalformedArguments(t *testing.T) {
	b := newFakeBrowser()
	log := logger.NewNop()

	for _, tl := range []interface {
		Execute(context.Context, string) (string, error)
	}{
		NewNavigateTool(b, log),
		NewClickTool(b, log),
		NewFillTool(b, log),
		NewScrollTool(b, log),
		NewSetViewportTool(b, log),
		NewDoneTool(),
	} {
		_, err := tl.Execute(context.Background(), `{not json`)
		assert.Error(t, err)
	}
	assert.Empty(t, b.navigated)
	assert.Empty(t, b.clicked)
}

func TestClickAndFillTools(t *testing.T) {
	b := newFakeBrowser()
	log := logger.NewNop()

	_, err := NewFillTool(b, log).Execute(context.Background(), `{"selector":"#email","text":"monica@example.com"}`)
	require.NoError(t, err)
	_, err = NewClickTool(b, log).Execute(context.Background(), `{"selector":"[data-agent-id=\"ui-0003\"]"}`)
	require.NoError(t, err)

	assert.Equal(t, "monica@example.com", b.filled["#email"])
	assert.Equal(t, []string{`[data-agent-id="ui-0003"]`}, b.clicked)
}

func TestClickTool_BrowserError(t *testing.T) {
	b := newFakeBrowser()
	b.err = errors.New("element not found")

	_, err := NewClickTool(b, logger.NewNop()).Execute(context.Background(), `{"selector":"#missing"}`)
	assert.EqualError(t, err, "element not found")
}

func TestPressEnterTool_EmptyArguments(t *testing.T) {
	b := newFakeBrowser()

	out, err := NewPressEnterTool(b, logger.NewNop()).Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Enter pressed", out)
	assert.Equal(t, 1, b.enters)
}

func TestScrollTool(t *testing.T) {
	b := newFakeBrowser()

	out, err := NewScrollTool(b, logger.NewNop()).Execute(context.Background(), `{"direction":"down"}`)
	require.NoError(t, err)
	assert.Equal(t, "Scrolled down", out)
	assert.Equal(t, []string{"down"}, b.scrolled)
}

func TestExtractTextTool(t *testing.T) {
	b := newFakeBrowser()
	tool := NewExtractTextTool(b, logger.NewNop())

	out, err := tool.Execute(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, "(page has no visible text)", out)

	b.text = "Tell us about your business"
	out, err = tool.Execute(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, "Tell us about your business", out)
}

func TestExtractHTMLTool(t *testing.T) {
	b := newFakeBrowser()
	b.content = &entity.PageContent{HTML: `<body><label for="ein">EIN</label><input id="ein"></body>`}

	out, err := NewExtractHTMLTool(b, logger.NewNop()).Execute(context.Background(), "{}")
	require.NoError(t, err)
	assert.Contains(t, out, `<label for="ein">`)
}

func TestUISummaryTool(t *testing.T) {
	b := newFakeBrowser()
	tool := NewUISummaryTool(b, logger.NewNop())

	out, err := tool.Execute(context.Background(), "{}")
	require.NoError(t, err)
	assert.Equal(t, "No interactive elements found", out)

	b.elements = []entity.UIElement{{ID: "ui-0001", Type: "button", Text: "Continue", Selector: `[data-agent-id="ui-0001"]`}}
	out, err = tool.Execute(context.Background(), "{}")
	require.NoError(t, err)

	var decoded []entity.UIElement
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, b.elements, decoded)
}

func TestAccessibilityTreeTool_SkipsIgnoredNodes(t *testing.T) {
	b := newFakeBrowser()
	b.axNodes = []entity.AXNode{
		{Role: "RootWebArea", Name: "Onboarding"},
		{Role: "generic", Ignored: true, Depth: 1},
		{Role: "button", Name: "Continue", Depth: 1},
	}

	out, err := NewAccessibilityTreeTool(b, logger.NewNop()).Execute(context.Background(), "{}")
	require.NoError(t, err)

	var decoded []entity.AXNode
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "button", decoded[1].Role)
}

func TestSetViewportTool(t *testing.T) {
	b := newFakeBrowser()

	out, err := NewSetViewportTool(b, logger.NewNop()).Execute(context.Background(), `{"width":375,"height":667,"mobile":true}`)
	require.NoError(t, err)
	assert.Equal(t, entity.Viewport{Width: 375, Height: 667, Mobile: true}, b.viewport)
	assert.Equal(t, "Viewport set to 375x667 (mobile)", out)
}

func TestScreenshotTool(t *testing.T) {
	b := newFakeBrowser()
	b.shot = &entity.Screenshot{Data: make([]byte, 4096), Format: "jpeg", Width: 1024, Height: 768}
	store := &fakeStore{}
	tool := NewScreenshotTool(b, store, "run-1", logger.NewNop())

	out, err := tool.Execute(context.Background(), "{}")
	require.NoError(t, err)
	_, err = tool.Execute(context.Background(), "{}")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"logs/screenshots/run-1/manual_001.jpg",
		"logs/screenshots/run-1/manual_002.jpg",
	}, store.saved)
	assert.Equal(t, "Screenshot saved to logs/screenshots/run-1/manual_001.jpg (1024x768, 4 KB)", out)
}

func TestScreenshotTool_StoreError(t *testing.T) {
	b := newFakeBrowser()
	b.shot = &entity.Screenshot{Data: []byte{1}}
	store := &fakeStore{err: errors.New("disk full")}

	_, err := NewScreenshotTool(b, store, "run-1", logger.NewNop()).Execute(context.Background(), "{}")
	assert.EqualError(t, err, "disk full")
}

func TestDoneTool(t *testing.T) {
	out, err := NewDoneTool().Execute(context.Background(), `{"text":"All steps passed","success":true}`)
	require.NoError(t, err)
	assert.Equal(t, "All steps passed", out)
}

func TestRegisterBrowserTools(t *testing.T) {
	registry := service.NewToolRegistry()
	RegisterBrowserTools(registry, newFakeBrowser(), &fakeStore{}, "run-1", logger.NewNop())

	var names []string
	for _, def := range registry.Definitions() {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Description, def.Name)
		assert.Equal(t, "object", def.Parameters["type"], def.Name)
	}
	assert.Equal(t, []string{
		entity.ToolNavigate, entity.ToolUISummary, entity.ToolClick, entity.ToolFill,
		entity.ToolPressEnter, entity.ToolScroll, entity.ToolExtractText, entity.ToolExtractHTML,
		entity.ToolAccessibilityTree, entity.ToolSetViewport, entity.ToolScreenshot, entity.ToolDone,
	}, names)
}
