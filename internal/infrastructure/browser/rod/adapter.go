package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

var (
	ErrInvalidURL             = errors.New("invalid url")
	ErrInvalidSelector        = errors.New("invalid selector")
	ErrInvalidScrollDirection = errors.New("invalid scroll direction")
	ErrInvalidViewport        = errors.New("invalid viewport")
	ErrBrowserClosed          = errors.New("browser is closed")
)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 500 * time.Millisecond
	maxUIElements     = 500
	maxScreenshotW    = 1024
	agentIDAttr       = "data-agent-id"
)

type BrowserAdapter struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	Viewport   *entity.Viewport
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	b := &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}

	if cfg.Viewport != nil {
		if err := b.SetViewport(ctx, *cfg.Viewport); err != nil {
			b.Close()
			return nil, err
		}
	}

	return b, nil
}

// IsReady reports whether the adapter still owns a live page.
func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) livePage(ctx context.Context) (*rod.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.page == nil {
		return nil, ErrBrowserClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return b.page.Context(ctx), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}

	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Timeout(3 * b.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	_ = page.WaitIdle(5 * time.Second)
	return nil
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}
	el, err := b.find(page, selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}

	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view failed: %w", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	_ = page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}
	el, err := b.find(page, selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}

	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) PressEnter(ctx context.Context) error {
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}
	if err := page.Keyboard.Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	_ = page.WaitIdle(1 * time.Second)
	return nil
}

func (b *BrowserAdapter) Scroll(ctx context.Context, direction string) error {
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}

	var js string
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "down":
		js = `() => window.scrollBy(0, window.innerHeight * 0.8)`
	case "up":
		js = `() => window.scrollBy(0, -window.innerHeight * 0.8)`
	case "top":
		js = `() => window.scrollTo(0, 0)`
	case "bottom":
		js = `() => window.scrollTo(0, document.body.scrollHeight)`
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScrollDirection, direction)
	}

	if _, err := page.Eval(js); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	_ = page.WaitIdle(800 * time.Millisecond)
	return nil
}

func (b *BrowserAdapter) SetViewport(ctx context.Context, vp entity.Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 || vp.Width > 7680 || vp.Height > 7680 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, vp.Width, vp.Height)
	}
	page, err := b.livePage(ctx)
	if err != nil {
		return err
	}
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
		Mobile:            vp.Mobile,
	})
	if err != nil {
		return fmt.Errorf("set viewport failed: %w", err)
	}
	_ = page.WaitIdle(1 * time.Second)
	return nil
}

// GetPageContent returns the body markup passed through CleanHTML along with
// the interactive elements found on the page.
func (b *BrowserAdapter) GetPageContent(ctx context.Context) (*entity.PageContent, error) {
	page, err := b.livePage(ctx)
	if err != nil {
		return nil, err
	}
	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("page info failed: %w", err)
	}

	body, err := page.Timeout(b.timeout).Element("body")
	if err != nil {
		return nil, fmt.Errorf("body not found: %w", err)
	}
	html, err := body.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get HTML: %w", err)
	}

	elements, err := b.GetUIElements(ctx)
	if err != nil {
		elements = nil
	}

	return &entity.PageContent{
		URL:        info.URL,
		Title:      info.Title,
		HTML:       CleanHTML(html, nil),
		UIElements: elements,
	}, nil
}

func (b *BrowserAdapter) GetPageText(ctx context.Context) (string, error) {
	page, err := b.livePage(ctx)
	if err != nil {
		return "", err
	}
	body, err := page.Timeout(b.timeout).Element("body")
	if err != nil {
		return "", fmt.Errorf("body not found: %w", err)
	}
	text, err := body.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// GetUIElements lists visible interactive elements. Each one is tagged with a
// data attribute so the returned selector stays valid until the page changes.
func (b *BrowserAdapter) GetUIElements(ctx context.Context) ([]entity.UIElement, error) {
	page, err := b.livePage(ctx)
	if err != nil {
		return nil, err
	}

	var result []entity.UIElement
	seen := make(map[proto.DOMBackendNodeID]bool)

	add := func(el *rod.Element, typ string) {
		if len(result) >= maxUIElements {
			return
		}
		visible, err := el.Visible()
		if err != nil || !visible {
			return
		}
		desc, err := el.Describe(0, false)
		if err != nil || seen[desc.BackendNodeID] {
			return
		}
		seen[desc.BackendNodeID] = true

		id := fmt.Sprintf("ui-%04d", len(result))
		if _, err := el.Eval(`function(attr, id) { this.setAttribute(attr, id) }`, agentIDAttr, id); err != nil {
			return
		}

		text, _ := el.Text()
		aria, _ := el.Attribute("aria-label")
		role, _ := el.Attribute("role")
		if typ == "input" {
			if ph, _ := el.Attribute("placeholder"); ph != nil && strings.TrimSpace(text) == "" {
				text = *ph
			}
		}

		result = append(result, entity.UIElement{
			ID:        id,
			Type:      typ,
			Text:      truncate(strings.TrimSpace(text), 120),
			AriaLabel: ptrToString(aria),
			Role:      ptrToString(role),
			Selector:  fmt.Sprintf(`[%s="%s"]`, agentIDAttr, id),
		})
	}

	groups := []struct {
		selector string
		typ      string
	}{
		{"button, [role='button'], [role='link'], [role='tab'], [role='checkbox'], [role='radio'], [role='combobox']", "button"},
		{"input:not([type='hidden']), textarea, select", "input"},
		{"a[href]", "link"},
	}
	for _, g := range groups {
		elements, err := page.Elements(g.selector)
		if err != nil {
			continue
		}
		for _, el := range elements {
			add(el, g.typ)
		}
	}

	return result, nil
}

func (b *BrowserAdapter) GetAccessibilityTree(ctx context.Context) ([]entity.AXNode, error) {
	page, err := b.livePage(ctx)
	if err != nil {
		return nil, err
	}
	res, err := proto.AccessibilityGetFullAXTree{}.Call(page)
	if err != nil {
		return nil, fmt.Errorf("accessibility tree failed: %w", err)
	}
	return flattenAXTree(res.Nodes), nil
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	page, err := b.livePage(ctx)
	if err != nil {
		return nil, err
	}
	imgBytes, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return resizeScreenshot(imgBytes)
}

func (b *BrowserAdapter) CurrentURL() string {
	page, err := b.livePage(nil)
	if err != nil {
		return ""
	}
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) CurrentTitle() string {
	page, err := b.livePage(nil)
	if err != nil {
		return ""
	}
	info, err := page.Info()
	if err != nil {
		return ""
	}
	return info.Title
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

func (b *BrowserAdapter) find(page *rod.Page, selector string) (*rod.Element, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, ErrInvalidSelector
	}
	if isXPathSelector(selector) {
		return page.Timeout(b.timeout).ElementX(selector)
	}
	return page.Timeout(b.timeout).Element(selector)
}

func resizeScreenshot(raw []byte) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotW {
		img = imaging.Resize(img, maxScreenshotW, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func flattenAXTree(nodes []*proto.AccessibilityAXNode) []entity.AXNode {
	parents := make(map[proto.AccessibilityAXNodeID]proto.AccessibilityAXNodeID, len(nodes))
	for _, n := range nodes {
		if n.ParentID != "" {
			parents[n.NodeID] = n.ParentID
		}
	}
	depthOf := func(id proto.AccessibilityAXNodeID) int {
		depth := 0
		for p, ok := parents[id]; ok && depth < 256; p, ok = parents[p] {
			depth++
		}
		return depth
	}

	result := make([]entity.AXNode, 0, len(nodes))
	for _, n := range nodes {
		role := axValue(n.Role)
		if n.Ignored || role == "" || role == "none" || role == "generic" || role == "InlineTextBox" {
			continue
		}
		result = append(result, entity.AXNode{
			Role:        role,
			Name:        axValue(n.Name),
			Description: axValue(n.Description),
			Value:       axValue(n.Value),
			Depth:       depthOf(n.NodeID),
		})
	}
	return result
}

func axValue(v *proto.AccessibilityAXValue) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(v.Value.String())
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if raw == "about:blank" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

func ptrToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
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
