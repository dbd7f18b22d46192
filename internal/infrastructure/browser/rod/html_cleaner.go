package rod

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// KeepARIA keeps aria-* and role attributes; accessibility checks need them.
	KeepARIA      bool
	MaxOutputSize int
}

var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title", "template",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority",
	},
	KeepARIA:      true,
	MaxOutputSize: 60_000,
}

// CleanHTML strips everything from the body of rawHTML that does not help the
// model understand the page. It returns rawHTML unchanged if it has no body.
func CleanHTML(rawHTML string, cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return truncateHTML(rawHTML, cfg.MaxOutputSize)
	}

	body := findBodyNode(doc)
	if body == nil {
		return truncateHTML(rawHTML, cfg.MaxOutputSize)
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	_ = html.Render(&sb, body)
	return truncateHTML(sb.String(), cfg.MaxOutputSize)
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	switch n.Type {
	case html.CommentNode:
		n.Parent.RemoveChild(n)
		return
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		n.Parent.RemoveChild(n)
		return
	}

	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if !shouldRemoveAttr(attr.Key, cfg) {
			kept = append(kept, attr)
		}
	}
	n.Attr = kept

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func shouldRemoveAttr(key string, cfg *CleanConfig) bool {
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	if strings.HasPrefix(key, "on") {
		return true
	}
	if strings.HasPrefix(key, "data-") && key != agentIDAttr && key != "data-testid" {
		return true
	}
	if !cfg.KeepARIA && (strings.HasPrefix(key, "aria-") || key == "role") {
		return true
	}
	return false
}

func truncateHTML(s string, maxSize int) string {
	if maxSize <= 0 || len(s) <= maxSize {
		return s
	}
	for maxSize > 0 && !utf8.RuneStart(s[maxSize]) {
		maxSize--
	}
	return s[:maxSize] + "\n<!-- HTML truncated -->"
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
