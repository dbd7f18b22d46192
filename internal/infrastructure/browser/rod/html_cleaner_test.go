package rod

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanHTML_RemovesScriptStyle(t *testing.T) {
	html := `
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<style")
	assert.Contains(t, out, `id="main"`)
}

func TestCleanHTML_RemovesComments(t *testing.T) {
	out := CleanHTML("<body><!-- secret comment --><div>Text</div></body>", nil)

	assert.NotContains(t, out, "secret comment")
	assert.Contains(t, out, "Text")
}

func TestCleanHTML_KeepsAccessibilityAttributes(t *testing.T) {
	html := `
<body>
    <a href="https://example.com" class="link" id="x" data-x="1" aria-hidden="true" role="link" onclick="go()">Go</a>
    <button data-agent-id="ui-0001" data-testid="next">Next</button>
</body>`

	out := CleanHTML(html, &DefaultCleanConfig)

	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `class="link"`)
	assert.Contains(t, out, `aria-hidden="true"`)
	assert.Contains(t, out, `role="link"`)
	assert.Contains(t, out, `data-agent-id="ui-0001"`)
	assert.Contains(t, out, `data-testid="next"`)
	assert.NotContains(t, out, `data-x`)
	assert.NotContains(t, out, `onclick`)
}

func TestCleanHTML_DropsARIAWhenConfigured(t *testing.T) {
	cfg := DefaultCleanConfig
	cfg.KeepARIA = false

	out := CleanHTML(`<body><div aria-label="Card" role="region">x</div></body>`, &cfg)

	assert.NotContains(t, out, "aria-label")
	assert.NotContains(t, out, "role=")
}

func TestCleanHTML_RemovesMediaGarbageAttributes(t *testing.T) {
	out := CleanHTML(`<body><img src="x.jpg" srcset="a,b,c" sizes="100w" loading="lazy" alt="Logo"></body>`, nil)

	assert.NotContains(t, out, "srcset=")
	assert.NotContains(t, out, "sizes=")
	assert.NotContains(t, out, "loading=")
	assert.Contains(t, out, `src="x.jpg"`)
	assert.Contains(t, out, `alt="Logo"`)
}

func TestCleanHTML_RemovesHeadMetaLink(t *testing.T) {
	html := `
<html>
<head>
    <meta charset="utf-8">
    <link rel="stylesheet" href="x.css">
</head>
<body>
    <p>Hi</p>
</body>
</html>`

	out := CleanHTML(html, nil)

	assert.NotContains(t, out, "<head")
	assert.NotContains(t, out, "<meta")
	assert.NotContains(t, out, "<link")
	assert.Contains(t, out, "<p>Hi</p>")
}

func TestCleanHTML_Truncation(t *testing.T) {
	var big strings.Builder
	big.WriteString("<body>")
	for i := 0; i < 20000; i++ {
		big.WriteString("<div>test</div>")
	}
	big.WriteString("</body>")

	out := CleanHTML(big.String(), &DefaultCleanConfig)

	assert.LessOrEqual(t, len(out), DefaultCleanConfig.MaxOutputSize+64)
	assert.Contains(t, out, "HTML truncated")
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "Weiter", truncate("Weiter", 6))
	// "é" is two bytes; cutting after one would split it
	assert.Equal(t, "Caf...", truncate("Café au lait", 4))
	assert.Equal(t, "Café...", truncate("Café au lait", 5))

	out := truncateHTML("<p>"+strings.Repeat("日", 10)+"</p>", 5)
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasPrefix(out, "<p>\n<!-- HTML truncated -->"))
}
