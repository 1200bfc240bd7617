package highlight

import (
	"fmt"
	"strings"

	"github.com/samcharles93/promptlens/internal/profile"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var cssClasses = map[profile.Category]string{
	profile.Boundary:     "token-bos",
	profile.Role:         "token-role",
	profile.Reasoning:    "token-think",
	profile.Tool:         "token-func",
	profile.ToolArgument: "token-dsml",
}

// Escape escapes &, < and > for embedding in HTML.
func Escape(text string) string { return htmlEscaper.Replace(text) }

// ClassFor returns the CSS class for cat, or "" for plain text.
func ClassFor(cat profile.Category) string { return cssClasses[cat] }

// HTML renders segments as escaped markup with non-plain segments wrapped
// in category spans.
func HTML(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		class := ClassFor(s.Category)
		if class == "" {
			b.WriteString(Escape(s.Text))
			continue
		}
		fmt.Fprintf(&b, `<span class="%s">%s</span>`, class, Escape(s.Text))
	}
	return b.String()
}

// EscapeAndHighlight classifies text for model and renders it as markup.
// Span boundaries are those of Classify on the unescaped text.
func (c *Classifier) EscapeAndHighlight(text, model string) string {
	return HTML(c.Classify(text, model))
}

// Document returns a standalone HTML page showing the highlighted prompt.
func (c *Classifier) Document(text, model, title string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(Escape(title))
	b.WriteString("</title>\n<style>")
	b.WriteString(Styles())
	b.WriteString("</style>\n</head>\n<body>\n<pre class=\"highlighted-prompt\">")
	b.WriteString(c.EscapeAndHighlight(text, model))
	b.WriteString("</pre>\n</body>\n</html>\n")
	return b.String()
}

// Styles returns the stylesheet for highlighted markup.
func Styles() string {
	var b strings.Builder
	fmt.Fprintf(&b, `
.highlighted-prompt {
	font-family: 'Monaco', 'Menlo', 'Ubuntu Mono', monospace;
	font-size: 13px;
	line-height: 1.5;
	background-color: %s;
	color: %s;
	padding: 16px;
	border-radius: 8px;
	overflow-x: auto;
	white-space: pre-wrap;
	word-wrap: break-word;
	margin: 0;
}
`, Background.Hex(), Foreground.Hex())
	for _, cat := range profile.Categories {
		fmt.Fprintf(&b, ".%s {\n\tcolor: %s;\n\tfont-weight: bold;\n}\n", ClassFor(cat), ColorFor(cat).Hex())
	}
	return b.String()
}
