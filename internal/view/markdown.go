package view

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// userTags are the only elements that survive in rendered user content.
var userTags = []string{
	"p", "br", "ul", "li", "ol", "strong", "b", "i", "em", "u",
	"h1", "h2", "h3", "h4", "h5", "h6",
}

// Markdown renders user-written markdown into a restricted HTML subset.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown creates a Markdown renderer.
func NewMarkdown() *Markdown {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(userTags...)
	return &Markdown{
		md:     goldmark.New(),
		policy: policy,
	}
}

// UserHTML converts src to HTML and drops every element and attribute
// outside the allow-list. Text of dropped elements is kept.
func (m *Markdown) UserHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(m.policy.Sanitize(buf.String()))
}
