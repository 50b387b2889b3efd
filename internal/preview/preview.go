// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview renders Markdown buffers to HTML for browser preview.
package preview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// engine is stateless and safe for concurrent use.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Render converts Markdown to an HTML fragment.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
code { background: #f4f4f4; padding: 0.1rem 0.3rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// Page wraps the rendered Markdown in a minimal standalone HTML document.
func Page(title, markdown string) (string, error) {
	body, err := Render(markdown)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Title: title, Body: template.HTML(body)}); err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return buf.String(), nil
}
