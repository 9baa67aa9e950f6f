package report

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var md goldmark.Markdown

func init() {
	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
}

// renderMarkdown converts markdown (recommendations, code snippets) to HTML
// for embedding in the report page. Raw HTML in the input stays escaped;
// issue text comes from analyzers and AI output and is not trusted.
func renderMarkdown(content string) template.HTML {
	if content == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(processExternalLinks(buf.String()))
}

var linkRe = regexp.MustCompile(`<a href="(https?://[^"]*)"`)

// processExternalLinks makes every external link open in a new tab.
func processExternalLinks(s string) string {
	return linkRe.ReplaceAllStringFunc(s, func(match string) string {
		return match + ` target="_blank" rel="noopener noreferrer"`
	})
}
