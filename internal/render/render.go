// Package render converts prepared Markdown manuscripts into standalone
// HTML pages for visual inspection before packaging.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRenderFailed indicates HTML rendering failed.
var ErrRenderFailed = errors.New("HTML rendering failed")

// defaultTitle is used when a page carries no title of its own.
const defaultTitle = "Book Preview"

// highlightStyle is the chroma style HighlightCSS renders class rules for.
const highlightStyle = "github"

// pageTemplate wraps the rendered body in a complete HTML5 document with
// the stylesheet inlined, so the preview is a single self-contained file.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
{{.CSS}}
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type pageData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// Page describes one preview document.
type Page struct {
	Title    string // shown in the browser tab; empty falls back to a default
	Markdown string // prepared manuscript content
	CSS      string // stylesheet embedded into the page head
}

// Renderer converts Markdown to HTML using goldmark (pure Go).
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GFM extensions and syntax highlighting.
// Soft line breaks stay soft: manuscripts wrap prose at arbitrary columns,
// and the preview must reflow it the way the EPUB compiler will.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes instead of inline styles
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Note: WithUnsafe() intentionally NOT used; raw HTML in the
			// manuscript is omitted rather than passed through.
		),
	)
	return &Renderer{md: md}
}

// Render converts page.Markdown and wraps it in a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *Renderer) Render(ctx context.Context, page Page) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var body bytes.Buffer
		if err := r.md.Convert([]byte(page.Markdown), &body); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRenderFailed, err)}
			return
		}
		doc, err := assemblePage(page.Title, page.CSS, body.String())
		done <- result{html: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// assemblePage executes the page template around the rendered body.
func assemblePage(title, css, body string) (string, error) {
	if title == "" {
		title = defaultTitle
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title: title,
		CSS:   template.CSS(sanitizeCSS(css)),
		Body:  template.HTML(body),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HighlightCSS returns class rules for the syntax-highlight markup the
// renderer emits, so previews can color code blocks without inline styles.
func HighlightCSS() (string, error) {
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return buf.String(), nil
}
