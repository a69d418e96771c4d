package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRichTextConversion indicates Markdown to rich-text conversion failed.
var ErrRichTextConversion = errors.New("rich-text conversion failed")

// RichTextRenderer abstracts Markdown to rich-text conversion for the
// editing surface.
type RichTextRenderer interface {
	ToRichText(ctx context.Context, markdown string) (string, error)
}

// GoldmarkRenderer converts Markdown to an HTML fragment using goldmark
// (pure Go). The output is a fragment, not a standalone page: the editor
// consumes body-level markup directly.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a GoldmarkRenderer with GFM extensions and
// syntax highlighting.
func NewGoldmarkRenderer() *GoldmarkRenderer {
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
			html.WithHardWraps(), // Treat newlines as <br>
			html.WithXHTML(),     // Self-closing tags
			// Note: WithUnsafe() intentionally NOT used; raw HTML in
			// generated Markdown stays inert.
		),
	)
	return &GoldmarkRenderer{md: md}
}

// ToRichText converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *GoldmarkRenderer) ToRichText(ctx context.Context, markdown string) (string, error) {
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
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRichTextConversion, err)}
			return
		}
		done <- result{html: tidyFragment(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// tidyFragment drops empty paragraphs goldmark emits for blank-only input
// and trims the trailing newline of the last block.
func tidyFragment(fragment string) string {
	fragment = strings.ReplaceAll(fragment, "<p></p>\n", "")
	fragment = strings.ReplaceAll(fragment, "<p></p>", "")
	return strings.TrimSpace(fragment)
}
