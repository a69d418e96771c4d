package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ErrMarkdownConversion indicates rich-text to Markdown conversion failed.
var ErrMarkdownConversion = errors.New("Markdown conversion failed")

// MarkdownRenderer abstracts rich-text to Markdown conversion.
type MarkdownRenderer interface {
	ToMarkdown(ctx context.Context, richText string) (string, error)
}

// HTMLMarkdownRenderer converts rich-text markup to CommonMark using
// html-to-markdown.
type HTMLMarkdownRenderer struct {
	conv *converter.Converter
}

// NewHTMLMarkdownRenderer creates a renderer with the base, commonmark and
// table plugins.
func NewHTMLMarkdownRenderer() *HTMLMarkdownRenderer {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &HTMLMarkdownRenderer{conv: conv}
}

// ToMarkdown converts a rich-text fragment to Markdown. Empty or
// whitespace-only input converts to the empty string without error.
func (r *HTMLMarkdownRenderer) ToMarkdown(ctx context.Context, richText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(richText) == "" {
		return "", nil
	}

	type result struct {
		md  string
		err error
	}

	done := make(chan result, 1)

	go func() {
		md, err := r.conv.ConvertString(richText)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrMarkdownConversion, err)}
			return
		}
		done <- result{md: tidyMarkdown(md)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.md, res.err
	}
}

// tidyMarkdown compresses the blank-line runs that tag-level whitespace in
// the source markup leaves behind.
func tidyMarkdown(md string) string {
	md = excessBlankLines.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
