package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrLatexConversion indicates structural conversion to LaTeX failed.
var ErrLatexConversion = errors.New("LaTeX conversion failed")

// LatexConverter defines the contract for converting rich-text markup to
// LaTeX source.
type LatexConverter interface {
	ToLatex(ctx context.Context, richText string) (string, error)
}

// StructuralConverter walks a parsed rich-text tree and emits LaTeX
// commands for its structure. Literal-text escaping is deferred: the walker
// emits raw text interleaved with commands, then the whole emission goes
// through EscapeLatex exactly once, so commands emitted here are never
// double-escaped.
type StructuralConverter struct{}

// ToLatex converts a rich-text fragment (or full document) to LaTeX.
func (c *StructuralConverter) ToLatex(ctx context.Context, richText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(richText) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(richText))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLatexConversion, err)
	}

	var b strings.Builder
	if body := findBody(doc); body != nil {
		renderChildren(&b, body)
	}

	out := EscapeLatex(b.String())
	out = excessBlankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// findBody locates the <body> element the parser guarantees to exist.
func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}
	return nil
}

// renderChildren renders every child of n in document order.
func renderChildren(b *strings.Builder, n *html.Node) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(b, child)
	}
}

// renderNode emits LaTeX for a single node. Any unrecognized element
// degrades to rendering its children with the wrapper dropped.
func renderNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		// handled below
	default:
		renderChildren(b, n)
		return
	}

	switch n.DataAtom {
	case atom.P:
		renderChildren(b, n)
		b.WriteString("\n\n")

	case atom.Strong, atom.B:
		b.WriteString(`\textbf{`)
		renderChildren(b, n)
		b.WriteString(`}`)

	case atom.Em, atom.I:
		b.WriteString(`\textit{`)
		renderChildren(b, n)
		b.WriteString(`}`)

	case atom.H1:
		writeHeading(b, n, `\section*`)
	case atom.H2:
		writeHeading(b, n, `\subsection*`)
	case atom.H3:
		writeHeading(b, n, `\subsubsection*`)
	case atom.H4, atom.H5, atom.H6:
		// Deepest unnumbered sectioning level available.
		writeHeading(b, n, `\paragraph*`)

	case atom.Blockquote:
		b.WriteString("\\begin{quote}\n")
		renderChildren(b, n)
		b.WriteString("\n\\end{quote}\n\n")

	case atom.Ul:
		b.WriteString("\\begin{itemize}\n")
		renderChildren(b, n)
		b.WriteString("\\end{itemize}\n\n")

	case atom.Ol:
		b.WriteString("\\begin{enumerate}\n")
		renderChildren(b, n)
		b.WriteString("\\end{enumerate}\n\n")

	case atom.Li:
		b.WriteString(`\item `)
		renderChildren(b, n)
		b.WriteString("\n")

	case atom.Br:
		b.WriteString("\n\n")

	case atom.A:
		href := attrValue(n, "href")
		if href == "" {
			renderChildren(b, n)
			return
		}
		b.WriteString(`\href{`)
		b.WriteString(href)
		b.WriteString(`}{`)
		renderChildren(b, n)
		b.WriteString(`}`)

	default:
		// div, span, and anything else: render children, drop the wrapper.
		renderChildren(b, n)
	}
}

// writeHeading renders a heading's children, strips stray emphasis markers
// that generative backends leave inside heading text, and wraps the result
// in the given unnumbered sectioning command.
func writeHeading(b *strings.Builder, n *html.Node, command string) {
	var inner strings.Builder
	renderChildren(&inner, n)

	text := inner.String()
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.TrimSpace(text)

	b.WriteString(command)
	b.WriteString("{")
	b.WriteString(text)
	b.WriteString("}\n\n")
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
