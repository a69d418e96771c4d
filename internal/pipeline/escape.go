package pipeline

import (
	"strconv"
	"strings"
)

// Placeholder alphabet for the protect/restore pass. Private Use Area runes
// cannot collide with content text: the normalizer strips any PUA input
// before conversion, so every PUA rune in the pipeline is one of ours.
const (
	protectStart = '\uE000' // opens a placeholder
	protectEnd   = '\uE001' // closes a placeholder
)

// latexSpecials are the reserved characters escaped in literal text.
// Backslash and braces are handled structurally by the protect pass;
// everything else is a plain substitution.
var latexSpecials = []struct {
	char string
	esc  string
}{
	{"&", `\&`},
	{"%", `\%`},
	{"$", `\$`},
	{"#", `\#`},
	{"_", `\_`},
	{"^", `\textasciicircum{}`},
	{"~", `\textasciitilde{}`},
	{"|", `\textbar{}`},
	{"<", `\textless{}`},
	{">", `\textgreater{}`},
}

// EscapeLatex escapes reserved characters in the literal-text portions of
// emitted markup while leaving structural commands untouched.
//
// The pass works by protection, not by parsing the full grammar:
//
//  1. Every command (backslash + letters, optional star, optional bracketed
//     option, any number of brace-delimited groups with nested braces) is
//     replaced by an indexed placeholder. Brace-group contents are escaped
//     recursively first, so literal text inside \textbf{...} is still covered.
//     A \begin{env}...\end{env} block is matched as one unit with its body
//     escaped recursively before protection.
//  2. Reserved characters in the remaining free text are replaced with their
//     escaped forms. Standalone braces become \{ and \}; a backslash that
//     does not introduce a command becomes \textbackslash{}.
//  3. Every placeholder is restored verbatim, exactly once.
//
// Already-escaped sequences (\%, \_, \{, ...) are protected in step 1, which
// makes the whole pass idempotent on its own output.
func EscapeLatex(markup string) string {
	p := &protector{}
	residual := p.protect(markup)
	residual = escapeFreeText(residual)
	return p.restore(residual)
}

// EscapeLiteral escapes every reserved character in a plain scalar value
// (prices, tickers, dates). Unlike EscapeLatex it assumes no markup at all,
// so even backslashes and braces are treated as data.
func EscapeLiteral(text string) string {
	// Structural characters go through markers first so the replacement
	// commands (\textbackslash{}, \{) are not re-escaped by later steps.
	const (
		markBackslash = "\uE010"
		markOpen      = "\uE011"
		markClose     = "\uE012"
	)
	text = strings.ReplaceAll(text, `\`, markBackslash)
	text = strings.ReplaceAll(text, "{", markOpen)
	text = strings.ReplaceAll(text, "}", markClose)

	for _, s := range latexSpecials {
		text = strings.ReplaceAll(text, s.char, s.esc)
	}

	text = strings.ReplaceAll(text, markOpen, `\{`)
	text = strings.ReplaceAll(text, markClose, `\}`)
	text = strings.ReplaceAll(text, markBackslash, `\textbackslash{}`)
	return text
}

// protector holds the protected command spans during one escaping pass.
// Spans are restored by index; each index is used exactly once.
type protector struct {
	spans []string
}

// add records a protected span and returns its placeholder.
func (p *protector) add(span string) string {
	idx := len(p.spans)
	p.spans = append(p.spans, span)
	return string(protectStart) + strconv.Itoa(idx) + string(protectEnd)
}

// restore substitutes every placeholder with its recorded span.
func (p *protector) restore(s string) string {
	for idx := len(p.spans) - 1; idx >= 0; idx-- {
		ph := string(protectStart) + strconv.Itoa(idx) + string(protectEnd)
		s = strings.Replace(s, ph, p.spans[idx], 1)
	}
	return s
}

// protect scans for commands and escaped sequences, replacing each with a
// placeholder and returning the residual free text.
func (p *protector) protect(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			out.WriteByte(s[i])
			i++
			continue
		}

		// Lone trailing backslash: escape as data.
		if i+1 >= len(s) {
			out.WriteString(p.add(`\textbackslash{}`))
			i++
			continue
		}

		next := s[i+1]
		switch {
		case isLetter(next):
			span, consumed := p.parseCommand(s[i:])
			out.WriteString(p.add(span))
			i += consumed
		case next == '\\':
			// LaTeX line break.
			out.WriteString(p.add(`\\`))
			i += 2
		case strings.IndexByte(`&%$#_^~{}`, next) >= 0:
			// Already-escaped reserved character; keep verbatim.
			out.WriteString(p.add(s[i : i+2]))
			i += 2
		default:
			// Backslash before anything else is data.
			out.WriteString(p.add(`\textbackslash{}`))
			i++
		}
	}

	return out.String()
}

// parseCommand parses a command starting at src[0] == '\\' followed by a
// letter. Returns the protected span (with brace-group contents escaped
// recursively) and the number of source bytes consumed.
func (p *protector) parseCommand(src string) (string, int) {
	i := 1
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '*' {
		i++
	}
	name := src[:i]

	var span strings.Builder
	span.WriteString(name)

	// Optional bracketed option, taken verbatim.
	if i < len(src) && src[i] == '[' {
		end := strings.IndexByte(src[i:], ']')
		if end >= 0 {
			span.WriteString(src[i : i+end+1])
			i += end + 1
		}
	}

	// \begin{env} blocks are protected as a single unit so the nested
	// structural commands of the environment survive; the body has been
	// escaped recursively by the time protection runs.
	if name == `\begin` {
		if block, consumed, ok := p.parseEnvironment(src, i); ok {
			return block, consumed
		}
	}

	// Brace-delimited argument groups, contents escaped recursively.
	for i < len(src) && src[i] == '{' {
		group, consumed, ok := matchBraceGroup(src[i:])
		if !ok {
			break
		}
		span.WriteString("{")
		span.WriteString(EscapeLatex(group))
		span.WriteString("}")
		i += consumed
	}

	return span.String(), i
}

// parseEnvironment matches \begin{env} ... \end{env} with nesting of the
// same environment name. src starts at the backslash of \begin; pos points
// just past "\begin". Returns the protected block, bytes consumed, and
// whether a matching \end was found.
func (p *protector) parseEnvironment(src string, pos int) (string, int, bool) {
	if pos >= len(src) || src[pos] != '{' {
		return "", 0, false
	}
	group, consumed, ok := matchBraceGroup(src[pos:])
	if !ok {
		return "", 0, false
	}
	env := group
	bodyStart := pos + consumed

	openTag := `\begin{` + env + `}`
	closeTag := `\end{` + env + `}`

	depth := 1
	i := bodyStart
	for i < len(src) {
		if strings.HasPrefix(src[i:], openTag) {
			depth++
			i += len(openTag)
			continue
		}
		if strings.HasPrefix(src[i:], closeTag) {
			depth--
			if depth == 0 {
				body := src[bodyStart:i]
				block := openTag + EscapeLatex(body) + closeTag
				return block, i + len(closeTag), true
			}
			i += len(closeTag)
			continue
		}
		i++
	}

	return "", 0, false
}

// matchBraceGroup matches a balanced {...} group starting at src[0] == '{'.
// Returns the inner content, the number of bytes consumed (including both
// braces), and whether the group was balanced.
func matchBraceGroup(src string) (string, int, bool) {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[1:i], i + 1, true
			}
		}
	}
	return "", 0, false
}

// escapeFreeText escapes reserved characters in text containing no commands.
// Braces move through markers first: some replacement commands carry their
// own {} pair, which a later brace substitution must not touch.
func escapeFreeText(s string) string {
	const (
		markOpen  = "\uE011"
		markClose = "\uE012"
	)
	s = strings.ReplaceAll(s, "{", markOpen)
	s = strings.ReplaceAll(s, "}", markClose)

	for _, spec := range latexSpecials {
		s = strings.ReplaceAll(s, spec.char, spec.esc)
	}

	s = strings.ReplaceAll(s, markOpen, `\{`)
	s = strings.ReplaceAll(s, markClose, `\}`)
	return s
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
