package pipeline

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"
)

// TextNormalizer defines the contract for cleaning up generated text before
// structural conversion. Normalization never fails: malformed input degrades
// to best-effort replacement, not an error.
type TextNormalizer interface {
	Normalize(ctx context.Context, content string) string
}

// Precompiled regex patterns for performance.
var (
	// Sentence-ending punctuation fused to a following capital letter.
	fusedSentence = regexp.MustCompile(`([.!?,:;])([A-Z])`)

	// Number fused to a magnitude word ("2billion" → "2 billion").
	fusedMagnitude = regexp.MustCompile(`([0-9])(billion|million|trillion)\b`)

	// Runs of spaces/tabs after a non-space character (preserves indentation).
	spaceRuns = regexp.MustCompile(`(\S)[ \t]{2,}`)

	// Trailing whitespace before a newline.
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)

	// Three or more consecutive newlines compress to a blank line.
	excessBlankLines = regexp.MustCompile(`\n{3,}`)

	// Line ending normalization.
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// unicodeReplacements maps typographic and legacy codepoints to ASCII-safe
// equivalents that survive typesetting. The C1 range (U+0091-U+0097) shows up
// when Windows-1252 text was mislabeled as Latin-1.
var unicodeReplacements = []struct {
	from string
	to   string
}{
	{"–", "-"},       // en dash
	{"—", "--"},      // em dash
	{"−", "-"},       // minus sign
	{"‘", "'"},       // left single quote
	{"’", "'"},       // right single quote
	{"′", "'"},       // prime
	{"´", "'"},       // acute accent used as apostrophe
	{"“", `"`},       // left double quote
	{"”", `"`},       // right double quote
	{"″", `"`},       // double prime
	{"…", "..."},     // ellipsis
	{" ", " "},       // non-breaking space
	{"•", "-"},       // bullet
	{"\u0091", "'"},  // C1 left single quote
	{"\u0092", "'"},  // C1 right single quote
	{"\u0093", `"`},  // C1 left double quote
	{"\u0094", `"`},  // C1 right double quote
	{"\u0096", "-"},  // C1 en dash
	{"\u0097", "--"}, // C1 em dash
	{"Â´", "'"},      // double-encoded acute
}

// subSuperDigits collapse to plain digits; the typesetting fonts used by the
// report templates do not cover the sub/superscript codepoints.
var subSuperDigits = map[rune]rune{
	'₀': '0', '₁': '1', '₂': '2', '₃': '3', '₄': '4',
	'₅': '5', '₆': '6', '₇': '7', '₈': '8', '₉': '9',
	'₊': '+', '₋': '-', '₌': '=', '₍': '(', '₎': ')',
	'⁰': '0', '¹': '1', '²': '2', '³': '3', '⁴': '4',
	'⁵': '5', '⁶': '6', '⁷': '7', '⁸': '8', '⁹': '9',
}

// GeneratedTextNormalizer repairs encoding artifacts and malformed tokens in
// text coming from a generative backend or a pasted editor buffer.
type GeneratedTextNormalizer struct{}

// Normalize applies all repairs. Order matters: byte-level repairs first,
// then codepoint mapping, then token-level spacing fixes, then whitespace
// compaction.
func (n *GeneratedTextNormalizer) Normalize(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = repairUTF8(content)
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = stripControlAndPrivateUse(content)
	content = mapTypographicRunes(content)
	content = insertFusedTokenSpaces(content)
	content = compactWhitespace(content)
	return strings.TrimSpace(content)
}

// repairUTF8 replaces invalid byte sequences with the substitution marker.
func repairUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

// stripControlAndPrivateUse removes ASCII control characters (except newline
// and tab) and Private Use Area runes. The PUA range is reserved as the
// placeholder alphabet of the escaping pass, so it must never survive in
// content text. C1 punctuation (handled by mapTypographicRunes) is kept.
func stripControlAndPrivateUse(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7F:
			return -1
		case r >= '\uE000' && r <= '\uF8FF':
			return -1
		}
		return r
	}, s)
}

// mapTypographicRunes maps smart punctuation and sub/superscript digits to
// ASCII-safe equivalents.
func mapTypographicRunes(s string) string {
	for _, r := range unicodeReplacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return strings.Map(func(r rune) rune {
		if mapped, ok := subSuperDigits[r]; ok {
			return mapped
		}
		return r
	}, s)
}

// insertFusedTokenSpaces repairs words fused across a removed token:
// a missing space after sentence punctuation before a capital letter, and
// numbers glued to magnitude words. This replaces the enumerated fused-word
// table of earlier revisions with general token-boundary rules; the old
// entries survive as regression fixtures in the tests.
func insertFusedTokenSpaces(s string) string {
	s = fusedSentence.ReplaceAllString(s, "$1 $2")
	s = fusedMagnitude.ReplaceAllString(s, "$1 $2")
	return s
}

// compactWhitespace collapses space runs and excess blank lines while
// preserving line-leading indentation.
func compactWhitespace(s string) string {
	s = spaceRuns.ReplaceAllString(s, "$1 ")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return s
}
