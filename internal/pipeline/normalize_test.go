package pipeline

import (
	"context"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := &GeneratedTextNormalizer{}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		// Fused token repair
		{
			name:    "period fused to capital",
			content: "strong growth.The company also",
			want:    "strong growth. The company also",
		},
		{
			name:    "comma fused to capital",
			content: "rising revenue,Margins expand",
			want:    "rising revenue, Margins expand",
		},
		{
			name:    "colon fused to capital",
			content: "verdict:Buy",
			want:    "verdict: Buy",
		},
		{
			name:    "number fused to billion",
			content: "revenue of 2billion this year",
			want:    "revenue of 2 billion this year",
		},
		{
			name:    "decimal fused to trillion",
			content: "a 1.2trillion market",
			want:    "a 1.2 trillion market",
		},
		{
			name:    "magnitude word inside larger word untouched",
			content: "the billionaire investor",
			want:    "the billionaire investor",
		},
		{
			// Only punctuation-capital and digit-magnitude fusions are
			// repaired; generic lowercase word fusions are out of scope
			// and deliberately left alone.
			name:    "lowercase word fusion outside repair scope",
			content: "decision basedon fundamentals",
			want:    "decision basedon fundamentals",
		},
		// Typographic mapping
		{
			name:    "em dash becomes double hyphen",
			content: "risk—reward",
			want:    "risk--reward",
		},
		{
			name:    "en dash becomes hyphen",
			content: "2024–2025",
			want:    "2024-2025",
		},
		{
			name:    "unicode minus becomes hyphen",
			content: "high−growth",
			want:    "high-growth",
		},
		{
			name:    "curly quotes become straight",
			content: "“cheap” money and ‘tight’ credit",
			want:    `"cheap" money and 'tight' credit`,
		},
		{
			name:    "ellipsis expands",
			content: "and so on…",
			want:    "and so on...",
		},
		{
			name:    "non-breaking space becomes space",
			content: "10\u00A0years",
			want:    "10 years",
		},
		{
			name:    "superscript digit flattens",
			content: "x² growth",
			want:    "x2 growth",
		},
		{
			name:    "subscript digit flattens",
			content: "CO₂ emissions",
			want:    "CO2 emissions",
		},
		{
			name:    "C1 right quote becomes apostrophe",
			content: "don\u0092t",
			want:    "don't",
		},
		{
			name:    "bullet becomes hyphen",
			content: "• first point",
			want:    "- first point",
		},
		// Control and encoding repair
		{
			name:    "CRLF normalizes",
			content: "first\r\nsecond\rthird",
			want:    "first\nsecond\nthird",
		},
		{
			name:    "NUL stripped",
			content: "be\x00fore",
			want:    "before",
		},
		{
			name:    "private use runes stripped",
			content: "a\uE000b\uF8FFc",
			want:    "abc",
		},
		{
			name:    "tabs and newlines survive",
			content: "a\tb\nc",
			want:    "a\tb\nc",
		},
		// Whitespace compaction
		{
			name:    "space runs collapse",
			content: "too  many   spaces",
			want:    "too many spaces",
		},
		{
			name:    "trailing spaces removed",
			content: "line   \nnext",
			want:    "line\nnext",
		},
		{
			name:    "excess blank lines compress",
			content: "para one\n\n\n\npara two",
			want:    "para one\n\npara two",
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  padded  ",
			want:    "padded",
		},
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := n.Normalize(context.Background(), tt.content)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestNormalizeRepairsInvalidUTF8(t *testing.T) {
	t.Parallel()

	n := &GeneratedTextNormalizer{}

	got := n.Normalize(context.Background(), "ok \xff\xfe end")
	if got == "" {
		t.Fatal("Normalize() returned empty string for repairable input")
	}
	for _, r := range got {
		if r == 0xFFFD {
			return // substitution marker present
		}
	}
	t.Errorf("Normalize() = %q, want substitution marker for invalid bytes", got)
}

func TestNormalizeCancelledContext(t *testing.T) {
	t.Parallel()

	n := &GeneratedTextNormalizer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	content := "untouched  —  content"
	if got := n.Normalize(ctx, content); got != content {
		t.Errorf("Normalize() with cancelled context = %q, want input unchanged", got)
	}
}
