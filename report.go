package rec2pdf

import (
	"fmt"
	"regexp"
	"strings"
)

// TemplateID selects one of the built-in report layouts.
type TemplateID string

// Built-in layouts.
const (
	TemplateClassic  TemplateID = "classic"
	TemplateModern   TemplateID = "modern"
	TemplateDetailed TemplateID = "detailed"
)

// Valid reports whether t names a built-in layout.
func (t TemplateID) Valid() bool {
	switch t {
	case TemplateClassic, TemplateModern, TemplateDetailed:
		return true
	}
	return false
}

// ContentSource identifies who authored a content body.
type ContentSource string

const (
	// SourceHuman content is written in the rich-text editor.
	SourceHuman ContentSource = "human"
	// SourceGenerated content comes from a generative backend, whose
	// native form is Markdown.
	SourceGenerated ContentSource = "generated"
)

// ContentBody carries one report section on two tracks. Human content
// lives in RichText; generated content keeps its original Markdown
// alongside a rich-text rendering for the editor.
type ContentBody struct {
	Source   ContentSource
	RichText string // HTML fragment
	Markdown string
}

// ForExport returns the representation to feed the conversion pipeline
// and whether it is Markdown. Generated content prefers its Markdown
// track when present: it is the authored form and round-trips to LaTeX
// with less loss than the editor rendering.
func (b ContentBody) ForExport() (content string, isMarkdown bool) {
	if b.Source == SourceGenerated && strings.TrimSpace(b.Markdown) != "" {
		return b.Markdown, true
	}
	return b.RichText, false
}

// Empty reports whether the body carries no content on either track.
func (b ContentBody) Empty() bool {
	return strings.TrimSpace(b.RichText) == "" && strings.TrimSpace(b.Markdown) == ""
}

// AnalysisTypes is the fixed set of coverage categories in presentation
// order. The rendered checklist always shows all of them, marked or not.
var AnalysisTypes = []string{
	"Fundamentals",
	"Technical Analysis",
	"Macro/Geopolitical",
	"Catalyst",
}

// Price bounds for trade plan fields. Zero means the field was left blank.
const (
	MinPrice = 0.01
	MaxPrice = 1_000_000.0
)

// tickerPattern accepts exchange tickers like BRK.B or RDS-A.
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.\-]+$`)

// Report is the input record for one recommendation document.
type Report struct {
	Ticker   string
	Company  string
	Subtitle string
	Category string
	Action   string

	EntryPrice  float64
	TargetPrice float64
	StopLoss    float64
	ExitPrice   float64
	RiskLevel   string

	// ReportDate accepts "", "auto", "auto:FORMAT" or a literal date.
	ReportDate string

	AnalysisTypes []string

	Thesis    ContentBody
	Rationale ContentBody

	// Image filenames resolved against the configured images directory.
	CompanyLogo string
	ChartImage  string

	Template TemplateID
}

// Title derives the document title from company and ticker.
func (r *Report) Title() string {
	company := strings.TrimSpace(r.Company)
	ticker := strings.TrimSpace(r.Ticker)

	switch {
	case company != "" && ticker != "":
		return fmt.Sprintf("%s (%s)", company, ticker)
	case company != "":
		return company
	case ticker != "":
		return fmt.Sprintf("Investment Recommendation (%s)", ticker)
	default:
		return "Investment Recommendation"
	}
}

// Validate checks required fields and business rules. An empty Template
// is allowed; Generate falls back to the classic layout.
func (r *Report) Validate() error {
	ticker := strings.TrimSpace(r.Ticker)
	if ticker == "" {
		return ErrMissingTicker
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("%w: %q", ErrInvalidTicker, r.Ticker)
	}

	company := strings.TrimSpace(r.Company)
	if company == "" {
		return ErrMissingCompany
	}
	if len(company) < 2 {
		return fmt.Errorf("%w: %q", ErrCompanyTooShort, r.Company)
	}

	if len(r.AnalysisTypes) == 0 {
		return ErrNoAnalysisTypes
	}
	for _, at := range r.AnalysisTypes {
		if !knownAnalysisType(at) {
			return fmt.Errorf("%w: %q", ErrUnknownAnalysisType, at)
		}
	}

	if r.Thesis.Empty() {
		return fmt.Errorf("%w: thesis", ErrEmptyContent)
	}
	if r.Rationale.Empty() {
		return fmt.Errorf("%w: rationale", ErrEmptyContent)
	}

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"entry price", r.EntryPrice},
		{"target price", r.TargetPrice},
		{"stop loss", r.StopLoss},
		{"exit price", r.ExitPrice},
	} {
		if p.value == 0 {
			continue // blank field
		}
		if p.value < MinPrice || p.value > MaxPrice {
			return fmt.Errorf("%w: %s %.2f (must be between %.2f and %.0f)",
				ErrInvalidPrice, p.name, p.value, MinPrice, MaxPrice)
		}
	}

	if r.Template != "" && !r.Template.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, r.Template)
	}

	return nil
}

// knownAnalysisType reports whether name is one of the fixed categories.
func knownAnalysisType(name string) bool {
	for _, at := range AnalysisTypes {
		if at == name {
			return true
		}
	}
	return false
}
