// Package config loads report definition files. A report file is a YAML
// document carrying the trade data and content bodies for one document.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rec2pdf "github.com/alnah/go-rec2pdf"
	"github.com/alnah/go-rec2pdf/internal/yamlutil"
)

// Sentinel errors for report file operations.
var (
	ErrReportNotFound  = errors.New("report file not found")
	ErrEmptyReportName = errors.New("report name cannot be empty")
	ErrReportParse     = errors.New("failed to parse report file")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits for untrusted report files.
const (
	MaxTickerLength    = 20     // "BRK.B", long OTC symbols
	MaxCompanyLength   = 100    // Company name
	MaxSubtitleLength  = 200    // Cover subtitle
	MaxCategoryLength  = 50     // "Equity", "Commodity"
	MaxActionLength    = 20     // "BUY", "STRONG SELL"
	MaxRiskLevelLength = 30     // "Medium", "Speculative"
	MaxDateLength      = 30     // "31-12-2025" or "auto:MMMM D, YYYY"
	MaxImageLength     = 255    // Image filename
	MaxContentLength   = 200000 // One content body
)

// ReportFile mirrors the YAML schema of a report definition.
type ReportFile struct {
	Ticker   string `yaml:"ticker"`
	Company  string `yaml:"company"`
	Subtitle string `yaml:"subtitle"`
	Category string `yaml:"category"`
	Action   string `yaml:"action"`

	EntryPrice  float64 `yaml:"entryPrice"`
	TargetPrice float64 `yaml:"targetPrice"`
	StopLoss    float64 `yaml:"stopLoss"`
	ExitPrice   float64 `yaml:"exitPrice"`
	RiskLevel   string  `yaml:"riskLevel"`

	Date string `yaml:"date"` // "", "auto", "auto:FORMAT", or literal

	AnalysisTypes []string `yaml:"analysisTypes"`

	Thesis    ContentSection `yaml:"thesis"`
	Rationale ContentSection `yaml:"rationale"`

	Images ImagesSection `yaml:"images"`

	Template string `yaml:"template"` // classic (default), modern, detailed
}

// ContentSection is one dual-track content body.
type ContentSection struct {
	Source   string `yaml:"source"` // "human" (default) or "generated"
	RichText string `yaml:"richText"`
	Markdown string `yaml:"markdown"`
}

// ImagesSection names the image assets, resolved against the images dir.
type ImagesSection struct {
	Logo  string `yaml:"logo"`
	Chart string `yaml:"chart"`
}

// Validate checks field lengths. Business rules (ticker format, price
// bounds, analysis types) are enforced by Report.Validate at generation.
func (r *ReportFile) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"ticker", r.Ticker, MaxTickerLength},
		{"company", r.Company, MaxCompanyLength},
		{"subtitle", r.Subtitle, MaxSubtitleLength},
		{"category", r.Category, MaxCategoryLength},
		{"action", r.Action, MaxActionLength},
		{"riskLevel", r.RiskLevel, MaxRiskLevelLength},
		{"date", r.Date, MaxDateLength},
		{"images.logo", r.Images.Logo, MaxImageLength},
		{"images.chart", r.Images.Chart, MaxImageLength},
		{"thesis.richText", r.Thesis.RichText, MaxContentLength},
		{"thesis.markdown", r.Thesis.Markdown, MaxContentLength},
		{"rationale.richText", r.Rationale.RichText, MaxContentLength},
		{"rationale.markdown", r.Rationale.Markdown, MaxContentLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for _, section := range []struct {
		name   string
		source string
	}{
		{"thesis", r.Thesis.Source},
		{"rationale", r.Rationale.Source},
	} {
		switch strings.ToLower(section.source) {
		case "", "human", "generated":
			// valid
		default:
			return fmt.Errorf("%s.source: invalid value %q (must be human or generated)",
				section.name, section.source)
		}
	}

	return nil
}

// ToReport maps the file onto the library's report model.
func (r *ReportFile) ToReport() *rec2pdf.Report {
	return &rec2pdf.Report{
		Ticker:        r.Ticker,
		Company:       r.Company,
		Subtitle:      r.Subtitle,
		Category:      r.Category,
		Action:        r.Action,
		EntryPrice:    r.EntryPrice,
		TargetPrice:   r.TargetPrice,
		StopLoss:      r.StopLoss,
		ExitPrice:     r.ExitPrice,
		RiskLevel:     r.RiskLevel,
		ReportDate:    r.Date,
		AnalysisTypes: r.AnalysisTypes,
		Thesis:        toContentBody(r.Thesis),
		Rationale:     toContentBody(r.Rationale),
		CompanyLogo:   r.Images.Logo,
		ChartImage:    r.Images.Chart,
		Template:      rec2pdf.TemplateID(r.Template),
	}
}

// toContentBody maps a YAML content section, defaulting the source to human.
func toContentBody(s ContentSection) rec2pdf.ContentBody {
	source := rec2pdf.ContentSource(strings.ToLower(s.Source))
	if source == "" {
		source = rec2pdf.SourceHuman
	}
	return rec2pdf.ContentBody{
		Source:   source,
		RichText: s.RichText,
		Markdown: s.Markdown,
	}
}

// LoadReport loads a report definition from a file path or report name.
// If nameOrPath contains a path separator or extension, it's treated as a
// file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadReport(nameOrPath string) (*ReportFile, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyReportName
	}

	var reportPath string
	var err error

	if isFilePath(nameOrPath) {
		reportPath = nameOrPath
	} else {
		reportPath, err = resolveReportPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(reportPath) // #nosec G304 -- report path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportPath)
		}
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	var report ReportFile
	if err := yamlutil.UnmarshalStrict(data, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportParse, err)
	}

	if err := report.Validate(); err != nil {
		return nil, err
	}

	return &report, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveReportPath searches for a report file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/rec2pdf/
func resolveReportPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "rec2pdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrReportNotFound, strings.Join(triedPaths, ", "))
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
