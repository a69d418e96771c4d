package main

import (
	"errors"
	"os"

	rec2pdf "github.com/alnah/go-rec2pdf"
	"github.com/alnah/go-rec2pdf/internal/config"
)

// Exit codes for rec2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // PDF generated
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, report file, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitLatex   = 4 // LaTeX toolchain errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// LaTeX toolchain errors (exit 4)
	if errors.Is(err, rec2pdf.ErrLatexNotFound) ||
		errors.Is(err, rec2pdf.ErrCompileFailed) ||
		errors.Is(err, rec2pdf.ErrCompileTimeout) {
		return ExitLatex
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, config.ErrReportNotFound) {
		return ExitIO
	}

	// Usage/report/validation errors (exit 2)
	if errors.Is(err, config.ErrReportParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyReportName) ||
		errors.Is(err, rec2pdf.ErrMissingTicker) ||
		errors.Is(err, rec2pdf.ErrInvalidTicker) ||
		errors.Is(err, rec2pdf.ErrMissingCompany) ||
		errors.Is(err, rec2pdf.ErrCompanyTooShort) ||
		errors.Is(err, rec2pdf.ErrNoAnalysisTypes) ||
		errors.Is(err, rec2pdf.ErrUnknownAnalysisType) ||
		errors.Is(err, rec2pdf.ErrEmptyContent) ||
		errors.Is(err, rec2pdf.ErrInvalidPrice) ||
		errors.Is(err, rec2pdf.ErrUnknownTemplate) ||
		errors.Is(err, rec2pdf.ErrTemplateNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
