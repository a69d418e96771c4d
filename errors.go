package rec2pdf

import (
	"errors"

	"github.com/alnah/go-rec2pdf/internal/assets"
	"github.com/alnah/go-rec2pdf/internal/latex"
)

// Sentinel errors for report validation.
var (
	ErrMissingTicker       = errors.New("ticker is required")
	ErrInvalidTicker       = errors.New("ticker may contain only letters, numbers, dots, and hyphens")
	ErrMissingCompany      = errors.New("company name is required")
	ErrCompanyTooShort     = errors.New("company name must be at least 2 characters")
	ErrNoAnalysisTypes     = errors.New("at least one analysis type is required")
	ErrUnknownAnalysisType = errors.New("unknown analysis type")
	ErrEmptyContent        = errors.New("content body cannot be empty")
	ErrInvalidPrice        = errors.New("price out of range")
	ErrUnknownTemplate     = errors.New("unknown template")
)

// Re-exported dependency errors so callers can match without importing
// internal packages.
var (
	ErrLatexNotFound    = latex.ErrLatexNotFound
	ErrCompileFailed    = latex.ErrCompileFailed
	ErrCompileTimeout   = latex.ErrCompileTimeout
	ErrTemplateNotFound = assets.ErrTemplateNotFound
)
