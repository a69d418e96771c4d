// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForLatexNotFound returns hints for a missing pdflatex binary.
// Detects Debian-family systems to suggest the right package name.
func ForLatexNotFound() string {
	hints := []string{"install a TeX distribution (TeX Live or MiKTeX)"}

	if isDebianLike() {
		hints = append(hints, "on Debian/Ubuntu: apt install texlive-latex-recommended texlive-latex-extra")
	}

	if os.Getenv("REC2PDF_LATEX_BIN") == "" {
		hints = append(hints, "or set REC2PDF_LATEX_BIN to a pdflatex binary")
	}

	return formatHints(hints)
}

// ForCompileFailure returns a hint pointing at the preserved compiler log.
func ForCompileFailure(logPath string) string {
	if logPath == "" {
		return ""
	}
	return format("full compiler log: " + logPath)
}

// ForTimeout returns a hint about increasing timeout for slow compiles.
func ForTimeout() string {
	return format("for image-heavy reports, use --timeout flag")
}

// ForReportNotFound returns hints for report file not found errors.
func ForReportNotFound(searchedPaths []string) string {
	hint := "pass a report file path, e.g. rec2pdf report.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/rec2pdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMissingImage returns hints for a referenced image that was not staged.
func ForMissingImage(imagesDir string) string {
	if imagesDir == "" {
		return format("image filenames are resolved against the images directory")
	}
	return format("expected under " + imagesDir + "; a placeholder was substituted")
}

// ForTemplateNotFound returns hints listing the available template names.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// isDebianLike detects Debian-family systems via /etc/debian_version.
var isDebianLike = func() bool {
	_, err := os.Stat("/etc/debian_version")
	return err == nil
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
