package hints

import (
	"strings"
	"testing"
)

func TestForLatexNotFound(t *testing.T) {
	prev := isDebianLike
	t.Cleanup(func() { isDebianLike = prev })
	isDebianLike = func() bool { return true }
	t.Setenv("REC2PDF_LATEX_BIN", "")

	hint := ForLatexNotFound()
	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint %q, want standard prefix", hint)
	}
	for _, want := range []string{"TeX Live", "apt install", "REC2PDF_LATEX_BIN"} {
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q, want substring %q", hint, want)
		}
	}
}

func TestForLatexNotFoundWithOverrideSet(t *testing.T) {
	prev := isDebianLike
	t.Cleanup(func() { isDebianLike = prev })
	isDebianLike = func() bool { return false }
	t.Setenv("REC2PDF_LATEX_BIN", "/usr/bin/pdflatex")

	hint := ForLatexNotFound()
	if strings.Contains(hint, "apt install") {
		t.Errorf("hint %q, Debian suggestion on non-Debian system", hint)
	}
	if strings.Contains(hint, "REC2PDF_LATEX_BIN") {
		t.Errorf("hint %q, suggests setting a variable already set", hint)
	}
}

func TestForCompileFailure(t *testing.T) {
	t.Parallel()

	if got := ForCompileFailure(""); got != "" {
		t.Errorf("ForCompileFailure(\"\") = %q, want empty", got)
	}
	got := ForCompileFailure("/tmp/logs/report.log")
	if !strings.Contains(got, "/tmp/logs/report.log") {
		t.Errorf("ForCompileFailure() = %q, want log path", got)
	}
}

func TestForTimeout(t *testing.T) {
	t.Parallel()

	if !strings.Contains(ForTimeout(), "--timeout") {
		t.Errorf("ForTimeout() = %q, want flag name", ForTimeout())
	}
}

func TestForReportNotFound(t *testing.T) {
	t.Parallel()

	paths := []string{"aapl.yaml", "/home/u/.config/rec2pdf/aapl.yaml"}
	hint := ForReportNotFound(paths)
	if !strings.Contains(hint, "rec2pdf report.yaml") {
		t.Errorf("hint %q, want usage example", hint)
	}
	if !strings.Contains(hint, "/home/u/.config/rec2pdf/aapl.yaml") {
		t.Errorf("hint %q, want config location", hint)
	}
}

func TestForMissingImage(t *testing.T) {
	t.Parallel()

	if got := ForMissingImage("images"); !strings.Contains(got, "images") {
		t.Errorf("ForMissingImage() = %q", got)
	}
	if got := ForMissingImage(""); got == "" {
		t.Error("ForMissingImage(\"\") = empty, want generic hint")
	}
}

func TestForTemplateNotFound(t *testing.T) {
	t.Parallel()

	if got := ForTemplateNotFound(nil); got != "" {
		t.Errorf("ForTemplateNotFound(nil) = %q, want empty", got)
	}
	got := ForTemplateNotFound([]string{"classic", "modern"})
	if !strings.Contains(got, "classic, modern") {
		t.Errorf("ForTemplateNotFound() = %q", got)
	}
}
