package rec2pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-rec2pdf/internal/latex"
)

// mockCompiler simulates pdflatex without a subprocess. On success it drops
// the PDF and log artifacts into the staging directory.
type mockCompiler struct {
	availErr   error
	compileErr error
	logContent string

	texPath string
}

func (m *mockCompiler) Available(ctx context.Context) error {
	return m.availErr
}

func (m *mockCompiler) Compile(ctx context.Context, texPath, stagingDir string) (*latex.Result, error) {
	m.texPath = texPath
	job := strings.TrimSuffix(filepath.Base(texPath), ".tex")

	logPath := filepath.Join(stagingDir, job+".log")
	logContent := m.logContent
	if logContent == "" {
		logContent = "This is pdfTeX\n"
	}
	if err := os.WriteFile(logPath, []byte(logContent), 0o600); err != nil {
		return nil, err
	}

	if m.compileErr != nil {
		return nil, m.compileErr
	}

	pdfPath := filepath.Join(stagingDir, job+".pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.5"), 0o600); err != nil {
		return nil, err
	}
	return &latex.Result{PDFPath: pdfPath, LogPath: logPath}, nil
}

func testGenerator(t *testing.T, compiler pdfCompiler) *Generator {
	t.Helper()

	g, err := New(
		WithOutputDir(t.TempDir()),
		WithLogsDir(t.TempDir()),
		WithImagesDir(t.TempDir()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	g.assets = &fakeAssets{template: testTemplate}
	g.compiler = compiler
	g.now = func() time.Time { return testNow }
	return g
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	compiler := &mockCompiler{}
	g := testGenerator(t, compiler)

	report := validReport()
	report.Thesis.RichText = "<p><strong>Services</strong> growth at 20%</p>"

	result, err := g.Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantJob := "recommendation_AAPL_Apple_Inc_AAPL_20260825_143005"
	if filepath.Base(result.PDFPath) != wantJob+".pdf" {
		t.Errorf("PDFPath = %q, want job %q", result.PDFPath, wantJob)
	}
	if _, err := os.Stat(result.PDFPath); err != nil {
		t.Error("PDF missing from output directory")
	}
	if result.LogPath == "" {
		t.Error("LogPath empty, want preserved log")
	} else if _, err := os.Stat(result.LogPath); err != nil {
		t.Error("log missing from logs directory")
	}

	for _, want := range []string{`\textbf{Services} growth at 20\%`, `\actionbox{BUY}`} {
		if !strings.Contains(result.TexSource, want) {
			t.Errorf("TexSource missing %q", want)
		}
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}
}

func TestGenerateMarkdownBody(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{})

	report := validReport()
	report.Rationale = ContentBody{
		Source:   SourceGenerated,
		RichText: "<p>stale editor rendering</p>",
		Markdown: "## Valuation\n\n**cheap** on 2026 earnings",
	}

	result, err := g.Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, want := range []string{`\subsection*{Valuation}`, `\textbf{cheap} on 2026 earnings`} {
		if !strings.Contains(result.TexSource, want) {
			t.Errorf("TexSource missing %q", want)
		}
	}
	if strings.Contains(result.TexSource, "stale editor rendering") {
		t.Error("TexSource used the editor rendering instead of the markdown track")
	}
}

// stubConverter returns canned LaTeX per rich-text input, for driving the
// repair stage with structurally damaged bodies.
type stubConverter struct {
	outputs map[string]string
}

func (s *stubConverter) ToLatex(ctx context.Context, richText string) (string, error) {
	if out, ok := s.outputs[richText]; ok {
		return out, nil
	}
	return richText, nil
}

func TestGenerateRepairsBodiesButNotTemplate(t *testing.T) {
	t.Parallel()

	// A template whose preamble legitimately ends a multi-line command
	// body with a lone closing brace line.
	template := "\\newcommand{\\disclaimer}{\n" +
		"  Not investment advice\n" +
		"}\n" +
		"\\begin{document}\n" +
		"INVESTMENTTHESISPLACEHOLDER\n" +
		"RATIONALEPLACEHOLDER\n" +
		"\\end{document}\n"

	g := testGenerator(t, &mockCompiler{})
	g.assets = &fakeAssets{template: template}
	g.toLatex = &stubConverter{outputs: map[string]string{
		"<p>thesis</p>": "\\subsubsection{Catalyst}\n}\nthesis body",
	}}

	report := validReport()
	report.Thesis.RichText = "<p>thesis</p>"
	report.Rationale.RichText = "<p>rationale</p>"

	result, err := g.Generate(context.Background(), report)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !strings.Contains(result.TexSource, "Not investment advice\n}") {
		t.Error("TexSource lost the template's own closing brace line")
	}
	if !strings.Contains(result.TexSource, "\\subsubsection{Catalyst}\nthesis body") {
		t.Error("TexSource kept the stray brace after the thesis section command")
	}

	var repaired bool
	for _, w := range result.Warnings {
		if strings.Contains(w, "thesis:") && strings.Contains(w, "removed stray closing brace") {
			repaired = true
		}
		if strings.Contains(w, "unbalanced braces") {
			t.Errorf("warning %q, repair unbalanced the document", w)
		}
	}
	if !repaired {
		t.Errorf("Warnings = %v, want labeled thesis repair", result.Warnings)
	}
}

func TestGenerateNilReport(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{})
	if _, err := g.Generate(context.Background(), nil); !errors.Is(err, ErrNilReport) {
		t.Errorf("Generate(nil) error = %v, want ErrNilReport", err)
	}
}

func TestGenerateInvalidReport(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{})
	report := validReport()
	report.Ticker = ""

	if _, err := g.Generate(context.Background(), report); !errors.Is(err, ErrMissingTicker) {
		t.Errorf("Generate() error = %v, want ErrMissingTicker", err)
	}
}

func TestGenerateCompileFailurePreservesLog(t *testing.T) {
	t.Parallel()

	compiler := &mockCompiler{
		compileErr: latex.ErrCompileFailed,
		logContent: "! Undefined control sequence.\n",
	}
	g := testGenerator(t, compiler)

	_, err := g.Generate(context.Background(), validReport())
	if !errors.Is(err, latex.ErrCompileFailed) {
		t.Fatalf("Generate() error = %v, want ErrCompileFailed", err)
	}
	if !strings.Contains(err.Error(), "full compiler log:") {
		t.Errorf("error %q, want preserved log hint", err)
	}

	// The hint names a log file that must exist outside the staging dir.
	parts := strings.Split(err.Error(), "full compiler log: ")
	logPath := strings.TrimSpace(parts[len(parts)-1])
	if _, statErr := os.Stat(logPath); statErr != nil {
		t.Errorf("preserved log %q missing: %v", logPath, statErr)
	}
}

func TestGenerateLatexNotFound(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{compileErr: latex.ErrLatexNotFound})

	_, err := g.Generate(context.Background(), validReport())
	if !errors.Is(err, latex.ErrLatexNotFound) {
		t.Fatalf("Generate() error = %v, want ErrLatexNotFound", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error %q, want installation hint", err)
	}
}

func TestGenerateTimeoutHint(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{compileErr: latex.ErrCompileTimeout})

	_, err := g.Generate(context.Background(), validReport())
	if !errors.Is(err, latex.ErrCompileTimeout) {
		t.Fatalf("Generate() error = %v, want ErrCompileTimeout", err)
	}
	if !strings.Contains(err.Error(), "--timeout") {
		t.Errorf("error %q, want timeout hint", err)
	}
}

func TestCheckToolchain(t *testing.T) {
	t.Parallel()

	ok := testGenerator(t, &mockCompiler{})
	if err := ok.CheckToolchain(context.Background()); err != nil {
		t.Errorf("CheckToolchain() error = %v", err)
	}

	missing := testGenerator(t, &mockCompiler{availErr: latex.ErrLatexNotFound})
	err := missing.CheckToolchain(context.Background())
	if !errors.Is(err, latex.ErrLatexNotFound) {
		t.Fatalf("CheckToolchain() error = %v, want ErrLatexNotFound", err)
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("error %q, want installation hint", err)
	}
}

func TestJobName(t *testing.T) {
	t.Parallel()

	g := testGenerator(t, &mockCompiler{})

	report := validReport()
	report.Ticker = "brk.b"
	report.Company = "Berkshire Hathaway"

	got := g.jobName(report)
	want := "recommendation_BRK.B_Berkshire_Hathaway_brkb_20260825_143005"
	if got != want {
		t.Errorf("jobName() = %q, want %q", got, want)
	}
}

func TestWithTimeoutPanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithTimeout(0) did not panic")
		}
	}()
	WithTimeout(0)
}

func TestNewRejectsInvalidAssetPath(t *testing.T) {
	t.Parallel()

	if _, err := New(WithAssetPath(filepath.Join(t.TempDir(), "absent"))); err == nil {
		t.Error("New() with missing asset path, want error")
	}
}
