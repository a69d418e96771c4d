package rec2pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rec2pdf/internal/assets"
	"github.com/alnah/go-rec2pdf/internal/fileutil"
	"github.com/alnah/go-rec2pdf/internal/hints"
	"github.com/alnah/go-rec2pdf/internal/latex"
	"github.com/alnah/go-rec2pdf/internal/pipeline"
)

// ErrNilReport indicates Generate was called without a report.
var ErrNilReport = errors.New("report cannot be nil")

// pdfCompiler abstracts the external LaTeX toolchain.
type pdfCompiler interface {
	Available(ctx context.Context) error
	Compile(ctx context.Context, texPath, stagingDir string) (*latex.Result, error)
}

// Compile-time interface checks for the default stage implementations.
var (
	_ pipeline.TextNormalizer    = (*pipeline.GeneratedTextNormalizer)(nil)
	_ pipeline.RichTextRenderer  = (*pipeline.GoldmarkRenderer)(nil)
	_ pipeline.MarkdownRenderer  = (*pipeline.HTMLMarkdownRenderer)(nil)
	_ pipeline.LatexConverter    = (*pipeline.StructuralConverter)(nil)
	_ pdfCompiler                = (*latex.Compiler)(nil)
	_ assets.AssetLoader         = (*assets.AssetResolver)(nil)
)

// Generator orchestrates the recommendation-to-PDF pipeline.
type Generator struct {
	cfg generatorConfig

	normalizer pipeline.TextNormalizer
	richText   pipeline.RichTextRenderer
	markdown   pipeline.MarkdownRenderer
	toLatex    pipeline.LatexConverter
	assets     assets.AssetLoader
	compiler   pdfCompiler

	now func() time.Time
}

// New creates a Generator with default stages.
// Use options to customize behavior (e.g., WithTimeout, WithOutputDir).
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout:   defaultTimeout,
			imagesDir: defaultImagesDir,
			outputDir: ".",
		},
		normalizer: &pipeline.GeneratedTextNormalizer{},
		richText:   pipeline.NewGoldmarkRenderer(),
		markdown:   pipeline.NewHTMLMarkdownRenderer(),
		toLatex:    &pipeline.StructuralConverter{},
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	// Create collaborators if not injected (e.g., by tests)
	if g.assets == nil {
		resolver, err := assets.NewAssetResolver(g.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		g.assets = resolver
	}
	if g.compiler == nil {
		g.compiler = latex.NewCompiler()
	}

	return g, nil
}

// CheckToolchain probes whether the external compiler can be invoked.
func (g *Generator) CheckToolchain(ctx context.Context) error {
	if err := g.compiler.Available(ctx); err != nil {
		return fmt.Errorf("%w%s", err, hints.ForLatexNotFound())
	}
	return nil
}

// ToRichText renders Markdown content as a rich-text fragment for the
// editing surface.
func (g *Generator) ToRichText(ctx context.Context, markdown string) (string, error) {
	return g.richText.ToRichText(ctx, markdown)
}

// ToMarkdown converts a rich-text fragment back to Markdown.
func (g *Generator) ToMarkdown(ctx context.Context, richText string) (string, error) {
	return g.markdown.ToMarkdown(ctx, richText)
}

// Generate runs the full pipeline and writes the PDF to the output
// directory. The context is used for cancellation on top of the
// configured timeout.
//
// Success is decided by the produced artifact: a compiler run that exits
// nonzero but leaves a PDF behind succeeds with a warning.
func (g *Generator) Generate(ctx context.Context, report *Report) (*Result, error) {
	if report == nil {
		return nil, ErrNilReport
	}
	if err := report.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	thesis, err := g.renderBody(ctx, report.Thesis)
	if err != nil {
		return nil, fmt.Errorf("converting thesis: %w", err)
	}
	rationale, err := g.renderBody(ctx, report.Rationale)
	if err != nil {
		return nil, fmt.Errorf("converting rationale: %w", err)
	}

	// Structural repair covers the converted bodies only. The template is
	// trusted source; running the brace heuristics over it could mangle a
	// valid preamble.
	var warnings []string
	thesis, repairWarnings := repairBody("thesis", thesis)
	warnings = append(warnings, repairWarnings...)
	rationale, repairWarnings = repairBody("rationale", rationale)
	warnings = append(warnings, repairWarnings...)

	stagingDir, err := os.MkdirTemp("", "rec2pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	asm := &assembler{assets: g.assets, imagesDir: g.cfg.imagesDir}
	source, assembleWarnings, err := asm.assemble(report, thesis, rationale, stagingDir, g.now())
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, assembleWarnings...)

	job := g.jobName(report)
	texPath := filepath.Join(stagingDir, job+".tex")
	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("writing LaTeX source: %w", err)
	}

	compiled, err := g.compiler.Compile(ctx, texPath, stagingDir)
	if err != nil {
		return nil, g.compileError(err, stagingDir, job)
	}
	warnings = append(warnings, compiled.Warnings...)

	pdfPath, logPath, err := g.collectArtifacts(compiled, job)
	if err != nil {
		return nil, err
	}

	return &Result{
		PDFPath:   pdfPath,
		LogPath:   logPath,
		TexSource: source,
		Warnings:  warnings,
	}, nil
}

// repairBody runs structural repair on one converted body and labels the
// warnings with the section they came from, since the line numbers are
// relative to that body.
func repairBody(section, markup string) (string, []string) {
	repaired, repairs := pipeline.RepairLatex(markup)
	labeled := make([]string, 0, len(repairs))
	for _, r := range repairs {
		labeled = append(labeled, section+": "+r)
	}
	return repaired, labeled
}

// renderBody runs one content body through normalize, rich-text rendering
// (for Markdown-native content) and structural conversion.
func (g *Generator) renderBody(ctx context.Context, body ContentBody) (string, error) {
	content, isMarkdown := body.ForExport()
	content = g.normalizer.Normalize(ctx, content)

	if isMarkdown {
		rich, err := g.richText.ToRichText(ctx, content)
		if err != nil {
			return "", err
		}
		content = rich
	}

	return g.toLatex.ToLatex(ctx, content)
}

// compileError preserves the compiler log outside the doomed staging
// directory and decorates the error with an actionable hint.
func (g *Generator) compileError(err error, stagingDir, job string) error {
	switch {
	case errors.Is(err, latex.ErrLatexNotFound):
		return fmt.Errorf("%w%s", err, hints.ForLatexNotFound())
	case errors.Is(err, latex.ErrCompileTimeout):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}

	logPath := g.preserveLog(stagingDir, job)
	return fmt.Errorf("%w%s", err, hints.ForCompileFailure(logPath))
}

// collectArtifacts moves the PDF and its log out of staging.
func (g *Generator) collectArtifacts(compiled *latex.Result, job string) (pdfPath, logPath string, err error) {
	if err := fileutil.EnsureDir(g.cfg.outputDir); err != nil {
		return "", "", fmt.Errorf("creating output directory: %w", err)
	}

	pdfPath = filepath.Join(g.cfg.outputDir, job+".pdf")
	if err := fileutil.MoveFile(compiled.PDFPath, pdfPath); err != nil {
		return "", "", fmt.Errorf("moving PDF to output directory: %w", err)
	}

	logPath = g.preserveLog(filepath.Dir(compiled.LogPath), job)
	return pdfPath, logPath, nil
}

// preserveLog copies the compiler log into the logs directory if one was
// written. Returns the preserved path, or "" when there is no log.
func (g *Generator) preserveLog(stagingDir, job string) string {
	src := filepath.Join(stagingDir, job+".log")
	if !fileutil.FileExists(src) {
		return ""
	}

	dir := g.cfg.logsDir
	if dir == "" {
		dir = g.cfg.outputDir
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return ""
	}

	dest := filepath.Join(dir, job+".log")
	if err := fileutil.MoveFile(src, dest); err != nil {
		return ""
	}
	return dest
}

// jobName builds the artifact base name:
// recommendation_<TICKER>_<sanitized title>_<timestamp>.
func (g *Generator) jobName(report *Report) string {
	ticker := strings.ToUpper(strings.TrimSpace(report.Ticker))
	title := fileutil.SanitizeTitle(report.Title())
	stamp := g.now().Format("20060102_150405")
	return fmt.Sprintf("recommendation_%s_%s_%s", ticker, title, stamp)
}
