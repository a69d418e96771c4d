package rec2pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rec2pdf/internal/assets"
	"github.com/alnah/go-rec2pdf/internal/dateutil"
	"github.com/alnah/go-rec2pdf/internal/fileutil"
	"github.com/alnah/go-rec2pdf/internal/hints"
	"github.com/alnah/go-rec2pdf/internal/pipeline"
)

// Template slot tokens, matched by exact substring in template files.
const (
	slotMainTitle     = "MAINTITLEPLACEHOLDER"
	slotSubtitle      = "SUBTITLEPLACEHOLDER"
	slotDate          = "DATEPLACEHOLDER"
	slotActionBox     = "ACTIONBOXPLACEHOLDER"
	slotEntryPrice    = "ENTRYPRICEPLACEHOLDER"
	slotTargetPrice   = "TARGETPRICEPLACEHOLDER"
	slotStopLoss      = "STOPLOSSPLACEHOLDER"
	slotRiskLevel     = "RISKLEVELPLACEHOLDER"
	slotThesis        = "INVESTMENTTHESISPLACEHOLDER"
	slotRationale     = "RATIONALEPLACEHOLDER"
	slotCompanyLogo   = "COMPANYLOGOPLACEHOLDER"
	slotChartImage    = "CHARTIMAGEPLACEHOLDER"
	slotAnalysisTypes = "ANALYSISTYPESPLACEHOLDER"
	slotCategory      = "CATEGORYPLACEHOLDER"
	slotAction        = "ACTIONPLACEHOLDER"
	slotCompanyName   = "COMPANYNAMEPLACEHOLDER"
	slotTicker        = "TICKERPLACEHOLDER"
)

// documentEnd is the closing marker every rendered source must carry.
const documentEnd = `\end{document}`

// defaultLogoName is the staged filename of the fallback logo.
const defaultLogoName = "default_logo.png"

// assembler substitutes report data into a layout template and stages the
// referenced image assets next to the rendered source.
type assembler struct {
	assets    assets.AssetLoader
	imagesDir string
}

// assemble renders the template for the report. Body content arrives
// already converted to LaTeX; scalar fields go through the literal escape
// only. Missing images are non-fatal: the logo slot falls back to the
// embedded default and the chart slot substitutes empty.
func (a *assembler) assemble(report *Report, thesis, rationale, stagingDir string, now time.Time) (string, []string, error) {
	layout := report.Template
	if layout == "" {
		layout = TemplateClassic
	}

	source, err := a.assets.LoadTemplate(string(layout))
	if err != nil {
		return "", nil, fmt.Errorf("loading template: %w%s",
			err, hints.ForTemplateNotFound(assets.TemplateNames()))
	}

	var warnings []string

	date, err := dateutil.ResolveDate(report.ReportDate, now)
	if err != nil {
		return "", nil, fmt.Errorf("resolving report date: %w", err)
	}

	replacements := []struct {
		slot  string
		value string
	}{
		{slotMainTitle, pipeline.EscapeLiteral(report.Title())},
		{slotSubtitle, pipeline.EscapeLiteral(report.Subtitle)},
		{slotDate, pipeline.EscapeLiteral(date)},
		{slotActionBox, `\actionbox{` + pipeline.EscapeLiteral(report.Action) + `}`},
		{slotEntryPrice, formatPrice(report.EntryPrice)},
		{slotTargetPrice, formatPrice(report.TargetPrice)},
		{slotStopLoss, formatPrice(report.StopLoss)},
		{slotRiskLevel, pipeline.EscapeLiteral(report.RiskLevel)},
		{slotThesis, thesis},
		{slotRationale, rationale},
		{slotAnalysisTypes, buildChecklist(report.AnalysisTypes)},
		{slotCategory, pipeline.EscapeLiteral(report.Category)},
		{slotAction, pipeline.EscapeLiteral(report.Action)},
		{slotCompanyName, pipeline.EscapeLiteral(report.Company)},
		{slotTicker, pipeline.EscapeLiteral(report.Ticker)},
	}
	for _, r := range replacements {
		source = strings.ReplaceAll(source, r.slot, r.value)
	}

	logoName, logoWarnings, err := a.stageLogo(report.CompanyLogo, stagingDir)
	if err != nil {
		return "", nil, err
	}
	warnings = append(warnings, logoWarnings...)
	source = strings.ReplaceAll(source, slotCompanyLogo, logoName)

	chartBlock, chartWarnings := a.stageChart(report.ChartImage, stagingDir)
	warnings = append(warnings, chartWarnings...)
	source = strings.ReplaceAll(source, slotChartImage, chartBlock)

	// The closing marker must survive whatever the body content did.
	if !strings.HasSuffix(strings.TrimSpace(source), documentEnd) {
		source = strings.TrimRight(source, " \t\n") + "\n" + documentEnd + "\n"
	}

	return source, warnings, nil
}

// stageLogo copies the report's logo into the staging directory, falling
// back to the embedded default when absent or missing.
func (a *assembler) stageLogo(logo, stagingDir string) (string, []string, error) {
	var warnings []string

	if logo != "" {
		src := filepath.Join(a.imagesDir, filepath.Base(logo))
		if fileutil.FileExists(src) {
			dest := filepath.Join(stagingDir, filepath.Base(logo))
			if err := fileutil.CopyFile(src, dest); err != nil {
				return "", nil, fmt.Errorf("staging company logo: %w", err)
			}
			return filepath.Base(logo), nil, nil
		}
		warnings = append(warnings, fmt.Sprintf("company logo %q not found%s",
			logo, hints.ForMissingImage(a.imagesDir)))
	}

	data, err := a.assets.DefaultLogo()
	if err != nil {
		return "", nil, fmt.Errorf("loading default logo: %w", err)
	}
	dest := filepath.Join(stagingDir, defaultLogoName)
	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("staging default logo: %w", err)
	}
	return defaultLogoName, warnings, nil
}

// stageChart copies the chart image and returns the inclusion block, or an
// empty substitution when no usable chart exists.
func (a *assembler) stageChart(chart, stagingDir string) (string, []string) {
	if chart == "" {
		return "", nil
	}

	name := filepath.Base(chart)
	src := filepath.Join(a.imagesDir, name)
	if !fileutil.FileExists(src) {
		return "", []string{fmt.Sprintf("chart image %q not found%s",
			chart, hints.ForMissingImage(a.imagesDir))}
	}

	dest := filepath.Join(stagingDir, name)
	if err := fileutil.CopyFile(src, dest); err != nil {
		return "", []string{fmt.Sprintf("could not stage chart image %q: %v", chart, err)}
	}

	block := "\n\\vspace{1em}\n\\begin{center}\n" +
		`\includegraphics[width=\textwidth, keepaspectratio]{` + name + "}\n" +
		"\\end{center}\n\\vspace{1em}\n"
	return block, nil
}

// buildChecklist renders the analysis coverage list: every known category
// in declared order, with a marked or unmarked indicator box.
func buildChecklist(selected []string) string {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}

	var b strings.Builder
	b.WriteString("\\begin{itemize}[leftmargin=0pt, itemsep=0.5em]\n")
	for _, at := range AnalysisTypes {
		label := pipeline.EscapeLiteral(at)
		if chosen[at] {
			b.WriteString(`    \item[\fcolorbox{green}{green!20}{\textbf{\textcolor{white}{\ding{51}}}}] \textbf{` + label + "}\n")
		} else {
			b.WriteString(`    \item[\fcolorbox{gray}{white}{\phantom{\ding{51}}}] \textbf{` + label + "}\n")
		}
	}
	b.WriteString("\\end{itemize}")
	return b.String()
}

// formatPrice renders a trade plan price, or a dash for a blank field.
func formatPrice(value float64) string {
	if value == 0 {
		return "--"
	}
	return fmt.Sprintf("%.2f", value)
}
