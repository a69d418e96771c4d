// Package rec2pdf renders investment recommendation reports to PDF.
//
// A Report carries scalar trade data plus two dual-track content bodies
// (thesis and rationale) that may arrive as Markdown from a generative
// backend or as rich text from a human editor. Generate normalizes the
// content, converts it to LaTeX, assembles it into one of the built-in
// report templates and compiles the result with pdflatex.
//
//	gen, err := rec2pdf.New(rec2pdf.WithOutputDir("out"))
//	if err != nil { ... }
//	result, err := gen.Generate(ctx, report)
package rec2pdf
