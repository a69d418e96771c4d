// Package assets provides the LaTeX report templates and default images
// used for PDF generation. Assets can be loaded from embedded files or
// custom filesystem paths.
package assets
