package rec2pdf

import "time"

// Result reports a completed generation.
type Result struct {
	PDFPath   string   // final artifact location
	LogPath   string   // preserved compiler log, empty if none was written
	TexSource string   // rendered LaTeX source, kept for debugging
	Warnings  []string // non-fatal repairs and substitutions
}

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	timeout   time.Duration
	assetPath string // custom asset base path, empty = embedded only
	imagesDir string // where report image filenames are resolved
	outputDir string // where the final PDF lands
	logsDir   string // where compiler logs are preserved, empty = outputDir
}

// defaultTimeout bounds one compilation run.
const defaultTimeout = 2 * time.Minute

// defaultImagesDir is where report image filenames are resolved from.
const defaultImagesDir = "images"

// WithTimeout sets the generation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("rec2pdf: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithAssetPath sets a custom asset directory. Templates and the default
// logo are looked up there first, falling back to the embedded assets.
func WithAssetPath(path string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = path
	}
}

// WithImagesDir sets the directory report image filenames resolve against.
func WithImagesDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.imagesDir = dir
	}
}

// WithOutputDir sets where generated PDFs are written.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.outputDir = dir
	}
}

// WithLogsDir sets where compiler logs are preserved. Defaults to the
// output directory.
func WithLogsDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.logsDir = dir
	}
}
