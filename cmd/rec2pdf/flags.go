package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	output    string
	logs      string
	images    string
	assetPath string
	template  string
	timeout   string
	workers   int
	quiet     bool
	verbose   bool
}

// parseGenerateFlags parses generate command flags and returns positional args.
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory for generated PDFs")
	fs.StringVar(&f.logs, "logs", "", "directory for preserved compiler logs")
	fs.StringVarP(&f.images, "images", "i", "", "directory report image filenames resolve against")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory (templates, default logo)")
	fs.StringVar(&f.template, "template", "", "layout override: classic, modern, detailed")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "generation timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for batch mode (0 = auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-report detail")

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
