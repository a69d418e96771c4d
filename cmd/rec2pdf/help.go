package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rec2pdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Render recommendation report files to PDF")
	fmt.Fprintln(w, "  doctor     Check the LaTeX toolchain and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rec2pdf generate --help' for generate flags.")
	fmt.Fprintln(w, "A bare report path works too: rec2pdf report.yaml")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rec2pdf generate <report>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render one or more recommendation report files to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  report    Report file path, or a name searched in the current")
	fmt.Fprintln(w, "            directory and ~/.config/rec2pdf/ (.yaml, .yml)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <dir>      Output directory for generated PDFs")
	fmt.Fprintln(w, "      --logs <dir>        Directory for preserved compiler logs")
	fmt.Fprintln(w, "  -i, --images <dir>      Directory report image filenames resolve against")
	fmt.Fprintln(w, "      --asset-path <dir>  Custom asset directory (templates, default logo)")
	fmt.Fprintln(w, "      --template <name>   Layout override: classic, modern, detailed")
	fmt.Fprintln(w, "  -t, --timeout <dur>     Generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>       Parallel workers for batch mode (0 = auto)")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show per-report detail")
}
