package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"time"

	rec2pdf "github.com/alnah/go-rec2pdf"
	"github.com/alnah/go-rec2pdf/internal/config"
	"github.com/alnah/go-rec2pdf/internal/hints"
)

// runGenerateCmd executes the generate command and returns an exit code.
func runGenerateCmd(args []string, env *Environment) int {
	flags, reports, err := parseGenerateFlags(args)
	if err != nil {
		return ExitUsage
	}
	if len(reports) == 0 {
		printGenerateUsage(env.Stderr)
		fmt.Fprintf(env.Stderr, "\nno report given%s\n", hints.ForReportNotFound(nil))
		return ExitUsage
	}

	opts, err := generatorOptions(flags)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(reports) == 1 {
		return generateOne(ctx, reports[0], flags, opts, env)
	}
	return generateBatch(ctx, reports, flags, opts, env)
}

// generateOne renders a single report file.
func generateOne(ctx context.Context, path string, flags *generateFlags, opts []rec2pdf.Option, env *Environment) int {
	gen, err := rec2pdf.New(opts...)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	if code := generateReport(ctx, gen, path, flags, env); code != ExitSuccess {
		return code
	}
	return ExitSuccess
}

// generateBatch renders several report files on a worker pool. Each worker
// gets its own Generator so conversion stages never share state.
func generateBatch(ctx context.Context, paths []string, flags *generateFlags, opts []rec2pdf.Option, env *Environment) int {
	workers := resolvePoolSize(flags.workers, len(paths))
	jobs := make(chan string)
	codes := make(chan int, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gen, err := rec2pdf.New(opts...)
			if err != nil {
				fmt.Fprintln(env.Stderr, err)
				for range jobs {
					codes <- exitCodeFor(err)
				}
				return
			}
			for path := range jobs {
				codes <- generateReport(ctx, gen, path, flags, env)
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
	close(codes)

	worst := ExitSuccess
	for code := range codes {
		if code != ExitSuccess {
			worst = code
		}
	}
	return worst
}

// generateReport loads one report file, renders it, and reports the outcome.
func generateReport(ctx context.Context, gen *rec2pdf.Generator, path string, flags *generateFlags, env *Environment) int {
	file, err := config.LoadReport(path)
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
		return exitCodeFor(err)
	}

	report := file.ToReport()
	if flags.template != "" {
		report.Template = rec2pdf.TemplateID(flags.template)
	}

	result, err := gen.Generate(ctx, report)
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: %v\n", path, err)
		return exitCodeFor(err)
	}

	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", result.PDFPath)
		for _, warning := range result.Warnings {
			fmt.Fprintf(env.Stderr, "  warning: %s\n", warning)
		}
	}
	if flags.verbose && result.LogPath != "" {
		fmt.Fprintf(env.Stderr, "  compiler log: %s\n", result.LogPath)
	}

	return ExitSuccess
}

// generatorOptions maps parsed flags onto library options.
func generatorOptions(flags *generateFlags) ([]rec2pdf.Option, error) {
	var opts []rec2pdf.Option

	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid timeout %q (use e.g. 30s, 2m)", flags.timeout)
		}
		opts = append(opts, rec2pdf.WithTimeout(d))
	}
	if flags.output != "" {
		opts = append(opts, rec2pdf.WithOutputDir(flags.output))
	}
	if flags.logs != "" {
		opts = append(opts, rec2pdf.WithLogsDir(flags.logs))
	}
	if flags.images != "" {
		opts = append(opts, rec2pdf.WithImagesDir(flags.images))
	}
	if flags.assetPath != "" {
		opts = append(opts, rec2pdf.WithAssetPath(flags.assetPath))
	}

	return opts, nil
}

// resolvePoolSize determines the worker count for batch mode.
// Priority: explicit flag > GOMAXPROCS-based calculation, capped by jobs.
func resolvePoolSize(flagWorkers, jobs int) int {
	n := flagWorkers
	if n <= 0 {
		// automaxprocs has already adjusted GOMAXPROCS for containers.
		n = runtime.GOMAXPROCS(0) / 2
		if n < 1 {
			n = 1
		}
		if n > 8 {
			n = 8
		}
	}
	if n > jobs {
		n = jobs
	}
	return n
}
