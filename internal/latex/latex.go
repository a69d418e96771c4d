// Package latex wraps the external pdflatex binary. The compiler is treated
// as an unreliable collaborator: its exit code is advisory and the produced
// PDF artifact is the authoritative success signal.
package latex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Sentinel errors for compilation failures.
var (
	ErrLatexNotFound  = errors.New("pdflatex not found")
	ErrCompileFailed  = errors.New("LaTeX compilation failed")
	ErrMissingSource  = errors.New("LaTeX source file not found")
	ErrCompileTimeout = errors.New("LaTeX compilation timed out")
)

// diagnosticTail is how many fatal log lines are surfaced on failure.
const diagnosticTail = 5

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Result reports a successful compilation.
type Result struct {
	PDFPath  string   // produced artifact inside the staging directory
	LogPath  string   // compiler log, present even on warning-laden runs
	Warnings []string // non-fatal compiler complaints worth surfacing
}

// Compiler invokes pdflatex on a staged .tex file.
type Compiler struct {
	Runner CommandRunner
	Binary string
}

// NewCompiler creates a Compiler with a real command runner. The binary
// defaults to pdflatex; REC2PDF_LATEX_BIN overrides it.
func NewCompiler() *Compiler {
	binary := os.Getenv("REC2PDF_LATEX_BIN")
	if binary == "" {
		binary = "pdflatex"
	}
	return &Compiler{Runner: &ExecRunner{}, Binary: binary}
}

// Available probes whether the compiler binary can be invoked.
func (c *Compiler) Available(ctx context.Context) error {
	if _, _, err := c.Runner.Run(ctx, "", c.Binary, "--version"); err != nil {
		return fmt.Errorf("%w: %v", ErrLatexNotFound, err)
	}
	return nil
}

// Compile runs the compiler on texPath with output routed to stagingDir.
//
// Success is decided by artifact existence, not exit status: pdflatex in
// nonstopmode exits nonzero for recoverable errors while still producing a
// usable PDF. A nonzero exit with an artifact becomes a warning; a missing
// artifact is a failure no matter what the exit code said.
func (c *Compiler) Compile(ctx context.Context, texPath, stagingDir string) (*Result, error) {
	if _, err := os.Stat(texPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingSource, texPath)
	}

	job := strings.TrimSuffix(filepath.Base(texPath), filepath.Ext(texPath))
	pdfPath := filepath.Join(stagingDir, job+".pdf")
	logPath := filepath.Join(stagingDir, job+".log")

	_, stderr, runErr := c.Runner.Run(ctx, stagingDir, c.Binary,
		"-interaction=nonstopmode",
		"-output-directory", stagingDir,
		texPath,
	)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompileTimeout, ctx.Err())
	}

	if _, err := os.Stat(pdfPath); err == nil {
		result := &Result{PDFPath: pdfPath, LogPath: logPath}
		if runErr != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("compiler exited with error but produced the PDF: %v", runErr))
		}
		return result, nil
	}

	if runErr != nil && isNotFound(runErr) {
		return nil, fmt.Errorf("%w: %s", ErrLatexNotFound, c.Binary)
	}

	diags := fatalLogLines(logPath)
	if len(diags) == 0 && strings.TrimSpace(stderr) != "" {
		diags = tail(strings.Split(strings.TrimSpace(stderr), "\n"), diagnosticTail)
	}
	if len(diags) > 0 {
		return nil, fmt.Errorf("%w:\n%s", ErrCompileFailed, strings.Join(diags, "\n"))
	}
	return nil, ErrCompileFailed
}

// fatalLogLines extracts the last few fatal diagnostics from a compiler log.
// pdflatex marks hard errors with a leading "!" and aborts with "Fatal" or
// "Emergency stop" lines.
func fatalLogLines(logPath string) []string {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return nil
	}

	var fatal []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "!") ||
			strings.Contains(trimmed, "Fatal") ||
			strings.Contains(trimmed, "Emergency stop") {
			fatal = append(fatal, trimmed)
		}
	}
	return tail(fatal, diagnosticTail)
}

// tail returns the last n elements of lines.
func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// isNotFound reports whether err stems from a missing executable.
func isNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return errors.Is(execErr.Err, exec.ErrNotFound)
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
