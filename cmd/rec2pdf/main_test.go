package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    time.Now,
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return env, &stdout, &stderr
}

func TestRunNoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run([]string{"rec2pdf"}, env); code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage", code)
	}
	if !strings.Contains(stderr.String(), "Usage: rec2pdf") {
		t.Errorf("stderr = %q, want usage", stderr.String())
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run([]string{"rec2pdf", "version"}, env); code != ExitSuccess {
		t.Errorf("run(version) = %d, want ExitSuccess", code)
	}
	if !strings.Contains(stdout.String(), "rec2pdf "+Version) {
		t.Errorf("stdout = %q, want version line", stdout.String())
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"help", "-h", "--help"} {
		env, stdout, _ := testEnv()
		if code := run([]string{"rec2pdf", arg}, env); code != ExitSuccess {
			t.Errorf("run(%s) = %d, want ExitSuccess", arg, code)
		}
		if !strings.Contains(stdout.String(), "Commands:") {
			t.Errorf("run(%s) stdout = %q, want command list", arg, stdout.String())
		}
	}
}

func TestRunGenerateWithoutReports(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run([]string{"rec2pdf", "generate"}, env); code != ExitUsage {
		t.Errorf("run(generate) = %d, want ExitUsage", code)
	}
	if !strings.Contains(stderr.String(), "no report given") {
		t.Errorf("stderr = %q, want missing-report message", stderr.String())
	}
}

func TestRunBareReportPathImpliesGenerate(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if code := run([]string{"rec2pdf", missing}, env); code != ExitIO {
		t.Errorf("run(%s) = %d, want ExitIO", missing, code)
	}
	if !strings.Contains(stderr.String(), "report file not found") {
		t.Errorf("stderr = %q, want not-found message", stderr.String())
	}
}

func TestGeneratorOptionsRejectsBadTimeout(t *testing.T) {
	t.Parallel()

	for _, timeout := range []string{"soon", "-3s", "0"} {
		flags := &generateFlags{timeout: timeout}
		if _, err := generatorOptions(flags); err == nil {
			t.Errorf("generatorOptions(timeout=%q) error = nil, want error", timeout)
		}
	}
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		flagWorkers int
		jobs        int
		want        int
	}{
		{name: "explicit flag wins", flagWorkers: 4, jobs: 10, want: 4},
		{name: "capped by job count", flagWorkers: 8, jobs: 3, want: 3},
		{name: "single job", flagWorkers: 0, jobs: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolvePoolSize(tt.flagWorkers, tt.jobs); got != tt.want {
				t.Errorf("resolvePoolSize(%d, %d) = %d, want %d",
					tt.flagWorkers, tt.jobs, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSizeAutoBounds(t *testing.T) {
	t.Parallel()

	got := resolvePoolSize(0, 100)
	if got < 1 || got > 8 {
		t.Errorf("resolvePoolSize(0, 100) = %d, want within [1, 8]", got)
	}
}
