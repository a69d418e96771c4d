package main

import "testing"

func TestParseGenerateFlagsDefaults(t *testing.T) {
	t.Parallel()

	f, args, err := parseGenerateFlags([]string{"report.yaml"})
	if err != nil {
		t.Fatalf("parseGenerateFlags() error = %v", err)
	}
	if len(args) != 1 || args[0] != "report.yaml" {
		t.Errorf("positional args = %v", args)
	}
	if f.output != "" || f.logs != "" || f.template != "" || f.timeout != "" {
		t.Errorf("defaults not empty: %+v", f)
	}
	if f.workers != 0 || f.quiet || f.verbose {
		t.Errorf("defaults not zero: %+v", f)
	}
}

func TestParseGenerateFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseGenerateFlags([]string{
		"-o", "out",
		"--logs", "logs",
		"-i", "img",
		"--asset-path", "assets",
		"--template", "modern",
		"-t", "5m",
		"-w", "4",
		"-q",
		"a.yaml", "b.yaml",
	})
	if err != nil {
		t.Fatalf("parseGenerateFlags() error = %v", err)
	}

	if f.output != "out" || f.logs != "logs" || f.images != "img" {
		t.Errorf("directory flags = %+v", f)
	}
	if f.assetPath != "assets" || f.template != "modern" || f.timeout != "5m" {
		t.Errorf("option flags = %+v", f)
	}
	if f.workers != 4 || !f.quiet || f.verbose {
		t.Errorf("mode flags = %+v", f)
	}
	if len(args) != 2 || args[0] != "a.yaml" || args[1] != "b.yaml" {
		t.Errorf("positional args = %v", args)
	}
}

func TestParseGenerateFlagsUnknownFlag(t *testing.T) {
	t.Parallel()

	if _, _, err := parseGenerateFlags([]string{"--bogus"}); err == nil {
		t.Error("parseGenerateFlags(--bogus) error = nil, want error")
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	if !hasVerboseFlag([]string{"rec2pdf", "generate", "-v", "a.yaml"}) {
		t.Error("hasVerboseFlag(-v) = false")
	}
	if !hasVerboseFlag([]string{"rec2pdf", "--verbose"}) {
		t.Error("hasVerboseFlag(--verbose) = false")
	}
	if hasVerboseFlag([]string{"rec2pdf", "generate", "a.yaml"}) {
		t.Error("hasVerboseFlag() = true without flag")
	}
}
