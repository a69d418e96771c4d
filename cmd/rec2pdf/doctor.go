package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Latex    latexInfo  `json:"latex"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// latexInfo holds pdflatex detection results.
type latexInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	LatexBin string `json:"rec2pdf_latex_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:       runtime.GOOS,
			Arch:     runtime.GOARCH,
			LatexBin: os.Getenv("REC2PDF_LATEX_BIN"),
		},
	}

	checkLatex(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkLatex locates the compiler binary and records its version line.
func checkLatex(result *doctorResult) {
	binary := result.Env.LatexBin
	if binary == "" {
		binary = "pdflatex"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found in PATH; install a TeX distribution or set REC2PDF_LATEX_BIN", binary))
		return
	}
	result.Latex.Found = true
	result.Latex.Path = path

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- binary resolved via LookPath
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s found but --version failed: %v", binary, err))
		return
	}
	if lines := strings.SplitN(strings.TrimSpace(string(out)), "\n", 2); len(lines) > 0 {
		result.Latex.Version = strings.TrimSpace(lines[0])
	}
}

// checkSystem verifies the temp directory is writable; staging lives there.
func checkSystem(result *doctorResult) {
	tmp, err := os.CreateTemp("", "rec2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("temp directory not writable: %v", err))
		return
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult renders a human-readable report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "rec2pdf doctor: %s\n\n", result.Status)

	if result.Latex.Found {
		fmt.Fprintf(w, "  pdflatex: %s\n", result.Latex.Path)
		if result.Latex.Version != "" {
			fmt.Fprintf(w, "  version:  %s\n", result.Latex.Version)
		}
	} else {
		fmt.Fprintln(w, "  pdflatex: not found")
	}

	fmt.Fprintf(w, "  system:   %s/%s, temp writable: %t\n",
		result.Env.OS, result.Env.Arch, result.System.TempWritable)
	if result.Env.LatexBin != "" {
		fmt.Fprintf(w, "  REC2PDF_LATEX_BIN: %s\n", result.Env.LatexBin)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
}
