package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns for structural repair of emitted LaTeX.
var (
	// A sectioning command whose closing brace drifted onto its own line.
	orphanSectionBrace = regexp.MustCompile(`(\\(?:sub)*(?:section|paragraph)\*?\{[^{}\n]*)\n\s*\}`)

	// A line opening a sectioning command.
	sectionLine = regexp.MustCompile(`^\s*\\(?:sub)*(?:section|paragraph)\*?\{`)
)

// RepairLatex fixes the structural damage conversion sometimes leaves in
// emitted LaTeX, mainly unbalanced braces around sectioning commands.
// Returns the repaired source and human-readable warnings for every repair
// it could not make safely on its own.
//
// Repairs are conservative: a brace is only added or removed where the
// surrounding lines make the intent unambiguous. Anything else becomes a
// warning so the compiler log points at the right place.
func RepairLatex(markup string) (string, []string) {
	var warnings []string

	markup = strings.ReplaceAll(markup, "\x00", "")
	markup = strings.ReplaceAll(markup, "\r", "")

	// A lone trailing backslash aborts the compiler at end of input.
	trimmed := strings.TrimRight(markup, " \t\n")
	if strings.HasSuffix(trimmed, `\`) && !strings.HasSuffix(trimmed, `\\`) {
		markup = strings.TrimRight(markup, " \t\n")
		markup = markup[:len(markup)-1]
	}

	// Rejoin a closing brace that drifted onto the line after its
	// sectioning command.
	markup = orphanSectionBrace.ReplaceAllString(markup, "$1}")

	lines := strings.Split(markup, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		// Sectioning command missing exactly its closing brace.
		if sectionLine.MatchString(line) {
			open := strings.Count(line, "{")
			closeCount := strings.Count(line, "}")
			if open-closeCount == 1 {
				line += "}"
				warnings = append(warnings, fmt.Sprintf("line %d: closed unterminated sectioning command", i+1))
			}
			out = append(out, line)
			continue
		}

		// A standalone closing brace is conversion debris when it follows a
		// complete sectioning command or a line with no opener in sight;
		// drop it rather than unbalance the document.
		if strings.TrimSpace(line) == "}" {
			prev := lastNonBlank(out)
			completeSection := sectionLine.MatchString(prev) &&
				strings.Count(prev, "{") == strings.Count(prev, "}")
			if completeSection || (!strings.HasSuffix(prev, "{") && !strings.HasSuffix(prev, "}")) {
				warnings = append(warnings, fmt.Sprintf("line %d: removed stray closing brace", i+1))
				continue
			}
		}

		out = append(out, line)
	}

	repaired := strings.Join(out, "\n")

	if open, closeCount := strings.Count(repaired, "{"), strings.Count(repaired, "}"); open != closeCount {
		warnings = append(warnings, fmt.Sprintf("unbalanced braces remain after repair: %d open, %d close", open, closeCount))
	}

	return repaired, warnings
}

// lastNonBlank returns the last line of lines that is not blank, or "".
func lastNonBlank(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return lines[i]
		}
	}
	return ""
}
