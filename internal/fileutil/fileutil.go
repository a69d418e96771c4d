// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrSourceNotFound = errors.New("source file not found")
	ErrEmptySource    = errors.New("source file is empty")
)

// MaxTitleLength caps the sanitized title segment used in output filenames.
const MaxTitleLength = 30

var (
	// Characters that are unsafe in filenames (keep word chars, spaces, hyphens).
	unsafeFilenameChars = regexp.MustCompile(`[^\w\s-]`)

	// Runs of hyphens/whitespace collapse to a single underscore.
	separatorRuns = regexp.MustCompile(`[-\s]+`)
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than
// a bare name. A string containing path separators (/, \) is treated as a path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}
	return nil
}

// CopyFile copies src to dst, overwriting dst if present.
// Empty source files are rejected: a zero-byte image aborts the typesetting
// run with an opaque error, so catch it here.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, src)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySource, src)
	}

	in, err := os.Open(src) // #nosec G304 -- path comes from validated report data
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- destination is the render staging dir
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %q: %w", src, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", dst, err)
	}
	return nil
}

// SanitizeTitle converts a free-form report title into a filename-safe
// segment: unsafe characters removed, separators collapsed to underscores,
// truncated to MaxTitleLength.
func SanitizeTitle(title string) string {
	clean := unsafeFilenameChars.ReplaceAllString(title, "")
	clean = separatorRuns.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")
	if len(clean) > MaxTitleLength {
		clean = clean[:MaxTitleLength]
		clean = strings.TrimRight(clean, "_")
	}
	return clean
}

// MoveFile moves src to dst, falling back to copy+remove across filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %q after copy: %w", src, err)
	}
	return nil
}

// BaseNoExt returns the file name without directory or extension.
func BaseNoExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
