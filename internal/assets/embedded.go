package assets

import (
	"embed"
	"fmt"
)

//go:embed templates/*
var templates embed.FS

//go:embed images/*
var images embed.FS

// defaultLogoFile is the embedded placeholder logo staged when a report
// names no company logo.
const defaultLogoFile = "images/default_logo.png"

// EmbeddedLoader loads assets from the embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadTemplate loads a LaTeX report template from embedded assets by
// layout name. The name should not include path or extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := templates.ReadFile("templates/report_" + name + ".tex")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// DefaultLogo returns the embedded placeholder logo bytes.
func (e *EmbeddedLoader) DefaultLogo() ([]byte, error) {
	content, err := images.ReadFile(defaultLogoFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogoNotFound, err)
	}
	return content, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
