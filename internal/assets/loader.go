package assets

// AssetLoader defines the contract for loading report templates and the
// default logo. Implementations may load from embedded assets, the
// filesystem, or anything else that can produce the bytes.
type AssetLoader interface {
	// LoadTemplate loads a LaTeX report template by layout name
	// (e.g. "classic", without path or extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)

	// DefaultLogo returns the placeholder logo substituted when a report
	// names no company logo.
	DefaultLogo() ([]byte, error)
}

// TemplateNames lists the built-in layout names in presentation order.
func TemplateNames() []string {
	return []string{"classic", "modern", "detailed"}
}
