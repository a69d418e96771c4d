// Package pipeline implements the content conversion stages: normalization
// of generated text, Markdown/rich-text round-tripping, structural
// conversion to LaTeX, reserved-character escaping, and structural repair
// of the emitted source.
//
// Each stage is an interface with one production implementation so the
// generator can be assembled from parts and tested with fakes.
package pipeline
