// Package assets provides CSS themes and HTML document templates for
// export.
//
// EmbeddedLoader serves the built-in themes (classic, compact) and the
// quote/invoice templates embedded at compile time. Asset names are
// validated to prevent path traversal.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrTemplateNotFound indicates the requested template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName indicates the asset name contains invalid
	// characters such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")
)

// Built-in asset names.
const (
	DefaultStyleName = "classic"

	TemplateQuote   = "quote"
	TemplateInvoice = "invoice"
)

// AssetLoader defines the contract for loading CSS styles and HTML
// document templates. Implementations may load from embedded assets,
// the filesystem, or elsewhere.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML document template by name (without
	// .html extension). Returns ErrTemplateNotFound if it doesn't exist.
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName checks that an asset name is safe for use as a
// filename. Returns ErrInvalidAssetName if the name is empty or
// contains path separators, dots, or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
