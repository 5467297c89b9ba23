// Package config loads and validates CLI configuration and document
// description files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rasterpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrDocumentParse   = errors.New("failed to parse document file")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits for multi-tenant safety.
const (
	MaxNameLength        = 100  // Party or person name
	MaxAddressLength     = 300  // Postal address
	MaxEmailLength       = 254  // RFC 5321
	MaxPhoneLength       = 30   // International phone number
	MaxTaxIDLength       = 50   // VAT/EIN style identifiers
	MaxNumberLength      = 50   // "INV-2026-001"
	MaxDateLength        = 30   // "2026-08-30" or "auto:MMMM D, YYYY"
	MaxCurrencyLength    = 8    // "USD", "EUR"
	MaxDescriptionLength = 500  // Line item description
	MaxNotesLength       = 5000 // Markdown notes/terms
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxStyleLength       = 2048 // Name, path, or inline CSS
	MaxURLLength         = 2048 // Browser limit
)

// Config holds all configuration for document export.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Style   StyleConfig   `yaml:"style"`
	Page    PageConfig    `yaml:"page"`
	Capture CaptureConfig `yaml:"capture"`
	Issuer  PartyConfig   `yaml:"issuer"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// StyleConfig defines CSS theming options.
type StyleConfig struct {
	Name string `yaml:"name"` // Theme name, CSS file path, or inline CSS (empty = classic)
}

// PageConfig defines output page settings.
type PageConfig struct {
	Size        string `yaml:"size"`        // "a4", "letter", "legal" (default: "a4")
	Orientation string `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
}

// CaptureConfig defines raster capture settings.
type CaptureConfig struct {
	ViewportWidth int     `yaml:"viewportWidth"` // CSS pixels (0 = default)
	Scale         float64 `yaml:"scale"`         // device scale factor (0 = default)
	Timeout       string  `yaml:"timeout"`       // e.g. "30s", "2m" (empty = default)
}

// PartyConfig describes one side of a document (issuer defaults or a
// document's parties).
type PartyConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	TaxID   string `yaml:"taxId"`
}

// ItemConfig is one billed line in a document file.
type ItemConfig struct {
	Description string  `yaml:"description"`
	Quantity    float64 `yaml:"quantity"`
	UnitPrice   float64 `yaml:"unitPrice"`
	TaxRate     float64 `yaml:"taxRate"` // percentage, 0-100
}

// DocumentFile is a YAML description of one quote or invoice.
type DocumentFile struct {
	Kind     string       `yaml:"kind"` // "quote" or "invoice"
	Number   string       `yaml:"number"`
	Date     string       `yaml:"date"`
	DueDate  string       `yaml:"dueDate"`
	Currency string       `yaml:"currency"`
	Issuer   PartyConfig  `yaml:"issuer"`
	Client   PartyConfig  `yaml:"client"`
	Items    []ItemConfig `yaml:"items"`
	Notes    string       `yaml:"notes"` // Markdown
	Terms    string       `yaml:"terms"` // Markdown
	LogoPath string       `yaml:"logo"`
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths to prevent abuse in multi-tenant scenarios.
// Called automatically by LoadConfig, but available for consumers who
// construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("style.name", c.Style.Name, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if c.Capture.ViewportWidth < 0 {
		return fmt.Errorf("capture.viewportWidth: cannot be negative, got %d", c.Capture.ViewportWidth)
	}
	if c.Capture.Scale < 0 {
		return fmt.Errorf("capture.scale: cannot be negative, got %.2f", c.Capture.Scale)
	}
	return validateParty("issuer", &c.Issuer)
}

// Validate checks field lengths and basic structure of a document file.
// Semantic validation (kind, items, rates) happens in the library's
// Document.Validate; this guards sizes at the parse boundary.
func (d *DocumentFile) Validate() error {
	if err := validateFieldLength("number", d.Number, MaxNumberLength); err != nil {
		return err
	}
	if err := validateFieldLength("date", d.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("dueDate", d.DueDate, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("currency", d.Currency, MaxCurrencyLength); err != nil {
		return err
	}
	if err := validateFieldLength("notes", d.Notes, MaxNotesLength); err != nil {
		return err
	}
	if err := validateFieldLength("terms", d.Terms, MaxNotesLength); err != nil {
		return err
	}
	if err := validateFieldLength("logo", d.LogoPath, MaxURLLength); err != nil {
		return err
	}
	if err := validateParty("issuer", &d.Issuer); err != nil {
		return err
	}
	if err := validateParty("client", &d.Client); err != nil {
		return err
	}
	for i, item := range d.Items {
		field := fmt.Sprintf("items[%d].description", i)
		if err := validateFieldLength(field, item.Description, MaxDescriptionLength); err != nil {
			return err
		}
	}
	return nil
}

// validateParty checks field lengths of one party.
func validateParty(prefix string, p *PartyConfig) error {
	if err := validateFieldLength(prefix+".name", p.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".address", p.Address, MaxAddressLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".email", p.Email, MaxEmailLength); err != nil {
		return err
	}
	if err := validateFieldLength(prefix+".phone", p.Phone, MaxPhoneLength); err != nil {
		return err
	}
	return validateFieldLength(prefix+".taxId", p.TaxID, MaxTaxIDLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !strings.ContainsAny(nameOrPath, "/\\") {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDocument loads a document description from a YAML file.
// Unknown fields are rejected to catch typos in hand-written documents.
func LoadDocument(path string) (*DocumentFile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- document path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading document file: %w", err)
	}

	var doc DocumentFile
	if err := yamlutil.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDocumentParse, path, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &doc, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-rasterpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-rasterpdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
