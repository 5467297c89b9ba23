package rasterpdf

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Document kind constants.
const (
	DocumentQuote   = "quote"
	DocumentInvoice = "invoice"
)

// PageGeometry is the output page size in millimeters.
type PageGeometry struct {
	WidthMM  float64
	HeightMM float64
}

// pageSizesMM maps page size names to portrait geometry.
var pageSizesMM = map[string]PageGeometry{
	PageSizeA4:     {WidthMM: 210, HeightMM: 297},
	PageSizeLetter: {WidthMM: 215.9, HeightMM: 279.4},
	PageSizeLegal:  {WidthMM: 215.9, HeightMM: 355.6},
}

// Validate checks that both dimensions are positive.
func (g PageGeometry) Validate() error {
	if g.WidthMM <= 0 || g.HeightMM <= 0 {
		return fmt.Errorf("%w: %.2fx%.2f mm", ErrInvalidGeometry, g.WidthMM, g.HeightMM)
	}
	return nil
}

// PageSettings selects a named page size and orientation.
type PageSettings struct {
	Size        string // "a4", "letter", "legal"
	Orientation string // "portrait", "landscape"
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := pageSizesMM[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
}

// Geometry resolves the settings to millimeter dimensions.
// A nil receiver resolves to A4 portrait. Landscape swaps the axes.
func (p *PageSettings) Geometry() (PageGeometry, error) {
	if p == nil {
		return pageSizesMM[PageSizeA4], nil
	}
	geom, ok := pageSizesMM[strings.ToLower(p.Size)]
	if !ok {
		return PageGeometry{}, fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait:
	case OrientationLandscape:
		geom.WidthMM, geom.HeightMM = geom.HeightMM, geom.WidthMM
	default:
		return PageGeometry{}, fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	return geom, nil
}

// Party identifies one side of a business document.
type Party struct {
	Name    string
	Address string
	Email   string
	Phone   string
	TaxID   string
}

// LineItem is one billed line on a quote or invoice.
// TaxRate is a percentage (0-100).
type LineItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
}

// Document holds the data for one quote or invoice.
// Notes and Terms accept Markdown; they are converted to HTML before
// template rendering.
type Document struct {
	Kind     string // "quote" or "invoice"
	Number   string
	Date     string // "auto" or empty = today
	DueDate  string
	Currency string // default "USD"
	Issuer   Party
	Client   Party
	Items    []LineItem
	Notes    string // Markdown
	Terms    string // Markdown
	LogoPath string
}

// Validate checks that the document is exportable.
func (d *Document) Validate() error {
	if d == nil {
		return nil
	}
	switch strings.ToLower(d.Kind) {
	case DocumentQuote, DocumentInvoice:
	default:
		return fmt.Errorf("%w: %q (must be quote or invoice)", ErrInvalidDocumentKind, d.Kind)
	}
	if strings.TrimSpace(d.Number) == "" {
		return ErrMissingNumber
	}
	if len(d.Items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range d.Items {
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("%w: item %d has no description", ErrInvalidLineItem, i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidLineItem, i+1)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("%w: item %d unit price cannot be negative", ErrInvalidLineItem, i+1)
		}
		if item.TaxRate < 0 || item.TaxRate > 100 {
			return fmt.Errorf("%w: item %d tax rate must be 0-100", ErrInvalidLineItem, i+1)
		}
	}
	return nil
}

// Input contains export parameters.
// Either Document or HTML must be set; Document takes precedence.
type Input struct {
	Document *Document     // structured document, rendered via built-in templates
	HTML     string        // pre-rendered HTML (used when Document is nil)
	CSS      string        // custom CSS appended after the theme (optional)
	Page     *PageSettings // page settings (optional, nil = A4 portrait)
	HTMLOnly bool          // skip capture and PDF assembly (debugging)
}

// ExportResult holds the outputs of one export.
type ExportResult struct {
	HTML  []byte // rendered HTML fed to the rasterizer
	PDF   []byte // assembled document, nil when HTMLOnly
	Pages int    // number of pages written
}

// Viewport bounds in CSS pixels.
const (
	// DefaultViewportWidth approximates A4 width at 96 DPI.
	DefaultViewportWidth = 794
	MinViewportWidth     = 320
	MaxViewportWidth     = 3840
)

// Capture scale (device scale factor) bounds.
const (
	DefaultScale = 2.0
	MinScale     = 1.0
	MaxScale     = 4.0
)

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout       time.Duration
	viewportWidth int
	scale         float64
	style         string
	resolvedStyle string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the capture timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("rasterpdf: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithViewportWidth sets the browser viewport width in CSS pixels.
// Wider viewports produce wider rasters and finer page slices.
func WithViewportWidth(px int) Option {
	return func(e *Exporter) {
		e.cfg.viewportWidth = px
	}
}

// WithScale sets the device scale factor used during capture.
// Higher values produce sharper pages at the cost of memory.
func WithScale(scale float64) Option {
	return func(e *Exporter) {
		e.cfg.scale = scale
	}
}

// WithStyle selects a theme by name (e.g. "classic", "compact"), a CSS
// file path, or inline CSS content.
func WithStyle(style string) Option {
	return func(e *Exporter) {
		e.cfg.style = style
	}
}
