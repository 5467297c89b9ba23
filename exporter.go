package rasterpdf

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-rasterpdf/internal/assets"
	"github.com/alnah/go-rasterpdf/internal/dateutil"
	"github.com/alnah/go-rasterpdf/internal/fileutil"
	"github.com/alnah/go-rasterpdf/internal/pipeline"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.MarkdownConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.DocumentRenderer  = (*pipeline.TemplateRenderer)(nil)
	_ pipeline.CSSInjector       = (*pipeline.CSSInjection)(nil)
	_ assets.AssetLoader         = (*assets.EmbeddedLoader)(nil)
)

// Exporter orchestrates the document-to-PDF export pipeline.
// Create with NewExporter, use Export for each document, and Close when done.
type Exporter struct {
	cfg         exporterConfig
	assetLoader assets.AssetLoader
	renderer    pipeline.DocumentRenderer
	notes       pipeline.MarkdownConverter
	cssInjector pipeline.CSSInjector
	capturer    capturer
	newWriter   func(PageGeometry) pageWriter
	now         func() time.Time
}

// NewExporter creates an Exporter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithStyle).
// Returns an error if capture settings are out of range or asset
// loading fails.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:       defaultTimeout,
			viewportWidth: DefaultViewportWidth,
			scale:         DefaultScale,
			style:         assets.DefaultStyleName,
		},
		assetLoader: assets.NewEmbeddedLoader(),
		notes:       pipeline.NewGoldmarkConverter(),
		cssInjector: &pipeline.CSSInjection{},
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cfg.viewportWidth < MinViewportWidth || e.cfg.viewportWidth > MaxViewportWidth {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)",
			ErrInvalidViewport, e.cfg.viewportWidth, MinViewportWidth, MaxViewportWidth)
	}
	if e.cfg.scale < MinScale || e.cfg.scale > MaxScale {
		return nil, fmt.Errorf("%w: %.1f (must be between %.1f and %.1f)",
			ErrInvalidScale, e.cfg.scale, MinScale, MaxScale)
	}

	// Resolve style input (name, path, or CSS content) to CSS content
	if err := e.resolveStyle(); err != nil {
		return nil, err
	}

	// Create document renderer from built-in templates (if not injected by tests)
	if e.renderer == nil {
		templates := make(map[string]string, 2)
		for _, name := range []string{assets.TemplateQuote, assets.TemplateInvoice} {
			text, err := e.assetLoader.LoadTemplate(name)
			if err != nil {
				return nil, fmt.Errorf("loading document template: %w", err)
			}
			templates[name] = text
		}
		renderer, err := pipeline.NewTemplateRenderer(templates)
		if err != nil {
			return nil, fmt.Errorf("initializing document renderer: %w", err)
		}
		e.renderer = renderer
	}

	// Create capturer if not injected (e.g., by tests)
	if e.capturer == nil {
		e.capturer = newRodCapturer(e.cfg.timeout)
	}

	if e.newWriter == nil {
		e.newWriter = func(geom PageGeometry) pageWriter {
			return newPDFPageWriter(geom)
		}
	}

	return e, nil
}

// Export runs the full pipeline and returns the result containing HTML
// and PDF. The context is used for cancellation and timeout.
// If input.HTMLOnly is true, capture and PDF assembly are skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, input Input) (result *ExportResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := e.validateInput(input); err != nil {
		return nil, err
	}

	geom, err := input.Page.Geometry()
	if err != nil {
		return nil, err
	}

	// Render structured document, or take the caller's HTML as-is
	htmlContent := input.HTML
	if input.Document != nil {
		data, err := e.buildDocumentData(ctx, input.Document)
		if err != nil {
			return nil, err
		}
		htmlContent, err = e.renderer.RenderDocument(ctx, strings.ToLower(input.Document.Kind), data)
		if err != nil {
			return nil, fmt.Errorf("rendering document: %w", err)
		}
	}

	// Build combined CSS (theme first, user CSS last so it can override)
	cssContent := e.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = e.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &ExportResult{HTML: []byte(htmlContent)}

	// Skip capture and PDF assembly in HTMLOnly mode
	if input.HTMLOnly {
		return res, nil
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	raster, err := e.capturer.CaptureFromFile(ctx, tmpPath, &captureOptions{
		viewportWidth: e.cfg.viewportWidth,
		scale:         e.cfg.scale,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing raster: %w", err)
	}

	writer := e.newWriter(geom)
	if err := ExportPaged(raster, geom, writer.WritePage); err != nil {
		return nil, fmt.Errorf("paginating raster: %w", err)
	}

	pdfBytes, err := writer.Bytes()
	if err != nil {
		return nil, fmt.Errorf("assembling PDF: %w", err)
	}

	res.PDF = pdfBytes
	res.Pages = writer.PageCount()
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (e *Exporter) Close() error {
	if e.capturer != nil {
		return e.capturer.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to
// CSS content. Called during NewExporter after options are applied.
func (e *Exporter) resolveStyle() error {
	input := e.cfg.style
	if input == "" {
		e.cfg.resolvedStyle = ""
		return nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		e.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		e.cfg.resolvedStyle = input
		return nil
	}

	// Theme name -> use asset loader
	css, err := e.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	e.cfg.resolvedStyle = css
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input
// manually. CLI users have their input validated earlier at document
// load time. Both paths converge here.
func (e *Exporter) validateInput(input Input) error {
	if input.Document == nil && strings.TrimSpace(input.HTML) == "" {
		return ErrEmptyInput
	}
	if err := input.Document.Validate(); err != nil {
		return err
	}
	return input.Page.Validate()
}

// buildDocumentData resolves a public Document into the fully computed
// model handed to templates: dates resolved, Markdown converted, totals
// computed.
func (e *Exporter) buildDocumentData(ctx context.Context, d *Document) (*pipeline.DocumentData, error) {
	date, err := dateutil.ResolveDate(d.Date, e.now())
	if err != nil {
		return nil, fmt.Errorf("resolving date: %w", err)
	}
	dueDate := d.DueDate
	if dueDate != "" {
		dueDate, err = dateutil.ResolveDate(d.DueDate, e.now())
		if err != nil {
			return nil, fmt.Errorf("resolving due date: %w", err)
		}
	}

	notesHTML, err := e.notes.ToHTML(ctx, d.Notes)
	if err != nil {
		return nil, fmt.Errorf("converting notes: %w", err)
	}
	termsHTML, err := e.notes.ToHTML(ctx, d.Terms)
	if err != nil {
		return nil, fmt.Errorf("converting terms: %w", err)
	}

	currency := d.Currency
	if currency == "" {
		currency = "USD"
	}

	data := &pipeline.DocumentData{
		Kind:      strings.ToLower(d.Kind),
		Number:    d.Number,
		Date:      date,
		DueDate:   dueDate,
		Currency:  currency,
		Issuer:    toPartyData(d.Issuer),
		Client:    toPartyData(d.Client),
		NotesHTML: template.HTML(notesHTML),
		TermsHTML: template.HTML(termsHTML),
		LogoURL:   logoURL(d.LogoPath),
	}

	data.Lines = make([]pipeline.LineData, len(d.Items))
	for i, item := range d.Items {
		data.Lines[i] = pipeline.LineData{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		}
	}
	pipeline.ComputeTotals(data)

	return data, nil
}

// toPartyData converts the public Party type to internal pipeline.PartyData.
func toPartyData(p Party) pipeline.PartyData {
	return pipeline.PartyData{
		Name:    p.Name,
		Address: p.Address,
		Email:   p.Email,
		Phone:   p.Phone,
		TaxID:   p.TaxID,
	}
}

// logoURL turns a logo path into something the browser can load from a
// temp-file page: remote URLs pass through, local paths become absolute
// file:// URLs.
func logoURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return "file://" + abs
}
