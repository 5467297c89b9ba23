package rasterpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"
)

// Test-only options for injecting mocks into an Exporter.

func withCapturer(c capturer) Option {
	return func(e *Exporter) { e.capturer = c }
}

func withWriterFactory(f func(PageGeometry) pageWriter) Option {
	return func(e *Exporter) { e.newWriter = f }
}

func withNow(f func() time.Time) Option {
	return func(e *Exporter) { e.now = f }
}

// mockCapturer records the capture call and returns a canned image.
type mockCapturer struct {
	calls    int
	filePath string
	opts     *captureOptions
	img      image.Image
	err      error
	closed   bool
}

func (m *mockCapturer) CaptureFromFile(ctx context.Context, filePath string, opts *captureOptions) (image.Image, error) {
	m.calls++
	m.filePath = filePath
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.img, nil
}

func (m *mockCapturer) Close() error {
	m.closed = true
	return nil
}

// recordingWriter counts pages and returns canned bytes.
type recordingWriter struct {
	geom     PageGeometry
	pages    []image.Image
	firsts   []bool
	out      []byte
	writeErr error
	failOn   int // 1-based page number to fail on, 0 = never
}

func (w *recordingWriter) WritePage(page image.Image, isFirst bool) error {
	w.pages = append(w.pages, page)
	w.firsts = append(w.firsts, isFirst)
	if w.failOn > 0 && len(w.pages) == w.failOn {
		return w.writeErr
	}
	return nil
}

func (w *recordingWriter) Bytes() ([]byte, error) { return w.out, nil }
func (w *recordingWriter) PageCount() int         { return len(w.pages) }

func testDocument() *Document {
	return &Document{
		Kind:   DocumentInvoice,
		Number: "INV-042",
		Date:   "2026-03-01",
		Issuer: Party{Name: "Acme Corp", Email: "billing@acme.test"},
		Client: Party{Name: "Globex", Address: "1 Main St"},
		Items: []LineItem{
			{Description: "Consulting", Quantity: 10, UnitPrice: 150, TaxRate: 20},
			{Description: "Hosting", Quantity: 1, UnitPrice: 49.99},
		},
		Notes: "Payment due within **30 days**.",
	}
}

func TestNewExporter_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"viewport too narrow", []Option{WithViewportWidth(100)}, ErrInvalidViewport},
		{"viewport too wide", []Option{WithViewportWidth(10000)}, ErrInvalidViewport},
		{"scale too low", []Option{WithScale(0.5)}, ErrInvalidScale},
		{"scale too high", []Option{WithScale(8)}, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExporter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewExporter() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewExporter_UnknownStyle(t *testing.T) {
	_, err := NewExporter(WithStyle("nonexistent"))
	if err == nil {
		t.Fatal("NewExporter() expected error for unknown style")
	}
}

func TestNewExporter_InlineCSSStyle(t *testing.T) {
	e, err := NewExporter(WithStyle("body { color: red }"))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()
	if e.cfg.resolvedStyle != "body { color: red }" {
		t.Errorf("resolvedStyle = %q, want inline CSS passed through", e.cfg.resolvedStyle)
	}
}

func TestExport_ValidatesInput(t *testing.T) {
	e, err := NewExporter(withCapturer(&mockCapturer{}))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{"empty input", Input{}, ErrEmptyInput},
		{"blank html", Input{HTML: "   "}, ErrEmptyInput},
		{"invalid document", Input{Document: &Document{Kind: "memo"}}, ErrInvalidDocumentKind},
		{"invalid page size", Input{HTML: "<p>x</p>", Page: &PageSettings{Size: "a6", Orientation: "portrait"}}, ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Export(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Export() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExport_HTMLOnly(t *testing.T) {
	cap := &mockCapturer{}
	e, err := NewExporter(
		withCapturer(cap),
		withNow(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	res, err := e.Export(context.Background(), Input{Document: testDocument(), HTMLOnly: true})
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	if cap.calls != 0 {
		t.Errorf("capturer called %d times in HTMLOnly mode, want 0", cap.calls)
	}
	if res.PDF != nil {
		t.Error("PDF non-nil in HTMLOnly mode")
	}
	if res.Pages != 0 {
		t.Errorf("Pages = %d in HTMLOnly mode, want 0", res.Pages)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"INV-042",
		"Acme Corp",
		"Globex",
		"Consulting",
		"<strong>30 days</strong>", // Markdown notes converted
		"<style>",                  // theme injected
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestExport_DocumentTotals(t *testing.T) {
	e, err := NewExporter(withCapturer(&mockCapturer{}))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	res, err := e.Export(context.Background(), Input{Document: testDocument(), HTMLOnly: true})
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	// 10*150 + 1*49.99 = 1549.99 subtotal, 300 tax, 1849.99 total.
	html := string(res.HTML)
	for _, want := range []string{"1549.99", "300.00", "1849.99"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing amount %q", want)
		}
	}
}

func TestExport_FullPipeline(t *testing.T) {
	cap := &mockCapturer{img: gradientImage(1000, 2500)}
	var writer *recordingWriter
	e, err := NewExporter(
		withCapturer(cap),
		withWriterFactory(func(geom PageGeometry) pageWriter {
			writer = &recordingWriter{geom: geom, out: []byte("%PDF-fake")}
			return writer
		}),
		WithViewportWidth(1000),
	)
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	res, err := e.Export(context.Background(), Input{Document: testDocument()})
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	if cap.calls != 1 {
		t.Fatalf("capturer called %d times, want 1", cap.calls)
	}
	if cap.filePath == "" {
		t.Error("capturer received empty file path")
	}
	if cap.opts.viewportWidth != 1000 {
		t.Errorf("capture viewport width = %d, want 1000", cap.opts.viewportWidth)
	}

	if writer == nil {
		t.Fatal("writer factory never called")
	}
	if writer.geom != (PageGeometry{WidthMM: 210, HeightMM: 297}) {
		t.Errorf("writer geometry = %+v, want A4 portrait", writer.geom)
	}
	// 2500px at 1000px/210mm density: 2 pages.
	if len(writer.pages) != 2 {
		t.Errorf("pages written = %d, want 2", len(writer.pages))
	}
	if !bytes.Equal(res.PDF, []byte("%PDF-fake")) {
		t.Errorf("result PDF = %q, want writer output", res.PDF)
	}
	if res.Pages != 2 {
		t.Errorf("result Pages = %d, want 2", res.Pages)
	}
}

func TestExport_LandscapeGeometry(t *testing.T) {
	var writer *recordingWriter
	e, err := NewExporter(
		withCapturer(&mockCapturer{img: gradientImage(1000, 500)}),
		withWriterFactory(func(geom PageGeometry) pageWriter {
			writer = &recordingWriter{geom: geom, out: []byte("%PDF-fake")}
			return writer
		}),
	)
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	input := Input{
		HTML: "<html><body>wide report</body></html>",
		Page: &PageSettings{Size: "a4", Orientation: "landscape"},
	}
	if _, err := e.Export(context.Background(), input); err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	if writer.geom != (PageGeometry{WidthMM: 297, HeightMM: 210}) {
		t.Errorf("writer geometry = %+v, want A4 landscape", writer.geom)
	}
}

func TestExport_CaptureError(t *testing.T) {
	captureErr := fmt.Errorf("%w: connection refused", ErrBrowserConnect)
	e, err := NewExporter(withCapturer(&mockCapturer{err: captureErr}))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	_, err = e.Export(context.Background(), Input{HTML: "<p>x</p>"})
	if !errors.Is(err, ErrBrowserConnect) {
		t.Errorf("Export() error = %v, want %v", err, ErrBrowserConnect)
	}
}

func TestExport_WriteError(t *testing.T) {
	writeErr := errors.New("page rejected")
	e, err := NewExporter(
		withCapturer(&mockCapturer{img: gradientImage(1000, 2500)}),
		withWriterFactory(func(geom PageGeometry) pageWriter {
			return &recordingWriter{failOn: 2, writeErr: writeErr}
		}),
	)
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	_, err = e.Export(context.Background(), Input{HTML: "<p>x</p>"})
	if !errors.Is(err, writeErr) {
		t.Errorf("Export() error = %v, want %v", err, writeErr)
	}
}

func TestExport_ContextCanceled(t *testing.T) {
	e, err := NewExporter(withCapturer(&mockCapturer{img: gradientImage(100, 100)}))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Export(ctx, Input{HTML: "<p>x</p>"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Export() error = %v, want %v", err, context.Canceled)
	}
}

func TestExport_UserCSSAppendedAfterTheme(t *testing.T) {
	e, err := NewExporter(withCapturer(&mockCapturer{}))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	defer e.Close()

	res, err := e.Export(context.Background(), Input{
		HTML:     "<html><head></head><body>x</body></html>",
		CSS:      ".custom-marker { color: blue }",
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}

	html := string(res.HTML)
	themePos := strings.Index(html, ".document")
	userPos := strings.Index(html, ".custom-marker")
	if themePos < 0 || userPos < 0 {
		t.Fatalf("theme or user CSS missing from output (theme at %d, user at %d)", themePos, userPos)
	}
	if userPos < themePos {
		t.Error("user CSS appears before theme CSS; it must come last to override")
	}
}

func TestClose_ReleasesCapturer(t *testing.T) {
	cap := &mockCapturer{}
	e, err := NewExporter(withCapturer(cap))
	if err != nil {
		t.Fatalf("NewExporter() unexpected error: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !cap.closed {
		t.Error("Close() did not close the capturer")
	}
}

func TestLogoURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func(string) bool
	}{
		{"empty", "", func(s string) bool { return s == "" }},
		{"http passthrough", "http://example.com/logo.png", func(s string) bool { return s == "http://example.com/logo.png" }},
		{"https passthrough", "https://example.com/logo.png", func(s string) bool { return s == "https://example.com/logo.png" }},
		{"local path", "logo.png", func(s string) bool {
			return strings.HasPrefix(s, "file:///") && strings.HasSuffix(s, "/logo.png")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := logoURL(tt.in); !tt.want(got) {
				t.Errorf("logoURL(%q) = %q", tt.in, got)
			}
		})
	}
}
