package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Sentinel errors for document rendering.
var (
	ErrDocumentRender  = errors.New("document template rendering failed")
	ErrUnknownKind     = errors.New("no template for document kind")
	ErrNoTemplates     = errors.New("no document templates provided")
	ErrTemplateInvalid = errors.New("document template failed to parse")
)

// PartyData identifies one side of the document for template rendering.
type PartyData struct {
	Name    string
	Address string
	Email   string
	Phone   string
	TaxID   string
}

// LineData is one billed line with its computed total.
// TaxRate is a percentage (0-100).
type LineData struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	TaxRate     float64
	Total       float64
}

// DocumentData is the fully resolved model handed to a template.
// NotesHTML and TermsHTML are pre-converted fragments and rendered
// unescaped; conversion happens upstream with goldmark's safe renderer.
type DocumentData struct {
	Kind      string
	Number    string
	Date      string
	DueDate   string
	Currency  string
	Issuer    PartyData
	Client    PartyData
	Lines     []LineData
	Subtotal  float64
	Tax       float64
	Total     float64
	NotesHTML template.HTML
	TermsHTML template.HTML
	LogoURL   string
}

// ComputeTotals fills per-line totals and the document aggregates.
// All amounts are rounded to cents.
func ComputeTotals(data *DocumentData) {
	var subtotal, tax float64
	for i := range data.Lines {
		line := &data.Lines[i]
		line.Total = roundCents(line.Quantity * line.UnitPrice)
		subtotal += line.Total
		tax += line.Total * line.TaxRate / 100
	}
	data.Subtotal = roundCents(subtotal)
	data.Tax = roundCents(tax)
	data.Total = roundCents(data.Subtotal + data.Tax)
}

// roundCents rounds to two decimal places.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// templateFuncs are available inside document templates.
var templateFuncs = template.FuncMap{
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

// DocumentRenderer abstracts document-to-HTML rendering.
type DocumentRenderer interface {
	RenderDocument(ctx context.Context, kind string, data *DocumentData) (string, error)
}

// TemplateRenderer renders documents through html/template, one parsed
// template per document kind.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses one template per kind from raw HTML text.
// Keys are document kinds ("quote", "invoice"); values are template
// bodies. Returns an error if any template fails to parse.
func NewTemplateRenderer(templatesByKind map[string]string) (*TemplateRenderer, error) {
	if len(templatesByKind) == 0 {
		return nil, ErrNoTemplates
	}

	parsed := make(map[string]*template.Template, len(templatesByKind))
	for kind, text := range templatesByKind {
		tmpl, err := template.New(kind).Funcs(templateFuncs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrTemplateInvalid, kind, err)
		}
		parsed[strings.ToLower(kind)] = tmpl
	}
	return &TemplateRenderer{templates: parsed}, nil
}

// RenderDocument executes the template for the given kind and returns a
// standalone HTML document.
func (r *TemplateRenderer) RenderDocument(ctx context.Context, kind string, data *DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, ok := r.templates[strings.ToLower(kind)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}
