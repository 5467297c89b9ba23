// Package pipeline implements the document-to-HTML rendering stages.
//
// This package handles everything that happens before the browser:
//   - Markdown conversion of notes/terms fragments via Goldmark
//   - Quote/invoice rendering through html/template with computed totals
//   - CSS injection into HTML documents
//
// Raster capture and PDF assembly are handled separately by the root
// rasterpdf package using headless Chrome (go-rod) and fpdf. This
// separation keeps the pipeline focused on document structure and
// content, and testable without a browser.
package pipeline
