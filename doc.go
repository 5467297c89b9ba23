// Package rasterpdf exports rendered business documents (quotes and
// invoices) as paginated PDFs by rasterizing them with headless Chrome.
//
// # Quick Start
//
// Create an exporter, export a document, and close when done:
//
//	exp, err := rasterpdf.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	result, err := exp.Export(ctx, rasterpdf.Input{
//	    Document: &rasterpdf.Document{
//	        Kind:   rasterpdf.DocumentInvoice,
//	        Number: "INV-2026-001",
//	        Client: rasterpdf.Party{Name: "Acme Corp"},
//	        Items: []rasterpdf.LineItem{
//	            {Description: "Fiber installation", Quantity: 1, UnitPrice: 1200},
//	        },
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invoice.pdf", result.PDF, 0644)
//
// The result contains the PDF bytes (result.PDF), the intermediate HTML
// (result.HTML) for debugging, and the page count. Use Input.HTMLOnly to
// skip rasterization and PDF assembly.
//
// # Export Pipeline
//
// The export process follows these stages:
//
//  1. Document rendering to HTML (built-in quote/invoice templates,
//     Markdown notes and terms via Goldmark)
//  2. CSS injection (theme stylesheet plus user CSS)
//  3. Full-page raster capture via headless Chrome (go-rod)
//  4. Raster pagination: the tall capture is sliced into page-height
//     bands with no gaps or overlaps (see ExportPaged)
//  5. PDF assembly, one band per page (go-pdf/fpdf)
//
// The pagination step is also available standalone: PlanSlices computes
// the slicing plan for any raster and page geometry, and ExportPaged
// drives an arbitrary page writer. Neither requires a browser.
//
// # Parallel Processing
//
// For batch export, use ExporterPool to manage multiple browser
// instances:
//
//	pool := rasterpdf.NewExporterPool(4)
//	defer pool.Close()
//
//	exp, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(exp)
//	result, err := exp.Export(ctx, input)
//
// # Browser Requirements
//
// Raster capture requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable
// the Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome
// binary.
package rasterpdf
