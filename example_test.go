package rasterpdf_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-rasterpdf"
)

// Example demonstrates rendering an invoice to HTML.
// For PDF output, set HTMLOnly to false (requires Chrome).
func Example() {
	exp, err := rasterpdf.NewExporter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exp.Close()

	result, err := exp.Export(context.Background(), rasterpdf.Input{
		Document: &rasterpdf.Document{
			Kind:   rasterpdf.DocumentInvoice,
			Number: "INV-2026-001",
			Issuer: rasterpdf.Party{Name: "Acme Corp"},
			Client: rasterpdf.Party{Name: "Globex"},
			Items: []rasterpdf.LineItem{
				{Description: "Consulting", Quantity: 10, UnitPrice: 150, TaxRate: 20},
			},
		},
		HTMLOnly: true, // Skip capture and PDF assembly for this example
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "INV-2026-001") {
		fmt.Println("HTML generated successfully")
	}
	// Output: HTML generated successfully
}

// Example_pagePlanning demonstrates how a tall raster maps onto pages.
func Example_pagePlanning() {
	geom := rasterpdf.PageGeometry{WidthMM: 210, HeightMM: 297}

	slices, err := rasterpdf.PlanSlices(1000, 2500, geom)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, s := range slices {
		fmt.Printf("page %d: rows %d-%d\n", s.Index+1, s.Y, s.Y+s.Height)
	}
	// Output:
	// page 1: rows 0-1415
	// page 2: rows 1415-2500
}

// Example_landscape demonstrates custom page settings.
func Example_landscape() {
	exp, err := rasterpdf.NewExporter(rasterpdf.WithStyle("compact"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer exp.Close()

	result, err := exp.Export(context.Background(), rasterpdf.Input{
		HTML:     "<html><body><h1>Wide report</h1></body></html>",
		Page:     &rasterpdf.PageSettings{Size: "letter", Orientation: "landscape"},
		HTMLOnly: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "<style>") {
		fmt.Println("theme injected")
	}
	// Output: theme injected
}
