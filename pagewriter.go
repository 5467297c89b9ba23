package rasterpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
)

// pageWriter assembles page images into an output document.
// Pages must arrive in strict increasing order, one call per page.
type pageWriter interface {
	WritePage(page image.Image, isFirst bool) error
	Bytes() ([]byte, error)
	PageCount() int
}

// Compile-time interface check
var _ pageWriter = (*pdfPageWriter)(nil)

// pdfPageWriter writes page images into a PDF via fpdf. Every page has
// the same geometry; the image is drawn at the top-left at full page
// width with no margins, so the band's height in millimeters follows
// its pixel aspect and a short trailing band leaves the bottom blank.
type pdfPageWriter struct {
	geom  PageGeometry
	pdf   *fpdf.Fpdf
	pages int
}

// newPDFPageWriter creates a writer producing pages of geom.
func newPDFPageWriter(geom PageGeometry) *pdfPageWriter {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geom.WidthMM, Ht: geom.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &pdfPageWriter{geom: geom, pdf: pdf}
}

// WritePage appends one page holding the given band image.
// The isFirst flag is part of the page-writer contract; fpdf needs an
// explicit page break for every page, first included.
func (w *pdfPageWriter) WritePage(page image.Image, isFirst bool) error {
	bounds := page.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("%w: empty page image", ErrInvalidRaster)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return fmt.Errorf("%w: encoding page %d: %v", ErrPDFAssembly, w.pages+1, err)
	}

	w.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w.geom.WidthMM, Ht: w.geom.HeightMM})

	name := fmt.Sprintf("page-%d", w.pages)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	w.pdf.RegisterImageOptionsReader(name, opts, &buf)

	heightMM := float64(bounds.Dy()) * w.geom.WidthMM / float64(bounds.Dx())
	w.pdf.ImageOptions(name, 0, 0, w.geom.WidthMM, heightMM, false, opts, 0, "")

	if w.pdf.Err() {
		return fmt.Errorf("%w: page %d: %v", ErrPDFAssembly, w.pages+1, w.pdf.Error())
	}

	w.pages++
	return nil
}

// PageCount returns the number of pages written so far.
func (w *pdfPageWriter) PageCount() int {
	return w.pages
}

// Bytes finalizes the document and returns it.
func (w *pdfPageWriter) Bytes() ([]byte, error) {
	var out bytes.Buffer
	if err := w.pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFAssembly, err)
	}
	return out.Bytes(), nil
}
