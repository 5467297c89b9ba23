package rasterpdf

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Slice describes one page's band of source pixel rows.
type Slice struct {
	Y      int // first source row
	Height int // number of rows
	Index  int // zero-based page index
}

// PageWriteFunc receives one cropped page image at a time, in page
// order. isFirst is true only for the first page. Returning an error
// aborts the remaining pages; the error propagates unchanged.
type PageWriteFunc func(page image.Image, isFirst bool) error

// PlanSlices computes the horizontal bands that map a raster of
// widthPx x heightPx onto pages of geom, top to bottom.
//
// The pixels-per-millimeter ratio is fixed once from the width
// relationship, so every page scales identically. The ideal band height
// is the number of source rows that fill one page at that density; the
// final band is clamped to the remaining rows and may be as short as a
// single row.
//
// The returned slices partition [0, heightPx) exactly: contiguous,
// non-overlapping, first offset zero, and at least one slice for any
// positive height.
func PlanSlices(widthPx, heightPx int, geom PageGeometry) ([]Slice, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return nil, fmt.Errorf("%w: %dx%d px", ErrInvalidRaster, widthPx, heightPx)
	}
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	ratio := float64(widthPx) / geom.WidthMM
	ideal := int(math.Ceil(geom.HeightMM * ratio))

	slices := make([]Slice, 0, heightPx/ideal+1)
	for y, i := 0, 0; y < heightPx; i++ {
		h := ideal
		if rest := heightPx - y; h > rest {
			h = rest
		}
		slices = append(slices, Slice{Y: y, Height: h, Index: i})
		y += h
	}
	return slices, nil
}

// PixelsPerMM returns the fixed pixel density of a raster widthPx
// pixels wide laid out on a page geom.WidthMM wide.
func PixelsPerMM(widthPx int, geom PageGeometry) float64 {
	return float64(widthPx) / geom.WidthMM
}

// ExportPaged splits src into page-height bands per PlanSlices and
// hands each band to write in increasing page order. The call is
// synchronous and re-entrant: at most one page image is alive at a
// time, and no state outlives the call.
//
// Invalid inputs are rejected before any page is produced. Errors from
// write abort the export immediately; a partially written output
// document is the caller's responsibility.
func ExportPaged(src image.Image, geom PageGeometry, write PageWriteFunc) error {
	if write == nil {
		panic("rasterpdf: ExportPaged requires a PageWriteFunc")
	}
	if src == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidRaster)
	}

	bounds := src.Bounds()
	slices, err := PlanSlices(bounds.Dx(), bounds.Dy(), geom)
	if err != nil {
		return err
	}

	for _, s := range slices {
		if err := write(cropBand(src, s), s.Index == 0); err != nil {
			return err
		}
	}
	return nil
}

// subImager is satisfied by *image.RGBA, *image.NRGBA and most other
// stdlib image types.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// cropBand extracts one slice from src. The SubImage fast path shares
// pixel memory; sources without SubImage get their rows copied into a
// fresh RGBA.
func cropBand(src image.Image, s Slice) image.Image {
	bounds := src.Bounds()
	band := image.Rect(bounds.Min.X, bounds.Min.Y+s.Y, bounds.Max.X, bounds.Min.Y+s.Y+s.Height)

	if si, ok := src.(subImager); ok {
		return si.SubImage(band)
	}

	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), s.Height))
	xdraw.Copy(dst, image.Point{}, src, band, xdraw.Src, nil)
	return dst
}
