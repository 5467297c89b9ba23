package rasterpdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("nothing to export: no document and no HTML")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrCapture        = errors.New("raster capture failed")
	ErrDecodeRaster   = errors.New("failed to decode captured raster")
	ErrPDFAssembly    = errors.New("PDF assembly failed")

	// Pagination errors.
	ErrInvalidRaster   = errors.New("invalid source raster")
	ErrInvalidGeometry = errors.New("invalid page geometry")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")

	// Capture settings validation errors.
	ErrInvalidViewport = errors.New("invalid viewport width")
	ErrInvalidScale    = errors.New("invalid capture scale")

	// Document validation errors.
	ErrInvalidDocumentKind = errors.New("invalid document kind")
	ErrMissingNumber       = errors.New("document number cannot be empty")
	ErrNoLineItems         = errors.New("document has no line items")
	ErrInvalidLineItem     = errors.New("invalid line item")

	// Pool errors.
	ErrPoolClosed = errors.New("exporter pool is closed")
)
