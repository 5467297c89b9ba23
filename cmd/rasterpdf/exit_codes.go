package main

import (
	"context"
	"errors"
	"os"

	rasterpdf "github.com/alnah/go-rasterpdf"
	"github.com/alnah/go-rasterpdf/internal/assets"
	"github.com/alnah/go-rasterpdf/internal/config"
	"github.com/alnah/go-rasterpdf/internal/hints"
)

// Exit codes for the rasterpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, rasterpdf.ErrBrowserConnect) ||
		errors.Is(err, rasterpdf.ErrPageCreate) ||
		errors.Is(err, rasterpdf.ErrPageLoad) ||
		errors.Is(err, rasterpdf.ErrCapture) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDocument) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrDocumentParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, rasterpdf.ErrEmptyInput) ||
		errors.Is(err, rasterpdf.ErrInvalidPageSize) ||
		errors.Is(err, rasterpdf.ErrInvalidOrientation) ||
		errors.Is(err, rasterpdf.ErrInvalidViewport) ||
		errors.Is(err, rasterpdf.ErrInvalidScale) ||
		errors.Is(err, rasterpdf.ErrInvalidDocumentKind) ||
		errors.Is(err, rasterpdf.ErrMissingNumber) ||
		errors.Is(err, rasterpdf.ErrNoLineItems) ||
		errors.Is(err, rasterpdf.ErrInvalidLineItem) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for common failures, or "".
func hintFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, rasterpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().AvailableStyles())
	}
	return ""
}
