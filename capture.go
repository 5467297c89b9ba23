package rasterpdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // decode format for Chrome screenshots
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// capturer abstracts full-page rasterization to enable testing without
// a browser.
type capturer interface {
	CaptureFromFile(ctx context.Context, filePath string, opts *captureOptions) (image.Image, error)
	Close() error
}

// Compile-time interface check
var _ capturer = (*rodCapturer)(nil)

// captureOptions holds per-capture settings.
type captureOptions struct {
	viewportWidth int
	scale         float64
}

// viewportProbeHeight seeds the initial layout only; the full-page
// screenshot extends past it to the document's real height.
const viewportProbeHeight = 1080

// rodCapturer implements capturer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodCapturer struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodCapturer creates a rodCapturer with the given timeout.
func newRodCapturer(timeout time.Duration) *rodCapturer {
	return &rodCapturer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (c *rodCapturer) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	// Configure launcher
	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.browser = rod.New().ControlURL(u)
	if err := c.browser.Connect(); err != nil {
		c.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (c *rodCapturer) Close() error {
	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

// CaptureFromFile opens a local HTML file in headless Chrome and takes
// a full-page PNG screenshot, decoded to an image.
// Returns explicit errors instead of panicking when browser operations fail.
func (c *rodCapturer) CaptureFromFile(ctx context.Context, filePath string, opts *captureOptions) (image.Image, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	width := DefaultViewportWidth
	scale := DefaultScale
	if opts != nil {
		if opts.viewportWidth > 0 {
			width = opts.viewportWidth
		}
		if opts.scale > 0 {
			scale = opts.scale
		}
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            viewportProbeHeight,
		DeviceScaleFactor: scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeRaster, err)
	}

	return img, nil
}
