package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
}

// captureFlags holds raster capture flags.
type captureFlags struct {
	viewportWidth int
	scale         float64
}

// styleFlags holds CSS theming flags.
type styleFlags struct {
	name    string // Theme name, CSS file path, or inline CSS
	noStyle bool   // Disable CSS styling
}

// outputFlags holds output mode flags for debugging.
type outputFlags struct {
	html     bool // Output HTML alongside PDF
	htmlOnly bool // Output HTML only, skip PDF
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common     commonFlags
	output     string
	workers    int
	timeout    string
	version    bool
	page       pageFlags
	capture    captureFlags
	style      styleFlags
	outputMode outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
}

// addCaptureFlags adds raster capture flags to a FlagSet.
func addCaptureFlags(fs *flag.FlagSet, f *captureFlags) {
	fs.IntVar(&f.viewportWidth, "viewport-width", 0, "browser viewport width in CSS pixels (0 = default)")
	fs.Float64Var(&f.scale, "scale", 0, "capture device scale factor (0 = default)")
}

// addStyleFlags adds theming flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.name, "style", "", "CSS theme name, file path, or inline CSS")
	fs.BoolVar(&f.noStyle, "no-style", false, "disable CSS styling")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.html, "html", false, "output HTML alongside PDF")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF")
}

// parseExportFlags parses command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("rasterpdf", flag.ContinueOnError)
	f := &exportFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "capture timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addCaptureFlags(fs, &f.capture)
	addStyleFlags(fs, &f.style)
	addOutputFlags(fs, &f.outputMode)

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// printUsage writes command usage to w.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: rasterpdf [flags] <document.yaml | page.html | directory>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exports quote and invoice documents to paged PDF via headless Chrome.")
	fmt.Fprintln(w, "Input is a YAML document description, a pre-rendered HTML file, or a")
	fmt.Fprintln(w, "directory of either.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}
