package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	rasterpdf "github.com/alnah/go-rasterpdf"
	"github.com/alnah/go-rasterpdf/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadDocument       = errors.New("failed to read document file")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidExtension   = errors.New("file must have .yaml, .yml or .html extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout value")
)

// FileToExport represents a single file to process.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// exportParams groups parameters shared across the batch.
type exportParams struct {
	page       *rasterpdf.PageSettings
	issuer     config.PartyConfig
	htmlOutput bool
	htmlOnly   bool
}

// runExport orchestrates the export process.
func runExport(ctx context.Context, positionalArgs []string, flags *exportFlags, pool Pool, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg := env.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	// Resolve input path
	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	// Resolve output directory
	outputDir := resolveOutputDir(flags.output, cfg)

	// Discover files to export
	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no document files found in %s", inputPath)
	}

	// Build page settings (flags win over config)
	pageData, err := buildPageSettings(flags, cfg)
	if err != nil {
		return err
	}

	params := &exportParams{
		page:       pageData,
		issuer:     cfg.Issuer,
		htmlOutput: flags.outputMode.html,
		htmlOnly:   flags.outputMode.htmlOnly,
	}

	results := exportBatch(ctx, pool, files, params, env)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d export(s) failed", failedCount)
	}

	return nil
}

// loadCLIConfig loads the config named by the flag, or defaults.
func loadCLIConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildExporterOptions translates flags and config into library options.
// Flags take priority over config values.
func buildExporterOptions(flags *exportFlags, cfg *config.Config) ([]rasterpdf.Option, error) {
	var opts []rasterpdf.Option

	timeout := flags.timeout
	if timeout == "" {
		timeout = cfg.Capture.Timeout
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q (use e.g. 30s, 2m)", ErrInvalidTimeout, timeout)
		}
		opts = append(opts, rasterpdf.WithTimeout(d))
	}

	viewport := flags.capture.viewportWidth
	if viewport == 0 {
		viewport = cfg.Capture.ViewportWidth
	}
	if viewport != 0 {
		opts = append(opts, rasterpdf.WithViewportWidth(viewport))
	}

	scale := flags.capture.scale
	if scale == 0 {
		scale = cfg.Capture.Scale
	}
	if scale != 0 {
		opts = append(opts, rasterpdf.WithScale(scale))
	}

	switch {
	case flags.style.noStyle:
		opts = append(opts, rasterpdf.WithStyle(""))
	case flags.style.name != "":
		opts = append(opts, rasterpdf.WithStyle(flags.style.name))
	case cfg.Style.Name != "":
		opts = append(opts, rasterpdf.WithStyle(cfg.Style.Name))
	}

	return opts, nil
}

// buildPageSettings creates rasterpdf.PageSettings from flags and config.
// Returns nil when neither specifies anything, letting the library
// default to A4 portrait.
func buildPageSettings(flags *exportFlags, cfg *config.Config) (*rasterpdf.PageSettings, error) {
	hasFlags := flags.page.size != "" || flags.page.orientation != ""
	hasConfig := cfg.Page.Size != "" || cfg.Page.Orientation != ""

	if !hasFlags && !hasConfig {
		return nil, nil
	}

	ps := &rasterpdf.PageSettings{
		Size:        cfg.Page.Size,
		Orientation: cfg.Page.Orientation,
	}

	// CLI flags override config
	if flags.page.size != "" {
		ps.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		ps.Orientation = flags.page.orientation
	}

	// Apply defaults
	if ps.Size == "" {
		ps.Size = rasterpdf.PageSizeA4
	}
	if ps.Orientation == "" {
		ps.Orientation = rasterpdf.OrientationPortrait
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles finds all document files to export.
// Accepts YAML document descriptions and pre-rendered HTML pages.
func discoverFiles(inputPath, outputDir string) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateDocumentExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToExport{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isDocumentExtension(filepath.Ext(path)) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToExport{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for a document file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// isDocumentExtension reports whether ext names an exportable file.
func isDocumentExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".html":
		return true
	}
	return false
}

// validateDocumentExtension checks that the file is a YAML document or
// an HTML page.
func validateDocumentExtension(path string) error {
	if !isDocumentExtension(filepath.Ext(path)) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > rasterpdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, rasterpdf.MaxPoolSize)
	}
	return nil
}

// documentFromFile converts a parsed YAML document into the library
// model, filling issuer fields from config defaults when the document
// leaves them empty.
func documentFromFile(doc *config.DocumentFile, issuerDefaults config.PartyConfig) *rasterpdf.Document {
	issuer := doc.Issuer
	if issuer.Name == "" {
		issuer = issuerDefaults
	}

	items := make([]rasterpdf.LineItem, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = rasterpdf.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		}
	}

	return &rasterpdf.Document{
		Kind:     doc.Kind,
		Number:   doc.Number,
		Date:     doc.Date,
		DueDate:  doc.DueDate,
		Currency: doc.Currency,
		Issuer:   toParty(issuer),
		Client:   toParty(doc.Client),
		Items:    items,
		Notes:    doc.Notes,
		Terms:    doc.Terms,
		LogoPath: doc.LogoPath,
	}
}

// toParty converts a config party to the library type.
func toParty(p config.PartyConfig) rasterpdf.Party {
	return rasterpdf.Party{
		Name:    p.Name,
		Address: p.Address,
		Email:   p.Email,
		Phone:   p.Phone,
		TaxID:   p.TaxID,
	}
}
