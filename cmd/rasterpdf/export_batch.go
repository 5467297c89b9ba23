package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rasterpdf "github.com/alnah/go-rasterpdf"
	"github.com/alnah/go-rasterpdf/internal/config"
	"github.com/alnah/go-rasterpdf/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileResult holds the outcome of a single export.
type FileResult struct {
	InputPath  string
	OutputPath string
	Pages      int
	Err        error
	Duration   time.Duration
}

// exportBatch processes files concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams, env *Environment) []FileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]FileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				// Exporter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = FileResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("initializing exporter: %w", err),
					}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = FileResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, exp, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile processes a single file and returns the result.
func exportFile(ctx context.Context, exp Exporter, f FileToExport, params *exportParams) FileResult {
	start := time.Now()
	result := FileResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	input, err := buildInput(f.InputPath, params)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		result.Duration = time.Since(start)
		return result
	}

	expResult, err := exp.Export(ctx, *input)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Pages = expResult.Pages

	// Write HTML output if requested (--html or --html-only)
	if params.htmlOnly || params.htmlOutput {
		htmlPath := htmlOutputPath(f.OutputPath)
		// #nosec G306 -- HTML files are meant to be readable
		if err := os.WriteFile(htmlPath, expResult.HTML, filePermissions); err != nil {
			result.Err = fmt.Errorf("failed to write HTML file: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		// For --html-only, the HTML file is the output
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = time.Since(start)
			return result
		}
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, expResult.PDF, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePDF, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// buildInput constructs the export input for one file. HTML files pass
// through as-is; YAML files are parsed and validated as documents.
func buildInput(path string, params *exportParams) (*rasterpdf.Input, error) {
	input := &rasterpdf.Input{
		Page:     params.page,
		HTMLOnly: params.htmlOnly,
	}

	if strings.EqualFold(filepath.Ext(path), ".html") {
		content, err := os.ReadFile(path) // #nosec G304 -- discovered path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
		}
		input.HTML = string(content)
		return input, nil
	}

	doc, err := config.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	input.Document = documentFromFile(doc, params.issuer)
	return input, nil
}

// htmlOutputPath derives the HTML output path from a PDF output path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".html"
}

// ResultSummary holds the count of succeeded and failed exports.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed exports.
func countResults(results []FileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs export results using the environment's writers.
// Returns the number of failures.
func printResults(results []FileResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n",
				r.InputPath, r.OutputPath, r.Pages, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
