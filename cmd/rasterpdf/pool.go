package main

import (
	"context"

	rasterpdf "github.com/alnah/go-rasterpdf"
)

// Exporter is the interface the CLI needs from an export worker.
type Exporter interface {
	Export(ctx context.Context, input rasterpdf.Input) (*rasterpdf.ExportResult, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*rasterpdf.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Exporter, error)
	Release(Exporter)
	Size() int
}

// exporterPool adapts rasterpdf.ExporterPool to the CLI Pool interface.
type exporterPool struct {
	inner *rasterpdf.ExporterPool
}

// Compile-time check that exporterPool implements Pool.
var _ Pool = (*exporterPool)(nil)

// newExporterPool creates a pool of n exporters configured with opts.
func newExporterPool(n int, opts ...rasterpdf.Option) *exporterPool {
	return &exporterPool{inner: rasterpdf.NewExporterPool(n, opts...)}
}

func (p *exporterPool) Acquire() (Exporter, error) {
	exp, err := p.inner.Acquire()
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func (p *exporterPool) Release(exp Exporter) {
	if concrete, ok := exp.(*rasterpdf.Exporter); ok {
		p.inner.Release(concrete)
	}
}

func (p *exporterPool) Size() int {
	return p.inner.Size()
}

// Close releases all browser resources.
func (p *exporterPool) Close() error {
	return p.inner.Close()
}
