package mock

import (
	"context"

	"github.com/fwojciec/georender"
)

var _ georender.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of georender.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*georender.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*georender.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ georender.Converter = (*Converter)(nil)

// Converter is a mock implementation of georender.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ georender.Inspector = (*Inspector)(nil)

// Inspector is a mock implementation of georender.Inspector.
type Inspector struct {
	InspectFn func(html string, baseURL string) (*georender.PageInfo, error)
}

func (i *Inspector) Inspect(html string, baseURL string) (*georender.PageInfo, error) {
	return i.InspectFn(html, baseURL)
}

var _ georender.OutputWriter = (*OutputWriter)(nil)

// OutputWriter is a mock implementation of georender.OutputWriter.
type OutputWriter struct {
	WriteOutputFn func(ctx context.Context, out *georender.Output) (string, error)
}

func (w *OutputWriter) WriteOutput(ctx context.Context, out *georender.Output) (string, error) {
	return w.WriteOutputFn(ctx, out)
}
