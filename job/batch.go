package job

import (
	"context"

	"github.com/fwojciec/georender"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of renders a Batch runs at once.
const DefaultConcurrency = 3

// Batch renders many URLs with bounded concurrency.
type Batch struct {
	Controller *Controller

	// Concurrency caps simultaneous renders. Zero means DefaultConcurrency.
	Concurrency int

	// Limiter paces submissions per host. Nil means no pacing.
	Limiter georender.DomainLimiter
}

// BatchItem is the outcome of rendering one URL.
type BatchItem struct {
	URL    string
	Result *georender.Result
	Err    error
}

// BatchResult holds the outcome of a batch, with items in input order.
type BatchResult struct {
	Items     []BatchItem
	Completed int
	Failed    int
}

// BatchEvent reports progress during a batch.
type BatchEvent struct {
	Type     BatchEventType
	Done     int
	Total    int
	URL      string
	RenderID string
	Err      error
}

// BatchEventType indicates the type of batch event.
type BatchEventType int

const (
	BatchStarted BatchEventType = iota
	BatchCompleted
	BatchFailed
	BatchFinished
)

// BatchProgressFunc is a callback for reporting batch progress.
// It is always called from a single goroutine.
type BatchProgressFunc func(BatchEvent)

type batchOutcome struct {
	position int
	item     BatchItem
}

// RenderAll renders every URL with the same options. A failed render is
// recorded on its item and does not stop the others. When ctx ends, URLs
// not yet submitted are skipped with a canceled error and RenderAll returns
// the partial result together with ctx.Err().
func (b *Batch) RenderAll(ctx context.Context, urls []string, opts *georender.Options, progress BatchProgressFunc) (*BatchResult, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	if progress != nil {
		progress(BatchEvent{Type: BatchStarted, Total: total})
	}

	outcomes := make(chan batchOutcome, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				outcomes <- batchOutcome{position: i, item: b.renderOne(gctx, u, opts)}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	result := &BatchResult{Items: make([]BatchItem, total)}
	done := 0
	for o := range outcomes {
		done++
		result.Items[o.position] = o.item

		event := BatchEvent{Done: done, Total: total, URL: o.item.URL}
		if o.item.Err != nil {
			result.Failed++
			event.Type = BatchFailed
			event.Err = o.item.Err
		} else {
			result.Completed++
			event.Type = BatchCompleted
			event.RenderID = o.item.Result.RenderID
		}
		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(BatchEvent{Type: BatchFinished, Done: total, Total: total})
	}

	return result, ctx.Err()
}

func (b *Batch) renderOne(ctx context.Context, rawURL string, opts *georender.Options) BatchItem {
	item := BatchItem{URL: rawURL}

	if err := ctx.Err(); err != nil {
		item.Err = &georender.CanceledError{Err: err}
		return item
	}

	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx, hostOf(rawURL)); err != nil {
			item.Err = &georender.CanceledError{Err: err}
			return item
		}
	}

	item.Result, item.Err = b.Controller.Render(ctx, rawURL, opts, nil)
	return item
}
