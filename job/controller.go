// Package job drives render jobs on the rendering service from submission
// to a terminal state.
package job

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/fwojciec/georender"
)

// Lifecycle defaults.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultMaxAttempts  = 60
	DefaultPollInterval = 1 * time.Second
)

// Config holds the polling parameters of a Controller.
// Zero fields take their defaults.
type Config struct {
	// InitialDelay is waited once after submission, before the first
	// status check. The service needs this long before a check is useful.
	InitialDelay time.Duration

	// MaxAttempts caps the number of status checks.
	MaxAttempts int

	// PollInterval is waited between checks when the service gives no
	// retryAfter hint.
	PollInterval time.Duration
}

// DefaultConfig returns the standard lifecycle configuration.
func DefaultConfig() Config {
	return Config{
		InitialDelay: DefaultInitialDelay,
		MaxAttempts:  DefaultMaxAttempts,
		PollInterval: DefaultPollInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.InitialDelay <= 0 {
		c.InitialDelay = DefaultInitialDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Controller submits render jobs and polls them until they complete, fail,
// or run out of attempts. It holds no per-job state and is safe for
// concurrent use.
type Controller struct {
	Service georender.RenderService

	// Decoder is applied to every fetched status. Nil leaves payloads as
	// received.
	Decoder georender.Decoder

	Config Config

	// Now and Sleep default to time.Now and a context-aware sleep.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// errStopped is returned internally when an event consumer stops iterating.
var errStopped = errors.New("event consumer stopped")

// Render submits url and waits for the job to reach a terminal state,
// calling progress synchronously at every transition. progress may be nil.
//
// Returns *georender.FailedError when the service reports a failure,
// *georender.TimeoutError when attempts run out and
// *georender.CanceledError when ctx ends first. Transport errors abort
// immediately without retry.
func (c *Controller) Render(ctx context.Context, url string, opts *georender.Options, progress georender.ProgressFunc) (*georender.Result, error) {
	return c.run(ctx, url, opts, func(e georender.ProgressEvent) bool {
		if progress != nil {
			progress(e)
		}
		return true
	})
}

// Events runs the same lifecycle as Render and yields its events as they
// happen. A lifecycle error is yielded last with a zero event. Breaking out
// of the loop stops the lifecycle; no further requests are made.
func (c *Controller) Events(ctx context.Context, url string, opts *georender.Options) iter.Seq2[georender.ProgressEvent, error] {
	return func(yield func(georender.ProgressEvent, error) bool) {
		_, err := c.run(ctx, url, opts, func(e georender.ProgressEvent) bool {
			return yield(e, nil)
		})
		if err != nil && !errors.Is(err, errStopped) {
			yield(georender.ProgressEvent{}, err)
		}
	}
}

// Create submits a render job without waiting for it.
func (c *Controller) Create(ctx context.Context, url string, opts *georender.Options) (*georender.Job, error) {
	return c.Service.CreateRender(ctx, url, opts)
}

// Get fetches and decodes the current state of a render job.
func (c *Controller) Get(ctx context.Context, renderID string) (*georender.Result, error) {
	result, err := c.Service.GetRender(ctx, renderID)
	if err != nil {
		return nil, err
	}
	if c.Decoder != nil {
		c.Decoder.Decode(result)
	}
	return result, nil
}

// Balance returns the account balance.
func (c *Controller) Balance(ctx context.Context) (*georender.Balance, error) {
	return c.Service.GetAccountBalance(ctx)
}

func (c *Controller) run(ctx context.Context, url string, opts *georender.Options, emit func(georender.ProgressEvent) bool) (*georender.Result, error) {
	cfg := c.Config.withDefaults()

	job, err := c.Service.CreateRender(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	id := job.RenderID

	if !emit(georender.ProgressEvent{
		Type:      georender.EventStarted,
		RenderID:  id,
		Timestamp: c.now(),
	}) {
		return nil, errStopped
	}

	if err := c.sleep(ctx, cfg.InitialDelay); err != nil {
		return nil, canceled(id, err)
	}

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := c.Get(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, canceled(id, err)
			}
			return nil, err
		}
		if result.RenderID == "" {
			result.RenderID = id
		}

		if !emit(georender.ProgressEvent{
			Type:       georender.EventPolling,
			RenderID:   id,
			Timestamp:  c.now(),
			Status:     result.Status,
			Attempt:    attempt,
			RetryAfter: result.RetryAfter,
		}) {
			return nil, errStopped
		}

		switch result.Status {
		case georender.StatusCompleted:
			if !emit(georender.ProgressEvent{
				Type:      georender.EventCompleted,
				RenderID:  id,
				Timestamp: c.now(),
				Status:    result.Status,
				Attempt:   attempt,
				Result:    result,
			}) {
				return nil, errStopped
			}
			return result, nil

		case georender.StatusFailed:
			msg := result.Error
			if msg == "" {
				msg = "Unknown error"
			}
			if !emit(georender.ProgressEvent{
				Type:      georender.EventFailed,
				RenderID:  id,
				Timestamp: c.now(),
				Status:    result.Status,
				Attempt:   attempt,
			}) {
				return nil, errStopped
			}
			return nil, &georender.FailedError{RenderID: id, Message: msg}
		}

		delay := cfg.PollInterval
		if result.RetryAfter > 0 {
			delay = time.Duration(result.RetryAfter * float64(time.Second))
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, canceled(id, err)
		}
	}

	return nil, &georender.TimeoutError{RenderID: id, Attempts: cfg.MaxAttempts}
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep != nil {
		return c.Sleep(ctx, d)
	}
	return Sleep(ctx, d)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// canceled tags a cancellation with the render it interrupted.
func canceled(renderID string, err error) error {
	var ce *georender.CanceledError
	if errors.As(err, &ce) {
		if ce.RenderID == "" {
			ce.RenderID = renderID
		}
		return ce
	}
	return &georender.CanceledError{RenderID: renderID, Err: err}
}
