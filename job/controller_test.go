package job_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/job"
	"github.com/fwojciec/georender/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedService returns a RenderService that creates render "r-1" and
// answers status checks with results in order, repeating the last one.
func scriptedService(results ...georender.Result) (*mock.RenderService, *int) {
	var mu sync.Mutex
	calls := 0
	svc := &mock.RenderService{
		CreateRenderFn: func(_ context.Context, _ string, _ *georender.Options) (*georender.Job, error) {
			return &georender.Job{RenderID: "r-1"}, nil
		},
		GetRenderFn: func(_ context.Context, id string) (*georender.Result, error) {
			mu.Lock()
			defer mu.Unlock()
			i := min(calls, len(results)-1)
			calls++
			r := results[i]
			r.RenderID = id
			return &r, nil
		},
	}
	return svc, &calls
}

// recordSleep returns a Sleep func that records requested delays without waiting.
func recordSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func eventTypes(events []georender.ProgressEvent) []georender.EventType {
	types := make([]georender.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestController_Render(t *testing.T) {
	t.Parallel()

	t.Run("emits events in order and returns the completed result", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(
			georender.Result{Status: georender.StatusProcessing, RetryAfter: 1},
			georender.Result{Status: georender.StatusProcessing, RetryAfter: 1},
			georender.Result{Status: georender.StatusCompleted, HTML: "<html></html>"},
		)
		var delays []time.Duration
		c := &job.Controller{Service: svc, Sleep: recordSleep(&delays)}

		var events []georender.ProgressEvent
		result, err := c.Render(context.Background(), "https://example.com", nil, func(e georender.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, georender.StatusCompleted, result.Status)
		assert.Equal(t, []georender.EventType{
			georender.EventStarted,
			georender.EventPolling,
			georender.EventPolling,
			georender.EventPolling,
			georender.EventCompleted,
		}, eventTypes(events))
		assert.Equal(t, 1, events[1].Attempt)
		assert.Equal(t, 2, events[2].Attempt)
		assert.Equal(t, 3, events[3].Attempt)
		assert.InDelta(t, 1.0, events[1].RetryAfter, 0)
		assert.Same(t, result, events[4].Result)
		for _, e := range events {
			assert.Equal(t, "r-1", e.RenderID)
			assert.False(t, e.Timestamp.IsZero())
		}
		assert.Equal(t, []time.Duration{2 * time.Second, time.Second, time.Second}, delays)
	})

	t.Run("reports service failure after the failed event", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(georender.Result{Status: georender.StatusFailed, Error: "blocked"})
		var delays []time.Duration
		c := &job.Controller{Service: svc, Sleep: recordSleep(&delays)}

		var events []georender.ProgressEvent
		_, err := c.Render(context.Background(), "https://example.com", nil, func(e georender.ProgressEvent) {
			events = append(events, e)
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "blocked")
		assert.Equal(t, georender.EFAILED, georender.ErrorCode(err))
		var failed *georender.FailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, "r-1", failed.RenderID)
		assert.Equal(t, []georender.EventType{
			georender.EventStarted,
			georender.EventPolling,
			georender.EventFailed,
		}, eventTypes(events))
	})

	t.Run("uses a generic message when the failure has none", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(georender.Result{Status: georender.StatusFailed})
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		_, err := c.Render(context.Background(), "https://example.com", nil, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown error")
	})

	t.Run("times out after the attempt cap", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusProcessing})
		var delays []time.Duration
		c := &job.Controller{Service: svc, Sleep: recordSleep(&delays)}

		polling := 0
		_, err := c.Render(context.Background(), "https://example.com", nil, func(e georender.ProgressEvent) {
			if e.Type == georender.EventPolling {
				polling++
			}
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "60 attempts")
		assert.Equal(t, georender.ETIMEOUT, georender.ErrorCode(err))
		assert.Equal(t, 60, polling)
		assert.Equal(t, 60, *calls)
		require.Len(t, delays, 61)
		assert.Equal(t, 2*time.Second, delays[0])
		for _, d := range delays[1:] {
			assert.Equal(t, time.Second, d)
		}
	})

	t.Run("honors configured limits", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusCreated})
		var delays []time.Duration
		c := &job.Controller{
			Service: svc,
			Config:  job.Config{InitialDelay: 10 * time.Millisecond, MaxAttempts: 3, PollInterval: 5 * time.Millisecond},
			Sleep:   recordSleep(&delays),
		}

		_, err := c.Render(context.Background(), "https://example.com", nil, nil)

		var timeout *georender.TimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, 3, timeout.Attempts)
		assert.Equal(t, 3, *calls)
		assert.Equal(t, []time.Duration{10 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond, 5 * time.Millisecond}, delays)
	})

	t.Run("waits for the server retry hint", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(
			georender.Result{Status: georender.StatusProcessing, RetryAfter: 5},
			georender.Result{Status: georender.StatusCompleted},
		)
		var delays []time.Duration
		c := &job.Controller{Service: svc, Sleep: recordSleep(&delays)}

		_, err := c.Render(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second}, delays)
	})

	t.Run("waits for a fractional retry hint", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(
			georender.Result{Status: georender.StatusProcessing, RetryAfter: 1.5},
			georender.Result{Status: georender.StatusCompleted},
		)
		var delays []time.Duration
		c := &job.Controller{Service: svc, Sleep: recordSleep(&delays)}

		_, err := c.Render(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []time.Duration{2 * time.Second, 1500 * time.Millisecond}, delays)
	})

	t.Run("decodes every status snapshot", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(
			georender.Result{Status: georender.StatusProcessing, HTML: "enc"},
			georender.Result{Status: georender.StatusCompleted, HTML: "enc"},
		)
		decoded := 0
		c := &job.Controller{
			Service: svc,
			Decoder: &mock.Decoder{DecodeFn: func(r *georender.Result) {
				decoded++
				r.HTML = "<p>plain</p>"
			}},
			Sleep: recordSleep(new([]time.Duration)),
		}

		result, err := c.Render(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 2, decoded)
		assert.Equal(t, "<p>plain</p>", result.HTML)
	})

	t.Run("aborts on submission error without events", func(t *testing.T) {
		t.Parallel()

		want := &georender.HTTPError{StatusCode: 402, Body: "insufficient balance"}
		svc := &mock.RenderService{
			CreateRenderFn: func(context.Context, string, *georender.Options) (*georender.Job, error) {
				return nil, want
			},
		}
		c := &job.Controller{Service: svc}

		called := false
		_, err := c.Render(context.Background(), "https://example.com", nil, func(georender.ProgressEvent) {
			called = true
		})

		assert.ErrorIs(t, err, want)
		assert.False(t, called)
	})

	t.Run("aborts on status error without retry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		svc := &mock.RenderService{
			CreateRenderFn: func(context.Context, string, *georender.Options) (*georender.Job, error) {
				return &georender.Job{RenderID: "r-1"}, nil
			},
			GetRenderFn: func(context.Context, string) (*georender.Result, error) {
				calls++
				return nil, &georender.HTTPError{StatusCode: 500, Body: "oops"}
			},
		}
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		_, err := c.Render(context.Background(), "https://example.com", nil, nil)

		assert.Equal(t, georender.EHTTP, georender.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("passes options through to submission", func(t *testing.T) {
		t.Parallel()

		var got *georender.Options
		svc, _ := scriptedService(georender.Result{Status: georender.StatusCompleted})
		svc.CreateRenderFn = func(_ context.Context, _ string, opts *georender.Options) (*georender.Job, error) {
			got = opts
			return &georender.Job{RenderID: "r-1"}, nil
		}
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		opts := &georender.Options{CountryCode: georender.Ptr("fr")}
		_, err := c.Render(context.Background(), "https://example.com", opts, nil)

		require.NoError(t, err)
		assert.Same(t, opts, got)
	})

	t.Run("propagates a panicking progress callback", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusCompleted})
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		assert.Panics(t, func() {
			_, _ = c.Render(context.Background(), "https://example.com", nil, func(georender.ProgressEvent) {
				panic("boom")
			})
		})
		assert.Equal(t, 0, *calls)
	})
}

func TestController_Render_Cancellation(t *testing.T) {
	t.Parallel()

	t.Run("returns canceled error during the initial delay", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusProcessing})
		c := &job.Controller{Service: svc}

		ctx, cancel := context.WithCancel(context.Background())
		_, err := c.Render(ctx, "https://example.com", nil, func(e georender.ProgressEvent) {
			if e.Type == georender.EventStarted {
				cancel()
			}
		})

		var canceled *georender.CanceledError
		require.ErrorAs(t, err, &canceled)
		assert.Equal(t, "r-1", canceled.RenderID)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, georender.ECANCELED, georender.ErrorCode(err))
		assert.Equal(t, 0, *calls)
	})

	t.Run("returns canceled error between polls", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusProcessing})
		c := &job.Controller{
			Service: svc,
			Config:  job.Config{InitialDelay: time.Millisecond, PollInterval: time.Hour},
		}

		ctx, cancel := context.WithCancel(context.Background())
		_, err := c.Render(ctx, "https://example.com", nil, func(e georender.ProgressEvent) {
			if e.Type == georender.EventPolling {
				cancel()
			}
		})

		var canceled *georender.CanceledError
		require.ErrorAs(t, err, &canceled)
		assert.Equal(t, "r-1", canceled.RenderID)
		assert.Equal(t, 1, *calls)
	})

	t.Run("tags transport cancellation with the render ID", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		svc := &mock.RenderService{
			CreateRenderFn: func(context.Context, string, *georender.Options) (*georender.Job, error) {
				return &georender.Job{RenderID: "r-9"}, nil
			},
			GetRenderFn: func(ctx context.Context, _ string) (*georender.Result, error) {
				cancel()
				return nil, &georender.CanceledError{Err: ctx.Err()}
			},
		}
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		_, err := c.Render(ctx, "https://example.com", nil, nil)

		var canceled *georender.CanceledError
		require.ErrorAs(t, err, &canceled)
		assert.Equal(t, "r-9", canceled.RenderID)
	})
}

func TestController_Events(t *testing.T) {
	t.Parallel()

	t.Run("yields the lifecycle in order", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(
			georender.Result{Status: georender.StatusProcessing},
			georender.Result{Status: georender.StatusCompleted},
		)
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		var types []georender.EventType
		var result *georender.Result
		for e, err := range c.Events(context.Background(), "https://example.com", nil) {
			require.NoError(t, err)
			types = append(types, e.Type)
			if e.Type == georender.EventCompleted {
				result = e.Result
			}
		}

		assert.Equal(t, []georender.EventType{
			georender.EventStarted,
			georender.EventPolling,
			georender.EventPolling,
			georender.EventCompleted,
		}, types)
		require.NotNil(t, result)
		assert.Equal(t, georender.StatusCompleted, result.Status)
	})

	t.Run("yields the error after the failed event", func(t *testing.T) {
		t.Parallel()

		svc, _ := scriptedService(georender.Result{Status: georender.StatusFailed, Error: "blocked"})
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		var types []georender.EventType
		var last error
		for e, err := range c.Events(context.Background(), "https://example.com", nil) {
			if err != nil {
				last = err
				continue
			}
			types = append(types, e.Type)
		}

		assert.Equal(t, []georender.EventType{
			georender.EventStarted,
			georender.EventPolling,
			georender.EventFailed,
		}, types)
		require.Error(t, last)
		assert.Contains(t, last.Error(), "blocked")
	})

	t.Run("stops polling when the consumer breaks", func(t *testing.T) {
		t.Parallel()

		svc, calls := scriptedService(georender.Result{Status: georender.StatusProcessing})
		c := &job.Controller{Service: svc, Sleep: recordSleep(new([]time.Duration))}

		seen := 0
		for e, err := range c.Events(context.Background(), "https://example.com", nil) {
			require.NoError(t, err)
			seen++
			if e.Type == georender.EventPolling && e.Attempt == 2 {
				break
			}
		}

		assert.Equal(t, 3, seen)
		assert.Equal(t, 2, *calls)
	})

	t.Run("yields submission error alone", func(t *testing.T) {
		t.Parallel()

		svc := &mock.RenderService{
			CreateRenderFn: func(context.Context, string, *georender.Options) (*georender.Job, error) {
				return nil, errors.New("dial failed")
			},
		}
		c := &job.Controller{Service: svc}

		n := 0
		var last error
		for _, err := range c.Events(context.Background(), "https://example.com", nil) {
			n++
			last = err
		}

		assert.Equal(t, 1, n)
		assert.EqualError(t, last, "dial failed")
	})
}

func TestController_Get(t *testing.T) {
	t.Parallel()

	svc, _ := scriptedService(georender.Result{Status: georender.StatusProcessing, HTML: "raw"})
	c := &job.Controller{
		Service: svc,
		Decoder: &mock.Decoder{DecodeFn: func(r *georender.Result) { r.HTML = "decoded" }},
	}

	result, err := c.Get(context.Background(), "r-7")

	require.NoError(t, err)
	assert.Equal(t, "r-7", result.RenderID)
	assert.Equal(t, "decoded", result.HTML)
}

func TestController_Balance(t *testing.T) {
	t.Parallel()

	want := &georender.Balance{TotalBalanceCents: 1250, TotalBalanceFormatted: "$12.50"}
	c := &job.Controller{Service: &mock.RenderService{
		GetAccountBalanceFn: func(context.Context) (*georender.Balance, error) {
			return want, nil
		},
	}}

	got, err := c.Balance(context.Background())

	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestSleep(t *testing.T) {
	t.Parallel()

	t.Run("returns after the duration", func(t *testing.T) {
		t.Parallel()

		err := job.Sleep(context.Background(), time.Millisecond)

		require.NoError(t, err)
	})

	t.Run("returns early when the context ends", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := job.Sleep(ctx, time.Hour)

		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}
