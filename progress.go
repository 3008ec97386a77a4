package georender

import "time"

// EventType identifies a lifecycle transition of a render job.
type EventType string

// Progress event types, in lifecycle order.
const (
	EventStarted   EventType = "started"
	EventPolling   EventType = "polling"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
)

// ProgressEvent describes a lifecycle transition of a render job.
// Events are observational: a fresh value is emitted for every transition.
type ProgressEvent struct {
	Type      EventType
	RenderID  string
	Timestamp time.Time

	// Status, Attempt and RetryAfter are set on polling, completed and failed events.
	Status     Status
	Attempt    int
	RetryAfter float64

	// Result is set on completed events.
	Result *Result
}

// ProgressFunc is called synchronously at each lifecycle transition.
type ProgressFunc func(ProgressEvent)
