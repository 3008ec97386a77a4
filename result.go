package georender

import (
	"bytes"
	"encoding/json"
)

// Status is the server-reported state of a render job.
type Status string

// Render job states. Any status other than completed or failed is
// treated as still in progress.
const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further status changes are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job identifies a render job created on the service.
type Job struct {
	RenderID string `json:"renderId"`
}

// Result is a snapshot of a render job as returned by a status check.
//
// HTML and FetchResponses may arrive base64+gzip encoded. A Decoder turns
// them into plain text and structured data; fields that fail to decode are
// left exactly as received.
type Result struct {
	RenderID       string            `json:"renderId,omitempty"`
	Status         Status            `json:"status"`
	HTML           string            `json:"html,omitempty"`
	FetchResponses FetchResponses    `json:"fetchResponses,omitzero"`
	Screenshot     string            `json:"screenshot,omitempty"`
	SelectedCity   string            `json:"selectedCity,omitempty"`
	Bandwidth      *BandwidthMetrics `json:"bandwidthMetrics,omitempty"`
	Captcha        *CaptchaInfo      `json:"captcha,omitempty"`
	Timing         *Timing           `json:"timing,omitempty"`

	// RetryAfter is the server-suggested number of seconds before the next
	// status check and may be fractional. Zero means no suggestion.
	RetryAfter float64 `json:"retryAfter,omitempty"`

	// Error is the server's failure message when Status is StatusFailed.
	Error string `json:"error,omitempty"`
}

// FetchResponse describes one of the additional URLs fetched during a render.
type FetchResponse struct {
	URL     string            `json:"url"`
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// FetchResponses holds the fetchResponses field of a Result.
//
// Raw is the value exactly as received: either a JSON array or a JSON string
// carrying base64+gzip encoded JSON. Items is populated when the value is a
// plain array or once a Decoder has decoded the string form; it stays nil
// when decoding is not possible.
type FetchResponses struct {
	Raw   json.RawMessage
	Items []FetchResponse
}

// IsZero reports whether the field was absent.
func (f FetchResponses) IsZero() bool {
	return len(f.Raw) == 0 && f.Items == nil
}

// Encoded returns the string form of Raw, if Raw is a JSON string.
func (f FetchResponses) Encoded() (string, bool) {
	raw := bytes.TrimSpace(f.Raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// UnmarshalJSON keeps the raw value and parses it eagerly when it is
// already a plain array. Malformed arrays are kept raw without an error.
func (f *FetchResponses) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}

	f.Raw = append(json.RawMessage(nil), raw...)
	f.Items = nil

	if len(raw) > 0 && raw[0] == '[' {
		var items []FetchResponse
		if err := json.Unmarshal(raw, &items); err == nil {
			f.Items = items
		}
	}
	return nil
}

// MarshalJSON emits the decoded items when available, the raw value otherwise.
func (f FetchResponses) MarshalJSON() ([]byte, error) {
	if f.Items != nil {
		return json.Marshal(f.Items)
	}
	if len(f.Raw) == 0 {
		return []byte("null"), nil
	}
	return f.Raw, nil
}

// BandwidthMetrics reports traffic used by a render.
type BandwidthMetrics struct {
	TotalBytes      int64 `json:"totalBytes"`
	RequestCount    int   `json:"requestCount"`
	BlockedRequests int   `json:"blockedRequests,omitempty"`
}

// CaptchaInfo reports CAPTCHA handling during a render.
type CaptchaInfo struct {
	Detected    bool   `json:"detected"`
	Type        string `json:"type,omitempty"`
	Solved      bool   `json:"solved"`
	SolveTimeMs int64  `json:"solveTimeMs,omitempty"`
}

// Timing is the server-side time breakdown of a render, in milliseconds.
type Timing struct {
	QueueMs   int64 `json:"queueMs,omitempty"`
	RenderMs  int64 `json:"renderMs,omitempty"`
	CaptchaMs int64 `json:"captchaMs,omitempty"`
	TotalMs   int64 `json:"totalMs,omitempty"`
}

// Balance is the account balance reported by the service.
type Balance struct {
	TotalBalanceCents     int64            `json:"totalBalanceCents"`
	TotalBalanceFormatted string           `json:"totalBalanceFormatted"`
	Breakdown             BalanceBreakdown `json:"breakdown"`
}

// BalanceBreakdown splits the balance by funding source. The parts need not
// sum to the total.
type BalanceBreakdown struct {
	Paid  Amount `json:"paid"`
	Free  Amount `json:"free"`
	Bonus Amount `json:"bonus"`
}

// Amount is a monetary value in cents with its display form.
type Amount struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}
