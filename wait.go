package georender

import (
	"encoding/json"
	"time"
)

// WaitType identifies the variant of a WaitAction.
type WaitType string

// Wait action variants.
const (
	WaitTypeDelay    WaitType = "delay"
	WaitTypeSelector WaitType = "selector"
	WaitTypeText     WaitType = "text"
	WaitTypeClick    WaitType = "click"
)

// SelectorState is the element state a selector wait action waits for.
type SelectorState string

// Selector states.
const (
	StateVisible  SelectorState = "visible"
	StateHidden   SelectorState = "hidden"
	StateAttached SelectorState = "attached"
)

// Documented ranges and defaults for wait actions.
const (
	DefaultWaitTimeout = 30 * time.Second

	MinDelay       = 100 * time.Millisecond
	MaxDelay       = 60 * time.Second
	MinWaitTimeout = 1 * time.Second
	MaxWaitTimeout = 60 * time.Second
)

// WaitAction is an instruction the service executes while rendering.
// Durations are encoded in milliseconds. Construct values with WaitDelay,
// WaitForSelector, WaitForText or Click.
type WaitAction struct {
	Type     WaitType      `json:"type"`
	Duration int64         `json:"duration,omitempty"`
	Selector *string       `json:"selector,omitempty"`
	State    SelectorState `json:"state,omitempty"`
	Text     string        `json:"text,omitempty"`
	Timeout  int64         `json:"timeout,omitempty"`
}

// WaitOption configures a WaitAction.
type WaitOption func(*WaitAction)

// WithTimeout sets how long the service waits before giving up on the action.
// Defaults to DefaultWaitTimeout.
func WithTimeout(d time.Duration) WaitOption {
	return func(a *WaitAction) {
		a.Timeout = d.Milliseconds()
	}
}

// WithState sets the element state a selector action waits for.
// Defaults to StateVisible.
func WithState(state SelectorState) WaitOption {
	return func(a *WaitAction) {
		a.State = state
	}
}

// InSelector restricts a text action to the element matching selector.
func InSelector(selector string) WaitOption {
	return func(a *WaitAction) {
		a.Selector = &selector
	}
}

// WaitDelay pauses rendering for d.
func WaitDelay(d time.Duration) WaitAction {
	return WaitAction{
		Type:     WaitTypeDelay,
		Duration: d.Milliseconds(),
	}
}

// WaitForSelector waits until an element matching selector reaches a state.
func WaitForSelector(selector string, opts ...WaitOption) WaitAction {
	a := WaitAction{
		Type:     WaitTypeSelector,
		Selector: &selector,
		State:    StateVisible,
		Timeout:  DefaultWaitTimeout.Milliseconds(),
	}
	return a.apply(opts)
}

// WaitForText waits until text appears on the page. The selector key is
// sent only when InSelector is given.
func WaitForText(text string, opts ...WaitOption) WaitAction {
	a := WaitAction{
		Type:    WaitTypeText,
		Text:    text,
		Timeout: DefaultWaitTimeout.Milliseconds(),
	}
	return a.apply(opts)
}

// Click clicks the element matching selector.
func Click(selector string, opts ...WaitOption) WaitAction {
	a := WaitAction{
		Type:     WaitTypeClick,
		Selector: &selector,
		Timeout:  DefaultWaitTimeout.Milliseconds(),
	}
	return a.apply(opts)
}

// MarshalJSON always emits the duration of a delay action and the timeout of
// the other kinds, even when zero.
func (a WaitAction) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type     WaitType      `json:"type"`
		Duration *int64        `json:"duration,omitempty"`
		Selector *string       `json:"selector,omitempty"`
		State    SelectorState `json:"state,omitempty"`
		Text     *string       `json:"text,omitempty"`
		Timeout  *int64        `json:"timeout,omitempty"`
	}
	w := wire{Type: a.Type, Selector: a.Selector, State: a.State}
	switch a.Type {
	case WaitTypeDelay:
		w.Duration = &a.Duration
	case WaitTypeText:
		w.Text = &a.Text
		w.Timeout = &a.Timeout
	default:
		if a.Text != "" {
			w.Text = &a.Text
		}
		w.Timeout = &a.Timeout
	}
	return json.Marshal(w)
}

func (a WaitAction) apply(opts []WaitOption) WaitAction {
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Validate returns an error if the action is outside the documented ranges.
func (a WaitAction) Validate() error {
	switch a.Type {
	case WaitTypeDelay:
		if a.Duration < MinDelay.Milliseconds() || a.Duration > MaxDelay.Milliseconds() {
			return Errorf(EINVALID, "delay must be between %d and %d ms, got %d",
				MinDelay.Milliseconds(), MaxDelay.Milliseconds(), a.Duration)
		}
		return nil
	case WaitTypeSelector:
		if a.Selector == nil || *a.Selector == "" {
			return Errorf(EINVALID, "selector wait requires a selector")
		}
		switch a.State {
		case StateVisible, StateHidden, StateAttached:
		default:
			return Errorf(EINVALID, "unknown selector state %q", a.State)
		}
	case WaitTypeText:
		if a.Text == "" {
			return Errorf(EINVALID, "text wait requires text")
		}
	case WaitTypeClick:
		if a.Selector == nil || *a.Selector == "" {
			return Errorf(EINVALID, "click requires a selector")
		}
	default:
		return Errorf(EINVALID, "unknown wait action type %q", a.Type)
	}

	if a.Timeout < MinWaitTimeout.Milliseconds() || a.Timeout > MaxWaitTimeout.Milliseconds() {
		return Errorf(EINVALID, "timeout must be between %d and %d ms, got %d",
			MinWaitTimeout.Milliseconds(), MaxWaitTimeout.Milliseconds(), a.Timeout)
	}
	return nil
}
