package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/georender"
)

// ParseWait parses a --wait flag value into a wait action.
//
//	delay:500ms | delay:500
//	selector:#main | selector:#main:hidden
//	text:Hello | text:Hello@.greeting
//	click:#accept
func ParseWait(value string) (georender.WaitAction, error) {
	kind, arg, ok := strings.Cut(value, ":")
	if !ok || arg == "" {
		return georender.WaitAction{}, georender.Errorf(georender.EINVALID, "invalid wait %q: expected kind:value", value)
	}

	switch kind {
	case "delay":
		d, err := parseDelay(arg)
		if err != nil {
			return georender.WaitAction{}, georender.Errorf(georender.EINVALID, "invalid wait delay %q", arg)
		}
		return georender.WaitDelay(d), nil

	case "selector":
		if i := strings.LastIndex(arg, ":"); i > 0 {
			switch state := georender.SelectorState(arg[i+1:]); state {
			case georender.StateVisible, georender.StateHidden, georender.StateAttached:
				return georender.WaitForSelector(arg[:i], georender.WithState(state)), nil
			}
		}
		return georender.WaitForSelector(arg), nil

	case "text":
		if i := strings.LastIndex(arg, "@"); i > 0 && i < len(arg)-1 {
			return georender.WaitForText(arg[:i], georender.InSelector(arg[i+1:])), nil
		}
		return georender.WaitForText(arg), nil

	case "click":
		return georender.Click(arg), nil
	}

	return georender.WaitAction{}, georender.Errorf(georender.EINVALID, "unknown wait kind %q", kind)
}

// parseDelay accepts a Go duration or a bare number of milliseconds.
func parseDelay(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// Options converts the flags into rendering options. Unset flags stay nil
// so the service applies its defaults.
func (f *RenderFlags) Options(screenshot bool) (*georender.Options, error) {
	opts := &georender.Options{
		FetchURLs:   f.FetchURL,
		BlockImages: f.BlockImages,
	}
	if f.Country != "" {
		opts.CountryCode = georender.Ptr(f.Country)
	}
	if f.City != "" {
		opts.City = georender.Ptr(f.City)
	}
	for _, value := range f.Wait {
		action, err := ParseWait(value)
		if err != nil {
			return nil, err
		}
		opts.WaitFor = append(opts.WaitFor, action)
	}
	if f.Captcha != "" {
		opts.Captcha = georender.Ptr(georender.CaptchaMode(f.Captcha))
	}
	if screenshot {
		opts.IncludeScreenshot = georender.Ptr(true)
		if f.ScreenshotFormat != "" {
			opts.ScreenshotFormat = georender.Ptr(georender.ScreenshotFormat(f.ScreenshotFormat))
		}
		if f.ScreenshotQuality != 0 {
			opts.ScreenshotQuality = georender.Ptr(f.ScreenshotQuality)
		}
		if f.FullPage {
			opts.ScreenshotFullPage = georender.Ptr(true)
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}
