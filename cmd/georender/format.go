package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/georender"
	"github.com/fwojciec/georender/fs"
)

// printProgress writes one line per lifecycle event.
func printProgress(w io.Writer, e georender.ProgressEvent) {
	switch e.Type {
	case georender.EventStarted:
		fmt.Fprintf(w, "render %s started\n", e.RenderID)
	case georender.EventPolling:
		if e.RetryAfter > 0 {
			fmt.Fprintf(w, "  poll %d: %s (retry in %gs)\n", e.Attempt, e.Status, e.RetryAfter)
		} else {
			fmt.Fprintf(w, "  poll %d: %s\n", e.Attempt, e.Status)
		}
	case georender.EventCompleted:
		fmt.Fprintf(w, "render %s completed\n", e.RenderID)
	case georender.EventFailed:
		fmt.Fprintf(w, "render %s failed\n", e.RenderID)
	}
}

// formatSummary describes a completed render and its page.
func formatSummary(url string, r *georender.Result, info *georender.PageInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL:         %s\n", url)
	fmt.Fprintf(&b, "Render:      %s\n", r.RenderID)
	if r.SelectedCity != "" {
		fmt.Fprintf(&b, "City:        %s\n", r.SelectedCity)
	}
	fmt.Fprintf(&b, "Title:       %s\n", info.Title)
	if info.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", info.Description)
	}
	if info.Canonical != "" {
		fmt.Fprintf(&b, "Canonical:   %s\n", info.Canonical)
	}
	fmt.Fprintf(&b, "Links:       %d\n", len(info.Links))
	fmt.Fprintf(&b, "HTML:        %s (hash %s)\n", formatBytes(len(r.HTML)), fs.ContentHash(r.HTML))
	if n := len(r.FetchResponses.Items); n > 0 {
		fmt.Fprintf(&b, "Fetched:     %d responses\n", n)
	}
	if bw := r.Bandwidth; bw != nil {
		fmt.Fprintf(&b, "Bandwidth:   %s in %d requests", formatBytes(int(bw.TotalBytes)), bw.RequestCount)
		if bw.BlockedRequests > 0 {
			fmt.Fprintf(&b, ", %d blocked", bw.BlockedRequests)
		}
		b.WriteString("\n")
	}
	if c := r.Captcha; c != nil && c.Detected {
		fmt.Fprintf(&b, "CAPTCHA:     %s solved=%t\n", c.Type, c.Solved)
	}
	if t := r.Timing; t != nil && t.TotalMs > 0 {
		fmt.Fprintf(&b, "Time:        %s\n", time.Duration(t.TotalMs)*time.Millisecond)
	}
	return b.String()
}

// decodeScreenshot decodes a base64 screenshot, with or without a data URL
// prefix.
func decodeScreenshot(s string) ([]byte, error) {
	if s == "" {
		return nil, georender.Errorf(georender.ENOTFOUND, "render returned no screenshot")
	}
	if _, data, ok := strings.Cut(s, ";base64,"); ok {
		s = data
	}
	img, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, georender.Errorf(georender.EINVALID, "invalid screenshot encoding: %v", err)
	}
	return img, nil
}

// truncateURL shortens a URL for display, keeping the more informative end.
func truncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// formatBytes formats bytes in human-readable form.
func formatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
