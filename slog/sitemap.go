package slog

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/georender"
)

var _ georender.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each discovery with the number of URLs found
// and whether the result hit the discovery cap.
type LoggingSitemapService struct {
	next   georender.SitemapService
	logger *slog.Logger
	limit  int
}

// SitemapLogOption configures a LoggingSitemapService.
type SitemapLogOption func(*LoggingSitemapService)

// WithURLLimit tells the logger the cap the wrapped service applies, so a
// discovery returning that many URLs is reported as truncated.
func WithURLLimit(n int) SitemapLogOption {
	return func(s *LoggingSitemapService) {
		s.limit = n
	}
}

func NewLoggingSitemapService(next georender.SitemapService, logger *slog.Logger, opts ...SitemapLogOption) *LoggingSitemapService {
	s := &LoggingSitemapService{next: next, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *georender.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"site", siteOf(baseURL)}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		attrs = append(attrs, "urls", len(urls))
		if s.limit > 0 {
			attrs = append(attrs, "limit", s.limit, "truncated", len(urls) >= s.limit)
		}
		attrs = append(attrs, "duration", time.Since(begin))
		log(ctx, s.logger, "discover urls", err, attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// siteOf returns host and path of rawURL, or rawURL itself if it does not parse.
func siteOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host + u.Path
}
