package mock

import (
	"context"
	"sync"

	"github.com/fwojciec/georender"
)

var _ georender.SitemapService = (*SitemapService)(nil)

// SitemapService records the sites it was asked about. With DiscoverURLsFn
// unset it finds nothing.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *georender.URLFilter) ([]string, error)

	mu    sync.Mutex
	sites []string
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *georender.URLFilter) ([]string, error) {
	s.mu.Lock()
	s.sites = append(s.sites, baseURL)
	s.mu.Unlock()

	if s.DiscoverURLsFn == nil {
		return []string{}, nil
	}
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

// Sites returns the base URLs passed to DiscoverURLs, in call order.
func (s *SitemapService) Sites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sites...)
}
