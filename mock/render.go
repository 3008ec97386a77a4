package mock

import (
	"context"

	"github.com/fwojciec/georender"
)

var _ georender.RenderService = (*RenderService)(nil)

// RenderService is a mock implementation of georender.RenderService.
type RenderService struct {
	CreateRenderFn      func(ctx context.Context, url string, opts *georender.Options) (*georender.Job, error)
	GetRenderFn         func(ctx context.Context, renderID string) (*georender.Result, error)
	GetAccountBalanceFn func(ctx context.Context) (*georender.Balance, error)
}

func (s *RenderService) CreateRender(ctx context.Context, url string, opts *georender.Options) (*georender.Job, error) {
	return s.CreateRenderFn(ctx, url, opts)
}

func (s *RenderService) GetRender(ctx context.Context, renderID string) (*georender.Result, error) {
	return s.GetRenderFn(ctx, renderID)
}

func (s *RenderService) GetAccountBalance(ctx context.Context) (*georender.Balance, error) {
	return s.GetAccountBalanceFn(ctx)
}

var _ georender.Decoder = (*Decoder)(nil)

// Decoder is a mock implementation of georender.Decoder.
type Decoder struct {
	DecodeFn func(r *georender.Result)
}

func (d *Decoder) Decode(r *georender.Result) {
	d.DecodeFn(r)
}

var _ georender.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of georender.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
