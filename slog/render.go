package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/georender"
)

// Ensure LoggingRenderService implements georender.RenderService.
var _ georender.RenderService = (*LoggingRenderService)(nil)

// LoggingRenderService wraps a RenderService with request logging.
type LoggingRenderService struct {
	next   georender.RenderService
	logger *slog.Logger
}

// NewLoggingRenderService creates a new LoggingRenderService.
func NewLoggingRenderService(next georender.RenderService, logger *slog.Logger) *LoggingRenderService {
	return &LoggingRenderService{next: next, logger: logger}
}

// CreateRender delegates to the wrapped service and logs the submission.
func (s *LoggingRenderService) CreateRender(ctx context.Context, url string, opts *georender.Options) (job *georender.Job, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"fields", len(opts.Payload(url)) - 1,
			"duration", time.Since(begin),
		}
		if job != nil {
			attrs = append(attrs, "render_id", job.RenderID)
		}
		log(ctx, s.logger, "create render", err, attrs...)
	}(time.Now())
	return s.next.CreateRender(ctx, url, opts)
}

// GetRender delegates to the wrapped service and logs the status check.
func (s *LoggingRenderService) GetRender(ctx context.Context, renderID string) (result *georender.Result, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"render_id", renderID,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"status", result.Status,
				"retry_after", result.RetryAfter,
				"html_bytes", len(result.HTML),
			)
		}
		log(ctx, s.logger, "get render", err, attrs...)
	}(time.Now())
	return s.next.GetRender(ctx, renderID)
}

// GetAccountBalance delegates to the wrapped service and logs the lookup.
func (s *LoggingRenderService) GetAccountBalance(ctx context.Context) (balance *georender.Balance, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if balance != nil {
			attrs = append(attrs, "total_cents", balance.TotalBalanceCents)
		}
		log(ctx, s.logger, "get balance", err, attrs...)
	}(time.Now())
	return s.next.GetAccountBalance(ctx)
}

func log(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	if err != nil {
		attrs = append(attrs, "code", georender.ErrorCode(err), "err", err)
		logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	logger.DebugContext(ctx, msg, attrs...)
}
