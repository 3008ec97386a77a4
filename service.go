package georender

import "context"

// RenderService is the remote rendering service as seen by the client.
// Implementations perform one authenticated request per call and never retry.
type RenderService interface {
	// CreateRender submits a render job for url.
	// Only fields set on opts are sent; opts may be nil.
	CreateRender(ctx context.Context, url string, opts *Options) (*Job, error)

	// GetRender fetches the current state of a render job.
	// Payload fields are returned as received, possibly still encoded.
	GetRender(ctx context.Context, renderID string) (*Result, error)

	// GetAccountBalance returns the balance of the authenticated account.
	GetAccountBalance(ctx context.Context) (*Balance, error)
}

// Decoder decodes compressed payload fields of a Result in place.
//
// Decoding is best effort: a field that cannot be decoded is left exactly
// as it was and no error is reported, because the service may send it
// already in plain form.
type Decoder interface {
	Decode(r *Result)
}

// DomainLimiter paces requests per target host.
type DomainLimiter interface {
	// Wait blocks until a request for host may proceed.
	// Returns an error if ctx is canceled first.
	Wait(ctx context.Context, host string) error
}
