// Package http provides the net/http implementation of
// georender.RenderService and a sitemap-based URL source.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/georender"
	"github.com/google/uuid"
)

// DefaultBaseURL is the production endpoint of the rendering service.
const DefaultBaseURL = "https://api.georender.dev/v1"

// DefaultTimeout bounds a single request to the service. Rendering itself
// is awaited by polling, so individual requests are short.
const DefaultTimeout = 30 * time.Second

// ClientName identifies this client in the X-Client header.
const ClientName = "georender-go"

// maxErrorBody limits how much of an error response body is kept.
const maxErrorBody = 64 << 10

// Ensure Client implements georender.RenderService at compile time.
var _ georender.RenderService = (*Client)(nil)

// Client talks to the rendering service over HTTP.
// Client holds only immutable configuration and is safe for concurrent use.
type Client struct {
	client  *http.Client
	apiKey  string
	baseURL string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint, e.g. for a regional or
// local development deployment.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client. Connection pooling and
// transport-level retries are the responsibility of that client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}

	return c
}

// BaseURL returns the endpoint the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CreateRender submits a render job. Only fields set on opts are sent.
func (c *Client) CreateRender(ctx context.Context, targetURL string, opts *georender.Options) (*georender.Job, error) {
	if targetURL == "" {
		return nil, georender.Errorf(georender.EINVALID, "render URL required")
	}

	body, err := json.Marshal(opts.Payload(targetURL))
	if err != nil {
		return nil, fmt.Errorf("encoding render request: %w", err)
	}

	var job georender.Job
	if err := c.do(ctx, http.MethodPost, "/renders", body, &job); err != nil {
		return nil, err
	}
	if job.RenderID == "" {
		return nil, georender.Errorf(georender.EINTERNAL, "service returned no render ID")
	}

	return &job, nil
}

// GetRender fetches the current state of a render job.
// Payload fields are returned as received.
func (c *Client) GetRender(ctx context.Context, renderID string) (*georender.Result, error) {
	if renderID == "" {
		return nil, georender.Errorf(georender.EINVALID, "render ID required")
	}

	var result georender.Result
	if err := c.do(ctx, http.MethodGet, "/renders/"+url.PathEscape(renderID), nil, &result); err != nil {
		return nil, err
	}
	if result.RenderID == "" {
		result.RenderID = renderID
	}

	return &result, nil
}

// GetAccountBalance returns the balance of the authenticated account.
func (c *Client) GetAccountBalance(ctx context.Context) (*georender.Balance, error) {
	var balance georender.Balance
	if err := c.do(ctx, http.MethodGet, "/account/balance", nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// do sends an authenticated request and decodes a successful JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client", ClientName+"/"+georender.Version)
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &georender.CanceledError{Err: ctxErr}
		}
		return &georender.ConnectionError{URL: endpoint, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &georender.HTTPError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &georender.CanceledError{Err: ctxErr}
		}
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}

// unwrapURLError strips the *url.Error wrapper, whose message repeats the URL
// that ConnectionError already carries.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
