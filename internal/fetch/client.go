// Package fetch downloads the dataset CSV over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 5 * time.Minute

	// DefaultMaxAttempts is the number of tries before giving up.
	DefaultMaxAttempts = 3

	// DefaultRetryInterval spaces attempts apart.
	DefaultRetryInterval = 2 * time.Second

	userAgent = "rend/1 (+https://github.com/matsen/rendimento)"
)

// Client is a rate-limited HTTP downloader.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	token       string
	maxAttempts int
	logger      *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets a bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryInterval sets the minimum spacing between attempts.
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMaxAttempts sets how many times a retryable failure is tried.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithLogger sets the logger for attempt-level messages.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a download client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Every(DefaultRetryInterval), 1),
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Result describes a completed download.
type Result struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Bytes    int64  `json:"bytes"`
	Attempts int    `json:"attempts"`
}

// Download fetches url into dest. The file is written to a temporary name in
// the same directory and renamed on success, so dest is never left
// half-written. 429 and 5xx responses and transport errors are retried.
func (c *Client) Download(ctx context.Context, url, dest string) (*Result, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
		}

		n, err := c.attempt(ctx, url, dest)
		if err == nil {
			c.logger.Info("dataset downloaded",
				zap.String("url", url),
				zap.String("path", dest),
				zap.Int64("bytes", n),
				zap.Int("attempts", attempt))
			return &Result{URL: url, Path: dest, Bytes: n, Attempts: attempt}, nil
		}
		lastErr = err

		var httpErr *HTTPError
		if errors.As(err, &httpErr) && !retryable(httpErr.StatusCode) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, ctx.Err())
		}
		c.logger.Warn("download attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, url, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: building request: %w", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	return writeAtomic(dest, resp.Body)
}

// writeAtomic streams r into a temp file next to dest and renames it.
func writeAtomic(dest string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("%w: reading body: %w", ErrDownloadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return 0, fmt.Errorf("moving download into place: %w", err)
	}
	return n, nil
}
