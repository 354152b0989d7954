package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	// ErrBadTarget marks a malformed target. Never retried.
	ErrBadTarget = errors.New("malformed fetch target")
	// ErrUnreachable marks a fetch that failed after exhausting retries.
	ErrUnreachable = errors.New("target unreachable")
)

// Fetcher issues single logical fetches with bounded retry and exponential
// backoff. Transient failures (timeouts, connection errors, 5xx, 429) are
// retried up to Config.Retries attempts; everything else fails immediately.
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewFetcher creates a Fetcher from the configuration.
func NewFetcher(cfg Config, l *zap.Logger) *Fetcher {
	retries := cfg.Retries
	if retries <= 0 {
		retries = 3
	}
	backoff := time.Duration(cfg.BackoffSeconds) * time.Second
	if backoff <= 0 {
		backoff = time.Second
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries - 1).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9,tr;q=0.8")

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() >= 500 || r.StatusCode() == 429
	})

	// Base delay doubling per attempt: backoff, 2*backoff, 4*backoff, ...
	client.SetRetryAfter(func(c *resty.Client, r *resty.Response) (time.Duration, error) {
		attempt := 1
		if r != nil && r.Request != nil {
			attempt = r.Request.Attempt
		}
		wait := backoff << (attempt - 1)
		l.Warn("retrying fetch",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
		)
		return wait, nil
	})

	return &Fetcher{client: client, logger: l}
}

// Fetch retrieves the target and returns the raw body. A malformed target
// fails immediately with ErrBadTarget; transient failures exhaust the retry
// budget and surface as ErrUnreachable. The caller decides whether the
// failure is fatal or counts as one failed page.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrBadTarget, target)
	}

	res, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnreachable, target, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: %s: status %d", ErrUnreachable, target, res.StatusCode())
	}
	return res.String(), nil
}
