package installer

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/aj604/claude-resource-manager-CLI-sub000/internal/crmerr"
)

// HTTPClient is the subset of *http.Client the fetcher needs, abstracted so
// tests can inject a fake transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// fetcher retries transport errors and 5xx/429 with exponential backoff:
// base 1s, factor 2, cap 3 attempts. 404 and 403 are terminal.
type fetcher struct {
	client           HTTPClient
	retryBase        time.Duration
	retryFactor      float64
	retryMaxAttempts int
	attemptTimeout   time.Duration
	sleep            func(time.Duration)
}

func newFetcher(client HTTPClient, base time.Duration, factor float64, maxAttempts int, attemptTimeout time.Duration) *fetcher {
	return &fetcher{
		client:           client,
		retryBase:        base,
		retryFactor:      factor,
		retryMaxAttempts: maxAttempts,
		attemptTimeout:   attemptTimeout,
		sleep:            time.Sleep,
	}
}

// fetch performs the HTTPS GET with retry, returning the raw byte body.
func (f *fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < f.retryMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(f.retryBase) * math.Pow(f.retryFactor, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, crmerr.Cancelled
			default:
			}
			f.sleep(backoff)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
		body, retry, err := f.attempt(attemptCtx, url)
		cancel()
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *fetcher) attempt(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, crmerr.Network("building request", nil, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, crmerr.Cancelled
		}
		return nil, true, crmerr.Network(fmt.Sprintf("transport error fetching %s", url), nil, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, crmerr.Network(fmt.Sprintf("404 not found: %s", url), nil, nil)
	case resp.StatusCode == http.StatusForbidden:
		return nil, false, crmerr.Network(fmt.Sprintf("403 rate limited or forbidden: %s", url), nil, nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		retryAfter := retryAfterFromHeader(resp.Header.Get("Retry-After"))
		return nil, true, crmerr.Network(fmt.Sprintf("status %d fetching %s", resp.StatusCode, url), retryAfter, nil)
	case resp.StatusCode >= 400:
		return nil, false, crmerr.Network(fmt.Sprintf("status %d fetching %s", resp.StatusCode, url), nil, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, crmerr.Network("reading response body", nil, err)
	}
	return data, false, nil
}

func retryAfterFromHeader(v string) *time.Duration {
	if v == "" {
		return nil
	}
	if secs, err := time.ParseDuration(v + "s"); err == nil {
		return &secs
	}
	return nil
}
