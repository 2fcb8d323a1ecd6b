package httpclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCallsPerSecond is the outbound budget applied when a source
// config does not specify its own.
const DefaultCallsPerSecond = 5

// RateLimitedClient wraps a Client with a token-bucket limiter and maps
// every failure into a FetchError. The limiter is scoped to this client
// value; one source session owns exactly one RateLimitedClient, so the
// budget is never shared across sources.
type RateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

// NewRateLimitedClient builds a rate-limited client allowing callsPerSecond
// outbound requests. Callers over budget block until a token frees up; no
// request is ever dropped.
func NewRateLimitedClient(inner Client, callsPerSecond int) *RateLimitedClient {
	if inner == nil {
		inner = NewRestyClient(15 * time.Second)
	}
	if callsPerSecond <= 0 {
		callsPerSecond = DefaultCallsPerSecond
	}
	return &RateLimitedClient{
		inner: inner,
		// burst == budget so a cold session can spend one full window
		// immediately, matching a fixed-window limiter of the same rate
		limiter: rate.NewLimiter(rate.Limit(callsPerSecond), callsPerSecond),
	}
}

// Get waits for a rate token, performs the request, and enforces the
// 2xx-or-error contract. A non-nil Response is returned alongside status
// errors so callers can still inspect the body.
func (c *RateLimitedClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}

	resp, err := c.inner.Get(ctx, url, headers)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}

	if code := resp.StatusCode(); code < http.StatusOK || code >= http.StatusMultipleChoices {
		return resp, &FetchError{Kind: KindStatus, URL: url, StatusCode: code}
	}

	return resp, nil
}
