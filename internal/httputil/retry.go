// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for talking to the scraping API.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/op/go-logging"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps how long a Retry-After header can make us wait.
var MaxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 3

// Retrier re-issues idempotent requests that the backend rejected as
// rate limited (429) or temporarily unavailable (503).
type Retrier struct {
	Client *http.Client

	// MaxRetries is the number of retries after the first attempt.
	// Zero means the default (3).
	MaxRetries int

	// Log receives one line per retry. Nil disables logging.
	Log *logging.Logger
}

// Do executes req and retries on 429 or 503. The delay is taken from a
// Retry-After header in seconds when the backend sends one (capped at
// MaxRetryAfter); otherwise it starts at RetryBaseDelay and doubles each
// attempt.
//
// The body of every retried response is drained and closed. If ctx is
// cancelled while waiting, Do returns ctx.Err(). After exhausting retries
// the last response is returned so the caller can inspect it. Requests
// with a body must set GetBody so they can be replayed.
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if r.Log != nil {
			r.Log.Warningf("%s %s returned HTTP %d, retrying in %v (attempt %d/%d)",
				req.Method, req.URL.Path, resp.StatusCode, wait, attempt+1, maxRetries)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > MaxRetryAfter {
			d = MaxRetryAfter
		}
		return d
	}
	return RetryBaseDelay << attempt
}
