// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api is a client for the scraping backend. The backend exposes
// two endpoints under its base URL: GET /articles lists every stored
// article, and POST /scrape scrapes one author's profile and stores the
// articles it finds.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/pdiddy/scholar-client/internal/httputil"
	"github.com/pdiddy/scholar-client/pkg/types"
)

const (
	DefaultBaseURL       = "http://localhost:5000/api"
	DefaultTimeout       = 60 * time.Second
	DefaultScrapeTimeout = 10 * time.Minute
	DefaultUserAgent     = "scholar-client/0.1"

	// maxBodyBytes bounds how much of a response we read.
	maxBodyBytes = 64 << 20
)

// ErrAuthorRequired is returned by Scrape when the author name is blank.
var ErrAuthorRequired = errors.New("author name is required")

// ErrTimeout is returned when a request outlives its client-side deadline.
var ErrTimeout = errors.New("request timed out")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	// Message is the backend's error or message field, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the scraping backend.
type Client struct {
	cfg  types.ClientConfig
	http *http.Client
	log  *logging.Logger
}

// NewClient returns a client for cfg. Zero fields in cfg take their
// defaults. httpClient may be nil; its Timeout should be zero because
// every call applies its own deadline through the context.
func NewClient(cfg types.ClientConfig, httpClient *http.Client, log *logging.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ScrapeTimeout <= 0 {
		cfg.ScrapeTimeout = DefaultScrapeTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, http: httpClient, log: log}
}

// Config returns the effective configuration.
func (c *Client) Config() types.ClientConfig { return c.cfg }

// ListArticles fetches every article the backend has stored. Rate-limited
// responses are retried.
func (c *Client) ListArticles(ctx context.Context) ([]types.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/articles", nil)
	if err != nil {
		return nil, err
	}

	retrier := &httputil.Retrier{Client: c.http, MaxRetries: c.cfg.MaxRetries, Log: c.log}
	resp, err := retrier.Do(ctx, req)
	if err != nil {
		return nil, c.requestError(ctx, "listing articles", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.requestError(ctx, "reading article list", err)
	}
	if !successful(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var articles []types.Article
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, fmt.Errorf("parsing article list: %w", err)
	}
	c.debugf("fetched %d articles", len(articles))
	return articles, nil
}

// Scrape asks the backend to scrape the named author. The name is trimmed;
// a blank name returns ErrAuthorRequired without contacting the backend.
// Scrape requests are never retried: each one drives a full crawl.
func (c *Client) Scrape(ctx context.Context, author string) (*types.ScrapeResult, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		return nil, ErrAuthorRequired
	}

	payload, err := json.Marshal(scrapeRequest{AuthorName: author})
	if err != nil {
		return nil, fmt.Errorf("encoding scrape request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ScrapeTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodPost, "/scrape", payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.debugf("scraping author %q (timeout %v)", author, c.cfg.ScrapeTimeout)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.requestError(ctx, "scrape request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.requestError(ctx, "reading scrape response", err)
	}
	c.debugf("scrape answered HTTP %d after %v", resp.StatusCode, time.Since(start).Round(time.Millisecond))

	var sr scrapeResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		if !successful(resp.StatusCode) {
			return nil, newAPIError(resp.StatusCode, body)
		}
		return nil, fmt.Errorf("parsing scrape response: %w", err)
	}

	if !successful(resp.StatusCode) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    types.FirstTruthy(sr.Error, sr.Message).String(),
		}
	}

	return &types.ScrapeResult{
		Message:  types.FirstTruthy(sr.Message).String(),
		Inserted: sr.Inserted.Int(),
		Last:     sr.Last,
	}, nil
}

type scrapeRequest struct {
	AuthorName string `json:"author_name"`
}

type scrapeResponse struct {
	Message  types.Value     `json:"message"`
	Error    types.Value     `json:"error"`
	Inserted types.Value     `json:"inserted"`
	Last     []types.Article `json:"last"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

// requestError maps a deadline on our own context to ErrTimeout.
func (c *Client) requestError(ctx context.Context, what string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", what, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

func successful(status int) bool { return status >= 200 && status <= 299 }

// newAPIError extracts error or message from a JSON error body.
func newAPIError(status int, body []byte) *APIError {
	var fields struct {
		Error   types.Value `json:"error"`
		Message types.Value `json:"message"`
	}
	// Error bodies are not always JSON; the status alone is enough then.
	_ = json.Unmarshal(body, &fields)
	return &APIError{
		StatusCode: status,
		Message:    types.FirstTruthy(fields.Error, fields.Message).String(),
	}
}
