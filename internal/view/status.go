// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view renders backend records and request outcomes for a terminal.
package view

import (
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/scholar-client/internal/api"
	"github.com/pdiddy/scholar-client/pkg/types"
)

// Kind classifies a status line.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Status is a one-line message about the last action.
type Status struct {
	Kind    Kind
	Message string
}

// Status messages shown while a request is in flight.
const (
	MsgLoading  = "Loading list..."
	MsgReady    = "Ready"
	MsgScraping = "Scraping, please wait... (this can take several minutes)"
)

// Reporter writes status lines. Only the latest status matters to the
// user, so each call simply prints a new line.
type Reporter struct {
	w    io.Writer
	last Status
}

// NewReporter returns a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Set records and prints a status.
func (r *Reporter) Set(s Status) {
	r.last = s
	fmt.Fprintf(r.w, "[%s] %s\n", s.Kind, sanitize(s.Message))
}

// Info prints an informational status.
func (r *Reporter) Info(msg string) { r.Set(Status{Kind: KindInfo, Message: msg}) }

// Last returns the most recent status.
func (r *Reporter) Last() Status { return r.last }

// ListStatus describes the outcome of fetching the article list.
func ListStatus(err error) Status {
	if err != nil {
		return Status{Kind: KindError, Message: "Could not fetch list"}
	}
	return Status{Kind: KindSuccess, Message: MsgReady}
}

// ScrapeStatus describes the outcome of a scrape request.
func ScrapeStatus(res *types.ScrapeResult, err error) Status {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrAuthorRequired):
		return Status{Kind: KindError, Message: "Author name is required"}
	case errors.Is(err, api.ErrTimeout):
		return Status{Kind: KindError, Message: "Request timed out. Please try again."}
	case errors.As(err, &apiErr):
		return Status{Kind: KindError, Message: orDefault(apiErr.Message, "Something went wrong")}
	case err != nil:
		return Status{Kind: KindError, Message: "Error: " + orDefault(err.Error(), "request could not be sent")}
	case res.Inserted > 0:
		return Status{Kind: KindSuccess, Message: fmt.Sprintf("Success! %d articles saved", res.Inserted)}
	}
	return Status{Kind: KindInfo, Message: orDefault(res.Message, "No articles found")}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
