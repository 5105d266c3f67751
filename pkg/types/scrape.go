// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ScrapeResult is the backend's answer to a successful scrape request.
type ScrapeResult struct {
	// Message is the backend's summary (e.g. "3 new articles added").
	Message string `json:"message" yaml:"message"`

	// Inserted counts the records the backend stored. Records it already
	// had are not counted.
	Inserted int `json:"inserted" yaml:"inserted"`

	// Last holds the newly stored records.
	Last []Article `json:"last" yaml:"last"`
}

// ScrapeRun is a locally recorded scrape request and its outcome.
type ScrapeRun struct {
	Author    string    `json:"author" yaml:"author"`
	Inserted  int       `json:"inserted" yaml:"inserted"`
	Message   string    `json:"message" yaml:"message"`
	Failed    bool      `json:"failed" yaml:"failed"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
