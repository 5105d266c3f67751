// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-client/pkg/types"
)

// Format selects how records are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Write renders articles in the given format. JSON and YAML carry the
// records exactly as the backend sent them.
func Write(w io.Writer, format Format, articles []types.Article) error {
	switch format {
	case FormatTable, "":
		return RenderTable(w, articles)
	case FormatJSON:
		return WriteJSON(w, articles)
	case FormatYAML:
		return WriteYAML(w, articles)
	}
	return fmt.Errorf("unsupported format %q: use table, json, or yaml", format)
}

// WriteJSON writes articles as an indented JSON array.
func WriteJSON(w io.Writer, articles []types.Article) error {
	if articles == nil {
		articles = []types.Article{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(articles)
}

// WriteYAML writes articles as a YAML sequence.
func WriteYAML(w io.Writer, articles []types.Article) error {
	if articles == nil {
		articles = []types.Article{}
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(articles); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
