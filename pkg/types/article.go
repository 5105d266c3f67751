// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// NoPDF is the placeholder the scraper stores in pdf_url when it found no PDF.
const NoPDF = "PDF Yok"

// Placeholder is shown in place of an empty column.
const Placeholder = "-"

// Article is a bibliographic record as returned by the scraping backend.
// Records are loosely shaped: every field is optional and several fields
// arrive under alternate names, so the record is kept as raw JSON and
// display values are resolved on demand.
type Article struct {
	keys   []string
	fields map[string]json.RawMessage

	// other holds a record that is not an object (a bare string, number,
	// or list). It has no fields and renders as an empty row.
	other json.RawMessage
}

// ErrNullArticle is returned when the backend sends null in place of a record.
var ErrNullArticle = errors.New("article record is null")

// UnmarshalJSON keeps every field of the record in its original order.
// Records that are not objects are kept verbatim with no fields; null is
// rejected.
func (a *Article) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Article{}
	switch {
	case len(data) == 0:
		return errors.New("decoding article: empty record")
	case bytes.Equal(data, []byte("null")):
		return ErrNullArticle
	case data[0] != '{':
		if !json.Valid(data) {
			return errors.New("decoding article: invalid JSON")
		}
		a.other = append(json.RawMessage(nil), data...)
		return nil
	}

	keys, fields, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("decoding article: %w", err)
	}
	a.keys = keys
	a.fields = fields
	return nil
}

// MarshalJSON writes the record back unchanged.
func (a Article) MarshalJSON() ([]byte, error) {
	if a.other != nil {
		return a.other, nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(a.fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits the record as a mapping in its original key order.
func (a Article) MarshalYAML() (any, error) {
	if a.other != nil {
		var v any
		if err := json.Unmarshal(a.other, &v); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		return v, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range a.keys {
		var v any
		if err := json.Unmarshal(a.fields[k], &v); err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", k, err)
		}
		var kn, vn yaml.Node
		kn.SetString(k)
		if err := vn.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
		node.Content = append(node.Content, &kn, &vn)
	}
	return node, nil
}

// Keys returns the field names in the order the backend sent them.
func (a Article) Keys() []string { return a.keys }

// Get returns the named field. Missing fields yield the zero Value.
func (a Article) Get(key string) Value {
	raw, ok := a.fields[key]
	if !ok {
		return Value{}
	}
	return ParseValue(raw)
}

// Title resolves baslik, then title.
func (a Article) Title() string {
	return FirstTruthy(a.Get("baslik"), a.Get("title")).String()
}

// Authors resolves yazarlar, author, then yazar, taking the first that is
// not null. A list is used as-is, a single string becomes a one-element
// list, and an object contributes its values.
func (a Article) Authors() []string {
	var raw json.RawMessage
	for _, k := range []string{"yazarlar", "author", "yazar"} {
		if a.Get(k).Present() {
			raw = bytes.TrimSpace(a.fields[k])
			break
		}
	}
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil
		}
		authors := make([]string, len(elems))
		for i, e := range elems {
			authors[i] = ParseValue(e).String()
		}
		return authors
	case '"':
		return []string{ParseValue(raw).String()}
	case '{':
		keys, fields, err := decodeObject(raw)
		if err != nil {
			return nil
		}
		keys = propertyOrder(keys)
		authors := make([]string, len(keys))
		for i, k := range keys {
			authors[i] = ParseValue(fields[k]).String()
		}
		return authors
	}
	return nil
}

// Year resolves yil.
func (a Article) Year() string { return FirstTruthy(a.Get("yil")).String() }

// Published resolves yayin_tarihi, then yayın_tarihi.
func (a Article) Published() string {
	return FirstTruthy(a.Get("yayin_tarihi"), a.Get("yayın_tarihi")).String()
}

// Venue resolves dergi (journal), then konferans (conference).
func (a Article) Venue() string {
	return FirstTruthy(a.Get("dergi"), a.Get("konferans")).String()
}

// VolumeIssue combines cilt (volume) and sayı (issue).
func (a Article) VolumeIssue() string {
	vol, issue := a.Get("cilt"), a.Get("sayı")
	switch {
	case vol.Truthy() && issue.Truthy():
		return fmt.Sprintf("Vol %s, No %s", vol, issue)
	case vol.Truthy():
		return "Vol " + vol.String()
	case issue.Truthy():
		return "No " + issue.String()
	}
	return ""
}

// Pages resolves sayfalar.
func (a Article) Pages() string { return FirstTruthy(a.Get("sayfalar")).String() }

// Publisher resolves yayinci, yayıncı, then publisher.
func (a Article) Publisher() string {
	return FirstTruthy(a.Get("yayinci"), a.Get("yayıncı"), a.Get("publisher")).String()
}

// Citations returns atif_sayisi. A zero count is reported as present.
func (a Article) Citations() (string, bool) {
	v := a.Get("atif_sayisi")
	return v.String(), v.Present()
}

// SourceURL resolves adres, then source_url.
func (a Article) SourceURL() string {
	return FirstTruthy(a.Get("adres"), a.Get("source_url")).String()
}

// PDFURL returns pdf_url unless it is empty or the NoPDF placeholder.
func (a Article) PDFURL() string {
	v := a.Get("pdf_url")
	if !v.Truthy() || v.String() == NoPDF {
		return ""
	}
	return v.String()
}

// Row holds the display columns of one article.
type Row struct {
	Title       string `json:"title" yaml:"title"`
	Authors     string `json:"authors" yaml:"authors"`
	Year        string `json:"year" yaml:"year"`
	Published   string `json:"published" yaml:"published"`
	Venue       string `json:"venue" yaml:"venue"`
	VolumeIssue string `json:"volume_issue" yaml:"volume_issue"`
	Pages       string `json:"pages" yaml:"pages"`
	Publisher   string `json:"publisher" yaml:"publisher"`
	Citations   string `json:"citations" yaml:"citations"`
	Source      string `json:"source" yaml:"source"`
	PDF         string `json:"pdf" yaml:"pdf"`
}

// Row resolves every display column, substituting Placeholder for empty ones.
func (a Article) Row() Row {
	citations, ok := a.Citations()
	if !ok {
		citations = Placeholder
	}
	return Row{
		Title:       orPlaceholder(a.Title()),
		Authors:     orPlaceholder(strings.Join(a.Authors(), ", ")),
		Year:        orPlaceholder(a.Year()),
		Published:   orPlaceholder(a.Published()),
		Venue:       orPlaceholder(a.Venue()),
		VolumeIssue: orPlaceholder(a.VolumeIssue()),
		Pages:       orPlaceholder(a.Pages()),
		Publisher:   orPlaceholder(a.Publisher()),
		Citations:   citations,
		Source:      orPlaceholder(a.SourceURL()),
		PDF:         orPlaceholder(a.PDFURL()),
	}
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// decodeObject reads a JSON object, keeping key order. A repeated key
// keeps its first position and its last value.
func decodeObject(data []byte) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New("expected a JSON object")
	}

	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, seen := fields[key]; !seen {
			keys = append(keys, key)
		}
		fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, fields, nil
}

// propertyOrder orders object keys the way a browser enumerates them:
// array-index keys ascending, then the remaining keys in insertion order.
func propertyOrder(keys []string) []string {
	var indexes, rest []string
	for _, k := range keys {
		if isArrayIndex(k) {
			indexes = append(indexes, k)
		} else {
			rest = append(rest, k)
		}
	}
	sort.Slice(indexes, func(i, j int) bool {
		a, _ := strconv.ParseUint(indexes[i], 10, 32)
		b, _ := strconv.ParseUint(indexes[j], 10, 32)
		return a < b
	})
	return append(indexes, rest...)
}

func isArrayIndex(k string) bool {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	return err == nil && n < 1<<32-1
}
