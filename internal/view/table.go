// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/scholar-client/pkg/types"
)

// NoRecords is printed in place of an empty table.
const NoRecords = "No records found"

type column struct {
	header string
	width  int
	value  func(types.Row) string
}

var columns = []column{
	{"Title", 40, func(r types.Row) string { return r.Title }},
	{"Authors", 28, func(r types.Row) string { return r.Authors }},
	{"Year", 4, func(r types.Row) string { return r.Year }},
	{"Published", 10, func(r types.Row) string { return r.Published }},
	{"Venue", 20, func(r types.Row) string { return r.Venue }},
	{"Vol/No", 14, func(r types.Row) string { return r.VolumeIssue }},
	{"Pages", 9, func(r types.Row) string { return r.Pages }},
	{"Publisher", 16, func(r types.Row) string { return r.Publisher }},
	{"Cited", 5, func(r types.Row) string { return r.Citations }},
	{"Source", 30, func(r types.Row) string { return r.Source }},
	{"PDF", 30, func(r types.Row) string { return r.PDF }},
}

// RenderTable writes articles as a fixed-width table. Long cells are
// truncated; an empty list prints a single NoRecords line.
func RenderTable(w io.Writer, articles []types.Article) error {
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, NoRecords)
		return err
	}

	cells := make([]string, len(columns))
	for i, c := range columns {
		cells[i] = pad(c.header, c.width)
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Repeat("-", tableWidth()))

	for _, a := range articles {
		row := a.Row()
		for i, c := range columns {
			cells[i] = pad(truncate(sanitize(c.value(row)), c.width), c.width)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d articles\n", len(articles))
	return err
}

func tableWidth() int {
	n := 2 * (len(columns) - 1)
	for _, c := range columns {
		n += c.width
	}
	return n
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// sanitize collapses whitespace and drops control characters so backend
// data cannot move the cursor or recolor the terminal.
func sanitize(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), r == utf8.RuneError:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
