// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-client/internal/api"
	"github.com/pdiddy/scholar-client/pkg/types"
)

func articles(t *testing.T, s string) []types.Article {
	t.Helper()
	var out []types.Article
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

// --- status ---

func TestScrapeStatus(t *testing.T) {
	tests := []struct {
		name string
		res  *types.ScrapeResult
		err  error
		want Status
	}{
		{
			name: "inserted",
			res:  &types.ScrapeResult{Inserted: 3, Message: "3 new articles added"},
			want: Status{KindSuccess, "Success! 3 articles saved"},
		},
		{
			name: "nothing new uses backend message",
			res:  &types.ScrapeResult{Message: "0 new articles added"},
			want: Status{KindInfo, "0 new articles added"},
		},
		{
			name: "nothing new without message",
			res:  &types.ScrapeResult{},
			want: Status{KindInfo, "No articles found"},
		},
		{
			name: "whitespace message is kept",
			res:  &types.ScrapeResult{Message: "   "},
			want: Status{KindInfo, "   "},
		},
		{
			name: "blank author",
			err:  api.ErrAuthorRequired,
			want: Status{KindError, "Author name is required"},
		},
		{
			name: "timeout",
			err:  fmt.Errorf("scrape request: %w", api.ErrTimeout),
			want: Status{KindError, "Request timed out. Please try again."},
		},
		{
			name: "backend message",
			err:  &api.APIError{StatusCode: http.StatusBadRequest, Message: "author profile not found"},
			want: Status{KindError, "author profile not found"},
		},
		{
			name: "backend without message",
			err:  &api.APIError{StatusCode: http.StatusInternalServerError},
			want: Status{KindError, "Something went wrong"},
		},
		{
			name: "transport error",
			err:  errors.New("connection refused"),
			want: Status{KindError, "Error: connection refused"},
		},
		{
			name: "empty error text",
			err:  errors.New(""),
			want: Status{KindError, "Error: request could not be sent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrapeStatus(tt.res, tt.err))
		})
	}
}

func TestListStatus(t *testing.T) {
	assert.Equal(t, Status{KindSuccess, MsgReady}, ListStatus(nil))
	assert.Equal(t, Status{KindError, "Could not fetch list"}, ListStatus(errors.New("boom")))
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Info(MsgLoading)
	r.Set(Status{KindError, "bad\x1b[31m input"})

	assert.Equal(t, "[info] Loading list...\n[error] bad[31m input\n", buf.String())
	assert.Equal(t, KindError, r.Last().Kind)
}

// --- table ---

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, nil))
	assert.Equal(t, NoRecords+"\n", buf.String())
}

func TestRenderTable_Rows(t *testing.T) {
	list := articles(t, `[
		{"title":"Short","yazarlar":["A","B"],"yil":2020,"atif_sayisi":0,"pdf_url":"PDF Yok"},
		{"baslik":"`+strings.Repeat("x", 60)+`","cilt":"4","sayı":"2"}
	]`)

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, list))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "Title"))
	assert.True(t, strings.HasPrefix(lines[1], "---"))
	assert.Contains(t, lines[2], "A, B")
	assert.Contains(t, lines[2], "2020")
	assert.Contains(t, lines[3], strings.Repeat("x", 37)+"...")
	assert.NotContains(t, lines[3], strings.Repeat("x", 38))
	assert.Contains(t, lines[3], "Vol 4, No 2")
	assert.Equal(t, "2 articles", lines[5])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "Çığ...", truncate("Çığlıklar", 6))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a b c", sanitize("  a\n\tb   c "))
	assert.Equal(t, "red", sanitize("\x1bred\x07"))
	assert.Equal(t, "Öğrenme", sanitize("Öğrenme"))
}

// --- export ---

func TestWrite_JSONPassthrough(t *testing.T) {
	list := articles(t, `[{"title":"T","yil":2020,"custom":{"k":[1,2]}}]`)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, list))
	assert.JSONEq(t, `[{"title":"T","yil":2020,"custom":{"k":[1,2]}}]`, buf.String())
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_YAML(t *testing.T) {
	list := articles(t, `[{"title":"T","yil":2020}]`)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, list))
	assert.Equal(t, "- title: T\n  yil: 2020\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("csv"), nil))
}
