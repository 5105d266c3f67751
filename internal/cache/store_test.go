// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-client/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CacheConfig{Path: filepath.Join(t.TempDir(), "nested", "cache.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func parse(t *testing.T, s string) []types.Article {
	t.Helper()
	var out []types.Article
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func titles(articles []types.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Title()
	}
	return out
}

// --- articles ---

func TestArticles_EmptyCache(t *testing.T) {
	s := testStore(t)

	got, at, err := s.Articles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, at.IsZero())
}

func TestReplace_KeepsOrderAndRecord(t *testing.T) {
	s := testStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	in := parse(t, `[
		{"title":"B","source_url":"u2","yil":2019,"extra":"kept"},
		{"title":"A","source_url":"u1"}
	]`)
	require.NoError(t, s.Replace(ctx, in))

	got, at, err := s.Articles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(got))
	assert.Equal(t, "kept", got[0].Get("extra").String())
	assert.Equal(t, fixed, at)

	// A second snapshot replaces the first.
	require.NoError(t, s.Replace(ctx, parse(t, `[{"title":"C","source_url":"u3"}]`)))
	got, _, err = s.Articles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, titles(got))
}

func TestMerge_SkipsKnownTitleOrSource(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, parse(t, `[{"title":"A","source_url":"u1"}]`)))

	added, err := s.Merge(ctx, parse(t, `[
		{"title":"A","source_url":"new"},
		{"title":"new","source_url":"u1"},
		{"title":"B","source_url":"u2"},
		{"title":"B","source_url":"u3"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	got, _, err := s.Articles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(got))
	assert.Equal(t, "u2", got[1].SourceURL())
}

func TestMerge_Nothing(t *testing.T) {
	s := testStore(t)

	added, err := s.Merge(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

// --- scrape runs ---

func TestRuns_NewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordRun(ctx, types.ScrapeRun{Author: "Ada", Inserted: 2, Message: "2 new", Timestamp: base}))
	require.NoError(t, s.RecordRun(ctx, types.ScrapeRun{Author: "Grace", Failed: true, Message: "timed out", Timestamp: base.Add(time.Minute)}))

	runs, err := s.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "Grace", runs[0].Author)
	assert.True(t, runs[0].Failed)
	assert.Equal(t, base.Add(time.Minute), runs[0].Timestamp)
	assert.Equal(t, types.ScrapeRun{Author: "Ada", Inserted: 2, Message: "2 new", Timestamp: base}, runs[1])
}

func TestRuns_Limit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.RecordRun(ctx, types.ScrapeRun{Author: a}))
	}

	runs, err := s.Runs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].Author)
	assert.Equal(t, "b", runs[1].Author)
}
