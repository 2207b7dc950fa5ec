package dedup

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscout/internal/model"
	"threadscout/internal/platform"
)

func redditRaw(src model.SourceID, url string) model.RawResult {
	return model.RawResult{Source: src, Platform: "reddit", URL: url, Title: "t"}
}

func TestMergeCollapsesVariantURLs(t *testing.T) {
	p := platform.NewReddit()
	results := []model.RawResult{
		redditRaw(model.SourceNativeAPI, "https://www.reddit.com/r/golang/comments/1abc23/generics/"),
		redditRaw(model.SourceBing, "https://old.reddit.com/r/golang/comments/1abc23/generics/?utm_source=share"),
		redditRaw(model.SourceScrape, "https://www.reddit.com/r/golang/comments/1abc23"),
	}

	items := Merge(results, p)
	require.Len(t, items, 1)
	assert.Equal(t, "1abc23", items[0].ID)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/1abc23", items[0].URL)
	assert.Equal(t, 3, items[0].Sources.Count())
}

func TestMergeDropsInvalidURLs(t *testing.T) {
	p := platform.NewReddit()
	results := []model.RawResult{
		redditRaw(model.SourceScrape, "https://www.reddit.com/search/?q=golang"),
		redditRaw(model.SourceScrape, "https://example.com/r/golang/comments/1abc23"),
		redditRaw(model.SourceScrape, "not a url at all"),
	}
	assert.Empty(t, Merge(results, p))
}

func TestMergeAuthorityWins(t *testing.T) {
	p := platform.NewReddit()
	url := "https://www.reddit.com/r/golang/comments/1abc23/generics"

	scraped := redditRaw(model.SourceScrape, url)
	scraped.Title = "a much longer scraped title than the native one"
	scraped.Comments = 500

	native := redditRaw(model.SourceNativeAPI, url)
	native.Title = "short native title"
	native.Comments = 42

	for name, order := range map[string][]model.RawResult{
		"native-first": {native, scraped},
		"scrape-first": {scraped, native},
	} {
		items := Merge(order, p)
		require.Len(t, items, 1, name)
		assert.Equal(t, "short native title", items[0].Title, name)
		assert.Equal(t, 42, items[0].Comments, name)
	}
}

func TestMergeEqualAuthorityPrefersCompleteness(t *testing.T) {
	p := platform.NewReddit()
	url := "https://www.reddit.com/r/golang/comments/1abc23/generics"

	a := redditRaw(model.SourceBing, url)
	a.Snippet = "short"
	b := redditRaw(model.SourceGoogle, url)
	b.Snippet = "a longer, more complete snippet"

	items := Merge([]model.RawResult{a, b}, p)
	require.Len(t, items, 1)
	assert.Equal(t, b.Snippet, items[0].Snippet)

	// Same outcome with the arrival order flipped.
	items = Merge([]model.RawResult{b, a}, p)
	require.Len(t, items, 1)
	assert.Equal(t, b.Snippet, items[0].Snippet)
}

func TestMergeShuffleInvariantFields(t *testing.T) {
	p := platform.NewReddit()
	url := "https://www.reddit.com/r/golang/comments/1abc23/generics"
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	results := []model.RawResult{
		{Source: model.SourceNativeAPI, URL: url, Title: "native", Score: 120, Comments: 40, Published: now, Locked: false},
		{Source: model.SourceBing, URL: url, Title: "bing title longer", Snippet: "bing snippet"},
		{Source: model.SourceGemini, URL: url, Title: "gemini"},
		{Source: model.SourceScrape, URL: url, Title: "scraped", Snippet: "scraped snippet text"},
	}

	baseline := Merge(results, p)
	require.Len(t, baseline, 1)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.RawResult(nil), results...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		merged := Merge(shuffled, p)
		require.Len(t, merged, 1)
		assert.Equal(t, baseline[0].Title, merged[0].Title)
		assert.Equal(t, baseline[0].Snippet, merged[0].Snippet)
		assert.Equal(t, baseline[0].Score, merged[0].Score)
		assert.Equal(t, baseline[0].Comments, merged[0].Comments)
		assert.True(t, baseline[0].Published.Equal(merged[0].Published))
		assert.Equal(t, baseline[0].Sources.List(), merged[0].Sources.List())
	}
}

func TestMergeIdempotent(t *testing.T) {
	p := platform.NewReddit()
	results := []model.RawResult{
		redditRaw(model.SourceNativeAPI, "https://www.reddit.com/r/golang/comments/1abc23/one"),
		redditRaw(model.SourceBing, "https://www.reddit.com/r/golang/comments/9xyz88/two"),
	}

	once := Merge(results, p)
	twice := Merge(append(results, results...), p)
	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i].ID, twice[i].ID)
		assert.Equal(t, once[i].Sources.List(), twice[i].Sources.List())
	}
}

func TestMergeDiscoveredOrder(t *testing.T) {
	p := platform.NewReddit()
	results := []model.RawResult{
		redditRaw(model.SourceNativeAPI, "https://www.reddit.com/r/golang/comments/aaa111/one"),
		redditRaw(model.SourceNativeAPI, "https://www.reddit.com/r/golang/comments/bbb222/two"),
		redditRaw(model.SourceBing, "https://www.reddit.com/r/golang/comments/aaa111/one"),
	}

	items := Merge(results, p)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Discovered)
	assert.Equal(t, "aaa111", items[0].ID)
	assert.Equal(t, 1, items[1].Discovered)
	assert.Equal(t, "bbb222", items[1].ID)
}

func TestMergeFlagsOnlyFromNative(t *testing.T) {
	p := platform.NewReddit()
	url := "https://www.reddit.com/r/golang/comments/1abc23/generics"

	scraped := redditRaw(model.SourceScrape, url)
	scraped.Locked = true // scrape heuristics are not trusted

	items := Merge([]model.RawResult{scraped}, p)
	require.Len(t, items, 1)
	assert.False(t, items[0].Locked)

	native := redditRaw(model.SourceNativeAPI, url)
	native.Locked = true
	items = Merge([]model.RawResult{scraped, native}, p)
	require.Len(t, items, 1)
	assert.True(t, items[0].Locked)
}
