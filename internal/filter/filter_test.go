package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscout/internal/model"
	"threadscout/internal/platform"
	"threadscout/internal/query"
)

var now = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func TestByRelevanceGate(t *testing.T) {
	p := platform.NewReddit() // threshold: half the terms, min 2
	terms := query.Terms("migrate mysql postgres replication")
	require.Len(t, terms, 4)

	items := []model.CanonicalItem{
		{ID: "hit", Title: "Migrating MySQL to Postgres", Snippet: "replication setup"},
		{ID: "partial", Title: "MySQL tips"},
		{ID: "miss", Title: "Favorite mechanical keyboards"},
	}

	kept := ByRelevance(items, terms, p)
	require.Len(t, kept, 1)
	assert.Equal(t, "hit", kept[0].ID)
}

func TestByRelevanceCountsTags(t *testing.T) {
	p := platform.NewLobsters() // threshold min 1
	terms := []string{"postgres"}

	items := []model.CanonicalItem{
		{ID: "tag-only", Title: "Our database war story", Tags: []string{"postgres"}},
	}
	kept := ByRelevance(items, terms, p)
	assert.Len(t, kept, 1)
}

func TestScoreExactTitleMatch(t *testing.T) {
	p := platform.NewReddit()
	q := "mysql replication"
	terms := query.Terms(q)

	exact := []model.CanonicalItem{{Title: "Need help with MySQL replication", Sources: model.NewSourceSet()}}
	exact = Score(exact, q, terms, p, now)

	partial := []model.CanonicalItem{{Title: "MySQL questions about replication lag", Sources: model.NewSourceSet()}}
	partial = Score(partial, q, terms, p, now)

	assert.Greater(t, exact[0].Relevance, partial[0].Relevance)
}

func TestScoreMultiSourceBonus(t *testing.T) {
	p := platform.NewReddit()
	terms := []string{"mysql"}

	one := model.NewSourceSet()
	one.Add(model.SourceNativeAPI)
	two := model.NewSourceSet()
	two.Add(model.SourceNativeAPI)
	two.Add(model.SourceBing)
	three := model.NewSourceSet()
	three.Add(model.SourceNativeAPI)
	three.Add(model.SourceBing)
	three.Add(model.SourceScrape)

	items := []model.CanonicalItem{
		{ID: "1", Title: "mysql", Sources: one},
		{ID: "2", Title: "mysql", Sources: two},
		{ID: "3", Title: "mysql", Sources: three},
	}
	items = Score(items, "mysql", terms, p, now)

	w := p.Weights()
	assert.Equal(t, w.MultiSource2, items[1].Relevance-items[0].Relevance)
	assert.Equal(t, w.MultiSource3, items[2].Relevance-items[0].Relevance)
}

func TestScoreEngagementCaps(t *testing.T) {
	p := platform.NewReddit()
	w := p.Weights()

	items := []model.CanonicalItem{
		{ID: "viral", Title: "x", Score: 100000, Comments: 9000, Sources: model.NewSourceSet()},
		{ID: "busy", Title: "x", Score: w.EngagementDivisor * w.EngagementCap, Comments: w.CommentCap, Sources: model.NewSourceSet()},
	}
	items = Score(items, "x", nil, p, now)

	// Both hit the caps, so engagement contributes identically.
	assert.Equal(t, items[0].Relevance, items[1].Relevance)
}

func TestScoreRecencyBuckets(t *testing.T) {
	p := platform.NewReddit()
	w := p.Weights()

	items := []model.CanonicalItem{
		{ID: "today", Title: "x", Published: now.Add(-2 * time.Hour), Sources: model.NewSourceSet()},
		{ID: "week", Title: "x", Published: now.Add(-3 * 24 * time.Hour), Sources: model.NewSourceSet()},
		{ID: "month", Title: "x", Published: now.Add(-20 * 24 * time.Hour), Sources: model.NewSourceSet()},
		{ID: "older", Title: "x", Published: now.Add(-90 * 24 * time.Hour), Sources: model.NewSourceSet()},
	}
	items = Score(items, "x", nil, p, now)

	assert.Equal(t, model.FreshnessToday, items[0].Freshness)
	assert.Equal(t, w.RecencyToday-w.RecencyWeek, items[0].Relevance-items[1].Relevance)
	assert.Equal(t, w.RecencyWeek-w.RecencyMonth, items[1].Relevance-items[2].Relevance)
	assert.Equal(t, w.RecencyMonth, items[2].Relevance-items[3].Relevance)
}

func TestScoreUnansweredBonus(t *testing.T) {
	p := platform.NewStackOverflow("")
	w := p.Weights()
	require.Positive(t, w.UnansweredBonus)

	items := []model.CanonicalItem{
		{ID: "open", Title: "x", Sources: model.NewSourceSet()},
		{ID: "answered", Title: "x", Answered: true, Comments: 3, Sources: model.NewSourceSet()},
	}
	items = Score(items, "x", nil, p, now)

	// 3 comments add 3; the open question gets the bonus instead.
	assert.Equal(t, w.UnansweredBonus-3, items[0].Relevance-items[1].Relevance)
}

func TestScoreDeterministic(t *testing.T) {
	p := platform.NewReddit()
	terms := []string{"mysql", "postgres"}
	item := model.CanonicalItem{
		Title: "mysql to postgres", Snippet: "replication", Score: 77, Comments: 12,
		Published: now.Add(-36 * time.Hour), Sources: model.NewSourceSet(),
	}

	a := Score([]model.CanonicalItem{item}, "mysql postgres", terms, p, now)
	b := Score([]model.CanonicalItem{item}, "mysql postgres", terms, p, now)
	assert.Equal(t, a[0].Relevance, b[0].Relevance)
}

func TestRankOrdering(t *testing.T) {
	twoSources := model.NewSourceSet()
	twoSources.Add(model.SourceNativeAPI)
	twoSources.Add(model.SourceBing)
	oneSource := model.NewSourceSet()
	oneSource.Add(model.SourceNativeAPI)

	items := []model.CanonicalItem{
		{ID: "low", Relevance: 10, Discovered: 0, Sources: oneSource},
		{ID: "high", Relevance: 90, Discovered: 1, Sources: oneSource},
		{ID: "tie-fewer-sources", Relevance: 50, Discovered: 2, Sources: oneSource},
		{ID: "tie-more-sources", Relevance: 50, Discovered: 3, Sources: twoSources},
	}

	ranked := Rank(items, 0)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "tie-more-sources", ranked[1].ID)
	assert.Equal(t, "tie-fewer-sources", ranked[2].ID)
	assert.Equal(t, "low", ranked[3].ID)
}

func TestRankTieBreakRecencyThenDiscovery(t *testing.T) {
	src := model.NewSourceSet()
	src.Add(model.SourceNativeAPI)

	items := []model.CanonicalItem{
		{ID: "older", Relevance: 50, Discovered: 0, Published: now.Add(-48 * time.Hour), Sources: src},
		{ID: "newer", Relevance: 50, Discovered: 1, Published: now.Add(-1 * time.Hour), Sources: src},
		{ID: "first-seen", Relevance: 50, Discovered: 2, Published: now.Add(-48 * time.Hour), Sources: src},
	}

	ranked := Rank(items, 0)
	assert.Equal(t, "newer", ranked[0].ID)
	// Equal score, sources and timestamp: discovery order decides.
	assert.Equal(t, "older", ranked[1].ID)
	assert.Equal(t, "first-seen", ranked[2].ID)
}

func TestRankTruncates(t *testing.T) {
	src := model.NewSourceSet()
	items := []model.CanonicalItem{
		{ID: "a", Relevance: 3, Sources: src},
		{ID: "b", Relevance: 2, Sources: src},
		{ID: "c", Relevance: 1, Sources: src},
	}
	ranked := Rank(items, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "a", ranked[0].ID)
}
