package discover

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscout/internal/cache"
	"threadscout/internal/config"
	"threadscout/internal/model"
	"threadscout/internal/platform"
	"threadscout/internal/source"
)

// fakeAdapter returns canned results and records whether it ran.
type fakeAdapter struct {
	name    string
	source  model.SourceID
	results []model.RawResult
	delay   time.Duration
	called  bool
}

func (f *fakeAdapter) Name() string           { return f.name }
func (f *fakeAdapter) Source() model.SourceID { return f.source }

func (f *fakeAdapter) Fetch(ctx context.Context, variants []string, opts source.Options) []model.RawResult {
	f.called = true
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return f.results
}

func redditResult(src model.SourceID, id, title string) model.RawResult {
	return model.RawResult{
		Source:   src,
		Platform: "reddit",
		URL:      "https://www.reddit.com/r/golang/comments/" + id + "/thread",
		Title:    title,
	}
}

func TestDiscoverNoSources(t *testing.T) {
	pipeline := NewPipeline(platform.NewReddit(), nil, nil, nil)
	_, err := pipeline.Discover(context.Background(), "mysql replication", Options{})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestDiscoverTogglesDisableAdapters(t *testing.T) {
	native := &fakeAdapter{name: "reddit/native-api", source: model.SourceNativeAPI}
	scrape := &fakeAdapter{name: "reddit/scrape", source: model.SourceScrape}
	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{native, scrape}, nil, nil)

	_, err := pipeline.Discover(context.Background(), "mysql replication",
		Options{Sources: map[model.SourceID]bool{model.SourceNativeAPI: true}})
	require.NoError(t, err)
	assert.True(t, native.called)
	assert.False(t, scrape.called)

	// Toggling off everything that exists is a configuration error.
	_, err = pipeline.Discover(context.Background(), "mysql replication",
		Options{Sources: map[model.SourceID]bool{model.SourceGemini: true}})
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestDiscoverMergesAcrossAdapters(t *testing.T) {
	native := &fakeAdapter{
		name: "reddit/native-api", source: model.SourceNativeAPI,
		results: []model.RawResult{
			redditResult(model.SourceNativeAPI, "aaa111", "MySQL replication breaks after upgrade"),
			redditResult(model.SourceNativeAPI, "bbb222", "MySQL replication monitoring"),
		},
	}
	scrape := &fakeAdapter{
		name: "reddit/scrape", source: model.SourceScrape,
		results: []model.RawResult{
			// Same thread as aaa111 through a decorated URL.
			{
				Source:   model.SourceScrape,
				Platform: "reddit",
				URL:      "https://old.reddit.com/r/golang/comments/aaa111/thread?utm_source=share",
				Title:    "MySQL replication breaks after upgrade",
			},
		},
	}

	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{native, scrape}, nil, nil)
	result, err := pipeline.Discover(context.Background(), "mysql replication", Options{})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.MultiSource)
	assert.Equal(t, 2, result.Stats.PerSource[model.SourceNativeAPI])
	assert.Equal(t, 1, result.Stats.PerSource[model.SourceScrape])

	// The corroborated thread outranks the single-source one.
	assert.Equal(t, "aaa111", result.Items[0].ID)
}

func TestDiscoverOrderIndependentOfAdapterOrder(t *testing.T) {
	a := redditResult(model.SourceNativeAPI, "aaa111", "MySQL replication deep dive")
	b := redditResult(model.SourceNativeAPI, "bbb222", "MySQL replication quick question")

	build := func(order []model.RawResult) *Result {
		adapter := &fakeAdapter{name: "reddit/native-api", source: model.SourceNativeAPI, results: order}
		pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{adapter}, nil, nil)
		result, err := pipeline.Discover(context.Background(), "mysql replication", Options{})
		require.NoError(t, err)
		return result
	}

	forward := build([]model.RawResult{a, b})
	reverse := build([]model.RawResult{b, a})

	require.Len(t, forward.Items, 2)
	require.Len(t, reverse.Items, 2)
	assert.Equal(t, forward.Items[0].Relevance, reverse.Items[0].Relevance)
	assert.ElementsMatch(t,
		[]string{forward.Items[0].ID, forward.Items[1].ID},
		[]string{reverse.Items[0].ID, reverse.Items[1].ID})
}

func TestDiscoverDropsIrrelevantItems(t *testing.T) {
	adapter := &fakeAdapter{
		name: "reddit/native-api", source: model.SourceNativeAPI,
		results: []model.RawResult{
			redditResult(model.SourceNativeAPI, "aaa111", "MySQL replication lag fixes"),
			redditResult(model.SourceNativeAPI, "bbb222", "Show off your desk setup"),
		},
	}
	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{adapter}, nil, nil)

	result, err := pipeline.Discover(context.Background(), "mysql replication", Options{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "aaa111", result.Items[0].ID)
}

func TestDiscoverStageOneBrandTerms(t *testing.T) {
	adapter := &fakeAdapter{
		name: "reddit/native-api", source: model.SourceNativeAPI,
		results: []model.RawResult{
			redditResult(model.SourceNativeAPI, "aaa111", "MySQL replication with AcmeCloud"),
			redditResult(model.SourceNativeAPI, "bbb222", "MySQL replication on bare metal"),
		},
	}
	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{adapter}, nil, []string{"acmecloud"})

	result, err := pipeline.Discover(context.Background(), "mysql replication", Options{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "bbb222", result.Items[0].ID)
}

func TestDiscoverLimit(t *testing.T) {
	var results []model.RawResult
	ids := []string{"aaa1", "bbb2", "ccc3", "ddd4"}
	for _, id := range ids {
		results = append(results, redditResult(model.SourceNativeAPI, id, "mysql replication notes "+id))
	}
	adapter := &fakeAdapter{name: "reddit/native-api", source: model.SourceNativeAPI, results: results}
	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{adapter}, nil, nil)

	result, err := pipeline.Discover(context.Background(), "mysql replication", Options{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
}

func TestDiscoverSlowAdapterDoesNotBlockOthers(t *testing.T) {
	fast := &fakeAdapter{
		name: "reddit/native-api", source: model.SourceNativeAPI,
		results: []model.RawResult{redditResult(model.SourceNativeAPI, "aaa111", "mysql replication")},
	}
	slow := &fakeAdapter{name: "reddit/scrape", source: model.SourceScrape, delay: 10 * time.Second}

	pipeline := NewPipeline(platform.NewReddit(), []source.Adapter{fast, slow}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := pipeline.Discover(ctx, "mysql replication", Options{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1, "fast adapter's results survive the straggler")
}

func TestEngineCacheReplay(t *testing.T) {
	adapter := &fakeAdapter{
		name: "reddit/native-api", source: model.SourceNativeAPI,
		results: []model.RawResult{redditResult(model.SourceNativeAPI, "aaa111", "mysql replication")},
	}
	engine := &Engine{
		cfg: config.DefaultConfig(),
		pipelines: map[string]*Pipeline{
			"reddit": NewPipeline(platform.NewReddit(), []source.Adapter{adapter}, nil, nil),
		},
		mem: cache.New[*Result](time.Hour, 10),
	}

	first, err := engine.Discover(context.Background(), "reddit", "mysql replication", Options{})
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	require.True(t, adapter.called)

	adapter.called = false
	second, err := engine.Discover(context.Background(), "reddit", "mysql replication", Options{})
	require.NoError(t, err)
	assert.True(t, second.FromCache, "repeat query within TTL replays from cache")
	assert.False(t, adapter.called, "cached replay must not re-invoke adapters")
	assert.Equal(t, first.Items, second.Items)
}

func TestEngineUnknownPlatform(t *testing.T) {
	cfg := config.DefaultConfig()
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	defer engine.Close()

	_, err = engine.Discover(context.Background(), "myspace", "anything", Options{})
	assert.Error(t, err)
}

func TestEnginePlatforms(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Platforms.Enabled = map[string]bool{"quora": false}

	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	defer engine.Close()

	platforms := engine.Platforms()
	assert.NotContains(t, platforms, "quora")
	assert.Contains(t, platforms, "reddit")
	assert.Contains(t, platforms, "hackernews")
}
