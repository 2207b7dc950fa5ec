package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"threadscout/internal/cache"
	"threadscout/internal/config"
	"threadscout/internal/exclusion"
	"threadscout/internal/logging"
	"threadscout/internal/platform"
	"threadscout/internal/source"
)

// llmHosts are the domain fragments used to prefilter LLM-extracted URLs
// per platform. Discourse spans arbitrary hosts, so it gets no prefilter.
var llmHosts = map[string]string{
	"reddit":        "reddit.com",
	"hackernews":    "news.ycombinator.com",
	"stackoverflow": "stackoverflow.com",
	"quora":         "quora.com",
	"github":        "github.com",
	"lobsters":      "lobste.rs",
	"devto":         "dev.to",
}

// feedTemplates are the platforms that serve a usable search feed.
var feedTemplates = map[string]string{
	"reddit":   "https://www.reddit.com/search.rss?q=%s&sort=relevance",
	"lobsters": "https://lobste.rs/search.rss?q=%s&what=stories&order=relevance",
}

// Engine holds one pipeline per enabled platform plus the query cache.
type Engine struct {
	cfg       *config.Config
	pipelines map[string]*Pipeline
	mem       *cache.Cache[*Result]
	disk      *cache.DiskCache
}

// NewEngine assembles pipelines for every enabled platform from config.
func NewEngine(cfg *config.Config) (*Engine, error) {
	plugins := platform.Builtin(platform.Settings{
		GitHubToken:     cfg.Platforms.GitHubToken,
		StackAppsKey:    cfg.Platforms.StackAppsKey,
		DiscourseForums: cfg.Platforms.DiscourseForums,
	})

	checker := exclusion.NewChecker()
	pipelines := make(map[string]*Pipeline)
	for name, plugin := range plugins {
		if !cfg.PlatformEnabled(name) {
			continue
		}
		adapters := buildAdapters(name, plugin, cfg)
		if len(adapters) == 0 {
			logging.Warn("platform has no usable sources", "platform", name)
			continue
		}
		pipelines[name] = NewPipeline(plugin, adapters, checker, cfg.Exclusions.BrandTerms)
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	engine := &Engine{
		cfg:       cfg,
		pipelines: pipelines,
		mem:       cache.New[*Result](ttl, cfg.Cache.MaxEntries),
	}

	if cfg.Cache.Persistent {
		disk, err := cache.OpenDisk(cfg.CachePath(), ttl, cfg.Cache.MaxEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to open persistent cache: %w", err)
		}
		engine.disk = disk
	}
	return engine, nil
}

// buildAdapters wires every configured source kind for one platform.
func buildAdapters(name string, plugin platform.Plugin, cfg *config.Config) []source.Adapter {
	var adapters []source.Adapter

	if native := nativeAdapter(name, cfg); native != nil {
		adapters = append(adapters, native)
	}

	siteQuery := plugin.SiteQuery()
	if cfg.Search.Bing.Enabled && cfg.Search.Bing.APIKey != "" && siteQuery != "" {
		adapters = append(adapters, source.NewBingSearch(cfg.Search.Bing.APIKey, name, siteQuery))
	}
	if cfg.Search.Google.Enabled && cfg.Search.Google.APIKey != "" && cfg.Search.Google.EngineID != "" && siteQuery != "" {
		adapters = append(adapters, source.NewGoogleSearch(
			cfg.Search.Google.APIKey, cfg.Search.Google.EngineID, name, siteQuery))
	}

	if cfg.LLM.Gemini.Enabled && cfg.LLM.Gemini.APIKey != "" {
		adapters = append(adapters, source.NewGeminiSearch(
			cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model, name, llmHosts[name]))
	}
	if cfg.LLM.OpenAI.Enabled && cfg.LLM.OpenAI.APIKey != "" {
		adapters = append(adapters, source.NewOpenAISearch(
			cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, name, llmHosts[name]))
	}

	if template, ok := feedTemplates[name]; ok {
		adapters = append(adapters, source.NewFeedSearch(name, template))
	}

	if siteQuery != "" {
		adapters = append(adapters, source.NewScrapeSearch(name, siteQuery))
	}
	return adapters
}

// nativeAdapter returns the platform's own API adapter, or nil for
// platforms without one.
func nativeAdapter(name string, cfg *config.Config) source.Adapter {
	switch name {
	case "reddit":
		return source.NewRedditAPI()
	case "hackernews":
		return source.NewHackerNewsAPI()
	case "stackoverflow":
		return source.NewStackExchangeAPI(cfg.Platforms.StackAppsKey)
	case "github":
		return source.NewGitHubAPI(cfg.Platforms.GitHubToken)
	case "lobsters":
		return source.NewLobstersAPI()
	case "devto":
		return source.NewDevToAPI()
	case "discourse":
		return source.NewDiscourseAPI(cfg.Platforms.DiscourseForums)
	default:
		// quora exposes no search API; search, LLM and scrape cover it.
		return nil
	}
}

// Platforms lists the platforms this engine can serve, sorted.
func (e *Engine) Platforms() []string {
	names := make([]string, 0, len(e.pipelines))
	for name := range e.pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Discover runs (or replays from cache) a discovery request against one
// platform.
func (e *Engine) Discover(ctx context.Context, platformName, q string, opts Options) (*Result, error) {
	pipeline, ok := e.pipelines[platformName]
	if !ok {
		return nil, fmt.Errorf("unknown or disabled platform %q", platformName)
	}

	key := cache.Key(q, platformName, opts.TimeFilter, fmt.Sprint(opts.Limit))

	if cached, ok := e.mem.Get(key); ok {
		replay := *cached
		replay.FromCache = true
		return &replay, nil
	}
	if e.disk != nil {
		if payload, ok := e.disk.Get(key); ok {
			var cached Result
			if err := json.Unmarshal(payload, &cached); err == nil {
				cached.FromCache = true
				e.mem.Set(key, &cached)
				return &cached, nil
			}
		}
	}

	result, err := pipeline.Discover(ctx, q, opts)
	if err != nil {
		return nil, err
	}

	e.mem.Set(key, result)
	if e.disk != nil {
		if payload, err := json.Marshal(result); err == nil {
			if err := e.disk.Set(key, payload); err != nil {
				logging.Warn("persistent cache write failed", "error", err)
			}
		}
	}
	return result, nil
}

// CacheStats reports the in-memory cache counters, plus persisted entry
// counts when the disk cache is on.
func (e *Engine) CacheStats() (memory cache.Stats, disk *cache.Stats) {
	memory = e.mem.Stats()
	if e.disk != nil {
		if s, err := e.disk.Stats(); err == nil {
			disk = &s
		}
	}
	return memory, disk
}

// ClearCache empties both cache layers.
func (e *Engine) ClearCache() error {
	e.mem.Invalidate("")
	if e.disk != nil {
		return e.disk.Invalidate("")
	}
	return nil
}

// Close releases the persistent cache handle.
func (e *Engine) Close() error {
	if e.disk != nil {
		return e.disk.Close()
	}
	return nil
}
