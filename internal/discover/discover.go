// Package discover runs the end-to-end discovery pipeline: expand the
// query, fan out to every enabled source adapter, merge, filter, score
// and rank.
//
// The pipeline is fail-open end to end. A slow or broken adapter costs
// its own results, nothing else; output ordering depends only on scores
// and the documented tie-breaks, never on adapter arrival order.
package discover

import (
	"context"
	"errors"
	"sync"
	"time"

	"threadscout/internal/dedup"
	"threadscout/internal/exclusion"
	"threadscout/internal/filter"
	"threadscout/internal/logging"
	"threadscout/internal/model"
	"threadscout/internal/platform"
	"threadscout/internal/query"
	"threadscout/internal/source"

	"golang.org/x/sync/errgroup"
)

// ErrNoSources means every adapter for the requested platform is disabled
// or unconfigured. Detected before any network traffic.
var ErrNoSources = errors.New("no sources enabled for platform")

// adapterTimeout bounds each adapter's whole fetch, all variants included.
const adapterTimeout = 12 * time.Second

// maxConcurrentAdapters limits the parallel fan-out per request.
const maxConcurrentAdapters = 5

// defaultLimit is how many ranked items a request returns when the caller
// does not say.
const defaultLimit = 20

// defaultMaxVariants caps query expansion.
const defaultMaxVariants = 6

// Options tunes one discovery request.
type Options struct {
	// Limit truncates the final ranking. Zero means defaultLimit.
	Limit int

	// TimeFilter restricts result age: "", "day", "week", "month", "year".
	TimeFilter string

	// MaxVariants caps query expansion. Zero means defaultMaxVariants.
	MaxVariants int

	// Sources toggles source kinds. Nil means all configured sources run;
	// a non-nil map runs only the kinds explicitly set to true.
	Sources map[model.SourceID]bool

	// BrandTerms are disallowed brand mentions for this request, merged
	// with the configured ones.
	BrandTerms []string
}

// Stats summarizes a discovery run.
type Stats struct {
	// Total is the number of items returned after ranking and truncation.
	Total int `json:"total"`

	// PerSource counts, per source kind, how many returned items that
	// source contributed to.
	PerSource map[model.SourceID]int `json:"per_source"`

	// MultiSource counts returned items corroborated by 2+ sources.
	MultiSource int `json:"multi_source"`
}

// Result is the output of one discovery request.
type Result struct {
	Query     string                `json:"query"`
	Platform  string                `json:"platform"`
	Variants  []string              `json:"variants"`
	Items     []model.CanonicalItem `json:"items"`
	Stats     Stats                 `json:"stats"`
	FromCache bool                  `json:"from_cache"`
}

// Pipeline runs discovery for one platform with a fixed adapter set.
type Pipeline struct {
	plugin     platform.Plugin
	adapters   []source.Adapter
	checker    *exclusion.Checker
	brandTerms []string
}

// NewPipeline builds a pipeline. The checker may be nil to skip the
// stage-two exclusion check entirely.
func NewPipeline(plugin platform.Plugin, adapters []source.Adapter, checker *exclusion.Checker, brandTerms []string) *Pipeline {
	return &Pipeline{
		plugin:     plugin,
		adapters:   adapters,
		checker:    checker,
		brandTerms: brandTerms,
	}
}

// Discover runs the full pipeline for one query.
func (p *Pipeline) Discover(ctx context.Context, q string, opts Options) (*Result, error) {
	adapters := p.enabledAdapters(opts.Sources)
	if len(adapters) == 0 {
		return nil, ErrNoSources
	}

	maxVariants := opts.MaxVariants
	if maxVariants == 0 {
		maxVariants = defaultMaxVariants
	}
	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	variants := query.Expand(q, maxVariants)
	terms := query.Terms(q)
	brandTerms := append(append([]string(nil), p.brandTerms...), opts.BrandTerms...)

	raw := p.fanOut(ctx, adapters, variants, opts)
	merged := dedup.Merge(raw, p.plugin)
	logging.Debug("merge complete", "platform", p.plugin.Name(),
		"raw", len(raw), "merged", len(merged))

	items := exclusion.StageOne(merged, brandTerms)
	items = filter.ByRelevance(items, terms, p.plugin)
	items = filter.Score(items, q, terms, p.plugin, time.Now())
	items = filter.Rank(items, 0)

	if p.checker != nil && len(items) > 0 {
		k := p.plugin.Weights().StageTwoLimit
		if k <= 0 || k > len(items) {
			k = len(items)
		}
		verdicts := p.checker.Check(ctx, items[:k], p.plugin, brandTerms)
		items = exclusion.Apply(items, verdicts)
	}

	items = filter.Rank(items, limit)

	return &Result{
		Query:    q,
		Platform: p.plugin.Name(),
		Variants: variants,
		Items:    items,
		Stats:    computeStats(items),
	}, nil
}

// enabledAdapters applies the per-request source toggles.
func (p *Pipeline) enabledAdapters(toggles map[model.SourceID]bool) []source.Adapter {
	if toggles == nil {
		return p.adapters
	}
	var enabled []source.Adapter
	for _, a := range p.adapters {
		if toggles[a.Source()] {
			enabled = append(enabled, a)
		}
	}
	return enabled
}

// fanOut runs every adapter concurrently and collects whatever each one
// returns before its timeout. Adapters never fail the group.
func (p *Pipeline) fanOut(ctx context.Context, adapters []source.Adapter, variants []string, opts Options) []model.RawResult {
	fetchOpts := source.Options{TimeFilter: opts.TimeFilter}

	var mu sync.Mutex
	collected := make([][]model.RawResult, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAdapters)
	for i, adapter := range adapters {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, adapterTimeout)
			defer cancel()

			start := time.Now()
			results := adapter.Fetch(fetchCtx, variants, fetchOpts)
			logging.Debug("adapter done", "adapter", adapter.Name(),
				"results", len(results), "elapsed", time.Since(start))

			mu.Lock()
			collected[i] = results
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	// Flatten in adapter registration order so the raw stream is stable
	// for a given adapter set.
	var raw []model.RawResult
	for _, results := range collected {
		raw = append(raw, results...)
	}
	return raw
}

func computeStats(items []model.CanonicalItem) Stats {
	stats := Stats{
		Total:     len(items),
		PerSource: make(map[model.SourceID]int),
	}
	for _, item := range items {
		for _, src := range item.Sources.List() {
			stats.PerSource[src]++
		}
		if item.Sources.Count() >= 2 {
			stats.MultiSource++
		}
	}
	return stats
}
