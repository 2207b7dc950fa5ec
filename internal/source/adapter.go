// Package source provides the pluggable adapters that fetch raw candidate
// items from external content sources: platform-native APIs, search-engine
// APIs, RSS/Atom feeds, HTML scraping and LLM-grounded web search.
//
// Adapter contract: Fetch never fails past its own boundary. Network
// errors, malformed responses and extraction misses all collapse to an
// empty result slice plus a log line, so one failing source cannot abort
// the pipeline.
package source

import (
	"context"
	"time"

	"threadscout/internal/model"
)

// Options tunes a single fetch.
type Options struct {
	// TimeFilter restricts results by age: "", "day", "week", "month",
	// "year". Adapters that cannot express it ignore it.
	TimeFilter string

	// MaxPages bounds pagination per variant. Zero means adapter default.
	MaxPages int

	// PerPage is the requested page size. Zero means adapter default.
	PerPage int
}

// Adapter fetches raw candidate items from one external source.
type Adapter interface {
	// Name identifies the adapter instance for logs ("reddit/native-api").
	Name() string

	// Source is the source ID the adapter tags its results with.
	Source() model.SourceID

	// Fetch retrieves candidates for the given query variants. It honors
	// ctx cancellation, applies its own pagination and pacing policy, and
	// never returns an error: failures yield an empty slice.
	Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult
}

// Variant caps. Fan-out cost is requests, not variants, so each adapter
// class bounds how many variants it actually queries.
const (
	nativeVariantLimit = 4
	searchVariantLimit = 3
	feedVariantLimit   = 2
	scrapeVariantLimit = 2
)

// interRequestDelay is the politeness delay between successive requests to
// the same provider within one fetch.
const interRequestDelay = 400 * time.Millisecond

// capVariants bounds the variant list for an adapter class.
func capVariants(variants []string, limit int) []string {
	if len(variants) > limit {
		return variants[:limit]
	}
	return variants
}
