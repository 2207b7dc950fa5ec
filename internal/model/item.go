// Package model defines the data types that flow through the discovery
// pipeline.
//
// A discovery request produces RawResults (one per adapter hit), which are
// folded into CanonicalItems (one per canonical content identifier). Both
// types are request-scoped - nothing in this package persists across
// requests.
package model

import "time"

// SourceID identifies the kind of source an adapter fetched a result from.
type SourceID string

const (
	SourceNativeAPI SourceID = "native-api"
	SourceBing      SourceID = "search-bing"
	SourceGoogle    SourceID = "search-google"
	SourceGemini    SourceID = "llm-gemini"
	SourceOpenAI    SourceID = "llm-openai"
	SourceFeed      SourceID = "feed"
	SourceScrape    SourceID = "scrape"
)

// Authority ranks sources for merge precedence. When two sources disagree
// about a field, the higher-authority value wins: the platform's own API
// knows the real comment count, a search engine snapshot is second-hand,
// and a scraped page is the least trustworthy.
func (s SourceID) Authority() int {
	switch s {
	case SourceNativeAPI:
		return 3
	case SourceBing, SourceGoogle:
		return 2
	case SourceGemini, SourceOpenAI, SourceFeed:
		return 1
	default:
		return 0
	}
}

// AllSources lists every source ID in a fixed order, for stats and toggles.
func AllSources() []SourceID {
	return []SourceID{
		SourceNativeAPI,
		SourceBing,
		SourceGoogle,
		SourceGemini,
		SourceOpenAI,
		SourceFeed,
		SourceScrape,
	}
}

// RawResult is the output of one source adapter for one query variant.
// It is created by an adapter call, consumed once by normalization and
// merging, then discarded.
type RawResult struct {
	Source   SourceID
	Platform string
	URL      string // as returned, possibly tracking-decorated
	Title    string
	Snippet  string
	Author   string
	Tags     []string

	// Engagement metrics. Zero means "unknown" for non-native sources.
	Score    int
	Comments int
	Views    int

	Published time.Time
	Updated   time.Time

	// Platform flags, authoritative only when Source is native-api.
	Locked   bool
	Closed   bool
	Archived bool
	Answered bool
}

// FreshnessBucket is a graded recency classification used for scoring.
type FreshnessBucket int

const (
	FreshnessUnknown FreshnessBucket = iota
	FreshnessOlder
	FreshnessMonth
	FreshnessWeek
	FreshnessToday
)

// String returns a short label for display.
func (b FreshnessBucket) String() string {
	switch b {
	case FreshnessToday:
		return "today"
	case FreshnessWeek:
		return "this-week"
	case FreshnessMonth:
		return "this-month"
	case FreshnessOlder:
		return "older"
	default:
		return "unknown"
	}
}

// BucketFor classifies a timestamp relative to now.
func BucketFor(t, now time.Time) FreshnessBucket {
	if t.IsZero() {
		return FreshnessUnknown
	}
	age := now.Sub(t)
	switch {
	case age < 24*time.Hour:
		return FreshnessToday
	case age < 7*24*time.Hour:
		return FreshnessWeek
	case age < 30*24*time.Hour:
		return FreshnessMonth
	default:
		return FreshnessOlder
	}
}

// CanonicalItem is the deduplicated, addressable unit of content.
//
// Invariant: one CanonicalItem per canonical content identifier, regardless
// of how many adapters discovered it. Fields are mutated only by the
// deduplicator (merge) and the scorer (score attachment); the item is
// immutable afterward.
type CanonicalItem struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"` // normalized canonical form

	Title   string   `json:"title"`
	Snippet string   `json:"snippet,omitempty"`
	Author  string   `json:"author,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	Score    int `json:"score"`
	Comments int `json:"comments"`
	Views    int `json:"views,omitempty"`

	Published time.Time `json:"published,omitempty"`
	Updated   time.Time `json:"updated,omitempty"`

	Locked   bool `json:"locked,omitempty"`
	Closed   bool `json:"closed,omitempty"`
	Archived bool `json:"archived,omitempty"`
	Answered bool `json:"answered,omitempty"`

	// Sources never shrinks once populated.
	Sources SourceSet `json:"sources"`

	// Discovered is the zero-based order in which this item first appeared
	// in the merged stream. It is the final tie-break for ranking.
	Discovered int `json:"-"`

	// Computed downstream.
	Relevance int             `json:"relevance"`
	Excluded  bool            `json:"-"`
	Freshness FreshnessBucket `json:"-"`
}

// ExclusionVerdict is the outcome of the exclusion filter for one item.
//
// Invariant: if Checked is false the expensive secondary fetch did not
// complete, and the item must not be excluded on that basis alone.
type ExclusionVerdict struct {
	Locked               bool
	Missing              bool
	HasDisallowedMention bool
	Checked              bool
}

// Exclude reports whether the verdict justifies dropping the item.
// An unchecked verdict never excludes (fail-open).
func (v ExclusionVerdict) Exclude() bool {
	if !v.Checked {
		return false
	}
	return v.Locked || v.Missing || v.HasDisallowedMention
}
