// Package platform defines the per-platform strategy used by the discovery
// pipeline.
//
// Every supported community platform implements Plugin: URL grammar
// (identifier extraction, normalization, content-page validation), scoring
// weights, relevance threshold, and the structural signals used by the
// exclusion filter. Adding a platform means implementing this one
// interface, not cloning pipeline code.
package platform

import (
	"math"
	"regexp"

	"threadscout/internal/model"
)

// Plugin is the per-platform strategy consumed by the generic pipeline.
// All methods must be deterministic and side-effect-free.
type Plugin interface {
	// Name is the stable platform identifier ("reddit", "stackoverflow", ...).
	Name() string

	// ExtractID returns the canonical content identifier for a raw URL,
	// or ok=false if the URL does not address content on this platform.
	ExtractID(rawURL string) (id string, ok bool)

	// NormalizeURL rewrites a raw URL to the single canonical host+path
	// form, stripping tracking parameters, fragments and trailing slashes.
	// Two URLs addressing the same content normalize to the same string.
	NormalizeURL(rawURL string) (string, bool)

	// ValidateURL reports whether the URL addresses an actual discussion
	// (not a login, search, tag or profile page).
	ValidateURL(rawURL string) bool

	// SiteQuery returns the search-engine restriction operator for this
	// platform, e.g. "site:reddit.com".
	SiteQuery() string

	// Weights returns the platform's scoring weights.
	Weights() ScoreWeights

	// RelevanceThreshold returns the minimum number of significant query
	// terms an item must match to survive the relevance gate.
	RelevanceThreshold(termCount int) int

	// ExclusionPatterns are compiled signals of locked/removed content,
	// matched against fetched conversation bodies in the second exclusion
	// stage.
	ExclusionPatterns() []*regexp.Regexp

	// ConversationURL returns the URL the exclusion filter fetches to
	// inspect an item's replies/answers/comments.
	ConversationURL(item model.CanonicalItem) string
}

// ScoreWeights parameterizes the composite relevance score. All bonuses
// are additive integers.
type ScoreWeights struct {
	ExactTitle  int // full-query substring match in title
	TitleTerm   int // per matched term in title
	SnippetTerm int // per matched term in snippet/body

	SourceBonus map[model.SourceID]int

	MultiSource2 int // found by exactly 2 sources
	MultiSource3 int // found by 3 or more

	EngagementDivisor int // upvotes/points contribute score/divisor ...
	EngagementCap     int // ... capped here
	CommentCap        int // comment count contributes min(count, cap)

	RecencyToday int
	RecencyWeek  int
	RecencyMonth int

	UnansweredBonus int // Q&A platforms: question still open for an answer
	DiscussionBonus int // platforms that distinguish discussion threads

	// StageTwoLimit is how many top-ranked survivors get the expensive
	// secondary exclusion check.
	StageTwoLimit int
}

// DefaultWeights is the base profile most platforms start from.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		ExactTitle:  100,
		TitleTerm:   18,
		SnippetTerm: 5,
		SourceBonus: map[model.SourceID]int{
			model.SourceNativeAPI: 30,
			model.SourceBing:      15,
			model.SourceGoogle:    15,
			model.SourceGemini:    10,
			model.SourceOpenAI:    10,
			model.SourceFeed:      10,
			model.SourceScrape:    5,
		},
		MultiSource2:      25,
		MultiSource3:      50,
		EngagementDivisor: 20,
		EngagementCap:     30,
		CommentCap:        30,
		RecencyToday:      30,
		RecencyWeek:       20,
		RecencyMonth:      10,
		StageTwoLimit:     30,
	}
}

// fractionThreshold computes max(min, ceil(frac*termCount)), the common
// shape of every platform's relevance threshold.
func fractionThreshold(termCount int, frac float64, min int) int {
	n := int(math.Ceil(frac * float64(termCount)))
	if n < min {
		n = min
	}
	if n > termCount && termCount > 0 {
		n = termCount
	}
	return n
}
