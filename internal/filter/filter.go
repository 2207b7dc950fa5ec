// Package filter provides the relevance gate, scorer and ranker for
// canonical items. All functions are pure: items in, items out, no side
// effects, so two runs over the same merged set produce the same ranking.
package filter

import (
	"sort"
	"strings"
	"time"

	"threadscout/internal/model"
	"threadscout/internal/platform"
	"threadscout/internal/query"
)

// ByRelevance drops items that match fewer significant query terms than
// the platform's threshold. The match surface is title, snippet and tags.
func ByRelevance(items []model.CanonicalItem, terms []string, plugin platform.Plugin) []model.CanonicalItem {
	if len(items) == 0 {
		return []model.CanonicalItem{}
	}
	threshold := plugin.RelevanceThreshold(len(terms))

	result := make([]model.CanonicalItem, 0, len(items))
	for _, item := range items {
		if matchSurfaceCount(item, terms) >= threshold {
			result = append(result, item)
		}
	}
	return result
}

// matchSurfaceCount counts distinct terms present in the item's text
// surface.
func matchSurfaceCount(item model.CanonicalItem, terms []string) int {
	surface := item.Title + " " + item.Snippet + " " + strings.Join(item.Tags, " ")
	return query.MatchCount(surface, terms)
}

// Score computes each item's composite relevance score in place and
// attaches the freshness bucket. now is passed in so scoring stays
// deterministic under test.
func Score(items []model.CanonicalItem, q string, terms []string, plugin platform.Plugin, now time.Time) []model.CanonicalItem {
	w := plugin.Weights()
	lowerQuery := strings.ToLower(strings.TrimSpace(q))

	for i := range items {
		item := &items[i]
		score := 0

		lowerTitle := strings.ToLower(item.Title)
		if lowerQuery != "" && strings.Contains(lowerTitle, lowerQuery) {
			score += w.ExactTitle
		}
		score += query.MatchCount(item.Title, terms) * w.TitleTerm
		score += query.MatchCount(item.Snippet, terms) * w.SnippetTerm

		best := 0
		for _, src := range item.Sources.List() {
			if b := w.SourceBonus[src]; b > best {
				best = b
			}
		}
		score += best

		switch n := item.Sources.Count(); {
		case n >= 3:
			score += w.MultiSource3
		case n == 2:
			score += w.MultiSource2
		}

		if w.EngagementDivisor > 0 {
			engagement := item.Score / w.EngagementDivisor
			if engagement > w.EngagementCap {
				engagement = w.EngagementCap
			}
			if engagement > 0 {
				score += engagement
			}
		}
		comments := item.Comments
		if comments > w.CommentCap {
			comments = w.CommentCap
		}
		if comments > 0 {
			score += comments
		}

		item.Freshness = model.BucketFor(item.Published, now)
		switch item.Freshness {
		case model.FreshnessToday:
			score += w.RecencyToday
		case model.FreshnessWeek:
			score += w.RecencyWeek
		case model.FreshnessMonth:
			score += w.RecencyMonth
		}

		if w.UnansweredBonus > 0 && !item.Answered && item.Comments == 0 {
			score += w.UnansweredBonus
		}
		if w.DiscussionBonus > 0 && item.Comments > 0 {
			score += w.DiscussionBonus
		}

		item.Relevance = score
	}
	return items
}

// Rank sorts items by descending relevance with the stable tie-break
// chain (more sources, more recent, then original discovery order) and
// truncates to limit. limit <= 0 means no truncation.
func Rank(items []model.CanonicalItem, limit int) []model.CanonicalItem {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if na, nb := a.Sources.Count(), b.Sources.Count(); na != nb {
			return na > nb
		}
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		return a.Discovered < b.Discovered
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
