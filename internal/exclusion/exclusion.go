// Package exclusion removes threads that cannot be engaged with: locked,
// archived or deleted content, and threads already carrying a disallowed
// brand mention.
//
// Filtering runs in two stages. Stage one is free, it only inspects the
// metadata already merged into each item. Stage two fetches each
// surviving item's conversation page and inspects the actual replies; it
// is rate-limited, bounded to the top of the ranking, and fails open.
package exclusion

import (
	"strings"

	"threadscout/internal/model"
)

// StageOne drops items that are excludable from metadata alone: platform
// flags set by the native API, or a disallowed brand term already visible
// in the title or snippet. Pure function, input order preserved.
func StageOne(items []model.CanonicalItem, brandTerms []string) []model.CanonicalItem {
	var kept []model.CanonicalItem
	for _, item := range items {
		if item.Locked || item.Closed || item.Archived {
			continue
		}
		if MentionsAny(item.Title+" "+item.Snippet, brandTerms) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// MentionsAny reports whether text contains any of the terms,
// case-insensitively. Empty terms never match.
func MentionsAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		term = strings.TrimSpace(strings.ToLower(term))
		if term != "" && strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
