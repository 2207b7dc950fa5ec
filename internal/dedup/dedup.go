// Package dedup folds raw adapter results into canonical items.
//
// Each platform defines a canonical content identifier; every raw result
// whose URL yields the same identifier collapses into one item. Field
// conflicts are settled by source authority, then by a deterministic
// completeness rule, so the merged item does not depend on the order the
// adapters happened to return in.
package dedup

import (
	"sort"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"
	"threadscout/internal/platform"
)

// fieldAuthority remembers at which source authority each merged field was
// last settled, so later results only override fields they outrank.
type fieldAuthority struct {
	title, snippet, author, tags int
	score, comments, views       int
	published, updated           int
	flags                        int
}

// Merge collapses raw results into one CanonicalItem per content
// identifier. Results whose URL fails the platform's grammar are dropped.
// The returned slice preserves first-appearance order, and each item's
// Discovered index records that order.
func Merge(results []model.RawResult, plugin platform.Plugin) []model.CanonicalItem {
	byID := make(map[string]*model.CanonicalItem)
	auth := make(map[string]*fieldAuthority)
	var order []string
	dropped := 0

	for _, raw := range results {
		id, ok := plugin.ExtractID(raw.URL)
		if !ok || !plugin.ValidateURL(raw.URL) {
			dropped++
			continue
		}
		canonicalURL, ok := plugin.NormalizeURL(raw.URL)
		if !ok {
			dropped++
			continue
		}

		item, seen := byID[id]
		if !seen {
			item = &model.CanonicalItem{
				ID:         id,
				Platform:   plugin.Name(),
				URL:        canonicalURL,
				Sources:    model.NewSourceSet(),
				Discovered: len(order),
			}
			byID[id] = item
			auth[id] = &fieldAuthority{
				title: -1, snippet: -1, author: -1, tags: -1,
				score: -1, comments: -1, views: -1,
				published: -1, updated: -1, flags: -1,
			}
			order = append(order, id)
		}

		item.Sources.Add(raw.Source)
		apply(item, auth[id], raw)
	}

	if dropped > 0 {
		logging.Debug("dedup dropped invalid urls", "platform", plugin.Name(), "dropped", dropped)
	}

	items := make([]model.CanonicalItem, 0, len(order))
	for _, id := range order {
		items = append(items, *byID[id])
	}
	return items
}

// apply merges one raw result into the item under the authority rules.
func apply(item *model.CanonicalItem, fa *fieldAuthority, raw model.RawResult) {
	a := raw.Source.Authority()

	item.Title, fa.title = mergeString(item.Title, fa.title, raw.Title, a)
	item.Snippet, fa.snippet = mergeString(item.Snippet, fa.snippet, raw.Snippet, a)
	item.Author, fa.author = mergeString(item.Author, fa.author, raw.Author, a)
	item.Tags, fa.tags = mergeTags(item.Tags, fa.tags, raw.Tags, a)

	item.Score, fa.score = mergeInt(item.Score, fa.score, raw.Score, a)
	item.Comments, fa.comments = mergeInt(item.Comments, fa.comments, raw.Comments, a)
	item.Views, fa.views = mergeInt(item.Views, fa.views, raw.Views, a)

	item.Published, fa.published = mergeTime(item.Published, fa.published, raw.Published, a)
	item.Updated, fa.updated = mergeTime(item.Updated, fa.updated, raw.Updated, a)

	// Structural flags are only trusted from the platform's own API.
	if raw.Source == model.SourceNativeAPI {
		if a > fa.flags {
			item.Locked = raw.Locked
			item.Closed = raw.Closed
			item.Archived = raw.Archived
			item.Answered = raw.Answered
			fa.flags = a
		} else {
			item.Locked = item.Locked || raw.Locked
			item.Closed = item.Closed || raw.Closed
			item.Archived = item.Archived || raw.Archived
			item.Answered = item.Answered || raw.Answered
		}
	}
}

// mergeString keeps the value from the highest-authority source. At equal
// authority the longer string wins; at equal length the lexicographically
// smaller one, so the outcome never depends on arrival order.
func mergeString(cur string, curAuth int, next string, nextAuth int) (string, int) {
	if next == "" {
		return cur, curAuth
	}
	switch {
	case nextAuth > curAuth:
		return next, nextAuth
	case nextAuth < curAuth:
		return cur, curAuth
	}
	if len(next) > len(cur) || (len(next) == len(cur) && next < cur) {
		return next, curAuth
	}
	return cur, curAuth
}

// mergeInt keeps the highest-authority value; at equal authority the larger
// value wins, treating zero as unknown.
func mergeInt(cur, curAuth, next, nextAuth int) (int, int) {
	if next == 0 {
		return cur, curAuth
	}
	switch {
	case nextAuth > curAuth:
		return next, nextAuth
	case nextAuth < curAuth:
		return cur, curAuth
	}
	if next > cur {
		return next, curAuth
	}
	return cur, curAuth
}

// mergeTime keeps the highest-authority timestamp; at equal authority the
// earlier one wins for Published-style fields, since later copies of the
// same thread tend to carry crawl dates, not creation dates. Updated uses
// the same rule; the native API outranks everything that would matter.
func mergeTime(cur time.Time, curAuth int, next time.Time, nextAuth int) (time.Time, int) {
	if next.IsZero() {
		return cur, curAuth
	}
	switch {
	case nextAuth > curAuth:
		return next, nextAuth
	case nextAuth < curAuth:
		return cur, curAuth
	}
	if cur.IsZero() || next.Before(cur) {
		return next, curAuth
	}
	return cur, curAuth
}

// mergeTags keeps the higher-authority tag list; at equal authority the
// union, sorted by the deterministic SourceSet-style rule of first merge
// then order-independent dedup.
func mergeTags(cur []string, curAuth int, next []string, nextAuth int) ([]string, int) {
	if len(next) == 0 {
		return cur, curAuth
	}
	switch {
	case nextAuth > curAuth:
		return append([]string(nil), next...), nextAuth
	case nextAuth < curAuth:
		return cur, curAuth
	}
	return unionSorted(cur, next), curAuth
}

func unionSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
