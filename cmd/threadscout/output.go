package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"threadscout/internal/discover"
	"threadscout/internal/model"
)

// printResults renders one merged ranking table across all platform
// results, highest score first.
func printResults(w io.Writer, results []*discover.Result, limit int) {
	items := mergeRankings(results, limit)

	if len(items) == 0 {
		fmt.Fprintln(w, "No threads found.")
		return
	}

	headers := []string{"#", "Score", "Platform", "Title", "Cmts", "Age", "Sources", "URL"}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(item.Relevance),
			item.Platform,
			clip(item.Title, 60),
			strconv.Itoa(item.Comments),
			item.Freshness.String(),
			sourceSummary(item.Sources),
			item.URL,
		})
	}
	fmt.Fprintln(w, renderTable(headers, rows, aligns))

	for _, result := range results {
		note := ""
		if result.FromCache {
			note = " (cached)"
		}
		fmt.Fprintf(w, "%s: %d threads, %d multi-source%s\n",
			result.Platform, result.Stats.Total, result.Stats.MultiSource, note)
	}
}

// mergeRankings interleaves per-platform rankings into one list ordered
// by score. Per-platform order is already final; the merge is stable.
func mergeRankings(results []*discover.Result, limit int) []model.CanonicalItem {
	var items []model.CanonicalItem
	for _, r := range results {
		items = append(items, r.Items...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Relevance > items[j].Relevance
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func sourceSummary(set model.SourceSet) string {
	ids := set.List()
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, string(id))
	}
	return strings.Join(parts, ",")
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func writeJSON(w io.Writer, results []*discover.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeCSV(w io.Writer, results []*discover.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"platform", "id", "title", "url", "relevance", "score",
		"comments", "freshness", "sources",
	}); err != nil {
		return err
	}
	for _, result := range results {
		for _, item := range result.Items {
			record := []string{
				item.Platform,
				item.ID,
				item.Title,
				item.URL,
				strconv.Itoa(item.Relevance),
				strconv.Itoa(item.Score),
				strconv.Itoa(item.Comments),
				item.Freshness.String(),
				sourceSummary(item.Sources),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
