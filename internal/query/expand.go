// Package query provides query expansion and tokenization for discovery
// requests. All functions are pure: string in, strings out. No side effects.
package query

import (
	"fmt"
	"strings"
)

// templates are phrase shapes applied to the whole query.
var templates = []string{
	"how to %s",
	"%s problems",
	"%s alternatives",
	"best %s",
	"%s recommendations",
}

// synonyms maps a word to replacement candidates. Substitution is
// single-word only and keeps word order. At most two synonyms per word
// are used.
var synonyms = map[string][]string{
	"migrate":     {"switch", "move"},
	"migration":   {"switch", "transition"},
	"problem":     {"issue", "trouble"},
	"problems":    {"issues", "troubles"},
	"error":       {"issue", "failure"},
	"alternative": {"replacement", "competitor"},
	"cheap":       {"affordable", "budget"},
	"fast":        {"quick", "performant"},
	"guide":       {"tutorial", "walkthrough"},
	"tool":        {"app", "software"},
	"tools":       {"apps", "software"},
	"best":        {"top", "recommended"},
	"setup":       {"install", "configure"},
	"slow":        {"laggy", "sluggish"},
	"broken":      {"not working", "failing"},
	"help":        {"advice", "support"},
}

// Expand turns one query into at most maxVariants unique variants. The
// original query (lower-cased, trimmed) is always the first element.
// Generation order is preserved so the most literal variants survive
// truncation.
func Expand(q string, maxVariants int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	if maxVariants < 1 {
		maxVariants = 1
	}

	seen := make(map[string]bool)
	var out []string
	add := func(v string) {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}

	add(q)

	for _, tpl := range templates {
		add(fmt.Sprintf(tpl, q))
	}

	for _, v := range synonymVariants(q) {
		add(v)
	}

	for _, v := range rephrase(q) {
		add(v)
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

// synonymVariants produces one variant per (word, synonym) pair, capped at
// two synonyms per word.
func synonymVariants(q string) []string {
	words := strings.Fields(q)
	var out []string
	for i, w := range words {
		subs, ok := synonyms[w]
		if !ok {
			continue
		}
		if len(subs) > 2 {
			subs = subs[:2]
		}
		for _, sub := range subs {
			variant := make([]string, len(words))
			copy(variant, words)
			variant[i] = sub
			out = append(out, strings.Join(variant, " "))
		}
	}
	return out
}

// rephrase applies pattern-specific rewrites for recognized query shapes.
func rephrase(q string) []string {
	words := strings.Fields(q)
	var out []string

	// "migrate X to Y" / "X to Y migration"
	if len(words) >= 3 {
		if words[0] == "migrate" || words[0] == "migrating" {
			rest := strings.Join(words[1:], " ")
			if x, y, ok := splitOn(rest, "to"); ok {
				out = append(out,
					fmt.Sprintf("%s to %s migration", x, y),
					fmt.Sprintf("switching from %s to %s", x, y),
					fmt.Sprintf("%s vs %s", x, y),
				)
			}
		}
	}

	// "X to Y" -> "X vs Y" plus reversed direction
	if x, y, ok := splitOn(q, "to"); ok && x != "" && y != "" {
		out = append(out,
			fmt.Sprintf("%s vs %s", x, y),
			fmt.Sprintf("%s to %s", y, x),
		)
	}

	// "X vs Y" -> "X compared to Y"
	if x, y, ok := splitOn(q, "vs"); ok && x != "" && y != "" {
		out = append(out, fmt.Sprintf("%s compared to %s", x, y))
	}

	// "how to X" -> "X guide" etc.
	if strings.HasPrefix(q, "how to ") {
		x := strings.TrimPrefix(q, "how to ")
		out = append(out,
			x+" guide",
			x+" tutorial",
			x+" steps",
		)
	}

	return out
}

// splitOn splits q around the first standalone occurrence of the given
// word. Returns ok=false if the word does not appear between two non-empty
// sides.
func splitOn(q, word string) (left, right string, ok bool) {
	words := strings.Fields(q)
	for i := 1; i < len(words)-1; i++ {
		if words[i] == word {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " "), true
		}
	}
	return "", "", false
}
