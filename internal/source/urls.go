package source

import (
	"regexp"
	"strings"
)

// urlRe matches http(s) URLs embedded in free text. Trailing punctuation
// that markdown and prose commonly attach is stripped afterwards.
var urlRe = regexp.MustCompile(`https?://[^\s<>"'()\[\]]+`)

// extractURLs pulls every URL out of a block of model-generated text,
// deduplicated in order of first appearance.
func extractURLs(text string) []string {
	matches := urlRe.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	var urls []string
	for _, m := range matches {
		m = strings.TrimRight(m, ".,;:!?*_")
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// hostContains reports whether the URL plausibly belongs to the given
// domain fragment. Cheap prefilter before full grammar validation later in
// the pipeline.
func hostContains(rawURL, fragment string) bool {
	return fragment == "" || strings.Contains(strings.ToLower(rawURL), strings.ToLower(fragment))
}
