package platform

import (
	"fmt"
	"regexp"
	"strings"

	"threadscout/internal/model"
)

// devtoArticleRe matches /{user}/{slug}-{hash}; Forem article slugs end in
// a short base36 hash which distinguishes them from navigation pages.
var devtoArticleRe = regexp.MustCompile(`^/([a-z0-9_]+)/([a-z0-9-]+-[a-z0-9]{3,6})$`)

var devtoDeniedPaths = []string{
	"/t/", "/search", "/enter", "/signout", "/top/", "/latest",
	"/tags", "/about", "/settings", "/dashboard", "/readinglist",
	"/notifications", "/pod", "/videos", "/listings",
}

var devtoExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)comments? (?:are|have been) locked`),
	regexp.MustCompile(`(?i)post (?:was|has been) (?:unpublished|removed)`),
	regexp.MustCompile(`(?i)404.{0,40}page (?:you were looking for|not found)`),
}

// DevTo is the plugin for dev.to (Forem) articles and their comment
// threads.
type DevTo struct{}

func NewDevTo() *DevTo { return &DevTo{} }

func (p *DevTo) Name() string      { return "devto" }
func (p *DevTo) SiteQuery() string { return "site:dev.to" }

func (p *DevTo) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "dev.to") {
		return "", false
	}
	m := devtoArticleRe.FindStringSubmatch(strings.ToLower(cleanPath(u.Path)))
	if m == nil {
		return "", false
	}
	return m[1] + "/" + m[2], true
}

func (p *DevTo) NormalizeURL(rawURL string) (string, bool) {
	id, ok := p.ExtractID(rawURL)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("https://dev.to/%s", id), true
}

func (p *DevTo) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !hostMatches(u.Host, "dev.to") {
		return false
	}
	if pathDenied(u.Path, devtoDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *DevTo) Weights() ScoreWeights {
	w := DefaultWeights()
	w.StageTwoLimit = 20
	return w
}

func (p *DevTo) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.5, 1)
}

func (p *DevTo) ExclusionPatterns() []*regexp.Regexp { return devtoExclusionRes }

func (p *DevTo) ConversationURL(item model.CanonicalItem) string {
	return item.URL
}
