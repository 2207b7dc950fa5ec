package platform

import (
	"fmt"
	"regexp"
	"strings"

	"threadscout/internal/model"
)

// discourseTopicRe matches /t/{slug}/{id} with an optional post number.
var discourseTopicRe = regexp.MustCompile(`^/t/([^/]+)/(\d+)(?:/\d+)?$`)

var discourseDeniedPaths = []string{
	"/u/", "/search", "/tag/", "/tags", "/c/", "/categories",
	"/login", "/signup", "/badges", "/about", "/g/", "/admin",
}

var discourseExclusionRes = []*regexp.Regexp{
	regexp.MustCompile(`"closed"\s*:\s*true`),
	regexp.MustCompile(`"archived"\s*:\s*true`),
	regexp.MustCompile(`(?i)this topic (?:is|has been) (?:closed|archived)`),
	regexp.MustCompile(`(?i)Oops!? That page doesn('|&#39;)t exist`),
}

// Discourse is the plugin for a set of Discourse-powered forums. Unlike
// the single-site platforms the canonical identifier includes the forum
// host, since topic ids are only unique per forum.
type Discourse struct {
	forums map[string]bool
}

// NewDiscourse builds the plugin for the given forum hosts. An empty list
// accepts any host whose path matches the Discourse topic grammar.
func NewDiscourse(forums []string) *Discourse {
	m := make(map[string]bool, len(forums))
	for _, f := range forums {
		m[strings.ToLower(f)] = true
	}
	return &Discourse{forums: m}
}

func (p *Discourse) Name() string { return "discourse" }

// SiteQuery restricts search to the first configured forum when there is
// exactly one; otherwise the adapters search each forum natively.
func (p *Discourse) SiteQuery() string {
	if len(p.forums) == 1 {
		for f := range p.forums {
			return "site:" + f
		}
	}
	return ""
}

func (p *Discourse) hostAllowed(host string) bool {
	if len(p.forums) == 0 {
		return true
	}
	return p.forums[strings.ToLower(host)]
}

func (p *Discourse) ExtractID(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !p.hostAllowed(u.Host) {
		return "", false
	}
	m := discourseTopicRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return strings.ToLower(u.Host) + "/t/" + m[2], true
}

func (p *Discourse) NormalizeURL(rawURL string) (string, bool) {
	u, ok := parseHTTP(rawURL)
	if !ok || !p.hostAllowed(u.Host) {
		return "", false
	}
	m := discourseTopicRe.FindStringSubmatch(cleanPath(u.Path))
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("https://%s/t/%s/%s", strings.ToLower(u.Host), m[1], m[2]), true
}

func (p *Discourse) ValidateURL(rawURL string) bool {
	u, ok := parseHTTP(rawURL)
	if !ok || !p.hostAllowed(u.Host) {
		return false
	}
	if pathDenied(u.Path, discourseDeniedPaths) {
		return false
	}
	_, ok = p.ExtractID(rawURL)
	return ok
}

func (p *Discourse) Weights() ScoreWeights {
	w := DefaultWeights()
	w.DiscussionBonus = 10
	w.StageTwoLimit = 20
	return w
}

func (p *Discourse) RelevanceThreshold(termCount int) int {
	return fractionThreshold(termCount, 0.5, 1)
}

func (p *Discourse) ExclusionPatterns() []*regexp.Regexp { return discourseExclusionRes }

// ConversationURL: every Discourse topic is available as JSON at
// /t/{id}.json, posts included.
func (p *Discourse) ConversationURL(item model.CanonicalItem) string {
	parts := strings.Split(item.ID, "/t/")
	if len(parts) != 2 {
		return item.URL
	}
	return fmt.Sprintf("https://%s/t/%s.json", parts[0], parts[1])
}
