package exclusion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadscout/internal/model"
	"threadscout/internal/platform"
)

func TestStageOneDropsFlaggedItems(t *testing.T) {
	items := []model.CanonicalItem{
		{ID: "open"},
		{ID: "locked", Locked: true},
		{ID: "closed", Closed: true},
		{ID: "archived", Archived: true},
	}

	kept := StageOne(items, nil)
	require.Len(t, kept, 1)
	assert.Equal(t, "open", kept[0].ID)
}

func TestStageOneDropsBrandMentions(t *testing.T) {
	items := []model.CanonicalItem{
		{ID: "clean", Title: "Best VPS for small projects"},
		{ID: "title-hit", Title: "Why I stopped using AcmeCloud"},
		{ID: "snippet-hit", Title: "VPS thread", Snippet: "someone suggested acmecloud already"},
	}

	kept := StageOne(items, []string{"AcmeCloud"})
	require.Len(t, kept, 1)
	assert.Equal(t, "clean", kept[0].ID)
}

func TestMentionsAny(t *testing.T) {
	assert.True(t, MentionsAny("we used ACMECLOUD once", []string{"acmecloud"}))
	assert.False(t, MentionsAny("nothing here", []string{"acmecloud"}))
	assert.False(t, MentionsAny("anything", nil))
	assert.False(t, MentionsAny("anything", []string{"", "  "}))
}

// stubPlugin routes conversation fetches at a test server.
type stubPlugin struct {
	platform.Plugin
	convBase string
	patterns []*regexp.Regexp
}

func (s *stubPlugin) ConversationURL(item model.CanonicalItem) string {
	if s.convBase == "" {
		return ""
	}
	return s.convBase + "/" + item.ID
}

func (s *stubPlugin) ExclusionPatterns() []*regexp.Regexp { return s.patterns }

func newStub(base string) *stubPlugin {
	return &stubPlugin{
		Plugin:   platform.NewReddit(),
		convBase: base,
		patterns: []*regexp.Regexp{regexp.MustCompile(`"locked"\s*:\s*true`)},
	}
}

func TestCheckerVerdicts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alive":
			w.Write([]byte(`{"locked": false, "comments": ["all good"]}`))
		case "/locked":
			w.Write([]byte(`{"locked": true}`))
		case "/gone":
			http.NotFound(w, r)
		case "/soft404":
			w.Write([]byte(`<html>Oops, page not found</html>`))
		case "/brand":
			w.Write([]byte(`{"comments": ["just use AcmeCloud, it's great"]}`))
		}
	}))
	defer server.Close()

	items := []model.CanonicalItem{
		{ID: "alive"}, {ID: "locked"}, {ID: "gone"}, {ID: "soft404"}, {ID: "brand"},
	}

	checker := NewChecker()
	verdicts := checker.Check(context.Background(), items, newStub(server.URL), []string{"acmecloud"})
	require.Len(t, verdicts, 5)

	assert.True(t, verdicts["alive"].Checked)
	assert.False(t, verdicts["alive"].Exclude())

	assert.True(t, verdicts["locked"].Locked)
	assert.True(t, verdicts["locked"].Exclude())

	assert.True(t, verdicts["gone"].Missing)
	assert.True(t, verdicts["gone"].Exclude())

	assert.True(t, verdicts["soft404"].Missing)

	assert.True(t, verdicts["brand"].HasDisallowedMention)
	assert.True(t, verdicts["brand"].Exclude())
}

func TestCheckerFailsOpen(t *testing.T) {
	// Server that never responds within the fetch timeout.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	checker := NewChecker()
	checker.fetchTimeout = 50 * time.Millisecond

	verdicts := checker.Check(context.Background(),
		[]model.CanonicalItem{{ID: "slow"}}, newStub(server.URL), nil)

	v, ok := verdicts["slow"]
	require.True(t, ok)
	assert.False(t, v.Checked)
	assert.False(t, v.Exclude(), "unchecked verdict must never exclude")
}

func TestCheckerNoConversationURL(t *testing.T) {
	checker := NewChecker()
	verdicts := checker.Check(context.Background(),
		[]model.CanonicalItem{{ID: "x"}}, newStub(""), nil)
	assert.False(t, verdicts["x"].Checked)
}

func TestApplyKeepsUnchecked(t *testing.T) {
	items := []model.CanonicalItem{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	verdicts := map[string]model.ExclusionVerdict{
		"a": {Locked: true, Checked: true},
		"b": {Locked: true, Checked: false}, // fetch failed, keep
	}

	kept := Apply(items, verdicts)
	require.Len(t, kept, 2)
	assert.Equal(t, "b", kept[0].ID)
	assert.Equal(t, "c", kept[1].ID)
}
