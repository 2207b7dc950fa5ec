package exclusion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"
	"threadscout/internal/platform"

	"golang.org/x/sync/errgroup"
)

// Checker performs the stage-two exclusion check: fetch each item's
// conversation page and look for locked/removed signals and disallowed
// brand mentions in the replies themselves.
//
// Invariant: a fetch that fails or times out yields Checked=false, never
// an exclusion. Secondary checks are best-effort; the pipeline must not
// lose items to a flaky conversation endpoint.
type Checker struct {
	client       *http.Client
	batchSize    int
	batchDelay   time.Duration
	fetchTimeout time.Duration
}

// NewChecker builds a checker with the standard pacing profile: batches
// of four, 500ms between batches, 8s per fetch.
func NewChecker() *Checker {
	return &Checker{
		client:       &http.Client{Timeout: 10 * time.Second},
		batchSize:    4,
		batchDelay:   500 * time.Millisecond,
		fetchTimeout: 8 * time.Second,
	}
}

// errMissing marks a conversation page that no longer exists.
var errMissing = errors.New("content missing")

// soft404Re matches page text that platforms serve with a 200 status for
// deleted or vanished content.
var soft404Re = regexp.MustCompile(`(?i)page not found|post not found|this page (?:doesn't|does not) exist|nothing (?:to see )?here|question was removed|no longer available`)

// maxConversationBytes bounds how much of a conversation page is read.
const maxConversationBytes = 1 << 20 // 1 MiB

// Check runs the stage-two check for each item and returns verdicts keyed
// by item ID. Items run in bounded batches with a politeness delay in
// between; ctx cancellation stops scheduling new batches but verdicts for
// completed items are still returned.
func (c *Checker) Check(ctx context.Context, items []model.CanonicalItem, plugin platform.Plugin, brandTerms []string) map[string]model.ExclusionVerdict {
	verdicts := make(map[string]model.ExclusionVerdict, len(items))
	var mu sync.Mutex

	for start := 0; start < len(items); start += c.batchSize {
		if start > 0 {
			select {
			case <-time.After(c.batchDelay):
			case <-ctx.Done():
				return verdicts
			}
		}

		end := start + c.batchSize
		if end > len(items) {
			end = len(items)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			g.Go(func() error {
				verdict := c.checkOne(gctx, item, plugin, brandTerms)
				mu.Lock()
				verdicts[item.ID] = verdict
				mu.Unlock()
				return nil
			})
		}
		g.Wait()
	}
	return verdicts
}

// checkOne fetches one conversation and derives its verdict.
func (c *Checker) checkOne(ctx context.Context, item model.CanonicalItem, plugin platform.Plugin, brandTerms []string) model.ExclusionVerdict {
	convURL := plugin.ConversationURL(item)
	if convURL == "" {
		return model.ExclusionVerdict{}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	body, err := c.fetch(fetchCtx, convURL)
	if errors.Is(err, errMissing) {
		return model.ExclusionVerdict{Missing: true, Checked: true}
	}
	if err != nil {
		logging.Debug("secondary check skipped", "item", item.ID, "url", convURL, "error", err)
		return model.ExclusionVerdict{}
	}

	verdict := model.ExclusionVerdict{Checked: true}
	if soft404Re.MatchString(body) {
		verdict.Missing = true
	}
	for _, pattern := range plugin.ExclusionPatterns() {
		if pattern.MatchString(body) {
			verdict.Locked = true
			break
		}
	}
	if MentionsAny(body, brandTerms) {
		verdict.HasDisallowedMention = true
	}
	return verdict
}

func (c *Checker) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "threadscout/0.3")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return "", errMissing
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxConversationBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

// Apply drops the items whose verdict justifies exclusion. Unchecked
// verdicts and items with no verdict at all are kept.
func Apply(items []model.CanonicalItem, verdicts map[string]model.ExclusionVerdict) []model.CanonicalItem {
	var kept []model.CanonicalItem
	for _, item := range items {
		if v, ok := verdicts[item.ID]; ok && v.Exclude() {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
