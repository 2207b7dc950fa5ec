package source

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// FeedSearch discovers threads through a platform's RSS/Atom search feed.
// The feed URL template receives one %s, the url-encoded query variant.
// Platforms expose these at varying fidelity; reddit and lobsters serve a
// full search feed, Discourse forums serve per-query RSS as well.
type FeedSearch struct {
	parser   *gofeed.Parser
	pacer    *rate.Limiter
	platform string
	template string
}

func NewFeedSearch(platform, template string) *FeedSearch {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &FeedSearch{
		parser:   parser,
		pacer:    newPacer(),
		platform: platform,
		template: template,
	}
}

func (a *FeedSearch) Name() string           { return a.platform + "/feed" }
func (a *FeedSearch) Source() model.SourceID { return model.SourceFeed }

func (a *FeedSearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	var results []model.RawResult
	for _, variant := range capVariants(variants, feedVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		feedURL := fmt.Sprintf(a.template, url.QueryEscape(variant))

		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		feed, err := a.parser.ParseURLWithContext(feedURL, fetchCtx)
		cancel()
		if err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if item == nil || item.Link == "" {
				continue
			}
			var published time.Time
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			var author string
			if item.Author != nil {
				author = item.Author.Name
			}
			results = append(results, model.RawResult{
				Source:    model.SourceFeed,
				Platform:  a.platform,
				URL:       item.Link,
				Title:     item.Title,
				Snippet:   truncate(stripHTMLTags(item.Description), 300),
				Author:    author,
				Tags:      item.Categories,
				Published: published,
			})
		}
	}
	return results
}
