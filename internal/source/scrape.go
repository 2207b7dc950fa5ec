package source

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// ScrapeSearch is the keyless last-resort source: it scrapes the
// DuckDuckGo HTML results page scoped to one platform with a site:
// operator. Selectors track the lite HTML endpoint, which has been stable
// for years but can still drift; extraction misses degrade to zero results.
type ScrapeSearch struct {
	client    *http.Client
	pacer     *rate.Limiter
	platform  string
	siteQuery string
}

func NewScrapeSearch(platform, siteQuery string) *ScrapeSearch {
	return &ScrapeSearch{
		client:    newClient(15 * time.Second),
		pacer:     newPacer(),
		platform:  platform,
		siteQuery: siteQuery,
	}
}

func (a *ScrapeSearch) Name() string           { return a.platform + "/scrape" }
func (a *ScrapeSearch) Source() model.SourceID { return model.SourceScrape }

func (a *ScrapeSearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	if a.siteQuery == "" {
		return nil
	}

	var results []model.RawResult
	for _, variant := range capVariants(variants, scrapeVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("q", a.siteQuery+" "+variant)
		searchURL := "https://html.duckduckgo.com/html/?" + q.Encode()

		body, err := getBody(ctx, a.client, searchURL, nil)
		if err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		page, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			logging.Warn("adapter parse failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		page.Find(".result").Each(func(_ int, sel *goquery.Selection) {
			link := sel.Find(".result__a").First()
			href, ok := link.Attr("href")
			if !ok {
				return
			}
			target := decodeDuckDuckGoHref(href)
			if target == "" {
				return
			}
			results = append(results, model.RawResult{
				Source:   model.SourceScrape,
				Platform: a.platform,
				URL:      target,
				Title:    strings.TrimSpace(link.Text()),
				Snippet:  truncate(strings.TrimSpace(sel.Find(".result__snippet").Text()), 300),
			})
		})
	}
	return results
}

// decodeDuckDuckGoHref unwraps the redirect links DuckDuckGo wraps results
// in ("//duckduckgo.com/l/?uddg=<encoded>"). Direct links pass through.
func decodeDuckDuckGoHref(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		if !strings.Contains(href, "duckduckgo.com/l/") {
			return href
		}
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	return ""
}
