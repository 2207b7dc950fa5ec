package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"

	"golang.org/x/time/rate"
)

// BingSearch finds platform threads through the Bing Web Search v7 API,
// scoped to one platform with a site: operator.
type BingSearch struct {
	client    *http.Client
	pacer     *rate.Limiter
	apiKey    string
	platform  string
	siteQuery string
}

func NewBingSearch(apiKey, platform, siteQuery string) *BingSearch {
	return &BingSearch{
		client:    newClient(10 * time.Second),
		pacer:     newPacer(),
		apiKey:    apiKey,
		platform:  platform,
		siteQuery: siteQuery,
	}
}

func (a *BingSearch) Name() string           { return a.platform + "/search-bing" }
func (a *BingSearch) Source() model.SourceID { return model.SourceBing }

func (a *BingSearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	if a.apiKey == "" || a.siteQuery == "" {
		return nil
	}

	perPage := opts.PerPage
	if perPage == 0 {
		perPage = 20
	}
	headers := map[string]string{"Ocp-Apim-Subscription-Key": a.apiKey}

	var results []model.RawResult
	for _, variant := range capVariants(variants, searchVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("q", a.siteQuery+" "+variant)
		q.Set("count", fmt.Sprint(perPage))
		q.Set("responseFilter", "Webpages")
		if fresh := bingFreshness(opts.TimeFilter); fresh != "" {
			q.Set("freshness", fresh)
		}
		searchURL := "https://api.bing.microsoft.com/v7.0/search?" + q.Encode()

		var page struct {
			WebPages struct {
				Value []struct {
					URL             string `json:"url"`
					Name            string `json:"name"`
					Snippet         string `json:"snippet"`
					DateLastCrawled string `json:"dateLastCrawled"`
				} `json:"value"`
			} `json:"webPages"`
		}

		if err := getJSON(ctx, a.client, searchURL, headers, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, hit := range page.WebPages.Value {
			if hit.URL == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:   model.SourceBing,
				Platform: a.platform,
				URL:      hit.URL,
				Title:    hit.Name,
				Snippet:  truncate(hit.Snippet, 300),
			})
		}
	}
	return results
}

func bingFreshness(tf string) string {
	switch tf {
	case "day":
		return "Day"
	case "week":
		return "Week"
	case "month":
		return "Month"
	default:
		return ""
	}
}
