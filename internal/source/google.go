package source

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"

	"golang.org/x/time/rate"
)

// GoogleSearch finds platform threads through the Google Custom Search JSON
// API, scoped to one platform with a site: operator. The API returns at
// most 10 results per request.
type GoogleSearch struct {
	client    *http.Client
	pacer     *rate.Limiter
	apiKey    string
	engineID  string
	platform  string
	siteQuery string
}

func NewGoogleSearch(apiKey, engineID, platform, siteQuery string) *GoogleSearch {
	return &GoogleSearch{
		client:    newClient(10 * time.Second),
		pacer:     newPacer(),
		apiKey:    apiKey,
		engineID:  engineID,
		platform:  platform,
		siteQuery: siteQuery,
	}
}

func (a *GoogleSearch) Name() string           { return a.platform + "/search-google" }
func (a *GoogleSearch) Source() model.SourceID { return model.SourceGoogle }

func (a *GoogleSearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	if a.apiKey == "" || a.engineID == "" || a.siteQuery == "" {
		return nil
	}

	var results []model.RawResult
	for _, variant := range capVariants(variants, searchVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("key", a.apiKey)
		q.Set("cx", a.engineID)
		q.Set("q", a.siteQuery+" "+variant)
		q.Set("num", "10")
		if dr := googleDateRestrict(opts.TimeFilter); dr != "" {
			q.Set("dateRestrict", dr)
		}
		searchURL := "https://www.googleapis.com/customsearch/v1?" + q.Encode()

		var page struct {
			Items []struct {
				Link    string `json:"link"`
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"items"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, hit := range page.Items {
			if hit.Link == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:   model.SourceGoogle,
				Platform: a.platform,
				URL:      hit.Link,
				Title:    hit.Title,
				Snippet:  truncate(hit.Snippet, 300),
			})
		}
	}
	return results
}

func googleDateRestrict(tf string) string {
	switch tf {
	case "day":
		return "d1"
	case "week":
		return "w1"
	case "month":
		return "m1"
	case "year":
		return "y1"
	default:
		return ""
	}
}
