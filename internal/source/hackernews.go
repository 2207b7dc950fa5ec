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

// HackerNewsAPI searches Hacker News through the Algolia search API.
type HackerNewsAPI struct {
	client *http.Client
	pacer  *rate.Limiter
}

func NewHackerNewsAPI() *HackerNewsAPI {
	return &HackerNewsAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
	}
}

func (a *HackerNewsAPI) Name() string           { return "hackernews/native-api" }
func (a *HackerNewsAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *HackerNewsAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = 30
	}

	var results []model.RawResult
	for _, variant := range capVariants(variants, nativeVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("query", variant)
		q.Set("tags", "story")
		q.Set("hitsPerPage", fmt.Sprint(perPage))
		if cutoff := hnCreatedAfter(opts.TimeFilter); cutoff > 0 {
			q.Set("numericFilters", fmt.Sprintf("created_at_i>%d", cutoff))
		}
		searchURL := "https://hn.algolia.com/api/v1/search?" + q.Encode()

		var page struct {
			Hits []struct {
				ObjectID    string `json:"objectID"`
				Title       string `json:"title"`
				StoryText   string `json:"story_text"`
				Author      string `json:"author"`
				Points      int    `json:"points"`
				NumComments int    `json:"num_comments"`
				CreatedAtI  int64  `json:"created_at_i"`
			} `json:"hits"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, hit := range page.Hits {
			if hit.ObjectID == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "hackernews",
				URL:       "https://news.ycombinator.com/item?id=" + hit.ObjectID,
				Title:     hit.Title,
				Snippet:   truncate(hit.StoryText, 300),
				Author:    hit.Author,
				Score:     hit.Points,
				Comments:  hit.NumComments,
				Published: time.Unix(hit.CreatedAtI, 0),
			})
		}
	}
	return results
}

// hnCreatedAfter converts a time filter into an Algolia epoch cutoff.
func hnCreatedAfter(tf string) int64 {
	var d time.Duration
	switch tf {
	case "day":
		d = 24 * time.Hour
	case "week":
		d = 7 * 24 * time.Hour
	case "month":
		d = 30 * 24 * time.Hour
	case "year":
		d = 365 * 24 * time.Hour
	default:
		return 0
	}
	return time.Now().Add(-d).Unix()
}
