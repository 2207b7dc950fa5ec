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

// RedditAPI searches reddit through its public JSON search endpoint. No
// authentication required; the endpoint serves the same listing the web
// search page renders.
type RedditAPI struct {
	client *http.Client
	pacer  *rate.Limiter
}

// NewRedditAPI creates the reddit native adapter.
func NewRedditAPI() *RedditAPI {
	return &RedditAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
	}
}

func (a *RedditAPI) Name() string           { return "reddit/native-api" }
func (a *RedditAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *RedditAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = 25
	}

	var results []model.RawResult
	for _, variant := range capVariants(variants, nativeVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("q", variant)
		q.Set("limit", fmt.Sprint(perPage))
		q.Set("sort", "relevance")
		q.Set("type", "link")
		if tf := redditTimeFilter(opts.TimeFilter); tf != "" {
			q.Set("t", tf)
		}
		searchURL := "https://www.reddit.com/search.json?" + q.Encode()

		var listing struct {
			Data struct {
				Children []struct {
					Data struct {
						Title       string  `json:"title"`
						Selftext    string  `json:"selftext"`
						Permalink   string  `json:"permalink"`
						Subreddit   string  `json:"subreddit"`
						Author      string  `json:"author"`
						Score       int     `json:"score"`
						NumComments int     `json:"num_comments"`
						CreatedUTC  float64 `json:"created_utc"`
						Locked      bool    `json:"locked"`
						Archived    bool    `json:"archived"`
					} `json:"data"`
				} `json:"children"`
			} `json:"data"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &listing); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, child := range listing.Data.Children {
			d := child.Data
			if d.Permalink == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "reddit",
				URL:       "https://www.reddit.com" + d.Permalink,
				Title:     d.Title,
				Snippet:   truncate(d.Selftext, 300),
				Author:    d.Author,
				Tags:      []string{d.Subreddit},
				Score:     d.Score,
				Comments:  d.NumComments,
				Published: time.Unix(int64(d.CreatedUTC), 0),
				Locked:    d.Locked,
				Archived:  d.Archived,
			})
		}
	}
	return results
}

func redditTimeFilter(tf string) string {
	switch tf {
	case "day", "week", "month", "year":
		return tf
	default:
		return ""
	}
}
