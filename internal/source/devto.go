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

// DevToAPI searches dev.to through the Forem search endpoint used by the
// site's own search page.
type DevToAPI struct {
	client *http.Client
	pacer  *rate.Limiter
}

func NewDevToAPI() *DevToAPI {
	return &DevToAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
	}
}

func (a *DevToAPI) Name() string           { return "devto/native-api" }
func (a *DevToAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *DevToAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
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
		q.Set("search_fields", variant)
		q.Set("per_page", fmt.Sprint(perPage))
		q.Set("class_name", "Article")
		searchURL := "https://dev.to/search/feed_content?" + q.Encode()

		var page struct {
			Result []struct {
				Path          string   `json:"path"`
				Title         string   `json:"title"`
				Description   string   `json:"description"`
				TagList       []string `json:"tag_list"`
				Score         int      `json:"public_reactions_count"`
				CommentsCount int      `json:"comments_count"`
				PublishedAt   string   `json:"published_at"`
				User          struct {
					Username string `json:"username"`
				} `json:"user"`
			} `json:"result"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, article := range page.Result {
			if article.Path == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "devto",
				URL:       "https://dev.to" + article.Path,
				Title:     article.Title,
				Snippet:   truncate(article.Description, 300),
				Author:    article.User.Username,
				Tags:      article.TagList,
				Score:     article.Score,
				Comments:  article.CommentsCount,
				Published: parseISOTime(article.PublishedAt),
			})
		}
	}
	return results
}
