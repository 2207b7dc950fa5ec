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

// LobstersAPI searches lobste.rs through its JSON search endpoint.
type LobstersAPI struct {
	client *http.Client
	pacer  *rate.Limiter
}

func NewLobstersAPI() *LobstersAPI {
	return &LobstersAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
	}
}

func (a *LobstersAPI) Name() string           { return "lobsters/native-api" }
func (a *LobstersAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *LobstersAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	var results []model.RawResult
	for _, variant := range capVariants(variants, nativeVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		q := url.Values{}
		q.Set("q", variant)
		q.Set("what", "stories")
		q.Set("order", "relevance")
		searchURL := "https://lobste.rs/search.json?" + q.Encode()

		var stories []struct {
			ShortIDURL    string   `json:"short_id_url"`
			Title         string   `json:"title"`
			Description   string   `json:"description_plain"`
			Tags          []string `json:"tags"`
			Score         int      `json:"score"`
			CommentCount  int      `json:"comment_count"`
			CreatedAt     string   `json:"created_at"`
			SubmitterUser string   `json:"submitter_user"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &stories); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, story := range stories {
			if story.ShortIDURL == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "lobsters",
				URL:       story.ShortIDURL,
				Title:     story.Title,
				Snippet:   truncate(story.Description, 300),
				Author:    story.SubmitterUser,
				Tags:      story.Tags,
				Score:     story.Score,
				Comments:  story.CommentCount,
				Published: parseISOTime(story.CreatedAt),
			})
		}
	}
	return results
}
