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

// GitHubAPI searches GitHub issues and discussions through the REST search
// endpoint. A token is optional but lifts the unauthenticated rate limit of
// 10 search requests per minute.
type GitHubAPI struct {
	client *http.Client
	pacer  *rate.Limiter
	token  string
}

func NewGitHubAPI(token string) *GitHubAPI {
	return &GitHubAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
		token:  token,
	}
}

func (a *GitHubAPI) Name() string           { return "github/native-api" }
func (a *GitHubAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *GitHubAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = 30
	}

	headers := map[string]string{
		"Accept": "application/vnd.github+json",
	}
	if a.token != "" {
		headers["Authorization"] = "Bearer " + a.token
	}

	var results []model.RawResult
	for _, variant := range capVariants(variants, nativeVariantLimit) {
		if err := a.pacer.Wait(ctx); err != nil {
			return results
		}

		query := variant + " is:issue"
		if cutoff := githubCreatedAfter(opts.TimeFilter); cutoff != "" {
			query += " created:>" + cutoff
		}
		q := url.Values{}
		q.Set("q", query)
		q.Set("per_page", fmt.Sprint(perPage))
		searchURL := "https://api.github.com/search/issues?" + q.Encode()

		var page struct {
			Items []struct {
				HTMLURL   string `json:"html_url"`
				Title     string `json:"title"`
				Body      string `json:"body"`
				State     string `json:"state"`
				Locked    bool   `json:"locked"`
				Comments  int    `json:"comments"`
				CreatedAt string `json:"created_at"`
				UpdatedAt string `json:"updated_at"`
				User      struct {
					Login string `json:"login"`
				} `json:"user"`
				Reactions struct {
					TotalCount int `json:"total_count"`
				} `json:"reactions"`
			} `json:"items"`
		}

		if err := getJSON(ctx, a.client, searchURL, headers, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, item := range page.Items {
			if item.HTMLURL == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "github",
				URL:       item.HTMLURL,
				Title:     item.Title,
				Snippet:   truncate(item.Body, 300),
				Author:    item.User.Login,
				Score:     item.Reactions.TotalCount,
				Comments:  item.Comments,
				Published: parseISOTime(item.CreatedAt),
				Updated:   parseISOTime(item.UpdatedAt),
				Locked:    item.Locked,
				Closed:    item.State == "closed",
			})
		}
	}
	return results
}

func githubCreatedAfter(tf string) string {
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
		return ""
	}
	return time.Now().Add(-d).Format("2006-01-02")
}

// parseISOTime parses an RFC 3339 timestamp, returning the zero time on
// failure.
func parseISOTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
