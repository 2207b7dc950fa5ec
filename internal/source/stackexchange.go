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

// StackExchangeAPI searches Stack Overflow through the Stack Exchange 2.3
// API. Anonymous access works with a low daily quota; an app key raises it.
type StackExchangeAPI struct {
	client *http.Client
	pacer  *rate.Limiter
	appKey string
}

func NewStackExchangeAPI(appKey string) *StackExchangeAPI {
	return &StackExchangeAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
		appKey: appKey,
	}
}

func (a *StackExchangeAPI) Name() string           { return "stackoverflow/native-api" }
func (a *StackExchangeAPI) Source() model.SourceID { return model.SourceNativeAPI }

func (a *StackExchangeAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
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
		q.Set("q", variant)
		q.Set("site", "stackoverflow")
		q.Set("order", "desc")
		q.Set("sort", "relevance")
		q.Set("pagesize", fmt.Sprint(perPage))
		q.Set("filter", "withbody")
		if a.appKey != "" {
			q.Set("key", a.appKey)
		}
		if cutoff := seFromDate(opts.TimeFilter); cutoff > 0 {
			q.Set("fromdate", fmt.Sprint(cutoff))
		}
		searchURL := "https://api.stackexchange.com/2.3/search/advanced?" + q.Encode()

		var page struct {
			Items []struct {
				QuestionID   int64    `json:"question_id"`
				Title        string   `json:"title"`
				Body         string   `json:"body"`
				Link         string   `json:"link"`
				Tags         []string `json:"tags"`
				Score        int      `json:"score"`
				AnswerCount  int      `json:"answer_count"`
				ViewCount    int      `json:"view_count"`
				IsAnswered   bool     `json:"is_answered"`
				CreationDate int64    `json:"creation_date"`
				ClosedDate   int64    `json:"closed_date"`
				Owner        struct {
					DisplayName string `json:"display_name"`
				} `json:"owner"`
			} `json:"items"`
		}

		if err := getJSON(ctx, a.client, searchURL, nil, &page); err != nil {
			logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variant, "error", err)
			continue
		}

		for _, item := range page.Items {
			if item.Link == "" {
				continue
			}
			results = append(results, model.RawResult{
				Source:    model.SourceNativeAPI,
				Platform:  "stackoverflow",
				URL:       item.Link,
				Title:     item.Title,
				Snippet:   truncate(stripHTMLTags(item.Body), 300),
				Author:    item.Owner.DisplayName,
				Tags:      item.Tags,
				Score:     item.Score,
				Comments:  item.AnswerCount,
				Views:     item.ViewCount,
				Answered:  item.IsAnswered,
				Closed:    item.ClosedDate > 0,
				Published: time.Unix(item.CreationDate, 0),
			})
		}
	}
	return results
}

func seFromDate(tf string) int64 {
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
