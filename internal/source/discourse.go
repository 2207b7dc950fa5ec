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

// DiscourseAPI searches a set of Discourse forums through each forum's
// /search.json endpoint. Every configured forum host is queried with the
// first variants, so the request budget grows with the forum list rather
// than the variant list.
type DiscourseAPI struct {
	client *http.Client
	pacer  *rate.Limiter
	forums []string
}

func NewDiscourseAPI(forums []string) *DiscourseAPI {
	return &DiscourseAPI{
		client: newClient(10 * time.Second),
		pacer:  newPacer(),
		forums: forums,
	}
}

func (a *DiscourseAPI) Name() string           { return "discourse/native-api" }
func (a *DiscourseAPI) Source() model.SourceID { return model.SourceNativeAPI }

// discourseVariantLimit keeps the cross-forum fan-out bounded.
const discourseVariantLimit = 2

func (a *DiscourseAPI) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	var results []model.RawResult
	for _, forum := range a.forums {
		for _, variant := range capVariants(variants, discourseVariantLimit) {
			if err := a.pacer.Wait(ctx); err != nil {
				return results
			}

			query := variant
			if tf := discourseTimeFilter(opts.TimeFilter); tf != "" {
				query += " after:" + tf
			}
			q := url.Values{}
			q.Set("q", query)
			searchURL := fmt.Sprintf("https://%s/search.json?%s", forum, q.Encode())

			var page struct {
				Topics []struct {
					ID           int64  `json:"id"`
					Title        string `json:"title"`
					Slug         string `json:"slug"`
					PostsCount   int    `json:"posts_count"`
					Views        int    `json:"views"`
					LikeCount    int    `json:"like_count"`
					CreatedAt    string `json:"created_at"`
					LastPostedAt string `json:"last_posted_at"`
					Closed       bool   `json:"closed"`
					Archived     bool   `json:"archived"`
				} `json:"topics"`
				Posts []struct {
					TopicID int64  `json:"topic_id"`
					Blurb   string `json:"blurb"`
				} `json:"posts"`
			}

			if err := getJSON(ctx, a.client, searchURL, nil, &page); err != nil {
				logging.Warn("adapter fetch failed", "adapter", a.Name(), "forum", forum, "variant", variant, "error", err)
				continue
			}

			blurbs := make(map[int64]string, len(page.Posts))
			for _, post := range page.Posts {
				if _, seen := blurbs[post.TopicID]; !seen {
					blurbs[post.TopicID] = post.Blurb
				}
			}

			for _, topic := range page.Topics {
				if topic.ID == 0 {
					continue
				}
				results = append(results, model.RawResult{
					Source:    model.SourceNativeAPI,
					Platform:  "discourse",
					URL:       fmt.Sprintf("https://%s/t/%s/%d", forum, topic.Slug, topic.ID),
					Title:     topic.Title,
					Snippet:   truncate(blurbs[topic.ID], 300),
					Score:     topic.LikeCount,
					Comments:  topic.PostsCount - 1,
					Views:     topic.Views,
					Published: parseISOTime(topic.CreatedAt),
					Updated:   parseISOTime(topic.LastPostedAt),
					Closed:    topic.Closed,
					Archived:  topic.Archived,
				})
			}
		}
	}
	return results
}

func discourseTimeFilter(tf string) string {
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
