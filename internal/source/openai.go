package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"threadscout/internal/logging"
	"threadscout/internal/model"
)

// OpenAISearch finds platform threads by asking an OpenAI web-search model
// for direct URLs. URLs are extracted from the generated text and from any
// url_citation annotations. Only the first query variant is used.
type OpenAISearch struct {
	apiKey   string
	model    string
	platform string
	host     string
	client   *http.Client
}

func NewOpenAISearch(apiKey, modelName, platform, host string) *OpenAISearch {
	if modelName == "" {
		modelName = "gpt-4o-search-preview"
	}
	return &OpenAISearch{
		apiKey:   apiKey,
		model:    modelName,
		platform: platform,
		host:     host,
		client:   newClient(60 * time.Second),
	}
}

func (a *OpenAISearch) Name() string           { return a.platform + "/llm-openai" }
func (a *OpenAISearch) Source() model.SourceID { return model.SourceOpenAI }

func (a *OpenAISearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	if a.apiKey == "" || len(variants) == 0 {
		return nil
	}

	prompt := fmt.Sprintf(
		"Find public discussion threads on %s about: %q. "+
			"List the direct thread URLs, one per line, each followed by the thread title.",
		a.platform, variants[0])

	body := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"web_search_options": map[string]any{},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variants[0], "error", err)
		return nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		logging.Warn("adapter fetch failed", "adapter", a.Name(),
			"status", resp.StatusCode, "body", truncate(string(respBody), 200))
		return nil
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content     string `json:"content"`
				Annotations []struct {
					Type        string `json:"type"`
					URLCitation struct {
						URL   string `json:"url"`
						Title string `json:"title"`
					} `json:"url_citation"`
				} `json:"annotations"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	var results []model.RawResult
	add := func(rawURL, title string) {
		if rawURL == "" || !hostContains(rawURL, a.host) {
			return
		}
		if _, dup := seen[rawURL]; dup {
			return
		}
		seen[rawURL] = struct{}{}
		results = append(results, model.RawResult{
			Source:   model.SourceOpenAI,
			Platform: a.platform,
			URL:      rawURL,
			Title:    title,
		})
	}

	for _, choice := range result.Choices {
		for _, ann := range choice.Message.Annotations {
			if ann.Type == "url_citation" {
				add(ann.URLCitation.URL, ann.URLCitation.Title)
			}
		}
		for _, u := range extractURLs(choice.Message.Content) {
			add(u, "")
		}
	}

	logging.Debug("openai discovery done", "adapter", a.Name(), "urls", len(results))
	return results
}
