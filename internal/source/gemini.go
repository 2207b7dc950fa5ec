package source

import (
	"context"
	"fmt"
	"sync"

	"threadscout/internal/logging"
	"threadscout/internal/model"

	"google.golang.org/genai"
)

// GeminiSearch finds platform threads by asking Gemini with its Google
// Search grounding tool enabled. URLs come from both the grounding
// metadata and the generated text. Only the first query variant is used;
// grounded generation is too expensive to fan out across variants.
type GeminiSearch struct {
	apiKey   string
	model    string
	platform string
	host     string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiSearch creates a Gemini-grounded discovery adapter scoped to one
// platform. host is a domain fragment used to prefilter extracted URLs;
// empty means accept any host.
func NewGeminiSearch(apiKey, modelName, platform, host string) *GeminiSearch {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &GeminiSearch{
		apiKey:   apiKey,
		model:    modelName,
		platform: platform,
		host:     host,
	}
}

func (a *GeminiSearch) Name() string           { return a.platform + "/llm-gemini" }
func (a *GeminiSearch) Source() model.SourceID { return model.SourceGemini }

func (a *GeminiSearch) ensureClient(ctx context.Context) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	a.client = client
	return client, nil
}

func (a *GeminiSearch) Fetch(ctx context.Context, variants []string, opts Options) []model.RawResult {
	if a.apiKey == "" || len(variants) == 0 {
		return nil
	}

	client, err := a.ensureClient(ctx)
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "error", err)
		return nil
	}

	prompt := fmt.Sprintf(
		"Find public discussion threads on %s about: %q. "+
			"List the direct thread URLs, one per line, each followed by the thread title.",
		a.platform, variants[0])
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := client.Models.GenerateContent(ctx, a.model,
		genai.Text(prompt), config)
	if err != nil {
		logging.Warn("adapter fetch failed", "adapter", a.Name(), "variant", variants[0], "error", err)
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
			Source:   model.SourceGemini,
			Platform: a.platform,
			URL:      rawURL,
			Title:    title,
		})
	}

	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		if gm := cand.GroundingMetadata; gm != nil {
			for _, chunk := range gm.GroundingChunks {
				if chunk != nil && chunk.Web != nil {
					add(chunk.Web.URI, chunk.Web.Title)
				}
			}
		}
	}
	for _, u := range extractURLs(resp.Text()) {
		add(u, "")
	}

	logging.Debug("gemini discovery done", "adapter", a.Name(), "urls", len(results))
	return results
}
