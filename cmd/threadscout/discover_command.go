package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"threadscout/internal/config"
	"threadscout/internal/discover"
	"threadscout/internal/logging"
	"threadscout/internal/model"
)

func newDiscoverCommand(cfg func() *config.Config) *cobra.Command {
	var (
		platformsFlag []string
		limit         int
		timeFilter    string
		sourcesFlag   []string
		brandTerms    []string
		jsonOut       bool
		csvOut        bool
	)

	cmd := &cobra.Command{
		Use:   "discover <query>",
		Short: "Find discussion threads about a topic",
		Long: `Discover expands the query into variants, fans out to every enabled
source for each requested platform, and prints a single merged ranking.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			requestID := uuid.NewString()[:8]

			engine, err := discover.NewEngine(cfg())
			if err != nil {
				return err
			}
			defer engine.Close()

			platforms := platformsFlag
			if len(platforms) == 0 {
				platforms = engine.Platforms()
			}

			opts := discover.Options{
				Limit:      limit,
				TimeFilter: timeFilter,
				BrandTerms: brandTerms,
				Sources:    parseSourceToggles(sourcesFlag),
			}

			logging.Info("discover request", "id", requestID,
				"query", query, "platforms", strings.Join(platforms, ","))

			start := time.Now()
			var results []*discover.Result
			for _, name := range platforms {
				result, err := engine.Discover(cmd.Context(), name, query, opts)
				if err != nil {
					logging.Warn("platform discovery failed", "id", requestID,
						"platform", name, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
					continue
				}
				results = append(results, result)
			}
			if len(results) == 0 {
				return fmt.Errorf("discovery produced no results for any platform")
			}

			logging.Info("discover done", "id", requestID,
				"platforms", len(results), "elapsed", time.Since(start))

			switch {
			case jsonOut:
				return writeJSON(cmd.OutOrStdout(), results)
			case csvOut:
				return writeCSV(cmd.OutOrStdout(), results)
			default:
				printResults(cmd.OutOrStdout(), results, limit)
				return nil
			}
		},
	}

	cmd.Flags().StringSliceVarP(&platformsFlag, "platform", "p", nil,
		"Platforms to search (default: all enabled)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Max results per platform")
	cmd.Flags().StringVarP(&timeFilter, "time", "t", "",
		"Restrict by age: day, week, month, year")
	cmd.Flags().StringSliceVar(&sourcesFlag, "sources", nil,
		"Source kinds to use (native-api, search-bing, search-google, llm-gemini, llm-openai, feed, scrape)")
	cmd.Flags().StringSliceVar(&brandTerms, "exclude-brand", nil,
		"Drop threads already mentioning this term (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Emit CSV")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")

	return cmd
}

// parseSourceToggles turns --sources values into the pipeline's toggle
// map. Nil means "everything configured".
func parseSourceToggles(names []string) map[model.SourceID]bool {
	if len(names) == 0 {
		return nil
	}
	toggles := make(map[model.SourceID]bool, len(names))
	for _, n := range names {
		toggles[model.SourceID(strings.TrimSpace(n))] = true
	}
	return toggles
}
