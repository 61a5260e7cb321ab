package handlers

import (
	"context"
	"fmt"
	"time"

	"headliner/internal/aggregate"
	"headliner/internal/authority"
	"headliner/internal/config"
	"headliner/internal/delivery"
	"headliner/internal/engine"
	"headliner/internal/features"
	"headliner/internal/ingest"
	"headliner/internal/llm"
	"headliner/internal/logger"
	"headliner/internal/store"

	"github.com/spf13/cobra"
)

// NewDigestCmd creates the digest command: one full pipeline run.
func NewDigestCmd() *cobra.Command {
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Fetch configured feeds and emit a ranked, deduplicated digest",
		Long: `Run the full pipeline once: fetch every configured RSS feed, drop stale
articles, embed and cluster the survivors, then deliver the ranked digest.

Examples:
  headliner digest
  headliner digest --output digests/today.md
  headliner digest --feeds-file feeds.yaml --webhook $SLACK_WEBHOOK_URL`,
		RunE: digestRunFunc,
	}

	digestCmd.Flags().StringP("output", "o", "", "Also write the digest to this file")
	digestCmd.Flags().String("feeds-file", "", "YAML file listing feed URLs (overrides feeds.urls)")
	digestCmd.Flags().String("webhook", "", "Webhook URL to post the digest to (overrides config)")
	digestCmd.Flags().Bool("quiet", false, "Skip stdout output")

	return digestCmd
}

func digestRunFunc(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	feedURLs := cfg.Feeds.URLs
	if feedsFile, _ := cmd.Flags().GetString("feeds-file"); feedsFile != "" {
		urls, err := ingest.LoadFeedsFile(feedsFile)
		if err != nil {
			return err
		}
		feedURLs = urls
	}
	if len(feedURLs) == 0 {
		return fmt.Errorf("no feeds configured: set feeds.urls or pass --feeds-file")
	}

	deliveryOpts := delivery.Options{
		Stdout:     cfg.Delivery.Stdout,
		File:       cfg.Delivery.File,
		WebhookURL: cfg.Delivery.WebhookURL,
		Timeout:    parseDuration(cfg.Delivery.Timeout, 10*time.Second),
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		deliveryOpts.File = output
	}
	if webhook, _ := cmd.Flags().GetString("webhook"); webhook != "" {
		deliveryOpts.WebhookURL = webhook
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		deliveryOpts.Stdout = false
	}

	return runPipeline(cmd.Context(), cfg, feedURLs, deliveryOpts)
}

// runPipeline executes one batch end to end. It is shared by the digest and
// schedule commands.
func runPipeline(ctx context.Context, cfg *config.Config, feedURLs []string, deliveryOpts delivery.Options) error {
	started := time.Now()

	table, err := buildAuthorityTable(cfg)
	if err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.EmbeddingModel)
	if err != nil {
		return err
	}
	defer client.Close()

	var cache features.EmbeddingCache
	if cfg.Cache.Enabled {
		s, err := store.NewStore(cfg.Cache.Directory)
		if err != nil {
			logger.Warn("Embedding cache unavailable, continuing without it", "error", err)
		} else {
			defer s.Close()
			cache = s
		}
	}

	extractor := features.NewExtractor(client, cache, cfg.Engine.ExtractWorkers)
	eng := engine.New(extractor, table,
		aggregate.DefaultPolicy{SizeBonusCap: cfg.Engine.ClusterSizeBonusCap},
		engine.Params{
			MaxAgeHours:           cfg.Engine.MaxAgeHours,
			SimilarityEps:         cfg.Engine.SimilarityEps,
			MinSamples:            cfg.Engine.MinSamples,
			Metric:                cfg.Engine.Metric,
			AllowMissingTimestamp: cfg.Engine.AllowMissingTimestamp,
		})

	fetcher := ingest.NewFetcher(ingest.Options{
		UserAgent:       cfg.Feeds.UserAgent,
		Timeout:         parseDuration(cfg.Feeds.Timeout, 30*time.Second),
		MaxItemsPerFeed: cfg.Feeds.MaxItemsPerFeed,
		FetchWorkers:    cfg.Feeds.FetchWorkers,
	})

	now := time.Now().UTC()
	articles := fetcher.FetchAll(ctx, feedURLs)

	ranked, err := eng.Run(ctx, articles, now)
	if err != nil {
		return err
	}

	if err := delivery.NewDeliverer(deliveryOpts).Deliver(ranked, now); err != nil {
		return err
	}

	logger.Info("Digest run complete",
		"articles", len(articles),
		"clusters", len(ranked),
		"elapsed", time.Since(started).Round(time.Millisecond).String())
	return nil
}

func buildAuthorityTable(cfg *config.Config) (*authority.Table, error) {
	floor := cfg.Engine.AuthorityDefaultScore
	if cfg.Authority.TableFile != "" {
		return authority.LoadTable(cfg.Authority.TableFile, floor)
	}
	return authority.DefaultTable(floor)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
