// Package engine runs one batch through the scoring and clustering
// pipeline: temporal filter, feature extraction, density clustering,
// aggregation, and ranking. Each run is a pure function of the input batch
// and configuration; no state survives between runs.
package engine

import (
	"context"
	"time"

	"headliner/internal/aggregate"
	"headliner/internal/authority"
	"headliner/internal/clustering"
	"headliner/internal/core"
	"headliner/internal/features"
	"headliner/internal/logger"
	"headliner/internal/rank"
)

// Params are the tunable knobs for one run. Validation happens at config
// load; the engine assumes the values are already vetted.
type Params struct {
	MaxAgeHours           int
	SimilarityEps         float64
	MinSamples            int
	Metric                string
	AllowMissingTimestamp bool
}

// Engine converts a raw article batch into ranked clusters.
type Engine struct {
	extractor *features.Extractor
	table     *authority.Table
	policy    aggregate.ScoringPolicy
	params    Params
}

// New assembles an engine from its collaborators.
func New(extractor *features.Extractor, table *authority.Table, policy aggregate.ScoringPolicy, params Params) *Engine {
	return &Engine{
		extractor: extractor,
		table:     table,
		policy:    policy,
		params:    params,
	}
}

// Run processes one batch. Per-article failures are logged and skipped;
// only clustering-parameter errors abort the run. The input slice is read,
// never mutated.
func (e *Engine) Run(ctx context.Context, articles []core.Article, now time.Time) ([]core.RankedCluster, error) {
	surviving := FilterByAge(articles, now, e.params.MaxAgeHours, e.params.AllowMissingTimestamp)
	logger.Info("Temporal filter applied",
		"input", len(articles),
		"surviving", len(surviving),
		"max_age_hours", e.params.MaxAgeHours)

	if len(surviving) == 0 {
		return nil, nil
	}

	bundles := e.extractor.ExtractAll(ctx, surviving)
	if skipped := len(surviving) - len(bundles); skipped > 0 {
		logger.Warn("Articles skipped during feature extraction", "skipped", skipped)
	}
	if len(bundles) == 0 {
		return nil, nil
	}

	partitions, err := clustering.Cluster(bundles, e.params.SimilarityEps, e.params.MinSamples, e.params.Metric)
	if err != nil {
		return nil, err
	}
	logger.Info("Clustering complete",
		"articles", len(bundles),
		"clusters", len(partitions),
		"eps", e.params.SimilarityEps,
		"min_samples", e.params.MinSamples)

	byID := make(map[string]core.Article, len(surviving))
	bundleByID := make(map[string]core.FeatureBundle, len(bundles))
	scores := make(map[string]int, len(bundles))
	for _, b := range bundles {
		bundleByID[b.ArticleID] = b
	}
	for _, a := range surviving {
		if _, extracted := bundleByID[a.ID]; !extracted {
			continue
		}
		byID[a.ID] = a
		scores[a.ID] = e.table.Score(a.SourceDomain)
	}

	clusters := aggregate.Aggregate(partitions, byID, bundleByID, scores, e.policy)
	return rank.Rank(clusters, byID), nil
}
