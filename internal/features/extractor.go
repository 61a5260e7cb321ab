// Package features converts raw articles into feature bundles: a semantic
// embedding, named entities, and a sentiment polarity. Extraction is pure
// per article, which makes the batch embarrassingly parallel.
package features

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"headliner/internal/core"
	"headliner/internal/logger"
	"headliner/internal/sentiment"
)

// maxEmbeddingBytes bounds the text sent to the embedding model.
const maxEmbeddingBytes = 8000

// Embedder produces fixed-length embedding vectors for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Model() string
}

// EmbeddingCache is consulted before calling the embedder and updated after.
// A nil cache disables caching.
type EmbeddingCache interface {
	GetEmbedding(text, model string) ([]float64, bool)
	PutEmbedding(text, model string, vector []float64) error
}

// Extractor turns articles into feature bundles.
type Extractor struct {
	embedder Embedder
	cache    EmbeddingCache
	analyzer *sentiment.Analyzer
	workers  int
}

// NewExtractor creates an extractor. workers bounds the number of concurrent
// embedding calls during ExtractAll and must be positive.
func NewExtractor(embedder Embedder, cache EmbeddingCache, workers int) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		embedder: embedder,
		cache:    cache,
		analyzer: sentiment.NewAnalyzer(),
		workers:  workers,
	}
}

// EmbeddingText builds the text submitted to the embedding model: headline
// and body joined by a blank line, truncated to the model's input limit.
func EmbeddingText(article core.Article) string {
	text := article.Headline
	if article.Body != "" {
		text = article.Headline + "\n\n" + article.Body
	}
	if len(text) > maxEmbeddingBytes {
		cut := maxEmbeddingBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// Extract produces the feature bundle for a single article. An article with
// an empty headline cannot be embedded and returns an error.
func (e *Extractor) Extract(ctx context.Context, article core.Article) (core.FeatureBundle, error) {
	if article.Headline == "" {
		return core.FeatureBundle{}, fmt.Errorf("article %s has an empty headline", article.ID)
	}

	text := EmbeddingText(article)

	var embedding []float64
	if e.cache != nil {
		if cached, found := e.cache.GetEmbedding(text, e.embedder.Model()); found {
			embedding = cached
		}
	}
	if embedding == nil {
		fresh, err := e.embedder.Embed(ctx, text)
		if err != nil {
			return core.FeatureBundle{}, fmt.Errorf("embedding failed for article %s: %w", article.ID, err)
		}
		embedding = fresh
		if e.cache != nil {
			if err := e.cache.PutEmbedding(text, e.embedder.Model(), embedding); err != nil {
				logger.Warn("Failed to cache embedding", "article_id", article.ID, "error", err)
			}
		}
	}

	return core.FeatureBundle{
		ArticleID: article.ID,
		Embedding: embedding,
		Entities:  ExtractEntities(article.Headline),
		Sentiment: e.analyzer.Analyze(article.Headline),
	}, nil
}

// ExtractAll extracts bundles for a batch on a bounded worker pool. Articles
// whose extraction fails are logged and skipped; they never abort the batch.
// Output order matches input order with failed articles omitted.
func (e *Extractor) ExtractAll(ctx context.Context, articles []core.Article) []core.FeatureBundle {
	if len(articles) == 0 {
		return nil
	}

	results := make([]*core.FeatureBundle, len(articles))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				bundle, err := e.Extract(ctx, articles[i])
				if err != nil {
					logger.Warn("Skipping article after feature extraction failure",
						"article_id", articles[i].ID, "error", err)
					continue
				}
				results[i] = &bundle
			}
		}()
	}

	for i := range articles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	bundles := make([]core.FeatureBundle, 0, len(articles))
	for _, r := range results {
		if r != nil {
			bundles = append(bundles, *r)
		}
	}
	return bundles
}
