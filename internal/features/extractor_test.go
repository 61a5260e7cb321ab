package features

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"headliner/internal/core"
)

// mockEmbedder returns a deterministic vector derived from the text length
// and records every call.
type mockEmbedder struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]bool
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()
	if m.failFor != nil && m.failFor[text] {
		return nil, fmt.Errorf("mock embedding failure")
	}
	return []float64{float64(len(text)), 1}, nil
}

func (m *mockEmbedder) Model() string { return "mock-model" }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockCache is an in-memory EmbeddingCache.
type mockCache struct {
	mu   sync.Mutex
	data map[string][]float64
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]float64)}
}

func (c *mockCache) GetEmbedding(text, model string) ([]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[model+"|"+text]
	return v, ok
}

func (c *mockCache) PutEmbedding(text, model string, vector []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[model+"|"+text] = vector
	return nil
}

func testArticle(id, headline string) core.Article {
	return core.Article{
		ID:           id,
		Headline:     headline,
		SourceDomain: "example.com",
		URL:          "https://example.com/" + id,
		PublishedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestExtractProducesBundle(t *testing.T) {
	extractor := NewExtractor(&mockEmbedder{}, nil, 1)

	article := testArticle("a1", "NASA confirms successful lunar landing")
	bundle, err := extractor.Extract(context.Background(), article)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if bundle.ArticleID != "a1" {
		t.Errorf("expected article ID a1, got %s", bundle.ArticleID)
	}
	if len(bundle.Embedding) == 0 {
		t.Error("expected a non-empty embedding")
	}
	if len(bundle.Entities) == 0 || bundle.Entities[0] != "NASA" {
		t.Errorf("expected NASA entity, got %v", bundle.Entities)
	}
	if bundle.Sentiment <= 0 {
		t.Errorf("expected positive sentiment for successful landing, got %f", bundle.Sentiment)
	}
}

func TestExtractEmptyHeadline(t *testing.T) {
	extractor := NewExtractor(&mockEmbedder{}, nil, 1)

	if _, err := extractor.Extract(context.Background(), testArticle("a1", "")); err == nil {
		t.Error("expected error for empty headline")
	}
}

func TestEmbeddingTextJoinsAndTruncates(t *testing.T) {
	article := testArticle("a1", "Headline")
	article.Body = "Body text"

	if got := EmbeddingText(article); got != "Headline\n\nBody text" {
		t.Errorf("unexpected embedding text %q", got)
	}

	article.Body = strings.Repeat("x", 10000)
	if got := EmbeddingText(article); len(got) != maxEmbeddingBytes {
		t.Errorf("expected truncation to %d bytes, got %d", maxEmbeddingBytes, len(got))
	}

	article.Body = ""
	if got := EmbeddingText(article); got != "Headline" {
		t.Errorf("expected bare headline for empty body, got %q", got)
	}
}

func TestEmbeddingTextTruncatesOnRuneBoundary(t *testing.T) {
	// Odd-length headline plus the two-byte separator puts the byte limit
	// in the middle of one of the two-byte runes filling the body.
	article := testArticle("a1", "Headline!")
	article.Body = strings.Repeat("ü", maxEmbeddingBytes)

	got := EmbeddingText(article)
	if len(got) > maxEmbeddingBytes {
		t.Errorf("expected at most %d bytes, got %d", maxEmbeddingBytes, len(got))
	}
	if !utf8.ValidString(got) {
		t.Error("truncated text is not valid UTF-8")
	}
}

func TestExtractUsesCache(t *testing.T) {
	embedder := &mockEmbedder{}
	cache := newMockCache()
	extractor := NewExtractor(embedder, cache, 1)

	article := testArticle("a1", "Reuters reports quarterly results")
	first, err := extractor.Extract(context.Background(), article)
	if err != nil {
		t.Fatalf("first Extract failed: %v", err)
	}
	second, err := extractor.Extract(context.Background(), article)
	if err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}

	if embedder.callCount() != 1 {
		t.Errorf("expected exactly one embedder call, got %d", embedder.callCount())
	}
	if len(first.Embedding) != len(second.Embedding) {
		t.Errorf("cached embedding differs in length")
	}
}

func TestExtractAllSkipsFailures(t *testing.T) {
	embedder := &mockEmbedder{failFor: map[string]bool{"Bad headline": true}}
	extractor := NewExtractor(embedder, nil, 2)

	articles := []core.Article{
		testArticle("a1", "Good headline one"),
		testArticle("a2", "Bad headline"),
		testArticle("a3", "Good headline two"),
	}

	bundles := extractor.ExtractAll(context.Background(), articles)

	if len(bundles) != 2 {
		t.Fatalf("expected 2 bundles, got %d", len(bundles))
	}
	if bundles[0].ArticleID != "a1" || bundles[1].ArticleID != "a3" {
		t.Errorf("expected input order preserved, got %s then %s",
			bundles[0].ArticleID, bundles[1].ArticleID)
	}
}

func TestExtractAllEmptyBatch(t *testing.T) {
	extractor := NewExtractor(&mockEmbedder{}, nil, 4)

	if bundles := extractor.ExtractAll(context.Background(), nil); bundles != nil {
		t.Errorf("expected nil for empty batch, got %v", bundles)
	}
}

func TestExtractAllParallelOrder(t *testing.T) {
	extractor := NewExtractor(&mockEmbedder{}, nil, 8)

	var articles []core.Article
	for i := 0; i < 50; i++ {
		articles = append(articles, testArticle(fmt.Sprintf("a%02d", i), fmt.Sprintf("Headline number %d", i)))
	}

	bundles := extractor.ExtractAll(context.Background(), articles)
	if len(bundles) != 50 {
		t.Fatalf("expected 50 bundles, got %d", len(bundles))
	}
	for i, b := range bundles {
		if b.ArticleID != articles[i].ID {
			t.Fatalf("order not preserved at index %d: got %s", i, b.ArticleID)
		}
	}
}
