// Package ingest fetches and parses the configured RSS/Atom feeds and turns
// their items into immutable Article values. Feed failures never abort a
// run; each bad feed is logged and skipped.
package ingest

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"headliner/internal/core"
	"headliner/internal/logger"
)

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	MaxItemsPerFeed int
	FetchWorkers    int
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	parser *gofeed.Parser
	opts   Options
}

// NewFetcher creates a fetcher with the given options.
func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.FetchWorkers < 1 {
		opts.FetchWorkers = 1
	}

	parser := gofeed.NewParser()
	if opts.UserAgent != "" {
		parser.UserAgent = opts.UserAgent
	}
	parser.Client = &http.Client{Timeout: opts.Timeout}

	return &Fetcher{parser: parser, opts: opts}
}

// FetchAll downloads every feed on a bounded worker pool and returns the
// combined article batch, deduplicated by URL. Output order follows the
// configured feed order so repeated runs are stable.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string) []core.Article {
	perFeed := make([][]core.Article, len(feedURLs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < f.opts.FetchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				articles, err := f.Fetch(ctx, feedURLs[i])
				if err != nil {
					logger.Warn("Skipping feed after fetch failure", "url", feedURLs[i], "error", err)
					continue
				}
				perFeed[i] = articles
			}
		}()
	}

	for i := range feedURLs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	seenURL := make(map[string]bool)
	seenID := make(map[string]bool)
	var batch []core.Article
	for _, articles := range perFeed {
		for _, a := range articles {
			if a.URL != "" && seenURL[a.URL] {
				continue
			}
			seenURL[a.URL] = true
			// Feed GUIDs are only unique within one feed. A cross-feed
			// collision gets a fresh ID so the batch is uniquely keyed.
			if seenID[a.ID] {
				a.ID = uuid.NewString()
			}
			seenID[a.ID] = true
			batch = append(batch, a)
		}
	}

	logger.Info("Feed ingestion complete", "feeds", len(feedURLs), "articles", len(batch))
	return batch
}

// Fetch downloads and parses a single feed.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]core.Article, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if f.opts.MaxItemsPerFeed > 0 && len(items) > f.opts.MaxItemsPerFeed {
		items = items[:f.opts.MaxItemsPerFeed]
	}

	articles := make([]core.Article, 0, len(items))
	for _, item := range items {
		article, ok := itemToArticle(item)
		if !ok {
			logger.Debug("Skipping feed item without a usable title", "feed", feedURL)
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// itemToArticle converts one feed item. Items without a title are unusable.
func itemToArticle(item *gofeed.Item) (core.Article, bool) {
	headline := strings.TrimSpace(StripHTML(item.Title))
	if headline == "" {
		return core.Article{}, false
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	body := strings.TrimSpace(StripHTML(item.Description))
	if body == "" {
		body = strings.TrimSpace(StripHTML(item.Content))
	}

	id := strings.TrimSpace(item.GUID)
	if id == "" {
		id = uuid.NewString()
	}

	return core.Article{
		ID:           id,
		Headline:     headline,
		SourceDomain: domainOf(item.Link),
		URL:          item.Link,
		PublishedAt:  published,
		Body:         body,
	}, true
}

// StripHTML reduces an HTML fragment to its text content. Plain text passes
// through unchanged apart from whitespace normalization.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return collapseWhitespace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
