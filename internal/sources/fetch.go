package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

const (
	CategorySearch = "Search"
	CategoryRSS    = "RSS Feed"

	browseKeywordLimit = 3
	browsePageSize     = 5
	searchPageSize     = 15
	browseItemLimit    = 5
	searchItemLimit    = 10

	SortPublishedAt = "publishedAt"
	SortRelevancy   = "relevancy"

	userAgent = "SmartPost-AI/1.0"

	defaultFeedTimeout = 5 * time.Second
)

// Scorer assigns a trend score to a freshly fetched item.
type Scorer interface {
	Score(title, description string, publishedAt time.Time, isSearch bool) int
}

// fetchResult is the outcome of one request. err is only ever logged;
// it never crosses the fetcher boundary.
type fetchResult struct {
	topics []models.Topic
	err    error
}

// NewsFetcher turns keyword searches against a NewsSource into scored topics.
type NewsFetcher struct {
	source   models.NewsSource
	keywords []string
	scorer   Scorer
}

func NewNewsFetcher(source models.NewsSource, keywords []string, scorer Scorer) *NewsFetcher {
	return &NewsFetcher{source: source, keywords: keywords, scorer: scorer}
}

// Fetch runs one query in search mode, or one per leading niche keyword in
// browse mode, concurrently. Failed queries contribute nothing.
func (f *NewsFetcher) Fetch(ctx context.Context, query string, isSearch bool) []models.Topic {
	if f.source == nil || !f.source.Configured() {
		logging.Warn("News API key not configured")
		return nil
	}

	queries := []string{query}
	if !isSearch {
		queries = f.keywords
		if len(queries) > browseKeywordLimit {
			queries = queries[:browseKeywordLimit]
		}
	}

	results := make([]fetchResult, len(queries))
	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			results[i] = f.fetchQuery(ctx, strings.TrimSpace(q), isSearch)
			return nil
		})
	}
	_ = g.Wait()

	var topics []models.Topic
	for i, r := range results {
		if r.err != nil {
			logging.Error("News API error", "source", f.source.GetName(), "query", queries[i], "err", r.err)
			continue
		}
		topics = append(topics, r.topics...)
	}
	return topics
}

func (f *NewsFetcher) fetchQuery(ctx context.Context, query string, isSearch bool) fetchResult {
	sortBy, pageSize, category := SortPublishedAt, browsePageSize, query
	if isSearch {
		sortBy, pageSize, category = SortRelevancy, searchPageSize, CategorySearch
	}

	articles, err := f.source.Search(ctx, query, sortBy, pageSize)
	if err != nil {
		return fetchResult{err: err}
	}

	topics := make([]models.Topic, 0, len(articles))
	for _, a := range articles {
		title := CleanText(a.Title)
		if title == "" {
			continue
		}
		description := CleanText(a.Description)
		topics = append(topics, models.Topic{
			Title:       title,
			Description: description,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Source:      a.Source,
			Category:    category,
			TrendScore:  f.scorer.Score(title, description, a.PublishedAt, isSearch),
		})
	}
	return fetchResult{topics: topics}
}

// FeedFetcher reads the configured RSS/Atom feeds and keeps relevant items.
type FeedFetcher struct {
	urls     []string
	keywords []string
	scorer   Scorer
	client   *http.Client
	timeout  time.Duration
}

// NewFeedFetcher bounds each feed request by timeout; a non-positive
// timeout means defaultFeedTimeout.
func NewFeedFetcher(urls, keywords []string, scorer Scorer, timeout time.Duration) *FeedFetcher {
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	return &FeedFetcher{
		urls:     urls,
		keywords: keywords,
		scorer:   scorer,
		client:   &http.Client{},
		timeout:  timeout,
	}
}

// Fetch reads every feed concurrently, each bounded by the per-feed
// timeout. A feed that fails or times out contributes nothing.
func (f *FeedFetcher) Fetch(ctx context.Context, query string, isSearch bool) []models.Topic {
	results := make([]fetchResult, len(f.urls))
	var g errgroup.Group
	for i, feedURL := range f.urls {
		i, feedURL := i, feedURL
		g.Go(func() error {
			results[i] = f.fetchFeed(ctx, feedURL, query, isSearch)
			return nil
		})
	}
	_ = g.Wait()

	var topics []models.Topic
	for i, r := range results {
		if r.err != nil {
			logging.Error("RSS feed error", "feed", f.urls[i], "err", r.err)
			continue
		}
		topics = append(topics, r.topics...)
	}
	return topics
}

func (f *FeedFetcher) fetchFeed(ctx context.Context, feedURL, query string, isSearch bool) fetchResult {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return fetchResult{err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fetchResult{err: fmt.Errorf("failed to fetch feed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fetchResult{err: fmt.Errorf("HTTP error: %s", resp.Status)}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return fetchResult{err: fmt.Errorf("failed to parse feed: %w", err)}
	}

	limit, category := browseItemLimit, CategoryRSS
	if isSearch {
		limit, category = searchItemLimit, CategorySearch
	}
	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	source := feedURL
	if u, err := url.Parse(feedURL); err == nil && u.Hostname() != "" {
		source = u.Hostname()
	}

	var topics []models.Topic
	for _, item := range items {
		title := CleanText(item.Title)
		description := CleanText(item.Description)
		if title == "" || !f.relevant(title+" "+description, query, isSearch) {
			continue
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		topics = append(topics, models.Topic{
			Title:       title,
			Description: description,
			URL:         item.Link,
			PublishedAt: published,
			Source:      source,
			Category:    category,
			TrendScore:  f.scorer.Score(title, description, published, isSearch),
		})
	}
	return fetchResult{topics: topics}
}

func (f *FeedFetcher) relevant(text, query string, isSearch bool) bool {
	if isSearch {
		return containsFold(text, query)
	}
	for _, kw := range f.keywords {
		if containsFold(text, kw) {
			return true
		}
	}
	return false
}
