package trending

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ObiAU/smartpost/internal/cache"
	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

const (
	searchLimit     = 20
	browseLimit     = 15
	minBrowseTopics = 5
)

var ErrMissingTopic = errors.New("topic is required")

// TopicFetcher is implemented by the news and feed fetchers. Fetch never
// fails; a broken source yields an empty slice.
type TopicFetcher interface {
	Fetch(ctx context.Context, query string, isSearch bool) []models.Topic
}

// Service is the entry point the request layer uses for topic discovery and
// research.
type Service struct {
	news       TopicFetcher
	feeds      TopicFetcher
	newsSource models.NewsSource
	cache      *cache.TopicCache
}

func NewService(news, feeds TopicFetcher, newsSource models.NewsSource, topicCache *cache.TopicCache) *Service {
	return &Service{
		news:       news,
		feeds:      feeds,
		newsSource: newsSource,
		cache:      topicCache,
	}
}

// ValidateTopic rejects topics without a title.
func ValidateTopic(topic models.Topic) error {
	if strings.TrimSpace(topic.Title) == "" {
		return ErrMissingTopic
	}
	return nil
}

// GetTrendingTopics returns at most 20 search results or 15 browse topics.
// Browse calls are served from the cache unless forceRefresh is set, and
// always refresh it on success. It never fails: a broken browse round
// degrades to the fallback set, a broken search to an empty list.
func (s *Service) GetTrendingTopics(ctx context.Context, query string, forceRefresh bool) []models.Topic {
	query = strings.TrimSpace(query)
	isSearch := query != ""

	if !isSearch && !forceRefresh {
		if cached, ok := s.cache.Get(); ok {
			logging.Debug("Returning cached trending topics", "count", len(cached))
			return cached
		}
	}

	if isSearch {
		logging.Info("Searching for topics", "query", query)
	} else {
		logging.Info("Fetching topics from multiple sources", "force", forceRefresh)
	}

	topics, err := s.collect(ctx, query, isSearch)
	if err != nil {
		logging.Error("Critical error in trending aggregation", "query", query, "err", err)
		if isSearch {
			return []models.Topic{}
		}
		return FallbackTopics()
	}

	if !isSearch {
		s.cache.Set(topics)
	}
	return topics
}

func (s *Service) collect(ctx context.Context, query string, isSearch bool) ([]models.Topic, error) {
	var newsTopics, feedTopics []models.Topic

	var g errgroup.Group
	g.Go(guard(func() { newsTopics = s.news.Fetch(ctx, query, isSearch) }))
	g.Go(guard(func() { feedTopics = s.feeds.Fetch(ctx, query, isSearch) }))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch round abandoned: %w", err)
	}

	logging.Info("Fetched topics", "news", len(newsTopics), "rss", len(feedTopics))

	all := make([]models.Topic, 0, len(newsTopics)+len(feedTopics))
	all = append(all, newsTopics...)
	all = append(all, feedTopics...)

	if !isSearch && len(all) < minBrowseTopics {
		logging.Info("Low topic count, merging with fallback topics", "count", len(all))
		all = fillWithFallbacks(all)
	}

	limit := browseLimit
	if isSearch {
		limit = searchLimit
	}
	ranked := Rank(all)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// fillWithFallbacks appends just enough non-duplicate fallback topics to
// reach minBrowseTopics.
func fillWithFallbacks(topics []models.Topic) []models.Topic {
	existing := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		existing[models.DedupKey(t.Title)] = struct{}{}
	}

	for _, fb := range FallbackTopics() {
		if len(topics) >= minBrowseTopics {
			break
		}
		key := models.DedupKey(fb.Title)
		if _, dup := existing[key]; dup {
			continue
		}
		existing[key] = struct{}{}
		topics = append(topics, fb)
	}
	return topics
}

// guard turns a panic inside a fan-out goroutine into an error for the group.
func guard(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		fn()
		return nil
	}
}
