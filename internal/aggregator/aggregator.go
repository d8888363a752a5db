// Package aggregator wires the topic, generation, storage and publishing
// components into one running process.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ObiAU/smartpost/internal/ai"
	"github.com/ObiAU/smartpost/internal/cache"
	"github.com/ObiAU/smartpost/internal/config"
	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
	"github.com/ObiAU/smartpost/internal/publish"
	"github.com/ObiAU/smartpost/internal/server"
	"github.com/ObiAU/smartpost/internal/sources"
	"github.com/ObiAU/smartpost/internal/store"
	"github.com/ObiAU/smartpost/internal/telegram"
	"github.com/ObiAU/smartpost/internal/trending"
)

const shutdownTimeout = 5 * time.Second

// Topics is the topic discovery side of the trending service.
type Topics interface {
	GetTrendingTopics(ctx context.Context, query string, forceRefresh bool) []models.Topic
	GetTopicResearch(ctx context.Context, topic models.Topic, depth models.Depth) models.ResearchBundle
}

type Writer interface {
	GenerateBlog(ctx context.Context, topic models.Topic, research models.ResearchBundle, opts models.GenerateOptions, apiKey, model string) models.GeneratedPost
	GenerateImage(ctx context.Context, title, apiKey string) (string, error)
}

type ArticleStore interface {
	SaveArticle(ctx context.Context, post models.GeneratedPost, imageURL string) (models.Article, error)
	GetSettings(ctx context.Context) (models.Settings, error)
}

type Aggregator struct {
	config      *config.Config
	topics      Topics
	writer      Writer
	store       ArticleStore
	closeStore  func() error
	telegramBot *telegram.Bot
	handler     http.Handler
	server      *http.Server
	mu          sync.RWMutex
	running     bool
}

// New builds every component from cfg. The Telegram bot is only created
// when a token is configured.
func New(cfg *config.Config) (*Aggregator, error) {
	topicCache := cache.New(cfg.CacheTTL)
	newsClient := sources.NewNewsAPIClient(cfg.NewsAPIKey)
	service := newTopicService(cfg, newsClient, topicCache)

	generator := ai.NewGenerator(cfg.OpenAIAPIKey, cfg.AIModel, cfg.MaxTokens, cfg.Temperature)

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &Aggregator{
		config:     cfg,
		topics:     service,
		writer:     generator,
		store:      db,
		closeStore: db.Close,
	}

	var poster publish.ChannelPoster
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChat, service)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.telegramBot = bot
		poster = bot
	}

	srv := server.New(server.Deps{
		Trending:       service,
		Writer:         generator,
		Store:          db,
		Publisher:      publish.NewDispatcher(&http.Client{Timeout: 30 * time.Second}, poster),
		CacheStats:     topicCache.Stats,
		NewsConfigured: newsClient.Configured(),
	}, server.DefaultLimits())
	a.handler = srv.Router()

	return a, nil
}

// NewBatch builds only what GenerateBatch needs: the topic service, the
// generator and the store. Unlike New it never contacts Telegram.
func NewBatch(cfg *config.Config) (*Aggregator, error) {
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return &Aggregator{
		config:     cfg,
		topics:     NewTopicService(cfg),
		writer:     ai.NewGenerator(cfg.OpenAIAPIKey, cfg.AIModel, cfg.MaxTokens, cfg.Temperature),
		store:      db,
		closeStore: db.Close,
	}, nil
}

// NewTopicService builds the trending service on its own, for commands that
// only discover or research topics.
func NewTopicService(cfg *config.Config) *trending.Service {
	return newTopicService(cfg, sources.NewNewsAPIClient(cfg.NewsAPIKey), cache.New(cfg.CacheTTL))
}

func newTopicService(cfg *config.Config, newsClient *sources.NewsAPIClient, topicCache *cache.TopicCache) *trending.Service {
	scorer := trending.NewScorer(cfg.NicheKeywords, time.Now)
	return trending.NewService(
		sources.NewNewsFetcher(newsClient, cfg.NicheKeywords, scorer),
		sources.NewFeedFetcher(cfg.FeedURLs, cfg.NicheKeywords, scorer, cfg.FeedTimeout),
		newsClient,
		topicCache,
	)
}

// Run serves the API, warms the topic cache and answers bot commands until
// ctx is done.
func (a *Aggregator) Run(ctx context.Context) error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	errCh := a.startHTTPServer()

	if a.telegramBot != nil {
		go a.telegramBot.Start(ctx)
	}
	if a.config.RefreshInterval > 0 {
		go a.warmCacheLoop(ctx)
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return a.shutdown()
}

func (a *Aggregator) warmCacheLoop(ctx context.Context) {
	ticker := time.NewTicker(a.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.warmCache(ctx)
		}
	}
}

func (a *Aggregator) warmCache(ctx context.Context) {
	topics := a.topics.GetTrendingTopics(ctx, "", true)
	logging.Debug("Warmed topic cache", "count", len(topics))
}

// GenerateBatch researches, writes and saves one article per topic, one
// topic at a time. Image failures are logged and the article is saved
// without one. It stops at the first save error or when ctx is done and
// returns the articles saved so far.
func (a *Aggregator) GenerateBatch(ctx context.Context, topics []models.Topic, opts models.GenerateOptions, withImages bool) ([]models.Article, error) {
	settings, err := a.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	opts = opts.WithDefaults(settings)

	saved := make([]models.Article, 0, len(topics))
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		if err := trending.ValidateTopic(topic); err != nil {
			logging.Warn("Skipping topic", "index", i, "err", err)
			continue
		}

		research := a.topics.GetTopicResearch(ctx, topic, models.DepthStandard)
		post := a.writer.GenerateBlog(ctx, topic, research, opts, settings.OpenAIKey, settings.AIModel)

		var imageURL string
		if withImages {
			imageURL, err = a.writer.GenerateImage(ctx, post.Headline, settings.OpenAIKey)
			if err != nil {
				logging.Warn("Image generation failed", "topic", topic.Title, "err", err)
				imageURL = ""
			}
		}

		article, err := a.store.SaveArticle(ctx, post, imageURL)
		if err != nil {
			return saved, fmt.Errorf("failed to save article for %q: %w", topic.Title, err)
		}
		logging.Info("Generated article", "id", article.ID, "topic", topic.Title, "model", post.Model, "words", post.WordCount)
		saved = append(saved, article)
	}
	return saved, nil
}

func (a *Aggregator) startHTTPServer() <-chan error {
	a.server = &http.Server{
		Addr:              ":" + a.config.ServerPort,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// Running reports whether Run is in progress.
func (a *Aggregator) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// Close releases the store. Run calls it on shutdown.
func (a *Aggregator) Close() error {
	if a.closeStore == nil {
		return nil
	}
	err := a.closeStore()
	a.closeStore = nil
	return err
}

func (a *Aggregator) shutdown() error {
	logging.Info("Shutting down aggregator...")

	var errs []error
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}
	if err := a.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}
