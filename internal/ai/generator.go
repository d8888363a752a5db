package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
	"github.com/ObiAU/smartpost/internal/retry"
)

const (
	DefaultModel       = "gpt-4-turbo-preview"
	DefaultMaxTokens   = 3000
	DefaultTemperature = 0.7

	maxSources = 5
)

var ErrMissingAPIKey = errors.New("openai API key is missing, configure it in settings")

// Generator turns a topic and its research into a structured post.
type Generator struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64

	newClient ClientFactory
	policy    retry.Policy
	now       func() time.Time
}

type Option func(*Generator)

// WithClientFactory replaces the OpenAI SDK client, mainly for tests.
func WithClientFactory(f ClientFactory) Option {
	return func(g *Generator) { g.newClient = f }
}

// WithSleep replaces the backoff sleep between retries.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Generator) { g.policy.Sleep = sleep }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator. apiKey and model are defaults used when
// a request does not supply its own.
func NewGenerator(apiKey, model string, maxTokens int, temperature float64, opts ...Option) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	g := &Generator{
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		newClient:   func(key string) Client { return NewOpenAIClient(key) },
		now:         time.Now,
		policy: retry.Policy{
			MaxAttempts: retry.DefaultMaxAttempts,
			Retryable:   IsRetryable,
			Backoff:     retry.ExponentialJitter,
			OnRetry: func(attempt int, wait time.Duration, err error) {
				logging.Warn("OpenAI API error, retrying",
					"status", StatusCode(err),
					"wait", wait.Round(time.Millisecond),
					"attempt", fmt.Sprintf("%d/%d", attempt+1, retry.DefaultMaxAttempts))
			},
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateBlog never fails: any error, including a missing key, yields the
// fallback post with a note describing the cause.
func (g *Generator) GenerateBlog(ctx context.Context, topic models.Topic, research models.ResearchBundle, opts models.GenerateOptions, apiKey, model string) models.GeneratedPost {
	post, err := g.generate(ctx, topic, research, opts, apiKey, model)
	if err != nil {
		logging.Error("Error generating blog", "topic", topic.Title, "err", err)
		fallback := FallbackPost(topic, g.now())
		fallback.Note = fmt.Sprintf("AI generation failed: %v", err)
		return fallback
	}
	return post
}

func (g *Generator) generate(ctx context.Context, topic models.Topic, research models.ResearchBundle, opts models.GenerateOptions, apiKey, model string) (models.GeneratedPost, error) {
	key := g.resolveKey(apiKey)
	if key == "" {
		return models.GeneratedPost{}, ErrMissingAPIKey
	}
	if model == "" {
		model = g.model
	}

	logging.Info("Starting blog generation", "topic", topic.Title, "model", model, "length", opts.Length, "tone", opts.Tone)

	req := ChatRequest{
		Model:       model,
		System:      systemPrompt,
		User:        BuildBlogPrompt(topic, research.Summary, opts),
		Temperature: g.temperature,
		MaxTokens:   g.tokenBudget(opts.Length),
		JSONMode:    true,
	}

	client := g.newClient(key)
	content, err := retry.Do(ctx, g.policy, func(ctx context.Context) (string, error) {
		return client.Complete(ctx, req)
	})
	if err != nil {
		return models.GeneratedPost{}, err
	}

	var post models.GeneratedPost
	if err := json.Unmarshal([]byte(content), &post); err != nil {
		return models.GeneratedPost{}, fmt.Errorf("failed to parse openai response: %w", err)
	}

	post.Topic = topic.Title
	post.Category = topic.Category
	post.GeneratedAt = g.now()
	post.Model = model
	post.Sources = sourceRefs(research.Articles)
	post.Note = ""

	logging.Info("Blog generated successfully", "topic", topic.Title, "words", post.WordCount)
	return post, nil
}

// tokenBudget raises the configured base to the minimum a length needs.
func (g *Generator) tokenBudget(length string) int {
	floor := 0
	switch length {
	case "long":
		floor = 4000
	case "medium":
		floor = 3000
	case "short":
		floor = 1500
	}
	return max(g.maxTokens, floor)
}

func (g *Generator) resolveKey(apiKey string) string {
	if strings.TrimSpace(apiKey) != "" {
		return strings.TrimSpace(apiKey)
	}
	return strings.TrimSpace(g.apiKey)
}

func sourceRefs(articles []models.ArticleRef) []models.SourceRef {
	n := min(len(articles), maxSources)
	refs := make([]models.SourceRef, 0, n)
	for _, a := range articles[:n] {
		refs = append(refs, models.SourceRef{Title: a.Title, URL: a.URL, Source: a.Source})
	}
	return refs
}

// GenerateImage returns the URL of a featured image for title. Unlike post
// generation, failures are returned to the caller.
func (g *Generator) GenerateImage(ctx context.Context, title, apiKey string) (string, error) {
	key := g.resolveKey(apiKey)
	if key == "" {
		return "", ErrMissingAPIKey
	}
	logging.Info("Generating image", "topic", title)
	url, err := g.newClient(key).GenerateImage(ctx, imagePrompt(title))
	if err != nil {
		logging.Error("Error generating image", "topic", title, "err", err)
		return "", err
	}
	return url, nil
}

// ValidateAPIKey reports whether the key can list models.
func (g *Generator) ValidateAPIKey(ctx context.Context, apiKey string) bool {
	key := g.resolveKey(apiKey)
	if key == "" {
		return false
	}
	if _, err := g.newClient(key).ListModels(ctx); err != nil {
		logging.Warn("OpenAI API key validation failed", "err", err)
		return false
	}
	return true
}

// AvailableModels lists the chat model ids visible to the key. Errors
// yield an empty list.
func (g *Generator) AvailableModels(ctx context.Context, apiKey string) []string {
	key := g.resolveKey(apiKey)
	if key == "" {
		return []string{}
	}
	ids, err := g.newClient(key).ListModels(ctx)
	if err != nil {
		logging.Error("Error fetching models", "err", err)
		return []string{}
	}
	return filterChatModels(ids)
}
