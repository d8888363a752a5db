// Package server exposes the trending, research, generation, article and
// publishing operations over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
	"github.com/ObiAU/smartpost/internal/publish"
)

type Trending interface {
	GetTrendingTopics(ctx context.Context, query string, forceRefresh bool) []models.Topic
	GetTopicResearch(ctx context.Context, topic models.Topic, depth models.Depth) models.ResearchBundle
}

type Writer interface {
	GenerateBlog(ctx context.Context, topic models.Topic, research models.ResearchBundle, opts models.GenerateOptions, apiKey, model string) models.GeneratedPost
	GenerateImage(ctx context.Context, title, apiKey string) (string, error)
	ValidateAPIKey(ctx context.Context, apiKey string) bool
	AvailableModels(ctx context.Context, apiKey string) []string
}

type Store interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	GetArticle(ctx context.Context, id string) (models.Article, error)
	SaveArticle(ctx context.Context, post models.GeneratedPost, imageURL string) (models.Article, error)
	UpdateArticle(ctx context.Context, id string, update models.ArticleUpdate) (models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, update models.Settings) (models.Settings, error)
	Stats(ctx context.Context) (models.Stats, error)
}

type Publisher interface {
	Publish(ctx context.Context, platform string, article models.Article, settings models.Settings) (publish.Result, error)
}

// Deps are the collaborators behind the API.
type Deps struct {
	Trending   Trending
	Writer     Writer
	Store      Store
	Publisher  Publisher
	CacheStats func() map[string]interface{}

	// NewsConfigured reports whether a news API key is set, for /api/validate.
	NewsConfigured bool
}

// Limits bound request counts per client IP per window. A zero
// request count disables that limit.
type Limits struct {
	APIRequests  int
	APIWindow    time.Duration
	BlogRequests int
	BlogWindow   time.Duration
}

// DefaultLimits allows 100 API requests per 15 minutes and 10 blog
// generations per hour.
func DefaultLimits() Limits {
	return Limits{
		APIRequests:  100,
		APIWindow:    15 * time.Minute,
		BlogRequests: 10,
		BlogWindow:   time.Hour,
	}
}

type Server struct {
	deps   Deps
	limits Limits
	now    func() time.Time
}

func New(deps Deps, limits Limits) *Server {
	return &Server{
		deps:   deps,
		limits: limits,
		now:    time.Now,
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:       []string{"*"},
		AllowedMethods:       []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		MaxAge:               300,
		OptionsSuccessStatus: http.StatusNoContent,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(limitByIP(s.limits.APIRequests, s.limits.APIWindow, "Too many requests from this IP, please try again later."))

		r.Get("/health", s.handleHealth)
		r.Get("/trending", s.handleTrending)
		r.Post("/research", s.handleResearch)
		r.With(limitByIP(s.limits.BlogRequests, s.limits.BlogWindow, "Blog generation limit reached. Please try again later.")).
			Post("/generate-blog", s.handleGenerateBlog)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", s.handleListArticles)
			r.Post("/", s.handleSaveArticle)
			r.Patch("/{id}", s.handleUpdateArticle)
			r.Delete("/{id}", s.handleDeleteArticle)
			r.Post("/{id}/generate-image", s.handleGenerateImage)
			r.Post("/{id}/publish", s.handlePublish)
		})

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Get("/stats", s.handleStats)
		r.Get("/validate", s.handleValidate)
		r.Get("/models", s.handleModels)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// limitByIP answers 429 with a JSON error once a client IP exceeds
// requests in the window.
func limitByIP(requests int, window time.Duration, message string) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, message, nil)
		}),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", "err", err)
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	writeJSON(w, status, resp)
}
