package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
	"github.com/ObiAU/smartpost/internal/publish"
	"github.com/ObiAU/smartpost/internal/store"
	"github.com/ObiAU/smartpost/internal/trending"
)

const serviceName = "SmartPost AI API"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	topics := s.deps.Trending.GetTrendingTopics(r.Context(), query, forceRefresh)
	logging.Info("Returning trending topics", "query", query, "refresh", forceRefresh, "count", len(topics))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(topics),
		"topics":    topics,
		"fetchedAt": s.now().UTC().Format(time.RFC3339),
	})
}

type researchRequest struct {
	Topic models.Topic `json:"topic"`
	Depth string       `json:"depth"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if !decodeTopicRequest(w, r, &req, func() models.Topic { return req.Topic }) {
		return
	}

	research := s.deps.Trending.GetTopicResearch(r.Context(), req.Topic, models.ParseDepth(req.Depth))
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "research": research})
}

type generateRequest struct {
	Topic    models.Topic           `json:"topic"`
	Research *models.ResearchBundle `json:"research"`
	Options  models.GenerateOptions `json:"options"`
}

func (s *Server) handleGenerateBlog(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeTopicRequest(w, r, &req, func() models.Topic { return req.Topic }) {
		return
	}

	settings, err := s.deps.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate blog post", err)
		return
	}

	var research models.ResearchBundle
	if req.Research != nil {
		research = *req.Research
	} else {
		research = s.deps.Trending.GetTopicResearch(r.Context(), req.Topic, models.DepthStandard)
	}

	opts := req.Options.WithDefaults(settings)
	blog := s.deps.Writer.GenerateBlog(r.Context(), req.Topic, research, opts, settings.OpenAIKey, settings.AIModel)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "blog": blog})
}

// decodeTopicRequest decodes the body into dst and rejects requests without
// a topic title.
func decodeTopicRequest(w http.ResponseWriter, r *http.Request, dst any, topic func() models.Topic) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := trending.ValidateTopic(topic()); err != nil {
		writeError(w, http.StatusBadRequest, "Topic is required", nil)
		return false
	}
	return true
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.deps.Store.ListArticles(r.Context())
	if err != nil {
		logging.Error("Failed to list articles", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch articles", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "articles": articles})
}

type saveRequest struct {
	models.GeneratedPost
	ImageURL string `json:"imageUrl"`
}

func (s *Server) handleSaveArticle(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	article, err := s.deps.Store.SaveArticle(r.Context(), req.GeneratedPost, req.ImageURL)
	if err != nil {
		logging.Error("Failed to save article", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save article", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "article": article})
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var update models.ArticleUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	article, err := s.deps.Store.UpdateArticle(r.Context(), chi.URLParam(r, "id"), update)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Article not found", nil)
		return
	}
	if err != nil {
		logging.Error("Failed to update article", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update article", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "article": article})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Store.DeleteArticle(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Article not found", nil)
		return
	}
	if err != nil {
		logging.Error("Failed to delete article", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete article", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// loadArticle fetches the {id} article and writes the error response when
// it cannot.
func (s *Server) loadArticle(w http.ResponseWriter, r *http.Request) (models.Article, models.Settings, bool) {
	article, err := s.deps.Store.GetArticle(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Article not found", nil)
		return models.Article{}, models.Settings{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load article", err)
		return models.Article{}, models.Settings{}, false
	}
	settings, err := s.deps.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return models.Article{}, models.Settings{}, false
	}
	return article, settings, true
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request) {
	article, settings, ok := s.loadArticle(w, r)
	if !ok {
		return
	}

	imageURL, err := s.deps.Writer.GenerateImage(r.Context(), article.Post.Headline, settings.OpenAIKey)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate image", err)
		return
	}

	updated, err := s.deps.Store.UpdateArticle(r.Context(), article.ID, models.ArticleUpdate{ImageURL: &imageURL})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate image", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imageUrl": imageURL, "article": updated})
}

type publishRequest struct {
	Platform string `json:"platform"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	article, settings, ok := s.loadArticle(w, r)
	if !ok {
		return
	}
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := s.deps.Publisher.Publish(r.Context(), req.Platform, article, settings)
	switch {
	case errors.Is(err, publish.ErrUnknownPlatform):
		writeError(w, http.StatusBadRequest, "Invalid platform", nil)
		return
	case errors.Is(err, publish.ErrIncompleteConfig), errors.Is(err, publish.ErrTelegramDisabled):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	case err != nil:
		logging.Error("Publishing failed", "platform", req.Platform, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	if result.Success {
		status := models.StatusPublished
		if _, err := s.deps.Store.UpdateArticle(r.Context(), article.ID, models.ArticleUpdate{Status: &status}); err != nil {
			logging.Error("Failed to mark article published", "id", article.ID, "err", err)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Store.GetSettings(r.Context())
	if err != nil {
		logging.Error("Failed to read settings", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch settings", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update models.Settings
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	settings, err := s.deps.Store.UpdateSettings(r.Context(), update)
	if err != nil {
		logging.Error("Failed to update settings", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update settings", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": settings})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Store.Stats(r.Context())
	if err != nil {
		logging.Error("Failed to compute stats", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch stats", nil)
		return
	}
	resp := map[string]any{"success": true, "stats": stats}
	if s.deps.CacheStats != nil {
		resp["cache"] = s.deps.CacheStats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Configuration validation failed", err)
		return
	}

	openaiValid := s.deps.Writer.ValidateAPIKey(r.Context(), settings.OpenAIKey)
	warnings := []string{}
	if !openaiValid {
		warnings = append(warnings, "OpenAI API key is invalid or not configured")
	}
	if !s.deps.NewsConfigured {
		warnings = append(warnings, "News API key is not configured (fallback topics will be used)")
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"configuration": map[string]bool{
			"openai":  openaiValid,
			"newsApi": s.deps.NewsConfigured,
		},
		"warnings": warnings,
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch models", err)
		return
	}
	ids := s.deps.Writer.AvailableModels(r.Context(), settings.OpenAIKey)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "models": ids})
}
