package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

// Webhook POSTs the article to an automation endpoint (Zapier, Make, ...).
type Webhook struct {
	client *http.Client
}

type webhookArticle struct {
	models.Article
	FormattedContent string `json:"formattedContent"`
}

type webhookPayload struct {
	Event   string         `json:"event"`
	Source  string         `json:"source"`
	Article webhookArticle `json:"article"`
}

func (w *Webhook) Publish(ctx context.Context, article models.Article, settings models.Settings) (Result, error) {
	if settings.WebhookURL == "" {
		return Result{}, fmt.Errorf("webhook: %w", ErrIncompleteConfig)
	}

	body, err := json.Marshal(webhookPayload{
		Event:  "article.ready",
		Source: sourceName,
		Article: webhookArticle{
			Article:          article,
			FormattedContent: article.Post.FlattenContent(),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Info("Triggering webhook", "url", settings.WebhookURL)

	resp, err := w.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("webhook: request failed: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("webhook failed: status %d", resp.StatusCode)
	}
	return Result{Success: true, Platform: PlatformWebhook}, nil
}
