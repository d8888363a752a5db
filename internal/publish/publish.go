// Package publish distributes stored articles to external platforms.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

const (
	PlatformWordPress = "wordpress"
	PlatformWebhook   = "webhook"
	PlatformTelegram  = "telegram"

	sourceName = "SmartPost AI"
)

var (
	ErrUnknownPlatform  = errors.New("unknown publishing platform")
	ErrIncompleteConfig = errors.New("publishing configuration is incomplete, check your settings")
	ErrTelegramDisabled = errors.New("telegram publishing is not configured")
)

type Result struct {
	Success  bool   `json:"success"`
	Platform string `json:"platform"`
	URL      string `json:"url,omitempty"`
}

// Publisher sends one article to one platform using the stored settings.
type Publisher interface {
	Publish(ctx context.Context, article models.Article, settings models.Settings) (Result, error)
}

// ChannelPoster is the Telegram side of publishing.
type ChannelPoster interface {
	PublishArticle(ctx context.Context, chat string, article models.Article) (string, error)
}

type Dispatcher struct {
	publishers map[string]Publisher
}

// NewDispatcher wires the WordPress and webhook publishers, plus Telegram
// when poster is non-nil.
func NewDispatcher(client *http.Client, poster ChannelPoster) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	d := &Dispatcher{publishers: map[string]Publisher{
		PlatformWordPress: &WordPress{client: client},
		PlatformWebhook:   &Webhook{client: client},
	}}
	if poster != nil {
		d.publishers[PlatformTelegram] = &Telegram{poster: poster}
	}
	return d
}

func (d *Dispatcher) Publish(ctx context.Context, platform string, article models.Article, settings models.Settings) (Result, error) {
	p, ok := d.publishers[platform]
	if !ok {
		if platform == PlatformTelegram {
			return Result{}, ErrTelegramDisabled
		}
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return p.Publish(ctx, article, settings)
}

type Telegram struct {
	poster ChannelPoster
}

func (t *Telegram) Publish(ctx context.Context, article models.Article, settings models.Settings) (Result, error) {
	url, err := t.poster.PublishArticle(ctx, settings.TelegramChat, article)
	if err != nil {
		return Result{}, err
	}
	return Result{Success: true, Platform: PlatformTelegram, URL: url}, nil
}
