package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

// maxMessageRunes stays under Telegram's 4096 character message limit.
const maxMessageRunes = 4000

var ErrNoChat = errors.New("telegram chat is not configured")

// TopicLister supplies the topics for the /trending command.
type TopicLister interface {
	GetTrendingTopics(ctx context.Context, query string, forceRefresh bool) []models.Topic
}

type Bot struct {
	api         *tgbotapi.BotAPI
	defaultChat string
	topics      TopicLister
}

type Option func(*botOptions)

type botOptions struct {
	endpoint string
}

// WithEndpoint points the bot at a different Bot API server. The format is
// tgbotapi's, e.g. "http://host/bot%s/%s".
func WithEndpoint(endpoint string) Option {
	return func(o *botOptions) { o.endpoint = endpoint }
}

// NewBot connects to the Bot API. defaultChat is used when a publish call
// names no chat; topics may be nil when commands are not served.
func NewBot(token, defaultChat string, topics TopicLister, opts ...Option) (*Bot, error) {
	o := botOptions{endpoint: tgbotapi.APIEndpoint}
	for _, opt := range opts {
		opt(&o)
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, o.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Bot{api: api, defaultChat: defaultChat, topics: topics}, nil
}

// Start polls for updates and answers commands until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(ctx, update)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		b.sendMessage(chatID, helpText)
	case strings.HasPrefix(text, "/trending"):
		b.handleTrending(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/trending")))
	default:
		b.sendMessage(chatID, "Unknown command. Use /help for available commands.")
	}
}

const helpText = `SmartPost AI 📰

Commands:
/trending - Top trending topics in your niche
/trending <query> - Search topics for a query
/help - Show this help`

func (b *Bot) handleTrending(ctx context.Context, chatID int64, query string) {
	if b.topics == nil {
		b.sendMessage(chatID, "Trending topics are not available.")
		return
	}
	topics := b.topics.GetTrendingTopics(ctx, query, false)
	b.sendMessage(chatID, FormatTopics(topics, 10))
}

// FormatTopics renders up to limit topics as a numbered list.
func FormatTopics(topics []models.Topic, limit int) string {
	if len(topics) == 0 {
		return "No trending topics found."
	}
	var sb strings.Builder
	sb.WriteString("🔥 Trending topics\n")
	for i, t := range topics[:min(len(topics), limit)] {
		fmt.Fprintf(&sb, "\n%d. %s (%d)\n   %s", i+1, t.Title, t.TrendScore, t.Source)
	}
	return sb.String()
}

// PublishArticle posts the article to chat (or the default chat) and
// returns a t.me link when the chat has a public username.
func (b *Bot) PublishArticle(ctx context.Context, chat string, article models.Article) (string, error) {
	if chat == "" {
		chat = b.defaultChat
	}
	if chat == "" {
		return "", ErrNoChat
	}

	text := truncate(article.Post.FlattenContent(), maxMessageRunes)

	var msg tgbotapi.MessageConfig
	if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(id, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(chat, text)
	}
	msg.DisableWebPagePreview = true

	sent, err := b.api.Send(msg)
	if err != nil {
		return "", fmt.Errorf("failed to send telegram message: %w", err)
	}

	logging.Info("Published to Telegram", "chat", chat, "message", sent.MessageID)
	if sent.Chat != nil && sent.Chat.UserName != "" {
		return fmt.Sprintf("https://t.me/%s/%d", sent.Chat.UserName, sent.MessageID), nil
	}
	return "", nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		logging.Error("Failed to send telegram message", "err", err)
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
