package models

import (
	"strings"
	"time"
)

type GenerateOptions struct {
	Tone   string `json:"tone,omitempty"`
	Length string `json:"length,omitempty"`
	Format string `json:"format,omitempty"`
}

// WithDefaults fills empty options from the stored settings.
func (o GenerateOptions) WithDefaults(settings Settings) GenerateOptions {
	if o.Tone == "" {
		o.Tone = settings.DefaultTone
	}
	if o.Length == "" {
		o.Length = settings.DefaultLength
	}
	if o.Format == "" {
		o.Format = settings.DefaultFormat
	}
	return o
}

type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type PostContent struct {
	Introduction string    `json:"introduction"`
	Sections     []Section `json:"sections"`
	Conclusion   string    `json:"conclusion"`
	KeyTakeaways []string  `json:"keyTakeaways"`
}

type SocialSnippets struct {
	ViralHooks []string `json:"viralHooks,omitempty"`
	LinkedIn   string   `json:"linkedin,omitempty"`
	XThread    []string `json:"xThread,omitempty"`
	Instagram  string   `json:"instagram,omitempty"`
}

type Visuals struct {
	InfographicOutline string   `json:"infographicOutline,omitempty"`
	ImageCaptions      []string `json:"imageCaptions,omitempty"`
}

type SourceRef struct {
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
	Source string `json:"source"`
}

// GeneratedPost is either the model's structured output plus metadata or
// the fixed fallback skeleton. Note is only set on the fallback path.
type GeneratedPost struct {
	Headline          string         `json:"headline"`
	MetaDescription   string         `json:"metaDescription"`
	FocusKeyword      string         `json:"focusKeyword,omitempty"`
	SecondaryKeywords []string       `json:"secondaryKeywords,omitempty"`
	SEOChecklist      []string       `json:"seoChecklist,omitempty"`
	Tags              []string       `json:"tags"`
	SocialSnippets    SocialSnippets `json:"socialSnippets"`
	Visuals           Visuals        `json:"visuals"`
	Newsletter        string         `json:"newsletter,omitempty"`
	Content           PostContent    `json:"content"`
	WordCount         int            `json:"wordCount"`
	ReadingTime       string         `json:"readingTime"`

	Topic       string      `json:"topic"`
	Category    string      `json:"category,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Model       string      `json:"model"`
	Sources     []SourceRef `json:"sources"`
	Note        string      `json:"note,omitempty"`
}

// IsFallback reports whether the post came from the fallback builder.
func (p GeneratedPost) IsFallback() bool {
	return p.Model == FallbackModel
}

const FallbackModel = "fallback"

// FlattenContent renders the post as plain text for webhooks and chat
// messages.
func (p GeneratedPost) FlattenContent() string {
	var sb strings.Builder
	sb.WriteString(p.Headline)
	sb.WriteString("\n\n")
	sb.WriteString(p.MetaDescription)
	sb.WriteString("\n\n")
	sb.WriteString(p.Content.Introduction)
	sb.WriteString("\n\n")
	for _, s := range p.Content.Sections {
		sb.WriteString(s.Heading)
		sb.WriteString("\n")
		sb.WriteString(s.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Conclusion\n")
	sb.WriteString(p.Content.Conclusion)
	return sb.String()
}

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Article is a persisted generated post.
type Article struct {
	ID        string        `json:"id"`
	Status    ArticleStatus `json:"status"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Post      GeneratedPost `json:"post"`
}

// ArticleUpdate carries the optional fields of a partial article update.
type ArticleUpdate struct {
	Status   *ArticleStatus `json:"status,omitempty"`
	ImageURL *string        `json:"imageUrl,omitempty"`
	Post     *GeneratedPost `json:"post,omitempty"`
}

type Settings struct {
	NicheKeywords string `json:"nicheKeywords"`
	DefaultTone   string `json:"defaultTone"`
	DefaultLength string `json:"defaultLength"`
	DefaultFormat string `json:"defaultFormat"`
	AIModel       string `json:"aiModel"`
	OpenAIKey     string `json:"openaiKey,omitempty"`
	WPURL         string `json:"wpUrl"`
	WPUser        string `json:"wpUser"`
	WPAppPassword string `json:"wpAppPassword,omitempty"`
	WebhookURL    string `json:"webhookUrl"`
	TelegramChat  string `json:"telegramChat"`
}

// DefaultSettings returns the values seeded into a fresh store.
func DefaultSettings() Settings {
	return Settings{
		NicheKeywords: "workforce,staffing,operations,business services,HR,recruitment,remote work,BPO",
		DefaultTone:   "professional",
		DefaultLength: "medium",
		DefaultFormat: "blog-post",
		AIModel:       "gpt-4o-mini",
	}
}

// Merge overlays the non-empty fields of update onto s.
func (s Settings) Merge(update Settings) Settings {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&s.NicheKeywords, update.NicheKeywords)
	merge(&s.DefaultTone, update.DefaultTone)
	merge(&s.DefaultLength, update.DefaultLength)
	merge(&s.DefaultFormat, update.DefaultFormat)
	merge(&s.AIModel, update.AIModel)
	merge(&s.OpenAIKey, update.OpenAIKey)
	merge(&s.WPURL, update.WPURL)
	merge(&s.WPUser, update.WPUser)
	merge(&s.WPAppPassword, update.WPAppPassword)
	merge(&s.WebhookURL, update.WebhookURL)
	merge(&s.TelegramChat, update.TelegramChat)
	return s
}

type Stats struct {
	TotalArticles  int `json:"totalArticles"`
	DraftCount     int `json:"draftCount"`
	PublishedCount int `json:"publishedCount"`
	TotalWords     int `json:"totalWords"`
}
