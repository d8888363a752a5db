package models

import (
	"context"
	"strings"
	"time"
)

type Topic struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	TrendScore  int       `json:"trendScore"`
}

// dedupKeyLength is the number of runes of the lowercased title that
// identify a topic.
const dedupKeyLength = 50

// DedupKey returns the literal lowercase 50-rune title prefix used to
// collapse duplicate topics and research articles.
func DedupKey(title string) string {
	runes := []rune(strings.ToLower(title))
	if len(runes) > dedupKeyLength {
		runes = runes[:dedupKeyLength]
	}
	return string(runes)
}

type ArticleRef struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt,omitzero"`
}

type Depth string

const (
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// ParseDepth maps anything other than "deep" to the standard depth.
func ParseDepth(s string) Depth {
	if strings.EqualFold(strings.TrimSpace(s), string(DepthDeep)) {
		return DepthDeep
	}
	return DepthStandard
}

type ResearchBundle struct {
	Topic    string       `json:"topic"`
	Depth    Depth        `json:"depth"`
	Articles []ArticleRef `json:"articles"`
	Summary  string       `json:"summary"`
}

// NewsSource is a keyword-searchable news backend.
type NewsSource interface {
	Search(ctx context.Context, query, sortBy string, pageSize int) ([]ArticleRef, error)
	Configured() bool
	GetName() string
}
