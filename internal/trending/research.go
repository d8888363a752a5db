package trending

import (
	"context"
	"fmt"
	"strings"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
	"github.com/ObiAU/smartpost/internal/sources"
)

const (
	standardPageSize = 5
	deepPageSize     = 12
	summaryArticles  = 5

	NoResearchSummary = "No additional research available."
)

// GetTopicResearch gathers related articles for topic: a news search first,
// topped up from the feeds when it returns fewer than the page size. It
// never fails; on a total failure the summary is built from the topic.
func (s *Service) GetTopicResearch(ctx context.Context, topic models.Topic, depth models.Depth) (bundle models.ResearchBundle) {
	if depth != models.DepthDeep {
		depth = models.DepthStandard
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Error fetching topic research", "topic", topic.Title, "err", fmt.Sprint(r))
			bundle = fallbackResearch(topic, depth)
		}
	}()

	pageSize := standardPageSize
	if depth == models.DepthDeep {
		pageSize = deepPageSize
	}

	logging.Info("Researching topic", "topic", topic.Title, "depth", depth)

	var articles []models.ArticleRef
	if s.newsSource != nil && s.newsSource.Configured() {
		found, err := s.newsSource.Search(ctx, topic.Title, sources.SortRelevancy, pageSize)
		if err != nil {
			logging.Error("News API research error", "topic", topic.Title, "err", err)
		} else {
			articles = append(articles, found...)
		}
	}

	if len(articles) < pageSize {
		logging.Debug("Supplementing research with RSS feeds", "have", len(articles), "want", pageSize)
		feedTopics := s.feeds.Fetch(ctx, topic.Title, true)
		need := pageSize - len(articles)
		for i := 0; i < len(feedTopics) && i < need; i++ {
			articles = append(articles, topicToArticle(feedTopics[i]))
		}
	}

	unique := dedupArticles(articles)
	return models.ResearchBundle{
		Topic:    topic.Title,
		Depth:    depth,
		Articles: unique,
		Summary:  ResearchSummary(unique),
	}
}

// ResearchSummary formats the first five articles as numbered entries.
func ResearchSummary(articles []models.ArticleRef) string {
	if len(articles) == 0 {
		return NoResearchSummary
	}

	n := min(len(articles), summaryArticles)
	entries := make([]string, 0, n)
	for i, a := range articles[:n] {
		description := a.Description
		if description == "" {
			description = "No description"
		}
		entries = append(entries, fmt.Sprintf("%d. %s\n   %s\n   Source: %s", i+1, a.Title, description, a.Source))
	}
	return strings.Join(entries, "\n\n")
}

func dedupArticles(articles []models.ArticleRef) []models.ArticleRef {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]models.ArticleRef, 0, len(articles))
	for _, a := range articles {
		key := strings.ToLower(a.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
	}
	return unique
}

func topicToArticle(t models.Topic) models.ArticleRef {
	return models.ArticleRef{
		Title:       t.Title,
		Description: t.Description,
		URL:         t.URL,
		Source:      t.Source,
		PublishedAt: t.PublishedAt,
	}
}

func fallbackResearch(topic models.Topic, depth models.Depth) models.ResearchBundle {
	description := topic.Description
	if description == "" {
		description = NoResearchSummary
	}
	return models.ResearchBundle{
		Topic:    topic.Title,
		Depth:    depth,
		Articles: []models.ArticleRef{},
		Summary:  fmt.Sprintf("Research topic: %s\n\n%s", topic.Title, description),
	}
}
