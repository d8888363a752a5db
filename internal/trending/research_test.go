package trending

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ObiAU/smartpost/internal/cache"
	"github.com/ObiAU/smartpost/internal/models"
)

type fakeNews struct {
	configured bool
	articles   []models.ArticleRef
	err        error
	pageSize   int
	query      string
	sortBy     string
	panics     bool
}

func (f *fakeNews) Search(_ context.Context, query, sortBy string, pageSize int) ([]models.ArticleRef, error) {
	if f.panics {
		panic("boom")
	}
	f.query, f.sortBy, f.pageSize = query, sortBy, pageSize
	if f.err != nil {
		return nil, f.err
	}
	if len(f.articles) > pageSize {
		return f.articles[:pageSize], nil
	}
	return f.articles, nil
}

func (f *fakeNews) Configured() bool { return f.configured }
func (f *fakeNews) GetName() string  { return "fake" }

func refs(prefix string, n int) []models.ArticleRef {
	out := make([]models.ArticleRef, n)
	for i := range out {
		out[i] = models.ArticleRef{Title: prefix + " " + string(rune('A'+i)), Description: "d", Source: prefix}
	}
	return out
}

func researchService(news *fakeNews, feeds *fakeFetcher) *Service {
	return NewService(&fakeFetcher{}, feeds, news, cache.New(time.Minute))
}

func TestResearchStandardUsesNewsOnlyWhenEnough(t *testing.T) {
	news := &fakeNews{configured: true, articles: refs("news", 8)}
	feeds := &fakeFetcher{topics: topicsN("rss", 3, 10)}
	svc := researchService(news, feeds)

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "AI in HR"}, models.DepthStandard)

	if news.pageSize != 5 || news.query != "AI in HR" || news.sortBy != "relevancy" {
		t.Errorf("unexpected news query: %q %q %d", news.query, news.sortBy, news.pageSize)
	}
	if feeds.calls != 0 {
		t.Error("feeds should not be consulted when news fills the page")
	}
	if len(got.Articles) != 5 || got.Depth != models.DepthStandard || got.Topic != "AI in HR" {
		t.Errorf("unexpected bundle: %+v", got)
	}
}

func TestResearchDeepTopsUpFromFeeds(t *testing.T) {
	news := &fakeNews{configured: true, articles: refs("news", 4)}
	feeds := &fakeFetcher{topics: topicsN("rss", 20, 10)}
	svc := researchService(news, feeds)

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "Remote work"}, models.DepthDeep)

	if news.pageSize != 12 {
		t.Errorf("deep page size = %d, want 12", news.pageSize)
	}
	if feeds.calls != 1 || !feeds.search[0] || feeds.queries[0] != "Remote work" {
		t.Errorf("feeds should be searched for the topic title: %v %v", feeds.queries, feeds.search)
	}
	if len(got.Articles) != 12 {
		t.Fatalf("expected 12 articles, got %d", len(got.Articles))
	}
	if got.Articles[4].Source != "rss" {
		t.Errorf("feed articles should follow news articles, got %q", got.Articles[4].Source)
	}
}

func TestResearchNewsFailureFallsBackToFeeds(t *testing.T) {
	news := &fakeNews{configured: true, err: errors.New("rate limited")}
	feeds := &fakeFetcher{topics: topicsN("rss", 2, 10)}
	svc := researchService(news, feeds)

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "x"}, models.DepthStandard)
	if len(got.Articles) != 2 {
		t.Fatalf("expected feed articles only, got %d", len(got.Articles))
	}
}

func TestResearchUnconfiguredNews(t *testing.T) {
	news := &fakeNews{configured: false, articles: refs("news", 5)}
	feeds := &fakeFetcher{}
	svc := researchService(news, feeds)

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "x"}, "")
	if news.query != "" {
		t.Error("unconfigured news source must not be queried")
	}
	if got.Depth != models.DepthStandard {
		t.Errorf("Depth = %q, want standard", got.Depth)
	}
	if got.Summary != NoResearchSummary {
		t.Errorf("Summary = %q", got.Summary)
	}
	if got.Articles == nil {
		t.Error("Articles should be an empty list, not nil")
	}
}

func TestResearchDedupesByLowercaseTitle(t *testing.T) {
	news := &fakeNews{configured: true, articles: []models.ArticleRef{
		{Title: "Same Story", Source: "first"},
		{Title: "same story", Source: "second"},
	}}
	feeds := &fakeFetcher{topics: []models.Topic{{Title: "SAME STORY", Source: "rss"}, {Title: "Other", Source: "rss"}}}
	svc := researchService(news, feeds)

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "x"}, models.DepthStandard)
	if len(got.Articles) != 2 {
		t.Fatalf("expected 2 unique articles, got %d: %+v", len(got.Articles), got.Articles)
	}
	if got.Articles[0].Source != "first" || got.Articles[1].Title != "Other" {
		t.Errorf("first occurrence must be kept in order: %+v", got.Articles)
	}
}

func TestResearchTotalFailure(t *testing.T) {
	news := &fakeNews{configured: true, panics: true}
	svc := researchService(news, &fakeFetcher{})

	got := svc.GetTopicResearch(context.Background(), models.Topic{Title: "AI in HR", Description: "Hiring bots"}, models.DepthDeep)
	if len(got.Articles) != 0 {
		t.Errorf("expected no articles, got %d", len(got.Articles))
	}
	if got.Summary != "Research topic: AI in HR\n\nHiring bots" {
		t.Errorf("Summary = %q", got.Summary)
	}

	got = svc.GetTopicResearch(context.Background(), models.Topic{Title: "AI in HR"}, models.DepthStandard)
	if got.Summary != "Research topic: AI in HR\n\n"+NoResearchSummary {
		t.Errorf("Summary = %q", got.Summary)
	}
}

func TestResearchSummary(t *testing.T) {
	articles := []models.ArticleRef{
		{Title: "One", Description: "first", Source: "A"},
		{Title: "Two", Source: "B"},
	}
	want := "1. One\n   first\n   Source: A\n\n2. Two\n   No description\n   Source: B"
	if got := ResearchSummary(articles); got != want {
		t.Errorf("ResearchSummary() = %q, want %q", got, want)
	}

	many := refs("n", 8)
	summary := ResearchSummary(many)
	if strings.Count(summary, "Source: ") != 5 {
		t.Errorf("summary should list only 5 articles: %q", summary)
	}
	if !strings.HasPrefix(summary, "1. n A") || !strings.Contains(summary, "5. n E") {
		t.Errorf("unexpected numbering: %q", summary)
	}

	if ResearchSummary(nil) != NoResearchSummary {
		t.Error("empty research should use the literal placeholder")
	}
}
