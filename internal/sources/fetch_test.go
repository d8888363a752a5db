package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

type constScorer int

func (s constScorer) Score(string, string, time.Time, bool) int { return int(s) }

type fakeNewsSource struct {
	mu         sync.Mutex
	configured bool
	results    map[string][]models.ArticleRef
	errs       map[string]error
	calls      []string
	sorts      []string
	pageSizes  []int
}

func (f *fakeNewsSource) Search(_ context.Context, query, sortBy string, pageSize int) ([]models.ArticleRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	f.sorts = append(f.sorts, sortBy)
	f.pageSizes = append(f.pageSizes, pageSize)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeNewsSource) Configured() bool { return f.configured }
func (f *fakeNewsSource) GetName() string  { return "fake" }

func TestNewsFetcherBrowseUsesFirstThreeKeywords(t *testing.T) {
	src := &fakeNewsSource{
		configured: true,
		results: map[string][]models.ArticleRef{
			"workforce": {{Title: "Workforce shifts", Source: "Wire"}},
			"staffing":  {{Title: "<b>Staffing</b> &amp; more", Source: "Wire"}},
		},
		errs: map[string]error{"operations": errors.New("boom")},
	}
	f := NewNewsFetcher(src, []string{"workforce", "staffing", "operations", "HR"}, constScorer(42))

	topics := f.Fetch(context.Background(), "", false)

	if len(src.calls) != 3 {
		t.Fatalf("expected 3 keyword queries, got %d: %v", len(src.calls), src.calls)
	}
	for i, s := range src.sorts {
		if s != SortPublishedAt || src.pageSizes[i] != 5 {
			t.Errorf("browse query %d used sort=%s pageSize=%d", i, s, src.pageSizes[i])
		}
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics (failed keyword swallowed), got %d", len(topics))
	}
	if topics[0].Category != "workforce" || topics[1].Category != "staffing" {
		t.Errorf("categories should follow keyword order, got %q, %q", topics[0].Category, topics[1].Category)
	}
	if topics[1].Title != "Staffing & more" {
		t.Errorf("title not cleaned: %q", topics[1].Title)
	}
	if topics[0].TrendScore != 42 {
		t.Errorf("TrendScore = %d, want 42", topics[0].TrendScore)
	}
}

func TestNewsFetcherSearchRunsSingleQuery(t *testing.T) {
	src := &fakeNewsSource{
		configured: true,
		results: map[string][]models.ArticleRef{
			"gig economy": {{Title: "Gig economy grows", Source: "Wire"}, {Title: "  ", Source: "Wire"}},
		},
	}
	f := NewNewsFetcher(src, []string{"workforce"}, constScorer(30))

	topics := f.Fetch(context.Background(), "gig economy", true)

	if len(src.calls) != 1 || src.sorts[0] != SortRelevancy || src.pageSizes[0] != 15 {
		t.Fatalf("unexpected search call: %v %v %v", src.calls, src.sorts, src.pageSizes)
	}
	if len(topics) != 1 || topics[0].Category != CategorySearch {
		t.Fatalf("unexpected topics: %+v", topics)
	}
}

func TestNewsFetcherUnconfigured(t *testing.T) {
	src := &fakeNewsSource{configured: false}
	f := NewNewsFetcher(src, []string{"workforce"}, constScorer(1))
	if got := f.Fetch(context.Background(), "", false); len(got) != 0 {
		t.Errorf("expected no topics, got %d", len(got))
	}
	if len(src.calls) != 0 {
		t.Error("unconfigured source must not be queried")
	}
}

func TestNewsAPIClientSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		q := r.URL.Query()
		if q.Get("q") != "remote work" || q.Get("sortBy") != "relevancy" || q.Get("pageSize") != "12" || q.Get("language") != "en" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok","totalResults":2,"articles":[
			{"source":{"id":null,"name":"HR Dive"},"title":"Remote work is here","description":"desc","url":"https://a.example/1","publishedAt":"2026-10-15T08:00:00Z"},
			{"source":{"name":"Blog"},"title":"Undated","description":"","url":"https://a.example/2","publishedAt":"garbage"}
		]}`)
	}))
	defer server.Close()

	c := NewNewsAPIClient("key", WithBaseURL(server.URL))
	articles, err := c.Search(context.Background(), "remote work", SortRelevancy, 12)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Source != "HR Dive" || articles[0].PublishedAt.IsZero() {
		t.Errorf("unexpected first article: %+v", articles[0])
	}
	if !articles[1].PublishedAt.IsZero() {
		t.Errorf("unparseable date should yield zero time, got %v", articles[1].PublishedAt)
	}
}

func TestNewsAPIClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`)
	}))
	defer server.Close()

	c := NewNewsAPIClient("key", WithBaseURL(server.URL))
	if _, err := c.Search(context.Background(), "x", SortRelevancy, 5); err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Fatalf("expected apiKeyInvalid error, got %v", err)
	}
}

func TestNewsAPIClientWithoutKey(t *testing.T) {
	c := NewNewsAPIClient("  ")
	if c.Configured() {
		t.Fatal("blank key should not count as configured")
	}
	articles, err := c.Search(context.Background(), "x", SortRelevancy, 5)
	if err != nil || articles != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", articles, err)
	}
}

func rssDocument(items ...string) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Test</title>`)
	for _, it := range items {
		sb.WriteString(it)
	}
	sb.WriteString(`</channel></rss>`)
	return sb.String()
}

func rssItem(title, description string) string {
	return fmt.Sprintf(`<item><title>%s</title><description>%s</description><link>https://feed.example/%s</link><pubDate>Wed, 14 Oct 2026 10:00:00 GMT</pubDate></item>`,
		title, description, strings.ReplaceAll(title, " ", "-"))
}

func TestFeedFetcherBrowseFiltersByKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, rssDocument(
			rssItem("Staffing firms hire", "news"),
			rssItem("Cooking tips", "unrelated"),
			rssItem("Quarterly report", "about RECRUITMENT trends"),
			rssItem("Sports", "unrelated"),
			rssItem("Sixth", "unrelated"),
			rssItem("Staffing beyond the limit", "ignored because only five items are evaluated"),
		))
	}))
	defer server.Close()

	f := NewFeedFetcher([]string{server.URL + "/feed"}, []string{"staffing", "recruitment"}, constScorer(10), time.Second)
	topics := f.Fetch(context.Background(), "", false)

	if len(topics) != 2 {
		t.Fatalf("expected 2 relevant topics, got %d: %+v", len(topics), topics)
	}
	if topics[0].Title != "Staffing firms hire" || topics[1].Title != "Quarterly report" {
		t.Errorf("unexpected titles: %q, %q", topics[0].Title, topics[1].Title)
	}
	if topics[0].Category != CategoryRSS {
		t.Errorf("Category = %q", topics[0].Category)
	}
	if topics[0].Source != "127.0.0.1" {
		t.Errorf("Source should be feed hostname, got %q", topics[0].Source)
	}
	if topics[0].PublishedAt.IsZero() {
		t.Error("expected parsed pubDate")
	}
}

func TestFeedFetcherSearchMatchesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(
			rssItem("Gig Economy update", "x"),
			rssItem("Other", "mentions the gig economy"),
			rssItem("Staffing", "no match"),
		))
	}))
	defer server.Close()

	f := NewFeedFetcher([]string{server.URL}, []string{"staffing"}, constScorer(30), time.Second)
	topics := f.Fetch(context.Background(), "gig economy", true)

	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	for _, tp := range topics {
		if tp.Category != CategorySearch {
			t.Errorf("Category = %q, want Search", tp.Category)
		}
	}
}

func TestFeedFetcherIsolatesFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(rssItem("Staffing news", "x")))
	}))
	defer good.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not xml")
	}))
	defer broken.Close()

	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()

	f := NewFeedFetcher(
		[]string{slow.URL, broken.URL, good.URL, missing.URL},
		[]string{"staffing"},
		constScorer(10),
		100*time.Millisecond,
	)

	start := time.Now()
	topics := f.Fetch(context.Background(), "", false)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("per-feed timeout not applied, took %v", elapsed)
	}
	if len(topics) != 1 || topics[0].Title != "Staffing news" {
		t.Fatalf("expected only the healthy feed's topic, got %+v", topics)
	}
}

func TestFeedFetcherNonPositiveTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssDocument(rssItem("Staffing news", "x")))
	}))
	defer server.Close()

	for _, timeout := range []time.Duration{0, -time.Second} {
		f := NewFeedFetcher([]string{server.URL}, []string{"staffing"}, constScorer(10), timeout)
		if f.timeout != defaultFeedTimeout {
			t.Errorf("timeout %v: got %v, want %v", timeout, f.timeout, defaultFeedTimeout)
		}
		if topics := f.Fetch(context.Background(), "", false); len(topics) != 1 {
			t.Errorf("timeout %v: expected 1 topic, got %d", timeout, len(topics))
		}
	}
}
