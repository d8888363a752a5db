package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ObiAU/smartpost/internal/models"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type NewsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

type NewsAPIOption func(*NewsAPIClient)

// WithBaseURL points the client at a different NewsAPI host.
func WithBaseURL(baseURL string) NewsAPIOption {
	return func(c *NewsAPIClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func NewNewsAPIClient(apiKey string, opts ...NewsAPIOption) *NewsAPIClient {
	c := &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// ~4 req/s, burst of 4.
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NewsAPIClient) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Search queries the /everything endpoint for English articles.
func (c *NewsAPIClient) Search(ctx context.Context, query, sortBy string, pageSize int) ([]models.ArticleRef, error) {
	if !c.Configured() {
		return nil, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("newsapi rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", strings.TrimSpace(query))
	params.Set("language", "en")
	params.Set("sortBy", sortBy)
	params.Set("pageSize", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp NewsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
		}
		return nil, err
	}

	if resp.StatusCode != http.StatusOK || apiResp.Status != "ok" {
		return nil, fmt.Errorf("newsapi error (status %d): %s %s", resp.StatusCode, apiResp.Code, apiResp.Message)
	}

	articles := make([]models.ArticleRef, 0, len(apiResp.Articles))
	for _, apiArticle := range apiResp.Articles {
		if strings.TrimSpace(apiArticle.Title) == "" {
			continue
		}
		articles = append(articles, models.ArticleRef{
			Title:       apiArticle.Title,
			Description: apiArticle.Description,
			URL:         apiArticle.URL,
			Source:      apiArticle.Source.Name,
			PublishedAt: parsePublished(apiArticle.PublishedAt),
		})
	}

	return articles, nil
}

func (c *NewsAPIClient) GetName() string {
	return "newsapi"
}

// parsePublished returns the zero time for missing or unparseable dates.
func parsePublished(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
