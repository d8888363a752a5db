package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ObiAU/smartpost/internal/logging"
	"github.com/ObiAU/smartpost/internal/models"
)

// WordPress creates draft posts through the REST API using an application
// password.
type WordPress struct {
	client *http.Client
}

type wpPost struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Excerpt    string `json:"excerpt"`
	Tags       []int  `json:"tags"`
	Categories []int  `json:"categories"`
}

func (w *WordPress) Publish(ctx context.Context, article models.Article, settings models.Settings) (Result, error) {
	if settings.WPURL == "" || settings.WPUser == "" || settings.WPAppPassword == "" {
		return Result{}, fmt.Errorf("wordpress: %w", ErrIncompleteConfig)
	}

	apiURL := strings.TrimSuffix(settings.WPURL, "/") + "/wp-json/wp/v2/posts"
	body, err := json.Marshal(wpPost{
		Title:      article.Post.Headline,
		Content:    RenderHTML(article),
		Status:     "draft",
		Excerpt:    article.Post.MetaDescription,
		Tags:       []int{},
		Categories: []int{},
	})
	if err != nil {
		return Result{}, fmt.Errorf("wordpress: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("wordpress: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(settings.WPUser, settings.WPAppPassword)

	logging.Info("Publishing to WordPress", "url", apiURL)

	resp, err := w.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("wordpress: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return Result{}, fmt.Errorf("WordPress API error: %s", apiErr.Message)
	}

	var created struct {
		ID   int    `json:"id"`
		Link string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Result{}, fmt.Errorf("wordpress: decode response: %w", err)
	}

	logging.Info("Published to WordPress", "link", created.Link)
	return Result{Success: true, Platform: PlatformWordPress, URL: created.Link}, nil
}

var htmlPolicy = bluemonday.UGCPolicy()

// RenderHTML builds the sanitised post body: featured image, italic meta
// description, introduction, sections and conclusion.
func RenderHTML(article models.Article) string {
	post := article.Post
	var sb strings.Builder
	if article.ImageURL != "" {
		fmt.Fprintf(&sb, `<img src="%s" alt="%s">`,
			html.EscapeString(article.ImageURL), html.EscapeString(post.Headline))
	}
	fmt.Fprintf(&sb, "<p><em>%s</em></p>", post.MetaDescription)
	sb.WriteString(post.Content.Introduction)
	for _, s := range post.Content.Sections {
		fmt.Fprintf(&sb, "<h2>%s</h2><p>%s</p>", s.Heading, s.Content)
	}
	fmt.Fprintf(&sb, "<h2>Conclusion</h2><p>%s</p>", post.Content.Conclusion)
	return htmlPolicy.Sanitize(sb.String())
}
