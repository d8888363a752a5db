package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

func TestPrintTopics(t *testing.T) {
	var buf bytes.Buffer
	printTopics(&buf, nil)
	if got := buf.String(); got != "No topics found.\n" {
		t.Errorf("empty output = %q", got)
	}

	buf.Reset()
	printTopics(&buf, []models.Topic{
		{Title: "Hybrid work", TrendScore: 87, Source: "NewsAPI", Category: "remote work", URL: "https://example.com/a", PublishedAt: time.Now()},
		{Title: "Gig economy", TrendScore: 5, Source: "Fallback"},
	})
	out := buf.String()
	for _, want := range []string{" 1. [ 87] Hybrid work", "NewsAPI · remote work", "https://example.com/a", " 2. [  5] Gig economy"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintArticle(t *testing.T) {
	tests := []struct {
		name    string
		article models.Article
		want    []string
		absent  []string
	}{
		{
			name: "generated",
			article: models.Article{ID: "a1", ImageURL: "https://img/x.png", Post: models.GeneratedPost{
				Headline: "Title", WordCount: 1200, ReadingTime: "6 min read", Model: "gpt-4o",
			}},
			want:   []string{"Saved article a1", "Headline: Title", "1200 (6 min read)", "Image:    https://img/x.png"},
			absent: []string{"Note:"},
		},
		{
			name: "fallback",
			article: models.Article{ID: "a2", Post: models.GeneratedPost{
				Headline: "Title", Model: models.FallbackModel, Note: "configure a key",
			}},
			want:   []string{"Note:     configure a key"},
			absent: []string{"Image:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printArticle(&buf, tt.article)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("unexpected %q in:\n%s", a, out)
				}
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "smartpost 1.2.3 (commit: abc, built: today)\n" {
		t.Errorf("version output = %q", got)
	}
}
