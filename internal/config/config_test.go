package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEWS_API_KEY", "OPENAI_API_KEY", "AI_MODEL", "MAX_TOKENS", "TEMPERATURE",
		"NICHE_KEYWORDS", "FEED_URLS", "CACHE_TTL", "FEED_TIMEOUT", "SMARTPOST_CONFIG",
	} {
		t.Setenv(key, "")
	}
	// godotenv.Load reads ./.env; run from an empty directory.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AIModel != "gpt-4-turbo-preview" {
		t.Errorf("AIModel = %q", cfg.AIModel)
	}
	if cfg.MaxTokens != 3000 {
		t.Errorf("MaxTokens = %d, want 3000", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Temperature)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
	if cfg.FeedTimeout != 5*time.Second {
		t.Errorf("FeedTimeout = %v, want 5s", cfg.FeedTimeout)
	}
	if len(cfg.NicheKeywords) != 8 {
		t.Errorf("expected 8 default keywords, got %d", len(cfg.NicheKeywords))
	}
	if len(cfg.FeedURLs) != 4 {
		t.Errorf("expected 4 default feeds, got %d", len(cfg.FeedURLs))
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NICHE_KEYWORDS", " payroll, ,gig economy ")
	t.Setenv("MAX_TOKENS", "not-a-number")
	t.Setenv("CACHE_TTL", "10m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.NicheKeywords) != 2 || cfg.NicheKeywords[0] != "payroll" || cfg.NicheKeywords[1] != "gig economy" {
		t.Errorf("NicheKeywords = %v", cfg.NicheKeywords)
	}
	if cfg.MaxTokens != 3000 {
		t.Errorf("invalid MAX_TOKENS should fall back to default, got %d", cfg.MaxTokens)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "smartpost.yaml")
	content := "niche_keywords:\n  - payroll\n  - onboarding\nfeed_urls:\n  - https://example.com/feed\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SMARTPOST_CONFIG", path)
	t.Setenv("FEED_URLS", "https://override.example.com/rss")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.NicheKeywords) != 2 || cfg.NicheKeywords[1] != "onboarding" {
		t.Errorf("NicheKeywords = %v", cfg.NicheKeywords)
	}
	if len(cfg.FeedURLs) != 1 || cfg.FeedURLs[0] != "https://override.example.com/rss" {
		t.Errorf("env should win over file, FeedURLs = %v", cfg.FeedURLs)
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("niche_keywords: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SMARTPOST_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("a, b,,  c ")
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("SplitList = %v", got)
	}
	if len(SplitList("")) != 0 {
		t.Error("expected empty list")
	}
}
