package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var defaultNicheKeywords = []string{
	"workforce",
	"staffing",
	"operations",
	"business services",
	"HR",
	"recruitment",
	"remote work",
	"BPO",
}

var defaultFeedURLs = []string{
	"https://www.hrdive.com/feeds/news/",
	"https://recruitingdaily.com/feed/",
	"https://learning-tools.shrm.org/rss/topic-feeds/news.xml",
	"https://www.staffingindustry.com/rss/feed/2161",
}

type Config struct {
	NewsAPIKey      string
	OpenAIAPIKey    string
	AIModel         string
	MaxTokens       int
	Temperature     float64
	NicheKeywords   []string
	FeedURLs        []string
	CacheTTL        time.Duration
	FeedTimeout     time.Duration
	RefreshInterval time.Duration
	DatabasePath    string
	ServerPort      string
	TelegramToken   string
	TelegramChat    string
	LogLevel        string
	LogFile         string
}

// fileOverlay is the optional YAML file named by SMARTPOST_CONFIG.
type fileOverlay struct {
	NicheKeywords []string `yaml:"niche_keywords"`
	FeedURLs      []string `yaml:"feed_urls"`
}

// Load reads .env (if present), the environment, and the optional YAML
// overlay. Environment variables win over the overlay.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", "gpt-4-turbo-preview"),
		MaxTokens:       getEnvAsInt("MAX_TOKENS", 3000),
		Temperature:     getEnvAsFloat("TEMPERATURE", 0.7),
		NicheKeywords:   defaultNicheKeywords,
		FeedURLs:        defaultFeedURLs,
		CacheTTL:        getEnvAsDuration("CACHE_TTL", 30*time.Minute),
		FeedTimeout:     getEnvAsDuration("FEED_TIMEOUT", 5*time.Second),
		RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", 0),
		DatabasePath:    getEnv("DATABASE_PATH", "data/smartpost.db"),
		ServerPort:      getEnv("SERVER_PORT", "3000"),
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChat:    getEnv("TELEGRAM_CHAT", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}

	if path := getEnv("SMARTPOST_CONFIG", ""); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if kw := getEnvAsList("NICHE_KEYWORDS"); len(kw) > 0 {
		cfg.NicheKeywords = kw
	}
	if feeds := getEnvAsList("FEED_URLS"); len(feeds) > 0 {
		cfg.FeedURLs = feeds
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if kw := trimAll(overlay.NicheKeywords); len(kw) > 0 {
		c.NicheKeywords = kw
	}
	if feeds := trimAll(overlay.FeedURLs); len(feeds) > 0 {
		c.FeedURLs = feeds
	}
	return nil
}

// SplitList splits a comma separated setting, dropping blanks.
func SplitList(value string) []string {
	return trimAll(strings.Split(value, ","))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	return SplitList(os.Getenv(key))
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
