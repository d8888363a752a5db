package cache

import (
	"sync"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

const DefaultTTL = 30 * time.Minute

// TopicCache holds the most recent browse result set. It is a single slot:
// each Set replaces the previous entry.
type TopicCache struct {
	mu         sync.RWMutex
	topics     []models.Topic
	capturedAt time.Time
	ttl        time.Duration
	now        func() time.Time
	hits       int
	misses     int
}

type Option func(*TopicCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TopicCache) {
		c.now = now
	}
}

func New(ttl time.Duration, opts ...Option) *TopicCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &TopicCache{
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached topics, or false when the slot is empty
// or now - capturedAt >= ttl.
func (c *TopicCache) Get() ([]models.Topic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.topics == nil || c.now().Sub(c.capturedAt) >= c.ttl {
		c.misses++
		return nil, false
	}
	c.hits++
	return append([]models.Topic(nil), c.topics...), true
}

func (c *TopicCache) Set(topics []models.Topic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.topics = append(make([]models.Topic, 0, len(topics)), topics...)
	c.capturedAt = c.now()
}

func (c *TopicCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.topics = nil
	c.capturedAt = time.Time{}
}

func (c *TopicCache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]interface{}{
		"topics": len(c.topics),
		"hits":   c.hits,
		"misses": c.misses,
		"ttl":    c.ttl.String(),
	}
	if !c.capturedAt.IsZero() {
		stats["captured_at"] = c.capturedAt.Format(time.RFC3339)
		stats["expired"] = c.now().Sub(c.capturedAt) >= c.ttl
	}
	return stats
}
