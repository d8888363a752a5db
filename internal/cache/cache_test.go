package cache

import (
	"testing"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache() (*TopicCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	return New(30*time.Minute, WithClock(clock.Now)), clock
}

func TestGetEmpty(t *testing.T) {
	c, _ := newTestCache()
	if _, ok := c.Get(); ok {
		t.Fatal("empty cache should miss")
	}
}

func TestGetWithinTTL(t *testing.T) {
	c, clock := newTestCache()
	c.Set([]models.Topic{{Title: "A", TrendScore: 50}})

	clock.Advance(29*time.Minute + 59*time.Second)
	got, ok := c.Get()
	if !ok {
		t.Fatal("expected hit within TTL")
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Errorf("unexpected topics: %+v", got)
	}
}

func TestGetExpiresAtTTL(t *testing.T) {
	c, clock := newTestCache()
	c.Set([]models.Topic{{Title: "A"}})

	clock.Advance(30 * time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatal("entry must be expired once now - capturedAt >= ttl")
	}
}

func TestSetReplacesAndResetsTimestamp(t *testing.T) {
	c, clock := newTestCache()
	c.Set([]models.Topic{{Title: "old"}})
	clock.Advance(20 * time.Minute)
	c.Set([]models.Topic{{Title: "new"}})
	clock.Advance(20 * time.Minute)

	got, ok := c.Get()
	if !ok || got[0].Title != "new" {
		t.Fatalf("expected replaced entry, got %+v ok=%v", got, ok)
	}
}

func TestCopiesInAndOut(t *testing.T) {
	c, _ := newTestCache()
	in := []models.Topic{{Title: "A"}}
	c.Set(in)
	in[0].Title = "mutated"

	out, _ := c.Get()
	if out[0].Title != "A" {
		t.Fatal("Set must copy its input")
	}
	out[0].Title = "mutated"
	again, _ := c.Get()
	if again[0].Title != "A" {
		t.Fatal("Get must return a copy")
	}
}

func TestEmptySliceIsCached(t *testing.T) {
	c, _ := newTestCache()
	c.Set([]models.Topic{})
	got, ok := c.Get()
	if !ok || len(got) != 0 {
		t.Fatalf("expected cached empty set, got %v ok=%v", got, ok)
	}
}

func TestClearAndStats(t *testing.T) {
	c, _ := newTestCache()
	c.Set([]models.Topic{{Title: "A"}, {Title: "B"}})
	c.Get()

	stats := c.Stats()
	if stats["topics"] != 2 || stats["hits"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}

	c.Clear()
	if _, ok := c.Get(); ok {
		t.Fatal("cleared cache should miss")
	}
}

func TestDefaultTTL(t *testing.T) {
	c := New(0)
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
