package trending

import (
	"math"
	"strings"
	"time"
)

const (
	maxScore            = 100
	maxRelevance        = 50
	searchRelevance     = 30
	pointsPerKeyword    = 10
	oldestRecencyPoints = 10
)

// recencyBuckets are checked in order; anything older (or undated) gets
// oldestRecencyPoints.
var recencyBuckets = []struct {
	within time.Duration
	points int
}{
	{24 * time.Hour, 50},
	{48 * time.Hour, 40},
	{72 * time.Hour, 30},
	{168 * time.Hour, 20},
}

// Scorer computes trend scores from recency and niche keyword relevance.
type Scorer struct {
	keywords []string
	now      func() time.Time
}

func NewScorer(keywords []string, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	lower := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lower = append(lower, kw)
		}
	}
	return &Scorer{keywords: lower, now: now}
}

// Score returns an integer in [0, 100]. A zero publishedAt counts as the
// oldest bucket.
func (s *Scorer) Score(title, description string, publishedAt time.Time, isSearch bool) int {
	score := float64(s.recency(publishedAt))

	if isSearch {
		score += searchRelevance
	} else {
		score += float64(s.relevance(title + " " + description))
	}

	return int(math.Max(0, math.Min(maxScore, math.Round(score))))
}

func (s *Scorer) recency(publishedAt time.Time) int {
	if publishedAt.IsZero() {
		return oldestRecencyPoints
	}
	age := s.now().Sub(publishedAt)
	for _, b := range recencyBuckets {
		if age < b.within {
			return b.points
		}
	}
	return oldestRecencyPoints
}

func (s *Scorer) relevance(text string) int {
	text = strings.ToLower(text)
	matches := 0
	for _, kw := range s.keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return min(matches*pointsPerKeyword, maxRelevance)
}
