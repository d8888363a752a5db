package trending

import (
	"sort"

	"github.com/ObiAU/smartpost/internal/models"
)

// Rank drops every topic whose dedup key was already seen, then sorts the
// survivors by descending TrendScore. Ties keep encounter order.
func Rank(topics []models.Topic) []models.Topic {
	seen := make(map[string]struct{}, len(topics))
	unique := make([]models.Topic, 0, len(topics))

	for _, topic := range topics {
		key := models.DedupKey(topic.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, topic)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].TrendScore > unique[j].TrendScore
	})
	return unique
}
