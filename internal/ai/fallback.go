package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/ObiAU/smartpost/internal/models"
)

const fallbackNote = "This is a fallback blog post. AI generation was unavailable."

// FallbackPost builds the fixed three-section post used when generation
// fails. It depends only on the topic and the timestamp.
func FallbackPost(topic models.Topic, now time.Time) models.GeneratedPost {
	meta := topic.Description
	if meta == "" {
		meta = fmt.Sprintf("Explore insights and strategies about %s for modern workforce management.", topic.Title)
	}
	lead := topic.Description
	if lead == "" {
		lead = topic.Title
	}

	tags := []string{"workforce", "HR", "business"}
	if topic.Category != "" {
		tags = append(tags, strings.ToLower(topic.Category))
	}

	return models.GeneratedPost{
		Headline:        topic.Title,
		MetaDescription: meta,
		Tags:            tags,
		Content: models.PostContent{
			Introduction: lead + "\n\nIn today's rapidly evolving business landscape, understanding this topic is crucial for HR professionals and business leaders. This article explores the key aspects and provides actionable insights.",
			Sections: []models.Section{
				{
					Heading: "Understanding the Current Landscape",
					Content: "The workforce management industry is experiencing significant transformation. Organizations are adapting to new challenges and opportunities in this area.",
				},
				{
					Heading: "Key Strategies for Success",
					Content: "Successful implementation requires a strategic approach. Leaders should focus on data-driven decision making, employee engagement, and continuous improvement.",
				},
				{
					Heading: "Best Practices and Recommendations",
					Content: "Industry experts recommend starting with a clear assessment of current capabilities, setting measurable goals, and investing in the right technology and training.",
				},
			},
			Conclusion: "As the industry continues to evolve, staying informed and adaptable is essential for success.",
			KeyTakeaways: []string{
				"Stay informed about industry trends and innovations",
				"Invest in technology and employee development",
				"Focus on data-driven decision making",
				"Prioritize employee engagement and retention",
			},
		},
		WordCount:   800,
		ReadingTime: "4 min",
		Topic:       topic.Title,
		Category:    topic.Category,
		GeneratedAt: now,
		Model:       models.FallbackModel,
		Sources:     []models.SourceRef{},
		Note:        fallbackNote,
	}
}
