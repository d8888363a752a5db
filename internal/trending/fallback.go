package trending

import "github.com/ObiAU/smartpost/internal/models"

const FallbackSource = "Fallback"

// FallbackTopics is the curated set served when live sources are down or
// sparse. Each call returns a fresh slice.
func FallbackTopics() []models.Topic {
	return []models.Topic{
		{
			Title:       "The Rise of AI in Recruitment: Transforming Talent Acquisition",
			Description: "How artificial intelligence is revolutionizing the hiring process and what it means for HR professionals.",
			Category:    "HR Technology",
			TrendScore:  85,
			Source:      FallbackSource,
		},
		{
			Title:       "Remote Work 2.0: Building Effective Hybrid Workforce Models",
			Description: "Best practices for managing distributed teams and creating flexible work environments.",
			Category:    "Remote Work",
			TrendScore:  82,
			Source:      FallbackSource,
		},
		{
			Title:       "Employee Retention Strategies in a Competitive Labor Market",
			Description: "Proven tactics to reduce turnover and keep top talent engaged in challenging times.",
			Category:    "Employee Retention",
			TrendScore:  80,
			Source:      FallbackSource,
		},
		{
			Title:       "Workforce Analytics: Data-Driven Decision Making for HR Leaders",
			Description: "Leveraging people analytics to optimize workforce planning and performance.",
			Category:    "Workforce Analytics",
			TrendScore:  78,
			Source:      FallbackSource,
		},
		{
			Title:       "The Future of BPO: Automation and Human Expertise",
			Description: "How business process outsourcing is evolving with technology integration.",
			Category:    "BPO Services",
			TrendScore:  75,
			Source:      FallbackSource,
		},
		{
			Title:       "Skills-Based Hiring: Moving Beyond Traditional Credentials",
			Description: "Why companies are prioritizing skills over degrees in recruitment.",
			Category:    "Recruitment",
			TrendScore:  73,
			Source:      FallbackSource,
		},
	}
}
