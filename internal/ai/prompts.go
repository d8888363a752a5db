package ai

import (
	"fmt"

	"github.com/ObiAU/smartpost/internal/models"
)

const systemPrompt = "You are an expert content writer specializing in workforce management, HR, and business services. " +
	"You create professional, insightful blog posts for decision-makers and business leaders. " +
	"Ensure you meet the requested word count length strictly."

const noResearchProvided = "No research data provided."

var toneDescriptions = map[string]string{
	"professional":  "Professional, authoritative, yet accessible",
	"casual":        "Casual, conversational, and engaging",
	"authoritative": "Authoritative, expert-led, and highly professional",
	"friendly":      "Friendly, approachable, and helpful",
	"technical":     "Technical, detailed, and data-driven",
}

var lengthDescriptions = map[string]string{
	"short":  "600-800 words",
	"medium": "1,200-1,500 words",
	"long":   "1,800-2,500 words",
}

var formatDescriptions = map[string]string{
	"blog-post":  "Comprehensive Blog Post",
	"listicle":   "Listicle with numbered points",
	"how-to":     "Step-by-step How-To Guide",
	"opinion":    "Opinion/Thought Leadership Piece",
	"case-study": "Analysis-focused Case Study",
}

func describe(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m[def]
}

const blogPromptTemplate = `You are an expert content writer specializing in workforce management, operations, staffing, and business services. Your audience consists of decision-makers, HR professionals, and business leaders.

Generate a %[1]s about the following trending topic:

TOPIC: %[2]s

RESEARCH CONTEXT:
%[3]s

REQUIREMENTS:
1. Create an SEO-optimized, compelling headline (60-70 characters)
2. Write a meta description (150-160 characters)
3. Include an executive summary/introduction (2-3 paragraphs)
4. Develop 5-7 main sections with descriptive H2 subheadings (ensure depth for the requested length)
5. Each section should have multiple paragraphs with actionable insights
6. Include practical recommendations and real-world applications
7. Add a conclusion with key takeaways (minimum 5 bullet points)
8. Suggest 7-10 relevant tags
9. Social Media Command Center:
   - "Viral Hooks": Provide 3 catchy headlines designed for high engagement.
   - "LinkedIn Post": A professional, value-driven long-form post (200-300 words) with emojis.
   - "X Thread": A structured 7-10 post thread. Post 1 must be a strong hook.
   - "Instagram Caption": Engaging, lifestyle/business oriented with emojis and 10 hashtags.
10. SEO & Growth:
    - Focus Keyword: Primary target keyword.
    - Secondary Keywords: 5 long-tail keywords.
    - SEO Checklist: 5-7 specific improvements (e.g., "Add alt text to images", "Include keyword in H2").
11. Content Visuals:
    - Infographic Outline: A text-based breakdown of data/steps for a visual chart.
    - Image Captions: 3 descriptive captions for the article's visuals.
12. Automation:
    - Newsletter Format: A concise, email-friendly summary (400-500 words) with a Call to Action.
13. Target length: %[4]s
14. Tone: %[5]s
15. Include data points and statistics where relevant (mark with [VERIFY] if uncertain)

FORMAT YOUR RESPONSE AS JSON:
{
  "headline": "Your compelling headline here",
  "metaDescription": "Your meta description here",
  "focusKeyword": "Primary focus keyword",
  "secondaryKeywords": ["keyword1", "keyword2", "keyword3"],
  "seoChecklist": ["Point 1", "Point 2"],
  "tags": ["tag1", "tag2"],
  "socialSnippets": {
    "viralHooks": ["Hook 1", "Hook 2", "Hook 3"],
    "linkedin": "Full LinkedIn post here...",
    "xThread": ["Post 1 content", "Post 2 content", "..."],
    "instagram": "Full Instagram caption here..."
  },
  "visuals": {
    "infographicOutline": "Description of the visual...",
    "imageCaptions": ["Caption 1", "Caption 2"]
  },
  "newsletter": "Full email-formatted content here...",
  "content": {
    "introduction": "Full introduction text...",
    "sections": [
      {
        "heading": "Section heading",
        "content": "Section content..."
      }
    ],
    "conclusion": "Conclusion text...",
    "keyTakeaways": ["Takeaway 1", "Takeaway 2"]
  },
  "wordCount": 1500,
  "readingTime": "7 min"
}

Focus on providing practical, actionable insights that decision-makers can implement immediately. Ensure the content is substantive and meets the requested word count range of %[4]s.`

// BuildBlogPrompt renders the user prompt for a post. Unknown tone, length
// or format values fall back to professional, medium and blog-post.
func BuildBlogPrompt(topic models.Topic, researchSummary string, opts models.GenerateOptions) string {
	if researchSummary == "" {
		researchSummary = noResearchProvided
	}
	return fmt.Sprintf(blogPromptTemplate,
		describe(formatDescriptions, opts.Format, "blog-post"),
		topic.Title,
		researchSummary,
		describe(lengthDescriptions, opts.Length, "medium"),
		describe(toneDescriptions, opts.Tone, "professional"),
	)
}

func imagePrompt(title string) string {
	return fmt.Sprintf("A professional, high-quality, modern featured image for a business blog post about: %s. "+
		"Style: Clean, corporate, minimalist, with glassmorphism elements. No text in the image. "+
		"Vibrant blue and teal color palette.", title)
}
