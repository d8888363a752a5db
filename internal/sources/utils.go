package sources

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

// CleanText strips markup and the common named entities from feed text and
// collapses whitespace. Stripping and decoding repeat until the text stops
// changing, so an encoded tag such as "&lt;b&gt;" cannot survive one call
// and be removed by the next.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := text
	for {
		next := entityReplacer.Replace(tagPattern.ReplaceAllString(cleaned, ""))
		if next == cleaned {
			break
		}
		cleaned = next
	}

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
}

func containsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
