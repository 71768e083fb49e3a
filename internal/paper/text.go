package paper

import (
	"regexp"
	"strings"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including newlines from arXiv
// abstracts) into single spaces and trims the result.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// arXiv ID patterns, in order of preference: abs URLs, arxiv: prefixes,
// bare new-style IDs (YYMM.NNNNN), and old-style archive/YYMMNNN URLs.
var arxivIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\.org/abs/(\d{4}\.\d{4,5})`),
	regexp.MustCompile(`(?i)arxiv:(\d{4}\.\d{4,5})`),
	regexp.MustCompile(`^(\d{4}\.\d{4,5})(?:v\d+)?$`),
	regexp.MustCompile(`(?i)arxiv\.org/abs/([a-z\-]+/\d{7})`),
}

// ExtractArxivID extracts an arXiv identifier from a URL or ID string.
// Returns "" if no identifier is found.
//
//	https://arxiv.org/abs/2301.12345 -> 2301.12345
//	arxiv:2301.12345                 -> 2301.12345
//	2301.12345                       -> 2301.12345
func ExtractArxivID(urlOrID string) string {
	s := strings.TrimSpace(urlOrID)
	if s == "" {
		return ""
	}
	for _, pattern := range arxivIDPatterns {
		if m := pattern.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}
