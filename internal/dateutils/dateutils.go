// Package dateutils provides the date operations used throughout the
// application, chiefly recognition of the colloquial Indonesian relative
// date phrases that open a transaction sentence.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Relative date patterns, most specific first. "N hari yang lalu" must be
// checked before "kemarin" and "hari ini" so the simpler substrings cannot
// shadow it.
var (
	daysAgoRe     = regexp.MustCompile(`(\d+)\s+hari\s+yang\s+lalu`)
	datePhrasesRe = regexp.MustCompile(`(?i)(\d+\s+hari\s+yang\s+lalu|kemarin|hari\s+ini)\s*`)
)

// ExtractRelativeDate recognizes "N hari yang lalu", "kemarin" and
// "hari ini" in the text, in that priority order, and returns the resolved
// moment plus the text with every date phrase stripped. When no phrase
// matches, now is returned and the text is untouched.
func ExtractRelativeDate(text string, now time.Time) (time.Time, string) {
	lower := strings.ToLower(text)

	var date time.Time
	switch {
	case daysAgoRe.MatchString(lower):
		m := daysAgoRe.FindStringSubmatch(lower)
		days, err := strconv.Atoi(m[1])
		if err != nil {
			return now, text
		}
		date = now.AddDate(0, 0, -days)
	case strings.Contains(lower, "kemarin"):
		date = now.AddDate(0, 0, -1)
	case strings.Contains(lower, "hari ini"):
		date = now
	default:
		return now, text
	}

	cleaned := strings.TrimSpace(datePhrasesRe.ReplaceAllString(text, ""))
	return date, cleaned
}
