package utils

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s, collapses every run of non [a-z0-9] characters into a
// single hyphen, trims leading and trailing hyphens and caps the result at max
// bytes (max <= 0 means no cap).
func Slugify(s string, max int) string {
	slug := nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if max > 0 && len(slug) > max {
		slug = strings.TrimRight(slug[:max], "-")
	}
	return slug
}
