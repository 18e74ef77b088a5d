package site

import (
	"regexp"
	"strings"
)

var (
	tokenPattern       = regexp.MustCompile(`\{\{[^{}]+\}\}`)
	inlineImagePattern = regexp.MustCompile(`data:image/[^;]+;base64,[A-Za-z0-9+/=]{100,}`)
)

// SubstitutionReport describes what Substitute could not resolve.
type SubstitutionReport struct {
	// Unresolved lists leftover {{...}} tokens in document order, deduplicated.
	Unresolved []string
	// Stripped counts inline base64 image payloads removed from the document.
	Stripped int
}

// Substitute replaces every {{key}} occurrence with urls[key], then strips any
// remaining large inline images. Tokens without a URL are left in place and
// reported. Running it twice yields the same document.
func Substitute(html string, urls map[string]string) (string, SubstitutionReport) {
	pairs := make([]string, 0, len(urls)*2)
	for key, url := range urls {
		pairs = append(pairs, Placeholder(key), url)
	}
	if len(pairs) > 0 {
		html = strings.NewReplacer(pairs...).Replace(html)
	}

	var report SubstitutionReport
	html, report.Stripped = StripInlineImages(html)

	seen := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(html, -1) {
		if !seen[tok] {
			seen[tok] = true
			report.Unresolved = append(report.Unresolved, tok)
		}
	}
	return html, report
}

// StripInlineImages removes base64 image data URLs carrying at least 100
// payload characters and returns how many were removed.
func StripInlineImages(html string) (string, int) {
	n := 0
	out := inlineImagePattern.ReplaceAllStringFunc(html, func(string) string {
		n++
		return ""
	})
	return out, n
}
