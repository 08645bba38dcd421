package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxTermRunes = 100
	maxPage      = 10000
)

var (
	reID     = regexp.MustCompile(`^[0-9]{1,18}$`)
	reLocale = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)
)

// ID validates a numeric object id (products, categories, filter definitions).
func ID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Page parses a 1-based page number, defaulting to 1 and clamping abuse.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > maxPage {
		return maxPage
	}
	return n
}

// StripMarkup returns the text content of an html fragment. Script and style bodies are dropped.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return doc.Text()
}

// Term sanitizes a free-text search term: markup stripped, whitespace collapsed, length capped.
func Term(s string) string {
	s = strings.Join(strings.Fields(StripMarkup(s)), " ")
	if r := []rune(s); len(r) > maxTermRunes {
		s = strings.TrimSpace(string(r[:maxTermRunes]))
	}
	return s
}

// Locale returns s when it is well formed and supported, otherwise fallback.
func Locale(s string, supported func(string) bool, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" || !reLocale.MatchString(s) {
		return fallback
	}
	if supported != nil && !supported(s) {
		if base, _, ok := strings.Cut(s, "-"); ok && supported(base) {
			return base
		}
		return fallback
	}
	return s
}
