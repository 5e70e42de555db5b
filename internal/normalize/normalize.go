// Package normalize provides the pure canonicalizers used to compare
// differently written but equivalent values: URLs, wikipedia titles, free
// text, and whitespace. Every function is deterministic and side-effect free.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// URL reduces a URL to its comparison key: scheme and path dropped, query and
// fragment dropped, leading "www." stripped from the host, lower-cased, with
// the "//" authority prefix retained. Returns "" when the input does not parse
// or has no host.
//
// The result is a fixed point: URL(URL(s)) == URL(s).
func URL(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	return "//" + host
}

// WikipediaURL re-encodes the title segment of a wikipedia URL from a decoded
// baseline, so percent-encoded and plain forms of the same title compare
// equal. Strings that do not begin with https:// are returned unchanged.
func WikipediaURL(s string) string {
	if !strings.HasPrefix(s, "https://") {
		return s
	}
	i := strings.LastIndex(s, "/")
	if i < 0 || i == len(s)-1 {
		return s
	}
	title := s[i+1:]
	decoded, err := url.PathUnescape(title)
	if err != nil {
		decoded = title
	}
	return s[:i+1] + url.PathEscape(decoded)
}

// Text lower-cases and strips every character that is neither alphanumeric
// nor whitespace. Used before fuzzy comparison.
func Text(s string) string {
	return nonWord.ReplaceAllString(strings.ToLower(s), "")
}

// Whitespace trims the ends and collapses internal whitespace runs to a
// single space.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
