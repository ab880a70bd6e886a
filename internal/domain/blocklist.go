package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// searchEngines are hostname substrings that are never blocked. Blocking a
// results page would also hide every outbound result, so search engines get
// a deliberate false-negative pass even if the user blocklists one.
var searchEngines = []string{"google", "bing", "yahoo", "duckduckgo", "baidu"}

// NormalizeHost reduces a raw URL or hostname to a bare host for matching:
// lowercase, scheme and "www." stripped, path/query and trailing slashes cut.
func NormalizeHost(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "://"); i != -1 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")
	if i := strings.IndexAny(s, "/?#"); i != -1 {
		s = s[:i]
	}
	// Drop an explicit port so "example.com:8080" matches "example.com".
	if i := strings.LastIndex(s, ":"); i != -1 && !strings.Contains(s, "]") {
		s = s[:i]
	}
	return s
}

// IsSearchEngine reports whether hostname belongs to a known search engine.
func IsSearchEngine(hostname string) bool {
	h := strings.ToLower(hostname)
	for _, engine := range searchEngines {
		if strings.Contains(h, engine) {
			return true
		}
	}
	return false
}

// BaseDomain returns the last two dot-separated labels of a hostname.
// Intentionally coarse: it ignores public-suffix rules, so "example.com"
// and "mail.example.com" share a base domain. That coarseness is policy:
// blocking either one blocks the other.
func BaseDomain(hostname string) string {
	parts := strings.Split(hostname, ".")
	if len(parts) <= 2 {
		return hostname
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

// ShouldBlock decides whether a hostname is denied by the blocklist.
// Matching per active entry: exact host, shared base domain, or either side
// being a subdomain of the other. First match wins; no match allows.
func ShouldBlock(hostname string, blocklist []BlockedItem) bool {
	host := NormalizeHost(hostname)
	if host == "" {
		return false
	}
	if IsSearchEngine(host) {
		return false
	}

	for _, item := range blocklist {
		if !item.IsActive {
			continue
		}
		blocked := NormalizeHost(item.URL)
		if blocked == "" {
			continue
		}
		switch {
		case host == blocked:
			return true
		case BaseDomain(host) == BaseDomain(blocked):
			return true
		case strings.HasSuffix(host, "."+blocked):
			return true
		case strings.HasSuffix(blocked, "."+host):
			return true
		}
	}
	return false
}

// ShouldBlockURL parses a raw URL and evaluates it against the blocklist.
// Malformed input must never take down a navigation listener, so parse
// failures report an error and the caller treats the URL as allowed.
func ShouldBlockURL(rawURL string, blocklist []BlockedItem) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		// "example.com/path" parses with an empty host; fall back to the
		// raw string so bare hostnames still match.
		host = rawURL
	}
	return ShouldBlock(host, blocklist), nil
}

// BlockedPageURL builds the local blocked-page redirect target, carrying the
// original URL as a query parameter so the page can show what was denied.
func BlockedPageURL(blockedPagePath, originalURL string) string {
	return blockedPagePath + "?from=" + url.QueryEscape(originalURL)
}
