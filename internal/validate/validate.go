// Package validate checks and normalizes candidate destination URLs before
// they reach the store.
package validate

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// tldPattern requires the hostname to end in a plausible top-level domain.
// This rejects single-label hosts like "localhost" or "intranet".
var tldPattern = regexp.MustCompile(`\.[A-Za-z]{2,}$`)

// NormalizeURL prepends https:// when the input carries no HTTP(S) scheme.
// It does not otherwise alter the string.
func NormalizeURL(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// IsValidURL reports whether raw is a well-formed, non-local HTTP(S) URL.
// Inputs without a scheme are normalized first, so "example.com/page" is
// accepted. Bare IP hosts are rejected unless allowIPs is set. Length policy
// is deliberately not enforced here; that belongs to the caller.
func IsValidURL(raw string, allowIPs bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}

	// An explicit non-HTTP(S) scheme is rejected outright rather than having
	// https:// prepended in front of it.
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme := strings.ToLower(raw[:i])
		if scheme != "http" && scheme != "https" {
			return false
		}
	}

	parsed, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	host := parsed.Hostname()
	if host == "" {
		return false
	}

	if ip := net.ParseIP(host); ip != nil {
		return allowIPs
	}

	return tldPattern.MatchString(host)
}
