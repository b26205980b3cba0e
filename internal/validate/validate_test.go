package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "https://example.com"},
		{"with path", "example.com/page", "https://example.com/page"},
		{"already https", "https://example.com/page", "https://example.com/page"},
		{"already http", "http://example.com", "http://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		allowIPs bool
		want     bool
	}{
		{"simple domain", "https://example.com", false, true},
		{"no scheme", "example.com/page", false, true},
		{"path query fragment", "https://example.com/a/b?x=1&y=2#frag", false, true},
		{"with port", "https://example.com:8443/path", false, true},
		{"subdomain", "http://api.internal.example.co.uk/v1", false, true},
		{"empty", "", false, false},
		{"whitespace only", "   ", false, false},
		{"not a url", "not a url", false, false},
		{"ftp scheme", "ftp://example.com", false, false},
		{"javascript scheme", "javascript://alert(1)", false, false},
		{"ip host rejected", "http://1.2.3.4/x", false, false},
		{"ip host allowed", "http://1.2.3.4/x", true, true},
		{"ipv6 host rejected", "http://[::1]/x", false, false},
		{"no tld", "https://localhost", false, false},
		{"single label host", "intranet/page", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.in, tt.allowIPs), "input: %q", tt.in)
		})
	}
}
