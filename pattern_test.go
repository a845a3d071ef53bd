package blockconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerPattern(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		scheme  string
		want    string
	}{{
		name:    "plain",
		pattern: "/ads",
		scheme:  schemeHTTP,
		want:    "/ads",
	}, {
		name:    "hostname_anchor",
		pattern: "||example.com",
		scheme:  schemeWildcard,
		want:    `^[^:]+:(//)?([^/]+\.)?example\.com`,
	}, {
		name:    "hostname_anchor_separator",
		pattern: "||example.com^",
		scheme:  schemeWildcard,
		want:    `^[^:]+:(//)?([^/]+\.)?example\.com([^-_.%A-Za-z0-9].*)?$`,
	}, {
		name:    "explicit_scheme",
		pattern: "|http://example.com/",
		scheme:  schemeHTTP,
		want:    `^http://example\.com/`,
	}, {
		name:    "leading_trailing_wildcards_dropped",
		pattern: "*foo*",
		scheme:  schemeHTTP,
		want:    "foo",
	}, {
		name:    "doubled_wildcard",
		pattern: "a**b",
		scheme:  schemeHTTP,
		want:    "a.*b",
	}, {
		name:    "leading_separator",
		pattern: "^ads^",
		scheme:  schemeHTTP,
		want:    `^https?://(.*[^-_.%A-Za-z0-9])?ads([^-_.%A-Za-z0-9].*)?$`,
	}, {
		name:    "interior_separator",
		pattern: "a^b",
		scheme:  schemeHTTP,
		want:    "a[^-_.%A-Za-z0-9]b",
	}, {
		name:    "metachar_escaping",
		pattern: "/ads?q=1",
		scheme:  schemeHTTP,
		want:    `/ads\?q=1`,
	}, {
		name:    "end_anchor",
		pattern: "/ads|",
		scheme:  schemeHTTP,
		want:    "/ads$",
	}, {
		name:    "unicode_percent_encoded",
		pattern: "\U0001F408",
		scheme:  schemeWildcard,
		want:    "%F0%9F%90%88",
	}, {
		name:    "unicode_hostname_punycoded",
		pattern: "||\U0001F408.cat",
		scheme:  schemeWildcard,
		want:    `^[^:]+:(//)?([^/]+\.)?xn--zn8h\.cat`,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := lowerPattern(tc.pattern, tc.scheme)
			assert.Equal(t, tc.want, p.regexp)
		})
	}
}

func TestLowerPattern_hostname(t *testing.T) {
	p := lowerPattern("||example.com^", schemeWildcard)
	assert.Equal(t, "example.com", p.hostname)
	assert.True(t, p.hostnameOnly)
	assert.True(t, p.lowercaseSafe)
	assert.False(t, p.hasScheme)

	p = lowerPattern("||example.com/path", schemeWildcard)
	assert.Equal(t, "example.com", p.hostname)
	assert.False(t, p.hostnameOnly)
	assert.False(t, p.lowercaseSafe)

	p = lowerPattern("||example.com/123", schemeWildcard)
	assert.False(t, p.hostnameOnly)
	assert.True(t, p.lowercaseSafe)

	p = lowerPattern("|https://example.com/", schemeHTTP)
	assert.Equal(t, "example.com", p.hostname)
	assert.True(t, p.hasScheme)
	assert.False(t, p.hostnameOnly)

	p = lowerPattern("/ads", schemeHTTP)
	assert.Equal(t, "", p.hostname)
	assert.False(t, p.hostnameOnly)
	assert.False(t, p.lowercaseSafe)

	p = lowerPattern("||EXAMPLE.Com^", schemeWildcard)
	assert.Equal(t, "example.com", p.hostname)
}

func TestEscapeRegexp(t *testing.T) {
	assert.Equal(t, `example\.com`, escapeRegexp("example.com"))
	assert.Equal(t, `a\[b\]\(c\)\|d`, escapeRegexp("a[b](c)|d"))
	assert.Equal(t, "plain", escapeRegexp("plain"))
}
