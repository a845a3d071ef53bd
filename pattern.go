package blockconv

import (
	"strings"

	"github.com/filterkit/blockconv/filterutil"
)

// URL scheme prefix patterns. The wildcard form is used when a filter covers
// every scheme family so that a single rule suffices.
const (
	schemeWildcard  = "[^:]+:(//)?"
	schemeHTTP      = "https?://"
	schemeWebsocket = "wss?://"
	schemeSTUN      = "stuns?:"
	schemeTURN      = "turns?:"
)

// regexpSeparator is the lowering of the pattern language's '^' separator.
// It matches any character that may not appear in a hostname, a path
// segment, or a percent escape.
const regexpSeparator = "[^-_.%A-Za-z0-9]"

// loweredPattern is the result of lowering one filter pattern into the
// target regular-expression dialect.
type loweredPattern struct {
	// regexp is the lowered regular expression fragment.
	regexp string

	// hostname is the punycoded hostname extracted from the pattern, if
	// the pattern has one.
	hostname string

	// hostnameOnly is true if the pattern consists of nothing but the
	// hostname and optional anchors. If so, regexp is the escaped
	// hostname prefixed by the URL scheme group.
	hostnameOnly bool

	// lowercaseSafe is true if the regexp may be lowercased without
	// changing what it matches: the pattern never leaves the hostname,
	// which is ASCII-lowercase after punycode.
	lowercaseSafe bool

	// hasScheme is true if the pattern carries an explicit URL scheme
	// prefix of its own.
	hasScheme bool
}

// lowerPattern converts the filter pattern into a regular-expression
// fragment, using scheme as the URL scheme group for the '||' and leading
// '^' lowerings. Lowering itself has no failure mode: the parser has already
// rejected malformed filters.
func lowerPattern(pattern, scheme string) (p loweredPattern) {
	// The pattern is iterated by Unicode scalar value so that characters
	// outside the basic plane count as single positions in the first/last
	// checks below.
	chars := []rune(pattern)
	n := len(chars)
	last := n - 1

	// First pass: locate the hostname span. It begins after a '||' anchor
	// or after an explicit scheme prefix and runs until the first
	// metacharacter that can terminate a hostname.
	hStart := -1
	hasAnchor := false
	if n >= 2 && chars[0] == '|' && chars[1] == '|' {
		hStart = 2
		hasAnchor = true
	} else if i := indexRunes(chars, "://"); i != -1 {
		hStart = i + 3
		p.hasScheme = true
	}

	hEnd := n
	if hStart != -1 {
	scan:
		for i := hStart; i < n; i++ {
			switch chars[i] {
			case '*', '^', '?', '/', '|':
				hEnd = i

				break scan
			}
		}

		p.hostname = filterutil.ToPunycode(string(chars[hStart:hEnd]))
	}

	if hasAnchor && p.hostname != "" {
		rest := string(chars[hEnd:])
		p.hostnameOnly = rest == "" || rest == "^" || rest == "|" || rest == "^|"
	}

	// Second pass: lower the pattern around the hostname span.
	var sb strings.Builder
	for i := 0; i < n; {
		if i == hStart {
			// Hostnames are ASCII-lowercase once punycoded, so the
			// regexp may be matched as lowercase from here on.
			p.lowercaseSafe = true
			if hEnd > hStart {
				sb.WriteString(escapeRegexp(p.hostname))
				i = hEnd

				continue
			}
		}

		c := chars[i]
		switch c {
		case '|':
			if i == 0 && n > 1 && chars[1] == '|' {
				sb.WriteString("^")
				sb.WriteString(scheme)
				sb.WriteString(`([^/]+\.)?`)
				i += 2

				continue
			}

			switch i {
			case 0:
				sb.WriteString("^")
			case last:
				sb.WriteString("$")
			default:
				sb.WriteString(`\|`)
			}
		case '*':
			// Leading and trailing wildcards are implied; runs of
			// wildcards collapse into one.
			if sb.Len() > 0 && i < last && chars[i+1] != '*' {
				sb.WriteString(".*")
			}
		case '^':
			switch i {
			case 0:
				sb.WriteString("^")
				sb.WriteString(scheme)
				sb.WriteString("(.*" + regexpSeparator + ")?")
			case last:
				sb.WriteString("(" + regexpSeparator + ".*)?$")
			default:
				sb.WriteString(regexpSeparator)
			}
		case '.', '+', '?', '$', '{', '}', '(', ')', '[', ']', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(c)
		default:
			if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
				if hStart != -1 && i >= hEnd {
					// A letter in the path keeps its case.
					p.lowercaseSafe = false
				}
			}

			// The target rule set must be pure ASCII; non-ASCII
			// characters outside the hostname are percent-encoded
			// the way they would appear in a request URL.
			filterutil.PercentEncodeRune(c, &sb)
		}

		i++
	}

	p.regexp = sb.String()

	return p
}

// escapeRegexp backslash-escapes the regular-expression metacharacters of
// the target dialect in s.
func escapeRegexp(s string) string {
	var sb strings.Builder
	for _, c := range s {
		switch c {
		case '.', '+', '?', '$', '{', '}', '(', ')', '[', ']', '\\', '*', '^', '|':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}

	return sb.String()
}

// indexRunes returns the index of the first occurrence of sep in chars, or
// -1 if sep is not present.
func indexRunes(chars []rune, sep string) int {
	sepRunes := []rune(sep)
	for i := 0; i+len(sepRunes) <= len(chars); i++ {
		if string(chars[i:i+len(sepRunes)]) == sep {
			return i
		}
	}

	return -1
}
