package filterutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// IsASCII returns true if s contains no bytes outside of the U+0000-U+007F
// range.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}

// ToPunycode converts the hostname to its ASCII (punycode) form, lowercasing
// it first. Hostnames that are already ASCII are returned lowercased. If the
// conversion fails, the lowercased input is returned as is.
func ToPunycode(host string) string {
	host = strings.ToLower(host)
	if IsASCII(host) {
		return host
	}

	ascii, err := idna.ToASCII(host)
	if err != nil {
		return host
	}

	return ascii
}

const upperhex = "0123456789ABCDEF"

// PercentEncodeRune writes the UTF-8 percent-encoding of r to sb, one %XX
// escape per byte. ASCII runes are written unescaped.
func PercentEncodeRune(r rune, sb *strings.Builder) {
	if r < 0x80 {
		sb.WriteRune(r)

		return
	}

	var buf [4]byte
	n := utf8.EncodeRune(buf[:], r)
	for i := 0; i < n; i++ {
		sb.WriteByte('%')
		sb.WriteByte(upperhex[buf[i]>>4])
		sb.WriteByte(upperhex[buf[i]&0xf])
	}
}
