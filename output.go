package blockconv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf16"
)

// WriteRules serializes the rule list to w as an indented JSON array. Any
// character outside the ASCII range is \u-escaped, since the consuming
// engine rejects rule sets with non-ASCII bytes.
func WriteRules(w io.Writer, rs []Rule) (err error) {
	if rs == nil {
		rs = []Rule{}
	}

	b, err := json.MarshalIndent(rs, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	b = append(escapeNonASCII(b), '\n')
	_, err = w.Write(b)

	return err
}

// escapeNonASCII rewrites every character of the marshaled JSON outside the
// ASCII range into a \u escape. Non-ASCII bytes can only occur inside
// string values, so the blanket rewrite is safe.
func escapeNonASCII(b []byte) []byte {
	ascii := true
	for _, c := range b {
		if c >= 0x80 {
			ascii = false

			break
		}
	}
	if ascii {
		return b
	}

	var buf bytes.Buffer
	for _, r := range string(b) {
		switch {
		case r < 0x80:
			buf.WriteByte(byte(r))
		case r > 0xffff:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, r1, r2)
		default:
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
	}

	return buf.Bytes()
}
