package rules

import (
	"strings"
)

// Element-hiding rule markers, longest first so that the scan below never
// mistakes an exception marker for the plain one.
var elemhideMarkers = []string{"#@?#", "#@$#", "#@%#", "#@#", "#?#", "#$#", "#%#", "##"}

// Markers that start a filter type the content-blocker format cannot
// express: element-hide emulation, snippets and script injection.
var unsupportedElemhideMarkers = []string{"#@?#", "#@$#", "#@%#", "#?#", "#$#", "#%#"}

// NewFilter parses a single filter list line and returns the parsed filter
// record. It returns (nil, nil) if the line is empty, a comment, or a section
// header. It returns ErrUnsupported (possibly wrapped) for valid filters of
// a type that cannot be converted.
func NewFilter(line string) (f *Filter, err error) {
	line = Normalize(line)

	if line == "" || isComment(line) {
		return nil, nil
	}

	if idx, marker := findElemhideMarker(line); idx != -1 {
		return newElemHideFilter(line, idx, marker)
	}

	return newNetworkFilter(line)
}

// Normalize strips whitespace the way the filter grammar requires: for
// element-hiding filters only the domains part loses its whitespace, since
// the selector may contain significant spaces; all other filters lose
// whitespace entirely.
func Normalize(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || isComment(line) {
		return line
	}

	if idx, marker := findElemhideMarker(line); idx != -1 {
		domains := removeWhitespace(line[:idx])
		selector := strings.TrimSpace(line[idx+len(marker):])

		return domains + marker + selector
	}

	return removeWhitespace(line)
}

// isComment checks if the line is a comment or a section header.
func isComment(line string) bool {
	return line[0] == '!' || line[0] == '['
}

// findElemhideMarker locates the first element-hiding marker in the line.
// It returns -1 if the line contains none.
func findElemhideMarker(line string) (idx int, marker string) {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}

		for _, m := range elemhideMarkers {
			if startsAtIndexWith(line, i, m) {
				return i, m
			}
		}
	}

	return -1, ""
}

// startsAtIndexWith checks if str has the substr at the specified index.
func startsAtIndexWith(str string, index int, substr string) bool {
	if len(str)-index < len(substr) {
		return false
	}

	return str[index:index+len(substr)] == substr
}

func removeWhitespace(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			// skip
		default:
			sb.WriteByte(s[i])
		}
	}

	return sb.String()
}

// splitWithEscapeCharacter splits str by the specified separator if it is not
// escaped.
func splitWithEscapeCharacter(str string, sep, escapeCharacter byte, preserveAllTokens bool) []string {
	parts := make([]string, 0)

	if str == "" {
		return parts
	}

	var sb strings.Builder
	escaped := false
	for i := range str {
		c := str[i]

		if c == escapeCharacter {
			escaped = true
		} else if c == sep {
			if escaped {
				sb.WriteByte(c)
				escaped = false
			} else {
				if preserveAllTokens || sb.Len() > 0 {
					parts = append(parts, sb.String())
					sb.Reset()
				}
			}
		} else {
			if escaped {
				escaped = false
				sb.WriteByte(escapeCharacter)
			}
			sb.WriteByte(c)
		}
	}

	if preserveAllTokens || sb.Len() > 0 {
		parts = append(parts, sb.String())
	}

	return parts
}
