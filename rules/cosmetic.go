package rules

import (
	"fmt"
)

// newElemHideFilter parses an element-hiding filter line. idx and marker
// locate the rule marker inside the line.
func newElemHideFilter(line string, idx int, marker string) (f *Filter, err error) {
	for _, m := range unsupportedElemhideMarkers {
		if marker == m {
			return nil, fmt.Errorf("marker %s: %w", marker, ErrUnsupported)
		}
	}

	selector := line[idx+len(marker):]
	if selector == "" {
		return nil, &RuleSyntaxError{msg: "empty selector", ruleText: line}
	}

	f = &Filter{
		Kind:     KindElemHide,
		Text:     line,
		Selector: selector,
	}
	if marker == "#@#" {
		f.Kind = KindElemHideException
	}

	if domains := line[:idx]; domains != "" {
		f.Domains, err = loadDomains(domains, ",")
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}
