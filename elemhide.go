package blockconv

import (
	"strings"
)

// selectorLimit is the maximum number of comma-joined selectors in a single
// css-display-none rule.
const selectorLimit = 5000

// appendElemHideRules emits css-display-none rules hiding selectors on
// domain, chunked under the per-rule selector cap. An empty domain emits
// generic rules that apply everywhere. exceptionDomains are the hostnames
// whitelisted by $elemhide or $generichide rules; for a domain group only
// its own subdomains end up in unless-domain.
func appendElemHideRules(dst []Rule, domain string, selectors, exceptionDomains []string) []Rule {
	var urlFilter string
	var unlessDomain []string
	if domain == "" {
		urlFilter = "^https?://"
		for _, e := range exceptionDomains {
			unlessDomain = append(unlessDomain, "*"+e)
		}
	} else {
		urlFilter = `^https?://([^/:]*\.)?` + escapeRegexp(domain) + "[/:]"
		for _, e := range exceptionDomains {
			if isSubdomainOf(e, domain) {
				unlessDomain = append(unlessDomain, "*"+e)
			}
		}
	}

	for len(selectors) > 0 {
		n := len(selectors)
		if n > selectorLimit {
			n = selectorLimit
		}

		dst = append(dst, Rule{
			Trigger: Trigger{
				URLFilter:                urlFilter,
				URLFilterIsCaseSensitive: true,
				UnlessDomain:             append([]string(nil), unlessDomain...),
			},
			Action: Action{
				Type:     ActionCSSDisplayNone,
				Selector: rewriteIDSelectors(strings.Join(selectors[:n], ", ")),
			},
		})
		selectors = selectors[n:]
	}

	return dst
}

// rewriteIDSelectors rewrites "#id" fragments of the selector into the
// "[id=id]" attribute form. The target engine case-folds ID selectors, so
// the literal form would stop matching mixed-case IDs.
func rewriteIDSelectors(selector string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(selector); i++ {
		c := selector[i]
		switch {
		case c == '\\':
			sb.WriteByte(c)
			if i+1 < len(selector) {
				i++
				sb.WriteByte(selector[i])
			}
		case quote != 0:
			if c == quote {
				quote = 0
			}
			sb.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			sb.WriteByte(c)
		case c == '#':
			j := i + 1
			for j < len(selector) && isIDChar(selector[j]) {
				j++
			}
			if j == i+1 {
				sb.WriteByte(c)

				continue
			}

			// The attribute value is left unquoted, matching the
			// engine's grammar for ID-like values.
			sb.WriteString("[id=")
			sb.WriteString(selector[i+1 : j])
			sb.WriteByte(']')
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// isIDChar reports whether c may appear in an ID selector name.
func isIDChar(c byte) bool {
	return c == '-' || c == '_' ||
		c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z' ||
		c >= 0x80
}
