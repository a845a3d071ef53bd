package blockconv

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/filterkit/blockconv/filterutil"
)

// classifyDomains splits a filter's domain constraint into included and
// excluded host lists, lowercased and punycoded. The map's empty key holds
// the filter's default for unlisted hosts; when that default is true, the
// listed inclusions are redundant and are not returned.
func classifyDomains(domains map[string]bool) (included, excluded []string) {
	def := domains[""]
	for d, inc := range domains {
		if d == "" {
			continue
		}

		d = filterutil.ToPunycode(d)
		if !inc {
			excluded = append(excluded, d)
		} else if !def {
			included = append(included, d)
		}
	}

	// Map iteration order is random and the output must be stable.
	slices.Sort(included)
	slices.Sort(excluded)

	return included, excluded
}

// isSubdomainOf returns true if host is a strict subdomain of domain.
func isSubdomainOf(host, domain string) bool {
	return len(host) > len(domain)+1 &&
		strings.HasSuffix(host, domain) &&
		host[len(host)-len(domain)-1] == '.'
}
