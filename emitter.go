package blockconv

import (
	"strings"

	"github.com/filterkit/blockconv/rules"
)

// convertFilter lowers one blocking or whitelist filter into rule records
// and appends them to dst. action selects the rule action, withResourceTypes
// controls whether resource-type triggers are attached, and exceptionDomains
// are extra excluded hosts contributed by the surrounding context, e.g. the
// hostnames of $genericblock whitelists for generic blocking filters.
func convertFilter(dst []Rule, f *rules.Filter, action string, withResourceTypes bool, exceptionDomains []string) []Rule {
	probe := lowerPattern(f.Pattern, schemeHTTP)

	// A document whitelist on a hostname-only pattern becomes a catch-all
	// bypass for that site.
	if f.Kind == rules.KindWhitelist && f.ContentType&rules.TypeDocument != 0 && probe.hostnameOnly {
		dst = append(dst, Rule{
			Trigger: Trigger{
				URLFilter: ".*",
				IfDomain:  []string{"*" + probe.hostname},
			},
			Action: Action{Type: ActionIgnorePrevious},
		})

		ff := *f
		ff.ContentType &^= rules.TypeDocument
		f = &ff

		if f.ContentType&requestTypeMask == 0 {
			return dst
		}
	}

	t := f.ContentType & requestTypeMask

	// When the filter spans several scheme families but not all of them,
	// emit the families separately so that one family's scheme prefix does
	// not leak onto another's resource types.
	ws := t & rules.TypeWebsocket
	rtc := t & rules.TypeWebrtc
	http := t & httpTypes
	nfam := 0
	for _, fam := range []rules.RequestType{ws, rtc, http} {
		if fam != 0 {
			nfam++
		}
	}
	if nfam > 1 && (ws == 0 || rtc == 0 || http == 0) {
		for _, fam := range []rules.RequestType{ws, rtc, http} {
			if fam == 0 {
				continue
			}

			ff := *f
			ff.ContentType = f.ContentType&^requestTypeMask | fam
			dst = convertFilter(dst, &ff, action, withResourceTypes, exceptionDomains)
		}

		return dst
	}

	included, excluded := classifyDomains(f.Domains)
	excluded = append(excluded, exceptionDomains...)

	var types []string
	if withResourceTypes {
		types = resourceTypes(t)

		// A generic blocking filter must not block top-level navigation.
		if action == ActionBlock && probe.hostname == "" {
			for i, rt := range types {
				if rt == ResourceDocument {
					types = append(types[:i], types[i+1:]...)

					break
				}
			}
		}

		if len(types) == 0 {
			return dst
		}
	}

	var loadType []string
	switch f.ThirdParty {
	case rules.ThirdPartyRequired:
		loadType = []string{LoadThirdParty}
	case rules.ThirdPartyForbidden:
		loadType = []string{LoadFirstParty}
	}

	var ifDomain, unlessDomain []string
	if len(included) > 0 {
		for _, d := range included {
			subExcluded, wwwExcluded := false, false
			for _, e := range excluded {
				if isSubdomainOf(e, d) {
					subExcluded = true
					if e == "www."+d {
						wwwExcluded = true
					}
				}
			}

			// Excluded subdomains of an included domain cannot be
			// expressed directly, so the inclusion degrades to the
			// bare host, plus its www alias when that is safe.
			if f.Kind == rules.KindBlocking && subExcluded {
				ifDomain = append(ifDomain, d)
				if !wwwExcluded {
					ifDomain = append(ifDomain, "www."+d)
				}
			} else {
				ifDomain = append(ifDomain, "*"+d)
			}
		}
	} else if len(excluded) > 0 {
		for _, e := range excluded {
			unlessDomain = append(unlessDomain, "*"+e)
		}
	}

	// Blocking a named site's frames must not block navigating to the site
	// itself.
	needTopURL := len(ifDomain) == 0 && len(unlessDomain) == 0 &&
		f.Kind == rules.KindBlocking &&
		t&rules.TypeSubdocument != 0 &&
		probe.hostname != ""

	for _, scheme := range urlSchemes(t) {
		lp := lowerPattern(f.Pattern, scheme)

		urlFilter := lp.regexp
		if !strings.HasPrefix(urlFilter, "^") {
			if lp.hasScheme {
				urlFilter = "^" + urlFilter
			} else {
				urlFilter = "^" + scheme + ".*" + urlFilter
			}
		}

		caseSensitive := f.MatchCase || lp.lowercaseSafe
		if lp.lowercaseSafe && !f.MatchCase {
			urlFilter = strings.ToLower(urlFilter)
		}

		r := Rule{
			Trigger: Trigger{
				URLFilter:                urlFilter,
				URLFilterIsCaseSensitive: caseSensitive,
				ResourceType:             append([]string(nil), types...),
				LoadType:                 append([]string(nil), loadType...),
				IfDomain:                 append([]string(nil), ifDomain...),
				UnlessDomain:             append([]string(nil), unlessDomain...),
			},
			Action: Action{Type: action},
		}
		if needTopURL {
			r.Trigger.UnlessTopURL = []string{urlFilter}
			r.Trigger.TopURLFilterIsCaseSensitive = caseSensitive
		}

		dst = append(dst, r)
	}

	return dst
}
