package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/filterkit/blockconv/filterutil"
)

const (
	maskWhiteList    = "@@"
	maskRegexRule    = "/"
	optionsDelimiter = '$'
	escapeCharacter  = '\\'
)

var reEscapedOptionsDelimiter = regexp.MustCompile(regexp.QuoteMeta("\\$"))

// newNetworkFilter parses a blocking or whitelist filter line.
func newNetworkFilter(line string) (f *Filter, err error) {
	pattern, options, whitelist := parseRuleText(line)

	if pattern == "" {
		return nil, &RuleSyntaxError{msg: "the rule has an empty pattern", ruleText: line}
	}

	// Regular-expression filters cannot be lowered into the restricted
	// target dialect.
	if strings.HasPrefix(pattern, maskRegexRule) &&
		strings.HasSuffix(pattern, maskRegexRule) &&
		len(pattern) > 2 {
		return nil, fmt.Errorf("regexp pattern %q: %w", pattern, ErrUnsupported)
	}

	f = &Filter{
		Kind:    KindBlocking,
		Text:    line,
		Pattern: pattern,
	}
	if whitelist {
		f.Kind = KindWhitelist
	}

	err = f.loadOptions(options)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// parseRuleText splits the rule text into the basic URL pattern, the options
// part that follows the last unescaped '$', and the whitelist flag.
func parseRuleText(ruleText string) (pattern, options string, whitelist bool) {
	startIndex := 0
	if strings.HasPrefix(ruleText, maskWhiteList) {
		whitelist = true
		startIndex = len(maskWhiteList)
	}

	// Setting pattern to rule text (for the case of empty options).
	pattern = ruleText[startIndex:]

	foundEscaped := false
	for i := len(ruleText) - 2; i >= startIndex; i-- {
		c := ruleText[i]

		if c == optionsDelimiter {
			if i > startIndex && ruleText[i-1] == escapeCharacter {
				foundEscaped = true
			} else {
				pattern = ruleText[startIndex:i]
				options = ruleText[i+1:]

				if foundEscaped {
					options = reEscapedOptionsDelimiter.ReplaceAllString(options, string(optionsDelimiter))
				}

				break
			}
		}
	}

	return pattern, options, whitelist
}

// loadOptions loads all the filter options that follow the '$' delimiter.
func (f *Filter) loadOptions(options string) (err error) {
	typeSeen := false

	// setType accumulates request-type options the way the source grammar
	// does: the first positive type replaces the default set, the first
	// inverted type subtracts from it.
	setType := func(t RequestType, permitted bool) {
		if !typeSeen {
			if permitted {
				f.ContentType = 0
			} else {
				f.ContentType = TypeDefault
			}
			typeSeen = true
		}

		if permitted {
			f.ContentType |= t
		} else {
			f.ContentType &^= t
		}
	}

	defer func() {
		if err == nil && !typeSeen {
			f.ContentType = TypeDefault
		}
	}()

	if options == "" {
		return nil
	}

	for _, option := range splitWithEscapeCharacter(options, ',', '\\', false) {
		optionName := option
		optionValue := ""
		if valueIndex := strings.Index(option, "="); valueIndex > 0 {
			optionName = option[:valueIndex]
			optionValue = option[valueIndex+1:]
		}

		switch optionName {
		case "third-party", "~first-party":
			f.ThirdParty = ThirdPartyRequired
		case "~third-party", "first-party":
			f.ThirdParty = ThirdPartyForbidden
		case "match-case":
			f.MatchCase = true
		case "~match-case":
			f.MatchCase = false
		case "important":
			// Priority has no representation in the target format.
		case "domain":
			f.Domains, err = loadDomains(optionValue, "|")
			if err != nil {
				return err
			}
		case "sitekey":
			if optionValue == "" {
				return &RuleSyntaxError{msg: "empty $sitekey value", ruleText: f.Text}
			}
			f.Sitekeys = strings.Split(optionValue, "|")

		// Request type options.
		case "other":
			setType(TypeOther, true)
		case "~other":
			setType(TypeOther, false)
		case "script":
			setType(TypeScript, true)
		case "~script":
			setType(TypeScript, false)
		case "image":
			setType(TypeImage, true)
		case "~image":
			setType(TypeImage, false)
		case "stylesheet":
			setType(TypeStylesheet, true)
		case "~stylesheet":
			setType(TypeStylesheet, false)
		case "object":
			setType(TypeObject, true)
		case "~object":
			setType(TypeObject, false)
		case "object-subrequest":
			setType(TypeObjectSubrequest, true)
		case "~object-subrequest":
			setType(TypeObjectSubrequest, false)
		case "subdocument":
			setType(TypeSubdocument, true)
		case "~subdocument":
			setType(TypeSubdocument, false)
		case "document":
			setType(TypeDocument, true)
		case "websocket":
			setType(TypeWebsocket, true)
		case "~websocket":
			setType(TypeWebsocket, false)
		case "webrtc":
			setType(TypeWebrtc, true)
		case "~webrtc":
			setType(TypeWebrtc, false)
		case "ping":
			setType(TypePing, true)
		case "~ping":
			setType(TypePing, false)
		case "xmlhttprequest":
			setType(TypeXmlhttprequest, true)
		case "~xmlhttprequest":
			setType(TypeXmlhttprequest, false)
		case "media":
			setType(TypeMedia, true)
		case "~media":
			setType(TypeMedia, false)
		case "font":
			setType(TypeFont, true)
		case "~font":
			setType(TypeFont, false)
		case "popup":
			setType(TypePopup, true)

		// Whitelist modifier options.
		case "elemhide":
			if f.Kind != KindWhitelist {
				return &RuleSyntaxError{msg: "$elemhide is allowed in whitelist rules only", ruleText: f.Text}
			}
			setType(TypeElemhide, true)
		case "generichide":
			if f.Kind != KindWhitelist {
				return &RuleSyntaxError{msg: "$generichide is allowed in whitelist rules only", ruleText: f.Text}
			}
			setType(TypeGenerichide, true)
		case "genericblock":
			if f.Kind != KindWhitelist {
				return &RuleSyntaxError{msg: "$genericblock is allowed in whitelist rules only", ruleText: f.Text}
			}
			setType(TypeGenericblock, true)

		// Content-modifying and scripting options cannot be expressed in
		// the target format.
		case "csp", "rewrite", "redirect", "replace", "cookie", "removeparam":
			return fmt.Errorf("filter modifier $%s: %w", optionName, ErrUnsupported)

		default:
			return &RuleSyntaxError{
				msg:      fmt.Sprintf("unknown filter modifier: %s", optionName),
				ruleText: f.Text,
			}
		}
	}

	return nil
}

// loadDomains parses a $domain modifier or the domains part of an
// element-hiding filter. sep is '|' for network rules and ',' for
// element-hiding rules. The returned map follows the convention described on
// [Filter.Domains]: the empty key holds the default for unlisted hosts,
// which is true if and only if the filter lists no included domains.
func loadDomains(domains, sep string) (m map[string]bool, err error) {
	if domains == "" {
		return nil, errors.Error("no domains specified")
	}

	m = map[string]bool{}
	hasIncluded := false
	for _, d := range strings.Split(domains, sep) {
		included := true
		if strings.HasPrefix(d, "~") {
			included = false
			d = d[1:]
		}

		d = strings.ToLower(d)
		if !filterutil.IsDomainName(d) && !filterutil.IsDomainName(filterutil.ToPunycode(d)) {
			return nil, fmt.Errorf("invalid domain specified: %s", domains)
		}

		m[d] = included
		if included {
			hasIncluded = true
		}
	}

	m[""] = !hasIncluded

	return m, nil
}
