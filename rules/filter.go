// Package rules parses the Adblock Plus filter syntax into the record types
// consumed by the compiler.
package rules

import (
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
)

// RequestType is the content-type bitmask enumeration used by filter type
// options. The bit values match the source filter language and must not be
// reordered.
type RequestType uint32

// RequestType enumeration.
const (
	TypeOther            RequestType = 1
	TypeScript           RequestType = 2
	TypeImage            RequestType = 4
	TypeStylesheet       RequestType = 8
	TypeObject           RequestType = 16
	TypeSubdocument      RequestType = 32
	TypeDocument         RequestType = 64
	TypeWebsocket        RequestType = 128
	TypeWebrtc           RequestType = 256
	TypePing             RequestType = 1024
	TypeXmlhttprequest   RequestType = 2048
	TypeObjectSubrequest RequestType = 4096
	TypeMedia            RequestType = 16384
	TypeFont             RequestType = 32768
	TypePopup            RequestType = 0x10000000
	TypeGenericblock     RequestType = 0x20000000
	TypeElemhide         RequestType = 0x40000000
	TypeGenerichide      RequestType = 0x80000000
)

// TypeDefault is the set of request types a filter applies to when it has no
// type options. Popup and the whitelist modifier bits must be requested
// explicitly.
const TypeDefault = TypeOther | TypeScript | TypeImage | TypeStylesheet |
	TypeObject | TypeSubdocument | TypeWebsocket | TypeWebrtc | TypePing |
	TypeXmlhttprequest | TypeObjectSubrequest | TypeMedia | TypeFont

// FilterKind is the classification of a parsed filter line.
type FilterKind int

// FilterKind enumeration.
const (
	KindBlocking FilterKind = iota
	KindWhitelist
	KindElemHide
	KindElemHideException
)

// ThirdPartyMode expresses the tri-state $third-party constraint.
type ThirdPartyMode int

// ThirdPartyMode enumeration.
const (
	ThirdPartyAny ThirdPartyMode = iota
	ThirdPartyRequired
	ThirdPartyForbidden
)

// Filter is one parsed filter line. The compiler consumes filters as
// immutable records; none of the fields are modified after parsing.
type Filter struct {
	// Kind is the filter classification.
	Kind FilterKind

	// Text is the original (normalized) filter line.
	Text string

	// Pattern is the URL pattern of a blocking or whitelist filter.
	Pattern string

	// Selector is the CSS selector of an element-hiding filter.
	Selector string

	// Domains maps a host to whether the filter applies there. The empty
	// key holds the default that applies to hosts not listed.
	Domains map[string]bool

	// Sitekeys holds the $sitekey values. A non-empty list disqualifies
	// the filter since sitekeys cannot be expressed in the target format.
	Sitekeys []string

	// ContentType is the set of request types the filter applies to.
	ContentType RequestType

	// ThirdParty is the $third-party constraint.
	ThirdParty ThirdPartyMode

	// MatchCase is true if the pattern must be matched case-sensitively.
	MatchCase bool
}

// IsGeneric returns true if the filter is not limited to specific domains.
func (f *Filter) IsGeneric() bool {
	for domain, included := range f.Domains {
		if domain != "" && included {
			return false
		}
	}

	return true
}

// RuleSyntaxError is returned when a filter line cannot be parsed.
type RuleSyntaxError struct {
	msg      string
	ruleText string
}

// Error implements the error interface for *RuleSyntaxError.
func (e *RuleSyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s, rule: %s", e.msg, e.ruleText)
}

// ErrUnsupported signals that the line is a valid filter of a type that the
// content-blocker format cannot express. Such filters are dropped silently.
const ErrUnsupported errors.Error = "this type of filters is unsupported"
