// Package blockconv compiles Adblock Plus filter lists into WebKit
// content-blocker rule sets.
package blockconv

// Rule is a single content-blocker trigger/action record.
type Rule struct {
	Trigger Trigger `json:"trigger"`
	Action  Action  `json:"action"`
}

// Trigger defines the conditions under which the rule's action applies.
type Trigger struct {
	// URLFilter is a regular expression in the target engine's restricted
	// dialect, matched against the full request URL.
	URLFilter string `json:"url-filter"`

	// URLFilterIsCaseSensitive disables the engine's default
	// case-insensitive matching of URLFilter.
	URLFilterIsCaseSensitive bool `json:"url-filter-is-case-sensitive,omitempty"`

	// ResourceType limits the rule to the listed resource types.
	ResourceType []string `json:"resource-type,omitempty"`

	// LoadType limits the rule to first-party or third-party loads.
	LoadType []string `json:"load-type,omitempty"`

	// IfDomain limits the rule to the listed document domains. Mutually
	// exclusive with UnlessDomain.
	IfDomain []string `json:"if-domain,omitempty"`

	// UnlessDomain disables the rule on the listed document domains.
	UnlessDomain []string `json:"unless-domain,omitempty"`

	// UnlessTopURL disables the rule when the top-level document URL
	// matches one of the listed patterns.
	UnlessTopURL []string `json:"unless-top-url,omitempty"`

	// TopURLFilterIsCaseSensitive disables case-insensitive matching of
	// UnlessTopURL.
	TopURLFilterIsCaseSensitive bool `json:"top-url-filter-is-case-sensitive,omitempty"`
}

// Action defines what the engine does when the trigger matches.
type Action struct {
	Type     string `json:"type"`
	Selector string `json:"selector,omitempty"`
}

// Action type constants.
const (
	ActionBlock          = "block"
	ActionIgnorePrevious = "ignore-previous-rules"
	ActionCSSDisplayNone = "css-display-none"
)

// Resource type constants of the target format.
const (
	ResourceImage      = "image"
	ResourceStyleSheet = "style-sheet"
	ResourceScript     = "script"
	ResourceFont       = "font"
	ResourceMedia      = "media"
	ResourcePopup      = "popup"
	ResourceRaw        = "raw"
	ResourceDocument   = "document"
)

// Load type constants.
const (
	LoadFirstParty = "first-party"
	LoadThirdParty = "third-party"
)
