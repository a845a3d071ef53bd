package blockconv

import (
	"github.com/filterkit/blockconv/rules"
)

// resourceTypeMap lists the target format's resource types in output order,
// with the request-type bits each one covers.
var resourceTypeMap = []struct {
	name string
	mask rules.RequestType
}{
	{name: ResourceImage, mask: rules.TypeImage},
	{name: ResourceStyleSheet, mask: rules.TypeStylesheet},
	{name: ResourceScript, mask: rules.TypeScript},
	{name: ResourceFont, mask: rules.TypeFont},
	{name: ResourceMedia, mask: rules.TypeMedia | rules.TypeObject},
	{name: ResourcePopup, mask: rules.TypePopup},
	{name: ResourceRaw, mask: rules.TypeXmlhttprequest | rules.TypeObjectSubrequest |
		rules.TypePing | rules.TypeOther | rules.TypeWebsocket | rules.TypeWebrtc},
	{name: ResourceDocument, mask: rules.TypeSubdocument},
}

// httpTypes are the request types loaded over HTTP or HTTPS.
const httpTypes = (rules.TypeDefault | rules.TypePopup) &^
	(rules.TypeWebsocket | rules.TypeWebrtc)

// requestTypeMask covers every request-type bit the mapper understands.
// Modifier bits such as $elemhide and the top-document bit fall outside it.
const requestTypeMask = httpTypes | rules.TypeWebsocket | rules.TypeWebrtc

// resourceTypes projects the content-type bitmask onto the target format's
// resource-type names.
func resourceTypes(t rules.RequestType) (types []string) {
	for _, m := range resourceTypeMap {
		if t&m.mask != 0 {
			types = append(types, m.name)
		}
	}

	return types
}

// urlSchemes returns the minimal set of URL scheme prefix patterns covering
// the request types in t. When all three scheme families are requested, the
// single wildcard pattern keeps the rule count down. A mask with no request
// types maps to the HTTP scheme.
func urlSchemes(t rules.RequestType) (schemes []string) {
	if t&rules.TypeWebsocket != 0 && t&rules.TypeWebrtc != 0 && t&httpTypes != 0 {
		return []string{schemeWildcard}
	}

	if t&rules.TypeWebsocket != 0 {
		schemes = append(schemes, schemeWebsocket)
	}
	if t&rules.TypeWebrtc != 0 {
		schemes = append(schemes, schemeSTUN, schemeTURN)
	}
	if t&httpTypes != 0 || len(schemes) == 0 {
		schemes = append(schemes, schemeHTTP)
	}

	return schemes
}
