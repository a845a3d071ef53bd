package blockconv

import (
	"strings"
)

// closeMatchMeta are the regular-expression metacharacters that disqualify
// an edit span from merging. Folding one of these into a character class or
// optional group would change what the surrounding regexp means.
const closeMatchMeta = `.+$?{}()[]\`

// editKind distinguishes the two edit shapes of a close match.
type editKind int

const (
	// editSubst: the other string replaces one character of the base.
	editSubst editKind = iota

	// editDelete: the other string omits a contiguous span of the base.
	editDelete
)

// closeMatch describes the single edit deriving another url-filter from a
// base url-filter.
type closeMatch struct {
	// other is the rule index of the derived string.
	other int

	kind editKind

	// pos is the edit position in the base string.
	pos int

	// span is the length of the deleted span; 1 for substitutions.
	span int

	// subst is the substituted character, editSubst only.
	subst byte
}

// findCloseMatch reports whether other can be derived from base by exactly
// one edit, and describes the edit. base must be at least as long as other.
func findCloseMatch(base, other string) (m closeMatch, ok bool) {
	d := len(base) - len(other)

	i := 0
	for i < len(other) && base[i] == other[i] {
		i++
	}

	if d == 0 {
		// Equal lengths: a single-character substitution, unless the
		// strings are identical.
		if i == len(base) || base[i+1:] != other[i+1:] {
			return closeMatch{}, false
		}
		if strings.IndexByte(closeMatchMeta, base[i]) >= 0 ||
			strings.IndexByte(closeMatchMeta, other[i]) >= 0 {
			return closeMatch{}, false
		}

		return closeMatch{kind: editSubst, pos: i, span: 1, subst: other[i]}, true
	}

	if base[i+d:] != other[i:] {
		return closeMatch{}, false
	}
	if strings.ContainsAny(base[i:i+d], closeMatchMeta) {
		return closeMatch{}, false
	}

	return closeMatch{kind: editDelete, pos: i, span: d}, true
}
