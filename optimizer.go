package blockconv

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// heuristicWindow bounds how far ahead of a rule the close-match search
// looks in heuristic mode, keeping the optimizer near-linear on large sets.
const heuristicWindow = 1000

// mergeField names a trigger field the optimizer can treat as the single
// varying field of an equivalence group.
type mergeField int

const (
	fieldURLFilter mergeField = iota
	fieldResourceType
	fieldIfDomain
)

// optimizeRules post-processes one rule category: prefix-redundancy
// elimination and approximate merging on url-filter, then union merges on
// resource-type and if-domain. Categories are optimized separately so that
// a block rule never merges with an exception.
func optimizeRules(rs []Rule, exhaustive bool, sched *scheduler) []Rule {
	rs = eliminateRedundant(rs, sched)
	rs = mergeCloseMatches(rs, exhaustive, sched)
	rs = mergeArrayField(rs, fieldResourceType, sched)
	rs = mergeArrayField(rs, fieldIfDomain, sched)

	return rs
}

// ruleKey serializes every field of the rule except the skipped one, for
// grouping rules that are equivalent modulo that field.
func ruleKey(r Rule, skip mergeField) string {
	var sb strings.Builder
	app := func(s string) {
		sb.WriteString(s)
		sb.WriteByte(0x1f)
	}

	if skip != fieldURLFilter {
		app(r.Trigger.URLFilter)
	}
	app(strconv.FormatBool(r.Trigger.URLFilterIsCaseSensitive))
	if skip != fieldResourceType {
		app(strings.Join(r.Trigger.ResourceType, ","))
	}
	app(strings.Join(r.Trigger.LoadType, ","))
	if skip != fieldIfDomain {
		app(strings.Join(r.Trigger.IfDomain, ","))
	}
	app(strings.Join(r.Trigger.UnlessDomain, ","))
	app(strings.Join(r.Trigger.UnlessTopURL, ","))
	app(strconv.FormatBool(r.Trigger.TopURLFilterIsCaseSensitive))
	app(r.Action.Type)
	app(r.Action.Selector)

	return sb.String()
}

// emptyField reports whether the rule leaves the field unset. An unset
// array field means unrestricted, so such rules must not union with
// restricted ones.
func emptyField(r Rule, f mergeField) bool {
	switch f {
	case fieldResourceType:
		return len(r.Trigger.ResourceType) == 0
	case fieldIfDomain:
		return len(r.Trigger.IfDomain) == 0
	default:
		return r.Trigger.URLFilter == ""
	}
}

// groupRules buckets rule indices by their key modulo skip, preserving
// first-seen order of both groups and members.
func groupRules(rs []Rule, skip mergeField, skipEmpty bool) (order []string, groups map[string][]int) {
	groups = map[string][]int{}
	for i, r := range rs {
		if skipEmpty && emptyField(r, skip) {
			continue
		}

		k := ruleKey(r, skip)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	return order, groups
}

// compactRules returns the rules not marked for dropping.
func compactRules(rs []Rule, drop []bool) (out []Rule) {
	out = make([]Rule, 0, len(rs))
	for i, r := range rs {
		if !drop[i] {
			out = append(out, r)
		}
	}

	return out
}

// eliminateRedundant drops, within each equivalence group, every rule whose
// url-filter extends another rule's url-filter: the shorter pattern already
// matches everything the longer one would.
func eliminateRedundant(rs []Rule, sched *scheduler) []Rule {
	order, groups := groupRules(rs, fieldURLFilter, false)
	drop := make([]bool, len(rs))
	for _, k := range order {
		idxs := groups[k]
		if len(idxs) < 2 {
			continue
		}

		for _, i := range idxs {
			if drop[i] {
				continue
			}

			for _, j := range idxs {
				if j == i || drop[j] {
					continue
				}

				if strings.HasPrefix(rs[j].Trigger.URLFilter, rs[i].Trigger.URLFilter) {
					drop[j] = true
				}
			}
		}

		sched.maybeYield()
	}

	return compactRules(rs, drop)
}

// candidate accumulates the close matches found for one base rule, keyed by
// edit position for the single-character edits, plus at most one
// multi-character edit.
type candidate struct {
	singles map[int][]closeMatch
	multi   *closeMatch
}

// largestSet returns the size of the candidate's largest single-position
// match set.
func (c *candidate) largestSet() (size int) {
	for _, ms := range c.singles {
		if len(ms) > size {
			size = len(ms)
		}
	}

	return size
}

// mergeCloseMatches rewrites groups of rules differing by a single edit in
// their url-filter into one rule with a character class or optional group.
func mergeCloseMatches(rs []Rule, exhaustive bool, sched *scheduler) []Rule {
	order, groups := groupRules(rs, fieldURLFilter, false)
	used := make([]bool, len(rs))
	drop := make([]bool, len(rs))
	for _, k := range order {
		idxs := groups[k]
		if len(idxs) < 2 {
			continue
		}

		mergeGroup(rs, idxs, exhaustive, used, drop)
		sched.maybeYield()
	}

	return compactRules(rs, drop)
}

func mergeGroup(rs []Rule, idxs []int, exhaustive bool, used, drop []bool) {
	window := heuristicWindow
	if exhaustive {
		window = len(idxs)
	}

	cands := map[int]*candidate{}
	var bases []int
	record := func(base int, m closeMatch) {
		c := cands[base]
		if c == nil {
			c = &candidate{singles: map[int][]closeMatch{}}
			cands[base] = c
			bases = append(bases, base)
		}

		if m.kind == editDelete && m.span > 1 {
			if c.multi == nil {
				c.multi = &m
			}

			return
		}

		c.singles[m.pos] = append(c.singles[m.pos], m)
	}

	for gi, i := range idxs {
		end := gi + window
		if end > len(idxs)-1 {
			end = len(idxs) - 1
		}

		for gj := gi + 1; gj <= end; gj++ {
			j := idxs[gj]

			// The longer of the two strings is the merge base.
			a, b := rs[i].Trigger.URLFilter, rs[j].Trigger.URLFilter
			if len(a) >= len(b) {
				if m, ok := findCloseMatch(a, b); ok {
					m.other = j
					record(i, m)
				}
			} else if m, ok := findCloseMatch(b, a); ok {
				m.other = i
				record(j, m)
			}
		}
	}

	// Bigger single-position sets first, so the widest character classes
	// win; ties keep input order.
	slices.SortStableFunc(bases, func(a, b int) int {
		return cands[b].largestSet() - cands[a].largestSet()
	})

	for _, b := range bases {
		if used[b] {
			continue
		}

		c := cands[b]
		base := rs[b].Trigger.URLFilter

		// The largest single-position set whose members are all still
		// free to merge.
		positions := make([]int, 0, len(c.singles))
		for p := range c.singles {
			positions = append(positions, p)
		}
		slices.Sort(positions)

		bestPos, bestN := -1, 0
		for _, p := range positions {
			n := 0
			for _, m := range c.singles[p] {
				if !used[m.other] {
					n++
				}
			}
			if n > bestN {
				bestPos, bestN = p, n
			}
		}

		if bestN > 0 {
			set := map[byte]struct{}{base[bestPos]: {}}
			optional := false
			for _, m := range c.singles[bestPos] {
				if used[m.other] {
					continue
				}

				used[m.other], drop[m.other] = true, true
				if m.kind == editSubst {
					set[m.subst] = struct{}{}
				} else {
					optional = true
				}
			}

			used[b] = true
			rs[b].Trigger.URLFilter = spliceCharSet(base, bestPos, set, optional)

			continue
		}

		if c.multi != nil && !used[c.multi.other] {
			m := c.multi
			used[b], used[m.other], drop[m.other] = true, true, true
			rs[b].Trigger.URLFilter = base[:m.pos] +
				"(" + base[m.pos:m.pos+m.span] + ")?" +
				base[m.pos+m.span:]
		}
	}
}

// spliceCharSet rewrites base so that position pos matches any character in
// set, optionally absent.
func spliceCharSet(base string, pos int, set map[byte]struct{}, optional bool) string {
	chars := make([]byte, 0, len(set))
	for ch := range set {
		chars = append(chars, ch)
	}
	slices.Sort(chars)

	// Hyphen goes first so the class cannot read as a range.
	if i := slices.Index(chars, byte('-')); i > 0 {
		chars = append(chars[:i], chars[i+1:]...)
		chars = append([]byte{'-'}, chars...)
	}

	var repl string
	if len(chars) == 1 {
		repl = string(chars)
	} else {
		repl = "[" + string(chars) + "]"
	}
	if optional {
		repl += "?"
	}

	return base[:pos] + repl + base[pos+1:]
}

// mergeArrayField unions the values of one array trigger field across each
// group of otherwise identical rules, keeping the first rule of the group.
func mergeArrayField(rs []Rule, field mergeField, sched *scheduler) []Rule {
	order, groups := groupRules(rs, field, true)
	drop := make([]bool, len(rs))
	for _, k := range order {
		idxs := groups[k]
		if len(idxs) < 2 {
			continue
		}

		first := idxs[0]
		for _, j := range idxs[1:] {
			t, u := &rs[first].Trigger, rs[j].Trigger
			switch field {
			case fieldResourceType:
				t.ResourceType = unionStrings(t.ResourceType, u.ResourceType)
			case fieldIfDomain:
				t.IfDomain = unionStrings(t.IfDomain, u.IfDomain)
			}
			drop[j] = true
		}

		sched.maybeYield()
	}

	return compactRules(rs, drop)
}

// unionStrings appends the members of add missing from dst.
func unionStrings(dst, add []string) []string {
	for _, s := range add {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}

	return dst
}
