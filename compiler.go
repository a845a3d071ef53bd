package blockconv

import (
	"github.com/filterkit/blockconv/rules"
)

// MergeMode selects the rule-set optimizer policy.
type MergeMode int

const (
	// MergeOff disables the optimizer.
	MergeOff MergeMode = iota

	// MergeAuto runs the heuristic optimizer once the rule set grows past
	// mergeThreshold rules.
	MergeAuto

	// MergeAll always runs the optimizer, in exhaustive mode.
	MergeAll
)

// mergeThreshold is the rule count past which MergeAuto turns the optimizer
// on.
const mergeThreshold = 50000

// Compiler accumulates parsed filters in category buckets and compiles them
// into a content-blocker rule set. It is not safe for concurrent use; add
// all filters first, then generate.
type Compiler struct {
	blocking  []*rules.Filter
	whitelist []*rules.Filter

	elemhide []*rules.Filter

	// selectorExceptions holds the selectors of #@# filters. A selector
	// listed here disables every element-hiding filter carrying it.
	selectorExceptions map[string]struct{}

	elemhideExceptions     []*rules.Filter
	generichideExceptions  []*rules.Filter
	genericblockExceptions []*rules.Filter

	// skipped counts the filters AddFilter dropped, by reason.
	skipped map[string]int
}

// Skip reasons counted by the compiler.
const SkipReasonSitekey = "sitekey"

// NewCompiler returns an empty compiler.
func NewCompiler() (c *Compiler) {
	return &Compiler{
		selectorExceptions: map[string]struct{}{},
		skipped:            map[string]int{},
	}
}

// Skipped returns the per-reason counts of the filters dropped by AddFilter.
func (c *Compiler) Skipped() map[string]int {
	return c.skipped
}

// AddFilter files the filter into its category bucket. Filters the target
// format cannot express, such as $sitekey rules, are dropped. A whitelist
// filter may land in several buckets when it combines request types with
// modifier options.
func (c *Compiler) AddFilter(f *rules.Filter) {
	if f == nil {
		return
	}
	if len(f.Sitekeys) > 0 {
		c.skipped[SkipReasonSitekey]++

		return
	}

	switch f.Kind {
	case rules.KindBlocking:
		c.blocking = append(c.blocking, f)
	case rules.KindElemHide:
		c.elemhide = append(c.elemhide, f)
	case rules.KindElemHideException:
		c.selectorExceptions[f.Selector] = struct{}{}
	case rules.KindWhitelist:
		t := f.ContentType
		if t&(rules.TypeDocument|requestTypeMask) != 0 {
			c.whitelist = append(c.whitelist, f)
		}
		if t&rules.TypeElemhide != 0 {
			c.elemhideExceptions = append(c.elemhideExceptions, f)
		}
		if t&rules.TypeGenerichide != 0 {
			c.generichideExceptions = append(c.generichideExceptions, f)
		}
		if t&rules.TypeGenericblock != 0 {
			c.genericblockExceptions = append(c.genericblockExceptions, f)
		}
	}
}

// GenerateRules compiles the added filters into the final ordered rule
// list: CSS rules, CSS exceptions, blocking rules, blocking exceptions.
func (c *Compiler) GenerateRules(mode MergeMode) (out []Rule) {
	// Hostname-only exception whitelists contribute bypass domains; the
	// rest become ignore-previous-rules records of their own.
	var elemhideDomains, generichideDomains, genericblockDomains []string
	var cssExceptions []*rules.Filter
	for _, f := range c.elemhideExceptions {
		if lp := lowerPattern(f.Pattern, schemeHTTP); lp.hostnameOnly {
			elemhideDomains = append(elemhideDomains, lp.hostname)
		} else {
			cssExceptions = append(cssExceptions, f)
		}
	}
	for _, f := range c.generichideExceptions {
		if lp := lowerPattern(f.Pattern, schemeHTTP); lp.hostnameOnly {
			generichideDomains = append(generichideDomains, lp.hostname)
		} else {
			cssExceptions = append(cssExceptions, f)
		}
	}
	for _, f := range c.genericblockExceptions {
		if lp := lowerPattern(f.Pattern, schemeHTTP); lp.hostnameOnly {
			genericblockDomains = append(genericblockDomains, lp.hostname)
		}
	}

	css := c.cssRules(elemhideDomains, generichideDomains)

	var cssExc []Rule
	for _, f := range cssExceptions {
		cssExc = convertFilter(cssExc, f, ActionIgnorePrevious, false, nil)
	}

	var blocking []Rule
	for _, f := range c.blocking {
		var exc []string
		if f.IsGeneric() {
			exc = genericblockDomains
		}
		blocking = convertFilter(blocking, f, ActionBlock, true, exc)
	}

	var blockingExc []Rule
	for _, f := range c.whitelist {
		blockingExc = convertFilter(blockingExc, f, ActionIgnorePrevious, true, nil)
	}

	total := len(css) + len(cssExc) + len(blocking) + len(blockingExc)
	optimize := mode == MergeAll || mode == MergeAuto && total > mergeThreshold
	if optimize {
		exhaustive := mode == MergeAll
		sched := newScheduler()
		css = optimizeRules(css, exhaustive, sched)
		cssExc = optimizeRules(cssExc, exhaustive, sched)
		blocking = optimizeRules(blocking, exhaustive, sched)
		blockingExc = optimizeRules(blockingExc, exhaustive, sched)
		total = len(css) + len(cssExc) + len(blocking) + len(blockingExc)
	}

	out = make([]Rule, 0, total)
	out = append(out, css...)
	out = append(out, cssExc...)
	out = append(out, blocking...)
	out = append(out, blockingExc...)

	return out
}

// cssRules collates the element-hiding filters into generic and per-domain
// selector groups and emits the css-display-none rules.
func (c *Compiler) cssRules(elemhideDomains, generichideDomains []string) (out []Rule) {
	var generic []string
	var domainOrder []string
	domainSelectors := map[string][]string{}

	for _, f := range c.elemhide {
		if _, ok := c.selectorExceptions[f.Selector]; ok {
			continue
		}

		included, excluded := classifyDomains(f.Domains)

		// An excluded domain cannot be honored together with the
		// selector scope at rule level, so the filter is dropped
		// rather than overhiding there.
		if len(excluded) > 0 {
			continue
		}

		if len(included) == 0 {
			generic = append(generic, f.Selector)

			continue
		}

		for _, d := range included {
			if _, ok := domainSelectors[d]; !ok {
				domainOrder = append(domainOrder, d)
			}
			domainSelectors[d] = append(domainSelectors[d], f.Selector)
		}
	}

	genericExc := make([]string, 0, len(elemhideDomains)+len(generichideDomains))
	genericExc = append(genericExc, elemhideDomains...)
	genericExc = append(genericExc, generichideDomains...)
	out = appendElemHideRules(out, "", generic, genericExc)

	excepted := map[string]struct{}{}
	for _, d := range elemhideDomains {
		excepted[d] = struct{}{}
	}
	for _, d := range domainOrder {
		// A fully whitelisted domain is bypassed at rule level; its
		// group would be dead weight.
		if _, ok := excepted[d]; ok {
			continue
		}

		out = appendElemHideRules(out, d, domainSelectors[d], elemhideDomains)
	}

	return out
}
