package blockconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockRule builds a minimal block rule for optimizer tests.
func blockRule(urlFilter string) Rule {
	return Rule{
		Trigger: Trigger{
			URLFilter:    urlFilter,
			ResourceType: []string{ResourceImage},
		},
		Action: Action{Type: ActionBlock},
	}
}

func urlFilters(rs []Rule) (fs []string) {
	for _, r := range rs {
		fs = append(fs, r.Trigger.URLFilter)
	}

	return fs
}

func optimize(rs []Rule) []Rule {
	return optimizeRules(rs, true, newScheduler())
}

func TestOptimize_redundantPrefixes(t *testing.T) {
	rs := optimize([]Rule{
		blockRule("/ad"),
		blockRule("/ads"),
		blockRule("/advertisement"),
	})
	assert.Equal(t, []string{"/ad"}, urlFilters(rs))

	// Rules differing in another field never subsume each other.
	other := blockRule("/ads")
	other.Trigger.LoadType = []string{LoadThirdParty}
	rs = optimize([]Rule{blockRule("/ad"), other})
	assert.Equal(t, []string{"/ad", "/ads"}, urlFilters(rs))
}

func TestOptimize_closeMatches(t *testing.T) {
	rs := optimize([]Rule{blockRule("/ads"), blockRule("/adv")})
	assert.Equal(t, []string{"/ad[sv]"}, urlFilters(rs))

	rs = optimize([]Rule{blockRule("/ads"), blockRule("/advs")})
	assert.Equal(t, []string{"/adv?s"}, urlFilters(rs))

	rs = optimize([]Rule{blockRule("/adts"), blockRule("/advs"), blockRule("/ads")})
	assert.Equal(t, []string{"/ad[tv]?s"}, urlFilters(rs))

	rs = optimize([]Rule{blockRule("/ads"), blockRule("/adxis")})
	assert.Equal(t, []string{"/ad(xi)?s"}, urlFilters(rs))

	// Hyphen goes first inside the class.
	rs = optimize([]Rule{blockRule("/adx"), blockRule("/ad-")})
	assert.Equal(t, []string{"/ad[-x]"}, urlFilters(rs))

	// Metacharacters in the delta block the merge.
	rs = optimize([]Rule{blockRule(`/ads\?q`), blockRule("/adsq")})
	assert.Len(t, rs, 2)
}

func TestOptimize_bestMatchSelection(t *testing.T) {
	// Two rules built from the larger match sets beat three from the
	// smaller ones.
	rs := optimize([]Rule{
		blockRule("adsi"),
		blockRule("advi"),
		blockRule("adxi"),
		blockRule("bdsi"),
		blockRule("bdvi"),
		blockRule("bdxi"),
	})
	assert.Equal(t, []string{"ad[svx]i", "bd[svx]i"}, urlFilters(rs))
}

func TestOptimize_arrayFields(t *testing.T) {
	a := blockRule("/ads")
	b := blockRule("/ads")
	b.Trigger.ResourceType = []string{ResourceScript}
	rs := optimize([]Rule{a, b})
	require.Len(t, rs, 1)
	assert.Equal(t, []string{ResourceImage, ResourceScript}, rs[0].Trigger.ResourceType)

	c := blockRule("/track")
	c.Trigger.IfDomain = []string{"*a.com"}
	d := blockRule("/track")
	d.Trigger.IfDomain = []string{"*b.com", "*a.com"}
	rs = optimize([]Rule{c, d})
	require.Len(t, rs, 1)
	assert.Equal(t, []string{"*a.com", "*b.com"}, rs[0].Trigger.IfDomain)

	// An unrestricted rule must not union with a restricted one.
	e := blockRule("/pixel")
	f := blockRule("/pixel")
	f.Trigger.ResourceType = nil
	rs = optimize([]Rule{e, f})
	assert.Len(t, rs, 2)
}

func TestOptimize_idempotent(t *testing.T) {
	rs := optimize([]Rule{
		blockRule("/ads"),
		blockRule("/adv"),
		blockRule("/ad"),
		blockRule("/track"),
		blockRule("/adxis"),
	})

	again := optimize(append([]Rule(nil), rs...))
	assert.Equal(t, rs, again)
}

func TestOptimize_categoriesIndependent(t *testing.T) {
	// The compiler optimizes categories separately; within one category a
	// block rule and an exception never merge because the action differs.
	a := blockRule("/ads")
	b := blockRule("/adv")
	b.Action.Type = ActionIgnorePrevious
	rs := optimize([]Rule{a, b})
	assert.Len(t, rs, 2)
}
