package filterlist

import (
	"strings"
	"testing"

	"github.com/filterkit/blockconv/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleScanner(t *testing.T) {
	list := `[Adblock Plus 2.0]
! Homepage: https://lists.example/
||example.org^

##.banner
/regexrule/
||example.com^$unknown-modifier
@@||allowed.example^$document`

	s := NewRuleScanner(strings.NewReader(list))

	require.True(t, s.Scan())
	f, line := s.Filter()
	assert.Equal(t, rules.KindBlocking, f.Kind)
	assert.Equal(t, 3, line)

	require.True(t, s.Scan())
	f, line = s.Filter()
	assert.Equal(t, rules.KindElemHide, f.Kind)
	assert.Equal(t, 5, line)

	require.True(t, s.Scan())
	f, line = s.Filter()
	assert.Equal(t, rules.KindWhitelist, f.Kind)
	assert.Equal(t, 8, line)

	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())

	skipped := s.Skipped()
	assert.Equal(t, 1, skipped[SkipReasonUnsupported])
	assert.Equal(t, 1, skipped[SkipReasonSyntax])
}

func TestRuleScanner_empty(t *testing.T) {
	s := NewRuleScanner(strings.NewReader(""))
	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())
	assert.Empty(t, s.Skipped())
}
