package blockconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCloseMatch(t *testing.T) {
	// Single-character substitution.
	m, ok := findCloseMatch("/ads", "/adv")
	require.True(t, ok)
	assert.Equal(t, editSubst, m.kind)
	assert.Equal(t, 3, m.pos)
	assert.Equal(t, byte('v'), m.subst)

	// Single-character deletion.
	m, ok = findCloseMatch("/advs", "/ads")
	require.True(t, ok)
	assert.Equal(t, editDelete, m.kind)
	assert.Equal(t, 3, m.pos)
	assert.Equal(t, 1, m.span)

	// Contiguous multi-character deletion.
	m, ok = findCloseMatch("/adxis", "/ads")
	require.True(t, ok)
	assert.Equal(t, editDelete, m.kind)
	assert.Equal(t, 3, m.pos)
	assert.Equal(t, 2, m.span)

	m, ok = findCloseMatch("/adxsi", "/ai")
	require.True(t, ok)
	assert.Equal(t, 2, m.pos)
	assert.Equal(t, 3, m.span)
}

func TestFindCloseMatch_negative(t *testing.T) {
	// Identical strings.
	_, ok := findCloseMatch("/ads", "/ads")
	assert.False(t, ok)

	// Two separate edits.
	_, ok = findCloseMatch("/xdsv", "/ads")
	assert.False(t, ok)

	// A metacharacter in the differing span.
	_, ok = findCloseMatch("/ad?s", "/ads")
	assert.False(t, ok)

	_, ok = findCloseMatch("/ad.s", "/adxs")
	assert.False(t, ok)

	// Non-contiguous difference.
	_, ok = findCloseMatch("/aXdYs", "/ads")
	assert.False(t, ok)
}
