package filterutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsASCII(t *testing.T) {
	assert.True(t, IsASCII("example.org"))
	assert.True(t, IsASCII(""))
	assert.False(t, IsASCII("пример.рф"))
}

func TestToPunycode(t *testing.T) {
	assert.Equal(t, "example.org", ToPunycode("example.org"))
	assert.Equal(t, "example.org", ToPunycode("EXAMPLE.org"))
	assert.Equal(t, "xn--e1afmkfd.org", ToPunycode("пример.org"))
	assert.Equal(t, "xn--zn8h.cat", ToPunycode("\U0001F408.cat"))
}

func TestPercentEncodeRune(t *testing.T) {
	var sb strings.Builder
	PercentEncodeRune('a', &sb)
	PercentEncodeRune('/', &sb)
	assert.Equal(t, "a/", sb.String())

	sb.Reset()
	PercentEncodeRune('\U0001F408', &sb)
	assert.Equal(t, "%F0%9F%90%88", sb.String())

	sb.Reset()
	PercentEncodeRune('é', &sb)
	assert.Equal(t, "%C3%A9", sb.String())
}

func TestIsDomainName(t *testing.T) {
	assert.True(t, IsDomainName("example.org"))
	assert.True(t, IsDomainName("sub.example.org"))
	assert.True(t, IsDomainName("xn--zn8h.cat"))
	assert.False(t, IsDomainName(""))
	assert.False(t, IsDomainName("exa[mple.org"))
	assert.False(t, IsDomainName(strings.Repeat("a", 70)+".org"))
}
